package form

import "github.com/billing/console/internal/domain/refdata"

// Catalog names the built-in definitions bind to
const (
	CatalogOrganizations = "organizations"
	CatalogCompanies     = "companies"
	CatalogBranches      = "branches"
	CatalogDepartments   = "departments"
	CatalogCountries     = "countries"
	CatalogStates        = "states"
	CatalogCities        = "cities"
	CatalogCustomers     = "customers"
	CatalogReadyItems    = "readyItems"
	CatalogRawMaterials  = "rawMaterials"
	CatalogGoodsTypes    = "goodsTypes"
	CatalogRoles         = "roles"
)

// QualityValues lists the quality grades used across order and recipe forms
func QualityValues() []string {
	return []string{"M1", "M2", "M3"}
}

// SalesOrderDefinition is the sales order creation form: customer
// dropdown, multi-line ready-item table with auto-filled goods type,
// and GST-bearing derived totals.
func SalesOrderDefinition() Definition {
	return Definition{
		Name:  "sales_order",
		Title: "Create Sales Order",
		Selectors: []SelectorSpec{
			{Name: "customer", Required: true, Levels: []refdata.LevelDef{
				{Name: "customerId", Catalog: CatalogCustomers},
			}},
			{Name: "readyItems", Levels: []refdata.LevelDef{
				{Name: "readyItemId", Catalog: CatalogReadyItems},
			}},
			{Name: "goodsTypes", Levels: []refdata.LevelDef{
				{Name: "goodsTypeId", Catalog: CatalogGoodsTypes},
			}},
		},
		Fields: []FieldSpec{
			{Name: "orderDate", Kind: KindDate, Required: true, Default: DefaultToday},
			{Name: "gst", Kind: KindNumber, NonNegative: true, Default: "0"},
			{Name: "paidAmount", Kind: KindNumber, NonNegative: true, Default: "0"},
			{Name: "paymentStatus", Kind: KindEnum, Required: true, Enum: PaymentStatusValues(), Default: string(PaymentPending)},
			{Name: "remarks", Kind: KindText},
		},
		Table: &TableSpec{
			MinRows:   1,
			AutoTotal: true,
			Columns: []FieldSpec{
				{Name: "readyItemId", Kind: KindReference, Required: true, OptionsFrom: "readyItems"},
				{Name: "quality", Kind: KindEnum, Required: true, Enum: QualityValues()},
				{Name: "goodsTypeId", Kind: KindReference, Required: true, OptionsFrom: "goodsTypes"},
				{Name: ColQuantity, Kind: KindNumber, Required: true, Positive: true},
				{Name: ColUnitPrice, Kind: KindNumber, Required: true, Positive: true},
				{Name: ColTotalPrice, Kind: KindNumber, NonNegative: true},
				{Name: "rate", Kind: KindNumber, NonNegative: true},
				{Name: "report", Kind: KindNumber},
				{Name: "remarks", Kind: KindText},
			},
			AutoFill: []AutoFillRule{{From: "readyItemId", To: "goodsTypeId"}},
		},
		Totals: &TotalsSpec{TaxRateField: "gst", PaidAmountField: "paidAmount"},
	}
}

// PurchaseOrderDefinition is the purchase order creation form:
// raw-material rows with duplicate rejection and untaxed derived totals.
func PurchaseOrderDefinition() Definition {
	return Definition{
		Name:  "purchase_order",
		Title: "Create Purchase Order",
		Selectors: []SelectorSpec{
			{Name: "customer", Required: true, Levels: []refdata.LevelDef{
				{Name: "customerId", Catalog: CatalogCustomers},
			}},
			{Name: "rawMaterials", Levels: []refdata.LevelDef{
				{Name: "rawMaterialId", Catalog: CatalogRawMaterials},
			}},
			{Name: "goodsTypes", Levels: []refdata.LevelDef{
				{Name: "goodsTypeId", Catalog: CatalogGoodsTypes},
			}},
		},
		Fields: []FieldSpec{
			{Name: "orderDate", Kind: KindDate, Required: true, Default: DefaultToday},
			{Name: "paidAmount", Kind: KindNumber, NonNegative: true, Default: "0"},
			{Name: "paymentStatus", Kind: KindEnum, Required: true, Enum: PaymentStatusValues(), Default: string(PaymentPending)},
			{Name: "remarks", Kind: KindText},
		},
		Table: &TableSpec{
			MinRows:   1,
			AutoTotal: true,
			Columns: []FieldSpec{
				{Name: "rawMaterialId", Kind: KindReference, Required: true, OptionsFrom: "rawMaterials"},
				{Name: "goodsTypeId", Kind: KindReference, Required: true, OptionsFrom: "goodsTypes"},
				{Name: ColQuantity, Kind: KindNumber, Required: true, Positive: true},
				{Name: "netQuantity", Kind: KindNumber, NonNegative: true},
				{Name: ColUnitPrice, Kind: KindNumber, Required: true, Positive: true},
				{Name: ColTotalPrice, Kind: KindNumber, NonNegative: true},
				{Name: "remarks", Kind: KindText},
			},
			KeyFields: []string{"rawMaterialId"},
			AutoFill:  []AutoFillRule{{From: "rawMaterialId", To: "goodsTypeId"}},
		},
		Totals: &TotalsSpec{PaidAmountField: "paidAmount"},
	}
}

// ProductionRecipeDefinition is the BOM entry form: a ready item and
// quality grade select the recipe, raw-material rows are entered
// directly (no derived row total), duplicates are rejected, and
// already-recorded entries for the pair are shown as read-only context.
func ProductionRecipeDefinition() Definition {
	return Definition{
		Name:  "production_recipe",
		Title: "Create Production Recipe",
		Selectors: []SelectorSpec{
			{Name: "readyItem", Required: true, Levels: []refdata.LevelDef{
				{Name: "readyItemId", Catalog: CatalogReadyItems},
			}},
			{Name: "rawMaterials", Levels: []refdata.LevelDef{
				{Name: "rawMaterialId", Catalog: CatalogRawMaterials},
			}},
		},
		Fields: []FieldSpec{
			{Name: "quality", Kind: KindEnum, Required: true, Enum: QualityValues()},
		},
		Table: &TableSpec{
			MinRows: 1,
			Columns: []FieldSpec{
				{Name: "rawMaterialId", Kind: KindReference, Required: true, OptionsFrom: "rawMaterials"},
				{Name: "quantityRequired", Kind: KindNumber, Required: true, Positive: true},
				{Name: "unit", Kind: KindText, Required: true},
			},
			KeyFields: []string{"rawMaterialId"},
		},
		Lookup: &LookupSpec{
			Name: "recipeEntries",
			Keys: []LookupKey{
				{Selector: "readyItem", Level: 0},
				{Field: "quality"},
			},
		},
	}
}

// BranchDefinition is the branch creation form: a pinned
// organization/company chain plus the country/state/city address chain.
func BranchDefinition() Definition {
	return Definition{
		Name:  "branch",
		Title: "Create Branch",
		Selectors: []SelectorSpec{
			{Name: "company", Required: true, PinRootToOrganization: true, Levels: []refdata.LevelDef{
				{Name: "organizationId", Catalog: CatalogOrganizations},
				{Name: "companyId", Catalog: CatalogCompanies},
			}},
			{Name: "address", Required: true, Levels: []refdata.LevelDef{
				{Name: "countryId", Catalog: CatalogCountries},
				{Name: "stateId", Catalog: CatalogStates},
				{Name: "cityId", Catalog: CatalogCities},
			}},
		},
		Fields: []FieldSpec{
			{Name: "name", Kind: KindText, Required: true},
			{Name: "addressLine", Kind: KindText},
			{Name: "pincode", Kind: KindText},
		},
	}
}

// DepartmentDefinition is the department creation form: the
// organization/company/branch chain with the root pinned for
// non-admin actors.
func DepartmentDefinition() Definition {
	return Definition{
		Name:  "department",
		Title: "Create Department",
		Selectors: []SelectorSpec{
			{Name: "orgUnit", Required: true, PinRootToOrganization: true, Levels: []refdata.LevelDef{
				{Name: "organizationId", Catalog: CatalogOrganizations},
				{Name: "companyId", Catalog: CatalogCompanies},
				{Name: "branchId", Catalog: CatalogBranches},
			}},
		},
		Fields: []FieldSpec{
			{Name: "name", Kind: KindText, Required: true},
		},
	}
}

// UserDefinition is the user creation form: the full
// organization/company/branch/department chain plus a role dropdown.
func UserDefinition() Definition {
	return Definition{
		Name:  "user",
		Title: "Create User",
		Selectors: []SelectorSpec{
			{Name: "orgUnit", Required: true, PinRootToOrganization: true, Levels: []refdata.LevelDef{
				{Name: "organizationId", Catalog: CatalogOrganizations},
				{Name: "companyId", Catalog: CatalogCompanies},
				{Name: "branchId", Catalog: CatalogBranches},
				{Name: "departmentId", Catalog: CatalogDepartments},
			}},
			{Name: "role", Required: true, Levels: []refdata.LevelDef{
				{Name: "roleId", Catalog: CatalogRoles},
			}},
		},
		Fields: []FieldSpec{
			{Name: "username", Kind: KindText, Required: true},
			{Name: "email", Kind: KindText, Required: true},
			{Name: "phone", Kind: KindText},
		},
	}
}

// BuiltinRegistry returns a registry preloaded with every built-in
// form definition.
func BuiltinRegistry() (*Registry, error) {
	r := NewRegistry()
	for _, def := range []Definition{
		SalesOrderDefinition(),
		PurchaseOrderDefinition(),
		ProductionRecipeDefinition(),
		BranchDefinition(),
		DepartmentDefinition(),
		UserDefinition(),
	} {
		if err := r.Register(def); err != nil {
			return nil, err
		}
	}
	return r, nil
}
