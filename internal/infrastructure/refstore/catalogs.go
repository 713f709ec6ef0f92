package refstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/billing/console/internal/domain/form"
	"github.com/billing/console/internal/domain/refdata"
	"github.com/billing/console/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// Catalogs builds the full catalog set backing the form dropdowns,
// keyed by the names the form definitions reference them under.
func Catalogs(db *gorm.DB) map[string]refdata.Catalog {
	return map[string]refdata.Catalog{
		form.CatalogCountries:     &CountryCatalog{db: db},
		form.CatalogStates:        &StateCatalog{db: db},
		form.CatalogCities:        &CityCatalog{db: db},
		form.CatalogOrganizations: &OrganizationCatalog{db: db},
		form.CatalogCompanies:     &CompanyCatalog{db: db},
		form.CatalogBranches:      &BranchCatalog{db: db},
		form.CatalogDepartments:   &DepartmentCatalog{db: db},
		form.CatalogRoles:         &RoleCatalog{db: db},
		form.CatalogCustomers:     &CustomerCatalog{db: db},
		form.CatalogGoodsTypes:    &GoodsTypeCatalog{db: db},
		form.CatalogReadyItems:    &ReadyItemCatalog{db: db},
		form.CatalogRawMaterials:  &RawMaterialCatalog{db: db},
	}
}

// parentID decodes a parent identifier into the numeric id the
// reference tables key on. A nil parent yields ok=false; a non-numeric
// one is a wiring mistake and surfaces as an availability error rather
// than an empty option list.
func parentID(catalog string, parent *refdata.Identifier) (int64, bool, error) {
	if parent == nil {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(parent.String(), 10, 64)
	if err != nil {
		return 0, false, refdata.NewUnavailableError(catalog,
			fmt.Errorf("parent id %q is not numeric", parent.String()))
	}
	return id, true, nil
}

// CountryCatalog serves the root level of the address chain
type CountryCatalog struct {
	db *gorm.DB
}

// Name implements refdata.Catalog
func (c *CountryCatalog) Name() string { return form.CatalogCountries }

// Fetch implements refdata.Catalog
func (c *CountryCatalog) Fetch(ctx context.Context, _ *refdata.Identifier) ([]refdata.ReferenceRecord, error) {
	var rows []models.CountryModel
	if err := c.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, refdata.NewUnavailableError(c.Name(), err)
	}
	records := make([]refdata.ReferenceRecord, len(rows))
	for i, row := range rows {
		records[i] = refdata.ReferenceRecord{ID: refdata.IdentifierFromInt(row.ID), Label: row.Name}
	}
	return records, nil
}

// StateCatalog serves states filtered by country
type StateCatalog struct {
	db *gorm.DB
}

// Name implements refdata.Catalog
func (c *StateCatalog) Name() string { return form.CatalogStates }

// Fetch implements refdata.Catalog
func (c *StateCatalog) Fetch(ctx context.Context, parent *refdata.Identifier) ([]refdata.ReferenceRecord, error) {
	countryID, ok, err := parentID(c.Name(), parent)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var rows []models.StateModel
	if err := c.db.WithContext(ctx).Where("country_id = ?", countryID).Order("name").Find(&rows).Error; err != nil {
		return nil, refdata.NewUnavailableError(c.Name(), err)
	}
	records := make([]refdata.ReferenceRecord, len(rows))
	for i, row := range rows {
		records[i] = refdata.ReferenceRecord{ID: refdata.IdentifierFromInt(row.ID), Label: row.Name}
	}
	return records, nil
}

// CityCatalog serves cities filtered by state
type CityCatalog struct {
	db *gorm.DB
}

// Name implements refdata.Catalog
func (c *CityCatalog) Name() string { return form.CatalogCities }

// Fetch implements refdata.Catalog
func (c *CityCatalog) Fetch(ctx context.Context, parent *refdata.Identifier) ([]refdata.ReferenceRecord, error) {
	stateID, ok, err := parentID(c.Name(), parent)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var rows []models.CityModel
	if err := c.db.WithContext(ctx).Where("state_id = ?", stateID).Order("name").Find(&rows).Error; err != nil {
		return nil, refdata.NewUnavailableError(c.Name(), err)
	}
	records := make([]refdata.ReferenceRecord, len(rows))
	for i, row := range rows {
		records[i] = refdata.ReferenceRecord{ID: refdata.IdentifierFromInt(row.ID), Label: row.Name}
	}
	return records, nil
}

// OrganizationCatalog serves the root level of the org-unit chain
type OrganizationCatalog struct {
	db *gorm.DB
}

// Name implements refdata.Catalog
func (c *OrganizationCatalog) Name() string { return form.CatalogOrganizations }

// Fetch implements refdata.Catalog
func (c *OrganizationCatalog) Fetch(ctx context.Context, _ *refdata.Identifier) ([]refdata.ReferenceRecord, error) {
	var rows []models.OrganizationModel
	if err := c.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, refdata.NewUnavailableError(c.Name(), err)
	}
	records := make([]refdata.ReferenceRecord, len(rows))
	for i, row := range rows {
		records[i] = refdata.ReferenceRecord{ID: refdata.IdentifierFromInt(row.ID), Label: row.Name}
	}
	return records, nil
}

// CompanyCatalog serves companies filtered by organization
type CompanyCatalog struct {
	db *gorm.DB
}

// Name implements refdata.Catalog
func (c *CompanyCatalog) Name() string { return form.CatalogCompanies }

// Fetch implements refdata.Catalog
func (c *CompanyCatalog) Fetch(ctx context.Context, parent *refdata.Identifier) ([]refdata.ReferenceRecord, error) {
	orgID, ok, err := parentID(c.Name(), parent)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var rows []models.CompanyModel
	if err := c.db.WithContext(ctx).Where("organization_id = ?", orgID).Order("name").Find(&rows).Error; err != nil {
		return nil, refdata.NewUnavailableError(c.Name(), err)
	}
	records := make([]refdata.ReferenceRecord, len(rows))
	for i, row := range rows {
		records[i] = refdata.ReferenceRecord{ID: refdata.IdentifierFromInt(row.ID), Label: row.Name}
	}
	return records, nil
}

// BranchCatalog serves branches filtered by company
type BranchCatalog struct {
	db *gorm.DB
}

// Name implements refdata.Catalog
func (c *BranchCatalog) Name() string { return form.CatalogBranches }

// Fetch implements refdata.Catalog
func (c *BranchCatalog) Fetch(ctx context.Context, parent *refdata.Identifier) ([]refdata.ReferenceRecord, error) {
	companyID, ok, err := parentID(c.Name(), parent)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var rows []models.BranchModel
	if err := c.db.WithContext(ctx).Where("company_id = ?", companyID).Order("name").Find(&rows).Error; err != nil {
		return nil, refdata.NewUnavailableError(c.Name(), err)
	}
	records := make([]refdata.ReferenceRecord, len(rows))
	for i, row := range rows {
		records[i] = refdata.ReferenceRecord{ID: refdata.IdentifierFromInt(row.ID), Label: row.Name}
	}
	return records, nil
}

// DepartmentCatalog serves departments filtered by branch
type DepartmentCatalog struct {
	db *gorm.DB
}

// Name implements refdata.Catalog
func (c *DepartmentCatalog) Name() string { return form.CatalogDepartments }

// Fetch implements refdata.Catalog
func (c *DepartmentCatalog) Fetch(ctx context.Context, parent *refdata.Identifier) ([]refdata.ReferenceRecord, error) {
	branchID, ok, err := parentID(c.Name(), parent)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var rows []models.DepartmentModel
	if err := c.db.WithContext(ctx).Where("branch_id = ?", branchID).Order("name").Find(&rows).Error; err != nil {
		return nil, refdata.NewUnavailableError(c.Name(), err)
	}
	records := make([]refdata.ReferenceRecord, len(rows))
	for i, row := range rows {
		records[i] = refdata.ReferenceRecord{ID: refdata.IdentifierFromInt(row.ID), Label: row.Name}
	}
	return records, nil
}

// RoleCatalog serves the flat role dropdown
type RoleCatalog struct {
	db *gorm.DB
}

// Name implements refdata.Catalog
func (c *RoleCatalog) Name() string { return form.CatalogRoles }

// Fetch implements refdata.Catalog
func (c *RoleCatalog) Fetch(ctx context.Context, _ *refdata.Identifier) ([]refdata.ReferenceRecord, error) {
	var rows []models.RoleModel
	if err := c.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, refdata.NewUnavailableError(c.Name(), err)
	}
	records := make([]refdata.ReferenceRecord, len(rows))
	for i, row := range rows {
		records[i] = refdata.ReferenceRecord{ID: refdata.IdentifierFromInt(row.ID), Label: row.Name}
	}
	return records, nil
}

// CustomerCatalog serves the flat customer dropdown
type CustomerCatalog struct {
	db *gorm.DB
}

// Name implements refdata.Catalog
func (c *CustomerCatalog) Name() string { return form.CatalogCustomers }

// Fetch implements refdata.Catalog
func (c *CustomerCatalog) Fetch(ctx context.Context, _ *refdata.Identifier) ([]refdata.ReferenceRecord, error) {
	var rows []models.CustomerModel
	if err := c.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, refdata.NewUnavailableError(c.Name(), err)
	}
	records := make([]refdata.ReferenceRecord, len(rows))
	for i, row := range rows {
		records[i] = refdata.ReferenceRecord{ID: refdata.IdentifierFromInt(row.ID), Label: row.Name}
	}
	return records, nil
}

// GoodsTypeCatalog serves the flat goods-type dropdown
type GoodsTypeCatalog struct {
	db *gorm.DB
}

// Name implements refdata.Catalog
func (c *GoodsTypeCatalog) Name() string { return form.CatalogGoodsTypes }

// Fetch implements refdata.Catalog
func (c *GoodsTypeCatalog) Fetch(ctx context.Context, _ *refdata.Identifier) ([]refdata.ReferenceRecord, error) {
	var rows []models.GoodsTypeModel
	if err := c.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, refdata.NewUnavailableError(c.Name(), err)
	}
	records := make([]refdata.ReferenceRecord, len(rows))
	for i, row := range rows {
		records[i] = refdata.ReferenceRecord{ID: refdata.IdentifierFromInt(row.ID), Label: row.Name}
	}
	return records, nil
}

// ReadyItemCatalog serves ready items. Each record carries the item's
// goods type as its parent key so picking an item can default the goods
// type column.
type ReadyItemCatalog struct {
	db *gorm.DB
}

// Name implements refdata.Catalog
func (c *ReadyItemCatalog) Name() string { return form.CatalogReadyItems }

// Fetch implements refdata.Catalog
func (c *ReadyItemCatalog) Fetch(ctx context.Context, _ *refdata.Identifier) ([]refdata.ReferenceRecord, error) {
	var rows []models.ReadyItemModel
	if err := c.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, refdata.NewUnavailableError(c.Name(), err)
	}
	records := make([]refdata.ReferenceRecord, len(rows))
	for i, row := range rows {
		records[i] = refdata.ReferenceRecord{
			ID:         refdata.IdentifierFromInt(row.ID),
			Label:      row.Name,
			ParentKeys: []refdata.Identifier{refdata.IdentifierFromInt(row.GoodsTypeID)},
		}
	}
	return records, nil
}

// RawMaterialCatalog serves raw materials, carrying the goods type as a
// parent key where the material has one.
type RawMaterialCatalog struct {
	db *gorm.DB
}

// Name implements refdata.Catalog
func (c *RawMaterialCatalog) Name() string { return form.CatalogRawMaterials }

// Fetch implements refdata.Catalog
func (c *RawMaterialCatalog) Fetch(ctx context.Context, _ *refdata.Identifier) ([]refdata.ReferenceRecord, error) {
	var rows []models.RawMaterialModel
	if err := c.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, refdata.NewUnavailableError(c.Name(), err)
	}
	records := make([]refdata.ReferenceRecord, len(rows))
	for i, row := range rows {
		record := refdata.ReferenceRecord{ID: refdata.IdentifierFromInt(row.ID), Label: row.Name}
		if row.GoodsTypeID != nil {
			record.ParentKeys = []refdata.Identifier{refdata.IdentifierFromInt(*row.GoodsTypeID)}
		}
		records[i] = record
	}
	return records, nil
}
