package models

// Reference-data tables backing the form dropdowns. The geographic and
// organizational chains carry the parent foreign key a cascading
// selector filters on; item masters carry the foreign keys exposed as
// dependent defaults.

// CountryModel maps to the countries table
type CountryModel struct {
	BaseModel
	Name string `gorm:"size:100;not null;uniqueIndex"`
}

// TableName returns the table name for CountryModel
func (CountryModel) TableName() string { return "countries" }

// StateModel maps to the states table
type StateModel struct {
	BaseModel
	Name      string `gorm:"size:100;not null"`
	CountryID int64  `gorm:"not null;index"`
}

// TableName returns the table name for StateModel
func (StateModel) TableName() string { return "states" }

// CityModel maps to the cities table
type CityModel struct {
	BaseModel
	Name    string `gorm:"size:100;not null"`
	StateID int64  `gorm:"not null;index"`
}

// TableName returns the table name for CityModel
func (CityModel) TableName() string { return "cities" }

// OrganizationModel maps to the organizations table
type OrganizationModel struct {
	BaseModel
	Name string `gorm:"size:200;not null;uniqueIndex"`
}

// TableName returns the table name for OrganizationModel
func (OrganizationModel) TableName() string { return "organizations" }

// CompanyModel maps to the companies table
type CompanyModel struct {
	BaseModel
	Name           string `gorm:"size:200;not null"`
	OrganizationID int64  `gorm:"not null;index"`
}

// TableName returns the table name for CompanyModel
func (CompanyModel) TableName() string { return "companies" }

// BranchModel maps to the branches table
type BranchModel struct {
	BaseModel
	Name        string `gorm:"size:200;not null"`
	CompanyID   int64  `gorm:"not null;index"`
	CityID      *int64 `gorm:"index"`
	AddressLine string `gorm:"size:500"`
	Pincode     string `gorm:"size:20"`
}

// TableName returns the table name for BranchModel
func (BranchModel) TableName() string { return "branches" }

// DepartmentModel maps to the departments table
type DepartmentModel struct {
	BaseModel
	Name     string `gorm:"size:200;not null"`
	BranchID int64  `gorm:"not null;index"`
}

// TableName returns the table name for DepartmentModel
func (DepartmentModel) TableName() string { return "departments" }

// RoleModel maps to the roles table
type RoleModel struct {
	BaseModel
	Name string `gorm:"size:100;not null;uniqueIndex"`
}

// TableName returns the table name for RoleModel
func (RoleModel) TableName() string { return "roles" }

// CustomerModel maps to the customers table
type CustomerModel struct {
	BaseModel
	Name  string `gorm:"size:200;not null"`
	Phone string `gorm:"size:20"`
	Email string `gorm:"size:200"`
}

// TableName returns the table name for CustomerModel
func (CustomerModel) TableName() string { return "customers" }

// GoodsTypeModel maps to the goods_types table
type GoodsTypeModel struct {
	BaseModel
	Name string `gorm:"size:100;not null;uniqueIndex"`
}

// TableName returns the table name for GoodsTypeModel
func (GoodsTypeModel) TableName() string { return "goods_types" }

// ReadyItemModel maps to the ready_items table. GoodsTypeID is the
// dependent default a sales order row inherits when the item is picked.
type ReadyItemModel struct {
	BaseModel
	Name        string `gorm:"size:200;not null"`
	GoodsTypeID int64  `gorm:"not null;index"`
}

// TableName returns the table name for ReadyItemModel
func (ReadyItemModel) TableName() string { return "ready_items" }

// RawMaterialModel maps to the raw_materials table
type RawMaterialModel struct {
	BaseModel
	Name        string `gorm:"size:200;not null"`
	GoodsTypeID *int64 `gorm:"index"`
	Unit        string `gorm:"size:20"`
}

// TableName returns the table name for RawMaterialModel
func (RawMaterialModel) TableName() string { return "raw_materials" }
