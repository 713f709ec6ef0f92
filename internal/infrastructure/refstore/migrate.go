package refstore

import (
	"fmt"

	"github.com/billing/console/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table the console uses. The
// schema is owned by the gorm models so the same definitions serve
// both the sqlite development driver and postgres.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.CountryModel{},
		&models.StateModel{},
		&models.CityModel{},
		&models.OrganizationModel{},
		&models.CompanyModel{},
		&models.BranchModel{},
		&models.DepartmentModel{},
		&models.RoleModel{},
		&models.CustomerModel{},
		&models.GoodsTypeModel{},
		&models.ReadyItemModel{},
		&models.RawMaterialModel{},
		&models.SalesOrderModel{},
		&models.SalesOrderItemModel{},
		&models.PurchaseOrderModel{},
		&models.PurchaseOrderItemModel{},
		&models.RecipeEntryModel{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Seed loads a small development dataset covering every catalog. It is
// idempotent: a database that already has countries is left untouched.
func Seed(db *gorm.DB) error {
	var countries int64
	if err := db.Model(&models.CountryModel{}).Count(&countries).Error; err != nil {
		return fmt.Errorf("failed to check seed state: %w", err)
	}
	if countries > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		india := models.CountryModel{Name: "India"}
		us := models.CountryModel{Name: "United States"}
		if err := tx.Create(&india).Error; err != nil {
			return err
		}
		if err := tx.Create(&us).Error; err != nil {
			return err
		}

		maharashtra := models.StateModel{Name: "Maharashtra", CountryID: india.ID}
		gujarat := models.StateModel{Name: "Gujarat", CountryID: india.ID}
		california := models.StateModel{Name: "California", CountryID: us.ID}
		for _, s := range []*models.StateModel{&maharashtra, &gujarat, &california} {
			if err := tx.Create(s).Error; err != nil {
				return err
			}
		}

		mumbai := models.CityModel{Name: "Mumbai", StateID: maharashtra.ID}
		cities := []*models.CityModel{
			&mumbai,
			{Name: "Pune", StateID: maharashtra.ID},
			{Name: "Surat", StateID: gujarat.ID},
			{Name: "San Francisco", StateID: california.ID},
		}
		for _, c := range cities {
			if err := tx.Create(c).Error; err != nil {
				return err
			}
		}

		org := models.OrganizationModel{Name: "Acme Group"}
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		textiles := models.CompanyModel{Name: "Acme Textiles", OrganizationID: org.ID}
		exports := models.CompanyModel{Name: "Acme Exports", OrganizationID: org.ID}
		for _, c := range []*models.CompanyModel{&textiles, &exports} {
			if err := tx.Create(c).Error; err != nil {
				return err
			}
		}
		branch := models.BranchModel{Name: "Mumbai Mill", CompanyID: textiles.ID, CityID: &mumbai.ID, AddressLine: "Plot 14, MIDC", Pincode: "400001"}
		if err := tx.Create(&branch).Error; err != nil {
			return err
		}
		departments := []models.DepartmentModel{
			{Name: "Weaving", BranchID: branch.ID},
			{Name: "Dispatch", BranchID: branch.ID},
		}
		if err := tx.Create(&departments).Error; err != nil {
			return err
		}

		roles := []models.RoleModel{
			{Name: "System_Admin"},
			{Name: "Org_Admin"},
			{Name: "Operator"},
		}
		if err := tx.Create(&roles).Error; err != nil {
			return err
		}

		customers := []models.CustomerModel{
			{Name: "Sharma Traders", Phone: "9820000001", Email: "orders@sharmatraders.example"},
			{Name: "Patel Fabrics", Phone: "9820000002"},
		}
		if err := tx.Create(&customers).Error; err != nil {
			return err
		}

		cotton := models.GoodsTypeModel{Name: "Cotton"}
		silk := models.GoodsTypeModel{Name: "Silk"}
		for _, g := range []*models.GoodsTypeModel{&cotton, &silk} {
			if err := tx.Create(g).Error; err != nil {
				return err
			}
		}

		readyItems := []models.ReadyItemModel{
			{Name: "Cotton Saree", GoodsTypeID: cotton.ID},
			{Name: "Silk Saree", GoodsTypeID: silk.ID},
			{Name: "Cotton Dhoti", GoodsTypeID: cotton.ID},
		}
		if err := tx.Create(&readyItems).Error; err != nil {
			return err
		}

		rawMaterials := []models.RawMaterialModel{
			{Name: "Cotton Yarn", GoodsTypeID: &cotton.ID, Unit: "kg"},
			{Name: "Silk Yarn", GoodsTypeID: &silk.ID, Unit: "kg"},
			{Name: "Dye", Unit: "litre"},
		}
		if err := tx.Create(&rawMaterials).Error; err != nil {
			return err
		}

		return nil
	})
}
