package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesOrderModel maps to the sales_orders table
type SalesOrderModel struct {
	BaseModel
	CustomerID    int64           `gorm:"not null;index"`
	OrderDate     time.Time       `gorm:"not null"`
	Gst           decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Balance       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PaymentStatus string          `gorm:"size:20;not null"`
	Remarks       string          `gorm:"size:1000"`
	CreatedBy     string          `gorm:"size:64;index"`

	Items []SalesOrderItemModel `gorm:"foreignKey:SalesOrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for SalesOrderModel
func (SalesOrderModel) TableName() string { return "sales_orders" }

// SalesOrderItemModel maps to the sales_order_items table
type SalesOrderItemModel struct {
	BaseModel
	SalesOrderID int64           `gorm:"not null;index"`
	ReadyItemID  int64           `gorm:"not null;index"`
	Quality      string          `gorm:"size:10;not null"`
	GoodsTypeID  int64           `gorm:"not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(15,3);not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Rate         decimal.Decimal `gorm:"type:decimal(15,2)"`
	Report       decimal.Decimal `gorm:"type:decimal(15,3)"`
	Remarks      string          `gorm:"size:500"`
}

// TableName returns the table name for SalesOrderItemModel
func (SalesOrderItemModel) TableName() string { return "sales_order_items" }

// PurchaseOrderModel maps to the purchase_orders table
type PurchaseOrderModel struct {
	BaseModel
	CustomerID    int64           `gorm:"not null;index"`
	OrderDate     time.Time       `gorm:"not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Balance       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PaymentStatus string          `gorm:"size:20;not null"`
	Remarks       string          `gorm:"size:1000"`
	CreatedBy     string          `gorm:"size:64;index"`

	Items []PurchaseOrderItemModel `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for PurchaseOrderModel
func (PurchaseOrderModel) TableName() string { return "purchase_orders" }

// PurchaseOrderItemModel maps to the purchase_order_items table
type PurchaseOrderItemModel struct {
	BaseModel
	PurchaseOrderID int64           `gorm:"not null;index"`
	RawMaterialID   int64           `gorm:"not null;index"`
	GoodsTypeID     int64           `gorm:"not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(15,3);not null"`
	NetQuantity     decimal.Decimal `gorm:"type:decimal(15,3)"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Remarks         string          `gorm:"size:500"`
}

// TableName returns the table name for PurchaseOrderItemModel
func (PurchaseOrderItemModel) TableName() string { return "purchase_order_items" }

// RecipeEntryModel maps to the recipe_entries table. One row is one raw
// material requirement of a ready item at a quality grade.
type RecipeEntryModel struct {
	BaseModel
	ReadyItemID      int64           `gorm:"not null;uniqueIndex:idx_recipe_entry"`
	Quality          string          `gorm:"size:10;not null;uniqueIndex:idx_recipe_entry"`
	RawMaterialID    int64           `gorm:"not null;uniqueIndex:idx_recipe_entry"`
	QuantityRequired decimal.Decimal `gorm:"type:decimal(15,3);not null"`
	Unit             string          `gorm:"size:20;not null"`
	CreatedBy        string          `gorm:"size:64;index"`
}

// TableName returns the table name for RecipeEntryModel
func (RecipeEntryModel) TableName() string { return "recipe_entries" }
