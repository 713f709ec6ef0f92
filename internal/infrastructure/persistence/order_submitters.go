package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/billing/console/internal/application/forms"
	"github.com/billing/console/internal/domain/form"
	"github.com/billing/console/internal/domain/refdata"
	"github.com/billing/console/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// selectionID extracts the selected identifier of one selector level
// from a submitted payload and converts it to a database id.
func selectionID(p form.Payload, selector, level string) (int64, error) {
	levels, ok := p.Selections[selector]
	if !ok {
		return 0, fmt.Errorf("selection %q missing from payload", selector)
	}
	id, ok := levels[level]
	if !ok || id == nil {
		return 0, fmt.Errorf("selection %q.%q is empty", selector, level)
	}
	return id.Int64()
}

func rowRefID(refs map[string]refdata.Identifier, column string) (int64, error) {
	id, ok := refs[column]
	if !ok {
		return 0, fmt.Errorf("row reference %q is empty", column)
	}
	return id.Int64()
}

func parseOrderDate(p form.Payload) (time.Time, error) {
	raw, ok := p.TextFields["orderDate"]
	if !ok || raw == "" {
		return time.Time{}, fmt.Errorf("orderDate missing from payload")
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid orderDate %q: %w", raw, err)
	}
	return t, nil
}

// SalesOrderSubmitter persists submitted sales order payloads
type SalesOrderSubmitter struct {
	db *gorm.DB
}

// NewSalesOrderSubmitter creates a new SalesOrderSubmitter
func NewSalesOrderSubmitter(db *gorm.DB) *SalesOrderSubmitter {
	return &SalesOrderSubmitter{db: db}
}

// Submit implements forms.Submitter. The whole order, header and
// items, is written in one transaction.
func (s *SalesOrderSubmitter) Submit(ctx context.Context, p form.Payload) (string, error) {
	customerID, err := selectionID(p, "customer", "customerId")
	if err != nil {
		return "", err
	}
	orderDate, err := parseOrderDate(p)
	if err != nil {
		return "", err
	}
	if p.Totals == nil {
		return "", fmt.Errorf("sales order payload has no totals")
	}

	order := models.SalesOrderModel{
		CustomerID:    customerID,
		OrderDate:     orderDate,
		Gst:           p.Totals.TaxRate,
		Subtotal:      p.Totals.Subtotal,
		TaxAmount:     p.Totals.TaxAmount,
		GrandTotal:    p.Totals.GrandTotal,
		PaidAmount:    p.Totals.PaidAmount,
		Balance:       p.Totals.Balance,
		PaymentStatus: p.TextFields["paymentStatus"],
		Remarks:       p.TextFields["remarks"],
		CreatedBy:     p.Actor.UserID.String(),
	}

	for _, row := range p.Rows {
		readyItemID, err := rowRefID(row.Refs, "readyItemId")
		if err != nil {
			return "", err
		}
		goodsTypeID, err := rowRefID(row.Refs, "goodsTypeId")
		if err != nil {
			return "", err
		}
		order.Items = append(order.Items, models.SalesOrderItemModel{
			ReadyItemID: readyItemID,
			Quality:     row.Texts["quality"],
			GoodsTypeID: goodsTypeID,
			Quantity:    row.Numbers[form.ColQuantity],
			UnitPrice:   row.Numbers[form.ColUnitPrice],
			TotalPrice:  row.TotalPrice,
			Rate:        row.Numbers["rate"],
			Report:      row.Numbers["report"],
			Remarks:     row.Texts["remarks"],
		})
	}

	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		return "", fmt.Errorf("failed to save sales order: %w", err)
	}
	return refdata.IdentifierFromInt(order.ID).String(), nil
}

// PurchaseOrderSubmitter persists submitted purchase order payloads
type PurchaseOrderSubmitter struct {
	db *gorm.DB
}

// NewPurchaseOrderSubmitter creates a new PurchaseOrderSubmitter
func NewPurchaseOrderSubmitter(db *gorm.DB) *PurchaseOrderSubmitter {
	return &PurchaseOrderSubmitter{db: db}
}

// Submit implements forms.Submitter
func (s *PurchaseOrderSubmitter) Submit(ctx context.Context, p form.Payload) (string, error) {
	customerID, err := selectionID(p, "customer", "customerId")
	if err != nil {
		return "", err
	}
	orderDate, err := parseOrderDate(p)
	if err != nil {
		return "", err
	}
	if p.Totals == nil {
		return "", fmt.Errorf("purchase order payload has no totals")
	}

	order := models.PurchaseOrderModel{
		CustomerID:    customerID,
		OrderDate:     orderDate,
		Subtotal:      p.Totals.Subtotal,
		GrandTotal:    p.Totals.GrandTotal,
		PaidAmount:    p.Totals.PaidAmount,
		Balance:       p.Totals.Balance,
		PaymentStatus: p.TextFields["paymentStatus"],
		Remarks:       p.TextFields["remarks"],
		CreatedBy:     p.Actor.UserID.String(),
	}

	for _, row := range p.Rows {
		rawMaterialID, err := rowRefID(row.Refs, "rawMaterialId")
		if err != nil {
			return "", err
		}
		goodsTypeID, err := rowRefID(row.Refs, "goodsTypeId")
		if err != nil {
			return "", err
		}
		order.Items = append(order.Items, models.PurchaseOrderItemModel{
			RawMaterialID: rawMaterialID,
			GoodsTypeID:   goodsTypeID,
			Quantity:      row.Numbers[form.ColQuantity],
			NetQuantity:   row.Numbers["netQuantity"],
			UnitPrice:     row.Numbers[form.ColUnitPrice],
			TotalPrice:    row.TotalPrice,
			Remarks:       row.Texts["remarks"],
		})
	}

	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		return "", fmt.Errorf("failed to save purchase order: %w", err)
	}
	return refdata.IdentifierFromInt(order.ID).String(), nil
}

// RecipeSubmitter persists submitted production recipe payloads. Each
// table row becomes one recipe entry for the selected ready item and
// quality grade.
type RecipeSubmitter struct {
	db *gorm.DB
}

// NewRecipeSubmitter creates a new RecipeSubmitter
func NewRecipeSubmitter(db *gorm.DB) *RecipeSubmitter {
	return &RecipeSubmitter{db: db}
}

// Submit implements forms.Submitter
func (s *RecipeSubmitter) Submit(ctx context.Context, p form.Payload) (string, error) {
	readyItemID, err := selectionID(p, "readyItem", "readyItemId")
	if err != nil {
		return "", err
	}
	quality := p.TextFields["quality"]
	if quality == "" {
		return "", fmt.Errorf("quality missing from payload")
	}
	if len(p.Rows) == 0 {
		return "", fmt.Errorf("recipe payload has no rows")
	}

	entries := make([]models.RecipeEntryModel, 0, len(p.Rows))
	for _, row := range p.Rows {
		rawMaterialID, err := rowRefID(row.Refs, "rawMaterialId")
		if err != nil {
			return "", err
		}
		entries = append(entries, models.RecipeEntryModel{
			ReadyItemID:      readyItemID,
			Quality:          quality,
			RawMaterialID:    rawMaterialID,
			QuantityRequired: row.Numbers["quantityRequired"],
			Unit:             row.Texts["unit"],
			CreatedBy:        p.Actor.UserID.String(),
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range entries {
			if err := tx.Create(&entries[i]).Error; err != nil {
				return fmt.Errorf("failed to save recipe entry: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return refdata.IdentifierFromInt(entries[0].ID).String(), nil
}

var (
	_ forms.Submitter = (*SalesOrderSubmitter)(nil)
	_ forms.Submitter = (*PurchaseOrderSubmitter)(nil)
	_ forms.Submitter = (*RecipeSubmitter)(nil)
)
