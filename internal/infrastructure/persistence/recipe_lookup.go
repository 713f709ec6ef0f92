package persistence

import (
	"context"
	"fmt"
	"strconv"

	"github.com/billing/console/internal/application/forms"
	"github.com/billing/console/internal/domain/refdata"
	"gorm.io/gorm"
)

// RecipeEntryLookup loads the recipe entries already stored for a
// ready item and quality grade, shown as read-only context while a new
// recipe is being entered.
type RecipeEntryLookup struct {
	db *gorm.DB
}

// NewRecipeEntryLookup creates a new RecipeEntryLookup
func NewRecipeEntryLookup(db *gorm.DB) *RecipeEntryLookup {
	return &RecipeEntryLookup{db: db}
}

type recipeEntryRow struct {
	ID               int64
	RawMaterialID    int64
	RawMaterialName  string
	QuantityRequired string
	Unit             string
}

// Find implements forms.ExistingLookup
func (l *RecipeEntryLookup) Find(ctx context.Context, keys map[string]string) ([]forms.ExistingEntry, error) {
	readyItemID, err := strconv.ParseInt(keys["readyItemId"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ready item id %q: %w", keys["readyItemId"], err)
	}
	quality := keys["quality"]
	if quality == "" {
		return nil, fmt.Errorf("quality key is empty")
	}

	var rows []recipeEntryRow
	err = l.db.WithContext(ctx).
		Table("recipe_entries").
		Select("recipe_entries.id, recipe_entries.raw_material_id, raw_materials.name AS raw_material_name, recipe_entries.quantity_required, recipe_entries.unit").
		Joins("JOIN raw_materials ON raw_materials.id = recipe_entries.raw_material_id").
		Where("recipe_entries.ready_item_id = ? AND recipe_entries.quality = ?", readyItemID, quality).
		Order("raw_materials.name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe entries: %w", err)
	}

	entries := make([]forms.ExistingEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, forms.ExistingEntry{
			ID:    refdata.IdentifierFromInt(row.ID).String(),
			Label: row.RawMaterialName,
			Values: map[string]string{
				"rawMaterialId":    refdata.IdentifierFromInt(row.RawMaterialID).String(),
				"rawMaterialName":  row.RawMaterialName,
				"quantityRequired": row.QuantityRequired,
				"unit":             row.Unit,
			},
		})
	}
	return entries, nil
}

var _ forms.ExistingLookup = (*RecipeEntryLookup)(nil)
