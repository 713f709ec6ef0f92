package form

import (
	"testing"

	"github.com/billing/console/internal/domain/refdata"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func salesTableSpec() TableSpec {
	return *SalesOrderDefinition().Table
}

func recipeTableSpec() TableSpec {
	return *ProductionRecipeDefinition().Table
}

func TestNewTable_SeedsMinimumRows(t *testing.T) {
	tbl := NewTable(salesTableSpec())
	assert.Equal(t, 1, tbl.Len())

	tbl = NewTable(TableSpec{MinRows: 0})
	assert.Equal(t, 0, tbl.Len())
}

func TestTable_AddRemoveRow(t *testing.T) {
	tbl := NewTable(salesTableSpec())
	first := tbl.RowIDs()[0]

	added := tbl.AddRow()
	assert.Equal(t, 2, tbl.Len())
	assert.NotEqual(t, first, added)

	// addRow followed by removeRow of the same id restores the table
	require.NoError(t, tbl.RemoveRow(added))
	assert.Equal(t, []refdata.Identifier{first}, tbl.RowIDs())

	// the last remaining row cannot be removed under a min-rows policy of 1
	err := tbl.RemoveRow(first)
	require.Error(t, err)
	assert.Equal(t, 1, tbl.Len())

	err = tbl.RemoveRow("missing")
	assert.Error(t, err)
}

func TestTable_RowIDsAreNeverReused(t *testing.T) {
	tbl := NewTable(salesTableSpec())
	seen := map[refdata.Identifier]bool{tbl.RowIDs()[0]: true}
	for i := 0; i < 20; i++ {
		id := tbl.AddRow()
		assert.False(t, seen[id])
		seen[id] = true
		require.NoError(t, tbl.RemoveRow(id))
	}
}

func TestTable_SetNumberRecomputesTotal(t *testing.T) {
	tbl := NewTable(salesTableSpec())
	rowID := tbl.RowIDs()[0]

	require.NoError(t, tbl.SetNumber(rowID, ColQuantity, decimal.NewFromInt(2)))
	require.NoError(t, tbl.SetNumber(rowID, ColUnitPrice, decimal.NewFromInt(100)))
	assert.True(t, tbl.Rows()[0].TotalPrice.Equal(decimal.NewFromInt(200)))

	require.NoError(t, tbl.SetNumber(rowID, ColQuantity, decimal.NewFromInt(3)))
	assert.True(t, tbl.Rows()[0].TotalPrice.Equal(decimal.NewFromInt(300)))

	// a non-priced column does not disturb the total
	require.NoError(t, tbl.SetNumber(rowID, "rate", decimal.NewFromInt(7)))
	assert.True(t, tbl.Rows()[0].TotalPrice.Equal(decimal.NewFromInt(300)))
}

func TestTable_TotalPriceNotDirectlyEditable(t *testing.T) {
	tbl := NewTable(salesTableSpec())
	rowID := tbl.RowIDs()[0]

	err := tbl.SetNumber(rowID, ColTotalPrice, decimal.NewFromInt(999))
	require.Error(t, err)
}

func TestTable_DirectEntryTableHasNoDerivedTotal(t *testing.T) {
	tbl := NewTable(recipeTableSpec())
	rowID := tbl.RowIDs()[0]

	require.NoError(t, tbl.SetNumber(rowID, "quantityRequired", decimal.NewFromInt(5)))
	assert.True(t, tbl.Rows()[0].TotalPrice.IsZero())
}

func TestTable_SetNumberUnknownField(t *testing.T) {
	tbl := NewTable(salesTableSpec())
	rowID := tbl.RowIDs()[0]
	assert.Error(t, tbl.SetNumber(rowID, "nope", decimal.NewFromInt(1)))
	assert.Error(t, tbl.SetNumber(rowID, "remarks", decimal.NewFromInt(1)))
	assert.Error(t, tbl.SetNumber("missing", ColQuantity, decimal.NewFromInt(1)))
}

func TestTable_SumMatchesRecomputedProducts(t *testing.T) {
	tbl := NewTable(salesTableSpec())
	quantities := []int64{2, 3, 1}
	prices := []int64{100, 50, 200}

	ids := []refdata.Identifier{tbl.RowIDs()[0], tbl.AddRow(), tbl.AddRow()}
	for i, id := range ids {
		require.NoError(t, tbl.SetNumber(id, ColQuantity, decimal.NewFromInt(quantities[i])))
		require.NoError(t, tbl.SetNumber(id, ColUnitPrice, decimal.NewFromInt(prices[i])))
	}

	// repeated no-op updates leave the totals unchanged
	require.NoError(t, tbl.SetNumber(ids[1], ColQuantity, decimal.NewFromInt(quantities[1])))

	sum := decimal.Zero
	for i, r := range tbl.Rows() {
		expect := decimal.NewFromInt(quantities[i]).Mul(decimal.NewFromInt(prices[i]))
		assert.True(t, r.TotalPrice.Equal(expect))
		sum = sum.Add(r.TotalPrice)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(550)))
}

func TestTable_AutoFillDependentColumn(t *testing.T) {
	tbl := NewTable(salesTableSpec())
	rowID := tbl.RowIDs()[0]

	item := refdata.Identifier("12")
	record := &refdata.ReferenceRecord{ID: item, Label: "Cotton Shirt", ParentKeys: []refdata.Identifier{"3"}}
	require.NoError(t, tbl.SetRef(rowID, "readyItemId", &item, record))

	row := tbl.Rows()[0]
	assert.Equal(t, item, row.Refs["readyItemId"])
	assert.Equal(t, refdata.Identifier("3"), row.Refs["goodsTypeId"])
}

func TestTable_AutoFillNeverOverwritesUserValue(t *testing.T) {
	tbl := NewTable(salesTableSpec())
	rowID := tbl.RowIDs()[0]

	chosen := refdata.Identifier("9")
	require.NoError(t, tbl.SetRef(rowID, "goodsTypeId", &chosen, nil))

	item := refdata.Identifier("12")
	record := &refdata.ReferenceRecord{ID: item, ParentKeys: []refdata.Identifier{"3"}}
	require.NoError(t, tbl.SetRef(rowID, "readyItemId", &item, record))

	assert.Equal(t, chosen, tbl.Rows()[0].Refs["goodsTypeId"])
}

func TestTable_ClearRef(t *testing.T) {
	tbl := NewTable(salesTableSpec())
	rowID := tbl.RowIDs()[0]

	item := refdata.Identifier("12")
	require.NoError(t, tbl.SetRef(rowID, "readyItemId", &item, nil))
	require.NoError(t, tbl.SetRef(rowID, "readyItemId", nil, nil))
	_, set := tbl.Rows()[0].Refs["readyItemId"]
	assert.False(t, set)
}

func TestTable_DetectDuplicates(t *testing.T) {
	tbl := NewTable(recipeTableSpec())
	first := tbl.RowIDs()[0]
	second := tbl.AddRow()

	material := refdata.Identifier("7")
	require.NoError(t, tbl.SetRef(first, "rawMaterialId", &material, nil))
	require.NoError(t, tbl.SetRef(second, "rawMaterialId", &material, nil))

	dups := tbl.DetectDuplicates()
	assert.ElementsMatch(t, []refdata.Identifier{first, second}, dups)

	// changing either row's key removes both from the duplicate set
	other := refdata.Identifier("8")
	require.NoError(t, tbl.SetRef(second, "rawMaterialId", &other, nil))
	assert.Empty(t, tbl.DetectDuplicates())
}

func TestTable_DetectDuplicatesSkipsIncompleteRows(t *testing.T) {
	tbl := NewTable(recipeTableSpec())
	tbl.AddRow()
	// two blank rows do not count as duplicates of each other
	assert.Empty(t, tbl.DetectDuplicates())
}

func TestTable_ValidateRows(t *testing.T) {
	tbl := NewTable(salesTableSpec())
	rowID := tbl.RowIDs()[0]

	errs := tbl.ValidateRows()
	assert.Contains(t, errs, "item_"+rowID.String()+"_readyItemId")
	assert.Contains(t, errs, "item_"+rowID.String()+"_quality")
	assert.Contains(t, errs, "item_"+rowID.String()+"_quantity")
	assert.Contains(t, errs, "item_"+rowID.String()+"_unitPrice")

	item := refdata.Identifier("12")
	goods := refdata.Identifier("3")
	require.NoError(t, tbl.SetRef(rowID, "readyItemId", &item, nil))
	require.NoError(t, tbl.SetRef(rowID, "goodsTypeId", &goods, nil))
	require.NoError(t, tbl.SetText(rowID, "quality", "M1"))
	require.NoError(t, tbl.SetNumber(rowID, ColQuantity, decimal.NewFromInt(2)))
	require.NoError(t, tbl.SetNumber(rowID, ColUnitPrice, decimal.NewFromInt(100)))
	assert.Empty(t, tbl.ValidateRows())

	// zero quantity fails the positive rule
	require.NoError(t, tbl.SetNumber(rowID, ColQuantity, decimal.Zero))
	errs = tbl.ValidateRows()
	assert.Contains(t, errs, "item_"+rowID.String()+"_quantity")

	// invalid enum value
	require.NoError(t, tbl.SetText(rowID, "quality", "M9"))
	errs = tbl.ValidateRows()
	assert.Contains(t, errs, "item_"+rowID.String()+"_quality")
}

func TestTable_Reset(t *testing.T) {
	tbl := NewTable(salesTableSpec())
	old := tbl.RowIDs()[0]
	tbl.AddRow()
	tbl.AddRow()

	tbl.Reset()
	assert.Equal(t, 1, tbl.Len())
	assert.NotEqual(t, old, tbl.RowIDs()[0])
}

func TestTable_RowsAreCopies(t *testing.T) {
	tbl := NewTable(salesTableSpec())
	rowID := tbl.RowIDs()[0]
	require.NoError(t, tbl.SetText(rowID, "remarks", "original"))

	rows := tbl.Rows()
	rows[0].Texts["remarks"] = "mutated"
	assert.Equal(t, "original", tbl.Rows()[0].Texts["remarks"])
}
