package form

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowsWithTotals(totals ...float64) []Row {
	out := make([]Row, len(totals))
	for i, v := range totals {
		out[i] = Row{TotalPrice: decimal.NewFromFloat(v)}
	}
	return out
}

func TestComputeTotals_SalesOrderScenario(t *testing.T) {
	// quantities [2,3,1] at unit prices [100,50,200]
	rows := rowsWithTotals(200, 150, 200)
	totals := ComputeTotals(rows, decimal.NewFromInt(18), decimal.NewFromInt(200))

	assert.Equal(t, "550.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "99.00", totals.TaxAmount.StringFixed(2))
	assert.Equal(t, "649.00", totals.GrandTotal.StringFixed(2))
	assert.Equal(t, "449.00", totals.Balance.StringFixed(2))
}

func TestComputeTotals_ZeroTaxRate(t *testing.T) {
	totals := ComputeTotals(rowsWithTotals(100), decimal.Zero, decimal.Zero)
	assert.True(t, totals.TaxAmount.IsZero())
	assert.Equal(t, "100.00", totals.GrandTotal.StringFixed(2))
}

func TestComputeTotals_EmptyRows(t *testing.T) {
	totals := ComputeTotals(nil, decimal.NewFromInt(18), decimal.NewFromInt(50))
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.TaxAmount.IsZero())
	assert.True(t, totals.GrandTotal.IsZero())
	assert.Equal(t, "-50.00", totals.Balance.StringFixed(2))
}

func TestComputeTotals_BalanceInvariant(t *testing.T) {
	cases := []struct {
		rows []Row
		tax  int64
		paid float64
	}{
		{rowsWithTotals(200, 150, 200), 18, 200},
		{rowsWithTotals(0.1, 0.2, 0.3), 5, 0},
		{rowsWithTotals(), 0, 0},
		{rowsWithTotals(999.995), 12, 1000},
	}
	for _, tc := range cases {
		totals := ComputeTotals(tc.rows, decimal.NewFromInt(tc.tax), decimal.NewFromFloat(tc.paid))
		assert.True(t, totals.Balance.Equal(totals.GrandTotal.Sub(totals.PaidAmount)))
		assert.True(t, totals.GrandTotal.Equal(totals.Subtotal.Add(totals.TaxAmount)))
	}
}

func TestComputeTotals_RoundsHalfUp(t *testing.T) {
	// 100.005 rounds up, not to even
	totals := ComputeTotals(rowsWithTotals(100.005), decimal.Zero, decimal.Zero)
	assert.Equal(t, "100.01", totals.Subtotal.StringFixed(2))
}

func TestOrderTotals_MoneyAccessors(t *testing.T) {
	totals := ComputeTotals(rowsWithTotals(550), decimal.NewFromInt(18), decimal.NewFromInt(200))
	assert.Equal(t, "649.00 INR", totals.GrandTotalMoney().String())
	assert.Equal(t, "449.00 INR", totals.BalanceMoney().String())
}

func TestOrderTotals_SuggestedPaymentStatus(t *testing.T) {
	tests := []struct {
		name     string
		subtotal float64
		paid     float64
		expected PaymentStatus
	}{
		{"nothing paid", 100, 0, PaymentPending},
		{"fully paid", 100, 100, PaymentPaid},
		{"overpaid", 100, 150, PaymentPaid},
		{"partially paid", 100, 40, PaymentPartial},
		{"empty order", 0, 0, PaymentPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := ComputeTotals(rowsWithTotals(tt.subtotal), decimal.Zero, decimal.NewFromFloat(tt.paid))
			assert.Equal(t, tt.expected, totals.SuggestedPaymentStatus())
		})
	}
}

func TestPaymentStatus_IsValid(t *testing.T) {
	for _, s := range PaymentStatusValues() {
		assert.True(t, PaymentStatus(s).IsValid())
	}
	assert.False(t, PaymentStatus("SETTLED").IsValid())
	assert.False(t, PaymentStatus("").IsValid())
}

func TestPaymentStatus_String(t *testing.T) {
	require.Equal(t, "PENDING", PaymentPending.String())
}
