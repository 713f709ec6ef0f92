package form

import (
	"github.com/billing/console/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the settlement status of an order
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentOverdue PaymentStatus = "OVERDUE"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentPartial, PaymentOverdue:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// PaymentStatusValues lists the valid payment statuses in display order
func PaymentStatusValues() []string {
	return []string{
		string(PaymentPending),
		string(PaymentPaid),
		string(PaymentPartial),
		string(PaymentOverdue),
	}
}

// OrderTotals is the derived order-level ledger: subtotal of the line
// rows, tax on the subtotal, grand total, and the balance still owed
// after the paid amount. All values are rounded to 2 decimal places
// with half-up rounding.
type OrderTotals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxRate    decimal.Decimal `json:"taxRate"`
	TaxAmount  decimal.Decimal `json:"taxAmount"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
	PaidAmount decimal.Decimal `json:"paidAmount"`
	Balance    decimal.Decimal `json:"balance"`
}

// ComputeTotals folds the line rows and order-level modifiers into
// OrderTotals. It is pure and total: unset numeric inputs compute as
// zero, an empty row slice yields a zero subtotal, and it never
// errors. Validation of those same inputs is a separate concern.
func ComputeTotals(rows []Row, taxRate, paidAmount decimal.Decimal) OrderTotals {
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.TotalPrice)
	}

	subtotal := valueobject.NewMoneyINR(sum).Round2()
	tax := subtotal.TaxPortion(taxRate)
	grand := subtotal.MustAdd(tax)
	paid := valueobject.NewMoneyINR(paidAmount).Round2()
	balance := grand.MustSubtract(paid)

	return OrderTotals{
		Subtotal:   subtotal.Amount(),
		TaxRate:    taxRate,
		TaxAmount:  tax.Amount(),
		GrandTotal: grand.Amount(),
		PaidAmount: paid.Amount(),
		Balance:    balance.Amount(),
	}
}

// GrandTotalMoney returns the grand total as a Money value
func (t OrderTotals) GrandTotalMoney() valueobject.Money {
	return valueobject.NewMoneyINR(t.GrandTotal)
}

// BalanceMoney returns the outstanding balance as a Money value
func (t OrderTotals) BalanceMoney() valueobject.Money {
	return valueobject.NewMoneyINR(t.Balance)
}

// SuggestedPaymentStatus derives a payment status from the totals:
// fully covered is PAID, untouched is PENDING, anything between is
// PARTIAL. OVERDUE is a user decision, never suggested.
func (t OrderTotals) SuggestedPaymentStatus() PaymentStatus {
	switch {
	case t.GrandTotal.IsPositive() && !t.Balance.IsPositive():
		return PaymentPaid
	case t.PaidAmount.IsZero():
		return PaymentPending
	default:
		return PaymentPartial
	}
}
