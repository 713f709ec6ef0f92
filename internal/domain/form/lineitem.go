package form

import (
	"fmt"
	"strings"

	"github.com/billing/console/internal/domain/refdata"
	"github.com/billing/console/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Well-known table column names
const (
	ColQuantity   = "quantity"
	ColUnitPrice  = "unitPrice"
	ColTotalPrice = "totalPrice"
)

// Row is one editable line of a line-item table. RowID is a freshly
// generated opaque id, never reused, so keyed rendering stays stable
// across reorders.
type Row struct {
	ID         refdata.Identifier
	Refs       map[string]refdata.Identifier
	Numbers    map[string]decimal.Decimal
	Texts      map[string]string
	TotalPrice decimal.Decimal
}

func newRow() *Row {
	return &Row{
		ID:         refdata.Identifier(uuid.NewString()),
		Refs:       make(map[string]refdata.Identifier),
		Numbers:    make(map[string]decimal.Decimal),
		Texts:      make(map[string]string),
		TotalPrice: decimal.Zero,
	}
}

// Clone returns a deep copy of the row
func (r *Row) Clone() Row {
	out := Row{ID: r.ID, TotalPrice: r.TotalPrice}
	out.Refs = make(map[string]refdata.Identifier, len(r.Refs))
	for k, v := range r.Refs {
		out.Refs[k] = v
	}
	out.Numbers = make(map[string]decimal.Decimal, len(r.Numbers))
	for k, v := range r.Numbers {
		out.Numbers[k] = v
	}
	out.Texts = make(map[string]string, len(r.Texts))
	for k, v := range r.Texts {
		out.Texts[k] = v
	}
	return out
}

// Number returns the numeric value of a column, zero when unset
func (r *Row) Number(field string) decimal.Decimal {
	if v, ok := r.Numbers[field]; ok {
		return v
	}
	return decimal.Zero
}

// Table is an ordered collection of editable rows governed by a
// TableSpec: minimum-row policy, derived row totals, auto-filled
// dependent columns, and duplicate detection on the key-field tuple.
type Table struct {
	spec TableSpec
	rows []*Row
}

// NewTable creates a table and seeds it to the configured minimum row count
func NewTable(spec TableSpec) *Table {
	t := &Table{spec: spec}
	for len(t.rows) < spec.MinRows {
		t.rows = append(t.rows, newRow())
	}
	return t
}

// Spec returns the table's spec
func (t *Table) Spec() TableSpec {
	return t.spec
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns deep copies of all rows in order
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Clone()
	}
	return out
}

// RowIDs returns the row ids in order
func (t *Table) RowIDs() []refdata.Identifier {
	out := make([]refdata.Identifier, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.ID
	}
	return out
}

func (t *Table) row(rowID refdata.Identifier) (*Row, error) {
	for _, r := range t.rows {
		if r.ID == rowID {
			return r, nil
		}
	}
	return nil, shared.NewDomainError("ROW_NOT_FOUND", fmt.Sprintf("row %s not found", rowID))
}

// AddRow appends a blank row and returns its id
func (t *Table) AddRow() refdata.Identifier {
	r := newRow()
	t.rows = append(t.rows, r)
	return r.ID
}

// RemoveRow removes the row unless doing so would drop the table below
// its minimum row count, in which case the operation is rejected.
func (t *Table) RemoveRow(rowID refdata.Identifier) error {
	if len(t.rows) <= t.spec.MinRows {
		return shared.NewDomainError("MIN_ROWS", fmt.Sprintf("table requires at least %d row(s)", t.spec.MinRows))
	}
	for i, r := range t.rows {
		if r.ID == rowID {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return nil
		}
	}
	return shared.NewDomainError("ROW_NOT_FOUND", fmt.Sprintf("row %s not found", rowID))
}

// SetNumber sets a numeric column. Setting quantity or unitPrice on an
// auto-totaling table recomputes the row's totalPrice synchronously;
// totalPrice itself is derived and cannot be written directly.
func (t *Table) SetNumber(rowID refdata.Identifier, field string, value decimal.Decimal) error {
	col := t.spec.Column(field)
	if col == nil || col.Kind != KindNumber {
		return shared.NewDomainError("UNKNOWN_FIELD", fmt.Sprintf("%s is not a numeric column", field))
	}
	if t.spec.AutoTotal && field == ColTotalPrice {
		return shared.NewDomainError("DERIVED_FIELD", "totalPrice is derived from quantity and unitPrice")
	}
	r, err := t.row(rowID)
	if err != nil {
		return err
	}
	r.Numbers[field] = value
	if t.spec.AutoTotal && (field == ColQuantity || field == ColUnitPrice) {
		r.TotalPrice = r.Number(ColQuantity).Mul(r.Number(ColUnitPrice))
	}
	return nil
}

// SetText sets a text, date, or enum column
func (t *Table) SetText(rowID refdata.Identifier, field, value string) error {
	col := t.spec.Column(field)
	if col == nil || (col.Kind != KindText && col.Kind != KindDate && col.Kind != KindEnum) {
		return shared.NewDomainError("UNKNOWN_FIELD", fmt.Sprintf("%s is not a text column", field))
	}
	r, err := t.row(rowID)
	if err != nil {
		return err
	}
	r.Texts[field] = value
	return nil
}

// SetRef sets a reference column. A nil id clears the column. When the
// picked record carries a default for a dependent column (auto-fill
// rule), the dependent column is populated only if currently unset.
func (t *Table) SetRef(rowID refdata.Identifier, field string, id *refdata.Identifier, record *refdata.ReferenceRecord) error {
	col := t.spec.Column(field)
	if col == nil || col.Kind != KindReference {
		return shared.NewDomainError("UNKNOWN_FIELD", fmt.Sprintf("%s is not a reference column", field))
	}
	r, err := t.row(rowID)
	if err != nil {
		return err
	}
	if id == nil {
		delete(r.Refs, field)
		return nil
	}
	r.Refs[field] = *id
	if record == nil {
		return nil
	}
	for _, rule := range t.spec.AutoFill {
		if rule.From != field {
			continue
		}
		if _, set := r.Refs[rule.To]; set {
			continue
		}
		if def, ok := record.DefaultParentKey(); ok {
			r.Refs[rule.To] = def
		}
	}
	return nil
}

// DetectDuplicates returns the ids of rows whose key-field tuple
// collides with another row. Rows with an incomplete tuple are skipped.
func (t *Table) DetectDuplicates() []refdata.Identifier {
	if len(t.spec.KeyFields) == 0 {
		return nil
	}
	groups := make(map[string][]refdata.Identifier)
	for _, r := range t.rows {
		key, complete := t.rowKey(r)
		if !complete {
			continue
		}
		groups[key] = append(groups[key], r.ID)
	}
	var dups []refdata.Identifier
	for _, r := range t.rows {
		key, complete := t.rowKey(r)
		if complete && len(groups[key]) > 1 {
			dups = append(dups, r.ID)
		}
	}
	return dups
}

func (t *Table) rowKey(r *Row) (string, bool) {
	parts := make([]string, 0, len(t.spec.KeyFields))
	for _, field := range t.spec.KeyFields {
		col := t.spec.Column(field)
		if col == nil {
			return "", false
		}
		switch col.Kind {
		case KindReference:
			v, ok := r.Refs[field]
			if !ok || v == "" {
				return "", false
			}
			parts = append(parts, v.String())
		case KindNumber:
			v, ok := r.Numbers[field]
			if !ok {
				return "", false
			}
			parts = append(parts, v.String())
		default:
			v := r.Texts[field]
			if v == "" {
				return "", false
			}
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "\x1f"), true
}

// ValidateRows evaluates per-column rules on every row and returns a
// mapping from "item_{rowID}_{field}" to an error message. Unset
// numeric fields compute as zero but still fail their required and
// positive rules here.
func (t *Table) ValidateRows() map[string]string {
	errs := make(map[string]string)
	for _, r := range t.rows {
		for _, col := range t.spec.Columns {
			path := fmt.Sprintf("item_%s_%s", r.ID, col.Name)
			switch col.Kind {
			case KindReference:
				if col.Required {
					if v, ok := r.Refs[col.Name]; !ok || v == "" {
						errs[path] = fmt.Sprintf("%s is required", col.Name)
					}
				}
			case KindNumber:
				v, set := r.Numbers[col.Name]
				if col.Required && !set {
					errs[path] = fmt.Sprintf("%s is required", col.Name)
					continue
				}
				if col.Positive && (!set || !v.IsPositive()) {
					errs[path] = fmt.Sprintf("%s must be greater than zero", col.Name)
					continue
				}
				if col.NonNegative && set && v.IsNegative() {
					errs[path] = fmt.Sprintf("%s cannot be negative", col.Name)
				}
			default:
				v := r.Texts[col.Name]
				if col.Required && v == "" {
					errs[path] = fmt.Sprintf("%s is required", col.Name)
					continue
				}
				if col.Kind == KindEnum && v != "" && !contains(col.Enum, v) {
					errs[path] = fmt.Sprintf("%s must be one of %s", col.Name, strings.Join(col.Enum, ", "))
				}
			}
		}
	}
	return errs
}

// Reset clears the table back to the minimum number of blank rows
func (t *Table) Reset() {
	t.rows = nil
	for len(t.rows) < t.spec.MinRows {
		t.rows = append(t.rows, newRow())
	}
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
