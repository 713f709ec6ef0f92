package form

import (
	"fmt"
	"sort"
	"sync"

	"github.com/billing/console/internal/domain/refdata"
	"github.com/billing/console/internal/domain/shared"
)

// FieldKind classifies a form field or table column
type FieldKind string

const (
	KindText      FieldKind = "text"
	KindNumber    FieldKind = "number"
	KindDate      FieldKind = "date"
	KindEnum      FieldKind = "enum"
	KindReference FieldKind = "reference"
)

// DefaultToday is the sentinel default for date fields that should be
// initialized to the session's creation date.
const DefaultToday = "today"

// FieldSpec describes one top-level form field or one table column
type FieldSpec struct {
	Name        string
	Kind        FieldKind
	Required    bool
	Positive    bool     // numeric value must be > 0
	NonNegative bool     // numeric value must be >= 0
	Enum        []string // valid values for KindEnum
	OptionsFrom string   // selector supplying options for a KindReference column
	Default     string
}

// AutoFillRule populates a dependent reference column from the record
// picked in another column (e.g. a ready item carries its goods type).
// The dependent column is only filled while unset; a value the user
// entered is never overwritten.
type AutoFillRule struct {
	From string
	To   string
}

// TableSpec describes the line-item table of a form
type TableSpec struct {
	MinRows   int
	AutoTotal bool // row totalPrice derived from quantity * unitPrice
	Columns   []FieldSpec
	KeyFields []string // tuple used for duplicate-row detection
	AutoFill  []AutoFillRule
}

// Column returns the column spec with the given name, or nil
func (t TableSpec) Column(name string) *FieldSpec {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// TotalsSpec binds the derived order totals to the form fields that
// feed them. An empty TaxRateField means the form carries no tax.
type TotalsSpec struct {
	TaxRateField    string
	PaidAmountField string
}

// SelectorSpec describes one cascading selector chain of a form
type SelectorSpec struct {
	Name     string
	Levels   []refdata.LevelDef
	Required bool
	// PinRootToOrganization pins the root level to the actor's
	// organization for non-admin actors; admins pick freely.
	PinRootToOrganization bool
}

// LookupKey addresses one key of an existing-entries lookup: either a
// selector level's current selection or a top-level field value.
type LookupKey struct {
	Selector string
	Level    int
	Field    string
}

// LookupSpec describes the read-only existing-entries context a form
// shows next to its editable table (e.g. recipe rows already recorded
// for a ready item / quality pair). Results are never merged into the
// editable table.
type LookupSpec struct {
	Name string
	Keys []LookupKey
}

// Definition is the declarative description of one creation screen:
// its selector chains, top-level fields, line-item table, and derived
// totals. Sessions are instantiated from definitions at runtime.
type Definition struct {
	Name      string
	Title     string
	Selectors []SelectorSpec
	Fields    []FieldSpec
	Table     *TableSpec
	Totals    *TotalsSpec
	Lookup    *LookupSpec
}

// Field returns the top-level field spec with the given name, or nil
func (d Definition) Field(name string) *FieldSpec {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i]
		}
	}
	return nil
}

// Selector returns the selector spec with the given name, or nil
func (d Definition) Selector(name string) *SelectorSpec {
	for i := range d.Selectors {
		if d.Selectors[i].Name == name {
			return &d.Selectors[i]
		}
	}
	return nil
}

// Validate checks the definition for internal consistency
func (d Definition) Validate() error {
	if d.Name == "" {
		return shared.NewDomainError("INVALID_DEFINITION", "Form definition name cannot be empty")
	}
	seen := make(map[string]bool)
	for _, s := range d.Selectors {
		if s.Name == "" || len(s.Levels) == 0 {
			return shared.NewDomainError("INVALID_DEFINITION", fmt.Sprintf("form %s: selector needs a name and at least one level", d.Name))
		}
		if seen[s.Name] {
			return shared.NewDomainError("INVALID_DEFINITION", fmt.Sprintf("form %s: duplicate selector %s", d.Name, s.Name))
		}
		seen[s.Name] = true
	}
	if d.Table != nil {
		for _, c := range d.Table.Columns {
			if c.Kind == KindReference && c.OptionsFrom != "" && !seen[c.OptionsFrom] {
				return shared.NewDomainError("INVALID_DEFINITION", fmt.Sprintf("form %s: column %s references unknown selector %s", d.Name, c.Name, c.OptionsFrom))
			}
		}
		for _, k := range d.Table.KeyFields {
			if d.Table.Column(k) == nil {
				return shared.NewDomainError("INVALID_DEFINITION", fmt.Sprintf("form %s: key field %s is not a table column", d.Name, k))
			}
		}
		for _, r := range d.Table.AutoFill {
			if d.Table.Column(r.From) == nil || d.Table.Column(r.To) == nil {
				return shared.NewDomainError("INVALID_DEFINITION", fmt.Sprintf("form %s: auto-fill rule %s->%s names unknown columns", d.Name, r.From, r.To))
			}
		}
	}
	if d.Totals != nil && d.Table == nil {
		return shared.NewDomainError("INVALID_DEFINITION", fmt.Sprintf("form %s: totals require a line-item table", d.Name))
	}
	return nil
}

// Registry holds the form definitions known to the application
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewRegistry creates an empty definition registry
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds a definition; the name must be unused
func (r *Registry) Register(def Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Name]; exists {
		return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("form %s is already registered", def.Name))
	}
	r.defs[def.Name] = def
	return nil
}

// Get returns the definition registered under the given name
func (r *Registry) Get(name string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	if !ok {
		return Definition{}, shared.ErrFormNotRegistered
	}
	return def, nil
}

// Names returns the registered form names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
