package form

import (
	"fmt"
	"sync"
	"time"

	"github.com/billing/console/internal/domain/refdata"
	"github.com/billing/console/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a form session
type Status string

const (
	StatusEditing    Status = "EDITING"
	StatusValidating Status = "VALIDATING"
	StatusSubmitting Status = "SUBMITTING"
	StatusSucceeded  Status = "SUCCEEDED"
	StatusFailed     Status = "FAILED"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusEditing:
		return target == StatusValidating
	case StatusValidating:
		return target == StatusEditing || target == StatusSubmitting
	case StatusSubmitting:
		return target == StatusSucceeded || target == StatusFailed
	case StatusFailed:
		return target == StatusEditing || target == StatusValidating
	case StatusSucceeded:
		return target == StatusEditing
	}
	return false
}

// SelectorFetch pairs a fetch request with the selector it belongs to.
// The application layer performs the fetch and feeds the result back
// through ResolveFetch or FailFetch.
type SelectorFetch struct {
	Selector string
	Request  *refdata.FetchRequest
}

// SelectorState is a render snapshot of one selector chain
type SelectorState struct {
	Name   string
	Levels []refdata.Level
}

// RowPayload is the submit-time shape of one line row
type RowPayload struct {
	Refs       map[string]refdata.Identifier `json:"refs"`
	Numbers    map[string]decimal.Decimal    `json:"numbers"`
	Texts      map[string]string             `json:"texts"`
	TotalPrice decimal.Decimal               `json:"totalPrice"`
}

// Payload is the request DTO a session serializes itself into on
// submit. It is built purely from session state; the submit
// collaborator owns whatever wire shape it maps to.
type Payload struct {
	Form         string                                    `json:"form"`
	Actor        ActorContext                              `json:"-"`
	Selections   map[string]map[string]*refdata.Identifier `json:"selections"`
	TextFields   map[string]string                         `json:"textFields"`
	NumberFields map[string]decimal.Decimal                `json:"numberFields"`
	Rows         []RowPayload                              `json:"rows,omitempty"`
	Totals       *OrderTotals                              `json:"totals,omitempty"`
}

// Session composes the cascading selectors, the line-item table, and
// the derived totals of one open creation form into a single
// validated, submittable unit. All exported methods serialize through
// an internal mutex: mutations behave as if issued from a single event
// loop, and asynchronous fetch results re-enter through
// ResolveFetch/FailFetch where stale arrivals are discarded.
type Session struct {
	mu sync.Mutex

	id        uuid.UUID
	def       Definition
	actor     ActorContext
	selectors map[string]*refdata.Selector
	order     []string // selector names in definition order
	pinned    map[string]refdata.Identifier
	table     *Table
	texts     map[string]string
	numbers   map[string]decimal.Decimal

	status      Status
	fieldErrors map[string]string
	submitError string
	serverID    string
	createdAt   time.Time
}

// NewSession instantiates a session from a definition: empty
// selections, default field values, and the table seeded to its
// minimum row count. The returned fetches load the root options of
// every selector chain and must be dispatched by the caller.
func NewSession(def Definition, actor ActorContext) (*Session, []SelectorFetch, error) {
	if err := def.Validate(); err != nil {
		return nil, nil, err
	}

	s := &Session{
		id:          uuid.New(),
		def:         def,
		actor:       actor,
		selectors:   make(map[string]*refdata.Selector),
		pinned:      make(map[string]refdata.Identifier),
		texts:       make(map[string]string),
		numbers:     make(map[string]decimal.Decimal),
		status:      StatusEditing,
		fieldErrors: make(map[string]string),
		createdAt:   time.Now(),
	}

	if def.Table != nil {
		s.table = NewTable(*def.Table)
	}
	s.applyFieldDefaults()

	var fetches []SelectorFetch
	for _, spec := range def.Selectors {
		sel := refdata.NewSelector(spec.Name, spec.Levels...)
		s.selectors[spec.Name] = sel
		s.order = append(s.order, spec.Name)

		if req := sel.Init(); req != nil {
			fetches = append(fetches, SelectorFetch{Selector: spec.Name, Request: req})
		}

		if spec.PinRootToOrganization && !actor.IsSystemAdmin() && actor.OrganizationID != nil {
			s.pinned[spec.Name] = *actor.OrganizationID
			req, err := sel.SelectAt(0, actor.OrganizationID)
			if err != nil {
				return nil, nil, err
			}
			if req != nil {
				fetches = append(fetches, SelectorFetch{Selector: spec.Name, Request: req})
			}
		}
	}

	return s, fetches, nil
}

func (s *Session) applyFieldDefaults() {
	for _, f := range s.def.Fields {
		if f.Default == "" {
			continue
		}
		switch f.Kind {
		case KindNumber:
			if v, err := decimal.NewFromString(f.Default); err == nil {
				s.numbers[f.Name] = v
			}
		case KindDate:
			if f.Default == DefaultToday {
				s.texts[f.Name] = time.Now().Format("2006-01-02")
			} else {
				s.texts[f.Name] = f.Default
			}
		default:
			s.texts[f.Name] = f.Default
		}
	}
}

// ID returns the session id
func (s *Session) ID() uuid.UUID {
	return s.id
}

// FormName returns the name of the definition this session was built from
func (s *Session) FormName() string {
	return s.def.Name
}

// Definition returns the session's form definition
func (s *Session) Definition() Definition {
	return s.def
}

// Actor returns the actor context the session was created with
func (s *Session) Actor() ActorContext {
	return s.actor
}

// CreatedAt returns the session creation time
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Status returns the current lifecycle status
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ensureEditable guards mutations: editing is allowed from EDITING and
// from FAILED (a failed submit returns to editing with input intact).
func (s *Session) ensureEditable() error {
	switch s.status {
	case StatusEditing:
		return nil
	case StatusFailed:
		s.status = StatusEditing
		s.submitError = ""
		return nil
	default:
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("form cannot be edited in %s status", s.status))
	}
}

// SelectAt applies a selection on one level of a selector chain and
// returns the dependent fetch to dispatch, if any. Root levels pinned
// to the actor's organization reject changes for non-admin actors.
func (s *Session) SelectAt(selector string, level int, id *refdata.Identifier) (*SelectorFetch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureEditable(); err != nil {
		return nil, err
	}
	sel, ok := s.selectors[selector]
	if !ok {
		return nil, shared.NewDomainError("UNKNOWN_SELECTOR", fmt.Sprintf("form has no selector %s", selector))
	}
	if pin, pinned := s.pinned[selector]; pinned && level == 0 {
		if id == nil || *id != pin {
			return nil, shared.NewDomainError("PINNED_LEVEL", "organization is fixed by the actor's scope")
		}
	}
	req, err := sel.SelectAt(level, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, nil
	}
	return &SelectorFetch{Selector: selector, Request: req}, nil
}

// ResolveFetch applies a completed catalog fetch to a selector level.
// Returns false when the result was stale and discarded.
func (s *Session) ResolveFetch(selector string, level int, forParent *refdata.Identifier, records []refdata.ReferenceRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, ok := s.selectors[selector]
	if !ok {
		return false
	}
	return sel.ResolveFetch(level, forParent, records)
}

// FailFetch records a catalog failure on a selector level. Returns
// false when the failure was stale and discarded.
func (s *Session) FailFetch(selector string, level int, forParent *refdata.Identifier) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, ok := s.selectors[selector]
	if !ok {
		return false
	}
	return sel.FailFetch(level, forParent)
}

// RetryLevel reissues the fetch for a failed selector level
func (s *Session) RetryLevel(selector string, level int) (*SelectorFetch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureEditable(); err != nil {
		return nil, err
	}
	sel, ok := s.selectors[selector]
	if !ok {
		return nil, shared.NewDomainError("UNKNOWN_SELECTOR", fmt.Sprintf("form has no selector %s", selector))
	}
	req := sel.Retry(level)
	if req == nil {
		return nil, nil
	}
	return &SelectorFetch{Selector: selector, Request: req}, nil
}

// SelectorStates returns render snapshots of all selector chains in
// definition order
func (s *Session) SelectorStates() []SelectorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SelectorState, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, SelectorState{Name: name, Levels: s.selectors[name].Levels()})
	}
	return out
}

// AddRow appends a blank row to the line-item table
func (s *Session) AddRow() (refdata.Identifier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureEditable(); err != nil {
		return "", err
	}
	if s.table == nil {
		return "", shared.NewDomainError("NO_TABLE", "form has no line-item table")
	}
	return s.table.AddRow(), nil
}

// RemoveRow removes a row, honoring the table's minimum-row policy
func (s *Session) RemoveRow(rowID refdata.Identifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureEditable(); err != nil {
		return err
	}
	if s.table == nil {
		return shared.NewDomainError("NO_TABLE", "form has no line-item table")
	}
	return s.table.RemoveRow(rowID)
}

// SetRowNumber sets a numeric table column, recomputing the row total
// where the table derives it
func (s *Session) SetRowNumber(rowID refdata.Identifier, field string, value decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureEditable(); err != nil {
		return err
	}
	if s.table == nil {
		return shared.NewDomainError("NO_TABLE", "form has no line-item table")
	}
	return s.table.SetNumber(rowID, field, value)
}

// SetRowText sets a text, date, or enum table column
func (s *Session) SetRowText(rowID refdata.Identifier, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureEditable(); err != nil {
		return err
	}
	if s.table == nil {
		return shared.NewDomainError("NO_TABLE", "form has no line-item table")
	}
	return s.table.SetText(rowID, field, value)
}

// SetRowRef sets a reference table column. The picked record is looked
// up in the root options of the column's backing selector so dependent
// defaults (auto-fill rules) can be applied.
func (s *Session) SetRowRef(rowID refdata.Identifier, field string, id *refdata.Identifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureEditable(); err != nil {
		return err
	}
	if s.table == nil {
		return shared.NewDomainError("NO_TABLE", "form has no line-item table")
	}
	var record *refdata.ReferenceRecord
	if id != nil {
		if col := s.table.Spec().Column(field); col != nil && col.OptionsFrom != "" {
			if sel, ok := s.selectors[col.OptionsFrom]; ok {
				levels := sel.Levels()
				if len(levels) > 0 {
					record = refdata.FindRecord(levels[len(levels)-1].Options, *id)
				}
			}
		}
	}
	return s.table.SetRef(rowID, field, id, record)
}

// Rows returns copies of the table rows, or nil for tableless forms
func (s *Session) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table == nil {
		return nil
	}
	return s.table.Rows()
}

// SetTextField sets a top-level text, date, or enum field
func (s *Session) SetTextField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureEditable(); err != nil {
		return err
	}
	f := s.def.Field(name)
	if f == nil || (f.Kind != KindText && f.Kind != KindDate && f.Kind != KindEnum) {
		return shared.NewDomainError("UNKNOWN_FIELD", fmt.Sprintf("%s is not a text field", name))
	}
	s.texts[name] = value
	return nil
}

// SetNumberField sets a top-level numeric field
func (s *Session) SetNumberField(name string, value decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureEditable(); err != nil {
		return err
	}
	f := s.def.Field(name)
	if f == nil || f.Kind != KindNumber {
		return shared.NewDomainError("UNKNOWN_FIELD", fmt.Sprintf("%s is not a numeric field", name))
	}
	s.numbers[name] = value
	return nil
}

// TextFields returns a copy of the top-level text field values
func (s *Session) TextFields() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.texts))
	for k, v := range s.texts {
		out[k] = v
	}
	return out
}

// NumberFields returns a copy of the top-level numeric field values
func (s *Session) NumberFields() map[string]decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]decimal.Decimal, len(s.numbers))
	for k, v := range s.numbers {
		out[k] = v
	}
	return out
}

// Totals recomputes the derived order totals from the current rows and
// the tax-rate and paid-amount fields. The second result is false for
// forms without derived totals.
func (s *Session) Totals() (OrderTotals, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalsLocked()
}

func (s *Session) totalsLocked() (OrderTotals, bool) {
	if s.def.Totals == nil || s.table == nil {
		return OrderTotals{}, false
	}
	taxRate := decimal.Zero
	if f := s.def.Totals.TaxRateField; f != "" {
		if v, ok := s.numbers[f]; ok {
			taxRate = v
		}
	}
	paid := decimal.Zero
	if f := s.def.Totals.PaidAmountField; f != "" {
		if v, ok := s.numbers[f]; ok {
			paid = v
		}
	}
	return ComputeTotals(s.table.Rows(), taxRate, paid), true
}

// AnyLoading reports whether any selector level has a fetch in flight
func (s *Session) AnyLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.anyLoadingLocked()
}

func (s *Session) anyLoadingLocked() bool {
	for _, sel := range s.selectors {
		if sel.AnyLoading() {
			return true
		}
	}
	return false
}

// Validate evaluates all field rules and cross-row rules, stores the
// result, and returns it: a mapping from field path to error message.
// Row fields are addressed as "item_{rowID}_{field}". Errors are data
// for the rendering layer, never exceptions.
func (s *Session) Validate() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateLocked()
}

func (s *Session) validateLocked() map[string]string {
	errs := make(map[string]string)

	for _, spec := range s.def.Selectors {
		if !spec.Required {
			continue
		}
		sel := s.selectors[spec.Name]
		for i, level := range spec.Levels {
			if sel.Selected(i) == nil {
				errs[level.Name] = fmt.Sprintf("%s is required", level.Name)
			}
		}
	}

	for _, f := range s.def.Fields {
		switch f.Kind {
		case KindNumber:
			v, set := s.numbers[f.Name]
			if f.Required && !set {
				errs[f.Name] = fmt.Sprintf("%s is required", f.Name)
				continue
			}
			if f.Positive && (!set || !v.IsPositive()) {
				errs[f.Name] = fmt.Sprintf("%s must be greater than zero", f.Name)
				continue
			}
			if f.NonNegative && set && v.IsNegative() {
				errs[f.Name] = fmt.Sprintf("%s cannot be negative", f.Name)
			}
		case KindEnum:
			v := s.texts[f.Name]
			if f.Required && v == "" {
				errs[f.Name] = fmt.Sprintf("%s is required", f.Name)
				continue
			}
			if v != "" && !contains(f.Enum, v) {
				errs[f.Name] = fmt.Sprintf("%s has an invalid value", f.Name)
			}
		default:
			if f.Required && s.texts[f.Name] == "" {
				errs[f.Name] = fmt.Sprintf("%s is required", f.Name)
			}
		}
	}

	if s.table != nil {
		for path, msg := range s.table.ValidateRows() {
			errs[path] = msg
		}
		if keys := s.table.Spec().KeyFields; len(keys) > 0 {
			for _, rowID := range s.table.DetectDuplicates() {
				path := fmt.Sprintf("item_%s_%s", rowID, keys[0])
				errs[path] = "Duplicate entry"
			}
		}
	}

	s.fieldErrors = errs
	return copyStringMap(errs)
}

// FieldErrors returns the errors recorded by the last validation
func (s *Session) FieldErrors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyStringMap(s.fieldErrors)
}

// SubmitError returns the top-level message of the last failed submit
func (s *Session) SubmitError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitError
}

// ServerID returns the id assigned by the server on successful submit
func (s *Session) ServerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serverID
}

// BeginSubmit validates the session and transitions it to SUBMITTING.
// Submission is blocked while any selector level is loading or while
// validation errors exist; in both cases the session stays editable.
func (s *Session) BeginSubmit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusEditing && s.status != StatusFailed {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("cannot submit in %s status", s.status))
	}
	if s.anyLoadingLocked() {
		return shared.ErrSubmitBlocked
	}

	s.status = StatusValidating
	if errs := s.validateLocked(); len(errs) > 0 {
		s.status = StatusEditing
		return shared.NewDomainError("VALIDATION_FAILED", fmt.Sprintf("form has %d validation error(s)", len(errs)))
	}

	s.status = StatusSubmitting
	s.submitError = ""
	return nil
}

// BuildPayload serializes the session state into a submit request DTO
func (s *Session) BuildPayload() Payload {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Payload{
		Form:         s.def.Name,
		Actor:        s.actor,
		Selections:   make(map[string]map[string]*refdata.Identifier, len(s.order)),
		TextFields:   copyStringMap(s.texts),
		NumberFields: make(map[string]decimal.Decimal, len(s.numbers)),
	}
	for k, v := range s.numbers {
		p.NumberFields[k] = v
	}

	for _, name := range s.order {
		sel := s.selectors[name]
		spec := s.def.Selector(name)
		levels := make(map[string]*refdata.Identifier, len(spec.Levels))
		for i, def := range spec.Levels {
			levels[def.Name] = sel.Selected(i)
		}
		p.Selections[name] = levels
	}

	if s.table != nil {
		rows := s.table.Rows()
		p.Rows = make([]RowPayload, len(rows))
		for i, r := range rows {
			p.Rows[i] = RowPayload{
				Refs:       r.Refs,
				Numbers:    r.Numbers,
				Texts:      r.Texts,
				TotalPrice: r.TotalPrice,
			}
		}
	}
	if totals, ok := s.totalsLocked(); ok {
		p.Totals = &totals
	}
	return p
}

// CompleteSubmit records a successful submit and the server-assigned id
func (s *Session) CompleteSubmit(serverID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusSubmitting {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("cannot complete submit in %s status", s.status))
	}
	s.status = StatusSucceeded
	s.serverID = serverID
	return nil
}

// FailSubmit records a rejected submit. The session returns to FAILED
// with every entered value intact for immediate retry.
func (s *Session) FailSubmit(message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusSubmitting {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("cannot fail submit in %s status", s.status))
	}
	s.status = StatusFailed
	s.submitError = message
	return nil
}

// ResetForAnother clears a successfully submitted session back to a
// fresh editing state (create-another flow). The returned fetches
// reload the root options of every selector chain.
func (s *Session) ResetForAnother() ([]SelectorFetch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusSucceeded {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("cannot reset in %s status", s.status))
	}

	s.status = StatusEditing
	s.serverID = ""
	s.submitError = ""
	s.fieldErrors = make(map[string]string)
	s.texts = make(map[string]string)
	s.numbers = make(map[string]decimal.Decimal)
	s.applyFieldDefaults()
	if s.table != nil {
		s.table.Reset()
	}

	var fetches []SelectorFetch
	for _, name := range s.order {
		sel := s.selectors[name]
		sel.Reset()
		if req := sel.Init(); req != nil {
			fetches = append(fetches, SelectorFetch{Selector: name, Request: req})
		}
		if pin, pinned := s.pinned[name]; pinned {
			id := pin
			req, err := sel.SelectAt(0, &id)
			if err != nil {
				return nil, err
			}
			if req != nil {
				fetches = append(fetches, SelectorFetch{Selector: name, Request: req})
			}
		}
	}
	return fetches, nil
}

// LookupKeys resolves the form's existing-entries lookup keys from the
// current selections and field values. The second result is false when
// the form has no lookup or any key is still unset.
func (s *Session) LookupKeys() (map[string]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.def.Lookup == nil {
		return nil, false
	}
	keys := make(map[string]string, len(s.def.Lookup.Keys))
	for _, k := range s.def.Lookup.Keys {
		if k.Field != "" {
			v := s.texts[k.Field]
			if v == "" {
				return nil, false
			}
			keys[k.Field] = v
			continue
		}
		sel, ok := s.selectors[k.Selector]
		if !ok {
			return nil, false
		}
		id := sel.Selected(k.Level)
		if id == nil {
			return nil, false
		}
		spec := s.def.Selector(k.Selector)
		keys[spec.Levels[k.Level].Name] = id.String()
	}
	return keys, true
}

func copyStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
