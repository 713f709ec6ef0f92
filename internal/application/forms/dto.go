package forms

import (
	"github.com/billing/console/internal/domain/form"
	"github.com/billing/console/internal/domain/refdata"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OptionView is one selectable entry of a dropdown level
type OptionView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// LevelView is the render state of one level of a selector chain
type LevelView struct {
	Name     string       `json:"name"`
	Selected *string      `json:"selected"`
	Options  []OptionView `json:"options"`
	Loading  bool         `json:"loading"`
	Failed   bool         `json:"failed"`
	Pinned   bool         `json:"pinned"`
}

// SelectorView is the render state of one selector chain
type SelectorView struct {
	Name   string      `json:"name"`
	Levels []LevelView `json:"levels"`
}

// RowView is the render state of one line-item row
type RowView struct {
	ID         string                     `json:"id"`
	Refs       map[string]string          `json:"refs"`
	Numbers    map[string]decimal.Decimal `json:"numbers"`
	Texts      map[string]string          `json:"texts"`
	TotalPrice decimal.Decimal            `json:"totalPrice"`
}

// SessionView is the full render state of one open form session
type SessionView struct {
	ID           uuid.UUID                  `json:"id"`
	Form         string                     `json:"form"`
	Title        string                     `json:"title"`
	Status       string                     `json:"status"`
	Selectors    []SelectorView             `json:"selectors"`
	TextFields   map[string]string          `json:"textFields"`
	NumberFields map[string]decimal.Decimal `json:"numberFields"`
	Rows         []RowView                  `json:"rows,omitempty"`
	Totals       *form.OrderTotals          `json:"totals,omitempty"`
	FieldErrors  map[string]string          `json:"fieldErrors,omitempty"`
	SubmitError  string                     `json:"submitError,omitempty"`
	ServerID     string                     `json:"serverId,omitempty"`
	Loading      bool                       `json:"loading"`
}

// ExistingEntry is one previously saved record shown next to the form,
// e.g. the recipe rows already stored for a ready item and quality.
type ExistingEntry struct {
	ID     string            `json:"id"`
	Label  string            `json:"label"`
	Values map[string]string `json:"values,omitempty"`
}

// SubmitResult reports the outcome of a submit attempt
type SubmitResult struct {
	Status   string            `json:"status"`
	ServerID string            `json:"serverId,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
	Message  string            `json:"message,omitempty"`
}

func toSessionView(s *form.Session) SessionView {
	def := s.Definition()

	view := SessionView{
		ID:           s.ID(),
		Form:         def.Name,
		Title:        def.Title,
		Status:       s.Status().String(),
		TextFields:   s.TextFields(),
		NumberFields: s.NumberFields(),
		FieldErrors:  s.FieldErrors(),
		SubmitError:  s.SubmitError(),
		ServerID:     s.ServerID(),
		Loading:      s.AnyLoading(),
	}

	pinned := make(map[string]bool, len(def.Selectors))
	for _, spec := range def.Selectors {
		if spec.PinRootToOrganization && !s.Actor().IsSystemAdmin() {
			pinned[spec.Name] = true
		}
	}

	for _, state := range s.SelectorStates() {
		sv := SelectorView{Name: state.Name, Levels: make([]LevelView, len(state.Levels))}
		for i, level := range state.Levels {
			lv := LevelView{
				Name:    level.Name,
				Options: make([]OptionView, len(level.Options)),
				Loading: level.Loading,
				Failed:  level.Failed,
				Pinned:  i == 0 && pinned[state.Name],
			}
			if level.Selected != nil {
				sel := level.Selected.String()
				lv.Selected = &sel
			}
			for j, opt := range level.Options {
				lv.Options[j] = OptionView{ID: opt.ID.String(), Label: opt.Label}
			}
			sv.Levels[i] = lv
		}
		view.Selectors = append(view.Selectors, sv)
	}

	for _, row := range s.Rows() {
		view.Rows = append(view.Rows, toRowView(row))
	}
	if totals, ok := s.Totals(); ok {
		view.Totals = &totals
	}
	return view
}

func toRowView(r form.Row) RowView {
	rv := RowView{
		ID:         r.ID.String(),
		Refs:       make(map[string]string, len(r.Refs)),
		Numbers:    r.Numbers,
		Texts:      r.Texts,
		TotalPrice: r.TotalPrice,
	}
	for k, v := range r.Refs {
		rv.Refs[k] = v.String()
	}
	return rv
}

func identifierArg(v *string) *refdata.Identifier {
	if v == nil || *v == "" {
		return nil
	}
	id := refdata.Identifier(*v)
	return &id
}
