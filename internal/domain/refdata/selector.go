package refdata

import (
	"fmt"

	"github.com/billing/console/internal/domain/shared"
)

// LevelDef describes one level of a cascading selector chain
type LevelDef struct {
	Name    string
	Catalog string
}

// Level holds the live state of one selection level. Options are only
// valid for the parent selection at the time of the last accepted
// fetch; the selector enforces that on resolution.
type Level struct {
	Name     string
	Catalog  string
	Selected *Identifier
	Options  []ReferenceRecord
	Loading  bool
	Failed   bool
}

// FetchRequest instructs the caller to load options for a level.
// Parent is nil for the root level of a chain.
type FetchRequest struct {
	Level   int
	Catalog string
	Parent  *Identifier
}

// Selector is a directed chain of dependent selection levels
// (Organization -> Company -> Branch -> Department, or a single level
// for a flat dropdown). It is a pure state machine: operations mutate
// state and return the fetch the caller must perform, they never do
// IO themselves. Callers feed results back through ResolveFetch and
// FailFetch, where a stale response (the parent selection changed
// while the fetch was in flight) is silently discarded.
type Selector struct {
	name   string
	levels []Level
}

// NewSelector creates a selector with the given dependent levels
func NewSelector(name string, defs ...LevelDef) *Selector {
	levels := make([]Level, len(defs))
	for i, d := range defs {
		levels[i] = Level{Name: d.Name, Catalog: d.Catalog}
	}
	return &Selector{name: name, levels: levels}
}

// Name returns the selector name
func (s *Selector) Name() string {
	return s.name
}

// LevelCount returns the number of levels in the chain
func (s *Selector) LevelCount() int {
	return len(s.levels)
}

// Levels returns a copy of the level states for rendering
func (s *Selector) Levels() []Level {
	out := make([]Level, len(s.levels))
	for i, lv := range s.levels {
		out[i] = lv
		out[i].Options = CloneRecords(lv.Options)
		if lv.Selected != nil {
			sel := *lv.Selected
			out[i].Selected = &sel
		}
	}
	return out
}

// Init marks the root level loading and returns its fetch request.
// Called once when the owning form session is created.
func (s *Selector) Init() *FetchRequest {
	if len(s.levels) == 0 {
		return nil
	}
	s.levels[0].Loading = true
	s.levels[0].Failed = false
	return &FetchRequest{Level: 0, Catalog: s.levels[0].Catalog}
}

// SelectAt sets the selection at the given level, clears every
// descendant level, and returns the fetch request for the next level
// (nil when there is nothing to load). A nil id clears the selection.
// Re-selecting the current value is a no-op unless the child level's
// options are empty, in which case the fetch is reissued.
func (s *Selector) SelectAt(levelIndex int, id *Identifier) (*FetchRequest, error) {
	if levelIndex < 0 || levelIndex >= len(s.levels) {
		return nil, shared.NewDomainError("INVALID_LEVEL", fmt.Sprintf("selector %s has no level %d", s.name, levelIndex))
	}

	level := &s.levels[levelIndex]
	if id != nil && level.Selected != nil && *level.Selected == *id {
		if levelIndex+1 >= len(s.levels) || len(s.levels[levelIndex+1].Options) > 0 {
			return nil, nil
		}
	}

	if id == nil {
		level.Selected = nil
	} else {
		sel := *id
		level.Selected = &sel
	}

	for j := levelIndex + 1; j < len(s.levels); j++ {
		s.levels[j].Selected = nil
		s.levels[j].Options = nil
		s.levels[j].Loading = false
		s.levels[j].Failed = false
	}

	if id == nil || levelIndex+1 >= len(s.levels) {
		return nil, nil
	}

	child := &s.levels[levelIndex+1]
	child.Loading = true
	parent := *id
	return &FetchRequest{Level: levelIndex + 1, Catalog: child.Catalog, Parent: &parent}, nil
}

// ResolveFetch applies a completed fetch. The result is accepted only
// when forParent still matches the current selection of the level's
// parent (nil for the root level); a stale result is discarded and
// false is returned. Zero records is a valid, selectable-but-empty
// outcome.
func (s *Selector) ResolveFetch(levelIndex int, forParent *Identifier, records []ReferenceRecord) bool {
	if !s.fetchStillCurrent(levelIndex, forParent) {
		return false
	}
	level := &s.levels[levelIndex]
	level.Options = CloneRecords(records)
	level.Loading = false
	level.Failed = false
	return true
}

// FailFetch records a fetch failure for a level. The same staleness
// guard applies; an accepted failure leaves the level with no options
// and a retryable failed flag, without touching sibling levels.
func (s *Selector) FailFetch(levelIndex int, forParent *Identifier) bool {
	if !s.fetchStillCurrent(levelIndex, forParent) {
		return false
	}
	level := &s.levels[levelIndex]
	level.Options = nil
	level.Loading = false
	level.Failed = true
	return true
}

func (s *Selector) fetchStillCurrent(levelIndex int, forParent *Identifier) bool {
	if levelIndex < 0 || levelIndex >= len(s.levels) {
		return false
	}
	if levelIndex == 0 {
		return forParent == nil
	}
	current := s.levels[levelIndex-1].Selected
	return current != nil && forParent != nil && *current == *forParent
}

// Retry reissues the fetch for a failed level, keyed off the current
// parent selection. Returns nil when the level is not retryable.
func (s *Selector) Retry(levelIndex int) *FetchRequest {
	if levelIndex < 0 || levelIndex >= len(s.levels) {
		return nil
	}
	level := &s.levels[levelIndex]
	if !level.Failed {
		return nil
	}
	if levelIndex == 0 {
		level.Loading = true
		level.Failed = false
		return &FetchRequest{Level: 0, Catalog: level.Catalog}
	}
	parent := s.levels[levelIndex-1].Selected
	if parent == nil {
		return nil
	}
	level.Loading = true
	level.Failed = false
	p := *parent
	return &FetchRequest{Level: levelIndex, Catalog: level.Catalog, Parent: &p}
}

// Selected returns the current selection at a level, or nil
func (s *Selector) Selected(levelIndex int) *Identifier {
	if levelIndex < 0 || levelIndex >= len(s.levels) {
		return nil
	}
	if s.levels[levelIndex].Selected == nil {
		return nil
	}
	sel := *s.levels[levelIndex].Selected
	return &sel
}

// SelectedRecord returns the option record matching the current
// selection at a level, or nil when nothing is selected or the
// selection is not present in the loaded options.
func (s *Selector) SelectedRecord(levelIndex int) *ReferenceRecord {
	if levelIndex < 0 || levelIndex >= len(s.levels) {
		return nil
	}
	level := s.levels[levelIndex]
	if level.Selected == nil {
		return nil
	}
	return FindRecord(level.Options, *level.Selected)
}

// AnyLoading reports whether any level has a fetch in flight
func (s *Selector) AnyLoading() bool {
	for _, lv := range s.levels {
		if lv.Loading {
			return true
		}
	}
	return false
}

// Reset clears every level back to its initial empty state
func (s *Selector) Reset() {
	for i := range s.levels {
		s.levels[i].Selected = nil
		s.levels[i].Options = nil
		s.levels[i].Loading = false
		s.levels[i].Failed = false
	}
}
