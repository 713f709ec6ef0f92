package forms

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/billing/console/internal/domain/form"
	"github.com/billing/console/internal/domain/refdata"
	"github.com/billing/console/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Submitter persists a completed form payload and returns the
// server-assigned id of the created record.
type Submitter interface {
	Submit(ctx context.Context, payload form.Payload) (string, error)
}

// ExistingLookup loads the records already stored for a form's lookup
// keys, shown alongside the form while the user types.
type ExistingLookup interface {
	Find(ctx context.Context, keys map[string]string) ([]ExistingEntry, error)
}

// CatalogSource resolves a catalog by the name a selector level
// references it under.
type CatalogSource interface {
	Catalog(name string) (refdata.Catalog, bool)
}

// CatalogMap is the plain map implementation of CatalogSource
type CatalogMap map[string]refdata.Catalog

// Catalog implements CatalogSource
func (m CatalogMap) Catalog(name string) (refdata.Catalog, bool) {
	c, ok := m[name]
	return c, ok
}

// Limits bounds session housekeeping. Zero values disable the
// corresponding limit.
type Limits struct {
	MaxOpenPerUser int
	IdleTimeout    time.Duration
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithLimits sets the session housekeeping limits
func WithLimits(limits Limits) ServiceOption {
	return func(s *Service) {
		s.limits = limits
	}
}

// Service owns the open form sessions. It performs the catalog fetches
// the domain sessions request, each on its own goroutine, and feeds the
// results back in; the session discards whatever arrives stale.
type Service struct {
	registry   *form.Registry
	catalogs   CatalogSource
	submitters map[string]Submitter
	lookups    map[string]ExistingLookup
	logger     *zap.Logger
	limits     Limits

	mu       sync.RWMutex
	sessions map[uuid.UUID]*form.Session
	touched  map[uuid.UUID]time.Time

	fetches sync.WaitGroup
}

// NewService creates a form session service
func NewService(registry *form.Registry, catalogs CatalogSource, logger *zap.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		registry:   registry,
		catalogs:   catalogs,
		submitters: make(map[string]Submitter),
		lookups:    make(map[string]ExistingLookup),
		logger:     logger,
		sessions:   make(map[uuid.UUID]*form.Session),
		touched:    make(map[uuid.UUID]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterSubmitter binds a submitter to a form name
func (s *Service) RegisterSubmitter(formName string, submitter Submitter) {
	s.submitters[formName] = submitter
}

// RegisterLookup binds an existing-entries lookup to a form name
func (s *Service) RegisterLookup(formName string, lookup ExistingLookup) {
	s.lookups[formName] = lookup
}

// Open creates a session for the named form and starts loading the
// root options of its selectors.
func (s *Service) Open(ctx context.Context, formName string, actor form.ActorContext) (SessionView, error) {
	def, err := s.registry.Get(formName)
	if err != nil {
		return SessionView{}, err
	}

	session, fetches, err := form.NewSession(def, actor)
	if err != nil {
		return SessionView{}, err
	}

	s.mu.Lock()
	if s.limits.MaxOpenPerUser > 0 {
		open := 0
		for _, existing := range s.sessions {
			if existing.Actor().UserID == actor.UserID {
				open++
			}
		}
		if open >= s.limits.MaxOpenPerUser {
			s.mu.Unlock()
			return SessionView{}, shared.NewDomainError("TOO_MANY_SESSIONS",
				fmt.Sprintf("user already has %d open sessions", open))
		}
	}
	s.sessions[session.ID()] = session
	s.touched[session.ID()] = time.Now()
	s.mu.Unlock()

	s.dispatch(ctx, session, fetches)
	return toSessionView(session), nil
}

// Get returns the current render state of a session
func (s *Service) Get(sessionID uuid.UUID) (SessionView, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	return toSessionView(session), nil
}

// Close discards a session
func (s *Service) Close(sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return shared.ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	delete(s.touched, sessionID)
	return nil
}

// CloseIdle discards sessions that have seen no activity for longer
// than the configured idle timeout and reports how many were closed.
// A zero timeout disables the sweep.
func (s *Service) CloseIdle(now time.Time) int {
	if s.limits.IdleTimeout <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	closed := 0
	for id, last := range s.touched {
		if now.Sub(last) < s.limits.IdleTimeout {
			continue
		}
		if session, ok := s.sessions[id]; ok {
			s.logger.Info("closing idle form session",
				zap.String("form", session.FormName()),
				zap.String("session", id.String()))
		}
		delete(s.sessions, id)
		delete(s.touched, id)
		closed++
	}
	return closed
}

// Select applies a dropdown selection and starts loading the dependent
// level, if any.
func (s *Service) Select(ctx context.Context, sessionID uuid.UUID, selector string, level int, id *string) (SessionView, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	fetch, err := session.SelectAt(selector, level, identifierArg(id))
	if err != nil {
		return SessionView{}, err
	}
	if fetch != nil {
		s.dispatch(ctx, session, []form.SelectorFetch{*fetch})
	}
	return toSessionView(session), nil
}

// Retry reissues the fetch for a failed selector level
func (s *Service) Retry(ctx context.Context, sessionID uuid.UUID, selector string, level int) (SessionView, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	fetch, err := session.RetryLevel(selector, level)
	if err != nil {
		return SessionView{}, err
	}
	if fetch != nil {
		s.dispatch(ctx, session, []form.SelectorFetch{*fetch})
	}
	return toSessionView(session), nil
}

// AddRow appends a blank row to the session's line-item table
func (s *Service) AddRow(sessionID uuid.UUID) (SessionView, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	if _, err := session.AddRow(); err != nil {
		return SessionView{}, err
	}
	return toSessionView(session), nil
}

// RemoveRow removes a row from the session's line-item table
func (s *Service) RemoveRow(sessionID uuid.UUID, rowID string) (SessionView, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	if err := session.RemoveRow(refdata.Identifier(rowID)); err != nil {
		return SessionView{}, err
	}
	return toSessionView(session), nil
}

// SetRowNumber sets a numeric cell of a row
func (s *Service) SetRowNumber(sessionID uuid.UUID, rowID, field string, value decimal.Decimal) (SessionView, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	if err := session.SetRowNumber(refdata.Identifier(rowID), field, value); err != nil {
		return SessionView{}, err
	}
	return toSessionView(session), nil
}

// SetRowText sets a text, date, or enum cell of a row
func (s *Service) SetRowText(sessionID uuid.UUID, rowID, field, value string) (SessionView, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	if err := session.SetRowText(refdata.Identifier(rowID), field, value); err != nil {
		return SessionView{}, err
	}
	return toSessionView(session), nil
}

// SetRowRef sets a reference cell of a row
func (s *Service) SetRowRef(sessionID uuid.UUID, rowID, field string, id *string) (SessionView, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	if err := session.SetRowRef(refdata.Identifier(rowID), field, identifierArg(id)); err != nil {
		return SessionView{}, err
	}
	return toSessionView(session), nil
}

// SetTextField sets a top-level text, date, or enum field
func (s *Service) SetTextField(sessionID uuid.UUID, field, value string) (SessionView, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	if err := session.SetTextField(field, value); err != nil {
		return SessionView{}, err
	}
	return toSessionView(session), nil
}

// SetNumberField sets a top-level numeric field
func (s *Service) SetNumberField(sessionID uuid.UUID, field string, value decimal.Decimal) (SessionView, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	if err := session.SetNumberField(field, value); err != nil {
		return SessionView{}, err
	}
	return toSessionView(session), nil
}

// Validate runs all field rules and returns the error map without
// attempting a submit
func (s *Service) Validate(sessionID uuid.UUID) (map[string]string, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return session.Validate(), nil
}

// Submit runs the full submit flow: validation, payload assembly, and
// the registered submitter. The outcome is reported as data; a rejected
// submit leaves the session in FAILED with all input intact.
func (s *Service) Submit(ctx context.Context, sessionID uuid.UUID) (SubmitResult, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return SubmitResult{}, err
	}

	submitter, ok := s.submitters[session.FormName()]
	if !ok {
		return SubmitResult{}, shared.NewDomainError("NO_SUBMITTER", fmt.Sprintf("form %s has no submitter", session.FormName()))
	}

	if err := session.BeginSubmit(); err != nil {
		if errs := session.FieldErrors(); len(errs) > 0 {
			return SubmitResult{Status: session.Status().String(), Errors: errs}, nil
		}
		return SubmitResult{}, err
	}

	serverID, err := submitter.Submit(ctx, session.BuildPayload())
	if err != nil {
		s.logger.Warn("form submit rejected",
			zap.String("form", session.FormName()),
			zap.String("session", sessionID.String()),
			zap.Error(err))
		if failErr := session.FailSubmit(err.Error()); failErr != nil {
			return SubmitResult{}, failErr
		}
		return SubmitResult{Status: session.Status().String(), Message: err.Error()}, nil
	}

	if err := session.CompleteSubmit(serverID); err != nil {
		return SubmitResult{}, err
	}
	s.logger.Info("form submitted",
		zap.String("form", session.FormName()),
		zap.String("session", sessionID.String()),
		zap.String("serverId", serverID))
	return SubmitResult{Status: session.Status().String(), ServerID: serverID}, nil
}

// Reset clears a successfully submitted session for another entry and
// reloads its selector options
func (s *Service) Reset(ctx context.Context, sessionID uuid.UUID) (SessionView, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	fetches, err := session.ResetForAnother()
	if err != nil {
		return SessionView{}, err
	}
	s.dispatch(ctx, session, fetches)
	return toSessionView(session), nil
}

// ExistingEntries loads the records already stored for the session's
// lookup keys. An empty slice with ok=false means the keys are not
// complete yet.
func (s *Service) ExistingEntries(ctx context.Context, sessionID uuid.UUID) ([]ExistingEntry, bool, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, false, err
	}
	lookup, ok := s.lookups[session.FormName()]
	if !ok {
		return nil, false, nil
	}
	keys, ok := session.LookupKeys()
	if !ok {
		return nil, false, nil
	}
	entries, err := lookup.Find(ctx, keys)
	if err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

// Wait blocks until every dispatched fetch has completed. Intended for
// tests and shutdown.
func (s *Service) Wait() {
	s.fetches.Wait()
}

func (s *Service) session(id uuid.UUID) (*form.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, shared.ErrSessionNotFound
	}
	s.touched[id] = time.Now()
	return session, nil
}

// dispatch runs each requested fetch on its own goroutine and re-enters
// the session with the result. Responses for selections that changed in
// the meantime are rejected by the session itself; there is no
// cancellation. The fetches outlive the request that triggered them, so
// they run on a context detached from the caller's cancellation while
// keeping its values.
func (s *Service) dispatch(ctx context.Context, session *form.Session, fetches []form.SelectorFetch) {
	ctx = context.WithoutCancel(ctx)
	for _, fetch := range fetches {
		catalog, ok := s.catalogs.Catalog(fetch.Request.Catalog)
		if !ok {
			s.logger.Error("no catalog registered for selector level",
				zap.String("catalog", fetch.Request.Catalog),
				zap.String("selector", fetch.Selector))
			session.FailFetch(fetch.Selector, fetch.Request.Level, fetch.Request.Parent)
			continue
		}

		s.fetches.Add(1)
		go func(fetch form.SelectorFetch, catalog refdata.Catalog) {
			defer s.fetches.Done()
			records, err := catalog.Fetch(ctx, fetch.Request.Parent)
			if err != nil {
				s.logger.Warn("catalog fetch failed",
					zap.String("catalog", catalog.Name()),
					zap.String("selector", fetch.Selector),
					zap.Int("level", fetch.Request.Level),
					zap.Error(err))
				session.FailFetch(fetch.Selector, fetch.Request.Level, fetch.Request.Parent)
				return
			}
			if !session.ResolveFetch(fetch.Selector, fetch.Request.Level, fetch.Request.Parent, records) {
				s.logger.Debug("stale catalog fetch discarded",
					zap.String("catalog", catalog.Name()),
					zap.String("selector", fetch.Selector),
					zap.Int("level", fetch.Request.Level))
			}
		}(fetch, catalog)
	}
}
