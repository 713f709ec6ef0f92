package handler

import (
	"strconv"

	"github.com/billing/console/internal/application/forms"
	"github.com/billing/console/internal/domain/form"
	"github.com/billing/console/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FormSessionHandler exposes the form session lifecycle over HTTP.
// Every mutation returns the session's full render state so the
// frontend never has to reconcile partial updates.
type FormSessionHandler struct {
	BaseHandler
	sessions *forms.Service
	registry *form.Registry
}

// NewFormSessionHandler creates a new FormSessionHandler
func NewFormSessionHandler(sessions *forms.Service, registry *form.Registry) *FormSessionHandler {
	return &FormSessionHandler{
		sessions: sessions,
		registry: registry,
	}
}

// RegisterRoutes registers form session routes
func (h *FormSessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/forms", h.ListForms)
	rg.POST("/forms/:form/sessions", h.Open)

	sessions := rg.Group("/sessions/:id")
	{
		sessions.GET("", h.Get)
		sessions.DELETE("", h.Close)
		sessions.PUT("/selectors/:selector/levels/:level", h.Select)
		sessions.POST("/selectors/:selector/levels/:level/retry", h.Retry)
		sessions.POST("/rows", h.AddRow)
		sessions.DELETE("/rows/:rowId", h.RemoveRow)
		sessions.PUT("/rows/:rowId/fields/:field", h.SetRowField)
		sessions.PUT("/fields/:field", h.SetField)
		sessions.POST("/validate", h.Validate)
		sessions.POST("/submit", h.Submit)
		sessions.POST("/reset", h.Reset)
		sessions.GET("/existing-entries", h.ExistingEntries)
	}
}

// SelectRequest carries a dropdown selection. A null value clears the
// level.
type SelectRequest struct {
	Value *string `json:"value"`
}

// SetFieldRequest carries a field edit. Kind tells the handler which
// typed setter to route the value to.
type SetFieldRequest struct {
	Kind  string  `json:"kind" binding:"required,oneof=text number reference"`
	Value *string `json:"value"`
}

// ExistingEntriesResponse wraps the lookup result with a readiness flag
type ExistingEntriesResponse struct {
	Ready   bool                  `json:"ready"`
	Entries []forms.ExistingEntry `json:"entries,omitempty"`
}

// ListForms returns the names of the registered form definitions
func (h *FormSessionHandler) ListForms(c *gin.Context) {
	h.Success(c, gin.H{"forms": h.registry.Names()})
}

// Open creates a session for the named form
func (h *FormSessionHandler) Open(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "no actor in request context")
		return
	}

	view, err := h.sessions.Open(c.Request.Context(), c.Param("form"), actor)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Created(c, view)
}

// Get returns the current render state of a session
func (h *FormSessionHandler) Get(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	view, err := h.sessions.Get(sessionID)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, view)
}

// Close discards a session
func (h *FormSessionHandler) Close(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	if err := h.sessions.Close(sessionID); err != nil {
		h.DomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Select applies a dropdown selection at one selector level
func (h *FormSessionHandler) Select(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	level, ok := h.levelParam(c)
	if !ok {
		return
	}
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	view, err := h.sessions.Select(c.Request.Context(), sessionID, c.Param("selector"), level, req.Value)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, view)
}

// Retry reissues the fetch for a failed selector level
func (h *FormSessionHandler) Retry(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	level, ok := h.levelParam(c)
	if !ok {
		return
	}

	view, err := h.sessions.Retry(c.Request.Context(), sessionID, c.Param("selector"), level)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, view)
}

// AddRow appends a blank row to the line-item table
func (h *FormSessionHandler) AddRow(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	view, err := h.sessions.AddRow(sessionID)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, view)
}

// RemoveRow removes a row from the line-item table
func (h *FormSessionHandler) RemoveRow(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	view, err := h.sessions.RemoveRow(sessionID, c.Param("rowId"))
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, view)
}

// SetRowField edits one cell of a table row
func (h *FormSessionHandler) SetRowField(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req SetFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rowID := c.Param("rowId")
	field := c.Param("field")

	var view forms.SessionView
	var err error
	switch req.Kind {
	case "number":
		value, convErr := parseDecimal(req.Value)
		if convErr != nil {
			h.BadRequest(c, convErr.Error())
			return
		}
		view, err = h.sessions.SetRowNumber(sessionID, rowID, field, value)
	case "reference":
		view, err = h.sessions.SetRowRef(sessionID, rowID, field, req.Value)
	default:
		view, err = h.sessions.SetRowText(sessionID, rowID, field, stringValue(req.Value))
	}
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, view)
}

// SetField edits a top-level form field
func (h *FormSessionHandler) SetField(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req SetFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	field := c.Param("field")

	var view forms.SessionView
	var err error
	if req.Kind == "number" {
		value, convErr := parseDecimal(req.Value)
		if convErr != nil {
			h.BadRequest(c, convErr.Error())
			return
		}
		view, err = h.sessions.SetNumberField(sessionID, field, value)
	} else {
		view, err = h.sessions.SetTextField(sessionID, field, stringValue(req.Value))
	}
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, view)
}

// Validate runs all field rules without attempting a submit
func (h *FormSessionHandler) Validate(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	errs, err := h.sessions.Validate(sessionID)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, gin.H{"valid": len(errs) == 0, "errors": errs})
}

// Submit runs the full submit flow. The outcome, including a rejected
// submit, is reported as data.
func (h *FormSessionHandler) Submit(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	result, err := h.sessions.Submit(c.Request.Context(), sessionID)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Reset clears a submitted session for another entry
func (h *FormSessionHandler) Reset(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	view, err := h.sessions.Reset(c.Request.Context(), sessionID)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, view)
}

// ExistingEntries returns the records already stored for the session's
// lookup keys
func (h *FormSessionHandler) ExistingEntries(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	entries, ready, err := h.sessions.ExistingEntries(c.Request.Context(), sessionID)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, ExistingEntriesResponse{Ready: ready, Entries: entries})
}

func (h *FormSessionHandler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid session id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *FormSessionHandler) levelParam(c *gin.Context) (int, bool) {
	level, err := strconv.Atoi(c.Param("level"))
	if err != nil || level < 0 {
		h.BadRequest(c, "invalid level index")
		return 0, false
	}
	return level, true
}

func parseDecimal(value *string) (decimal.Decimal, error) {
	if value == nil || *value == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(*value)
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
