package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/billing/console/internal/domain/shared"
	"github.com/billing/console/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_Success(t *testing.T) {
	c, w := newTestContext(t)

	h := &BaseHandler{}
	h.Success(c, gin.H{"value": 1})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandler_Created(t *testing.T) {
	c, w := newTestContext(t)

	h := &BaseHandler{}
	h.Created(c, gin.H{"id": "42"})

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
}

func TestBaseHandler_NoContent(t *testing.T) {
	c, w := newTestContext(t)

	h := &BaseHandler{}
	h.NoContent(c)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestBaseHandler_Error(t *testing.T) {
	c, w := newTestContext(t)
	c.Set("request_id", "req-123")

	h := &BaseHandler{}
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "bad input")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	assert.Equal(t, "bad input", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestBaseHandler_DomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "domain error maps through status table",
			err:        shared.NewDomainError(dto.ErrCodeSessionNotFound, "no such session"),
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrCodeSessionNotFound,
		},
		{
			name:       "conflict style domain error",
			err:        shared.NewDomainError(dto.ErrCodeInvalidState, "already submitted"),
			wantStatus: http.StatusConflict,
			wantCode:   dto.ErrCodeInvalidState,
		},
		{
			name:       "wrapped domain error unwraps",
			err:        newWrappedError(shared.NewDomainError(dto.ErrCodeMinRows, "table needs a row")),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   dto.ErrCodeMinRows,
		},
		{
			name:       "plain error becomes internal",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)

			h := &BaseHandler{}
			h.DomainError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

type wrappedError struct {
	inner error
}

func newWrappedError(inner error) error {
	return &wrappedError{inner: inner}
}

func (e *wrappedError) Error() string { return "wrapped: " + e.inner.Error() }
func (e *wrappedError) Unwrap() error { return e.inner }

func TestBaseHandler_Shortcuts(t *testing.T) {
	h := &BaseHandler{}

	t.Run("bad request", func(t *testing.T) {
		c, w := newTestContext(t)
		h.BadRequest(c, "nope")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		c, w := newTestContext(t)
		h.NotFound(c, "missing")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unauthorized", func(t *testing.T) {
		c, w := newTestContext(t)
		h.Unauthorized(c, "who are you")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
