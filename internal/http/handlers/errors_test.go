package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/eventus-be/internal/apperr"
	"github.com/hongminglow/eventus-be/internal/http/respond"
)

func writeErr(t *testing.T, responder *ErrorResponder, err error) (int, respond.Envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	responder.Write(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil), err)
	var env respond.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestErrorResponderStatuses(t *testing.T) {
	responder := NewErrorResponder(false)
	tests := []struct {
		err    error
		status int
	}{
		{apperr.Validation("bad"), http.StatusBadRequest},
		{apperr.Conflict("taken"), http.StatusBadRequest},
		{apperr.Auth("who"), http.StatusUnauthorized},
		{apperr.Forbidden("no"), http.StatusForbidden},
		{apperr.NotFound("gone"), http.StatusNotFound},
	}
	for _, tt := range tests {
		status, env := writeErr(t, responder, tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.False(t, env.Success)
		assert.Equal(t, tt.err.Error(), env.Message)
	}

	_, env := writeErr(t, responder, apperr.InvalidFields(map[string]string{"title": "is required"}))
	assert.Equal(t, "is required", env.Errors["title"])
}

func TestErrorResponderRedactsInternal(t *testing.T) {
	cause := errors.New("pq: password authentication failed")

	status, env := writeErr(t, NewErrorResponder(false), apperr.Internal("load", cause))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Server Error", env.Message)
	assert.Empty(t, env.Error)

	_, env = writeErr(t, NewErrorResponder(false), cause)
	assert.Equal(t, "Server Error", env.Message)

	_, env = writeErr(t, NewErrorResponder(true), apperr.Internal("load", cause))
	assert.Equal(t, "load: pq: password authentication failed", env.Error)
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	rec := httptest.NewRecorder()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok"}`))
	require.NoError(t, decodeJSON(rec, req, &dst))
	assert.Equal(t, "ok", dst.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	assert.EqualError(t, decodeJSON(rec, req, &dst), "Invalid JSON payload")

	huge := `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(huge))
	assert.EqualError(t, decodeJSON(rec, req, &dst), "Request body too large")
}
