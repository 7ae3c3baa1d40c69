package access

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/eventus-be/internal/apperr"
	"github.com/hongminglow/eventus-be/internal/models"
	"github.com/hongminglow/eventus-be/internal/storage"
)

type fakeTokens map[string]string

func (f fakeTokens) Verify(token string) (string, error) {
	id, ok := f[token]
	if !ok {
		return "", errors.New("bad token")
	}
	return id, nil
}

type fakeUsers map[string]models.User

func (f fakeUsers) GetUser(ctx context.Context, id string) (models.User, error) {
	if id == "broken" {
		return models.User{}, errors.New("db down")
	}
	u, ok := f[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return u, nil
}

// recordErr captures the error the middleware rendered.
type recordErr struct{ err error }

func (r *recordErr) write(w http.ResponseWriter, _ *http.Request, err error) {
	r.err = err
	w.WriteHeader(http.StatusTeapot)
}

func newTestAuthenticator() (*Authenticator, *recordErr) {
	rec := &recordErr{}
	tokens := fakeTokens{"good": "u1", "ghost": "missing", "broken": "broken", "admin": "a1"}
	users := fakeUsers{
		"u1": {ID: "u1", Role: models.RoleUser},
		"a1": {ID: "a1", Role: models.RoleAdmin},
	}
	return NewAuthenticator(tokens, users, rec.write), rec
}

func serve(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequired(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		message string
		kind    apperr.Kind
	}{
		{"no header", "", "Not authorized, no token", apperr.KindAuth},
		{"wrong scheme", "Basic abc", "Not authorized, no token", apperr.KindAuth},
		{"bad token", "Bearer nope", "Not authorized, token failed", apperr.KindAuth},
		{"deleted user", "Bearer ghost", "Not authorized, user not found", apperr.KindAuth},
		{"lookup failure", "Bearer broken", "load authenticated user: db down", apperr.KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authn, rec := newTestAuthenticator()
			called := false
			h := authn.Required(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

			resp := serve(h, tt.header)
			assert.False(t, called)
			assert.Equal(t, http.StatusTeapot, resp.Code)
			require.Error(t, rec.err)
			assert.Equal(t, tt.kind, apperr.KindOf(rec.err))
			assert.EqualError(t, rec.err, tt.message)
		})
	}

	t.Run("valid token", func(t *testing.T) {
		authn, _ := newTestAuthenticator()
		var got models.User
		h := authn.Required(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = UserFrom(r.Context())
		}))
		resp := serve(h, "Bearer good")
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "u1", got.ID)
	})
}

func TestOptional(t *testing.T) {
	authn, rec := newTestAuthenticator()
	var actor *models.User
	h := authn.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor = ActorFrom(r.Context())
	}))

	serve(h, "")
	assert.Nil(t, actor)

	serve(h, "Bearer nope")
	assert.Nil(t, actor)

	serve(h, "Bearer good")
	require.NotNil(t, actor)
	assert.Equal(t, "u1", actor.ID)
	assert.NoError(t, rec.err)
}

func TestRequireRoleMiddleware(t *testing.T) {
	authn, rec := newTestAuthenticator()
	h := authn.Required(authn.RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	assert.Equal(t, http.StatusTeapot, serve(h, "Bearer good").Code)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(rec.err))

	assert.Equal(t, http.StatusNoContent, serve(h, "Bearer admin").Code)
}
