package access

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hongminglow/eventus-be/internal/apperr"
	"github.com/hongminglow/eventus-be/internal/auth"
	"github.com/hongminglow/eventus-be/internal/models"
	"github.com/hongminglow/eventus-be/internal/storage"
)

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserLookup loads the user a token refers to.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (models.User, error)
}

// ErrorWriter renders a failure on the response.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Authenticator provides the required and optional authentication middleware.
type Authenticator struct {
	tokens   TokenVerifier
	users    UserLookup
	writeErr ErrorWriter
}

// NewAuthenticator wires token verification and user lookup; writeErr renders rejections.
func NewAuthenticator(tokens TokenVerifier, users UserLookup, writeErr ErrorWriter) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, writeErr: writeErr}
}

// Required rejects the request with an auth error unless a valid token for an existing user is presented.
func (a *Authenticator) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.resolve(r)
		if err != nil {
			a.writeErr(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// Optional attaches the user when a valid token is presented and otherwise continues anonymously.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.resolve(r)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindInternal {
				zerolog.Ctx(r.Context()).Warn().Err(err).Msg("optional auth lookup failed")
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireRole must run after Required; it rejects users whose role is not allowed.
func (a *Authenticator) RequireRole(allowed ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFrom(r.Context())
			if !ok {
				a.writeErr(w, r, apperr.Auth("Not authorized, no token"))
				return
			}
			if err := RequireRole(user, allowed...); err != nil {
				a.writeErr(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (a *Authenticator) resolve(r *http.Request) (models.User, error) {
	token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
	if err != nil {
		return models.User{}, apperr.Auth("Not authorized, no token")
	}
	userID, err := a.tokens.Verify(token)
	if err != nil {
		return models.User{}, apperr.Auth("Not authorized, token failed")
	}
	user, err := a.users.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, apperr.Auth("Not authorized, user not found")
		}
		return models.User{}, apperr.Internal("load authenticated user", err)
	}
	return user, nil
}
