package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/hongminglow/eventus-be/internal/apperr"
	"github.com/hongminglow/eventus-be/internal/http/respond"
)

const maxBodyBytes = 1 << 20

// ErrorResponder maps domain errors onto status codes and the response envelope.
type ErrorResponder struct {
	exposeInternal bool
}

// NewErrorResponder builds a responder; exposeInternal puts the cause of a 500 in
// the response and is only set in development.
func NewErrorResponder(exposeInternal bool) *ErrorResponder {
	return &ErrorResponder{exposeInternal: exposeInternal}
}

func (e *ErrorResponder) Write(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperr.KindInternal {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		payload := respond.Envelope{Message: "Server Error"}
		if e.exposeInternal {
			payload.Error = err.Error()
		}
		respond.Write(w, r, http.StatusInternalServerError, payload)
		return
	}

	status := StatusFor(appErr.Kind)
	logger.Warn().Str("kind", appErr.Kind.String()).Int("status", status).Str("path", r.URL.Path).Msg(appErr.Message)
	respond.Write(w, r, status, respond.Envelope{Message: appErr.Message, Errors: appErr.Fields})
}

// StatusFor returns the HTTP status for an error kind. Conflicts are reported as
// 400 so clients see the same status as other rejected input.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Validation("Request body too large")
		}
		return apperr.Validation("Invalid JSON payload")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperr.Validation("Invalid JSON payload")
	}
	return nil
}
