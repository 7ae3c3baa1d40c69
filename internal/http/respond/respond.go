// Package respond writes the JSON envelope shared by every API response.
package respond

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Envelope is the standard API response wrapper used across handlers.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Count   *int              `json:"count,omitempty"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// JSON writes a success response.
func JSON(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	Write(w, r, status, Envelope{Success: true, Message: message, Data: data})
}

// List writes a success response carrying a collection and its size.
func List[T any](w http.ResponseWriter, r *http.Request, items []T) {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	Write(w, r, http.StatusOK, Envelope{Success: true, Count: &n, Data: items})
}

// Error writes a failure response.
func Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	Write(w, r, status, Envelope{Success: false, Message: message})
}

func Write(w http.ResponseWriter, r *http.Request, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("encode response")
	}
}
