// Package notify delivers best-effort push notifications to registered devices.
package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// Message is the visible part of a push notification.
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Report summarises a fan-out. Failures are never surfaced as errors.
type Report struct {
	Sent   int
	Failed int
}

// Sender delivers a message to each device token.
type Sender interface {
	Send(ctx context.Context, tokens []string, msg Message) Report
}

// Nop drops every message. It is used when no push credential is configured.
type Nop struct {
	Logger zerolog.Logger
}

func (n Nop) Send(_ context.Context, tokens []string, msg Message) Report {
	n.Logger.Debug().Int("tokens", len(tokens)).Str("title", msg.Title).Msg("push disabled, dropping notification")
	return Report{}
}
