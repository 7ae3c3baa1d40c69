// Package tickets implements the ticket ledger: at most one ticket per user per event.
package tickets

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hongminglow/eventus-be/internal/apperr"
	"github.com/hongminglow/eventus-be/internal/metrics"
	"github.com/hongminglow/eventus-be/internal/models"
	"github.com/hongminglow/eventus-be/internal/models/dto"
	"github.com/hongminglow/eventus-be/internal/storage"
)

const alreadyBooked = "You have already booked a ticket for this event"

// EventLookup checks that the event being booked exists.
type EventLookup interface {
	GetEvent(ctx context.Context, id string) (models.Event, error)
}

type Service struct {
	tickets storage.TicketStore
	events  EventLookup
	logger  zerolog.Logger
}

func NewService(tickets storage.TicketStore, events EventLookup, logger zerolog.Logger) *Service {
	return &Service{
		tickets: tickets,
		events:  events,
		logger:  logger.With().Str("component", "tickets").Logger(),
	}
}

// Book records a ticket for actor. The pre-check gives a friendly error in the
// common case; the store's unique index decides races.
func (s *Service) Book(ctx context.Context, req dto.BookTicketRequest, actor models.User) (models.Ticket, error) {
	eventID := strings.TrimSpace(req.EventID)
	if eventID == "" || req.Amount == nil {
		return models.Ticket{}, apperr.Validation("eventId and amount are required")
	}

	if _, err := s.events.GetEvent(ctx, eventID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Ticket{}, apperr.NotFound("Event not found")
		}
		return models.Ticket{}, apperr.Internal("load event", err)
	}

	if _, err := s.tickets.FindTicket(ctx, actor.ID, eventID); err == nil {
		return models.Ticket{}, apperr.Conflict(alreadyBooked)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.Ticket{}, apperr.Internal("check existing ticket", err)
	}

	ticket, err := s.tickets.CreateTicket(ctx, models.Ticket{
		UserID:        actor.ID,
		EventID:       eventID,
		Amount:        *req.Amount,
		TransactionID: strings.TrimSpace(req.TransactionID),
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			return models.Ticket{}, apperr.Conflict(alreadyBooked)
		case errors.Is(err, storage.ErrNotFound):
			return models.Ticket{}, apperr.NotFound("Event not found")
		default:
			return models.Ticket{}, apperr.Internal("create ticket", err)
		}
	}

	metrics.TicketsBooked.Inc()
	s.logger.Info().Str("ticket_id", ticket.ID).Str("event_id", eventID).Str("user_id", actor.ID).Msg("ticket booked")
	return ticket, nil
}

// Has reports whether actor holds a ticket for the event.
func (s *Service) Has(ctx context.Context, eventID string, actor models.User) (bool, error) {
	_, err := s.tickets.FindTicket(ctx, actor.ID, eventID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, storage.ErrNotFound):
		return false, nil
	default:
		return false, apperr.Internal("find ticket", err)
	}
}

// ListMine returns actor's tickets newest first, each with its event summary.
func (s *Service) ListMine(ctx context.Context, actor models.User) ([]models.Ticket, error) {
	tickets, err := s.tickets.ListTicketsByUser(ctx, actor.ID)
	if err != nil {
		return nil, apperr.Internal("list tickets", err)
	}
	if tickets == nil {
		tickets = []models.Ticket{}
	}
	return tickets, nil
}
