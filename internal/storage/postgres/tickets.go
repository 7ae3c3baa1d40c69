package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/eventus-be/internal/models"
	"github.com/hongminglow/eventus-be/internal/storage"
)

// CreateTicket inserts a ticket. The (user_id, event_id) unique index turns a
// concurrent duplicate booking into storage.ErrAlreadyExists.
func (s *Store) CreateTicket(ctx context.Context, ticket models.Ticket) (models.Ticket, error) {
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	const query = `
		INSERT INTO tickets (id, user_id, event_id, amount, transaction_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, event_id, amount, transaction_id, created_at`
	row := s.pool.QueryRow(ctx, query, ticket.ID, ticket.UserID, ticket.EventID, ticket.Amount, ticket.TransactionID)
	created, err := scanTicket(row)
	if err != nil {
		return models.Ticket{}, translate(err)
	}
	return created, nil
}

// FindTicket fetches the ticket a user holds for an event.
func (s *Store) FindTicket(ctx context.Context, userID, eventID string) (models.Ticket, error) {
	const query = `
		SELECT id, user_id, event_id, amount, transaction_id, created_at
		FROM tickets
		WHERE user_id = $1 AND event_id = $2`
	return scanTicket(s.pool.QueryRow(ctx, query, userID, eventID))
}

// ListTicketsByUser returns a user's tickets with their event summaries, newest first.
func (s *Store) ListTicketsByUser(ctx context.Context, userID string) ([]models.Ticket, error) {
	const query = `
		SELECT t.id, t.user_id, t.event_id, t.amount, t.transaction_id, t.created_at,
			e.id, e.title, e.date_time, e.location, e.image_url, e.price
		FROM tickets t
		JOIN events e ON e.id = t.event_id
		WHERE t.user_id = $1
		ORDER BY t.created_at DESC`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	tickets := make([]models.Ticket, 0)
	for rows.Next() {
		var (
			t  models.Ticket
			ev models.EventSummary
		)
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.EventID, &t.Amount, &t.TransactionID, &t.CreatedAt,
			&ev.ID, &ev.Title, &ev.DateTime, &ev.Location, &ev.ImageURL, &ev.Price,
		); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		t.Event = &ev
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

func scanTicket(row pgx.Row) (models.Ticket, error) {
	var t models.Ticket
	if err := row.Scan(&t.ID, &t.UserID, &t.EventID, &t.Amount, &t.TransactionID, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Ticket{}, storage.ErrNotFound
		}
		return models.Ticket{}, err
	}
	return t, nil
}
