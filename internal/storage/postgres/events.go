package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/eventus-be/internal/models"
	"github.com/hongminglow/eventus-be/internal/storage"
)

const eventSelect = `
	SELECT e.id, e.title, e.category, e.date_time, e.location, e.attendees, e.price, e.image_url, e.icon_emoji,
		e.organizer, e.description, e.is_user_created, e.created_by, e.created_at, e.updated_at,
		u.id, u.first_name, u.last_name, u.email,
		COALESCE((SELECT array_agg(b.user_id ORDER BY b.user_id) FROM event_bookmarks b WHERE b.event_id = e.id), '{}')
	FROM events e
	LEFT JOIN users u ON u.id = e.created_by`

// CreateEvent inserts an event and returns it with the creator populated.
func (s *Store) CreateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	const query = `
		INSERT INTO events (id, title, category, date_time, location, attendees, price, image_url, icon_emoji,
			organizer, description, is_user_created, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := s.pool.Exec(ctx, query,
		event.ID, event.Title, string(event.Category), event.DateTime, event.Location, event.Attendees, event.Price,
		event.ImageURL, event.IconEmoji, event.Organizer, event.Description, event.IsUserCreated,
		nullableID(event.CreatedBy),
	)
	if err != nil {
		return models.Event{}, fmt.Errorf("insert event: %w", translate(err))
	}
	return s.GetEvent(ctx, event.ID)
}

// GetEvent fetches an event by id.
func (s *Store) GetEvent(ctx context.Context, id string) (models.Event, error) {
	row := s.pool.QueryRow(ctx, eventSelect+` WHERE e.id = $1`, id)
	return scanEvent(row)
}

// ListEvents returns events matching the filter ordered by date ascending.
func (s *Store) ListEvents(ctx context.Context, filter storage.EventFilter) ([]models.Event, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		clauses = append(clauses, fmt.Sprintf("e.category = $%d", len(args)))
	}
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("e.created_by = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(e.title ILIKE $%[1]d OR e.description ILIKE $%[1]d OR e.location ILIKE $%[1]d OR e.organizer ILIKE $%[1]d)", n))
	}
	query := eventSelect
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY e.date_time ASC, e.created_at ASC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// UpdateEvent overwrites the editable columns. Ownership and creation flags are left untouched.
func (s *Store) UpdateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	const query = `
		UPDATE events SET
			title = $2, category = $3, date_time = $4, location = $5, attendees = $6, price = $7, image_url = $8,
			icon_emoji = $9, organizer = $10, description = $11, updated_at = NOW()
		WHERE id = $1`
	tag, err := s.pool.Exec(ctx, query,
		event.ID, event.Title, string(event.Category), event.DateTime, event.Location, event.Attendees, event.Price,
		event.ImageURL, event.IconEmoji, event.Organizer, event.Description,
	)
	if err != nil {
		return models.Event{}, fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.Event{}, storage.ErrNotFound
	}
	return s.GetEvent(ctx, event.ID)
}

// DeleteEvent removes an event together with its tickets and bookmarks.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CountEvents counts every event.
func (s *Store) CountEvents(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// ToggleBookmark removes the bookmark if present, otherwise adds it.
// Two concurrent toggles by the same user are not serialised.
func (s *Store) ToggleBookmark(ctx context.Context, eventID, userID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM event_bookmarks WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("remove bookmark: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO event_bookmarks (event_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, eventID, userID)
	if err != nil {
		err = translate(err)
		if errors.Is(err, storage.ErrNotFound) {
			return false, err
		}
		return false, fmt.Errorf("add bookmark: %w", err)
	}
	return true, nil
}

func scanEvent(row pgx.Row) (models.Event, error) {
	var (
		e              models.Event
		category       string
		createdBy      *string
		ownerID        *string
		ownerFirstName *string
		ownerLastName  *string
		ownerEmail     *string
	)
	err := row.Scan(
		&e.ID, &e.Title, &category, &e.DateTime, &e.Location, &e.Attendees, &e.Price, &e.ImageURL, &e.IconEmoji,
		&e.Organizer, &e.Description, &e.IsUserCreated, &createdBy, &e.CreatedAt, &e.UpdatedAt,
		&ownerID, &ownerFirstName, &ownerLastName, &ownerEmail,
		&e.BookmarkedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Event{}, storage.ErrNotFound
		}
		return models.Event{}, err
	}
	e.Category = models.Category(category)
	if createdBy != nil {
		e.CreatedBy = *createdBy
	}
	if ownerID != nil {
		e.Creator = &models.UserSummary{
			ID:        *ownerID,
			FirstName: deref(ownerFirstName),
			LastName:  deref(ownerLastName),
			Email:     deref(ownerEmail),
		}
	}
	return e, nil
}

func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
