package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/eventus-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserFilter narrows user listings and counts. Zero values mean "any".
type UserFilter struct {
	Role    models.Role
	Blocked *bool
}

// EventFilter narrows event listings. Search is a case-insensitive substring
// matched against title, description, location and organizer.
type EventFilter struct {
	Category models.Category
	Search   string
	OwnerID  string
}

// UserStore captures persistence operations over users.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByPhone(ctx context.Context, phone string) (models.User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]models.User, error)
	CountUsers(ctx context.Context, filter UserFilter) (int64, error)
	// UpdateUser overwrites every mutable profile field except the password hash.
	UpdateUser(ctx context.Context, user models.User) (models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetDeviceToken(ctx context.Context, id, token string) error
	DeleteUser(ctx context.Context, id string) error
	ListDeviceTokens(ctx context.Context) ([]string, error)
}

// EventStore captures persistence operations over events and their bookmark sets.
type EventStore interface {
	CreateEvent(ctx context.Context, event models.Event) (models.Event, error)
	GetEvent(ctx context.Context, id string) (models.Event, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]models.Event, error)
	UpdateEvent(ctx context.Context, event models.Event) (models.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	CountEvents(ctx context.Context) (int64, error)
	// ToggleBookmark flips userID's membership in the event's bookmark set and
	// returns the membership after the flip.
	ToggleBookmark(ctx context.Context, eventID, userID string) (bool, error)
}

// TicketStore captures persistence operations over tickets.
type TicketStore interface {
	// CreateTicket returns ErrAlreadyExists when the (user, event) pair is taken.
	CreateTicket(ctx context.Context, ticket models.Ticket) (models.Ticket, error)
	FindTicket(ctx context.Context, userID, eventID string) (models.Ticket, error)
	ListTicketsByUser(ctx context.Context, userID string) ([]models.Ticket, error)
}

// Store is the full persistence surface used by the server.
type Store interface {
	UserStore
	EventStore
	TicketStore
	Close()
}
