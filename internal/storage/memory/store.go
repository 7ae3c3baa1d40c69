// Package memory is an in-process storage.Store used by tests and by
// STORAGE_DRIVER=memory for local runs without Postgres.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/eventus-be/internal/models"
	"github.com/hongminglow/eventus-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

type ticketKey struct {
	userID  string
	eventID string
}

// Store keeps every record in maps guarded by a single mutex. It enforces the
// same uniqueness rules as the Postgres schema: unique lowercase email and one
// ticket per (user, event).
type Store struct {
	mu        sync.RWMutex
	users     map[string]models.User
	events    map[string]models.Event
	bookmarks map[string]map[string]struct{}
	tickets   map[ticketKey]models.Ticket
	now       func() time.Time
}

func New() *Store {
	return &Store{
		users:     make(map[string]models.User),
		events:    make(map[string]models.Event),
		bookmarks: make(map[string]map[string]struct{}),
		tickets:   make(map[ticketKey]models.Ticket),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Close() {}

// Reset drops every record.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.users)
	clear(s.events)
	clear(s.bookmarks)
	clear(s.tickets)
	return nil
}

func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.Email = strings.ToLower(user.Email)
	if s.emailTakenLocked(user.Email, "") {
		return models.User{}, storage.ErrAlreadyExists
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.ToLower(email)
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) FindByPhone(ctx context.Context, phone string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if phone == "" {
		return models.User{}, storage.ErrNotFound
	}
	for _, u := range s.users {
		if u.Phone == phone {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) ListUsers(ctx context.Context, filter storage.UserFilter) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if matchUser(u, filter) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) CountUsers(ctx context.Context, filter storage.UserFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, u := range s.users {
		if matchUser(u, filter) {
			n++
		}
	}
	return n, nil
}

func (s *Store) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.ID]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	user.Email = strings.ToLower(user.Email)
	if s.emailTakenLocked(user.Email, user.ID) {
		return models.User{}, storage.ErrAlreadyExists
	}
	user.PasswordHash = existing.PasswordHash
	user.DeviceToken = existing.DeviceToken
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = s.now()
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = s.now()
	s.users[id] = u
	return nil
}

func (s *Store) SetDeviceToken(ctx context.Context, id, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.DeviceToken = token
	s.users[id] = u
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	for key := range s.tickets {
		if key.userID == id {
			delete(s.tickets, key)
		}
	}
	for _, set := range s.bookmarks {
		delete(set, id)
	}
	for eid, e := range s.events {
		if e.CreatedBy == id {
			e.CreatedBy = ""
			s.events[eid] = e
		}
	}
	return nil
}

func (s *Store) ListDeviceTokens(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var tokens []string
	for _, u := range s.users {
		if u.DeviceToken != "" {
			tokens = append(tokens, u.DeviceToken)
		}
	}
	return tokens, nil
}

func (s *Store) CreateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := s.now()
	event.CreatedAt, event.UpdatedAt = now, now
	event.BookmarkedBy = nil
	event.Creator = nil
	event.IsBookmarked = false
	s.events[event.ID] = event
	return s.hydrateLocked(event), nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return models.Event{}, storage.ErrNotFound
	}
	return s.hydrateLocked(e), nil
}

func (s *Store) ListEvents(ctx context.Context, filter storage.EventFilter) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	search := strings.ToLower(filter.Search)
	out := make([]models.Event, 0, len(s.events))
	for _, e := range s.events {
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.OwnerID != "" && e.CreatedBy != filter.OwnerID {
			continue
		}
		if search != "" && !matchSearch(e, search) {
			continue
		}
		out = append(out, s.hydrateLocked(e))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	return out, nil
}

func (s *Store) UpdateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.events[event.ID]
	if !ok {
		return models.Event{}, storage.ErrNotFound
	}
	event.CreatedBy = existing.CreatedBy
	event.IsUserCreated = existing.IsUserCreated
	event.CreatedAt = existing.CreatedAt
	event.UpdatedAt = s.now()
	event.BookmarkedBy = nil
	event.Creator = nil
	event.IsBookmarked = false
	s.events[event.ID] = event
	return s.hydrateLocked(event), nil
}

func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.events, id)
	delete(s.bookmarks, id)
	for key := range s.tickets {
		if key.eventID == id {
			delete(s.tickets, key)
		}
	}
	return nil
}

func (s *Store) CountEvents(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.events)), nil
}

func (s *Store) ToggleBookmark(ctx context.Context, eventID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[eventID]; !ok {
		return false, storage.ErrNotFound
	}
	set, ok := s.bookmarks[eventID]
	if !ok {
		set = make(map[string]struct{})
		s.bookmarks[eventID] = set
	}
	if _, member := set[userID]; member {
		delete(set, userID)
		return false, nil
	}
	set[userID] = struct{}{}
	return true, nil
}

func (s *Store) CreateTicket(ctx context.Context, ticket models.Ticket) (models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[ticket.EventID]; !ok {
		return models.Ticket{}, storage.ErrNotFound
	}
	key := ticketKey{userID: ticket.UserID, eventID: ticket.EventID}
	if _, taken := s.tickets[key]; taken {
		return models.Ticket{}, storage.ErrAlreadyExists
	}
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	ticket.CreatedAt = s.now()
	ticket.Event = nil
	s.tickets[key] = ticket
	return ticket, nil
}

func (s *Store) FindTicket(ctx context.Context, userID, eventID string) (models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tickets[ticketKey{userID: userID, eventID: eventID}]
	if !ok {
		return models.Ticket{}, storage.ErrNotFound
	}
	return t, nil
}

func (s *Store) ListTicketsByUser(ctx context.Context, userID string) ([]models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Ticket
	for key, t := range s.tickets {
		if key.userID != userID {
			continue
		}
		if e, ok := s.events[t.EventID]; ok {
			t.Event = &models.EventSummary{
				ID:       e.ID,
				Title:    e.Title,
				DateTime: e.DateTime,
				Location: e.Location,
				ImageURL: e.ImageURL,
				Price:    e.Price,
			}
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) emailTakenLocked(email, exceptID string) bool {
	for id, u := range s.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

// hydrateLocked fills the bookmark set and creator reference the way the
// Postgres queries join them in.
func (s *Store) hydrateLocked(e models.Event) models.Event {
	e.BookmarkedBy = make([]string, 0, len(s.bookmarks[e.ID]))
	for uid := range s.bookmarks[e.ID] {
		e.BookmarkedBy = append(e.BookmarkedBy, uid)
	}
	slices.Sort(e.BookmarkedBy)
	e.Creator = nil
	if owner, ok := s.users[e.CreatedBy]; ok {
		e.Creator = &models.UserSummary{
			ID:        owner.ID,
			FirstName: owner.FirstName,
			LastName:  owner.LastName,
			Email:     owner.Email,
		}
	}
	return e
}

func matchUser(u models.User, filter storage.UserFilter) bool {
	if filter.Role != "" && u.Role != filter.Role {
		return false
	}
	if filter.Blocked != nil && u.IsBlocked != *filter.Blocked {
		return false
	}
	return true
}

func matchSearch(e models.Event, needle string) bool {
	for _, field := range []string{e.Title, e.Description, e.Location, e.Organizer} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
