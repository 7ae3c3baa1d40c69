// Package storagetest holds the behaviour every storage.Store implementation must share.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/eventus-be/internal/models"
	"github.com/hongminglow/eventus-be/internal/storage"
)

// Resettable is a store the suite can wipe between cases.
type Resettable interface {
	storage.Store
	Reset(ctx context.Context) error
}

// Run exercises store against the shared storage contract.
func Run(t *testing.T, store Resettable) {
	cases := []struct {
		name string
		fn   func(t *testing.T, s storage.Store)
	}{
		{"users", testUsers},
		{"user filters", testUserFilters},
		{"events", testEvents},
		{"bookmarks", testBookmarks},
		{"tickets", testTickets},
		{"delete user cascades", testDeleteUser},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, store.Reset(context.Background()))
			tc.fn(t, store)
		})
	}
}

func mkUser(t *testing.T, s storage.Store, email string, role models.Role) models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), models.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
		KYCStatus:    models.KYCNone,
	})
	require.NoError(t, err)
	return u
}

func mkEvent(t *testing.T, s storage.Store, owner models.User, title string, category models.Category, when time.Time) models.Event {
	t.Helper()
	e, err := s.CreateEvent(context.Background(), models.Event{
		Title:         title,
		Category:      category,
		DateTime:      when,
		Location:      "Kathmandu",
		Price:         models.DefaultPrice,
		Organizer:     "Jazz Club",
		Description:   models.DefaultDescription,
		IsUserCreated: true,
		CreatedBy:     owner.ID,
	})
	require.NoError(t, err)
	return e
}

func testUsers(t *testing.T, s storage.Store) {
	ctx := context.Background()
	u := mkUser(t, s, "asha@example.com", models.RoleUser)
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	_, err := s.CreateUser(ctx, models.User{FirstName: "Dup", LastName: "User", Email: "asha@example.com", PasswordHash: "x", Role: models.RoleUser, KYCStatus: models.KYCNone})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	byEmail, err := s.FindByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	_, err = s.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	u.Phone = "9800000000"
	u.KYCStatus = models.KYCPending
	u.Ward = "4"
	updated, err := s.UpdateUser(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, models.KYCPending, updated.KYCStatus)
	assert.Equal(t, "4", updated.Ward)

	byPhone, err := s.FindByPhone(ctx, "9800000000")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byPhone.ID)

	require.NoError(t, s.UpdatePassword(ctx, u.ID, "new-hash"))
	reloaded, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", reloaded.PasswordHash)

	require.NoError(t, s.SetDeviceToken(ctx, u.ID, "fcm-1"))
	tokens, err := s.ListDeviceTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fcm-1"}, tokens)

	assert.ErrorIs(t, s.UpdatePassword(ctx, "missing", "x"), storage.ErrNotFound)
}

func testUserFilters(t *testing.T, s storage.Store) {
	ctx := context.Background()
	mkUser(t, s, "user@example.com", models.RoleUser)
	mkUser(t, s, "org@example.com", models.RoleOrganizer)
	blocked := mkUser(t, s, "blocked@example.com", models.RoleUser)
	blocked.IsBlocked = true
	_, err := s.UpdateUser(ctx, blocked)
	require.NoError(t, err)

	all, err := s.ListUsers(ctx, storage.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	organizers, err := s.ListUsers(ctx, storage.UserFilter{Role: models.RoleOrganizer})
	require.NoError(t, err)
	require.Len(t, organizers, 1)
	assert.Equal(t, "org@example.com", organizers[0].Email)

	yes := true
	n, err := s.CountUsers(ctx, storage.UserFilter{Blocked: &yes})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func testEvents(t *testing.T, s storage.Store) {
	ctx := context.Background()
	owner := mkUser(t, s, "org@example.com", models.RoleOrganizer)
	base := time.Date(2026, 11, 1, 18, 0, 0, 0, time.UTC)
	late := mkEvent(t, s, owner, "Late Show", models.CategoryMusic, base.Add(48*time.Hour))
	early := mkEvent(t, s, owner, "Morning Run", models.CategorySports, base)

	got, err := s.GetEvent(ctx, early.ID)
	require.NoError(t, err)
	assert.True(t, got.DateTime.Equal(base))
	require.NotNil(t, got.Creator)
	assert.Equal(t, owner.Email, got.Creator.Email)

	all, err := s.ListEvents(ctx, storage.EventFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, early.ID, all[0].ID)
	assert.Equal(t, late.ID, all[1].ID)

	music, err := s.ListEvents(ctx, storage.EventFilter{Category: models.CategoryMusic})
	require.NoError(t, err)
	require.Len(t, music, 1)
	assert.Equal(t, late.ID, music[0].ID)

	search, err := s.ListEvents(ctx, storage.EventFilter{Search: "jAZZ"})
	require.NoError(t, err)
	assert.Len(t, search, 2)

	literal, err := s.ListEvents(ctx, storage.EventFilter{Search: "%"})
	require.NoError(t, err)
	assert.Empty(t, literal)

	late.Attendees = 99
	late.Title = "Later Show"
	updated, err := s.UpdateEvent(ctx, late)
	require.NoError(t, err)
	assert.Equal(t, 99, updated.Attendees)
	assert.Equal(t, "Later Show", updated.Title)

	count, err := s.CountEvents(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, s.DeleteEvent(ctx, late.ID))
	_, err = s.GetEvent(ctx, late.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.DeleteEvent(ctx, late.ID), storage.ErrNotFound)
}

func testBookmarks(t *testing.T, s storage.Store) {
	ctx := context.Background()
	owner := mkUser(t, s, "org@example.com", models.RoleOrganizer)
	fan := mkUser(t, s, "fan@example.com", models.RoleUser)
	e := mkEvent(t, s, owner, "Jazz Night", models.CategoryMusic, time.Now().UTC().Truncate(time.Second))

	on, err := s.ToggleBookmark(ctx, e.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, on)

	got, err := s.GetEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{fan.ID}, got.BookmarkedBy)

	off, err := s.ToggleBookmark(ctx, e.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, off)

	got, err = s.GetEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Empty(t, got.BookmarkedBy)

	_, err = s.ToggleBookmark(ctx, "missing", fan.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testTickets(t *testing.T, s storage.Store) {
	ctx := context.Background()
	owner := mkUser(t, s, "org@example.com", models.RoleOrganizer)
	fan := mkUser(t, s, "fan@example.com", models.RoleUser)
	e := mkEvent(t, s, owner, "Jazz Night", models.CategoryMusic, time.Now().UTC().Truncate(time.Second))

	ticket, err := s.CreateTicket(ctx, models.Ticket{UserID: fan.ID, EventID: e.ID, Amount: 500, TransactionID: "txn-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, ticket.ID)

	_, err = s.CreateTicket(ctx, models.Ticket{UserID: fan.ID, EventID: e.ID, Amount: 500})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	found, err := s.FindTicket(ctx, fan.ID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, found.ID)

	_, err = s.FindTicket(ctx, owner.ID, e.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	mine, err := s.ListTicketsByUser(ctx, fan.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Event)
	assert.Equal(t, "Jazz Night", mine[0].Event.Title)
}

func testDeleteUser(t *testing.T, s storage.Store) {
	ctx := context.Background()
	owner := mkUser(t, s, "org@example.com", models.RoleOrganizer)
	fan := mkUser(t, s, "fan@example.com", models.RoleUser)
	e := mkEvent(t, s, owner, "Jazz Night", models.CategoryMusic, time.Now().UTC().Truncate(time.Second))
	_, err := s.CreateTicket(ctx, models.Ticket{UserID: fan.ID, EventID: e.ID, Amount: 1})
	require.NoError(t, err)
	_, err = s.ToggleBookmark(ctx, e.ID, fan.ID)
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(ctx, fan.ID))
	got, err := s.GetEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Empty(t, got.BookmarkedBy)
	_, err = s.FindTicket(ctx, fan.ID, e.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.DeleteUser(ctx, owner.ID))
	orphan, err := s.GetEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Empty(t, orphan.CreatedBy)
	assert.Nil(t, orphan.Creator)

	assert.ErrorIs(t, s.DeleteUser(ctx, owner.ID), storage.ErrNotFound)
}
