package events

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/eventus-be/internal/apperr"
	"github.com/hongminglow/eventus-be/internal/models"
	"github.com/hongminglow/eventus-be/internal/models/dto"
	"github.com/hongminglow/eventus-be/internal/notify"
	"github.com/hongminglow/eventus-be/internal/opt"
	"github.com/hongminglow/eventus-be/internal/storage/memory"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, tokens []string, msg notify.Message) notify.Report {
	args := m.Called(ctx, tokens, msg)
	return args.Get(0).(notify.Report)
}

type fixture struct {
	svc       *Service
	store     *memory.Store
	sender    *mockSender
	admin     models.User
	organizer models.User
	pending   models.User
	user      models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	sender := &mockSender{}

	mk := func(first string, role models.Role, kyc models.KYCStatus) models.User {
		u, err := store.CreateUser(ctx, models.User{
			FirstName: first,
			LastName:  "Tester",
			Email:     first + "@example.com",
			Role:      role,
			KYCStatus: kyc,
		})
		require.NoError(t, err)
		return u
	}

	return &fixture{
		svc:       NewService(store, store, sender, time.Second, zerolog.Nop()),
		store:     store,
		sender:    sender,
		admin:     mk("admin", models.RoleAdmin, models.KYCNone),
		organizer: mk("org", models.RoleOrganizer, models.KYCVerified),
		pending:   mk("pending", models.RoleOrganizer, models.KYCPending),
		user:      mk("user", models.RoleUser, models.KYCNone),
	}
}

func validRequest() dto.CreateEventRequest {
	return dto.CreateEventRequest{
		Title:    "Jazz Night",
		Category: "Music",
		DateTime: "2026-12-01T19:00",
		Location: "Patan",
	}
}

func TestCreateGates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, validRequest(), f.user)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = f.svc.Create(ctx, validRequest(), f.pending)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "KYC")

	created, err := f.svc.Create(ctx, validRequest(), f.organizer)
	require.NoError(t, err)
	assert.Equal(t, f.organizer.ID, created.CreatedBy)

	_, err = f.svc.Create(ctx, validRequest(), f.admin)
	assert.NoError(t, err, "admins bypass the KYC gate")
}

func TestCreateAppliesDefaults(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(context.Background(), validRequest(), f.organizer)
	require.NoError(t, err)

	assert.True(t, created.IsUserCreated)
	assert.Equal(t, models.DefaultPrice, created.Price)
	assert.Equal(t, models.DefaultDescription, created.Description)
	assert.Equal(t, "org Tester", created.Organizer)
	assert.Equal(t, 0, created.Attendees)
	assert.Equal(t, time.Date(2026, 12, 1, 19, 0, 0, 0, time.UTC), created.DateTime)
	require.NotNil(t, created.Creator)
	assert.Equal(t, f.organizer.Email, created.Creator.Email)

	req := validRequest()
	req.Organizer = "Kathmandu Jazz Club"
	created, err = f.svc.Create(context.Background(), req, f.organizer)
	require.NoError(t, err)
	assert.Equal(t, "Kathmandu Jazz Club", created.Organizer)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	negative := -1

	tests := []struct {
		name   string
		mutate func(*dto.CreateEventRequest)
		field  string
	}{
		{"missing title", func(r *dto.CreateEventRequest) { r.Title = "  " }, "title"},
		{"unknown category", func(r *dto.CreateEventRequest) { r.Category = "Party" }, "category"},
		{"bad date", func(r *dto.CreateEventRequest) { r.DateTime = "next friday" }, "dateTime"},
		{"missing location", func(r *dto.CreateEventRequest) { r.Location = "" }, "location"},
		{"negative attendees", func(r *dto.CreateEventRequest) { r.Attendees = &negative }, "attendees"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			_, err := f.svc.Create(context.Background(), req, f.organizer)
			var appErr *apperr.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperr.KindValidation, appErr.Kind)
			assert.Contains(t, appErr.Fields, tt.field)
		})
	}
}

func TestCreateAnnouncesToDevices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.SetDeviceToken(ctx, f.user.ID, "device-1"))

	f.sender.On("Send", mock.Anything, []string{"device-1"}, notify.Message{
		Title: "New Event: Jazz Night",
		Body:  "org Tester published a new Music event",
	}).Return(notify.Report{Failed: 1}).Once()

	_, err := f.svc.Create(ctx, validRequest(), f.organizer)
	require.NoError(t, err, "a failed push must not fail the create")
	f.sender.AssertExpectations(t)
}

func TestCreateSkipsAnnouncementWithoutDevices(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), validRequest(), f.organizer)
	require.NoError(t, err)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mk := func(title, category, date, location string) models.Event {
		e, err := f.svc.Create(ctx, dto.CreateEventRequest{Title: title, Category: category, DateTime: date, Location: location}, f.organizer)
		require.NoError(t, err)
		return e
	}
	late := mk("Marathon", "Sports", "2026-11-20", "Pokhara")
	early := mk("Go Conference", "Conference", "2026-10-20", "Kathmandu")
	mk("Momo Fest", "Food & Drink", "2026-11-01", "Lalitpur")

	all, err := f.svc.List(ctx, dto.EventQuery{Category: models.CategoryAll}, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, early.ID, all[0].ID)
	assert.Equal(t, late.ID, all[2].ID)

	sports, err := f.svc.List(ctx, dto.EventQuery{Category: "Sports"}, nil)
	require.NoError(t, err)
	require.Len(t, sports, 1)
	assert.Equal(t, late.ID, sports[0].ID)

	search, err := f.svc.List(ctx, dto.EventQuery{Search: "kathMANDU"}, nil)
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, early.ID, search[0].ID)

	mine, err := f.svc.ListByOwner(ctx, f.organizer.ID, nil)
	require.NoError(t, err)
	assert.Len(t, mine, 3)
}

func TestBookmarkToggleIsAnInvolution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	event, err := f.svc.Create(ctx, validRequest(), f.organizer)
	require.NoError(t, err)

	on, err := f.svc.ToggleBookmark(ctx, event.ID, f.user)
	require.NoError(t, err)
	assert.True(t, on.IsBookmarked)
	assert.Contains(t, on.BookmarkedBy, f.user.ID)

	bookmarked, err := f.svc.List(ctx, dto.EventQuery{BookmarkedOnly: true}, &f.user)
	require.NoError(t, err)
	assert.Len(t, bookmarked, 1)

	anonymous, err := f.svc.Get(ctx, event.ID, nil)
	require.NoError(t, err)
	assert.False(t, anonymous.IsBookmarked)

	off, err := f.svc.ToggleBookmark(ctx, event.ID, f.user)
	require.NoError(t, err)
	assert.False(t, off.IsBookmarked)
	assert.Empty(t, off.BookmarkedBy)

	_, err = f.svc.ToggleBookmark(ctx, "missing", f.user)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateAndDeleteOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	event, err := f.svc.Create(ctx, validRequest(), f.organizer)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, "missing", dto.EventPatch{Title: opt.Of("x")}, f.organizer)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = f.svc.Update(ctx, event.ID, dto.EventPatch{Title: opt.Of("Hijacked")}, f.user)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = f.svc.Update(ctx, event.ID, dto.EventPatch{Category: opt.Of("Party")}, f.organizer)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	updated, err := f.svc.Update(ctx, event.ID, dto.EventPatch{
		Title:     opt.Of("Jazz Night II"),
		Attendees: opt.Of(40),
	}, f.organizer)
	require.NoError(t, err)
	assert.Equal(t, "Jazz Night II", updated.Title)
	assert.Equal(t, 40, updated.Attendees)
	assert.Equal(t, "Patan", updated.Location)
	assert.Equal(t, f.organizer.ID, updated.CreatedBy)

	updated, err = f.svc.Update(ctx, event.ID, dto.EventPatch{Price: opt.Of("NPR 500")}, f.admin)
	require.NoError(t, err)
	assert.Equal(t, "NPR 500", updated.Price)

	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(f.svc.Delete(ctx, event.ID, f.user)))
	require.NoError(t, f.svc.Delete(ctx, event.ID, f.organizer))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(f.svc.Delete(ctx, event.ID, f.organizer)))
}

func TestOrphanedEventIsAdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	event, err := f.svc.Create(ctx, validRequest(), f.organizer)
	require.NoError(t, err)

	require.NoError(t, f.store.DeleteUser(ctx, f.organizer.ID))

	orphan, err := f.svc.Get(ctx, event.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, orphan.CreatedBy)
	assert.Nil(t, orphan.Creator)

	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(f.svc.Delete(ctx, event.ID, f.pending)))
	assert.NoError(t, f.svc.Delete(ctx, event.ID, f.admin))
}

func TestUpdateBlankOrganizerKeepsCurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	event, err := f.svc.Create(ctx, validRequest(), f.organizer)
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, event.ID, dto.EventPatch{Organizer: opt.Of("   ")}, f.organizer)
	require.NoError(t, err)
	assert.Equal(t, "org Tester", updated.Organizer)

	updated, err = f.svc.Update(ctx, event.ID, dto.EventPatch{Organizer: opt.Of(" Jazz Club ")}, f.organizer)
	require.NoError(t, err)
	assert.Equal(t, "Jazz Club", updated.Organizer)
}

func TestAuthorizeChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	event, err := f.svc.Create(ctx, validRequest(), f.organizer)
	require.NoError(t, err)

	assert.NoError(t, f.svc.AuthorizeChange(ctx, event.ID, f.organizer, "update"))
	assert.NoError(t, f.svc.AuthorizeChange(ctx, event.ID, f.admin, "update"))

	err = f.svc.AuthorizeChange(ctx, event.ID, f.user, "update")
	assert.EqualError(t, err, "Not authorized to update this event")

	err = f.svc.AuthorizeChange(ctx, "missing", f.user, "update")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
