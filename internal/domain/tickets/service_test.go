package tickets

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/eventus-be/internal/apperr"
	"github.com/hongminglow/eventus-be/internal/models"
	"github.com/hongminglow/eventus-be/internal/models/dto"
	"github.com/hongminglow/eventus-be/internal/storage"
	"github.com/hongminglow/eventus-be/internal/storage/memory"
)

func setup(t *testing.T) (*Service, *memory.Store, models.User, models.Event) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	user, err := store.CreateUser(ctx, models.User{FirstName: "Asha", LastName: "Rai", Email: "asha@example.com", Role: models.RoleUser})
	require.NoError(t, err)
	event, err := store.CreateEvent(ctx, models.Event{
		Title:    "Jazz Night",
		Category: models.CategoryMusic,
		DateTime: time.Date(2026, 12, 1, 19, 0, 0, 0, time.UTC),
		Location: "Patan",
		Price:    "NPR 500",
	})
	require.NoError(t, err)
	return NewService(store, store, zerolog.Nop()), store, user, event
}

func amount(v float64) *float64 { return &v }

func TestBook(t *testing.T) {
	svc, _, user, event := setup(t)
	ctx := context.Background()

	_, err := svc.Book(ctx, dto.BookTicketRequest{EventID: event.ID}, user)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Book(ctx, dto.BookTicketRequest{EventID: "missing", Amount: amount(1)}, user)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	has, err := svc.Has(ctx, event.ID, user)
	require.NoError(t, err)
	assert.False(t, has)

	ticket, err := svc.Book(ctx, dto.BookTicketRequest{EventID: event.ID, Amount: amount(0), TransactionID: "txn-1"}, user)
	require.NoError(t, err)
	assert.Equal(t, user.ID, ticket.UserID)
	assert.Equal(t, "txn-1", ticket.TransactionID)

	_, err = svc.Book(ctx, dto.BookTicketRequest{EventID: event.ID, Amount: amount(500)}, user)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, alreadyBooked, err.Error())

	has, err = svc.Has(ctx, event.ID, user)
	require.NoError(t, err)
	assert.True(t, has)

	mine, err := svc.ListMine(ctx, user)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Event)
	assert.Equal(t, "Jazz Night", mine[0].Event.Title)
}

func TestListMineEmpty(t *testing.T) {
	svc, _, user, _ := setup(t)
	mine, err := svc.ListMine(context.Background(), user)
	require.NoError(t, err)
	assert.NotNil(t, mine)
	assert.Empty(t, mine)
}

func TestConcurrentBookingsYieldOneTicket(t *testing.T) {
	svc, _, user, event := setup(t)
	ctx := context.Background()

	const attempts = 20
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)
	start := make(chan struct{})
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.Book(ctx, dto.BookTicketRequest{EventID: event.ID, Amount: amount(10)}, user)
			switch {
			case err == nil:
				successes.Add(1)
			case apperr.Is(err, apperr.KindConflict):
				conflicts.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(attempts-1), conflicts.Load())
}

// racingStore hides existing tickets from the pre-check so the insert-time
// uniqueness violation is what the service sees.
type racingStore struct {
	*memory.Store
}

func (racingStore) FindTicket(context.Context, string, string) (models.Ticket, error) {
	return models.Ticket{}, storage.ErrNotFound
}

func TestInsertConflictMapsToConflict(t *testing.T) {
	_, store, user, event := setup(t)
	svc := NewService(racingStore{store}, store, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Book(ctx, dto.BookTicketRequest{EventID: event.ID, Amount: amount(1)}, user)
	require.NoError(t, err)
	_, err = svc.Book(ctx, dto.BookTicketRequest{EventID: event.ID, Amount: amount(1)}, user)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}
