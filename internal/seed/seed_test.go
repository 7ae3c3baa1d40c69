package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/eventus-be/internal/auth"
	"github.com/hongminglow/eventus-be/internal/models"
	"github.com/hongminglow/eventus-be/internal/storage"
	"github.com/hongminglow/eventus-be/internal/storage/memory"
)

func TestRunSeedsAccountsAndEvents(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	hasher := auth.NewHasher(bcrypt.MinCost)

	_, err := store.CreateUser(ctx, models.User{FirstName: "Stale", Email: "stale@example.com", Role: models.RoleUser})
	require.NoError(t, err)

	res, err := Run(ctx, store, hasher, "admin@eventus.com", "admin123", zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, res.Users, 3)
	require.Len(t, res.Events, 5)

	_, err = store.FindByEmail(ctx, "stale@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	admin, err := store.FindByEmail(ctx, "admin@eventus.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, hasher.Compare(admin.PasswordHash, "admin123"))

	organizer, err := store.FindByEmail(ctx, "jane.smith@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.KYCVerified, organizer.KYCStatus)

	owned, err := store.ListEvents(ctx, storage.EventFilter{OwnerID: organizer.ID})
	require.NoError(t, err)
	assert.Len(t, owned, 3)

	again, err := Run(ctx, store, hasher, "admin@eventus.com", "admin123", zerolog.Nop())
	require.NoError(t, err, "seeding twice starts from a clean store")
	total, err := store.CountEvents(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, len(again.Events), total)
}
