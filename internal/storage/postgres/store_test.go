package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/hongminglow/eventus-be/internal/storage/storagetest"
)

func newContainerStore(t *testing.T) (*Store, string) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	if os.Getenv("RUN_PG_INTEGRATION") != "true" {
		t.Skip("set RUN_PG_INTEGRATION=true to run against a postgres container")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	container, err := tcpostgres.Run(
		ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("eventus"),
		tcpostgres.WithUsername("eventus"),
		tcpostgres.WithPassword("eventus_dev"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dbURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := NewStore(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store, dbURL
}

func TestStoreContract(t *testing.T) {
	store, _ := newContainerStore(t)
	storagetest.Run(t, store)
}

func TestMigrateDownAndUp(t *testing.T) {
	store, dbURL := newContainerStore(t)
	ctx := context.Background()

	require.NoError(t, MigrateDown(dbURL, 1))
	var exists bool
	require.NoError(t, store.pool.QueryRow(ctx, `SELECT to_regclass('public.users') IS NOT NULL`).Scan(&exists))
	require.False(t, exists)

	require.NoError(t, MigrateUp(dbURL))
	require.NoError(t, store.pool.QueryRow(ctx, `SELECT to_regclass('public.users') IS NOT NULL`).Scan(&exists))
	require.True(t, exists)

	require.Error(t, MigrateDown(dbURL, 0))
}

func TestEscapeLike(t *testing.T) {
	require.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
}
