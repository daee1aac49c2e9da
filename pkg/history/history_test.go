package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// TestOpen_CreatesParentDirectories tests that a nested path is created
// on first open
func TestOpen_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "reminders", "history.db")

	store, err := Open(path)

	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

// TestStore_RecordAndReadBack tests that deliveries come back complete
// and oldest first
func TestStore_RecordAndReadBack(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.StartRun("run-1", 14, "bulk"))

	require.NoError(t, store.RecordDelivery("run-1", "Fred Flintstone", "fred@example.com", 2))
	require.NoError(t, store.RecordDelivery("run-1", "Barney Rubble", "barney@example.com", 1))

	deliveries, err := store.Deliveries("run-1")

	require.NoError(t, err)
	require.Len(t, deliveries, 2)
	assert.Equal(t, "Fred Flintstone", deliveries[0].User)
	assert.Equal(t, "fred@example.com", deliveries[0].Email)
	assert.Equal(t, 2, deliveries[0].Actions)
	assert.Equal(t, "Barney Rubble", deliveries[1].User)
	assert.WithinDuration(t, time.Now().UTC(), deliveries[0].SentAt, time.Minute)
}

// TestStore_DeliveriesScopedToRun tests that runs do not see each
// other's deliveries
func TestStore_DeliveriesScopedToRun(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.StartRun("run-1", 14, "bulk"))
	require.NoError(t, store.StartRun("run-2", 7, "interactive"))
	require.NoError(t, store.RecordDelivery("run-1", "Fred Flintstone", "fred@example.com", 2))

	deliveries, err := store.Deliveries("run-2")

	require.NoError(t, err)
	assert.Empty(t, deliveries)
}

// TestStore_DuplicateRunID tests that reusing a run identifier fails
func TestStore_DuplicateRunID(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.StartRun("run-1", 14, "bulk"))

	err := store.StartRun("run-1", 7, "bulk")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record run")
}

// TestStore_ReopenKeepsData tests persistence across store instances
func TestStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.StartRun("run-1", 14, "bulk"))
	require.NoError(t, store.RecordDelivery("run-1", "Fred Flintstone", "fred@example.com", 2))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	deliveries, err := reopened.Deliveries("run-1")
	require.NoError(t, err)
	assert.Len(t, deliveries, 1)
}
