package collection

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaoccaldas/coinsnap-collector/internal/model"
)

func newFileBackend(t *testing.T) Backend {
	t.Helper()
	return NewFile(filepath.Join(t.TempDir(), "collection.json"))
}

func newSQLiteBackend(t *testing.T) Backend {
	t.Helper()
	b, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	require.NoError(t, b.Migrate(context.Background()))
	return b
}

func testCoin(id, name string) model.Coin {
	return model.Coin{
		ID:            id,
		Name:          name,
		Country:       "United States",
		Value:         12.5,
		DateAdded:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		FrontImageURL: "front.jpg",
		BackImageURL:  "back.jpg",
	}
}

func backendSuite(t *testing.T, newBackend func(t *testing.T) Backend) {
	ctx := context.Background()

	t.Run("OpenAbsentIsEmpty", func(t *testing.T) {
		col := Open(ctx, newBackend(t))
		assert.Zero(t, col.Len())
	})

	t.Run("AppendRoundTrip", func(t *testing.T) {
		backend := newBackend(t)

		col := Open(ctx, backend)
		coin := testCoin("id-1", "Wheat Penny")
		col.Append(ctx, coin)

		// A fresh instance over the same backend sees the persisted record.
		reloaded := Open(ctx, backend)
		require.Equal(t, 1, reloaded.Len())
		assert.Equal(t, coin, reloaded.All()[0])
	})

	t.Run("AppendInsertsAtHead", func(t *testing.T) {
		col := Open(ctx, newBackend(t))
		col.Append(ctx, testCoin("old", "Old"))
		col.Append(ctx, testCoin("new", "New"))

		all := col.All()
		require.Len(t, all, 2)
		assert.Equal(t, "new", all[0].ID)
	})

	t.Run("AppendRejectsDuplicateID", func(t *testing.T) {
		col := Open(ctx, newBackend(t))
		assert.True(t, col.Append(ctx, testCoin("a", "First")))
		assert.False(t, col.Append(ctx, testCoin("a", "Second")))

		require.Equal(t, 1, col.Len())
		got, ok := col.Get("a")
		require.True(t, ok)
		assert.Equal(t, "First", got.Name)
	})

	t.Run("CorruptDataStartsEmpty", func(t *testing.T) {
		backend := newBackend(t)
		require.NoError(t, backend.Write(ctx, []byte("{not json")))

		col := Open(ctx, backend)
		assert.Zero(t, col.Len())
	})

	t.Run("RemoveExactlyOne", func(t *testing.T) {
		col := Open(ctx, newBackend(t))
		a, b, c := testCoin("a", "A"), testCoin("b", "B"), testCoin("c", "C")
		col.Append(ctx, a)
		col.Append(ctx, b)
		col.Append(ctx, c)

		assert.True(t, col.Remove(ctx, "b"))
		assert.Equal(t, []model.Coin{c, a}, col.All())

		// Removing an unknown id is a no-op.
		assert.False(t, col.Remove(ctx, "missing"))
		assert.Equal(t, []model.Coin{c, a}, col.All())
	})

	t.Run("Replace", func(t *testing.T) {
		backend := newBackend(t)
		col := Open(ctx, backend)
		col.Append(ctx, testCoin("a", "Before"))

		edited := testCoin("a", "After")
		assert.True(t, col.Replace(ctx, edited))
		assert.False(t, col.Replace(ctx, testCoin("missing", "X")))

		reloaded := Open(ctx, backend)
		got, ok := reloaded.Get("a")
		require.True(t, ok)
		assert.Equal(t, "After", got.Name)
	})

	t.Run("DuplicateIDsInStoredDataKeepFirst", func(t *testing.T) {
		backend := newBackend(t)
		blob := `[{"id":"dup","name":"First"},{"id":"dup","name":"Second"}]`
		require.NoError(t, backend.Write(ctx, []byte(blob)))

		col := Open(ctx, backend)
		require.Equal(t, 1, col.Len())
		got, ok := col.Get("dup")
		require.True(t, ok)
		assert.Equal(t, "First", got.Name)
	})

	t.Run("LegacyRecordsMigrateOnLoad", func(t *testing.T) {
		backend := newBackend(t)
		legacy := `[{"id":"old-1","name":"Trade Dollar","imageUrl":"single.jpg","value":"$45"}]`
		require.NoError(t, backend.Write(ctx, []byte(legacy)))

		col := Open(ctx, backend)
		got, ok := col.Get("old-1")
		require.True(t, ok)
		assert.Equal(t, "single.jpg", got.FrontImageURL)
		assert.Equal(t, "single.jpg", got.BackImageURL)
		assert.Equal(t, 45.0, got.Value)
	})
}

func TestFileBackend(t *testing.T) {
	backendSuite(t, newFileBackend)
}

func TestSQLiteBackend(t *testing.T) {
	backendSuite(t, newSQLiteBackend)
}

// failingBackend accepts reads but rejects every write.
type failingBackend struct{}

func (failingBackend) Read(context.Context) ([]byte, bool, error) { return nil, false, nil }
func (failingBackend) Write(context.Context, []byte) error        { return eris.New("disk full") }
func (failingBackend) Migrate(context.Context) error              { return nil }
func (failingBackend) Close() error                               { return nil }

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	col := Open(ctx, failingBackend{})

	col.Append(ctx, testCoin("a", "A"))
	assert.Equal(t, 1, col.Len(), "in-memory mutation stands even when persistence fails")

	assert.True(t, col.Remove(ctx, "a"))
	assert.Zero(t, col.Len())
}
