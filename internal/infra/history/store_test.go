package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"versa/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestStorePutAndGet(t *testing.T) {
	store := openTestStore(t)

	saved, err := store.Put(domain.HistoryRecord{
		ToolID:      "hd_boost",
		Success:     true,
		Message:     "Image upscaled 4x successfully",
		EditedImage: "a",
		Duration:    1500 * time.Millisecond,
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	require.False(t, saved.CreatedAt.IsZero())

	got, err := store.Get(saved.ID)
	require.NoError(t, err)
	require.Equal(t, saved.ID, got.ID)
	require.Equal(t, "hd_boost", got.ToolID)
	require.True(t, got.Success)
	require.Equal(t, 1500*time.Millisecond, got.Duration)
	require.True(t, saved.CreatedAt.Equal(got.CreatedAt))

	_, err = store.Get("missing")
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestStoreListNewestFirst(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, toolID := range []string{"denoise", "cartoonizer", "denoise", "bg_remover"} {
		_, err := store.Put(domain.HistoryRecord{
			ID:        toolID + "-" + string(rune('a'+i)),
			ToolID:    toolID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	all, err := store.List(Query{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.Equal(t, "bg_remover-d", all[0].ID)
	require.Equal(t, "denoise-a", all[3].ID)

	limited, err := store.List(Query{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)

	denoise, err := store.List(Query{ToolID: "denoise"})
	require.NoError(t, err)
	require.Len(t, denoise, 2)
	require.Equal(t, "denoise-c", denoise[0].ID)
}

func TestStorePutReplacesExistingID(t *testing.T) {
	store := openTestStore(t)

	first, err := store.Put(domain.HistoryRecord{ID: "rec", ToolID: "denoise", Message: "first"})
	require.NoError(t, err)
	_, err = store.Put(domain.HistoryRecord{ID: "rec", ToolID: "denoise", Message: "second", CreatedAt: first.CreatedAt.Add(time.Second)})
	require.NoError(t, err)

	all, err := store.List(Query{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "second", all[0].Message)
}

func TestStoreDelete(t *testing.T) {
	store := openTestStore(t)

	saved, err := store.Put(domain.HistoryRecord{ToolID: "denoise"})
	require.NoError(t, err)
	require.NoError(t, store.Delete(saved.ID))
	require.ErrorIs(t, store.Delete(saved.ID), domain.ErrRecordNotFound)

	all, err := store.List(Query{})
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestStoreReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	require.NoError(t, err)
	saved, err := store.Put(domain.HistoryRecord{ToolID: "denoise", Message: "kept"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, reopened.Close()) }()

	got, err := reopened.Get(saved.ID)
	require.NoError(t, err)
	require.Equal(t, "kept", got.Message)
}

func TestStoreClosed(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	_, err = store.Put(domain.HistoryRecord{ToolID: "denoise"})
	require.ErrorIs(t, err, domain.ErrStoreClosed)
	_, err = store.List(Query{})
	require.ErrorIs(t, err, domain.ErrStoreClosed)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}
