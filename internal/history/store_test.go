package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shtxd/clip/internal/model"
)

func setupTestStore(t *testing.T, maxEntries int) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"), maxEntries, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_AddAndList(t *testing.T) {
	store := setupTestStore(t, 10)
	base := time.Now()

	require.NoError(t, store.Add(&Entry{URL: "https://youtu.be/a", Title: "A", CreatedAt: base}))
	require.NoError(t, store.Add(&Entry{URL: "https://youtu.be/b", Title: "B", CreatedAt: base.Add(time.Second)}))

	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "B", entries[0].Title, "newest first")
	assert.NotEmpty(t, entries[0].ID)
}

func TestStore_KeepsNewestEntries(t *testing.T) {
	store := setupTestStore(t, 3)
	base := time.Now()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Add(&Entry{
			URL:       "https://youtu.be/x",
			Title:     string(rune('A' + i)),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	entries, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, "E", entries[0].Title)
	assert.Equal(t, "C", entries[2].Title)
}

func TestStore_Clear(t *testing.T) {
	store := setupTestStore(t, 0)
	assert.Equal(t, DefaultMaxEntries, store.maxEntries)

	require.NoError(t, store.Add(&Entry{URL: "https://youtu.be/a"}))
	require.NoError(t, store.Clear())

	count, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStore_RecordDownload(t *testing.T) {
	store := setupTestStore(t, 10)

	task := model.DownloadTask{
		Job: model.DownloadJob{
			URL:       "https://www.youtube.com/watch?v=abc",
			Quality:   model.QualityAudio,
			OutputDir: "/music",
		},
		Status:      model.TaskStatusCompleted,
		Title:       "Song",
		OutputFiles: []string{"/music/Artist - Song.mp3"},
		FinishedAt:  time.Now(),
	}
	require.NoError(t, store.RecordDownload(task))

	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Song", entries[0].Title)
	assert.Equal(t, "audio", entries[0].Quality)
	assert.Equal(t, "/music/Artist - Song.mp3", entries[0].FilePath)
	assert.Equal(t, "Completed", entries[0].Status)
}
