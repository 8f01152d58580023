package ui

import (
	"context"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shtxd/clip/internal/config"
	"github.com/shtxd/clip/internal/download"
	"github.com/shtxd/clip/internal/history"
	"github.com/shtxd/clip/internal/model"
)

type fakeDownloader struct {
	mu        sync.Mutex
	callback  func(model.DownloadTask)
	tasks     map[string]model.DownloadTask
	submitted []model.DownloadJob
	parallel  int
	cancelled bool
}

func newFakeDownloader() *fakeDownloader {
	return &fakeDownloader{tasks: make(map[string]model.DownloadTask)}
}

func (f *fakeDownloader) SetUpdateCallback(cb func(model.DownloadTask)) { f.callback = cb }

func (f *fakeDownloader) Submit(_ context.Context, job model.DownloadJob) ([]model.DownloadTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, job)
	task := model.DownloadTask{ID: "task-1", Job: job, Status: model.TaskStatusPending}
	f.tasks[task.ID] = task
	return []model.DownloadTask{task}, nil
}

func (f *fakeDownloader) GetTask(id string) (model.DownloadTask, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[id]
	return task, ok
}

func (f *fakeDownloader) GetAllTasks() []model.DownloadTask {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.DownloadTask, 0, len(f.tasks))
	for _, task := range f.tasks {
		out = append(out, task)
	}
	return out
}

func (f *fakeDownloader) Cancel(string) error { return nil }
func (f *fakeDownloader) CancelAll()          { f.cancelled = true }
func (f *fakeDownloader) Retry(string) error  { return nil }

func (f *fakeDownloader) Remove(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[id]; !ok {
		return download.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeDownloader) Wait(context.Context) error    { return nil }
func (f *fakeDownloader) SetMaxParallelDownloads(n int) { f.parallel = n }

type fakeHistory struct {
	entries []*history.Entry
}

func (f *fakeHistory) List() ([]*history.Entry, error) { return f.entries, nil }
func (f *fakeHistory) Clear() error {
	f.entries = nil
	return nil
}

func newTestRoot(t *testing.T) (*RootUI, *fakeDownloader) {
	t.Helper()
	app := test.NewTempApp(t)
	settings := config.NewSettings(app)
	settings.SetDownloadDirectory(t.TempDir())
	settings.SetLanguage(LangEnglish)

	downloads := newFakeDownloader()
	window := app.NewWindow("test")
	t.Cleanup(window.Close)

	root := NewRootUI(window, app, settings, Services{
		Downloads: downloads,
		History: &fakeHistory{entries: []*history.Entry{
			{ID: "1", Title: "Old video", Quality: "720p", Status: "Completed", CreatedAt: time.Now()},
		}},
	})
	return root, downloads
}

func TestNewRootUI_WiresServices(t *testing.T) {
	root, downloads := newTestRoot(t)

	assert.NotNil(t, downloads.callback)
	assert.Equal(t, config.DefaultMaxParallel, downloads.parallel)
	assert.Len(t, root.tabs.Items, 3)
	assert.Len(t, root.historyTab.entries, 1)
}

func TestRootUI_TaskUpdatesDriveToggle(t *testing.T) {
	root, downloads := newTestRoot(t)
	tab := root.downloadTab

	task, err := downloads.Submit(context.Background(), model.DownloadJob{URL: "https://youtu.be/dQw4w9WgXcQ"})
	require.NoError(t, err)

	running := task[0]
	running.Status = model.TaskStatusDownloading
	running.Percent = 30
	root.onTaskUpdate(running)
	assert.Equal(t, root.localization.GetText(KeyCancel), tab.downloadBtn.Text)
	assert.InDelta(t, 0.3, tab.overallBar.Value, 0.001)

	tab.onDownloadClick()
	assert.True(t, downloads.cancelled)

	stopped := running
	stopped.Status = model.TaskStatusStopped
	root.onTaskUpdate(stopped)
	assert.Equal(t, root.localization.GetText(KeyDownload), tab.downloadBtn.Text)
	assert.Equal(t, root.localization.GetText(KeyDownloadCancelled), tab.statusLabel.Text)
}

func TestRootUI_RemoveTask(t *testing.T) {
	root, downloads := newTestRoot(t)
	tasks, err := downloads.Submit(context.Background(), model.DownloadJob{URL: "https://youtu.be/dQw4w9WgXcQ"})
	require.NoError(t, err)
	root.onTaskUpdate(tasks[0])
	require.Equal(t, 1, root.downloadTab.tasks.Len())

	root.onRemoveTask(tasks[0].ID)
	assert.Equal(t, 0, root.downloadTab.tasks.Len())

	// a queued update for a removed task must not bring the row back
	root.onTaskUpdate(tasks[0])
	assert.Equal(t, 0, root.downloadTab.tasks.Len())
}

func TestDownloadTab_BuildJob(t *testing.T) {
	root, _ := newTestRoot(t)
	tab := root.downloadTab

	tab.urlEntry.SetText("https://www.youtube.com/playlist?list=PLabc")
	assert.True(t, tab.playlistOpts.Enabled())
	tab.qualityRadio.SetSelected(model.QualityAudio.String())
	tab.subtitles.SetChecked(true)
	tab.playlistOpts.start.SetText("2")
	tab.playlistOpts.end.SetText("4")

	job, err := tab.buildJob()
	require.NoError(t, err)
	assert.Equal(t, model.QualityAudio, job.Quality)
	assert.True(t, job.Subtitles)
	assert.True(t, job.Playlist)
	assert.Equal(t, model.PlaylistRange{Start: 2, End: 4}, job.Range)
	assert.Equal(t, root.settings.GetDownloadDirectory(), job.OutputDir)
}

func TestRootUI_LanguageChangeRebuilds(t *testing.T) {
	root, _ := newTestRoot(t)

	root.onLanguageChange(LangRussian)
	assert.Equal(t, LangRussian, root.settings.GetLanguage())
	assert.Equal(t, "Скачать", root.downloadTab.downloadBtn.Text)
}

func TestCheckFilePath(t *testing.T) {
	assert.Error(t, checkFilePath(""))
	assert.Error(t, checkFilePath("https://youtu.be/x"))
	assert.NoError(t, checkFilePath("/tmp/video.mp4"))
}
