package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shtxd/clip/internal/model"
)

// fakeRunner writes <videoID>.mp4 into the job directory instead of running yt-dlp
type fakeRunner struct {
	mu        sync.Mutex
	calls     int
	failTimes int  // the first failTimes calls fail
	block     bool // wait for cancellation instead of writing
	started   chan string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{started: make(chan string, 32)}
}

func (f *fakeRunner) Run(ctx context.Context, job model.DownloadJob, onProgress func(model.Progress)) (*RunResult, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()

	f.started <- job.URL

	if f.block {
		<-ctx.Done()
		onProgress(model.Progress{Percent: 99, Status: StatusDownloading})
		return nil, ctx.Err()
	}
	if call <= f.failTimes {
		return nil, errors.New("HTTP Error 503: Service Unavailable")
	}

	onProgress(model.Progress{Percent: 50, Speed: "1.00 MiB/s", ETASec: 3, Status: StatusDownloading})
	onProgress(model.Progress{Percent: 100, Status: StatusMerging})

	id := model.ExtractVideoID(job.URL)
	path := filepath.Join(job.OutputDir, id+".mp4")
	if err := os.WriteFile(path, []byte("media"), 0644); err != nil {
		return nil, err
	}
	return &RunResult{Files: []string{path}, Title: "Video " + id}, nil
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakePlaylists struct {
	count int
}

func (f *fakePlaylists) Playlist(_ context.Context, url string) (*model.Playlist, error) {
	p := model.NewPlaylist(url)
	p.Title = "Test Playlist"
	for i := 1; i <= f.count; i++ {
		p.AddVideo(&model.PlaylistVideo{ID: fmt.Sprintf("video%06d", i), Title: fmt.Sprintf("Entry %d", i)})
	}
	return p, nil
}

type fakeHistory struct {
	mu    sync.Mutex
	tasks []model.DownloadTask
}

func (f *fakeHistory) RecordDownload(task model.DownloadTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, task)
	return nil
}

// updateLog records every callback in delivery order
type updateLog struct {
	mu      sync.Mutex
	updates []model.DownloadTask
}

func (l *updateLog) record(task model.DownloadTask) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.updates = append(l.updates, task)
}

func (l *updateLog) statusesFor(id string) []model.TaskStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []model.TaskStatus
	for _, u := range l.updates {
		if u.ID == id {
			out = append(out, u.Status)
		}
	}
	return out
}

func testJob(dir, url string) model.DownloadJob {
	return model.DownloadJob{URL: url, Quality: model.QualityBest, OutputDir: dir}
}

func waitDone(t *testing.T, s *Service) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
}

func waitStarted(t *testing.T, r *fakeRunner) string {
	t.Helper()
	select {
	case url := <-r.started:
		return url
	case <-time.After(5 * time.Second):
		t.Fatal("runner was not started")
		return ""
	}
}

func TestNewService(t *testing.T) {
	service := NewService(newFakeRunner(), Options{})

	if service.maxParallel != DefaultMaxParallel {
		t.Errorf("Expected maxParallel to be %d, got %d", DefaultMaxParallel, service.maxParallel)
	}
	if service.maxRetries != 0 {
		t.Errorf("Expected maxRetries to be 0, got %d", service.maxRetries)
	}
	if len(service.tasks) != 0 {
		t.Errorf("Expected empty tasks map, got %d items", len(service.tasks))
	}

	service = NewService(newFakeRunner(), Options{MaxParallel: 50})
	if service.maxParallel != MaxParallel {
		t.Errorf("Expected maxParallel to be clamped to %d, got %d", MaxParallel, service.maxParallel)
	}
}

func TestSubmit_WritesFileAtExpectedPath(t *testing.T) {
	dir := t.TempDir()
	history := &fakeHistory{}
	service := NewService(newFakeRunner(), Options{History: history})

	tasks, err := service.Submit(context.Background(), testJob(dir, "https://www.youtube.com/watch?v=dQw4w9WgXcQ"))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	waitDone(t, service)

	task, ok := service.GetTask(tasks[0].ID)
	require.True(t, ok)
	assert.Equal(t, model.TaskStatusCompleted, task.Status)
	assert.Equal(t, 100.0, task.Percent)
	assert.Equal(t, "Video dQw4w9WgXcQ", task.Title)

	expected := filepath.Join(dir, "dQw4w9WgXcQ.mp4")
	assert.Equal(t, expected, task.OutputPath())
	assert.FileExists(t, expected)

	require.Len(t, history.tasks, 1)
	assert.Equal(t, task.ID, history.tasks[0].ID)
}

func TestSubmit_InvalidURLWritesNothing(t *testing.T) {
	dir := t.TempDir()
	runner := newFakeRunner()
	service := NewService(runner, Options{})

	_, err := service.Submit(context.Background(), testJob(dir, "https://example.com/video"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidURL))

	_, err = service.Submit(context.Background(), testJob(dir, "   "))
	assert.True(t, errors.Is(err, model.ErrEmptyURL))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, 0, runner.callCount())
	assert.Empty(t, service.GetAllTasks())
}

func TestSubmit_ForeignHostWritesNothing(t *testing.T) {
	dir := t.TempDir()
	runner := newFakeRunner()
	service := NewService(runner, Options{})

	for _, url := range []string{
		"https://evil.example.com/redirect?to=youtube.com/watch?v=abc123",
		"notyoutube.com/watch?v=abc123",
		"https://example.org/youtu.be/abc",
	} {
		_, err := service.Submit(context.Background(), testJob(dir, url))
		assert.True(t, errors.Is(err, model.ErrInvalidURL), url)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, 0, runner.callCount())
}

func TestSubmit_PlaylistRangeWritesRangeSize(t *testing.T) {
	tests := []struct {
		name  string
		rng   model.PlaylistRange
		count int
		want  int
	}{
		{"middle slice", model.PlaylistRange{Start: 3, End: 5}, 10, 3},
		{"quantity preset", model.PlaylistRange{Start: 1, End: 5}, 10, 5},
		{"all entries", model.PlaylistRange{All: true}, 4, 4},
		{"range past the end", model.PlaylistRange{Start: 8, End: 20}, 10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			service := NewService(newFakeRunner(), Options{
				MaxParallel: 3,
				Playlists:   &fakePlaylists{count: tt.count},
			})

			job := testJob(dir, "https://www.youtube.com/playlist?list=PLabcdef123")
			job.Playlist = true
			job.Range = tt.rng

			tasks, err := service.Submit(context.Background(), job)
			require.NoError(t, err)
			assert.Len(t, tasks, tt.want)
			waitDone(t, service)

			files, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, files, tt.want)

			for _, task := range service.GetAllTasks() {
				assert.Equal(t, model.TaskStatusCompleted, task.Status)
				assert.False(t, task.Job.Playlist)
				assert.NotZero(t, task.PlaylistIndex)
			}
		})
	}
}

func TestSubmit_PlaylistWithoutSource(t *testing.T) {
	service := NewService(newFakeRunner(), Options{})
	job := testJob(t.TempDir(), "https://www.youtube.com/playlist?list=PLabcdef123")
	job.Playlist = true
	job.Range = model.PlaylistRange{All: true}

	_, err := service.Submit(context.Background(), job)
	assert.ErrorIs(t, err, ErrNoPlaylistSource)
}

func TestSubmit_UnwritableDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	service := NewService(newFakeRunner(), Options{})
	_, err := service.Submit(context.Background(), testJob(file, "https://youtu.be/dQw4w9WgXcQ"))
	assert.Error(t, err)
}

func TestSubmit_DuplicateURL(t *testing.T) {
	runner := newFakeRunner()
	runner.block = true
	service := NewService(runner, Options{})
	dir := t.TempDir()

	_, err := service.Submit(context.Background(), testJob(dir, "https://youtu.be/dQw4w9WgXcQ"))
	require.NoError(t, err)

	_, err = service.Submit(context.Background(), testJob(dir, "https://youtu.be/dQw4w9WgXcQ"))
	assert.ErrorIs(t, err, ErrDuplicateTask)

	service.CancelAll()
	waitDone(t, service)
}

func TestCancel_NoCallbacksAfterStopped(t *testing.T) {
	runner := newFakeRunner()
	runner.block = true
	service := NewService(runner, Options{})
	log := &updateLog{}
	service.SetUpdateCallback(log.record)

	tasks, err := service.Submit(context.Background(), testJob(t.TempDir(), "https://youtu.be/dQw4w9WgXcQ"))
	require.NoError(t, err)
	waitStarted(t, runner)

	require.NoError(t, service.Cancel(tasks[0].ID))
	waitDone(t, service)

	task, _ := service.GetTask(tasks[0].ID)
	assert.Equal(t, model.TaskStatusStopped, task.Status)

	statuses := log.statusesFor(tasks[0].ID)
	require.NotEmpty(t, statuses)
	assert.Equal(t, model.TaskStatusStopped, statuses[len(statuses)-1])
	stopped := 0
	for _, st := range statuses {
		if st == model.TaskStatusStopped {
			stopped++
		}
	}
	assert.Equal(t, 1, stopped)

	assert.ErrorIs(t, service.Cancel(tasks[0].ID), ErrTaskNotActive)
	assert.ErrorIs(t, service.Cancel("missing"), ErrTaskNotFound)
}

func TestMaxParallel_QueuesExtraTasks(t *testing.T) {
	runner := newFakeRunner()
	runner.block = true
	service := NewService(runner, Options{MaxParallel: 1})
	dir := t.TempDir()

	first, err := service.Submit(context.Background(), testJob(dir, "https://youtu.be/aaaaaaaaaaa"))
	require.NoError(t, err)
	second, err := service.Submit(context.Background(), testJob(dir, "https://youtu.be/bbbbbbbbbbb"))
	require.NoError(t, err)

	waitStarted(t, runner)
	task, _ := service.GetTask(second[0].ID)
	assert.Equal(t, model.TaskStatusPending, task.Status)

	// Cancelling the pending task never starts it
	require.NoError(t, service.Cancel(second[0].ID))
	require.NoError(t, service.Cancel(first[0].ID))
	waitDone(t, service)

	assert.Equal(t, 1, runner.callCount())
	task, _ = service.GetTask(second[0].ID)
	assert.Equal(t, model.TaskStatusStopped, task.Status)
}

func TestRetryPolicy(t *testing.T) {
	runner := newFakeRunner()
	runner.failTimes = 1
	service := NewService(runner, Options{MaxRetries: 1, RetryDelay: time.Millisecond})

	tasks, err := service.Submit(context.Background(), testJob(t.TempDir(), "https://youtu.be/dQw4w9WgXcQ"))
	require.NoError(t, err)
	waitDone(t, service)

	task, _ := service.GetTask(tasks[0].ID)
	assert.Equal(t, model.TaskStatusCompleted, task.Status)
	assert.Equal(t, 2, task.Attempts)
}

func TestFailureThenManualRetry(t *testing.T) {
	runner := newFakeRunner()
	runner.failTimes = 1
	history := &fakeHistory{}
	service := NewService(runner, Options{History: history})

	tasks, err := service.Submit(context.Background(), testJob(t.TempDir(), "https://youtu.be/dQw4w9WgXcQ"))
	require.NoError(t, err)
	waitDone(t, service)

	task, _ := service.GetTask(tasks[0].ID)
	require.Equal(t, model.TaskStatusError, task.Status)
	assert.Contains(t, task.LastError, "503")
	assert.Empty(t, history.tasks)

	require.NoError(t, service.Retry(task.ID))
	waitDone(t, service)

	task, _ = service.GetTask(tasks[0].ID)
	assert.Equal(t, model.TaskStatusCompleted, task.Status)
	assert.Empty(t, task.LastError)
	assert.Len(t, history.tasks, 1)

	assert.ErrorIs(t, service.Retry(task.ID), ErrCannotRetry)
}

func TestRelease_KeepsNewerRun(t *testing.T) {
	service := NewService(newFakeRunner(), Options{})

	oldCtx, oldCancel := context.WithCancel(context.Background())
	newCtx, newCancel := context.WithCancel(context.Background())
	defer newCancel()
	older := &run{cancel: oldCancel}
	newer := &run{cancel: newCancel}

	// a retry registered newer before the first run released its slot
	service.runs["task-1"] = newer
	service.activeCount = 2

	service.release("task-1", older)

	assert.Error(t, oldCtx.Err())
	assert.NoError(t, newCtx.Err())
	assert.Same(t, newer, service.runs["task-1"])
	assert.Equal(t, 1, service.activeCount)

	service.release("task-1", newer)
	assert.Error(t, newCtx.Err())
	assert.NotContains(t, service.runs, "task-1")
	assert.Equal(t, 0, service.activeCount)
}

func TestOptions_RetryDefaults(t *testing.T) {
	service := NewService(newFakeRunner(), Options{RetryDelay: -1})
	assert.Equal(t, 0, service.maxRetries)
	assert.Equal(t, DefaultRetryDelay, service.retryDelay)

	service = NewService(newFakeRunner(), Options{MaxRetries: -3})
	assert.Equal(t, 0, service.maxRetries)
	assert.Equal(t, time.Duration(0), service.retryDelay)

	runner := newFakeRunner()
	runner.failTimes = 1
	service = NewService(runner, Options{})
	_, err := service.Submit(context.Background(), testJob(t.TempDir(), "https://youtu.be/dQw4w9WgXcQ"))
	require.NoError(t, err)
	waitDone(t, service)
	assert.Equal(t, 1, runner.callCount())
}

func TestRemove(t *testing.T) {
	service := NewService(newFakeRunner(), Options{})
	tasks, err := service.Submit(context.Background(), testJob(t.TempDir(), "https://youtu.be/dQw4w9WgXcQ"))
	require.NoError(t, err)
	waitDone(t, service)

	require.NoError(t, service.Remove(tasks[0].ID))
	_, ok := service.GetTask(tasks[0].ID)
	assert.False(t, ok)
	assert.Empty(t, service.GetAllTasks())
	assert.ErrorIs(t, service.Remove(tasks[0].ID), ErrTaskNotFound)
}

func TestProgressUpdatesReachCallback(t *testing.T) {
	service := NewService(newFakeRunner(), Options{})
	log := &updateLog{}
	service.SetUpdateCallback(log.record)

	tasks, err := service.Submit(context.Background(), testJob(t.TempDir(), "https://youtu.be/dQw4w9WgXcQ"))
	require.NoError(t, err)
	waitDone(t, service)

	statuses := log.statusesFor(tasks[0].ID)
	assert.Contains(t, statuses, model.TaskStatusDownloading)
	assert.Contains(t, statuses, model.TaskStatusProcessing)
	assert.Equal(t, model.TaskStatusCompleted, statuses[len(statuses)-1])
}

func TestDownload_Blocking(t *testing.T) {
	dir := t.TempDir()
	service := NewService(newFakeRunner(), Options{})

	results, err := service.Download(context.Background(), testJob(dir, "https://youtu.be/dQw4w9WgXcQ"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, model.TaskStatusCompleted, results[0].Status)
	assert.FileExists(t, filepath.Join(dir, "dQw4w9WgXcQ.mp4"))
}

func TestGenerateTaskID(t *testing.T) {
	id1 := generateTaskID()
	id2 := generateTaskID()

	if id1 == id2 {
		t.Error("Expected different task IDs")
	}

	if !strings.HasPrefix(id1, TaskIDPrefix) {
		t.Errorf("Expected ID to start with %q, got: %s", TaskIDPrefix, id1)
	}

	// task- + 36 chars for UUID
	if len(id1) != len(TaskIDPrefix)+36 {
		t.Errorf("Expected ID length %d, got %d for ID: %s", len(TaskIDPrefix)+36, len(id1), id1)
	}
}
