package download

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shtxd/clip/internal/model"
	"github.com/shtxd/clip/internal/platform"
)

// Task ID prefix
const (
	TaskIDPrefix = "task-"
)

// Service defaults
const (
	DefaultMaxParallel = 2
	MinParallel        = 1
	MaxParallel        = 10
	DefaultRetryDelay  = 2 * time.Second
)

var (
	// ErrTaskNotFound is returned for unknown task IDs
	ErrTaskNotFound = errors.New("download task not found")
	// ErrDuplicateTask is returned when the URL is already queued or downloading
	ErrDuplicateTask = errors.New("download already queued for URL")
	// ErrTaskNotActive is returned when cancelling a finished task
	ErrTaskNotActive = errors.New("task is not active")
	// ErrCannotRetry is returned when retrying a task that did not fail or stop
	ErrCannotRetry = errors.New("task cannot be retried")
	// ErrNoEntries is returned when a playlist range selects nothing
	ErrNoEntries = errors.New("no playlist entries in the selected range")
	// ErrNoPlaylistSource is returned for playlist jobs when no lister is configured
	ErrNoPlaylistSource = errors.New("playlist listing is not available")
)

// Options configures a Service. MaxParallel <= 0 means DefaultMaxParallel. MaxRetries is the
// number of automatic retries after a failed attempt, so 0 disables them. A negative RetryDelay
// means DefaultRetryDelay; 0 retries immediately.
type Options struct {
	MaxParallel int
	MaxRetries  int
	RetryDelay  time.Duration
	Playlists   PlaylistSource
	History     HistoryRecorder
	Logger      *zap.Logger
}

// Service handles download operations
type Service struct {
	runner     Runner
	playlists  PlaylistSource
	history    HistoryRecorder
	logger     *zap.Logger
	maxRetries int
	retryDelay time.Duration

	tasks       map[string]*model.DownloadTask
	order       []string
	runs        map[string]*run
	tasksMutex  sync.RWMutex
	maxParallel int
	activeCount int
	onUpdate    func(model.DownloadTask) // callback for UI updates

	// notifyMutex serialises callbacks; finalized marks tasks whose terminal state was delivered
	notifyMutex sync.Mutex
	finalized   map[string]bool

	wg sync.WaitGroup
}

// NewService creates a new download service
func NewService(runner Runner, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = DefaultMaxParallel
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryDelay < 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	return &Service{
		runner:      runner,
		playlists:   opts.Playlists,
		history:     opts.History,
		logger:      opts.Logger,
		maxRetries:  opts.MaxRetries,
		retryDelay:  opts.RetryDelay,
		tasks:       make(map[string]*model.DownloadTask),
		runs:        make(map[string]*run),
		finalized:   make(map[string]bool),
		maxParallel: clampParallel(opts.MaxParallel),
	}
}

func clampParallel(n int) int {
	return max(MinParallel, min(n, MaxParallel))
}

// SetUpdateCallback sets the callback function for task updates.
// Callbacks run one at a time and must not call back into the service synchronously.
func (s *Service) SetUpdateCallback(callback func(model.DownloadTask)) {
	s.tasksMutex.Lock()
	s.onUpdate = callback
	s.tasksMutex.Unlock()
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Service) SetMaxParallelDownloads(maxParallel int) {
	s.tasksMutex.Lock()
	s.maxParallel = clampParallel(maxParallel)
	s.tasksMutex.Unlock()
	s.schedule()
}

// run is one scheduled execution of a task. A retried task gets a new run.
type run struct {
	cancel context.CancelFunc
}

// entry is one single-video job produced from a submission
type entry struct {
	job   model.DownloadJob
	title string
	index int
}

// Submit validates a job and queues one task per video.
// Playlist jobs are expanded into the entries selected by the job range.
func (s *Service) Submit(ctx context.Context, job model.DownloadJob) ([]model.DownloadTask, error) {
	job.Normalize()
	if err := job.Validate(); err != nil {
		return nil, err
	}
	if err := platform.EnsureWritableDir(job.OutputDir); err != nil {
		return nil, err
	}

	entries, err := s.expand(ctx, job)
	if err != nil {
		return nil, err
	}

	s.tasksMutex.Lock()
	created := make([]model.DownloadTask, 0, len(entries))
	for _, e := range entries {
		if s.hasQueuedURL(e.job.URL) {
			s.logger.Info("skipping duplicate download", zap.String("url", e.job.URL))
			continue
		}
		task := &model.DownloadTask{
			ID:            generateTaskID(),
			Job:           e.job,
			Status:        model.TaskStatusPending,
			ETASec:        -1,
			Title:         e.title,
			PlaylistIndex: e.index,
			CreatedAt:     time.Now(),
		}
		s.tasks[task.ID] = task
		s.order = append(s.order, task.ID)
		created = append(created, task.Snapshot())
	}
	s.tasksMutex.Unlock()

	if len(created) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateTask, job.URL)
	}

	s.logger.Info("download queued",
		zap.String("url", job.URL),
		zap.String("quality", job.Quality.String()),
		zap.Int("tasks", len(created)))

	for _, task := range created {
		s.notifyUpdate(task.ID)
	}
	s.schedule()
	return created, nil
}

// expand turns a job into single-video entries
func (s *Service) expand(ctx context.Context, job model.DownloadJob) ([]entry, error) {
	if !job.IsPlaylistJob() {
		return []entry{{job: job}}, nil
	}
	if s.playlists == nil {
		return nil, ErrNoPlaylistSource
	}

	playlist, err := s.playlists.Playlist(ctx, job.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlist: %w", err)
	}

	selected := playlist.Select(job.Range)
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoEntries, job.Range)
	}

	entries := make([]entry, 0, len(selected))
	for _, video := range selected {
		entries = append(entries, entry{
			job:   job.ForEntry(video.URL),
			title: video.Title,
			index: video.Index,
		})
	}
	s.logger.Info("playlist expanded",
		zap.String("playlist", playlist.Title),
		zap.Int("total", playlist.Count()),
		zap.Int("selected", len(entries)))
	return entries, nil
}

// hasQueuedURL must be called with tasksMutex held
func (s *Service) hasQueuedURL(url string) bool {
	for _, task := range s.tasks {
		if task.Job.URL == url && !task.Status.IsFinished() {
			return true
		}
	}
	return false
}

// GetTask returns a copy of the task
func (s *Service) GetTask(id string) (model.DownloadTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[id]
	if !exists {
		return model.DownloadTask{}, false
	}
	return task.Snapshot(), true
}

// GetAllTasks returns all tasks in submission order
func (s *Service) GetAllTasks() []model.DownloadTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	tasks := make([]model.DownloadTask, 0, len(s.order))
	for _, id := range s.order {
		tasks = append(tasks, s.tasks[id].Snapshot())
	}
	return tasks
}

// Cancel stops a queued or running task
func (s *Service) Cancel(id string) error {
	s.tasksMutex.Lock()
	task, exists := s.tasks[id]
	if !exists {
		s.tasksMutex.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	switch {
	case task.Status == model.TaskStatusPending:
		task.Status = model.TaskStatusStopped
		task.FinishedAt = time.Now()
		s.tasksMutex.Unlock()
		s.notifyUpdate(id)
		return nil
	case task.Status.IsActive() && task.Status != model.TaskStatusStopping:
		task.Status = model.TaskStatusStopping
		current := s.runs[id]
		s.tasksMutex.Unlock()
		s.notifyUpdate(id)
		if current != nil {
			current.cancel()
		}
		return nil
	default:
		status := task.Status
		s.tasksMutex.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotActive, status)
	}
}

// CancelAll stops every queued or running task
func (s *Service) CancelAll() {
	s.tasksMutex.RLock()
	ids := make([]string, 0, len(s.order))
	for _, id := range s.order {
		if !s.tasks[id].Status.IsFinished() {
			ids = append(ids, id)
		}
	}
	s.tasksMutex.RUnlock()

	for _, id := range ids {
		if err := s.Cancel(id); err != nil && !errors.Is(err, ErrTaskNotActive) {
			s.logger.Warn("cancel failed", zap.String("task", id), zap.Error(err))
		}
	}
}

// Retry queues a stopped or failed task again
func (s *Service) Retry(id string) error {
	s.tasksMutex.Lock()
	task, exists := s.tasks[id]
	if !exists {
		s.tasksMutex.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if !task.Status.CanRetry() {
		status := task.Status
		s.tasksMutex.Unlock()
		return fmt.Errorf("%w: %s", ErrCannotRetry, status)
	}
	if s.hasQueuedURL(task.Job.URL) {
		s.tasksMutex.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateTask, task.Job.URL)
	}

	task.Status = model.TaskStatusPending
	task.Percent = 0
	task.Speed = ""
	task.ETASec = -1
	task.StatusText = ""
	task.Filename = ""
	task.LastError = ""
	task.OutputFiles = nil
	task.Attempts = 0
	task.StartedAt = time.Time{}
	task.FinishedAt = time.Time{}
	s.tasksMutex.Unlock()

	s.notifyMutex.Lock()
	delete(s.finalized, id)
	s.notifyMutex.Unlock()

	s.notifyUpdate(id)
	s.schedule()
	return nil
}

// Remove drops a task from the list, cancelling it first when running.
// No callbacks are delivered for a removed task.
func (s *Service) Remove(id string) error {
	s.tasksMutex.Lock()
	task, exists := s.tasks[id]
	if !exists {
		s.tasksMutex.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if task.Status.IsActive() {
		task.Status = model.TaskStatusStopping
		if current := s.runs[id]; current != nil {
			current.cancel()
		}
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.tasksMutex.Unlock()

	s.notifyMutex.Lock()
	delete(s.finalized, id)
	s.notifyMutex.Unlock()
	return nil
}

// Wait blocks until no task is queued or running, or ctx is done
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Download submits a job and blocks until its tasks finish.
// Cancelling ctx stops the tasks.
func (s *Service) Download(ctx context.Context, job model.DownloadJob) ([]model.DownloadTask, error) {
	submitted, err := s.Submit(ctx, job)
	if err != nil {
		return nil, err
	}

	if err := s.Wait(ctx); err != nil {
		for _, task := range submitted {
			_ = s.Cancel(task.ID)
		}
		_ = s.Wait(context.Background())
	}

	results := make([]model.DownloadTask, 0, len(submitted))
	for _, task := range submitted {
		if current, ok := s.GetTask(task.ID); ok {
			results = append(results, current)
		}
	}
	return results, ctx.Err()
}

// schedule starts pending tasks in submission order while capacity allows
func (s *Service) schedule() {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	for _, id := range s.order {
		if s.activeCount >= s.maxParallel {
			return
		}
		task := s.tasks[id]
		if task.Status != model.TaskStatusPending {
			continue
		}

		ctx, cancel := context.WithCancel(context.Background())
		current := &run{cancel: cancel}
		s.runs[id] = current
		s.activeCount++
		task.Status = model.TaskStatusStarting
		task.StartedAt = time.Now()

		s.wg.Add(1)
		go s.runTask(ctx, task, current)
	}
}

// runTask downloads one task and frees its slot
func (s *Service) runTask(ctx context.Context, task *model.DownloadTask, current *run) {
	defer s.wg.Done()

	s.notifyUpdate(task.ID)

	result, err := s.download(ctx, task)
	s.finish(ctx, task, result, err)

	s.release(task.ID, current)

	// Try to start next pending task
	s.schedule()
}

// release frees the slot held by a finished run. A retry may already have registered a
// newer run for the same task; that one is left alone.
func (s *Service) release(id string, finished *run) {
	finished.cancel()

	s.tasksMutex.Lock()
	s.activeCount--
	if s.runs[id] == finished {
		delete(s.runs, id)
	}
	s.tasksMutex.Unlock()
}

// download runs the task with retries
func (s *Service) download(ctx context.Context, task *model.DownloadTask) (*RunResult, error) {
	s.tasksMutex.RLock()
	job := task.Job
	s.tasksMutex.RUnlock()

	var result *RunResult
	operation := func() error {
		if !s.beginAttempt(task) {
			return backoff.Permanent(context.Canceled)
		}
		res, err := s.runner.Run(ctx, job, func(p model.Progress) {
			s.updateProgress(task, p)
		})
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		result = res
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.retryDelay), uint64(s.maxRetries)),
		ctx,
	)
	err := backoff.RetryNotify(operation, policy, func(err error, wait time.Duration) {
		s.logger.Warn("download attempt failed, retrying",
			zap.String("task", task.ID),
			zap.String("url", job.URL),
			zap.Duration("wait", wait),
			zap.Error(err))
	})
	return result, err
}

// beginAttempt moves the task to Downloading; false means it was cancelled meanwhile
func (s *Service) beginAttempt(task *model.DownloadTask) bool {
	s.tasksMutex.Lock()
	if task.Status == model.TaskStatusStopping {
		s.tasksMutex.Unlock()
		return false
	}
	task.Status = model.TaskStatusDownloading
	task.Attempts++
	task.Percent = 0
	task.LastError = ""
	s.tasksMutex.Unlock()

	s.notifyUpdate(task.ID)
	return true
}

// updateProgress applies a runner report to a running task
func (s *Service) updateProgress(task *model.DownloadTask, p model.Progress) {
	s.tasksMutex.Lock()
	if task.Status != model.TaskStatusDownloading && task.Status != model.TaskStatusProcessing {
		s.tasksMutex.Unlock()
		return
	}
	if isPostProcessing(p.Status) {
		task.Status = model.TaskStatusProcessing
	}
	task.ApplyProgress(p)
	s.tasksMutex.Unlock()

	s.notifyUpdate(task.ID)
}

// finish records the terminal state of a task
func (s *Service) finish(ctx context.Context, task *model.DownloadTask, result *RunResult, err error) {
	s.tasksMutex.Lock()
	switch {
	case ctx.Err() != nil || task.Status == model.TaskStatusStopping:
		task.Status = model.TaskStatusStopped
	case err != nil:
		task.Status = model.TaskStatusError
		task.LastError = err.Error()
	default:
		task.Status = model.TaskStatusCompleted
		task.Percent = 100
		task.ETASec = -1
		task.StatusText = ""
		if result != nil {
			task.OutputFiles = append([]string(nil), result.Files...)
			if task.Title == "" {
				task.Title = result.Title
			}
		}
	}
	task.FinishedAt = time.Now()
	snap := task.Snapshot()
	s.tasksMutex.Unlock()

	switch snap.Status {
	case model.TaskStatusCompleted:
		s.logger.Info("download completed",
			zap.String("task", snap.ID),
			zap.String("title", snap.GetDisplayTitle()),
			zap.String("file", snap.OutputPath()))
		if s.history != nil {
			if herr := s.history.RecordDownload(snap); herr != nil {
				s.logger.Warn("failed to record history", zap.String("task", snap.ID), zap.Error(herr))
			}
		}
	case model.TaskStatusError:
		s.logger.Error("download failed",
			zap.String("task", snap.ID),
			zap.String("url", snap.Job.URL),
			zap.Int("attempts", snap.Attempts),
			zap.String("error", snap.LastError))
	case model.TaskStatusStopped:
		s.logger.Info("download cancelled", zap.String("task", snap.ID))
	}

	s.notifyUpdate(task.ID)
}

// notifyUpdate delivers the current state of a task to the callback.
// Nothing is delivered once the terminal state of the task has been sent.
func (s *Service) notifyUpdate(id string) {
	s.notifyMutex.Lock()
	defer s.notifyMutex.Unlock()

	if s.finalized[id] {
		return
	}

	s.tasksMutex.RLock()
	task, exists := s.tasks[id]
	cb := s.onUpdate
	var snap model.DownloadTask
	if exists {
		snap = task.Snapshot()
	}
	s.tasksMutex.RUnlock()

	if !exists {
		return
	}
	if snap.Status.IsFinished() {
		s.finalized[id] = true
	}
	if cb != nil {
		cb(snap)
	}
}

// generateTaskID generates a time-ordered unique task ID
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
