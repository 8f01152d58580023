// Package transcode runs ffmpeg over downloaded files: stream-copy remux,
// H.264 compression and MP3 extraction, with progress parsed from ffmpeg.
package transcode

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alessio/shellescape"
	"github.com/google/uuid"
	"github.com/tcolgate/mp3"
	"go.uber.org/zap"

	"github.com/shtxd/clip/internal/model"
)

// FFmpeg constants for the presets
const (
	// Video codec settings
	VideoCodec  = "libx264"
	VideoPreset = "medium"
	VideoCRF    = "23"

	// Audio codec settings
	AudioCodec    = "aac"
	AudioBitrate  = "128k"
	MP3Codec      = "libmp3lame"
	MP3Quality    = "2"
	FastStartFlag = "+faststart"

	// Output naming
	CompressedSuffix = "-compressed"
	RemuxSuffix      = "-remux"
	AudioSuffix      = "-audio"
	ExtMP4           = ".mp4"
	ExtMP3           = ".mp3"

	// Executables and I/O
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="
	TaskIDPrefix        = "transcode-"
)

var (
	// ErrTaskNotFound is returned for unknown task IDs
	ErrTaskNotFound = errors.New("transcode task not found")
	// ErrAlreadyRunning is returned when the input is already being processed
	ErrAlreadyRunning = errors.New("transcode already in progress")
)

// Service runs ffmpeg jobs in the background
type Service struct {
	ffmpegPath  string
	ffprobePath string
	logger      *zap.Logger

	tasks      map[string]*model.TranscodeTask
	cancels    map[string]context.CancelFunc
	tasksMutex sync.RWMutex
	onUpdate   func(model.TranscodeTask) // callback for UI updates
	wg         sync.WaitGroup
}

// NewService creates a transcode service. Empty paths use ffmpeg/ffprobe from PATH.
func NewService(ffmpegPath, ffprobePath string, logger *zap.Logger) *Service {
	if ffmpegPath == "" {
		ffmpegPath = FFmpegCommand
	}
	if ffprobePath == "" {
		ffprobePath = FFprobeCommand
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		logger:      logger,
		tasks:       make(map[string]*model.TranscodeTask),
		cancels:     make(map[string]context.CancelFunc),
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(model.TranscodeTask)) {
	s.tasksMutex.Lock()
	s.onUpdate = callback
	s.tasksMutex.Unlock()
}

// Start queues a job and runs it in the background
func (s *Service) Start(kind model.TranscodeKind, inputPath string) (model.TranscodeTask, error) {
	task, ctx, err := s.register(context.Background(), kind, inputPath)
	if err != nil {
		return model.TranscodeTask{}, err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.process(ctx, task)
	}()

	return s.snapshot(task), nil
}

// Run executes a job synchronously and returns its final state
func (s *Service) Run(ctx context.Context, kind model.TranscodeKind, inputPath string) (model.TranscodeTask, error) {
	task, taskCtx, err := s.register(ctx, kind, inputPath)
	if err != nil {
		return model.TranscodeTask{}, err
	}

	s.process(taskCtx, task)

	final := s.snapshot(task)
	if final.Status == model.TaskStatusError {
		return final, errors.New(final.LastError)
	}
	if final.Status == model.TaskStatusStopped {
		return final, context.Canceled
	}
	return final, nil
}

func (s *Service) register(parent context.Context, kind model.TranscodeKind, inputPath string) (*model.TranscodeTask, context.Context, error) {
	if _, err := BuildArgs(kind, "in", "out"); err != nil {
		return nil, nil, err
	}
	if _, err := os.Stat(inputPath); err != nil {
		return nil, nil, fmt.Errorf("input file does not exist: %s", inputPath)
	}

	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	for _, task := range s.tasks {
		if task.InputPath == inputPath && !task.Status.IsFinished() {
			return nil, nil, fmt.Errorf("%w: %s", ErrAlreadyRunning, inputPath)
		}
	}

	task := &model.TranscodeTask{
		ID:         generateTaskID(),
		Kind:       kind,
		InputPath:  inputPath,
		OutputPath: OutputPath(kind, inputPath),
		Status:     model.TaskStatusPending,
		StartedAt:  time.Now(),
	}
	ctx, cancel := context.WithCancel(parent)
	s.tasks[task.ID] = task
	s.cancels[task.ID] = cancel

	return task, ctx, nil
}

// Stop cancels a running job
func (s *Service) Stop(taskID string) error {
	s.tasksMutex.Lock()
	task, exists := s.tasks[taskID]
	if !exists {
		s.tasksMutex.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if task.Status.IsFinished() {
		s.tasksMutex.Unlock()
		return fmt.Errorf("transcode task is not active: %s", task.Status)
	}
	task.Status = model.TaskStatusStopping
	cancel := s.cancels[taskID]
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
	if cancel != nil {
		cancel()
	}
	return nil
}

// GetTask returns a copy of a task by ID
func (s *Service) GetTask(taskID string) (model.TranscodeTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[taskID]
	if !exists {
		return model.TranscodeTask{}, false
	}
	return *task, true
}

// Wait blocks until background jobs started with Start are done
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) process(ctx context.Context, task *model.TranscodeTask) {
	defer func() {
		s.tasksMutex.Lock()
		if cancel, ok := s.cancels[task.ID]; ok {
			cancel()
			delete(s.cancels, task.ID)
		}
		s.tasksMutex.Unlock()
	}()

	if !s.setStatus(task, model.TaskStatusStarting) {
		s.finish(ctx, task, context.Canceled)
		return
	}

	duration, err := s.mediaDuration(ctx, task.InputPath)
	if err != nil {
		// progress stays at 0 until completion
		s.logger.Warn("failed to read media duration", zap.String("file", task.InputPath), zap.Error(err))
	}

	if !s.setStatus(task, model.TaskStatusProcessing) {
		s.finish(ctx, task, context.Canceled)
		return
	}

	args, _ := BuildArgs(task.Kind, task.InputPath, task.OutputPath)
	s.logger.Info("running ffmpeg",
		zap.String("task", task.ID),
		zap.String("command", s.ffmpegPath+" "+shellescape.QuoteCommand(args)))

	cmd := exec.CommandContext(ctx, s.ffmpegPath, args...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		s.finish(ctx, task, fmt.Errorf("failed to create stderr pipe: %w", err))
		return
	}

	if err := cmd.Start(); err != nil {
		s.finish(ctx, task, fmt.Errorf("failed to start ffmpeg: %w", err))
		return
	}

	// stderr must be drained before Wait closes it
	lastLine := <-s.monitorProgress(stderr, task, duration)
	err = cmd.Wait()
	if err != nil && ctx.Err() == nil && lastLine != "" {
		err = fmt.Errorf("%w: %s", err, lastLine)
	}
	s.finish(ctx, task, err)
}

// setStatus moves a task forward unless it is being stopped
func (s *Service) setStatus(task *model.TranscodeTask, status model.TaskStatus) bool {
	s.tasksMutex.Lock()
	if task.Status == model.TaskStatusStopping {
		s.tasksMutex.Unlock()
		return false
	}
	task.Status = status
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)
	return true
}

func (s *Service) finish(ctx context.Context, task *model.TranscodeTask, err error) {
	s.tasksMutex.Lock()
	switch {
	case ctx.Err() != nil || task.Status == model.TaskStatusStopping:
		task.Status = model.TaskStatusStopped
		os.Remove(task.OutputPath)
	case err != nil:
		task.Status = model.TaskStatusError
		task.LastError = err.Error()
		os.Remove(task.OutputPath)
	default:
		task.Status = model.TaskStatusCompleted
		task.Percent = 100
	}
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()

	if err != nil && ctx.Err() == nil {
		s.logger.Error("transcode failed", zap.String("task", task.ID), zap.Error(err))
	} else {
		s.logger.Info("transcode finished", zap.String("task", task.ID), zap.String("status", task.Status.String()))
	}
	s.notifyUpdate(task)
}

// BuildArgs builds the ffmpeg arguments for a job kind
func BuildArgs(kind model.TranscodeKind, inputPath, outputPath string) ([]string, error) {
	args := []string{"-y", "-i", inputPath}
	switch kind {
	case model.TranscodeRemux:
		args = append(args,
			"-c", "copy",
			"-movflags", FastStartFlag,
		)
	case model.TranscodeCompress:
		args = append(args,
			"-c:v", VideoCodec,
			"-preset", VideoPreset,
			"-crf", VideoCRF,
			"-c:a", AudioCodec,
			"-b:a", AudioBitrate,
			"-movflags", FastStartFlag,
		)
	case model.TranscodeExtractAudio:
		args = append(args,
			"-vn",
			"-c:a", MP3Codec,
			"-q:a", MP3Quality,
		)
	default:
		return nil, fmt.Errorf("unknown transcode kind: %q", kind)
	}
	return append(args,
		"-progress", ProgressPipeTarget,
		"-nostats",
		outputPath,
	), nil
}

// OutputPath derives the output file for a job, never equal to the input
func OutputPath(kind model.TranscodeKind, inputPath string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)
	switch kind {
	case model.TranscodeCompress:
		return base + CompressedSuffix + ExtMP4
	case model.TranscodeExtractAudio:
		if strings.EqualFold(ext, ExtMP3) {
			return base + AudioSuffix + ExtMP3
		}
		return base + ExtMP3
	default:
		if strings.EqualFold(ext, ExtMP4) {
			return base + RemuxSuffix + ExtMP4
		}
		return base + ExtMP4
	}
}

// mediaDuration asks ffprobe for the duration; MP3 files fall back to counting frames
func (s *Service) mediaDuration(ctx context.Context, filePath string) (float64, error) {
	cmd := exec.CommandContext(ctx, s.ffprobePath, "-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, filePath)
	output, err := cmd.Output()
	if err != nil {
		err = fmt.Errorf("failed to run ffprobe: %w", err)
	} else {
		duration, perr := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
		if perr == nil {
			return duration, nil
		}
		err = fmt.Errorf("failed to parse duration: %w", perr)
	}

	if strings.EqualFold(filepath.Ext(filePath), ExtMP3) {
		d, merr := MP3Duration(filePath)
		if merr == nil {
			return d.Seconds(), nil
		}
		return 0, errors.Join(err, merr)
	}
	return 0, err
}

// MP3Duration sums the frame durations of an MP3 file
func MP3Duration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	d := mp3.NewDecoder(f)
	var (
		frame   mp3.Frame
		skipped int
		total   time.Duration
	)
	for {
		if err := d.Decode(&frame, &skipped); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, err
		}
		total += frame.Duration()
	}
	return total, nil
}

// monitorProgress parses "out_time_us=" lines. The returned channel yields the last
// non-progress line once stderr is drained, for error messages.
func (s *Service) monitorProgress(stderr io.Reader, task *model.TranscodeTask, totalDuration float64) <-chan string {
	tail := make(chan string, 1)
	go func() {
		var last string
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if percent, ok := ParseProgressLine(line, totalDuration); ok {
				s.tasksMutex.Lock()
				task.Percent = percent
				s.tasksMutex.Unlock()
				s.notifyUpdate(task)
				continue
			}
			if line != "" && !strings.Contains(line, "=") {
				last = line
			}
		}
		tail <- last
	}()
	return tail
}

// ParseProgressLine converts an "out_time_us=" line into a 0..100 percentage
func ParseProgressLine(line string, totalDuration float64) (int, bool) {
	if !strings.HasPrefix(line, ProgressTimePrefix) || totalDuration <= 0 {
		return 0, false
	}
	us, err := strconv.ParseInt(strings.TrimPrefix(line, ProgressTimePrefix), 10, 64)
	if err != nil || us < 0 {
		return 0, false
	}
	progress := min(float64(us)/1e6/totalDuration, 1.0)
	return int(progress * 100), true
}

func (s *Service) snapshot(task *model.TranscodeTask) model.TranscodeTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	return *task
}

// notifyUpdate calls the update callback with a copy of the task
func (s *Service) notifyUpdate(task *model.TranscodeTask) {
	s.tasksMutex.RLock()
	cb := s.onUpdate
	snap := *task
	s.tasksMutex.RUnlock()
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
