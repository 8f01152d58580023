// Package model defines the value records shared by the orchestration glue and the UI:
// download jobs, tasks and their progress, video/playlist metadata and status enums.
package model

// TaskStatus represents the lifecycle state of a download or transcoding task
type TaskStatus string

const (
	// TaskStatusPending means the task is queued but not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusStarting means the extractor is resolving the URL
	TaskStatusStarting TaskStatus = "Starting"

	// TaskStatusDownloading means media bytes are being written
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusProcessing means ffmpeg is merging or converting the result
	TaskStatusProcessing TaskStatus = "Processing"

	// TaskStatusStopping means cancellation was requested and the process is exiting
	TaskStatusStopping TaskStatus = "Stopping"

	// TaskStatusStopped means the task was cancelled by the user
	TaskStatusStopped TaskStatus = "Stopped"

	// TaskStatusCompleted means the task finished successfully
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the task failed with an error
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true while an external process may still be running for the task
func (ts TaskStatus) IsActive() bool {
	switch ts {
	case TaskStatusStarting, TaskStatusDownloading, TaskStatusProcessing, TaskStatusStopping:
		return true
	}
	return false
}

// IsFinished returns true if the task reached a terminal state (completed, stopped, or error)
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusStopped || ts == TaskStatusError
}

// CanRetry reports whether a finished task may be submitted again
func (ts TaskStatus) CanRetry() bool {
	return ts == TaskStatusStopped || ts == TaskStatusError
}
