package transcode

import (
	"context"

	"github.com/shtxd/clip/internal/model"
)

// Transcoder defines the interface for the ffmpeg service.
type Transcoder interface {
	SetUpdateCallback(func(model.TranscodeTask))
	Start(kind model.TranscodeKind, inputPath string) (model.TranscodeTask, error)
	Run(ctx context.Context, kind model.TranscodeKind, inputPath string) (model.TranscodeTask, error)
	Stop(taskID string) error
	GetTask(taskID string) (model.TranscodeTask, bool)
}
