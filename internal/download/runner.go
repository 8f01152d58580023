package download

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/alessio/shellescape"
	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"

	"github.com/shtxd/clip/internal/model"
)

// Subtitle defaults
const (
	SubtitleLanguages = "en"
)

// DefaultProgressInterval is how often yt-dlp progress is reported
const DefaultProgressInterval = 500 * time.Millisecond

// option is one yt-dlp flag: its command-line form for logs and its builder call
type option struct {
	args  []string
	apply func(*ytdlp.Command) *ytdlp.Command
}

// YTDLPRunner runs jobs with the yt-dlp binary
type YTDLPRunner struct {
	executable       string
	ffmpegLocation   string
	progressInterval time.Duration
	logger           *zap.Logger
}

// NewYTDLPRunner creates a runner. Empty paths let go-ytdlp and yt-dlp resolve the tools.
func NewYTDLPRunner(executable, ffmpegLocation string, logger *zap.Logger) *YTDLPRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YTDLPRunner{
		executable:       executable,
		ffmpegLocation:   ffmpegLocation,
		progressInterval: DefaultProgressInterval,
		logger:           logger,
	}
}

// buildOptions maps a job onto yt-dlp flags
func buildOptions(job model.DownloadJob, ffmpegLocation string) []option {
	spec := job.Quality.Spec()
	template := job.FilenameTemplate
	if template == "" {
		template = model.DefaultFilenameTemplate
	}
	output := filepath.Join(job.OutputDir, template)

	opts := []option{
		{[]string{"-f", spec.Selector}, func(c *ytdlp.Command) *ytdlp.Command { return c.Format(spec.Selector) }},
		{[]string{"-o", output}, func(c *ytdlp.Command) *ytdlp.Command { return c.Output(output) }},
	}

	if spec.MergeFormat != "" {
		opts = append(opts, option{[]string{"--merge-output-format", spec.MergeFormat},
			func(c *ytdlp.Command) *ytdlp.Command { return c.MergeOutputFormat(spec.MergeFormat) }})
	}
	if spec.ExtractAudio {
		opts = append(opts,
			option{[]string{"--extract-audio"}, func(c *ytdlp.Command) *ytdlp.Command { return c.ExtractAudio() }},
			option{[]string{"--audio-format", spec.AudioFormat},
				func(c *ytdlp.Command) *ytdlp.Command { return c.AudioFormat(spec.AudioFormat) }},
		)
	}
	if !job.Playlist {
		opts = append(opts, option{[]string{"--no-playlist"}, func(c *ytdlp.Command) *ytdlp.Command { return c.NoPlaylist() }})
	}
	if job.Subtitles {
		opts = append(opts,
			option{[]string{"--write-subs"}, func(c *ytdlp.Command) *ytdlp.Command { return c.WriteSubs() }},
			option{[]string{"--write-auto-subs"}, func(c *ytdlp.Command) *ytdlp.Command { return c.WriteAutoSubs() }},
			option{[]string{"--sub-langs", SubtitleLanguages},
				func(c *ytdlp.Command) *ytdlp.Command { return c.SubLangs(SubtitleLanguages) }},
		)
	}
	if job.Thumbnail {
		opts = append(opts, option{[]string{"--write-thumbnail"}, func(c *ytdlp.Command) *ytdlp.Command { return c.WriteThumbnail() }})
	}
	if ffmpegLocation != "" {
		opts = append(opts, option{[]string{"--ffmpeg-location", ffmpegLocation},
			func(c *ytdlp.Command) *ytdlp.Command { return c.FFmpegLocation(ffmpegLocation) }})
	}

	return append(opts,
		option{[]string{"--ignore-errors"}, func(c *ytdlp.Command) *ytdlp.Command { return c.IgnoreErrors() }},
		option{[]string{"--no-warnings"}, func(c *ytdlp.Command) *ytdlp.Command { return c.NoWarnings() }},
	)
}

// BuildArgs returns the yt-dlp arguments for a job, URL last
func BuildArgs(job model.DownloadJob, ffmpegLocation string) []string {
	var args []string
	for _, opt := range buildOptions(job, ffmpegLocation) {
		args = append(args, opt.args...)
	}
	return append(args, job.URL)
}

func (r *YTDLPRunner) command(job model.DownloadJob) *ytdlp.Command {
	cmd := ytdlp.New()
	if r.executable != "" {
		cmd = cmd.SetExecutable(r.executable)
	}
	for _, opt := range buildOptions(job, r.ffmpegLocation) {
		cmd = opt.apply(cmd)
	}
	return cmd
}

// Run downloads one video, reporting progress until yt-dlp exits
func (r *YTDLPRunner) Run(ctx context.Context, job model.DownloadJob, onProgress func(model.Progress)) (*RunResult, error) {
	r.logger.Info("running yt-dlp",
		zap.String("url", job.URL),
		zap.String("command", "yt-dlp "+shellescape.QuoteCommand(BuildArgs(job, r.ffmpegLocation))))

	seen := newFileSet()
	cmd := r.command(job)
	cmd.ProgressFunc(r.progressInterval, func(update ytdlp.ProgressUpdate) {
		if update.Filename != "" {
			seen.add(update.Filename)
		}
		if onProgress != nil {
			onProgress(progressFromUpdate(update, job.Quality.IsAudioOnly(), time.Now()))
		}
	})

	res, err := cmd.Run(ctx, job.URL)
	if err != nil {
		return nil, err
	}

	result := &RunResult{}
	if res != nil {
		if infos, ierr := res.GetExtractedInfo(); ierr == nil {
			for _, info := range infos {
				if info == nil {
					continue
				}
				if info.Filename != nil && *info.Filename != "" {
					result.Files = append(result.Files, *info.Filename)
				}
				if result.Title == "" && info.Title != nil {
					result.Title = *info.Title
				}
			}
		}
	}
	if len(result.Files) == 0 {
		result.Files = seen.existing()
	}
	return result, nil
}

// fileSet keeps progress file names in first-seen order
type fileSet struct {
	order []string
	seen  map[string]bool
}

func newFileSet() *fileSet {
	return &fileSet{seen: make(map[string]bool)}
}

func (f *fileSet) add(name string) {
	if !f.seen[name] {
		f.seen[name] = true
		f.order = append(f.order, name)
	}
}

// existing drops intermediate files yt-dlp already merged and deleted
func (f *fileSet) existing() []string {
	var out []string
	for _, name := range f.order {
		if _, err := os.Stat(name); err == nil {
			out = append(out, name)
		}
	}
	return out
}
