package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"github.com/spf13/cobra"

	"github.com/shtxd/clip/internal/download"
	"github.com/shtxd/clip/internal/model"
	"github.com/shtxd/clip/internal/platform"
)

// ProgressStep is how many percent a task advances between printed progress lines
const ProgressStep = 10

type downloadFlags struct {
	quality     string
	output      string
	playlist    bool
	quantity    string
	start       int
	end         int
	subtitles   bool
	thumbnail   bool
	template    string
	maxParallel int
}

func newDownloadCommand(e *env) *cobra.Command {
	f := &downloadFlags{}
	cmd := &cobra.Command{
		Use:   "download [url]",
		Short: "Download a video or a playlist range without the window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := f.job(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			store := e.openHistory()
			if store != nil {
				defer store.Close()
			}
			svc := e.downloadService(f.maxParallel, store)
			return runDownload(ctx, svc, job, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&f.quality, "quality", "q", string(model.DefaultQuality), "quality preset (best, 1080p, 720p, worst, audio)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "destination directory (default ~/Downloads)")
	cmd.Flags().BoolVar(&f.playlist, "playlist", false, "download playlist entries instead of the single video")
	cmd.Flags().StringVar(&f.quantity, "quantity", model.DefaultPlaylistQuantity, "number of playlist entries from the start (5, 10, 20, 50, All)")
	cmd.Flags().IntVar(&f.start, "start", 0, "first playlist entry, 1-based (overrides --quantity with --end)")
	cmd.Flags().IntVar(&f.end, "end", 0, "last playlist entry, inclusive")
	cmd.Flags().BoolVar(&f.subtitles, "subtitles", false, "write subtitles")
	cmd.Flags().BoolVar(&f.thumbnail, "thumbnail", false, "write the thumbnail")
	cmd.Flags().StringVar(&f.template, "template", model.DefaultFilenameTemplate, "yt-dlp output filename template")
	cmd.Flags().IntVarP(&f.maxParallel, "parallel", "p", download.DefaultMaxParallel, "parallel downloads for playlists")
	return cmd
}

// job turns the flags into a validated-ready download job
func (f *downloadFlags) job(url string) (model.DownloadJob, error) {
	quality, err := model.ParseQuality(f.quality)
	if err != nil {
		return model.DownloadJob{}, err
	}

	output := f.output
	if output == "" {
		if output, err = platform.GetHomeDownloadsDir(); err != nil {
			return model.DownloadJob{}, err
		}
	}

	job := model.DownloadJob{
		URL:              url,
		Quality:          quality,
		OutputDir:        output,
		Subtitles:        f.subtitles,
		Thumbnail:        f.thumbnail,
		FilenameTemplate: f.template,
	}
	if f.playlist {
		if f.start > 0 && f.end > 0 && f.start > f.end {
			return model.DownloadJob{}, fmt.Errorf("%w: start %d is after end %d", model.ErrInvalidRange, f.start, f.end)
		}
		r, err := model.ResolveRange(f.start, f.end, f.quantity)
		if err != nil {
			return model.DownloadJob{}, err
		}
		job.Playlist = true
		job.Range = r
	}
	job.Normalize()
	return job, job.Validate()
}

// runDownload blocks until every task of the job is finished, printing progress to out
func runDownload(ctx context.Context, svc *download.Service, job model.DownloadJob, out io.Writer) error {
	printer := newProgressPrinter(out)
	svc.SetUpdateCallback(printer.update)

	tasks, err := svc.Download(ctx, job)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	var failed int
	for _, task := range tasks {
		switch task.Status {
		case model.TaskStatusCompleted:
			for _, file := range task.OutputFiles {
				if fi, err := os.Stat(file); err == nil {
					fmt.Fprintf(out, "saved: %s (%s)\n", file, model.FormatFileSize(fi.Size()))
				} else {
					fmt.Fprintf(out, "saved: %s\n", file)
				}
			}
		case model.TaskStatusError:
			failed++
		}
	}
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", failed, len(tasks))
	}
	return nil
}

// progressPrinter writes status changes and every ProgressStep percent
type progressPrinter struct {
	mu     sync.Mutex
	out    io.Writer
	status map[string]model.TaskStatus
	step   map[string]int
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{
		out:    out,
		status: make(map[string]model.TaskStatus),
		step:   make(map[string]int),
	}
}

func (p *progressPrinter) update(task model.DownloadTask) {
	p.mu.Lock()
	defer p.mu.Unlock()

	name := task.GetDisplayTitle()
	if task.PlaylistIndex > 0 {
		name = fmt.Sprintf("[%d] %s", task.PlaylistIndex, name)
	}

	if p.status[task.ID] != task.Status {
		p.status[task.ID] = task.Status
		switch task.Status {
		case model.TaskStatusError:
			fmt.Fprintf(p.out, "%s: %s: %s\n", name, task.Status, task.LastError)
		case model.TaskStatusProcessing:
			fmt.Fprintf(p.out, "%s: %s\n", name, task.StatusText)
		default:
			fmt.Fprintf(p.out, "%s: %s\n", name, task.Status)
		}
	}

	if task.Status != model.TaskStatusDownloading {
		return
	}
	step := int(task.Percent) / ProgressStep
	if step <= p.step[task.ID] {
		return
	}
	p.step[task.ID] = step
	fmt.Fprintf(p.out, "%s: %3.0f%%  %s  ETA %s\n", name, task.Percent, task.Speed, task.GetETAString())
}
