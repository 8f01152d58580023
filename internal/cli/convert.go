package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/shtxd/clip/internal/model"
)

// convertKinds maps command line names to ffmpeg operations
var convertKinds = map[string]model.TranscodeKind{
	"remux":    model.TranscodeRemux,
	"compress": model.TranscodeCompress,
	"audio":    model.TranscodeExtractAudio,
}

func parseConvertKind(name string) (model.TranscodeKind, error) {
	if kind, ok := convertKinds[strings.ToLower(name)]; ok {
		return kind, nil
	}
	return "", fmt.Errorf("unknown conversion %q (use remux, compress or audio)", name)
}

func newConvertCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "convert [remux|compress|audio] [file]",
		Short: "Convert a downloaded file with ffmpeg",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseConvertKind(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			svc := e.transcodeService()
			var mu sync.Mutex
			last := -1
			svc.SetUpdateCallback(func(task model.TranscodeTask) {
				mu.Lock()
				defer mu.Unlock()
				if task.Percent/ProgressStep != last/ProgressStep {
					last = task.Percent
					fmt.Fprintf(out, "%s: %d%%\n", task.Status, task.Percent)
				}
			})

			task, err := svc.Run(ctx, kind, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "saved: %s\n", task.OutputPath)
			return nil
		},
	}
}
