package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shtxd/clip/internal/model"
)

func newInfoCommand(e *env) *cobra.Command {
	var playlist bool
	cmd := &cobra.Command{
		Use:   "info [url]",
		Short: "Show video or playlist metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			metadata := e.metadataService()
			url := args[0]
			out := cmd.OutOrStdout()

			if playlist || (model.IsPlaylistURL(url) && model.ExtractVideoID(url) == "") {
				p, err := metadata.Playlist(cmd.Context(), url)
				if err != nil {
					return err
				}
				printPlaylist(out, p)
				return nil
			}

			info, err := metadata.VideoInfo(cmd.Context(), url)
			if err != nil {
				return err
			}
			printVideo(out, info)
			return nil
		},
	}
	cmd.Flags().BoolVar(&playlist, "playlist", false, "treat a watch URL with a list parameter as a playlist")
	return cmd
}

func printVideo(out io.Writer, info *model.VideoInfo) {
	fmt.Fprintf(out, "Title:    %s\n", info.Title)
	fmt.Fprintf(out, "Channel:  %s\n", info.Uploader)
	fmt.Fprintf(out, "Duration: %s\n", info.DurationString())
	fmt.Fprintf(out, "Views:    %s\n", info.ViewCountString())
	fmt.Fprintf(out, "Uploaded: %s\n", info.UploadDateString())
	if desc := info.ShortDescription(); desc != "" {
		fmt.Fprintf(out, "\n%s\n", desc)
	}
}

func printPlaylist(out io.Writer, p *model.Playlist) {
	fmt.Fprintf(out, "Playlist: %s\n", p.Title)
	if p.Uploader != "" {
		fmt.Fprintf(out, "Channel:  %s\n", p.Uploader)
	}
	fmt.Fprintf(out, "Videos:   %d\n", p.Count())
	fmt.Fprintf(out, "Duration: %s\n", p.EstimatedDurationString())
	if total := p.TotalDurationSec(); total > 0 {
		fmt.Fprintf(out, "Known:    %s\n", model.FormatDuration(total))
	}
	for i, title := range p.PreviewTitles() {
		fmt.Fprintf(out, "  %d. %s\n", i+1, title)
	}
}
