package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shtxd/clip/internal/platform"
	"github.com/shtxd/clip/internal/updater"
)

func newDepsCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check that yt-dlp and ffmpeg are installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := platform.CheckDependencies(e.binaries())

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TOOL\tFOUND\tPATH")
			for _, d := range deps {
				fmt.Fprintf(w, "%s\t%t\t%s\n", d.Name, d.Found, d.Path)
			}
			w.Flush()
			return err
		},
	}
}

func newUpdateYTDLPCommand(e *env) *cobra.Command {
	var install bool
	cmd := &cobra.Command{
		Use:   "update-ytdlp",
		Short: "Update yt-dlp to the latest release",
		RunE: func(cmd *cobra.Command, args []string) error {
			u := e.ytdlpUpdater()
			out := cmd.OutOrStdout()

			if install {
				path, err := u.EnsureInstalled(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "yt-dlp: %s\n", path)
				return nil
			}

			version, err := u.Update(cmd.Context())
			if err != nil {
				if errors.Is(err, platform.ErrMissingDependency) {
					return fmt.Errorf("%w (run with --install)", err)
				}
				return err
			}
			fmt.Fprintf(out, "yt-dlp %s\n", version)
			return nil
		},
	}
	cmd.Flags().BoolVar(&install, "install", false, "download yt-dlp when it is not installed")
	return cmd
}

func newVersionCommand(e *env) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version and optionally check for a newer release",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", AppName, updater.AppVersion)
			if !check {
				return nil
			}

			info, err := e.releaseChecker().Check(cmd.Context())
			if err != nil {
				return err
			}
			if !info.Available {
				fmt.Fprintln(out, "You are running the latest version")
				return nil
			}
			fmt.Fprintf(out, "New version available: %s\n", info.LatestVersion)
			if info.DownloadURL != "" {
				fmt.Fprintf(out, "Download: %s\n", info.DownloadURL)
			} else {
				fmt.Fprintf(out, "Release: %s\n", info.ReleaseURL)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	return cmd
}
