package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shtxd/clip/internal/history"
	"github.com/shtxd/clip/internal/model"
)

var errHistoryUnavailable = errors.New("history database is not available")

func newHistoryCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List finished downloads",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(e, func(store *history.Store) error {
				entries, err := store.List()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No downloads yet")
					return nil
				}

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "DATE\tSTATUS\tQUALITY\tTITLE\tFILE")
				for _, entry := range entries {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						entry.CreatedAt.Format("2006-01-02 15:04"),
						entry.Status,
						entry.Quality,
						model.TruncateText(entry.Title, 40),
						entry.FilePath)
				}
				return w.Flush()
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(e, func(store *history.Store) error {
				if err := store.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
				return nil
			})
		},
	})
	return cmd
}

func withHistory(e *env, fn func(*history.Store) error) error {
	store := e.openHistory()
	if store == nil {
		return errHistoryUnavailable
	}
	defer store.Close()
	return fn(store)
}
