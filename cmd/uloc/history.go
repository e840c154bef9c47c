package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/uloc/internal/output"
	"github.com/dshills/uloc/internal/storage"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit    int
		deleteID string
	)

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List saved runs or show one of them",
		Long: `Without arguments, list the runs saved with --save, newest first.
With a run id, print that run's report in the selected output format.
--delete removes a saved run.

Examples:
  uloc history
  uloc history -n 5
  uloc history 3f2c9a0e-... --csv
  uloc history --delete 3f2c9a0e-...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if deleteID != "" {
				if len(args) > 0 {
					return newUsageError(cmd, errors.New("--delete does not take a run-id argument"))
				}
				return a.deleteRun(cmd.Context(), store, deleteID)
			}
			if len(args) == 1 {
				return a.showRun(cmd.Context(), store, args[0])
			}
			return a.listRuns(cmd.Context(), store, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")
	cmd.Flags().StringVar(&deleteID, "delete", "", "Delete the saved run with this id")
	return cmd
}

func (a *app) listRuns(ctx context.Context, store storage.Storage, limit int) error {
	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(a.stdout, "No saved runs")
		return nil
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tCREATED\tFILES\tUNIQUE/TOTAL\tERRORS\tPATHS")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d/%d\t%d\t%s\n",
			run.ID,
			run.CreatedAt.Local().Format(time.DateTime),
			run.FileCount,
			run.UniqueLineCount, run.LineCount,
			run.ErrorCount,
			strings.Join(run.Paths, " "))
	}
	return tw.Flush()
}

func (a *app) deleteRun(ctx context.Context, store storage.Storage, runID string) error {
	err := store.DeleteRun(ctx, runID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	fmt.Fprintf(a.stdout, "Deleted run %s\n", runID)
	return nil
}

func (a *app) showRun(ctx context.Context, store storage.Storage, runID string) error {
	run, err := store.GetRun(ctx, runID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	files, err := store.ListRunFiles(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to list run files: %w", err)
	}

	format, err := output.ParseFormat(a.cfg.Format)
	if err != nil {
		return err
	}
	if format == output.FormatText {
		fmt.Fprintf(a.stdout, "Run %s (%s)\n", run.ID, run.CreatedAt.Local().Format(time.DateTime))
	}

	return output.Write(a.stdout, run.Report(files), output.Options{
		Format:   format,
		Header:   a.cfg.Header,
		NameOnly: a.cfg.Name,
		Styled:   true,
	})
}
