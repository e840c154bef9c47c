package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dshills/uloc/internal/output"
	"github.com/dshills/uloc/internal/scanner"
	"github.com/dshills/uloc/internal/storage"
	"github.com/dshills/uloc/pkg/types"
)

func (a *app) runScan(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return newUsageError(cmd, errors.New("got no arguments"))
	}
	for _, p := range args {
		if p == "" {
			return newUsageError(cmd, types.ErrEmptyPath)
		}
	}

	format, err := output.ParseFormat(a.cfg.Format)
	if err != nil {
		return newUsageError(cmd, err)
	}

	scanCfg := &scanner.Config{
		IncludeHidden: a.cfg.All,
		Separator:     a.cfg.SeparatorByte(),
		Exclude:       a.cfg.Exclude,
	}

	result, err := scanner.New(nil).Scan(args, scanCfg)
	if result != nil {
		if werr := output.WriteErrors(a.stderr, result.Errors, a.cfg.Name); werr != nil {
			return werr
		}
	}
	if errors.Is(err, types.ErrNoInputFiles) {
		return newUsageError(cmd, err)
	}
	if err != nil {
		return err
	}

	opts := output.Options{
		Format:   format,
		Header:   a.cfg.Header,
		NameOnly: a.cfg.Name,
		Styled:   true,
		Errors:   result.Errors,
	}
	if err := output.Write(a.stdout, result.Report, opts); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if a.cfg.Save {
		if err := a.saveRun(cmd.Context(), args, scanCfg, result); err != nil {
			return err
		}
	}

	if result.HasErrors() {
		return errFileErrors
	}
	return nil
}

func (a *app) saveRun(ctx context.Context, paths []string, scanCfg *scanner.Config, result *scanner.Result) error {
	store, err := openStore(a.cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	run, files := storage.NewRun(paths, scanCfg.Describe(), result.Records, result.Report, len(result.Errors))
	if err := storage.SaveRun(ctx, store, run, files); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	slog.Info("run saved", "run_id", run.ID, "files", run.FileCount, "db", a.cfg.DBPath)
	fmt.Fprintf(a.stderr, "Saved run %s\n", run.ID)
	return nil
}
