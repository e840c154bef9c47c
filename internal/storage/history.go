package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"lukechampine.com/blake3"

	"github.com/dshills/uloc/pkg/types"
)

// NewRun builds the history rows for a finished scan. Records must be in
// report order and still hold their data.
func NewRun(paths []string, options string, records []*types.FileRecord, report types.Report, errorCount int) (*Run, []*RunFile) {
	run := &Run{
		ID:              uuid.NewString(),
		Paths:           append([]string(nil), paths...),
		Options:         options,
		FileCount:       len(report.Files),
		LineCount:       report.Total.LineCount,
		UniqueLineCount: report.Total.UniqueLineCount,
		ErrorCount:      errorCount,
		CreatedAt:       time.Now().UTC(),
	}

	files := make([]*RunFile, 0, len(records))
	for i, rec := range records {
		f := &RunFile{
			RunID:           run.ID,
			Position:        i,
			Path:            rec.Path,
			Name:            rec.Name,
			LineCount:       rec.LineCount,
			UniqueLineCount: rec.UniqueLineCount,
			SizeBytes:       int64(len(rec.Data)),
			ContentHash:     blake3.Sum256(rec.Data),
		}
		if rec.HasExt {
			ext := rec.Ext
			f.Ext = &ext
		}
		files = append(files, f)
	}

	return run, files
}

// SaveRun stores run and its files in one transaction, retrying while
// another process holds the database lock.
func SaveRun(ctx context.Context, store Storage, run *Run, files []*RunFile) error {
	return retryWithBackoff(ctx, DefaultRetryConfig(), func() error {
		return saveRunOnce(ctx, store, run, files)
	})
}

func saveRunOnce(ctx context.Context, store Storage, run *Run, files []*RunFile) error {
	tx, err := store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.CreateRun(ctx, run); err != nil {
		return err
	}
	for _, f := range files {
		f.RunID = run.ID
		if err := tx.InsertRunFile(ctx, f); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Report rebuilds the scan report from a saved run and its files.
func (r *Run) Report(files []*RunFile) types.Report {
	report := types.Report{
		Files: make([]types.FileStats, 0, len(files)),
		Total: types.Totals{LineCount: r.LineCount, UniqueLineCount: r.UniqueLineCount},
	}
	for _, f := range files {
		stats := types.FileStats{
			Path:            f.Path,
			Name:            f.Name,
			LineCount:       f.LineCount,
			UniqueLineCount: f.UniqueLineCount,
			SizeBytes:       f.SizeBytes,
		}
		if f.Ext != nil {
			stats.Ext = *f.Ext
			stats.HasExt = true
		}
		report.Files = append(report.Files, stats)
	}
	return report
}
