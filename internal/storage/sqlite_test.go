package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/blake3"

	"github.com/dshills/uloc/pkg/types"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	// Use in-memory database for testing
	storage, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NotNil(t, storage)
	return storage
}

func testRecords() ([]*types.FileRecord, types.Report) {
	a := types.NewFileRecord("src/a.txt")
	a.Data = []byte("foo\nfoo\nbar\n")
	a.LineCount, a.UniqueLineCount = 3, 2

	b := types.NewFileRecord("src/Makefile")
	b.Data = []byte("all:\n")
	b.LineCount, b.UniqueLineCount = 1, 1

	records := []*types.FileRecord{a, b}
	report := types.Report{
		Files: []types.FileStats{a.Stats(), b.Stats()},
		Total: types.Totals{LineCount: 4, UniqueLineCount: 3},
	}
	return records, report
}

func TestNewSQLiteStorage(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	assert.NotNil(t, storage)
	assert.NotNil(t, storage.db)
}

func TestClose(t *testing.T) {
	storage := setupTestDB(t)
	err := storage.Close()
	assert.NoError(t, err)
}

func TestCreateRun(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	run := &Run{ID: "run-1", Paths: []string{"src"}, FileCount: 2, LineCount: 4, UniqueLineCount: 3}

	require.NoError(t, storage.CreateRun(ctx, run))
	assert.False(t, run.CreatedAt.IsZero())

	// Duplicate id
	err := storage.CreateRun(ctx, &Run{ID: "run-1", Paths: []string{"other"}})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// Missing id
	assert.Error(t, storage.CreateRun(ctx, &Run{}))
}

func TestGetRun(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	run := &Run{
		ID:              "run-1",
		Paths:           []string{"src", "README.md"},
		Options:         `{"all":true}`,
		FileCount:       2,
		LineCount:       4,
		UniqueLineCount: 3,
		ErrorCount:      1,
		CreatedAt:       created,
	}
	require.NoError(t, storage.CreateRun(ctx, run))

	got, err := storage.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run.Paths, got.Paths)
	assert.Equal(t, run.Options, got.Options)
	assert.Equal(t, 2, got.FileCount)
	assert.Equal(t, 4, got.LineCount)
	assert.Equal(t, 3, got.UniqueLineCount)
	assert.Equal(t, 1, got.ErrorCount)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestGetRun_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	_, err := storage.GetRun(context.Background(), "missing")
	assert.Equal(t, ErrNotFound, err)
}

func TestListRuns(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, storage.CreateRun(ctx, &Run{
			ID:        id,
			Paths:     []string{"."},
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	all, err := storage.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "new", all[0].ID)
	assert.Equal(t, "old", all[2].ID)

	limited, err := storage.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSaveRunAndListFiles(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	records, report := testRecords()

	run, files := NewRun([]string{"src"}, `{}`, records, report, 0)
	require.NotEmpty(t, run.ID)
	require.Len(t, files, 2)

	require.NoError(t, SaveRun(ctx, storage, run, files))

	got, err := storage.ListRunFiles(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 0, got[0].Position)
	assert.Equal(t, "src/a.txt", got[0].Path)
	require.NotNil(t, got[0].Ext)
	assert.Equal(t, ".txt", *got[0].Ext)
	assert.Equal(t, 3, got[0].LineCount)
	assert.Equal(t, 2, got[0].UniqueLineCount)
	assert.Equal(t, int64(12), got[0].SizeBytes)
	assert.Equal(t, blake3.Sum256(records[0].Data), got[0].ContentHash)

	assert.Equal(t, "Makefile", got[1].Name)
	assert.Nil(t, got[1].Ext)
}

func TestSaveRun_RollsBackOnFailure(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	records, report := testRecords()
	run, files := NewRun([]string{"src"}, "", records, report, 0)

	// duplicate position violates UNIQUE(run_id, position)
	files[1].Position = files[0].Position

	require.Error(t, SaveRun(ctx, storage, run, files))

	_, err := storage.GetRun(ctx, run.ID)
	assert.Equal(t, ErrNotFound, err)
}

func TestDeleteRun(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	records, report := testRecords()
	run, files := NewRun([]string{"src"}, "", records, report, 0)
	require.NoError(t, SaveRun(ctx, storage, run, files))

	require.NoError(t, storage.DeleteRun(ctx, run.ID))

	remaining, err := storage.ListRunFiles(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining, "files cascade with their run")

	assert.Equal(t, ErrNotFound, storage.DeleteRun(ctx, run.ID))
}

func TestGetStatus(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	status, err := storage.GetStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.Accessible)
	assert.Zero(t, status.RunsCount)
	assert.True(t, status.LastRunAt.IsZero())

	records, report := testRecords()
	run, files := NewRun([]string{"src"}, "", records, report, 0)
	require.NoError(t, SaveRun(ctx, storage, run, files))

	status, err = storage.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.RunsCount)
	assert.Equal(t, 2, status.FilesCount)
	assert.False(t, status.LastRunAt.IsZero())
}

func TestNestedTransaction(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	tx, err := storage.BeginTx(context.Background())
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	_, err = tx.BeginTx(context.Background())
	assert.Error(t, err)
}

func TestRunReport(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	records, report := testRecords()
	run, files := NewRun([]string{"src"}, "", records, report, 0)
	require.NoError(t, SaveRun(ctx, storage, run, files))

	saved, err := storage.GetRun(ctx, run.ID)
	require.NoError(t, err)
	savedFiles, err := storage.ListRunFiles(ctx, run.ID)
	require.NoError(t, err)

	rebuilt := saved.Report(savedFiles)
	assert.Equal(t, report.Total, rebuilt.Total)
	assert.Equal(t, report.Files, rebuilt.Files)
}
