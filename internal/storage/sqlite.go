package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTx) querier() querier {
	return t.tx
}

func (s *SQLiteStorage) querier() querier {
	return s.db
}

// Run operations

func (s *SQLiteStorage) createRunWithQuerier(ctx context.Context, q querier, run *Run) error {
	if run.ID == "" {
		return fmt.Errorf("failed to create run: empty id")
	}
	paths, err := json.Marshal(run.Paths)
	if err != nil {
		return fmt.Errorf("failed to encode run paths: %w", err)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO runs (id, paths, options, file_count, line_count, unique_line_count, error_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = q.ExecContext(ctx, query,
		run.ID, string(paths), run.Options, run.FileCount, run.LineCount,
		run.UniqueLineCount, run.ErrorCount, run.CreatedAt)
	if err != nil {
		if _, getErr := s.getRunWithQuerier(ctx, q, run.ID); getErr == nil {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) CreateRun(ctx context.Context, run *Run) error {
	return s.createRunWithQuerier(ctx, s.querier(), run)
}

const runColumns = `id, paths, options, file_count, line_count, unique_line_count, error_count, created_at`

// rowScanner is implemented by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var paths string
	var options sql.NullString
	err := row.Scan(
		&run.ID, &paths, &options, &run.FileCount, &run.LineCount,
		&run.UniqueLineCount, &run.ErrorCount, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if options.Valid {
		run.Options = options.String
	}
	if err := json.Unmarshal([]byte(paths), &run.Paths); err != nil {
		return nil, fmt.Errorf("failed to decode run paths: %w", err)
	}
	return &run, nil
}

func (s *SQLiteStorage) getRunWithQuerier(ctx context.Context, q querier, runID string) (*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`
	run, err := scanRun(q.QueryRowContext(ctx, query, runID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (s *SQLiteStorage) GetRun(ctx context.Context, runID string) (*Run, error) {
	return s.getRunWithQuerier(ctx, s.querier(), runID)
}

func (s *SQLiteStorage) listRunsWithQuerier(ctx context.Context, q querier, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id LIMIT ?`
	rows, err := q.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	runs := make([]*Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	return s.listRunsWithQuerier(ctx, s.querier(), limit)
}

func (s *SQLiteStorage) deleteRunWithQuerier(ctx context.Context, q querier, runID string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) DeleteRun(ctx context.Context, runID string) error {
	return s.deleteRunWithQuerier(ctx, s.querier(), runID)
}

// Run file operations

func (s *SQLiteStorage) insertRunFileWithQuerier(ctx context.Context, q querier, file *RunFile) error {
	query := `
		INSERT INTO run_files (run_id, position, path, name, ext, line_count, unique_line_count, size_bytes, content_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	err := q.QueryRowContext(ctx, query,
		file.RunID, file.Position, file.Path, file.Name, file.Ext,
		file.LineCount, file.UniqueLineCount, file.SizeBytes, file.ContentHash[:],
	).Scan(&file.ID)
	if err != nil {
		return fmt.Errorf("failed to insert run file: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) InsertRunFile(ctx context.Context, file *RunFile) error {
	return s.insertRunFileWithQuerier(ctx, s.querier(), file)
}

func (s *SQLiteStorage) listRunFilesWithQuerier(ctx context.Context, q querier, runID string) ([]*RunFile, error) {
	query := `
		SELECT id, run_id, position, path, name, ext, line_count, unique_line_count, size_bytes, content_hash
		FROM run_files
		WHERE run_id = ?
		ORDER BY position
	`
	rows, err := q.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	files := make([]*RunFile, 0)
	for rows.Next() {
		var file RunFile
		var ext sql.NullString
		var hash []byte

		err := rows.Scan(
			&file.ID, &file.RunID, &file.Position, &file.Path, &file.Name, &ext,
			&file.LineCount, &file.UniqueLineCount, &file.SizeBytes, &hash,
		)
		if err != nil {
			return nil, err
		}
		if ext.Valid {
			file.Ext = &ext.String
		}
		copy(file.ContentHash[:], hash)

		files = append(files, &file)
	}
	return files, rows.Err()
}

func (s *SQLiteStorage) ListRunFiles(ctx context.Context, runID string) ([]*RunFile, error) {
	return s.listRunFilesWithQuerier(ctx, s.querier(), runID)
}

// Status operations

func (s *SQLiteStorage) getStatusWithQuerier(ctx context.Context, q querier) (*Status, error) {
	status := &Status{}

	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&status.RunsCount); err != nil {
		return nil, err
	}
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM run_files").Scan(&status.FilesCount); err != nil {
		return nil, err
	}

	if status.RunsCount > 0 {
		latest, err := s.listRunsWithQuerier(ctx, q, 1)
		if err != nil {
			return nil, err
		}
		if len(latest) == 1 {
			status.LastRunAt = latest[0].CreatedAt
		}
	}

	var pageCount, pageSize int
	if err := q.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err == nil {
		_ = q.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
		status.DBSizeMB = float64(pageCount*pageSize) / (1024 * 1024)
	}

	status.Accessible = true
	return status, nil
}

func (s *SQLiteStorage) GetStatus(ctx context.Context) (*Status, error) {
	return s.getStatusWithQuerier(ctx, s.querier())
}

// Transaction operations

func (t *sqliteTx) CreateRun(ctx context.Context, run *Run) error {
	return t.storage.createRunWithQuerier(ctx, t.querier(), run)
}

func (t *sqliteTx) GetRun(ctx context.Context, runID string) (*Run, error) {
	return t.storage.getRunWithQuerier(ctx, t.querier(), runID)
}

func (t *sqliteTx) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	return t.storage.listRunsWithQuerier(ctx, t.querier(), limit)
}

func (t *sqliteTx) DeleteRun(ctx context.Context, runID string) error {
	return t.storage.deleteRunWithQuerier(ctx, t.querier(), runID)
}

func (t *sqliteTx) InsertRunFile(ctx context.Context, file *RunFile) error {
	return t.storage.insertRunFileWithQuerier(ctx, t.querier(), file)
}

func (t *sqliteTx) ListRunFiles(ctx context.Context, runID string) ([]*RunFile, error) {
	return t.storage.listRunFilesWithQuerier(ctx, t.querier(), runID)
}

func (t *sqliteTx) GetStatus(ctx context.Context) (*Status, error) {
	return t.storage.getStatusWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	// SQLite does not support true nested transactions
	return nil, errors.New("nested transactions not supported")
}
