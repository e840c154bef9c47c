package storage

import (
	"context"
	"time"
)

// Storage defines the interface for persisting scan run history
type Storage interface {
	// Run operations
	CreateRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	DeleteRun(ctx context.Context, runID string) error

	// Run file operations
	InsertRunFile(ctx context.Context, file *RunFile) error
	ListRunFiles(ctx context.Context, runID string) ([]*RunFile, error)

	// Status operations
	GetStatus(ctx context.Context) (*Status, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// Run represents one saved scan
type Run struct {
	ID              string // UUID
	Paths           []string
	Options         string // JSON-encoded scan options
	FileCount       int
	LineCount       int
	UniqueLineCount int
	ErrorCount      int
	CreatedAt       time.Time
}

// RunFile represents one file row of a saved scan
type RunFile struct {
	ID              int64
	RunID           string
	Position        int // Traversal order within the run, 0-based
	Path            string
	Name            string
	Ext             *string // Nullable: files without an extension
	LineCount       int
	UniqueLineCount int
	SizeBytes       int64
	ContentHash     [32]byte // BLAKE3 of the file content
}

// Status contains statistics about the history database
type Status struct {
	RunsCount  int
	FilesCount int
	LastRunAt  time.Time
	DBSizeMB   float64
	Accessible bool
}
