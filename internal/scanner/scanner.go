package scanner

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dshills/uloc/internal/dedup"
	"github.com/dshills/uloc/internal/lines"
	"github.com/dshills/uloc/internal/resolver"
	"github.com/dshills/uloc/internal/source"
	"github.com/dshills/uloc/pkg/types"
)

// Scanner coordinates the pipeline: resolve -> acquire -> count -> aggregate
type Scanner struct {
	reader source.Reader
	lister resolver.Lister
}

// Config contains configuration for a scan
type Config struct {
	IncludeHidden bool     // Keep dot-prefixed entries found in directories (default: false)
	Separator     byte     // Separator for joined paths (default: os.PathSeparator)
	Exclude       []string // Doublestar patterns for discovered entries
}

// Describe returns the options as a JSON object, as stored with saved runs.
func (c *Config) Describe() string {
	doc := struct {
		IncludeHidden bool     `json:"include_hidden"`
		Separator     string   `json:"separator,omitempty"`
		Exclude       []string `json:"exclude,omitempty"`
	}{IncludeHidden: c.IncludeHidden, Exclude: c.Exclude}
	if c.Separator != 0 {
		doc.Separator = string(c.Separator)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Statistics contains statistics about a scan
type Statistics struct {
	FilesResolved int
	FilesScanned  int
	FilesEmpty    int
	FilesFailed   int
	Duration      time.Duration
}

// Result is the outcome of a scan
type Result struct {
	Report  types.Report
	Records []*types.FileRecord
	Errors  []*types.FileError
	Stats   Statistics
}

// HasErrors reports whether any file failed to open or read.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// New creates a new Scanner reading through reader.
func New(reader source.Reader) *Scanner {
	if reader == nil {
		reader = source.OSReader{}
	}
	return &Scanner{
		reader: reader,
		lister: resolver.OSLister{},
	}
}

// WithLister replaces the directory source. Used for tests.
func (s *Scanner) WithLister(l resolver.Lister) *Scanner {
	s.lister = l
	return s
}

// Scan counts total and unique lines for every file under paths.
func (s *Scanner) Scan(paths []string, config *Config) (*Result, error) {
	if config == nil {
		config = &Config{}
	}
	for _, p := range paths {
		if p == "" {
			return nil, types.ErrEmptyPath
		}
	}

	startTime := time.Now()
	result := &Result{}

	files, err := resolver.Resolve(paths, resolver.Options{
		IncludeHidden: config.IncludeHidden,
		Separator:     config.Separator,
		Exclude:       config.Exclude,
		Lister:        s.lister,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	result.Stats.FilesResolved = len(files)

	result.Records = s.acquire(files, result)
	if len(result.Records) == 0 {
		result.Stats.Duration = time.Since(startTime)
		return result, types.ErrNoInputFiles
	}

	set := dedup.NewLineSet(0)
	for _, rec := range result.Records {
		countFile(set, rec)
		slog.Debug("counted file", "path", rec.Path, "lines", rec.LineCount, "unique", rec.UniqueLineCount)
	}

	result.Report = Aggregate(result.Records, set.Unique())
	result.Stats.FilesScanned = len(result.Records)
	result.Stats.Duration = time.Since(startTime)

	slog.Info("scan complete",
		"files", result.Stats.FilesScanned,
		"empty", result.Stats.FilesEmpty,
		"failed", result.Stats.FilesFailed,
		"lines", result.Report.Total.LineCount,
		"unique", result.Report.Total.UniqueLineCount,
		"duration", result.Stats.Duration)

	return result, nil
}

// acquire reads every resolved file, keeping the ones with content.
func (s *Scanner) acquire(files []string, result *Result) []*types.FileRecord {
	records := make([]*types.FileRecord, 0, len(files))

	for _, path := range files {
		rec := types.NewFileRecord(path)

		data, err := s.reader.ReadFile(path)
		if err != nil {
			result.Stats.FilesFailed++
			result.Errors = append(result.Errors, &types.FileError{Path: rec.Path, Name: rec.Name, Err: err})
			slog.Debug("file read failed", "path", path, "error", err)
			continue
		}
		if len(data) == 0 {
			result.Stats.FilesEmpty++
			continue
		}

		rec.Data = data
		records = append(records, rec)
	}

	return records
}

// countFile extracts rec's lines into set and fills in its counts.
func countFile(set *dedup.LineSet, rec *types.FileRecord) {
	rec.Spans = lines.Extract(rec.Data)
	rec.LineCount = len(rec.Spans)
	rec.LineStart = set.Append(rec.Data, rec.Spans)
	rec.UniqueLineCount = set.UniqueRange(rec.LineStart, rec.LineCount)
}
