package types

// FileRecord represents one resolved input file during a run
type FileRecord struct {
	Path   string
	Name   string
	Ext    string // Includes the leading dot
	HasExt bool   // False when Path has no '.' after its last separator

	// Populated once by the scanner, never revised
	LineCount       int
	UniqueLineCount int

	// Data is the whole file content; Spans index into it
	Data  []byte
	Spans []Span

	// Range of this file's lines within the run's global line set
	LineStart int
}

// NewFileRecord creates a FileRecord with Name and Ext derived from path.
func NewFileRecord(path string) *FileRecord {
	name, ext, ok := SplitName(path)
	return &FileRecord{
		Path:   path,
		Name:   name,
		Ext:    ext,
		HasExt: ok,
	}
}

// Stats returns the reportable view of the record.
func (f *FileRecord) Stats() FileStats {
	return FileStats{
		Path:            f.Path,
		Name:            f.Name,
		Ext:             f.Ext,
		HasExt:          f.HasExt,
		LineCount:       f.LineCount,
		UniqueLineCount: f.UniqueLineCount,
		SizeBytes:       int64(len(f.Data)),
	}
}
