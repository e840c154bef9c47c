package types

// FileStats is the per-file row of a Report
type FileStats struct {
	Path            string `json:"path"`
	Name            string `json:"name"`
	Ext             string `json:"ext,omitempty"`
	HasExt          bool   `json:"-"`
	LineCount       int    `json:"lines"`
	UniqueLineCount int    `json:"unique_lines"`
	SizeBytes       int64  `json:"size_bytes"`
}

// DisplayPath returns Name when nameOnly is set, Path otherwise.
func (s FileStats) DisplayPath(nameOnly bool) string {
	return displayPath(s.Path, s.Name, nameOnly)
}

// Ratio returns UniqueLineCount / LineCount, or 0 when there are no lines.
func (s FileStats) Ratio() float64 {
	return ratio(s.UniqueLineCount, s.LineCount)
}

// Totals is the grand line / unique-line pair of a run
type Totals struct {
	LineCount       int `json:"lines"`
	UniqueLineCount int `json:"unique_lines"`
}

// Ratio returns UniqueLineCount / LineCount, or 0 when there are no lines.
func (t Totals) Ratio() float64 {
	return ratio(t.UniqueLineCount, t.LineCount)
}

// Report is the immutable result of a run. Files are in traversal order.
type Report struct {
	Files []FileStats `json:"files"`
	Total Totals      `json:"total"`
}

func ratio(unique, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(unique) / float64(total)
}
