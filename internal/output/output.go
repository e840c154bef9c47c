// Package output renders scan reports as text, CSV, TSV or JSON.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/uloc/pkg/types"
)

// Format selects the report encoding
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
)

// NoExt is written in the fileext column for files without an extension
const NoExt = "none"

// Header lists the CSV/TSV columns in order
var Header = []string{"filepath", "filename", "fileext", "unique", "total", "ratio"}

// ParseFormat converts a user-supplied name into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText, "default":
		return FormatText, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatTSV:
		return FormatTSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (allowed: text, csv, tsv, json)", s)
	}
}

// Options controls rendering
type Options struct {
	Format   Format
	Header   bool // CSV/TSV header row
	NameOnly bool // Text format shows file names instead of paths
	Styled   bool // Text format uses terminal styling when the writer supports it

	// Errors are embedded in the JSON document. Other formats report them
	// separately through WriteErrors.
	Errors []*types.FileError
}

// Write renders report to w.
func Write(w io.Writer, report types.Report, opts Options) error {
	switch opts.Format {
	case FormatCSV:
		return writeDelimited(w, report, ',', opts.Header)
	case FormatTSV:
		return writeDelimited(w, report, '\t', opts.Header)
	case FormatJSON:
		return writeJSON(w, report, opts.Errors)
	case FormatText, "":
		return writeText(w, report, opts)
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
}

// WriteErrors renders the file error block. Nothing is written when errs
// is empty.
func WriteErrors(w io.Writer, errs []*types.FileError, nameOnly bool) error {
	if len(errs) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString("File errors:\n")
	for _, fe := range errs {
		fmt.Fprintf(&b, "    %s: %s\n", fe.DisplayPath(nameOnly), fe.Reason())
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

type textStyles struct {
	path, count, percent, label func(...string) string
}

func plain(strs ...string) string {
	return strings.Join(strs, " ")
}

func newTextStyles(w io.Writer, styled bool) textStyles {
	if !styled {
		return textStyles{plain, plain, plain, plain}
	}
	r := lipgloss.NewRenderer(w)
	return textStyles{
		path:    r.NewStyle().Foreground(lipgloss.Color("39")).Render,
		count:   r.NewStyle().Foreground(lipgloss.Color("221")).Render,
		percent: r.NewStyle().Bold(true).Foreground(lipgloss.Color("82")).Render,
		label:   r.NewStyle().Bold(true).Render,
	}
}

func writeText(w io.Writer, report types.Report, opts Options) error {
	st := newTextStyles(w, opts.Styled)

	var b strings.Builder
	b.WriteString(st.label("Unique lines:"))
	b.WriteString("\n")

	line := func(path string, unique, total int, ratio float64) {
		fmt.Fprintf(&b, "    %s: %s : %s\n",
			st.path(path),
			st.count(fmt.Sprintf("%d/%d", unique, total)),
			st.percent(fmt.Sprintf("%.1f%%", ratio*100)))
	}

	for _, f := range report.Files {
		line(f.DisplayPath(opts.NameOnly), f.UniqueLineCount, f.LineCount, f.Ratio())
	}

	b.WriteString("\n")
	line("total", report.Total.UniqueLineCount, report.Total.LineCount, report.Total.Ratio())

	_, err := io.WriteString(w, b.String())
	return err
}

func writeDelimited(w io.Writer, report types.Report, comma rune, header bool) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma

	if header {
		if err := cw.Write(Header); err != nil {
			return err
		}
	}

	for _, f := range report.Files {
		ext := f.Ext
		if !f.HasExt {
			ext = NoExt
		}
		row := []string{
			f.Path,
			f.Name,
			ext,
			strconv.Itoa(f.UniqueLineCount),
			strconv.Itoa(f.LineCount),
			strconv.FormatFloat(f.Ratio(), 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type jsonFile struct {
	types.FileStats
	Ratio float64 `json:"ratio"`
}

type jsonTotal struct {
	types.Totals
	Ratio float64 `json:"ratio"`
}

type jsonError struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

type jsonReport struct {
	Files  []jsonFile  `json:"files"`
	Total  jsonTotal   `json:"total"`
	Errors []jsonError `json:"errors"`
}

// JSON returns the JSON document for report and the file errors that
// accompanied it.
func JSON(report types.Report, errs []*types.FileError) ([]byte, error) {
	doc := jsonReport{
		Files:  make([]jsonFile, 0, len(report.Files)),
		Total:  jsonTotal{Totals: report.Total, Ratio: report.Total.Ratio()},
		Errors: make([]jsonError, 0, len(errs)),
	}
	for _, f := range report.Files {
		doc.Files = append(doc.Files, jsonFile{FileStats: f, Ratio: f.Ratio()})
	}
	for _, fe := range errs {
		doc.Errors = append(doc.Errors, jsonError{Path: fe.Path, Reason: fe.Reason()})
	}
	return json.MarshalIndent(doc, "", "  ")
}

func writeJSON(w io.Writer, report types.Report, errs []*types.FileError) error {
	data, err := JSON(report, errs)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
