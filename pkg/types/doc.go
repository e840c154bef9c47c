// Package types provides shared type definitions for uloc.
//
// This package defines the domain types passed between the resolver, the
// line extractor, the deduplicator and the output layer.
//
// # Line Spans
//
// A Span is a byte range into a file's buffer. Spans never copy file
// content; the bytes they describe stay owned by the FileRecord that read
// them:
//
//	spans := lines.Extract(buf)
//	first := spans[0].Bytes(buf)
//
// # File Records
//
// FileRecord carries one resolved input file through a run. Name and Ext
// are derived from Path by SplitName and are used for reporting only:
//
//	name, ext, ok := types.SplitName("src/main.go")
//	// name == "main.go", ext == ".go", ok == true
//
// Dotfiles keep their whole name as the extension:
//
//	name, ext, ok := types.SplitName("dir/.gitignore")
//	// name == ".gitignore", ext == ".gitignore", ok == true
//
// # Reports
//
// Report is the immutable result of a run: one FileStats per file in
// traversal order plus a grand Totals pair whose unique count is computed
// over the combined content of every file.
//
//	for _, f := range report.Files {
//	    fmt.Printf("%s: %d/%d\n", f.Path, f.UniqueLineCount, f.LineCount)
//	}
//	fmt.Printf("total: %d/%d\n", report.Total.UniqueLineCount, report.Total.LineCount)
package types
