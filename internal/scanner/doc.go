// Package scanner runs the unique-line counting pipeline over a set of paths.
//
// # Basic Usage
//
//	sc := scanner.New(source.OSReader{})
//
//	result, err := sc.Scan([]string{"src", "README.md"}, &scanner.Config{
//	    IncludeHidden: false,
//	    Separator:     '/',
//	})
//	if errors.Is(err, types.ErrNoInputFiles) {
//	    // nothing readable was left; result.Errors says why
//	}
//
//	for _, f := range result.Report.Files {
//	    fmt.Printf("%s: %d/%d\n", f.Path, f.UniqueLineCount, f.LineCount)
//	}
//
// # Pipeline
//
// Scan runs four stages, single-threaded and in order:
//
//  1. Resolve: expand directories breadth-first into a file list
//  2. Acquire: read every file whole; empty files are dropped silently,
//     open and read failures are collected into Result.Errors
//  3. Count: extract trimmed lines per file, append them to the run's
//     LineSet and count the file's unique lines over its own range
//  4. Aggregate: count unique lines over the whole LineSet and build the
//     Report
//
// # Error Handling
//
// A file that cannot be opened or read never stops the run:
//
//	result, err := sc.Scan(paths, nil)
//	// err is nil even if some files failed
//	for _, fe := range result.Errors {
//	    log.Printf("%s: %s", fe.Path, fe.Reason())
//	}
//
// Scan returns an error only for an empty path argument, an invalid
// configuration, or when no file is left to count (types.ErrNoInputFiles).
// In the last case the returned Result still carries the collected errors.
//
// All file buffers stay resident until the Result is released, because
// the global unique count needs every line at once.
package scanner
