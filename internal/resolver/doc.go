// Package resolver expands user-supplied paths into a flat list of files.
//
// Resolution is breadth-first over a FIFO queue seeded with the input
// paths. A path that opens as a directory is replaced by its entries, which
// are appended to the back of the queue; anything else (a regular file, a
// missing path, an unreadable directory) is emitted unchanged and left for
// the read step to judge.
//
//	files, err := resolver.Resolve([]string{"src", "main.go"}, resolver.Options{
//	    Separator: '/',
//	})
//
// # Filtering
//
// Entries discovered during enumeration whose name starts with '.' are
// skipped unless IncludeHidden is set. Exclude patterns use doublestar
// syntax and are matched against both the entry name and the joined path:
//
//	opts := resolver.Options{Exclude: []string{"vendor", "**/*.min.js"}}
//
// Paths given explicitly by the caller are never filtered.
//
// # Order
//
// Entries of one directory keep the enumeration order of the Lister. For
// the operating system lister that is directory order, which is not
// guaranteed to be alphabetical.
package resolver
