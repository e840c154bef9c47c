package resolver

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Options controls directory expansion
type Options struct {
	IncludeHidden bool     // Keep discovered entries whose name starts with '.'
	Separator     byte     // Used when joining paths (default: os.PathSeparator)
	Exclude       []string // Doublestar patterns for discovered entries
	Lister        Lister   // Directory source (default: OSLister)
}

// Validate checks the separator and exclude patterns.
func (o *Options) Validate() error {
	if o.Separator != 0 && o.Separator != '/' && o.Separator != '\\' {
		return fmt.Errorf("invalid path separator %q", o.Separator)
	}
	for _, p := range o.Exclude {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclude pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}
	return nil
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.Separator == 0 {
		out.Separator = os.PathSeparator
	}
	if out.Lister == nil {
		out.Lister = OSLister{}
	}
	return out
}

// Resolve expands paths into files. Directories are never returned; every
// directory is expanded exactly once, breadth-first.
func Resolve(paths []string, opts Options) ([]string, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	o := opts.withDefaults()

	queue := make([]string, len(paths))
	copy(queue, paths)
	files := make([]string, 0, len(paths))

	for head := 0; head < len(queue); head++ {
		path := queue[head]

		entries, err := o.Lister.ReadDir(path)
		if err != nil {
			files = append(files, path)
			continue
		}

		queued := 0
		for _, e := range entries {
			if e.Name == "." || e.Name == ".." || e.Name == "" {
				continue
			}
			if !o.IncludeHidden && e.Name[0] == '.' {
				continue
			}
			child := Join(path, e.Name, o.Separator)
			if o.excluded(e.Name, child) {
				continue
			}
			queue = append(queue, child)
			queued++
		}

		slog.Debug("expanded directory", "path", path, "entries", len(entries), "queued", queued)
	}

	return files, nil
}

// Join appends name to dir with exactly one separator between them. No
// separator is added when dir already ends in '/' or '\'.
func Join(dir, name string, sep byte) string {
	if dir == "" {
		return name
	}
	var b strings.Builder
	b.Grow(len(dir) + len(name) + 1)
	b.WriteString(dir)
	if last := dir[len(dir)-1]; last != '/' && last != '\\' {
		b.WriteByte(sep)
	}
	b.WriteString(name)
	return b.String()
}

func (o *Options) excluded(name, path string) bool {
	slashed := strings.ReplaceAll(path, `\`, "/")
	for _, p := range o.Exclude {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, slashed); ok {
			return true
		}
	}
	return false
}
