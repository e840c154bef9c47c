package types

// SplitName derives the file name and extension of path.
//
// The name is everything after the last '/' or '\', on every platform. The
// extension runs from the last '.' within the name to the end and includes
// the dot; ok is false when the name has no '.'. A leading dot counts, so
// ".gitignore" is its own extension.
func SplitName(path string) (name, ext string, ok bool) {
	start := 0
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			start = i + 1
			break
		}
	}
	name = path[start:]

	for i := len(path) - 1; i >= start; i-- {
		if path[i] == '.' {
			return name, path[i:], true
		}
	}
	return name, "", false
}

func displayPath(path, name string, nameOnly bool) string {
	if nameOnly {
		return name
	}
	return path
}
