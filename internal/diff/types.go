// Package diff parses unified diff text into per-file sections.
package diff

// Kind classifies a diff line.
type Kind int

const (
	KindFileHeader Kind = iota // synthetic per-file header
	KindHeader                 // diff --git, index, ---, +++ and extended headers
	KindHunk                   // @@ -a,b +c,d @@
	KindAdded
	KindRemoved
	KindContext
)

func (k Kind) String() string {
	switch k {
	case KindFileHeader:
		return "file-header"
	case KindHeader:
		return "header"
	case KindHunk:
		return "hunk"
	case KindAdded:
		return "added"
	case KindRemoved:
		return "removed"
	case KindContext:
		return "context"
	default:
		return "unknown"
	}
}

// Line is a single classified diff line. Lines are values and never change
// after construction.
type Line struct {
	kind    Kind
	text    string
	added   int
	removed int
}

// NewLine returns a body line of the given kind. Use FileHeader for the
// synthetic header variant.
func NewLine(kind Kind, text string) Line {
	return Line{kind: kind, text: text}
}

// FileHeader returns the synthetic header line for a file section.
func FileHeader(filename string, added, removed int) Line {
	return Line{kind: KindFileHeader, text: filename, added: added, removed: removed}
}

// Kind returns the line's variant.
func (l Line) Kind() Kind { return l.kind }

// Text returns the raw line text, or the filename for a file header.
func (l Line) Text() string { return l.text }

// Counts returns the added/removed totals carried by a file header.
// Body lines report zero for both.
func (l Line) Counts() (added, removed int) { return l.added, l.removed }

// IsFileHeader reports whether the line is the synthetic per-file header.
func (l Line) IsFileHeader() bool { return l.kind == KindFileHeader }

// FileDiff is all diff content for one file within a single snapshot.
type FileDiff struct {
	Filename string
	Added    int
	Removed  int
	Lines    []Line
}

// Header returns the synthetic header line for this file.
func (f FileDiff) Header() Line {
	return FileHeader(f.Filename, f.Added, f.Removed)
}

// Filenames returns the filename of every section in order.
func Filenames(files []FileDiff) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Filename
	}
	return names
}
