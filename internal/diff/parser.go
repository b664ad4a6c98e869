package diff

import "strings"

const fileBoundary = "diff --git "

// headerPrefixes are the line prefixes git emits between the file boundary
// and the first hunk. Outside a hunk they are matched before the +/- checks
// so that "--- a/x" and "+++ b/x" never count as removals or additions.
var headerPrefixes = []string{
	fileBoundary,
	"index ",
	"--- ",
	"+++ ",
	"Binary files ",
	"new file mode ",
	"deleted file mode ",
	"old mode ",
	"new mode ",
	"similarity index ",
	"dissimilarity index ",
	"rename from ",
	"rename to ",
	"copy from ",
	"copy to ",
}

// Parse splits raw unified diff output into per-file sections.
//
// Sections start at each "diff --git" line. The filename comes from the
// b/ side of that line and falls back to the raw line when it cannot be
// found. Any preamble before the first boundary becomes its own section.
func Parse(raw string) []FileDiff {
	if raw == "" {
		return nil
	}

	var (
		files   []FileDiff
		current []string
	)
	for _, line := range splitLines(raw) {
		if strings.HasPrefix(line, fileBoundary) && len(current) > 0 {
			files = append(files, buildFileDiff(current))
			current = current[:0]
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		files = append(files, buildFileDiff(current))
	}
	return files
}

// splitLines splits on newlines, drops the empty element after a trailing
// newline, and strips carriage returns.
func splitLines(raw string) []string {
	raw = strings.TrimSuffix(raw, "\n")
	lines := strings.Split(raw, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func buildFileDiff(raw []string) FileDiff {
	fd := FileDiff{
		Filename: extractFilename(raw[0]),
		Lines:    make([]Line, 0, len(raw)),
	}
	inHunk := false
	for _, text := range raw {
		var kind Kind
		if inHunk {
			kind = classifyBody(text)
		} else {
			kind = classify(text)
		}
		if kind == KindHunk {
			inHunk = true
		}
		switch kind {
		case KindAdded:
			fd.Added++
		case KindRemoved:
			fd.Removed++
		}
		fd.Lines = append(fd.Lines, NewLine(kind, text))
	}
	return fd
}

// classifyBody classifies a line after the first hunk header by its first
// byte only, so a body line such as "--- old" stays a removal.
func classifyBody(line string) Kind {
	switch {
	case strings.HasPrefix(line, "@@"):
		return KindHunk
	case strings.HasPrefix(line, "+"):
		return KindAdded
	case strings.HasPrefix(line, "-"):
		return KindRemoved
	default:
		return KindContext
	}
}

func classify(line string) Kind {
	for _, p := range headerPrefixes {
		if strings.HasPrefix(line, p) {
			return KindHeader
		}
	}
	return classifyBody(line)
}

// extractFilename pulls the path from "diff --git a/<old> b/<new>". The last
// " b/" is used so that old paths containing " b/" still resolve.
func extractFilename(header string) string {
	rest, ok := strings.CutPrefix(header, fileBoundary)
	if !ok {
		return header
	}
	if pos := strings.LastIndex(rest, " b/"); pos >= 0 {
		return rest[pos+len(" b/"):]
	}
	return header
}
