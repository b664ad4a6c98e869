package view

// CurrentFile returns the file owning the top visible line: the last header
// at or above scroll, or the first file when scroll is above every header.
func (s *State) CurrentFile() (string, bool) {
	if len(s.headers) == 0 {
		return "", false
	}
	idx := 0
	for i, pos := range s.headers {
		if pos > s.scroll {
			break
		}
		idx = i
	}
	return s.headerFiles[idx], true
}

// ToggleFold flips the fold state of the current file and keeps its header
// in view.
func (s *State) ToggleFold() bool {
	name, ok := s.CurrentFile()
	if !ok {
		return false
	}
	s.SetCollapsed(name, !s.IsCollapsed(name))
	if pos, found := s.headerPosition(name); found {
		s.ScrollTo(pos)
	}
	return true
}

// SetCollapsed folds or unfolds one file by name.
func (s *State) SetCollapsed(filename string, collapsed bool) {
	if collapsed {
		s.collapsed[filename] = struct{}{}
	} else {
		delete(s.collapsed, filename)
	}
	s.rebuild()
}

// FoldAll folds every file in the displayed diff.
func (s *State) FoldAll() {
	for _, f := range s.Files() {
		s.collapsed[f.Filename] = struct{}{}
	}
	s.rebuild()
}

// UnfoldAll clears the collapsed set.
func (s *State) UnfoldAll() {
	clear(s.collapsed)
	s.rebuild()
}

func (s *State) headerPosition(filename string) (int, bool) {
	for i, name := range s.headerFiles {
		if name == filename {
			return s.headers[i], true
		}
	}
	return 0, false
}
