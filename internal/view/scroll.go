package view

// ScrollDown moves down n lines.
func (s *State) ScrollDown(n int) {
	s.scroll += n
	s.clamp()
}

// ScrollUp moves up n lines.
func (s *State) ScrollUp(n int) {
	s.scroll -= n
	s.clamp()
}

// ScrollTop jumps to the first line.
func (s *State) ScrollTop() {
	s.scroll = 0
}

// ScrollBottom jumps so the last line sits at the bottom of the viewport.
func (s *State) ScrollBottom() {
	s.scroll = s.maxScroll()
}

// HalfPageDown scrolls down half a viewport.
func (s *State) HalfPageDown() { s.ScrollDown(s.halfPage()) }

// HalfPageUp scrolls up half a viewport.
func (s *State) HalfPageUp() { s.ScrollUp(s.halfPage()) }

// PageDown scrolls down a full viewport.
func (s *State) PageDown() { s.ScrollDown(max(1, s.viewport)) }

// PageUp scrolls up a full viewport.
func (s *State) PageUp() { s.ScrollUp(max(1, s.viewport)) }

func (s *State) halfPage() int {
	return max(1, s.viewport/2)
}

// ScrollTo sets scroll to line, clamped.
func (s *State) ScrollTo(line int) {
	s.scroll = line
	s.clamp()
}

// NextFile jumps to the first file header strictly below the scroll line.
func (s *State) NextFile() bool {
	for _, pos := range s.headers {
		if pos > s.scroll {
			s.ScrollTo(pos)
			return true
		}
	}
	return false
}

// PrevFile jumps to the last file header strictly above the scroll line.
func (s *State) PrevFile() bool {
	for i := len(s.headers) - 1; i >= 0; i-- {
		if s.headers[i] < s.scroll {
			s.ScrollTo(s.headers[i])
			return true
		}
	}
	return false
}
