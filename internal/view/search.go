package view

import (
	"strings"
	"unicode/utf8"
)

// Match is one occurrence of the query: a line index and a byte span
// [Start, End) within that line's text.
type Match struct {
	Line  int
	Start int
	End   int
}

// Search is the incremental search state.
type Search struct {
	Query   string
	Forward bool
	Matches []Match
	Current int
}

// Active reports whether the query currently matches anything.
func (s Search) Active() bool {
	return s.Query != "" && len(s.Matches) > 0
}

// Search returns a copy of the search state.
func (s *State) Search() Search { return s.search }

// CurrentMatch returns the match the cursor points at.
func (s *State) CurrentMatch() (Match, bool) {
	if !s.search.Active() {
		return Match{}, false
	}
	return s.search.Matches[s.search.Current], true
}

// EnterSearch switches to search mode with an empty query.
func (s *State) EnterSearch(forward bool) {
	s.mode = ModeSearch
	s.search = Search{Forward: forward}
}

// SearchPush appends r to the query and recomputes matches.
func (s *State) SearchPush(r rune) {
	s.search.Query += string(r)
	s.recomputeMatches()
}

// SearchPop deletes the last rune of the query.
func (s *State) SearchPop() {
	q := s.search.Query
	if q == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(q)
	s.search.Query = q[:len(q)-size]
	s.recomputeMatches()
}

// SearchConfirm leaves search mode and jumps to the nearest match in the
// search direction, wrapping around if none lies ahead. With no matches it
// leaves scroll untouched and reports false.
func (s *State) SearchConfirm() bool {
	s.mode = ModeNormal
	if !s.search.Active() {
		return false
	}

	matches := s.search.Matches
	if s.search.Forward {
		anchor := s.searchAnchorTop()
		s.search.Current = 0
		for i, m := range matches {
			if m.Line >= anchor {
				s.search.Current = i
				break
			}
		}
	} else {
		anchor := s.searchAnchorBottom()
		s.search.Current = len(matches) - 1
		for i := len(matches) - 1; i >= 0; i-- {
			if matches[i].Line <= anchor {
				s.search.Current = i
				break
			}
		}
	}
	s.jumpToCurrent()
	return true
}

// SearchNext moves to the next match in the search direction, wrapping.
func (s *State) SearchNext() bool {
	return s.stepMatch(s.search.Forward)
}

// SearchPrev moves to the next match against the search direction, wrapping.
func (s *State) SearchPrev() bool {
	return s.stepMatch(!s.search.Forward)
}

// ClearSearch drops the query and matches and returns to normal mode.
func (s *State) ClearSearch() {
	s.mode = ModeNormal
	s.search = Search{}
}

func (s *State) stepMatch(forward bool) bool {
	if !s.search.Active() {
		return false
	}
	n := len(s.search.Matches)
	if forward {
		s.search.Current = (s.search.Current + 1) % n
	} else {
		s.search.Current = (s.search.Current - 1 + n) % n
	}
	s.jumpToCurrent()
	return true
}

func (s *State) jumpToCurrent() {
	m := s.search.Matches[s.search.Current]
	if s.screen == ScreenCommitLog {
		s.log.Selected = m.Line
		return
	}
	s.ScrollTo(m.Line - s.leadIn)
}

func (s *State) searchAnchorTop() int {
	if s.screen == ScreenCommitLog {
		return s.log.Selected
	}
	return s.scroll
}

func (s *State) searchAnchorBottom() int {
	if s.screen == ScreenCommitLog {
		return s.log.Selected
	}
	return s.scroll + max(s.viewport, 1) - 1
}

// recomputeMatches rescans every searchable line for the query.
func (s *State) recomputeMatches() {
	if s.search.Query == "" {
		s.search.Matches = nil
		s.search.Current = 0
		return
	}

	var matches []Match
	for i, text := range s.searchTexts() {
		for _, span := range FindAll(text, s.search.Query) {
			matches = append(matches, Match{Line: i, Start: span[0], End: span[1]})
		}
	}
	s.search.Matches = matches
	s.search.Current = min(s.search.Current, max(0, len(matches)-1))
}

func (s *State) searchTexts() []string {
	if s.screen == ScreenCommitLog {
		texts := make([]string, len(s.log.Entries))
		for i, e := range s.log.Entries {
			texts[i] = commitSearchText(e)
		}
		return texts
	}
	texts := make([]string, len(s.visible))
	for i, l := range s.visible {
		texts[i] = l.Text()
	}
	return texts
}

// FindAll returns the byte spans of every non-overlapping case-insensitive
// occurrence of query in text. Spans index into text itself, so they stay
// valid even where case folding changes a rune's encoded width.
func FindAll(text, query string) [][2]int {
	qRunes := utf8.RuneCountInString(query)
	if qRunes == 0 {
		return nil
	}

	var spans [][2]int
	for start := 0; start < len(text); {
		end := start
		for n := 0; n < qRunes && end < len(text); n++ {
			_, size := utf8.DecodeRuneInString(text[end:])
			end += size
		}
		if utf8.RuneCountInString(text[start:end]) == qRunes && strings.EqualFold(text[start:end], query) {
			spans = append(spans, [2]int{start, end})
			start = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		start += size
	}
	return spans
}
