package view

import "github.com/zjrosen/gitmon/internal/git"

// CommitLog is the commit list screen's data and cursor.
type CommitLog struct {
	Entries  []git.CommitInfo
	Selected int
}

// CommitLog returns the commit log state.
func (s *State) CommitLog() CommitLog { return s.log }

// OpenCommitLog switches to the commit log screen showing entries.
func (s *State) OpenCommitLog(entries []git.CommitInfo) {
	s.ClearSearch()
	s.log = CommitLog{Entries: entries}
	s.screen = ScreenCommitLog
}

// CloseCommitLog returns to the diff screen.
func (s *State) CloseCommitLog() {
	s.ClearSearch()
	s.screen = ScreenDiff
}

// SelectNext moves the cursor down one entry.
func (s *State) SelectNext() {
	if s.log.Selected < len(s.log.Entries)-1 {
		s.log.Selected++
	}
}

// SelectPrev moves the cursor up one entry.
func (s *State) SelectPrev() {
	if s.log.Selected > 0 {
		s.log.Selected--
	}
}

// SelectFirst moves the cursor to the newest commit.
func (s *State) SelectFirst() {
	s.log.Selected = 0
}

// SelectLast moves the cursor to the oldest listed commit.
func (s *State) SelectLast() {
	s.log.Selected = max(0, len(s.log.Entries)-1)
}

// SelectedCommit returns the entry under the cursor.
func (s *State) SelectedCommit() (git.CommitInfo, bool) {
	if s.log.Selected < 0 || s.log.Selected >= len(s.log.Entries) {
		return git.CommitInfo{}, false
	}
	return s.log.Entries[s.log.Selected], true
}

func commitSearchText(c git.CommitInfo) string {
	return c.ShortHash + " " + c.Subject + " " + c.Author
}
