package ui

import "github.com/charmbracelet/lipgloss"

const (
	scrollbarThumbChar = "█"
	scrollbarTrackChar = "░"
)

// thumbBounds returns the first row and height of the scrollbar thumb.
// The thumb is proportional to the visible share of the content and is
// never shorter than one row.
func thumbBounds(total, viewport, offset int) (start, height int) {
	if total <= 0 || viewport <= 0 {
		return 0, 0
	}
	if total <= viewport {
		return 0, viewport
	}

	height = max(1, viewport*viewport/total)
	track := viewport - height
	maxOffset := total - viewport
	if track <= 0 || maxOffset <= 0 {
		return 0, height
	}

	start = track * offset / maxOffset
	start = max(0, min(start, viewport-height))
	return start, height
}

// scrollbarColumn returns one cell per viewport row. Content that fits
// gets a blank column.
func scrollbarColumn(total, viewport, offset int, track, thumb lipgloss.Style) []string {
	rows := make([]string, max(0, viewport))
	if total <= viewport {
		for i := range rows {
			rows[i] = " "
		}
		return rows
	}

	start, height := thumbBounds(total, viewport, offset)
	for i := range rows {
		if i >= start && i < start+height {
			rows[i] = thumb.Render(scrollbarThumbChar)
		} else {
			rows[i] = track.Render(scrollbarTrackChar)
		}
	}
	return rows
}
