package util

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// PlaceOverlay draws fg over bg with its top-left corner at column x and
// row y. Styled content on either side of the overlay is preserved. The
// overlay is clamped to the background bounds.
func PlaceOverlay(x, y int, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	bgWidth := 0
	for _, l := range bgLines {
		bgWidth = max(bgWidth, ansi.StringWidth(l))
	}
	fgWidth := 0
	for _, l := range fgLines {
		fgWidth = max(fgWidth, ansi.StringWidth(l))
	}

	x = clamp(x, 0, max(0, bgWidth-fgWidth))
	y = clamp(y, 0, max(0, len(bgLines)-len(fgLines)))

	for i, fgLine := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bgLine := bgLines[row]
		if w := ansi.StringWidth(bgLine); w < x {
			bgLine += strings.Repeat(" ", x-w)
		}

		left := ansi.Truncate(bgLine, x, "")
		right := ansi.TruncateLeft(bgLine, x+ansi.StringWidth(fgLine), "")
		bgLines[row] = left + fgLine + "\x1b[0m" + right
	}
	return strings.Join(bgLines, "\n")
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
