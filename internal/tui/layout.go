package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

const (
	roomPaneMinW  = 24
	roomPaneMaxW  = 40
	chromeHeight  = 5 // header, tab bar, help, minibuffer, spacer
	paneBorderPad = 2
)

// paneWidths splits the terminal between the room tree and the content pane.
func paneWidths(total int) (left, right int) {
	left = total / 4
	if left < roomPaneMinW {
		left = roomPaneMinW
	}
	if left > roomPaneMaxW {
		left = roomPaneMaxW
	}
	right = total - left
	if right < 0 {
		right = 0
	}
	return left, right
}

// normalizePane forces s to be exactly width columns (ANSI-aware) and height
// lines, so JoinHorizontal keeps the panes aligned.
func normalizePane(s string, width, height int) string {
	width = max(width, 0)
	height = max(height, 0)

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i, ln := range lines {
		w := xansi.StringWidth(ln)
		if w > width {
			switch {
			case width <= 0:
				ln = ""
			case width == 1:
				ln = xansi.Cut(ln, 0, 1)
			default:
				ln = xansi.Truncate(ln, width-1, "") + "…"
			}
			w = xansi.StringWidth(ln)
		}
		if w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}

// window returns the [start, end) slice of n rows that keeps cursor visible
// in height rows.
func window(n, cursor, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := cursor - height/2
	start = max(start, 0)
	if start+height > n {
		start = n - height
	}
	return start, start + height
}
