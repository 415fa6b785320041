package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// renderInputLine draws a labeled text input as one visual line of bodyW columns.
func renderInputLine(bodyW int, label string, inputView string, focused bool) string {
	if bodyW < 10 {
		bodyW = 10
	}
	// A newline in the view would wrap and look like an inserted line.
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")

	labelSt := styleMuted()
	if focused {
		labelSt = lipgloss.NewStyle().Bold(true)
	}
	head := labelSt.Render(label)

	line := lipgloss.PlaceHorizontal(
		bodyW,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > bodyW {
		// Terminate styling so the background does not bleed.
		line = xansi.Cut(line, 0, bodyW) + "\x1b[0m"
	}
	return head + "\n" + line
}
