package tui

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"roomprog/internal/render"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Keyed by style + wrap width. WithAutoStyle can block on terminal queries,
	// so the style is fixed and renderers are reused.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(markdownStyleConfig(style)),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			mdRendererMu.Unlock()
			return md
		}
		mdRenderers[key] = rr
		r = rr
	}
	mdRendererMu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func markdownStyle() string {
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func markdownStyleConfig(styleName string) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig
	if styleName == "light" {
		cfg = styles.LightStyleConfig
	}
	text := mdColor(colorSurfaceFg, styleName)
	cfg.Text.Color = text
	cfg.Heading.Color = text
	cfg.H1.Color = text
	cfg.H2.Color = text
	cfg.H3.Color = text
	cfg.Strong.Color = nil
	cfg.Emph.Color = nil
	cfg.Code.Color = text
	cfg.BlockQuote.Faint = mdBoolPtr(false)
	return cfg
}

func mdColor(c lipgloss.AdaptiveColor, styleName string) *string {
	if styleName == "light" {
		return mdStrPtr(c.Light)
	}
	return mdStrPtr(c.Dark)
}

func mdStrPtr(s string) *string { return &s }
func mdBoolPtr(b bool) *bool    { return &b }

// historyMarkdown lays out a change log as a markdown table, newest entries as sent.
func historyMarkdown(hv render.HistoryView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", mdEscape(hv.Title))
	if hv.NoHistory {
		b.WriteString("_No history._\n")
		return b.String()
	}
	b.WriteString("| When | User | Action | Details |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, e := range hv.Entries {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", mdEscape(e.When), mdEscape(e.User), mdEscape(e.Action), mdEscape(e.Details))
	}
	return b.String()
}

var mdEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", " ")

func mdEscape(s string) string {
	s = mdEscaper.Replace(strings.TrimSpace(s))
	if s == "" {
		return "-"
	}
	return s
}
