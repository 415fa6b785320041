package glyph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSort_FollowsActiveSet(t *testing.T) {
	defer Use(Unicode)

	require.Equal(t, " ▲", Sort("asc"))
	require.Equal(t, " ▼", Sort("desc"))

	Use(ASCII)
	require.Equal(t, " ^", Sort("asc"))
	require.Equal(t, " v", Sort("desc"))
	require.Equal(t, "", Sort("none"))
	require.Equal(t, " / ", Separator())
	require.Equal(t, "*", Current())
}

func TestApplyPreference(t *testing.T) {
	defer Use(Unicode)

	t.Setenv("ROOMPROG_TUI_GLYPHS", "ASCII")
	ApplyPreference()
	require.Equal(t, ASCII, active())

	t.Setenv("ROOMPROG_TUI_GLYPHS", "bogus")
	ApplyPreference()
	require.Equal(t, ASCII, active())

	t.Setenv("ROOMPROG_TUI_GLYPHS", "")
	ApplyPreference()
	require.Equal(t, Unicode, active())
}
