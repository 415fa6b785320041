package tui

import (
	"context"

	"roomprog/internal/controller"
	"roomprog/internal/glyph"
	"roomprog/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// RoomFetcher loads the details shown in the room info panel.
type RoomFetcher interface {
	FetchRoom(ctx context.Context, roomID string) (model.Room, error)
}

type Options struct {
	Controller *controller.Controller
	Rooms      RoomFetcher
	Logger     *zap.Logger
	ProjectID  string
}

func Run(ctx context.Context, opts Options) error {
	applyThemePreference()
	applyColorProfilePreference()
	glyph.ApplyPreference()

	m := newAppModel(ctx, opts)
	defer m.detach()
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
