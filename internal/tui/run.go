package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/iliyamo/skate-pins/internal/board"
)

// Run starts the board in the terminal and blocks until the user quits or
// ctx is cancelled.  A nil store runs the board locally.
func Run(ctx context.Context, store board.Store, opts board.Options, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	layer := NewLayer()
	prompt := &Prompter{}
	ctrl := board.New(layer, store, prompt, logger, opts)
	defer ctrl.Close()
	ctrl.Init()

	p := tea.NewProgram(NewModel(ctx, ctrl, layer), tea.WithAltScreen(), tea.WithContext(ctx))
	// layer changes also come from background inserts; Send must not run
	// inside Update, so hand it off
	layer.SetNotify(func() { go p.Send(refreshMsg{}) })
	prompt.Bind(p.Send, ctx.Done())

	_, err := p.Run()
	cancel()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
