package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/storage/sqlite"
	"github.com/julianstephens/habitgrid/internal/tui"
	"github.com/julianstephens/habitgrid/internal/watch"
)

type TuiCmd struct {
	NoWatch bool `help:"Do not reload when the database changes on disk."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	var changes <-chan watch.Change
	if _, ok := ctx.Store.(*sqlite.Store); ok && !c.NoWatch {
		w, err := watch.New(ctx.Store.GetConfigPath(), 0)
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			logger.Warn("Database watcher unavailable", "error", err)
		} else {
			defer w.Stop()
			changes = w.Changes
		}
	}

	p := tea.NewProgram(tui.NewModel(ctx.Store, tui.Options{
		Now:     ctx.Clock,
		Changes: changes,
	}), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}
