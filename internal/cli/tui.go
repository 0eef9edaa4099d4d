package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/replan/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}
	bounds, err := ctx.bounds()
	if err != nil {
		return err
	}

	ctx.performAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(sess, ctx.searcher(), bounds, ctx.persist), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
