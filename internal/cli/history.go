package cli

import (
	"github.com/julianstephens/replan/internal/logger"
	"github.com/julianstephens/replan/internal/render"
)

type UndoCmd struct{}

func (c *UndoCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}
	if !sess.Undo() {
		ctx.println("Nothing to undo.")
		return nil
	}
	if err := ctx.saveSession(sess); err != nil {
		return err
	}
	ctx.println("Undone.")
	ctx.println(render.Table(sess.Get(), nil))
	return nil
}

type RedoCmd struct{}

func (c *RedoCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}
	if !sess.Redo() {
		ctx.println("Nothing to redo.")
		return nil
	}
	if err := ctx.saveSession(sess); err != nil {
		return err
	}
	ctx.println("Redone.")
	ctx.println(render.Table(sess.Get(), nil))
	return nil
}

type ResetCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

func (c *ResetCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}

	ok, err := confirm("Replace the current timetable with the default?", c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		ctx.println("Reset cancelled.")
		return nil
	}

	sess.ResetToDefault()
	if err := ctx.saveSession(sess); err != nil {
		return err
	}
	logger.Info("Timetable reset to default")
	ctx.println("Reset to default timetable.")
	return nil
}

type DefaultSetCmd struct{}

// Run makes the current timetable the default. History is kept.
func (c *DefaultSetCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}
	sess.SetDefault(sess.Get())
	if err := ctx.saveSession(sess); err != nil {
		return err
	}
	ctx.println("Default timetable updated.")
	return nil
}
