package cli

import "github.com/julianstephens/replan/internal/utils"

type ClockSetCmd struct {
	Time string `arg:"" help:"Current time (HH:MM, or 'now' for the wall clock)."`
}

func (c *ClockSetCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}
	minutes, err := ctx.parseClock(c.Time)
	if err != nil {
		return err
	}
	sess.SetClock(minutes)
	if err := ctx.saveSession(sess); err != nil {
		return err
	}
	ctx.printf("Clock set to %s.\n", utils.FormatMinutes(minutes))
	return nil
}

type ClockClearCmd struct{}

func (c *ClockClearCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}
	sess.ClearClock()
	if err := ctx.saveSession(sess); err != nil {
		return err
	}
	ctx.println("Clock cleared.")
	return nil
}

type ClockShowCmd struct{}

func (c *ClockShowCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}
	now, ok := sess.Clock()
	if !ok {
		ctx.println("Clock not set.")
		return nil
	}
	ctx.println(utils.FormatMinutes(now))
	return nil
}
