package cli

import (
	"github.com/julianstephens/replan/internal/realtime"
	"github.com/julianstephens/replan/internal/render"
	"github.com/julianstephens/replan/internal/utils"
)

type ShowCmd struct {
	Default bool `help:"Show the default timetable instead of the current one."`
}

func (c *ShowCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}

	if c.Default {
		ctx.println(render.Table(sess.Default(), nil))
		return nil
	}

	// Highlight what differs from the default.
	ctx.println(render.Table(sess.Get(), sess.Default()))

	undo, redo := sess.HistoryDepth()
	clock := "unset"
	now, hasClock := sess.Clock()
	if hasClock {
		clock = utils.FormatMinutes(now)
	}
	ctx.printf("\nClock: %s | Undo: %d | Redo: %d\n", clock, undo, redo)

	if hasClock {
		tt := sess.Get()
		pending := 0
		for i, ended := range realtime.TimeLocks(tt, now) {
			if ended && !tt[i].Locked {
				pending++
			}
		}
		if pending > 0 {
			ctx.printf("%d activity(ies) have ended and will be locked by the next solve.\n", pending)
		}
	}
	return nil
}
