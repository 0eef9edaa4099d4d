package cli

import (
	"fmt"

	"github.com/julianstephens/replan/internal/logger"
	"github.com/julianstephens/replan/internal/models"
	"github.com/julianstephens/replan/internal/utils"
)

type ActivityAddCmd struct {
	Name     string `arg:"" help:"Activity name."`
	Start    string `short:"s" help:"Start time (HH:MM)." required:""`
	Duration int    `short:"d" help:"Duration in minutes." required:""`
	Min      int    `help:"Minimum duration in minutes (defaults to the duration)." default:"-1"`
	Max      int    `help:"Maximum duration in minutes (defaults to the duration)." default:"-1"`
	Flexible bool   `short:"f" help:"Allow the duration to change."`
	Locked   bool   `short:"l" help:"Never move or resize this activity."`
	Priority int    `short:"p" help:"Change cost weight (0 or higher)." default:"0"`
}

func (c *ActivityAddCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}

	start, err := utils.ParseTimeToMinutes(c.Start)
	if err != nil {
		return err
	}
	a := models.Activity{
		Name:        c.Name,
		Start:       start,
		Duration:    c.Duration,
		MinDuration: c.Duration,
		MaxDuration: c.Duration,
		Flexible:    c.Flexible,
		Locked:      c.Locked,
		Priority:    c.Priority,
	}
	if c.Min >= 0 {
		a.MinDuration = c.Min
	}
	if c.Max >= 0 {
		a.MaxDuration = c.Max
	}
	if err := a.Check(); err != nil {
		return err
	}

	tt := sess.Get()
	if tt.IndexOf(a.Name) >= 0 {
		return fmt.Errorf("activity already exists: %s", a.Name)
	}
	tt = append(tt, a)
	tt.SortByStart()
	sess.Set(tt)
	if err := ctx.saveSession(sess); err != nil {
		return err
	}

	logger.Info("Activity added", "name", a.Name, "start", c.Start, "duration", a.Duration)
	ctx.printf("Added activity %q at %s (%s).\n", a.Name, utils.FormatMinutes(a.Start), utils.FormatDuration(a.Duration))
	return nil
}

type ActivityEditCmd struct {
	Target   string `arg:"" help:"Activity name or position (1-based)."`
	Name     string `help:"New name."`
	Start    string `short:"s" help:"New start time (HH:MM)."`
	Duration int    `short:"d" help:"New duration in minutes." default:"-1"`
	Min      int    `help:"New minimum duration." default:"-1"`
	Max      int    `help:"New maximum duration." default:"-1"`
	Flexible bool   `help:"Allow the duration to change." xor:"flex"`
	Fixed    bool   `help:"Keep the duration fixed." xor:"flex"`
	Lock     bool   `help:"Never move or resize this activity." xor:"lock"`
	Unlock   bool   `help:"Let the solver move this activity again." xor:"lock"`
	Priority int    `short:"p" help:"New change cost weight." default:"-1"`
}

func (c *ActivityEditCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}

	tt := sess.Get()
	i, err := resolveActivity(tt, c.Target)
	if err != nil {
		return err
	}
	a := tt[i]

	if c.Name != "" && c.Name != a.Name {
		if tt.IndexOf(c.Name) >= 0 {
			return fmt.Errorf("activity already exists: %s", c.Name)
		}
		a.Name = c.Name
	}
	if c.Start != "" {
		start, err := utils.ParseTimeToMinutes(c.Start)
		if err != nil {
			return err
		}
		a.Start = start
	}
	if c.Duration >= 0 {
		a.Duration = c.Duration
	}
	if c.Min >= 0 {
		a.MinDuration = c.Min
	}
	if c.Max >= 0 {
		a.MaxDuration = c.Max
	}
	switch {
	case c.Flexible:
		a.Flexible = true
	case c.Fixed:
		a.Flexible = false
	}
	switch {
	case c.Lock:
		a.Locked = true
	case c.Unlock:
		a.Locked = false
	}
	if c.Priority >= 0 {
		a.Priority = c.Priority
	}
	if err := a.Check(); err != nil {
		return err
	}

	if a == tt[i] {
		ctx.println("Nothing to change.")
		return nil
	}
	tt[i] = a
	tt.SortByStart()
	sess.Set(tt)
	if err := ctx.saveSession(sess); err != nil {
		return err
	}

	logger.Info("Activity edited", "name", a.Name)
	ctx.printf("Updated activity %q.\n", a.Name)
	return nil
}

type ActivityRemoveCmd struct {
	Target string `arg:"" help:"Activity name or position (1-based)."`
}

func (c *ActivityRemoveCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}

	tt := sess.Get()
	i, err := resolveActivity(tt, c.Target)
	if err != nil {
		return err
	}
	name := tt[i].Name
	tt = append(tt[:i], tt[i+1:]...)
	sess.Set(tt)
	if err := ctx.saveSession(sess); err != nil {
		return err
	}

	logger.Info("Activity removed", "name", name)
	ctx.printf("Removed activity %q.\n", name)
	return nil
}
