package cli

import (
	"fmt"
	"sort"

	"github.com/julianstephens/replan/internal/logger"
	"github.com/julianstephens/replan/internal/utils"
)

// resolveDate accepts YYYY-MM-DD or "today".
func (c *Context) resolveDate(date string) (string, error) {
	if date == "" || date == "today" {
		return c.today()
	}
	if err := utils.ValidateDate(date); err != nil {
		return "", err
	}
	return date, nil
}

type OverrideSetCmd struct {
	Date     string `arg:"" help:"Date (YYYY-MM-DD or 'today')."`
	Template string `arg:"" help:"Template to use on that date."`
}

func (c *OverrideSetCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}
	date, err := ctx.resolveDate(c.Date)
	if err != nil {
		return err
	}
	if _, ok := sess.Templates()[c.Template]; !ok {
		return fmt.Errorf("template not found: %s", c.Template)
	}

	sess.SetDayOverride(date, c.Template)
	if err := ctx.saveSession(sess); err != nil {
		return err
	}
	logger.Info("Day override set", "date", date, "template", c.Template)
	ctx.printf("%s will use template %q.\n", date, c.Template)
	return nil
}

type OverrideGetCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *OverrideGetCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}
	date, err := ctx.resolveDate(c.Date)
	if err != nil {
		return err
	}
	name, ok := sess.TemplateForDate(date)
	if !ok {
		ctx.printf("No override for %s.\n", date)
		return nil
	}
	ctx.printf("%s: %s\n", date, name)
	return nil
}

type OverrideClearCmd struct {
	Date string `arg:"" help:"Date (YYYY-MM-DD or 'today')."`
}

func (c *OverrideClearCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}
	date, err := ctx.resolveDate(c.Date)
	if err != nil {
		return err
	}
	if _, ok := sess.TemplateForDate(date); !ok {
		ctx.printf("No override for %s.\n", date)
		return nil
	}
	sess.ClearDayOverride(date)
	if err := ctx.saveSession(sess); err != nil {
		return err
	}
	ctx.printf("Cleared override for %s.\n", date)
	return nil
}

type OverrideListCmd struct{}

func (c *OverrideListCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}
	overrides := sess.DayOverrides()
	if len(overrides) == 0 {
		ctx.println("No day overrides.")
		return nil
	}
	dates := make([]string, 0, len(overrides))
	for date := range overrides {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	for _, date := range dates {
		ctx.printf("  %s  %s\n", date, overrides[date])
	}
	return nil
}

type OverrideApplyCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD or 'today')." default:"today"`
}

// Run loads the template chosen for the date into the current timetable.
func (c *OverrideApplyCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}
	date, err := ctx.resolveDate(c.Date)
	if err != nil {
		return err
	}
	name, ok := sess.TemplateForDate(date)
	if !ok {
		ctx.printf("No override for %s.\n", date)
		return nil
	}
	if !sess.LoadTemplate(name) {
		return fmt.Errorf("override for %s names a missing template: %s", date, name)
	}
	if err := ctx.saveSession(sess); err != nil {
		return err
	}
	logger.Info("Day override applied", "date", date, "template", name)
	ctx.printf("Loaded template %q for %s.\n", name, date)
	return nil
}
