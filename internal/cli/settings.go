package cli

import (
	"fmt"

	"github.com/julianstephens/replan/internal/logger"
	"github.com/julianstephens/replan/internal/utils"
)

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	settings, err := ctx.settings()
	if err != nil {
		return err
	}
	ctx.printf("Day start: %s\n", settings.DayStart)
	ctx.printf("Day end:   %s\n", settings.DayEnd)
	ctx.printf("Timezone:  %s\n", settings.Timezone)
	return nil
}

type SettingsSetCmd struct {
	DayStart string `help:"Start of the day (HH:MM)."`
	DayEnd   string `help:"End of the day (HH:MM)."`
	Timezone string `help:"IANA timezone name, or 'Local'."`
}

func (c *SettingsSetCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	settings, err := ctx.settings()
	if err != nil {
		return err
	}

	if c.DayStart != "" {
		settings.DayStart = c.DayStart
	}
	if c.DayEnd != "" {
		settings.DayEnd = c.DayEnd
	}
	if c.Timezone != "" {
		if !utils.ValidateTimezone(c.Timezone) {
			return fmt.Errorf("invalid timezone: %s", c.Timezone)
		}
		settings.Timezone = c.Timezone
	}
	if _, err := utils.BoundsFromSettings(settings); err != nil {
		return fmt.Errorf("invalid day window: %w", err)
	}

	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	logger.Info("Settings updated", "day_start", settings.DayStart, "day_end", settings.DayEnd, "timezone", settings.Timezone)
	ctx.println("Settings updated.")
	return nil
}
