package cli

import (
	"fmt"

	"github.com/julianstephens/replan/internal/utils"
)

type RunsCmd struct {
	Limit int `short:"n" help:"Number of runs to show (0 for all)." default:"10"`
}

func (c *RunsCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	runs, err := ctx.Store.GetSolveRecords(c.Limit)
	if err != nil {
		return fmt.Errorf("failed to load solve runs: %w", err)
	}
	if len(runs) == 0 {
		ctx.println("No solve runs recorded.")
		return nil
	}

	for _, r := range runs {
		clock := "--:--"
		if r.Clock != nil {
			clock = utils.FormatMinutes(*r.Clock)
		}
		score := "-"
		if r.Score >= 0 {
			score = fmt.Sprintf("%d", r.Score)
		}
		truncated := ""
		if r.Truncated {
			truncated = " (truncated)"
		}
		ctx.printf("  %s  %s  clock %s  %-17s score %-5s %d candidates, %d evaluations%s\n",
			r.RanAt.Local().Format("2006-01-02 15:04:05"), shortID(r.ID), clock, r.Status, score,
			r.Candidates, r.Evaluations, truncated)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
