package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/julianstephens/replan/internal/backup"
	"github.com/julianstephens/replan/internal/logger"
	"github.com/julianstephens/replan/internal/render"
	"github.com/julianstephens/replan/internal/solver"
	"github.com/julianstephens/replan/internal/storage"
	"github.com/julianstephens/replan/internal/utils"
)

type SolveCmd struct {
	Now      string `help:"Set the clock before solving (HH:MM, or 'now' for the wall clock)."`
	Quiet    bool   `short:"q" help:"Do not print the resulting timetable."`
	NoBackup bool   `help:"Skip the pre-solve database backup."`
}

func (c *SolveCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}
	bounds, err := ctx.bounds()
	if err != nil {
		return err
	}

	if c.Now != "" {
		minutes, err := ctx.parseClock(c.Now)
		if err != nil {
			return err
		}
		sess.SetClock(minutes)
	}

	if !c.NoBackup {
		ctx.performAutomaticBackup()
	}

	opts := []solver.Option{
		solver.WithSearcher(ctx.searcher()),
		solver.WithRenderer(render.NewWriter(ctx.out(), sess.Get())),
	}
	if c.Quiet {
		opts = append(opts, solver.WithoutNotify())
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out, err := solver.New(opts...).Solve(runCtx, sess, bounds)
	if err != nil {
		return fmt.Errorf("solve failed: %w", err)
	}
	if err := ctx.persist(sess, &out); err != nil {
		return err
	}

	ctx.println(out.Status.Message())
	ctx.printf("Run %s: %d candidate(s), %d evaluation(s)", out.RunID, out.Candidates, out.Evaluations)
	if out.BestScore >= 0 {
		ctx.printf(", score %d", out.BestScore)
	}
	if out.NewlyLocked > 0 {
		ctx.printf(", %d newly locked", out.NewlyLocked)
	}
	if out.Clock != nil {
		ctx.printf(", clock %s", utils.FormatMinutes(*out.Clock))
	}
	ctx.println()
	return nil
}

// performAutomaticBackup snapshots a SQLite database. Failures only warn.
func (c *Context) performAutomaticBackup() {
	if _, ok := c.Store.(*storage.SQLiteStore); !ok {
		return
	}
	path, err := backup.NewManager(c.Store.GetConfigPath()).CreateBackup()
	if err != nil {
		logger.Warn("Pre-solve backup failed", "error", err)
		return
	}
	logger.Debug("Pre-solve backup created", "path", path)
}
