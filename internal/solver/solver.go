// Package solver sequences time locking, candidate search, scoring and commit
// into a session, then notifies the presentation layer.
package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/replan/internal/logger"
	"github.com/julianstephens/replan/internal/models"
	"github.com/julianstephens/replan/internal/realtime"
	"github.com/julianstephens/replan/internal/scoring"
	"github.com/julianstephens/replan/internal/search"
	"github.com/julianstephens/replan/internal/state"
	"github.com/julianstephens/replan/internal/utils"
)

// Status is the terminal state of a solver run.
type Status string

const (
	StatusSolved          Status = "solved"
	StatusNothingToAdjust Status = "nothing_to_adjust"
	StatusNoSolution      Status = "no_solution"
	StatusTruncated       Status = "truncated"
)

// Message returns the user-facing description of the status.
func (s Status) Message() string {
	switch s {
	case StatusSolved:
		return "Timetable updated."
	case StatusNothingToAdjust:
		return "Nothing to adjust."
	case StatusNoSolution:
		return "No solution found."
	case StatusTruncated:
		return "Search truncated; best timetable found so far applied."
	default:
		return string(s)
	}
}

// Renderer receives the committed timetable after every run.
type Renderer interface {
	RenderSchedule(tt models.Timetable)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(tt models.Timetable)

func (f RendererFunc) RenderSchedule(tt models.Timetable) { f(tt) }

// SelectFunc picks the winning candidate.
type SelectFunc func(original models.Timetable, candidates []models.Timetable) scoring.Selection

// Outcome describes one completed run.
type Outcome struct {
	RunID       string
	Status      Status
	Committed   models.Timetable
	NewlyLocked int
	Candidates  int
	Evaluations int
	Truncated   bool
	BestScore   int // -1 when no candidate was scored
	Scores      []int
	Clock       *int
	Elapsed     time.Duration
}

// Record converts the outcome into an audit entry.
func (o Outcome) Record(ranAt time.Time) models.SolveRecord {
	return models.SolveRecord{
		ID:          o.RunID,
		RanAt:       ranAt,
		Status:      string(o.Status),
		Score:       o.BestScore,
		Candidates:  o.Candidates,
		Evaluations: o.Evaluations,
		Truncated:   o.Truncated,
		Clock:       o.Clock,
	}
}

// Solver runs the re-scheduling pipeline.
type Solver struct {
	searcher *search.Searcher
	renderer Renderer
	notify   bool
	selectFn SelectFunc
	newID    func() string
}

// Option configures a Solver.
type Option func(*Solver)

// WithSearcher replaces the default searcher.
func WithSearcher(s *search.Searcher) Option {
	return func(sv *Solver) { sv.searcher = s }
}

// WithRenderer sets the presentation collaborator.
func WithRenderer(r Renderer) Option {
	return func(sv *Solver) { sv.renderer = r }
}

// WithoutNotify disables the renderer callback.
func WithoutNotify() Option {
	return func(sv *Solver) { sv.notify = false }
}

// WithSelector replaces scoring.SelectBest.
func WithSelector(fn SelectFunc) Option {
	return func(sv *Solver) { sv.selectFn = fn }
}

// New creates a Solver with the default search grid and caps.
func New(opts ...Option) *Solver {
	sv := &Solver{
		searcher: search.New(search.DefaultConfig()),
		notify:   true,
		selectFn: scoring.SelectBest,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(sv)
	}
	return sv
}

// Solve re-plans the session's current timetable within bounds and commits the
// result. Every terminal status commits exactly once, so a single Undo reverts
// the run. An error is returned, with the session untouched, only for invalid
// bounds or a cancelled context.
func (sv *Solver) Solve(ctx context.Context, sess *state.Session, bounds models.DayBounds) (Outcome, error) {
	if err := bounds.Validate(); err != nil {
		return Outcome{}, err
	}

	began := time.Now()
	out := Outcome{RunID: sv.newID(), BestScore: -1}

	// Propagation walks neighbours in start order.
	original := sess.Get()
	original.SortByStart()
	now, hasClock := sess.Clock()
	if hasClock {
		out.Clock = &now
	}

	locked := original.Clone()
	if hasClock {
		out.NewlyLocked = realtime.ApplyTimeLocks(locked, now)
	}

	logger.Debug("Solve started", "run", out.RunID, "activities", len(original), "clock", clockString(out.Clock), "newly_locked", out.NewlyLocked)

	cutoff := -1 // nothing has ended while the clock is unset
	if hasClock {
		cutoff = now
	}
	if mutable, _ := realtime.MutableSubset(locked, cutoff); len(mutable) == 0 {
		out.Status = StatusNothingToAdjust
		out.BestScore = 0
		return sv.finish(sess, locked, out, began), nil
	}

	res, err := sv.searcher.Generate(ctx, locked, bounds)
	if err != nil {
		logger.Warn("Solve aborted", "run", out.RunID, "evaluations", res.Evaluations, "error", err)
		return Outcome{}, fmt.Errorf("search aborted: %w", err)
	}
	out.Candidates = len(res.Candidates)
	out.Evaluations = res.Evaluations
	out.Truncated = res.Truncated

	if len(res.Candidates) == 0 {
		out.Status = StatusNoSolution
		if res.Truncated {
			out.Status = StatusTruncated
		}
		return sv.finish(sess, locked, out, began), nil
	}

	sel := sv.selectFn(original, res.Candidates)
	out.BestScore = sel.BestScore
	out.Scores = make([]int, len(sel.All))
	for i, s := range sel.All {
		out.Scores[i] = s.Score
	}

	winner := sel.Best.Clone()
	if hasClock {
		realtime.ApplyTimeLocks(winner, now)
	}
	winner.SortByStart()

	out.Status = StatusSolved
	if res.Truncated {
		out.Status = StatusTruncated
	}
	return sv.finish(sess, winner, out, began), nil
}

func (sv *Solver) finish(sess *state.Session, tt models.Timetable, out Outcome, began time.Time) Outcome {
	sess.Set(tt)
	out.Committed = sess.Get()
	out.Elapsed = time.Since(began)

	logger.Info("Solve finished",
		"run", out.RunID,
		"status", out.Status,
		"candidates", out.Candidates,
		"evaluations", out.Evaluations,
		"score", out.BestScore,
		"truncated", out.Truncated,
		"elapsed", out.Elapsed,
	)

	if sv.notify && sv.renderer != nil {
		sv.renderer.RenderSchedule(out.Committed.Clone())
	}
	return out
}

func clockString(c *int) string {
	if c == nil {
		return "unset"
	}
	return utils.FormatMinutes(*c)
}
