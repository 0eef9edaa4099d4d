// Package search enumerates candidate timetables by bounded backtracking over a
// quantized grid of starts and durations for every mutable activity.
//
// The enumeration is exhaustive and exponential in the number of mutable
// activities (up to 7x7 choices each with the default grid). MaxCandidates and
// MaxEvaluations bound the work; hitting either marks the result as truncated.
package search

import (
	"context"
	"errors"

	"github.com/julianstephens/replan/internal/constants"
	"github.com/julianstephens/replan/internal/models"
	"github.com/julianstephens/replan/internal/propagation"
	"github.com/julianstephens/replan/internal/validation"
)

// Config controls the candidate grid and the search caps.
type Config struct {
	MaxShift       int // minutes either side of the current value
	Step           int // grid spacing in minutes
	MaxCandidates  int // 0 disables the cap
	MaxEvaluations int // 0 disables the cap
}

// DefaultConfig returns the standard ±15 minute grid in 5 minute steps.
func DefaultConfig() Config {
	return Config{
		MaxShift:       constants.SearchMaxShift,
		Step:           constants.SearchStep,
		MaxCandidates:  constants.DefaultMaxCandidates,
		MaxEvaluations: constants.DefaultMaxEvaluations,
	}
}

// Result holds the candidates found, in enumeration order.
type Result struct {
	Candidates  []models.Timetable
	Evaluations int  // tentative assignments propagated and validated
	Truncated   bool // a cap stopped the enumeration early
}

// Searcher runs candidate searches with a fixed configuration.
type Searcher struct {
	cfg Config
}

// New creates a Searcher. Non-positive grid values fall back to the defaults.
func New(cfg Config) *Searcher {
	if cfg.Step <= 0 {
		cfg.Step = constants.SearchStep
	}
	if cfg.MaxShift < 0 {
		cfg.MaxShift = constants.SearchMaxShift
	}
	return &Searcher{cfg: cfg}
}

// Config returns the searcher's configuration.
func (s *Searcher) Config() Config {
	return s.cfg
}

var errStop = errors.New("search cap reached")

type run struct {
	cfg       Config
	ctx       context.Context
	bounds    models.DayBounds
	validator *validation.Validator
	baseline  models.Timetable
	work      models.Timetable
	result    Result
}

// Generate enumerates candidate timetables for tt. Only activities that are
// not Locked receive choices; locked ones are carried through unchanged and
// any candidate that would move them is pruned. tt is not modified.
//
// On cancellation the candidates gathered so far are returned together with
// the context's error.
func (s *Searcher) Generate(ctx context.Context, tt models.Timetable, bounds models.DayBounds) (Result, error) {
	r := &run{
		cfg:       s.cfg,
		ctx:       ctx,
		bounds:    bounds,
		validator: validation.New(bounds),
		baseline:  tt.Clone(),
		work:      tt.Clone(),
	}

	hasMutable := false
	for _, a := range r.work {
		if !a.Locked {
			hasMutable = true
			break
		}
	}
	if !hasMutable {
		// Nothing branches, so nothing would be validated on the way to the leaf.
		r.result.Evaluations = 1
		if r.validator.IsValid(r.baseline, r.work) {
			r.result.Candidates = append(r.result.Candidates, r.work.Clone())
		}
		return r.result, nil
	}

	err := r.backtrack(0)
	if errors.Is(err, errStop) {
		r.result.Truncated = true
		err = nil
	}
	return r.result, err
}

func (r *run) backtrack(index int) error {
	if index >= len(r.work) {
		r.result.Candidates = append(r.result.Candidates, r.work.Clone())
		if r.cfg.MaxCandidates > 0 && len(r.result.Candidates) >= r.cfg.MaxCandidates {
			return errStop
		}
		return nil
	}

	if r.work[index].Locked {
		return r.backtrack(index + 1)
	}

	saved := r.work.Clone()

	for _, d := range DurationCandidates(saved[index], r.cfg) {
		for _, start := range StartCandidates(saved[index].Start, d, r.bounds, r.cfg) {
			if err := r.ctx.Err(); err != nil {
				return err
			}
			if r.cfg.MaxEvaluations > 0 && r.result.Evaluations >= r.cfg.MaxEvaluations {
				return errStop
			}

			copy(r.work, saved)
			r.work[index].Duration = d
			r.work[index].Start = start

			propagation.All(r.work, r.bounds)
			r.result.Evaluations++

			if !r.validator.IsValid(r.baseline, r.work) {
				continue
			}
			if err := r.backtrack(index + 1); err != nil {
				return err
			}
		}
	}

	copy(r.work, saved)
	return nil
}

// DurationCandidates lists the durations to try for a: the current duration
// when inflexible, otherwise every grid offset within ±MaxShift clamped to
// [MinDuration, MaxDuration], ascending.
func DurationCandidates(a models.Activity, cfg Config) []int {
	if !a.Flexible {
		return []int{a.Duration}
	}
	return grid(a.Duration, a.MinDuration, a.MaxDuration, cfg)
}

// StartCandidates lists the starts to try for an activity currently at start
// with the given duration, clamped to [dayStart, dayEnd-duration], ascending.
func StartCandidates(start, duration int, bounds models.DayBounds, cfg Config) []int {
	return grid(start, bounds.Start, bounds.End-duration, cfg)
}

func grid(center, lo, hi int, cfg Config) []int {
	var values []int
	steps := cfg.MaxShift / cfg.Step
	for k := -steps; k <= steps; k++ {
		v := center + k*cfg.Step
		if v < lo || v > hi {
			continue
		}
		values = append(values, v)
	}
	return values
}
