// Package scoring ranks candidate timetables by how far they move from the
// original. Lower is better; an unchanged timetable scores 0.
package scoring

import (
	"github.com/julianstephens/replan/internal/constants"
	"github.com/julianstephens/replan/internal/models"
)

// Change records how one position moved between two timetables.
type Change struct {
	Index         int
	StartDelta    int // absolute
	DurationDelta int // absolute
	Priority      int
}

// Cost is the weighted displacement of a single change.
func (c Change) Cost() int {
	return (c.Priority + 1) * (c.StartDelta + c.DurationDelta)
}

// ComputeChanges lists every position whose start or duration differs.
// Positions missing from candidate are ignored.
func ComputeChanges(original, candidate models.Timetable) []Change {
	var changes []Change
	for i, o := range original {
		if i >= len(candidate) {
			break
		}
		c := candidate[i]
		startDelta := abs(c.Start - o.Start)
		durationDelta := abs(c.Duration - o.Duration)
		if startDelta == 0 && durationDelta == 0 {
			continue
		}
		changes = append(changes, Change{
			Index:         i,
			StartDelta:    startDelta,
			DurationDelta: durationDelta,
			Priority:      c.Priority,
		})
	}
	return changes
}

// Score sums (priority+1)·(|Δstart|+|Δduration|) over changed positions and
// adds a flat penalty per changed activity.
func Score(original, candidate models.Timetable) int {
	score := 0
	changes := ComputeChanges(original, candidate)
	for _, c := range changes {
		score += c.Cost()
	}
	return score + len(changes)*constants.ChangePenalty
}

// Scored pairs a candidate with its score.
type Scored struct {
	Candidate models.Timetable
	Score     int
}

// Selection is the outcome of SelectBest. BestIndex is -1 when there were no
// candidates.
type Selection struct {
	Best      models.Timetable
	BestIndex int
	BestScore int
	All       []Scored
}

// SelectBest scores every candidate and picks the lowest score. Ties go to the
// candidate enumerated first.
func SelectBest(original models.Timetable, candidates []models.Timetable) Selection {
	sel := Selection{BestIndex: -1, All: make([]Scored, 0, len(candidates))}
	for i, c := range candidates {
		s := Score(original, c)
		sel.All = append(sel.All, Scored{Candidate: c, Score: s})
		if sel.BestIndex == -1 || s < sel.BestScore {
			sel.Best = c
			sel.BestIndex = i
			sel.BestScore = s
		}
	}
	return sel
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
