// Package propagation removes overlaps between adjacent activities with the
// smallest local adjustment: shrink a flexible neighbour first, then shift it.
// Locked activities are anchors and are never modified.
package propagation

import "github.com/julianstephens/replan/internal/models"

// Forward walks left to right. For each overlapping pair the right activity
// absorbs the overlap by trimming its head (its end stays put) down to its
// minimum duration, then any residual is removed by shifting it later. The last
// activity is finally trimmed to end by dayEnd when it is flexible.
func Forward(tt models.Timetable, dayEnd int) {
	if len(tt) == 0 {
		return
	}

	for i := 0; i < len(tt)-1; i++ {
		cur := &tt[i]
		next := &tt[i+1]

		overlap := cur.End() - next.Start
		if overlap <= 0 || next.Locked {
			continue
		}

		if next.Flexible {
			reduction := min(max(next.Duration-next.MinDuration, 0), overlap)
			next.Start += reduction
			next.Duration -= reduction
			overlap -= reduction
		}
		if overlap > 0 {
			next.Start += overlap
		}
	}

	last := &tt[len(tt)-1]
	if last.End() > dayEnd && last.Flexible && !last.Locked {
		last.Duration = max(last.MinDuration, dayEnd-last.Start)
	}
}

// Backward is the mirror pass, right to left. The left activity of each
// overlapping pair trims its tail down to its minimum duration, then shifts
// earlier. An activity pushed before dayStart is clamped to dayStart and
// stretched to reach the following activity's start.
func Backward(tt models.Timetable, dayStart int) {
	for i := len(tt) - 1; i > 0; i-- {
		cur := &tt[i]
		prev := &tt[i-1]

		overlap := prev.End() - cur.Start
		if overlap <= 0 || prev.Locked {
			continue
		}

		if prev.Flexible {
			reduction := min(max(prev.Duration-prev.MinDuration, 0), overlap)
			prev.Duration -= reduction
			overlap -= reduction
		}
		if overlap > 0 {
			prev.Start -= overlap
			if prev.Start < dayStart {
				prev.Start = dayStart
				prev.Duration = max(prev.MinDuration, cur.Start-dayStart)
			}
		}
	}
}

// All runs Forward then Backward.
func All(tt models.Timetable, bounds models.DayBounds) {
	Forward(tt, bounds.End)
	Backward(tt, bounds.Start)
}
