// Package realtime freezes activities whose time window has already elapsed.
package realtime

import "github.com/julianstephens/replan/internal/models"

// IsLockedByTime reports whether the activity has ended at or before now.
func IsLockedByTime(a models.Activity, now int) bool {
	return a.End() <= now
}

// TimeLocks returns, per position, whether the activity has ended by now.
func TimeLocks(tt models.Timetable, now int) []bool {
	locks := make([]bool, len(tt))
	for i, a := range tt {
		locks[i] = IsLockedByTime(a, now)
	}
	return locks
}

// ApplyTimeLocks sets Locked on every activity that has ended by now and
// returns how many activities became locked by this call. Locks are never
// cleared, so repeated calls are safe.
func ApplyTimeLocks(tt models.Timetable, now int) int {
	newly := 0
	for i := range tt {
		if tt[i].Locked || !IsLockedByTime(tt[i], now) {
			continue
		}
		tt[i].Locked = true
		newly++
	}
	return newly
}

// MutableSubset returns copies of the activities that are neither time-locked
// nor explicitly locked, together with their positions in tt.
func MutableSubset(tt models.Timetable, now int) (models.Timetable, []int) {
	var (
		mutable models.Timetable
		indices []int
	)
	for i, a := range tt {
		if a.Locked || IsLockedByTime(a, now) {
			continue
		}
		mutable = append(mutable, a)
		indices = append(indices, i)
	}
	return mutable, indices
}
