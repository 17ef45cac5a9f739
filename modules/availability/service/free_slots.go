package service

import (
	"time"

	"meetsync/modules/availability/entity"
)

// FreeIntervalsRaw subtracts a day's merged busy timeline from the full
// day span (00:00-24:00) by walking the sorted timeline left to right and
// emitting the gaps. busy must already be merged for that day.
func FreeIntervalsRaw(day time.Time, busy []entity.Interval) []entity.Interval {
	dayStart := day
	dayEnd := day.Add(24 * time.Hour)
	return gapWalk(dayStart, dayEnd, busy)
}

// FreeIntervalsWithin is the working-hours variant: the walk is seeded at
// the window start and every emitted interval is clipped to the window.
func FreeIntervalsWithin(day time.Time, window entity.WorkingWindow, busy []entity.Interval) []entity.Interval {
	return gapWalk(window.StartAt(day), window.EndAt(day), busy)
}

// gapWalk emits the maximal sub-intervals of [from, until) not covered by
// any busy entry. busy is sorted and non-overlapping; entries outside the
// bounds only advance the cursor.
func gapWalk(from, until time.Time, busy []entity.Interval) []entity.Interval {
	if !from.Before(until) {
		return nil
	}

	var free []entity.Interval
	cursor := from

	for _, b := range busy {
		if !b.End.After(cursor) {
			continue
		}
		if !b.Start.Before(until) {
			break
		}
		if b.Start.After(cursor) {
			gap := entity.Interval{Start: cursor, End: b.Start}
			if clipped, ok := gap.Clip(entity.Interval{Start: from, End: until}); ok {
				free = append(free, clipped)
			}
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}

	if cursor.Before(until) {
		free = append(free, entity.Interval{Start: cursor, End: until})
	}

	return free
}
