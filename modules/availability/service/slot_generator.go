package service

import (
	"fmt"
	"time"

	"meetsync/modules/availability/entity"
)

// GenerateSlots enumerates the bookable meeting placements inside the
// given free intervals. Candidates start at granularity steps from each
// free interval's start; a candidate is accepted when its buffer-inclusive
// window does not collide with any entry of the day's merged busy
// timeline. The busy check is authoritative even though the free
// intervals were derived from the same timeline.
//
// Touching rule: with both buffers zero a candidate may share an endpoint
// with a busy interval (back-to-back booking); with any buffer the window
// must not even touch one.
//
// Panics on a non-positive granularity or duration; those are caller bugs,
// not data conditions.
func GenerateSlots(free []entity.Interval, busy []entity.Interval, c entity.MeetingConstraints) []entity.CandidateSlot {
	if c.GranularityMinutes <= 0 {
		panic(fmt.Sprintf("slot generator: granularity must be positive, got %d", c.GranularityMinutes))
	}
	if c.DurationMinutes <= 0 {
		panic(fmt.Sprintf("slot generator: duration must be positive, got %d", c.DurationMinutes))
	}

	totalNeeded := time.Duration(c.TotalNeededMinutes()) * time.Minute
	step := time.Duration(c.GranularityMinutes) * time.Minute
	bufferBefore := time.Duration(c.BufferBeforeMinutes) * time.Minute
	duration := time.Duration(c.DurationMinutes) * time.Minute

	var slots []entity.CandidateSlot
	for _, iv := range free {
		if iv.Duration() < totalNeeded {
			continue
		}

		lastStart := iv.End.Add(-totalNeeded)
		for proposed := iv.Start; !proposed.After(lastStart); proposed = proposed.Add(step) {
			window := entity.Interval{Start: proposed, End: proposed.Add(totalNeeded)}
			if collides(window, busy, c.HasBuffers()) {
				continue
			}

			meetingStart := proposed.Add(bufferBefore)
			slots = append(slots, entity.CandidateSlot{
				ProposedStart: proposed,
				MeetingStart:  meetingStart,
				MeetingEnd:    meetingStart.Add(duration),
				BufferWindow:  window,
			})
		}
	}

	return slots
}

// collides checks the buffer window against every busy entry. With
// buffers the test is closed: touching counts as a conflict.
func collides(window entity.Interval, busy []entity.Interval, buffered bool) bool {
	for _, b := range busy {
		if window.Overlaps(b) {
			return true
		}
		if buffered && window.Touches(b) {
			return true
		}
	}
	return false
}
