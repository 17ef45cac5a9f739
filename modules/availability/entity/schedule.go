package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MinutesPerDay is the number of minutes in a calendar day.
const MinutesPerDay = 24 * 60

// CalendarEvent is one timed entry from a participant's calendar, as
// supplied by the provider. Start and End are nil for all-day and other
// non-timed events. Response is the participant's own attendance response
// on the event; empty when the participant has no attendance record
// (e.g. they are the organizer).
type CalendarEvent struct {
	Summary  string     `json:"summary,omitempty"`
	Start    *time.Time `json:"start,omitempty"`
	End      *time.Time `json:"end,omitempty"`
	Response string     `json:"response,omitempty"`
}

// ResponseDeclined is the only attendance response that exempts an event
// from the busy computation. Accepted, tentative and no-response all
// count as busy.
const ResponseDeclined = "declined"

// BusyRecord is a single busy interval attributed to a participant.
type BusyRecord struct {
	Participant uuid.UUID `json:"participant"`
	Interval    Interval  `json:"interval"`
	Label       string    `json:"label,omitempty"`
}

// ParticipantBusy is one participant's classified busy intervals over the
// query range.
type ParticipantBusy struct {
	ID   uuid.UUID  `json:"id"`
	Busy []Interval `json:"busy"`
}

// ParticipantFailure records that one participant's busy data could not be
// fetched. The computation proceeds without their contribution; the caller
// sees the failure here.
type ParticipantFailure struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	Reason        string    `json:"reason"`
}

// WorkingWindow is the schedulable portion of a day, in minutes from
// midnight. 9:00-18:00 is {540, 1080}.
type WorkingWindow struct {
	StartMinutes int `json:"start_minutes"`
	EndMinutes   int `json:"end_minutes"`
}

// Validate checks 0 <= start < end <= 1440.
func (w WorkingWindow) Validate() error {
	if w.StartMinutes < 0 || w.EndMinutes > MinutesPerDay || w.StartMinutes >= w.EndMinutes {
		return fmt.Errorf("invalid working window %d-%d", w.StartMinutes, w.EndMinutes)
	}
	return nil
}

// StartAt returns the window start as an instant on the given day.
func (w WorkingWindow) StartAt(day time.Time) time.Time {
	return day.Add(time.Duration(w.StartMinutes) * time.Minute)
}

// EndAt returns the window end as an instant on the given day.
func (w WorkingWindow) EndAt(day time.Time) time.Time {
	return day.Add(time.Duration(w.EndMinutes) * time.Minute)
}

// MeetingConstraints describe the meeting being placed.
type MeetingConstraints struct {
	DurationMinutes     int `json:"duration_minutes"`
	BufferBeforeMinutes int `json:"buffer_before_minutes"`
	BufferAfterMinutes  int `json:"buffer_after_minutes"`
	GranularityMinutes  int `json:"granularity_minutes"`
}

// TotalNeededMinutes is the full span a candidate must keep clear:
// buffer before + meeting + buffer after.
func (c MeetingConstraints) TotalNeededMinutes() int {
	return c.BufferBeforeMinutes + c.DurationMinutes + c.BufferAfterMinutes
}

// HasBuffers reports whether either buffer is non-zero. With buffers the
// touching rule flips: a candidate may not even touch a busy interval.
func (c MeetingConstraints) HasBuffers() bool {
	return c.BufferBeforeMinutes > 0 || c.BufferAfterMinutes > 0
}

// Validate rejects constraint sets the engine cannot work with.
func (c MeetingConstraints) Validate() error {
	if c.DurationMinutes <= 0 {
		return fmt.Errorf("meeting duration must be positive, got %d", c.DurationMinutes)
	}
	if c.BufferBeforeMinutes < 0 || c.BufferAfterMinutes < 0 {
		return fmt.Errorf("buffers must be non-negative, got %d/%d", c.BufferBeforeMinutes, c.BufferAfterMinutes)
	}
	if c.GranularityMinutes <= 0 {
		return fmt.Errorf("slot granularity must be positive, got %d", c.GranularityMinutes)
	}
	return nil
}

// CandidateSlot is an accepted meeting placement. BufferWindow spans
// proposed start through buffer after; MeetingStart/MeetingEnd are the
// meeting proper.
type CandidateSlot struct {
	ProposedStart time.Time `json:"proposed_start"`
	MeetingStart  time.Time `json:"meeting_start"`
	MeetingEnd    time.Time `json:"meeting_end"`
	BufferWindow  Interval  `json:"buffer_window"`
}

// DaySlotResult holds the accepted slots of one day. Days with zero
// accepted slots are omitted from results entirely.
type DaySlotResult struct {
	Date  time.Time       `json:"date"`
	Slots []CandidateSlot `json:"slots"`
}

// DayFreeResult holds one day's raw free intervals (full-day pass, no
// working-hours clipping).
type DayFreeResult struct {
	Date time.Time  `json:"date"`
	Free []Interval `json:"free"`
}

// ComputeResult is the full output of a free-slot computation.
type ComputeResult struct {
	ByDay        []DaySlotResult `json:"by_day"`
	RawFreeByDay []DayFreeResult `json:"raw_free_by_day"`
}

// MergedDisplaySlot is a presentation-level contiguous range produced by
// the display merger.
type MergedDisplaySlot struct {
	Start         string `json:"start"`
	End           string `json:"end"`
	DurationLabel string `json:"duration_label"`
}
