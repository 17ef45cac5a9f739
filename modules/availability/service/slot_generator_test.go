package service

import (
	"testing"
	"time"

	"meetsync/modules/availability/entity"
)

func TestGenerateSlotsUnbuffered(t *testing.T) {
	// Back-to-back with busy neighbours is allowed when no buffers are set.
	busy := []entity.Interval{iv(monday, 9, 0, 10, 0), iv(monday, 11, 30, 12, 0)}
	free := []entity.Interval{iv(monday, 10, 0, 11, 30)}
	c := entity.MeetingConstraints{DurationMinutes: 60, GranularityMinutes: 30}

	slots := GenerateSlots(free, busy, c)
	if len(slots) != 2 {
		t.Fatalf("got %d slots %v, want 2", len(slots), slots)
	}

	wantStarts := []time.Time{at(monday, 10, 0), at(monday, 10, 30)}
	for i, slot := range slots {
		if !slot.ProposedStart.Equal(wantStarts[i]) {
			t.Errorf("slot %d proposed start = %v, want %v", i, slot.ProposedStart, wantStarts[i])
		}
		if !slot.MeetingStart.Equal(slot.ProposedStart) {
			t.Errorf("slot %d meeting start = %v, want proposed start %v", i, slot.MeetingStart, slot.ProposedStart)
		}
		if got := slot.MeetingEnd.Sub(slot.MeetingStart); got != time.Hour {
			t.Errorf("slot %d meeting length = %v, want 1h", i, got)
		}
	}
}

func TestGenerateSlotsBufferedRejectsTouching(t *testing.T) {
	// With buffers the window must clear busy endpoints entirely: the
	// 10:00 candidate touches the meeting ending at 10:00 and is rejected,
	// the 10:15 one is not.
	busy := []entity.Interval{iv(monday, 9, 0, 10, 0)}
	free := []entity.Interval{iv(monday, 10, 0, 12, 0)}
	c := entity.MeetingConstraints{
		DurationMinutes:     30,
		BufferBeforeMinutes: 15,
		BufferAfterMinutes:  15,
		GranularityMinutes:  15,
	}

	slots := GenerateSlots(free, busy, c)
	if len(slots) == 0 {
		t.Fatal("got no slots, want at least one")
	}
	if slots[0].ProposedStart.Equal(at(monday, 10, 0)) {
		t.Error("10:00 candidate accepted despite touching the 09:00-10:00 meeting")
	}
	if !slots[0].ProposedStart.Equal(at(monday, 10, 15)) {
		t.Errorf("first slot proposed start = %v, want 10:15", slots[0].ProposedStart)
	}

	first := slots[0]
	if !first.MeetingStart.Equal(at(monday, 10, 30)) {
		t.Errorf("meeting start = %v, want 10:30", first.MeetingStart)
	}
	if !first.MeetingEnd.Equal(at(monday, 11, 0)) {
		t.Errorf("meeting end = %v, want 11:00", first.MeetingEnd)
	}
	wantWindow := entity.Interval{Start: at(monday, 10, 15), End: at(monday, 11, 15)}
	if first.BufferWindow != wantWindow {
		t.Errorf("buffer window = %v, want %v", first.BufferWindow, wantWindow)
	}
}

func TestGenerateSlotsSameFreeTimeUnbufferedAccepts(t *testing.T) {
	// Control for the buffered case above: without buffers the 10:00
	// candidate is fine.
	busy := []entity.Interval{iv(monday, 9, 0, 10, 0)}
	free := []entity.Interval{iv(monday, 10, 0, 12, 0)}
	c := entity.MeetingConstraints{DurationMinutes: 30, GranularityMinutes: 15}

	slots := GenerateSlots(free, busy, c)
	if len(slots) == 0 || !slots[0].ProposedStart.Equal(at(monday, 10, 0)) {
		t.Fatalf("first slot = %v, want proposed start 10:00", slots)
	}
}

func TestGenerateSlotsExactFit(t *testing.T) {
	c := entity.MeetingConstraints{DurationMinutes: 60, GranularityMinutes: 30}

	slots := GenerateSlots([]entity.Interval{iv(monday, 10, 0, 11, 0)}, nil, c)
	if len(slots) != 1 {
		t.Fatalf("exact-fit interval: got %d slots, want 1", len(slots))
	}
	if !slots[0].ProposedStart.Equal(at(monday, 10, 0)) {
		t.Errorf("proposed start = %v, want 10:00", slots[0].ProposedStart)
	}

	slots = GenerateSlots([]entity.Interval{iv(monday, 10, 0, 10, 59)}, nil, c)
	if len(slots) != 0 {
		t.Fatalf("interval one minute short: got %d slots, want 0", len(slots))
	}
}

func TestGenerateSlotsSkipsShortIntervals(t *testing.T) {
	c := entity.MeetingConstraints{
		DurationMinutes:    45,
		BufferAfterMinutes: 30, // total needed 75
		GranularityMinutes: 15,
	}
	free := []entity.Interval{
		iv(monday, 9, 0, 10, 0),  // 60 min, too short
		iv(monday, 13, 0, 14, 15), // 75 min, exact fit
	}

	slots := GenerateSlots(free, nil, c)
	if len(slots) != 1 {
		t.Fatalf("got %d slots %v, want 1", len(slots), slots)
	}
	if !slots[0].ProposedStart.Equal(at(monday, 13, 0)) {
		t.Errorf("proposed start = %v, want 13:00", slots[0].ProposedStart)
	}
}

func TestGenerateSlotsPanicsOnBadConstraints(t *testing.T) {
	free := []entity.Interval{iv(monday, 9, 0, 18, 0)}

	tests := []struct {
		name string
		c    entity.MeetingConstraints
	}{
		{"zero granularity", entity.MeetingConstraints{DurationMinutes: 30}},
		{"negative granularity", entity.MeetingConstraints{DurationMinutes: 30, GranularityMinutes: -15}},
		{"zero duration", entity.MeetingConstraints{GranularityMinutes: 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic, got none")
				}
			}()
			GenerateSlots(free, nil, tt.c)
		})
	}
}

func TestGenerateSlotsFullWindowGrid(t *testing.T) {
	// Empty calendars: every granularity step of the window that still
	// fits the meeting is a slot, the last one at 17:30 for a 30-minute
	// meeting in a 09:00-18:00 window.
	free := []entity.Interval{iv(monday, 9, 0, 18, 0)}
	c := entity.MeetingConstraints{DurationMinutes: 30, GranularityMinutes: 15}

	slots := GenerateSlots(free, nil, c)
	if len(slots) != 35 {
		t.Fatalf("got %d slots, want 35", len(slots))
	}
	if !slots[0].ProposedStart.Equal(at(monday, 9, 0)) {
		t.Errorf("first slot = %v, want 09:00", slots[0].ProposedStart)
	}
	last := slots[len(slots)-1]
	if !last.ProposedStart.Equal(at(monday, 17, 30)) {
		t.Errorf("last slot = %v, want 17:30", last.ProposedStart)
	}

	// Accepted windows never exceed the free interval.
	for _, s := range slots {
		if s.BufferWindow.Start.Before(free[0].Start) || s.BufferWindow.End.After(free[0].End) {
			t.Errorf("slot window %v escapes the free interval", s.BufferWindow)
		}
	}
}
