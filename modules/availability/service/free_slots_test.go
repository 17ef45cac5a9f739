package service

import (
	"testing"
	"time"

	"meetsync/modules/availability/entity"
)

func TestFreeIntervalsRaw(t *testing.T) {
	tests := []struct {
		name string
		busy []entity.Interval
		want []entity.Interval
	}{
		{
			name: "no busy yields full day",
			busy: nil,
			want: []entity.Interval{{Start: monday, End: monday.Add(24 * time.Hour)}},
		},
		{
			name: "gaps around two meetings",
			busy: []entity.Interval{iv(monday, 9, 0, 10, 0), iv(monday, 15, 0, 16, 0)},
			want: []entity.Interval{
				{Start: monday, End: at(monday, 9, 0)},
				iv(monday, 10, 0, 15, 0),
				{Start: at(monday, 16, 0), End: monday.Add(24 * time.Hour)},
			},
		},
		{
			name: "busy at day start",
			busy: []entity.Interval{{Start: monday, End: at(monday, 8, 0)}},
			want: []entity.Interval{{Start: at(monday, 8, 0), End: monday.Add(24 * time.Hour)}},
		},
		{
			name: "fully busy day",
			busy: []entity.Interval{{Start: monday, End: monday.Add(24 * time.Hour)}},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FreeIntervalsRaw(monday, tt.busy)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d intervals %v, want %d %v", len(got), got, len(tt.want), tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("interval %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// Free plus busy must cover the day exactly, with no overlap between any
// free interval and any busy interval.
func TestFreeIntervalsRawReconstructsDay(t *testing.T) {
	busy := MergeBusyForDay(monday, []entity.ParticipantBusy{{
		Busy: []entity.Interval{
			iv(monday, 0, 0, 7, 30),
			iv(monday, 9, 0, 10, 15),
			iv(monday, 10, 15, 11, 0),
			iv(monday, 13, 0, 17, 45),
			iv(monday, 22, 0, 24, 0),
		},
	}})
	free := FreeIntervalsRaw(monday, busy)

	var total time.Duration
	for _, f := range free {
		total += f.Duration()
	}
	for _, b := range busy {
		total += b.Duration()
	}
	if total != 24*time.Hour {
		t.Errorf("free+busy cover %v, want 24h", total)
	}

	for _, f := range free {
		for _, b := range busy {
			if f.Overlaps(b) {
				t.Errorf("free %v overlaps busy %v", f, b)
			}
		}
	}
}

func TestFreeIntervalsWithin(t *testing.T) {
	window := entity.WorkingWindow{StartMinutes: 9 * 60, EndMinutes: 18 * 60}

	tests := []struct {
		name string
		busy []entity.Interval
		want []entity.Interval
	}{
		{
			name: "no busy yields full window",
			busy: nil,
			want: []entity.Interval{iv(monday, 9, 0, 18, 0)},
		},
		{
			name: "busy outside window ignored",
			busy: []entity.Interval{iv(monday, 6, 0, 8, 0), iv(monday, 19, 0, 21, 0)},
			want: []entity.Interval{iv(monday, 9, 0, 18, 0)},
		},
		{
			name: "busy spanning window start",
			busy: []entity.Interval{iv(monday, 8, 0, 10, 0)},
			want: []entity.Interval{iv(monday, 10, 0, 18, 0)},
		},
		{
			name: "busy spanning window end",
			busy: []entity.Interval{iv(monday, 17, 0, 19, 0)},
			want: []entity.Interval{iv(monday, 9, 0, 17, 0)},
		},
		{
			name: "busy covering whole window",
			busy: []entity.Interval{iv(monday, 8, 0, 19, 0)},
			want: nil,
		},
		{
			name: "two meetings leave three gaps",
			busy: []entity.Interval{iv(monday, 10, 0, 11, 0), iv(monday, 14, 0, 15, 30)},
			want: []entity.Interval{
				iv(monday, 9, 0, 10, 0),
				iv(monday, 11, 0, 14, 0),
				iv(monday, 15, 30, 18, 0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FreeIntervalsWithin(monday, window, tt.busy)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d intervals %v, want %d %v", len(got), got, len(tt.want), tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("interval %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
