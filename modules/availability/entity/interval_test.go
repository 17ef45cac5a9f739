package entity

import (
	"testing"
	"time"
)

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func iv(startH, startM, endH, endM int) Interval {
	return Interval{Start: at(startH, startM), End: at(endH, endM)}
}

func TestIntervalOverlapsAndTouches(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Interval
		overlaps bool
		touches  bool
	}{
		{"disjoint", iv(9, 0, 10, 0), iv(11, 0, 12, 0), false, false},
		{"overlapping", iv(9, 0, 10, 30), iv(10, 0, 11, 0), true, false},
		{"contained", iv(9, 0, 12, 0), iv(10, 0, 11, 0), true, false},
		{"touching at end", iv(9, 0, 10, 0), iv(10, 0, 11, 0), false, true},
		{"touching at start", iv(10, 0, 11, 0), iv(9, 0, 10, 0), false, true},
		{"identical", iv(9, 0, 10, 0), iv(9, 0, 10, 0), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.overlaps {
				t.Errorf("Overlaps = %v, want %v", got, tt.overlaps)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.overlaps {
				t.Errorf("Overlaps (reversed) = %v, want %v", got, tt.overlaps)
			}
			if got := tt.a.Touches(tt.b); got != tt.touches {
				t.Errorf("Touches = %v, want %v", got, tt.touches)
			}
		})
	}
}

func TestClip(t *testing.T) {
	bounds := iv(9, 0, 18, 0)

	tests := []struct {
		name   string
		in     Interval
		want   Interval
		wantOK bool
	}{
		{"inside", iv(10, 0, 11, 0), iv(10, 0, 11, 0), true},
		{"overhangs start", iv(8, 0, 10, 0), iv(9, 0, 10, 0), true},
		{"overhangs end", iv(17, 0, 19, 0), iv(17, 0, 18, 0), true},
		{"spans bounds", iv(8, 0, 19, 0), iv(9, 0, 18, 0), true},
		{"entirely before", iv(7, 0, 8, 0), Interval{}, false},
		{"touching before", iv(8, 0, 9, 0), Interval{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.in.Clip(bounds)
			if ok != tt.wantOK {
				t.Fatalf("Clip ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (got != tt.want) {
				t.Errorf("Clip = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeIntervals(t *testing.T) {
	tests := []struct {
		name string
		in   []Interval
		want []Interval
	}{
		{
			name: "empty",
			in:   nil,
			want: nil,
		},
		{
			name: "overlapping pair fuses",
			in:   []Interval{iv(9, 0, 10, 30), iv(10, 0, 11, 0)},
			want: []Interval{iv(9, 0, 11, 0)},
		},
		{
			name: "touching pair fuses",
			in:   []Interval{iv(9, 0, 10, 0), iv(10, 0, 11, 0)},
			want: []Interval{iv(9, 0, 11, 0)},
		},
		{
			name: "disjoint stay separate",
			in:   []Interval{iv(9, 0, 10, 0), iv(11, 0, 12, 0)},
			want: []Interval{iv(9, 0, 10, 0), iv(11, 0, 12, 0)},
		},
		{
			name: "unsorted input sorted",
			in:   []Interval{iv(14, 0, 15, 0), iv(9, 0, 10, 0), iv(9, 30, 11, 0)},
			want: []Interval{iv(9, 0, 11, 0), iv(14, 0, 15, 0)},
		},
		{
			name: "degenerate and inverted dropped",
			in:   []Interval{iv(9, 0, 9, 0), iv(12, 0, 11, 0), iv(10, 0, 10, 30)},
			want: []Interval{iv(10, 0, 10, 30)},
		},
		{
			name: "contained interval absorbed",
			in:   []Interval{iv(9, 0, 12, 0), iv(10, 0, 11, 0)},
			want: []Interval{iv(9, 0, 12, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeIntervals(tt.in)
			assertIntervals(t, got, tt.want)

			// Merging is idempotent: a merged timeline is its own merge.
			again := MergeIntervals(got)
			assertIntervals(t, again, tt.want)
		})
	}
}

func TestMergeIntervalsResultStrictlyOrdered(t *testing.T) {
	in := []Interval{
		iv(13, 0, 14, 0), iv(9, 0, 9, 45), iv(9, 45, 10, 15),
		iv(10, 0, 11, 0), iv(16, 0, 17, 0),
	}
	got := MergeIntervals(in)
	for i := 1; i < len(got); i++ {
		if !got[i-1].End.Before(got[i].Start) {
			t.Errorf("entries %d and %d not strictly separated: %v, %v", i-1, i, got[i-1], got[i])
		}
	}
}

func assertIntervals(t *testing.T, got, want []Interval) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d intervals %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("interval %d = %v, want %v", i, got[i], want[i])
		}
	}
}
