package service

import (
	"testing"

	"meetsync/modules/availability/entity"
)

func TestFormatSlotLabel(t *testing.T) {
	slot := entity.CandidateSlot{
		MeetingStart: at(monday, 9, 5),
		MeetingEnd:   at(monday, 10, 0),
	}
	if got := FormatSlotLabel(slot); got != "09:05-10:00" {
		t.Errorf("label = %q, want %q", got, "09:05-10:00")
	}
}

func TestParseRangeLabelRoundTrip(t *testing.T) {
	start, end, err := ParseRangeLabel("09:30-14:45")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start != 9*60+30 || end != 14*60+45 {
		t.Errorf("got %d-%d, want 570-885", start, end)
	}

	for _, bad := range []string{"", "0930-1445", "09:30", "9:xx-10:00"} {
		if _, _, err := ParseRangeLabel(bad); err == nil {
			t.Errorf("ParseRangeLabel(%q) = nil error, want error", bad)
		}
	}
}

func TestDurationLabel(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{45, "45m"},
		{60, "1h"},
		{75, "1h15m"},
		{120, "2h"},
		{135, "2h15m"},
		{5, "5m"},
	}
	for _, tt := range tests {
		if got := DurationLabel(tt.minutes); got != tt.want {
			t.Errorf("DurationLabel(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestMergeDisplaySlots(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   []entity.MergedDisplaySlot
	}{
		{
			name:   "adjacent ranges collapse",
			labels: []string{"10:00-10:30", "10:30-11:00"},
			want: []entity.MergedDisplaySlot{
				{Start: "10:00", End: "11:00", DurationLabel: "1h"},
			},
		},
		{
			name:   "gap of exactly fifteen minutes still merges",
			labels: []string{"10:00-10:15", "10:15-10:45", "11:00-11:15"},
			want: []entity.MergedDisplaySlot{
				{Start: "10:00", End: "11:15", DurationLabel: "1h15m"},
			},
		},
		{
			name:   "gap of sixteen minutes splits",
			labels: []string{"10:00-10:30", "10:46-11:16"},
			want: []entity.MergedDisplaySlot{
				{Start: "10:00", End: "10:30", DurationLabel: "30m"},
				{Start: "10:46", End: "11:16", DurationLabel: "30m"},
			},
		},
		{
			name:   "contained range never shrinks the result",
			labels: []string{"10:00-12:00", "10:30-11:00"},
			want: []entity.MergedDisplaySlot{
				{Start: "10:00", End: "12:00", DurationLabel: "2h"},
			},
		},
		{
			name:   "unsorted input",
			labels: []string{"14:00-14:30", "09:00-09:30", "09:30-10:00"},
			want: []entity.MergedDisplaySlot{
				{Start: "09:00", End: "10:00", DurationLabel: "1h"},
				{Start: "14:00", End: "14:30", DurationLabel: "30m"},
			},
		},
		{
			name:   "unparseable labels skipped",
			labels: []string{"garbage", "10:00-10:30"},
			want: []entity.MergedDisplaySlot{
				{Start: "10:00", End: "10:30", DurationLabel: "30m"},
			},
		},
		{
			name:   "nothing parseable",
			labels: []string{"nope"},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeDisplaySlots(tt.labels)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d merged slots %v, want %d %v", len(got), got, len(tt.want), tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("slot %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRenderDayExportByteStable(t *testing.T) {
	slots := []entity.MergedDisplaySlot{
		{Start: "09:00", End: "10:15", DurationLabel: "1h15m"},
		{Start: "14:00", End: "14:45", DurationLabel: "45m"},
	}
	want := "2026-03-02 (Monday)\n" +
		"  - 09:00-10:15 (1h15m)\n" +
		"  - 14:00-14:45 (45m)\n"

	got := RenderDayExport(monday, slots)
	if got != want {
		t.Errorf("export mismatch:\ngot:\n%q\nwant:\n%q", got, want)
	}

	// Same input, same bytes.
	if again := RenderDayExport(monday, slots); again != got {
		t.Error("repeated render differs")
	}
}

func TestRenderDayExportEmptyDay(t *testing.T) {
	want := "2026-03-02 (Monday)\n"
	if got := RenderDayExport(monday, nil); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
