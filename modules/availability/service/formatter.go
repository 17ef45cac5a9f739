package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"meetsync/modules/availability/entity"
)

// DisplayMergeToleranceMinutes is the maximum gap between two displayed
// ranges that still merges them into one. The bound is inclusive: a gap of
// exactly 15 minutes merges.
const DisplayMergeToleranceMinutes = 15

// FormatSlotLabel renders a candidate's meeting span as "HH:MM-HH:MM".
func FormatSlotLabel(slot entity.CandidateSlot) string {
	return slot.MeetingStart.Format("15:04") + "-" + slot.MeetingEnd.Format("15:04")
}

// ParseRangeLabel parses "HH:MM-HH:MM" into start/end minutes of day.
func ParseRangeLabel(label string) (startMin, endMin int, err error) {
	parts := strings.SplitN(label, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid range label %q", label)
	}
	startMin, err = parseClock(parts[0])
	if err != nil {
		return 0, 0, err
	}
	endMin, err = parseClock(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return startMin, endMin, nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatClock(minuteOfDay int) string {
	return fmt.Sprintf("%02d:%02d", minuteOfDay/60, minuteOfDay%60)
}

// DurationLabel humanizes a minute count: "45m", "1h", "1h15m".
func DurationLabel(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%dm", h, m)
	}
}

// MergeDisplaySlots reduces a day's discrete range labels to contiguous
// displayed ranges. Labels starting within the tolerance of the current
// range's end extend it; a contained or out-of-order label never shrinks
// it. Unparseable labels are skipped. This is presentation-only and is
// independent of the buffer-aware acceptance test.
func MergeDisplaySlots(labels []string) []entity.MergedDisplaySlot {
	type span struct{ start, end int }

	spans := make([]span, 0, len(labels))
	for _, label := range labels {
		s, e, err := ParseRangeLabel(label)
		if err != nil || s >= e {
			continue
		}
		spans = append(spans, span{s, e})
	}
	if len(spans) == 0 {
		return nil
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end < spans[j].end
	})

	var out []entity.MergedDisplaySlot
	current := spans[0]
	flush := func() {
		out = append(out, entity.MergedDisplaySlot{
			Start:         formatClock(current.start),
			End:           formatClock(current.end),
			DurationLabel: DurationLabel(current.end - current.start),
		})
	}

	for _, next := range spans[1:] {
		if next.start-current.end <= DisplayMergeToleranceMinutes {
			if next.end > current.end {
				current.end = next.end
			}
		} else {
			flush()
			current = next
		}
	}
	flush()

	return out
}

// RenderDayExport serializes one day's merged slots as plain text for
// copy/export: a date header line, then one indented bullet per slot.
// The shape is a stable external contract; given the same merged slots
// the output is reproduced byte for byte.
func RenderDayExport(date time.Time, slots []entity.MergedDisplaySlot) string {
	var b strings.Builder
	b.WriteString(date.Format("2006-01-02"))
	b.WriteString(" (")
	b.WriteString(date.Weekday().String())
	b.WriteString(")\n")
	for _, s := range slots {
		b.WriteString("  - ")
		b.WriteString(s.Start)
		b.WriteString("-")
		b.WriteString(s.End)
		b.WriteString(" (")
		b.WriteString(s.DurationLabel)
		b.WriteString(")\n")
	}
	return b.String()
}
