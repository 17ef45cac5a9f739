package service

import (
	"time"

	"meetsync/core/logger"
	"meetsync/modules/availability/entity"

	"github.com/google/uuid"
)

// Weekend days are excluded from scheduling entirely. This is a policy
// constant, not user-configurable.
func isWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ClassifyBusy converts one participant's provider events into busy
// records. An event counts as busy unless it has no concrete start/end
// instants (all-day events carry no timed span) or the participant's own
// response on it is declined. No attendance record (organizer case) means
// busy. Degenerate intervals are dropped here and never surface as errors.
func ClassifyBusy(participant uuid.UUID, events []entity.CalendarEvent) []entity.BusyRecord {
	records := make([]entity.BusyRecord, 0, len(events))
	for _, ev := range events {
		if ev.Start == nil || ev.End == nil {
			continue
		}
		if ev.Response == entity.ResponseDeclined {
			continue
		}

		iv := entity.Interval{Start: *ev.Start, End: *ev.End}
		if !iv.IsValid() {
			logger.Warn("Aggregator:ClassifyBusy:DegenerateInterval",
				"participant", participant,
				"summary", ev.Summary,
				"start", ev.Start,
				"end", ev.End,
			)
			continue
		}

		records = append(records, entity.BusyRecord{
			Participant: participant,
			Interval:    iv,
			Label:       ev.Summary,
		})
	}
	return records
}

// BusyIntervals strips participant attribution from busy records.
func BusyIntervals(records []entity.BusyRecord) []entity.Interval {
	out := make([]entity.Interval, 0, len(records))
	for _, r := range records {
		out = append(out, r.Interval)
	}
	return out
}

// MergeBusyForDay builds one day's merged busy timeline across all
// participants: every busy interval intersecting the day span is clipped
// to it, then fused so that no two entries overlap or touch. The result
// is sorted ascending by start.
func MergeBusyForDay(day time.Time, participants []entity.ParticipantBusy) []entity.Interval {
	daySpan := entity.Interval{Start: day, End: day.Add(24 * time.Hour)}

	var collected []entity.Interval
	for _, p := range participants {
		for _, iv := range p.Busy {
			if clipped, ok := iv.Clip(daySpan); ok {
				collected = append(collected, clipped)
			}
		}
	}

	return entity.MergeIntervals(collected)
}

// SchedulableDays lists the midnight-aligned days covered by the query
// range, weekend days excluded, in ascending order. The range end is
// exclusive when it falls exactly on midnight.
func SchedulableDays(rangeStart, rangeEnd time.Time) []time.Time {
	if !rangeStart.Before(rangeEnd) {
		return nil
	}

	day := time.Date(rangeStart.Year(), rangeStart.Month(), rangeStart.Day(), 0, 0, 0, 0, rangeStart.Location())

	var days []time.Time
	for day.Before(rangeEnd) {
		if !isWeekend(day) {
			days = append(days, day)
		}
		day = day.AddDate(0, 0, 1)
	}
	return days
}
