package service

import (
	"fmt"
	"time"

	"meetsync/core/logger"
	"meetsync/modules/availability/dto"
	"meetsync/modules/availability/entity"
)

// Preset vocabularies are an external contract; internal components only
// ever see the decoded values below. Unknown labels fall back to the
// default preset rather than failing.

type PeriodPreset int

const (
	PeriodTwoWeeks PeriodPreset = iota
	PeriodWeek
	PeriodMonth
	PeriodCustom
)

type WindowPreset int

const (
	WindowOfficeHours WindowPreset = iota
	WindowMorning
	WindowAfternoon
	WindowAllDay
	WindowCustom
)

type DurationPreset int

const (
	DurationHalfHour DurationPreset = iota
	DurationQuarterHour
	DurationThreeQuarters
	DurationHour
	DurationTwoHours
	DurationCustom
)

// Engine defaults applied whenever a custom override cannot be used.
const (
	DefaultRangeDays          = 14
	DefaultWindowStartMinutes = 9 * 60
	DefaultWindowEndMinutes   = 18 * 60
	DefaultDurationMinutes    = 30
	DefaultGranularityMinutes = 15
)

// Soft limits: exceeding them warns, it does not fail.
const (
	maxReasonableBufferMinutes   = 120
	maxReasonableDurationMinutes = 480
	minReasonableWindowMinutes   = 15
)

// ProcessedParams are the strict inputs the engine consumes.
type ProcessedParams struct {
	RangeStart  time.Time
	RangeEnd    time.Time
	Window      entity.WorkingWindow
	Constraints entity.MeetingConstraints
}

func decodePeriod(label string) PeriodPreset {
	switch label {
	case "week":
		return PeriodWeek
	case "month":
		return PeriodMonth
	case "custom":
		return PeriodCustom
	default:
		return PeriodTwoWeeks
	}
}

func decodeWindow(label string) WindowPreset {
	switch label {
	case "morning":
		return WindowMorning
	case "afternoon":
		return WindowAfternoon
	case "all_day":
		return WindowAllDay
	case "custom":
		return WindowCustom
	default:
		return WindowOfficeHours
	}
}

func decodeDuration(label string) DurationPreset {
	switch label {
	case "15m":
		return DurationQuarterHour
	case "45m":
		return DurationThreeQuarters
	case "1h":
		return DurationHour
	case "2h":
		return DurationTwoHours
	case "custom":
		return DurationCustom
	default:
		return DurationHalfHour
	}
}

// ValidateScheduleParams checks the raw parameters and returns a
// structured result. It never rejects what Process can default away;
// only genuinely contradictory input produces errors.
func ValidateScheduleParams(p *dto.ScheduleParams) dto.ValidationResult {
	result := dto.ValidationResult{Valid: true}

	addError := func(format string, args ...any) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(format, args...))
	}
	addWarning := func(format string, args ...any) {
		result.Warnings = append(result.Warnings, fmt.Sprintf(format, args...))
	}

	if decodePeriod(p.Period) == PeriodCustom {
		if p.CustomStartDate == "" || p.CustomEndDate == "" {
			addError("custom period requires both custom_start_date and custom_end_date")
		} else {
			start, errS := time.Parse("2006-01-02", p.CustomStartDate)
			end, errE := time.Parse("2006-01-02", p.CustomEndDate)
			switch {
			case errS != nil:
				addError("custom_start_date %q is not a valid date", p.CustomStartDate)
			case errE != nil:
				addError("custom_end_date %q is not a valid date", p.CustomEndDate)
			case start.After(end):
				addError("custom_start_date must not be after custom_end_date")
			}
		}
	}

	if decodeWindow(p.TimeWindow) == WindowCustom {
		if p.CustomStartTime == "" || p.CustomEndTime == "" {
			addError("custom time window requires both custom_start_time and custom_end_time")
		} else {
			startMin, errS := parseClock(p.CustomStartTime)
			endMin, errE := parseClock(p.CustomEndTime)
			switch {
			case errS != nil:
				addError("custom_start_time %q is not a valid HH:MM time", p.CustomStartTime)
			case errE != nil:
				addError("custom_end_time %q is not a valid HH:MM time", p.CustomEndTime)
			case startMin >= endMin:
				// Compared at minute granularity: 09:30-09:00 and 09:00-09:00
				// are both errors even within the same hour.
				addError("custom time window start must be strictly before end")
			case endMin-startMin < minReasonableWindowMinutes:
				addWarning("working window shorter than %d minutes leaves little room for slots", minReasonableWindowMinutes)
			}
		}
	}

	if p.BufferBeforeMinutes < 0 {
		addError("buffer_before_minutes must not be negative")
	} else if p.BufferBeforeMinutes > maxReasonableBufferMinutes {
		addWarning("buffer_before_minutes above %d minutes is unusual", maxReasonableBufferMinutes)
	}
	if p.BufferAfterMinutes < 0 {
		addError("buffer_after_minutes must not be negative")
	} else if p.BufferAfterMinutes > maxReasonableBufferMinutes {
		addWarning("buffer_after_minutes above %d minutes is unusual", maxReasonableBufferMinutes)
	}

	if decodeDuration(p.Duration) == DurationCustom {
		if p.CustomDurationMinutes <= 0 {
			addError("custom_duration_minutes must be a positive integer")
		} else if p.CustomDurationMinutes > maxReasonableDurationMinutes {
			addWarning("custom_duration_minutes above %d minutes is unusual", maxReasonableDurationMinutes)
		}
	}

	return result
}

// ProcessScheduleParams turns raw parameters into strict engine inputs.
// It never fails: any field that cannot be used falls back to the
// documented defaults (09:00-18:00 window, 14-day range). User-facing
// rejection is the validator's job, run separately.
func ProcessScheduleParams(p *dto.ScheduleParams, now time.Time) ProcessedParams {
	out := ProcessedParams{
		Window: entity.WorkingWindow{
			StartMinutes: DefaultWindowStartMinutes,
			EndMinutes:   DefaultWindowEndMinutes,
		},
		Constraints: entity.MeetingConstraints{
			DurationMinutes:    DefaultDurationMinutes,
			GranularityMinutes: DefaultGranularityMinutes,
		},
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	out.RangeStart = today
	out.RangeEnd = today.AddDate(0, 0, DefaultRangeDays)

	switch decodePeriod(p.Period) {
	case PeriodWeek:
		out.RangeEnd = today.AddDate(0, 0, 7)
	case PeriodMonth:
		out.RangeEnd = today.AddDate(0, 0, 30)
	case PeriodCustom:
		start, errS := time.ParseInLocation("2006-01-02", p.CustomStartDate, now.Location())
		end, errE := time.ParseInLocation("2006-01-02", p.CustomEndDate, now.Location())
		if errS == nil && errE == nil && !start.After(end) {
			out.RangeStart = start
			// Custom end date is inclusive.
			out.RangeEnd = end.AddDate(0, 0, 1)
		} else {
			logger.Warn("ParamsProcessor:Process:CustomPeriodFallback",
				"start", p.CustomStartDate, "end", p.CustomEndDate)
		}
	}

	switch decodeWindow(p.TimeWindow) {
	case WindowMorning:
		out.Window = entity.WorkingWindow{StartMinutes: 9 * 60, EndMinutes: 12 * 60}
	case WindowAfternoon:
		out.Window = entity.WorkingWindow{StartMinutes: 13 * 60, EndMinutes: 18 * 60}
	case WindowAllDay:
		out.Window = entity.WorkingWindow{StartMinutes: 0, EndMinutes: entity.MinutesPerDay}
	case WindowCustom:
		startMin, errS := parseClock(p.CustomStartTime)
		endMin, errE := parseClock(p.CustomEndTime)
		if errS == nil && errE == nil && startMin < endMin {
			out.Window = entity.WorkingWindow{StartMinutes: startMin, EndMinutes: endMin}
		} else {
			logger.Warn("ParamsProcessor:Process:CustomWindowFallback",
				"start", p.CustomStartTime, "end", p.CustomEndTime)
		}
	}

	switch decodeDuration(p.Duration) {
	case DurationQuarterHour:
		out.Constraints.DurationMinutes = 15
	case DurationThreeQuarters:
		out.Constraints.DurationMinutes = 45
	case DurationHour:
		out.Constraints.DurationMinutes = 60
	case DurationTwoHours:
		out.Constraints.DurationMinutes = 120
	case DurationCustom:
		if p.CustomDurationMinutes > 0 {
			out.Constraints.DurationMinutes = p.CustomDurationMinutes
		}
	}

	if p.BufferBeforeMinutes > 0 {
		out.Constraints.BufferBeforeMinutes = p.BufferBeforeMinutes
	}
	if p.BufferAfterMinutes > 0 {
		out.Constraints.BufferAfterMinutes = p.BufferAfterMinutes
	}
	if p.GranularityMinutes > 0 {
		out.Constraints.GranularityMinutes = p.GranularityMinutes
	}

	return out
}
