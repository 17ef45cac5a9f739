package dto

import (
	"time"

	"meetsync/modules/availability/entity"
)

// ===================== Request DTOs =====================

// ScheduleParams are the loosely-typed scheduling selections as sent by
// clients: preset labels plus optional custom overrides. Decoding to
// strict engine inputs happens once, in the parameter processor.
type ScheduleParams struct {
	Period          string `json:"period"`            // week | two_weeks | month | custom
	CustomStartDate string `json:"custom_start_date"` // YYYY-MM-DD
	CustomEndDate   string `json:"custom_end_date"`   // YYYY-MM-DD

	TimeWindow      string `json:"time_window"`       // office_hours | morning | afternoon | all_day | custom
	CustomStartTime string `json:"custom_start_time"` // HH:MM
	CustomEndTime   string `json:"custom_end_time"`   // HH:MM

	Duration              string `json:"duration"` // 15m | 30m | 45m | 1h | 2h | custom
	CustomDurationMinutes int    `json:"custom_duration_minutes"`

	BufferBeforeMinutes int `json:"buffer_before_minutes"`
	BufferAfterMinutes  int `json:"buffer_after_minutes"`
	GranularityMinutes  int `json:"granularity_minutes"`
}

// ComputeSlotsRequest asks for common free slots across participants.
type ComputeSlotsRequest struct {
	ParticipantIDs []string       `json:"participant_ids" validate:"required,min=1"`
	Params         ScheduleParams `json:"params"`
}

// ===================== Response DTOs =====================

// ValidationResult is the structured outcome of parameter validation.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// SlotDTO is one accepted meeting placement.
type SlotDTO struct {
	ProposedStart time.Time `json:"proposed_start"`
	MeetingStart  time.Time `json:"meeting_start"`
	MeetingEnd    time.Time `json:"meeting_end"`
	Label         string    `json:"label"` // "HH:MM-HH:MM" of the meeting span
}

// DaySlotsDTO groups a day's accepted slots with their display reduction.
type DaySlotsDTO struct {
	Date    string                     `json:"date"` // YYYY-MM-DD
	Weekday string                     `json:"weekday"`
	Slots   []SlotDTO                  `json:"slots"`
	Merged  []entity.MergedDisplaySlot `json:"merged"`
}

// DayFreeDTO is one day's raw free intervals (no working-hours clipping).
type DayFreeDTO struct {
	Date string            `json:"date"`
	Free []entity.Interval `json:"free"`
}

// ParticipantFailureDTO flags a participant whose busy data could not be
// fetched. Slots are still computed from the participants that succeeded.
type ParticipantFailureDTO struct {
	ParticipantID string `json:"participant_id"`
	Reason        string `json:"reason"`
}

// ComputeSlotsResponse is the full computation result.
type ComputeSlotsResponse struct {
	Days               []DaySlotsDTO           `json:"days"`
	RawFreeDays        []DayFreeDTO            `json:"raw_free_days"`
	FailedParticipants []ParticipantFailureDTO `json:"failed_participants,omitempty"`
	Warnings           []string                `json:"warnings,omitempty"`
}

// ===================== Mapper functions =====================

// ToDaySlotsDTO maps a day result plus its merged display slots.
func ToDaySlotsDTO(day entity.DaySlotResult, labels []string, merged []entity.MergedDisplaySlot) DaySlotsDTO {
	out := DaySlotsDTO{
		Date:    day.Date.Format("2006-01-02"),
		Weekday: day.Date.Weekday().String(),
		Slots:   make([]SlotDTO, 0, len(day.Slots)),
		Merged:  merged,
	}
	for i, slot := range day.Slots {
		dtoSlot := SlotDTO{
			ProposedStart: slot.ProposedStart,
			MeetingStart:  slot.MeetingStart,
			MeetingEnd:    slot.MeetingEnd,
		}
		if i < len(labels) {
			dtoSlot.Label = labels[i]
		}
		out.Slots = append(out.Slots, dtoSlot)
	}
	return out
}
