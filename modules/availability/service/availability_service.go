package service

import (
	"context"
	"fmt"
	"time"

	"meetsync/core/errors"
	"meetsync/core/logger"
	"meetsync/modules/availability/dto"
	"meetsync/modules/availability/entity"

	"github.com/google/uuid"
)

// BusyProvider supplies per-participant busy intervals for a time range.
// A provider failure for one participant must not fail the batch: the
// participant is simply absent from the returned set and listed in the
// failures.
type BusyProvider interface {
	FetchBusy(ctx context.Context, participantIDs []uuid.UUID, rng entity.Interval) ([]entity.ParticipantBusy, []entity.ParticipantFailure)
}

// PrefetchEnqueuer schedules a background warm-up of the busy cache for a
// participant set. Best effort; errors are logged, never surfaced.
type PrefetchEnqueuer interface {
	EnqueueBusyPrefetch(participantIDs []uuid.UUID, rng entity.Interval) error
}

// AvailabilityServiceInterface defines the service contract.
type AvailabilityServiceInterface interface {
	ValidateParams(params *dto.ScheduleParams) dto.ValidationResult
	ComputeSlots(ctx context.Context, req *dto.ComputeSlotsRequest) (*dto.ComputeSlotsResponse, *errors.AppError)
}

// AvailabilityService orchestrates fetch, computation and formatting.
type AvailabilityService struct {
	provider BusyProvider
	prefetch PrefetchEnqueuer
	now      func() time.Time
}

// NewAvailabilityService creates the service. prefetch may be nil.
func NewAvailabilityService(provider BusyProvider, prefetch PrefetchEnqueuer) AvailabilityServiceInterface {
	return &AvailabilityService{
		provider: provider,
		prefetch: prefetch,
		now:      time.Now,
	}
}

// Compute is the pure free-slot engine: given already-fetched busy data
// and strict constraints it produces, per schedulable day, the raw free
// intervals and the accepted candidate slots. Output depends only on the
// inputs; days with zero accepted slots are omitted from ByDay.
func Compute(
	participants []entity.ParticipantBusy,
	rangeStart, rangeEnd time.Time,
	window entity.WorkingWindow,
	constraints entity.MeetingConstraints,
) entity.ComputeResult {
	var result entity.ComputeResult

	for _, day := range SchedulableDays(rangeStart, rangeEnd) {
		mergedBusy := MergeBusyForDay(day, participants)

		result.RawFreeByDay = append(result.RawFreeByDay, entity.DayFreeResult{
			Date: day,
			Free: FreeIntervalsRaw(day, mergedBusy),
		})

		workingFree := FreeIntervalsWithin(day, window, mergedBusy)
		slots := GenerateSlots(workingFree, mergedBusy, constraints)
		if len(slots) > 0 {
			result.ByDay = append(result.ByDay, entity.DaySlotResult{
				Date:  day,
				Slots: slots,
			})
		}
	}

	return result
}

// ValidateParams runs the parameter validator. Callers surface the errors
// to the user; the computation is only attempted on a valid result.
func (s *AvailabilityService) ValidateParams(params *dto.ScheduleParams) dto.ValidationResult {
	return ValidateScheduleParams(params)
}

// ComputeSlots fetches busy data for the requested participants and runs
// the engine. A fetch failure for one participant does not abort the
// query: slots are computed from the participants that succeeded and the
// failures are flagged in the response.
func (s *AvailabilityService) ComputeSlots(ctx context.Context, req *dto.ComputeSlotsRequest) (*dto.ComputeSlotsResponse, *errors.AppError) {
	validation := ValidateScheduleParams(&req.Params)
	if !validation.Valid {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid scheduling parameters", nil)
	}

	var participantIDs []uuid.UUID
	for _, idStr := range req.ParticipantIDs {
		id, err := uuid.Parse(idStr)
		if err != nil {
			logger.Warn("AvailabilityService:ComputeSlots:InvalidParticipantID", "id", idStr)
			continue
		}
		participantIDs = append(participantIDs, id)
	}
	if len(participantIDs) == 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "No valid participant IDs in request", nil)
	}

	processed := ProcessScheduleParams(&req.Params, s.now())
	rng := entity.Interval{Start: processed.RangeStart, End: processed.RangeEnd}

	busyData, failures := s.provider.FetchBusy(ctx, participantIDs, rng)
	logger.Info("AvailabilityService:ComputeSlots:BusyFetched",
		"requested", len(participantIDs),
		"fetched", len(busyData),
		"failed", len(failures),
	)

	result := Compute(busyData, processed.RangeStart, processed.RangeEnd, processed.Window, processed.Constraints)

	response := &dto.ComputeSlotsResponse{
		Days:        make([]dto.DaySlotsDTO, 0, len(result.ByDay)),
		RawFreeDays: make([]dto.DayFreeDTO, 0, len(result.RawFreeByDay)),
		Warnings:    validation.Warnings,
	}

	for _, day := range result.ByDay {
		labels := make([]string, 0, len(day.Slots))
		for _, slot := range day.Slots {
			labels = append(labels, FormatSlotLabel(slot))
		}
		response.Days = append(response.Days, dto.ToDaySlotsDTO(day, labels, MergeDisplaySlots(labels)))
	}

	for _, day := range result.RawFreeByDay {
		response.RawFreeDays = append(response.RawFreeDays, dto.DayFreeDTO{
			Date: day.Date.Format("2006-01-02"),
			Free: day.Free,
		})
	}

	for _, f := range failures {
		response.FailedParticipants = append(response.FailedParticipants, dto.ParticipantFailureDTO{
			ParticipantID: f.ParticipantID.String(),
			Reason:        f.Reason,
		})
	}
	if len(failures) > 0 {
		response.Warnings = append(response.Warnings,
			fmt.Sprintf("%d participant(s) had unreadable calendars; results only reflect the participants that could be read", len(failures)))
	}

	if s.prefetch != nil {
		if err := s.prefetch.EnqueueBusyPrefetch(participantIDs, rng); err != nil {
			logger.Warn("AvailabilityService:ComputeSlots:PrefetchEnqueue", "error", err)
		}
	}

	return response, nil
}
