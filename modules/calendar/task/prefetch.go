package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"meetsync/core/constants"
	"meetsync/core/logger"
	availEntity "meetsync/modules/availability/entity"
	"meetsync/modules/calendar/service"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TypeBusyPrefetch warms the busy-interval cache for a participant set so
// a follow-up slot computation over the same range hits Redis instead of
// the provider.
const TypeBusyPrefetch = "calendar:busy_prefetch"

type BusyPrefetchPayload struct {
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
	RangeStart     time.Time   `json:"range_start"`
	RangeEnd       time.Time   `json:"range_end"`
}

// Enqueuer submits prefetch tasks to the queue.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueBusyPrefetch schedules a cache warm-up. Best effort for callers:
// they log the returned error and move on.
func (e *Enqueuer) EnqueueBusyPrefetch(participantIDs []uuid.UUID, rng availEntity.Interval) error {
	payload, err := json.Marshal(BusyPrefetchPayload{
		ParticipantIDs: participantIDs,
		RangeStart:     rng.Start,
		RangeEnd:       rng.End,
	})
	if err != nil {
		return fmt.Errorf("marshal prefetch payload: %w", err)
	}

	info, err := e.client.Enqueue(
		asynq.NewTask(TypeBusyPrefetch, payload),
		asynq.Queue(constants.QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("enqueue prefetch: %w", err)
	}

	logger.Debug("BusyPrefetch:Enqueued", "task_id", info.ID, "participants", len(participantIDs))
	return nil
}

// Handler processes prefetch tasks.
type Handler struct {
	calendarService service.CalendarService
}

func NewHandler(calendarService service.CalendarService) *Handler {
	return &Handler{calendarService: calendarService}
}

func (h *Handler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload BusyPrefetchPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal prefetch payload: %v: %w", err, asynq.SkipRetry)
	}
	if len(payload.ParticipantIDs) == 0 || !payload.RangeEnd.After(payload.RangeStart) {
		return fmt.Errorf("invalid prefetch payload: %w", asynq.SkipRetry)
	}

	rng := availEntity.Interval{Start: payload.RangeStart, End: payload.RangeEnd}
	if err := h.calendarService.RefreshBusy(ctx, payload.ParticipantIDs, rng); err != nil {
		logger.Warn("BusyPrefetch:Refresh", "error", err)
		return err
	}

	logger.Info("BusyPrefetch:Done", "participants", len(payload.ParticipantIDs))
	return nil
}
