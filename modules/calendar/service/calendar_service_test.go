package service

import (
	"context"
	"errors"
	"testing"
	"time"

	availEntity "meetsync/modules/availability/entity"
	"meetsync/modules/calendar/entity"
	"meetsync/modules/calendar/repository"

	"github.com/google/uuid"
)

type fakeRepo struct {
	repository.CalendarRepository
	connections []entity.CalendarConnection
	batchErr    error
}

func (f *fakeRepo) GetConnectionsByParticipantIDs(_ context.Context, _ []uuid.UUID) ([]entity.CalendarConnection, error) {
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	return f.connections, nil
}

func testRange() availEntity.Interval {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return availEntity.Interval{Start: start, End: start.AddDate(0, 0, 7)}
}

func TestFetchBusyNoConnection(t *testing.T) {
	svc := NewCalendarService(&fakeRepo{}, nil, nil)

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	busy, failures := svc.FetchBusy(context.Background(), ids, testRange())

	if len(busy) != 0 {
		t.Errorf("busy = %v, want none", busy)
	}
	if len(failures) != len(ids) {
		t.Fatalf("failures = %d, want %d", len(failures), len(ids))
	}
	for i, f := range failures {
		if f.ParticipantID != ids[i] {
			t.Errorf("failure %d participant = %v, want %v", i, f.ParticipantID, ids[i])
		}
		if f.Reason != "no active calendar connection" {
			t.Errorf("failure %d reason = %q", i, f.Reason)
		}
	}
}

func TestFetchBusyRepositoryErrorFlagsEveryone(t *testing.T) {
	svc := NewCalendarService(&fakeRepo{batchErr: errors.New("db down")}, nil, nil)

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	busy, failures := svc.FetchBusy(context.Background(), ids, testRange())

	if busy != nil {
		t.Errorf("busy = %v, want nil", busy)
	}
	if len(failures) != len(ids) {
		t.Fatalf("failures = %d, want %d", len(failures), len(ids))
	}
	for _, f := range failures {
		if f.Reason != "connection lookup failed" {
			t.Errorf("reason = %q, want connection lookup failed", f.Reason)
		}
	}
}

func TestBusyCacheKeyIsRangeScoped(t *testing.T) {
	id := uuid.New()
	rng := testRange()

	a := busyCacheKey(id, rng)
	b := busyCacheKey(id, availEntity.Interval{Start: rng.Start, End: rng.End.Add(time.Hour)})
	if a == b {
		t.Error("different ranges produced the same cache key")
	}

	// Same instant in a different zone keys identically.
	shifted := availEntity.Interval{
		Start: rng.Start.In(time.FixedZone("UTC+7", 7*3600)),
		End:   rng.End.In(time.FixedZone("UTC+7", 7*3600)),
	}
	if busyCacheKey(id, rng) != busyCacheKey(id, shifted) {
		t.Error("zone representation changed the cache key")
	}
}

func TestParseEventTime(t *testing.T) {
	tests := []struct {
		name     string
		dateTime string
		date     string
		wantNil  bool
		want     time.Time
	}{
		{
			name:     "timed event",
			dateTime: "2026-03-02T09:00:00Z",
			want:     time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "all-day event",
			date: "2026-03-02",
			want: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "bad dateTime yields nil",
			dateTime: "yesterday",
			wantNil:  true,
		},
		{
			name:    "empty yields nil",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseEventTime(tt.dateTime, tt.date)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("got %v, want nil", got)
				}
				return
			}
			if got == nil || !got.Equal(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToCalendarEventCarriesSelfResponse(t *testing.T) {
	item := googleEventItem{Summary: "design review"}
	item.Start.DateTime = "2026-03-02T09:00:00Z"
	item.End.DateTime = "2026-03-02T10:00:00Z"
	item.Attendees = []struct {
		Self           bool   `json:"self"`
		ResponseStatus string `json:"responseStatus"`
	}{
		{Self: false, ResponseStatus: "accepted"},
		{Self: true, ResponseStatus: "declined"},
	}

	ev := toCalendarEvent(item)
	if ev.Response != "declined" {
		t.Errorf("response = %q, want the self attendee's %q", ev.Response, "declined")
	}
	if ev.Summary != "design review" {
		t.Errorf("summary = %q", ev.Summary)
	}
	if ev.Start == nil || ev.End == nil {
		t.Fatal("start/end not parsed")
	}
}
