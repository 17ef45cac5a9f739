package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"meetsync/core/cache"
	"meetsync/core/config"
	"meetsync/core/constants"
	"meetsync/core/errors"
	"meetsync/core/logger"
	availEntity "meetsync/modules/availability/entity"
	availService "meetsync/modules/availability/service"
	"meetsync/modules/calendar/dto"
	"meetsync/modules/calendar/entity"
	"meetsync/modules/calendar/repository"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleCalendarAPIBase = "https://www.googleapis.com/calendar/v3"
	googleFreeBusyAPI     = googleCalendarAPIBase + "/freeBusy"
	googleEventsAPI       = googleCalendarAPIBase + "/calendars/primary/events"

	googleEventsPageSize = 2500
)

type CalendarService interface {
	// Connection management
	SaveGoogleConnection(ctx context.Context, participantID uuid.UUID, req *dto.ConnectCalendarRequest) (*dto.CalendarConnectionResponse, *errors.AppError)
	GetConnections(ctx context.Context, participantID uuid.UUID) (*dto.CalendarConnectionListResponse, *errors.AppError)
	DisconnectCalendar(ctx context.Context, participantID uuid.UUID, provider string) *errors.AppError

	// Busy lookup for the HTTP surface.
	GetBusy(ctx context.Context, req *dto.BusyLookupRequest) (*dto.BusyLookupResponse, *errors.AppError)

	// FetchBusy satisfies the availability engine's provider contract.
	FetchBusy(ctx context.Context, participantIDs []uuid.UUID, rng availEntity.Interval) ([]availEntity.ParticipantBusy, []availEntity.ParticipantFailure)

	// RefreshBusy re-reads provider data and rewrites the cache entries,
	// ignoring any cached values. Used by the background prefetch task.
	RefreshBusy(ctx context.Context, participantIDs []uuid.UUID, rng availEntity.Interval) error
}

type calendarService struct {
	repo   repository.CalendarRepository
	cache  *cache.Cache
	cipher *TokenCipher
	client *http.Client
}

func NewCalendarService(repo repository.CalendarRepository, c *cache.Cache, cipher *TokenCipher) CalendarService {
	return &calendarService{
		repo:   repo,
		cache:  c,
		cipher: cipher,
		client: &http.Client{Timeout: constants.DefaultRequestTimeout},
	}
}

// SaveGoogleConnection stores OAuth tokens for a participant, encrypted.
func (s *calendarService) SaveGoogleConnection(ctx context.Context, participantID uuid.UUID, req *dto.ConnectCalendarRequest) (*dto.CalendarConnectionResponse, *errors.AppError) {
	expiresAt, err := time.Parse(time.RFC3339, req.TokenExpiresAt)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "token_expires_at must be RFC3339", err)
	}

	encAccess, err := s.cipher.Encrypt(req.AccessToken)
	if err != nil {
		logger.Error("CalendarService:SaveGoogleConnection:EncryptAccess", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to store connection", err)
	}
	encRefresh, err := s.cipher.Encrypt(req.RefreshToken)
	if err != nil {
		logger.Error("CalendarService:SaveGoogleConnection:EncryptRefresh", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to store connection", err)
	}

	conn := &entity.CalendarConnection{
		ParticipantID:  participantID,
		Provider:       dto.ProviderGoogle,
		AccessToken:    encAccess,
		RefreshToken:   encRefresh,
		TokenExpiresAt: expiresAt,
		CalendarEmail:  req.CalendarEmail,
		IsActive:       true,
	}
	saved, err := s.repo.CreateConnection(ctx, conn)
	if err != nil {
		logger.Error("CalendarService:SaveGoogleConnection:Create", "participant_id", participantID, "error", err)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to save calendar connection", err)
	}

	logger.Info("CalendarService:SaveGoogleConnection:Saved", "participant_id", participantID, "email", req.CalendarEmail)
	return &dto.CalendarConnectionResponse{
		ID:            saved.ID.String(),
		Provider:      saved.Provider,
		CalendarEmail: saved.CalendarEmail,
		IsActive:      saved.IsActive,
		ConnectedAt:   saved.CreatedAt.Format(time.RFC3339),
	}, nil
}

// GetConnections lists a participant's active connections.
func (s *calendarService) GetConnections(ctx context.Context, participantID uuid.UUID) (*dto.CalendarConnectionListResponse, *errors.AppError) {
	connections, err := s.repo.GetConnectionsByParticipantID(ctx, participantID)
	if err != nil {
		logger.Error("CalendarService:GetConnections", "participant_id", participantID, "error", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list calendar connections", err)
	}

	resp := &dto.CalendarConnectionListResponse{Connections: []dto.CalendarConnectionResponse{}}
	for _, conn := range connections {
		resp.Connections = append(resp.Connections, dto.CalendarConnectionResponse{
			ID:            conn.ID.String(),
			Provider:      conn.Provider,
			CalendarEmail: conn.CalendarEmail,
			IsActive:      conn.IsActive,
			ConnectedAt:   conn.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp, nil
}

// DisconnectCalendar deactivates a connection.
func (s *calendarService) DisconnectCalendar(ctx context.Context, participantID uuid.UUID, provider string) *errors.AppError {
	if err := s.repo.DeactivateConnection(ctx, participantID, provider); err != nil {
		logger.Error("CalendarService:DisconnectCalendar", "participant_id", participantID, "provider", provider, "error", err)
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to disconnect calendar", err)
	}
	return nil
}

// GetBusy resolves busy intervals for the HTTP surface.
func (s *calendarService) GetBusy(ctx context.Context, req *dto.BusyLookupRequest) (*dto.BusyLookupResponse, *errors.AppError) {
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "start_time must be RFC3339", err)
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "end_time must be RFC3339", err)
	}
	if !end.After(start) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "end_time must be after start_time", nil)
	}

	var ids []uuid.UUID
	for _, raw := range req.ParticipantIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("invalid participant id: %s", raw), err)
		}
		ids = append(ids, id)
	}

	busy, failures := s.FetchBusy(ctx, ids, availEntity.Interval{Start: start, End: end})

	resp := &dto.BusyLookupResponse{Participants: []dto.ParticipantBusyDTO{}}
	for _, pb := range busy {
		out := dto.ParticipantBusyDTO{ParticipantID: pb.ID.String(), Busy: []dto.TimeSlot{}}
		for _, iv := range pb.Busy {
			out.Busy = append(out.Busy, dto.TimeSlot{
				Start: iv.Start.Format(time.RFC3339),
				End:   iv.End.Format(time.RFC3339),
			})
		}
		resp.Participants = append(resp.Participants, out)
	}
	for _, f := range failures {
		resp.Failed = append(resp.Failed, dto.FailedParticipant{
			ParticipantID: f.ParticipantID.String(),
			Reason:        f.Reason,
		})
	}
	return resp, nil
}

// FetchBusy returns classified busy intervals per participant. A failure
// for one participant never fails the batch: the participant lands in the
// failures slice instead.
func (s *calendarService) FetchBusy(ctx context.Context, participantIDs []uuid.UUID, rng availEntity.Interval) ([]availEntity.ParticipantBusy, []availEntity.ParticipantFailure) {
	connections, err := s.repo.GetConnectionsByParticipantIDs(ctx, participantIDs)
	if err != nil {
		logger.Error("CalendarService:FetchBusy:LoadConnections", "error", err)
		failures := make([]availEntity.ParticipantFailure, 0, len(participantIDs))
		for _, id := range participantIDs {
			failures = append(failures, availEntity.ParticipantFailure{ParticipantID: id, Reason: "connection lookup failed"})
		}
		return nil, failures
	}

	connByParticipant := make(map[uuid.UUID]*entity.CalendarConnection, len(connections))
	for i := range connections {
		connByParticipant[connections[i].ParticipantID] = &connections[i]
	}

	var result []availEntity.ParticipantBusy
	var failures []availEntity.ParticipantFailure
	for _, id := range participantIDs {
		if cached, ok := s.cachedBusy(ctx, id, rng); ok {
			result = append(result, availEntity.ParticipantBusy{ID: id, Busy: cached})
			continue
		}

		conn, ok := connByParticipant[id]
		if !ok {
			failures = append(failures, availEntity.ParticipantFailure{ParticipantID: id, Reason: "no active calendar connection"})
			continue
		}

		busy, err := s.fetchBusyForConnection(ctx, conn, rng)
		if err != nil {
			logger.Error("CalendarService:FetchBusy:Provider", "participant_id", id, "error", err)
			failures = append(failures, availEntity.ParticipantFailure{ParticipantID: id, Reason: "provider fetch failed"})
			continue
		}

		s.storeBusy(ctx, id, rng, busy)
		result = append(result, availEntity.ParticipantBusy{ID: id, Busy: busy})
	}
	return result, failures
}

// RefreshBusy bypasses the cache and rewrites it from provider data.
func (s *calendarService) RefreshBusy(ctx context.Context, participantIDs []uuid.UUID, rng availEntity.Interval) error {
	connections, err := s.repo.GetConnectionsByParticipantIDs(ctx, participantIDs)
	if err != nil {
		return fmt.Errorf("load connections: %w", err)
	}

	connByParticipant := make(map[uuid.UUID]*entity.CalendarConnection, len(connections))
	for i := range connections {
		connByParticipant[connections[i].ParticipantID] = &connections[i]
	}

	var failed int
	for _, id := range participantIDs {
		conn, ok := connByParticipant[id]
		if !ok {
			continue
		}
		busy, err := s.fetchBusyForConnection(ctx, conn, rng)
		if err != nil {
			logger.Warn("CalendarService:RefreshBusy:Provider", "participant_id", id, "error", err)
			failed++
			continue
		}
		s.storeBusy(ctx, id, rng, busy)
	}

	if failed > 0 {
		return fmt.Errorf("busy refresh failed for %d of %d participants", failed, len(participantIDs))
	}
	return nil
}

// fetchBusyForConnection reads the participant's events and classifies them
// into busy intervals. When the events API is unavailable it falls back to
// the free/busy API, which cannot see declined responses but still yields
// usable busy blocks.
func (s *calendarService) fetchBusyForConnection(ctx context.Context, conn *entity.CalendarConnection, rng availEntity.Interval) ([]availEntity.Interval, error) {
	plain, err := s.decryptConnection(conn)
	if err != nil {
		return nil, fmt.Errorf("decrypt tokens: %w", err)
	}

	accessToken, err := s.ensureValidToken(ctx, conn, plain)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}

	events, err := s.fetchGoogleEvents(ctx, accessToken, rng)
	if err != nil {
		logger.Warn("CalendarService:fetchBusyForConnection:EventsFallback", "participant_id", conn.ParticipantID, "error", err)
		return s.callGoogleFreeBusy(ctx, accessToken, conn.CalendarEmail, rng)
	}

	records := availService.ClassifyBusy(conn.ParticipantID, events)
	return availService.BusyIntervals(records), nil
}

type plainTokens struct {
	access  string
	refresh string
}

func (s *calendarService) decryptConnection(conn *entity.CalendarConnection) (plainTokens, error) {
	access, err := s.cipher.Decrypt(conn.AccessToken)
	if err != nil {
		return plainTokens{}, err
	}
	refresh, err := s.cipher.Decrypt(conn.RefreshToken)
	if err != nil {
		return plainTokens{}, err
	}
	return plainTokens{access: access, refresh: refresh}, nil
}

// ensureValidToken returns a usable access token, refreshing through the
// provider when the stored one is within five minutes of expiry. Refreshed
// tokens are persisted re-encrypted; a persistence failure is logged but
// does not block the call.
func (s *calendarService) ensureValidToken(ctx context.Context, conn *entity.CalendarConnection, plain plainTokens) (string, error) {
	if time.Now().Before(conn.TokenExpiresAt.Add(-5 * time.Minute)) {
		return plain.access, nil
	}

	logger.Info("CalendarService:ensureValidToken:Refreshing", "participant_id", conn.ParticipantID)

	cfg, ok := config.GetSafe()
	if !ok {
		return "", fmt.Errorf("configuration not loaded")
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.GoogleAPI.ClientID,
		ClientSecret: cfg.GoogleAPI.ClientSecret,
		Endpoint:     google.Endpoint,
	}
	stale := &oauth2.Token{
		AccessToken:  plain.access,
		RefreshToken: plain.refresh,
		Expiry:       conn.TokenExpiresAt,
	}
	fresh, err := oauthCfg.TokenSource(ctx, stale).Token()
	if err != nil {
		return "", fmt.Errorf("oauth refresh: %w", err)
	}

	if fresh.AccessToken != plain.access {
		encAccess, encErr := s.cipher.Encrypt(fresh.AccessToken)
		if encErr == nil {
			conn.AccessToken = encAccess
			conn.TokenExpiresAt = fresh.Expiry
			if fresh.RefreshToken != "" && fresh.RefreshToken != plain.refresh {
				if encRefresh, rErr := s.cipher.Encrypt(fresh.RefreshToken); rErr == nil {
					conn.RefreshToken = encRefresh
				}
			}
			if err := s.repo.UpdateTokens(ctx, conn); err != nil {
				logger.Error("CalendarService:ensureValidToken:Persist", "participant_id", conn.ParticipantID, "error", err)
			}
		}
	}

	logger.Info("CalendarService:ensureValidToken:Success", "participant_id", conn.ParticipantID)
	return fresh.AccessToken, nil
}

// googleEventItem is the subset of the events API payload we consume.
type googleEventItem struct {
	Summary string `json:"summary"`
	Status  string `json:"status"`
	Start   struct {
		DateTime string `json:"dateTime"`
		Date     string `json:"date"`
	} `json:"start"`
	End struct {
		DateTime string `json:"dateTime"`
		Date     string `json:"date"`
	} `json:"end"`
	Attendees []struct {
		Self           bool   `json:"self"`
		ResponseStatus string `json:"responseStatus"`
	} `json:"attendees"`
}

// fetchGoogleEvents pages through the primary calendar's events in the
// range, carrying the participant's own response status on each event.
func (s *calendarService) fetchGoogleEvents(ctx context.Context, accessToken string, rng availEntity.Interval) ([]availEntity.CalendarEvent, error) {
	var events []availEntity.CalendarEvent
	pageToken := ""

	for {
		q := url.Values{}
		q.Set("timeMin", rng.Start.Format(time.RFC3339))
		q.Set("timeMax", rng.End.Format(time.RFC3339))
		q.Set("singleEvents", "true")
		q.Set("maxResults", fmt.Sprintf("%d", googleEventsPageSize))
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleEventsAPI+"?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+accessToken)

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("Google Events API error (%d): %s", resp.StatusCode, string(body))
		}

		var page struct {
			Items         []googleEventItem `json:"items"`
			NextPageToken string            `json:"nextPageToken"`
		}
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			if item.Status == "cancelled" {
				continue
			}
			events = append(events, toCalendarEvent(item))
		}

		if page.NextPageToken == "" {
			return events, nil
		}
		pageToken = page.NextPageToken
	}
}

func toCalendarEvent(item googleEventItem) availEntity.CalendarEvent {
	ev := availEntity.CalendarEvent{Summary: item.Summary}

	ev.Start = parseEventTime(item.Start.DateTime, item.Start.Date)
	ev.End = parseEventTime(item.End.DateTime, item.End.Date)

	for _, att := range item.Attendees {
		if att.Self {
			ev.Response = att.ResponseStatus
			break
		}
	}
	return ev
}

// parseEventTime handles both timed (dateTime) and all-day (date) events.
// Unparsable values come back nil so the classifier can skip the event.
func parseEventTime(dateTime, date string) *time.Time {
	if dateTime != "" {
		if t, err := time.Parse(time.RFC3339, dateTime); err == nil {
			return &t
		}
		return nil
	}
	if date != "" {
		if t, err := time.Parse("2006-01-02", date); err == nil {
			return &t
		}
	}
	return nil
}

// callGoogleFreeBusy is the degraded path: Google's free/busy API returns
// pre-merged busy blocks without attendance responses.
func (s *calendarService) callGoogleFreeBusy(ctx context.Context, accessToken, email string, rng availEntity.Interval) ([]availEntity.Interval, error) {
	payload := map[string]any{
		"timeMin": rng.Start.Format(time.RFC3339),
		"timeMax": rng.End.Format(time.RFC3339),
		"items": []map[string]string{
			{"id": email},
		},
	}
	payloadJSON, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleFreeBusyAPI, bytes.NewReader(payloadJSON))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Google FreeBusy API error (%d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Calendars map[string]struct {
			Busy []struct {
				Start string `json:"start"`
				End   string `json:"end"`
			} `json:"busy"`
		} `json:"calendars"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	var busy []availEntity.Interval
	if cal, ok := result.Calendars[email]; ok {
		for _, block := range cal.Busy {
			start, err1 := time.Parse(time.RFC3339, block.Start)
			end, err2 := time.Parse(time.RFC3339, block.End)
			if err1 == nil && err2 == nil {
				busy = append(busy, availEntity.Interval{Start: start, End: end})
			}
		}
	}
	return busy, nil
}

// ========== busy cache ==========

func busyCacheKey(participantID uuid.UUID, rng availEntity.Interval) string {
	return constants.RedisKeyBusyIntervals + participantID.String() +
		":" + rng.Start.UTC().Format(time.RFC3339) +
		"/" + rng.End.UTC().Format(time.RFC3339)
}

func (s *calendarService) cachedBusy(ctx context.Context, participantID uuid.UUID, rng availEntity.Interval) ([]availEntity.Interval, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, busyCacheKey(participantID, rng))
	if err != nil {
		if err != cache.ErrMiss {
			logger.Warn("CalendarService:cachedBusy:Get", "participant_id", participantID, "error", err)
		}
		return nil, false
	}
	var busy []availEntity.Interval
	if err := json.Unmarshal(raw, &busy); err != nil {
		logger.Warn("CalendarService:cachedBusy:Unmarshal", "participant_id", participantID, "error", err)
		return nil, false
	}
	return busy, true
}

func (s *calendarService) storeBusy(ctx context.Context, participantID uuid.UUID, rng availEntity.Interval, busy []availEntity.Interval) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(busy)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, busyCacheKey(participantID, rng), raw, constants.BusyCacheTTL); err != nil {
		logger.Warn("CalendarService:storeBusy:Set", "participant_id", participantID, "error", err)
	}
}
