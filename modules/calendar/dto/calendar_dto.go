package dto

// Provider constants
const (
	ProviderGoogle = "google"
)

// ========== Calendar Connection DTOs ==========

// ConnectCalendarRequest registers OAuth tokens obtained out of band.
type ConnectCalendarRequest struct {
	AccessToken    string `json:"access_token" validate:"required"`
	RefreshToken   string `json:"refresh_token" validate:"required"`
	TokenExpiresAt string `json:"token_expires_at" validate:"required"` // RFC3339
	CalendarEmail  string `json:"calendar_email" validate:"required"`
}

// CalendarConnectionResponse represents a calendar connection
type CalendarConnectionResponse struct {
	ID            string `json:"id"`
	Provider      string `json:"provider"`
	CalendarEmail string `json:"calendar_email"`
	IsActive      bool   `json:"is_active"`
	ConnectedAt   string `json:"connected_at"`
}

// CalendarConnectionListResponse represents list of connections
type CalendarConnectionListResponse struct {
	Connections []CalendarConnectionResponse `json:"connections"`
}

// ========== Busy lookup DTOs ==========

// BusyLookupRequest asks for busy intervals over a time range.
type BusyLookupRequest struct {
	StartTime      string   `json:"start_time" validate:"required"` // RFC3339
	EndTime        string   `json:"end_time" validate:"required"`   // RFC3339
	ParticipantIDs []string `json:"participant_ids,omitempty"`
}

// TimeSlot represents a time period
type TimeSlot struct {
	Start string `json:"start"` // RFC3339
	End   string `json:"end"`   // RFC3339
}

// ParticipantBusyDTO holds one participant's busy intervals.
type ParticipantBusyDTO struct {
	ParticipantID string     `json:"participant_id"`
	Busy          []TimeSlot `json:"busy"`
}

// BusyLookupResponse carries per-participant busy data plus the
// participants whose calendars could not be read.
type BusyLookupResponse struct {
	Participants []ParticipantBusyDTO `json:"participants"`
	Failed       []FailedParticipant  `json:"failed_participants,omitempty"`
}

// FailedParticipant names a participant whose provider fetch failed.
type FailedParticipant struct {
	ParticipantID string `json:"participant_id"`
	Reason        string `json:"reason"`
}
