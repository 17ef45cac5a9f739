package entity

import (
	"time"

	"github.com/google/uuid"
)

// CalendarConnection stores a participant's calendar provider connection.
// Tokens are encrypted before they reach the database; the Access/Refresh
// fields hold plaintext only while a service call is in flight.
type CalendarConnection struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ParticipantID  uuid.UUID `db:"participant_id" json:"participant_id"`
	Provider       string    `db:"provider" json:"provider"` // "google"
	AccessToken    string    `db:"access_token" json:"-"`
	RefreshToken   string    `db:"refresh_token" json:"-"`
	TokenExpiresAt time.Time `db:"token_expires_at" json:"token_expires_at"`
	CalendarEmail  string    `db:"calendar_email" json:"calendar_email"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

func (CalendarConnection) TableName() string {
	return "calendar_connections"
}
