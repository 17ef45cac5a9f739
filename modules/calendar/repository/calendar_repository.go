package repository

import (
	"context"
	"database/sql"
	"errors"

	"meetsync/core/database"
	"meetsync/modules/calendar/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrConnectionNotFound is returned when a participant has no active
// connection for the requested provider.
var ErrConnectionNotFound = errors.New("calendar connection not found")

type CalendarRepository interface {
	CreateConnection(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error)
	GetConnection(ctx context.Context, participantID uuid.UUID, provider string) (*entity.CalendarConnection, error)
	GetConnectionsByParticipantID(ctx context.Context, participantID uuid.UUID) ([]entity.CalendarConnection, error)
	UpdateTokens(ctx context.Context, conn *entity.CalendarConnection) error
	DeactivateConnection(ctx context.Context, participantID uuid.UUID, provider string) error

	// GetConnectionsByParticipantIDs loads active connections for a batch of
	// participants in one round trip (busy lookup path).
	GetConnectionsByParticipantIDs(ctx context.Context, participantIDs []uuid.UUID) ([]entity.CalendarConnection, error)
}

type calendarRepository struct {
	db database.IDatabase
}

func NewCalendarRepository(db database.IDatabase) CalendarRepository {
	return &calendarRepository{db: db}
}

// CreateConnection inserts a connection, reactivating any previous row for
// the same participant and provider.
func (r *calendarRepository) CreateConnection(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error) {
	query := `
		INSERT INTO calendar_connections (participant_id, provider, access_token, refresh_token, token_expires_at, calendar_email, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (participant_id, provider) DO UPDATE
		SET access_token = EXCLUDED.access_token,
		    refresh_token = EXCLUDED.refresh_token,
		    token_expires_at = EXCLUDED.token_expires_at,
		    calendar_email = EXCLUDED.calendar_email,
		    is_active = true,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		conn.ParticipantID, conn.Provider, conn.AccessToken, conn.RefreshToken,
		conn.TokenExpiresAt, conn.CalendarEmail, conn.IsActive,
	).Scan(&conn.ID, &conn.CreatedAt, &conn.UpdatedAt)

	if err != nil {
		return nil, err
	}
	return conn, nil
}

// GetConnection fetches the active connection for one participant/provider.
func (r *calendarRepository) GetConnection(ctx context.Context, participantID uuid.UUID, provider string) (*entity.CalendarConnection, error) {
	query := `
		SELECT id, participant_id, provider, access_token, refresh_token, token_expires_at, calendar_email, is_active, created_at, updated_at
		FROM calendar_connections
		WHERE participant_id = $1 AND provider = $2 AND is_active = true
	`
	var conn entity.CalendarConnection
	if err := r.db.GetContext(ctx, &conn, query, participantID, provider); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConnectionNotFound
		}
		return nil, err
	}
	return &conn, nil
}

// GetConnectionsByParticipantID gets all active connections for one participant.
func (r *calendarRepository) GetConnectionsByParticipantID(ctx context.Context, participantID uuid.UUID) ([]entity.CalendarConnection, error) {
	query := `
		SELECT id, participant_id, provider, access_token, refresh_token, token_expires_at, calendar_email, is_active, created_at, updated_at
		FROM calendar_connections
		WHERE participant_id = $1 AND is_active = true
		ORDER BY created_at DESC
	`
	var connections []entity.CalendarConnection
	if err := r.db.SelectContext(ctx, &connections, query, participantID); err != nil {
		return nil, err
	}
	return connections, nil
}

// UpdateTokens persists refreshed tokens for an existing connection.
func (r *calendarRepository) UpdateTokens(ctx context.Context, conn *entity.CalendarConnection) error {
	query := `
		UPDATE calendar_connections
		SET access_token = $1, refresh_token = $2, token_expires_at = $3, updated_at = NOW()
		WHERE id = $4
	`
	return r.db.ExecContext(ctx, query,
		conn.AccessToken, conn.RefreshToken, conn.TokenExpiresAt, conn.ID,
	)
}

// DeactivateConnection soft deletes a calendar connection.
func (r *calendarRepository) DeactivateConnection(ctx context.Context, participantID uuid.UUID, provider string) error {
	query := `
		UPDATE calendar_connections
		SET is_active = false, updated_at = NOW()
		WHERE participant_id = $1 AND provider = $2
	`
	return r.db.ExecContext(ctx, query, participantID, provider)
}

// GetConnectionsByParticipantIDs loads active Google connections for a batch.
func (r *calendarRepository) GetConnectionsByParticipantIDs(ctx context.Context, participantIDs []uuid.UUID) ([]entity.CalendarConnection, error) {
	if len(participantIDs) == 0 {
		return []entity.CalendarConnection{}, nil
	}

	ids := make([]string, len(participantIDs))
	for i, id := range participantIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT id, participant_id, provider, access_token, refresh_token, token_expires_at, calendar_email, is_active, created_at, updated_at
		FROM calendar_connections
		WHERE participant_id = ANY($1) AND is_active = true
	`
	var connections []entity.CalendarConnection
	if err := r.db.SelectContext(ctx, &connections, query, pq.Array(ids)); err != nil {
		return nil, err
	}
	return connections, nil
}
