package postgres

import (
	"context"
	"fmt"

	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionStore struct {
	db *pgxpool.Pool
}

func NewSessionStore(db *pgxpool.Pool) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) CreateSession(ctx context.Context, session *models.Session) (string, error) {
	var id string
	err := s.db.QueryRow(ctx, `
		INSERT INTO sessions (title, owner_user_id)
		VALUES ($1, $2)
		RETURNING id::text, created_at, updated_at
	`, session.Title, session.OwnerUserID).Scan(&id, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

func (s *SessionStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	if !validID(id) {
		return nil, nil
	}

	session := &models.Session{}
	err := s.db.QueryRow(ctx, `
		SELECT id::text, title, owner_user_id, created_at, updated_at
		FROM sessions
		WHERE id = $1::uuid
	`, id).Scan(
		&session.ID,
		&session.Title,
		&session.OwnerUserID,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil // Session not found
		}
		return nil, fmt.Errorf("failed to get session by ID: %w", err)
	}
	return session, nil
}

func (s *SessionStore) ListSessions(ctx context.Context, ownerUserID string) ([]*models.Session, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id::text, title, owner_user_id, created_at, updated_at
		FROM sessions
		WHERE $1 = '' OR owner_user_id = $1
		ORDER BY created_at DESC
	`, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*models.Session{}
	for rows.Next() {
		var session models.Session
		if err := rows.Scan(
			&session.ID,
			&session.Title,
			&session.OwnerUserID,
			&session.CreatedAt,
			&session.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		sessions = append(sessions, &session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return sessions, nil
}

func (s *SessionStore) UpdateSession(ctx context.Context, session *models.Session) error {
	if !validID(session.ID) {
		return nil
	}
	_, err := s.db.Exec(ctx, `
		UPDATE sessions
		SET title = $2, updated_at = $3
		WHERE id = $1::uuid
	`, session.ID, session.Title, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update session %s: %w", session.ID, err)
	}
	return nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1::uuid`, id); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}
