package postgres

import (
	"context"
	"fmt"

	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ParticipantStore struct {
	db *pgxpool.Pool
}

func NewParticipantStore(db *pgxpool.Pool) *ParticipantStore {
	return &ParticipantStore{db: db}
}

func (s *ParticipantStore) AddParticipant(ctx context.Context, sessionID, userID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO session_participants (session_id, user_id)
		VALUES ($1::uuid, $2)
		ON CONFLICT (session_id, user_id) DO NOTHING
	`, sessionID, userID)
	if err != nil {
		return fmt.Errorf("failed to add participant %s to session %s: %w", userID, sessionID, err)
	}
	return nil
}

func (s *ParticipantStore) ListParticipants(ctx context.Context, sessionID string) ([]models.SessionParticipant, error) {
	if !validID(sessionID) {
		return []models.SessionParticipant{}, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT session_id::text, user_id, joined_at
		FROM session_participants
		WHERE session_id = $1::uuid
		ORDER BY joined_at
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	participants := []models.SessionParticipant{}
	for rows.Next() {
		var p models.SessionParticipant
		if err := rows.Scan(&p.SessionID, &p.UserID, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan participant row: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return participants, nil
}
