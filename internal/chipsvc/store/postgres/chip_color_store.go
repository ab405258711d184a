package postgres

import (
	"context"
	"fmt"

	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChipColorStore struct {
	db *pgxpool.Pool
}

func NewChipColorStore(db *pgxpool.Pool) *ChipColorStore {
	return &ChipColorStore{db: db}
}

// SetChipColors upserts on the unique_session_color constraint so a session
// never holds two records for the same color.
func (s *ChipColorStore) SetChipColors(ctx context.Context, sessionID string, colors []models.ChipColor) error {
	if len(colors) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range colors {
		if _, err := tx.Exec(ctx, `
			INSERT INTO chip_colors (session_id, color, value, is_active)
			VALUES ($1::uuid, $2, $3, $4)
			ON CONFLICT ON CONSTRAINT unique_session_color
			DO UPDATE SET value = EXCLUDED.value, is_active = EXCLUDED.is_active
		`, sessionID, string(c.Color), c.Value, c.IsActive); err != nil {
			return fmt.Errorf("set chip color %s for session %s: %w", c.Color, sessionID, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *ChipColorStore) ListChipColors(ctx context.Context, sessionID string) ([]models.ChipColor, error) {
	if !validID(sessionID) {
		return []models.ChipColor{}, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT id::text, session_id::text, color, value, is_active
		FROM chip_colors
		WHERE session_id = $1::uuid
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chip colors: %w", err)
	}
	defer rows.Close()

	colors := []models.ChipColor{}
	for rows.Next() {
		var c models.ChipColor
		var color string
		if err := rows.Scan(&c.ID, &c.SessionID, &color, &c.Value, &c.IsActive); err != nil {
			return nil, fmt.Errorf("scan chip color row: %w", err)
		}
		c.Color = models.Color(color)
		colors = append(colors, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return colors, nil
}
