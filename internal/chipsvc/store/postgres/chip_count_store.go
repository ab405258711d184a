package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChipCountStore struct {
	db *pgxpool.Pool
}

func NewChipCountStore(db *pgxpool.Pool) *ChipCountStore {
	return &ChipCountStore{db: db}
}

func (s *ChipCountStore) ListChipCounts(ctx context.Context, playerID string) ([]models.ChipCount, error) {
	if !validID(playerID) {
		return []models.ChipCount{}, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT id::text, player_id::text, color, count
		FROM chip_counts
		WHERE player_id = $1::uuid
	`, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chip counts: %w", err)
	}
	defer rows.Close()

	counts := []models.ChipCount{}
	for rows.Next() {
		var c models.ChipCount
		var color string
		if err := rows.Scan(&c.ID, &c.PlayerID, &color, &c.Count); err != nil {
			return nil, fmt.Errorf("scan chip count row: %w", err)
		}
		c.Color = models.Color(color)
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return counts, nil
}

// ReplaceChipCounts deletes the player's counts and inserts the new set in one
// transaction, so no stale color survives a save.
func (s *ChipCountStore) ReplaceChipCounts(ctx context.Context, playerID string, counts []models.ChipCount) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM chip_counts WHERE player_id = $1::uuid`, playerID); err != nil {
		return fmt.Errorf("delete chip counts of player %s: %w", playerID, err)
	}

	for _, c := range counts {
		_, err := tx.Exec(ctx, `
			INSERT INTO chip_counts (player_id, color, count)
			VALUES ($1::uuid, $2, $3)
		`, playerID, string(c.Color), c.Count)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch pgErr.Code {
				case "23505":
					return fmt.Errorf("duplicate %s count for player %s", c.Color, playerID)
				case "23503":
					return fmt.Errorf("invalid reference: %s", pgErr.Message)
				}
			}
			return fmt.Errorf("insert chip count: %w", err)
		}
	}

	return tx.Commit(ctx)
}
