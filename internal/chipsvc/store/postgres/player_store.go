package postgres

import (
	"context"
	"fmt"

	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PlayerStore struct {
	db *pgxpool.Pool
}

func NewPlayerStore(db *pgxpool.Pool) *PlayerStore {
	return &PlayerStore{db: db}
}

func (s *PlayerStore) CreatePlayer(ctx context.Context, p *models.Player) (string, error) {
	var id string
	err := s.db.QueryRow(ctx, `
		INSERT INTO players (session_id, name, buy_in)
		VALUES ($1::uuid, $2, $3)
		RETURNING id::text, created_at
	`, p.SessionID, p.Name, p.BuyIn).Scan(&id, &p.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to create player: %w", err)
	}
	return id, nil
}

func (s *PlayerStore) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	if !validID(id) {
		return nil, nil
	}

	p := &models.Player{}
	err := s.db.QueryRow(ctx, `
		SELECT id::text, session_id::text, name, buy_in, created_at
		FROM players
		WHERE id = $1::uuid
	`, id).Scan(&p.ID, &p.SessionID, &p.Name, &p.BuyIn, &p.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get player by ID: %w", err)
	}
	return p, nil
}

func (s *PlayerStore) ListPlayers(ctx context.Context, sessionID string) ([]*models.Player, error) {
	if !validID(sessionID) {
		return []*models.Player{}, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT id::text, session_id::text, name, buy_in, created_at
		FROM players
		WHERE session_id = $1::uuid
		ORDER BY created_at
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	players := []*models.Player{}
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.SessionID, &p.Name, &p.BuyIn, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan player row: %w", err)
		}
		players = append(players, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return players, nil
}

func (s *PlayerStore) UpdatePlayer(ctx context.Context, p *models.Player) error {
	if !validID(p.ID) {
		return nil
	}
	_, err := s.db.Exec(ctx, `
		UPDATE players
		SET name = $2, buy_in = $3
		WHERE id = $1::uuid
	`, p.ID, p.Name, p.BuyIn)
	if err != nil {
		return fmt.Errorf("failed to update player %s: %w", p.ID, err)
	}
	return nil
}

func (s *PlayerStore) DeletePlayer(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM players WHERE id = $1::uuid`, id); err != nil {
		return fmt.Errorf("failed to delete player %s: %w", id, err)
	}
	return nil
}
