// Package postgres is the relational backend of the persistence gateway.
package postgres

import (
	"errors"

	"github.com/avvvet/chip-services/internal/chipsvc/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewGateway wires one store per record type over a shared pool.
func NewGateway(pool *pgxpool.Pool) *store.Gateway {
	return &store.Gateway{
		Sessions:     NewSessionStore(pool),
		ChipColors:   NewChipColorStore(pool),
		Players:      NewPlayerStore(pool),
		ChipCounts:   NewChipCountStore(pool),
		Participants: NewParticipantStore(pool),
		Close:        pool.Close,
	}
}

// validID reports whether id can address a uuid primary key. Anything else can
// never match a row, so callers treat it as not found instead of sending it.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
