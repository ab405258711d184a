package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/google/uuid"
)

// MemoryStore keeps every record in process memory. It is a full backend,
// used for local runs and tests.
type MemoryStore struct {
	mu           sync.RWMutex
	sessions     map[string]*models.Session
	chipColors   map[string][]models.ChipColor // by session id
	players      map[string]*models.Player
	playerOrder  map[string][]string // session id -> player ids in insert order
	chipCounts   map[string][]models.ChipCount
	participants map[string][]models.SessionParticipant
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:     make(map[string]*models.Session),
		chipColors:   make(map[string][]models.ChipColor),
		players:      make(map[string]*models.Player),
		playerOrder:  make(map[string][]string),
		chipCounts:   make(map[string][]models.ChipCount),
		participants: make(map[string][]models.SessionParticipant),
	}
}

func (m *MemoryStore) CreateSession(ctx context.Context, s *models.Session) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec := *s
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}
	m.sessions[rec.ID] = &rec
	return rec.ID, nil
}

func (m *MemoryStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	out := *s
	return &out, nil
}

func (m *MemoryStore) ListSessions(ctx context.Context, ownerUserID string) ([]*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*models.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		if ownerUserID != "" && s.OwnerUserID != ownerUserID {
			continue
		}
		out := *s
		result = append(result, &out)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MemoryStore) UpdateSession(ctx context.Context, s *models.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.sessions[s.ID]
	if !ok {
		return nil
	}
	existing.Title = s.Title
	existing.UpdatedAt = s.UpdatedAt
	return nil
}

func (m *MemoryStore) DeleteSession(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, pid := range m.playerOrder[id] {
		delete(m.players, pid)
		delete(m.chipCounts, pid)
	}
	delete(m.playerOrder, id)
	delete(m.chipColors, id)
	delete(m.participants, id)
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) SetChipColors(ctx context.Context, sessionID string, colors []models.ChipColor) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing := m.chipColors[sessionID]
	for _, c := range colors {
		c.SessionID = sessionID
		replaced := false
		for i := range existing {
			if existing[i].Color == c.Color {
				c.ID = existing[i].ID
				existing[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			if c.ID == "" {
				c.ID = uuid.NewString()
			}
			existing = append(existing, c)
		}
	}
	m.chipColors[sessionID] = existing
	return nil
}

func (m *MemoryStore) ListChipColors(ctx context.Context, sessionID string) ([]models.ChipColor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.ChipColor, len(m.chipColors[sessionID]))
	copy(out, m.chipColors[sessionID])
	return out, nil
}

func (m *MemoryStore) CreatePlayer(ctx context.Context, p *models.Player) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec := *p
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	m.players[rec.ID] = &rec
	m.playerOrder[rec.SessionID] = append(m.playerOrder[rec.SessionID], rec.ID)
	return rec.ID, nil
}

func (m *MemoryStore) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.players[id]
	if !ok {
		return nil, nil
	}
	out := *p
	return &out, nil
}

func (m *MemoryStore) ListPlayers(ctx context.Context, sessionID string) ([]*models.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.playerOrder[sessionID]
	result := make([]*models.Player, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.players[id]; ok {
			out := *p
			result = append(result, &out)
		}
	}
	return result, nil
}

func (m *MemoryStore) UpdatePlayer(ctx context.Context, p *models.Player) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.players[p.ID]
	if !ok {
		return nil
	}
	existing.Name = p.Name
	existing.BuyIn = p.BuyIn
	return nil
}

func (m *MemoryStore) DeletePlayer(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.players[id]
	if !ok {
		return nil
	}
	order := m.playerOrder[p.SessionID]
	for i, pid := range order {
		if pid == id {
			m.playerOrder[p.SessionID] = append(order[:i:i], order[i+1:]...)
			break
		}
	}
	delete(m.chipCounts, id)
	delete(m.players, id)
	return nil
}

func (m *MemoryStore) ListChipCounts(ctx context.Context, playerID string) ([]models.ChipCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.ChipCount, len(m.chipCounts[playerID]))
	copy(out, m.chipCounts[playerID])
	return out, nil
}

func (m *MemoryStore) ReplaceChipCounts(ctx context.Context, playerID string, counts []models.ChipCount) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.chipCounts, playerID)
	if len(counts) == 0 {
		return nil
	}

	fresh := make([]models.ChipCount, 0, len(counts))
	for _, c := range counts {
		c.ID = uuid.NewString()
		c.PlayerID = playerID
		fresh = append(fresh, c)
	}
	m.chipCounts[playerID] = fresh
	return nil
}

func (m *MemoryStore) AddParticipant(ctx context.Context, sessionID, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.participants[sessionID] {
		if p.UserID == userID {
			return nil
		}
	}
	m.participants[sessionID] = append(m.participants[sessionID], models.SessionParticipant{
		SessionID: sessionID,
		UserID:    userID,
		JoinedAt:  time.Now().UTC(),
	})
	return nil
}

func (m *MemoryStore) ListParticipants(ctx context.Context, sessionID string) ([]models.SessionParticipant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.SessionParticipant, len(m.participants[sessionID]))
	copy(out, m.participants[sessionID])
	return out, nil
}
