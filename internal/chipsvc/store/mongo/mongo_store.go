// Package mongo is the document backend of the persistence gateway.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/avvvet/chip-services/internal/chipsvc/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	sessionsCollection     = "sessions"
	chipColorsCollection   = "chip_colors"
	playersCollection      = "players"
	chipCountsCollection   = "chip_counts"
	participantsCollection = "session_participants"
)

type sessionDoc struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	OwnerUserID string    `bson:"owner_user_id"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

type chipColorDoc struct {
	ID        string               `bson:"_id"`
	SessionID string               `bson:"session_id"`
	Color     string               `bson:"color"`
	Value     primitive.Decimal128 `bson:"value"`
	IsActive  bool                 `bson:"is_active"`
}

type playerDoc struct {
	ID        string               `bson:"_id"`
	SessionID string               `bson:"session_id"`
	Name      string               `bson:"name"`
	BuyIn     primitive.Decimal128 `bson:"buy_in"`
	CreatedAt time.Time            `bson:"created_at"`
}

type chipCountDoc struct {
	ID       string `bson:"_id"`
	PlayerID string `bson:"player_id"`
	Color    string `bson:"color"`
	Count    int64  `bson:"count"`
}

type participantDoc struct {
	ID        string    `bson:"_id"`
	SessionID string    `bson:"session_id"`
	UserID    string    `bson:"user_id"`
	JoinedAt  time.Time `bson:"joined_at"`
}

// Store serves all five record types from one database.
type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

// NewGateway wires a Store as every record store of the gateway.
func NewGateway(db *mongo.Database, closeFn func()) *store.Gateway {
	g := store.NewGateway(NewStore(db))
	g.Close = closeFn
	return g
}

// EnsureIndexes creates the uniqueness guarantees the relational schema gets from constraints.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string]mongo.IndexModel{
		chipColorsCollection: {
			Keys:    bson.D{{Key: "session_id", Value: 1}, {Key: "color", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		chipCountsCollection: {
			Keys:    bson.D{{Key: "player_id", Value: 1}, {Key: "color", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		playersCollection: {
			Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "created_at", Value: 1}},
		},
		sessionsCollection: {
			Keys: bson.D{{Key: "owner_user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}
	for coll, model := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", coll, err)
		}
	}
	return nil
}

func (s *Store) CreateSession(ctx context.Context, session *models.Session) (string, error) {
	now := time.Now().UTC()
	doc := sessionDoc{
		ID:          uuid.NewString(),
		Title:       session.Title,
		OwnerUserID: session.OwnerUserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.db.Collection(sessionsCollection).InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	session.CreatedAt, session.UpdatedAt = now, now
	return doc.ID, nil
}

func (s *Store) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var doc sessionDoc
	err := s.db.Collection(sessionsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session by ID: %w", err)
	}
	return toSession(doc), nil
}

func (s *Store) ListSessions(ctx context.Context, ownerUserID string) ([]*models.Session, error) {
	filter := bson.M{}
	if ownerUserID != "" {
		filter["owner_user_id"] = ownerUserID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := s.db.Collection(sessionsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	var docs []sessionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}

	sessions := make([]*models.Session, 0, len(docs))
	for _, d := range docs {
		sessions = append(sessions, toSession(d))
	}
	return sessions, nil
}

func (s *Store) UpdateSession(ctx context.Context, session *models.Session) error {
	_, err := s.db.Collection(sessionsCollection).UpdateByID(ctx, session.ID, bson.M{
		"$set": bson.M{"title": session.Title, "updated_at": session.UpdatedAt},
	})
	if err != nil {
		return fmt.Errorf("failed to update session %s: %w", session.ID, err)
	}
	return nil
}

// DeleteSession removes the session and everything it owns. There is no
// transaction; a failure part way leaves orphans that no lookup reaches.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	players, err := s.ListPlayers(ctx, id)
	if err != nil {
		return err
	}
	playerIDs := make([]string, 0, len(players))
	for _, p := range players {
		playerIDs = append(playerIDs, p.ID)
	}

	steps := []struct {
		coll   string
		filter bson.M
	}{
		{chipCountsCollection, bson.M{"player_id": bson.M{"$in": playerIDs}}},
		{playersCollection, bson.M{"session_id": id}},
		{chipColorsCollection, bson.M{"session_id": id}},
		{participantsCollection, bson.M{"session_id": id}},
		{sessionsCollection, bson.M{"_id": id}},
	}
	for _, step := range steps {
		if _, err := s.db.Collection(step.coll).DeleteMany(ctx, step.filter); err != nil {
			return fmt.Errorf("failed to delete session %s from %s: %w", id, step.coll, err)
		}
	}
	return nil
}

func (s *Store) SetChipColors(ctx context.Context, sessionID string, colors []models.ChipColor) error {
	coll := s.db.Collection(chipColorsCollection)
	for _, c := range colors {
		value, err := toDecimal128(c.Value)
		if err != nil {
			return err
		}
		_, err = coll.UpdateOne(ctx,
			bson.M{"session_id": sessionID, "color": string(c.Color)},
			bson.M{
				"$set":         bson.M{"value": value, "is_active": c.IsActive},
				"$setOnInsert": bson.M{"_id": uuid.NewString()},
			},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("set chip color %s for session %s: %w", c.Color, sessionID, err)
		}
	}
	return nil
}

func (s *Store) ListChipColors(ctx context.Context, sessionID string) ([]models.ChipColor, error) {
	cur, err := s.db.Collection(chipColorsCollection).Find(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return nil, fmt.Errorf("failed to list chip colors: %w", err)
	}
	var docs []chipColorDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode chip colors: %w", err)
	}

	colors := make([]models.ChipColor, 0, len(docs))
	for _, d := range docs {
		value, err := fromDecimal128(d.Value)
		if err != nil {
			return nil, err
		}
		colors = append(colors, models.ChipColor{
			ID:        d.ID,
			SessionID: d.SessionID,
			Color:     models.Color(d.Color),
			Value:     value,
			IsActive:  d.IsActive,
		})
	}
	return colors, nil
}

func (s *Store) CreatePlayer(ctx context.Context, p *models.Player) (string, error) {
	buyIn, err := toDecimal128(p.BuyIn)
	if err != nil {
		return "", err
	}
	doc := playerDoc{
		ID:        uuid.NewString(),
		SessionID: p.SessionID,
		Name:      p.Name,
		BuyIn:     buyIn,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.db.Collection(playersCollection).InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to create player: %w", err)
	}
	p.CreatedAt = doc.CreatedAt
	return doc.ID, nil
}

func (s *Store) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	var doc playerDoc
	err := s.db.Collection(playersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get player by ID: %w", err)
	}
	return toPlayer(doc)
}

func (s *Store) ListPlayers(ctx context.Context, sessionID string) ([]*models.Player, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.db.Collection(playersCollection).Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	var docs []playerDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode players: %w", err)
	}

	players := make([]*models.Player, 0, len(docs))
	for _, d := range docs {
		p, err := toPlayer(d)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, nil
}

func (s *Store) UpdatePlayer(ctx context.Context, p *models.Player) error {
	buyIn, err := toDecimal128(p.BuyIn)
	if err != nil {
		return err
	}
	_, err = s.db.Collection(playersCollection).UpdateByID(ctx, p.ID, bson.M{
		"$set": bson.M{"name": p.Name, "buy_in": buyIn},
	})
	if err != nil {
		return fmt.Errorf("failed to update player %s: %w", p.ID, err)
	}
	return nil
}

func (s *Store) DeletePlayer(ctx context.Context, id string) error {
	if _, err := s.db.Collection(chipCountsCollection).DeleteMany(ctx, bson.M{"player_id": id}); err != nil {
		return fmt.Errorf("failed to delete chip counts of player %s: %w", id, err)
	}
	if _, err := s.db.Collection(playersCollection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete player %s: %w", id, err)
	}
	return nil
}

func (s *Store) ListChipCounts(ctx context.Context, playerID string) ([]models.ChipCount, error) {
	cur, err := s.db.Collection(chipCountsCollection).Find(ctx, bson.M{"player_id": playerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list chip counts: %w", err)
	}
	var docs []chipCountDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode chip counts: %w", err)
	}

	counts := make([]models.ChipCount, 0, len(docs))
	for _, d := range docs {
		counts = append(counts, models.ChipCount{
			ID:       d.ID,
			PlayerID: d.PlayerID,
			Color:    models.Color(d.Color),
			Count:    d.Count,
		})
	}
	return counts, nil
}

// ReplaceChipCounts deletes then inserts. The insert only starts once the
// delete has completed.
func (s *Store) ReplaceChipCounts(ctx context.Context, playerID string, counts []models.ChipCount) error {
	coll := s.db.Collection(chipCountsCollection)
	if _, err := coll.DeleteMany(ctx, bson.M{"player_id": playerID}); err != nil {
		return fmt.Errorf("delete chip counts of player %s: %w", playerID, err)
	}
	if len(counts) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(counts))
	for _, c := range counts {
		docs = append(docs, chipCountDoc{
			ID:       uuid.NewString(),
			PlayerID: playerID,
			Color:    string(c.Color),
			Count:    c.Count,
		})
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert chip counts: %w", err)
	}
	return nil
}

func (s *Store) AddParticipant(ctx context.Context, sessionID, userID string) error {
	_, err := s.db.Collection(participantsCollection).UpdateOne(ctx,
		bson.M{"_id": sessionID + ":" + userID},
		bson.M{"$setOnInsert": bson.M{
			"session_id": sessionID,
			"user_id":    userID,
			"joined_at":  time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to add participant %s to session %s: %w", userID, sessionID, err)
	}
	return nil
}

func (s *Store) ListParticipants(ctx context.Context, sessionID string) ([]models.SessionParticipant, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}})
	cur, err := s.db.Collection(participantsCollection).Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	var docs []participantDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode participants: %w", err)
	}

	participants := make([]models.SessionParticipant, 0, len(docs))
	for _, d := range docs {
		participants = append(participants, models.SessionParticipant{
			SessionID: d.SessionID,
			UserID:    d.UserID,
			JoinedAt:  d.JoinedAt,
		})
	}
	return participants, nil
}

func toSession(d sessionDoc) *models.Session {
	return &models.Session{
		ID:          d.ID,
		Title:       d.Title,
		OwnerUserID: d.OwnerUserID,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func toPlayer(d playerDoc) (*models.Player, error) {
	buyIn, err := fromDecimal128(d.BuyIn)
	if err != nil {
		return nil, err
	}
	return &models.Player{
		ID:        d.ID,
		SessionID: d.SessionID,
		Name:      d.Name,
		BuyIn:     buyIn,
		CreatedAt: d.CreatedAt.UTC(),
	}, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode amount %s: %w", d, err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("decode amount %s: %w", v, err)
	}
	return d, nil
}
