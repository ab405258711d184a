package service

import (
	"context"
	"strings"
	"time"

	"github.com/avvvet/chip-services/internal/chipsvc/ledger"
	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/avvvet/chip-services/internal/chipsvc/store"
	log "github.com/sirupsen/logrus"
)

type SessionService struct {
	base
}

func NewSessionService(gw *store.Gateway, timeout time.Duration) *SessionService {
	return &SessionService{base: newBase(gw, timeout)}
}

// CreateSession stores a session with its chip colors and registers the owner
// as a participant. Every color passed in is active.
func (s *SessionService) CreateSession(ctx context.Context, title, ownerUserID string, colors []models.ChipColor) (*models.Session, []models.ChipColor, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil, invalid("title", "Please enter a session title")
	}

	sheet := ledger.NewSheet()
	for _, c := range colors {
		if err := sheet.AddColor(c.Color); err != nil {
			return nil, nil, invalid("colors", "Unknown chip color "+string(c.Color))
		}
		sheet.SetValue(c.Color, c.Value)
	}
	if len(sheet.Active()) == 0 {
		return nil, nil, invalid("colors", "Please select at least one chip color")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	session := &models.Session{Title: title, OwnerUserID: ownerUserID}
	id, err := s.gw.Sessions.CreateSession(ctx, session)
	if err != nil {
		log.WithFields(log.Fields{"op": "CreateSession", "owner": ownerUserID}).WithError(err).Error("failed to create session")
		return nil, nil, storeFailure("create session", err)
	}
	session.ID = id

	chipColors := sheet.ActiveColors()
	for i := range chipColors {
		chipColors[i].SessionID = id
	}
	if err := s.gw.ChipColors.SetChipColors(ctx, id, chipColors); err != nil {
		log.WithFields(log.Fields{"op": "SetChipColors", "session_id": id}).WithError(err).Error("failed to save chip colors")
		return nil, nil, storeFailure("save chip colors", err)
	}

	if ownerUserID != "" {
		if err := s.gw.Participants.AddParticipant(ctx, id, ownerUserID); err != nil {
			log.WithFields(log.Fields{"op": "AddParticipant", "session_id": id, "user_id": ownerUserID}).
				WithError(err).Error("failed to add owner as participant")
			return nil, nil, storeFailure("add participant", err)
		}
	}

	log.WithFields(log.Fields{"session_id": id, "colors": len(chipColors)}).Info("session created")
	return session, chipColors, nil
}

func (s *SessionService) GetSession(ctx context.Context, id string) (*models.Session, error) {
	return s.session(ctx, id)
}

// ListSessions returns the sessions of ownerUserID, newest first.
func (s *SessionService) ListSessions(ctx context.Context, ownerUserID string) ([]*models.Session, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	sessions, err := s.gw.Sessions.ListSessions(ctx, ownerUserID)
	if err != nil {
		log.WithFields(log.Fields{"op": "ListSessions", "owner": ownerUserID}).WithError(err).Error("failed to list sessions")
		return nil, storeFailure("list sessions", err)
	}
	return sessions, nil
}

func (s *SessionService) UpdateSessionTitle(ctx context.Context, id, title string) (*models.Session, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title", "Please enter a session title")
	}

	session, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Title = title
	session.UpdatedAt = time.Now().UTC()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.gw.Sessions.UpdateSession(ctx, session); err != nil {
		log.WithFields(log.Fields{"op": "UpdateSession", "session_id": id}).WithError(err).Error("failed to update session")
		return nil, storeFailure("update session", err)
	}
	return session, nil
}

func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.session(ctx, id); err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.gw.Sessions.DeleteSession(ctx, id); err != nil {
		log.WithFields(log.Fields{"op": "DeleteSession", "session_id": id}).WithError(err).Error("failed to delete session")
		return storeFailure("delete session", err)
	}
	log.WithField("session_id", id).Info("session deleted")
	return nil
}

// JoinSession adds userID to the session's participants. Joining twice is harmless.
func (s *SessionService) JoinSession(ctx context.Context, sessionID, userID string) (*models.Session, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, invalid("user_id", "Please sign in to join a session")
	}

	session, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.gw.Participants.AddParticipant(ctx, sessionID, userID); err != nil {
		log.WithFields(log.Fields{"op": "AddParticipant", "session_id": sessionID, "user_id": userID}).
			WithError(err).Error("failed to join session")
		return nil, storeFailure("join session", err)
	}
	return session, nil
}

func (s *SessionService) Participants(ctx context.Context, sessionID string) ([]models.SessionParticipant, error) {
	if _, err := s.session(ctx, sessionID); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	participants, err := s.gw.Participants.ListParticipants(ctx, sessionID)
	if err != nil {
		log.WithFields(log.Fields{"op": "ListParticipants", "session_id": sessionID}).WithError(err).Error("failed to list participants")
		return nil, storeFailure("list participants", err)
	}
	return participants, nil
}

// ChipColors never fails: a missing or unreadable table becomes the standard one.
func (s *SessionService) ChipColors(ctx context.Context, sessionID string) []models.ChipColor {
	return s.chipColors(ctx, sessionID)
}
