package handlers

import (
	"net/http"

	"github.com/avvvet/chip-services/internal/chipsvc/ledger"
	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/go-chi/chi"
)

type colorRequest struct {
	Color string `json:"color" validate:"required,oneof=red green blue white black"`
	Value entry  `json:"value"`
}

type createSessionRequest struct {
	Title  string         `json:"title" validate:"max=120"`
	Colors []colorRequest `json:"colors" validate:"dive"`
}

type updateSessionRequest struct {
	Title string `json:"title" validate:"max=120"`
}

func (h *Handler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !h.decode(w, r, &req) {
		return
	}

	colors := make([]models.ChipColor, 0, len(req.Colors))
	for _, c := range req.Colors {
		value, err := ledger.ParseAmount(string(c.Value))
		if err != nil {
			h.badRequest(w, "Please enter a valid value for "+c.Color)
			return
		}
		colors = append(colors, models.ChipColor{Color: models.Color(c.Color), Value: value})
	}

	session, stored, err := h.sessions.CreateSession(r.Context(), req.Title, userID(r), colors)
	if err != nil {
		h.fail(w, err, "Failed to create session")
		return
	}

	h.ok(w, http.StatusCreated, "Session created", map[string]interface{}{
		"session":     session,
		"chip_colors": chipColorViews(stored),
	})
}

// ListSessionsHandler lists the sessions of the owner query parameter, or of
// the caller when it is absent.
func (h *Handler) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		owner = userID(r)
	}

	sessions, err := h.sessions.ListSessions(r.Context(), owner)
	if err != nil {
		h.fail(w, err, "Failed to load sessions")
		return
	}
	h.ok(w, http.StatusOK, "", sessions)
}

func (h *Handler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.fail(w, err, "Failed to load session")
		return
	}
	h.ok(w, http.StatusOK, "", session)
}

func (h *Handler) UpdateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req updateSessionRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.sessions.UpdateSessionTitle(r.Context(), chi.URLParam(r, "sessionID"), req.Title)
	if err != nil {
		h.fail(w, err, "Failed to update session")
		return
	}
	h.ok(w, http.StatusOK, "Session updated", session)
}

func (h *Handler) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.sessions.DeleteSession(r.Context(), sessionID); err != nil {
		h.fail(w, err, "Failed to delete session")
		return
	}
	h.notices.Drop(sessionID)
	h.ok(w, http.StatusOK, "Session deleted", nil)
}

func (h *Handler) JoinSessionHandler(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.JoinSession(r.Context(), chi.URLParam(r, "sessionID"), userID(r))
	if err != nil {
		h.fail(w, err, "Failed to join session")
		return
	}
	h.ok(w, http.StatusOK, "Joined session", session)
}

func (h *Handler) ParticipantsHandler(w http.ResponseWriter, r *http.Request) {
	participants, err := h.sessions.Participants(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.fail(w, err, "Failed to load participants")
		return
	}
	h.ok(w, http.StatusOK, "", participants)
}

func (h *Handler) ChipColorsHandler(w http.ResponseWriter, r *http.Request) {
	colors := h.sessions.ChipColors(r.Context(), chi.URLParam(r, "sessionID"))
	h.ok(w, http.StatusOK, "", chipColorViews(colors))
}

func (h *Handler) SessionStatsHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.sessions.GetSession(r.Context(), sessionID)
	if err != nil {
		h.fail(w, err, "Failed to load session")
		return
	}

	stats, err := h.stats.GetSessionStats(r.Context(), sessionID)
	if err != nil {
		h.fail(w, err, "Failed to load statistics")
		return
	}
	h.ok(w, http.StatusOK, "", newStatsView(session, stats))
}
