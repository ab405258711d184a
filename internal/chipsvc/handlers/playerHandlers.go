package handlers

import (
	"net/http"

	"github.com/avvvet/chip-services/internal/chipsvc/ledger"
	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/avvvet/chip-services/internal/chipsvc/service"
	"github.com/go-chi/chi"
)

type createPlayerRequest struct {
	Name  string `json:"name" validate:"max=80"`
	BuyIn entry  `json:"buy_in"`
}

type buyInRequest struct {
	BuyIn entry `json:"buy_in"`
}

type chipCountRequest struct {
	Color string `json:"color" validate:"required,oneof=red green blue white black"`
	Count entry  `json:"count"`
}

type chipCountsRequest struct {
	Counts []chipCountRequest `json:"counts" validate:"dive"`
}

func (h *Handler) CreatePlayerHandler(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if !h.decode(w, r, &req) {
		return
	}
	buyIn, err := ledger.ParseAmount(string(req.BuyIn))
	if err != nil {
		h.fail(w, err, service.MsgSaveFailed)
		return
	}

	p, err := h.players.CreatePlayer(r.Context(), chi.URLParam(r, "sessionID"), req.Name, buyIn)
	if err != nil {
		h.fail(w, err, service.MsgSaveFailed)
		return
	}
	h.ok(w, http.StatusCreated, "Player created", newPlayerView(p))
}

func (h *Handler) ListPlayersHandler(w http.ResponseWriter, r *http.Request) {
	players, err := h.players.ListPlayers(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.fail(w, err, "Failed to load players")
		return
	}
	h.ok(w, http.StatusOK, "", playerViews(players))
}

func (h *Handler) GetPlayerHandler(w http.ResponseWriter, r *http.Request) {
	p, err := h.players.GetPlayer(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		h.fail(w, err, "Failed to load player")
		return
	}
	h.ok(w, http.StatusOK, "", newPlayerView(p))
}

func (h *Handler) DeletePlayerHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.players.DeletePlayer(r.Context(), chi.URLParam(r, "playerID")); err != nil {
		h.fail(w, err, "Failed to delete player")
		return
	}
	h.ok(w, http.StatusOK, "Player deleted", nil)
}

func (h *Handler) UpdateBuyInHandler(w http.ResponseWriter, r *http.Request) {
	var req buyInRequest
	if !h.decode(w, r, &req) {
		return
	}
	buyIn, err := ledger.ParseAmount(string(req.BuyIn))
	if err != nil {
		h.fail(w, err, service.MsgSaveFailed)
		return
	}

	p, err := h.players.UpdateBuyIn(r.Context(), chi.URLParam(r, "playerID"), buyIn)
	if err != nil {
		h.fail(w, err, service.MsgSaveFailed)
		return
	}
	h.ok(w, http.StatusOK, "Buy-in updated", newPlayerView(p))
}

func (h *Handler) ChipCountsHandler(w http.ResponseWriter, r *http.Request) {
	counts, err := h.players.ChipCounts(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		h.fail(w, err, "Failed to load chip counts")
		return
	}
	h.ok(w, http.StatusOK, "", counts)
}

func (h *Handler) ReplaceChipCountsHandler(w http.ResponseWriter, r *http.Request) {
	var req chipCountsRequest
	if !h.decode(w, r, &req) {
		return
	}

	counts := make([]models.ChipCount, 0, len(req.Counts))
	for _, c := range req.Counts {
		n, err := ledger.ParseCount(string(c.Count))
		if err != nil {
			h.fail(w, err, service.MsgSaveFailed)
			return
		}
		counts = append(counts, models.ChipCount{Color: models.Color(c.Color), Count: n})
	}

	saved, err := h.players.ReplaceChipCounts(r.Context(), chi.URLParam(r, "playerID"), counts)
	if err != nil {
		h.fail(w, err, service.MsgSaveFailed)
		return
	}
	h.ok(w, http.StatusOK, "Chip counts saved", saved)
}
