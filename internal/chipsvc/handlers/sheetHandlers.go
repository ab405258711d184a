package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/avvvet/chip-services/internal/chipsvc/ledger"
	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/avvvet/chip-services/internal/chipsvc/service"
	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

type saveSheetRequest struct {
	PlayerID string           `json:"player_id"`
	Name     string           `json:"name" validate:"max=80"`
	BuyIn    entry            `json:"buy_in"`
	Active   []string         `json:"active" validate:"dive,oneof=red green blue white black"`
	Counts   map[string]entry `json:"counts" validate:"dive,keys,oneof=red green blue white black,endkeys"`
}

func (h *Handler) LoadSheetHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	view, err := h.sheets.LoadSheet(r.Context(), sessionID, r.URL.Query().Get("player_id"))
	if err != nil {
		h.fail(w, err, "Failed to load player data")
		return
	}
	h.ok(w, http.StatusOK, "", newSheetView(view, h.notices.Current(sessionID, userID(r))))
}

// SaveSheetHandler persists the sheet. The outcome is also posted to the
// caller's notice board for the session, where it stays visible for a few
// seconds. A failed save that already wrote the player answers with its id.
func (h *Handler) SaveSheetHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	viewer := userID(r)

	var req saveSheetRequest
	if !h.decode(w, r, &req) {
		return
	}

	in := service.SheetInput{
		PlayerID: req.PlayerID,
		Name:     req.Name,
		Counts:   make(map[models.Color]int64, len(req.Counts)),
	}
	var err error
	if in.BuyIn, err = ledger.ParseAmount(string(req.BuyIn)); err != nil {
		h.notices.Error(sessionID, viewer, "Please enter a valid buy-in")
		h.badRequest(w, "Please enter a valid buy-in")
		return
	}
	for _, c := range req.Active {
		in.Active = append(in.Active, models.Color(c))
	}

	entered := ledger.NewSheet()
	for c, raw := range req.Counts {
		color := models.Color(c)
		if err := entered.SetChipCount(color, string(raw)); err != nil {
			h.notices.Error(sessionID, viewer, "Please enter a valid count for "+c)
			h.badRequest(w, "Please enter a valid count for "+c)
			return
		}
		in.Counts[color] = entered.Count(color)
	}

	view, err := h.sheets.SaveSheet(r.Context(), sessionID, in)
	if err != nil {
		switch v, ok := service.IsValidation(err); {
		case ok:
			h.notices.Error(sessionID, viewer, v.Message)
		case !errors.Is(err, service.ErrNotFound):
			h.notices.Error(sessionID, viewer, service.MsgSaveFailed)
		}
		if view != nil && view.Player != nil {
			h.CreateResponse(w, Response{
				Message: service.MsgSaveFailed,
				Code:    http.StatusInternalServerError,
				Data:    map[string]string{"player_id": view.Player.ID},
				Error:   service.MsgSaveFailed,
			})
			return
		}
		h.fail(w, err, service.MsgSaveFailed)
		return
	}

	n := h.notices.Success(sessionID, viewer, service.MsgSaved)
	h.ok(w, http.StatusOK, service.MsgSaved, newSheetView(view, n))
}

// DetectSheetHandler takes a multipart image in field "file" and returns the
// sheet with detected counts merged in. Nothing is saved.
func (h *Handler) DetectSheetHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.badRequest(w, "Please upload an image")
		return
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		h.badRequest(w, "Please upload an image")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		h.badRequest(w, "Please upload an image")
		return
	}

	view, detected, err := h.sheets.DetectSheet(r.Context(), sessionID, r.FormValue("player_id"), image, hdr.Filename)
	if err != nil {
		h.fail(w, err, "Failed to load player data")
		return
	}

	h.ok(w, http.StatusOK, "Chips detected", map[string]interface{}{
		"detected": detected,
		"sheet":    newSheetView(view, nil),
	})
}

type currencyEntryRequest struct {
	Start string   `json:"start"`
	Keys  []string `json:"keys" validate:"max=64,dive,max=16"`
	Paste *string  `json:"paste,omitempty"`
}

type currencyEntryView struct {
	Display  string   `json:"display"`
	Value    string   `json:"value"`
	Rejected []string `json:"rejected"`
}

// CurrencyEntryHandler replays keystrokes, or a paste, against a starting
// amount the way the amount fields of the app behave.
func (h *Handler) CurrencyEntryHandler(w http.ResponseWriter, r *http.Request) {
	var req currencyEntryRequest
	if !h.decode(w, r, &req) {
		return
	}

	start := decimal.Zero
	if req.Start != "" {
		var err error
		if start, err = ledger.ParseAmount(req.Start); err != nil {
			h.fail(w, err, "")
			return
		}
	}

	e := ledger.NewCurrencyEntry(start)
	rejected := []string{}
	if req.Paste != nil {
		if !e.Paste(*req.Paste) {
			rejected = append(rejected, *req.Paste)
		}
	} else {
		for _, k := range req.Keys {
			if !e.Key(k) {
				rejected = append(rejected, k)
			}
		}
	}

	h.ok(w, http.StatusOK, "", currencyEntryView{
		Display:  e.Display(),
		Value:    e.Value().String(),
		Rejected: rejected,
	})
}
