package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

// userHeader carries the caller id when no token is sent.
const userHeader = "X-User-ID"

func (h *Handler) SetRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		// identity is read when present but never enforced
		if h.tokenAuth != nil {
			r.Use(jwtauth.Verifier(h.tokenAuth))
		}

		r.Get("/health", h.HealthHandler)
		r.Get("/presets/standard", h.StandardPresetHandler)
		r.Post("/currency/entry", h.CurrencyEntryHandler)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.CreateSessionHandler)
			r.Get("/", h.ListSessionsHandler)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", h.GetSessionHandler)
				r.Patch("/", h.UpdateSessionHandler)
				r.Delete("/", h.DeleteSessionHandler)
				r.Post("/join", h.JoinSessionHandler)
				r.Get("/participants", h.ParticipantsHandler)
				r.Get("/chip-colors", h.ChipColorsHandler)
				r.Get("/stats", h.SessionStatsHandler)
				r.Get("/sheet", h.LoadSheetHandler)
				r.Put("/sheet", h.SaveSheetHandler)
				r.Post("/sheet/detect", h.DetectSheetHandler)
				r.Post("/players", h.CreatePlayerHandler)
				r.Get("/players", h.ListPlayersHandler)
			})
		})

		r.Route("/players/{playerID}", func(r chi.Router) {
			r.Get("/", h.GetPlayerHandler)
			r.Delete("/", h.DeletePlayerHandler)
			r.Put("/buy-in", h.UpdateBuyInHandler)
			r.Get("/chip-counts", h.ChipCountsHandler)
			r.Put("/chip-counts", h.ReplaceChipCountsHandler)
		})
	})
}

// InitAuth sets up token verification. Without a secret no token is read and
// callers identify themselves with the X-User-ID header.
func (h *Handler) InitAuth(secret string) {
	if secret == "" {
		log.Warn("JWT_SECRET_KEY is empty, caller identity comes from the " + userHeader + " header only")
		return
	}
	h.tokenAuth = jwtauth.New("HS256", []byte(secret), nil)

	if log.IsLevelEnabled(log.DebugLevel) {
		_, tokenString, _ := h.tokenAuth.Encode(map[string]interface{}{
			"user_id": "dev-user",
			"exp":     time.Now().Add(7 * 24 * time.Hour).Unix(),
		})
		log.Debugf("DEBUG: JWT for testing : %s", tokenString)
	}
}

// userID is the caller's id from the token's user_id claim, else from the header.
func userID(r *http.Request) string {
	if _, claims, err := jwtauth.FromContext(r.Context()); err == nil && claims != nil {
		if v, ok := claims["user_id"]; ok && v != nil {
			if id := strings.TrimSpace(fmt.Sprint(v)); id != "" {
				return id
			}
		}
	}
	return strings.TrimSpace(r.Header.Get(userHeader))
}
