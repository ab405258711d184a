package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/avvvet/chip-services/internal/chipsvc/detect"
	"github.com/avvvet/chip-services/internal/chipsvc/ledger"
	"github.com/avvvet/chip-services/internal/chipsvc/notice"
	"github.com/avvvet/chip-services/internal/chipsvc/service"
	"github.com/go-chi/jwtauth"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

// maxUploadSize bounds a chip image upload.
const maxUploadSize = 10 << 20

type Handler struct {
	tokenAuth *jwtauth.JWTAuth
	validate  *validator.Validate
	port      string

	sessions *service.SessionService
	players  *service.PlayerService
	stats    *service.StatsService
	sheets   *service.SheetService
	notices  *notice.Boards
}

func NewHandler(port string, sessions *service.SessionService, players *service.PlayerService,
	stats *service.StatsService, sheets *service.SheetService, notices *notice.Boards) *Handler {
	return &Handler{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		port:     port,
		sessions: sessions,
		players:  players,
		stats:    stats,
		sheets:   sheets,
		notices:  notices,
	}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("unable to encode response: %s", err)
	}
}

func (h *Handler) ok(w http.ResponseWriter, code int, message string, data interface{}) {
	h.CreateResponse(w, Response{Message: message, Code: code, Data: data})
}

func (h *Handler) badRequest(w http.ResponseWriter, message string) {
	h.CreateResponse(w, Response{Message: message, Code: http.StatusBadRequest, Error: message})
}

// fail maps a service error to a response. storeMessage is what the user sees
// when the backend failed.
func (h *Handler) fail(w http.ResponseWriter, err error, storeMessage string) {
	if v, ok := service.IsValidation(err); ok {
		h.badRequest(w, v.Message)
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		h.CreateResponse(w, Response{Message: err.Error(), Code: http.StatusNotFound, Error: err.Error()})
	case errors.Is(err, detect.ErrNotImage):
		h.badRequest(w, "Please upload a JPEG, PNG or WebP image")
	case errors.Is(err, service.ErrDetection):
		h.CreateResponse(w, Response{Message: "Failed to detect chips", Code: http.StatusBadGateway, Error: err.Error()})
	case errors.Is(err, ledger.ErrInvalidInput):
		h.badRequest(w, "Please enter a valid number")
	default:
		h.CreateResponse(w, Response{Message: storeMessage, Code: http.StatusInternalServerError, Error: storeMessage})
	}
}

// decode reads a JSON body into v and runs its validate tags.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.badRequest(w, "Invalid request body")
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			h.badRequest(w, fmt.Sprintf("Invalid value for %s", verrs[0].Field()))
			return false
		}
		h.badRequest(w, "Invalid request body")
		return false
	}
	return true
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.ok(w, http.StatusOK, "chip service is running at port "+h.port, nil)
}

func (h *Handler) StandardPresetHandler(w http.ResponseWriter, r *http.Request) {
	h.ok(w, http.StatusOK, "", chipColorViews(service.StandardColors("")))
}
