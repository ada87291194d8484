package helpdesk

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-playground/validator/v10"

	"github.com/frahmantamala/skill-matrix/internal/auth"
	"github.com/frahmantamala/skill-matrix/internal/transport"
	"github.com/frahmantamala/skill-matrix/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	validate *validator.Validate
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		validate:    validator.New(),
	}
}

func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateTicketDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.Service.CreateTicket(current.ID, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) GetTickets(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := ListTicketsQuery{
		Search:    r.URL.Query().Get("search"),
		Status:    r.URL.Query().Get("status"),
		QueryType: r.URL.Query().Get("queryType"),
		Limit:     parseIntParam(r, "limit", 20),
		Offset:    parseIntParam(r, "offset", 0),
	}

	tickets, total, err := h.Service.ListTickets(q, current)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"tickets": tickets,
		"total":   total,
	})
}

func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	t, err := h.Service.GetTicket(chi.URLParam(r, "id"), current)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	var dto UpdateTicketDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.Service.UpdateTicket(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) GetTicketStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.GetTicketStats()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return fallback
	}
	return val
}
