package settings

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

func (h *Handler) CreateField(w http.ResponseWriter, r *http.Request) {
	var dto CreateFieldDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	f, err := h.Service.CreateField(dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, f)
}

func (h *Handler) GetFields(w http.ResponseWriter, r *http.Request) {
	fields, err := h.Service.GetFields()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"fields": fields,
		"total":  len(fields),
	})
}

func (h *Handler) GetField(w http.ResponseWriter, r *http.Request) {
	f, err := h.Service.GetField(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, f)
}

func (h *Handler) UpdateField(w http.ResponseWriter, r *http.Request) {
	var dto UpdateFieldDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	f, err := h.Service.UpdateField(chi.URLParam(r, "id"), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, f)
}

func (h *Handler) DeleteField(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteField(chi.URLParam(r, "id")); err != nil {
		h.WriteAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) MoveEmployee(w http.ResponseWriter, r *http.Request) {
	var dto MoveEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.Service.MoveEmployee(dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) BulkMove(w http.ResponseWriter, r *http.Request) {
	var dto BulkMoveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	views, err := h.Service.BulkMove(dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"employees": views,
		"total":     len(views),
	})
}

func (h *Handler) SearchEmployees(w http.ResponseWriter, r *http.Request) {
	q := SearchEmployeesQuery{
		Search:     r.URL.Query().Get("search"),
		Department: r.URL.Query().Get("department"),
		Limit:      parseIntParam(r, "limit", 20),
		Offset:     parseIntParam(r, "offset", 0),
	}
	if raw := r.URL.Query().Get("isActive"); raw != "" {
		active := raw == "true"
		q.IsActive = &active
	}

	views, total, err := h.Service.SearchEmployees(q)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"employees": views,
		"total":     total,
	})
}

func (h *Handler) DeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto DeactivateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Service.DeactivateEmployee(r.Context(), chi.URLParam(r, "id"), current.ID, dto); err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "employee deactivated"})
}

func (h *Handler) BulkDeactivate(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto BulkDeactivateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Service.BulkDeactivate(r.Context(), current.ID, dto); err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "employees deactivated",
		"count":   len(dto.EmployeeIDs),
	})
}

func (h *Handler) GetInactiveEmployees(w http.ResponseWriter, r *http.Request) {
	views, err := h.Service.GetInactiveEmployees()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"employees": views,
		"total":     len(views),
	})
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
