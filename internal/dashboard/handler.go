package dashboard

import (
	"encoding/json"
	"log/slog"
	"net/http"

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

func (h *Handler) GetAdminDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.Service.GetAdminDashboard()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dash)
}

func (h *Handler) GetOrgMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.Service.GetOrgMetrics()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, metrics)
}

func (h *Handler) GetSkillGapAnalysis(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.GetSkillGapAnalysis()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	rows, err := h.Service.GetSkillGapRows()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"skills": entries,
		"rows":   rows,
		"total":  len(entries),
	})
}

func (h *Handler) GetDepartmentHeatmap(w http.ResponseWriter, r *http.Request) {
	cells, err := h.Service.GetDepartmentHeatmap()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"cells": cells,
		"total": len(cells),
	})
}

func (h *Handler) GetSkillDirectory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.GetSkillDirectory()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"skills": entries,
		"total":  len(entries),
	})
}

func (h *Handler) GetEmployeeMatrix(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.GetEmployeeMatrix()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"employees": rows,
		"total":     len(rows),
	})
}

func (h *Handler) GetDepartmentMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.Service.GetDepartmentMetrics(chi.URLParam(r, "department"))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, metrics)
}

func (h *Handler) GetManagerDashboard(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	dash, err := h.Service.GetManagerDashboard(current.ID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dash)
}

func (h *Handler) GetTeamOverview(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	team, err := h.Service.GetTeamOverview(current.ID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"team":  team,
		"total": len(team),
	})
}

func (h *Handler) GetTeamSkillOverview(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	counts, err := h.Service.GetTeamSkillOverview(current.ID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"skills": counts,
		"total":  len(counts),
	})
}

func (h *Handler) GetTeamUsersBySkill(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	team, err := h.Service.GetTeamUsersBySkill(current.ID, chi.URLParam(r, "skillId"))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"team":  team,
		"total": len(team),
	})
}

func (h *Handler) GetTeamTickets(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	tickets, err := h.Service.GetTeamTickets(current.ID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"tickets": tickets,
		"total":   len(tickets),
	})
}

func (h *Handler) GetEmployeeDashboard(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	dash, err := h.Service.GetEmployeeDashboard(current.ID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dash)
}

func (h *Handler) UpdateSkillExpectation(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto UpdateExpectationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.Service.UpdateSkillExpectation(current.ID, chi.URLParam(r, "assessmentId"), dto.ExpectedLevel)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, entry)
}
