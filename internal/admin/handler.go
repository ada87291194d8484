package admin

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

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

func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var dto CreateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	role, err := h.Service.CreateRole(dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, role)
}

func (h *Handler) GetRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.ListRoles()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"roles": roles,
		"total": len(roles),
	})
}

func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	var dto AssignRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Service.AssignRole(dto); err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "role assigned"})
}

// BulkUploadRoles accepts CSV either as a raw text/csv body or as JSON with
// a csvData field.
func (h *Handler) BulkUploadRoles(w http.ResponseWriter, r *http.Request) {
	var csvBody string

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		var payload struct {
			CSVData string `json:"csvData"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.CSVData == "" {
			h.WriteError(w, http.StatusBadRequest, "csvData is required")
			return
		}
		csvBody = payload.CSVData
	} else {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "unreadable request body")
			return
		}
		csvBody = string(raw)
	}

	results, err := h.Service.BulkUploadRoles(strings.NewReader(csvBody))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	assigned := 0
	for _, res := range results {
		if res.Status == BulkStatusAssigned {
			assigned++
		}
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"results":  results,
		"total":    len(results),
		"assigned": assigned,
		"skipped":  len(results) - assigned,
	})
}
