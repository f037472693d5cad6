package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jannatulferdou/cybersheild/internal/apperr"
	"github.com/jannatulferdou/cybersheild/internal/caseservice"
	"github.com/jannatulferdou/cybersheild/internal/contact"
	"github.com/jannatulferdou/cybersheild/internal/models"
	"github.com/jannatulferdou/cybersheild/internal/resources"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Handler holds API route handlers.
type Handler struct {
	svc   *caseservice.Service
	relay *contact.Relay
	dir   *resources.Directory
}

// NewHandler creates a new Handler.
func NewHandler(svc *caseservice.Service, relay *contact.Relay, dir *resources.Directory) *Handler {
	return &Handler{svc: svc, relay: relay, dir: dir}
}

// SubmitReport handles POST /api/reports.
func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req SubmitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	rec, err := h.svc.SubmitReport(r.Context(), req)
	if err != nil {
		if models.IsValidationError(err) {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
			return
		}
		slog.Error("submit report failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// GetCase handles GET /api/cases/{id}.
func (h *Handler) GetCase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.svc.TrackCase(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("no matching case"))
		} else {
			slog.Error("track case failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// EscalateCase handles POST /api/cases/{id}/escalate.
func (h *Handler) EscalateCase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.svc.EscalateCase(r.Context(), id)
	if err != nil {
		h.writeTransitionError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ListCases handles GET /api/cases.
func (h *Handler) ListCases(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	recs, err := h.svc.ListRecent(r.Context(), limit)
	if err != nil {
		slog.Error("list cases failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, CaseListResponse{Cases: recs, Total: len(recs)})
}

// UpdateStatus handles PATCH /api/admin/cases/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 4<<10)
	id := chi.URLParam(r, "id")

	var req StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	status := models.CaseStatus(req.Status)
	if !status.Valid() {
		writeJSON(w, http.StatusBadRequest, errorBody("unknown status"))
		return
	}

	rec, err := h.svc.SetStatus(r.Context(), id, status)
	if err != nil {
		h.writeTransitionError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Contact handles POST /api/contact.
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		return
	}

	receipt, err := h.relay.Send(r.Context(), req)
	if err != nil {
		slog.Warn("contact relay failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("message could not be delivered, please try again"))
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// Hotlines handles GET /api/resources/hotlines.
func (h *Handler) Hotlines(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"hotlines": h.dir.Hotlines})
}

// Platforms handles GET /api/resources/platforms.
func (h *Handler) Platforms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"platforms": h.dir.Platforms})
}

func (h *Handler) writeTransitionError(w http.ResponseWriter, id string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("no matching case"))
	case errors.Is(err, apperr.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, errorBody("status transition not allowed"))
	default:
		slog.Error("status update failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
