package api

import (
	"encoding/json"
	"net/http"

	"tucancha/internal/entities"
	apierrors "tucancha/internal/errors"
	"tucancha/internal/repository"
	"tucancha/internal/service"
)

type CourtHandler struct {
	Service *service.CourtService
}

func NewCourtHandler(svc *service.CourtService) *CourtHandler {
	return &CourtHandler{Service: svc}
}

func (h *CourtHandler) ListCourts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.CourtFilter{
		ActiveOnly: q.Get("active") == "true",
		Type:       q.Get("type"),
		City:       q.Get("city"),
	}
	courts, err := h.Service.ListCourts(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, courts)
}

func (h *CourtHandler) GetCourt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	court, err := h.Service.GetCourt(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, court)
}

func (h *CourtHandler) CreateCourt(w http.ResponseWriter, r *http.Request) {
	var req entities.CourtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierrors.Validation("invalid request body"))
		return
	}
	court, err := h.Service.CreateCourt(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, court)
}

func (h *CourtHandler) UpdateCourt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req entities.CourtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierrors.Validation("invalid request body"))
		return
	}
	court, err := h.Service.UpdateCourt(r.Context(), id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, court)
}

func (h *CourtHandler) DeactivateCourt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Service.DeactivateCourt(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CourtHandler) DeleteCourt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Service.DeleteCourt(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
