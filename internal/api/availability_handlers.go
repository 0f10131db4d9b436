package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"tucancha/internal/entities"
	apierrors "tucancha/internal/errors"
	"tucancha/internal/service"
)

type AvailabilityHandler struct {
	Service *service.AvailabilityService
}

func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

func (h *AvailabilityHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	var courtID int64
	if v := r.URL.Query().Get("court_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, apierrors.Validation("invalid court_id"))
			return
		}
		courtID = id
	}
	records, err := h.Service.ListRecords(r.Context(), courtID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.ToAvailabilityResponses(records))
}

func (h *AvailabilityHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.Service.GetRecord(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.ToAvailabilityResponse(rec))
}

func (h *AvailabilityHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req entities.AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierrors.Validation("invalid request body"))
		return
	}
	rec, err := h.Service.CreateRecord(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entities.ToAvailabilityResponse(rec))
}

func (h *AvailabilityHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req entities.AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierrors.Validation("invalid request body"))
		return
	}
	rec, err := h.Service.UpdateRecord(r.Context(), id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.ToAvailabilityResponse(rec))
}

func (h *AvailabilityHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Service.DeleteRecord(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckAvailability handles GET /availability/check against the calendar's
// blocking records.
func (h *AvailabilityHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	courtID, err := strconv.ParseInt(q.Get("court_id"), 10, 64)
	if err != nil || courtID <= 0 {
		writeError(w, apierrors.Validation("invalid court_id"))
		return
	}
	available, err := h.Service.CheckAvailability(r.Context(), courtID, q.Get("start"), q.Get("end"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.AvailabilityCheckResponse{Available: available})
}
