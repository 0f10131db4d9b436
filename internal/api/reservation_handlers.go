package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"tucancha/internal/entities"
	apierrors "tucancha/internal/errors"
	"tucancha/internal/repository"
	"tucancha/internal/service"
)

type ReservationHandler struct {
	Service *service.ReservationService
}

func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{Service: svc}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, apierrors.Validation("invalid id")
	}
	return id, nil
}

func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f repository.ReservationFilter
	if v := q.Get("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, apierrors.Validation("invalid user_id"))
			return
		}
		f.UserID = id
	}
	if v := q.Get("court_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, apierrors.Validation("invalid court_id"))
			return
		}
		f.CourtID = id
	}
	f.Status = q.Get("status")
	if v := q.Get("from"); v != "" {
		t, err := entities.ParseTime(v)
		if err != nil {
			writeError(w, apierrors.Validation(err.Error()))
			return
		}
		f.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := entities.ParseTime(v)
		if err != nil {
			writeError(w, apierrors.Validation(err.Error()))
			return
		}
		f.To = t
	}

	reservations, err := h.Service.ListReservations(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservations)
}

func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := h.Service.GetReservation(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req entities.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierrors.Validation("invalid request body"))
		return
	}
	res, err := h.Service.CreateReservation(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *ReservationHandler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req entities.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierrors.Validation("invalid request body"))
		return
	}
	res, err := h.Service.UpdateReservation(r.Context(), id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// UpdateStatus handles PATCH /reservations/{id}/{action} for confirm, cancel
// and complete. The cancel action takes an optional reason query parameter.
func (h *ReservationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	switch mux.Vars(r)["action"] {
	case "confirm":
		res, err := h.Service.ConfirmReservation(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	case "cancel":
		res, err := h.Service.CancelReservation(r.Context(), id, r.URL.Query().Get("reason"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	case "complete":
		res, err := h.Service.CompleteReservation(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	default:
		writeError(w, apierrors.Validation("unknown action"))
	}
}

func (h *ReservationHandler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Service.DeleteReservation(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckAvailability handles GET /reservations/availability. It answers from
// the reservation store only.
func (h *ReservationHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	courtID, err := strconv.ParseInt(q.Get("court_id"), 10, 64)
	if err != nil || courtID <= 0 {
		writeError(w, apierrors.Validation("invalid court_id"))
		return
	}
	start, err := entities.ParseTime(q.Get("start"))
	if err != nil {
		writeError(w, apierrors.Validation(err.Error()))
		return
	}
	end, err := entities.ParseTime(q.Get("end"))
	if err != nil {
		writeError(w, apierrors.Validation(err.Error()))
		return
	}
	if !end.After(start) {
		writeError(w, apierrors.Validation("end must be after start"))
		return
	}

	available, err := h.Service.IsAvailable(r.Context(), courtID, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.AvailabilityCheckResponse{Available: available})
}
