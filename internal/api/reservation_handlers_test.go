package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tucancha/internal/db"
	apierrors "tucancha/internal/errors"
	"tucancha/internal/repository"
	"tucancha/internal/service"
)

type memStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*db.Reservation
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, rows: make(map[int64]*db.Reservation)}
}

func (s *memStore) FindOverlapping(ctx context.Context, courtID int64, start, end time.Time, excludeID int64) ([]db.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []db.Reservation
	for _, r := range s.rows {
		if r.CourtID != courtID || r.Status == db.StatusCancelled || r.ID == excludeID {
			continue
		}
		if r.StartTime.Before(end) && r.EndTime.After(start) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *memStore) Create(ctx context.Context, res *db.Reservation) error {
	overlapping, _ := s.FindOverlapping(ctx, res.CourtID, res.StartTime, res.EndTime, 0)
	if len(overlapping) > 0 {
		return apierrors.Conflict("the court is not available for the selected time")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	res.ID = s.nextID
	s.nextID++
	cp := *res
	s.rows[res.ID] = &cp
	return nil
}

func (s *memStore) GetByID(ctx context.Context, id int64) (*db.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (s *memStore) List(ctx context.Context, f repository.ReservationFilter) ([]db.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []db.Reservation{}
	for _, r := range s.rows {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (s *memStore) Update(ctx context.Context, res *db.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[res.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *res
	s.rows[res.ID] = &cp
	return nil
}

func (s *memStore) UpdateStatus(ctx context.Context, id int64, status string, notes *string) (*db.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	r.Status = status
	if notes != nil {
		r.Notes = *notes
	}
	cp := *r
	return &cp, nil
}

func (s *memStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return nil
}

type noopNotifier struct{}

func (noopNotifier) NotifyOccupied(ctx context.Context, courtID int64, start, end time.Time) {}
func (noopNotifier) NotifyReleased(ctx context.Context, courtID int64, start, end time.Time) {}

func newTestRouter() *mux.Router {
	svc := service.NewReservationService(newMemStore(), noopNotifier{}, nil, nil)
	handler := NewReservationHandler(svc)

	r := mux.NewRouter()
	r.HandleFunc("/reservations/availability", handler.CheckAvailability).Methods("GET")
	r.HandleFunc("/reservations", handler.ListReservations).Methods("GET")
	r.HandleFunc("/reservations", handler.CreateReservation).Methods("POST")
	r.HandleFunc("/reservations/{id}", handler.GetReservation).Methods("GET")
	r.HandleFunc("/reservations/{id}", handler.UpdateReservation).Methods("PUT")
	r.HandleFunc("/reservations/{id}", handler.DeleteReservation).Methods("DELETE")
	r.HandleFunc("/reservations/{id}/{action}", handler.UpdateStatus).Methods("PATCH")
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const createBody = `{"user_id":1,"court_id":1,"start_time":"2026-03-10T10:00:00","end_time":"2026-03-10T11:00:00"}`

func TestCreateReservationEndpoint(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/reservations", createBody)
	require.Equal(t, http.StatusCreated, w.Code)

	var res db.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, db.StatusPending, res.Status)
	assert.NotZero(t, res.ID)
}

func TestCreateReservationConflictEndpoint(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/reservations", createBody)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/reservations", createBody)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "not available")
}

func TestCreateReservationInvalidBody(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/reservations", `{"user_id":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "error"))
}

func TestGetReservationNotFound(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/reservations/42", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestConfirmAndCancelEndpoints(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/reservations", createBody)
	require.Equal(t, http.StatusCreated, w.Code)
	var res db.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	w = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/reservations/%d/confirm", res.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, db.StatusConfirmed, res.Status)

	w = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/reservations/%d/cancel?reason=rain", res.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, db.StatusCancelled, res.Status)
	assert.Equal(t, "rain", res.Notes)

	// Cancelled is terminal.
	w = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/reservations/%d/confirm", res.ID), "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownActionEndpoint(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/reservations", createBody)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPatch, "/reservations/1/freeze", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteReservationEndpoint(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/reservations", createBody)
	require.Equal(t, http.StatusCreated, w.Code)
	var res db.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/reservations/%d", res.ID), "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/reservations/%d", res.ID), "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAvailabilityCheckEndpoint(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodGet,
		"/reservations/availability?court_id=1&start=2026-03-10T10:00:00&end=2026-03-10T11:00:00", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"available":true}`, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/reservations", createBody)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet,
		"/reservations/availability?court_id=1&start=2026-03-10T10:30:00&end=2026-03-10T11:30:00", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"available":false}`, w.Body.String())

	// Missing parameters are a validation error.
	w = doJSON(t, router, http.MethodGet, "/reservations/availability?court_id=1", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListReservationsFilterValidation(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/reservations?user_id=abc", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/reservations?from=yesterday", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}
