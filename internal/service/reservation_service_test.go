package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tucancha/internal/db"
	"tucancha/internal/entities"
	apierrors "tucancha/internal/errors"
	"tucancha/internal/repository"
)

// fakeReservationStore is an in-memory ReservationStore with the same
// overlap semantics as the SQL implementation.
type fakeReservationStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*db.Reservation
}

func newFakeStore() *fakeReservationStore {
	return &fakeReservationStore{nextID: 1, rows: make(map[int64]*db.Reservation)}
}

func (s *fakeReservationStore) FindOverlapping(ctx context.Context, courtID int64, start, end time.Time, excludeID int64) ([]db.Reservation, error) {
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

func (s *fakeReservationStore) Create(ctx context.Context, res *db.Reservation) error {
	overlapping, _ := s.FindOverlapping(ctx, res.CourtID, res.StartTime, res.EndTime, 0)
	if len(overlapping) > 0 {
		return apierrors.Conflict("the court is not available for the selected time")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	res.ID = s.nextID
	s.nextID++
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt
	cp := *res
	s.rows[res.ID] = &cp
	return nil
}

func (s *fakeReservationStore) GetByID(ctx context.Context, id int64) (*db.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (s *fakeReservationStore) List(ctx context.Context, f repository.ReservationFilter) ([]db.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []db.Reservation
	for _, r := range s.rows {
		if f.UserID != 0 && r.UserID != f.UserID {
			continue
		}
		if f.CourtID != 0 && r.CourtID != f.CourtID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (s *fakeReservationStore) Update(ctx context.Context, res *db.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[res.ID]; !ok {
		return sql.ErrNoRows
	}
	res.UpdatedAt = time.Now()
	cp := *res
	s.rows[res.ID] = &cp
	return nil
}

func (s *fakeReservationStore) UpdateStatus(ctx context.Context, id int64, status string, notes *string) (*db.Reservation, error) {
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
	r.UpdatedAt = time.Now()
	cp := *r
	return &cp, nil
}

func (s *fakeReservationStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return nil
}

// fakeNotifier records calls so tests can wait on the fire-and-forget
// goroutines.
type fakeNotifier struct {
	mu       sync.Mutex
	occupied []int64
	released []int64
	done     chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{done: make(chan struct{}, 16)}
}

func (n *fakeNotifier) NotifyOccupied(ctx context.Context, courtID int64, start, end time.Time) {
	n.mu.Lock()
	n.occupied = append(n.occupied, courtID)
	n.mu.Unlock()
	n.done <- struct{}{}
}

func (n *fakeNotifier) NotifyReleased(ctx context.Context, courtID int64, start, end time.Time) {
	n.mu.Lock()
	n.released = append(n.released, courtID)
	n.mu.Unlock()
	n.done <- struct{}{}
}

func (n *fakeNotifier) wait(t *testing.T) {
	t.Helper()
	select {
	case <-n.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notifier call")
	}
}

func newTestService() (*ReservationService, *fakeReservationStore, *fakeNotifier) {
	store := newFakeStore()
	notifier := newFakeNotifier()
	return NewReservationService(store, notifier, nil, nil), store, notifier
}

func reqFor(courtID int64, start, end string) *entities.ReservationRequest {
	return &entities.ReservationRequest{
		UserID:    1,
		CourtID:   courtID,
		StartTime: start,
		EndTime:   end,
	}
}

func TestCreateReservation(t *testing.T) {
	svc, _, notifier := newTestService()
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, reqFor(1, "2026-03-10T10:00:00", "2026-03-10T11:00:00"))
	require.NoError(t, err)
	assert.Equal(t, db.StatusPending, res.Status)
	assert.Equal(t, float64(0), res.TotalPrice)
	assert.NotZero(t, res.ID)

	notifier.wait(t)
	assert.Equal(t, []int64{1}, notifier.occupied)
}

func TestCreateReservationRejectsOverlap(t *testing.T) {
	svc, _, notifier := newTestService()
	ctx := context.Background()

	_, err := svc.CreateReservation(ctx, reqFor(1, "2026-03-10T10:00:00", "2026-03-10T11:00:00"))
	require.NoError(t, err)
	notifier.wait(t)

	_, err = svc.CreateReservation(ctx, reqFor(1, "2026-03-10T10:30:00", "2026-03-10T11:30:00"))
	require.Error(t, err)
	assert.Equal(t, apierrors.KindConflict, apierrors.KindOf(err))
}

func TestCreateReservationAllowsBackToBack(t *testing.T) {
	svc, _, notifier := newTestService()
	ctx := context.Background()

	_, err := svc.CreateReservation(ctx, reqFor(1, "2026-03-10T10:00:00", "2026-03-10T11:00:00"))
	require.NoError(t, err)
	notifier.wait(t)

	// The new booking starts exactly when the first ends.
	_, err = svc.CreateReservation(ctx, reqFor(1, "2026-03-10T11:00:00", "2026-03-10T12:00:00"))
	require.NoError(t, err)
	notifier.wait(t)
}

func TestCreateReservationAllowsOtherCourt(t *testing.T) {
	svc, _, notifier := newTestService()
	ctx := context.Background()

	_, err := svc.CreateReservation(ctx, reqFor(1, "2026-03-10T10:00:00", "2026-03-10T11:00:00"))
	require.NoError(t, err)
	notifier.wait(t)

	_, err = svc.CreateReservation(ctx, reqFor(2, "2026-03-10T10:00:00", "2026-03-10T11:00:00"))
	require.NoError(t, err)
	notifier.wait(t)
}

func TestCreateReservationValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name string
		req  *entities.ReservationRequest
	}{
		{"missing user and court", &entities.ReservationRequest{StartTime: "2026-03-10T10:00:00", EndTime: "2026-03-10T11:00:00"}},
		{"missing times", reqFor(1, "", "")},
		{"end before start", reqFor(1, "2026-03-10T11:00:00", "2026-03-10T10:00:00")},
		{"zero-length interval", reqFor(1, "2026-03-10T10:00:00", "2026-03-10T10:00:00")},
		{"unparseable time", reqFor(1, "not-a-time", "2026-03-10T11:00:00")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateReservation(ctx, tc.req)
			require.Error(t, err)
			assert.Equal(t, apierrors.KindValidation, apierrors.KindOf(err))
		})
	}
}

func TestCreateReservationKeepsSubmittedPrice(t *testing.T) {
	svc, _, notifier := newTestService()
	ctx := context.Background()

	price := 25000.0
	req := reqFor(1, "2026-03-10T10:00:00", "2026-03-10T11:00:00")
	req.TotalPrice = &price

	res, err := svc.CreateReservation(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, price, res.TotalPrice)
	notifier.wait(t)
}

func TestCancelledReservationFreesInterval(t *testing.T) {
	svc, _, notifier := newTestService()
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, reqFor(1, "2026-03-10T10:00:00", "2026-03-10T11:00:00"))
	require.NoError(t, err)
	notifier.wait(t)

	_, err = svc.CancelReservation(ctx, res.ID, "rain")
	require.NoError(t, err)
	notifier.wait(t)
	assert.Equal(t, []int64{1}, notifier.released)

	_, err = svc.CreateReservation(ctx, reqFor(1, "2026-03-10T10:00:00", "2026-03-10T11:00:00"))
	require.NoError(t, err)
	notifier.wait(t)
}

func TestCancelStoresReasonInNotes(t *testing.T) {
	svc, _, notifier := newTestService()
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, reqFor(1, "2026-03-10T10:00:00", "2026-03-10T11:00:00"))
	require.NoError(t, err)
	notifier.wait(t)

	cancelled, err := svc.CancelReservation(ctx, res.ID, "rain")
	require.NoError(t, err)
	notifier.wait(t)
	assert.Equal(t, db.StatusCancelled, cancelled.Status)
	assert.Equal(t, "rain", cancelled.Notes)
}

func TestLifecycleTransitions(t *testing.T) {
	svc, _, notifier := newTestService()
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, reqFor(1, "2026-03-10T10:00:00", "2026-03-10T11:00:00"))
	require.NoError(t, err)
	notifier.wait(t)

	confirmed, err := svc.ConfirmReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusConfirmed, confirmed.Status)

	completed, err := svc.CompleteReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusCompleted, completed.Status)

	// Completed is terminal.
	_, err = svc.ConfirmReservation(ctx, res.ID)
	require.Error(t, err)
	assert.Equal(t, apierrors.KindConflict, apierrors.KindOf(err))

	_, err = svc.CancelReservation(ctx, res.ID, "")
	require.Error(t, err)
	assert.Equal(t, apierrors.KindConflict, apierrors.KindOf(err))
}

func TestCancelledIsTerminal(t *testing.T) {
	svc, _, notifier := newTestService()
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, reqFor(1, "2026-03-10T10:00:00", "2026-03-10T11:00:00"))
	require.NoError(t, err)
	notifier.wait(t)

	_, err = svc.CancelReservation(ctx, res.ID, "")
	require.NoError(t, err)
	notifier.wait(t)

	_, err = svc.ConfirmReservation(ctx, res.ID)
	require.Error(t, err)
	assert.Equal(t, apierrors.KindConflict, apierrors.KindOf(err))

	_, err = svc.CompleteReservation(ctx, res.ID)
	require.Error(t, err)
	assert.Equal(t, apierrors.KindConflict, apierrors.KindOf(err))
}

func TestTransitionUnknownReservation(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ConfirmReservation(context.Background(), 999)
	require.Error(t, err)
	assert.Equal(t, apierrors.KindNotFound, apierrors.KindOf(err))
}

func TestUpdateReservationSameSlotAccepted(t *testing.T) {
	svc, _, notifier := newTestService()
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, reqFor(1, "2026-03-10T10:00:00", "2026-03-10T11:00:00"))
	require.NoError(t, err)
	notifier.wait(t)

	// Keeping the same interval must not conflict with itself.
	req := reqFor(1, "2026-03-10T10:00:00", "2026-03-10T11:00:00")
	req.Notes = "bring extra balls"
	updated, err := svc.UpdateReservation(ctx, res.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "bring extra balls", updated.Notes)
}

func TestUpdateReservationMoveToTakenSlot(t *testing.T) {
	svc, _, notifier := newTestService()
	ctx := context.Background()

	_, err := svc.CreateReservation(ctx, reqFor(1, "2026-03-10T10:00:00", "2026-03-10T11:00:00"))
	require.NoError(t, err)
	notifier.wait(t)

	second, err := svc.CreateReservation(ctx, reqFor(1, "2026-03-10T12:00:00", "2026-03-10T13:00:00"))
	require.NoError(t, err)
	notifier.wait(t)

	_, err = svc.UpdateReservation(ctx, second.ID, reqFor(1, "2026-03-10T10:30:00", "2026-03-10T11:30:00"))
	require.Error(t, err)
	assert.Equal(t, apierrors.KindConflict, apierrors.KindOf(err))
}

func TestUpdateReservationTerminalStatusChange(t *testing.T) {
	svc, _, notifier := newTestService()
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, reqFor(1, "2026-03-10T10:00:00", "2026-03-10T11:00:00"))
	require.NoError(t, err)
	notifier.wait(t)

	_, err = svc.CancelReservation(ctx, res.ID, "")
	require.NoError(t, err)
	notifier.wait(t)

	req := reqFor(1, "2026-03-10T10:00:00", "2026-03-10T11:00:00")
	req.Status = db.StatusConfirmed
	_, err = svc.UpdateReservation(ctx, res.ID, req)
	require.Error(t, err)
	assert.Equal(t, apierrors.KindConflict, apierrors.KindOf(err))
}

func TestIsAvailable(t *testing.T) {
	svc, _, notifier := newTestService()
	ctx := context.Background()

	start, _ := entities.ParseTime("2026-03-10T10:00:00")
	end, _ := entities.ParseTime("2026-03-10T11:00:00")

	available, err := svc.IsAvailable(ctx, 1, start, end)
	require.NoError(t, err)
	assert.True(t, available)

	_, err = svc.CreateReservation(ctx, reqFor(1, "2026-03-10T10:00:00", "2026-03-10T11:00:00"))
	require.NoError(t, err)
	notifier.wait(t)

	available, err = svc.IsAvailable(ctx, 1, start, end)
	require.NoError(t, err)
	assert.False(t, available)

	// Touching at the boundary does not block.
	available, err = svc.IsAvailable(ctx, 1, end, end.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, available)
}

func TestDeleteReservationIsUnconditional(t *testing.T) {
	svc, store, notifier := newTestService()
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, reqFor(1, "2026-03-10T10:00:00", "2026-03-10T11:00:00"))
	require.NoError(t, err)
	notifier.wait(t)

	_, err = svc.ConfirmReservation(ctx, res.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReservation(ctx, res.ID))
	_, err = store.GetByID(ctx, res.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
