package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"tucancha/internal/db"
	"tucancha/internal/entities"
	apierrors "tucancha/internal/errors"
	"tucancha/internal/repository"
)

// ReservationStore is the persistence contract for reservations. The
// Postgres implementation lives in repository; tests swap in an in-memory
// one. Create must run its overlap scan and insert atomically.
type ReservationStore interface {
	FindOverlapping(ctx context.Context, courtID int64, start, end time.Time, excludeID int64) ([]db.Reservation, error)
	GetByID(ctx context.Context, id int64) (*db.Reservation, error)
	List(ctx context.Context, f repository.ReservationFilter) ([]db.Reservation, error)
	Create(ctx context.Context, res *db.Reservation) error
	Update(ctx context.Context, res *db.Reservation) error
	UpdateStatus(ctx context.Context, id int64, status string, notes *string) (*db.Reservation, error)
	Delete(ctx context.Context, id int64) error
}

// EventPublisher pushes lifecycle events to the broker. Implementations are
// best-effort; callers ignore their errors.
type EventPublisher interface {
	PublishReservationEvent(ctx context.Context, key string, res *db.Reservation) error
}

// StatusSender delivers email/SMS to the reservation's user. Implementations
// must not block the caller.
type StatusSender interface {
	NotifyReservationStatus(res *db.Reservation, status string)
}

type ReservationService struct {
	store    ReservationStore
	notifier OccupancyNotifier
	events   EventPublisher
	sender   StatusSender
}

// NewReservationService wires the reservation core. events and sender may be
// nil when the broker or the messaging providers are not configured.
func NewReservationService(store ReservationStore, notifier OccupancyNotifier, events EventPublisher, sender StatusSender) *ReservationService {
	return &ReservationService{store: store, notifier: notifier, events: events, sender: sender}
}

func (s *ReservationService) ListReservations(ctx context.Context, f repository.ReservationFilter) ([]db.Reservation, error) {
	return s.store.List(ctx, f)
}

func (s *ReservationService) GetReservation(ctx context.Context, id int64) (*db.Reservation, error) {
	res, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierrors.NotFound(fmt.Sprintf("reservation not found with id: %d", id))
		}
		return nil, err
	}
	return res, nil
}

// IsAvailable reports whether the court has no non-cancelled reservation
// intersecting [start, end). Equal boundaries do not conflict: intervals are
// half-open, so back-to-back bookings are legal.
func (s *ReservationService) IsAvailable(ctx context.Context, courtID int64, start, end time.Time) (bool, error) {
	overlapping, err := s.store.FindOverlapping(ctx, courtID, start, end, 0)
	if err != nil {
		return false, err
	}
	return len(overlapping) == 0, nil
}

func validateInterval(startStr, endStr string) (time.Time, time.Time, error) {
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, apierrors.Validation("start_time and end_time are required")
	}
	start, err := entities.ParseTime(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, apierrors.Validation(err.Error())
	}
	end, err := entities.ParseTime(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, apierrors.Validation(err.Error())
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, apierrors.Validation("end_time must be after start_time")
	}
	return start, end, nil
}

func (s *ReservationService) CreateReservation(ctx context.Context, req *entities.ReservationRequest) (*db.Reservation, error) {
	if req.UserID == 0 || req.CourtID == 0 {
		return nil, apierrors.Validation("user_id and court_id are required")
	}
	start, end, err := validateInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	// Price stays as submitted; zero when absent. Deriving it from the
	// court's hourly rate is a separate feature.
	var price float64
	if req.TotalPrice != nil {
		price = *req.TotalPrice
	}

	res := &db.Reservation{
		UserID:     req.UserID,
		CourtID:    req.CourtID,
		StartTime:  start,
		EndTime:    end,
		TotalPrice: price,
		Status:     db.StatusPending,
		Notes:      req.Notes,
	}
	if err := s.store.Create(ctx, res); err != nil {
		return nil, err
	}

	// The reservation row is the source of truth. The occupancy record is
	// propagated out-of-band and must never fail or delay the response.
	go s.notifier.NotifyOccupied(context.Background(), res.CourtID, res.StartTime, res.EndTime)

	return res, nil
}

func (s *ReservationService) UpdateReservation(ctx context.Context, id int64, req *entities.ReservationRequest) (*db.Reservation, error) {
	existing, err := s.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.UserID == 0 || req.CourtID == 0 {
		return nil, apierrors.Validation("user_id and court_id are required")
	}
	start, end, err := validateInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	if req.Status != "" && req.Status != existing.Status {
		if db.Terminal(existing.Status) {
			return nil, apierrors.Conflict(fmt.Sprintf("reservation %d is %s and cannot change state", id, existing.Status))
		}
		switch req.Status {
		case db.StatusPending, db.StatusConfirmed, db.StatusCancelled, db.StatusCompleted:
		default:
			return nil, apierrors.Validation(fmt.Sprintf("unknown status: %s", req.Status))
		}
	}

	// Re-run the admission check only when the slot moved, excluding this
	// reservation so keeping the same interval is always accepted.
	if req.CourtID != existing.CourtID || !start.Equal(existing.StartTime) || !end.Equal(existing.EndTime) {
		overlapping, err := s.store.FindOverlapping(ctx, req.CourtID, start, end, id)
		if err != nil {
			return nil, err
		}
		if len(overlapping) > 0 {
			return nil, apierrors.Conflict("the court is not available for the selected time")
		}
	}

	existing.UserID = req.UserID
	existing.CourtID = req.CourtID
	existing.StartTime = start
	existing.EndTime = end
	if req.TotalPrice != nil {
		existing.TotalPrice = *req.TotalPrice
	}
	if req.Status != "" {
		existing.Status = req.Status
	}
	existing.Notes = req.Notes

	if err := s.store.Update(ctx, existing); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierrors.NotFound(fmt.Sprintf("reservation not found with id: %d", id))
		}
		return nil, err
	}
	return existing, nil
}

func (s *ReservationService) ConfirmReservation(ctx context.Context, id int64) (*db.Reservation, error) {
	return s.transition(ctx, id, db.StatusConfirmed, nil)
}

// CancelReservation flips the reservation to cancelled, stores the optional
// reason in the notes and releases the occupancy record out-of-band.
func (s *ReservationService) CancelReservation(ctx context.Context, id int64, reason string) (*db.Reservation, error) {
	var notes *string
	if reason != "" {
		notes = &reason
	}
	res, err := s.transition(ctx, id, db.StatusCancelled, notes)
	if err != nil {
		return nil, err
	}
	go s.notifier.NotifyReleased(context.Background(), res.CourtID, res.StartTime, res.EndTime)
	return res, nil
}

func (s *ReservationService) CompleteReservation(ctx context.Context, id int64) (*db.Reservation, error) {
	return s.transition(ctx, id, db.StatusCompleted, nil)
}

func (s *ReservationService) transition(ctx context.Context, id int64, target string, notes *string) (*db.Reservation, error) {
	existing, err := s.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	// Cancelled and completed are terminal.
	if db.Terminal(existing.Status) && existing.Status != target {
		return nil, apierrors.Conflict(fmt.Sprintf("reservation %d is %s and cannot change state", id, existing.Status))
	}

	res, err := s.store.UpdateStatus(ctx, id, target, notes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierrors.NotFound(fmt.Sprintf("reservation not found with id: %d", id))
		}
		return nil, err
	}

	if s.events != nil {
		go func(r db.Reservation) {
			if err := s.events.PublishReservationEvent(context.Background(), "reservation."+target, &r); err != nil {
				log.Printf("reservation %d: event publish failed: %v", r.ID, err)
			}
		}(*res)
	}
	if s.sender != nil && (target == db.StatusConfirmed || target == db.StatusCancelled) {
		s.sender.NotifyReservationStatus(res, target)
	}
	return res, nil
}

// DeleteReservation is an unconditional hard delete with no state check.
func (s *ReservationService) DeleteReservation(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}
