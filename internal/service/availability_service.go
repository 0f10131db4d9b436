package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tucancha/internal/db"
	"tucancha/internal/entities"
	apierrors "tucancha/internal/errors"
	"tucancha/internal/repository"
)

type AvailabilityService struct {
	Repo *repository.AvailabilityRepository
}

func NewAvailabilityService(repo *repository.AvailabilityRepository) *AvailabilityService {
	return &AvailabilityService{Repo: repo}
}

func (s *AvailabilityService) ListRecords(ctx context.Context, courtID int64) ([]db.AvailabilityRecord, error) {
	return s.Repo.List(ctx, courtID)
}

func (s *AvailabilityService) GetRecord(ctx context.Context, id int64) (*db.AvailabilityRecord, error) {
	rec, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierrors.NotFound(fmt.Sprintf("availability record not found with id: %d", id))
		}
		return nil, err
	}
	return rec, nil
}

func (s *AvailabilityService) recordFromRequest(req *entities.AvailabilityRequest) (*db.AvailabilityRecord, error) {
	if req.CourtID == 0 {
		return nil, apierrors.Validation("court_id is required")
	}
	start, end, err := validateInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	// Records default to available; the reservation service posts them as
	// unavailable to mark occupancy.
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	return &db.AvailabilityRecord{
		CourtID:   req.CourtID,
		StartTime: start,
		EndTime:   end,
		Available: available,
		Reason:    req.Reason,
	}, nil
}

func (s *AvailabilityService) CreateRecord(ctx context.Context, req *entities.AvailabilityRequest) (*db.AvailabilityRecord, error) {
	rec, err := s.recordFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *AvailabilityService) UpdateRecord(ctx context.Context, id int64, req *entities.AvailabilityRequest) (*db.AvailabilityRecord, error) {
	if _, err := s.GetRecord(ctx, id); err != nil {
		return nil, err
	}
	rec, err := s.recordFromRequest(req)
	if err != nil {
		return nil, err
	}
	rec.ID = id
	if err := s.Repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *AvailabilityService) DeleteRecord(ctx context.Context, id int64) error {
	if _, err := s.GetRecord(ctx, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}

// CheckAvailability reports whether the interval is free of blocking records
// for the court. It does not consult reservations; the reservation service
// owns that check.
func (s *AvailabilityService) CheckAvailability(ctx context.Context, courtID int64, startStr, endStr string) (bool, error) {
	if courtID == 0 {
		return false, apierrors.Validation("court_id is required")
	}
	start, end, err := validateInterval(startStr, endStr)
	if err != nil {
		return false, err
	}
	blocking, err := s.Repo.FindBlocking(ctx, courtID, start, end)
	if err != nil {
		return false, err
	}
	return len(blocking) == 0, nil
}
