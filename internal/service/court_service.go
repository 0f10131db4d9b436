package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"tucancha/internal/db"
	"tucancha/internal/entities"
	apierrors "tucancha/internal/errors"
	"tucancha/internal/repository"
)

type CourtService struct {
	Repo *repository.CourtRepository
}

func NewCourtService(repo *repository.CourtRepository) *CourtService {
	return &CourtService{Repo: repo}
}

func (s *CourtService) ListCourts(ctx context.Context, f repository.CourtFilter) ([]db.Court, error) {
	return s.Repo.List(ctx, f)
}

func (s *CourtService) GetCourt(ctx context.Context, id int64) (*db.Court, error) {
	court, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierrors.NotFound(fmt.Sprintf("court not found with id: %d", id))
		}
		return nil, err
	}
	return court, nil
}

func (s *CourtService) CreateCourt(ctx context.Context, req *entities.CourtRequest) (*db.Court, error) {
	if req.Name == "" || req.Type == "" || req.Address == "" {
		return nil, apierrors.Validation("name, type and address are required")
	}
	if req.PricePerHour < 0 {
		return nil, apierrors.Validation("price_per_hour cannot be negative")
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	court := &db.Court{
		Name:         req.Name,
		Description:  req.Description,
		Type:         req.Type,
		PricePerHour: req.PricePerHour,
		Address:      req.Address,
		City:         req.City,
		ImageURL:     req.ImageURL,
		Active:       active,
	}
	if err := s.Repo.Create(ctx, court); err != nil {
		return nil, err
	}
	return court, nil
}

func (s *CourtService) UpdateCourt(ctx context.Context, id int64, req *entities.CourtRequest) (*db.Court, error) {
	court, err := s.GetCourt(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name == "" || req.Type == "" || req.Address == "" {
		return nil, apierrors.Validation("name, type and address are required")
	}
	if req.PricePerHour < 0 {
		return nil, apierrors.Validation("price_per_hour cannot be negative")
	}

	court.Name = req.Name
	court.Description = req.Description
	court.Type = req.Type
	court.PricePerHour = req.PricePerHour
	court.Address = req.Address
	court.City = req.City
	court.ImageURL = req.ImageURL
	if req.Active != nil {
		court.Active = *req.Active
	}
	if err := s.Repo.Update(ctx, court); err != nil {
		return nil, err
	}
	return court, nil
}

// DeactivateCourt soft-deletes a court. Existing reservations are untouched.
func (s *CourtService) DeactivateCourt(ctx context.Context, id int64) error {
	if err := s.Repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apierrors.NotFound(fmt.Sprintf("court not found with id: %d", id))
		}
		return err
	}
	return nil
}

func (s *CourtService) DeleteCourt(ctx context.Context, id int64) error {
	if _, err := s.GetCourt(ctx, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}

// EnsureDefaultCourts seeds the catalog on first boot against an empty table.
func (s *CourtService) EnsureDefaultCourts(ctx context.Context) error {
	count, err := s.Repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("error checking court count: %w", err)
	}
	if count > 0 {
		return nil
	}

	defaults := []db.Court{
		{Name: "Cancha Principal", Description: "Cancha de fútbol con pasto sintético", Type: "futbol", PricePerHour: 25000, Address: "Av. Las Condes 1234", City: "Santiago", Active: true},
		{Name: "Cancha Norte", Description: "Cancha de fútbol techada", Type: "futbol", PricePerHour: 22000, Address: "Av. Las Condes 1234", City: "Santiago", Active: true},
		{Name: "Cancha Sur", Description: "Cancha de fútbol al aire libre", Type: "futbol", PricePerHour: 20000, Address: "Av. Las Condes 1234", City: "Santiago", Active: true},
		{Name: "Cancha Baby Fútbol", Description: "Cancha de baby fútbol", Type: "futbol", PricePerHour: 15000, Address: "Av. Las Condes 1234", City: "Santiago", Active: true},
	}
	for i := range defaults {
		if err := s.Repo.Create(ctx, &defaults[i]); err != nil {
			return fmt.Errorf("error seeding court %q: %w", defaults[i].Name, err)
		}
	}
	log.Printf("Seeded %d default courts", len(defaults))
	return nil
}
