package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"tucancha/internal/db"
	"tucancha/internal/repository"
)

type JobService struct {
	Repo *repository.JobRepository
}

func NewJobService(repo *repository.JobRepository) *JobService {
	return &JobService{Repo: repo}
}

// CompleteFinishedReservations marks confirmed reservations whose end time
// has passed as completed.
func (s *JobService) CompleteFinishedReservations(ctx context.Context) error {
	log.Println("Cron Job: Checking for reservations to mark as 'completed'...")

	reservationIDs, err := s.Repo.GetConfirmedReservationIDsPastEndTime(ctx)
	if err != nil {
		return fmt.Errorf("cron job: failed to get confirmed reservations past end time: %w", err)
	}

	if len(reservationIDs) == 0 {
		log.Println("Cron Job: No confirmed reservations found past their end time.")
		return nil
	}

	log.Printf("Cron Job: Found %d reservations to mark as 'completed'. IDs: %v", len(reservationIDs), reservationIDs)

	if err := s.Repo.UpdateReservationStatuses(ctx, reservationIDs, db.StatusCompleted); err != nil {
		return fmt.Errorf("cron job: failed to update reservation statuses: %w", err)
	}

	log.Printf("Cron Job: Successfully updated %d reservations to 'completed'.", len(reservationIDs))
	return nil
}

// DeleteOldPendingReservations removes pending reservations that were never
// confirmed within the given age.
func (s *JobService) DeleteOldPendingReservations(ctx context.Context, maxAge time.Duration) error {
	before := time.Now().Add(-maxAge)
	deleted, err := s.Repo.DeletePendingReservationsOlderThan(ctx, before)
	if err != nil {
		return fmt.Errorf("cron job: failed to delete old pending reservations: %w", err)
	}
	if deleted > 0 {
		log.Printf("Cron Job: Deleted %d stale pending reservations older than %s.", deleted, maxAge)
	}
	return nil
}
