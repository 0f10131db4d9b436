package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"tucancha/internal/entities"
)

// OccupancyNotifier keeps the availability calendar in sync with the
// reservation lifecycle. Both operations are best-effort: failures are
// logged and never affect the reservation.
type OccupancyNotifier interface {
	NotifyOccupied(ctx context.Context, courtID int64, start, end time.Time)
	NotifyReleased(ctx context.Context, courtID int64, start, end time.Time)
}

// AvailabilityClient talks to the availability service over HTTP.
type AvailabilityClient struct {
	baseURL string
	client  *http.Client
}

func NewAvailabilityClient(baseURL string) *AvailabilityClient {
	return &AvailabilityClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// NotifyOccupied records the reserved interval as occupied in the
// availability calendar.
func (c *AvailabilityClient) NotifyOccupied(ctx context.Context, courtID int64, start, end time.Time) {
	available := false
	payload := entities.AvailabilityRequest{
		CourtID:   courtID,
		StartTime: entities.FormatTime(start),
		EndTime:   entities.FormatTime(end),
		Available: &available,
		Reason:    "Reserved",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling occupancy payload for court %d: %v", courtID, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/availability", bytes.NewReader(body))
	if err != nil {
		log.Printf("Error building occupancy request for court %d: %v", courtID, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("Error notifying occupancy for court %d: %v", courtID, err)
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		log.Printf("Availability service returned %d recording occupancy for court %d", resp.StatusCode, courtID)
	}
}

// NotifyReleased removes the occupancy record created for a cancelled
// reservation. It lists the court's records and deletes the first occupied
// one whose timestamps match the reservation interval exactly. A record
// written with a different time rendering will not match and simply stays.
func (c *AvailabilityClient) NotifyReleased(ctx context.Context, courtID int64, start, end time.Time) {
	url := fmt.Sprintf("%s/availability?court_id=%d", c.baseURL, courtID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Printf("Error building availability lookup for court %d: %v", courtID, err)
		return
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("Error listing availability for court %d: %v", courtID, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Availability service returned %d listing records for court %d", resp.StatusCode, courtID)
		return
	}

	var records []entities.AvailabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		log.Printf("Error decoding availability records for court %d: %v", courtID, err)
		return
	}

	startStr := entities.FormatTime(start)
	endStr := entities.FormatTime(end)
	for _, rec := range records {
		if !rec.Available && rec.StartTime == startStr && rec.EndTime == endStr {
			c.deleteRecord(ctx, rec.ID)
			return
		}
	}
	log.Printf("No occupancy record found for court %d between %s and %s", courtID, startStr, endStr)
}

func (c *AvailabilityClient) deleteRecord(ctx context.Context, id int64) {
	url := fmt.Sprintf("%s/availability/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		log.Printf("Error building availability delete for record %d: %v", id, err)
		return
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("Error deleting availability record %d: %v", id, err)
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		log.Printf("Availability service returned %d deleting record %d", resp.StatusCode, id)
	}
}
