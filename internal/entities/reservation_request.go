package entities

type ReservationRequest struct {
	UserID     int64    `json:"user_id"`
	CourtID    int64    `json:"court_id"`
	StartTime  string   `json:"start_time"`
	EndTime    string   `json:"end_time"`
	TotalPrice *float64 `json:"total_price,omitempty"`
	Status     string   `json:"status,omitempty"` // ignored on create
	Notes      string   `json:"notes,omitempty"`
}

type AvailabilityCheckResponse struct {
	Available bool `json:"available"`
}
