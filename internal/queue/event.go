package queue

// ReservationEvent is the message published when a reservation changes
// state. The routing key carries the transition (reservation.confirmed,
// reservation.cancelled); the body carries the reservation snapshot.
type ReservationEvent struct {
	ReservationID int64   `json:"reservation_id"`
	UserID        int64   `json:"user_id"`
	CourtID       int64   `json:"court_id"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	TotalPrice    float64 `json:"total_price"`
	Status        string  `json:"status"`
	OccurredAt    string  `json:"occurred_at"`
}
