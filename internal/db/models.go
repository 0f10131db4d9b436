package db

import "time"

// Reservation status values. A reservation starts as pending and only moves
// forward: cancelled and completed accept no further transitions.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type Court struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Type         string    `json:"type"`
	PricePerHour int       `json:"price_per_hour"`
	Address      string    `json:"address"`
	City         string    `json:"city,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type User struct {
	ID         int64      `json:"id"`
	Email      string     `json:"email"`
	Password   string     `json:"-"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Active     bool       `json:"active"`
	Role       string     `json:"role"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	LastAccess *time.Time `json:"last_access,omitempty"`
}

type AvailabilityRecord struct {
	ID        int64
	CourtID   int64
	StartTime time.Time
	EndTime   time.Time
	Available bool
	Reason    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Reservation struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	CourtID    int64     `json:"court_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Terminal reports whether a reservation status accepts no further
// lifecycle transitions.
func Terminal(status string) bool {
	return status == StatusCancelled || status == StatusCompleted
}
