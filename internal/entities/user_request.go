package entities

import "tucancha/internal/db"

type UserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Active    *bool  `json:"active,omitempty"`
	Role      string `json:"role,omitempty"` // forced to "user" on register
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  *db.User `json:"user"`
}
