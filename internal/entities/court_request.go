package entities

type CourtRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Type         string `json:"type"`
	PricePerHour int    `json:"price_per_hour"`
	Address      string `json:"address"`
	City         string `json:"city,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	Active       *bool  `json:"active,omitempty"`
}
