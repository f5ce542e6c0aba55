package domain

import "time"

type SellerProfile struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Bio       string    `json:"bio"`
	Story     string    `json:"story"`
	Banner    string    `json:"banner"`
	Location  string    `json:"location"`
	Website   string    `json:"website"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SellerPage is the public view of a seller: identity, profile, and listings.
type SellerPage struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	Profile  *SellerProfile `json:"profile,omitempty"`
	Products []Product      `json:"products"`
}

// DashboardStats aggregates a seller's listing and review activity.
type DashboardStats struct {
	ProductCount  int     `json:"product_count"`
	ReviewCount   int     `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}
