package models

// Customer represents a regular guest of the café.
// LoyaltyPoints is always 0: nothing in the core awards points yet.
type Customer struct {
	ID              int64   `json:"id" db:"id"`
	Name            string  `json:"name" db:"name"`
	LoyaltyPoints   int     `json:"loyalty_points" db:"loyalty_points"`
	DiscountPercent float64 `json:"discount_percent" db:"discount_percent"`
}
