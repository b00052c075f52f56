package domain

import "time"

// Item is the rentable good. Owned by the catalog; the rental core only reads
// it and toggles availability around the rental lifecycle.
type Item struct {
	ID                   string    `json:"id"`
	OwnerID              string    `json:"owner_id"`
	Title                string    `json:"title"`
	PricePerDayCents     int64     `json:"price_per_day_cents"`
	SecurityDepositCents int64     `json:"security_deposit_cents"`
	Images               []string  `json:"images"`
	IsAvailable          bool      `json:"is_available"`
	CreatedAt            time.Time `json:"created_at"`
}
