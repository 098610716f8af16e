package domain

import "time"

// Product is a sellable catalog item.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Stock       int
	CategoryIDs []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
