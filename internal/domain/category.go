package domain

import "time"

// Category groups products; categories may nest one level under a parent.
type Category struct {
	ID               string
	Name             string
	ParentCategoryID *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
