package domain

import "time"

// Department represents a faculty of the institution.
type Department struct {
	ID        string
	Code      string
	Name      string
	CreatedAt time.Time
}
