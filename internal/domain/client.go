package domain

import "time"

// Client represents a trucking client billed per delivery.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}
