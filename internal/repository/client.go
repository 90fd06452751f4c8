package repository

import (
	"context"

	"freightpay/internal/domain"
)

// ClientRepository defines the persistence operations for clients.
type ClientRepository interface {
	// Create persists a new client.
	Create(ctx context.Context, client *domain.Client) error

	// GetByID retrieves a client by ID.
	GetByID(ctx context.Context, id string) (*domain.Client, error)

	// GetByEmail retrieves a client by email.
	// Returns nil if no client exists with the given email.
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)

	// GetAll retrieves all clients.
	GetAll(ctx context.Context) ([]*domain.Client, error)
}
