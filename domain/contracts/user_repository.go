package contracts

import (
	"context"

	"importsvc/domain/users"
)

// UserRepository defines durable operations for user accounts.
type UserRepository interface {
	// Create persists a new active user and returns it with its identity.
	Create(ctx context.Context, email, username, hashedPassword string) (*users.User, error)

	// GetByID retrieves a user by ID. Returns nil without error when absent.
	GetByID(ctx context.Context, userID int64) (*users.User, error)

	// GetByUsername retrieves a user by username. Returns nil when absent.
	GetByUsername(ctx context.Context, username string) (*users.User, error)

	// ExistsByUsername and ExistsByEmail check for duplicate registrations.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
