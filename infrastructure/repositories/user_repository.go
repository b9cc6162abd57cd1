package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"importsvc/database"
	"importsvc/domain/contracts"
	"importsvc/domain/users"
)

// SQLUserRepository implements contracts.UserRepository.
type SQLUserRepository struct {
	*BaseRepository
}

// NewSQLUserRepository creates a new user repository.
func NewSQLUserRepository(db *database.Database) contracts.UserRepository {
	return &SQLUserRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create persists a new active user.
func (r *SQLUserRepository) Create(ctx context.Context, email, username, hashedPassword string) (*users.User, error) {
	now := time.Now().UTC()

	res, err := r.WriteDB().ExecContext(ctx, `
		INSERT INTO users (email, username, hashed_password, is_active, created_at)
		VALUES (?, ?, ?, 1, ?)`,
		email, username, hashedPassword, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read user id: %w", err)
	}

	return &users.User{
		ID:             id,
		Email:          email,
		Username:       username,
		HashedPassword: hashedPassword,
		IsActive:       true,
		CreatedAt:      now,
	}, nil
}

// GetByID retrieves a user by ID. Returns nil when absent.
func (r *SQLUserRepository) GetByID(ctx context.Context, userID int64) (*users.User, error) {
	return r.getBy(ctx, `WHERE id = ?`, userID)
}

// GetByUsername retrieves a user by username. Returns nil when absent.
func (r *SQLUserRepository) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	return r.getBy(ctx, `WHERE username = ?`, username)
}

// ExistsByUsername reports whether a username is already registered.
func (r *SQLUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, username)
}

// ExistsByEmail reports whether an email is already registered.
func (r *SQLUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email)
}

func (r *SQLUserRepository) getBy(ctx context.Context, where string, arg any) (*users.User, error) {
	var (
		user     users.User
		isActive int64
	)

	err := r.ReadDB().QueryRowContext(ctx, `
		SELECT id, email, username, hashed_password, is_active, created_at
		FROM users `+where,
		arg,
	).Scan(&user.ID, &user.Email, &user.Username, &user.HashedPassword, &isActive, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user.IsActive = isActive != 0
	return &user, nil
}

func (r *SQLUserRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var count int64
	if err := r.ReadDB().QueryRowContext(ctx, query, arg).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}
