package users

import "time"

// User is an account that owns import jobs. Only active users can
// authenticate and trigger imports.
type User struct {
	ID             int64
	Email          string
	Username       string
	HashedPassword string
	IsActive       bool
	CreatedAt      time.Time
}
