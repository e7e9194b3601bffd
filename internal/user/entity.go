// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

// User is the identity anchor. Accounts are never hard-deleted; removal
// is a soft deactivation so audit and ownership references stay intact.
type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FirstName    *string   `db:"first_name"`
	LastName     *string   `db:"last_name"`
	IsVerified   bool      `db:"is_verified"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
