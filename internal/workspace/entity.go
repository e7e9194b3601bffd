// AngelaMos | 2026
// entity.go

package workspace

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Settings is the tenant's free-form configuration map, stored as JSONB.
type Settings map[string]any

func (s Settings) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s)
}

func (s *Settings) Scan(src any) error {
	if src == nil {
		*s = Settings{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan settings: unsupported type %T", src)
	}

	return json.Unmarshal(data, s)
}

// Tenant is an isolated workspace. Deactivation is soft; tenants are
// never hard-deleted.
type Tenant struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Slug        string    `db:"slug"`
	Description *string   `db:"description"`
	Settings    Settings  `db:"settings"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Membership links a user to a tenant with a role. The schema enforces
// at most one membership row per (user, tenant) pair; removal flips
// is_active rather than deleting the row.
type Membership struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	TenantID  string    `db:"tenant_id"`
	Role      Role      `db:"role"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// MemberDetail is a membership joined with its user row, for member
// listings.
type MemberDetail struct {
	Membership
	UserEmail     string  `db:"user_email"`
	UserFirstName *string `db:"user_first_name"`
	UserLastName  *string `db:"user_last_name"`
}

// UserWorkspace is a tenant joined with the caller's membership, for
// "my workspaces" listings.
type UserWorkspace struct {
	Tenant
	Role     Role      `db:"membership_role"`
	JoinedAt time.Time `db:"joined_at"`
}
