// AngelaMos | 2026
// entity.go

package artifact

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Tags is a list of labels stored as a JSONB array.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t)
}

func (t *Tags) Scan(src any) error {
	return scanJSON(src, t)
}

// Metadata is the artifact's free-form attribute map, stored as JSONB.
type Metadata map[string]any

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(src any) error {
	return scanJSON(src, m)
}

func scanJSON(src, dst any) error {
	if src == nil {
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan json: unsupported type %T", src)
	}

	return json.Unmarshal(data, dst)
}

// Artifact is a tenant-owned document. Every row carries its tenant_id
// and the row-level security policy keeps queries inside the bound
// tenant, so a missing bind yields nothing rather than everything.
type Artifact struct {
	ID          string    `db:"id"`
	TenantID    string    `db:"tenant_id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	Tags        Tags      `db:"tags"`
	Metadata    Metadata  `db:"metadata"`
	CreatedBy   *string   `db:"created_by"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
