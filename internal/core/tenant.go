// AngelaMos | 2026
// tenant.go

package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// The tenant binding is a Postgres session setting consumed by the
// row-level security policies on tenant-scoped tables. Isolation is
// enforced by the storage engine: a query that forgets its WHERE clause
// still cannot see another tenant's rows.

const tenantSettingKey = "app.current_tenant_id"

// BindTenant sets the tenant binding on the current transaction. The
// third argument to set_config scopes the setting to the transaction, so
// it is discarded on commit and rollback alike and can never ride a
// pooled connection into another request.
func BindTenant(ctx context.Context, db DBTX, tenantID string) error {
	if _, err := uuid.Parse(tenantID); err != nil {
		return fmt.Errorf("bind tenant: invalid tenant id: %w", err)
	}

	query := fmt.Sprintf("SELECT set_config('%s', $1, true)", tenantSettingKey)
	if _, err := db.ExecContext(ctx, query, tenantID); err != nil {
		return fmt.Errorf("bind tenant: %w", err)
	}

	return nil
}

// UnbindTenant clears the binding. Transaction end already does this for
// bindings made by BindTenant; this exists for session-scoped use where
// no transaction delimits the binding's lifetime.
func UnbindTenant(ctx context.Context, db DBTX) error {
	query := fmt.Sprintf("RESET %s", tenantSettingKey)
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("unbind tenant: %w", err)
	}

	return nil
}

// WithTenantContext binds tenantID, runs fn, and unbinds. The unbind runs
// on every exit path, including fn panicking.
func WithTenantContext(
	ctx context.Context,
	db DBTX,
	tenantID string,
	fn func() error,
) error {
	if err := BindTenant(ctx, db, tenantID); err != nil {
		return err
	}

	defer func() {
		//nolint:errcheck // unbind is best-effort on the panic path
		_ = UnbindTenant(context.WithoutCancel(ctx), db)
	}()

	return fn()
}

// InTenantTx runs fn inside a transaction whose first statement binds the
// tenant. All tenant-scoped repository work goes through here: binding
// before any query, and release before the connection returns to the
// pool, are properties of the transaction rather than caller discipline.
func InTenantTx(
	ctx context.Context,
	db *sqlx.DB,
	tenantID string,
	fn func(tx *sqlx.Tx) error,
) error {
	return InTx(ctx, db, func(tx *sqlx.Tx) error {
		if err := BindTenant(ctx, tx, tenantID); err != nil {
			return err
		}
		return fn(tx)
	})
}
