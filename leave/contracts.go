/*
contracts.go - Injected collaborator interfaces

PURPOSE:
  The engine takes all of its data access as interfaces so the accrual
  algorithm can be unit-tested against in-memory fakes and run in
  production against SQLite (or any SQL store) without changes.

READ-ONLY INPUTS:
  Roster        - employee list per tenant
  ConfigSource  - leave-type configurations and tenant enumeration

READ-WRITE:
  LedgerStore   - the leave balance ledger
  TxLedgerStore - adds the per-tenant transaction boundary; everything a
                  tenant's run writes either commits together or rolls
                  back together

CONCURRENCY:
  The engine does not lock. Overlap protection is the scheduler's job;
  the ledger's unique natural key is the last-resort backstop against
  double-crediting (Create returns ErrDuplicateBalance).

SEE ALSO:
  - store/memory.go: in-memory implementation of all contracts
  - ../store/sqlite: SQLite implementation
*/
package leave

import "context"

// Roster provides read-only access to a tenant's employee list.
type Roster interface {
	// ListEmployees returns every employee of the tenant. An empty slice
	// is a benign result, not an error.
	ListEmployees(ctx context.Context, tenant string) ([]Employee, error)
}

// ConfigSource provides read-only access to leave-type configuration.
type ConfigSource interface {
	// ListTenants returns every tenant that has at least one leave-type
	// configuration.
	ListTenants(ctx context.Context) ([]string, error)

	// ListCompletedConfigs returns the tenant's leave-type configs whose
	// setup is complete. Incomplete configs are never accrued.
	ListCompletedConfigs(ctx context.Context, tenant string) ([]LeaveTypeConfig, error)

	// FullConfig returns the policy detail for a config, or nil when the
	// tenant never filled it in (which defaults to a lapsing policy).
	FullConfig(ctx context.Context, configID, tenant string) (*LeavePolicy, error)
}

// LedgerStore is read-write access to the leave balance ledger.
type LedgerStore interface {
	// Find returns the row for the natural key, or nil when absent.
	Find(ctx context.Context, tenant, employeeCode, leaveTypeID string, year int) (*Balance, error)

	// Create inserts a new row. Returns ErrDuplicateBalance when a row
	// with the same natural key already exists.
	Create(ctx context.Context, b Balance) error

	// Update rewrites an existing row, matched by natural key.
	Update(ctx context.Context, b Balance) error
}

// TxLedgerStore is a LedgerStore that can scope writes to a transaction.
type TxLedgerStore interface {
	LedgerStore

	// WithTx runs fn against a transactional view of the ledger. If fn
	// returns an error every write inside it is rolled back.
	WithTx(ctx context.Context, fn func(LedgerStore) error) error
}
