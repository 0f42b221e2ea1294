/*
errors.go - Error taxonomy for the accrual engine

CATEGORIES:
  1. Idempotent conflicts - duplicate ledger row on create; swallowed by
     the engine and counted as a skip, because the unique constraint
     firing means a concurrent run already did the work.
  2. Per-tenant failures - any store error mid-loop; rolls back that
     tenant's transaction, is counted, and the run moves on.
  3. Top-level failures - bad options, cannot enumerate tenants; abort
     the whole run.

Stores translate their driver-level unique-violation errors into
ErrDuplicateBalance so the engine can match with errors.Is.
*/
package leave

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateBalance is returned by LedgerStore.Create when a row with
	// the same (tenant, employee, leave type, year) already exists.
	ErrDuplicateBalance = errors.New("leave balance already exists")

	// ErrBalanceNotFound is returned by LedgerStore.Update when the row to
	// update does not exist.
	ErrBalanceNotFound = errors.New("leave balance not found")

	// ErrInvalidMonth is returned for a target month outside 1..12.
	ErrInvalidMonth = errors.New("month must be between 1 and 12")

	// ErrInvalidYear is returned for a non-positive target year.
	ErrInvalidYear = errors.New("year must be positive")
)

// TenantError wraps a failure inside one tenant's unit of work. The run
// records it and continues with the next tenant.
type TenantError struct {
	Tenant string
	Err    error
}

func (e *TenantError) Error() string {
	return fmt.Sprintf("tenant %s: %v", e.Tenant, e.Err)
}

func (e *TenantError) Unwrap() error { return e.Err }
