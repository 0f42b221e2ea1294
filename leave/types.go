/*
Package leave implements the monthly leave-credit accrual engine for a
multi-tenant HR platform.

PURPOSE:
  Once per calendar month, every employee of every tenant is granted paid
  leave according to each leave type's configuration: monthly pro-rated
  accrual or a full yearly allotment, with carry-forward from the previous
  year (or forfeiture, when the policy says unused balance lapses).

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: roster entry, drives the outer iteration
  - LeaveTypeConfig: basic leave-type setup (limit, credit cadence)
  - LeavePolicy: carry-forward / lapse policy detail
  - Balance: the ledger row, one per (tenant, employee, leave type, year)
  - CreditType: monthly vs yearly accrual cadence

DESIGN PRINCIPLES:
  1. Precision: day amounts use decimal.Decimal, never float64
  2. One row per natural key: the ledger unique constraint is the
     idempotency backstop against concurrent runs
  3. Monotonic allotment: the engine only ever adds credit within a year

SEE ALSO:
  - engine.go: the accrual algorithm
  - contracts.go: injected collaborator interfaces
  - store/memory.go: in-memory fakes for unit tests
*/
package leave

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CREDIT TYPE - Accrual cadence for a leave type
// =============================================================================

type CreditType string

const (
	// CreditMonthly accrues round(annualLimit/12, 2) days each month.
	CreditMonthly CreditType = "monthly"

	// CreditYearly grants the full annual limit at allotment time.
	CreditYearly CreditType = "yearly"
)

// ParseCreditType normalizes a configured cadence string. Anything that is
// not recognizably "monthly" falls back to yearly, matching how incomplete
// tenant configurations behave in production.
func ParseCreditType(s string) CreditType {
	if strings.EqualFold(strings.TrimSpace(s), string(CreditMonthly)) {
		return CreditMonthly
	}
	return CreditYearly
}

// =============================================================================
// EMPLOYEE - Roster entry
// =============================================================================

type Employee struct {
	Tenant     string
	Code       string
	FirstName  string
	MiddleName string
	LastName   string
}

// FullName joins the name parts, skipping empty middles.
func (e Employee) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{e.FirstName, e.MiddleName, e.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// =============================================================================
// LEAVE TYPE CONFIGURATION
// =============================================================================

// LeaveTypeConfig is the basic per-tenant setup of a leave type.
// Immutable during a run; the engine only processes configs whose setup
// has been marked complete.
type LeaveTypeConfig struct {
	ConfigID        string
	Tenant          string
	Code            string
	Name            string
	AnnualLimitDays decimal.Decimal
	CreditCadence   string // raw configured value; see ParseCreditType
	Configured      bool
}

// CreditType resolves the configured cadence, defaulting to yearly.
func (c LeaveTypeConfig) CreditType() CreditType {
	return ParseCreditType(c.CreditCadence)
}

// PerMonthRate is the monthly accrual installment: round(limit/12, 2),
// half-up. All caps and comparisons in the engine operate in this
// 2-decimal-place unit.
func (c LeaveTypeConfig) PerMonthRate() decimal.Decimal {
	return c.AnnualLimitDays.Div(decimal.NewFromInt(12)).Round(2)
}

// Lapse / carry-forward policy values as stored in tenant configuration.
const (
	LapseYes = "yes"
	LapseNo  = "no"

	CarryForwardNone = "none"
	CarryForwardAll  = "all"
	CarryForwardDays = "days"
)

// LeavePolicy is the full-configuration counterpart of a LeaveTypeConfig,
// keyed by the shared ConfigID. It decides what happens to unused balance
// at the year boundary.
type LeavePolicy struct {
	ConfigID            string
	Tenant              string
	LapseLeave          string // "yes" | "no"; unset means yes
	CarryForwardType    string // "none" | "all" | "days"
	CarryForwardCapDays decimal.Decimal
}

// Lapses reports whether unused balance is forfeited at year end.
// A missing policy or an unset value defaults to lapsing.
func (p *LeavePolicy) Lapses() bool {
	if p == nil {
		return true
	}
	return !strings.EqualFold(strings.TrimSpace(p.LapseLeave), LapseNo)
}

// CarryFrom computes how much of a prior-year balance carries forward
// under this policy. Only meaningful when Lapses() is false.
func (p *LeavePolicy) CarryFrom(prior decimal.Decimal) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	switch strings.ToLower(strings.TrimSpace(p.CarryForwardType)) {
	case CarryForwardAll:
		return prior
	case CarryForwardDays:
		if p.CarryForwardCapDays.IsPositive() {
			return decimal.Min(prior, p.CarryForwardCapDays)
		}
		return decimal.Zero
	default:
		return decimal.Zero
	}
}

// =============================================================================
// BALANCE - The leave ledger row, the only entity this engine mutates
// =============================================================================

// Balance is one employee's ledger row for one leave type and year.
//
// INVARIANTS:
//   - Exactly one row per (Tenant, EmployeeCode, LeaveTypeID, Year);
//     the store enforces this with a unique constraint.
//   - Allotted minus CarryForward never exceeds the type's annual limit.
//   - CarryForward is fixed at creation and never recomputed.
//   - Lapsed transitions false -> true at most once, on the prior year's
//     row, when the next year's row is created under a lapsing policy.
type Balance struct {
	ID           string
	Tenant       string
	EmployeeCode string
	LeaveTypeID  string
	Year         int
	CreditType   CreditType

	Allotted     decimal.Decimal // cumulative days granted this year
	Used         decimal.Decimal // consumed; managed by the request path, not here
	Balance      decimal.Decimal // Allotted - Used
	CarryForward decimal.Decimal // snapshot of days brought from the prior year

	// Month is the accrual watermark: the last calendar month credited.
	// Zero for yearly credit types, which have no watermark.
	Month  int
	Lapsed bool

	LastCreditedAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
