/*
engine.go - The monthly leave-credit accrual engine

PURPOSE:
  For a target (year, month), iterate tenants x employees x completed
  leave-type configurations and create or top up each employee's leave
  balance row for that year.

ALGORITHM (per tenant, inside one transaction):
  1. Load roster and completed configs; either empty -> zero-effect result.
  2. Join each basic config to its full policy by shared config id.
  3. For each employee x config:
     - no row for this year      -> create it (back-fill monthly accrual up
                                    to the target month, or grant the full
                                    yearly limit) plus carry-forward
     - row exists, yearly type   -> nothing to do this month
     - row exists, monthly type  -> advance the watermark and credit the
                                    elapsed months, capped so earned credit
                                    never exceeds the annual limit

IDEMPOTENCY:
  Re-running the same (year, month) without Force is a no-op: the
  watermark check skips already-credited months and duplicate creates are
  swallowed via the ledger's unique constraint. Force bypasses the
  watermark check and applies at least one month's installment, which is
  why forced reprocessing across months can over-credit if misused.

FAILURE:
  A tenant either fully commits or fully rolls back. One tenant failing
  is logged and counted; the run continues with the next tenant.

SEE ALSO:
  - contracts.go: the injected collaborators
  - runlog.go: the per-run summary line
*/
package leave

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine applies monthly leave credit across tenants.
type Engine struct {
	Roster  Roster
	Configs ConfigSource
	Ledger  TxLedgerStore

	// Now overrides the clock in tests. Nil means time.Now (UTC).
	Now func() time.Time
}

// NewEngine wires an engine from its collaborators. A store that
// implements all three contracts (like the SQLite store) can be passed
// three times.
func NewEngine(roster Roster, configs ConfigSource, ledger TxLedgerStore) *Engine {
	return &Engine{Roster: roster, Configs: configs, Ledger: ledger}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now().UTC()
}

// RunOptions select what to process.
type RunOptions struct {
	// Tenant restricts the run to one tenant. Empty means every tenant
	// that has at least one leave-type configuration.
	Tenant string

	// Year and Month are the accrual target. Zero values default to the
	// current calendar year and month.
	Year  int
	Month int

	// Force bypasses the "already credited this month" watermark check
	// for monthly credit types.
	Force bool
}

func (o RunOptions) withDefaults(now time.Time) RunOptions {
	if o.Year == 0 {
		o.Year = now.Year()
	}
	if o.Month == 0 {
		o.Month = int(now.Month())
	}
	return o
}

func (o RunOptions) validate() error {
	if o.Year <= 0 {
		return ErrInvalidYear
	}
	if o.Month < 1 || o.Month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// TenantReport is the outcome of one tenant's unit of work.
type TenantReport struct {
	Tenant   string `json:"tenant"`
	Allotted int    `json:"allotted"` // newly created ledger rows
	Credited int    `json:"credited"` // rows incrementally credited
	Skipped  int    `json:"skipped"`  // nothing to do (or duplicate create)
	Error    string `json:"error,omitempty"`
}

// RunReport aggregates a whole run.
type RunReport struct {
	Year        int            `json:"year"`
	Month       int            `json:"month"`
	Forced      bool           `json:"forced"`
	StartedAt   time.Time      `json:"startedAt"`
	CompletedAt time.Time      `json:"completedAt"`
	Tenants     []TenantReport `json:"tenants"`

	Allotted int `json:"allotted"`
	Credited int `json:"credited"`
	Skipped  int `json:"skipped"`
	Errored  int `json:"errored"`
}

// Run processes leave accrual for the target period. Per-tenant failures
// are recorded in the report, not returned; the error return is reserved
// for top-level failures (invalid options, cannot enumerate tenants).
func (e *Engine) Run(ctx context.Context, opts RunOptions) (*RunReport, error) {
	opts = opts.withDefaults(e.now())
	if err := opts.validate(); err != nil {
		return nil, err
	}

	tenants := []string{opts.Tenant}
	if opts.Tenant == "" {
		var err error
		tenants, err = e.Configs.ListTenants(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing tenants: %w", err)
		}
	}

	report := &RunReport{
		Year:      opts.Year,
		Month:     opts.Month,
		Forced:    opts.Force,
		StartedAt: e.now(),
	}

	for _, tenant := range tenants {
		tr, err := e.processTenant(ctx, tenant, opts.Year, opts.Month, opts.Force)
		if err != nil {
			terr := &TenantError{Tenant: tenant, Err: err}
			log.Printf("[Accrual] %v", terr)
			report.Tenants = append(report.Tenants, TenantReport{Tenant: tenant, Error: err.Error()})
			report.Errored++
			continue
		}
		report.Tenants = append(report.Tenants, tr)
		report.Allotted += tr.Allotted
		report.Credited += tr.Credited
		report.Skipped += tr.Skipped
	}

	report.CompletedAt = e.now()
	log.Printf("[Accrual] %s", report.Summary())
	return report, nil
}

// =============================================================================
// PER-TENANT UNIT OF WORK
// =============================================================================

type configPair struct {
	cfg    LeaveTypeConfig
	policy *LeavePolicy
}

// processTenant runs one tenant's accrual inside a single ledger
// transaction. All counts are discarded on rollback.
func (e *Engine) processTenant(ctx context.Context, tenant string, year, month int, force bool) (TenantReport, error) {
	report := TenantReport{Tenant: tenant}

	employees, err := e.Roster.ListEmployees(ctx, tenant)
	if err != nil {
		return report, fmt.Errorf("listing employees: %w", err)
	}
	if len(employees) == 0 {
		return report, nil
	}

	configs, err := e.Configs.ListCompletedConfigs(ctx, tenant)
	if err != nil {
		return report, fmt.Errorf("listing leave type configs: %w", err)
	}
	if len(configs) == 0 {
		return report, nil
	}

	pairs := make([]configPair, 0, len(configs))
	for _, cfg := range configs {
		policy, err := e.Configs.FullConfig(ctx, cfg.ConfigID, tenant)
		if err != nil {
			return report, fmt.Errorf("loading policy for %s: %w", cfg.ConfigID, err)
		}
		pairs = append(pairs, configPair{cfg: cfg, policy: policy})
	}

	err = e.Ledger.WithTx(ctx, func(ledger LedgerStore) error {
		for _, emp := range employees {
			for _, pair := range pairs {
				outcome, err := e.creditOne(ctx, ledger, emp, pair, year, month, force)
				if err != nil {
					return err
				}
				switch outcome {
				case outcomeAllotted:
					report.Allotted++
				case outcomeCredited:
					report.Credited++
				default:
					report.Skipped++
				}
			}
		}
		return nil
	})
	if err != nil {
		return TenantReport{Tenant: tenant}, err
	}
	return report, nil
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeAllotted
	outcomeCredited
)

// creditOne processes a single employee x leave-type cell.
func (e *Engine) creditOne(ctx context.Context, ledger LedgerStore, emp Employee, pair configPair, year, month int, force bool) (outcome, error) {
	cfg := pair.cfg
	existing, err := ledger.Find(ctx, emp.Tenant, emp.Code, cfg.ConfigID, year)
	if err != nil {
		return outcomeSkipped, err
	}

	if existing == nil {
		created, err := e.createNewLeaveBalance(ctx, ledger, emp, pair, year, month)
		if err != nil {
			return outcomeSkipped, err
		}
		if !created {
			// Lost a race to a concurrent run; the row exists, nothing owed.
			return outcomeSkipped, nil
		}
		return outcomeAllotted, nil
	}

	if cfg.CreditType() == CreditYearly {
		// Yearly types are granted in full at allotment; nothing monthly.
		return outcomeSkipped, nil
	}

	// Watermark arithmetic for monthly types.
	monthsToCredit := month - existing.Month
	if !force && monthsToCredit <= 0 {
		return outcomeSkipped, nil
	}
	if monthsToCredit < 1 {
		monthsToCredit = 1
	}

	additional := cfg.PerMonthRate().Mul(decimal.NewFromInt(int64(monthsToCredit)))

	// Cap: earned credit (allotted minus carry-forward) never exceeds the
	// annual limit.
	earned := existing.Allotted.Sub(existing.CarryForward)
	if earned.Add(additional).GreaterThan(cfg.AnnualLimitDays) {
		additional = cfg.AnnualLimitDays.Sub(earned)
	}
	if !additional.IsPositive() {
		return outcomeSkipped, nil
	}

	now := e.now()
	existing.Allotted = existing.Allotted.Add(additional)
	existing.Balance = existing.Balance.Add(additional)
	existing.Month = month
	existing.LastCreditedAt = now
	existing.UpdatedAt = now
	if err := ledger.Update(ctx, *existing); err != nil {
		return outcomeSkipped, err
	}
	return outcomeCredited, nil
}

// =============================================================================
// FIRST-TIME ALLOTMENT
// =============================================================================

// createNewLeaveBalance creates the year's row for an employee and leave
// type. Monthly types back-fill accrual for every elapsed month up to and
// including the target month; yearly types get the full annual limit.
// Carry-forward from the prior year is added on top and snapshotted.
//
// Returns created=false without error when the unique constraint fired,
// meaning another run created the row concurrently.
func (e *Engine) createNewLeaveBalance(ctx context.Context, ledger LedgerStore, emp Employee, pair configPair, year, month int) (bool, error) {
	cfg := pair.cfg

	carry, err := e.resolveCarryForward(ctx, ledger, emp, pair, year)
	if err != nil {
		return false, err
	}

	credit := cfg.CreditType()
	var allotted decimal.Decimal
	watermark := 0
	if credit == CreditMonthly {
		allotted = cfg.PerMonthRate().Mul(decimal.NewFromInt(int64(month)))
		watermark = month
	} else {
		allotted = cfg.AnnualLimitDays
	}
	allotted = allotted.Add(carry)

	now := e.now()
	b := Balance{
		ID:             uuid.NewString(),
		Tenant:         emp.Tenant,
		EmployeeCode:   emp.Code,
		LeaveTypeID:    cfg.ConfigID,
		Year:           year,
		CreditType:     credit,
		Allotted:       allotted,
		Used:           decimal.Zero,
		Balance:        allotted,
		CarryForward:   carry,
		Month:          watermark,
		Lapsed:         false,
		LastCreditedAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := ledger.Create(ctx, b); err != nil {
		if errors.Is(err, ErrDuplicateBalance) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// resolveCarryForward inspects the immediately preceding year's row. When
// the policy lapses unused balance, the prior row is flagged (once) as a
// side effect of this lookup and nothing carries. Otherwise the policy's
// carry-forward mode decides how much of the prior balance moves over.
func (e *Engine) resolveCarryForward(ctx context.Context, ledger LedgerStore, emp Employee, pair configPair, year int) (decimal.Decimal, error) {
	prior, err := ledger.Find(ctx, emp.Tenant, emp.Code, pair.cfg.ConfigID, year-1)
	if err != nil {
		return decimal.Zero, err
	}
	if prior == nil {
		return decimal.Zero, nil
	}

	if pair.policy.Lapses() {
		if !prior.Lapsed {
			prior.Lapsed = true
			prior.UpdatedAt = e.now()
			if err := ledger.Update(ctx, *prior); err != nil {
				return decimal.Zero, err
			}
		}
		return decimal.Zero, nil
	}
	return pair.policy.CarryFrom(prior.Balance), nil
}
