/*
Package sqlite provides a SQLite-backed implementation of the leave
engine's storage contracts.

PURPOSE:
  Implements leave.Roster, leave.ConfigSource and leave.TxLedgerStore on
  SQLite, plus the CRUD surface the admin API uses (employees, leave-type
  configurations) and the accrual-run audit trail. In production the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  employees:           Tenant rosters
  leave_type_configs:  Basic leave-type setup (limit, cadence, completeness)
  leave_type_policies: Carry-forward / lapse policy, keyed by config id
  leave_balances:      The ledger; one row per (tenant, employee, type, year)
  accrual_runs:        Audit trail of engine runs

IDEMPOTENCY BACKSTOP:
  idx_balances_natural_key is a UNIQUE index over the ledger's natural
  key. A violation on insert is translated to leave.ErrDuplicateBalance,
  which the engine treats as "another run got there first".

DECIMALS:
  Day amounts are stored as TEXT and parsed with shopspring/decimal, so
  nothing ever round-trips through binary floats.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block and crash recovery is cleaner.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - leave/contracts.go: Interface definitions
  - leave/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/leave-engine/leave"
)

// Store implements all storage contracts using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite serializes writers anyway, and a shared
	// :memory: database only exists on a single connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Tenant rosters
	CREATE TABLE IF NOT EXISTS employees (
		tenant TEXT NOT NULL,
		code TEXT NOT NULL,
		first_name TEXT NOT NULL,
		middle_name TEXT,
		last_name TEXT,
		created_at TEXT NOT NULL,
		PRIMARY KEY (tenant, code)
	);

	-- Basic leave-type setup
	CREATE TABLE IF NOT EXISTS leave_type_configs (
		id TEXT NOT NULL,
		tenant TEXT NOT NULL,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		annual_limit TEXT NOT NULL,
		credit_cadence TEXT,
		configured BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (id, tenant)
	);

	CREATE INDEX IF NOT EXISTS idx_configs_tenant
		ON leave_type_configs(tenant);

	-- Carry-forward / lapse policy detail
	CREATE TABLE IF NOT EXISTS leave_type_policies (
		config_id TEXT NOT NULL,
		tenant TEXT NOT NULL,
		lapse_leave TEXT,
		carry_forward_type TEXT,
		carry_forward_cap TEXT,
		PRIMARY KEY (config_id, tenant)
	);

	-- The leave balance ledger
	CREATE TABLE IF NOT EXISTS leave_balances (
		id TEXT PRIMARY KEY,
		tenant TEXT NOT NULL,
		employee_code TEXT NOT NULL,
		leave_type_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		credit_type TEXT NOT NULL,
		allotted TEXT NOT NULL,
		used TEXT NOT NULL,
		balance TEXT NOT NULL,
		carry_forward TEXT NOT NULL,
		month INTEGER,
		lapsed BOOLEAN NOT NULL DEFAULT FALSE,
		last_credited_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- CRITICAL: the natural key. This is the engine's last-resort
	-- idempotency backstop against concurrent double-crediting.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_balances_natural_key
		ON leave_balances(tenant, employee_code, leave_type_id, year);

	CREATE INDEX IF NOT EXISTS idx_balances_tenant_year
		ON leave_balances(tenant, year);
	CREATE INDEX IF NOT EXISTS idx_balances_employee
		ON leave_balances(tenant, employee_code);

	-- Accrual run audit trail
	CREATE TABLE IF NOT EXISTS accrual_runs (
		id TEXT PRIMARY KEY,
		tenant TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		forced BOOLEAN NOT NULL DEFAULT FALSE,
		allotted INTEGER NOT NULL DEFAULT 0,
		credited INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		started_at TEXT,
		completed_at TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_accrual_runs_tenant
		ON accrual_runs(tenant, year, month);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ROSTER (leave.Roster interface)
// =============================================================================

// SaveEmployee upserts a roster entry.
func (s *Store) SaveEmployee(ctx context.Context, e leave.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (tenant, code, first_name, middle_name, last_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(tenant, code) DO UPDATE SET
			first_name = excluded.first_name,
			middle_name = excluded.middle_name,
			last_name = excluded.last_name
	`

	_, err := s.db.ExecContext(ctx, query,
		e.Tenant, e.Code, e.FirstName, nullString(e.MiddleName), nullString(e.LastName),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// DeleteEmployee removes a roster entry.
func (s *Store) DeleteEmployee(ctx context.Context, tenant, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE tenant = ? AND code = ?", tenant, code)
	return err
}

// ListEmployees returns every employee of a tenant, ordered by code.
func (s *Store) ListEmployees(ctx context.Context, tenant string) ([]leave.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT tenant, code, first_name, middle_name, last_name FROM employees WHERE tenant = ? ORDER BY code",
		tenant,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []leave.Employee
	for rows.Next() {
		var e leave.Employee
		var middle, last sql.NullString
		if err := rows.Scan(&e.Tenant, &e.Code, &e.FirstName, &middle, &last); err != nil {
			return nil, err
		}
		e.MiddleName = middle.String
		e.LastName = last.String
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// =============================================================================
// CONFIG SOURCE (leave.ConfigSource interface)
// =============================================================================

// ListTenants returns every tenant with at least one leave-type config.
func (s *Store) ListTenants(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT tenant FROM leave_type_configs ORDER BY tenant",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants: %w", err)
	}
	defer rows.Close()

	var tenants []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

// ListCompletedConfigs returns the tenant's configs whose setup is done.
func (s *Store) ListCompletedConfigs(ctx context.Context, tenant string) ([]leave.LeaveTypeConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, tenant, code, name, annual_limit, credit_cadence, configured
		FROM leave_type_configs
		WHERE tenant = ? AND configured = TRUE
		ORDER BY code
	`
	return s.queryConfigs(ctx, query, tenant)
}

// ListLeaveTypes returns every config of a tenant, complete or not.
// Used by the admin API, not the engine.
func (s *Store) ListLeaveTypes(ctx context.Context, tenant string) ([]leave.LeaveTypeConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, tenant, code, name, annual_limit, credit_cadence, configured
		FROM leave_type_configs
		WHERE tenant = ?
		ORDER BY code
	`
	return s.queryConfigs(ctx, query, tenant)
}

func (s *Store) queryConfigs(ctx context.Context, query string, args ...any) ([]leave.LeaveTypeConfig, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave type configs: %w", err)
	}
	defer rows.Close()

	var configs []leave.LeaveTypeConfig
	for rows.Next() {
		var c leave.LeaveTypeConfig
		var limit string
		var cadence sql.NullString
		if err := rows.Scan(&c.ConfigID, &c.Tenant, &c.Code, &c.Name, &limit, &cadence, &c.Configured); err != nil {
			return nil, err
		}
		c.AnnualLimitDays = mustDecimal(limit)
		c.CreditCadence = cadence.String
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

// FullConfig returns the policy detail for a config, or nil when absent.
func (s *Store) FullConfig(ctx context.Context, configID, tenant string) (*leave.LeavePolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p leave.LeavePolicy
	var lapse, cfType, capDays sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT config_id, tenant, lapse_leave, carry_forward_type, carry_forward_cap
		 FROM leave_type_policies WHERE config_id = ? AND tenant = ?`,
		configID, tenant,
	).Scan(&p.ConfigID, &p.Tenant, &lapse, &cfType, &capDays)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p.LapseLeave = lapse.String
	p.CarryForwardType = cfType.String
	if capDays.Valid && capDays.String != "" {
		p.CarryForwardCapDays = mustDecimal(capDays.String)
	}
	return &p, nil
}

// SaveLeaveType upserts a basic config together with its policy detail.
func (s *Store) SaveLeaveType(ctx context.Context, c leave.LeaveTypeConfig, p *leave.LeavePolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO leave_type_configs (id, tenant, code, name, annual_limit, credit_cadence, configured, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id, tenant) DO UPDATE SET
			code = excluded.code,
			name = excluded.name,
			annual_limit = excluded.annual_limit,
			credit_cadence = excluded.credit_cadence,
			configured = excluded.configured,
			updated_at = excluded.updated_at
	`, c.ConfigID, c.Tenant, c.Code, c.Name, c.AnnualLimitDays.String(),
		nullString(c.CreditCadence), c.Configured, now, now)
	if err != nil {
		return err
	}

	if p != nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO leave_type_policies (config_id, tenant, lapse_leave, carry_forward_type, carry_forward_cap)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(config_id, tenant) DO UPDATE SET
				lapse_leave = excluded.lapse_leave,
				carry_forward_type = excluded.carry_forward_type,
				carry_forward_cap = excluded.carry_forward_cap
		`, p.ConfigID, p.Tenant, nullString(p.LapseLeave), nullString(p.CarryForwardType),
			nullString(p.CarryForwardCapDays.String()))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// =============================================================================
// LEDGER STORE (leave.LedgerStore interface)
// =============================================================================

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const balanceColumns = `id, tenant, employee_code, leave_type_id, year, credit_type,
	allotted, used, balance, carry_forward, month, lapsed, last_credited_at, created_at, updated_at`

// Find returns the ledger row for the natural key, or nil when absent.
func (s *Store) Find(ctx context.Context, tenant, employeeCode, leaveTypeID string, year int) (*leave.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findBalance(ctx, s.db, tenant, employeeCode, leaveTypeID, year)
}

func (s *Store) findBalance(ctx context.Context, db execer, tenant, employeeCode, leaveTypeID string, year int) (*leave.Balance, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+balanceColumns+` FROM leave_balances
		 WHERE tenant = ? AND employee_code = ? AND leave_type_id = ? AND year = ?`,
		tenant, employeeCode, leaveTypeID, year,
	)
	b, err := scanBalance(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan balance: %w", err)
	}
	return b, nil
}

// Create inserts a ledger row. A natural-key violation is translated to
// leave.ErrDuplicateBalance.
func (s *Store) Create(ctx context.Context, b leave.Balance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createBalance(ctx, s.db, b)
}

func (s *Store) createBalance(ctx context.Context, db execer, b leave.Balance) error {
	query := `
		INSERT INTO leave_balances
		(id, tenant, employee_code, leave_type_id, year, credit_type,
		 allotted, used, balance, carry_forward, month, lapsed, last_credited_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(ctx, query,
		b.ID, b.Tenant, b.EmployeeCode, b.LeaveTypeID, b.Year, string(b.CreditType),
		b.Allotted.String(), b.Used.String(), b.Balance.String(), b.CarryForward.String(),
		nullMonth(b.Month), b.Lapsed,
		nullTime(b.LastCreditedAt),
		b.CreatedAt.UTC().Format(time.RFC3339),
		b.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return leave.ErrDuplicateBalance
		}
		return fmt.Errorf("failed to insert balance: %w", err)
	}
	return nil
}

// Update rewrites an existing ledger row, matched by natural key.
func (s *Store) Update(ctx context.Context, b leave.Balance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateBalance(ctx, s.db, b)
}

func (s *Store) updateBalance(ctx context.Context, db execer, b leave.Balance) error {
	query := `
		UPDATE leave_balances SET
			credit_type = ?, allotted = ?, used = ?, balance = ?, carry_forward = ?,
			month = ?, lapsed = ?, last_credited_at = ?, updated_at = ?
		WHERE tenant = ? AND employee_code = ? AND leave_type_id = ? AND year = ?
	`

	res, err := db.ExecContext(ctx, query,
		string(b.CreditType), b.Allotted.String(), b.Used.String(), b.Balance.String(),
		b.CarryForward.String(), nullMonth(b.Month), b.Lapsed,
		nullTime(b.LastCreditedAt),
		time.Now().UTC().Format(time.RFC3339),
		b.Tenant, b.EmployeeCode, b.LeaveTypeID, b.Year,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return leave.ErrBalanceNotFound
	}
	return nil
}

// ListBalances returns a tenant's ledger rows, optionally filtered by
// employee code and year (zero year means any).
func (s *Store) ListBalances(ctx context.Context, tenant, employeeCode string, year int) ([]leave.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + balanceColumns + ` FROM leave_balances WHERE tenant = ?`
	args := []any{tenant}
	if employeeCode != "" {
		query += " AND employee_code = ?"
		args = append(args, employeeCode)
	}
	if year != 0 {
		query += " AND year = ?"
		args = append(args, year)
	}
	query += " ORDER BY employee_code, leave_type_id, year"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances: %w", err)
	}
	defer rows.Close()

	var balances []leave.Balance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, *b)
	}
	return balances, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBalance(row rowScanner) (*leave.Balance, error) {
	var (
		b              leave.Balance
		creditType     string
		allotted       string
		used           string
		balance        string
		carryForward   string
		month          sql.NullInt64
		lastCreditedAt sql.NullString
		createdAt      string
		updatedAt      string
	)

	err := row.Scan(
		&b.ID, &b.Tenant, &b.EmployeeCode, &b.LeaveTypeID, &b.Year, &creditType,
		&allotted, &used, &balance, &carryForward, &month, &b.Lapsed,
		&lastCreditedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreditType = leave.CreditType(creditType)
	b.Allotted = mustDecimal(allotted)
	b.Used = mustDecimal(used)
	b.Balance = mustDecimal(balance)
	b.CarryForward = mustDecimal(carryForward)
	b.Month = int(month.Int64)
	if lastCreditedAt.Valid {
		b.LastCreditedAt, _ = time.Parse(time.RFC3339, lastCreditedAt.String)
	}
	b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	b.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &b, nil
}

// =============================================================================
// TRANSACTIONAL LEDGER (leave.TxLedgerStore interface)
// =============================================================================

// WithTx executes fn within one database transaction. This is the
// per-tenant atomicity boundary of the accrual engine.
func (s *Store) WithTx(ctx context.Context, fn func(leave.LedgerStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txLedger{tx: sqlTx, parent: s}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

type txLedger struct {
	tx     *sql.Tx
	parent *Store
}

func (tl *txLedger) Find(ctx context.Context, tenant, employeeCode, leaveTypeID string, year int) (*leave.Balance, error) {
	return tl.parent.findBalance(ctx, tl.tx, tenant, employeeCode, leaveTypeID, year)
}

func (tl *txLedger) Create(ctx context.Context, b leave.Balance) error {
	return tl.parent.createBalance(ctx, tl.tx, b)
}

func (tl *txLedger) Update(ctx context.Context, b leave.Balance) error {
	return tl.parent.updateBalance(ctx, tl.tx, b)
}

// =============================================================================
// ACCRUAL RUN AUDIT TRAIL
// =============================================================================

// AccrualRun records one tenant's outcome in one engine invocation.
type AccrualRun struct {
	ID          string
	Tenant      string
	Year        int
	Month       int
	Forced      bool
	Allotted    int
	Credited    int
	Skipped     int
	Error       string
	StartedAt   time.Time
	CompletedAt time.Time
	CreatedAt   time.Time
}

// SaveAccrualRun appends an audit row. Runs are audit history, never a
// guard: the engine's own watermark keeps reruns idempotent.
func (s *Store) SaveAccrualRun(ctx context.Context, r AccrualRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO accrual_runs
		(id, tenant, year, month, forced, allotted, credited, skipped, error, started_at, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.Tenant, r.Year, r.Month, r.Forced,
		r.Allotted, r.Credited, r.Skipped, nullString(r.Error),
		nullTime(r.StartedAt), nullTime(r.CompletedAt),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ListAccrualRuns returns run history, newest first. Empty tenant means
// all tenants.
func (s *Store) ListAccrualRuns(ctx context.Context, tenant string) ([]AccrualRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, tenant, year, month, forced, allotted, credited, skipped, error, started_at, completed_at, created_at
		FROM accrual_runs
	`
	var args []any
	if tenant != "" {
		query += " WHERE tenant = ?"
		args = append(args, tenant)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accrual runs: %w", err)
	}
	defer rows.Close()

	var runs []AccrualRun
	for rows.Next() {
		var r AccrualRun
		var errMsg, startedAt, completedAt sql.NullString
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Tenant, &r.Year, &r.Month, &r.Forced,
			&r.Allotted, &r.Credited, &r.Skipped, &errMsg, &startedAt, &completedAt, &createdAt); err != nil {
			return nil, err
		}
		r.Error = errMsg.String
		if startedAt.Valid {
			r.StartedAt, _ = time.Parse(time.RFC3339, startedAt.String)
		}
		if completedAt.Valid {
			r.CompletedAt, _ = time.Parse(time.RFC3339, completedAt.String)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"leave_balances", "accrual_runs", "leave_type_policies", "leave_type_configs", "employees"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullMonth(m int) sql.NullInt64 {
	if m == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(m), Valid: true}
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
