// Package store provides in-memory implementations of the leave engine's
// data-access contracts, for unit tests and local development.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// MEMORY STORE - Implements Roster, ConfigSource and TxLedgerStore
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	employees map[string][]leave.Employee        // tenant -> roster
	configs   map[string][]leave.LeaveTypeConfig // tenant -> configs
	policies  map[policyKey]leave.LeavePolicy
	balances  map[balanceKey]leave.Balance
}

type policyKey struct {
	ConfigID string
	Tenant   string
}

type balanceKey struct {
	Tenant       string
	EmployeeCode string
	LeaveTypeID  string
	Year         int
}

func NewMemory() *Memory {
	return &Memory{
		employees: make(map[string][]leave.Employee),
		configs:   make(map[string][]leave.LeaveTypeConfig),
		policies:  make(map[policyKey]leave.LeavePolicy),
		balances:  make(map[balanceKey]leave.Balance),
	}
}

// -----------------------------------------------------------------------------
// Seeding helpers (test setup)
// -----------------------------------------------------------------------------

func (m *Memory) AddEmployee(e leave.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.Tenant] = append(m.employees[e.Tenant], e)
}

func (m *Memory) AddConfig(c leave.LeaveTypeConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[c.Tenant] = append(m.configs[c.Tenant], c)
}

func (m *Memory) AddPolicy(p leave.LeavePolicy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policies[policyKey{ConfigID: p.ConfigID, Tenant: p.Tenant}] = p
}

// PutBalance seeds a ledger row directly, e.g. a prior-year row.
func (m *Memory) PutBalance(b leave.Balance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[keyOf(b)] = b
}

// Balances returns a copy of every ledger row, for assertions.
func (m *Memory) Balances() []leave.Balance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]leave.Balance, 0, len(m.balances))
	for _, b := range m.balances {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tenant != out[j].Tenant {
			return out[i].Tenant < out[j].Tenant
		}
		if out[i].EmployeeCode != out[j].EmployeeCode {
			return out[i].EmployeeCode < out[j].EmployeeCode
		}
		if out[i].LeaveTypeID != out[j].LeaveTypeID {
			return out[i].LeaveTypeID < out[j].LeaveTypeID
		}
		return out[i].Year < out[j].Year
	})
	return out
}

func keyOf(b leave.Balance) balanceKey {
	return balanceKey{Tenant: b.Tenant, EmployeeCode: b.EmployeeCode, LeaveTypeID: b.LeaveTypeID, Year: b.Year}
}

// -----------------------------------------------------------------------------
// leave.Roster
// -----------------------------------------------------------------------------

func (m *Memory) ListEmployees(_ context.Context, tenant string) ([]leave.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]leave.Employee, len(m.employees[tenant]))
	copy(out, m.employees[tenant])
	return out, nil
}

// -----------------------------------------------------------------------------
// leave.ConfigSource
// -----------------------------------------------------------------------------

func (m *Memory) ListTenants(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tenants := make([]string, 0, len(m.configs))
	for t := range m.configs {
		tenants = append(tenants, t)
	}
	sort.Strings(tenants)
	return tenants, nil
}

func (m *Memory) ListCompletedConfigs(_ context.Context, tenant string) ([]leave.LeaveTypeConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []leave.LeaveTypeConfig
	for _, c := range m.configs[tenant] {
		if c.Configured {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *Memory) FullConfig(_ context.Context, configID, tenant string) (*leave.LeavePolicy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.policies[policyKey{ConfigID: configID, Tenant: tenant}]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// -----------------------------------------------------------------------------
// leave.LedgerStore
// -----------------------------------------------------------------------------

func (m *Memory) Find(_ context.Context, tenant, employeeCode, leaveTypeID string, year int) (*leave.Balance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findLocked(tenant, employeeCode, leaveTypeID, year)
}

func (m *Memory) findLocked(tenant, employeeCode, leaveTypeID string, year int) (*leave.Balance, error) {
	b, ok := m.balances[balanceKey{Tenant: tenant, EmployeeCode: employeeCode, LeaveTypeID: leaveTypeID, Year: year}]
	if !ok {
		return nil, nil
	}
	cp := b
	return &cp, nil
}

func (m *Memory) Create(_ context.Context, b leave.Balance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createLocked(b)
}

func (m *Memory) createLocked(b leave.Balance) error {
	k := keyOf(b)
	if _, exists := m.balances[k]; exists {
		return leave.ErrDuplicateBalance
	}
	m.balances[k] = b
	return nil
}

func (m *Memory) Update(_ context.Context, b leave.Balance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateLocked(b)
}

func (m *Memory) updateLocked(b leave.Balance) error {
	k := keyOf(b)
	if _, exists := m.balances[k]; !exists {
		return leave.ErrBalanceNotFound
	}
	m.balances[k] = b
	return nil
}

// -----------------------------------------------------------------------------
// leave.TxLedgerStore
// -----------------------------------------------------------------------------

// WithTx executes fn against the ledger, restoring a snapshot of the
// balance map when fn fails. Simulates a database transaction.
func (m *Memory) WithTx(_ context.Context, fn func(leave.LedgerStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make(map[balanceKey]leave.Balance, len(m.balances))
	for k, v := range m.balances {
		snapshot[k] = v
	}

	if err := fn(&txView{parent: m}); err != nil {
		m.balances = snapshot
		return err
	}
	return nil
}

// txView writes through to the parent without re-locking; WithTx holds
// the lock for the duration of the transaction.
type txView struct {
	parent *Memory
}

func (tv *txView) Find(_ context.Context, tenant, employeeCode, leaveTypeID string, year int) (*leave.Balance, error) {
	return tv.parent.findLocked(tenant, employeeCode, leaveTypeID, year)
}

func (tv *txView) Create(_ context.Context, b leave.Balance) error {
	return tv.parent.createLocked(b)
}

func (tv *txView) Update(_ context.Context, b leave.Balance) error {
	return tv.parent.updateLocked(b)
}
