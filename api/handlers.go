/*
handlers.go - HTTP API for the leave accrual engine

PURPOSE:
  Exposes the accrual engine and its supporting records over REST.
  Handles HTTP request/response and JSON serialization; all business
  logic lives in the leave package.

ENDPOINTS:
  Accrual:
    POST /api/accrual/run              Trigger a run (tenant/year/month/force)
    GET  /api/accrual/runs             Run audit history

  Per tenant:
    GET  /api/tenants/{tenant}/balances     Ledger read surface
    GET  /api/tenants/{tenant}/employees    Roster
    PUT  /api/tenants/{tenant}/employees    Upsert roster entry
    DELETE /api/tenants/{tenant}/employees/{code}
    GET  /api/tenants/{tenant}/leave-types  Leave type configs
    PUT  /api/tenants/{tenant}/leave-types  Upsert config + policy

ERROR HANDLING:
  Errors return JSON with appropriate HTTP status:
  - 400: invalid input
  - 500: store failures

SECURITY NOTE:
  No authentication middleware. Auth sits in front of this service.

SEE ALSO:
  - server.go: router setup and middleware
  - scheduler.go: the monthly automated trigger
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/store/sqlite"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Engine *leave.Engine

	// LogDir receives the daily run-summary log; empty disables it.
	LogDir string
}

// NewHandler creates a handler backed by the given store. The engine is
// wired to the same store for all three of its contracts.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:  store,
		Engine: leave.NewEngine(store, store, store),
	}
}

// =============================================================================
// ACCRUAL
// =============================================================================

// RunAccrual triggers an engine run. The scheduled path and this manual
// path share the same engine, so reprocessing stays idempotent either way.
func (h *Handler) RunAccrual(w http.ResponseWriter, r *http.Request) {
	// An empty body means "everything, this month".
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.Engine.Run(r.Context(), leave.RunOptions{
		Tenant: req.Tenant,
		Year:   req.Year,
		Month:  req.Month,
		Force:  req.Force,
	})
	if err != nil {
		if errors.Is(err, leave.ErrInvalidMonth) || errors.Is(err, leave.ErrInvalidYear) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.recordRun(r.Context(), report); err != nil {
		// Audit failures don't undo the accrual itself.
		writeJSON(w, http.StatusOK, report)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// recordRun persists per-tenant audit rows and appends the daily summary.
func (h *Handler) recordRun(ctx context.Context, report *leave.RunReport) error {
	for _, tr := range report.Tenants {
		run := sqlite.AccrualRun{
			ID:          uuid.NewString(),
			Tenant:      tr.Tenant,
			Year:        report.Year,
			Month:       report.Month,
			Forced:      report.Forced,
			Allotted:    tr.Allotted,
			Credited:    tr.Credited,
			Skipped:     tr.Skipped,
			Error:       tr.Error,
			StartedAt:   report.StartedAt,
			CompletedAt: report.CompletedAt,
		}
		if err := h.Store.SaveAccrualRun(ctx, run); err != nil {
			return err
		}
	}
	if h.LogDir != "" {
		return leave.AppendDailyLog(h.LogDir, report)
	}
	return nil
}

// ListAccrualRuns returns the audit history, optionally ?tenant= filtered.
func (h *Handler) ListAccrualRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListAccrualRuns(r.Context(), r.URL.Query().Get("tenant"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []sqlite.AccrualRun{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// =============================================================================
// BALANCES
// =============================================================================

// ListBalances is the read surface other subsystems (approval, payroll,
// self-service) use to see available balance.
func (h *Handler) ListBalances(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	employee := r.URL.Query().Get("employee")

	year := 0
	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = parsed
	}

	balances, err := h.Store.ListBalances(r.Context(), tenant, employee, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := make([]BalanceResponse, 0, len(balances))
	for _, b := range balances {
		resp = append(resp, toBalanceResponse(b))
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// ROSTER
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	employees, err := h.Store.ListEmployees(r.Context(), tenant)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if employees == nil {
		employees = []leave.Employee{}
	}
	writeJSON(w, http.StatusOK, employees)
}

func (h *Handler) SaveEmployee(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")

	var req EmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Code == "" || req.FirstName == "" {
		writeError(w, http.StatusBadRequest, "code and firstName are required")
		return
	}

	emp := leave.Employee{
		Tenant:     tenant,
		Code:       req.Code,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, emp)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	code := chi.URLParam(r, "code")
	if err := h.Store.DeleteEmployee(r.Context(), tenant, code); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// LEAVE TYPES
// =============================================================================

func (h *Handler) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	configs, err := h.Store.ListLeaveTypes(r.Context(), tenant)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if configs == nil {
		configs = []leave.LeaveTypeConfig{}
	}
	writeJSON(w, http.StatusOK, configs)
}

func (h *Handler) SaveLeaveType(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")

	var req LeaveTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ConfigID == "" || req.Code == "" {
		writeError(w, http.StatusBadRequest, "configId and code are required")
		return
	}

	cfg, policy, err := req.toConfig(tenant)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid day amount: "+err.Error())
		return
	}
	if err := h.Store.SaveLeaveType(r.Context(), cfg, policy); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}
