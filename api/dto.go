package api

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// REQUEST / RESPONSE SHAPES
// =============================================================================

// RunRequest triggers a manual accrual run.
type RunRequest struct {
	Tenant string `json:"tenant,omitempty"`
	Year   int    `json:"year,omitempty"`
	Month  int    `json:"month,omitempty"`
	Force  bool   `json:"force,omitempty"`
}

// EmployeeRequest upserts a roster entry.
type EmployeeRequest struct {
	Code       string `json:"code"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
}

// LeaveTypeRequest upserts a leave type: the basic config plus its
// carry-forward policy in one document.
type LeaveTypeRequest struct {
	ConfigID        string  `json:"configId"`
	Code            string  `json:"code"`
	Name            string  `json:"name"`
	AnnualLimitDays string  `json:"annualLimitDays"`
	CreditCadence   string  `json:"creditCadence,omitempty"`
	Configured      bool    `json:"configured"`
	Policy          *Policy `json:"policy,omitempty"`
}

type Policy struct {
	LapseLeave          string `json:"lapseLeave,omitempty"`
	CarryForwardType    string `json:"carryForwardType,omitempty"`
	CarryForwardCapDays string `json:"carryForwardCapDays,omitempty"`
}

// BalanceResponse is a ledger row as the API exposes it. Day amounts are
// serialized as strings to keep 2-decimal precision intact.
type BalanceResponse struct {
	Tenant         string `json:"tenant"`
	EmployeeCode   string `json:"employeeCode"`
	LeaveTypeID    string `json:"leaveTypeId"`
	Year           int    `json:"year"`
	CreditType     string `json:"creditType"`
	Allotted       string `json:"allotted"`
	Used           string `json:"used"`
	Balance        string `json:"balance"`
	CarryForward   string `json:"carryForward"`
	Month          *int   `json:"month,omitempty"`
	Lapsed         bool   `json:"lapsed"`
	LastCreditedAt string `json:"lastCreditedAt,omitempty"`
}

func toBalanceResponse(b leave.Balance) BalanceResponse {
	resp := BalanceResponse{
		Tenant:       b.Tenant,
		EmployeeCode: b.EmployeeCode,
		LeaveTypeID:  b.LeaveTypeID,
		Year:         b.Year,
		CreditType:   string(b.CreditType),
		Allotted:     b.Allotted.StringFixed(2),
		Used:         b.Used.StringFixed(2),
		Balance:      b.Balance.StringFixed(2),
		CarryForward: b.CarryForward.StringFixed(2),
		Lapsed:       b.Lapsed,
	}
	if b.Month != 0 {
		m := b.Month
		resp.Month = &m
	}
	if !b.LastCreditedAt.IsZero() {
		resp.LastCreditedAt = b.LastCreditedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

func (r LeaveTypeRequest) toConfig(tenant string) (leave.LeaveTypeConfig, *leave.LeavePolicy, error) {
	limit, err := decimal.NewFromString(r.AnnualLimitDays)
	if err != nil {
		return leave.LeaveTypeConfig{}, nil, err
	}

	cfg := leave.LeaveTypeConfig{
		ConfigID:        r.ConfigID,
		Tenant:          tenant,
		Code:            r.Code,
		Name:            r.Name,
		AnnualLimitDays: limit,
		CreditCadence:   r.CreditCadence,
		Configured:      r.Configured,
	}

	if r.Policy == nil {
		return cfg, nil, nil
	}
	policy := &leave.LeavePolicy{
		ConfigID:         r.ConfigID,
		Tenant:           tenant,
		LapseLeave:       r.Policy.LapseLeave,
		CarryForwardType: r.Policy.CarryForwardType,
	}
	if r.Policy.CarryForwardCapDays != "" {
		capDays, err := decimal.NewFromString(r.Policy.CarryForwardCapDays)
		if err != nil {
			return leave.LeaveTypeConfig{}, nil, err
		}
		policy.CarryForwardCapDays = capDays
	}
	return cfg, policy, nil
}

// =============================================================================
// JSON HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
