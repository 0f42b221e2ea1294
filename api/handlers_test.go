package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/store/sqlite"
)

func newTestServer(t *testing.T) (*Handler, *httptest.Server) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := NewHandler(store)
	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return h, srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func seedTenant(t *testing.T, srv *httptest.Server, tenant string) {
	t.Helper()
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/tenants/"+tenant+"/employees", EmployeeRequest{
		Code: "E1", FirstName: "Asha", LastName: "Rao",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/tenants/"+tenant+"/leave-types", LeaveTypeRequest{
		ConfigID: "cl-" + tenant, Code: "CL", Name: "Casual Leave",
		AnnualLimitDays: "12", CreditCadence: "monthly", Configured: true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestRunAccrual_EndToEnd(t *testing.T) {
	_, srv := newTestServer(t)
	seedTenant(t, srv, "acme")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/accrual/run", RunRequest{Year: 2025, Month: 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decode[leave.RunReport](t, resp)

	assert.Equal(t, 2025, report.Year)
	assert.Equal(t, 3, report.Month)
	assert.Equal(t, 1, report.Allotted)
	assert.Zero(t, report.Errored)
	require.Len(t, report.Tenants, 1)
	assert.Equal(t, "acme", report.Tenants[0].Tenant)

	// The ledger is visible through the read surface.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/tenants/acme/balances?year=2025", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	balances := decode[[]BalanceResponse](t, resp)
	require.Len(t, balances, 1)
	assert.Equal(t, "E1", balances[0].EmployeeCode)
	assert.Equal(t, "3.00", balances[0].Allotted)
	assert.Equal(t, "3.00", balances[0].Balance)
	require.NotNil(t, balances[0].Month)
	assert.Equal(t, 3, *balances[0].Month)

	// And the run left an audit row behind.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/accrual/runs?tenant=acme", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	runs := decode[[]sqlite.AccrualRun](t, resp)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].Allotted)
}

func TestRunAccrual_EmptyBodyDefaultsToCurrentMonth(t *testing.T) {
	_, srv := newTestServer(t)
	seedTenant(t, srv, "acme")

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/accrual/run", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	report := decode[leave.RunReport](t, resp)
	assert.Equal(t, 1, report.Allotted)
	assert.NotZero(t, report.Year)
	assert.NotZero(t, report.Month)
}

func TestRunAccrual_InvalidMonthIs400(t *testing.T) {
	_, srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/accrual/run", RunRequest{Year: 2025, Month: 13})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRunAccrual_RerunIsIdempotent(t *testing.T) {
	_, srv := newTestServer(t)
	seedTenant(t, srv, "acme")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/accrual/run", RunRequest{Year: 2025, Month: 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/accrual/run", RunRequest{Year: 2025, Month: 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decode[leave.RunReport](t, resp)
	assert.Zero(t, report.Allotted)
	assert.Zero(t, report.Credited)
	assert.Equal(t, 1, report.Skipped)
}

func TestEmployees_CRUD(t *testing.T) {
	_, srv := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/tenants/acme/employees", EmployeeRequest{
		Code: "E1", FirstName: "Asha",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Missing required fields.
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/tenants/acme/employees", EmployeeRequest{Code: "E2"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/tenants/acme/employees", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	emps := decode[[]leave.Employee](t, resp)
	require.Len(t, emps, 1)
	assert.Equal(t, "E1", emps[0].Code)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/tenants/acme/employees/E1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/tenants/acme/employees", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	emps = decode[[]leave.Employee](t, resp)
	assert.Empty(t, emps)
}

func TestSaveLeaveType_WithPolicy(t *testing.T) {
	h, srv := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/tenants/acme/leave-types", LeaveTypeRequest{
		ConfigID: "cl-1", Code: "CL", Name: "Casual Leave",
		AnnualLimitDays: "12", CreditCadence: "monthly", Configured: true,
		Policy: &Policy{LapseLeave: "no", CarryForwardType: "days", CarryForwardCapDays: "5"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	policy, err := h.Store.FullConfig(context.Background(), "cl-1", "acme")
	require.NoError(t, err)
	require.NotNil(t, policy)
	assert.False(t, policy.Lapses())
	assert.Equal(t, "days", policy.CarryForwardType)
}

func TestSaveLeaveType_BadDecimalIs400(t *testing.T) {
	_, srv := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/tenants/acme/leave-types", LeaveTypeRequest{
		ConfigID: "cl-1", Code: "CL", Name: "Casual Leave",
		AnnualLimitDays: "twelve", Configured: true,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
