package api

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/store/sqlite"
)

func TestNextFire(t *testing.T) {
	loc := time.UTC
	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"mid-month waits for next 1st",
			time.Date(2025, time.March, 15, 9, 30, 0, 0, loc),
			time.Date(2025, time.April, 1, 0, 5, 0, 0, loc),
		},
		{
			"just after midnight on the 1st fires the same morning",
			time.Date(2025, time.March, 1, 0, 0, 30, 0, loc),
			time.Date(2025, time.March, 1, 0, 5, 0, 0, loc),
		},
		{
			"exactly at firing time rolls to next month",
			time.Date(2025, time.March, 1, 0, 5, 0, 0, loc),
			time.Date(2025, time.April, 1, 0, 5, 0, 0, loc),
		},
		{
			"december rolls the year",
			time.Date(2025, time.December, 20, 12, 0, 0, 0, loc),
			time.Date(2026, time.January, 1, 0, 5, 0, 0, loc),
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, nextFire(c.now))
		})
	}
}

func TestScheduler_StartStop(t *testing.T) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ms := NewMonthlyScheduler(NewHandler(store))
	ms.Start()
	ms.Stop()
}

func TestScheduler_ProcessRunsAndRecords(t *testing.T) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.SaveEmployee(ctx, leave.Employee{Tenant: "T1", Code: "E1", FirstName: "Asha"}))
	require.NoError(t, store.SaveLeaveType(ctx, leave.LeaveTypeConfig{
		ConfigID: "cl-1", Tenant: "T1", Code: "CL", Name: "Casual Leave",
		AnnualLimitDays: decimal.RequireFromString("12"), CreditCadence: "monthly", Configured: true,
	}, nil))

	ms := NewMonthlyScheduler(NewHandler(store))
	ms.Now = func() time.Time {
		return time.Date(2025, time.April, 1, 0, 5, 0, 0, time.UTC)
	}

	ms.process()

	b, err := store.Find(ctx, "T1", "E1", "cl-1", 2025)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, 4, b.Month)
	assert.Equal(t, "4.00", b.Allotted.StringFixed(2))

	runs, err := store.ListAccrualRuns(ctx, "T1")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 4, runs[0].Month)
	assert.Equal(t, 1, runs[0].Allotted)
}
