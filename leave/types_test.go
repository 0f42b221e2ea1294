package leave

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParseCreditType(t *testing.T) {
	cases := []struct {
		in   string
		want CreditType
	}{
		{"monthly", CreditMonthly},
		{"Monthly", CreditMonthly},
		{"MONTHLY", CreditMonthly},
		{"yearly", CreditYearly},
		{"annual", CreditYearly},
		{"", CreditYearly},
		{"garbage", CreditYearly},
	}
	for _, c := range cases {
		if got := ParseCreditType(c.in); got != c.want {
			t.Errorf("ParseCreditType(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestPerMonthRate_RoundsHalfUpToTwoPlaces(t *testing.T) {
	cases := []struct {
		limit string
		want  string
	}{
		{"12", "1"},      // divides evenly
		{"24", "2"},
		{"10", "0.83"},   // 0.8333...
		{"7", "0.58"},    // 0.5833...
		{"100", "8.33"},
		{"14", "1.17"},   // 1.1666... rounds up
		{"0.06", "0.01"}, // exact half rounds up
		{"0", "0"},
	}
	for _, c := range cases {
		cfg := LeaveTypeConfig{AnnualLimitDays: dec(c.limit)}
		if got := cfg.PerMonthRate(); !got.Equal(dec(c.want)) {
			t.Errorf("PerMonthRate(limit=%s) = %s, want %s", c.limit, got, c.want)
		}
	}
}

func TestEmployeeFullName(t *testing.T) {
	cases := []struct {
		emp  Employee
		want string
	}{
		{Employee{FirstName: "Asha", LastName: "Rao"}, "Asha Rao"},
		{Employee{FirstName: "Asha", MiddleName: "K", LastName: "Rao"}, "Asha K Rao"},
		{Employee{FirstName: "Madonna"}, "Madonna"},
	}
	for _, c := range cases {
		if got := c.emp.FullName(); got != c.want {
			t.Errorf("FullName() = %q, want %q", got, c.want)
		}
	}
}

func TestPolicyLapses(t *testing.T) {
	var nilPolicy *LeavePolicy
	if !nilPolicy.Lapses() {
		t.Error("missing policy must default to lapsing")
	}
	if !(&LeavePolicy{LapseLeave: "yes"}).Lapses() {
		t.Error("lapse=yes must lapse")
	}
	if !(&LeavePolicy{LapseLeave: ""}).Lapses() {
		t.Error("unset lapse must default to lapsing")
	}
	if (&LeavePolicy{LapseLeave: "no"}).Lapses() {
		t.Error("lapse=no must not lapse")
	}
	if (&LeavePolicy{LapseLeave: "No"}).Lapses() {
		t.Error("lapse comparison is case-insensitive")
	}
}

func TestPolicyCarryFrom(t *testing.T) {
	cases := []struct {
		name   string
		policy LeavePolicy
		prior  string
		want   string
	}{
		{"all carries everything", LeavePolicy{CarryForwardType: CarryForwardAll}, "7.5", "7.5"},
		{"days caps at the limit", LeavePolicy{CarryForwardType: CarryForwardDays, CarryForwardCapDays: dec("5")}, "8", "5"},
		{"days below cap carries balance", LeavePolicy{CarryForwardType: CarryForwardDays, CarryForwardCapDays: dec("5")}, "3", "3"},
		{"days with zero cap carries nothing", LeavePolicy{CarryForwardType: CarryForwardDays}, "8", "0"},
		{"none carries nothing", LeavePolicy{CarryForwardType: CarryForwardNone}, "8", "0"},
		{"unknown type carries nothing", LeavePolicy{CarryForwardType: "weird"}, "8", "0"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.policy.CarryFrom(dec(c.prior)); !got.Equal(dec(c.want)) {
				t.Errorf("CarryFrom(%s) = %s, want %s", c.prior, got, c.want)
			}
		})
	}
}
