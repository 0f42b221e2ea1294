package leave

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Summary renders the one-line run summary that goes to the daily log.
func (r *RunReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s year=%d month=%d tenants=%d allotted=%d credited=%d skipped=%d errors=%d",
		r.CompletedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		r.Year, r.Month, len(r.Tenants),
		r.Allotted, r.Credited, r.Skipped, r.Errored)
	for _, t := range r.Tenants {
		if t.Error != "" {
			fmt.Fprintf(&b, " tenant_error=%s:%q", t.Tenant, t.Error)
		}
	}
	return b.String()
}

// AppendDailyLog appends the run summary to an accrual-YYYY-MM-DD.log
// file under dir, creating the directory and file as needed. The file is
// named after the run's completion date so each day gets its own log.
func AppendDailyLog(dir string, r *RunReport) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	name := fmt.Sprintf("accrual-%s.log", r.CompletedAt.UTC().Format("2006-01-02"))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening daily log: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, r.Summary()); err != nil {
		return fmt.Errorf("writing daily log: %w", err)
	}
	return nil
}
