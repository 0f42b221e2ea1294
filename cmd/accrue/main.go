/*
main.go - Standalone batch entry point for the accrual engine

PURPOSE:
  Runs one leave-credit accrual pass and exits. Meant for cron (just
  after midnight on the 1st) or manual operator use. The HTTP server's
  scheduler and this binary share the same engine, so either invocation
  path is safe to repeat: already-credited months are skipped unless
  -force is given.

COMMAND-LINE FLAGS:
  -db      SQLite database path (default: leave.db)
  -tenant  Restrict to one tenant (default: all tenants with configs)
  -year    Target year (default: current year)
  -month   Target month 1-12 (default: current month)
  -force   Bypass the already-credited watermark check
  -logdir  Directory for the daily summary log (default: logs)

EXIT CODES:
  0  run completed, even if individual tenants errored (errors are
     counted and logged, not raised)
  1  top-level failure (bad options, cannot open the database, cannot
     enumerate tenants)
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/store/sqlite"
)

func main() {
	dbPath := flag.String("db", "leave.db", "SQLite database path")
	tenant := flag.String("tenant", "", "restrict to one tenant")
	year := flag.Int("year", 0, "target year (0 = current)")
	month := flag.Int("month", 0, "target month 1-12 (0 = current)")
	force := flag.Bool("force", false, "bypass the already-credited watermark check")
	logDir := flag.String("logdir", "logs", "directory for the daily summary log")
	flag.Parse()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	engine := leave.NewEngine(store, store, store)

	ctx := context.Background()
	report, err := engine.Run(ctx, leave.RunOptions{
		Tenant: *tenant,
		Year:   *year,
		Month:  *month,
		Force:  *force,
	})
	if err != nil {
		log.Fatalf("Accrual run failed: %v", err)
	}

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
		if err := store.SaveAccrualRun(ctx, run); err != nil {
			log.Printf("Warning: failed to record run for tenant %s: %v", tr.Tenant, err)
		}
	}

	if err := leave.AppendDailyLog(*logDir, report); err != nil {
		log.Printf("Warning: failed to write daily log: %v", err)
	}

	fmt.Println(report.Summary())
	os.Exit(0)
}
