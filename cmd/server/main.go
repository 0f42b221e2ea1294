/*
main.go - HTTP server entry point

PURPOSE:
  Starts the leave engine's admin API together with the monthly accrual
  scheduler. Handles configuration, dependency injection, and graceful
  shutdown.

COMMAND-LINE FLAGS:
  -port      HTTP server port (default: 8080)
  -db        SQLite database path (default: leave.db)
             Use ":memory:" for an in-memory database
  -logdir    Directory for daily accrual summary logs (default: logs)
  -scheduler Enable the monthly scheduler (default: true)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Stop the scheduler, waiting for an in-flight run
  3. Wait for active requests to complete (30s timeout)
  4. Close the database connection

EXAMPLES:
  ./server -db="./data/leave.db"
  ./server -db=":memory:" -scheduler=false

SEE ALSO:
  - api/server.go: Router configuration
  - api/scheduler.go: Monthly accrual trigger
  - cmd/accrue: the standalone batch entry point
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/leave-engine/api"
	"github.com/warp/leave-engine/store/sqlite"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "leave.db", "SQLite database path")
	logDir := flag.String("logdir", "logs", "directory for daily accrual summary logs")
	withScheduler := flag.Bool("scheduler", true, "enable the monthly accrual scheduler")
	flag.Parse()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	handler := api.NewHandler(store)
	handler.LogDir = *logDir

	var scheduler *api.MonthlyScheduler
	if *withScheduler {
		scheduler = api.NewMonthlyScheduler(handler)
		scheduler.Start()
	}

	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Leave engine listening on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	if scheduler != nil {
		scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
