/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the planner engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (optional) and parse command-line flags
  2. Build the holiday table, with optional YAML overlay
  3. Initialize SQLite snapshot store
  4. Create API handler and restore the latest snapshot
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port      HTTP server port (default: 8080, env PORT)
  -db        SQLite database path (default: planner.db, env DB_PATH)
             Use ":memory:" for in-memory database
  -holidays  Optional YAML overlay for the holiday table (env HOLIDAYS_FILE)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/planner.db"

  # Run with a custom holiday overlay
  ./server -holidays="./holidays.yaml"

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
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
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/yearplan/planner-engine/api"
	"github.com/yearplan/planner-engine/holiday"
	"github.com/yearplan/planner-engine/store/sqlite"
)

func main() {
	// .env is optional; flags still win over environment values
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "planner.db"), "SQLite database path")
	holidaysFile := flag.String("holidays", envStr("HOLIDAYS_FILE", ""), "YAML holiday overlay file")
	flag.Parse()

	// Holiday table
	holidays := holiday.Default()
	if *holidaysFile != "" {
		if err := holidays.ApplyOverlayFile(*holidaysFile); err != nil {
			log.Fatalf("Failed to load holiday overlay: %v", err)
		}
		log.Printf("Loaded holiday overlay from %s", *holidaysFile)
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler and restore the last snapshot
	handler := api.NewHandler(store, holidays)
	if err := handler.LoadState(context.Background()); err != nil {
		log.Printf("Warning: Failed to restore state: %v", err)
	}

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
