package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	emailPkg "courtside/internal/adapters/email"
	web "courtside/internal/adapters/http"
	"courtside/internal/adapters/http/perf"
	"courtside/internal/adapters/storage"
	accountStore "courtside/internal/adapters/storage/account"
	coachDetailStore "courtside/internal/adapters/storage/coachdetail"
	groupStore "courtside/internal/adapters/storage/group"
	periodStore "courtside/internal/adapters/storage/period"
	playerStore "courtside/internal/adapters/storage/player"
	reportStore "courtside/internal/adapters/storage/report"
	studentStore "courtside/internal/adapters/storage/student"
	templateStore "courtside/internal/adapters/storage/template"
	"courtside/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("COURTSIDE_DB", "courtside.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Health check
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	// Run database migrations
	if err := storage.MigrateDB(db, dbPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultCapacity)
	timedDB := storage.NewTimedDB(db, collector)

	// Create store instances (using timed DB for query instrumentation)
	acctStore := accountStore.NewSQLiteStore(timedDB)
	grpStore := groupStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:     acctStore,
		CoachDetailStore: coachDetailStore.NewSQLiteStore(timedDB),
		StudentStore:     studentStore.NewSQLiteStore(timedDB),
		GroupStore:       grpStore,
		PeriodStore:      periodStore.NewSQLiteStore(timedDB),
		PlayerStore:      playerStore.NewSQLiteStore(timedDB),
		TemplateStore:    templateStore.NewSQLiteStore(timedDB),
		ReportStore:      reportStore.NewSQLiteStore(timedDB),
	}

	// Seed the super admin and starter groups on an empty database
	seedDeps := orchestrators.SeedDeps{
		AccountStore: acctStore,
		GroupStore:   grpStore,
		GenerateID:   func() string { return uuid.New().String() },
		Now:          time.Now,
	}
	adminEmail := os.Getenv("COURTSIDE_ADMIN_EMAIL")
	adminPassword := os.Getenv("COURTSIDE_ADMIN_PASSWORD")
	if err := orchestrators.ExecuteSeed(context.Background(), adminEmail, adminPassword, seedDeps); err != nil {
		log.Fatalf("failed to seed database: %v", err)
	}

	// Configure email sender
	resendKey := os.Getenv("COURTSIDE_RESEND_KEY")
	emailFrom := envOrDefault("COURTSIDE_RESEND_FROM", "Courtside Tennis <noreply@courtside.club>")
	emailReply := envOrDefault("COURTSIDE_REPLY_TO", "info@courtside.club")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom, emailReply)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom, emailReply)
		if os.Getenv("COURTSIDE_ENV") == "production" {
			log.Println("WARNING: COURTSIDE_RESEND_KEY is not set, email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop, set COURTSIDE_RESEND_KEY for real delivery)")
		}
	}

	// Create HTTP handler with middleware (pass collector for timing + dashboard)
	mux := web.NewMux("static", stores, collector)

	// Start server
	addr := envOrDefault("COURTSIDE_ADDR", ":8080")
	log.Printf("Courtside %s starting on %s (env=%s, schema=%d)", version, addr, envOrDefault("COURTSIDE_ENV", "development"), storage.LatestSchemaVersion())

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
