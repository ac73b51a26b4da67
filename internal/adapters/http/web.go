package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"courtside/internal/adapters/email"
	"courtside/internal/adapters/http/middleware"
	"courtside/internal/adapters/http/perf"
	accountStore "courtside/internal/adapters/storage/account"
	coachDetailStore "courtside/internal/adapters/storage/coachdetail"
	groupStore "courtside/internal/adapters/storage/group"
	periodStore "courtside/internal/adapters/storage/period"
	playerStore "courtside/internal/adapters/storage/player"
	reportStore "courtside/internal/adapters/storage/report"
	studentStore "courtside/internal/adapters/storage/student"
	templateStore "courtside/internal/adapters/storage/template"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore     accountStore.Store
	CoachDetailStore coachDetailStore.Store
	StudentStore     studentStore.Store
	GroupStore       groupStore.Store
	PeriodStore      periodStore.Store
	PlayerStore      playerStore.Store
	TemplateStore    templateStore.Store
	ReportStore      reportStore.Store
}

// loadCSRFKey reads the CSRF secret from COURTSIDE_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("COURTSIDE_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("COURTSIDE_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("COURTSIDE_ENV") == "production" {
		log.Fatal("COURTSIDE_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set COURTSIDE_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var emailReplyTo string

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, replyTo string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("COURTSIDE_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
