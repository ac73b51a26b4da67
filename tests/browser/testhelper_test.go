package browser_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	web "courtside/internal/adapters/http"
	"courtside/internal/adapters/http/middleware"
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
	"courtside/internal/domain/group"
	"courtside/internal/domain/period"
	"courtside/internal/domain/template"
)

const (
	adminEmail    = "admin@test.club"
	adminPassword = "TestPass123!long"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	Stores  *web.Stores
	tmpDir  string
}

// newTestApp creates a fully wired app with a temp SQLite DB and starts an HTTP server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	// Create temp directory for the database
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Run migrations
	if err := storage.MigrateDB(db, dbPath); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}

	// Create stores
	stores := &web.Stores{
		AccountStore:     accountStore.NewSQLiteStore(db),
		CoachDetailStore: coachDetailStore.NewSQLiteStore(db),
		StudentStore:     studentStore.NewSQLiteStore(db),
		GroupStore:       groupStore.NewSQLiteStore(db),
		PeriodStore:      periodStore.NewSQLiteStore(db),
		PlayerStore:      playerStore.NewSQLiteStore(db),
		TemplateStore:    templateStore.NewSQLiteStore(db),
		ReportStore:      reportStore.NewSQLiteStore(db),
	}

	// Seed the super admin and the default group ladder
	ctx := context.Background()
	seedDeps := orchestrators.SeedDeps{
		AccountStore: stores.AccountStore,
		GroupStore:   stores.GroupStore,
		GenerateID:   func() string { return uuid.New().String() },
		Now:          time.Now,
	}
	if err := orchestrators.ExecuteSeed(ctx, adminEmail, adminPassword, seedDeps); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	// Change to project root so relative template/static paths work
	projectRoot := findProjectRoot(t)
	origDir, _ := os.Getwd()
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("failed to chdir to project root: %v", err)
	}
	t.Cleanup(func() { os.Chdir(origDir) })

	// Add test port to CSRF trusted origins before creating mux
	middleware.ExtraTrustedOrigins = append(middleware.ExtraTrustedOrigins,
		fmt.Sprintf("127.0.0.1:%d", port),
		fmt.Sprintf("localhost:%d", port),
	)

	// Start HTTP server
	mux := web.NewMux("static", stores, perf.NewCollector(perf.DefaultCapacity))
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/login")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	// Start Playwright
	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		DB:      db,
		Server:  srv,
		PW:      pw,
		Browser: browser,
		Stores:  stores,
		tmpDir:  tmpDir,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return app
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login navigates to the login page and signs in with the given credentials.
func (a *testApp) login(t *testing.T, page playwright.Page, email, password string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=email]").Fill(email); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=password]").Fill(password); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click sign in: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/dashboard", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to dashboard: %v", err)
	}
}

// loginAdmin signs in as the seeded super admin.
func (a *testApp) loginAdmin(t *testing.T, page playwright.Page) {
	t.Helper()
	a.login(t, page, adminEmail, adminPassword)
}

// seedTerm creates an active teaching period, a rating-based template assigned
// to the first seeded group, and one enrolled player coached by the given
// account. Returns the player ID.
func (a *testApp) seedTerm(t *testing.T, coachID string) string {
	t.Helper()
	ctx := context.Background()
	gen := func() string { return uuid.New().String() }

	groups, err := a.Stores.GroupStore.List(ctx)
	if err != nil || len(groups) == 0 {
		t.Fatalf("seeded groups missing: %v", err)
	}
	var red group.Group
	for _, g := range groups {
		if g.Name == "Red 1" {
			red = g
		}
	}
	if red.ID == "" {
		t.Fatalf("Red 1 group not seeded")
	}

	per := period.Period{
		ID:        gen(),
		Name:      "Spring Term",
		StartDate: time.Now().AddDate(0, -1, 0),
		EndDate:   time.Now().AddDate(0, 2, 0),
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := a.Stores.PeriodStore.Save(ctx, per); err != nil {
		t.Fatalf("failed to save period: %v", err)
	}

	tpl, err := orchestrators.ExecuteCreateTemplate(ctx, orchestrators.CreateTemplateInput{
		Name: "Mini Red Report",
		Sections: []template.Section{
			{
				Name: "Skills", Order: 1,
				Fields: []template.Field{
					{Name: "Forehand", Kind: template.KindRating, Required: true, Order: 1},
					{Name: "Coach comments", Kind: template.KindTextarea, Order: 2},
				},
			},
		},
		CreatedBy: coachID,
	}, orchestrators.CreateTemplateDeps{TemplateStore: a.Stores.TemplateStore, GenerateID: gen, Now: time.Now})
	if err != nil {
		t.Fatalf("failed to create template: %v", err)
	}
	if _, err := orchestrators.ExecuteAssignTemplate(ctx, orchestrators.AssignTemplateInput{
		GroupID:    red.ID,
		TemplateID: tpl.ID,
	}, orchestrators.AssignTemplateDeps{TemplateStore: a.Stores.TemplateStore, GenerateID: gen, Now: time.Now}); err != nil {
		t.Fatalf("failed to assign template: %v", err)
	}

	p, err := orchestrators.ExecuteEnrolPlayer(ctx, orchestrators.EnrolPlayerInput{
		StudentName:  "Ella Ford",
		ContactEmail: "ford.family@example.com",
		GroupID:      red.ID,
		PeriodID:     per.ID,
		CoachID:      coachID,
	}, orchestrators.EnrolPlayerDeps{
		StudentStore: a.Stores.StudentStore,
		PlayerStore:  a.Stores.PlayerStore,
		GenerateID:   gen,
		Now:          time.Now,
	})
	if err != nil {
		t.Fatalf("failed to enrol player: %v", err)
	}
	return p.ID
}

// adminAccountID looks up the seeded super admin's account ID.
func (a *testApp) adminAccountID(t *testing.T) string {
	t.Helper()
	acct, err := a.Stores.AccountStore.GetByEmail(context.Background(), adminEmail)
	if err != nil {
		t.Fatalf("seeded admin missing: %v", err)
	}
	return acct.ID
}

// findProjectRoot walks up from the working directory to find the project root (contains go.mod).
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (go.mod) from working directory")
		}
		dir = parent
	}
}
