package browser_test

import (
	"strings"
	"testing"

	"github.com/playwright-community/playwright-go"
)

// TestWriteReportFlow walks the full coach journey: find the player on the
// players page, fill in the report form, submit it and check the rendered view.
func TestWriteReportFlow(t *testing.T) {
	app := newTestApp(t)
	app.seedTerm(t, app.adminAccountID(t))

	page := app.newPage(t)
	app.loginAdmin(t, page)

	if _, err := page.Goto(app.BaseURL + "/players"); err != nil {
		t.Fatalf("failed to open players: %v", err)
	}
	row, _ := page.Locator("tbody").TextContent()
	if !strings.Contains(row, "Ella Ford") || !strings.Contains(row, "Not started") {
		t.Fatalf("players table = %q, want Ella Ford with no report yet", row)
	}

	if err := page.Locator("a", playwright.PageLocatorOptions{
		HasText: "Write report",
	}).Click(); err != nil {
		t.Fatalf("failed to open report form: %v", err)
	}

	// Submitting the empty form trips validation and keeps the input.
	if err := page.Locator("button[value=finalize]").Click(); err != nil {
		t.Fatalf("failed to submit empty form: %v", err)
	}
	if err := page.Locator(".error-summary").WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("expected validation errors on empty submit: %v", err)
	}
	summary, _ := page.Locator(".error-summary").TextContent()
	if !strings.Contains(summary, "Forehand is required") {
		t.Errorf("summary = %q, want the required-field message", summary)
	}

	// Fill everything in and submit for real.
	if _, err := page.Locator(`select[name="f|Skills|Forehand"]`).SelectOption(playwright.SelectOptionValues{
		Values: &[]string{"4"},
	}); err != nil {
		t.Fatalf("failed to pick rating: %v", err)
	}
	if err := page.Locator(`textarea[name="f|Skills|Coach comments"]`).Fill("Lovely topspin this term."); err != nil {
		t.Fatalf("failed to fill comments: %v", err)
	}
	if _, err := page.Locator("select[name=recommended_group]").SelectOption(playwright.SelectOptionValues{
		Labels: &[]string{"Red 2"},
	}); err != nil {
		t.Fatalf("failed to pick recommended group: %v", err)
	}
	if err := page.Locator("button[value=finalize]").Click(); err != nil {
		t.Fatalf("failed to submit report: %v", err)
	}

	if err := page.WaitForURL(app.BaseURL+"/reports/view/**", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("submission did not land on the report view: %v", err)
	}
	body, _ := page.Locator("main").TextContent()
	if !strings.Contains(body, "Ella Ford") {
		t.Errorf("view = %q, want the student name", body)
	}
	if !strings.Contains(body, "4 - Good") {
		t.Errorf("view = %q, want the rating with its label", body)
	}
	if !strings.Contains(body, "Red 2") {
		t.Errorf("view = %q, want the recommended group", body)
	}

	// The players page now shows the submitted state.
	if _, err := page.Goto(app.BaseURL + "/players"); err != nil {
		t.Fatalf("failed to reopen players: %v", err)
	}
	row, _ = page.Locator("tbody").TextContent()
	if !strings.Contains(row, "Submitted") {
		t.Errorf("players table = %q, want Submitted badge", row)
	}
}

// TestSaveDraft checks that a partially filled report can be saved and resumed.
func TestSaveDraft(t *testing.T) {
	app := newTestApp(t)
	app.seedTerm(t, app.adminAccountID(t))

	page := app.newPage(t)
	app.loginAdmin(t, page)

	if _, err := page.Goto(app.BaseURL + "/players"); err != nil {
		t.Fatalf("failed to open players: %v", err)
	}
	if err := page.Locator("a", playwright.PageLocatorOptions{
		HasText: "Write report",
	}).Click(); err != nil {
		t.Fatalf("failed to open report form: %v", err)
	}

	// A draft saves without the required rating.
	if err := page.Locator(`textarea[name="f|Skills|Coach comments"]`).Fill("Half written."); err != nil {
		t.Fatalf("failed to fill comments: %v", err)
	}
	if err := page.Locator("button[value=draft]").Click(); err != nil {
		t.Fatalf("failed to save draft: %v", err)
	}
	if err := page.WaitForURL(app.BaseURL+"/reports/view/**", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("draft save did not land on the report view: %v", err)
	}
	body, _ := page.Locator("main").TextContent()
	if !strings.Contains(body, "Draft") {
		t.Errorf("view = %q, want the Draft badge", body)
	}

	// Resume through the edit page, the saved text is still there.
	if err := page.Locator("a.button", playwright.PageLocatorOptions{
		HasText: "Edit",
	}).Click(); err != nil {
		t.Fatalf("failed to open edit page: %v", err)
	}
	saved, err := page.Locator(`textarea[name="f|Skills|Coach comments"]`).InputValue()
	if err != nil {
		t.Fatalf("failed to read saved comments: %v", err)
	}
	if saved != "Half written." {
		t.Errorf("saved comments = %q, want the draft text", saved)
	}
}
