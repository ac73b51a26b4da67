package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"courtside/internal/adapters/http/formview"
	"courtside/internal/adapters/http/middleware"
	"courtside/internal/application/orchestrators"
	"courtside/internal/application/projections"
	"courtside/internal/domain/coach"
	"courtside/internal/domain/form"
	"courtside/internal/domain/period"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json_encode_failed", "error", err.Error())
	}
}

const templatesDir = "internal/adapters/http/templates"

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	role := ""
	email := ""
	name := ""
	if ok {
		role = sess.Role
		email = sess.Email
		name = sess.Name
	}

	funcMap := template.FuncMap{
		"currentRole":  func() string { return role },
		"currentEmail": func() string { return email },
		"currentName":  func() string { return name },
		"isLoggedIn":   func() bool { return role != "" },
		"isAdmin":      func() bool { return role == "admin" || role == "super_admin" },
		"csrfToken":    func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
		"shortDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2 Jan 2006")
		},
		"isoDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// resolvePeriod picks the teaching period for a request: the ?period= query
// parameter when present, otherwise the most recently started active period.
func resolvePeriod(r *http.Request) (period.Period, error) {
	ctx := r.Context()
	if id := r.URL.Query().Get("period"); id != "" {
		return stores.PeriodStore.GetByID(ctx, id)
	}
	active, err := stores.PeriodStore.ListActive(ctx)
	if err != nil {
		return period.Period{}, err
	}
	if len(active) == 0 {
		return period.Period{}, errors.New("no active teaching period")
	}
	latest := active[0]
	for _, p := range active[1:] {
		if p.StartDate.After(latest.StartDate) {
			latest = p
		}
	}
	return latest, nil
}

// --- Home ---

func handleHome(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// --- Login / Logout ---

// handleLogin handles both GET (render form) and POST (authenticate).
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		renderTemplate(w, r, "login.html", map[string]any{"Title": "Sign In"})
		return
	}
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}, orchestrators.LoginDeps{AccountStore: stores.AccountStore, Now: timeNow})
	if err != nil {
		msg := "Invalid email or password"
		if errors.Is(err, orchestrators.ErrAccountLocked) {
			msg = "Account locked after too many failed attempts. Try again in 15 minutes."
		} else if errors.Is(err, orchestrators.ErrAccountDisabled) {
			msg = "This account has been disabled."
		}
		w.WriteHeader(http.StatusUnauthorized)
		renderTemplate(w, r, "login.html", map[string]any{"Title": "Sign In", "Error": msg, "Email": r.PostFormValue("email")})
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email, result.Name, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if cookie, err := r.Cookie("courtside_session"); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// --- Change Password ---

func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	if r.Method == "GET" {
		renderTemplate(w, r, "change_password.html", map[string]any{"Title": "Change Password"})
		return
	}
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		AccountID:       sess.AccountID,
		CurrentPassword: r.PostFormValue("current_password"),
		NewPassword:     r.PostFormValue("new_password"),
	}, orchestrators.ChangePasswordDeps{AccountStore: stores.AccountStore})
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		renderTemplate(w, r, "change_password.html", map[string]any{"Title": "Change Password", "Error": err.Error()})
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// --- Dashboard ---

func handleDashboardPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	per, err := resolvePeriod(r)
	if err != nil {
		renderTemplate(w, r, "dashboard.html", map[string]any{"Title": "Dashboard", "NoPeriod": true})
		return
	}

	result, err := projections.QueryGetDashboard(ctx, projections.GetDashboardQuery{
		PeriodID: per.ID,
		CoachID:  sess.AccountID,
		IsAdmin:  middleware.IsAdmin(ctx),
	}, projections.GetDashboardDeps{
		PlayerStore:  stores.PlayerStore,
		ReportStore:  stores.ReportStore,
		GroupStore:   stores.GroupStore,
		AccountStore: stores.AccountStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	periods, err := stores.PeriodStore.List(ctx)
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "dashboard.html", map[string]any{
		"Title":   "Dashboard",
		"Period":  per,
		"Periods": periods,
		"Stats":   result,
	})
}

// --- Players ---

func handlePlayersPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	per, err := resolvePeriod(r)
	if err != nil {
		renderTemplate(w, r, "players.html", map[string]any{"Title": "Players", "NoPeriod": true})
		return
	}

	rows, err := projections.QueryGetProgrammePlayers(ctx, projections.GetProgrammePlayersQuery{
		PeriodID: per.ID,
		CoachID:  sess.AccountID,
		IsAdmin:  middleware.IsAdmin(ctx),
	}, programmeDeps())
	if err != nil {
		internalError(w, err)
		return
	}

	periods, err := stores.PeriodStore.List(ctx)
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "players.html", map[string]any{
		"Title":   "Players",
		"Period":  per,
		"Periods": periods,
		"Rows":    rows,
	})
}

func programmeDeps() projections.GetProgrammePlayersDeps {
	return projections.GetProgrammePlayersDeps{
		PlayerStore:   stores.PlayerStore,
		StudentStore:  stores.StudentStore,
		GroupStore:    stores.GroupStore,
		ReportStore:   stores.ReportStore,
		TemplateStore: stores.TemplateStore,
	}
}

// --- Report pages ---

// handleCreateReportPage renders the report form for a player (GET) and
// accepts the filled-in submission (POST). Validation failures re-render the
// form with inline errors on the touched fields.
func handleCreateReportPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)
	playerID := r.PathValue("playerID")

	p, err := stores.PlayerStore.GetByID(ctx, playerID)
	if err != nil {
		http.Error(w, "player not found", http.StatusNotFound)
		return
	}
	if p.CoachID != sess.AccountID && !middleware.IsAdmin(ctx) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	stu, err := stores.StudentStore.GetByID(ctx, p.StudentID)
	if err != nil {
		internalError(w, err)
		return
	}
	tpl, err := stores.TemplateStore.GetActiveForGroup(ctx, p.GroupID)
	if err != nil {
		renderTemplate(w, r, "report_form.html", map[string]any{
			"Title": "Write Report", "StudentName": stu.Name, "NoTemplate": true,
		})
		return
	}
	groups, err := stores.GroupStore.List(ctx)
	if err != nil {
		internalError(w, err)
		return
	}

	if r.Method == "GET" {
		state := form.NewState(&tpl, nil)
		renderTemplate(w, r, "report_form.html", map[string]any{
			"Title":       "Write Report",
			"StudentName": stu.Name,
			"Action":      "/reports/create/" + p.ID,
			"Sections":    formview.Build(state),
			"Groups":      groups,
			"Recommended": "",
		})
		return
	}
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	values := formview.ParseValues(r.PostForm)
	recommended := r.PostFormValue("recommended_group")
	draft := r.PostFormValue("action") == "draft"

	result, err := orchestrators.ExecuteSubmitReport(ctx, orchestrators.SubmitReportInput{
		PlayerID:           p.ID,
		CoachID:            p.CoachID,
		Values:             values,
		RecommendedGroupID: recommended,
		Draft:              draft,
	}, submitReportDeps())
	if errors.Is(err, form.ErrValidationFailed) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		renderTemplate(w, r, "report_form.html", map[string]any{
			"Title":       "Write Report",
			"StudentName": stu.Name,
			"Action":      "/reports/create/" + p.ID,
			"Sections":    formview.Build(result.State),
			"Groups":      groups,
			"Recommended": recommended,
			"Errors":      result.State.Errors,
		})
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/reports/view/"+result.Report.ID, http.StatusSeeOther)
}

// handleEditReportPage renders and accepts edits to an existing report.
func handleEditReportPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)
	reportID := r.PathValue("id")

	rep, err := stores.ReportStore.GetByID(ctx, reportID)
	if err != nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}
	isAdmin := middleware.IsAdmin(ctx)
	if rep.CoachID != sess.AccountID && !isAdmin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if rep.EmailSent {
		http.Error(w, "a sent report can no longer be edited", http.StatusConflict)
		return
	}

	tpl, err := stores.TemplateStore.GetByID(ctx, rep.TemplateID)
	if err != nil {
		internalError(w, err)
		return
	}
	studentName := ""
	if p, err := stores.PlayerStore.GetByID(ctx, rep.PlayerID); err == nil {
		if stu, err := stores.StudentStore.GetByID(ctx, p.StudentID); err == nil {
			studentName = stu.Name
		}
	}
	groups, err := stores.GroupStore.List(ctx)
	if err != nil {
		internalError(w, err)
		return
	}

	if r.Method == "GET" {
		state := form.NewState(&tpl, rep.Content)
		renderTemplate(w, r, "report_form.html", map[string]any{
			"Title":       "Edit Report",
			"StudentName": studentName,
			"Action":      "/reports/edit/" + rep.ID,
			"Sections":    formview.Build(state),
			"Groups":      groups,
			"Recommended": rep.RecommendedGroupID,
			"IsDraft":     rep.IsDraft,
		})
		return
	}
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	values := formview.ParseValues(r.PostForm)
	recommended := r.PostFormValue("recommended_group")

	result, err := orchestrators.ExecuteUpdateReport(ctx, orchestrators.UpdateReportInput{
		ReportID:           rep.ID,
		CoachID:            sess.AccountID,
		IsAdmin:            isAdmin,
		Values:             values,
		RecommendedGroupID: recommended,
		Finalize:           r.PostFormValue("action") == "finalize",
	}, updateReportDeps())
	if errors.Is(err, form.ErrValidationFailed) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		renderTemplate(w, r, "report_form.html", map[string]any{
			"Title":       "Edit Report",
			"StudentName": studentName,
			"Action":      "/reports/edit/" + rep.ID,
			"Sections":    formview.Build(result.State),
			"Groups":      groups,
			"Recommended": recommended,
			"IsDraft":     rep.IsDraft,
			"Errors":      result.State.Errors,
		})
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/reports/view/"+rep.ID, http.StatusSeeOther)
}

func handleViewReportPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	view, err := projections.QueryGetReportView(ctx, projections.GetReportViewQuery{
		ReportID: r.PathValue("id"),
		CoachID:  sess.AccountID,
		IsAdmin:  middleware.IsAdmin(ctx),
	}, reportViewDeps())
	if err != nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}

	renderTemplate(w, r, "report_view.html", map[string]any{
		"Title": "Report",
		"View":  view,
	})
}

func reportViewDeps() projections.GetReportViewDeps {
	return projections.GetReportViewDeps{
		ReportStore:   stores.ReportStore,
		TemplateStore: stores.TemplateStore,
		PlayerStore:   stores.PlayerStore,
		StudentStore:  stores.StudentStore,
		GroupStore:    stores.GroupStore,
	}
}

func submitReportDeps() orchestrators.SubmitReportDeps {
	return orchestrators.SubmitReportDeps{
		PlayerStore:   stores.PlayerStore,
		TemplateStore: stores.TemplateStore,
		GroupStore:    stores.GroupStore,
		ReportStore:   stores.ReportStore,
		GenerateID:    generateID,
		Now:           timeNow,
	}
}

func updateReportDeps() orchestrators.UpdateReportDeps {
	return orchestrators.UpdateReportDeps{
		TemplateStore: stores.TemplateStore,
		GroupStore:    stores.GroupStore,
		ReportStore:   stores.ReportStore,
		Now:           timeNow,
	}
}

// --- Coach profile ---

// handleProfile lets a coach maintain their own compliance details.
func handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	if r.Method == "GET" {
		detail, err := stores.CoachDetailStore.GetByAccountID(ctx, sess.AccountID)
		if err != nil {
			detail = coach.Detail{} // first visit, nothing saved yet
		}
		renderTemplate(w, r, "profile.html", map[string]any{
			"Title":          "My Profile",
			"Detail":         detail,
			"Qualifications": coach.ValidQualifications,
		})
		return
	}
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	_, err := orchestrators.ExecuteUpdateCoachDetail(ctx, orchestrators.UpdateCoachDetailInput{
		AccountID:              sess.AccountID,
		Qualification:          r.PostFormValue("qualification"),
		ContactNumber:          r.PostFormValue("contact_number"),
		EmergencyContactName:   r.PostFormValue("emergency_contact_name"),
		EmergencyContactNumber: r.PostFormValue("emergency_contact_number"),
		CoachingExpiry:         parseDate(r.PostFormValue("coaching_expiry")),
		DBSNumber:              r.PostFormValue("dbs_number"),
		DBSExpiry:              parseDate(r.PostFormValue("dbs_expiry")),
		FirstAidExpiry:         parseDate(r.PostFormValue("first_aid_expiry")),
		SafeguardingExpiry:     parseDate(r.PostFormValue("safeguarding_expiry")),
	}, orchestrators.UpdateCoachDetailDeps{
		CoachDetailStore: stores.CoachDetailStore,
		GenerateID:       generateID,
		Now:              timeNow,
	})
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		renderTemplate(w, r, "profile.html", map[string]any{
			"Title":          "My Profile",
			"Error":          err.Error(),
			"Detail":         coach.Detail{},
			"Qualifications": coach.ValidQualifications,
		})
		return
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// parseDate parses an HTML date input value; zero time when empty or invalid.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// --- Admin pages ---

func handleAdminGroupsPage(w http.ResponseWriter, r *http.Request) {
	groups, err := projections.QueryGetGroups(r.Context(), projections.GetGroupsDeps{GroupStore: stores.GroupStore})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "admin_groups.html", map[string]any{"Title": "Groups", "Groups": groups})
}

func handleAdminPeriodsPage(w http.ResponseWriter, r *http.Request) {
	periods, err := stores.PeriodStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "admin_periods.html", map[string]any{"Title": "Teaching Periods", "Periods": periods})
}

func handleAdminTemplatesPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	summaries, err := projections.QueryGetTemplates(ctx, projections.GetTemplatesDeps{TemplateStore: stores.TemplateStore})
	if err != nil {
		internalError(w, err)
		return
	}
	assignments, err := projections.QueryGetGroupAssignments(ctx, projections.GetGroupAssignmentsDeps{
		TemplateStore: stores.TemplateStore,
		GroupStore:    stores.GroupStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "admin_templates.html", map[string]any{
		"Title":       "Report Templates",
		"Templates":   summaries,
		"Assignments": assignments,
	})
}

func handleAdminCoachesPage(w http.ResponseWriter, r *http.Request) {
	accounts, err := stores.AccountStore.List(r.Context(), listAccountsFilter(r))
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "admin_coaches.html", map[string]any{"Title": "Coaches", "Accounts": accounts})
}

func handleAdminAccreditationsPage(w http.ResponseWriter, r *http.Request) {
	rows, err := projections.QueryGetAccreditations(r.Context(), projections.GetAccreditationsDeps{
		CoachDetailStore: stores.CoachDetailStore,
		AccountStore:     stores.AccountStore,
	}, timeNow())
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "admin_accreditations.html", map[string]any{"Title": "Accreditations", "Rows": rows})
}
