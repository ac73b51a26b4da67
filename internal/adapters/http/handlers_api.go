package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"courtside/internal/adapters/http/middleware"
	accountStore "courtside/internal/adapters/storage/account"
	"courtside/internal/application/listutil"
	"courtside/internal/application/orchestrators"
	"courtside/internal/application/projections"
	"courtside/internal/application/reportgen"
	"courtside/internal/domain/account"
	"courtside/internal/domain/form"
	"courtside/internal/domain/report"
	"courtside/internal/domain/template"
)

// apiError maps known domain errors to client-facing status codes. Anything
// unrecognised is treated as a bad request so orchestrator validation errors
// surface with their message.
func apiError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, orchestrators.ErrNotReportOwner):
		status = http.StatusForbidden
	case errors.Is(err, orchestrators.ErrReportExists),
		errors.Is(err, orchestrators.ErrReportSent),
		errors.Is(err, orchestrators.ErrAlreadyEnrolled),
		errors.Is(err, orchestrators.ErrEmailAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, template.ErrInactive):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// --- Dashboard ---

func handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	per, err := resolvePeriod(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
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
	writeJSON(w, http.StatusOK, map[string]any{"periodId": per.ID, "periodName": per.Name, "stats": result})
}

func handleProgrammePlayers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	per, err := resolvePeriod(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
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
	writeJSON(w, http.StatusOK, map[string]any{"periodId": per.ID, "players": rows})
}

// --- Groups and sessions ---

func handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := projections.QueryGetGroups(r.Context(), projections.GetGroupsDeps{GroupStore: stores.GroupStore})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	g, err := orchestrators.ExecuteCreateGroup(r.Context(), orchestrators.CreateGroupInput{
		Name:        req.Name,
		Description: req.Description,
	}, orchestrators.CreateGroupDeps{GroupStore: stores.GroupStore, GenerateID: generateID, Now: timeNow})
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID   string `json:"groupId"`
		DayOfWeek int    `json:"dayOfWeek"` // 0 = Sunday, per time.Weekday
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	s, err := orchestrators.ExecuteCreateSession(r.Context(), orchestrators.CreateSessionInput{
		GroupID:   req.GroupID,
		DayOfWeek: time.Weekday(req.DayOfWeek),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}, orchestrators.CreateSessionDeps{GroupStore: stores.GroupStore, GenerateID: generateID, Now: timeNow})
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

// --- Teaching periods ---

func handleListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := stores.PeriodStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, periods)
}

func handleCreatePeriod(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name"`
		StartDate string `json:"startDate"` // 2006-01-02
		EndDate   string `json:"endDate"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	p, err := orchestrators.ExecuteCreatePeriod(r.Context(), orchestrators.CreatePeriodInput{
		Name:      req.Name,
		StartDate: parseDate(req.StartDate),
		EndDate:   parseDate(req.EndDate),
	}, orchestrators.CreatePeriodDeps{PeriodStore: stores.PeriodStore, GenerateID: generateID, Now: timeNow})
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// --- Players ---

func handleEnrolPlayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StudentID    string `json:"studentId"`
		StudentName  string `json:"studentName"`
		ContactEmail string `json:"contactEmail"`
		DateOfBirth  string `json:"dateOfBirth"`
		GroupID      string `json:"groupId"`
		SessionID    string `json:"sessionId"`
		PeriodID     string `json:"periodId"`
		CoachID      string `json:"coachId"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	p, err := orchestrators.ExecuteEnrolPlayer(r.Context(), orchestrators.EnrolPlayerInput{
		StudentID:    req.StudentID,
		StudentName:  req.StudentName,
		ContactEmail: req.ContactEmail,
		DateOfBirth:  parseDate(req.DateOfBirth),
		GroupID:      req.GroupID,
		SessionID:    req.SessionID,
		PeriodID:     req.PeriodID,
		CoachID:      req.CoachID,
	}, orchestrators.EnrolPlayerDeps{
		StudentStore: stores.StudentStore,
		PlayerStore:  stores.PlayerStore,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func handleReassignPlayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID   string `json:"groupId"`
		SessionID string `json:"sessionId"`
		CoachID   string `json:"coachId"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	p, err := orchestrators.ExecuteReassignPlayer(r.Context(), orchestrators.ReassignPlayerInput{
		PlayerID:  r.PathValue("id"),
		GroupID:   req.GroupID,
		SessionID: req.SessionID,
		CoachID:   req.CoachID,
	}, orchestrators.ReassignPlayerDeps{PlayerStore: stores.PlayerStore})
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func handleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteRemovePlayer(r.Context(), orchestrators.RemovePlayerInput{
		PlayerID: r.PathValue("id"),
	}, orchestrators.RemovePlayerDeps{PlayerStore: stores.PlayerStore})
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Report templates ---

func handleListTemplates(w http.ResponseWriter, r *http.Request) {
	summaries, err := projections.QueryGetTemplates(r.Context(), projections.GetTemplatesDeps{TemplateStore: stores.TemplateStore})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := stores.TemplateStore.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "template not found"})
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	var req struct {
		Name        string             `json:"name"`
		Description string             `json:"description"`
		Sections    []template.Section `json:"sections"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	tpl, err := orchestrators.ExecuteCreateTemplate(r.Context(), orchestrators.CreateTemplateInput{
		Name:        req.Name,
		Description: req.Description,
		Sections:    req.Sections,
		CreatedBy:   sess.AccountID,
	}, orchestrators.CreateTemplateDeps{TemplateStore: stores.TemplateStore, GenerateID: generateID, Now: timeNow})
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tpl)
}

func handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string             `json:"name"`
		Description string             `json:"description"`
		Sections    []template.Section `json:"sections"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	tpl, err := orchestrators.ExecuteUpdateTemplate(r.Context(), orchestrators.UpdateTemplateInput{
		TemplateID:  r.PathValue("id"),
		Name:        req.Name,
		Description: req.Description,
		Sections:    req.Sections,
	}, orchestrators.UpdateTemplateDeps{TemplateStore: stores.TemplateStore, GenerateID: generateID, Now: timeNow})
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func handleDeactivateTemplate(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeactivateTemplate(r.Context(), orchestrators.DeactivateTemplateInput{
		TemplateID: r.PathValue("id"),
	}, orchestrators.DeactivateTemplateDeps{TemplateStore: stores.TemplateStore, Now: timeNow})
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleGroupAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := projections.QueryGetGroupAssignments(r.Context(), projections.GetGroupAssignmentsDeps{
		TemplateStore: stores.TemplateStore,
		GroupStore:    stores.GroupStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assignments)
}

func handleAssignTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID    string `json:"groupId"`
		TemplateID string `json:"templateId"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	a, err := orchestrators.ExecuteAssignTemplate(r.Context(), orchestrators.AssignTemplateInput{
		GroupID:    req.GroupID,
		TemplateID: req.TemplateID,
	}, orchestrators.AssignTemplateDeps{TemplateStore: stores.TemplateStore, GenerateID: generateID, Now: timeNow})
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// --- Reports ---

// handleReportForm returns the form definition for a player: the group's
// active template plus any saved draft values, ready for client-side rendering.
func handleReportForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	p, err := stores.PlayerStore.GetByID(ctx, r.PathValue("playerID"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "player not found"})
		return
	}
	if p.CoachID != sess.AccountID && !middleware.IsAdmin(ctx) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
		return
	}

	tpl, err := stores.TemplateStore.GetActiveForGroup(ctx, p.GroupID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active template for this group"})
		return
	}

	resp := map[string]any{"template": tpl, "player": p, "values": form.Values{}, "recommendedGroupId": ""}
	if existing, err := stores.ReportStore.GetByPlayerID(ctx, p.ID); err == nil {
		resp["reportId"] = existing.ID
		resp["isDraft"] = existing.IsDraft
		resp["values"] = existing.Content
		resp["recommendedGroupId"] = existing.RecommendedGroupID
	}
	writeJSON(w, http.StatusOK, resp)
}

type reportSubmission struct {
	Content            form.Values `json:"content"`
	RecommendedGroupID string      `json:"recommendedGroupId"`
	IsDraft            bool        `json:"isDraft"`
	Finalize           bool        `json:"finalize"`
}

func handleSubmitReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	var req reportSubmission
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteSubmitReport(ctx, orchestrators.SubmitReportInput{
		PlayerID:           r.PathValue("playerID"),
		CoachID:            sess.AccountID,
		Values:             req.Content,
		RecommendedGroupID: req.RecommendedGroupID,
		Draft:              req.IsDraft,
	}, submitReportDeps())
	if errors.Is(err, form.ErrValidationFailed) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": result.State.Errors})
		return
	}
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result.Report)
}

func handleGetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	view, err := projections.QueryGetReportView(ctx, projections.GetReportViewQuery{
		ReportID: r.PathValue("id"),
		CoachID:  sess.AccountID,
		IsAdmin:  middleware.IsAdmin(ctx),
	}, reportViewDeps())
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "report not found"})
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func handleUpdateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	var req reportSubmission
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteUpdateReport(ctx, orchestrators.UpdateReportInput{
		ReportID:           r.PathValue("id"),
		CoachID:            sess.AccountID,
		IsAdmin:            middleware.IsAdmin(ctx),
		Values:             req.Content,
		RecommendedGroupID: req.RecommendedGroupID,
		Finalize:           req.Finalize,
	}, updateReportDeps())
	if errors.Is(err, form.ErrValidationFailed) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": result.State.Errors})
		return
	}
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Report)
}

func handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	err := orchestrators.ExecuteDeleteReport(ctx, orchestrators.DeleteReportInput{
		ReportID: r.PathValue("id"),
		CoachID:  sess.AccountID,
		IsAdmin:  middleware.IsAdmin(ctx),
	}, orchestrators.DeleteReportDeps{ReportStore: stores.ReportStore})
	if err != nil {
		apiError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func sendReportsDeps() orchestrators.SendReportsDeps {
	return orchestrators.SendReportsDeps{
		ReportStore:   stores.ReportStore,
		PlayerStore:   stores.PlayerStore,
		StudentStore:  stores.StudentStore,
		GroupStore:    stores.GroupStore,
		TemplateStore: stores.TemplateStore,
		AccountStore:  stores.AccountStore,
		PeriodStore:   stores.PeriodStore,
		Sender:        emailSender,
		Now:           timeNow,
	}
}

// handleSendPreview reports how many finalized reports are still waiting to go
// out, so the admin can see what a send will do.
func handleSendPreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	periodID := r.PathValue("periodID")

	if _, err := stores.PeriodStore.GetByID(ctx, periodID); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "period not found"})
		return
	}
	unsent, err := stores.ReportStore.ListUnsentByPeriodID(ctx, periodID)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"periodId": periodID,
		"unsent":   len(unsent),
		"ready":    emailSender != nil,
	})
}

func handleSendReports(w http.ResponseWriter, r *http.Request) {
	if emailSender == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "email sending is not configured"})
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteSendReports(r.Context(), orchestrators.SendReportsInput{
		PeriodID: r.PathValue("periodID"),
		Message:  req.Message,
	}, sendReportsDeps())
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleDownloadAllReports bundles every finalized report of a period into a
// zip of PDFs.
func handleDownloadAllReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	periodID := r.PathValue("periodID")

	per, err := stores.PeriodStore.GetByID(ctx, periodID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "period not found"})
		return
	}

	all, err := stores.ReportStore.ListByPeriodID(ctx, periodID)
	if err != nil {
		internalError(w, err)
		return
	}
	finalized := make([]report.Report, 0, len(all))
	for _, rep := range all {
		if !rep.IsDraft {
			finalized = append(finalized, rep)
		}
	}
	if len(finalized) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no finalized reports for this period"})
		return
	}

	docs, err := orchestrators.AssembleDocuments(ctx, sendReportsDeps(), finalized, per.Name)
	if err != nil {
		internalError(w, err)
		return
	}
	archive, err := reportgen.Archive(docs)
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", per.Name+" Reports.zip"))
	w.Write(archive)
}

// handleDownloadReport serves a single report as a PDF, named the same way
// as the emailed attachment.
func handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	rep, err := stores.ReportStore.GetByID(ctx, r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "report not found"})
		return
	}
	if rep.CoachID != sess.AccountID && !middleware.IsAdmin(ctx) {
		apiError(w, orchestrators.ErrNotReportOwner)
		return
	}

	p, err := stores.PlayerStore.GetByID(ctx, rep.PlayerID)
	if err != nil {
		internalError(w, err)
		return
	}
	per, err := stores.PeriodStore.GetByID(ctx, p.PeriodID)
	if err != nil {
		internalError(w, err)
		return
	}

	docs, err := orchestrators.AssembleDocuments(ctx, sendReportsDeps(), []report.Report{rep}, per.Name)
	if err != nil {
		internalError(w, err)
		return
	}
	pdfBytes, err := reportgen.PDF(docs[0])
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", docs[0].Filename()))
	w.Write(pdfBytes)
}

// --- Coach compliance ---

func handleAccreditations(w http.ResponseWriter, r *http.Request) {
	rows, err := projections.QueryGetAccreditations(r.Context(), projections.GetAccreditationsDeps{
		CoachDetailStore: stores.CoachDetailStore,
		AccountStore:     stores.AccountStore,
	}, timeNow())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func handleSendReminders(w http.ResponseWriter, r *http.Request) {
	if emailSender == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "email sending is not configured"})
		return
	}

	result, err := orchestrators.ExecuteSendAccreditationReminders(r.Context(), orchestrators.SendRemindersDeps{
		CoachDetailStore: stores.CoachDetailStore,
		AccountStore:     stores.AccountStore,
		Sender:           emailSender,
		Now:              timeNow,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// --- Accounts ---

// accountJSON is the client-facing shape of an account. The password hash
// never leaves the server.
type accountJSON struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func toAccountJSON(a account.Account) accountJSON {
	return accountJSON{ID: a.ID, Email: a.Email, Name: a.Name, Role: a.Role, IsActive: a.IsActive, CreatedAt: a.CreatedAt}
}

func listAccountsFilter(r *http.Request) accountStore.ListFilter {
	q := r.URL.Query()
	page := listutil.ParsePage(q)
	sort := listutil.ParseSort(q, "name", "name", "email", "role", "created_at")
	return accountStore.ListFilter{
		Limit:      page.Size,
		Offset:     page.Offset(),
		Role:       q.Get("role"),
		Search:     listutil.ParseSearch(q),
		OrderBy:    sort.Column,
		Descending: sort.Descending,
	}
}

func handleListAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accounts, err := stores.AccountStore.List(ctx, listAccountsFilter(r))
	if err != nil {
		internalError(w, err)
		return
	}
	total, err := stores.AccountStore.Count(ctx)
	if err != nil {
		internalError(w, err)
		return
	}

	out := make([]accountJSON, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountJSON(a))
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": out, "total": total})
}

func handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	// Only a super admin may mint another admin.
	if (req.Role == account.RoleAdmin || req.Role == account.RoleSuperAdmin) && !middleware.IsSuperAdmin(r.Context()) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "only a super admin can create admin accounts"})
		return
	}

	id, err := orchestrators.ExecuteCreateAccount(r.Context(), orchestrators.CreateAccountInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
	}, orchestrators.CreateAccountDeps{AccountStore: stores.AccountStore, GenerateID: generateID, Now: timeNow})
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// --- Perf ---

func handlePerfSnapshot(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "perf collection disabled"})
		return
	}
	window := 60 * time.Minute
	if m := r.URL.Query().Get("minutes"); m != "" {
		if d, err := time.ParseDuration(m + "m"); err == nil && d > 0 {
			window = d
		}
	}
	writeJSON(w, http.StatusOK, perfCollector.Summarize(timeNow().Add(-window), 10))
}
