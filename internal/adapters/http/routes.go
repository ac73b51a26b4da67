package web

import (
	"net/http"

	"courtside/internal/adapters/http/middleware"
	"courtside/internal/domain/account"
)

// registerRoutes wires every page and API endpoint onto the mux.
func registerRoutes(mux *http.ServeMux) {
	requireAuth := middleware.RequireAuth
	requireAdmin := middleware.RequireRole(account.RoleAdmin, account.RoleSuperAdmin)

	// Pages
	mux.HandleFunc("/{$}", handleHome)
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)
	mux.Handle("/change-password", requireAuth(http.HandlerFunc(handleChangePassword)))
	mux.Handle("/dashboard", requireAuth(http.HandlerFunc(handleDashboardPage)))
	mux.Handle("/players", requireAuth(http.HandlerFunc(handlePlayersPage)))
	mux.Handle("/profile", requireAuth(http.HandlerFunc(handleProfile)))
	mux.Handle("/reports/create/{playerID}", requireAuth(http.HandlerFunc(handleCreateReportPage)))
	mux.Handle("/reports/view/{id}", requireAuth(http.HandlerFunc(handleViewReportPage)))
	mux.Handle("/reports/edit/{id}", requireAuth(http.HandlerFunc(handleEditReportPage)))

	// Admin pages
	mux.Handle("/admin/groups", requireAdmin(http.HandlerFunc(handleAdminGroupsPage)))
	mux.Handle("/admin/periods", requireAdmin(http.HandlerFunc(handleAdminPeriodsPage)))
	mux.Handle("/admin/templates", requireAdmin(http.HandlerFunc(handleAdminTemplatesPage)))
	mux.Handle("/admin/coaches", requireAdmin(http.HandlerFunc(handleAdminCoachesPage)))
	mux.Handle("/admin/accreditations", requireAdmin(http.HandlerFunc(handleAdminAccreditationsPage)))

	// Dashboard and listing APIs
	mux.Handle("GET /api/dashboard/stats", requireAuth(http.HandlerFunc(handleDashboardStats)))
	mux.Handle("GET /api/programme-players", requireAuth(http.HandlerFunc(handleProgrammePlayers)))

	// Roster APIs
	mux.Handle("GET /api/groups", requireAuth(http.HandlerFunc(handleListGroups)))
	mux.Handle("POST /api/groups", requireAdmin(http.HandlerFunc(handleCreateGroup)))
	mux.Handle("POST /api/groups/sessions", requireAdmin(http.HandlerFunc(handleCreateSession)))
	mux.Handle("GET /api/periods", requireAuth(http.HandlerFunc(handleListPeriods)))
	mux.Handle("POST /api/periods", requireAdmin(http.HandlerFunc(handleCreatePeriod)))
	mux.Handle("POST /api/players", requireAdmin(http.HandlerFunc(handleEnrolPlayer)))
	mux.Handle("PUT /api/players/{id}", requireAdmin(http.HandlerFunc(handleReassignPlayer)))
	mux.Handle("DELETE /api/players/{id}", requireAdmin(http.HandlerFunc(handleRemovePlayer)))

	// Template APIs
	mux.Handle("GET /api/report-templates", requireAuth(http.HandlerFunc(handleListTemplates)))
	mux.Handle("POST /api/report-templates", requireAdmin(http.HandlerFunc(handleCreateTemplate)))
	mux.Handle("GET /api/report-templates/{id}", requireAuth(http.HandlerFunc(handleGetTemplate)))
	mux.Handle("PUT /api/report-templates/{id}", requireAdmin(http.HandlerFunc(handleUpdateTemplate)))
	mux.Handle("DELETE /api/report-templates/{id}", requireAdmin(http.HandlerFunc(handleDeactivateTemplate)))
	mux.Handle("GET /api/templates/group-assignments", requireAuth(http.HandlerFunc(handleGroupAssignments)))
	mux.Handle("POST /api/templates/group-assignments", requireAdmin(http.HandlerFunc(handleAssignTemplate)))

	// Report APIs
	mux.Handle("GET /api/reports/template/{playerID}", requireAuth(http.HandlerFunc(handleReportForm)))
	mux.Handle("POST /api/reports/create/{playerID}", requireAuth(http.HandlerFunc(handleSubmitReport)))
	mux.Handle("GET /api/reports/{id}", requireAuth(http.HandlerFunc(handleGetReport)))
	mux.Handle("PUT /api/reports/{id}", requireAuth(http.HandlerFunc(handleUpdateReport)))
	mux.Handle("DELETE /api/reports/{id}", requireAuth(http.HandlerFunc(handleDeleteReport)))
	mux.Handle("GET /api/reports/download/{id}", requireAuth(http.HandlerFunc(handleDownloadReport)))
	mux.Handle("GET /api/reports/send/{periodID}", requireAdmin(http.HandlerFunc(handleSendPreview)))
	mux.Handle("POST /api/reports/send/{periodID}", requireAdmin(http.HandlerFunc(handleSendReports)))
	mux.Handle("GET /api/reports/download-all/{periodID}", requireAdmin(http.HandlerFunc(handleDownloadAllReports)))

	// Coach compliance APIs
	mux.Handle("GET /api/coaches/accreditations", requireAdmin(http.HandlerFunc(handleAccreditations)))
	mux.Handle("POST /api/coaches/send-reminders", requireAdmin(http.HandlerFunc(handleSendReminders)))

	// Account administration
	mux.Handle("GET /api/accounts", requireAdmin(http.HandlerFunc(handleListAccounts)))
	mux.Handle("POST /api/accounts", requireAdmin(http.HandlerFunc(handleCreateAccount)))

	// Perf snapshot for the ops dashboard
	mux.Handle("GET /api/perf", requireAdmin(http.HandlerFunc(handlePerfSnapshot)))
}
