package web

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"courtside/internal/adapters/http/middleware"
	accountStore "courtside/internal/adapters/storage/account"
	"courtside/internal/domain/account"
	"courtside/internal/domain/coach"
	"courtside/internal/domain/form"
	"courtside/internal/domain/group"
	"courtside/internal/domain/period"
	"courtside/internal/domain/player"
	"courtside/internal/domain/report"
	"courtside/internal/domain/student"
	"courtside/internal/domain/template"
)

var testTime = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// --- Mock stores ---

type mockAccounts struct{ accounts map[string]account.Account }

func (m *mockAccounts) GetByID(ctx context.Context, id string) (account.Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return account.Account{}, sql.ErrNoRows
}

func (m *mockAccounts) GetByEmail(ctx context.Context, email string) (account.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return account.Account{}, sql.ErrNoRows
}

func (m *mockAccounts) Save(ctx context.Context, a account.Account) error {
	m.accounts[a.ID] = a
	return nil
}

func (m *mockAccounts) Delete(ctx context.Context, id string) error {
	delete(m.accounts, id)
	return nil
}

func (m *mockAccounts) List(ctx context.Context, filter accountStore.ListFilter) ([]account.Account, error) {
	var list []account.Account
	for _, a := range m.accounts {
		if filter.Role != "" && a.Role != filter.Role {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(a.Name), strings.ToLower(filter.Search)) &&
			!strings.Contains(strings.ToLower(a.Email), strings.ToLower(filter.Search)) {
			continue
		}
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool {
		var less bool
		switch filter.OrderBy {
		case "email":
			less = list[i].Email < list[j].Email
		case "role":
			less = list[i].Role < list[j].Role
		case "created_at":
			less = list[i].CreatedAt.Before(list[j].CreatedAt)
		default:
			less = list[i].Name < list[j].Name
		}
		if filter.Descending {
			return !less
		}
		return less
	})
	return list, nil
}

func (m *mockAccounts) Count(ctx context.Context) (int, error) {
	return len(m.accounts), nil
}

type mockDetails struct{ details map[string]coach.Detail }

func (m *mockDetails) GetByAccountID(ctx context.Context, accountID string) (coach.Detail, error) {
	for _, d := range m.details {
		if d.AccountID == accountID {
			return d, nil
		}
	}
	return coach.Detail{}, sql.ErrNoRows
}

func (m *mockDetails) Save(ctx context.Context, d coach.Detail) error {
	m.details[d.ID] = d
	return nil
}

func (m *mockDetails) Delete(ctx context.Context, id string) error {
	delete(m.details, id)
	return nil
}

func (m *mockDetails) List(ctx context.Context) ([]coach.Detail, error) {
	var list []coach.Detail
	for _, d := range m.details {
		list = append(list, d)
	}
	return list, nil
}

type mockStudents struct{ students map[string]student.Student }

func (m *mockStudents) GetByID(ctx context.Context, id string) (student.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return student.Student{}, sql.ErrNoRows
}

func (m *mockStudents) Save(ctx context.Context, s student.Student) error {
	m.students[s.ID] = s
	return nil
}

func (m *mockStudents) Delete(ctx context.Context, id string) error {
	delete(m.students, id)
	return nil
}

func (m *mockStudents) List(ctx context.Context) ([]student.Student, error) {
	var list []student.Student
	for _, s := range m.students {
		list = append(list, s)
	}
	return list, nil
}

type mockGroups struct {
	groups   map[string]group.Group
	sessions map[string]group.Session
}

func (m *mockGroups) GetByID(ctx context.Context, id string) (group.Group, error) {
	if g, ok := m.groups[id]; ok {
		return g, nil
	}
	return group.Group{}, sql.ErrNoRows
}

func (m *mockGroups) Save(ctx context.Context, g group.Group) error {
	m.groups[g.ID] = g
	return nil
}

func (m *mockGroups) Delete(ctx context.Context, id string) error {
	delete(m.groups, id)
	return nil
}

func (m *mockGroups) List(ctx context.Context) ([]group.Group, error) {
	var list []group.Group
	for _, g := range m.groups {
		list = append(list, g)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (m *mockGroups) GetSessionByID(ctx context.Context, id string) (group.Session, error) {
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return group.Session{}, sql.ErrNoRows
}

func (m *mockGroups) SaveSession(ctx context.Context, s group.Session) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *mockGroups) DeleteSession(ctx context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *mockGroups) ListSessionsByGroupID(ctx context.Context, groupID string) ([]group.Session, error) {
	var list []group.Session
	for _, s := range m.sessions {
		if s.GroupID == groupID {
			list = append(list, s)
		}
	}
	return list, nil
}

type mockPeriods struct{ periods map[string]period.Period }

func (m *mockPeriods) GetByID(ctx context.Context, id string) (period.Period, error) {
	if p, ok := m.periods[id]; ok {
		return p, nil
	}
	return period.Period{}, sql.ErrNoRows
}

func (m *mockPeriods) Save(ctx context.Context, p period.Period) error {
	m.periods[p.ID] = p
	return nil
}

func (m *mockPeriods) Delete(ctx context.Context, id string) error {
	delete(m.periods, id)
	return nil
}

func (m *mockPeriods) List(ctx context.Context) ([]period.Period, error) {
	var list []period.Period
	for _, p := range m.periods {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].StartDate.Before(list[j].StartDate) })
	return list, nil
}

func (m *mockPeriods) ListActive(ctx context.Context) ([]period.Period, error) {
	var list []period.Period
	for _, p := range m.periods {
		if p.IsActive {
			list = append(list, p)
		}
	}
	return list, nil
}

type mockPlayers struct{ players map[string]player.Player }

func (m *mockPlayers) GetByID(ctx context.Context, id string) (player.Player, error) {
	if p, ok := m.players[id]; ok {
		return p, nil
	}
	return player.Player{}, sql.ErrNoRows
}

func (m *mockPlayers) Save(ctx context.Context, p player.Player) error {
	m.players[p.ID] = p
	return nil
}

func (m *mockPlayers) Delete(ctx context.Context, id string) error {
	delete(m.players, id)
	return nil
}

func (m *mockPlayers) ListByPeriodID(ctx context.Context, periodID string) ([]player.Player, error) {
	var list []player.Player
	for _, p := range m.players {
		if p.PeriodID == periodID {
			list = append(list, p)
		}
	}
	return list, nil
}

func (m *mockPlayers) ListByCoachAndPeriod(ctx context.Context, coachID, periodID string) ([]player.Player, error) {
	var list []player.Player
	for _, p := range m.players {
		if p.CoachID == coachID && p.PeriodID == periodID {
			list = append(list, p)
		}
	}
	return list, nil
}

func (m *mockPlayers) GetByStudentAndPeriod(ctx context.Context, studentID, periodID string) (player.Player, error) {
	for _, p := range m.players {
		if p.StudentID == studentID && p.PeriodID == periodID {
			return p, nil
		}
	}
	return player.Player{}, sql.ErrNoRows
}

type mockTemplates struct {
	templates   map[string]template.Template
	assignments map[string]template.Assignment
}

func (m *mockTemplates) GetByID(ctx context.Context, id string) (template.Template, error) {
	if t, ok := m.templates[id]; ok {
		return t, nil
	}
	return template.Template{}, sql.ErrNoRows
}

func (m *mockTemplates) Save(ctx context.Context, t template.Template) error {
	m.templates[t.ID] = t
	return nil
}

func (m *mockTemplates) Delete(ctx context.Context, id string) error {
	delete(m.templates, id)
	return nil
}

func (m *mockTemplates) List(ctx context.Context) ([]template.Template, error) {
	var list []template.Template
	for _, t := range m.templates {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (m *mockTemplates) ListActive(ctx context.Context) ([]template.Template, error) {
	var list []template.Template
	for _, t := range m.templates {
		if t.IsActive {
			list = append(list, t)
		}
	}
	return list, nil
}

func (m *mockTemplates) SaveAssignment(ctx context.Context, a template.Assignment) error {
	m.assignments[a.ID] = a
	return nil
}

func (m *mockTemplates) DeleteAssignment(ctx context.Context, id string) error {
	delete(m.assignments, id)
	return nil
}

func (m *mockTemplates) ListAssignments(ctx context.Context) ([]template.Assignment, error) {
	var list []template.Assignment
	for _, a := range m.assignments {
		list = append(list, a)
	}
	return list, nil
}

func (m *mockTemplates) GetActiveForGroup(ctx context.Context, groupID string) (template.Template, error) {
	for _, a := range m.assignments {
		if a.GroupID == groupID && a.Active {
			return m.GetByID(ctx, a.TemplateID)
		}
	}
	return template.Template{}, sql.ErrNoRows
}

type mockReports struct{ reports map[string]report.Report }

func (m *mockReports) GetByID(ctx context.Context, id string) (report.Report, error) {
	if r, ok := m.reports[id]; ok {
		return r, nil
	}
	return report.Report{}, sql.ErrNoRows
}

func (m *mockReports) GetByPlayerID(ctx context.Context, playerID string) (report.Report, error) {
	for _, r := range m.reports {
		if r.PlayerID == playerID {
			return r, nil
		}
	}
	return report.Report{}, sql.ErrNoRows
}

func (m *mockReports) Save(ctx context.Context, r report.Report) error {
	m.reports[r.ID] = r
	return nil
}

func (m *mockReports) Delete(ctx context.Context, id string) error {
	delete(m.reports, id)
	return nil
}

func (m *mockReports) ListByPeriodID(ctx context.Context, periodID string) ([]report.Report, error) {
	// Reports carry no period directly; resolve through the player fixture.
	var list []report.Report
	for _, r := range m.reports {
		if p, ok := testPlayers.players[r.PlayerID]; ok && p.PeriodID == periodID {
			list = append(list, r)
		}
	}
	return list, nil
}

func (m *mockReports) ListUnsentByPeriodID(ctx context.Context, periodID string) ([]report.Report, error) {
	all, _ := m.ListByPeriodID(ctx, periodID)
	var list []report.Report
	for _, r := range all {
		if !r.EmailSent && !r.IsDraft {
			list = append(list, r)
		}
	}
	return list, nil
}

func (m *mockReports) CountByPeriodID(ctx context.Context, periodID string) (int, error) {
	all, err := m.ListByPeriodID(ctx, periodID)
	return len(all), err
}

// testPlayers is shared so mockReports can resolve period membership.
var testPlayers *mockPlayers

// --- Fixture ---

func assessmentTemplate() template.Template {
	tpl := template.Template{
		ID:   "tpl-001",
		Name: "Junior Assessment",
		Sections: []template.Section{
			{
				ID: "sec-001", Name: "Skills", Order: 1,
				Fields: []template.Field{
					{ID: "fld-001", Name: "Forehand", Kind: template.KindRating, Required: true, Order: 1, Options: template.DefaultRatingOptions()},
					{ID: "fld-002", Name: "Comments", Kind: template.KindTextarea, Order: 2},
				},
			},
		},
		IsActive:  true,
		CreatedBy: "admin-001",
		CreatedAt: testTime,
	}
	tpl.Normalize()
	return tpl
}

// setupWebTest wires the package globals to seeded in-memory stores. Every
// test starts from the same fixture: two groups, one active period, one
// enrolled player with a template assigned to their group.
func setupWebTest(t *testing.T) {
	t.Helper()

	admin := account.Account{ID: "admin-001", Email: "pat@courtside.club", Name: "Pat Shaw", Role: account.RoleAdmin, IsActive: true, CreatedAt: testTime}
	super := account.Account{ID: "super-001", Email: "root@courtside.club", Name: "Root", Role: account.RoleSuperAdmin, IsActive: true, CreatedAt: testTime}
	coachAcct := account.Account{ID: "coach-001", Email: "sam@courtside.club", Name: "Sam Reed", Role: account.RoleCoach, IsActive: true, CreatedAt: testTime}

	testPlayers = &mockPlayers{players: map[string]player.Player{
		"player-001": {ID: "player-001", StudentID: "student-001", GroupID: "group-red1", PeriodID: "period-001", CoachID: "coach-001", CreatedAt: testTime},
	}}

	tpl := assessmentTemplate()
	stores = &Stores{
		AccountStore:     &mockAccounts{accounts: map[string]account.Account{admin.ID: admin, super.ID: super, coachAcct.ID: coachAcct}},
		CoachDetailStore: &mockDetails{details: map[string]coach.Detail{}},
		StudentStore: &mockStudents{students: map[string]student.Student{
			"student-001": {ID: "student-001", Name: "Ella Ford", ContactEmail: "ford.family@example.com", CreatedAt: testTime},
		}},
		GroupStore: &mockGroups{
			groups: map[string]group.Group{
				"group-red1":    {ID: "group-red1", Name: "Red 1", CreatedAt: testTime},
				"group-orange1": {ID: "group-orange1", Name: "Orange 1", CreatedAt: testTime},
			},
			sessions: map[string]group.Session{},
		},
		PeriodStore: &mockPeriods{periods: map[string]period.Period{
			"period-001": {ID: "period-001", Name: "Spring 2026", StartDate: testTime.AddDate(0, -1, 0), EndDate: testTime.AddDate(0, 2, 0), IsActive: true, CreatedAt: testTime},
		}},
		PlayerStore: testPlayers,
		TemplateStore: &mockTemplates{
			templates: map[string]template.Template{tpl.ID: tpl},
			assignments: map[string]template.Assignment{
				"assign-001": {ID: "assign-001", GroupID: "group-red1", TemplateID: tpl.ID, Active: true, CreatedAt: testTime},
			},
		},
		ReportStore: &mockReports{reports: map[string]report.Report{}},
	}
	sessions = middleware.NewSessionStore()
	emailSender = nil
	t.Cleanup(func() {
		stores = nil
		testPlayers = nil
	})
}

func newTestMux() *http.ServeMux {
	mux := http.NewServeMux()
	registerRoutes(mux)
	return mux
}

func adminSession() middleware.Session {
	return middleware.Session{AccountID: "admin-001", Email: "pat@courtside.club", Name: "Pat Shaw", Role: account.RoleAdmin, CreatedAt: testTime}
}

func superSession() middleware.Session {
	return middleware.Session{AccountID: "super-001", Email: "root@courtside.club", Name: "Root", Role: account.RoleSuperAdmin, CreatedAt: testTime}
}

func coachSession() middleware.Session {
	return middleware.Session{AccountID: "coach-001", Email: "sam@courtside.club", Name: "Sam Reed", Role: account.RoleCoach, CreatedAt: testTime}
}

// doJSON performs a request against the mux with an optional session bound to
// the context, the way the Auth middleware would.
func doJSON(t *testing.T, mux *http.ServeMux, method, path string, sess *middleware.Session, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if sess != nil {
		req = req.WithContext(middleware.ContextWithSession(req.Context(), *sess))
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}
}

func reportContent(rating, comments string) form.Values {
	return form.Values{"Skills": {"Forehand": rating, "Comments": comments}}
}
