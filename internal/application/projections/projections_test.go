package projections

import (
	"context"
	"errors"
	"time"

	"courtside/internal/domain/account"
	"courtside/internal/domain/coach"
	"courtside/internal/domain/form"
	"courtside/internal/domain/group"
	"courtside/internal/domain/player"
	"courtside/internal/domain/report"
	"courtside/internal/domain/student"
	"courtside/internal/domain/template"
)

var fixedTime = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// fakeStore is an in-memory backing store shared by the projection mocks.
type fakeStore struct {
	players     map[string]player.Player
	students    map[string]student.Student
	groups      map[string]group.Group
	sessions    map[string]group.Session
	reports     map[string]report.Report
	templates   map[string]template.Template
	assignments []template.Assignment
	accounts    map[string]account.Account
	details     []coach.Detail
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		players:   make(map[string]player.Player),
		students:  make(map[string]student.Student),
		groups:    make(map[string]group.Group),
		sessions:  make(map[string]group.Session),
		reports:   make(map[string]report.Report),
		templates: make(map[string]template.Template),
		accounts:  make(map[string]account.Account),
	}
}

func (f *fakeStore) ListByPeriodID(_ context.Context, periodID string) ([]player.Player, error) {
	var out []player.Player
	for _, p := range f.players {
		if p.PeriodID == periodID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByCoachAndPeriod(_ context.Context, coachID, periodID string) ([]player.Player, error) {
	var out []player.Player
	for _, p := range f.players {
		if p.CoachID == coachID && p.PeriodID == periodID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (player.Player, error) {
	p, ok := f.players[id]
	if !ok {
		return player.Player{}, errors.New("not found")
	}
	return p, nil
}

func (f *fakeStore) List(_ context.Context) ([]group.Group, error) {
	var out []group.Group
	for _, g := range f.groups {
		out = append(out, g)
	}
	return out, nil
}

func (f *fakeStore) GetSessionByID(_ context.Context, id string) (group.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return group.Session{}, errors.New("not found")
	}
	return s, nil
}

func (f *fakeStore) ListSessionsByGroupID(_ context.Context, groupID string) ([]group.Session, error) {
	var out []group.Session
	for _, s := range f.sessions {
		if s.GroupID == groupID {
			out = append(out, s)
		}
	}
	return out, nil
}

// Typed views over fakeStore so one fixture can satisfy every narrow interface
// despite the clashing method names.

type fakeStudents struct{ *fakeStore }

func (f fakeStudents) GetByID(_ context.Context, id string) (student.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return student.Student{}, errors.New("not found")
	}
	return s, nil
}

type fakeGroups struct{ *fakeStore }

func (f fakeGroups) GetByID(_ context.Context, id string) (group.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return group.Group{}, errors.New("not found")
	}
	return g, nil
}

type fakeReports struct{ *fakeStore }

func (f fakeReports) GetByID(_ context.Context, id string) (report.Report, error) {
	r, ok := f.reports[id]
	if !ok {
		return report.Report{}, errors.New("not found")
	}
	return r, nil
}

func (f fakeReports) ListByPeriodID(_ context.Context, periodID string) ([]report.Report, error) {
	var out []report.Report
	for _, r := range f.reports {
		p, ok := f.players[r.PlayerID]
		if ok && p.PeriodID == periodID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeTemplates struct{ *fakeStore }

func (f fakeTemplates) GetByID(_ context.Context, id string) (template.Template, error) {
	tpl, ok := f.templates[id]
	if !ok {
		return template.Template{}, errors.New("not found")
	}
	return tpl, nil
}

func (f fakeTemplates) List(_ context.Context) ([]template.Template, error) {
	var out []template.Template
	for _, tpl := range f.templates {
		out = append(out, tpl)
	}
	return out, nil
}

func (f fakeTemplates) ListAssignments(_ context.Context) ([]template.Assignment, error) {
	return f.assignments, nil
}

func (f fakeTemplates) GetActiveForGroup(_ context.Context, groupID string) (template.Template, error) {
	for _, a := range f.assignments {
		if a.GroupID == groupID && a.Active {
			return f.templates[a.TemplateID], nil
		}
	}
	return template.Template{}, errors.New("no template assigned")
}

type fakeAccounts struct{ *fakeStore }

func (f fakeAccounts) GetByID(_ context.Context, id string) (account.Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return account.Account{}, errors.New("not found")
	}
	return a, nil
}

type fakeDetails struct{ *fakeStore }

func (f fakeDetails) List(_ context.Context) ([]coach.Detail, error) {
	return f.details, nil
}

// programmeFixture seeds two groups, two coaches, three players and a mix of
// final, draft and missing reports for period-001.
func programmeFixture() *fakeStore {
	f := newFakeStore()

	f.groups["group-red1"] = group.Group{ID: "group-red1", Name: "Red 1"}
	f.groups["group-orange1"] = group.Group{ID: "group-orange1", Name: "Orange 1"}
	f.sessions["session-001"] = group.Session{
		ID: "session-001", GroupID: "group-red1",
		DayOfWeek: time.Monday, StartTime: "16:00", EndTime: "17:00",
	}

	f.accounts["coach-001"] = account.Account{ID: "coach-001", Name: "Sam Reed", Email: "sam@courtside.club", Role: account.RoleCoach}
	f.accounts["coach-002"] = account.Account{ID: "coach-002", Name: "Jo Marsh", Email: "jo@courtside.club", Role: account.RoleCoach}

	f.students["student-001"] = student.Student{ID: "student-001", Name: "Ella Ford"}
	f.students["student-002"] = student.Student{ID: "student-002", Name: "Max Obi"}
	f.students["student-003"] = student.Student{ID: "student-003", Name: "Ana Silva"}

	f.players["player-001"] = player.Player{
		ID: "player-001", StudentID: "student-001", GroupID: "group-red1", SessionID: "session-001",
		PeriodID: "period-001", CoachID: "coach-001",
	}
	f.players["player-002"] = player.Player{
		ID: "player-002", StudentID: "student-002", GroupID: "group-red1",
		PeriodID: "period-001", CoachID: "coach-001",
	}
	f.players["player-003"] = player.Player{
		ID: "player-003", StudentID: "student-003", GroupID: "group-orange1",
		PeriodID: "period-001", CoachID: "coach-002",
	}

	f.templates["tpl-001"] = template.Template{
		ID: "tpl-001", Name: "Junior Assessment", IsActive: true, CreatedBy: "admin-001",
		Sections: []template.Section{
			{Name: "Skills", Fields: []template.Field{
				{Name: "Forehand", Kind: template.KindRating, Required: true, Options: template.DefaultRatingOptions()},
				{Name: "Notes", Kind: template.KindTextarea},
			}},
		},
	}
	f.assignments = []template.Assignment{
		{ID: "assign-001", GroupID: "group-red1", TemplateID: "tpl-001", Active: true},
	}

	f.reports["report-001"] = report.Report{
		ID: "report-001", PlayerID: "player-001", TemplateID: "tpl-001", CoachID: "coach-001",
		Content:            form.Values{"Skills": {"Forehand": "4", "Notes": "Strong term"}},
		RecommendedGroupID: "group-orange1",
	}
	f.reports["report-002"] = report.Report{
		ID: "report-002", PlayerID: "player-002", TemplateID: "tpl-001", CoachID: "coach-001",
		Content: form.Values{"Skills": {"Forehand": "2"}},
		IsDraft: true,
	}
	return f
}
