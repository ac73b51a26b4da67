package projections

import (
	"context"
	"sort"

	"courtside/internal/domain/group"
	"courtside/internal/domain/player"
	"courtside/internal/domain/report"
	"courtside/internal/domain/student"
	"courtside/internal/domain/template"
)

// ProgrammePlayerStore defines the player store interface needed by the programme projection.
type ProgrammePlayerStore interface {
	ListByPeriodID(ctx context.Context, periodID string) ([]player.Player, error)
	ListByCoachAndPeriod(ctx context.Context, coachID, periodID string) ([]player.Player, error)
}

// ProgrammeStudentStore defines the student store interface needed by the programme projection.
type ProgrammeStudentStore interface {
	GetByID(ctx context.Context, id string) (student.Student, error)
}

// ProgrammeGroupStore defines the group store interface needed by the programme projection.
type ProgrammeGroupStore interface {
	List(ctx context.Context) ([]group.Group, error)
	GetSessionByID(ctx context.Context, id string) (group.Session, error)
}

// ProgrammeReportStore defines the report store interface needed by the programme projection.
type ProgrammeReportStore interface {
	ListByPeriodID(ctx context.Context, periodID string) ([]report.Report, error)
}

// ProgrammeTemplateStore defines the template store interface needed by the programme projection.
type ProgrammeTemplateStore interface {
	GetActiveForGroup(ctx context.Context, groupID string) (template.Template, error)
}

// GetProgrammePlayersQuery carries input for the programme players projection.
type GetProgrammePlayersQuery struct {
	PeriodID string
	CoachID  string // used for CanEdit and, for non-admins, to scope the list
	IsAdmin  bool
}

// GetProgrammePlayersDeps holds dependencies for the programme players projection.
type GetProgrammePlayersDeps struct {
	PlayerStore   ProgrammePlayerStore
	StudentStore  ProgrammeStudentStore
	GroupStore    ProgrammeGroupStore
	ReportStore   ProgrammeReportStore
	TemplateStore ProgrammeTemplateStore
}

// ProgrammePlayer is one row of the players listing.
type ProgrammePlayer struct {
	PlayerID     string
	StudentName  string
	GroupID      string
	GroupName    string
	SessionLabel string // empty when no session assigned
	CoachID      string

	ReportID        string
	ReportSubmitted bool // a finalized report exists
	ReportDraft     bool
	EmailSent       bool
	HasTemplate     bool // the player's group has an active template
	CanEdit         bool // the viewer may create or edit this player's report
}

// QueryGetProgrammePlayers lists the players for a period with their report
// status, ready for the players page.
func QueryGetProgrammePlayers(ctx context.Context, query GetProgrammePlayersQuery, deps GetProgrammePlayersDeps) ([]ProgrammePlayer, error) {
	var players []player.Player
	var err error
	if query.IsAdmin {
		players, err = deps.PlayerStore.ListByPeriodID(ctx, query.PeriodID)
	} else {
		players, err = deps.PlayerStore.ListByCoachAndPeriod(ctx, query.CoachID, query.PeriodID)
	}
	if err != nil {
		return nil, err
	}

	reports, err := deps.ReportStore.ListByPeriodID(ctx, query.PeriodID)
	if err != nil {
		return nil, err
	}
	reportByPlayer := make(map[string]report.Report, len(reports))
	for _, r := range reports {
		reportByPlayer[r.PlayerID] = r
	}

	groups, err := deps.GroupStore.List(ctx)
	if err != nil {
		return nil, err
	}
	groupName := make(map[string]string, len(groups))
	for _, g := range groups {
		groupName[g.ID] = g.Name
	}

	hasTemplate := make(map[string]bool)
	rows := make([]ProgrammePlayer, 0, len(players))
	for _, p := range players {
		row := ProgrammePlayer{
			PlayerID:  p.ID,
			GroupID:   p.GroupID,
			GroupName: groupName[p.GroupID],
			CoachID:   p.CoachID,
			CanEdit:   query.IsAdmin || p.CoachID == query.CoachID,
		}

		if stu, err := deps.StudentStore.GetByID(ctx, p.StudentID); err == nil {
			row.StudentName = stu.Name
		}
		if p.SessionID != "" {
			if s, err := deps.GroupStore.GetSessionByID(ctx, p.SessionID); err == nil {
				row.SessionLabel = s.Label()
			}
		}

		if _, seen := hasTemplate[p.GroupID]; !seen {
			_, err := deps.TemplateStore.GetActiveForGroup(ctx, p.GroupID)
			hasTemplate[p.GroupID] = err == nil
		}
		row.HasTemplate = hasTemplate[p.GroupID]

		if r, ok := reportByPlayer[p.ID]; ok {
			row.ReportID = r.ID
			row.ReportSubmitted = !r.IsDraft
			row.ReportDraft = r.IsDraft
			row.EmailSent = r.EmailSent
		}

		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].GroupName != rows[j].GroupName {
			return rows[i].GroupName < rows[j].GroupName
		}
		return rows[i].StudentName < rows[j].StudentName
	})
	return rows, nil
}
