package projections

import (
	"context"

	"courtside/internal/domain/group"
	"courtside/internal/domain/player"
	"courtside/internal/domain/report"
	"courtside/internal/domain/student"
	"courtside/internal/domain/template"
)

// ReportViewReportStore defines the report store interface needed by the report view projection.
type ReportViewReportStore interface {
	GetByID(ctx context.Context, id string) (report.Report, error)
}

// ReportViewTemplateStore defines the template store interface needed by the report view projection.
type ReportViewTemplateStore interface {
	GetByID(ctx context.Context, id string) (template.Template, error)
}

// ReportViewPlayerStore defines the player store interface needed by the report view projection.
type ReportViewPlayerStore interface {
	GetByID(ctx context.Context, id string) (player.Player, error)
}

// ReportViewStudentStore defines the student store interface needed by the report view projection.
type ReportViewStudentStore interface {
	GetByID(ctx context.Context, id string) (student.Student, error)
}

// ReportViewGroupStore defines the group store interface needed by the report view projection.
type ReportViewGroupStore interface {
	GetByID(ctx context.Context, id string) (group.Group, error)
}

// GetReportViewQuery carries input for the report view projection.
type GetReportViewQuery struct {
	ReportID string
	CoachID  string
	IsAdmin  bool
}

// GetReportViewDeps holds dependencies for the report view projection.
type GetReportViewDeps struct {
	ReportStore   ReportViewReportStore
	TemplateStore ReportViewTemplateStore
	PlayerStore   ReportViewPlayerStore
	StudentStore  ReportViewStudentStore
	GroupStore    ReportViewGroupStore
}

// ReportFieldView is one answered field, in template order.
type ReportFieldView struct {
	Name        string
	Kind        template.Kind
	Value       string
	RatingLabel string // set for rating fields with a numeric value
}

// ReportSectionView groups answered fields under the template section heading.
type ReportSectionView struct {
	Name   string
	Fields []ReportFieldView
}

// ReportView is a report joined with its template, student and group for display.
type ReportView struct {
	Report           report.Report
	TemplateName     string
	StudentName      string
	GroupName        string
	RecommendedGroup string
	Sections         []ReportSectionView
	CanEdit          bool
}

// QueryGetReportView loads a report and lays its content out in template order.
// PRE: ReportID refers to an existing report
// POST: Sections follow the template's section and field ordering
func QueryGetReportView(ctx context.Context, query GetReportViewQuery, deps GetReportViewDeps) (ReportView, error) {
	r, err := deps.ReportStore.GetByID(ctx, query.ReportID)
	if err != nil {
		return ReportView{}, err
	}
	tpl, err := deps.TemplateStore.GetByID(ctx, r.TemplateID)
	if err != nil {
		return ReportView{}, err
	}

	view := ReportView{
		Report:       r,
		TemplateName: tpl.Name,
		CanEdit:      (query.IsAdmin || r.CoachID == query.CoachID) && !r.EmailSent,
	}

	if p, err := deps.PlayerStore.GetByID(ctx, r.PlayerID); err == nil {
		if stu, err := deps.StudentStore.GetByID(ctx, p.StudentID); err == nil {
			view.StudentName = stu.Name
		}
		if g, err := deps.GroupStore.GetByID(ctx, p.GroupID); err == nil {
			view.GroupName = g.Name
		}
	}
	if r.RecommendedGroupID != "" {
		if g, err := deps.GroupStore.GetByID(ctx, r.RecommendedGroupID); err == nil {
			view.RecommendedGroup = g.Name
		}
	}

	for _, section := range tpl.Sections {
		sv := ReportSectionView{Name: section.Name}
		for _, field := range section.Fields {
			fv := ReportFieldView{
				Name:  field.Name,
				Kind:  field.Kind,
				Value: r.Content.Get(section.Name, field.Name),
			}
			if field.Kind == template.KindRating && fv.Value != "" {
				fv.RatingLabel = ratingLabelForValue(fv.Value)
			}
			sv.Fields = append(sv.Fields, fv)
		}
		view.Sections = append(view.Sections, sv)
	}
	return view, nil
}

func ratingLabelForValue(v string) string {
	n := 0
	for _, c := range v {
		if c < '0' || c > '9' {
			return ""
		}
		n = n*10 + int(c-'0')
	}
	return template.RatingLabel(n)
}
