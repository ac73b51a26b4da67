package projections

import (
	"context"
	"sort"

	"courtside/internal/domain/group"
	"courtside/internal/domain/template"
)

// TemplateListStore defines the template store interface needed by the template projections.
type TemplateListStore interface {
	List(ctx context.Context) ([]template.Template, error)
	ListAssignments(ctx context.Context) ([]template.Assignment, error)
}

// TemplateListGroupStore defines the group store interface needed by the template projections.
type TemplateListGroupStore interface {
	List(ctx context.Context) ([]group.Group, error)
}

// GetTemplatesDeps holds dependencies for the template list projection.
type GetTemplatesDeps struct {
	TemplateStore TemplateListStore
}

// TemplateSummary is one row of the template listing.
type TemplateSummary struct {
	ID         string
	Name       string
	IsActive   bool
	Sections   int
	Fields     int
	AssignedTo int // groups currently using this template
}

// QueryGetTemplates lists report templates with their structure sizes and
// active assignment counts.
func QueryGetTemplates(ctx context.Context, deps GetTemplatesDeps) ([]TemplateSummary, error) {
	templates, err := deps.TemplateStore.List(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := deps.TemplateStore.ListAssignments(ctx)
	if err != nil {
		return nil, err
	}

	assigned := make(map[string]int)
	for _, a := range assignments {
		if a.Active {
			assigned[a.TemplateID]++
		}
	}

	out := make([]TemplateSummary, 0, len(templates))
	for _, tpl := range templates {
		out = append(out, TemplateSummary{
			ID:         tpl.ID,
			Name:       tpl.Name,
			IsActive:   tpl.IsActive,
			Sections:   len(tpl.Sections),
			Fields:     tpl.FieldCount(),
			AssignedTo: assigned[tpl.ID],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetGroupAssignmentsDeps holds dependencies for the group assignments projection.
type GetGroupAssignmentsDeps struct {
	TemplateStore TemplateListStore
	GroupStore    TemplateListGroupStore
}

// GroupAssignment is one group with its currently assigned template, if any.
type GroupAssignment struct {
	GroupID      string
	GroupName    string
	TemplateID   string // empty when nothing is assigned
	TemplateName string
}

// QueryGetGroupAssignments lists every group with the template currently
// assigned to it, including groups with none.
func QueryGetGroupAssignments(ctx context.Context, deps GetGroupAssignmentsDeps) ([]GroupAssignment, error) {
	groups, err := deps.GroupStore.List(ctx)
	if err != nil {
		return nil, err
	}
	templates, err := deps.TemplateStore.List(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := deps.TemplateStore.ListAssignments(ctx)
	if err != nil {
		return nil, err
	}

	templateName := make(map[string]string, len(templates))
	for _, tpl := range templates {
		templateName[tpl.ID] = tpl.Name
	}
	activeByGroup := make(map[string]string)
	for _, a := range assignments {
		if a.Active {
			activeByGroup[a.GroupID] = a.TemplateID
		}
	}

	out := make([]GroupAssignment, 0, len(groups))
	for _, g := range groups {
		row := GroupAssignment{GroupID: g.ID, GroupName: g.Name}
		if tplID, ok := activeByGroup[g.ID]; ok {
			row.TemplateID = tplID
			row.TemplateName = templateName[tplID]
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GroupName < out[j].GroupName })
	return out, nil
}
