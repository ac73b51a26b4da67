package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"courtside/internal/domain/template"
)

// TemplateStoreForOrchestrator defines the store interface needed by template orchestrators.
type TemplateStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (template.Template, error)
	Save(ctx context.Context, t template.Template) error
	SaveAssignment(ctx context.Context, a template.Assignment) error
	ListAssignments(ctx context.Context) ([]template.Assignment, error)
}

// --- Create Template ---

// CreateTemplateInput carries input for the create template orchestrator.
type CreateTemplateInput struct {
	Name        string
	Description string
	Sections    []template.Section
	CreatedBy   string // AccountID of the authoring admin
}

// CreateTemplateDeps holds dependencies for CreateTemplate.
type CreateTemplateDeps struct {
	TemplateStore TemplateStoreForOrchestrator
	GenerateID    func() string
	Now           func() time.Time
}

// ExecuteCreateTemplate creates a report template. Sections and fields get
// generated IDs where the input left them blank.
// PRE: Input satisfies the template authoring rules
// POST: Template created active, sections in declaration order
func ExecuteCreateTemplate(ctx context.Context, input CreateTemplateInput, deps CreateTemplateDeps) (template.Template, error) {
	tpl := template.Template{
		ID:          deps.GenerateID(),
		Name:        input.Name,
		Description: input.Description,
		Sections:    input.Sections,
		IsActive:    true,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   deps.Now(),
	}
	assignIDs(&tpl, deps.GenerateID)
	tpl.Normalize()

	if err := tpl.Validate(); err != nil {
		return template.Template{}, err
	}
	if err := deps.TemplateStore.Save(ctx, tpl); err != nil {
		return template.Template{}, err
	}

	slog.Info("template_event", "event", "template_created", "template_id", tpl.ID, "name", tpl.Name, "fields", tpl.FieldCount())
	return tpl, nil
}

// --- Update Template ---

// UpdateTemplateInput carries input for the update template orchestrator.
type UpdateTemplateInput struct {
	TemplateID  string
	Name        string
	Description string
	Sections    []template.Section
}

// UpdateTemplateDeps holds dependencies for UpdateTemplate.
type UpdateTemplateDeps struct {
	TemplateStore TemplateStoreForOrchestrator
	GenerateID    func() string
	Now           func() time.Time
}

// ExecuteUpdateTemplate replaces a template's name, description and structure.
// PRE: TemplateID refers to an existing template; input satisfies authoring rules
// POST: Template updated with UpdatedAt set; existing reports keep their content
func ExecuteUpdateTemplate(ctx context.Context, input UpdateTemplateInput, deps UpdateTemplateDeps) (template.Template, error) {
	tpl, err := deps.TemplateStore.GetByID(ctx, input.TemplateID)
	if err != nil {
		return template.Template{}, err
	}

	tpl.Name = input.Name
	tpl.Description = input.Description
	tpl.Sections = input.Sections
	tpl.UpdatedAt = deps.Now()
	assignIDs(&tpl, deps.GenerateID)
	tpl.Normalize()

	if err := tpl.Validate(); err != nil {
		return template.Template{}, err
	}
	if err := deps.TemplateStore.Save(ctx, tpl); err != nil {
		return template.Template{}, err
	}

	slog.Info("template_event", "event", "template_updated", "template_id", tpl.ID, "fields", tpl.FieldCount())
	return tpl, nil
}

// --- Deactivate Template ---

// DeactivateTemplateInput carries input for the deactivate template orchestrator.
type DeactivateTemplateInput struct {
	TemplateID string
}

// DeactivateTemplateDeps holds dependencies for DeactivateTemplate.
type DeactivateTemplateDeps struct {
	TemplateStore TemplateStoreForOrchestrator
	Now           func() time.Time
}

// ExecuteDeactivateTemplate retires a template from new report creation.
// Existing reports written against it remain viewable.
// PRE: TemplateID refers to an existing template
// POST: Template is inactive
func ExecuteDeactivateTemplate(ctx context.Context, input DeactivateTemplateInput, deps DeactivateTemplateDeps) error {
	tpl, err := deps.TemplateStore.GetByID(ctx, input.TemplateID)
	if err != nil {
		return err
	}
	if !tpl.IsActive {
		return nil
	}
	tpl.IsActive = false
	tpl.UpdatedAt = deps.Now()
	if err := deps.TemplateStore.Save(ctx, tpl); err != nil {
		return err
	}
	slog.Info("template_event", "event", "template_deactivated", "template_id", tpl.ID)
	return nil
}

// --- Assign Template to Group ---

// AssignTemplateInput carries input for the assign template orchestrator.
type AssignTemplateInput struct {
	GroupID    string
	TemplateID string
}

// AssignTemplateDeps holds dependencies for AssignTemplate.
type AssignTemplateDeps struct {
	TemplateStore TemplateStoreForOrchestrator
	GenerateID    func() string
	Now           func() time.Time
}

// ExecuteAssignTemplate makes a template the active one for a group,
// deactivating whichever assignment was active before.
// PRE: TemplateID refers to an active template
// POST: Exactly one active assignment exists for the group
func ExecuteAssignTemplate(ctx context.Context, input AssignTemplateInput, deps AssignTemplateDeps) (template.Assignment, error) {
	tpl, err := deps.TemplateStore.GetByID(ctx, input.TemplateID)
	if err != nil {
		return template.Assignment{}, err
	}
	if !tpl.IsActive {
		return template.Assignment{}, template.ErrInactive
	}

	existing, err := deps.TemplateStore.ListAssignments(ctx)
	if err != nil {
		return template.Assignment{}, err
	}
	for _, a := range existing {
		if a.GroupID != input.GroupID || !a.Active {
			continue
		}
		if a.TemplateID == input.TemplateID {
			return a, nil
		}
		a.Active = false
		if err := deps.TemplateStore.SaveAssignment(ctx, a); err != nil {
			return template.Assignment{}, err
		}
	}

	assignment := template.Assignment{
		ID:         deps.GenerateID(),
		GroupID:    input.GroupID,
		TemplateID: input.TemplateID,
		Active:     true,
		CreatedAt:  deps.Now(),
	}
	if err := assignment.Validate(); err != nil {
		return template.Assignment{}, err
	}
	if err := deps.TemplateStore.SaveAssignment(ctx, assignment); err != nil {
		return template.Assignment{}, err
	}

	slog.Info("template_event", "event", "template_assigned", "group_id", input.GroupID, "template_id", input.TemplateID)
	return assignment, nil
}

// assignIDs fills in missing section and field IDs.
func assignIDs(tpl *template.Template, generateID func() string) {
	for si := range tpl.Sections {
		if tpl.Sections[si].ID == "" {
			tpl.Sections[si].ID = generateID()
		}
		for fi := range tpl.Sections[si].Fields {
			if tpl.Sections[si].Fields[fi].ID == "" {
				tpl.Sections[si].Fields[fi].ID = generateID()
			}
		}
	}
}
