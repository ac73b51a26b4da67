package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"courtside/internal/domain/form"
	"courtside/internal/domain/group"
	"courtside/internal/domain/player"
	"courtside/internal/domain/report"
	"courtside/internal/domain/template"
)

// PlayerStoreForReport defines the player store interface needed by report orchestrators.
type PlayerStoreForReport interface {
	GetByID(ctx context.Context, id string) (player.Player, error)
}

// TemplateStoreForReport defines the template store interface needed by report orchestrators.
type TemplateStoreForReport interface {
	GetByID(ctx context.Context, id string) (template.Template, error)
	GetActiveForGroup(ctx context.Context, groupID string) (template.Template, error)
}

// GroupStoreForReport defines the group store interface needed by report orchestrators.
type GroupStoreForReport interface {
	GetByID(ctx context.Context, id string) (group.Group, error)
}

// ReportStoreForOrchestrator defines the report store interface needed by report orchestrators.
type ReportStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (report.Report, error)
	GetByPlayerID(ctx context.Context, playerID string) (report.Report, error)
	Save(ctx context.Context, r report.Report) error
	Delete(ctx context.Context, id string) error
}

var (
	ErrReportExists   = errors.New("a report already exists for this player")
	ErrNotReportOwner = errors.New("only the owning coach can modify this report")
	ErrReportSent     = errors.New("a sent report can no longer be edited")
	ErrUnknownGroup   = errors.New("recommended group does not exist")
)

// --- Submit Report ---

// SubmitReportInput carries input for the submit report orchestrator.
type SubmitReportInput struct {
	PlayerID           string
	CoachID            string
	Values             form.Values
	RecommendedGroupID string
	Draft              bool
}

// SubmitReportDeps holds dependencies for SubmitReport.
type SubmitReportDeps struct {
	PlayerStore   PlayerStoreForReport
	TemplateStore TemplateStoreForReport
	GroupStore    GroupStoreForReport
	ReportStore   ReportStoreForOrchestrator
	GenerateID    func() string
	Now           func() time.Time
}

// SubmitReportResult carries the outcome of a submit attempt. On validation
// failure Report is zero and State holds the per-field messages for redisplay.
type SubmitReportResult struct {
	Report report.Report
	State  *form.State
}

// ExecuteSubmitReport validates submitted values against the group's active
// template and persists a new report. A final (non-draft) submission requires
// a next-term group recommendation; drafts skip field validation entirely.
// PRE: Player exists and belongs to the submitting coach
// POST: Report persisted exactly once, or State returned with validation errors
func ExecuteSubmitReport(ctx context.Context, input SubmitReportInput, deps SubmitReportDeps) (SubmitReportResult, error) {
	p, err := deps.PlayerStore.GetByID(ctx, input.PlayerID)
	if err != nil {
		return SubmitReportResult{}, err
	}
	if p.CoachID != input.CoachID {
		return SubmitReportResult{}, ErrNotReportOwner
	}
	if _, err := deps.ReportStore.GetByPlayerID(ctx, input.PlayerID); err == nil {
		return SubmitReportResult{}, ErrReportExists
	}

	tpl, err := deps.TemplateStore.GetActiveForGroup(ctx, p.GroupID)
	if err != nil {
		return SubmitReportResult{}, err
	}

	state := form.NewState(&tpl, input.Values)
	state.RequireRecommendation = !input.Draft
	state.SetRecommendation(input.RecommendedGroupID)

	if input.Draft {
		// Drafts save whatever is filled in so far.
		r, err := persistReport(ctx, deps, report.Report{
			ID:                 deps.GenerateID(),
			PlayerID:           p.ID,
			TemplateID:         tpl.ID,
			CoachID:            input.CoachID,
			Content:            state.Values,
			RecommendedGroupID: input.RecommendedGroupID,
			IsDraft:            true,
			CreatedAt:          deps.Now(),
		})
		return SubmitReportResult{Report: r, State: state}, err
	}

	if input.RecommendedGroupID != "" {
		if _, err := deps.GroupStore.GetByID(ctx, input.RecommendedGroupID); err != nil {
			return SubmitReportResult{}, ErrUnknownGroup
		}
	}

	var saved report.Report
	err = form.Submit(ctx, state, func(ctx context.Context, values form.Values, recommendedGroupID string) error {
		r, err := persistReport(ctx, deps, report.Report{
			ID:                 deps.GenerateID(),
			PlayerID:           p.ID,
			TemplateID:         tpl.ID,
			CoachID:            input.CoachID,
			Content:            values,
			RecommendedGroupID: recommendedGroupID,
			CreatedAt:          deps.Now(),
		})
		saved = r
		return err
	})
	if errors.Is(err, form.ErrValidationFailed) {
		return SubmitReportResult{State: state}, err
	}
	if err != nil {
		return SubmitReportResult{State: state}, err
	}

	slog.Info("report_event", "event", "report_submitted", "report_id", saved.ID, "player_id", p.ID, "coach_id", input.CoachID)
	return SubmitReportResult{Report: saved, State: state}, nil
}

func persistReport(ctx context.Context, deps SubmitReportDeps, r report.Report) (report.Report, error) {
	if err := r.Validate(); err != nil {
		return report.Report{}, err
	}
	if err := deps.ReportStore.Save(ctx, r); err != nil {
		return report.Report{}, err
	}
	return r, nil
}

// --- Update Report ---

// UpdateReportInput carries input for the update report orchestrator.
type UpdateReportInput struct {
	ReportID           string
	CoachID            string
	IsAdmin            bool
	Values             form.Values
	RecommendedGroupID string
	Finalize           bool // promote a draft to final
}

// UpdateReportDeps holds dependencies for UpdateReport.
type UpdateReportDeps struct {
	TemplateStore TemplateStoreForReport
	GroupStore    GroupStoreForReport
	ReportStore   ReportStoreForOrchestrator
	Now           func() time.Time
}

// ExecuteUpdateReport revalidates and replaces the content of an existing report.
// PRE: Report exists, is unsent, and caller is the owning coach or an admin
// POST: Report content replaced, UpdatedAt set, or State returned with errors
func ExecuteUpdateReport(ctx context.Context, input UpdateReportInput, deps UpdateReportDeps) (SubmitReportResult, error) {
	r, err := deps.ReportStore.GetByID(ctx, input.ReportID)
	if err != nil {
		return SubmitReportResult{}, err
	}
	if r.CoachID != input.CoachID && !input.IsAdmin {
		return SubmitReportResult{}, ErrNotReportOwner
	}
	if r.EmailSent {
		return SubmitReportResult{}, ErrReportSent
	}

	tpl, err := deps.TemplateStore.GetByID(ctx, r.TemplateID)
	if err != nil {
		return SubmitReportResult{}, err
	}

	finalizing := input.Finalize || !r.IsDraft

	state := form.NewState(&tpl, input.Values)
	state.RequireRecommendation = finalizing
	state.SetRecommendation(input.RecommendedGroupID)

	if input.RecommendedGroupID != "" {
		if _, err := deps.GroupStore.GetByID(ctx, input.RecommendedGroupID); err != nil {
			return SubmitReportResult{}, ErrUnknownGroup
		}
	}

	if !finalizing {
		r.Content = state.Values
		r.RecommendedGroupID = input.RecommendedGroupID
		r.UpdatedAt = deps.Now()
		updated, err := persistUpdate(ctx, deps, r)
		return SubmitReportResult{Report: updated, State: state}, err
	}

	var saved report.Report
	err = form.Submit(ctx, state, func(ctx context.Context, values form.Values, recommendedGroupID string) error {
		r.Content = values
		r.RecommendedGroupID = recommendedGroupID
		r.IsDraft = false
		r.UpdatedAt = deps.Now()
		updated, err := persistUpdate(ctx, deps, r)
		saved = updated
		return err
	})
	if errors.Is(err, form.ErrValidationFailed) {
		return SubmitReportResult{State: state}, err
	}
	if err != nil {
		return SubmitReportResult{State: state}, err
	}

	slog.Info("report_event", "event", "report_updated", "report_id", saved.ID, "coach_id", input.CoachID)
	return SubmitReportResult{Report: saved, State: state}, nil
}

func persistUpdate(ctx context.Context, deps UpdateReportDeps, r report.Report) (report.Report, error) {
	if err := r.Validate(); err != nil {
		return report.Report{}, err
	}
	if err := deps.ReportStore.Save(ctx, r); err != nil {
		return report.Report{}, err
	}
	return r, nil
}

// --- Delete Report ---

// DeleteReportInput carries input for the delete report orchestrator.
type DeleteReportInput struct {
	ReportID string
	CoachID  string
	IsAdmin  bool
}

// DeleteReportDeps holds dependencies for DeleteReport.
type DeleteReportDeps struct {
	ReportStore ReportStoreForOrchestrator
}

// ExecuteDeleteReport removes a report so it can be rewritten.
// PRE: Report exists, is unsent, and caller is the owning coach or an admin
// POST: Report is removed
func ExecuteDeleteReport(ctx context.Context, input DeleteReportInput, deps DeleteReportDeps) error {
	r, err := deps.ReportStore.GetByID(ctx, input.ReportID)
	if err != nil {
		return err
	}
	if r.CoachID != input.CoachID && !input.IsAdmin {
		return ErrNotReportOwner
	}
	if r.EmailSent {
		return ErrReportSent
	}
	if err := deps.ReportStore.Delete(ctx, input.ReportID); err != nil {
		return err
	}
	slog.Info("report_event", "event", "report_deleted", "report_id", input.ReportID)
	return nil
}
