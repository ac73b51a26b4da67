package orchestrators

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yuin/goldmark"

	"courtside/internal/adapters/email"
	"courtside/internal/application/reportgen"
	"courtside/internal/domain/account"
	"courtside/internal/domain/period"
	"courtside/internal/domain/report"
	"courtside/internal/domain/student"
)

// ReportStoreForSend defines the report store interface needed by SendReports.
type ReportStoreForSend interface {
	ListUnsentByPeriodID(ctx context.Context, periodID string) ([]report.Report, error)
	Save(ctx context.Context, r report.Report) error
}

// StudentStoreForSend defines the student store interface needed by SendReports.
type StudentStoreForSend interface {
	GetByID(ctx context.Context, id string) (student.Student, error)
}

// AccountStoreForSend defines the account store interface needed by SendReports.
type AccountStoreForSend interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
}

// PeriodStoreForSend defines the period store interface needed by SendReports.
type PeriodStoreForSend interface {
	GetByID(ctx context.Context, id string) (period.Period, error)
}

// SendReportsInput carries input for the send reports orchestrator.
type SendReportsInput struct {
	PeriodID string
	Message  string // optional coach note in Markdown, rendered into the email body
}

// SendReportsDeps holds dependencies for SendReports.
type SendReportsDeps struct {
	ReportStore   ReportStoreForSend
	PlayerStore   PlayerStoreForReport
	StudentStore  StudentStoreForSend
	GroupStore    GroupStoreForReport
	TemplateStore TemplateStoreForReport
	AccountStore  AccountStoreForSend
	PeriodStore   PeriodStoreForSend
	Sender        email.Sender
	Now           func() time.Time
}

// SendReportsResult summarizes a batch send.
type SendReportsResult struct {
	Sent    int
	Skipped int // players with no contact email on file
	Failed  int
	Errors  []string // one entry per failed report
}

func (r *SendReportsResult) fail(who string, err error) {
	r.Failed++
	r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", who, err))
}

// ExecuteSendReports emails every unsent finalized report in a period to the
// player's contact address, with the rendered PDF attached. Failures leave the
// report unsent so the batch can be retried.
// PRE: PeriodID refers to an existing period
// POST: Each successfully sent report is marked EmailSent
func ExecuteSendReports(ctx context.Context, input SendReportsInput, deps SendReportsDeps) (SendReportsResult, error) {
	per, err := deps.PeriodStore.GetByID(ctx, input.PeriodID)
	if err != nil {
		return SendReportsResult{}, err
	}

	unsent, err := deps.ReportStore.ListUnsentByPeriodID(ctx, input.PeriodID)
	if err != nil {
		return SendReportsResult{}, err
	}

	var result SendReportsResult
	for _, rep := range unsent {
		doc, contactEmail, err := assembleDocument(ctx, deps, rep, per.Name)
		if err != nil {
			slog.Error("send_reports_assemble_failed", "report_id", rep.ID, "error", err)
			result.fail(rep.ID, err)
			continue
		}
		if contactEmail == "" {
			slog.Info("report_event", "event", "report_send_skipped", "report_id", rep.ID, "reason", "no_contact_email")
			result.Skipped++
			continue
		}

		pdfBytes, err := reportgen.PDF(doc)
		if err != nil {
			slog.Error("send_reports_pdf_failed", "report_id", rep.ID, "error", err)
			result.fail(doc.StudentName, err)
			continue
		}

		body, err := reportEmailBody(doc, input.Message)
		if err != nil {
			result.fail(doc.StudentName, err)
			continue
		}

		_, err = deps.Sender.Send(ctx, email.SendRequest{
			To:      []string{contactEmail},
			Subject: fmt.Sprintf("%s's Tennis Report - %s", doc.StudentName, per.Name),
			HTML:    body,
			Attachments: []email.Attachment{
				{Filename: doc.Filename(), Content: pdfBytes},
			},
		})
		if err != nil {
			result.fail(doc.StudentName, err)
			continue
		}

		if err := rep.MarkSent(deps.Now()); err != nil {
			result.fail(doc.StudentName, err)
			continue
		}
		if err := deps.ReportStore.Save(ctx, rep); err != nil {
			slog.Error("send_reports_mark_failed", "report_id", rep.ID, "error", err)
			result.fail(doc.StudentName, err)
			continue
		}
		result.Sent++
	}

	slog.Info("report_event", "event", "reports_sent", "period_id", input.PeriodID,
		"sent", result.Sent, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

// AssembleDocuments builds printable documents for a set of reports, used by
// the bulk download endpoint.
// PRE: every report belongs to the given period
// POST: Returns one document per report in input order
func AssembleDocuments(ctx context.Context, deps SendReportsDeps, reports []report.Report, periodName string) ([]reportgen.Document, error) {
	docs := make([]reportgen.Document, 0, len(reports))
	for _, rep := range reports {
		doc, _, err := assembleDocument(ctx, deps, rep, periodName)
		if err != nil {
			return nil, fmt.Errorf("report %s: %w", rep.ID, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func assembleDocument(ctx context.Context, deps SendReportsDeps, rep report.Report, periodName string) (reportgen.Document, string, error) {
	p, err := deps.PlayerStore.GetByID(ctx, rep.PlayerID)
	if err != nil {
		return reportgen.Document{}, "", err
	}
	stu, err := deps.StudentStore.GetByID(ctx, p.StudentID)
	if err != nil {
		return reportgen.Document{}, "", err
	}
	grp, err := deps.GroupStore.GetByID(ctx, p.GroupID)
	if err != nil {
		return reportgen.Document{}, "", err
	}
	tpl, err := deps.TemplateStore.GetByID(ctx, rep.TemplateID)
	if err != nil {
		return reportgen.Document{}, "", err
	}
	coach, err := deps.AccountStore.GetByID(ctx, rep.CoachID)
	if err != nil {
		return reportgen.Document{}, "", err
	}

	doc := reportgen.Document{
		Report:      rep,
		Template:    tpl,
		StudentName: stu.Name,
		GroupName:   grp.Name,
		PeriodName:  periodName,
		CoachName:   coach.Name,
	}
	if rep.RecommendedGroupID != "" {
		if rec, err := deps.GroupStore.GetByID(ctx, rep.RecommendedGroupID); err == nil {
			doc.Recommended = rec.Name
		}
	}
	return doc, stu.ContactEmail, nil
}

// reportEmailBody renders the email HTML. The coach note is Markdown and runs
// through goldmark before being embedded.
func reportEmailBody(doc reportgen.Document, message string) (string, error) {
	var note bytes.Buffer
	if message != "" {
		if err := goldmark.Convert([]byte(message), &note); err != nil {
			return "", fmt.Errorf("failed to render coach note: %w", err)
		}
	}

	return fmt.Sprintf(`<p>Hi,</p>
<p>Please find attached %s's tennis report for %s, written by %s.</p>
%s
<p>If you have any questions about the report, just reply to this email.</p>
<p>Courtside Tennis</p>`,
		doc.StudentName, doc.PeriodName, doc.CoachName, note.String()), nil
}
