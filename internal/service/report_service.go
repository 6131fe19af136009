package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/civicfix/report-service/internal/domain"
	"github.com/civicfix/report-service/internal/events"
	"github.com/civicfix/report-service/internal/lifecycle"
	"github.com/civicfix/report-service/internal/repository"
	apperrors "github.com/civicfix/report-service/pkg/util"
)

// ReportService coordinates report workflows: submission and deletion by
// citizens, status transitions by workers and admins. All status changes are
// delegated to the lifecycle authority.
type ReportService struct {
	reports    repository.ReportRepository
	authority  *lifecycle.Authority
	dispatcher events.Dispatcher
}

// ReportDependencies bundles collaborators for the report service.
type ReportDependencies struct {
	ReportRepo repository.ReportRepository
	Authority  *lifecycle.Authority
	Dispatcher events.Dispatcher
}

// ReportCreateInput describes report submission payload.
type ReportCreateInput struct {
	Title       string
	Description string
	Location    string
	Pincode     string
	ImageRef    *string
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	return &ReportService{
		reports:    deps.ReportRepo,
		authority:  deps.Authority,
		dispatcher: deps.Dispatcher,
	}
}

// Submit creates a report for the acting citizen. Reports always enter the
// lifecycle at pending; the reporter id is fixed to the actor.
func (s *ReportService) Submit(ctx context.Context, actor domain.Actor, input ReportCreateInput) (*domain.Report, error) {
	if actor.Role != domain.RoleCitizen {
		return nil, apperrors.NewForbidden("only citizens submit reports")
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	location := strings.TrimSpace(input.Location)
	pincode := strings.TrimSpace(input.Pincode)
	if title == "" || description == "" || location == "" || pincode == "" {
		return nil, apperrors.NewValidationError("title, description, location and pincode are required", nil)
	}

	report := &domain.Report{
		Title:       title,
		Description: description,
		Location:    location,
		Pincode:     pincode,
		ImageRef:    input.ImageRef,
		ReporterID:  actor.ID,
		Status:      domain.StatusPending,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:  events.EventReportCreated,
		Actor: actor,
		Payload: events.ReportCreatedPayload{
			ReportID: report.ID,
			Title:    report.Title,
			Location: report.Location,
			Pincode:  report.Pincode,
		},
	})
	return report, nil
}

// Get fetches a report. Citizens only see their own; workers and admins see
// any report.
func (s *ReportService) Get(ctx context.Context, actor domain.Actor, reportID string) (*domain.Report, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("report", map[string]any{"report_id": reportID})
		}
		return nil, err
	}
	if actor.Role == domain.RoleCitizen && report.ReporterID != actor.ID {
		return nil, apperrors.NewForbidden("report belongs to another user")
	}
	return report, nil
}

// Delete removes the actor's own report while it is still pending. The store
// enforces the pending precondition; ownership is checked here.
func (s *ReportService) Delete(ctx context.Context, actor domain.Actor, reportID string) error {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("report", map[string]any{"report_id": reportID})
		}
		return err
	}
	if report.ReporterID != actor.ID {
		return apperrors.NewForbidden("only the reporter may delete a report")
	}

	if err := s.reports.Delete(ctx, reportID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("report", map[string]any{"report_id": reportID})
		}
		return err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventReportDeleted,
		Actor:   actor,
		Payload: events.ReportDeletedPayload{ReportID: reportID},
	})
	return nil
}

// UpdateStatus requests a lifecycle transition on behalf of the actor and
// returns the authoritative updated report. The published event carries the
// status the swap actually moved from, as reported by the authority.
func (s *ReportService) UpdateStatus(ctx context.Context, actor domain.Actor, reportID string, target domain.ReportStatus) (*domain.Report, error) {
	updated, oldStatus, err := s.authority.RequestTransition(ctx, reportID, actor, target)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:  events.EventReportStatusChanged,
		Actor: actor,
		Payload: events.ReportStatusChangedPayload{
			ReportID:  updated.ID,
			OldStatus: oldStatus,
			NewStatus: updated.Status,
		},
	})
	return updated, nil
}

func (s *ReportService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
