package projection

import (
	"context"

	"github.com/civicfix/report-service/internal/domain"
	"github.com/civicfix/report-service/internal/repository"
	apperrors "github.com/civicfix/report-service/pkg/util"
)

// QueueBucket selects a partition of the worker queue.
type QueueBucket string

const (
	BucketPending    QueueBucket = "pending"
	BucketInProgress QueueBucket = "in-progress"
	BucketResolved   QueueBucket = "resolved"
)

// AdminFilter narrows the admin listing. Empty means everything.
type AdminFilter struct {
	Status     *domain.ReportStatus
	ReporterID *string
	Limit      int
	Offset     int
}

// Projector derives the role-scoped report views from the store's read
// surface. Every view is recomputed on demand; nothing here mutates or
// caches.
type Projector struct {
	reports repository.ReportRepository
}

// NewProjector constructs the projector.
func NewProjector(reports repository.ReportRepository) *Projector {
	return &Projector{reports: reports}
}

// MyReports returns every report the user has filed, any status.
func (p *Projector) MyReports(ctx context.Context, userID string) ([]domain.Report, error) {
	return p.reports.List(ctx, repository.ReportFilter{ReporterID: &userID})
}

// WorkerQueue returns one partition of the shared worker queue. There is no
// per-worker ownership: every worker sees all in-progress jobs.
func (p *Projector) WorkerQueue(ctx context.Context, bucket QueueBucket) ([]domain.Report, error) {
	var status domain.ReportStatus
	switch bucket {
	case BucketPending:
		status = domain.StatusPending
	case BucketInProgress:
		status = domain.StatusInProgress
	case BucketResolved:
		status = domain.StatusResolved
	default:
		return nil, apperrors.NewValidationError("unknown queue bucket", map[string]any{"bucket": bucket})
	}
	return p.reports.List(ctx, repository.ReportFilter{Statuses: []domain.ReportStatus{status}})
}

// AdminAll returns every report, optionally narrowed by status or reporter.
func (p *Projector) AdminAll(ctx context.Context, filter AdminFilter) ([]domain.Report, error) {
	repoFilter := repository.ReportFilter{
		ReporterID: filter.ReporterID,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if filter.Status != nil {
		repoFilter.Statuses = []domain.ReportStatus{*filter.Status}
	}
	return p.reports.List(ctx, repoFilter)
}

// Archive returns the terminal-state subset: resolved and rejected reports.
// The lifecycle authority accepts no further transitions on any of them.
func (p *Projector) Archive(ctx context.Context) ([]domain.Report, error) {
	return p.reports.List(ctx, repository.ReportFilter{
		Statuses: []domain.ReportStatus{domain.StatusResolved, domain.StatusRejected},
	})
}
