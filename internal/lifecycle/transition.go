package lifecycle

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/civicfix/report-service/internal/domain"
	"github.com/civicfix/report-service/internal/repository"
	apperrors "github.com/civicfix/report-service/pkg/util"
)

// edge is one legal move in the report state machine.
type edge struct {
	From domain.ReportStatus
	To   domain.ReportStatus
}

// transitionTable maps each legal edge to the roles allowed to invoke it.
// Citizens appear nowhere: they enter reports at pending and delete their own
// pending reports through a separate owner-checked path. resolved and
// rejected are terminal.
var transitionTable = map[edge][]domain.Role{
	{domain.StatusPending, domain.StatusInProgress}:  {domain.RoleWorker, domain.RoleAdmin},
	{domain.StatusPending, domain.StatusRejected}:    {domain.RoleAdmin},
	{domain.StatusInProgress, domain.StatusResolved}: {domain.RoleWorker, domain.RoleAdmin},
	{domain.StatusInProgress, domain.StatusRejected}: {domain.RoleWorker, domain.RoleAdmin},
	{domain.StatusInProgress, domain.StatusPending}:  {domain.RoleWorker, domain.RoleAdmin},
}

// Authority owns all report lifecycle policy. Every status change goes
// through RequestTransition; nothing else writes the status field.
type Authority struct {
	reports repository.ReportRepository
}

// NewAuthority constructs the transition authority.
func NewAuthority(reports repository.ReportRepository) *Authority {
	return &Authority{reports: reports}
}

// RequestTransition validates the requested edge against the current status
// and the actor's role, then commits it as a compare-and-swap on
// (reportID, currentStatus). On success it returns the updated report along
// with the status the swap actually moved from, so callers never have to
// re-read it. A request whose precondition no longer holds at commit time
// fails with ILLEGAL_TRANSITION and leaves the store untouched.
func (a *Authority) RequestTransition(ctx context.Context, reportID string, actor domain.Actor, target domain.ReportStatus) (*domain.Report, domain.ReportStatus, error) {
	report, err := a.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", apperrors.NewNotFound("report", map[string]any{"report_id": reportID})
		}
		return nil, "", err
	}

	if err := a.authorize(report.Status, target, actor.Role); err != nil {
		return nil, "", err
	}

	updated, err := a.reports.UpdateStatusCAS(ctx, reportID, report.Status, target)
	if err == nil {
		return updated, report.Status, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", err
	}

	// The swap matched no row: either the report vanished or a concurrent
	// transition moved it first. Re-read to tell the two apart.
	current, rerr := a.reports.GetByID(ctx, reportID)
	if rerr != nil {
		if errors.Is(rerr, pgx.ErrNoRows) {
			return nil, "", apperrors.NewNotFound("report", map[string]any{"report_id": reportID})
		}
		return nil, "", rerr
	}
	return nil, "", apperrors.NewIllegalTransition("report status changed concurrently", map[string]any{
		"report_id":      reportID,
		"current_status": current.Status,
		"target_status":  target,
	})
}

// authorize checks the edge table. The same target as the current status is
// an illegal transition, not a silent success.
func (a *Authority) authorize(current, target domain.ReportStatus, role domain.Role) error {
	if current == target {
		return apperrors.NewIllegalTransition("report already has the requested status", map[string]any{
			"current_status": current,
			"target_status":  target,
		})
	}
	roles, ok := transitionTable[edge{From: current, To: target}]
	if !ok {
		return apperrors.NewIllegalTransition("status not reachable from current status", map[string]any{
			"current_status": current,
			"target_status":  target,
		})
	}
	for _, allowed := range roles {
		if allowed == role {
			return nil
		}
	}
	return apperrors.NewForbidden("role not authorized for this status transition")
}

// AllowedTargets returns the statuses the given role may move a report to
// from the current status. Used to render action surfaces.
func AllowedTargets(current domain.ReportStatus, role domain.Role) []domain.ReportStatus {
	var targets []domain.ReportStatus
	for e, roles := range transitionTable {
		if e.From != current {
			continue
		}
		for _, allowed := range roles {
			if allowed == role {
				targets = append(targets, e.To)
				break
			}
		}
	}
	return targets
}
