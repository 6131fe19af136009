package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicfix/report-service/internal/domain"
	"github.com/civicfix/report-service/internal/events"
	"github.com/civicfix/report-service/internal/lifecycle"
	"github.com/civicfix/report-service/internal/repository"
	apperrors "github.com/civicfix/report-service/pkg/util"
)

var (
	citizen = domain.Actor{ID: "citizen-1", Role: domain.RoleCitizen}
	worker1 = domain.Actor{ID: "worker-1", Role: domain.RoleWorker}
	worker2 = domain.Actor{ID: "worker-2", Role: domain.RoleWorker}
	admin   = domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
)

func newReportService() (*ReportService, *repository.MemoryReportRepository) {
	repo := repository.NewMemoryReportRepository()
	return NewReportService(ReportDependencies{
		ReportRepo: repo,
		Authority:  lifecycle.NewAuthority(repo),
		Dispatcher: events.NewInMemoryDispatcher(),
	}), repo
}

func submitReport(t *testing.T, svc *ReportService) *domain.Report {
	t.Helper()
	report, err := svc.Submit(context.Background(), citizen, ReportCreateInput{
		Title:       "Water Leakage",
		Description: "Pipe burst flooding the street",
		Location:    "Main Road, Ward 4",
		Pincode:     "560001",
	})
	require.NoError(t, err)
	return report
}

func TestSubmitEntersLifecycleAtPending(t *testing.T) {
	svc, _ := newReportService()
	report := submitReport(t, svc)

	assert.Equal(t, domain.StatusPending, report.Status)
	assert.Equal(t, citizen.ID, report.ReporterID)
	assert.NotEmpty(t, report.ID)
}

func TestSubmitValidatesRequiredFields(t *testing.T) {
	svc, _ := newReportService()

	_, err := svc.Submit(context.Background(), citizen, ReportCreateInput{
		Title:    "  ",
		Location: "somewhere",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestSubmitRejectsNonCitizens(t *testing.T) {
	svc, _ := newReportService()

	for _, actor := range []domain.Actor{worker1, admin} {
		_, err := svc.Submit(context.Background(), actor, ReportCreateInput{
			Title:       "t",
			Description: "d",
			Location:    "l",
			Pincode:     "p",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	}
}

func TestGetScopesCitizenToOwnReports(t *testing.T) {
	svc, _ := newReportService()
	report := submitReport(t, svc)
	ctx := context.Background()

	_, err := svc.Get(ctx, citizen, report.ID)
	require.NoError(t, err)

	_, err = svc.Get(ctx, domain.Actor{ID: "citizen-2", Role: domain.RoleCitizen}, report.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	_, err = svc.Get(ctx, worker1, report.ID)
	require.NoError(t, err, "workers see any report")

	_, err = svc.Get(ctx, citizen, "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestDeleteOwnPendingReport(t *testing.T) {
	svc, _ := newReportService()
	report := submitReport(t, svc)
	ctx := context.Background()

	err := svc.Delete(ctx, domain.Actor{ID: "citizen-2", Role: domain.RoleCitizen}, report.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	require.NoError(t, svc.Delete(ctx, citizen, report.ID))

	_, err = svc.Get(ctx, citizen, report.ID)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestDeleteNonPendingReportConflicts(t *testing.T) {
	svc, _ := newReportService()
	report := submitReport(t, svc)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, worker1, report.ID, domain.StatusInProgress)
	require.NoError(t, err)

	err = svc.Delete(ctx, citizen, report.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
}

// Full lifecycle scenario: submit, racing accepts, resolve, then the report
// is frozen for everyone.
func TestReportLifecycleScenario(t *testing.T) {
	svc, _ := newReportService()
	report := submitReport(t, svc)
	ctx := context.Background()

	var wg sync.WaitGroup
	accepts := make([]error, 2)
	for i, actor := range []domain.Actor{worker1, worker2} {
		wg.Add(1)
		go func(i int, actor domain.Actor) {
			defer wg.Done()
			_, accepts[i] = svc.UpdateStatus(ctx, actor, report.ID, domain.StatusInProgress)
		}(i, actor)
	}
	wg.Wait()

	var winners int
	for _, err := range accepts {
		if err == nil {
			winners++
		} else {
			assert.True(t, apperrors.IsCode(err, "ILLEGAL_TRANSITION"))
		}
	}
	require.Equal(t, 1, winners)

	resolved, err := svc.UpdateStatus(ctx, worker1, report.ID, domain.StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusResolved, resolved.Status)

	for _, target := range []domain.ReportStatus{domain.StatusPending, domain.StatusInProgress, domain.StatusRejected} {
		_, err := svc.UpdateStatus(ctx, admin, report.ID, target)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "ILLEGAL_TRANSITION"))
	}
}

// The status-changed event must carry the status the swap actually moved
// from, even when another transition raced the request.
func TestStatusChangeEventCarriesSwappedFromStatus(t *testing.T) {
	repo := repository.NewMemoryReportRepository()
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewReportService(ReportDependencies{
		ReportRepo: repo,
		Authority:  lifecycle.NewAuthority(repo),
		Dispatcher: dispatcher,
	})

	var mu sync.Mutex
	var changes []events.ReportStatusChangedPayload
	dispatcher.Subscribe(events.EventReportStatusChanged, func(_ context.Context, e events.Event) error {
		payload, ok := e.Payload.(events.ReportStatusChangedPayload)
		if !ok {
			return nil
		}
		mu.Lock()
		changes = append(changes, payload)
		mu.Unlock()
		return nil
	})

	report := submitReport(t, svc)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, actor := range []domain.Actor{worker1, worker2} {
		wg.Add(1)
		go func(actor domain.Actor) {
			defer wg.Done()
			_, _ = svc.UpdateStatus(ctx, actor, report.ID, domain.StatusInProgress)
		}(actor)
	}
	wg.Wait()

	_, err := svc.UpdateStatus(ctx, worker1, report.ID, domain.StatusResolved)
	require.NoError(t, err)

	require.Len(t, changes, 2, "only the race winner and the resolve publish events")
	assert.Equal(t, domain.StatusPending, changes[0].OldStatus)
	assert.Equal(t, domain.StatusInProgress, changes[0].NewStatus)
	assert.Equal(t, domain.StatusInProgress, changes[1].OldStatus)
	assert.Equal(t, domain.StatusResolved, changes[1].NewStatus)
}

func TestReleaseReturnsJobToQueue(t *testing.T) {
	svc, _ := newReportService()
	report := submitReport(t, svc)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, worker1, report.ID, domain.StatusInProgress)
	require.NoError(t, err)

	released, err := svc.UpdateStatus(ctx, worker1, report.ID, domain.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, released.Status)

	// Any worker may claim it again, including a different one.
	claimed, err := svc.UpdateStatus(ctx, worker2, report.ID, domain.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, claimed.Status)
}
