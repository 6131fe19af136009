package lifecycle

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicfix/report-service/internal/domain"
	"github.com/civicfix/report-service/internal/repository"
	apperrors "github.com/civicfix/report-service/pkg/util"
)

func seedReport(t *testing.T, repo *repository.MemoryReportRepository, status domain.ReportStatus) *domain.Report {
	t.Helper()
	report := &domain.Report{
		Title:       "Broken Streetlight",
		Description: "Streetlight out on 5th Ave",
		Location:    "Near City Center",
		Pincode:     "600001",
		ReporterID:  "citizen-1",
		Status:      domain.StatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), report))
	if status != domain.StatusPending {
		updated, err := repo.UpdateStatusCAS(context.Background(), report.ID, domain.StatusPending, status)
		require.NoError(t, err)
		return updated
	}
	return report
}

func TestRequestTransitionLegalEdges(t *testing.T) {
	cases := []struct {
		name string
		from domain.ReportStatus
		to   domain.ReportStatus
		role domain.Role
	}{
		{"worker accepts pending", domain.StatusPending, domain.StatusInProgress, domain.RoleWorker},
		{"admin accepts pending", domain.StatusPending, domain.StatusInProgress, domain.RoleAdmin},
		{"admin rejects pending", domain.StatusPending, domain.StatusRejected, domain.RoleAdmin},
		{"worker resolves in-progress", domain.StatusInProgress, domain.StatusResolved, domain.RoleWorker},
		{"admin resolves in-progress", domain.StatusInProgress, domain.StatusResolved, domain.RoleAdmin},
		{"worker rejects in-progress", domain.StatusInProgress, domain.StatusRejected, domain.RoleWorker},
		{"worker releases in-progress", domain.StatusInProgress, domain.StatusPending, domain.RoleWorker},
		{"admin releases in-progress", domain.StatusInProgress, domain.StatusPending, domain.RoleAdmin},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := repository.NewMemoryReportRepository()
			authority := NewAuthority(repo)
			report := seedReport(t, repo, tc.from)

			updated, from, err := authority.RequestTransition(context.Background(), report.ID, domain.Actor{ID: "actor", Role: tc.role}, tc.to)
			require.NoError(t, err)
			assert.Equal(t, tc.to, updated.Status)
			assert.Equal(t, tc.from, from)
			assert.True(t, updated.UpdatedAt.After(report.CreatedAt) || updated.UpdatedAt.Equal(report.CreatedAt))

			stored, err := repo.GetByID(context.Background(), report.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.to, stored.Status)
		})
	}
}

func TestRequestTransitionForbidden(t *testing.T) {
	cases := []struct {
		name string
		from domain.ReportStatus
		to   domain.ReportStatus
		role domain.Role
	}{
		{"worker cannot reject pending", domain.StatusPending, domain.StatusRejected, domain.RoleWorker},
		{"citizen cannot accept pending", domain.StatusPending, domain.StatusInProgress, domain.RoleCitizen},
		{"citizen cannot resolve in-progress", domain.StatusInProgress, domain.StatusResolved, domain.RoleCitizen},
		{"citizen cannot release in-progress", domain.StatusInProgress, domain.StatusPending, domain.RoleCitizen},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := repository.NewMemoryReportRepository()
			authority := NewAuthority(repo)
			report := seedReport(t, repo, tc.from)

			_, _, err := authority.RequestTransition(context.Background(), report.ID, domain.Actor{ID: "actor", Role: tc.role}, tc.to)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

			stored, err := repo.GetByID(context.Background(), report.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.from, stored.Status, "denied request must not mutate the store")
		})
	}
}

func TestRequestTransitionIllegal(t *testing.T) {
	cases := []struct {
		name string
		from domain.ReportStatus
		to   domain.ReportStatus
	}{
		{"pending straight to resolved", domain.StatusPending, domain.StatusResolved},
		{"resolved is terminal", domain.StatusResolved, domain.StatusInProgress},
		{"resolved cannot be rejected", domain.StatusResolved, domain.StatusRejected},
		{"rejected is terminal", domain.StatusRejected, domain.StatusPending},
		{"rejected cannot be resolved", domain.StatusRejected, domain.StatusResolved},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := repository.NewMemoryReportRepository()
			authority := NewAuthority(repo)
			report := seedReport(t, repo, tc.from)

			// Admin holds the widest authority, so a denial proves the edge
			// itself is missing rather than the role.
			_, _, err := authority.RequestTransition(context.Background(), report.ID, domain.Actor{ID: "admin", Role: domain.RoleAdmin}, tc.to)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, "ILLEGAL_TRANSITION"))

			stored, err := repo.GetByID(context.Background(), report.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.from, stored.Status)
		})
	}
}

func TestRequestTransitionSameStatusIsIllegal(t *testing.T) {
	repo := repository.NewMemoryReportRepository()
	authority := NewAuthority(repo)
	report := seedReport(t, repo, domain.StatusInProgress)
	before, err := repo.GetByID(context.Background(), report.ID)
	require.NoError(t, err)

	_, _, err = authority.RequestTransition(context.Background(), report.ID, domain.Actor{ID: "w1", Role: domain.RoleWorker}, domain.StatusInProgress)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "ILLEGAL_TRANSITION"), "reapplying the current status is not a silent success")

	after, err := repo.GetByID(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
}

func TestRequestTransitionUnknownReport(t *testing.T) {
	authority := NewAuthority(repository.NewMemoryReportRepository())

	_, _, err := authority.RequestTransition(context.Background(), "missing", domain.Actor{ID: "w1", Role: domain.RoleWorker}, domain.StatusInProgress)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestRequestTransitionAcceptRace(t *testing.T) {
	repo := repository.NewMemoryReportRepository()
	authority := NewAuthority(repo)
	report := seedReport(t, repo, domain.StatusPending)

	workers := []domain.Actor{
		{ID: "w1", Role: domain.RoleWorker},
		{ID: "w2", Role: domain.RoleWorker},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(workers))
	for i, actor := range workers {
		wg.Add(1)
		go func(i int, actor domain.Actor) {
			defer wg.Done()
			_, _, errs[i] = authority.RequestTransition(context.Background(), report.ID, actor, domain.StatusInProgress)
		}(i, actor)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		require.True(t, apperrors.IsCode(err, "ILLEGAL_TRANSITION"), "race loser must see ILLEGAL_TRANSITION, got %v", err)
		lost++
	}
	assert.Equal(t, 1, won, "exactly one worker claims the job")
	assert.Equal(t, 1, lost)

	stored, err := repo.GetByID(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, stored.Status)
}

func TestAllowedTargets(t *testing.T) {
	assert.ElementsMatch(t,
		[]domain.ReportStatus{domain.StatusInProgress},
		AllowedTargets(domain.StatusPending, domain.RoleWorker))
	assert.ElementsMatch(t,
		[]domain.ReportStatus{domain.StatusInProgress, domain.StatusRejected},
		AllowedTargets(domain.StatusPending, domain.RoleAdmin))
	assert.ElementsMatch(t,
		[]domain.ReportStatus{domain.StatusResolved, domain.StatusRejected, domain.StatusPending},
		AllowedTargets(domain.StatusInProgress, domain.RoleWorker))
	assert.Empty(t, AllowedTargets(domain.StatusResolved, domain.RoleAdmin))
	assert.Empty(t, AllowedTargets(domain.StatusRejected, domain.RoleAdmin))
	assert.Empty(t, AllowedTargets(domain.StatusPending, domain.RoleCitizen))
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 25, Progress(domain.StatusPending))
	assert.Equal(t, 60, Progress(domain.StatusInProgress))
	assert.Equal(t, 100, Progress(domain.StatusResolved))
	assert.Equal(t, 0, Progress(domain.StatusRejected))
	assert.Equal(t, 25, Progress(domain.ReportStatus("unknown")))
}
