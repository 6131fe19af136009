package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicfix/report-service/internal/domain"
)

func seedMemoryReports(t *testing.T, repo *MemoryReportRepository, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		report := &domain.Report{
			Title:       fmt.Sprintf("Report %d", i),
			Description: "d",
			Location:    "l",
			Pincode:     "600001",
			ReporterID:  "citizen-1",
			Status:      domain.StatusPending,
		}
		require.NoError(t, repo.Create(context.Background(), report))
	}
}

// A zero limit means every matching row: the projections rely on unbounded
// listings, and the Postgres implementation applies LIMIT/OFFSET only when
// asked for, so both backends must agree here.
func TestReportListUnlimitedByDefault(t *testing.T) {
	repo := NewMemoryReportRepository()
	seedMemoryReports(t, repo, 150)

	all, err := repo.List(context.Background(), ReportFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 150)
}

func TestReportListPaging(t *testing.T) {
	repo := NewMemoryReportRepository()
	seedMemoryReports(t, repo, 5)
	ctx := context.Background()

	page, err := repo.List(ctx, ReportFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := repo.List(ctx, ReportFilter{Limit: 10, Offset: 3})
	require.NoError(t, err)
	assert.Len(t, rest, 2)

	past, err := repo.List(ctx, ReportFilter{Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, past)
}
