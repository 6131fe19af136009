package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicfix/report-service/internal/domain"
	apperrors "github.com/civicfix/report-service/pkg/util"
)

// ReportFilter scopes report listings by reporter and/or status. Limit <= 0
// means no limit: the projections must see every matching row.
type ReportFilter struct {
	ReporterID *string
	Statuses   []domain.ReportStatus
	Limit      int
	Offset     int
}

// ReportRepository encapsulates report persistence. It is a dumb, consistent
// map: no lifecycle policy lives here. UpdateStatusCAS is the one atomic
// primitive the lifecycle authority builds on.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	List(ctx context.Context, filter ReportFilter) ([]domain.Report, error)
	// UpdateStatusCAS sets the status and updated_at only if the stored status
	// still equals expected. Returns pgx.ErrNoRows when no row matched, which
	// covers both a missing id and a lost race; callers disambiguate.
	UpdateStatusCAS(ctx context.Context, id string, expected, next domain.ReportStatus) (*domain.Report, error)
	// Delete removes a report only while it is still pending.
	Delete(ctx context.Context, id string) error
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository returns a Postgres-backed implementation.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

const reportColumns = `id, title, description, location, pincode, image_ref, reporter_id, status, created_at, updated_at`

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	const query = `
        INSERT INTO reports (title, description, location, pincode, image_ref, reporter_id, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		report.Title,
		report.Description,
		report.Location,
		report.Pincode,
		report.ImageRef,
		report.ReporterID,
		report.Status,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	query := fmt.Sprintf(`SELECT %s FROM reports WHERE id=$1`, reportColumns)
	var report domain.Report
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&report.ID,
		&report.Title,
		&report.Description,
		&report.Location,
		&report.Pincode,
		&report.ImageRef,
		&report.ReporterID,
		&report.Status,
		&report.CreatedAt,
		&report.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, filter ReportFilter) ([]domain.Report, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ReporterID != nil {
		args = append(args, *filter.ReporterID)
		clauses = append(clauses, fmt.Sprintf("reporter_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	query := fmt.Sprintf(`SELECT %s FROM reports WHERE %s ORDER BY updated_at DESC`,
		reportColumns, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func (r *reportRepository) UpdateStatusCAS(ctx context.Context, id string, expected, next domain.ReportStatus) (*domain.Report, error) {
	query := fmt.Sprintf(`
        UPDATE reports SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status=$3
        RETURNING %s`, reportColumns)
	var report domain.Report
	if err := r.pool.QueryRow(ctx, query, next, id, expected).Scan(
		&report.ID,
		&report.Title,
		&report.Description,
		&report.Location,
		&report.Pincode,
		&report.ImageRef,
		&report.ReporterID,
		&report.Status,
		&report.CreatedAt,
		&report.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM reports WHERE id=$1 AND status=$2`, id, domain.StatusPending)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}
	var status domain.ReportStatus
	if err := r.pool.QueryRow(ctx, `SELECT status FROM reports WHERE id=$1`, id).Scan(&status); err != nil {
		return err
	}
	return apperrors.NewConflict("report is no longer pending and cannot be deleted", map[string]any{
		"report_id": id,
		"status":    status,
	})
}

func scanReports(rows pgx.Rows) ([]domain.Report, error) {
	var result []domain.Report
	for rows.Next() {
		var report domain.Report
		if err := rows.Scan(
			&report.ID,
			&report.Title,
			&report.Description,
			&report.Location,
			&report.Pincode,
			&report.ImageRef,
			&report.ReporterID,
			&report.Status,
			&report.CreatedAt,
			&report.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, report)
	}
	return result, rows.Err()
}
