package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/civicfix/report-service/internal/domain"
	apperrors "github.com/civicfix/report-service/pkg/util"
)

// In-memory implementations of the repositories, used when no Postgres DSN is
// configured and throughout the test suites. They mirror the Postgres error
// semantics: pgx.ErrNoRows for missing rows and for a lost compare-and-swap.

// MemoryReportRepository is a mutex-guarded map of reports.
type MemoryReportRepository struct {
	mu      sync.Mutex
	reports map[string]domain.Report
}

// NewMemoryReportRepository constructs an empty store.
func NewMemoryReportRepository() *MemoryReportRepository {
	return &MemoryReportRepository{reports: make(map[string]domain.Report)}
}

func (r *MemoryReportRepository) Create(_ context.Context, report *domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	report.ID = uuid.NewString()
	report.CreatedAt = now
	report.UpdatedAt = now
	r.reports[report.ID] = *report
	return nil
}

func (r *MemoryReportRepository) GetByID(_ context.Context, id string) (*domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	report, ok := r.reports[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &report, nil
}

func (r *MemoryReportRepository) List(_ context.Context, filter ReportFilter) ([]domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.Report
	for _, report := range r.reports {
		if filter.ReporterID != nil && report.ReporterID != *filter.ReporterID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, report.Status) {
			continue
		}
		result = append(result, report)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return paginate(result, filter.Limit, filter.Offset), nil
}

func (r *MemoryReportRepository) UpdateStatusCAS(_ context.Context, id string, expected, next domain.ReportStatus) (*domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	report, ok := r.reports[id]
	if !ok || report.Status != expected {
		return nil, pgx.ErrNoRows
	}
	report.Status = next
	report.UpdatedAt = time.Now()
	r.reports[id] = report
	return &report, nil
}

func (r *MemoryReportRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	report, ok := r.reports[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if report.Status != domain.StatusPending {
		return apperrors.NewConflict("report is no longer pending and cannot be deleted", map[string]any{
			"report_id": id,
			"status":    report.Status,
		})
	}
	delete(r.reports, id)
	return nil
}

// MemoryUserRepository is a mutex-guarded map of users.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]domain.User
}

// NewMemoryUserRepository constructs an empty store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]domain.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *MemoryUserRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MemoryUserRepository) UpdateRole(_ context.Context, id string, role domain.Role, workerRequestPending bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user.Role = role
	user.WorkerRequestPending = workerRequestPending
	user.UpdatedAt = time.Now()
	r.users[id] = user
	return &user, nil
}

func (r *MemoryUserRepository) SetWorkerRequest(_ context.Context, id string, pending bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user.WorkerRequestPending = pending
	user.UpdatedAt = time.Now()
	r.users[id] = user
	return &user, nil
}

func (r *MemoryUserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now()
	r.users[id] = user
	return nil
}

// MemoryContactMessageRepository is a mutex-guarded slice of messages.
type MemoryContactMessageRepository struct {
	mu       sync.Mutex
	messages []domain.ContactMessage
}

// NewMemoryContactMessageRepository constructs an empty store.
func NewMemoryContactMessageRepository() *MemoryContactMessageRepository {
	return &MemoryContactMessageRepository{}
}

func (r *MemoryContactMessageRepository) Create(_ context.Context, msg *domain.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now()
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *MemoryContactMessageRepository) List(_ context.Context) ([]domain.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]domain.ContactMessage, len(r.messages))
	copy(result, r.messages)
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func containsStatus(statuses []domain.ReportStatus, status domain.ReportStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func paginate(reports []domain.Report, limit, offset int) []domain.Report {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(reports) {
		return nil
	}
	reports = reports[offset:]
	if limit > 0 && limit < len(reports) {
		reports = reports[:limit]
	}
	return reports
}
