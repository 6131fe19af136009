package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/civicfix/report-service/internal/domain"
	"github.com/civicfix/report-service/internal/events"
	"github.com/civicfix/report-service/internal/repository"
	apperrors "github.com/civicfix/report-service/pkg/util"
)

func newDirectoryService() (*DirectoryService, *repository.MemoryUserRepository) {
	repo := repository.NewMemoryUserRepository()
	return NewDirectoryService(repo, events.NewInMemoryDispatcher(), bcrypt.MinCost), repo
}

func registerCitizen(t *testing.T, svc *DirectoryService, email string) *domain.User {
	t.Helper()
	user, err := svc.RegisterCitizen(context.Background(), RegisterInput{
		Name:     "Asha",
		Email:    email,
		Password: "secret",
		Mobile:   "9999999999",
		Address:  "12 Gandhi St",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterCitizenDefaults(t *testing.T) {
	svc, _ := newDirectoryService()
	user := registerCitizen(t, svc, "asha@example.com")

	assert.Equal(t, domain.RoleCitizen, user.Role)
	assert.False(t, user.WorkerRequestPending)
	assert.NotEqual(t, "secret", user.PasswordHash)
}

func TestRegisterCitizenDuplicateEmail(t *testing.T) {
	svc, _ := newDirectoryService()
	registerCitizen(t, svc, "asha@example.com")

	_, err := svc.RegisterCitizen(context.Background(), RegisterInput{
		Name:     "Other",
		Email:    "ASHA@example.com",
		Password: "pw",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
}

func TestRegisterCitizenValidation(t *testing.T) {
	svc, _ := newDirectoryService()

	_, err := svc.RegisterCitizen(context.Background(), RegisterInput{Name: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestRequestWorkerRoleSelfOnly(t *testing.T) {
	svc, _ := newDirectoryService()
	user := registerCitizen(t, svc, "asha@example.com")
	actor := domain.Actor{ID: user.ID, Role: domain.RoleCitizen}

	updated, err := svc.RequestWorkerRole(context.Background(), actor, user.ID)
	require.NoError(t, err)
	assert.True(t, updated.WorkerRequestPending)

	other := registerCitizen(t, svc, "ravi@example.com")
	_, err = svc.RequestWorkerRole(context.Background(), actor, other.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestPromoteUserRequiresAdmin(t *testing.T) {
	svc, _ := newDirectoryService()
	target := registerCitizen(t, svc, "asha@example.com")

	for _, role := range []domain.Role{domain.RoleCitizen, domain.RoleWorker} {
		_, err := svc.PromoteUser(context.Background(), domain.Actor{ID: "x", Role: role}, target.ID, domain.RoleWorker)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	}

	stored, err := svc.users.GetByID(context.Background(), target.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCitizen, stored.Role, "denied promotion must not mutate the store")
}

func TestPromoteApprovalClearsWorkerRequest(t *testing.T) {
	svc, _ := newDirectoryService()
	user := registerCitizen(t, svc, "asha@example.com")
	ctx := context.Background()
	self := domain.Actor{ID: user.ID, Role: domain.RoleCitizen}

	_, err := svc.RequestWorkerRole(ctx, self, user.ID)
	require.NoError(t, err)

	adminActor := domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	promoted, err := svc.PromoteUser(ctx, adminActor, user.ID, domain.RoleWorker)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleWorker, promoted.Role)
	assert.False(t, promoted.WorkerRequestPending)
}

func TestPromoteNeverGrantsAdmin(t *testing.T) {
	svc, _ := newDirectoryService()
	user := registerCitizen(t, svc, "asha@example.com")
	adminActor := domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}

	_, err := svc.PromoteUser(context.Background(), adminActor, user.ID, domain.RoleAdmin)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestDemoteWorkerToCitizen(t *testing.T) {
	svc, _ := newDirectoryService()
	user := registerCitizen(t, svc, "asha@example.com")
	ctx := context.Background()
	adminActor := domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}

	_, err := svc.PromoteUser(ctx, adminActor, user.ID, domain.RoleWorker)
	require.NoError(t, err)

	demoted, err := svc.PromoteUser(ctx, adminActor, user.ID, domain.RoleCitizen)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCitizen, demoted.Role)
}
