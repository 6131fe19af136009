package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/civicfix/report-service/internal/auth"
	"github.com/civicfix/report-service/internal/domain"
	"github.com/civicfix/report-service/internal/events"
	"github.com/civicfix/report-service/internal/repository"
	apperrors "github.com/civicfix/report-service/pkg/util"
)

// DirectoryService owns user role state: registration, worker-role requests
// and admin-driven promotion. No path through here yields an admin role;
// admins are seeded out of band.
type DirectoryService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// RegisterInput describes citizen registration payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Mobile   string
	Address  string
}

// NewDirectoryService constructs the service.
func NewDirectoryService(users repository.UserRepository, dispatcher events.Dispatcher, bcryptCost int) *DirectoryService {
	return &DirectoryService{users: users, dispatcher: dispatcher, bcryptCost: bcryptCost}
}

// RegisterCitizen creates a new account. The role is always citizen.
func (s *DirectoryService) RegisterCitizen(ctx context.Context, input RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email and password are required", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Mobile:       strings.TrimSpace(input.Mobile),
		Address:      strings.TrimSpace(input.Address),
		Role:         domain.RoleCitizen,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RequestWorkerRole flags the acting citizen as wanting the worker role.
// Only the user themself may set the flag.
func (s *DirectoryService) RequestWorkerRole(ctx context.Context, actor domain.Actor, userID string) (*domain.User, error) {
	if actor.ID != userID {
		return nil, apperrors.NewForbidden("worker role can only be requested for oneself")
	}
	if actor.Role != domain.RoleCitizen {
		return nil, apperrors.NewConflict("only citizens request the worker role", map[string]any{"role": actor.Role})
	}

	user, err := s.users.SetWorkerRequest(ctx, userID, true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventWorkerRequested,
		Actor:   actor,
		Payload: events.WorkerRequestedPayload{UserID: userID},
	})
	return user, nil
}

// PromoteUser changes the target user's role. The caller must resolve to
// admin; the new role is citizen or worker, never admin. Moving to worker
// clears a pending worker request, as does demotion back to citizen.
func (s *DirectoryService) PromoteUser(ctx context.Context, actor domain.Actor, targetUserID string, newRole domain.Role) (*domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("only admins change user roles")
	}
	if newRole != domain.RoleCitizen && newRole != domain.RoleWorker {
		return nil, apperrors.NewForbidden("admin role cannot be granted through this path")
	}

	target, err := s.users.GetByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": targetUserID})
		}
		return nil, err
	}
	if target.Role == domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin accounts cannot be reassigned")
	}

	oldRole := target.Role
	updated, err := s.users.UpdateRole(ctx, targetUserID, newRole, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": targetUserID})
		}
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:  events.EventUserRoleChanged,
		Actor: actor,
		Payload: events.UserRoleChangedPayload{
			UserID:  updated.ID,
			OldRole: oldRole,
			NewRole: updated.Role,
		},
	})
	return updated, nil
}

// ListUsers returns the full user directory for the admin screens.
func (s *DirectoryService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *DirectoryService) publish(ctx context.Context, event events.Event) {
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
