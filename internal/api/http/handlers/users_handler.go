package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/civicfix/report-service/internal/api/dto"
	"github.com/civicfix/report-service/internal/auth"
	"github.com/civicfix/report-service/internal/domain"
	"github.com/civicfix/report-service/internal/service"
	apperrors "github.com/civicfix/report-service/pkg/util"
)

// UsersHandler exposes registration, login and self-service endpoints.
type UsersHandler struct {
	auth      *service.AuthService
	directory *service.DirectoryService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, directory *service.DirectoryService) *UsersHandler {
	return &UsersHandler{auth: authService, directory: directory}
}

// Register handles POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.directory.RegisterCitizen(c.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Mobile:   req.Mobile,
		Address:  req.Address,
	})
	if err != nil {
		return err
	}

	token, exp, err := h.auth.IssueToken(user)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": userResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, exp, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": userResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /auth/logout.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.auth.Logout(c.Context(), principal.Token); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// RequestPasswordReset handles POST /auth/password/reset/request.
func (h *UsersHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email required", nil)
	}
	// The token would normally leave through an email channel; it is returned
	// here the way the upstream notification stubs log it.
	token, err := h.auth.RequestPasswordReset(c.Context(), req.Email)
	if err != nil {
		return err
	}
	resp := fiber.Map{"status": "accepted"}
	if token != "" {
		resp["reset_token"] = token
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"data": resp})
}

// ConfirmPasswordReset handles POST /auth/password/reset/confirm.
func (h *UsersHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirm
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.auth.ConfirmPasswordReset(c.Context(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// RequestWorkerRole handles PATCH /users/me/request-worker.
func (h *UsersHandler) RequestWorkerRole(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	user, err := h.directory.RequestWorkerRole(c.Context(), principal.Actor, principal.Actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:                   user.ID,
		Name:                 user.Name,
		Email:                user.Email,
		Mobile:               user.Mobile,
		Address:              user.Address,
		Role:                 user.Role,
		WorkerRequestPending: user.WorkerRequestPending,
		CreatedAt:            user.CreatedAt,
	}
}
