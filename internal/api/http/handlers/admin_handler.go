package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicfix/report-service/internal/api/dto"
	"github.com/civicfix/report-service/internal/auth"
	"github.com/civicfix/report-service/internal/service"
	apperrors "github.com/civicfix/report-service/pkg/util"
)

// AdminHandler exposes the user directory and role management.
type AdminHandler struct {
	directory *service.DirectoryService
	contact   *service.ContactService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(directory *service.DirectoryService, contact *service.ContactService) *AdminHandler {
	return &AdminHandler{directory: directory, contact: contact}
}

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.directory.ListUsers(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateUserRole PATCH /admin/users/:id/role.
func (h *AdminHandler) UpdateUserRole(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PromoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if !req.Role.Valid() {
		return apperrors.NewValidationError("unknown role", map[string]any{"role": req.Role})
	}

	user, err := h.directory.PromoteUser(c.Context(), principal.Actor, c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// ListMessages GET /admin/messages.
func (h *AdminHandler) ListMessages(c *fiber.Ctx) error {
	messages, err := h.contact.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.ContactMessageResponse, 0, len(messages))
	for _, msg := range messages {
		items = append(items, dto.ContactMessageResponse{
			ID:        msg.ID,
			Name:      msg.Name,
			Email:     msg.Email,
			Subject:   msg.Subject,
			Message:   msg.Message,
			CreatedAt: msg.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
