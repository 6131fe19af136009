package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/civicfix/report-service/internal/api/dto"
	"github.com/civicfix/report-service/internal/service"
	apperrors "github.com/civicfix/report-service/pkg/util"
)

// ContactHandler accepts public contact-form submissions.
type ContactHandler struct {
	contact *service.ContactService
}

// NewContactHandler constructs handler.
func NewContactHandler(contact *service.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

// Submit POST /contact.
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	msg, err := h.contact.Submit(c.Context(), service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"id": msg.ID}})
}
