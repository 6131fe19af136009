package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/civicfix/report-service/internal/domain"
	"github.com/civicfix/report-service/internal/events"
	"github.com/civicfix/report-service/internal/repository"
	apperrors "github.com/civicfix/report-service/pkg/util"
)

// ContactService stores contact-form submissions and lists them for admins.
type ContactService struct {
	messages   repository.ContactMessageRepository
	dispatcher events.Dispatcher
}

// ContactInput describes a contact-form submission.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// NewContactService constructs the service.
func NewContactService(messages repository.ContactMessageRepository, dispatcher events.Dispatcher) *ContactService {
	return &ContactService{messages: messages, dispatcher: dispatcher}
}

// Submit records a message from the public contact form.
func (s *ContactService) Submit(ctx context.Context, input ContactInput) (*domain.ContactMessage, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	subject := strings.TrimSpace(input.Subject)
	body := strings.TrimSpace(input.Message)
	if name == "" || email == "" || subject == "" || body == "" {
		return nil, apperrors.NewValidationError("name, email, subject and message are required", nil)
	}

	msg := &domain.ContactMessage{
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: body,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventContactReceived,
			Timestamp: time.Now(),
			Payload: events.ContactReceivedPayload{
				MessageID: msg.ID,
				Subject:   msg.Subject,
				Email:     msg.Email,
			},
		})
	}
	return msg, nil
}

// List returns all messages, newest first.
func (s *ContactService) List(ctx context.Context) ([]domain.ContactMessage, error) {
	return s.messages.List(ctx)
}
