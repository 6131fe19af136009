package events

import (
	"time"

	"github.com/civicfix/report-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReportCreated       EventType = "report_created"
	EventReportStatusChanged EventType = "report_status_changed"
	EventReportDeleted       EventType = "report_deleted"
	EventWorkerRequested     EventType = "worker_requested"
	EventUserRoleChanged     EventType = "user_role_changed"
	EventContactReceived     EventType = "contact_message_received"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string       `json:"id"`
	Type      EventType    `json:"type"`
	Actor     domain.Actor `json:"actor"`
	Timestamp time.Time    `json:"timestamp"`
	Payload   interface{}  `json:"payload"`
}

// ReportCreatedPayload payload.
type ReportCreatedPayload struct {
	ReportID string `json:"report_id"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Pincode  string `json:"pincode"`
}

// ReportStatusChangedPayload payload.
type ReportStatusChangedPayload struct {
	ReportID  string              `json:"report_id"`
	OldStatus domain.ReportStatus `json:"old_status"`
	NewStatus domain.ReportStatus `json:"new_status"`
}

// ReportDeletedPayload payload.
type ReportDeletedPayload struct {
	ReportID string `json:"report_id"`
}

// WorkerRequestedPayload payload.
type WorkerRequestedPayload struct {
	UserID string `json:"user_id"`
}

// UserRoleChangedPayload payload.
type UserRoleChangedPayload struct {
	UserID  string      `json:"user_id"`
	OldRole domain.Role `json:"old_role"`
	NewRole domain.Role `json:"new_role"`
}

// ContactReceivedPayload payload.
type ContactReceivedPayload struct {
	MessageID string `json:"message_id"`
	Subject   string `json:"subject"`
	Email     string `json:"email"`
}
