package dto

import (
	"time"

	"github.com/civicfix/report-service/internal/domain"
)

// CreateReportRequest payload.
type CreateReportRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Pincode     string  `json:"pincode"`
	ImageRef    *string `json:"image_ref,omitempty"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.ReportStatus `json:"status"`
}

// ReportResponse is the wire form of a report. Progress carries the display
// percentage derived from the status.
type ReportResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Location    string              `json:"location"`
	Pincode     string              `json:"pincode"`
	ImageRef    *string             `json:"image_ref,omitempty"`
	ReporterID  string              `json:"reporter_id"`
	Status      domain.ReportStatus `json:"status"`
	Progress    int                 `json:"progress"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}
