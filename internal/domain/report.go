package domain

import "time"

// ReportStatus enumerates lifecycle states for civic issue reports.
type ReportStatus string

const (
	StatusPending    ReportStatus = "pending"
	StatusInProgress ReportStatus = "in-progress"
	StatusResolved   ReportStatus = "resolved"
	StatusRejected   ReportStatus = "rejected"
)

// Valid reports whether the status is one of the closed set.
func (s ReportStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transitions leave this status.
func (s ReportStatus) Terminal() bool {
	return s == StatusResolved || s == StatusRejected
}

// Report is the aggregate for a citizen-submitted civic issue.
// ReporterID is immutable after creation; Status is mutated only through
// the lifecycle authority.
type Report struct {
	ID          string
	Title       string
	Description string
	Location    string
	Pincode     string
	ImageRef    *string
	ReporterID  string
	Status      ReportStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
