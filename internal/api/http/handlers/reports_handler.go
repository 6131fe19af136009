package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/civicfix/report-service/internal/api/dto"
	"github.com/civicfix/report-service/internal/auth"
	"github.com/civicfix/report-service/internal/domain"
	"github.com/civicfix/report-service/internal/lifecycle"
	"github.com/civicfix/report-service/internal/projection"
	"github.com/civicfix/report-service/internal/service"
	apperrors "github.com/civicfix/report-service/pkg/util"
)

// ReportsHandler manages report submission, retrieval, deletion and status
// transitions.
type ReportsHandler struct {
	reports   *service.ReportService
	projector *projection.Projector
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService, projector *projection.Projector) *ReportsHandler {
	return &ReportsHandler{reports: reports, projector: projector}
}

// Create POST /reports.
func (h *ReportsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	report, err := h.reports.Submit(c.Context(), principal.Actor, service.ReportCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Pincode:     req.Pincode,
		ImageRef:    req.ImageRef,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": reportResponse(report)})
}

// Mine GET /reports/mine.
func (h *ReportsHandler) Mine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	reports, err := h.projector.MyReports(c.Context(), principal.Actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportResponses(reports)})
}

// Get GET /reports/:id.
func (h *ReportsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	report, err := h.reports.Get(c.Context(), principal.Actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportResponse(report)})
}

// Delete DELETE /reports/:id.
func (h *ReportsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.reports.Delete(c.Context(), principal.Actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// UpdateStatus PATCH /reports/:id/status.
func (h *ReportsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	report, err := h.reports.UpdateStatus(c.Context(), principal.Actor, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportResponse(report)})
}

// WorkerQueue GET /worker/queue.
func (h *ReportsHandler) WorkerQueue(c *fiber.Ctx) error {
	bucket := projection.QueueBucket(c.Query("bucket", string(projection.BucketPending)))
	reports, err := h.projector.WorkerQueue(c.Context(), bucket)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportResponses(reports)})
}

// AdminAll GET /admin/reports.
func (h *ReportsHandler) AdminAll(c *fiber.Ctx) error {
	filter := projection.AdminFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.ReportStatus(statusStr)
		if !status.Valid() {
			return apperrors.NewValidationError("unknown status filter", map[string]any{"status": statusStr})
		}
		filter.Status = &status
	}
	if reporter := c.Query("reporter_id"); reporter != "" {
		filter.ReporterID = &reporter
	}

	reports, err := h.projector.AdminAll(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportResponses(reports)})
}

// Archive GET /admin/archive.
func (h *ReportsHandler) Archive(c *fiber.Ctx) error {
	reports, err := h.projector.Archive(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportResponses(reports)})
}

func reportResponse(report *domain.Report) dto.ReportResponse {
	return dto.ReportResponse{
		ID:          report.ID,
		Title:       report.Title,
		Description: report.Description,
		Location:    report.Location,
		Pincode:     report.Pincode,
		ImageRef:    report.ImageRef,
		ReporterID:  report.ReporterID,
		Status:      report.Status,
		Progress:    lifecycle.Progress(report.Status),
		CreatedAt:   report.CreatedAt,
		UpdatedAt:   report.UpdatedAt,
	}
}

func reportResponses(reports []domain.Report) []dto.ReportResponse {
	items := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		items = append(items, reportResponse(&reports[i]))
	}
	return items
}
