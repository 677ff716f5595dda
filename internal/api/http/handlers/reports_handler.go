package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// ReportsHandler exposes aggregate SLA and throughput figures.
type ReportsHandler struct {
	reports *service.ReportService
	metrics *observability.Metrics
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService, metrics *observability.Metrics) *ReportsHandler {
	return &ReportsHandler{reports: reports, metrics: metrics}
}

// Summary GET /reports/summary.
func (h *ReportsHandler) Summary(c *fiber.Ctx) error {
	from, to := parseWindowQuery(c)
	summary, err := h.reports.Summarize(c.Context(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// Compare GET /reports/compare?days=7.
func (h *ReportsHandler) Compare(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days <= 0 {
		return apperrors.NewValidationError("days must be positive", nil)
	}
	comparison, err := h.reports.Compare(c.Context(), time.Duration(days)*24*time.Hour)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": comparison})
}

// Distribution GET /reports/resolution-distribution.
func (h *ReportsHandler) Distribution(c *fiber.Ctx) error {
	from, to := parseWindowQuery(c)
	buckets, err := h.reports.ResolutionDistribution(c.Context(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": buckets})
}

// Overdue GET /reports/overdue.
func (h *ReportsHandler) Overdue(c *fiber.Ctx) error {
	overdue, err := h.reports.Overdue(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": overdue})
}

// Breaches GET /reports/sla-breaches returns the breach counters accumulated
// by the monitor since startup, keyed by priority.
func (h *ReportsHandler) Breaches(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.SLABreaches()})
}

func parseWindowQuery(c *fiber.Ctx) (*time.Time, *time.Time) {
	var from, to *time.Time
	if v, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		from = &v
	}
	if v, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		to = &v
	}
	return from, to
}
