package sla

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// DefaultLimitHours is the fallback SLA limit applied when a ticket carries
// an unrecognized priority. A ticket must never be left without an SLA
// figure.
const DefaultLimitHours = 24

// Report is the outcome of an SLA computation for one ticket.
type Report struct {
	IsCompliant    bool       `json:"is_compliant"`
	ElapsedHours   float64    `json:"elapsed_hours"`
	LimitHours     int        `json:"limit_hours"`
	Percentage     float64    `json:"percentage"`
	RemainingHours float64    `json:"remaining_hours"`
	OverrunHours   float64    `json:"overrun_hours"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Color          string     `json:"color"`
}

// Calculator converts ticket timestamps, priority and the business calendar
// into compliance figures. The limit table and calendar are fixed at
// construction; the calculator holds no other state and every method is a
// pure function of its arguments.
type Calculator struct {
	limits   map[domain.TicketPriority]int
	calendar BusinessCalendar
	logger   *zap.Logger
}

// DefaultLimits returns the stock priority table: critical 2h, high 8h,
// medium 24h, low 72h.
func DefaultLimits() map[domain.TicketPriority]int {
	return map[domain.TicketPriority]int{
		domain.PriorityCritical: 2,
		domain.PriorityHigh:     8,
		domain.PriorityMedium:   24,
		domain.PriorityLow:      72,
	}
}

// NewCalculator builds a calculator over the given limit table and calendar.
// A nil limits map falls back to DefaultLimits.
func NewCalculator(limits map[domain.TicketPriority]int, calendar BusinessCalendar, logger *zap.Logger) *Calculator {
	if limits == nil {
		limits = DefaultLimits()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{limits: limits, calendar: calendar, logger: logger}
}

// LimitHours looks up the SLA limit for a priority. Unknown priorities get
// the medium-tier default instead of an error.
func (c *Calculator) LimitHours(priority domain.TicketPriority) int {
	if hours, ok := c.limits[priority]; ok {
		return hours
	}
	return DefaultLimitHours
}

// ElapsedBusinessHours measures hours between start and end. With always247
// the raw wall-clock difference is returned. Otherwise the walk advances one
// hour at a time, counting each hour the calendar approves. Hour
// quantization is deliberate: SLA thresholds are whole hours and ticket
// timescales are coarse.
func (c *Calculator) ElapsedBusinessHours(start, end time.Time, always247 bool) float64 {
	if !end.After(start) {
		return 0
	}
	if always247 {
		return end.Sub(start).Hours()
	}
	var total float64
	for current := start; current.Before(end); current = current.Add(time.Hour) {
		if c.calendar.IsWorkingInstant(current) {
			total++
		}
	}
	return total
}

// DueDate computes the instant at which slaHours of (business) time have
// elapsed from start. It is the inverse of ElapsedBusinessHours and walks
// the same predicate so the two stay consistent.
func (c *Calculator) DueDate(start time.Time, slaHours int, always247 bool) time.Time {
	if always247 {
		return start.Add(time.Duration(slaHours) * time.Hour)
	}
	current := start
	remaining := slaHours
	for remaining > 0 {
		current = current.Add(time.Hour)
		if c.calendar.IsWorkingInstant(current) {
			remaining--
		}
	}
	return current
}

// Compute produces the full SLA report for a ticket as of now. A ticket
// without a creation timestamp degrades to a safe compliant fallback so a
// malformed row never crashes a report.
func (c *Calculator) Compute(ticket *domain.Ticket, now time.Time) Report {
	if ticket.CreatedAt.IsZero() {
		c.logger.Warn("sla computation fallback: ticket missing created_at",
			zap.Int64("ticket_id", ticket.ID))
		return Report{
			IsCompliant:    true,
			ElapsedHours:   0,
			LimitHours:     DefaultLimitHours,
			Percentage:     0,
			RemainingHours: DefaultLimitHours,
			OverrunHours:   0,
			Color:          colorFallback,
		}
	}

	limit := c.LimitHours(ticket.Priority)
	end := now
	if ticket.ResolvedAt != nil {
		end = *ticket.ResolvedAt
	}
	critical := ticket.IsCritical()

	elapsed := c.ElapsedBusinessHours(ticket.CreatedAt, end, critical)
	isCompliant := elapsed <= float64(limit)

	percentage := 0.0
	if limit > 0 {
		percentage = math.Min(100, elapsed/float64(limit)*100)
	}
	remaining := math.Max(0, float64(limit)-elapsed)
	overrun := 0.0
	if !isCompliant {
		overrun = elapsed - float64(limit)
	}
	due := c.DueDate(ticket.CreatedAt, limit, critical)

	return Report{
		IsCompliant:    isCompliant,
		ElapsedHours:   round2(elapsed),
		LimitHours:     limit,
		Percentage:     round2(percentage),
		RemainingHours: round2(remaining),
		OverrunHours:   round2(overrun),
		DueDate:        &due,
		Color:          statusColor(percentage, isCompliant, critical),
	}
}

// CheckCompliance reports whether the ticket meets its SLA. For a resolved
// ticket only the span up to resolved_at counts, so the verdict is frozen:
// it reads identically no matter how far "now" advances afterwards.
func (c *Calculator) CheckCompliance(ticket *domain.Ticket, now time.Time) bool {
	if ticket.ResolvedAt != nil {
		if ticket.CreatedAt.IsZero() {
			return true
		}
		elapsed := c.ElapsedBusinessHours(ticket.CreatedAt, *ticket.ResolvedAt, ticket.IsCritical())
		return elapsed <= float64(c.LimitHours(ticket.Priority))
	}
	return c.Compute(ticket, now).IsCompliant
}

const (
	colorBreached = "#e74c3c"
	colorGreen    = "#2ecc71"
	colorAmber    = "#f39c12"
	colorOrange   = "#e67e22"
	colorFallback = "#95a5a6"
)

// statusColor grades the report for display. Critical tickets use a stricter
// scale than the rest.
func statusColor(percentage float64, isCompliant, critical bool) string {
	if !isCompliant {
		return colorBreached
	}
	if critical {
		switch {
		case percentage < 30:
			return colorGreen
		case percentage < 60:
			return colorAmber
		default:
			return colorOrange
		}
	}
	switch {
	case percentage < 50:
		return colorGreen
	case percentage < 80:
		return colorAmber
	default:
		return colorOrange
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
