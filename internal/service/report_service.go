package service

import (
	"context"
	"math"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/sla"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// ReportService aggregates ticket populations into SLA and throughput
// figures. All rates degrade to zero on empty denominators; a report over
// nothing is an empty report, not an error.
type ReportService struct {
	tickets    repository.TicketRepository
	catalog    *domain.StatusCatalog
	calculator *sla.Calculator
	now        func() time.Time
}

// ReportDependencies bundles collaborators for the report service.
type ReportDependencies struct {
	TicketRepo repository.TicketRepository
	Catalog    *domain.StatusCatalog
	Calculator *sla.Calculator
	Now        func() time.Time
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &ReportService{
		tickets:    deps.TicketRepo,
		catalog:    deps.Catalog,
		calculator: deps.Calculator,
		now:        now,
	}
}

// Summary is the rollup over a ticket population. Compliance is judged only
// for tickets that reached a terminal status; open tickets are still in
// flight and counted separately.
type Summary struct {
	TotalTickets       int                           `json:"total_tickets"`
	OpenTickets        int                           `json:"open_tickets"`
	FinishedTickets    int                           `json:"finished_tickets"`
	CompliantTickets   int                           `json:"compliant_tickets"`
	BreachedTickets    int                           `json:"breached_tickets"`
	ComplianceRate     float64                       `json:"compliance_rate"`
	AvgResolutionHours float64                       `json:"avg_resolution_hours"`
	ByPriority         map[domain.TicketPriority]int `json:"by_priority"`
}

// WindowStats describes activity inside one time window.
type WindowStats struct {
	From               time.Time `json:"from"`
	To                 time.Time `json:"to"`
	Created            int       `json:"created"`
	Resolved           int       `json:"resolved"`
	ComplianceRate     float64   `json:"compliance_rate"`
	AvgResolutionHours float64   `json:"avg_resolution_hours"`
}

// Comparison sets the current window against the preceding one of equal
// length. Percent changes read zero when the baseline window is empty.
type Comparison struct {
	Current            WindowStats `json:"current"`
	Previous           WindowStats `json:"previous"`
	CreatedChangePct   float64     `json:"created_change_pct"`
	ResolvedChangePct  float64     `json:"resolved_change_pct"`
	ComplianceChange   float64     `json:"compliance_change"`
	ResolutionTimeDiff float64     `json:"resolution_time_diff"`
}

// DistributionBucket counts resolutions falling into one duration band.
type DistributionBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summarize rolls up all tickets created inside the optional window.
func (s *ReportService) Summarize(ctx context.Context, from, to *time.Time) (*Summary, error) {
	tickets, err := s.fetch(ctx, from, to)
	if err != nil {
		return nil, err
	}

	now := s.now()
	summary := &Summary{ByPriority: make(map[domain.TicketPriority]int)}
	var resolutionTotal float64
	var resolutionCount int

	for i := range tickets {
		ticket := &tickets[i]
		summary.TotalTickets++
		summary.ByPriority[ticket.Priority]++

		if s.catalog.IsFinished(ticket) {
			summary.FinishedTickets++
			if s.calculator.CheckCompliance(ticket, now) {
				summary.CompliantTickets++
			} else {
				summary.BreachedTickets++
			}
		} else {
			summary.OpenTickets++
		}

		if hours := resolutionHours(ticket); hours != nil {
			resolutionTotal += *hours
			resolutionCount++
		}
	}

	summary.ComplianceRate = rate(summary.CompliantTickets, summary.CompliantTickets+summary.BreachedTickets)
	summary.AvgResolutionHours = average(resolutionTotal, resolutionCount)
	return summary, nil
}

// Window computes activity stats for one explicit window.
func (s *ReportService) Window(ctx context.Context, from, to time.Time) (*WindowStats, error) {
	tickets, err := s.fetch(ctx, &from, &to)
	if err != nil {
		return nil, err
	}
	stats := s.windowStats(tickets, from, to)
	return &stats, nil
}

// Compare sets the window ending now of the given length against the window
// immediately before it.
func (s *ReportService) Compare(ctx context.Context, length time.Duration) (*Comparison, error) {
	if length <= 0 {
		return nil, apperrors.NewValidationError("window length must be positive", nil)
	}

	now := s.now()
	currentFrom := now.Add(-length)
	previousFrom := currentFrom.Add(-length)

	currentTickets, err := s.fetch(ctx, &currentFrom, &now)
	if err != nil {
		return nil, err
	}
	previousTickets, err := s.fetch(ctx, &previousFrom, &currentFrom)
	if err != nil {
		return nil, err
	}

	current := s.windowStats(currentTickets, currentFrom, now)
	previous := s.windowStats(previousTickets, previousFrom, currentFrom)

	return &Comparison{
		Current:            current,
		Previous:           previous,
		CreatedChangePct:   changePct(current.Created, previous.Created),
		ResolvedChangePct:  changePct(current.Resolved, previous.Resolved),
		ComplianceChange:   round2(current.ComplianceRate - previous.ComplianceRate),
		ResolutionTimeDiff: round2(current.AvgResolutionHours - previous.AvgResolutionHours),
	}, nil
}

// ResolutionDistribution buckets resolved tickets by how long they took.
func (s *ReportService) ResolutionDistribution(ctx context.Context, from, to *time.Time) ([]DistributionBucket, error) {
	tickets, err := s.fetch(ctx, from, to)
	if err != nil {
		return nil, err
	}

	buckets := []DistributionBucket{
		{Label: "< 1h"},
		{Label: "1-4h"},
		{Label: "4-8h"},
		{Label: "8-24h"},
		{Label: "1-3d"},
		{Label: "> 3d"},
	}
	for i := range tickets {
		hours := resolutionHours(&tickets[i])
		if hours == nil {
			continue
		}
		switch h := *hours; {
		case h < 1:
			buckets[0].Count++
		case h < 4:
			buckets[1].Count++
		case h < 8:
			buckets[2].Count++
		case h < 24:
			buckets[3].Count++
		case h < 72:
			buckets[4].Count++
		default:
			buckets[5].Count++
		}
	}
	return buckets, nil
}

// Overdue returns open tickets that have blown their SLA, worst first.
func (s *ReportService) Overdue(ctx context.Context) ([]OverdueTicket, error) {
	tickets, err := s.fetch(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var result []OverdueTicket
	for i := range tickets {
		ticket := &tickets[i]
		if s.catalog.IsFinished(ticket) {
			continue
		}
		report := s.calculator.Compute(ticket, now)
		if report.IsCompliant {
			continue
		}
		result = append(result, OverdueTicket{Ticket: *ticket, Report: report})
	}

	for i := 1; i < len(result); i++ {
		for j := i; j > 0 && result[j].Report.OverrunHours > result[j-1].Report.OverrunHours; j-- {
			result[j], result[j-1] = result[j-1], result[j]
		}
	}
	return result, nil
}

// OverdueTicket pairs a ticket with its breach report.
type OverdueTicket struct {
	Ticket domain.Ticket `json:"ticket"`
	Report sla.Report    `json:"report"`
}

func (s *ReportService) fetch(ctx context.Context, from, to *time.Time) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{CreatedFrom: from, CreatedTo: to, Limit: 10000}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

func (s *ReportService) windowStats(tickets []domain.Ticket, from, to time.Time) WindowStats {
	stats := WindowStats{From: from, To: to, Created: len(tickets)}
	var compliant, breached int
	var resolutionTotal float64
	var resolutionCount int

	now := s.now()
	for i := range tickets {
		ticket := &tickets[i]
		if ticket.ResolvedAt != nil {
			stats.Resolved++
		}
		if s.catalog.IsFinished(ticket) {
			if s.calculator.CheckCompliance(ticket, now) {
				compliant++
			} else {
				breached++
			}
		}
		if hours := resolutionHours(ticket); hours != nil {
			resolutionTotal += *hours
			resolutionCount++
		}
	}

	stats.ComplianceRate = rate(compliant, compliant+breached)
	stats.AvgResolutionHours = average(resolutionTotal, resolutionCount)
	return stats
}

// resolutionHours prefers the frozen actual_hours figure and falls back to
// the wall-clock span for rows written before that column was maintained.
func resolutionHours(t *domain.Ticket) *float64 {
	if t.ActualHours != nil {
		return t.ActualHours
	}
	return t.ResolutionHours()
}

func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

func average(total float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return round2(total / float64(count))
}

func changePct(current, previous int) float64 {
	if previous == 0 {
		return 0
	}
	return round2(float64(current-previous) / float64(previous) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
