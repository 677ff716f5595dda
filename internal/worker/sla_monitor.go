package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/sla"
)

// SLAMonitor periodically sweeps open tickets and emits an sla_breached
// event the first time a ticket is seen over its limit. The seen-set lives
// in memory; after a restart a breach is reported once more, which the
// notification side tolerates.
type SLAMonitor struct {
	tickets    repository.TicketRepository
	catalog    *domain.StatusCatalog
	calculator *sla.Calculator
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	interval   time.Duration
	reported   map[int64]struct{}
}

// NewSLAMonitor constructs the monitor.
func NewSLAMonitor(
	tickets repository.TicketRepository,
	catalog *domain.StatusCatalog,
	calculator *sla.Calculator,
	dispatcher events.Dispatcher,
	metrics *observability.Metrics,
	logger *zap.Logger,
	interval time.Duration,
) *SLAMonitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &SLAMonitor{
		tickets:    tickets,
		catalog:    catalog,
		calculator: calculator,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
		interval:   interval,
		reported:   make(map[int64]struct{}),
	}
}

// Run blocks until ctx is cancelled, sweeping on each tick.
func (m *SLAMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Info("sla monitor started", zap.Duration("interval", m.interval))
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("sla monitor stopped")
			return
		case <-ticker.C:
			if err := m.Sweep(ctx); err != nil {
				m.logger.Error("sla sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep inspects all open tickets once.
func (m *SLAMonitor) Sweep(ctx context.Context) error {
	tickets, err := m.tickets.ListWithFilter(ctx, repository.TicketFilter{Limit: 10000})
	if err != nil {
		return err
	}

	now := time.Now()
	for i := range tickets {
		ticket := &tickets[i]
		if m.catalog.IsFinished(ticket) {
			delete(m.reported, ticket.ID)
			continue
		}
		report := m.calculator.Compute(ticket, now)
		if report.IsCompliant {
			continue
		}
		if _, seen := m.reported[ticket.ID]; seen {
			continue
		}
		m.reported[ticket.ID] = struct{}{}

		m.metrics.RecordSLABreach(string(ticket.Priority))
		m.logger.Warn("sla breached",
			zap.Int64("ticket_id", ticket.ID),
			zap.String("priority", string(ticket.Priority)),
			zap.Float64("overrun_hours", report.OverrunHours))

		if m.dispatcher != nil {
			_ = m.dispatcher.Publish(ctx, events.Event{
				ID:        uuid.NewString(),
				Type:      events.EventSLABreached,
				TicketID:  ticket.ID,
				Timestamp: now,
				Payload: events.SLABreachedPayload{
					Priority:     ticket.Priority,
					ElapsedHours: report.ElapsedHours,
					LimitHours:   report.LimitHours,
					OverrunHours: report.OverrunHours,
				},
			})
		}
	}
	return nil
}
