package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/sla"
)

func newReportFixture(t *testing.T) (*ReportService, *fakeTicketRepo) {
	t.Helper()

	catalog, err := domain.NewStatusCatalog(workflowStatuses())
	if err != nil {
		t.Fatalf("NewStatusCatalog() error = %v", err)
	}

	tickets := newFakeTicketRepo()
	svc := NewReportService(ReportDependencies{
		TicketRepo: tickets,
		Catalog:    catalog,
		Calculator: sla.NewCalculator(nil, sla.DefaultCalendar(), nil),
		Now:        func() time.Time { return testNow },
	})
	return svc, tickets
}

func seedTicket(repo *fakeTicketRepo, ticket domain.Ticket) {
	ticket.ID = repo.nextID
	repo.nextID++
	copied := ticket
	repo.tickets[ticket.ID] = &copied
}

func TestSummarizeEmptyPopulation(t *testing.T) {
	svc, _ := newReportFixture(t)

	summary, err := svc.Summarize(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if summary.TotalTickets != 0 {
		t.Errorf("TotalTickets = %d, want 0", summary.TotalTickets)
	}
	if summary.ComplianceRate != 0 {
		t.Errorf("ComplianceRate on empty population = %v, want 0", summary.ComplianceRate)
	}
	if summary.AvgResolutionHours != 0 {
		t.Errorf("AvgResolutionHours on empty population = %v, want 0", summary.AvgResolutionHours)
	}
}

func TestSummarizeCounts(t *testing.T) {
	svc, repo := newReportFixture(t)

	hours2 := 2.0
	hours3 := 3.0
	resolvedAt := testNow.Add(-time.Hour)

	// resolved within limit: terminal, counts as compliant
	seedTicket(repo, domain.Ticket{
		Priority:    domain.PriorityMedium,
		StatusID:    3,
		CreatedAt:   testNow.Add(-4 * time.Hour),
		ResolvedAt:  &resolvedAt,
		ActualHours: &hours2,
	})
	// open, critical, created 3h ago: over limit but still in flight
	seedTicket(repo, domain.Ticket{
		Priority:  domain.PriorityCritical,
		StatusID:  2,
		CreatedAt: testNow.Add(-3 * time.Hour),
	})
	// closed low, resolved before work hours: compliant
	closedAt := testNow.Add(-time.Minute)
	seedTicket(repo, domain.Ticket{
		Priority:    domain.PriorityLow,
		StatusID:    4,
		CreatedAt:   testNow.Add(-2 * time.Hour),
		ResolvedAt:  &resolvedAt,
		ClosedAt:    &closedAt,
		ActualHours: &hours2,
	})
	// closed critical, 3h wall-clock against a 2h limit: breached
	breachedResolvedAt := testNow.Add(-2 * time.Hour)
	seedTicket(repo, domain.Ticket{
		Priority:    domain.PriorityCritical,
		StatusID:    4,
		CreatedAt:   testNow.Add(-5 * time.Hour),
		ResolvedAt:  &breachedResolvedAt,
		ClosedAt:    &closedAt,
		ActualHours: &hours3,
	})

	summary, err := svc.Summarize(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if summary.TotalTickets != 4 {
		t.Errorf("TotalTickets = %d, want 4", summary.TotalTickets)
	}
	if summary.FinishedTickets != 3 {
		t.Errorf("FinishedTickets = %d, want 3 (resolved and closed are both terminal)", summary.FinishedTickets)
	}
	if summary.OpenTickets != 1 {
		t.Errorf("OpenTickets = %d, want 1", summary.OpenTickets)
	}
	if summary.BreachedTickets != 1 {
		t.Errorf("BreachedTickets = %d, want 1", summary.BreachedTickets)
	}
	if summary.CompliantTickets != 2 {
		t.Errorf("CompliantTickets = %d, want 2", summary.CompliantTickets)
	}
	if summary.ComplianceRate != 66.67 {
		t.Errorf("ComplianceRate = %v, want 66.67", summary.ComplianceRate)
	}
	if summary.AvgResolutionHours != 2.33 {
		t.Errorf("AvgResolutionHours = %v, want 2.33", summary.AvgResolutionHours)
	}
	if summary.ByPriority[domain.PriorityCritical] != 2 {
		t.Errorf("ByPriority[critical] = %d, want 2", summary.ByPriority[domain.PriorityCritical])
	}
}

func TestSummarizeBreachedResolvedTicket(t *testing.T) {
	svc, repo := newReportFixture(t)

	// critical resolved after six wall-clock hours against a 2h limit
	hours6 := 6.0
	resolvedAt := testNow
	seedTicket(repo, domain.Ticket{
		Priority:    domain.PriorityCritical,
		StatusID:    3,
		CreatedAt:   testNow.Add(-6 * time.Hour),
		ResolvedAt:  &resolvedAt,
		ActualHours: &hours6,
	})

	summary, err := svc.Summarize(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if summary.FinishedTickets != 1 {
		t.Errorf("FinishedTickets = %d, want 1 (resolved is terminal)", summary.FinishedTickets)
	}
	if summary.OpenTickets != 0 {
		t.Errorf("OpenTickets = %d, want 0", summary.OpenTickets)
	}
	if summary.BreachedTickets != 1 {
		t.Errorf("BreachedTickets = %d, want 1", summary.BreachedTickets)
	}
	if summary.ComplianceRate != 0 {
		t.Errorf("ComplianceRate = %v, want 0", summary.ComplianceRate)
	}
}

func TestCompareZeroBaseline(t *testing.T) {
	svc, repo := newReportFixture(t)

	// all activity in the current window; previous window empty
	seedTicket(repo, domain.Ticket{
		Priority:  domain.PriorityMedium,
		StatusID:  1,
		CreatedAt: testNow.Add(-time.Hour),
	})

	comparison, err := svc.Compare(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if comparison.Current.Created != 1 {
		t.Errorf("Current.Created = %d, want 1", comparison.Current.Created)
	}
	if comparison.Previous.Created != 0 {
		t.Errorf("Previous.Created = %d, want 0", comparison.Previous.Created)
	}
	if comparison.CreatedChangePct != 0 {
		t.Errorf("CreatedChangePct with empty baseline = %v, want 0", comparison.CreatedChangePct)
	}
}

func TestCompareRejectsNonPositiveWindow(t *testing.T) {
	svc, _ := newReportFixture(t)

	_, err := svc.Compare(context.Background(), 0)
	if code := domainCode(t, err); code != "VALIDATION_FAILED" {
		t.Errorf("error code = %q, want VALIDATION_FAILED", code)
	}
}

func TestComparePercentChange(t *testing.T) {
	svc, repo := newReportFixture(t)

	// previous window: one ticket; current window: two tickets
	seedTicket(repo, domain.Ticket{Priority: domain.PriorityLow, StatusID: 1, CreatedAt: testNow.Add(-30 * time.Hour)})
	seedTicket(repo, domain.Ticket{Priority: domain.PriorityLow, StatusID: 1, CreatedAt: testNow.Add(-2 * time.Hour)})
	seedTicket(repo, domain.Ticket{Priority: domain.PriorityLow, StatusID: 1, CreatedAt: testNow.Add(-3 * time.Hour)})

	comparison, err := svc.Compare(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if comparison.CreatedChangePct != 100 {
		t.Errorf("CreatedChangePct = %v, want 100 (1 -> 2)", comparison.CreatedChangePct)
	}
}

func TestResolutionDistribution(t *testing.T) {
	svc, repo := newReportFixture(t)

	resolvedAt := testNow
	for _, hours := range []float64{0.5, 2, 6, 12, 48, 100} {
		h := hours
		seedTicket(repo, domain.Ticket{
			Priority:    domain.PriorityMedium,
			StatusID:    3,
			CreatedAt:   testNow.Add(-200 * time.Hour),
			ResolvedAt:  &resolvedAt,
			ActualHours: &h,
		})
	}
	// unresolved tickets do not count
	seedTicket(repo, domain.Ticket{Priority: domain.PriorityMedium, StatusID: 2, CreatedAt: testNow})

	buckets, err := svc.ResolutionDistribution(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("ResolutionDistribution() error = %v", err)
	}
	if len(buckets) != 6 {
		t.Fatalf("len(buckets) = %d, want 6", len(buckets))
	}
	for i, bucket := range buckets {
		if bucket.Count != 1 {
			t.Errorf("bucket %q count = %d, want 1", buckets[i].Label, bucket.Count)
		}
	}
}

func TestOverdueSortedByOverrun(t *testing.T) {
	svc, repo := newReportFixture(t)

	// critical, 2h limit: 3h elapsed -> 1h over; 6h elapsed -> 4h over
	seedTicket(repo, domain.Ticket{Priority: domain.PriorityCritical, StatusID: 2, CreatedAt: testNow.Add(-3 * time.Hour)})
	seedTicket(repo, domain.Ticket{Priority: domain.PriorityCritical, StatusID: 2, CreatedAt: testNow.Add(-6 * time.Hour)})
	// compliant open ticket stays out
	seedTicket(repo, domain.Ticket{Priority: domain.PriorityLow, StatusID: 1, CreatedAt: testNow.Add(-time.Hour)})
	// breached but terminal stays out
	seedTicket(repo, domain.Ticket{Priority: domain.PriorityCritical, StatusID: 4, CreatedAt: testNow.Add(-50 * time.Hour)})

	overdue, err := svc.Overdue(context.Background())
	if err != nil {
		t.Fatalf("Overdue() error = %v", err)
	}

	if len(overdue) != 2 {
		t.Fatalf("len(overdue) = %d, want 2", len(overdue))
	}
	if overdue[0].Report.OverrunHours < overdue[1].Report.OverrunHours {
		t.Errorf("overdue not sorted worst first: %v then %v",
			overdue[0].Report.OverrunHours, overdue[1].Report.OverrunHours)
	}
}
