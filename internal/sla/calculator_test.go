package sla

import (
	"testing"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// monday 9:00, start of a working week.
var weekStart = time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	return NewCalculator(nil, DefaultCalendar(), nil)
}

func TestLimitHours(t *testing.T) {
	calc := newTestCalculator(t)

	cases := []struct {
		priority domain.TicketPriority
		want     int
	}{
		{domain.PriorityCritical, 2},
		{domain.PriorityHigh, 8},
		{domain.PriorityMedium, 24},
		{domain.PriorityLow, 72},
		{domain.TicketPriority("urgent"), 24},
	}
	for _, tc := range cases {
		if got := calc.LimitHours(tc.priority); got != tc.want {
			t.Errorf("LimitHours(%q) = %d, want %d", tc.priority, got, tc.want)
		}
	}
}

func TestElapsedBusinessHoursWallClockFor247(t *testing.T) {
	calc := newTestCalculator(t)

	start := weekStart
	end := start.Add(30 * time.Hour)
	if got := calc.ElapsedBusinessHours(start, end, true); got != 30 {
		t.Errorf("ElapsedBusinessHours(24/7) = %v, want 30", got)
	}
}

func TestElapsedBusinessHoursZeroWhenEndBeforeStart(t *testing.T) {
	calc := newTestCalculator(t)

	if got := calc.ElapsedBusinessHours(weekStart, weekStart.Add(-time.Hour), false); got != 0 {
		t.Errorf("ElapsedBusinessHours(end before start) = %v, want 0", got)
	}
	if got := calc.ElapsedBusinessHours(weekStart, weekStart, false); got != 0 {
		t.Errorf("ElapsedBusinessHours(end == start) = %v, want 0", got)
	}
}

func TestElapsedBusinessHoursFullDay(t *testing.T) {
	calc := newTestCalculator(t)

	end := time.Date(2024, 1, 8, 18, 0, 0, 0, time.UTC)
	if got := calc.ElapsedBusinessHours(weekStart, end, false); got != 9 {
		t.Errorf("ElapsedBusinessHours(full working day) = %v, want 9", got)
	}
}

func TestElapsedBusinessHoursBeforeOpening(t *testing.T) {
	calc := newTestCalculator(t)

	// created monday 08:00: the clock only starts at 09:00.
	start := time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC)
	if got := calc.ElapsedBusinessHours(start, start.Add(2*time.Hour), false); got != 1 {
		t.Errorf("ElapsedBusinessHours(08:00 to 10:00) = %v, want 1", got)
	}
	nextMorning := time.Date(2024, 1, 9, 9, 0, 0, 0, time.UTC)
	if got := calc.ElapsedBusinessHours(start, nextMorning, false); got != 9 {
		t.Errorf("ElapsedBusinessHours(monday 08:00 to tuesday 09:00) = %v, want 9", got)
	}
}

func TestElapsedBusinessHoursSkipsWeekend(t *testing.T) {
	calc := newTestCalculator(t)

	// friday 17:00 to monday 10:00: one hour friday, one hour monday.
	start := time.Date(2024, 1, 12, 17, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	if got := calc.ElapsedBusinessHours(start, end, false); got != 2 {
		t.Errorf("ElapsedBusinessHours(across weekend) = %v, want 2", got)
	}
}

func TestDueDate247(t *testing.T) {
	calc := newTestCalculator(t)

	due := calc.DueDate(weekStart, 2, true)
	want := weekStart.Add(2 * time.Hour)
	if !due.Equal(want) {
		t.Errorf("DueDate(24/7) = %v, want %v", due, want)
	}
}

func TestDueDateRoundTrip(t *testing.T) {
	calc := newTestCalculator(t)

	for _, hours := range []int{1, 8, 24, 72} {
		due := calc.DueDate(weekStart, hours, false)
		if got := calc.ElapsedBusinessHours(weekStart, due, false); got != float64(hours) {
			t.Errorf("ElapsedBusinessHours(start, DueDate(start, %d)) = %v, want %d", hours, got, hours)
		}
	}
}

func TestDueDateSkipsWeekend(t *testing.T) {
	calc := newTestCalculator(t)

	// friday 16:00 plus 8 business hours lands on monday.
	start := time.Date(2024, 1, 12, 16, 0, 0, 0, time.UTC)
	due := calc.DueDate(start, 8, false)
	if due.Weekday() != time.Monday {
		t.Errorf("DueDate(friday 16:00 + 8h).Weekday() = %v, want Monday", due.Weekday())
	}
}

func TestComputeBreachedCritical(t *testing.T) {
	calc := newTestCalculator(t)

	ticket := &domain.Ticket{
		ID:        1,
		Priority:  domain.PriorityCritical,
		CreatedAt: weekStart,
	}
	now := weekStart.Add(3 * time.Hour)
	report := calc.Compute(ticket, now)

	if report.IsCompliant {
		t.Errorf("Compute(critical, 3h elapsed).IsCompliant = true, want false")
	}
	if report.ElapsedHours != 3 {
		t.Errorf("ElapsedHours = %v, want 3", report.ElapsedHours)
	}
	if report.LimitHours != 2 {
		t.Errorf("LimitHours = %d, want 2", report.LimitHours)
	}
	if report.OverrunHours != 1 {
		t.Errorf("OverrunHours = %v, want 1", report.OverrunHours)
	}
	if report.Color != colorBreached {
		t.Errorf("Color = %q, want %q", report.Color, colorBreached)
	}
	if report.Percentage != 100 {
		t.Errorf("Percentage = %v, want 100 (capped)", report.Percentage)
	}
}

func TestComputeExactlyAtLimitIsCompliant(t *testing.T) {
	calc := newTestCalculator(t)

	ticket := &domain.Ticket{
		ID:        2,
		Priority:  domain.PriorityCritical,
		CreatedAt: weekStart,
	}
	now := weekStart.Add(2 * time.Hour)
	report := calc.Compute(ticket, now)

	if !report.IsCompliant {
		t.Errorf("Compute(elapsed == limit).IsCompliant = false, want true")
	}
	if report.Percentage != 100 {
		t.Errorf("Percentage = %v, want 100", report.Percentage)
	}
	if report.Color != colorOrange {
		t.Errorf("Color = %q, want %q", report.Color, colorOrange)
	}
}

func TestComputeColorBands(t *testing.T) {
	calc := newTestCalculator(t)

	cases := []struct {
		name     string
		priority domain.TicketPriority
		elapsed  time.Duration
		want     string
	}{
		{"critical fresh", domain.PriorityCritical, 30 * time.Minute, colorGreen},
		{"critical half", domain.PriorityCritical, 1 * time.Hour, colorAmber},
		{"critical near", domain.PriorityCritical, 100 * time.Minute, colorOrange},
		{"high fresh", domain.PriorityHigh, 2 * time.Hour, colorGreen},
		{"high over half", domain.PriorityHigh, 5 * time.Hour, colorAmber},
		{"high near limit", domain.PriorityHigh, 7 * time.Hour, colorOrange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ticket := &domain.Ticket{Priority: tc.priority, CreatedAt: weekStart}
			report := calc.Compute(ticket, weekStart.Add(tc.elapsed))
			if report.Color != tc.want {
				t.Errorf("Color = %q, want %q (elapsed %v)", report.Color, tc.want, tc.elapsed)
			}
		})
	}
}

func TestComputeUsesResolvedAtAsEnd(t *testing.T) {
	calc := newTestCalculator(t)

	resolvedAt := weekStart.Add(1 * time.Hour)
	ticket := &domain.Ticket{
		Priority:   domain.PriorityCritical,
		CreatedAt:  weekStart,
		ResolvedAt: &resolvedAt,
	}

	early := calc.Compute(ticket, weekStart.Add(2*time.Hour))
	late := calc.Compute(ticket, weekStart.Add(200*time.Hour))

	if early.ElapsedHours != late.ElapsedHours {
		t.Errorf("ElapsedHours moved after resolution: %v then %v", early.ElapsedHours, late.ElapsedHours)
	}
	if !late.IsCompliant {
		t.Errorf("resolved-in-time ticket reads non-compliant at a later now")
	}
}

func TestCheckComplianceFrozenAfterResolution(t *testing.T) {
	calc := newTestCalculator(t)

	resolvedAt := weekStart.Add(90 * time.Minute)
	ticket := &domain.Ticket{
		Priority:   domain.PriorityCritical,
		CreatedAt:  weekStart,
		ResolvedAt: &resolvedAt,
	}

	for _, now := range []time.Time{resolvedAt, resolvedAt.Add(24 * time.Hour), resolvedAt.Add(30 * 24 * time.Hour)} {
		if !calc.CheckCompliance(ticket, now) {
			t.Errorf("CheckCompliance(resolved within limit, now=%v) = false, want true", now)
		}
	}
}

func TestComputeFallbackOnMissingCreatedAt(t *testing.T) {
	calc := newTestCalculator(t)

	report := calc.Compute(&domain.Ticket{Priority: domain.PriorityHigh}, weekStart)

	if !report.IsCompliant {
		t.Errorf("fallback report.IsCompliant = false, want true")
	}
	if report.LimitHours != DefaultLimitHours {
		t.Errorf("fallback LimitHours = %d, want %d", report.LimitHours, DefaultLimitHours)
	}
	if report.DueDate != nil {
		t.Errorf("fallback DueDate = %v, want nil", report.DueDate)
	}
	if report.Color != colorFallback {
		t.Errorf("fallback Color = %q, want %q", report.Color, colorFallback)
	}
}

func TestComputeIdempotent(t *testing.T) {
	calc := newTestCalculator(t)

	ticket := &domain.Ticket{Priority: domain.PriorityMedium, CreatedAt: weekStart}
	now := weekStart.Add(5 * time.Hour)

	first := calc.Compute(ticket, now)
	second := calc.Compute(ticket, now)

	if first.ElapsedHours != second.ElapsedHours ||
		first.Percentage != second.Percentage ||
		first.IsCompliant != second.IsCompliant ||
		first.Color != second.Color {
		t.Errorf("Compute not idempotent: %+v vs %+v", first, second)
	}
	if first.DueDate == nil || second.DueDate == nil || !first.DueDate.Equal(*second.DueDate) {
		t.Errorf("Compute due dates differ: %v vs %v", first.DueDate, second.DueDate)
	}
}

func TestCustomLimitTable(t *testing.T) {
	limits := map[domain.TicketPriority]int{
		domain.PriorityCritical: 1,
		domain.PriorityHigh:     4,
		domain.PriorityMedium:   12,
		domain.PriorityLow:      48,
	}
	calc := NewCalculator(limits, DefaultCalendar(), nil)

	if got := calc.LimitHours(domain.PriorityMedium); got != 12 {
		t.Errorf("LimitHours(medium) = %d, want 12", got)
	}
}
