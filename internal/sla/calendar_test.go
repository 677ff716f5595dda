package sla

import (
	"testing"
	"time"
)

func TestDefaultCalendarWorkingHours(t *testing.T) {
	cal := DefaultCalendar()

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"monday morning", time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC), true},
		{"monday before open", time.Date(2024, 1, 8, 8, 59, 0, 0, time.UTC), false},
		{"monday last working hour", time.Date(2024, 1, 8, 17, 30, 0, 0, time.UTC), true},
		{"monday at close", time.Date(2024, 1, 8, 18, 0, 0, 0, time.UTC), false},
		{"saturday midday", time.Date(2024, 1, 13, 12, 0, 0, 0, time.UTC), false},
		{"sunday midday", time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC), false},
		{"friday afternoon", time.Date(2024, 1, 12, 16, 0, 0, 0, time.UTC), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cal.IsWorkingInstant(tc.at); got != tc.want {
				t.Errorf("IsWorkingInstant(%v) = %v, want %v", tc.at, got, tc.want)
			}
		})
	}
}

func TestCustomCalendar(t *testing.T) {
	cal := NewBusinessCalendar(8, 20, []time.Weekday{time.Saturday, time.Sunday})

	saturday := time.Date(2024, 1, 13, 10, 0, 0, 0, time.UTC)
	if !cal.IsWorkingInstant(saturday) {
		t.Errorf("IsWorkingInstant(saturday 10:00) = false, want true")
	}
	monday := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)
	if cal.IsWorkingInstant(monday) {
		t.Errorf("IsWorkingInstant(monday 10:00) = true, want false")
	}
}
