package sla

import "time"

// BusinessCalendar answers whether an instant falls inside staffed hours.
// It operates on the timestamp exactly as given; no timezone conversion is
// performed.
type BusinessCalendar struct {
	workStartHour int
	workEndHour   int
	workingDays   map[time.Weekday]struct{}
}

// NewBusinessCalendar builds a calendar for the [start, end) working window
// on the given weekdays.
func NewBusinessCalendar(startHour, endHour int, days []time.Weekday) BusinessCalendar {
	working := make(map[time.Weekday]struct{}, len(days))
	for _, day := range days {
		working[day] = struct{}{}
	}
	return BusinessCalendar{
		workStartHour: startHour,
		workEndHour:   endHour,
		workingDays:   working,
	}
}

// DefaultCalendar covers 09:00-18:00 Monday through Friday.
func DefaultCalendar() BusinessCalendar {
	return NewBusinessCalendar(9, 18, []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
	})
}

// IsWorkingInstant reports whether t lies within working hours: its weekday
// is a working day and its hour-of-day is in [workStart, workEnd).
func (c BusinessCalendar) IsWorkingInstant(t time.Time) bool {
	if _, ok := c.workingDays[t.Weekday()]; !ok {
		return false
	}
	hour := t.Hour()
	return hour >= c.workStartHour && hour < c.workEndHour
}
