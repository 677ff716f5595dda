package domain

import "time"

// Category groups tickets and carries the SLA hours that override the
// priority-based default at creation time.
type Category struct {
	ID          int64
	Name        string
	Description string
	ParentID    *int64
	SLAHours    int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
