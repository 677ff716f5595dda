package domain

import (
	"fmt"
	"time"
)

// StatusCode identifies the canonical lifecycle statuses. The catalog is
// open-ended: deployments may configure additional statuses, but these five
// are resolved by code at startup and drive the state machine's special
// cases. Numeric ids are never hardcoded.
type StatusCode string

const (
	StatusCodeNew        StatusCode = "new"
	StatusCodeInProgress StatusCode = "in_progress"
	StatusCodeResolved   StatusCode = "resolved"
	StatusCodeClosed     StatusCode = "closed"
	StatusCodeRejected   StatusCode = "rejected"
)

// Status describes one configurable lifecycle state.
type Status struct {
	ID              int64
	Name            string
	Code            StatusCode
	Description     string
	Color           string
	SortOrder       int
	IsInitial       bool
	IsFinal         bool
	RequiresComment bool
	AllowedRoles    []UserRole
	NextStatuses    []int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CanTransitionTo reports whether the allow-list permits moving to the
// target status. An empty list permits every transition; this default-allow
// is deliberate and matches how deployments omit the column to mean "no
// restriction".
func (s *Status) CanTransitionTo(statusID int64) bool {
	if len(s.NextStatuses) == 0 {
		return true
	}
	for _, id := range s.NextStatuses {
		if id == statusID {
			return true
		}
	}
	return false
}

// IsAllowedForRole reports whether the role may enter this status. An empty
// allow-list permits any role.
func (s *Status) IsAllowedForRole(role UserRole) bool {
	if len(s.AllowedRoles) == 0 {
		return true
	}
	for _, allowed := range s.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

// StatusCatalog indexes the configured status set. It is built once from
// the stored statuses and treated as read-only afterwards.
type StatusCatalog struct {
	byID    map[int64]*Status
	byCode  map[StatusCode]*Status
	initial *Status
	ordered []Status
}

// NewStatusCatalog validates and indexes a status set. Exactly one status
// must carry the initial flag; the five canonical codes must be present.
func NewStatusCatalog(statuses []Status) (*StatusCatalog, error) {
	catalog := &StatusCatalog{
		byID:    make(map[int64]*Status, len(statuses)),
		byCode:  make(map[StatusCode]*Status, len(statuses)),
		ordered: append([]Status(nil), statuses...),
	}
	for i := range catalog.ordered {
		status := &catalog.ordered[i]
		catalog.byID[status.ID] = status
		catalog.byCode[status.Code] = status
		if status.IsInitial {
			if catalog.initial != nil {
				return nil, fmt.Errorf("multiple initial statuses configured: %q and %q", catalog.initial.Code, status.Code)
			}
			catalog.initial = status
		}
	}
	if catalog.initial == nil {
		return nil, fmt.Errorf("no initial status configured")
	}
	for _, code := range []StatusCode{StatusCodeNew, StatusCodeInProgress, StatusCodeResolved, StatusCodeClosed, StatusCodeRejected} {
		if _, ok := catalog.byCode[code]; !ok {
			return nil, fmt.Errorf("canonical status %q missing from catalog", code)
		}
	}
	return catalog, nil
}

// ByID looks up a status by id.
func (c *StatusCatalog) ByID(id int64) (*Status, bool) {
	status, ok := c.byID[id]
	return status, ok
}

// ByCode looks up a status by its machine code.
func (c *StatusCatalog) ByCode(code StatusCode) (*Status, bool) {
	status, ok := c.byCode[code]
	return status, ok
}

// Initial returns the status new tickets start in.
func (c *StatusCatalog) Initial() *Status {
	return c.initial
}

// All returns the statuses in stored order.
func (c *StatusCatalog) All() []Status {
	return c.ordered
}

// IsFinished reports whether the ticket sits in a terminal status.
func (c *StatusCatalog) IsFinished(t *Ticket) bool {
	status, ok := c.byID[t.StatusID]
	return ok && status.IsFinal
}
