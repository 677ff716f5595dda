package domain

import "time"

// HistoryAction classifies an audit trail entry.
type HistoryAction string

const (
	ActionCreate       HistoryAction = "create"
	ActionStatusChange HistoryAction = "status_change"
	ActionAssign       HistoryAction = "assign"
	ActionComment      HistoryAction = "comment"
	ActionFieldChange  HistoryAction = "field_change"
	ActionPriority     HistoryAction = "priority_change"
	ActionSatisfaction HistoryAction = "satisfaction"
	ActionDelete       HistoryAction = "delete"
)

// HistoryEntry is an immutable audit record. Entries are only ever appended;
// the log is the audit trail.
type HistoryEntry struct {
	ID        int64
	TicketID  int64
	Action    HistoryAction
	OldValue  *string
	NewValue  *string
	Comment   *string
	ActorID   int64
	FieldName *string
	Metadata  map[string]any
	ChangedAt time.Time
}
