package domain

import "time"

// UserRole enumerates the roles in the helpdesk workflow.
type UserRole string

const (
	RoleRequester UserRole = "requester"
	RoleExecutor  UserRole = "executor"
	RoleAdmin     UserRole = "admin"
)

// User models anyone interacting with the system: requesters who open
// tickets and executors/admins who work them.
type User struct {
	ID           int64
	Username     string
	FullName     string
	Email        string
	PasswordHash string
	Role         UserRole
	Active       bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsExecutor reports whether the user can be assigned tickets. Admins are
// executor-capable.
func (u *User) IsExecutor() bool {
	return u.Role == RoleExecutor || u.Role == RoleAdmin
}

// IsAdmin reports administrator privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanManageTickets reports whether the user may triage other users' tickets.
func (u *User) CanManageTickets() bool {
	return u.Role == RoleExecutor || u.Role == RoleAdmin
}
