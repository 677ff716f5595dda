package domain

import (
	"strings"
	"testing"
)

func testStatuses(t *testing.T) []Status {
	t.Helper()
	return []Status{
		{ID: 1, Name: "New", Code: StatusCodeNew, IsInitial: true, NextStatuses: []int64{2, 5}},
		{ID: 2, Name: "In Progress", Code: StatusCodeInProgress, AllowedRoles: []UserRole{RoleExecutor, RoleAdmin}, NextStatuses: []int64{3, 4, 5}},
		{ID: 3, Name: "Resolved", Code: StatusCodeResolved, IsFinal: true, AllowedRoles: []UserRole{RoleExecutor, RoleAdmin}},
		{ID: 4, Name: "Closed", Code: StatusCodeClosed, IsFinal: true},
		{ID: 5, Name: "Rejected", Code: StatusCodeRejected, IsFinal: true, AllowedRoles: []UserRole{RoleExecutor, RoleAdmin}},
	}
}

func TestCanTransitionTo(t *testing.T) {
	status := Status{ID: 1, NextStatuses: []int64{2, 5}}

	if !status.CanTransitionTo(2) {
		t.Errorf("CanTransitionTo(2) = false, want true")
	}
	if status.CanTransitionTo(3) {
		t.Errorf("CanTransitionTo(3) = true, want false")
	}
}

func TestCanTransitionToEmptyListAllowsAll(t *testing.T) {
	status := Status{ID: 1}

	for _, target := range []int64{1, 2, 99} {
		if !status.CanTransitionTo(target) {
			t.Errorf("CanTransitionTo(%d) with empty list = false, want true", target)
		}
	}
}

func TestIsAllowedForRole(t *testing.T) {
	status := Status{AllowedRoles: []UserRole{RoleExecutor, RoleAdmin}}

	if status.IsAllowedForRole(RoleRequester) {
		t.Errorf("IsAllowedForRole(requester) = true, want false")
	}
	if !status.IsAllowedForRole(RoleExecutor) {
		t.Errorf("IsAllowedForRole(executor) = false, want true")
	}

	open := Status{}
	if !open.IsAllowedForRole(RoleRequester) {
		t.Errorf("IsAllowedForRole with empty list = false, want true")
	}
}

func TestNewStatusCatalog(t *testing.T) {
	catalog, err := NewStatusCatalog(testStatuses(t))
	if err != nil {
		t.Fatalf("NewStatusCatalog() error = %v", err)
	}

	if catalog.Initial().Code != StatusCodeNew {
		t.Errorf("Initial().Code = %q, want %q", catalog.Initial().Code, StatusCodeNew)
	}
	if status, ok := catalog.ByCode(StatusCodeResolved); !ok || status.ID != 3 {
		t.Errorf("ByCode(resolved) = %+v, %v; want id 3", status, ok)
	}
	if _, ok := catalog.ByID(99); ok {
		t.Errorf("ByID(99) found a status, want miss")
	}
	if len(catalog.All()) != 5 {
		t.Errorf("len(All()) = %d, want 5", len(catalog.All()))
	}
}

func TestNewStatusCatalogRejectsMissingInitial(t *testing.T) {
	statuses := testStatuses(t)
	statuses[0].IsInitial = false

	if _, err := NewStatusCatalog(statuses); err == nil {
		t.Errorf("NewStatusCatalog() with no initial status: error = nil, want error")
	}
}

func TestNewStatusCatalogRejectsDuplicateInitial(t *testing.T) {
	statuses := testStatuses(t)
	statuses[1].IsInitial = true

	_, err := NewStatusCatalog(statuses)
	if err == nil {
		t.Fatalf("NewStatusCatalog() with two initial statuses: error = nil, want error")
	}
	if !strings.Contains(err.Error(), "multiple initial") {
		t.Errorf("error = %q, want mention of multiple initial statuses", err)
	}
}

func TestNewStatusCatalogRejectsMissingCanonicalCode(t *testing.T) {
	statuses := testStatuses(t)[:4]

	if _, err := NewStatusCatalog(statuses); err == nil {
		t.Errorf("NewStatusCatalog() without rejected code: error = nil, want error")
	}
}

func TestIsFinished(t *testing.T) {
	catalog, err := NewStatusCatalog(testStatuses(t))
	if err != nil {
		t.Fatalf("NewStatusCatalog() error = %v", err)
	}

	if catalog.IsFinished(&Ticket{StatusID: 2}) {
		t.Errorf("IsFinished(in_progress) = true, want false")
	}
	if !catalog.IsFinished(&Ticket{StatusID: 3}) {
		t.Errorf("IsFinished(resolved) = false, want true")
	}
	if !catalog.IsFinished(&Ticket{StatusID: 4}) {
		t.Errorf("IsFinished(closed) = false, want true")
	}
	if !catalog.IsFinished(&Ticket{StatusID: 5}) {
		t.Errorf("IsFinished(rejected) = false, want true")
	}
}

func TestUserRoleHelpers(t *testing.T) {
	requester := &User{Role: RoleRequester}
	executor := &User{Role: RoleExecutor}
	admin := &User{Role: RoleAdmin}

	if requester.IsExecutor() {
		t.Errorf("requester.IsExecutor() = true, want false")
	}
	if !executor.IsExecutor() {
		t.Errorf("executor.IsExecutor() = false, want true")
	}
	if !admin.IsExecutor() {
		t.Errorf("admin.IsExecutor() = false, want true")
	}
	if executor.IsAdmin() {
		t.Errorf("executor.IsAdmin() = true, want false")
	}
}
