package repository

import (
	"context"
	"errors"
	"testing"
)

func TestEmployeeCreate_ForeignKeys(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	mustAccount(t, r, "jane@x.com")
	dep := mustDepartment(t, r, "Support")

	tests := []struct {
		name  string
		draft EmployeeDraft
	}{
		{"unknown account", EmployeeDraft{
			EmployeeID: "E-1", Email: "ghost@x.com", Position: "Agent", DepartmentID: dep.ID,
		}},
		{"unknown department", EmployeeDraft{
			EmployeeID: "E-1", Email: "jane@x.com", Position: "Agent", DepartmentID: "no-such-dept",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.employees.Create(ctx, tt.draft)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Create error = %v; want ValidationError", err)
			}
		})
	}

	if _, err := r.employees.Create(ctx, EmployeeDraft{
		EmployeeID: "E-1", Email: "jane@x.com", Position: "Agent", DepartmentID: dep.ID,
	}); err != nil {
		t.Fatalf("Create with live references failed: %v", err)
	}
}

func TestEmployeeCreate_DuplicateBusinessID(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	mustAccount(t, r, "jane@x.com")
	mustAccount(t, r, "bob@x.com")
	dep := mustDepartment(t, r, "Support")

	if _, err := r.employees.Create(ctx, EmployeeDraft{
		EmployeeID: "E-1", Email: "jane@x.com", Position: "Agent", DepartmentID: dep.ID,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := r.employees.Create(ctx, EmployeeDraft{
		EmployeeID: "E-1", Email: "bob@x.com", Position: "Agent", DepartmentID: dep.ID,
	})
	var ue *UniquenessError
	if !errors.As(err, &ue) {
		t.Fatalf("Create error = %v; want UniquenessError", err)
	}
}

func TestEmployeeUpdate_RevalidatesPostPatch(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	mustAccount(t, r, "jane@x.com")
	mustAccount(t, r, "bob@x.com")
	dep := mustDepartment(t, r, "Support")

	if _, err := r.employees.Create(ctx, EmployeeDraft{
		EmployeeID: "E-1", Email: "jane@x.com", Position: "Agent", DepartmentID: dep.ID,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := r.employees.Create(ctx, EmployeeDraft{
		EmployeeID: "E-2", Email: "bob@x.com", Position: "Agent", DepartmentID: dep.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	collide := "E-1"
	if _, err := r.employees.Update(ctx, second.ID, EmployeePatch{EmployeeID: &collide}); err == nil {
		t.Fatal("expected uniqueness error on patched business id")
	}

	ghost := "ghost@x.com"
	if _, err := r.employees.Update(ctx, second.ID, EmployeePatch{Email: &ghost}); err == nil {
		t.Fatal("expected validation error on dangling account reference")
	}

	// A no-collision patch still works.
	pos := "Senior Agent"
	got, err := r.employees.Update(ctx, second.ID, EmployeePatch{Position: &pos})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Position != pos {
		t.Errorf("position = %q; want %q", got.Position, pos)
	}
}

func TestEmployeeViews_NameDerivedFromAccount(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	jane := mustAccount(t, r, "jane@x.com")
	dep := mustDepartment(t, r, "Support")

	if _, err := r.employees.Create(ctx, EmployeeDraft{
		EmployeeID: "E-1", Email: "jane@x.com", Position: "Agent", DepartmentID: dep.ID,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	views, err := r.employees.ListViews(ctx)
	if err != nil {
		t.Fatalf("ListViews failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}
	if views[0].Name != "Test User" {
		t.Errorf("name = %q; want %q", views[0].Name, "Test User")
	}
	if views[0].Department != "Support" {
		t.Errorf("department = %q; want Support", views[0].Department)
	}

	// Renaming the account changes the derived name: no stale copy is
	// stored on the employee record.
	first := "Janet"
	if _, err := r.accounts.Update(ctx, jane.ID, AccountPatch{First: &first}); err != nil {
		t.Fatalf("account update failed: %v", err)
	}
	views, err = r.employees.ListViews(ctx)
	if err != nil {
		t.Fatalf("ListViews failed: %v", err)
	}
	if views[0].Name != "Janet User" {
		t.Errorf("name = %q; want %q", views[0].Name, "Janet User")
	}
}
