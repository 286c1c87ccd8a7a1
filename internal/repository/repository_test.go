package repository

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/arveyy/intraportal/internal/models"
	"github.com/arveyy/intraportal/internal/store"
)

// seedAdminEmail is the admin created by the store's first-run seed.
const seedAdminEmail = "admin@example.com"

type repos struct {
	accounts    *Accounts
	departments *Departments
	employees   *Employees
	requests    *Requests
}

func newTestRepos(t *testing.T) *repos {
	t.Helper()
	st := store.New(store.NewMemory(), zap.NewNop())
	log := zap.NewNop()
	return &repos{
		accounts:    NewAccounts(st, log),
		departments: NewDepartments(st, log),
		employees:   NewEmployees(st, log),
		requests:    NewRequests(st, log),
	}
}

func mustAccount(t *testing.T, r *repos, email string) *models.Account {
	t.Helper()
	acc, err := r.accounts.Create(context.Background(), AccountDraft{
		First:    "Test",
		Last:     "User",
		Email:    email,
		Password: "secret1",
		Verified: true,
	})
	if err != nil {
		t.Fatalf("create account %s: %v", email, err)
	}
	return acc
}

func mustDepartment(t *testing.T, r *repos, name string) *models.Department {
	t.Helper()
	dep, err := r.departments.Create(context.Background(), DepartmentDraft{Name: name})
	if err != nil {
		t.Fatalf("create department %s: %v", name, err)
	}
	return dep
}
