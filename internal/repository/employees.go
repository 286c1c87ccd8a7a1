package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/arveyy/intraportal/internal/models"
	"github.com/arveyy/intraportal/internal/store"
)

// Employees is the repository over the employees collection.
type Employees struct {
	store *store.Store
	log   *zap.Logger
}

// NewEmployees constructs an Employees repository over the given store.
func NewEmployees(st *store.Store, log *zap.Logger) *Employees {
	return &Employees{store: st, log: log}
}

// EmployeeDraft is the input for creating an employee record.
type EmployeeDraft struct {
	EmployeeID   string
	Email        string
	Position     string
	DepartmentID string
	HireDate     string
}

// EmployeePatch updates an employee record. Nil fields keep their prior
// value.
type EmployeePatch struct {
	EmployeeID   *string
	Email        *string
	Position     *string
	DepartmentID *string
	HireDate     *string
}

// EmployeeView is an employee joined with its account and department
// for display. The name is derived from the account at read time, never
// stored on the employee record.
type EmployeeView struct {
	models.Employee
	Name       string
	Department string
}

// List returns all employee records in insertion order.
func (r *Employees) List(ctx context.Context) ([]models.Employee, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Employees, nil
}

// ListViews returns all employees joined with their account display
// name and department name.
func (r *Employees) ListViews(ctx context.Context) ([]EmployeeView, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]EmployeeView, 0, len(doc.Employees))
	for _, e := range doc.Employees {
		v := EmployeeView{Employee: e, Name: e.Email}
		if i := accountIdxByEmail(doc, e.Email); i >= 0 {
			v.Name = doc.Accounts[i].FullName()
		}
		if i := departmentIdxByID(doc, e.DepartmentID); i >= 0 {
			v.Department = doc.Departments[i].Name
		}
		views = append(views, v)
	}
	return views, nil
}

// FindByID returns the employee record with the given id, or ErrNotFound.
func (r *Employees) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if i := employeeIdxByID(doc, id); i >= 0 {
		e := doc.Employees[i]
		return &e, nil
	}
	return nil, ErrNotFound
}

// Create validates the draft and inserts a new employee record.
func (r *Employees) Create(ctx context.Context, draft EmployeeDraft) (*models.Employee, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	emp := models.Employee{
		EmployeeID:   draft.EmployeeID,
		Email:        models.NormalizeEmail(draft.Email),
		Position:     draft.Position,
		DepartmentID: draft.DepartmentID,
		HireDate:     draft.HireDate,
	}
	if err := validateEmployee(doc, emp, -1); err != nil {
		return nil, err
	}

	emp.ID = newID(func(id string) bool {
		return employeeIdxByID(doc, id) >= 0
	})
	doc.Employees = append(doc.Employees, emp)

	if err := r.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	r.log.Info("employee created", zap.String("employeeId", emp.EmployeeID))
	return &emp, nil
}

// Update applies the patch to the employee record with the given id,
// re-validating uniqueness and references against the post-patch state.
func (r *Employees) Update(ctx context.Context, id string, patch EmployeePatch) (*models.Employee, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	i := employeeIdxByID(doc, id)
	if i < 0 {
		r.log.Debug("update of missing employee", zap.String("id", id))
		return nil, ErrNotFound
	}

	next := doc.Employees[i]
	if patch.EmployeeID != nil {
		next.EmployeeID = *patch.EmployeeID
	}
	if patch.Email != nil {
		next.Email = models.NormalizeEmail(*patch.Email)
	}
	if patch.Position != nil {
		next.Position = *patch.Position
	}
	if patch.DepartmentID != nil {
		next.DepartmentID = *patch.DepartmentID
	}
	if patch.HireDate != nil {
		next.HireDate = *patch.HireDate
	}
	if err := validateEmployee(doc, next, i); err != nil {
		return nil, err
	}

	doc.Employees[i] = next
	if err := r.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("update employee: %w", err)
	}
	return &next, nil
}

// Delete removes the employee record with the given id.
func (r *Employees) Delete(ctx context.Context, id string) error {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return err
	}

	i := employeeIdxByID(doc, id)
	if i < 0 {
		r.log.Debug("delete of missing employee", zap.String("id", id))
		return ErrNotFound
	}

	doc.Employees = append(doc.Employees[:i], doc.Employees[i+1:]...)
	if err := r.store.Save(ctx, doc); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	return nil
}

// validateEmployee checks the post-patch record: required fields, a
// unique business id and live account/department references. self is the
// record's own index, or -1 on create.
func validateEmployee(doc *models.Document, emp models.Employee, self int) error {
	if emp.EmployeeID == "" {
		return &ValidationError{Field: "employeeId", Reason: "must not be empty"}
	}
	if emp.Email == "" {
		return &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if emp.Position == "" {
		return &ValidationError{Field: "position", Reason: "must not be empty"}
	}
	for j, other := range doc.Employees {
		if j != self && other.EmployeeID == emp.EmployeeID {
			return &UniquenessError{Field: "employeeId", Value: emp.EmployeeID}
		}
	}
	if accountIdxByEmail(doc, emp.Email) < 0 {
		return &ValidationError{Field: "email", Reason: "no account with this email"}
	}
	if departmentIdxByID(doc, emp.DepartmentID) < 0 {
		return &ValidationError{Field: "departmentId", Reason: "no such department"}
	}
	return nil
}

func employeeIdxByID(doc *models.Document, id string) int {
	for i, e := range doc.Employees {
		if e.ID == id {
			return i
		}
	}
	return -1
}
