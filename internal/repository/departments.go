package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/arveyy/intraportal/internal/models"
	"github.com/arveyy/intraportal/internal/store"
)

// Departments is the repository over the departments collection.
type Departments struct {
	store *store.Store
	log   *zap.Logger
}

// NewDepartments constructs a Departments repository over the given store.
func NewDepartments(st *store.Store, log *zap.Logger) *Departments {
	return &Departments{store: st, log: log}
}

// DepartmentDraft is the input for creating a department.
type DepartmentDraft struct {
	Name        string
	Description string
}

// DepartmentPatch updates a department. Nil fields keep their prior value.
type DepartmentPatch struct {
	Name        *string
	Description *string
}

// List returns all departments in insertion order.
func (r *Departments) List(ctx context.Context) ([]models.Department, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Departments, nil
}

// FindByID returns the department with the given id, or ErrNotFound.
func (r *Departments) FindByID(ctx context.Context, id string) (*models.Department, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if i := departmentIdxByID(doc, id); i >= 0 {
		d := doc.Departments[i]
		return &d, nil
	}
	return nil, ErrNotFound
}

// Create validates the draft and inserts a new department.
func (r *Departments) Create(ctx context.Context, draft DepartmentDraft) (*models.Department, error) {
	if draft.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	dep := models.Department{
		ID: newID(func(id string) bool {
			return departmentIdxByID(doc, id) >= 0
		}),
		Name:        draft.Name,
		Description: draft.Description,
	}
	doc.Departments = append(doc.Departments, dep)

	if err := r.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("create department: %w", err)
	}
	r.log.Info("department created", zap.String("name", dep.Name))
	return &dep, nil
}

// Update applies the patch to the department with the given id.
func (r *Departments) Update(ctx context.Context, id string, patch DepartmentPatch) (*models.Department, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	i := departmentIdxByID(doc, id)
	if i < 0 {
		r.log.Debug("update of missing department", zap.String("id", id))
		return nil, ErrNotFound
	}

	next := doc.Departments[i]
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if next.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	doc.Departments[i] = next
	if err := r.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("update department: %w", err)
	}
	return &next, nil
}

// Delete removes the department with the given id. A department that is
// still referenced by employees cannot be deleted.
func (r *Departments) Delete(ctx context.Context, id string) error {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return err
	}

	i := departmentIdxByID(doc, id)
	if i < 0 {
		r.log.Debug("delete of missing department", zap.String("id", id))
		return ErrNotFound
	}

	refs := 0
	for _, e := range doc.Employees {
		if e.DepartmentID == id {
			refs++
		}
	}
	if refs > 0 {
		return &ReferentialIntegrityError{Entity: "department", Refs: refs}
	}

	name := doc.Departments[i].Name
	doc.Departments = append(doc.Departments[:i], doc.Departments[i+1:]...)

	if err := r.store.Save(ctx, doc); err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	r.log.Info("department deleted", zap.String("name", name))
	return nil
}

func departmentIdxByID(doc *models.Document, id string) int {
	for i, d := range doc.Departments {
		if d.ID == id {
			return i
		}
	}
	return -1
}
