package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/arveyy/intraportal/internal/models"
	"github.com/arveyy/intraportal/internal/store"
)

// Accounts is the repository over the accounts collection.
type Accounts struct {
	store *store.Store
	log   *zap.Logger
}

// NewAccounts constructs an Accounts repository over the given store.
func NewAccounts(st *store.Store, log *zap.Logger) *Accounts {
	return &Accounts{store: st, log: log}
}

// AccountDraft is the input for creating an account. Role defaults to
// user when empty.
type AccountDraft struct {
	First    string
	Last     string
	Email    string
	Password string
	Role     models.Role
	Verified bool
}

// AccountPatch updates an account. Nil fields keep their prior value.
type AccountPatch struct {
	First    *string
	Last     *string
	Email    *string
	Password *string
	Role     *models.Role
	Verified *bool
}

// List returns all accounts in insertion order.
func (r *Accounts) List(ctx context.Context) ([]models.Account, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Accounts, nil
}

// FindByEmail returns the account with the given email, or ErrNotFound.
func (r *Accounts) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if i := accountIdxByEmail(doc, email); i >= 0 {
		a := doc.Accounts[i]
		return &a, nil
	}
	return nil, ErrNotFound
}

// FindByID returns the account with the given id, or ErrNotFound.
func (r *Accounts) FindByID(ctx context.Context, id string) (*models.Account, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if i := accountIdxByID(doc, id); i >= 0 {
		a := doc.Accounts[i]
		return &a, nil
	}
	return nil, ErrNotFound
}

// Create validates the draft and inserts a new account.
func (r *Accounts) Create(ctx context.Context, draft AccountDraft) (*models.Account, error) {
	if err := validateAccountDraft(draft); err != nil {
		return nil, err
	}

	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	email := models.NormalizeEmail(draft.Email)
	if accountIdxByEmail(doc, email) >= 0 {
		return nil, &UniquenessError{Field: "email", Value: email}
	}

	role := draft.Role
	if role == "" {
		role = models.RoleUser
	}

	acc := models.Account{
		ID: newID(func(id string) bool {
			return accountIdxByID(doc, id) >= 0
		}),
		First:    draft.First,
		Last:     draft.Last,
		Email:    email,
		Password: draft.Password,
		Role:     role,
		Verified: draft.Verified,
	}
	doc.Accounts = append(doc.Accounts, acc)

	if err := r.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	r.log.Info("account created", zap.String("email", acc.Email))
	return &acc, nil
}

// Update applies the patch to the account with the given id,
// re-validating uniqueness against the post-patch state.
func (r *Accounts) Update(ctx context.Context, id string, patch AccountPatch) (*models.Account, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	i := accountIdxByID(doc, id)
	if i < 0 {
		r.log.Debug("update of missing account", zap.String("id", id))
		return nil, ErrNotFound
	}

	next := doc.Accounts[i]
	if patch.First != nil {
		next.First = *patch.First
	}
	if patch.Last != nil {
		next.Last = *patch.Last
	}
	if patch.Email != nil {
		next.Email = models.NormalizeEmail(*patch.Email)
	}
	if patch.Password != nil {
		next.Password = *patch.Password
	}
	if patch.Role != nil {
		next.Role = *patch.Role
	}
	if patch.Verified != nil {
		next.Verified = *patch.Verified
	}

	if next.First == "" {
		return nil, &ValidationError{Field: "first", Reason: "must not be empty"}
	}
	if next.Last == "" {
		return nil, &ValidationError{Field: "last", Reason: "must not be empty"}
	}
	if next.Email == "" {
		return nil, &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if patch.Password != nil && len(next.Password) < MinPasswordLen {
		return nil, &ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", MinPasswordLen)}
	}
	for j, other := range doc.Accounts {
		if j != i && other.Email == next.Email {
			return nil, &UniquenessError{Field: "email", Value: next.Email}
		}
	}

	prevEmail := doc.Accounts[i].Email
	doc.Accounts[i] = next

	// Employees and requests reference accounts by email; follow an
	// email change so the references stay live.
	if prevEmail != next.Email {
		for j := range doc.Employees {
			if doc.Employees[j].Email == prevEmail {
				doc.Employees[j].Email = next.Email
			}
		}
		for j := range doc.Requests {
			if doc.Requests[j].OwnerEmail == prevEmail {
				doc.Requests[j].OwnerEmail = next.Email
			}
		}
	}

	if err := r.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	return &next, nil
}

// ResetPassword replaces the account's password, enforcing the same
// minimum length as registration.
func (r *Accounts) ResetPassword(ctx context.Context, id, password string) error {
	if len(password) < MinPasswordLen {
		return &ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", MinPasswordLen)}
	}
	_, err := r.Update(ctx, id, AccountPatch{Password: &password})
	return err
}

// Delete removes the account with the given id. An account may never
// delete itself: actorID is the id of the account performing the
// operation.
func (r *Accounts) Delete(ctx context.Context, id, actorID string) error {
	if id == actorID {
		return &ValidationError{Field: "id", Reason: "an account cannot delete itself"}
	}

	doc, err := r.store.Load(ctx)
	if err != nil {
		return err
	}

	i := accountIdxByID(doc, id)
	if i < 0 {
		r.log.Debug("delete of missing account", zap.String("id", id))
		return ErrNotFound
	}

	email := doc.Accounts[i].Email
	doc.Accounts = append(doc.Accounts[:i], doc.Accounts[i+1:]...)

	// Employee records and requests are owned by the account; remove
	// them too so no reference is left dangling.
	employees := doc.Employees[:0]
	for _, e := range doc.Employees {
		if e.Email != email {
			employees = append(employees, e)
		}
	}
	doc.Employees = employees
	requests := doc.Requests[:0]
	for _, q := range doc.Requests {
		if q.OwnerEmail != email {
			requests = append(requests, q)
		}
	}
	doc.Requests = requests

	if err := r.store.Save(ctx, doc); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	r.log.Info("account deleted", zap.String("email", email))
	return nil
}

func validateAccountDraft(draft AccountDraft) error {
	if draft.First == "" {
		return &ValidationError{Field: "first", Reason: "must not be empty"}
	}
	if draft.Last == "" {
		return &ValidationError{Field: "last", Reason: "must not be empty"}
	}
	if models.NormalizeEmail(draft.Email) == "" {
		return &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if len(draft.Password) < MinPasswordLen {
		return &ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", MinPasswordLen)}
	}
	return nil
}

func accountIdxByEmail(doc *models.Document, email string) int {
	email = models.NormalizeEmail(email)
	for i, a := range doc.Accounts {
		if a.Email == email {
			return i
		}
	}
	return -1
}

func accountIdxByID(doc *models.Document, id string) int {
	for i, a := range doc.Accounts {
		if a.ID == id {
			return i
		}
	}
	return -1
}
