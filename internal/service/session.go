// Package service provides the session manager: registration,
// verification, login, logout and the derived current identity.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/arveyy/intraportal/internal/models"
	"github.com/arveyy/intraportal/internal/repository"
	"github.com/arveyy/intraportal/internal/store"
)

// ErrAuth is returned for any failed login. The message is identical
// for unknown email, wrong password and unverified account so that
// registered emails cannot be probed.
var ErrAuth = errors.New("invalid credentials")

// Session owns the current-session identity on top of the accounts
// repository. It is an explicit value rather than a global so tests can
// run independent sessions against one store.
type Session struct {
	accounts *repository.Accounts
	store    *store.Store
	log      *zap.Logger

	// pending is the one outstanding registration awaiting
	// verification in this session.
	pending string
}

// NewSession constructs a session manager over the given repositories.
func NewSession(accounts *repository.Accounts, st *store.Store, log *zap.Logger) *Session {
	return &Session{accounts: accounts, store: st, log: log}
}

// Register creates an unverified user account and records its email as
// this session's pending verification.
func (s *Session) Register(ctx context.Context, first, last, email, password string) error {
	_, err := s.accounts.Create(ctx, repository.AccountDraft{
		First:    first,
		Last:     last,
		Email:    email,
		Password: password,
		Role:     models.RoleUser,
		Verified: false,
	})
	if err != nil {
		return err
	}
	s.pending = models.NormalizeEmail(email)
	return nil
}

// PendingEmail returns the email awaiting verification, or "".
func (s *Session) PendingEmail() string {
	return s.pending
}

// Verify marks the account with the given email as verified. An empty
// email verifies this session's pending registration. Verification does
// not authenticate: the user must still log in.
func (s *Session) Verify(ctx context.Context, email string) error {
	if email == "" {
		email = s.pending
	}
	acc, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	verified := true
	if _, err := s.accounts.Update(ctx, acc.ID, repository.AccountPatch{Verified: &verified}); err != nil {
		return fmt.Errorf("verify account: %w", err)
	}
	if s.pending == acc.Email {
		s.pending = ""
	}
	s.log.Info("account verified", zap.String("email", acc.Email))
	return nil
}

// Login authenticates by email and password. Only verified accounts may
// log in. On success the account's email is persisted as the session
// token.
func (s *Session) Login(ctx context.Context, email, password string) (*models.Account, error) {
	acc, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Debug("login for unknown email", zap.String("email", models.NormalizeEmail(email)))
			return nil, ErrAuth
		}
		return nil, err
	}
	if acc.Password != password {
		s.log.Debug("login with wrong password", zap.String("email", acc.Email))
		return nil, ErrAuth
	}
	if !acc.Verified {
		s.log.Debug("login before verification", zap.String("email", acc.Email))
		return nil, ErrAuth
	}

	if err := s.store.SetToken(ctx, acc.Email); err != nil {
		return nil, err
	}
	s.log.Info("logged in", zap.String("email", acc.Email), zap.String("role", string(acc.Role)))
	return acc, nil
}

// Logout clears the session token.
func (s *Session) Logout(ctx context.Context) error {
	return s.store.ClearToken(ctx)
}

// Current returns the live account for the session token, or nil when
// anonymous. The identity is re-resolved from the accounts collection on
// every call; a deleted or unverified account invalidates the session
// and clears the stale token.
func (s *Session) Current(ctx context.Context) (*models.Account, error) {
	token, err := s.store.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}

	acc, err := s.accounts.FindByEmail(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Debug("session token for missing account, clearing", zap.String("token", token))
			return nil, s.store.ClearToken(ctx)
		}
		return nil, err
	}
	if !acc.Verified {
		s.log.Debug("session token for unverified account, clearing", zap.String("token", token))
		return nil, s.store.ClearToken(ctx)
	}
	return acc, nil
}

// Restore re-enters an authenticated session from the persisted token.
// Run once at startup.
func (s *Session) Restore(ctx context.Context) (*models.Account, error) {
	return s.Current(ctx)
}

// UpdateProfile edits the logged-in account's name and email. When the
// email changes, the session token follows it so the session stays
// valid.
func (s *Session) UpdateProfile(ctx context.Context, first, last, email string) (*models.Account, error) {
	acc, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrAuth
	}

	next, err := s.accounts.Update(ctx, acc.ID, repository.AccountPatch{
		First: &first,
		Last:  &last,
		Email: &email,
	})
	if err != nil {
		return nil, err
	}
	if next.Email != acc.Email {
		if err := s.store.SetToken(ctx, next.Email); err != nil {
			return nil, err
		}
	}
	return next, nil
}
