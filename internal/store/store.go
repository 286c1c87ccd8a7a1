// Package store owns the durable portal document. It serializes the
// whole database into one storage slot, seeds a minimal valid document
// on first run, migrates old schema versions forward, and recovers from
// unreadable payloads by reseeding instead of failing the session.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arveyy/intraportal/internal/models"
)

// ErrConflict is returned by Save when the persisted document changed
// since the caller loaded it. Each browser-tab-like writer holds its own
// in-memory copy; the revision stamp turns the silent last-write-wins
// overwrite into an explicit error.
var ErrConflict = errors.New("store: document revision conflict")

// Store loads and saves the portal document through a slot backend.
type Store struct {
	backend Backend
	log     *zap.Logger
}

// New returns a Store over the given backend.
func New(backend Backend, log *zap.Logger) *Store {
	return &Store{backend: backend, log: log}
}

// Load reads the document from the document slot. A missing slot seeds a
// fresh document; an unreadable payload is logged and reseeded. Older
// schema versions are migrated forward before the document is returned.
func (s *Store) Load(ctx context.Context) (*models.Document, error) {
	raw, ok, err := s.backend.Get(ctx, DocumentSlot)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if !ok {
		return s.reseed(ctx)
	}

	var doc models.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		s.log.Warn("document slot is unreadable, reseeding", zap.Error(err))
		return s.reseed(ctx)
	}

	if err := migrate(&doc); err != nil {
		s.log.Warn("document cannot be migrated, reseeding", zap.Error(err))
		return s.reseed(ctx)
	}
	return &doc, nil
}

// Save writes the document back to its slot. The document's revision
// must match the persisted one, otherwise ErrConflict is returned and
// nothing is written. On success the revision is bumped.
func (s *Store) Save(ctx context.Context, doc *models.Document) error {
	return s.save(ctx, doc, true)
}

func (s *Store) save(ctx context.Context, doc *models.Document, check bool) error {
	if check {
		raw, ok, err := s.backend.Get(ctx, DocumentSlot)
		if err != nil {
			return fmt.Errorf("save document: %w", err)
		}
		if ok {
			var cur struct {
				Revision int64 `json:"revision"`
			}
			if err := json.Unmarshal([]byte(raw), &cur); err == nil && cur.Revision != doc.Revision {
				return ErrConflict
			}
		}
	}

	doc.Revision++
	data, err := json.Marshal(doc)
	if err != nil {
		doc.Revision--
		return fmt.Errorf("encode document: %w", err)
	}
	if err := s.backend.Put(ctx, DocumentSlot, string(data)); err != nil {
		doc.Revision--
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// Token returns the persisted session token, or "" if none is stored.
func (s *Store) Token(ctx context.Context) (string, error) {
	v, ok, err := s.backend.Get(ctx, TokenSlot)
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	if !ok {
		return "", nil
	}
	return v, nil
}

// SetToken persists the session token.
func (s *Store) SetToken(ctx context.Context, token string) error {
	if err := s.backend.Put(ctx, TokenSlot, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// ClearToken removes the session token slot.
func (s *Store) ClearToken(ctx context.Context) error {
	if err := s.backend.Delete(ctx, TokenSlot); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

func (s *Store) reseed(ctx context.Context) (*models.Document, error) {
	doc := Seed()
	if err := s.save(ctx, doc, false); err != nil {
		return nil, fmt.Errorf("seed document: %w", err)
	}
	s.log.Info("seeded fresh document")
	return doc, nil
}

// Seed builds the minimal valid document persisted on first run: one
// verified admin account, a starter department list and no employees or
// requests.
func Seed() *models.Document {
	return &models.Document{
		SchemaVersion: models.SchemaVersion,
		Accounts: []models.Account{{
			ID:       uuid.NewString(),
			First:    "Admin",
			Last:     "User",
			Email:    "admin@example.com",
			Password: "Password123!",
			Role:     models.RoleAdmin,
			Verified: true,
		}},
		Departments: []models.Department{
			{ID: uuid.NewString(), Name: "Engineering"},
			{ID: uuid.NewString(), Name: "HR"},
		},
		Employees: []models.Employee{},
		Requests:  []models.Request{},
	}
}
