package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arveyy/intraportal/internal/models"
	"github.com/arveyy/intraportal/internal/store"
)

// now is stubbed in tests.
var now = time.Now

// Requests is the repository over the requests collection.
type Requests struct {
	store *store.Store
	log   *zap.Logger
}

// NewRequests constructs a Requests repository over the given store.
func NewRequests(st *store.Store, log *zap.Logger) *Requests {
	return &Requests{store: st, log: log}
}

// RequestDraft is the input for creating a request. Items with an empty
// name are dropped before validation.
type RequestDraft struct {
	Type  string
	Items []models.RequestItem
}

// List returns all requests in insertion order.
func (r *Requests) List(ctx context.Context) ([]models.Request, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Requests, nil
}

// ListByOwner returns the requests owned by the given account email.
func (r *Requests) ListByOwner(ctx context.Context, ownerEmail string) ([]models.Request, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	ownerEmail = models.NormalizeEmail(ownerEmail)
	var out []models.Request
	for _, q := range doc.Requests {
		if q.OwnerEmail == ownerEmail {
			out = append(out, q)
		}
	}
	return out, nil
}

// Create validates the draft and inserts a new pending request owned by
// ownerEmail.
func (r *Requests) Create(ctx context.Context, ownerEmail string, draft RequestDraft) (*models.Request, error) {
	if draft.Type == "" {
		return nil, &ValidationError{Field: "type", Reason: "must not be empty"}
	}

	items := make([]models.RequestItem, 0, len(draft.Items))
	for _, it := range draft.Items {
		if it.Name == "" {
			continue
		}
		if it.Qty < 1 {
			return nil, &ValidationError{Field: "items", Reason: "quantity must be at least 1"}
		}
		items = append(items, it)
	}
	if len(items) == 0 {
		return nil, &ValidationError{Field: "items", Reason: "at least one item is required"}
	}

	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	ownerEmail = models.NormalizeEmail(ownerEmail)
	if accountIdxByEmail(doc, ownerEmail) < 0 {
		return nil, &ValidationError{Field: "ownerEmail", Reason: "no account with this email"}
	}

	req := models.Request{
		ID: newID(func(id string) bool {
			return requestIdxByID(doc, id) >= 0
		}),
		OwnerEmail: ownerEmail,
		Type:       draft.Type,
		Items:      items,
		Status:     models.StatusPending,
		Date:       now().Format("2006-01-02"),
	}
	doc.Requests = append(doc.Requests, req)

	if err := r.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	r.log.Info("request created", zap.String("owner", req.OwnerEmail), zap.String("type", req.Type))
	return &req, nil
}

// SetStatus moves a pending request to approved or rejected.
func (r *Requests) SetStatus(ctx context.Context, id string, status models.RequestStatus) (*models.Request, error) {
	if status != models.StatusApproved && status != models.StatusRejected {
		return nil, &ValidationError{Field: "status", Reason: "must be approved or rejected"}
	}

	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	i := requestIdxByID(doc, id)
	if i < 0 {
		r.log.Debug("status change of missing request", zap.String("id", id))
		return nil, ErrNotFound
	}
	if doc.Requests[i].Status != models.StatusPending {
		return nil, &ValidationError{Field: "status", Reason: "only pending requests can change status"}
	}

	doc.Requests[i].Status = status
	req := doc.Requests[i]

	if err := r.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("update request: %w", err)
	}
	return &req, nil
}

func requestIdxByID(doc *models.Document, id string) int {
	for i, q := range doc.Requests {
		if q.ID == id {
			return i
		}
	}
	return -1
}
