package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arveyy/intraportal/internal/models"
)

func newTestStore(t *testing.T) (*Store, *Memory) {
	t.Helper()
	backend := NewMemory()
	return New(backend, zap.NewNop()), backend
}

func TestLoad_SeedsOnFirstRun(t *testing.T) {
	s, backend := newTestStore(t)

	doc, err := s.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, doc.Accounts, 1)
	admin := doc.Accounts[0]
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, admin.Verified)
	assert.NotEmpty(t, admin.ID)

	assert.NotEmpty(t, doc.Departments)
	assert.Empty(t, doc.Employees)
	assert.Empty(t, doc.Requests)
	assert.Equal(t, models.SchemaVersion, doc.SchemaVersion)

	// The seed must already be persisted.
	_, ok, err := backend.Get(context.Background(), DocumentSlot)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoad_ReseedsOnCorruptPayload(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, DocumentSlot, "{not json"))

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Accounts, 1)
}

func TestLoad_ReseedsOnNewerSchema(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()

	future := models.Document{SchemaVersion: models.SchemaVersion + 1, Revision: 9}
	raw, err := json.Marshal(future)
	require.NoError(t, err)
	require.NoError(t, backend.Put(ctx, DocumentSlot, string(raw)))

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SchemaVersion, doc.SchemaVersion)
	assert.Len(t, doc.Accounts, 1)
}

func TestLoad_MigratesLegacyDocument(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()

	// A v0 document: no version tag, missing collections, typed emails.
	legacy := `{"accounts":[{"id":"a1","first":"Jane","last":"Doe","email":"Jane@X.com","password":"secret1","verified":true}],"departments":null}`
	require.NoError(t, backend.Put(ctx, DocumentSlot, legacy))

	doc, err := s.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, models.SchemaVersion, doc.SchemaVersion)
	require.Len(t, doc.Accounts, 1)
	assert.Equal(t, "jane@x.com", doc.Accounts[0].Email)
	assert.Equal(t, models.RoleUser, doc.Accounts[0].Role)
	assert.NotNil(t, doc.Departments)
	assert.NotNil(t, doc.Employees)
	assert.NotNil(t, doc.Requests)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, doc))
	raw1, _, err := backend.Get(ctx, DocumentSlot)
	require.NoError(t, err)

	// Saving right after loading only moves the revision stamp; the
	// document content is byte-for-byte stable.
	doc2, err := s.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, doc2))
	raw2, _, err := backend.Get(ctx, DocumentSlot)
	require.NoError(t, err)

	var v1, v2 models.Document
	require.NoError(t, json.Unmarshal([]byte(raw1), &v1))
	require.NoError(t, json.Unmarshal([]byte(raw2), &v2))
	assert.Equal(t, v1.Revision+1, v2.Revision)

	v2.Revision = v1.Revision
	b1, err := json.Marshal(v1)
	require.NoError(t, err)
	b2, err := json.Marshal(v2)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestSave_RevisionConflict(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	// Two writers load the same revision, like two browser tabs.
	first, err := s.Load(ctx)
	require.NoError(t, err)
	second, err := s.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, first))

	err = s.Save(ctx, second)
	assert.ErrorIs(t, err, ErrConflict)

	// The losing writer can reload and retry.
	fresh, err := s.Load(ctx)
	require.NoError(t, err)
	assert.NoError(t, s.Save(ctx, fresh))
}

func TestTokenSlot(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, s.SetToken(ctx, "jane@x.com"))
	token, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jane@x.com", token)

	require.NoError(t, s.ClearToken(ctx))
	token, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestTokenSlot_IndependentOfDocument(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()

	_, err := s.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, s.SetToken(ctx, "jane@x.com"))

	raw1, _, err := backend.Get(ctx, DocumentSlot)
	require.NoError(t, err)

	require.NoError(t, s.ClearToken(ctx))

	raw2, _, err := backend.Get(ctx, DocumentSlot)
	require.NoError(t, err)
	assert.Equal(t, raw1, raw2)
}
