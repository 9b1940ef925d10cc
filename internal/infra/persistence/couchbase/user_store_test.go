package couchbase

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"authsvc/internal/domain/repository"
	"authsvc/internal/errors"
	"authsvc/internal/infra/persistence/model"
	"authsvc/internal/infra/persistence/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCollection behaves like a KV collection, round-tripping documents
// through JSON the way the SDK transcoder does.
type memCollection struct {
	mu   sync.Mutex
	docs map[string][]byte
	fail error
}

func newMemCollection() *memCollection {
	return &memCollection{docs: make(map[string][]byte)}
}

func (m *memCollection) Insert(_ context.Context, id string, doc any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail != nil {
		return m.fail
	}
	if _, ok := m.docs[id]; ok {
		return errDocumentExists
	}

	return m.put(id, doc)
}

func (m *memCollection) Upsert(_ context.Context, id string, doc any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail != nil {
		return m.fail
	}

	return m.put(id, doc)
}

func (m *memCollection) Get(_ context.Context, id string, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail != nil {
		return m.fail
	}
	raw, ok := m.docs[id]
	if !ok {
		return errDocumentNotFound
	}

	return json.Unmarshal(raw, out)
}

func (m *memCollection) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail != nil {
		return m.fail
	}
	if _, ok := m.docs[id]; !ok {
		return errDocumentNotFound
	}
	delete(m.docs, id)

	return nil
}

func (m *memCollection) put(id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.docs[id] = raw

	return nil
}

func TestStore_Conformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) repository.CredentialStore {
		return &Store{coll: newMemCollection()}
	})
}

func TestStore_DocumentShape(t *testing.T) {
	coll := newMemCollection()
	store := &Store{coll: coll}

	require.NoError(t, store.Save(context.Background(), storetest.NewUser("alice")))

	var body map[string]any
	require.NoError(t, json.Unmarshal(coll.docs["alice"], &body))
	assert.Equal(t, model.DocumentTypeUser, body["type"])
	assert.Equal(t, "alice@x.com", body["email"])
	assert.Equal(t, "Full alice", body["fullName"])
	assert.Equal(t, "f", body["gender"])
	assert.Equal(t, "$2a$04$hash-for-alice", body["password"])
}

func TestStore_LegacyDocumentWithoutLogin(t *testing.T) {
	coll := newMemCollection()
	coll.docs["legacy"] = []byte(`{"type":"user","email":"l@x.com","fullName":"L","gender":"m","password":"$2a$10$abc"}`)
	store := &Store{coll: coll}

	got, err := store.FindByLogin(context.Background(), "legacy")
	require.NoError(t, err)
	assert.Equal(t, "legacy", got.Login)
	assert.Equal(t, "$2a$10$abc", got.PasswordHash)
}

func TestStore_BackendFailure(t *testing.T) {
	coll := newMemCollection()
	coll.fail = errors.New("timeout")
	store := &Store{coll: coll}
	ctx := context.Background()

	err := store.Save(ctx, storetest.NewUser("alice"))
	require.Error(t, err)

	_, err = store.FindByLogin(ctx, "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrUserNotFound)

	err = store.Delete(ctx, "alice")
	require.Error(t, err)
}

func TestConnection_CloseWithoutCluster(t *testing.T) {
	assert.NoError(t, (&Connection{}).Close())
}
