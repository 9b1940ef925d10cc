package redisstore

import (
	"context"
	"encoding/json"
	"testing"

	"authsvc/internal/domain/repository"
	"authsvc/internal/infra/persistence/model"
	"authsvc/internal/infra/persistence/storetest"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store := New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")
	t.Cleanup(func() { _ = store.Close() })

	return store, mr
}

func TestStore_Conformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) repository.CredentialStore {
		store, _ := newTestStore(t)

		return store
	})
}

func TestStore_DocumentLayout(t *testing.T) {
	store, mr := newTestStore(t)

	require.NoError(t, store.Save(context.Background(), storetest.NewUser("alice")))

	raw, err := mr.Get("user:alice")
	require.NoError(t, err)

	var doc model.UserDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, model.DocumentTypeUser, doc.Type)
	assert.Equal(t, "alice@x.com", doc.Email)
	assert.Equal(t, "Full alice", doc.FullName)
	assert.Equal(t, "$2a$04$hash-for-alice", doc.Password)
}

func TestStore_CustomPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	store := New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "auth:users:")
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Save(context.Background(), storetest.NewUser("bob")))
	assert.True(t, mr.Exists("auth:users:bob"))
	assert.False(t, mr.Exists("user:bob"))
}

func TestStore_CorruptDocument(t *testing.T) {
	store, mr := newTestStore(t)
	require.NoError(t, mr.Set("user:broken", "{not json"))

	_, err := store.FindByLogin(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrUserNotFound)
}

func TestOpen(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := Open("redis://"+mr.Addr()+"/0", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Ping(context.Background()))

	_, err = Open("::bad::", "")
	assert.Error(t, err)
}
