package documentstore

import (
	"context"
	"testing"

	"authsvc/internal/domain/repository"
	"authsvc/internal/infra/persistence/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/docstore/memdocstore"
)

func newMemStore(t *testing.T) repository.CredentialStore {
	t.Helper()

	coll, err := memdocstore.OpenCollection("Login", nil)
	require.NoError(t, err)

	store := New(coll)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestUserStore_Conformance(t *testing.T) {
	storetest.Run(t, newMemStore)
}

func TestOpen_MemURL(t *testing.T) {
	store, err := Open(context.Background(), "mem://users/Login")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, storetest.NewUser("alice")))

	got, err := store.FindByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", got.Email)
}

func TestOpen_UnknownScheme(t *testing.T) {
	_, err := Open(context.Background(), "nosuch://users/Login")
	assert.Error(t, err)
}
