package persistence

import (
	"context"
	"log/slog"
	"testing"

	"authsvc/config"
	"authsvc/internal/infra/persistence/documentstore"
	"authsvc/internal/infra/persistence/storetest"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func newParams(t *testing.T, cfg *config.Config) (Params, *fxtest.Lifecycle) {
	t.Helper()

	lc := fxtest.NewLifecycle(t)

	return Params{Lifecycle: lc, Config: cfg, Logger: slog.New(slog.DiscardHandler)}, lc
}

func TestNewCredentialStore_Docstore(t *testing.T) {
	cfg := &config.Config{Store: &config.StoreConfig{Driver: config.StoreDriverDocstore, URL: "mem://users/Login"}}
	params, lc := newParams(t, cfg)

	store, err := NewCredentialStore(params)
	require.NoError(t, err)
	assert.IsType(t, &documentstore.Store{}, store)

	lc.RequireStart()
	defer lc.RequireStop()

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, storetest.NewUser("alice")))
	got, err := store.FindByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Login)
}

func TestNewCredentialStore_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Store: &config.StoreConfig{Driver: config.StoreDriverRedis},
		Redis: &config.RedisConfig{URL: "redis://" + mr.Addr()},
	}
	params, lc := newParams(t, cfg)

	store, err := NewCredentialStore(params)
	require.NoError(t, err)

	lc.RequireStart()
	defer lc.RequireStop()

	require.NoError(t, store.Save(context.Background(), storetest.NewUser("bob")))
	assert.True(t, mr.Exists("user:bob"))
}

func TestNewCredentialStore_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: &config.StoreConfig{Driver: "etcd"}}
	params, _ := newParams(t, cfg)

	_, err := NewCredentialStore(params)
	assert.ErrorContains(t, err, "unknown store driver")
}

func TestNewCredentialStore_BadDocstoreURL(t *testing.T) {
	cfg := &config.Config{Store: &config.StoreConfig{Driver: config.StoreDriverDocstore, URL: "nosuch://x/Login"}}
	params, _ := newParams(t, cfg)

	_, err := NewCredentialStore(params)
	assert.Error(t, err)
}
