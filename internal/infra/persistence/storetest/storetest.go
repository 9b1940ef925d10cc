// Package storetest is a conformance suite shared by every CredentialStore driver.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"authsvc/internal/domain/entity"
	"authsvc/internal/domain/repository"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty store for a single subtest.
type Factory func(t *testing.T) repository.CredentialStore

// NewUser builds a fully populated user with a fixed, second-aligned timestamp.
func NewUser(login string) *entity.User {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	return &entity.User{
		Login:        login,
		Email:        login + "@x.com",
		FullName:     "Full " + login,
		Gender:       "f",
		PasswordHash: "$2a$04$hash-for-" + login,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
}

// Run exercises the full CredentialStore contract.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("FindMissing", func(t *testing.T) { testFindMissing(t, newStore(t)) })
	t.Run("SaveThenFind", func(t *testing.T) { testSaveThenFind(t, newStore(t)) })
	t.Run("SaveOverwrites", func(t *testing.T) { testSaveOverwrites(t, newStore(t)) })
	t.Run("CreateRejectsDuplicate", func(t *testing.T) { testCreateRejectsDuplicate(t, newStore(t)) })
	t.Run("DeleteIsIdempotent", func(t *testing.T) { testDeleteIsIdempotent(t, newStore(t)) })
	t.Run("KeysAreIndependent", func(t *testing.T) { testKeysAreIndependent(t, newStore(t)) })
	t.Run("ConcurrentWrites", func(t *testing.T) { testConcurrentWrites(t, newStore(t)) })
}

func assertSameUser(t *testing.T, want, got *entity.User) {
	t.Helper()

	require.NotNil(t, got)
	assert.Equal(t, want.Login, got.Login)
	assert.Equal(t, want.Email, got.Email)
	assert.Equal(t, want.FullName, got.FullName)
	assert.Equal(t, want.Gender, got.Gender)
	assert.Equal(t, want.PasswordHash, got.PasswordHash)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "createdAt: want %s got %s", want.CreatedAt, got.CreatedAt)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "updatedAt: want %s got %s", want.UpdatedAt, got.UpdatedAt)
}

func testFindMissing(t *testing.T, store repository.CredentialStore) {
	user, err := store.FindByLogin(context.Background(), "nobody")
	assert.Nil(t, user)
	assert.True(t, errors.Is(err, repository.ErrUserNotFound), "got %v", err)
}

func testSaveThenFind(t *testing.T, store repository.CredentialStore) {
	ctx := context.Background()
	want := NewUser("alice")

	require.NoError(t, store.Save(ctx, want))

	got, err := store.FindByLogin(ctx, "alice")
	require.NoError(t, err)
	assertSameUser(t, want, got)
}

func testSaveOverwrites(t *testing.T, store repository.CredentialStore) {
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, NewUser("alice")))

	replacement := NewUser("alice")
	replacement.Email = "new@x.com"
	replacement.PasswordHash = "$2a$04$other"
	replacement.UpdatedAt = replacement.UpdatedAt.Add(time.Hour)
	require.NoError(t, store.Save(ctx, replacement))

	got, err := store.FindByLogin(ctx, "alice")
	require.NoError(t, err)
	assertSameUser(t, replacement, got)
}

func testCreateRejectsDuplicate(t *testing.T, store repository.CredentialStore) {
	ctx := context.Background()
	original := NewUser("bob")

	require.NoError(t, store.Create(ctx, original))

	dup := NewUser("bob")
	dup.Email = "intruder@x.com"
	err := store.Create(ctx, dup)
	assert.True(t, errors.Is(err, repository.ErrUserAlreadyExists), "got %v", err)

	got, err := store.FindByLogin(ctx, "bob")
	require.NoError(t, err)
	assertSameUser(t, original, got)
}

func testDeleteIsIdempotent(t *testing.T, store repository.CredentialStore) {
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, NewUser("carol")))
	require.NoError(t, store.Delete(ctx, "carol"))
	require.NoError(t, store.Delete(ctx, "carol"))
	require.NoError(t, store.Delete(ctx, "never-existed"))

	_, err := store.FindByLogin(ctx, "carol")
	assert.True(t, errors.Is(err, repository.ErrUserNotFound), "got %v", err)
}

func testKeysAreIndependent(t *testing.T, store repository.CredentialStore) {
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, NewUser("dave")))
	require.NoError(t, store.Save(ctx, NewUser("erin")))
	require.NoError(t, store.Delete(ctx, "dave"))

	got, err := store.FindByLogin(ctx, "erin")
	require.NoError(t, err)
	assert.Equal(t, "erin", got.Login)
}

func testConcurrentWrites(t *testing.T, store repository.CredentialStore) {
	ctx := context.Background()
	const workers = 16

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.Save(ctx, NewUser(fmt.Sprintf("user-%d", i)))
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	for i := range workers {
		_, err := store.FindByLogin(ctx, fmt.Sprintf("user-%d", i))
		require.NoError(t, err)
	}
}
