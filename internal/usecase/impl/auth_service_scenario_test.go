package impl

import (
	"context"
	"testing"
	"time"

	"authsvc/config"
	domainerrors "authsvc/internal/domain/errors"
	"authsvc/internal/domain/repository"
	"authsvc/internal/infra/auth"
	"authsvc/internal/infra/persistence/documentstore"
	mockSvc "authsvc/internal/mocks/service"
	"authsvc/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gocloud.dev/docstore/memdocstore"
)

type scenario struct {
	service usecase.AuthUsecase
	store   repository.CredentialStore
}

func newScenario(t *testing.T, duplicatePolicy string) scenario {
	t.Helper()

	coll, err := memdocstore.OpenCollection("Login", nil)
	require.NoError(t, err)
	store := documentstore.New(coll)
	t.Cleanup(func() { _ = store.Close() })

	cfg := newTestConfig(duplicatePolicy)
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	events := mockSvc.NewMockEventPublisher(t)
	events.EXPECT().PublishUserEvent(mock.Anything, mock.Anything).Return(nil).Maybe()

	svc := NewAuthService(AuthServiceParams{
		Store:  store,
		Hasher: auth.NewBcryptHasher(cfg),
		Tokens: tokens,
		Events: events,
		Config: cfg,
		Logger: newDiscardLogger(),
	})

	return scenario{service: svc, store: store}
}

func TestScenario_RegisterLoginDelete(t *testing.T) {
	s := newScenario(t, config.DuplicatePolicyOverwrite)
	ctx := context.Background()

	require.NoError(t, s.service.Register(ctx, validRegisterInput()))

	stored, err := s.store.FindByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", stored.PasswordHash)
	assert.Equal(t, "a@x.com", stored.Email)

	out, err := s.service.Login(ctx, &usecase.LoginInput{Login: "alice", Password: "pw1"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)

	info, err := s.service.VerifyToken(ctx, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", info.Login)
	assert.WithinDuration(t, time.Now().Add(time.Hour), info.ExpiresAt, time.Minute)

	_, err = s.service.Login(ctx, &usecase.LoginInput{Login: "alice", Password: "nope"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	require.NoError(t, s.service.Delete(ctx, "alice"))
	require.NoError(t, s.service.Delete(ctx, "alice"))

	_, err = s.service.Login(ctx, &usecase.LoginInput{Login: "alice", Password: "pw1"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestScenario_SaltedHashes(t *testing.T) {
	s := newScenario(t, config.DuplicatePolicyOverwrite)
	ctx := context.Background()

	first := validRegisterInput()
	second := validRegisterInput()
	second.Login = "bob"

	require.NoError(t, s.service.Register(ctx, first))
	require.NoError(t, s.service.Register(ctx, second))

	a, err := s.store.FindByLogin(ctx, "alice")
	require.NoError(t, err)
	b, err := s.store.FindByLogin(ctx, "bob")
	require.NoError(t, err)
	assert.NotEqual(t, a.PasswordHash, b.PasswordHash)
}

func TestScenario_MissingFieldPersistsNothing(t *testing.T) {
	s := newScenario(t, config.DuplicatePolicyOverwrite)
	ctx := context.Background()

	input := validRegisterInput()
	input.Email = ""
	err := s.service.Register(ctx, input)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	_, err = s.store.FindByLogin(ctx, "alice")
	assert.True(t, errors.Is(err, repository.ErrUserNotFound))
}

func TestScenario_OverwritePolicyReplacesPassword(t *testing.T) {
	s := newScenario(t, config.DuplicatePolicyOverwrite)
	ctx := context.Background()

	require.NoError(t, s.service.Register(ctx, validRegisterInput()))

	again := validRegisterInput()
	again.Password = "pw2"
	require.NoError(t, s.service.Register(ctx, again))

	_, err := s.service.Login(ctx, &usecase.LoginInput{Login: "alice", Password: "pw1"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	_, err = s.service.Login(ctx, &usecase.LoginInput{Login: "alice", Password: "pw2"})
	assert.NoError(t, err)
}

func TestScenario_RejectPolicyKeepsOriginal(t *testing.T) {
	s := newScenario(t, config.DuplicatePolicyReject)
	ctx := context.Background()

	require.NoError(t, s.service.Register(ctx, validRegisterInput()))

	again := validRegisterInput()
	again.Password = "pw2"
	err := s.service.Register(ctx, again)
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))

	_, err = s.service.Login(ctx, &usecase.LoginInput{Login: "alice", Password: "pw1"})
	assert.NoError(t, err)
}
