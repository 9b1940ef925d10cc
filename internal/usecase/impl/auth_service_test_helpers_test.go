package impl

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"authsvc/config"
	mockRepo "authsvc/internal/mocks/repository"
	mockSvc "authsvc/internal/mocks/service"
	"authsvc/internal/usecase"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(duplicatePolicy string) *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:      4,
			TokenTTL:        time.Hour,
			Issuer:          "authsvc",
			DuplicatePolicy: duplicatePolicy,
		},
	}
	cfg.SecretKey.Access = "test-secret"

	return cfg
}

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service usecase.AuthUsecase
	store   *mockRepo.MockCredentialStore
	hasher  *mockSvc.MockPasswordHasher
	tokens  *mockSvc.MockTokenIssuer
	events  *mockSvc.MockEventPublisher
}

func createTestAuthService(t *testing.T, duplicatePolicy string) authServiceFixtures {
	store := mockRepo.NewMockCredentialStore(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokens := mockSvc.NewMockTokenIssuer(t)
	events := mockSvc.NewMockEventPublisher(t)

	svc := NewAuthService(AuthServiceParams{
		Store:  store,
		Hasher: hasher,
		Tokens: tokens,
		Events: events,
		Config: newTestConfig(duplicatePolicy),
		Logger: newDiscardLogger(),
	})

	return authServiceFixtures{
		service: svc,
		store:   store,
		hasher:  hasher,
		tokens:  tokens,
		events:  events,
	}
}

func validRegisterInput() *usecase.RegisterInput {
	return &usecase.RegisterInput{
		Login:    "alice",
		Email:    "a@x.com",
		Password: "pw1",
		FullName: "Alice A",
		Gender:   "f",
	}
}
