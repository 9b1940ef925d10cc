// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"authsvc/config"
	deliverycontext "authsvc/internal/delivery/context"
	"authsvc/internal/domain/entity"
	domainerrors "authsvc/internal/domain/errors"
	"authsvc/internal/domain/repository"
	"authsvc/internal/domain/service"
	"authsvc/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	publishTimeout = 3 * time.Second

	// Hashed once and compared against on unknown logins so that the
	// response time does not reveal whether the account exists.
	timingDummyPassword = "timing-equaliser-not-a-real-password"
)

// authService implements the AuthUsecase interface.
type authService struct {
	store           repository.CredentialStore
	hasher          service.PasswordHasher
	tokens          service.TokenIssuer
	events          service.EventPublisher
	validate        *validator.Validate
	rejectDuplicate bool
	logger          *slog.Logger
	now             func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	Store     repository.CredentialStore
	Hasher    service.PasswordHasher
	Tokens    service.TokenIssuer
	Events    service.EventPublisher
	Validator *validator.Validate `optional:"true"`
	Config    *config.Config
	Logger    *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	validate := params.Validator
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}

	rejectDuplicate := false
	if params.Config != nil && params.Config.Auth != nil {
		rejectDuplicate = params.Config.Auth.DuplicatePolicy == config.DuplicatePolicyReject
	}

	return &authService{
		store:           params.Store,
		hasher:          params.Hasher,
		tokens:          params.Tokens,
		events:          params.Events,
		validate:        validate,
		rejectDuplicate: rejectDuplicate,
		logger:          params.Logger,
		now:             time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register hashes the password and persists the user under its login.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) error {
	if input == nil {
		return domainerrors.ErrValidationFailed.WithDetails("missing registration input")
	}

	if err := srv.validateInput(input); err != nil {
		srv.log(ctx).Warn("Registration rejected", slog.String("login", input.Login), slog.Any("error", err))

		return err
	}

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Registration rejected", slog.String("login", input.Login), slog.Any("error", err))

		return err
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password", slog.String("login", input.Login), slog.Any("error", err))

		if _, ok := domainerrors.AsAppError(err); ok {
			return err
		}

		return errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	now := srv.now().UTC()
	user := &entity.User{
		Login:        input.Login,
		Email:        input.Email,
		FullName:     input.FullName,
		Gender:       input.Gender,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := srv.persist(ctx, user); err != nil {
		return err
	}

	srv.log(ctx).Info("User registered", slog.String("login", user.Login))
	srv.publish(ctx, entity.UserEventRegistered, user.Login)

	return nil
}

func (srv *authService) persist(ctx context.Context, user *entity.User) error {
	if !srv.rejectDuplicate {
		if err := srv.store.Save(ctx, user); err != nil {
			srv.log(ctx).Error("Failed to save user", slog.String("operation", "save"), slog.String("login", user.Login), slog.Any("error", err))

			return domainerrors.NewStoreExecuteError(err, "save")
		}

		return nil
	}

	err := srv.store.Create(ctx, user)
	if errors.Is(err, repository.ErrUserAlreadyExists) {
		srv.log(ctx).Warn("Registration rejected", slog.String("login", user.Login), slog.Any("error", err))

		return errors.Wrap(domainerrors.ErrUserAlreadyExists, "login already registered")
	}
	if err != nil {
		srv.log(ctx).Error("Failed to create user", slog.String("operation", "create"), slog.String("login", user.Login), slog.Any("error", err))

		return domainerrors.NewStoreExecuteError(err, "create")
	}

	return nil
}

// Login checks the password and issues a session token.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	if input == nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("missing login input")
	}

	if err := srv.validateInput(input); err != nil {
		srv.log(ctx).Warn("Login rejected", slog.String("login", input.Login), slog.Any("error", err))

		return nil, err
	}

	user, err := srv.store.FindByLogin(ctx, input.Login)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.hasher.Check(input.Password, srv.timingDummyHash())
		srv.log(ctx).Warn("Login failed", slog.String("login", input.Login), slog.String("reason", "unknown login"))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}
	if err != nil {
		srv.log(ctx).Error("Failed to load user", slog.String("operation", "find"), slog.String("login", input.Login), slog.Any("error", err))

		return nil, domainerrors.NewStoreExecuteError(err, "find")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("login", input.Login), slog.String("reason", "password mismatch"))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	token, err := srv.tokens.Issue(user.Login, srv.tokens.DefaultTTL())
	if err != nil {
		srv.log(ctx).Error("Failed to issue token", slog.String("login", input.Login), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrInternalError, err.Error())
	}

	srv.log(ctx).Info("User logged in", slog.String("login", user.Login))

	return &usecase.LoginOutput{Token: token}, nil
}

// Delete removes the user. Deleting an unknown login succeeds.
func (srv *authService) Delete(ctx context.Context, login string) error {
	if login == "" {
		return domainerrors.ErrValidationFailed.WithDetails("missing fields: id")
	}

	if err := srv.store.Delete(ctx, login); err != nil {
		srv.log(ctx).Error("Failed to delete user", slog.String("operation", "delete"), slog.String("login", login), slog.Any("error", err))

		return domainerrors.NewStoreExecuteError(err, "delete")
	}

	srv.log(ctx).Info("User deleted", slog.String("login", login))
	srv.publish(ctx, entity.UserEventDeleted, login)

	return nil
}

// VerifyToken validates a bearer token and reports whose it is.
func (srv *authService) VerifyToken(ctx context.Context, token string) (*usecase.TokenInfo, error) {
	claims, err := srv.tokens.Verify(token)
	switch {
	case errors.Is(err, service.ErrTokenExpired):
		srv.log(ctx).Debug("Token rejected", slog.String("reason", "expired"))

		return nil, errors.Wrap(domainerrors.ErrTokenExpired, err.Error())
	case err != nil:
		srv.log(ctx).Debug("Token rejected", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrTokenInvalid, err.Error())
	}

	info := &usecase.TokenInfo{Login: claims.Subject}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.UTC()
	}

	return info, nil
}

// validateInput runs struct tag validation and lists every missing field.
func (srv *authService) validateInput(input any) error {
	err := srv.validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(domainerrors.ErrValidationFailed, err.Error())
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, lowerFirst(fe.Field()))
	}

	return domainerrors.ErrValidationFailed.WithDetails("missing fields: " + strings.Join(fields, ", "))
}

func (srv *authService) timingDummyHash() string {
	srv.dummyOnce.Do(func() {
		hash, err := srv.hasher.Hash(timingDummyPassword)
		if err == nil {
			srv.dummyHash = hash
		}
	})

	return srv.dummyHash
}

// publish emits a lifecycle event. Failures are logged and never reach the caller.
func (srv *authService) publish(ctx context.Context, eventType entity.UserEventType, login string) {
	if srv.events == nil {
		return
	}

	event := &entity.UserEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Login:      login,
		OccurredAt: srv.now().UTC(),
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := srv.events.PublishUserEvent(pubCtx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish user event",
			slog.String("event_type", string(eventType)),
			slog.String("login", login),
			slog.Any("error", err),
		)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}

	return strings.ToLower(s[:1]) + s[1:]
}
