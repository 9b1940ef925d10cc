// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"authsvc/internal/domain/entity"
)

var (
	// ErrUserNotFound is returned by FindByLogin when no record exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists is returned by Create when the login is taken.
	ErrUserAlreadyExists = errors.New("user already exists")
)

// CredentialStore persists user records keyed by login.
// Implementations are safe for concurrent use and are shared process-wide.
type CredentialStore interface {
	// Create inserts user and fails with ErrUserAlreadyExists if the login is taken.
	Create(ctx context.Context, user *entity.User) error

	// Save inserts or fully replaces the record for user.Login.
	Save(ctx context.Context, user *entity.User) error

	// FindByLogin returns ErrUserNotFound when no record exists.
	FindByLogin(ctx context.Context, login string) (*entity.User, error)

	// Delete removes the record. Deleting a missing login is not an error.
	Delete(ctx context.Context, login string) error
}
