// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"authsvc/internal/domain/entity"
	"authsvc/internal/domain/repository"
	"authsvc/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userRepository implements repository.CredentialStore using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a CredentialStore over the users table.
func NewUserRepository(db *gorm.DB) repository.CredentialStore {
	return &userRepository{db: db}
}

// Create inserts a new row and reports a taken login as ErrUserAlreadyExists.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	if err := repo.db.WithContext(ctx).Create(model.FromUserDomain(user)).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrUserAlreadyExists
		}

		return errors.Wrap(err, "failed to create user")
	}

	return nil
}

// Save replaces every column of the row keyed by login, inserting it if absent.
func (repo *userRepository) Save(ctx context.Context, user *entity.User) error {
	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "login"}},
			UpdateAll: true,
		}).
		Create(model.FromUserDomain(user)).Error
	if err != nil {
		return errors.Wrap(err, "failed to save user")
	}

	return nil
}

// FindByLogin retrieves a single user by login.
func (repo *userRepository) FindByLogin(ctx context.Context, login string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).Where("login = ?", login).First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by login")
	}

	return userM.ToDomain(), nil
}

// Delete removes the row. Zero affected rows is not an error.
func (repo *userRepository) Delete(ctx context.Context, login string) error {
	if err := repo.db.WithContext(ctx).Where("login = ?", login).Delete(&model.UserModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete user")
	}

	return nil
}
