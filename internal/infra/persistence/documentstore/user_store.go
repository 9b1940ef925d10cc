// Package documentstore stores credential records in any gocloud.dev docstore
// collection, selected by URL (mem:// or mongo://).
package documentstore

import (
	"context"
	"time"

	"authsvc/internal/domain/entity"
	"authsvc/internal/domain/repository"
	"authsvc/internal/errors"

	"gocloud.dev/docstore"
	_ "gocloud.dev/docstore/memdocstore"   // mem://
	_ "gocloud.dev/docstore/mongodocstore" // mongo://
	"gocloud.dev/gcerrors"
)

// userRecord is the docstore shape of a user. Login is the collection key
// field, so URLs must name it (mem://users/Login, mongo://db/users?id_field=Login).
type userRecord struct {
	Type      string
	Login     string
	Email     string
	FullName  string
	Gender    string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const recordType = "user"

// Store is a CredentialStore over a docstore collection.
type Store struct {
	coll *docstore.Collection
}

// Open opens the collection at url and returns a store over it.
func Open(ctx context.Context, url string) (*Store, error) {
	coll, err := docstore.OpenCollection(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open docstore collection %q", url)
	}

	return &Store{coll: coll}, nil
}

// New wraps an already opened collection.
func New(coll *docstore.Collection) *Store {
	return &Store{coll: coll}
}

var _ repository.CredentialStore = (*Store)(nil)

func (s *Store) Create(ctx context.Context, user *entity.User) error {
	if err := s.coll.Create(ctx, toRecord(user)); err != nil {
		if gcerrors.Code(err) == gcerrors.AlreadyExists {
			return repository.ErrUserAlreadyExists
		}

		return errors.Wrap(err, "failed to create user document")
	}

	return nil
}

func (s *Store) Save(ctx context.Context, user *entity.User) error {
	if err := s.coll.Put(ctx, toRecord(user)); err != nil {
		return errors.Wrap(err, "failed to put user document")
	}

	return nil
}

func (s *Store) FindByLogin(ctx context.Context, login string) (*entity.User, error) {
	rec := &userRecord{Login: login}
	if err := s.coll.Get(ctx, rec); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to get user document")
	}

	return rec.toEntity(), nil
}

func (s *Store) Delete(ctx context.Context, login string) error {
	if err := s.coll.Delete(ctx, &userRecord{Login: login}); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil
		}

		return errors.Wrap(err, "failed to delete user document")
	}

	return nil
}

// Close releases the underlying collection.
func (s *Store) Close() error {
	return s.coll.Close()
}

func toRecord(user *entity.User) *userRecord {
	return &userRecord{
		Type:      recordType,
		Login:     user.Login,
		Email:     user.Email,
		FullName:  user.FullName,
		Gender:    user.Gender,
		Password:  user.PasswordHash,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func (r *userRecord) toEntity() *entity.User {
	return &entity.User{
		Login:        r.Login,
		Email:        r.Email,
		FullName:     r.FullName,
		Gender:       r.Gender,
		PasswordHash: r.Password,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
