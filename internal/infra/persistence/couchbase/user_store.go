package couchbase

import (
	"context"

	"authsvc/internal/domain/entity"
	"authsvc/internal/domain/repository"
	"authsvc/internal/errors"
	"authsvc/internal/infra/persistence/model"
)

var (
	errDocumentExists   = errors.New("couchbase: document exists")
	errDocumentNotFound = errors.New("couchbase: document not found")
)

// Store is a CredentialStore over a Couchbase collection.
type Store struct {
	coll collection
}

// NewStore returns a store bound to the connection's default collection.
func NewStore(conn *Connection) *Store {
	return &Store{coll: conn.coll}
}

var _ repository.CredentialStore = (*Store)(nil)

func (s *Store) Create(ctx context.Context, user *entity.User) error {
	if err := s.coll.Insert(ctx, user.Login, model.NewUserDocument(user)); err != nil {
		if errors.Is(err, errDocumentExists) {
			return repository.ErrUserAlreadyExists
		}

		return errors.Wrap(err, "failed to insert user document")
	}

	return nil
}

func (s *Store) Save(ctx context.Context, user *entity.User) error {
	if err := s.coll.Upsert(ctx, user.Login, model.NewUserDocument(user)); err != nil {
		return errors.Wrap(err, "failed to upsert user document")
	}

	return nil
}

func (s *Store) FindByLogin(ctx context.Context, login string) (*entity.User, error) {
	var doc model.UserDocument
	if err := s.coll.Get(ctx, login, &doc); err != nil {
		if errors.Is(err, errDocumentNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to get user document")
	}

	return doc.ToEntity(login), nil
}

func (s *Store) Delete(ctx context.Context, login string) error {
	if err := s.coll.Remove(ctx, login); err != nil {
		if errors.Is(err, errDocumentNotFound) {
			return nil
		}

		return errors.Wrap(err, "failed to remove user document")
	}

	return nil
}
