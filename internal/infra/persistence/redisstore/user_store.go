// Package redisstore keeps credential documents as JSON strings in Redis,
// one key per login.
package redisstore

import (
	"context"
	"encoding/json"

	"authsvc/internal/domain/entity"
	"authsvc/internal/domain/repository"
	"authsvc/internal/errors"
	"authsvc/internal/infra/persistence/model"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces user keys when none is configured.
const DefaultKeyPrefix = "user:"

// Store is a CredentialStore over a Redis client.
type Store struct {
	rdb    *redis.Client
	prefix string
}

// Open parses a redis:// URL and connects.
func Open(url, prefix string) (*Store, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse redis url")
	}

	return New(redis.NewClient(opt), prefix), nil
}

// New wraps an existing client.
func New(rdb *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	return &Store{rdb: rdb, prefix: prefix}
}

var _ repository.CredentialStore = (*Store)(nil)

func (s *Store) Create(ctx context.Context, user *entity.User) error {
	payload, err := json.Marshal(model.NewUserDocument(user))
	if err != nil {
		return errors.Wrap(err, "failed to encode user document")
	}

	ok, err := s.rdb.SetNX(ctx, s.key(user.Login), payload, 0).Result()
	if err != nil {
		return errors.Wrap(err, "failed to create user document")
	}
	if !ok {
		return repository.ErrUserAlreadyExists
	}

	return nil
}

func (s *Store) Save(ctx context.Context, user *entity.User) error {
	payload, err := json.Marshal(model.NewUserDocument(user))
	if err != nil {
		return errors.Wrap(err, "failed to encode user document")
	}

	if err := s.rdb.Set(ctx, s.key(user.Login), payload, 0).Err(); err != nil {
		return errors.Wrap(err, "failed to save user document")
	}

	return nil
}

func (s *Store) FindByLogin(ctx context.Context, login string) (*entity.User, error) {
	data, err := s.rdb.Get(ctx, s.key(login)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to get user document")
	}

	var doc model.UserDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode user document")
	}

	return doc.ToEntity(login), nil
}

// Delete removes the key. DEL on a missing key reports zero and is not an error.
func (s *Store) Delete(ctx context.Context, login string) error {
	if err := s.rdb.Del(ctx, s.key(login)).Err(); err != nil {
		return errors.Wrap(err, "failed to delete user document")
	}

	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the client.
func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) key(login string) string {
	return s.prefix + login
}
