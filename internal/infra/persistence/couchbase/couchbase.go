// Package couchbase stores credential documents in a Couchbase bucket,
// keyed by login, in the bucket's default collection.
package couchbase

import (
	"context"
	"time"

	"authsvc/config"
	"authsvc/internal/errors"

	"github.com/couchbase/gocb/v2"
)

// collection is the subset of *gocb.Collection the store needs.
type collection interface {
	Insert(ctx context.Context, id string, doc any) error
	Upsert(ctx context.Context, id string, doc any) error
	Get(ctx context.Context, id string, out any) error
	Remove(ctx context.Context, id string) error
}

// Connection owns the cluster handle behind a store.
type Connection struct {
	cluster *gocb.Cluster
	coll    collection
}

// Connect opens the cluster and waits for the bucket to become ready.
func Connect(ctx context.Context, cfg *config.CouchbaseConfig) (*Connection, error) {
	cluster, err := gocb.Connect(cfg.ConnectionString, gocb.ClusterOptions{
		Authenticator: gocb.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		},
		TimeoutsConfig: gocb.TimeoutsConfig{
			KVTimeout:      cfg.Timeout,
			ConnectTimeout: cfg.Timeout,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to couchbase")
	}

	bucket := cluster.Bucket(cfg.BucketName)
	if err := bucket.WaitUntilReady(readyTimeout(cfg.Timeout), &gocb.WaitUntilReadyOptions{Context: ctx}); err != nil {
		_ = cluster.Close(nil)

		return nil, errors.Wrapf(err, "couchbase bucket %q not ready", cfg.BucketName)
	}

	return &Connection{
		cluster: cluster,
		coll:    &gocbCollection{coll: bucket.DefaultCollection()},
	}, nil
}

// Close shuts the cluster down.
func (c *Connection) Close() error {
	if c.cluster == nil {
		return nil
	}

	return c.cluster.Close(nil)
}

func readyTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return 5 * time.Second
	}

	return 2 * timeout
}

type gocbCollection struct {
	coll *gocb.Collection
}

func (g *gocbCollection) Insert(ctx context.Context, id string, doc any) error {
	_, err := g.coll.Insert(id, doc, &gocb.InsertOptions{Context: ctx})
	if errors.Is(err, gocb.ErrDocumentExists) {
		return errDocumentExists
	}

	return err
}

func (g *gocbCollection) Upsert(ctx context.Context, id string, doc any) error {
	_, err := g.coll.Upsert(id, doc, &gocb.UpsertOptions{Context: ctx})

	return err
}

func (g *gocbCollection) Get(ctx context.Context, id string, out any) error {
	res, err := g.coll.Get(id, &gocb.GetOptions{Context: ctx})
	if err != nil {
		if errors.Is(err, gocb.ErrDocumentNotFound) {
			return errDocumentNotFound
		}

		return err
	}

	return res.Content(out)
}

func (g *gocbCollection) Remove(ctx context.Context, id string) error {
	_, err := g.coll.Remove(id, &gocb.RemoveOptions{Context: ctx})
	if errors.Is(err, gocb.ErrDocumentNotFound) {
		return errDocumentNotFound
	}

	return err
}
