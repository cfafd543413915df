package platforms

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var errTargetNotCached = badger.ErrKeyNotFound

// targetCache memoizes resolved target-name -> url lookups so repeat
// scrapes don't hit the public directory pages every time. A nil db
// disables caching.
type targetCache struct {
	db *badger.DB
}

func (c targetCache) key(platform Platform, name string) []byte {
	return []byte(string(platform) + ":" + name)
}

func (c targetCache) get(ctx context.Context, platform Platform, name string) (string, error) {
	if c.db == nil {
		return "", errTargetNotCached
	}
	_, span := tracer.Start(ctx, "targetCache:get")
	defer span.End()
	span.SetAttributes(attribute.String("target", name))

	tx := c.db.NewTransaction(false)
	defer tx.Discard()

	item, err := tx.Get(c.key(platform, name))
	if err == badger.ErrKeyNotFound {
		return "", errTargetNotCached
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read item from badger")
		return "", err
	}
	resolved, err := item.ValueCopy(nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to copy cached item")
		return "", err
	}

	span.SetStatus(codes.Ok, "CACHE HIT")
	return string(resolved), nil
}

func (c targetCache) set(ctx context.Context, platform Platform, name, resolved string, ttl time.Duration) error {
	if c.db == nil {
		return nil
	}
	_, span := tracer.Start(ctx, "targetCache:set")
	defer span.End()

	err := c.db.Update(func(tx *badger.Txn) error {
		entry := badger.NewEntry(c.key(platform, name), []byte(resolved)).WithTTL(ttl)
		return tx.SetEntry(entry)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write cache entry")
	}
	return err
}
