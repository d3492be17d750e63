package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	blockserrors "bouncebook/internal/blocks/errors"
	"bouncebook/pkg/config"
	"bouncebook/pkg/model"
)

const LockCollectionName = "Block_locks"

// BlockLockRepository provides per-resource advisory locks. A lock is a
// document whose _id encodes the resource; the unique index on _id is the
// arbiter, so of two concurrent writers exactly one insert succeeds.
type BlockLockRepository interface {
	Acquire(ctx context.Context, resourceType model.ResourceType, resourceID string) (string, error)
	AcquireAll(ctx context.Context, keys []ResourceKey) ([]string, error)
	Release(ctx context.Context, lockID string) error
	ReleaseAll(ctx context.Context, lockIDs []string)
}

type ResourceKey struct {
	Type model.ResourceType
	ID   string
}

type mongoBlockLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewBlockLockRepository(cfg *config.Config) BlockLockRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoBlockLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

func LockID(resourceType model.ResourceType, resourceID string) string {
	return fmt.Sprintf("block_lock_%s_%s", resourceType, resourceID)
}

// Acquire inserts the lock document. On a duplicate key it attempts to
// steal the lock if the holder's TTL has lapsed, covering crashed writers
// that never released. A live holder yields ErrLockHeld immediately; the
// caller must not wait.
func (r *mongoBlockLockRepository) Acquire(ctx context.Context, resourceType model.ResourceType, resourceID string) (string, error) {
	now := time.Now()
	lock := &model.BlockLock{
		ID:        LockID(resourceType, resourceID),
		ExpiresAt: now.Add(r.cfg.BlockLockTTL),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err == nil {
		return lock.ID, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return "", fmt.Errorf("failed to acquire block lock: %w", err)
	}

	// Steal path: replace only if the existing lock has expired.
	filter := bson.M{"_id": lock.ID, "expires_at": bson.M{"$lt": now}}
	result, err := r.collection.ReplaceOne(ctx, filter, lock)
	if err != nil {
		return "", fmt.Errorf("failed to steal expired block lock: %w", err)
	}
	if result.ModifiedCount == 0 {
		return "", blockserrors.ErrLockHeld
	}

	return lock.ID, nil
}

// AcquireAll takes locks for every resource in a deterministic order. On
// the first failure it releases what it already holds and returns the
// error, so two requests locking overlapping resource sets cannot deadlock.
func (r *mongoBlockLockRepository) AcquireAll(ctx context.Context, keys []ResourceKey) ([]string, error) {
	ids := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		id := LockID(k.Type, k.ID)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	acquired := make([]string, 0, len(ids))
	for _, id := range ids {
		now := time.Now()
		lock := &model.BlockLock{
			ID:        id,
			ExpiresAt: now.Add(r.cfg.BlockLockTTL),
			CreatedAt: now,
		}

		_, err := r.collection.InsertOne(ctx, lock)
		if err != nil {
			if !mongo.IsDuplicateKeyError(err) {
				r.ReleaseAll(ctx, acquired)
				return nil, fmt.Errorf("failed to acquire block lock: %w", err)
			}

			filter := bson.M{"_id": id, "expires_at": bson.M{"$lt": now}}
			result, replaceErr := r.collection.ReplaceOne(ctx, filter, lock)
			if replaceErr != nil {
				r.ReleaseAll(ctx, acquired)
				return nil, fmt.Errorf("failed to steal expired block lock: %w", replaceErr)
			}
			if result.ModifiedCount == 0 {
				r.ReleaseAll(ctx, acquired)
				return nil, blockserrors.ErrLockHeld
			}
		}

		acquired = append(acquired, id)
	}

	return acquired, nil
}

func (r *mongoBlockLockRepository) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}

func (r *mongoBlockLockRepository) ReleaseAll(ctx context.Context, lockIDs []string) {
	for _, id := range lockIDs {
		if err := r.Release(ctx, id); err != nil {
			r.cfg.Log.Warn("Failed to release block lock", "lock_id", id, "error", err)
		}
	}
}
