package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bouncebook/pkg/config"
	mongotx "bouncebook/pkg/db/mongo"
	"bouncebook/pkg/model"
)

const (
	CollectionName = "Booking_blocks"
)

type mongoBlockRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type BlockRepository interface {
	InsertMany(ctx context.Context, blocks []*model.BookingBlock) error
	FindByOwner(ctx context.Context, ownerType model.OwnerType, ownerRef string) ([]*model.BookingBlock, error)
	DeleteByOwner(ctx context.Context, ownerType model.OwnerType, ownerRef string) (int64, error)
	TransferOwner(ctx context.Context, fromType model.OwnerType, fromRef string, toType model.OwnerType, toRef string) (int64, error)
	FindActiveOverlapping(ctx context.Context, resourceType model.ResourceType, resourceID string, interval model.Interval, now time.Time, excludeOwnerRef string) ([]*model.BookingBlock, error)
	DeleteExpiredHoldBlocks(ctx context.Context, now time.Time) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBlockRepository(cfg *config.Config) BlockRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoBlockRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo.Client),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context unchanged
// with a no-op cancel function, as we cannot wrap SessionContext without breaking
// transaction semantics.
func (r *mongoBlockRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBlockRepository) InsertMany(ctx context.Context, blocks []*model.BookingBlock) error {
	if len(blocks) == 0 {
		return nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]any, 0, len(blocks))
	for _, b := range blocks {
		b.CreatedAt = now
		docs = append(docs, b)
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to insert booking blocks: %w", err)
	}

	for i, id := range result.InsertedIDs {
		if oid, ok := id.(primitive.ObjectID); ok {
			blocks[i].ID = oid.Hex()
		}
	}
	return nil
}

func (r *mongoBlockRepository) FindByOwner(ctx context.Context, ownerType model.OwnerType, ownerRef string) ([]*model.BookingBlock, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"owner_type": ownerType, "owner_ref": ownerRef}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find blocks by owner: %w", err)
	}
	defer cursor.Close(ctx)

	var blocks []*model.BookingBlock
	if err = cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("failed to decode blocks: %w", err)
	}

	return blocks, nil
}

func (r *mongoBlockRepository) DeleteByOwner(ctx context.Context, ownerType model.OwnerType, ownerRef string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"owner_type": ownerType, "owner_ref": ownerRef}
	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete blocks by owner: %w", err)
	}

	return result.DeletedCount, nil
}

// TransferOwner re-stamps every block owned by (fromType, fromRef) to the
// new owner and clears the expiry, so hold blocks become permanent booking
// blocks without ever leaving a gap another writer could claim.
func (r *mongoBlockRepository) TransferOwner(ctx context.Context, fromType model.OwnerType, fromRef string, toType model.OwnerType, toRef string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"owner_type": fromType, "owner_ref": fromRef}
	update := bson.M{
		"$set":   bson.M{"owner_type": toType, "owner_ref": toRef},
		"$unset": bson.M{"expires_at": ""},
	}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to transfer block ownership: %w", err)
	}

	return result.ModifiedCount, nil
}

// FindActiveOverlapping returns blocks on the resource that intersect the
// half-open interval and still occupy it at the given instant. The query
// narrows by overlap; liveness is settled by BookingBlock.Active after
// decode, which is what makes hold expiry lazy: nothing has to delete a
// hold for its capacity to free up.
func (r *mongoBlockRepository) FindActiveOverlapping(
	ctx context.Context,
	resourceType model.ResourceType,
	resourceID string,
	interval model.Interval,
	now time.Time,
	excludeOwnerRef string,
) ([]*model.BookingBlock, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"resource_type": resourceType,
		"resource_id":   resourceID,
		"start":         bson.M{"$lt": interval.End},
		"end":           bson.M{"$gt": interval.Start},
	}
	if excludeOwnerRef != "" {
		filter["owner_ref"] = bson.M{"$ne": excludeOwnerRef}
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping blocks: %w", err)
	}
	defer cursor.Close(ctx)

	var blocks []*model.BookingBlock
	if err = cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("failed to decode blocks: %w", err)
	}

	active := blocks[:0]
	for _, b := range blocks {
		if b.Active(now) {
			active = append(active, b)
		}
	}

	return active, nil
}

func (r *mongoBlockRepository) DeleteExpiredHoldBlocks(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"owner_type": model.OwnerHold,
		"expires_at": bson.M{"$lte": now},
	}
	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired hold blocks: %w", err)
	}

	return result.DeletedCount, nil
}

func (r *mongoBlockRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
