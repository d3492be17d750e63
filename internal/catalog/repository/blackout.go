package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	catalogerrors "bouncebook/internal/catalog/errors"
	"bouncebook/pkg/config"
	"bouncebook/pkg/model"
)

const BlackoutCollectionName = "Blackout_dates"

type BlackoutRepository interface {
	Create(ctx context.Context, blackout *model.BlackoutDate) error
	FindByID(ctx context.Context, id string) (*model.BlackoutDate, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.BlackoutDate, error)
	Count(ctx context.Context) (int64, error)
	FindCoveringRange(ctx context.Context, startDate, endDate string) ([]*model.BlackoutDate, error)
	Delete(ctx context.Context, id string) error
}

type mongoBlackoutRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBlackoutRepository(cfg *config.Config) BlackoutRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoBlackoutRepository{
		cfg:        cfg,
		collection: db.Collection(BlackoutCollectionName),
	}
}

func (r *mongoBlackoutRepository) Create(ctx context.Context, blackout *model.BlackoutDate) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	blackout.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, blackout)
	if err != nil {
		return fmt.Errorf("failed to create blackout: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		blackout.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBlackoutRepository) FindByID(ctx context.Context, id string) (*model.BlackoutDate, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	var blackout model.BlackoutDate
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&blackout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find blackout: %w", err)
	}

	return &blackout, nil
}

func (r *mongoBlackoutRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.BlackoutDate, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_date", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find blackouts: %w", err)
	}
	defer cursor.Close(ctx)

	var blackouts []*model.BlackoutDate
	if err = cursor.All(ctx, &blackouts); err != nil {
		return nil, fmt.Errorf("failed to decode blackouts: %w", err)
	}

	return blackouts, nil
}

func (r *mongoBlackoutRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count blackouts: %w", err)
	}
	return count, nil
}

// FindCoveringRange returns blackouts intersecting the inclusive date
// range. Dates are 2006-01-02 strings, so lexicographic comparison in the
// query matches chronological order.
func (r *mongoBlackoutRepository) FindCoveringRange(ctx context.Context, startDate, endDate string) ([]*model.BlackoutDate, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"start_date": bson.M{"$lte": endDate},
		"end_date":   bson.M{"$gte": startDate},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find blackouts in range: %w", err)
	}
	defer cursor.Close(ctx)

	var blackouts []*model.BlackoutDate
	if err = cursor.All(ctx, &blackouts); err != nil {
		return nil, fmt.Errorf("failed to decode blackouts: %w", err)
	}

	return blackouts, nil
}

func (r *mongoBlackoutRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete blackout: %w", err)
	}

	if result.DeletedCount == 0 {
		return catalogerrors.ErrNotFound
	}

	return nil
}
