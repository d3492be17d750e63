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

const CrewCollectionName = "Crews"

type CrewRepository interface {
	Create(ctx context.Context, crew *model.Crew) error
	FindByID(ctx context.Context, id string) (*model.Crew, error)
	FindActive(ctx context.Context) ([]*model.Crew, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Crew, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, crew *model.Crew) error
	Delete(ctx context.Context, id string) error
}

type mongoCrewRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCrewRepository(cfg *config.Config) CrewRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoCrewRepository{
		cfg:        cfg,
		collection: db.Collection(CrewCollectionName),
	}
}

func (r *mongoCrewRepository) Create(ctx context.Context, crew *model.Crew) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	crew.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, crew)
	if err != nil {
		return fmt.Errorf("failed to create crew: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		crew.ID = oid.Hex()
	}
	return nil
}

func (r *mongoCrewRepository) FindByID(ctx context.Context, id string) (*model.Crew, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	var crew model.Crew
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&crew)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find crew: %w", err)
	}

	return &crew, nil
}

// FindActive returns every rostered crew, sorted by name so candidate
// crew assignment is deterministic.
func (r *mongoCrewRepository) FindActive(ctx context.Context) ([]*model.Crew, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find active crews: %w", err)
	}
	defer cursor.Close(ctx)

	var crews []*model.Crew
	if err = cursor.All(ctx, &crews); err != nil {
		return nil, fmt.Errorf("failed to decode crews: %w", err)
	}

	return crews, nil
}

func (r *mongoCrewRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Crew, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find crews: %w", err)
	}
	defer cursor.Close(ctx)

	var crews []*model.Crew
	if err = cursor.All(ctx, &crews); err != nil {
		return nil, fmt.Errorf("failed to decode crews: %w", err)
	}

	return crews, nil
}

func (r *mongoCrewRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count crews: %w", err)
	}
	return count, nil
}

func (r *mongoCrewRepository) Update(ctx context.Context, id string, crew *model.Crew) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":   crew.Name,
			"phone":  crew.Phone,
			"week":   crew.Week,
			"active": crew.Active,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update crew: %w", err)
	}

	if result.MatchedCount == 0 {
		return catalogerrors.ErrNotFound
	}

	return nil
}

func (r *mongoCrewRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete crew: %w", err)
	}

	if result.DeletedCount == 0 {
		return catalogerrors.ErrNotFound
	}

	return nil
}
