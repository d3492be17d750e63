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

	bookingserrors "bouncebook/internal/bookings/errors"
	"bouncebook/pkg/config"
	"bouncebook/pkg/model"
)

const CancellationCollectionName = "Cancellation_requests"

type CancellationRepository interface {
	Create(ctx context.Context, request *model.CancellationRequest) error
	FindByID(ctx context.Context, id string) (*model.CancellationRequest, error)
	FindPendingByBooking(ctx context.Context, bookingID string) (*model.CancellationRequest, error)
	Resolve(ctx context.Context, id string, status model.CancellationStatus) error
}

type mongoCancellationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCancellationRepository(cfg *config.Config) CancellationRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoCancellationRepository{
		cfg:        cfg,
		collection: db.Collection(CancellationCollectionName),
	}
}

func (r *mongoCancellationRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoCancellationRepository) Create(ctx context.Context, request *model.CancellationRequest) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	request.Status = model.CancellationPending
	request.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, request)
	if err != nil {
		return fmt.Errorf("failed to create cancellation request: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		request.ID = oid.Hex()
	}
	return nil
}

func (r *mongoCancellationRepository) FindByID(ctx context.Context, id string) (*model.CancellationRequest, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var request model.CancellationRequest
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to find cancellation request: %w", err)
	}

	return &request, nil
}

func (r *mongoCancellationRepository) FindPendingByBooking(ctx context.Context, bookingID string) (*model.CancellationRequest, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"booking_id": bookingID, "status": model.CancellationPending}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var request model.CancellationRequest
	err := r.collection.FindOne(ctx, filter, opts).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to find pending cancellation request: %w", err)
	}

	return &request, nil
}

func (r *mongoCancellationRepository) Resolve(ctx context.Context, id string, status model.CancellationStatus) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	resolvedAt := time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"status":      status,
			"resolved_at": resolvedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to resolve cancellation request: %w", err)
	}

	if result.MatchedCount == 0 {
		return bookingserrors.ErrRequestNotFound
	}

	return nil
}
