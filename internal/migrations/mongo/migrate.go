package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bouncebook/internal/migrations/mongo/validators"
)

var (
	ProductsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "active", Value: 1}}},
	}

	UnitsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "label", Value: 1}}},
		{Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "status", Value: 1}}},
	}

	CrewsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "active", Value: 1}, {Key: "name", Value: 1}}},
	}

	SlotsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "display_order", Value: 1}}},
	}

	BlackoutDatesIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "start_date", Value: 1},
			{Key: "end_date", Value: 1},
		}},
		{Keys: bson.D{{Key: "scope", Value: 1}, {Key: "ref_id", Value: 1}}},
	}

	// The compound interval index backs every overlap query: equality on
	// the resource, range on the span.
	BookingBlocksIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "resource_type", Value: 1},
			{Key: "resource_id", Value: 1},
			{Key: "start", Value: 1},
			{Key: "end", Value: 1},
		}},
		{Keys: bson.D{{Key: "owner_type", Value: 1}, {Key: "owner_ref", Value: 1}}},
		{Keys: bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetPartialFilterExpression(bson.M{"owner_type": "hold"})},
	}

	// Lock rows are keyed by resource in _id; the expiry index lets the
	// steal-if-expired replace run off an index scan.
	BlockLocksIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "expires_at", Value: 1}}},
	}

	// One active hold per checkout session.
	SoftHoldsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "expires_at", Value: 1}}},
	}

	// The sparse unique session index makes promotion exactly-once: a
	// replayed webhook insert for the same session is refused by the index.
	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "event_date", Value: 1}}},
		{Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "event_date", Value: 1}}},
	}

	CancellationRequestsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "booking_id", Value: 1}, {Key: "status", Value: 1}}},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("Running bouncebook Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Products": {
			Indexes:   ProductsIndexes,
			Validator: validators.ProductValidator,
		},
		"Units": {
			Indexes:   UnitsIndexes,
			Validator: validators.UnitValidator,
		},
		"Crews": {
			Indexes:   CrewsIndexes,
			Validator: validators.CrewValidator,
		},
		"Slots": {
			Indexes:   SlotsIndexes,
			Validator: validators.SlotValidator,
		},
		"Blackout_dates": {
			Indexes:   BlackoutDatesIndexes,
			Validator: validators.BlackoutValidator,
		},
		"Booking_blocks": {
			Indexes:   BookingBlocksIndexes,
			Validator: validators.BookingBlockValidator,
		},
		"Block_locks": {
			Indexes:   BlockLocksIndexes,
			Validator: validators.BlockLockValidator,
		},
		"Soft_holds": {
			Indexes:   SoftHoldsIndexes,
			Validator: validators.SoftHoldValidator,
		},
		"Bookings": {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		"Cancellation_requests": {
			Indexes:   CancellationRequestsIndexes,
			Validator: validators.CancellationRequestValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("Collection %s already exists, updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("Ensured indexes for %s\n", name)
	return nil
}
