package database

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateIndexes creates all necessary indexes for the collections
func CreateIndexes(ctx context.Context, db *MongoDB) error {
	slog.Info("Creating MongoDB indexes")

	if err := createProductIndexes(ctx, db); err != nil {
		return err
	}
	if err := createUserIndexes(ctx, db); err != nil {
		return err
	}
	if err := createRunIndexes(ctx, db); err != nil {
		return err
	}
	if err := createPriceHistoryIndexes(ctx, db); err != nil {
		return err
	}
	if err := createMonitorLockIndexes(ctx, db); err != nil {
		return err
	}

	slog.Info("Successfully created all MongoDB indexes")
	return nil
}

func createProductIndexes(ctx context.Context, db *MongoDB) error {
	collection := db.GetCollection(CollectionProducts)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "url", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("idx_user_url_unique"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_user_id"),
		},
		{
			Keys: bson.D{
				{Key: "next_check_at", Value: 1},
				{Key: "last_checked_at", Value: 1},
			},
			Options: options.Index().SetName("idx_next_check_at"),
		},
	}

	return createMany(ctx, collection, indexes, "products")
}

func createUserIndexes(ctx context.Context, db *MongoDB) error {
	collection := db.GetCollection(CollectionUsers)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_email_unique"),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("idx_role"),
		},
	}

	return createMany(ctx, collection, indexes, "users")
}

func createRunIndexes(ctx context.Context, db *MongoDB) error {
	collection := db.GetCollection(CollectionRuns)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "correlation_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_correlation_id_unique"),
		},
		{
			Keys: bson.D{
				{Key: "trigger", Value: 1},
				{Key: "started_at", Value: -1},
			},
			Options: options.Index().SetName("idx_trigger_started_at"),
		},
		{
			Keys:    bson.D{{Key: "started_at", Value: -1}},
			Options: options.Index().SetName("idx_started_at"),
		},
	}

	return createMany(ctx, collection, indexes, "monitoring_runs")
}

func createPriceHistoryIndexes(ctx context.Context, db *MongoDB) error {
	collection := db.GetCollection(CollectionPriceHistory)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "product_id", Value: 1},
				{Key: "recorded_at", Value: -1},
			},
			Options: options.Index().SetName("idx_product_recorded_at"),
		},
	}

	return createMany(ctx, collection, indexes, "price_history")
}

func createMonitorLockIndexes(ctx context.Context, db *MongoDB) error {
	collection := db.GetCollection(CollectionMonitorLocks)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "trigger", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_trigger_unique"),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("idx_expires_at_ttl"),
		},
	}

	return createMany(ctx, collection, indexes, "monitor_locks")
}

func createMany(ctx context.Context, collection *mongo.Collection, indexes []mongo.IndexModel, name string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctxTimeout, indexes); err != nil {
		return err
	}

	slog.Info("Created indexes", "collection", name)
	return nil
}
