package database

import (
	"context"
	"fmt"
	"time"

	"github.com/noah-ing/pricehawk/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PriceHistoryRepository stores historical price points per product
type PriceHistoryRepository struct {
	collection *mongo.Collection
}

// NewPriceHistoryRepository creates a new price history repository
func NewPriceHistoryRepository(db *MongoDB) *PriceHistoryRepository {
	return &PriceHistoryRepository{
		collection: db.GetCollection(CollectionPriceHistory),
	}
}

// Append records one price point for a product
func (r *PriceHistoryRepository) Append(ctx context.Context, productID string, price model.Price, currency string, recordedAt time.Time) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return fmt.Errorf("invalid product ID: %w", err)
	}

	point := model.PricePoint{
		ID:         primitive.NewObjectID(),
		ProductID:  id,
		Price:      price,
		Currency:   currency,
		RecordedAt: recordedAt,
	}

	if _, err := r.collection.InsertOne(ctxTimeout, point); err != nil {
		return fmt.Errorf("failed to append price point: %w", err)
	}

	return nil
}

// ListByProduct retrieves price points for a product, newest first
func (r *PriceHistoryRepository) ListByProduct(ctx context.Context, productID primitive.ObjectID, limit int) ([]model.PricePoint, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "recorded_at", Value: -1}})

	cursor, err := r.collection.Find(ctxTimeout, bson.M{"product_id": productID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list price history: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	var points []model.PricePoint
	if err := cursor.All(ctxTimeout, &points); err != nil {
		return nil, fmt.Errorf("failed to decode price history: %w", err)
	}

	return points, nil
}
