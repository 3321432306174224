package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/noah-ing/pricehawk/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RunRepository handles monitoring run history
type RunRepository struct {
	collection *mongo.Collection
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *MongoDB) *RunRepository {
	return &RunRepository{
		collection: db.GetCollection(CollectionRuns),
	}
}

// Create inserts a run record
func (r *RunRepository) Create(ctx context.Context, record *model.RunRecord) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctxTimeout, record)
	if err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}

	return nil
}

// GetByCorrelationID retrieves a run record by correlation ID
func (r *RunRepository) GetByCorrelationID(ctx context.Context, correlationID string) (*model.RunRecord, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var record model.RunRecord
	err := r.collection.FindOne(ctxTimeout, bson.M{"correlation_id": correlationID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("run %s: %w", correlationID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get run record: %w", err)
	}

	return &record, nil
}

// List retrieves run records with filtering and pagination, newest first
func (r *RunRepository) List(ctx context.Context, filter bson.M, page, limit int) ([]model.RunRecord, int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	total, err := r.collection.CountDocuments(ctxTimeout, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count run records: %w", err)
	}

	skip := (page - 1) * limit
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "started_at", Value: -1}})

	cursor, err := r.collection.Find(ctxTimeout, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list run records: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	var records []model.RunRecord
	if err := cursor.All(ctxTimeout, &records); err != nil {
		return nil, 0, fmt.Errorf("failed to decode run records: %w", err)
	}

	return records, total, nil
}
