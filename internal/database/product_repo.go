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

// ErrNotFound is returned when a requested document does not exist
var ErrNotFound = errors.New("not found")

// ProductRepository handles tracked-product operations
type ProductRepository struct {
	collection *mongo.Collection
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *MongoDB) *ProductRepository {
	return &ProductRepository{
		collection: db.GetCollection(CollectionProducts),
	}
}

// Create inserts a new product
func (r *ProductRepository) Create(ctx context.Context, product *model.Product) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	product.Metadata.CreatedAt = now
	product.Metadata.UpdatedAt = now

	_, err := r.collection.InsertOne(ctxTimeout, product)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("product with URL '%s' already tracked for this user", product.URL)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var product model.Product
	err := r.collection.FindOne(ctxTimeout, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product %s: %w", id.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

// List retrieves products with filtering and pagination
func (r *ProductRepository) List(ctx context.Context, filter bson.M, page, limit int) ([]model.Product, int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	total, err := r.collection.CountDocuments(ctxTimeout, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	skip := (page - 1) * limit
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "metadata.created_at", Value: -1}})

	cursor, err := r.collection.Find(ctxTimeout, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	var products []model.Product
	if err := cursor.All(ctxTimeout, &products); err != nil {
		return nil, 0, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, total, nil
}

// Update replaces an existing product
func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, product *model.Product) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	product.ID = id
	product.Metadata.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctxTimeout, bson.M{"_id": id}, product)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("product %s: %w", id.Hex(), ErrNotFound)
	}

	return nil
}

// Delete deletes a product
func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctxTimeout, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("product %s: %w", id.Hex(), ErrNotFound)
	}

	return nil
}

// FindDueForCheck retrieves up to limit products whose check interval has
// elapsed, oldest checks first. Never-checked products sort first.
func (r *ProductRepository) FindDueForCheck(ctx context.Context, limit int) ([]model.CheckCandidate, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now().UTC()

	// A product is due when last_checked_at + interval <= now. The interval is
	// denormalized into next_check_at on every price update so the due query
	// stays a single indexed range scan.
	filter := bson.M{
		"$or": []bson.M{
			{"next_check_at": bson.M{"$lte": now}},
			{"next_check_at": bson.M{"$exists": false}},
		},
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "last_checked_at", Value: 1}})

	cursor, err := r.collection.Find(ctxTimeout, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find due products: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	var products []model.Product
	if err := cursor.All(ctxTimeout, &products); err != nil {
		return nil, fmt.Errorf("failed to decode due products: %w", err)
	}

	candidates := make([]model.CheckCandidate, len(products))
	for i, p := range products {
		candidates[i] = p.ToCandidate()
	}

	return candidates, nil
}

// UpdatePrice records the latest observed price and schedules the next check
func (r *ProductRepository) UpdatePrice(ctx context.Context, productID string, price model.Price, checkedAt time.Time) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return fmt.Errorf("invalid product ID: %w", err)
	}

	// Read the interval first so next_check_at can be computed in one update.
	var product struct {
		CheckIntervalHours int `bson:"check_interval_hours"`
	}
	if err := r.collection.FindOne(ctxTimeout, bson.M{"_id": id}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		return fmt.Errorf("failed to load product for price update: %w", err)
	}

	interval := time.Duration(product.CheckIntervalHours) * time.Hour
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	update := bson.M{
		"$set": bson.M{
			"current_price":       price,
			"last_checked_at":     checkedAt,
			"next_check_at":       checkedAt.Add(interval),
			"metadata.updated_at": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctxTimeout, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update price: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}

	return nil
}

// FindIDsByUserID returns the IDs of all products owned by a user
func (r *ProductRepository) FindIDsByUserID(ctx context.Context, userID string) ([]string, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctxTimeout, bson.M{"user_id": id}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find products for user: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctxTimeout, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode product IDs: %w", err)
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID.Hex()
	}

	return ids, nil
}
