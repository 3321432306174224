package service

import (
	"context"
	"fmt"

	"github.com/noah-ing/pricehawk/internal/database"
	"github.com/noah-ing/pricehawk/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductService handles tracked product management
type ProductService struct {
	repo        *database.ProductRepository
	historyRepo *database.PriceHistoryRepository
}

// NewProductService creates a new product service
func NewProductService(repo *database.ProductRepository, historyRepo *database.PriceHistoryRepository) *ProductService {
	return &ProductService{
		repo:        repo,
		historyRepo: historyRepo,
	}
}

// Create registers a new product for monitoring
func (s *ProductService) Create(ctx context.Context, product *model.Product) error {
	if err := product.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return s.repo.Create(ctx, product)
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid ID format: %w", err)
	}

	return s.repo.GetByID(ctx, objID)
}

// List retrieves products with filtering
func (s *ProductService) List(ctx context.Context, userID, source string, tags []string, page, limit int) ([]model.Product, int64, error) {
	filter := bson.M{}
	if userID != "" {
		objID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid user ID format: %w", err)
		}
		filter["user_id"] = objID
	}
	if source != "" {
		filter["source"] = source
	}
	if len(tags) > 0 {
		filter["metadata.tags"] = bson.M{"$in": tags}
	}

	return s.repo.List(ctx, filter, page, limit)
}

// Update updates an existing product
func (s *ProductService) Update(ctx context.Context, id string, product *model.Product) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid ID format: %w", err)
	}

	if err := product.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return s.repo.Update(ctx, objID, product)
}

// Delete removes a product from monitoring
func (s *ProductService) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid ID format: %w", err)
	}

	return s.repo.Delete(ctx, objID)
}

// GetPriceHistory retrieves the recorded price transitions for a product,
// most recent first.
func (s *ProductService) GetPriceHistory(ctx context.Context, id string, limit int) ([]model.PricePoint, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid ID format: %w", err)
	}

	if limit <= 0 || limit > 500 {
		limit = 100
	}

	return s.historyRepo.ListByProduct(ctx, objID, limit)
}
