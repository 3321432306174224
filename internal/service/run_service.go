package service

import (
	"context"

	"github.com/noah-ing/pricehawk/internal/database"
	"github.com/noah-ing/pricehawk/internal/model"
	"go.mongodb.org/mongo-driver/bson"
)

// RunService exposes the persisted monitoring run history
type RunService struct {
	repo *database.RunRepository
}

// NewRunService creates a new run service
func NewRunService(repo *database.RunRepository) *RunService {
	return &RunService{
		repo: repo,
	}
}

// GetByCorrelationID retrieves one run record
func (s *RunService) GetByCorrelationID(ctx context.Context, correlationID string) (*model.RunRecord, error) {
	return s.repo.GetByCorrelationID(ctx, correlationID)
}

// List retrieves run records with filtering, most recent first
func (s *RunService) List(ctx context.Context, trigger, status string, page, limit int) ([]model.RunRecord, int64, error) {
	filter := bson.M{}
	if trigger != "" {
		filter["trigger"] = trigger
	}
	if status != "" {
		filter["status"] = status
	}

	return s.repo.List(ctx, filter, page, limit)
}
