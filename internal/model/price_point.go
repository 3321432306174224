package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PricePoint is one historical price observation for a product. A point is
// appended whenever a run detects a change, so history holds transitions
// rather than every check.
type PricePoint struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProductID  primitive.ObjectID `json:"product_id" bson:"product_id"`
	Price      Price              `json:"price" bson:"price"`
	Currency   string             `json:"currency" bson:"currency"`
	RecordedAt time.Time          `json:"recorded_at" bson:"recorded_at"`
}
