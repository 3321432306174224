package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MonitorLock is a distributed lock for a scheduled monitoring trigger. One
// lock exists per trigger name so a single instance runs each firing.
type MonitorLock struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Trigger   string             `json:"trigger" bson:"trigger"`
	LockedBy  string             `json:"locked_by" bson:"locked_by"`   // Instance identifier (hostname)
	LockedAt  time.Time          `json:"locked_at" bson:"locked_at"`   // Lock acquisition timestamp
	ExpiresAt time.Time          `json:"expires_at" bson:"expires_at"` // Lock expiration (TTL)
}
