package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/noah-ing/pricehawk/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LockRepository handles distributed run locks for scheduled monitoring
// triggers. A lock is keyed by trigger name so only one instance executes a
// given firing; manual checks do not take locks.
type LockRepository struct {
	collection *mongo.Collection
}

// NewLockRepository creates a new lock repository
func NewLockRepository(db *MongoDB) *LockRepository {
	return &LockRepository{
		collection: db.GetCollection(CollectionMonitorLocks),
	}
}

// AcquireLock attempts to acquire the run lock for a trigger. Returns true if
// the lock was acquired, false if another instance holds it. Uses
// FindOneAndUpdate with upsert for atomic acquisition.
func (r *LockRepository) AcquireLock(ctx context.Context, trigger, instanceID string, ttl time.Duration) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	// Either no lock exists for this trigger, or the existing lock has expired
	filter := bson.M{
		"trigger": trigger,
		"$or": []bson.M{
			{"expires_at": bson.M{"$lt": now}},
			{"expires_at": bson.M{"$exists": false}},
		},
	}

	update := bson.M{
		"$set": bson.M{
			"trigger":    trigger,
			"locked_by":  instanceID,
			"locked_at":  now,
			"expires_at": expiresAt,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result model.MonitorLock
	err := r.collection.FindOneAndUpdate(ctxTimeout, filter, update, opts).Decode(&result)
	if err != nil {
		// ErrNoDocuments or a duplicate key on the unique trigger index both
		// mean another instance holds an unexpired lock.
		if err == mongo.ErrNoDocuments || mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to acquire run lock: %w", err)
	}

	if result.LockedBy != instanceID {
		return false, nil
	}

	slog.Debug("Acquired run lock",
		"trigger", trigger,
		"instance_id", instanceID,
		"expires_at", expiresAt,
	)

	return true, nil
}

// ReleaseLock releases a run lock, but only if it is owned by the specified
// instance. This prevents one instance from releasing another's lock.
func (r *LockRepository) ReleaseLock(ctx context.Context, trigger, instanceID string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"trigger":   trigger,
		"locked_by": instanceID,
	}

	result, err := r.collection.DeleteOne(ctxTimeout, filter)
	if err != nil {
		return fmt.Errorf("failed to release run lock: %w", err)
	}

	if result.DeletedCount > 0 {
		slog.Debug("Released run lock",
			"trigger", trigger,
			"instance_id", instanceID,
		)
	}

	return nil
}

// ReleaseAllLocks releases all locks owned by the specified instance.
// Called during graceful shutdown.
func (r *LockRepository) ReleaseAllLocks(ctx context.Context, instanceID string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.collection.DeleteMany(ctxTimeout, bson.M{"locked_by": instanceID})
	if err != nil {
		return fmt.Errorf("failed to release all run locks: %w", err)
	}

	if result.DeletedCount > 0 {
		slog.Info("Released run locks during shutdown",
			"instance_id", instanceID,
			"count", result.DeletedCount,
		)
	}

	return nil
}

// CleanExpiredLocks removes all locks that have expired. Handles instances
// that crashed without releasing their locks.
func (r *LockRepository) CleanExpiredLocks(ctx context.Context) (int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now().UTC()
	result, err := r.collection.DeleteMany(ctxTimeout, bson.M{"expires_at": bson.M{"$lt": now}})
	if err != nil {
		return 0, fmt.Errorf("failed to clean expired run locks: %w", err)
	}

	if result.DeletedCount > 0 {
		slog.Info("Cleaned expired run locks", "count", result.DeletedCount)
	}

	return result.DeletedCount, nil
}
