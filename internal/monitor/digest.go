package monitor

import (
	"context"
	"log/slog"

	"github.com/noah-ing/pricehawk/internal/model"
	"github.com/noah-ing/pricehawk/internal/notify"
)

// DigestDispatcher delivers the weekly summary of buffered price changes.
// The buffer is drained before delivery, so changes accumulated during a
// gateway outage are consumed either way; the digest is a convenience, not a
// ledger.
type DigestDispatcher struct {
	buffer   *ChangeBuffer
	accounts AccountSource
	products ProductSource
	notifier Notifier
}

// NewDigestDispatcher creates a weekly digest dispatcher
func NewDigestDispatcher(buffer *ChangeBuffer, accounts AccountSource, products ProductSource, notifier Notifier) *DigestDispatcher {
	return &DigestDispatcher{
		buffer:   buffer,
		accounts: accounts,
		products: products,
		notifier: notifier,
	}
}

// Dispatch drains the change buffer and sends each user a digest of the
// changes that belong to their products. Users without changes are skipped.
// Delivery problems are logged per user and never abort the rest.
func (d *DigestDispatcher) Dispatch(ctx context.Context) {
	records := d.buffer.DrainAll()
	if len(records) == 0 {
		slog.Info("No buffered price changes, skipping weekly digest")
		return
	}

	slog.Info("Dispatching weekly digest", "buffered_changes", len(records))

	users, err := d.accounts.FindAll(ctx)
	if err != nil {
		slog.Error("Failed to load users for weekly digest",
			"error", err.Error(),
			"dropped_changes", len(records),
		)
		return
	}

	sent := 0
	for _, user := range users {
		changes := d.changesFor(ctx, user, records)
		if len(changes) == 0 {
			continue
		}

		if err := d.notifier.Send(ctx, notify.KindWeeklyDigest, user, notify.DigestData(changes)); err != nil {
			slog.Error("Failed to deliver weekly digest",
				"user_id", user.ID.Hex(),
				"changes", len(changes),
				"error", err.Error(),
			)
			continue
		}
		sent++
	}

	slog.Info("Weekly digest dispatched",
		"recipients", sent,
		"changes", len(records),
	)
}

// changesFor selects the drained records that belong to one user's products
func (d *DigestDispatcher) changesFor(ctx context.Context, user model.User, records []model.ChangeRecord) []model.ChangeRecord {
	productIDs, err := d.products.FindIDsByUserID(ctx, user.ID.Hex())
	if err != nil {
		slog.Error("Failed to load product ownership for digest",
			"user_id", user.ID.Hex(),
			"error", err.Error(),
		)
		return nil
	}

	owned := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		owned[id] = struct{}{}
	}

	var changes []model.ChangeRecord
	for _, record := range records {
		if _, ok := owned[record.ProductID]; ok {
			changes = append(changes, record)
		}
	}
	return changes
}
