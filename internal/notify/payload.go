package notify

import (
	"fmt"

	"github.com/noah-ing/pricehawk/internal/model"
)

// Recipient identifies who a notification is for
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Payload is the JSON document posted to the notification gateway
type Payload struct {
	Type      string                 `json:"type"`
	Recipient Recipient              `json:"recipient"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// RunFailureData builds the data block for an admin run-failure escalation
func RunFailureData(trigger, correlationID string, failures, candidatesChecked int) map[string]interface{} {
	return map[string]interface{}{
		"text": fmt.Sprintf(
			"Price monitoring run (%s) completed with %d failed checks out of %d candidates",
			trigger, failures, failures+candidatesChecked,
		),
		"severity":           "warning",
		"trigger":            trigger,
		"correlation_id":     correlationID,
		"failures":           failures,
		"candidates_checked": candidatesChecked,
	}
}

// RunCriticalData builds the data block for a critical run-level failure
func RunCriticalData(trigger, correlationID, errorMessage string) map[string]interface{} {
	return map[string]interface{}{
		"text": fmt.Sprintf(
			"Price monitoring run (%s) failed before any candidates were checked: %s",
			trigger, errorMessage,
		),
		"severity":       "critical",
		"trigger":        trigger,
		"correlation_id": correlationID,
		"error":          errorMessage,
	}
}

// DigestData builds the data block for a weekly price-change digest. Changes
// must already be filtered to products the recipient owns.
func DigestData(changes []model.ChangeRecord) map[string]interface{} {
	items := make([]map[string]interface{}, len(changes))
	for i, c := range changes {
		items[i] = map[string]interface{}{
			"product_id": c.ProductID,
			"old_price":  c.OldPrice.String(),
			"new_price":  c.NewPrice.String(),
			"currency":   c.Currency,
			"changed_at": c.Timestamp,
		}
	}

	return map[string]interface{}{
		"text":    fmt.Sprintf("%d of your tracked products changed price this week", len(changes)),
		"changes": items,
	}
}
