package model

import (
	"time"
)

// CheckStatus is the terminal state of one candidate within a run
type CheckStatus string

const (
	CheckSucceeded CheckStatus = "succeeded"
	CheckFailed    CheckStatus = "failed"
)

// CheckCandidate is an item selected as due for a fresh price check.
// Consumed read-only by the monitor; the previous price is the baseline for
// change detection even when the final value arrives on a retry attempt.
type CheckCandidate struct {
	ProductID     string `json:"product_id"`
	OwnerID       string `json:"owner_id"`
	URL           string `json:"url"`
	Source        string `json:"source"`
	Currency      string `json:"currency"`
	PreviousPrice Price  `json:"previous_price"`
}

// PriceResult is one successful price fetch
type PriceResult struct {
	Price      Price     `json:"price"`
	Currency   string    `json:"currency"`
	CheckedAt  time.Time `json:"checked_at"`
	DurationMs int64     `json:"duration_ms"`
}

// CheckOutcome is the per-candidate result of one run, retries included
type CheckOutcome struct {
	ProductID string      `json:"product_id"`
	Status    CheckStatus `json:"status"`
	NewPrice  Price       `json:"new_price,omitempty"`
	Error     string      `json:"error,omitempty"`
	Attempts  int         `json:"attempts"`
}

// ChangeRecord is one detected price change. Records accumulate in the change
// buffer until the weekly digest drains it.
type ChangeRecord struct {
	ProductID string    `json:"product_id" bson:"product_id"`
	OwnerID   string    `json:"owner_id" bson:"owner_id"`
	OldPrice  Price     `json:"old_price" bson:"old_price"`
	NewPrice  Price     `json:"new_price" bson:"new_price"`
	Currency  string    `json:"currency" bson:"currency"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// RunSummary is the outcome of one complete monitoring run.
// CandidatesChecked + Failures always equals the number of candidates the run
// started with; Errors is nonzero only when the run itself failed before the
// per-candidate loop.
type RunSummary struct {
	CandidatesChecked int            `json:"candidates_checked"`
	Changes           int            `json:"changes"`
	Failures          int            `json:"failures"`
	Errors            int            `json:"errors"`
	DurationMs        int64          `json:"duration_ms"`
	ErrorMessage      string         `json:"error_message,omitempty"`
	ChangeDetails     []ChangeRecord `json:"change_details,omitempty"`
}
