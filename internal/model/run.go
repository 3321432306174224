package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Run triggers
const (
	TriggerHourly = "hourly"
	TriggerDaily  = "daily"
	TriggerWeekly = "weekly"
	TriggerManual = "manual"
)

// RunRecord is a persisted monitoring run
type RunRecord struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CorrelationID     string             `json:"correlation_id" bson:"correlation_id"`
	Trigger           string             `json:"trigger" bson:"trigger"`
	StartedAt         time.Time          `json:"started_at" bson:"started_at"`
	DurationMs        int64              `json:"duration_ms" bson:"duration_ms"`
	CandidatesChecked int                `json:"candidates_checked" bson:"candidates_checked"`
	Changes           int                `json:"changes" bson:"changes"`
	Failures          int                `json:"failures" bson:"failures"`
	Errors            int                `json:"errors" bson:"errors"`
	Status            string             `json:"status" bson:"status"` // "success", "partial", "failed"
	ErrorMessage      string             `json:"error_message,omitempty" bson:"error_message,omitempty"`
}

// NewRunRecord builds a run record from a completed run summary
func NewRunRecord(trigger, correlationID string, startedAt time.Time, summary RunSummary) *RunRecord {
	status := "success"
	switch {
	case summary.Errors > 0:
		status = "failed"
	case summary.Failures > 0:
		status = "partial"
	}

	return &RunRecord{
		CorrelationID:     correlationID,
		Trigger:           trigger,
		StartedAt:         startedAt,
		DurationMs:        summary.DurationMs,
		CandidatesChecked: summary.CandidatesChecked,
		Changes:           summary.Changes,
		Failures:          summary.Failures,
		Errors:            summary.Errors,
		Status:            status,
		ErrorMessage:      summary.ErrorMessage,
	}
}
