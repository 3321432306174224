package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a tracked item whose price is monitored
type Product struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID             primitive.ObjectID `json:"user_id" bson:"user_id"`
	Title              string             `json:"title" bson:"title"`
	URL                string             `json:"url" bson:"url"`
	Source             string             `json:"source" bson:"source"` // retailer key, resolves to a price expression
	Currency           string             `json:"currency" bson:"currency"`
	CurrentPrice       Price              `json:"current_price" bson:"current_price"`
	CheckIntervalHours int                `json:"check_interval_hours" bson:"check_interval_hours"`
	LastCheckedAt      time.Time          `json:"last_checked_at,omitempty" bson:"last_checked_at,omitempty"`
	Metadata           Metadata           `json:"metadata" bson:"metadata"`
}

// Metadata represents common document metadata
type Metadata struct {
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	Tags      []string  `json:"tags,omitempty" bson:"tags,omitempty"`
}

// Validate validates a product and fills in defaults
func (p *Product) Validate() error {
	if p.Title == "" {
		return errors.New("product title is required")
	}
	if p.URL == "" {
		return errors.New("product URL is required")
	}

	parsed, err := url.Parse(p.URL)
	if err != nil {
		return fmt.Errorf("invalid product URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("product URL must start with http:// or https://")
	}

	if p.Source == "" {
		return errors.New("product source is required")
	}
	p.Source = strings.ToLower(p.Source)

	if p.Currency == "" {
		p.Currency = "USD"
	}
	p.Currency = strings.ToUpper(p.Currency)

	if p.CheckIntervalHours <= 0 {
		p.CheckIntervalHours = 24
	}

	return nil
}

// ToCandidate converts a product into a check candidate for the monitor
func (p *Product) ToCandidate() CheckCandidate {
	return CheckCandidate{
		ProductID:     p.ID.Hex(),
		OwnerID:       p.UserID.Hex(),
		URL:           p.URL,
		Source:        p.Source,
		Currency:      p.Currency,
		PreviousPrice: p.CurrentPrice,
	}
}
