// Package domain holds catalog types and ports
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is the catalog entity, keyed by a UUID identifier
type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

// SearchInput is the transport payload for name search
type SearchInput struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
	Page int    `json:"page" validate:"min=0"`
	Size int    `json:"size" validate:"min=1,max=100"`
	Sort string `json:"sort" validate:"omitempty,max=60"`
}

// PriceRangeInput is the transport payload for price range search
type PriceRangeInput struct {
	MinCents int64  `json:"min_cents" validate:"min=0"`
	MaxCents int64  `json:"max_cents" validate:"required,gtfield=MinCents"`
	Sort     string `json:"sort" validate:"omitempty,max=60"`
}
