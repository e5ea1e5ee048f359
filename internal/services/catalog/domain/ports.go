package domain

import (
	"context"

	"querybind/internal/paging"

	"github.com/google/uuid"
)

// ReaderPort looks products up by identifier
type ReaderPort interface {
	GetProduct(ctx context.Context, id uuid.UUID) (Product, bool, error)
}

// QueryPort executes catalog finder methods from raw positional argument lists
type QueryPort interface {
	SearchByName(ctx context.Context, args ...any) ([]Product, int, error)
	PriceBetween(ctx context.Context, args ...any) ([]Product, int, error)
}

// SortColumns is the whitelist mapping sortable properties to SQL columns
func SortColumns() map[string]string {
	return map[string]string{
		"name":    "name",
		"price":   "price_cents",
		"created": "created_at",
	}
}

// DefaultSort orders newest first
func DefaultSort() paging.Sort {
	return paging.ByOrders(paging.Order{Property: "created", Direction: paging.Desc})
}
