// Package storage provides interfaces and types for product store backends.
//
// It defines the ProductStore interface that all storage implementations must
// satisfy, along with the persisted product record type and search options.
package storage

import (
	"context"
	"time"
)

// Product represents a product row in the store.
//
// This type is defined in the storage package to avoid circular dependencies
// with the core package. It mirrors the core.Product structure.
type Product struct {
	// ID is the unique identifier of the product.
	ID string

	// Name is the product display name.
	Name string

	// Description is the free-text description.
	Description string

	// Price is the product price.
	Price float64

	// Currency is the currency code.
	Currency string

	// SKU is the stock keeping unit.
	SKU string

	// Category is the taxonomy label.
	Category string

	// Brand is the brand name.
	Brand string

	// ImageURL points at the product image.
	ImageURL string

	// ProductURL points at the product page.
	ProductURL string

	// StoreName is the catalog partition the product belongs to.
	StoreName string

	// Embedding is the vector embedding for similarity search.
	// Rows with a nil embedding never participate in search.
	Embedding []float64

	// CreatedAt is when the row was created.
	CreatedAt time.Time

	// UpdatedAt is when the row was last updated.
	UpdatedAt time.Time

	// Score is the similarity score from search operations.
	Score float64
}

// SearchOptions contains options for similarity search operations.
type SearchOptions struct {
	// StoreName restricts candidates to a single store before ranking.
	// Empty means all stores are candidates.
	StoreName string

	// Limit caps the number of returned rows.
	Limit int

	// MinScore is the similarity floor: only rows whose cosine similarity
	// to the query embedding is >= MinScore are returned.
	MinScore float64
}

// DeleteAllOptions contains options for bulk delete operations.
type DeleteAllOptions struct {
	// StoreName restricts the delete to a single store.
	// Empty deletes rows for all stores.
	StoreName string
}

// ProductStore defines the interface for product store backends.
//
// All storage implementations (SQLite, PostgreSQL) must implement this
// interface.
type ProductStore interface {
	// EnsureSchema creates or verifies the product table, its indexes
	// (including the approximate nearest-neighbor index where the backend
	// supports one) and any server-side search operation. Idempotent.
	EnsureSchema(ctx context.Context) error

	// Upsert writes a product row atomically. An existing row with the
	// same ID has all fields, including the embedding, replaced; a new ID
	// creates a row. The write never leaves a partial row behind.
	Upsert(ctx context.Context, product *Product) error

	// Get retrieves a product by ID.
	Get(ctx context.Context, id string) (*Product, error)

	// Search performs cosine similarity search.
	//
	// Results are ordered by similarity (1 - cosine_distance) descending,
	// ties broken by insertion order. Rows below the similarity floor and
	// rows with a null embedding are excluded. An empty result set is a
	// valid, successful outcome.
	Search(ctx context.Context, embedding []float64, opts *SearchOptions) ([]*Product, error)

	// DeleteAll deletes all rows, optionally scoped to a store, and
	// returns the number of rows removed.
	DeleteAll(ctx context.Context, opts *DeleteAllOptions) (int64, error)

	// Dimensions returns the vector column size declared by the schema.
	Dimensions() int

	// Close closes the store and releases resources.
	Close() error
}
