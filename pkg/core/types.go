package core

import "time"

// Product represents a single catalog item.
//
// A product carries the raw catalog attributes plus the embedding vector
// derived from its composed search text. A product whose Embedding is nil
// is not eligible for similarity search and is never returned by queries.
//
// Example:
//
//	product := &core.Product{
//	    Name:        "Gold Hoop Earrings - Medium",
//	    Description: "Classic 14k yellow gold hoops for everyday wear",
//	    Price:       320,
//	    Category:    "earrings",
//	    Brand:       "Zamels",
//	}
type Product struct {
	// ID is the unique identifier of the product. Assigned at ingestion
	// when empty, never reassigned afterwards.
	ID string `json:"id"`

	// Name is the product display name. Required.
	Name string `json:"name"`

	// Description is the free-text product description (may be empty).
	Description string `json:"description,omitempty"`

	// Price is the product price. Must be non-negative.
	Price float64 `json:"price"`

	// Currency is the ISO-like currency code. Defaults to "AUD".
	Currency string `json:"currency,omitempty"`

	// SKU is the stock keeping unit. Synthesized at ingestion when empty.
	SKU string `json:"sku,omitempty"`

	// Category is a free-form taxonomy label (e.g. "earrings", "dresses").
	Category string `json:"category,omitempty"`

	// Brand is the product brand name.
	Brand string `json:"brand,omitempty"`

	// ImageURL points at the product image (may be empty).
	ImageURL string `json:"image_url,omitempty"`

	// ProductURL points at the product page.
	ProductURL string `json:"product_url,omitempty"`

	// StoreName is the catalog partition this product belongs to.
	// It is the multi-tenant filter key for scoped queries.
	StoreName string `json:"store_name"`

	// Embedding is the vector embedding of the composed search text.
	// Omitted from JSON to reduce payload size.
	Embedding []float64 `json:"embedding,omitempty"`

	// CreatedAt is when the product row was created.
	CreatedAt time.Time `json:"created_at,omitempty"`

	// UpdatedAt is when the product row was last updated.
	UpdatedAt time.Time `json:"updated_at,omitempty"`

	// Score is the similarity score from search operations.
	Score float64 `json:"score,omitempty"`
}

// Result is the view of a product returned to search callers.
//
// It exposes the presentational attributes plus the similarity score; the
// embedding itself is never surfaced.
type Result struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	ImageURL    string  `json:"image_url,omitempty"`
	ProductURL  string  `json:"product_url,omitempty"`
	Category    string  `json:"category,omitempty"`
	Brand       string  `json:"brand,omitempty"`
	Similarity  float64 `json:"similarity"`
}

// Report summarizes a bulk ingestion run.
//
// Imported + Failed always equals the number of records submitted;
// no record is silently dropped.
type Report struct {
	// Imported is the number of records written with their embeddings.
	Imported int `json:"imported"`

	// Failed is the number of records that failed embedding or writing.
	Failed int `json:"failed"`
}

const (
	// DefaultCurrency is applied to products ingested without a currency.
	DefaultCurrency = "AUD"

	// DefaultLimit is the result count used when a caller requests none.
	DefaultLimit = 20

	// MaxLimit is the hard cap on the result count. Requested limits above
	// this value are clamped, never echoed back.
	MaxLimit = 50

	// DefaultSimilarityFloor is the minimum cosine similarity for a
	// candidate to appear in results. Short retail-product texts rarely
	// score above ~0.5, so the floor deliberately favors recall.
	DefaultSimilarityFloor = 0.2

	// DefaultDimensions is the vector size of text-embedding-3-small.
	DefaultDimensions = 1536
)
