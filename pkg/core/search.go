package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/miracleworks/shopsearch-go/pkg/storage"
)

// Search answers a free-text query by nearest-neighbor similarity search.
//
// The query is trimmed and must be non-empty; otherwise ErrInvalidQuery is
// returned before any external call is made. The query string is embedded
// as typed; the catalog keyword augmentation is never applied to it.
//
// An unrecognized store filter is widened to all stores, never an error.
// The requested limit is clamped to the configured hard cap.
//
// Zero matches is a successful outcome and returns an empty slice. A
// failure in embedding or store access aborts the request and returns
// ErrRetrievalUnavailable, so "no matches" and "search unavailable" stay
// distinguishable; the underlying error is logged, never surfaced.
func (c *Client) Search(ctx context.Context, query, storeName string, limit int) ([]Result, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, NewSearchError("Search", ErrInvalidQuery)
	}

	storeFilter := c.ResolveStore(storeName)
	limit = c.clampLimit(limit)

	embedding, err := c.embedder.Embed(ctx, trimmed)
	if err != nil {
		c.logger.Error("search: query embedding failed", "error", err)
		return nil, NewSearchError("Search", fmt.Errorf("%w: %w", ErrRetrievalUnavailable, ErrEmbeddingFailed))
	}

	hits, err := c.store.Search(ctx, embedding, &storage.SearchOptions{
		StoreName: storeFilter,
		Limit:     limit,
		MinScore:  c.config.Search.SimilarityFloor,
	})
	if err != nil {
		c.logger.Error("search: similarity search failed", "error", err)
		return nil, NewSearchError("Search", fmt.Errorf("%w: %w", ErrRetrievalUnavailable, ErrStoreQuery))
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		results = append(results, toResult(hit))
	}

	c.logger.Info("search: completed", "query", trimmed, "store", storeFilter, "results", len(results))
	return results, nil
}

// SimilarityFloor returns the configured similarity floor.
func (c *Client) SimilarityFloor() float64 {
	return c.config.Search.SimilarityFloor
}

// clampLimit applies the default and the hard cap to a requested limit.
// The raw requested value is never echoed back as the actual bound.
func (c *Client) clampLimit(limit int) int {
	if limit <= 0 {
		return c.config.Search.DefaultLimit
	}
	if limit > c.config.Search.MaxLimit {
		return c.config.Search.MaxLimit
	}
	return limit
}
