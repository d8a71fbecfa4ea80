// Package mock provides a deterministic embedder.Provider test double.
package mock

import (
	"context"
	"hash/fnv"
	"math"
	"sync"
)

// Client is a test double for embedder.Provider.
// It allows custom behavior injection via function fields; without them it
// produces deterministic vectors derived from the text hash, so the same
// text always embeds to the same vector.
type Client struct {
	// EmbedFunc is called by Embed if set.
	EmbedFunc func(ctx context.Context, text string) ([]float64, error)

	mu         sync.Mutex
	dimensions int
	callCount  int
}

// NewClient creates a mock embedder producing vectors of the given dimension.
func NewClient(dimensions int) *Client {
	return &Client{dimensions: dimensions}
}

// Embed returns a deterministic embedding based on the text hash.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	c.mu.Lock()
	c.callCount++
	c.mu.Unlock()

	if c.EmbedFunc != nil {
		return c.EmbedFunc(ctx, text)
	}

	return deterministicVector(text, c.dimensions), nil
}

// EmbedBatch returns deterministic embeddings for multiple texts.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	embeddings := make([][]float64, len(texts))
	for i, text := range texts {
		embedding, err := c.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// Dimensions returns the configured vector dimension.
func (c *Client) Dimensions() int {
	return c.dimensions
}

// Close is a no-op.
func (c *Client) Close() error {
	return nil
}

// CallCount returns the number of Embed invocations.
func (c *Client) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.callCount
}

// deterministicVector creates a unit vector from an FNV hash of the text,
// so similarity between identical texts is exactly 1.
func deterministicVector(text string, dim int) []float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float64, dim)
	for i := 0; i < dim; i++ {
		seed = seed*1664525 + 1013904223 // LCG constants
		vector[i] = float64(seed%1000)/500.0 - 1.0
	}

	var sumSquares float64
	for _, v := range vector {
		sumSquares += v * v
	}
	if sumSquares > 0 {
		norm := math.Sqrt(sumSquares)
		for i := range vector {
			vector[i] /= norm
		}
	}

	return vector
}
