// Package embedder provides interfaces for text embedding providers.
//
// It defines the Provider interface that all embedding implementations must
// satisfy, enabling text-to-vector conversion for similarity search.
package embedder

import "context"

// Provider defines the interface for embedding providers.
type Provider interface {
	// Embed converts a text string into a vector embedding.
	//
	// Each call produces exactly one outbound request; there is no
	// internal caching or deduplication. The text is normalized
	// (newlines replaced with spaces, whitespace trimmed) before
	// submission, since raw line breaks materially change some
	// providers' embeddings.
	Embed(ctx context.Context, text string) ([]float64, error)

	// EmbedBatch converts multiple text strings into vector embeddings
	// in a single request. Result order matches input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)

	// Dimensions returns the dimension of embedding vectors produced by
	// this provider. It must match the vector column size declared by
	// the product store's schema; a mismatch is a configuration error
	// detected at client construction, not per call.
	Dimensions() int

	// Close closes the provider and releases resources.
	Close() error
}
