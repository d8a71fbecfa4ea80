// Package core provides the main shopsearch client and the ingestion and
// query pipelines for semantic product search.
package core

import (
	"errors"
	"fmt"
)

// Predefined errors for common failure scenarios.
var (
	// ErrInvalidQuery indicates that the query string is empty after trimming.
	// It is always a caller mistake, surfaced as a client error.
	ErrInvalidQuery = errors.New("query must be a non-empty string")

	// ErrInvalidProduct indicates that a product record is missing required
	// fields (empty name, negative price).
	ErrInvalidProduct = errors.New("invalid product record")

	// ErrInvalidConfig indicates that the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmbeddingFailed indicates that embedding generation failed.
	// Retryable at the caller's discretion; never retried automatically.
	ErrEmbeddingFailed = errors.New("embedding generation failed")

	// ErrStoreWrite indicates that a product store write failed.
	ErrStoreWrite = errors.New("store write failed")

	// ErrStoreQuery indicates that a product store query failed.
	ErrStoreQuery = errors.New("store query failed")

	// ErrRetrievalUnavailable is the externally visible umbrella for
	// embedding and store failures on the query path. The underlying
	// error is logged, never surfaced, so that upstream configuration
	// details do not leak to callers.
	ErrRetrievalUnavailable = errors.New("search service unavailable")

	// ErrStoreNameRequired indicates that an ingestion was requested
	// without a target store name.
	ErrStoreNameRequired = errors.New("store name is required")
)

// SearchError wraps errors with operation context.
//
// It records which operation failed, making error messages more
// informative for debugging.
//
// Example:
//
//	err := &SearchError{
//	    Op:  "Ingest",
//	    Err: ErrEmbeddingFailed,
//	}
//	// Error() returns: "shopsearch: Ingest: embedding generation failed"
type SearchError struct {
	// Op is the name of the operation that failed.
	Op string

	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message.
//
// The format is: "shopsearch: <Op>: <Err>"
func (e *SearchError) Error() string {
	return fmt.Sprintf("shopsearch: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
//
// This allows using errors.Is() and errors.As() with SearchError.
func (e *SearchError) Unwrap() error {
	return e.Err
}

// NewSearchError creates a new SearchError wrapping the given error.
//
// If err is nil, returns nil. This allows safe error wrapping:
//
//	if err != nil {
//	    return NewSearchError("Search", err)
//	}
func NewSearchError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &SearchError{
		Op:  op,
		Err: err,
	}
}
