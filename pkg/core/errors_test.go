package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchErrorFormat(t *testing.T) {
	err := NewSearchError("Search", ErrInvalidQuery)
	assert.Equal(t, "shopsearch: Search: query must be a non-empty string", err.Error())
}

func TestSearchErrorUnwrap(t *testing.T) {
	err := NewSearchError("Ingest", ErrEmbeddingFailed)
	assert.ErrorIs(t, err, ErrEmbeddingFailed)

	var searchErr *SearchError
	assert.True(t, errors.As(err, &searchErr))
	assert.Equal(t, "Ingest", searchErr.Op)
}

func TestNewSearchErrorNil(t *testing.T) {
	assert.NoError(t, NewSearchError("Search", nil))
}
