package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorStringRoundTrip(t *testing.T) {
	original := []float64{0.1, -0.5, 1, 0}

	parsed, err := parseVectorString(vectorToString(original))
	require.NoError(t, err)
	require.Len(t, parsed, len(original))
	for i := range original {
		assert.InDelta(t, original[i], parsed[i], 1e-6)
	}
}

func TestVectorToStringEmpty(t *testing.T) {
	assert.Equal(t, "[]", vectorToString(nil))

	parsed, err := parseVectorString("[]")
	require.NoError(t, err)
	assert.Empty(t, parsed)
}

func TestParseVectorStringInvalid(t *testing.T) {
	_, err := parseVectorString("[0.1,abc]")
	assert.Error(t, err)
}

func TestBuildWhereClauseWithStoreAndFloor(t *testing.T) {
	clause, args := buildWhereClauseWithOffset("zamels", 0.2, 2)
	assert.Equal(t, "WHERE embedding IS NOT NULL AND store_name = $2 AND (embedding <=> $1) <= (1 - $3::float)", clause)
	assert.Equal(t, []interface{}{"zamels", 0.2}, args)
}

func TestBuildWhereClauseFloorOnly(t *testing.T) {
	clause, args := buildWhereClauseWithOffset("", 0.2, 2)
	assert.Equal(t, "WHERE embedding IS NOT NULL AND (embedding <=> $1) <= (1 - $2::float)", clause)
	assert.Equal(t, []interface{}{0.2}, args)
}

func TestBuildWhereClauseBindsZeroFloor(t *testing.T) {
	// A zero floor still bounds the distance so rows with negative
	// similarity are excluded, matching the interface contract.
	clause, args := buildWhereClauseWithOffset("", 0, 2)
	assert.Equal(t, "WHERE embedding IS NOT NULL AND (embedding <=> $1) <= (1 - $2::float)", clause)
	assert.Equal(t, []interface{}{0.0}, args)
}

func TestBuildLimitClause(t *testing.T) {
	clause, args := buildLimitClause(5, 3)
	assert.Equal(t, "LIMIT $3", clause)
	assert.Equal(t, []interface{}{5}, args)
}

func TestBuildLimitClauseUnbounded(t *testing.T) {
	// Zero and negative limits mean unbounded, never LIMIT 0.
	for _, limit := range []int{0, -1} {
		clause, args := buildLimitClause(limit, 2)
		assert.Empty(t, clause)
		assert.Empty(t, args)
	}
}
