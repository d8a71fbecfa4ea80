package postgres

import (
	"fmt"
	"strings"
)

// buildWhereClauseWithOffset builds a WHERE clause starting from a specific
// parameter index. $1 is always the query vector, so filters start at $2.
//
// Rows with a null embedding are excluded unconditionally; they cannot
// participate in distance computation.
func buildWhereClauseWithOffset(storeName string, minScore float64, startIndex int) (string, []interface{}) {
	conditions := []string{"embedding IS NOT NULL"}
	args := []interface{}{}
	argIndex := startIndex

	if storeName != "" {
		conditions = append(conditions, fmt.Sprintf("store_name = $%d", argIndex))
		args = append(args, storeName)
		argIndex++
	}

	// similarity >= floor expressed as a cosine distance bound. Always
	// bound: a floor of 0 still excludes negative-similarity rows.
	conditions = append(conditions, fmt.Sprintf("(embedding <=> $1) <= (1 - $%d::float)", argIndex))
	args = append(args, minScore)

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// buildLimitClause returns a LIMIT clause binding the given argument index.
// A non-positive limit means unbounded and yields no clause.
func buildLimitClause(limit, argIndex int) (string, []interface{}) {
	if limit <= 0 {
		return "", nil
	}
	return fmt.Sprintf("LIMIT $%d", argIndex), []interface{}{limit}
}
