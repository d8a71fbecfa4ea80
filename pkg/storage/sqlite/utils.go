package sqlite

// buildWhereClause builds a WHERE clause for the optional store filter.
func buildWhereClause(storeName string) (string, []interface{}) {
	if storeName == "" {
		return "", nil
	}
	return "WHERE store_name = ?", []interface{}{storeName}
}
