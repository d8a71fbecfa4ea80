// Package postgres provides a PostgreSQL + pgvector implementation of the
// product store. Similarity search runs server-side using pgvector's cosine
// distance operator and an ivfflat approximate nearest-neighbor index.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/miracleworks/shopsearch-go/pkg/storage"
)

// Client is a PostgreSQL + pgvector product store client.
type Client struct {
	db         *sql.DB
	tableName  string
	dimensions int
}

// Config contains PostgreSQL configuration.
type Config struct {
	Host               string
	Port               int
	User               string
	Password           string
	DBName             string
	TableName          string
	EmbeddingModelDims int
	SSLMode            string
}

// NewClient creates a new PostgreSQL client and ensures the schema exists.
func NewClient(cfg *Config) (*Client, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("NewPostgresClient: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("NewPostgresClient: %w", err)
	}

	client := &Client{
		db:         db,
		tableName:  cfg.TableName,
		dimensions: cfg.EmbeddingModelDims,
	}

	if err := client.EnsureSchema(context.Background()); err != nil {
		return nil, err
	}

	return client, nil
}

// EnsureSchema enables the pgvector extension, creates the products table,
// its filter and ivfflat indexes, and installs the server-side
// search_products function. Every statement is idempotent.
func (c *Client) EnsureSchema(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("EnsureSchema: create extension: %w", err)
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			price DECIMAL,
			currency TEXT DEFAULT 'AUD',
			sku TEXT,
			category TEXT,
			brand TEXT,
			image_url TEXT,
			product_url TEXT,
			store_name TEXT NOT NULL,
			embedding vector(%d),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`, c.tableName, c.dimensions)

	_, err = c.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("EnsureSchema: create table: %w", err)
	}

	for _, indexQuery := range []string{
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_store ON %s (store_name)", c.tableName, c.tableName),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_category ON %s (category)", c.tableName, c.tableName),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_embedding ON %s
			USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100)`, c.tableName, c.tableName),
	} {
		if _, err := c.db.ExecContext(ctx, indexQuery); err != nil {
			return fmt.Errorf("EnsureSchema: create index: %w", err)
		}
	}

	if err := c.createSearchFunction(ctx); err != nil {
		return err
	}

	return nil
}

// createSearchFunction installs the similarity search as a named, reusable
// server-side operation so operators and other clients can call it directly.
func (c *Client) createSearchFunction(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE OR REPLACE FUNCTION search_products(
			query_embedding vector(%d),
			store_filter text DEFAULT NULL,
			similarity_floor float DEFAULT 0.2,
			match_count int DEFAULT 20
		)
		RETURNS TABLE (
			id uuid,
			name text,
			description text,
			price decimal,
			currency text,
			image_url text,
			product_url text,
			category text,
			brand text,
			similarity float
		)
		LANGUAGE sql STABLE
		AS $$
			SELECT
				p.id,
				p.name,
				p.description,
				p.price,
				p.currency,
				p.image_url,
				p.product_url,
				p.category,
				p.brand,
				1 - (p.embedding <=> query_embedding) AS similarity
			FROM %s p
			WHERE
				p.embedding IS NOT NULL
				AND (store_filter IS NULL OR p.store_name = store_filter)
				AND (p.embedding <=> query_embedding) <= (1 - similarity_floor)
			ORDER BY p.embedding <=> query_embedding, p.created_at
			LIMIT match_count;
		$$
	`, c.dimensions, c.tableName)

	if _, err := c.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("EnsureSchema: create search function: %w", err)
	}

	return nil
}

// Upsert writes a product row. An existing ID has all fields replaced,
// including the embedding; the single statement keeps the write atomic
// per record.
func (c *Client) Upsert(ctx context.Context, product *storage.Product) error {
	query := fmt.Sprintf(`
		INSERT INTO %s
		(id, name, description, price, currency, sku, category, brand,
		 image_url, product_url, store_name, embedding, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			sku = EXCLUDED.sku,
			category = EXCLUDED.category,
			brand = EXCLUDED.brand,
			image_url = EXCLUDED.image_url,
			product_url = EXCLUDED.product_url,
			store_name = EXCLUDED.store_name,
			embedding = EXCLUDED.embedding,
			updated_at = EXCLUDED.updated_at
	`, c.tableName)

	var embedding interface{}
	if product.Embedding != nil {
		embedding = vectorToString(product.Embedding)
	}

	_, err := c.db.ExecContext(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Currency,
		product.SKU,
		product.Category,
		product.Brand,
		product.ImageURL,
		product.ProductURL,
		product.StoreName,
		embedding,
		time.Now(),
	)

	if err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}

	return nil
}

// Get retrieves a product by ID.
func (c *Client) Get(ctx context.Context, id string) (*storage.Product, error) {
	query := fmt.Sprintf(`
		SELECT id, name, description, price, currency, sku, category, brand,
		       image_url, product_url, store_name, embedding, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, c.tableName)

	row := c.db.QueryRowContext(ctx, query, id)

	product, err := scanProduct(row, false)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("Get: not found")
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}

	return product, nil
}

// Search performs similarity search using pgvector's cosine distance.
//
// Rows with a null embedding are excluded, the similarity floor maps to a
// distance bound, and ties are broken by created_at, which approximates
// insertion order.
func (c *Client) Search(ctx context.Context, embedding []float64, opts *storage.SearchOptions) ([]*storage.Product, error) {
	if opts == nil {
		opts = &storage.SearchOptions{}
	}

	queryVectorStr := vectorToString(embedding)

	// $1 is the query vector; filter args start from $2.
	whereClause, filterArgs := buildWhereClauseWithOffset(opts.StoreName, opts.MinScore, 2)

	allArgs := []interface{}{queryVectorStr}
	allArgs = append(allArgs, filterArgs...)

	limitClause, limitArgs := buildLimitClause(opts.Limit, len(filterArgs)+2)
	allArgs = append(allArgs, limitArgs...)

	query := fmt.Sprintf(`
		SELECT
			id, name, description, price, currency, sku, category, brand,
			image_url, product_url, store_name, embedding, created_at, updated_at,
			1 - (embedding <=> $1) AS similarity
		FROM %s
		%s
		ORDER BY embedding <=> $1, created_at
		%s
	`, c.tableName, whereClause, limitClause)

	rows, err := c.db.QueryContext(ctx, query, allArgs...)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []*storage.Product
	for rows.Next() {
		product, err := scanProduct(rows, true)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

// DeleteAll deletes all rows, optionally scoped to a store, and returns
// the number of rows removed.
func (c *Client) DeleteAll(ctx context.Context, opts *storage.DeleteAllOptions) (int64, error) {
	if opts == nil {
		opts = &storage.DeleteAllOptions{}
	}

	query := fmt.Sprintf("DELETE FROM %s", c.tableName)
	var args []interface{}
	if opts.StoreName != "" {
		query += " WHERE store_name = $1"
		args = append(args, opts.StoreName)
	}

	result, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("DeleteAll: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteAll: %w", err)
	}

	return count, nil
}

// Dimensions returns the vector column size declared by the schema.
func (c *Client) Dimensions() int {
	return c.dimensions
}

// Close closes the database connection.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// vectorToString converts a vector to PostgreSQL vector format: "[0.1,0.2,...]".
func vectorToString(vector []float64) string {
	if len(vector) == 0 {
		return "[]"
	}

	parts := make([]string, len(vector))
	for i, v := range vector {
		parts[i] = fmt.Sprintf("%f", v)
	}

	return "[" + strings.Join(parts, ",") + "]"
}

// parseVectorString parses a PostgreSQL vector string.
func parseVectorString(s string) ([]float64, error) {
	s = strings.Trim(s, "[]")
	if s == "" {
		return []float64{}, nil
	}

	parts := strings.Split(s, ",")
	result := make([]float64, len(parts))

	for i, part := range parts {
		var val float64
		_, err := fmt.Sscanf(strings.TrimSpace(part), "%f", &val)
		if err != nil {
			return nil, err
		}
		result[i] = val
	}

	return result, nil
}

// scanProduct scans a product from a row or rows, with or without the
// trailing similarity column.
func scanProduct(scanner interface {
	Scan(dest ...interface{}) error
}, hasScore bool) (*storage.Product, error) {
	var product storage.Product
	var description, currency, sku, category, brand, imageURL, productURL sql.NullString
	var price sql.NullFloat64
	var embeddingStr sql.NullString
	var similarity float64

	dest := []interface{}{
		&product.ID,
		&product.Name,
		&description,
		&price,
		&currency,
		&sku,
		&category,
		&brand,
		&imageURL,
		&productURL,
		&product.StoreName,
		&embeddingStr,
		&product.CreatedAt,
		&product.UpdatedAt,
	}
	if hasScore {
		dest = append(dest, &similarity)
	}

	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}

	product.Description = description.String
	product.Price = price.Float64
	product.Currency = currency.String
	product.SKU = sku.String
	product.Category = category.String
	product.Brand = brand.String
	product.ImageURL = imageURL.String
	product.ProductURL = productURL.String
	product.Score = similarity

	if embeddingStr.Valid && embeddingStr.String != "" {
		embedding, err := parseVectorString(embeddingStr.String)
		if err != nil {
			return nil, fmt.Errorf("parse embedding: %w", err)
		}
		product.Embedding = embedding
	}

	return &product, nil
}
