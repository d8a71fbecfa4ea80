// Package sqlite provides a SQLite implementation of the product store.
//
// SQLite is a lightweight, file-based database suitable for local development
// and tests. Vectors are stored as JSON strings in TEXT fields, and similarity
// search uses in-memory cosine similarity calculation over a full table scan.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/miracleworks/shopsearch-go/pkg/storage"
)

// Client implements ProductStore using SQLite as the backend.
type Client struct {
	// db is the SQLite database connection.
	db *sql.DB

	// tableName is the name of the table storing products.
	tableName string

	// dimensions is the dimension of embedding vectors.
	dimensions int
}

// Config contains configuration for creating a SQLite product store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// TableName is the name of the table to use.
	TableName string

	// EmbeddingModelDims is the dimension of embedding vectors.
	EmbeddingModelDims int
}

// NewClient creates a new SQLite product store client.
//
// The schema is created on connect if it does not exist.
func NewClient(cfg *Config) (*Client, error) {
	dbDir := filepath.Dir(cfg.DBPath)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("NewSQLiteClient: failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_foreign_keys=1&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("NewSQLiteClient: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("NewSQLiteClient: %w", err)
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

// EnsureSchema creates the product table and its filter indexes.
//
// SQLite has no vector index; search scans the table and ranks in memory.
func (c *Client) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			price REAL,
			currency TEXT DEFAULT 'AUD',
			sku TEXT,
			category TEXT,
			brand TEXT,
			image_url TEXT,
			product_url TEXT,
			store_name TEXT NOT NULL,
			embedding TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`, c.tableName)

	_, err := c.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("EnsureSchema: %w", err)
	}

	for _, indexQuery := range []string{
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_store ON %s(store_name)", c.tableName, c.tableName),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_category ON %s(category)", c.tableName, c.tableName),
	} {
		if _, err := c.db.ExecContext(ctx, indexQuery); err != nil {
			return fmt.Errorf("EnsureSchema: %w", err)
		}
	}

	return nil
}

// Upsert writes a product row. An existing ID has all fields replaced,
// including the embedding; the statement is atomic so a reader never
// observes a half-written row.
func (c *Client) Upsert(ctx context.Context, product *storage.Product) error {
	embeddingJSON, err := encodeEmbedding(product.Embedding)
	if err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s
		(id, name, description, price, currency, sku, category, brand,
		 image_url, product_url, store_name, embedding, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			price = excluded.price,
			currency = excluded.currency,
			sku = excluded.sku,
			category = excluded.category,
			brand = excluded.brand,
			image_url = excluded.image_url,
			product_url = excluded.product_url,
			store_name = excluded.store_name,
			embedding = excluded.embedding,
			updated_at = excluded.updated_at
	`, c.tableName)

	now := time.Now()
	_, err = c.db.ExecContext(ctx, query,
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
		embeddingJSON,
		now,
		now,
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
		WHERE id = ?
	`, c.tableName)

	row := c.db.QueryRowContext(ctx, query, id)

	product, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("Get: not found")
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}

	return product, nil
}

// Search performs cosine similarity search.
//
// SQLite has no native vector operations, so candidates are loaded in
// insertion order (rowid) and ranked in memory with a stable sort, which
// keeps ties in insertion order. Rows with a null embedding are excluded
// unconditionally.
func (c *Client) Search(ctx context.Context, embedding []float64, opts *storage.SearchOptions) ([]*storage.Product, error) {
	if opts == nil {
		opts = &storage.SearchOptions{}
	}

	whereClause, args := buildWhereClause(opts.StoreName)

	query := fmt.Sprintf(`
		SELECT id, name, description, price, currency, sku, category, brand,
		       image_url, product_url, store_name, embedding, created_at, updated_at
		FROM %s
		%s
		ORDER BY rowid
	`, c.tableName, whereClause)

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []*storage.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}

		if len(product.Embedding) == 0 {
			continue
		}

		score := cosineSimilarity(embedding, product.Embedding)
		if score >= opts.MinScore {
			product.Score = score
			products = append(products, product)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Score > products[j].Score
	})

	if opts.Limit > 0 && len(products) > opts.Limit {
		products = products[:opts.Limit]
	}

	return products, nil
}

// DeleteAll deletes all rows, optionally scoped to a store, and returns
// the number of rows removed.
func (c *Client) DeleteAll(ctx context.Context, opts *storage.DeleteAllOptions) (int64, error) {
	if opts == nil {
		opts = &storage.DeleteAllOptions{}
	}

	whereClause, args := buildWhereClause(opts.StoreName)

	query := fmt.Sprintf("DELETE FROM %s %s", c.tableName, whereClause)

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

// Dimensions returns the configured vector dimension.
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

// encodeEmbedding marshals an embedding to its JSON text form.
// A nil embedding is stored as SQL NULL.
func encodeEmbedding(embedding []float64) (interface{}, error) {
	if embedding == nil {
		return nil, nil
	}
	data, err := json.Marshal(embedding)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// scanProduct scans a product from a database row or rows.
func scanProduct(scanner interface {
	Scan(dest ...interface{}) error
}) (*storage.Product, error) {
	var product storage.Product
	var description, currency, sku, category, brand, imageURL, productURL sql.NullString
	var price sql.NullFloat64
	var embeddingStr sql.NullString

	err := scanner.Scan(
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
	)
	if err != nil {
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

	if embeddingStr.Valid && embeddingStr.String != "" {
		if err := json.Unmarshal([]byte(embeddingStr.String), &product.Embedding); err != nil {
			return nil, fmt.Errorf("parse embedding: %w", err)
		}
	}

	return &product, nil
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
