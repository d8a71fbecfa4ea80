// Package core provides the main shopsearch client and the ingestion and
// query pipelines for semantic product search.
package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/snowflake"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"

	"github.com/miracleworks/shopsearch-go/pkg/embedder"
	openaiEmbedder "github.com/miracleworks/shopsearch-go/pkg/embedder/openai"
	"github.com/miracleworks/shopsearch-go/pkg/searchtext"
	"github.com/miracleworks/shopsearch-go/pkg/storage"
	postgresStore "github.com/miracleworks/shopsearch-go/pkg/storage/postgres"
	sqliteStore "github.com/miracleworks/shopsearch-go/pkg/storage/sqlite"
)

// Client is the main shopsearch client.
//
// It owns the process-wide embedding provider and product store, constructed
// once from configuration and shared by the ingestion and query pipelines.
// The client is safe for concurrent use: queries run independently and share
// no mutable state, and the store guarantees that a reader never observes a
// half-written row.
//
// Example usage:
//
//	config, _ := core.LoadConfigFromEnv()
//	client, _ := core.NewClient(config)
//	defer client.Close()
//
//	report, _ := client.Ingest(ctx, products, "zamels")
//	results, _ := client.Search(ctx, "gold hoops", "zamels", 5)
type Client struct {
	// config contains the client configuration.
	config *Config

	// store is the product store for persistence and similarity search.
	store storage.ProductStore

	// embedder is the embedding provider for vector generation.
	embedder embedder.Provider

	// composer builds the canonical search text for ingested products.
	composer *searchtext.Composer

	// limiter is the token bucket throttling embedding requests during
	// ingestion.
	limiter *rate.Limiter

	// pool bounds the number of in-flight records during ingestion.
	pool *ants.Pool

	// node generates unique values for synthesized SKUs.
	node *snowflake.Node

	// validStores is the set of recognized store names for query filters.
	validStores map[string]struct{}

	logger *slog.Logger
}

// ClientOption customizes client construction. Primarily used to inject
// an alternative embedding provider or store (e.g. test doubles).
type ClientOption func(*Client)

// WithEmbedder injects an embedding provider, bypassing the configured one.
func WithEmbedder(provider embedder.Provider) ClientOption {
	return func(c *Client) { c.embedder = provider }
}

// WithStore injects a product store, bypassing the configured one.
func WithStore(store storage.ProductStore) ClientOption {
	return func(c *Client) { c.store = store }
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithComposer sets a custom search-text composer, e.g. one carrying an
// extended category keyword table.
func WithComposer(composer *searchtext.Composer) ClientOption {
	return func(c *Client) {
		if composer != nil {
			c.composer = composer
		}
	}
}

// NewClient creates a new shopsearch client.
//
// The client is initialized with:
//   - Product store (SQLite or PostgreSQL + pgvector)
//   - Embedding provider (OpenAI)
//   - Ingestion throttle (token bucket + bounded worker pool)
//
// The embedding dimensionality is checked against the store schema here:
// a mismatch is a configuration error and fails fast at construction
// rather than per call.
func NewClient(cfg *Config, opts ...ClientOption) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := &Client{
		config:   cfg,
		composer: searchtext.New(nil),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(client)
	}

	if client.store == nil {
		store, err := initStore(cfg.Store)
		if err != nil {
			return nil, err
		}
		client.store = store
	}

	if client.embedder == nil {
		provider, err := openaiEmbedder.NewClient(&openaiEmbedder.Config{
			APIKey:     cfg.Embedder.APIKey,
			Model:      cfg.Embedder.Model,
			BaseURL:    cfg.Embedder.BaseURL,
			Dimensions: cfg.Embedder.Dimensions,
		})
		if err != nil {
			return nil, NewSearchError("NewClient", err)
		}
		client.embedder = provider
	}

	if dims := client.store.Dimensions(); dims != 0 && client.embedder.Dimensions() != dims {
		return nil, NewSearchError("NewClient",
			fmt.Errorf("embedding dimensions %d do not match store schema %d: %w",
				client.embedder.Dimensions(), dims, ErrInvalidConfig))
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, NewSearchError("NewClient", err)
	}
	client.node = node

	ratePerSecond := cfg.Ingest.RatePerSecond
	if ratePerSecond <= 0 {
		ratePerSecond = 5
	}
	client.limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)

	workers := cfg.Ingest.Workers
	if workers <= 0 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, NewSearchError("NewClient", err)
	}
	client.pool = pool

	client.validStores = make(map[string]struct{}, len(cfg.Search.ValidStores))
	for _, name := range cfg.Search.ValidStores {
		client.validStores[name] = struct{}{}
	}

	return client, nil
}

// Setup creates or verifies the product store schema: the table, its
// indexes and the server-side similarity search operation. Idempotent.
func (c *Client) Setup(ctx context.Context) error {
	if err := c.store.EnsureSchema(ctx); err != nil {
		return NewSearchError("Setup", err)
	}
	return nil
}

// Get retrieves a single product by ID.
func (c *Client) Get(ctx context.Context, id string) (*Product, error) {
	record, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, NewSearchError("Get", err)
	}
	return fromStorageProduct(record), nil
}

// Clear deletes all product rows, optionally scoped to a single store,
// and returns the number of rows removed. There is no soft delete.
func (c *Client) Clear(ctx context.Context, storeName string) (int64, error) {
	count, err := c.store.DeleteAll(ctx, &storage.DeleteAllOptions{StoreName: storeName})
	if err != nil {
		return 0, NewSearchError("Clear", err)
	}
	return count, nil
}

// ResolveStore validates a store filter against the configured set of
// store names. An unrecognized value is widened to "" (all stores),
// never an error.
func (c *Client) ResolveStore(storeName string) string {
	if _, ok := c.validStores[storeName]; ok {
		return storeName
	}
	return ""
}

// Close closes the client and releases all resources: the worker pool,
// the product store connection and the embedding provider.
//
// Returns the first error encountered during cleanup.
func (c *Client) Close() error {
	var errs []error

	if c.pool != nil {
		c.pool.Release()
	}

	if c.store != nil {
		if err := c.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if c.embedder != nil {
		if err := c.embedder.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}

	return nil
}

// initStore initializes the store backend.
func initStore(cfg StoreConfig) (storage.ProductStore, error) {
	switch cfg.Provider {
	case "sqlite":
		return sqliteStore.NewClient(&sqliteStore.Config{
			DBPath:             stringValue(cfg.Config, "db_path", "./shopsearch.db"),
			TableName:          stringValue(cfg.Config, "table_name", "products"),
			EmbeddingModelDims: intValue(cfg.Config, "embedding_model_dims", DefaultDimensions),
		})
	case "postgres":
		return postgresStore.NewClient(&postgresStore.Config{
			Host:               stringValue(cfg.Config, "host", "localhost"),
			Port:               intValue(cfg.Config, "port", 5432),
			User:               stringValue(cfg.Config, "user", "postgres"),
			Password:           stringValue(cfg.Config, "password", ""),
			DBName:             stringValue(cfg.Config, "db_name", "shopsearch"),
			TableName:          stringValue(cfg.Config, "table_name", "products"),
			EmbeddingModelDims: intValue(cfg.Config, "embedding_model_dims", DefaultDimensions),
			SSLMode:            stringValue(cfg.Config, "ssl_mode", "disable"),
		})
	default:
		return nil, NewSearchError("initStore", ErrInvalidConfig)
	}
}

// stringValue reads a string key from a provider config map.
func stringValue(m map[string]interface{}, key, defaultValue string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return defaultValue
}

// intValue reads an int key from a provider config map. JSON-decoded
// configs carry numbers as float64, so both forms are accepted.
func intValue(m map[string]interface{}, key string, defaultValue int) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return defaultValue
}
