// Package core provides the main shopsearch client and the ingestion and
// query pipelines for semantic product search.
package core

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config contains the complete configuration for a shopsearch client.
//
// It includes settings for:
//   - Embedding provider (for vector generation)
//   - Product store (for persistence and similarity search)
//   - Query pipeline (similarity floor, limits, valid store names)
//   - Ingestion pipeline (throttle rate, worker count)
//
// Example:
//
//	config := core.DefaultConfig()
//	config.Embedder.APIKey = "sk-..."
//	config.Store = core.StoreConfig{
//	    Provider: "postgres",
//	    Config: map[string]interface{}{
//	        "host": "localhost", "port": 5432, ...
//	    },
//	}
type Config struct {
	// Embedder contains embedding provider configuration.
	Embedder EmbedderConfig `json:"embedder"`

	// Store contains product store configuration.
	Store StoreConfig `json:"store"`

	// Search contains query pipeline configuration.
	Search SearchConfig `json:"search"`

	// Ingest contains ingestion pipeline configuration.
	Ingest IngestConfig `json:"ingest"`

	// HTTPAddr is the listen address for the search HTTP boundary.
	HTTPAddr string `json:"http_addr,omitempty"`
}

// EmbedderConfig contains configuration for the embedding provider.
type EmbedderConfig struct {
	// APIKey is the API key for the embedding provider.
	APIKey string `json:"api_key"`

	// Model is the embedding model name (e.g. "text-embedding-3-small").
	Model string `json:"model"`

	// BaseURL is the base URL for the API (optional, provider default if empty).
	BaseURL string `json:"base_url,omitempty"`

	// Dimensions is the dimension of the embedding vectors (e.g. 1536).
	// Must match the vector column size declared by the store schema.
	Dimensions int `json:"dimensions,omitempty"`
}

// StoreConfig contains configuration for the product store.
//
// Supported providers: sqlite, postgres
type StoreConfig struct {
	// Provider is the store provider name (sqlite, postgres).
	Provider string `json:"provider"`

	// Config contains provider-specific configuration.
	// For SQLite: db_path, table_name, embedding_model_dims
	// For PostgreSQL: host, port, user, password, db_name, table_name,
	// embedding_model_dims, ssl_mode
	Config map[string]interface{} `json:"config"`
}

// SearchConfig contains configuration for the query pipeline.
type SearchConfig struct {
	// SimilarityFloor is the minimum similarity score for results.
	// One configured floor is used on every query path.
	SimilarityFloor float64 `json:"similarity_floor"`

	// DefaultLimit is the result count used when the caller requests none.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit is the hard cap on result counts. Larger requests are clamped.
	MaxLimit int `json:"max_limit"`

	// ValidStores is the set of recognized store names. An unrecognized
	// store filter is silently widened to "all stores", never an error.
	ValidStores []string `json:"valid_stores"`
}

// IngestConfig contains configuration for the ingestion pipeline.
type IngestConfig struct {
	// RatePerSecond is the embedding request rate allowed by the token
	// bucket throttle. The default of 5/s matches a 200ms inter-record
	// pause.
	RatePerSecond float64 `json:"rate_per_second"`

	// Workers is the number of concurrent in-flight records. A single
	// worker preserves input-order writes.
	Workers int `json:"workers"`
}

// DefaultConfig returns a configuration with all defaults applied:
// a local SQLite store, the text-embedding-3-small model, the documented
// similarity floor and limits, and a 5/s single-worker ingestion throttle.
func DefaultConfig() *Config {
	return &Config{
		Embedder: EmbedderConfig{
			Model:      "text-embedding-3-small",
			Dimensions: DefaultDimensions,
		},
		Store: StoreConfig{
			Provider: "sqlite",
			Config: map[string]interface{}{
				"db_path":              "./shopsearch.db",
				"table_name":           "products",
				"embedding_model_dims": DefaultDimensions,
			},
		},
		Search: SearchConfig{
			SimilarityFloor: DefaultSimilarityFloor,
			DefaultLimit:    DefaultLimit,
			MaxLimit:        MaxLimit,
			ValidStores:     []string{"zamels", "sydneystreet"},
		},
		Ingest: IngestConfig{
			RatePerSecond: 5,
			Workers:       1,
		},
		HTTPAddr: ":8080",
	}
}

// LoadConfigFromEnv loads configuration from environment variables.
//
// The function:
//  1. Searches for .env or .env.example files (up to 5 directory levels up)
//  2. Loads environment variables from the found file
//  3. Parses environment variables into a Config struct
//
// Supported environment variables:
//   - DATABASE_PROVIDER (sqlite, postgres)
//   - SQLITE_PATH, SQLITE_TABLE, SQLITE_EMBEDDING_MODEL_DIMS
//   - POSTGRES_HOST, POSTGRES_PORT, POSTGRES_USER, POSTGRES_PASSWORD,
//     POSTGRES_DATABASE, POSTGRES_TABLE, POSTGRES_EMBEDDING_MODEL_DIMS,
//     POSTGRES_SSLMODE
//   - EMBEDDING_API_KEY, EMBEDDING_MODEL, EMBEDDING_BASE_URL, EMBEDDING_DIMS
//   - SEARCH_SIMILARITY_FLOOR, SEARCH_VALID_STORES (comma-separated)
//   - INGEST_RATE, INGEST_WORKERS
//   - HTTP_ADDR
func LoadConfigFromEnv() (*Config, error) {
	envPath, found := FindEnvFile()
	if found {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	config := DefaultConfig()

	provider := getEnvOrDefault("DATABASE_PROVIDER", "sqlite")
	switch provider {
	case "sqlite":
		dims, _ := strconv.Atoi(getEnvOrDefault("SQLITE_EMBEDDING_MODEL_DIMS", strconv.Itoa(DefaultDimensions)))
		config.Store = StoreConfig{
			Provider: "sqlite",
			Config: map[string]interface{}{
				"db_path":              getEnvOrDefault("SQLITE_PATH", "./shopsearch.db"),
				"table_name":           getEnvOrDefault("SQLITE_TABLE", "products"),
				"embedding_model_dims": dims,
			},
		}
	case "postgres":
		port, _ := strconv.Atoi(getEnvOrDefault("POSTGRES_PORT", "5432"))
		dims, _ := strconv.Atoi(getEnvOrDefault("POSTGRES_EMBEDDING_MODEL_DIMS", strconv.Itoa(DefaultDimensions)))
		config.Store = StoreConfig{
			Provider: "postgres",
			Config: map[string]interface{}{
				"host":                 getEnvOrDefault("POSTGRES_HOST", "localhost"),
				"port":                 port,
				"user":                 getEnvOrDefault("POSTGRES_USER", "postgres"),
				"password":             os.Getenv("POSTGRES_PASSWORD"),
				"db_name":              getEnvOrDefault("POSTGRES_DATABASE", "shopsearch"),
				"table_name":           getEnvOrDefault("POSTGRES_TABLE", "products"),
				"embedding_model_dims": dims,
				"ssl_mode":             getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
			},
		}
	}

	embDims, _ := strconv.Atoi(getEnvOrDefault("EMBEDDING_DIMS", strconv.Itoa(DefaultDimensions)))
	config.Embedder = EmbedderConfig{
		APIKey:     os.Getenv("EMBEDDING_API_KEY"),
		Model:      getEnvOrDefault("EMBEDDING_MODEL", "text-embedding-3-small"),
		BaseURL:    os.Getenv("EMBEDDING_BASE_URL"),
		Dimensions: embDims,
	}

	if floor := os.Getenv("SEARCH_SIMILARITY_FLOOR"); floor != "" {
		if val, err := strconv.ParseFloat(floor, 64); err == nil {
			config.Search.SimilarityFloor = val
		}
	}
	if stores := os.Getenv("SEARCH_VALID_STORES"); stores != "" {
		var names []string
		for _, s := range strings.Split(stores, ",") {
			if s = strings.TrimSpace(s); s != "" {
				names = append(names, s)
			}
		}
		config.Search.ValidStores = names
	}

	if rate := os.Getenv("INGEST_RATE"); rate != "" {
		if val, err := strconv.ParseFloat(rate, 64); err == nil && val > 0 {
			config.Ingest.RatePerSecond = val
		}
	}
	if workers := os.Getenv("INGEST_WORKERS"); workers != "" {
		if val, err := strconv.Atoi(workers); err == nil && val > 0 {
			config.Ingest.Workers = val
		}
	}

	config.HTTPAddr = getEnvOrDefault("HTTP_ADDR", ":8080")

	return config, nil
}

// LoadConfigFromJSON loads configuration from a JSON file.
//
// Fields absent from the file keep their defaults.
func LoadConfigFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewSearchError("LoadConfigFromJSON", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, NewSearchError("LoadConfigFromJSON", err)
	}

	return config, nil
}

// Validate validates the configuration.
//
// Checks that the store provider is known, the similarity floor is within
// the cosine range, and the limits are sane.
func (c *Config) Validate() error {
	switch c.Store.Provider {
	case "sqlite", "postgres":
	default:
		return NewSearchError("Validate", ErrInvalidConfig)
	}
	if c.Search.SimilarityFloor < -1 || c.Search.SimilarityFloor > 1 {
		return NewSearchError("Validate", ErrInvalidConfig)
	}
	if c.Search.MaxLimit <= 0 || c.Search.DefaultLimit <= 0 || c.Search.DefaultLimit > c.Search.MaxLimit {
		return NewSearchError("Validate", ErrInvalidConfig)
	}
	return nil
}

// getEnvOrDefault gets an environment variable or returns the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FindEnvFile searches for .env or .env.example files.
//
// The search:
//  1. Checks the current directory
//  2. Searches up to 5 directory levels up
//  3. Returns the first .env or .env.example file found
func FindEnvFile() (string, bool) {
	if _, err := os.Stat(".env"); err == nil {
		return ".env", true
	}
	if _, err := os.Stat(".env.example"); err == nil {
		return ".env.example", true
	}

	dir, _ := os.Getwd()
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		envExamplePath := filepath.Join(dir, ".env.example")

		if _, err := os.Stat(envPath); err == nil {
			return envPath, true
		}
		if _, err := os.Stat(envExamplePath); err == nil {
			return envExamplePath, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", false
}
