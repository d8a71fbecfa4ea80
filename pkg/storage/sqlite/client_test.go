package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miracleworks/shopsearch-go/pkg/storage"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient(&Config{
		DBPath:             filepath.Join(t.TempDir(), "test.db"),
		TableName:          "products",
		EmbeddingModelDims: 3,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func product(id, name, store string, embedding []float64) *storage.Product {
	return &storage.Product{
		ID:        id,
		Name:      name,
		Price:     100,
		Currency:  "AUD",
		StoreName: store,
		Embedding: embedding,
	}
}

func TestUpsertAndGet(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	p := product("p1", "Gold Ring", "zamels", []float64{1, 0, 0})
	p.Description = "Engagement ring"
	p.SKU = "SKU-1"
	p.Category = "rings"
	p.Brand = "Zamels"
	require.NoError(t, client.Upsert(ctx, p))

	got, err := client.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Gold Ring", got.Name)
	assert.Equal(t, "Engagement ring", got.Description)
	assert.Equal(t, "SKU-1", got.SKU)
	assert.Equal(t, "zamels", got.StoreName)
	assert.Equal(t, []float64{1, 0, 0}, got.Embedding)
}

func TestGetNotFound(t *testing.T) {
	client := newTestClient(t)

	_, err := client.Get(context.Background(), "missing")
	assert.Error(t, err)
}

func TestUpsertReplacesExistingRow(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Upsert(ctx, product("p1", "Old Name", "zamels", []float64{1, 0, 0})))
	require.NoError(t, client.Upsert(ctx, product("p1", "New Name", "zamels", []float64{0, 1, 0})))

	got, err := client.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
	assert.Equal(t, []float64{0, 1, 0}, got.Embedding)

	// Still a single row.
	count, err := client.DeleteAll(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSearchOrdersBySimilarityDescending(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Upsert(ctx, product("low", "Low", "zamels", []float64{0.8, 0.6, 0})))
	require.NoError(t, client.Upsert(ctx, product("high", "High", "zamels", []float64{1, 0, 0})))

	results, err := client.Search(ctx, []float64{1, 0, 0}, &storage.SearchOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "high", results[0].ID)
	assert.Equal(t, "low", results[1].ID)
	assert.Greater(t, results[0].Score, results[1].Score)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	assert.InDelta(t, 0.8, results[1].Score, 1e-9)
}

func TestSearchAppliesSimilarityFloor(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Upsert(ctx, product("match", "Match", "zamels", []float64{1, 0, 0})))
	require.NoError(t, client.Upsert(ctx, product("orthogonal", "Orthogonal", "zamels", []float64{0, 1, 0})))

	results, err := client.Search(ctx, []float64{1, 0, 0}, &storage.SearchOptions{Limit: 10, MinScore: 0.2})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "match", results[0].ID)
}

func TestSearchFiltersByStore(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Upsert(ctx, product("z1", "Zamels Ring", "zamels", []float64{1, 0, 0})))
	require.NoError(t, client.Upsert(ctx, product("s1", "Sydney Dress", "sydneystreet", []float64{1, 0, 0})))

	results, err := client.Search(ctx, []float64{1, 0, 0}, &storage.SearchOptions{StoreName: "zamels", Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "z1", results[0].ID)

	// Empty store name searches across all stores.
	results, err = client.Search(ctx, []float64{1, 0, 0}, &storage.SearchOptions{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchExcludesRowsWithoutEmbedding(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Upsert(ctx, product("embedded", "Embedded", "zamels", []float64{1, 0, 0})))
	require.NoError(t, client.Upsert(ctx, product("bare", "Bare", "zamels", nil)))

	results, err := client.Search(ctx, []float64{1, 0, 0}, &storage.SearchOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "embedded", results[0].ID)
}

func TestSearchTiesKeepInsertionOrder(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Upsert(ctx, product("first", "First", "zamels", []float64{1, 0, 0})))
	require.NoError(t, client.Upsert(ctx, product("second", "Second", "zamels", []float64{1, 0, 0})))
	require.NoError(t, client.Upsert(ctx, product("third", "Third", "zamels", []float64{1, 0, 0})))

	results, err := client.Search(ctx, []float64{1, 0, 0}, &storage.SearchOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].ID)
	assert.Equal(t, "second", results[1].ID)
	assert.Equal(t, "third", results[2].ID)
}

func TestSearchHonorsLimit(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, client.Upsert(ctx, product(id, id, "zamels", []float64{1, 0, 0})))
	}

	results, err := client.Search(ctx, []float64{1, 0, 0}, &storage.SearchOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchEmptyStoreIsNotAnError(t *testing.T) {
	client := newTestClient(t)

	results, err := client.Search(context.Background(), []float64{1, 0, 0}, &storage.SearchOptions{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDeleteAllScopedToStore(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Upsert(ctx, product("z1", "Z1", "zamels", []float64{1, 0, 0})))
	require.NoError(t, client.Upsert(ctx, product("z2", "Z2", "zamels", []float64{1, 0, 0})))
	require.NoError(t, client.Upsert(ctx, product("s1", "S1", "sydneystreet", []float64{1, 0, 0})))

	count, err := client.DeleteAll(ctx, &storage.DeleteAllOptions{StoreName: "zamels"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// The other store's rows survive.
	got, err := client.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "S1", got.Name)
}

func TestDeleteAllUnscoped(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Upsert(ctx, product("z1", "Z1", "zamels", []float64{1, 0, 0})))
	require.NoError(t, client.Upsert(ctx, product("s1", "S1", "sydneystreet", []float64{1, 0, 0})))

	count, err := client.DeleteAll(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float64{1, 0}, []float64{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float64{1, 0}, []float64{-1, 0}), 1e-9)

	// Mismatched dimensions and zero vectors degrade to zero.
	assert.Equal(t, 0.0, cosineSimilarity([]float64{1, 0}, []float64{1, 0, 0}))
	assert.Equal(t, 0.0, cosineSimilarity([]float64{0, 0}, []float64{1, 0}))
}
