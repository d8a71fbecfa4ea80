package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miracleworks/shopsearch-go/pkg/embedder/mock"
)

// seedCatalog ingests three products whose similarity to an "alpha" query
// is 1.0, 0.8 and 0.0 respectively.
func seedCatalog(t *testing.T, client *Client) {
	t.Helper()

	products := []*Product{
		{ID: "alpha", Name: "Alpha Ring", Price: 100},
		{ID: "beta", Name: "Beta Ring", Price: 200},
		{ID: "gamma", Name: "Gamma Ring", Price: 300},
	}
	report, err := client.Ingest(context.Background(), products, "zamels")
	require.NoError(t, err)
	require.Equal(t, 3, report.Imported)
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	embed := mock.NewClient(testDims)
	client := newTestClient(t, embed)

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := client.Search(context.Background(), query, "", 0)
		assert.ErrorIs(t, err, ErrInvalidQuery)
	}

	// Rejected before any provider call.
	assert.Equal(t, 0, embed.CallCount())
}

func TestSearchRanksBySimilarity(t *testing.T) {
	client := newTestClient(t, vectorEmbedder())
	seedCatalog(t, client)

	results, err := client.Search(context.Background(), "alpha", "zamels", 10)
	require.NoError(t, err)

	// gamma scores 0.0, below the floor.
	require.Len(t, results, 2)
	assert.Equal(t, "alpha", results[0].ID)
	assert.Equal(t, "beta", results[1].ID)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-9)
	assert.InDelta(t, 0.8, results[1].Similarity, 1e-9)
}

func TestSearchWidensUnknownStore(t *testing.T) {
	client := newTestClient(t, vectorEmbedder())
	seedCatalog(t, client)

	products := []*Product{{ID: "alpha-2", Name: "Alpha Dress", Price: 50}}
	_, err := client.Ingest(context.Background(), products, "sydneystreet")
	require.NoError(t, err)

	// An unrecognized filter searches every store.
	results, err := client.Search(context.Background(), "alpha", "no-such-store", 10)
	require.NoError(t, err)
	ids := resultIDs(results)
	assert.Contains(t, ids, "alpha")
	assert.Contains(t, ids, "alpha-2")

	// A recognized filter stays scoped.
	results, err = client.Search(context.Background(), "alpha", "sydneystreet", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha-2"}, resultIDs(results))
}

func TestSearchClampsLimit(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Search.DefaultLimit = 1
	cfg.Search.MaxLimit = 2

	client, err := NewClient(cfg, WithEmbedder(vectorEmbedder()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	products := []*Product{
		{ID: "a", Name: "Alpha One", Price: 1},
		{ID: "b", Name: "Alpha Two", Price: 2},
		{ID: "c", Name: "Alpha Three", Price: 3},
	}
	_, err = client.Ingest(context.Background(), products, "zamels")
	require.NoError(t, err)

	// Zero falls back to the default.
	results, err := client.Search(context.Background(), "alpha", "zamels", 0)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	// An oversized request is clamped to the cap, not echoed back.
	results, err = client.Search(context.Background(), "alpha", "zamels", 500)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchNoMatchesReturnsEmptySlice(t *testing.T) {
	client := newTestClient(t, vectorEmbedder())

	results, err := client.Search(context.Background(), "alpha", "zamels", 10)
	require.NoError(t, err)
	require.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearchEmbeddingFailureIsUnavailable(t *testing.T) {
	embed := mock.NewClient(testDims)
	embed.EmbedFunc = func(ctx context.Context, text string) ([]float64, error) {
		return nil, errors.New("api key expired")
	}
	client := newTestClient(t, embed)

	_, err := client.Search(context.Background(), "alpha", "", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetrievalUnavailable)
	assert.ErrorIs(t, err, ErrEmbeddingFailed)

	// The upstream cause never leaks into the returned error.
	assert.NotContains(t, err.Error(), "api key")
}

func TestSearchStoreFailureIsUnavailable(t *testing.T) {
	store := &failingStore{err: errors.New("connection refused to db.internal:5432")}
	client, err := NewClient(newTestConfig(t), WithEmbedder(vectorEmbedder()), WithStore(store))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	_, err = client.Search(context.Background(), "alpha", "", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetrievalUnavailable)
	assert.ErrorIs(t, err, ErrStoreQuery)
	assert.NotContains(t, err.Error(), "db.internal")
}

func TestSearchResultsOmitEmbeddings(t *testing.T) {
	client := newTestClient(t, vectorEmbedder())
	seedCatalog(t, client)

	results, err := client.Search(context.Background(), "alpha", "zamels", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Alpha Ring", results[0].Name)
	assert.Equal(t, 100.0, results[0].Price)
	assert.Equal(t, DefaultCurrency, results[0].Currency)
}

func TestSearchAsyncDeliversResults(t *testing.T) {
	cfg := newTestConfig(t)
	client, err := NewAsyncClient(cfg, WithEmbedder(vectorEmbedder()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	seedCatalog(t, client.Client)

	ch := client.SearchAsync(context.Background(), "alpha", "zamels", 10)
	res := <-ch
	require.NoError(t, res.Error)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "alpha", res.Results[0].ID)
}

func TestSearchScopedScenario(t *testing.T) {
	embed := mock.NewClient(testDims)
	embed.EmbedFunc = func(ctx context.Context, text string) ([]float64, error) {
		if strings.Contains(strings.ToLower(text), "gold") {
			return []float64{1, 0, 0}, nil
		}
		return []float64{0, 1, 0}, nil
	}
	client := newTestClient(t, embed)
	ctx := context.Background()

	products := []*Product{{
		Name:        "Gold Hoop Earrings",
		Description: "Classic 14k hoops",
		Category:    "earrings",
		Brand:       "Zamels",
		Price:       320,
	}}
	report, err := client.Ingest(ctx, products, "zamels")
	require.NoError(t, err)
	require.Equal(t, 1, report.Imported)

	results, err := client.Search(ctx, "gold hoops", "zamels", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Gold Hoop Earrings", results[0].Name)
	assert.Greater(t, results[0].Similarity, client.SimilarityFloor())

	// The same query scoped to the other store finds nothing.
	results, err = client.Search(ctx, "gold hoops", "sydneystreet", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func resultIDs(results []Result) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	return ids
}
