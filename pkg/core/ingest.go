package core

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Ingest consumes a batch of raw product records and writes them into the
// product store with their embeddings.
//
// For each record, in input order, the pipeline:
//  1. Validates required fields (non-empty name, non-negative price)
//  2. Composes the canonical search text
//  3. Requests an embedding
//  4. Upserts the row (record + embedding written atomically)
//
// A failure at any step for a single record is logged and counted; it never
// aborts the batch. The returned counts always sum to len(products).
//
// Embedding requests are throttled by a token bucket (IngestConfig.
// RatePerSecond) and fanned out over a bounded worker pool (IngestConfig.
// Workers). The default single worker preserves input-order writes.
//
// Records without an ID are assigned one; records without a SKU get a
// synthesized one. Both are written back to the input slice so callers can
// retrieve the ingested rows afterwards.
func (c *Client) Ingest(ctx context.Context, products []*Product, storeName string, opts ...IngestOption) (*Report, error) {
	if storeName == "" {
		return nil, NewSearchError("Ingest", ErrStoreNameRequired)
	}

	ingestOpts := applyIngestOptions(opts)
	total := len(products)

	report := &Report{}
	var mu sync.Mutex
	var wg sync.WaitGroup
	done := 0

	finish := func(err error) {
		mu.Lock()
		if err == nil {
			report.Imported++
		} else {
			report.Failed++
		}
		done++
		progress := done
		mu.Unlock()
		if ingestOpts.progress != nil {
			ingestOpts.progress(progress, total)
		}
	}

	submitted := 0
	for i := range products {
		if err := c.limiter.Wait(ctx); err != nil {
			break
		}

		product := products[i]
		wg.Add(1)
		err := c.pool.Submit(func() {
			defer wg.Done()
			ingestErr := c.ingestOne(ctx, product, storeName)
			if ingestErr != nil {
				c.logger.Error("ingest: record failed", "store", storeName, "error", ingestErr)
			}
			finish(ingestErr)
		})
		if err != nil {
			wg.Done()
			c.logger.Error("ingest: submit failed", "store", storeName, "error", err)
			finish(err)
		}
		submitted++
	}

	wg.Wait()

	// Records never submitted (context cancelled mid-batch) still count,
	// so the report covers the whole input.
	if submitted < total {
		mu.Lock()
		report.Failed += total - submitted
		mu.Unlock()
		return report, NewSearchError("Ingest", ctx.Err())
	}

	return report, nil
}

// ingestOne processes a single record. Returns nil when the row was
// written with its embedding; failures carry the taxonomy sentinels so
// callers can classify them with errors.Is.
func (c *Client) ingestOne(ctx context.Context, product *Product, storeName string) error {
	if product == nil {
		return fmt.Errorf("%w: nil record", ErrInvalidProduct)
	}
	if product.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidProduct)
	}
	if product.Price < 0 {
		return fmt.Errorf("%w: negative price", ErrInvalidProduct)
	}

	text := c.composer.Compose(product.Name, product.Description, product.Category, product.Brand)

	embedding, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}

	record := toStorageProduct(product)
	record.StoreName = storeName
	record.Embedding = embedding
	if record.ID == "" {
		record.ID = uuid.NewString()
		product.ID = record.ID
	}
	if record.Currency == "" {
		record.Currency = DefaultCurrency
	}
	if record.SKU == "" {
		record.SKU = "SKU-" + strings.ToUpper(c.node.Generate().Base36())
		product.SKU = record.SKU
	}

	if err := c.store.Upsert(ctx, record); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}

	c.logger.Info("ingest: imported", "product", product.Name, "store", storeName)
	return nil
}
