package core

import (
	"context"
	"sync"
)

// AsyncClient provides asynchronous shopsearch operations.
//
// It wraps the synchronous Client and runs operations in separate
// goroutines, which suits concurrent end-user queries: each request runs
// independently and shares no mutable state with the others.
//
// All async methods return channels that receive the result when the
// operation completes. Wait blocks until every started operation finishes.
type AsyncClient struct {
	*Client
	wg sync.WaitGroup
}

// NewAsyncClient creates a new asynchronous shopsearch client.
func NewAsyncClient(cfg *Config, opts ...ClientOption) (*AsyncClient, error) {
	client, err := NewClient(cfg, opts...)
	if err != nil {
		return nil, err
	}

	return &AsyncClient{Client: client}, nil
}

// SearchAsync runs a query in a separate goroutine and delivers the
// result on the returned channel.
func (ac *AsyncClient) SearchAsync(ctx context.Context, query, storeName string, limit int) <-chan *AsyncSearchResult {
	resultChan := make(chan *AsyncSearchResult, 1)
	ac.wg.Add(1)

	go func() {
		defer ac.wg.Done()
		results, err := ac.Search(ctx, query, storeName, limit)
		resultChan <- &AsyncSearchResult{
			Results: results,
			Error:   err,
		}
		close(resultChan)
	}()

	return resultChan
}

// IngestAsync runs a bulk ingestion in a separate goroutine and delivers
// the report on the returned channel.
func (ac *AsyncClient) IngestAsync(ctx context.Context, products []*Product, storeName string, opts ...IngestOption) <-chan *AsyncIngestResult {
	resultChan := make(chan *AsyncIngestResult, 1)
	ac.wg.Add(1)

	go func() {
		defer ac.wg.Done()
		report, err := ac.Ingest(ctx, products, storeName, opts...)
		resultChan <- &AsyncIngestResult{
			Report: report,
			Error:  err,
		}
		close(resultChan)
	}()

	return resultChan
}

// Wait waits for all asynchronous operations to complete.
func (ac *AsyncClient) Wait() {
	ac.wg.Wait()
}

// Close waits for in-flight operations, then closes the underlying client.
func (ac *AsyncClient) Close() error {
	ac.Wait()
	return ac.Client.Close()
}

// AsyncSearchResult contains the result of an asynchronous search.
type AsyncSearchResult struct {
	// Results is the ranked result list (nil on error).
	Results []Result

	// Error is the error returned by the operation.
	Error error
}

// AsyncIngestResult contains the result of an asynchronous ingestion.
type AsyncIngestResult struct {
	// Report is the ingestion summary.
	Report *Report

	// Error is the error returned by the operation.
	Error error
}
