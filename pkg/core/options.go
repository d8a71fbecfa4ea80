package core

// IngestOption customizes a single ingestion run.
type IngestOption func(*ingestOptions)

type ingestOptions struct {
	progress func(done, total int)
}

// WithProgress registers a callback invoked after each record finishes
// (imported or failed). Used by the import CLI to drive a progress bar.
func WithProgress(fn func(done, total int)) IngestOption {
	return func(o *ingestOptions) { o.progress = fn }
}

// applyIngestOptions applies the given options to a default options struct.
func applyIngestOptions(opts []IngestOption) *ingestOptions {
	options := &ingestOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
