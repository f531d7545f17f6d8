package embedding

import "context"

// Embedder converts free text into a numeric vector representation.
// Query-time and ingestion-time vectors must come from the same model,
// or similarity search is meaningless.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Dimension() int
	Model() string
}
