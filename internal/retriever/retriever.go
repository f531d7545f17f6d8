// Package retriever performs top-K nearest-neighbor retrieval for one
// corpus, delegating embedding and search to the external providers.
package retriever

import (
	"context"
	"fmt"

	"docqa/internal/domain"
	"docqa/internal/embedding"
	"docqa/internal/vectorstore"
)

type Retriever struct {
	store    vectorstore.Storage
	embedder embedding.Embedder
}

func New(store vectorstore.Storage, embedder embedding.Embedder) *Retriever {
	return &Retriever{store: store, embedder: embedder}
}

// TopK returns up to k chunks in descending score order. Chunks carry
// key and URL only; content is rehydrated from the key index by the
// caller. Equal scores keep store order (non-deterministic upstream).
func (r *Retriever) TopK(ctx context.Context, query string, k int) (domain.RetrievalResult, error) {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := r.store.Search(vec, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return domain.RetrievalResult(hits), nil
}
