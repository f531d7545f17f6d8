package vectorstore

import "docqa/internal/domain"

// Storage persists chunk vectors and supports similarity search.
// Backends keep only the chunk key and URL next to each vector; full
// content lives in the corpus key index and is rehydrated after
// retrieval, which keeps persisted metadata compact.
type Storage interface {
	Init(dimension int) error
	Upsert(chunks []domain.Chunk, vectors [][]float64) error
	// Search returns up to topK chunks in descending score order.
	// Returned chunks carry key and URL only; Content is empty until
	// rehydration. Equal scores keep store order, which is not
	// deterministic across runs.
	Search(vector []float64, topK int) ([]domain.ScoredChunk, error)
	Clear() error
}

// Persistent is implemented by backends that write their index into the
// corpus directory. Remote backends persist on their own side instead.
type Persistent interface {
	Storage
	Save(dir string) error
}
