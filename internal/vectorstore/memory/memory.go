// Package memory provides a brute-force cosine-similarity vector store
// persisted per corpus as a gob index file.
package memory

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"docqa/internal/domain"
)

// IndexFile is the persisted index inside a corpus directory.
const IndexFile = "index.gob"

// Store keeps vectors and chunk references in memory. Vectors are
// assumed L2-normalized, so the dot product is the cosine similarity.
// Reads are safe for concurrent queries once loaded.
type Store struct {
	mu        sync.RWMutex
	dimension int
	keys      []string
	urls      []string
	vectors   [][]float64
}

// indexFile is the on-disk gob layout.
type indexFile struct {
	Dimension int
	Keys      []string
	URLs      []string
	Vectors   [][]float64
}

func New() *Store { return &Store{} }

// Load reads the persisted index of a corpus directory.
func Load(dir string) (*Store, error) {
	f, err := os.Open(filepath.Join(dir, IndexFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no %s in %s", domain.ErrMissingCorpus, IndexFile, dir)
		}
		return nil, err
	}
	defer f.Close()

	var idx indexFile
	if err := gob.NewDecoder(f).Decode(&idx); err != nil {
		return nil, fmt.Errorf("decode %s: %w", IndexFile, err)
	}
	return &Store{
		dimension: idx.Dimension,
		keys:      idx.Keys,
		urls:      idx.URLs,
		vectors:   idx.Vectors,
	}, nil
}

func (s *Store) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.keys = nil
	s.urls = nil
	s.vectors = nil
	return nil
}

func (s *Store) Upsert(chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	for i, c := range chunks {
		s.keys = append(s.keys, c.Key)
		s.urls = append(s.urls, c.URL)
		s.vectors = append(s.vectors, vectors[i])
	}
	return nil
}

func (s *Store) Search(vector []float64, topK int) ([]domain.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 5
	}
	type scored struct {
		idx   int
		score float64
	}
	all := make([]scored, len(s.vectors))
	for i := range s.vectors {
		all[i] = scored{i, dot(s.vectors[i], vector)}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })
	if topK > len(all) {
		topK = len(all)
	}
	results := make([]domain.ScoredChunk, 0, topK)
	for _, p := range all[:topK] {
		results = append(results, domain.ScoredChunk{
			Chunk: domain.Chunk{Key: s.keys[p.idx], URL: s.urls[p.idx]},
			Score: p.score,
		})
	}
	return results, nil
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = nil
	s.urls = nil
	s.vectors = nil
	return nil
}

// Save writes the index into the corpus directory via temp file and
// rename, mirroring the key index write.
func (s *Store) Save(dir string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, IndexFile)
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	idx := indexFile{Dimension: s.dimension, Keys: s.keys, URLs: s.urls, Vectors: s.vectors}
	if err := gob.NewEncoder(f).Encode(idx); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
