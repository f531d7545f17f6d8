// Package ingest turns raw text or a structured JSON page dump into a
// persisted corpus: overlapping chunks keyed into the key index and an
// embedded vector index, written all-or-nothing.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"docqa/internal/chunker"
	"docqa/internal/domain"
	"docqa/internal/embedding"
	"docqa/internal/keyindex"
	"docqa/internal/summarizer"
	"docqa/internal/vectorstore"
)

// embedConcurrency bounds parallel embedding calls against the
// provider's rate limits.
const embedConcurrency = 8

// page is one record of the structured JSON input:
// {"pages": [{"url": ..., "content": ...}, ...]}.
type page struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

type document struct {
	Pages []page `json:"pages"`
}

type Ingestor struct {
	splitter   *chunker.RecursiveSplitter
	embedder   embedding.Embedder
	store      vectorstore.Storage
	summarizer *summarizer.Frequency
	log        *zap.Logger
}

func New(splitter *chunker.RecursiveSplitter, embedder embedding.Embedder, store vectorstore.Storage, log *zap.Logger) *Ingestor {
	return &Ingestor{
		splitter:   splitter,
		embedder:   embedder,
		store:      store,
		summarizer: summarizer.NewFrequency(),
		log:        log,
	}
}

// IngestText ingests a plain-text file as a single document. sourceURL
// tags every chunk's provenance (the file path when no URL applies).
func (in *Ingestor) IngestText(ctx context.Context, path, corpusDir, sourceURL string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if sourceURL == "" {
		sourceURL = path
	}
	return in.ingestPages(ctx, []page{{URL: sourceURL, Content: string(data)}}, corpusDir)
}

// IngestJSON ingests a structured page dump; each page is chunked
// independently and its chunks inherit the page URL. Malformed input
// aborts before anything is written.
func (in *Ingestor) IngestJSON(ctx context.Context, path, corpusDir string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrBadInput, err)
	}
	if len(doc.Pages) == 0 {
		return "", fmt.Errorf("%w: no pages", domain.ErrBadInput)
	}
	for i, p := range doc.Pages {
		if p.Content == "" {
			return "", fmt.Errorf("%w: page %d has no content", domain.ErrBadInput, i)
		}
	}
	return in.ingestPages(ctx, doc.Pages, corpusDir)
}

// ingestPages chunks, keys, embeds and persists. The key index and the
// vector index reach disk only after every chunk embedded successfully,
// so a failed run leaves no partial corpus behind.
func (in *Ingestor) ingestPages(ctx context.Context, pages []page, corpusDir string) (string, error) {
	keys := keyindex.New()
	var chunks []domain.Chunk
	var corpus string

	for _, p := range pages {
		pieces := in.splitter.Split(p.Content)
		for _, piece := range pieces {
			key := uuid.NewString()
			if err := keys.Write(key, piece); err != nil {
				return "", err
			}
			c, err := domain.NewChunk(key, p.URL, piece)
			if err != nil {
				return "", err
			}
			chunks = append(chunks, c)
		}
		corpus += p.Content + "\n"
	}
	if len(chunks) == 0 {
		return "", fmt.Errorf("%w: input produced no chunks", domain.ErrBadInput)
	}
	in.log.Info("chunked input",
		zap.Int("pages", len(pages)),
		zap.Int("chunks", len(chunks)))

	vectors := make([][]float64, len(chunks))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i := range chunks {
		i := i
		g.Go(func() error {
			vec, err := in.embedder.Embed(gctx, chunks[i].Content)
			if err != nil {
				return fmt.Errorf("embed chunk %d: %w", i, err)
			}
			mu.Lock()
			vectors[i] = vec
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	if err := in.store.Init(len(vectors[0])); err != nil {
		return "", err
	}
	if err := in.store.Upsert(chunks, vectors); err != nil {
		return "", err
	}
	if err := keys.Save(corpusDir); err != nil {
		return "", err
	}
	if p, ok := in.store.(vectorstore.Persistent); ok {
		if err := p.Save(corpusDir); err != nil {
			return "", err
		}
	}
	in.log.Info("corpus written",
		zap.String("dir", corpusDir),
		zap.Int("keys", keys.Len()),
		zap.String("embedding_model", in.embedder.Model()))

	return in.summarizer.Summarize(corpus, 5), nil
}
