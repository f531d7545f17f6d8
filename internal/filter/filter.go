// Package filter partitions retrieved chunks by LM-judged relevance
// and by whether they read as code or as explanation.
package filter

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"docqa/internal/domain"
)

// Classifier is the boolean predicate the filter is built on.
type Classifier interface {
	Classify(ctx context.Context, text, criterion string) (bool, error)
}

type Filter struct {
	classifier Classifier
	log        *zap.Logger
}

func New(classifier Classifier, log *zap.Logger) *Filter {
	return &Filter{classifier: classifier, log: log}
}

const codeCriterion = "is this a code snippet?"

func relevanceCriterion(query string) string {
	return fmt.Sprintf("does this help answer the question: %s?", query)
}

// Partition drops chunks judged irrelevant to the query and splits the
// survivors into explanatory and code-like side channels. Chunks are
// independent, so both verdicts per chunk and all chunks fan out
// concurrently; results are assembled in retrieval order once every
// call has joined. Any provider failure aborts the whole partition.
func (f *Filter) Partition(ctx context.Context, query string, results domain.RetrievalResult) (domain.Partition, error) {
	type verdict struct {
		relevant bool
		codeLike bool
	}
	verdicts := make([]verdict, len(results))

	g, gctx := errgroup.WithContext(ctx)
	for i, sc := range results {
		i, content := i, sc.Chunk.Content
		g.Go(func() error {
			ok, err := f.classifier.Classify(gctx, content, relevanceCriterion(query))
			if err != nil {
				return fmt.Errorf("relevance verdict: %w", err)
			}
			verdicts[i].relevant = ok
			return nil
		})
		g.Go(func() error {
			ok, err := f.classifier.Classify(gctx, content, codeCriterion)
			if err != nil {
				return fmt.Errorf("code verdict: %w", err)
			}
			verdicts[i].codeLike = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Partition{}, err
	}

	var p domain.Partition
	for i, sc := range results {
		if !verdicts[i].relevant {
			continue
		}
		p.Relevant = append(p.Relevant, sc.Chunk)
		if verdicts[i].codeLike {
			p.CodeLike = append(p.CodeLike, sc.Chunk)
		} else {
			p.Explanatory = append(p.Explanatory, sc.Chunk)
		}
	}
	f.log.Debug("partitioned retrieval results",
		zap.Int("retrieved", len(results)),
		zap.Int("relevant", len(p.Relevant)),
		zap.Int("code_like", len(p.CodeLike)))
	return p, nil
}
