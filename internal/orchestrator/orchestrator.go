// Package orchestrator composes retrieval, rehydration, filtering,
// synthesis and attribution into one query pipeline.
package orchestrator

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"docqa/internal/attribution"
	"docqa/internal/domain"
	"docqa/internal/keyindex"
	"docqa/internal/synthesis"
)

// Retriever is the top-K retrieval port.
type Retriever interface {
	TopK(ctx context.Context, query string, k int) (domain.RetrievalResult, error)
}

// Partitioner is the relevance-filter port.
type Partitioner interface {
	Partition(ctx context.Context, query string, results domain.RetrievalResult) (domain.Partition, error)
}

// Synthesizer is the answer-pipeline port.
type Synthesizer interface {
	Run(ctx context.Context, question, contextText string, opts synthesis.TransformOptions) (string, error)
}

// Orchestrator answers one question at a time over a single corpus.
// All shared collaborators are read-only after load, so one instance
// serves concurrent queries; intermediate results live on the stack of
// each Answer call and are discarded on completion.
type Orchestrator struct {
	retriever Retriever
	keys      *keyindex.Index
	filter    Partitioner
	pipeline  Synthesizer
	topK      int
	transform synthesis.TransformOptions
	log       *zap.Logger
}

type Config struct {
	TopK      int
	Transform synthesis.TransformOptions
}

func New(r Retriever, keys *keyindex.Index, f Partitioner, p Synthesizer, cfg Config, log *zap.Logger) *Orchestrator {
	topK := cfg.TopK
	if topK <= 0 {
		topK = 5
	}
	return &Orchestrator{
		retriever: r,
		keys:      keys,
		filter:    f,
		pipeline:  p,
		topK:      topK,
		transform: cfg.Transform,
		log:       log,
	}
}

// Answer runs the query pipeline: retrieve → rehydrate → filter →
// synthesize → attribute. Any stage failure aborts the whole query
// with a StageError naming the failing stage; no partial answer is
// ever returned. The pipeline performs no automatic retries.
func (o *Orchestrator) Answer(ctx context.Context, question string) (domain.Answer, error) {
	stage := domain.StageRetrieving
	o.log.Debug("query started", zap.String("stage", string(stage)), zap.Int("top_k", o.topK))
	results, err := o.retriever.TopK(ctx, question, o.topK)
	if err != nil {
		return o.fail(stage, err)
	}

	stage = domain.StageRehydrating
	if err := o.rehydrate(results); err != nil {
		return o.fail(stage, err)
	}

	stage = domain.StageFiltering
	part, err := o.filter.Partition(ctx, question, results)
	if err != nil {
		return o.fail(stage, err)
	}

	contextChunks := o.selectContext(part)
	text, err := o.pipeline.Run(ctx, question, joinContents(contextChunks), o.transform)
	if err != nil {
		// Synthesis errors already carry their sub-stage.
		if _, ok := domain.FailedStage(err); ok {
			o.logFailure(err)
			return domain.Answer{}, err
		}
		return o.fail(domain.StageAnswer, err)
	}

	citations := attribution.Cite(contextChunks)
	o.log.Debug("query done",
		zap.Int("retrieved", len(results)),
		zap.Int("cited", len(contextChunks)))
	return domain.Answer{Text: text, Citations: citations}, nil
}

// rehydrate resolves each retrieved key through the corpus key index.
// A missing key is a data-integrity fault and fails the query.
func (o *Orchestrator) rehydrate(results domain.RetrievalResult) error {
	keys := make([]string, len(results))
	for i, sc := range results {
		keys[i] = sc.Chunk.Key
	}
	contents, err := o.keys.BulkRead(keys)
	if err != nil {
		return err
	}
	for i := range results {
		results[i].Chunk.Content = contents[i]
	}
	return nil
}

// selectContext prefers explanatory passages for the narrative answer;
// when a code transform is requested the code-like passages join as
// illustrative material. A partition with no explanatory chunks falls
// back to every relevant chunk.
func (o *Orchestrator) selectContext(p domain.Partition) []domain.Chunk {
	chunks := p.Explanatory
	if len(chunks) == 0 {
		return p.Relevant
	}
	if o.transform.Language != "" && len(p.CodeLike) > 0 {
		chunks = append(append([]domain.Chunk{}, chunks...), p.CodeLike...)
	}
	return chunks
}

func (o *Orchestrator) fail(stage domain.Stage, err error) (domain.Answer, error) {
	serr := &domain.StageError{Stage: stage, Err: err}
	o.logFailure(serr)
	return domain.Answer{}, serr
}

func (o *Orchestrator) logFailure(err error) {
	stage, _ := domain.FailedStage(err)
	o.log.Warn("query failed",
		zap.String("stage", string(stage)),
		zap.String("state", string(domain.StageFailed)),
		zap.Error(err))
}

func joinContents(chunks []domain.Chunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Content
	}
	return strings.Join(parts, "\n\n")
}
