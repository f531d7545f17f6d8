package domain

import (
	"errors"
	"fmt"
)

// Chunk is a bounded slice of source text with provenance metadata.
// Key resolves to the full content through the corpus key index; URL
// identifies where the text came from. Chunks are immutable after
// ingestion.
type Chunk struct {
	Key     string
	URL     string
	Content string
}

// NewChunk validates the required fields at construction.
func NewChunk(key, url, content string) (Chunk, error) {
	if key == "" {
		return Chunk{}, errors.New("chunk key must not be empty")
	}
	return Chunk{Key: key, URL: url, Content: content}, nil
}

// ScoredChunk pairs a chunk with its retrieval score.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// RetrievalResult is an ordered sequence of scored chunks, descending
// by score. Ties keep store order, which is not deterministic.
type RetrievalResult []ScoredChunk

// Partition is the outcome of relevance filtering. Relevant holds every
// surviving chunk in retrieval order; Explanatory and CodeLike split
// the same chunks into prose and code side channels.
type Partition struct {
	Relevant    []Chunk
	Explanatory []Chunk
	CodeLike    []Chunk
}

// Answer is the final result of one query.
type Answer struct {
	Text      string
	Citations string
}

// Stage identifies a step of the query pipeline. The orchestrator moves
// through the coarse stages in order; the synthesis sub-stages appear
// only in StageError values.
type Stage string

const (
	StageIdle        Stage = "idle"
	StageRetrieving  Stage = "retrieve"
	StageRehydrating Stage = "rehydrate"
	StageFiltering   Stage = "filter"
	StageAnswer      Stage = "answer"
	StageTransform   Stage = "transform"
	StageSummarize   Stage = "summarize"
	StageAttributing Stage = "attribute"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// Sentinel errors for the failure taxonomy. ErrMissingKey is a
// data-integrity fault: a persisted chunk references a key the corpus
// key index does not hold. ErrMissingCredentials and ErrMissingCorpus
// are configuration faults reported before any work starts.
// ErrBadInput covers malformed ingestion input.
var (
	ErrMissingKey         = errors.New("key not found in key index")
	ErrMissingCredentials = errors.New("provider credentials not set")
	ErrMissingCorpus      = errors.New("corpus not found")
	ErrBadInput           = errors.New("malformed ingestion input")
)

// StageError wraps a pipeline failure with the stage that raised it.
// Queries fail as a whole; there is no partial answer.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("query stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// FailedStage extracts the failing stage from err, if it carries one.
func FailedStage(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}
