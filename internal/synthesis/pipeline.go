// Package synthesis runs the three-stage answer chain: draft an answer
// from retrieved context, optionally transform it into a target-language
// code example, and merge both into the final artifact.
package synthesis

import (
	"context"

	"go.uber.org/zap"

	"docqa/internal/chain"
	"docqa/internal/domain"
	"docqa/internal/llm"
)

var answerSpec = chain.Spec{
	System: "You answer questions using only the provided reference passages. " +
		"Be precise and conceptual; do not invent facts that the passages do not support.",
	Human: "Question: {question}\n\nReference passages:\n{context}",
}

var transformSpec = chain.Spec{
	System: "You are a senior software engineer who specializes in {language}. " +
		"You convert explanations of algorithms, design patterns, or snippets from " +
		"another language into idiomatic {language} code examples. " +
		"Respond with a single fenced code block and nothing else.",
	Human: "The usage context is: {usage}\n\nThe explanation to convert is as follows:\n{explanation}",
}

var summarySpec = chain.Spec{
	System: "You merge a code example and a draft explanation into one final answer. " +
		"Output the fenced code block first, then a blank line, then a condensed " +
		"prose explanation. Output nothing else.",
	Human: "Code example:\n{snippet}\n\nDraft explanation:\n{draft}",
}

// TransformOptions selects the optional second stage. An empty Language
// skips the transform and feeds the draft into both summary inputs.
type TransformOptions struct {
	Language string
	Usage    string
}

func (o TransformOptions) enabled() bool { return o.Language != "" }

// Pipeline executes the stages strictly in order; each stage's output
// is the next stage's required input, so there is no partial success.
// A failing stage aborts the run with a StageError naming it.
type Pipeline struct {
	llm llm.Client
	log *zap.Logger
}

func New(client llm.Client, log *zap.Logger) *Pipeline {
	return &Pipeline{llm: client, log: log}
}

// Run produces the final answer text for the question given the
// concatenated relevant context.
func (p *Pipeline) Run(ctx context.Context, question, contextText string, opts TransformOptions) (string, error) {
	draft, err := p.call(ctx, answerSpec, map[string]string{
		"question": question,
		"context":  contextText,
	})
	if err != nil {
		return "", &domain.StageError{Stage: domain.StageAnswer, Err: err}
	}
	p.log.Debug("answer stage complete", zap.Int("draft_len", len(draft)))

	transformed := draft
	if opts.enabled() {
		transformed, err = p.call(ctx, transformSpec, map[string]string{
			"language":    opts.Language,
			"usage":       opts.Usage,
			"explanation": draft,
		})
		if err != nil {
			return "", &domain.StageError{Stage: domain.StageTransform, Err: err}
		}
		p.log.Debug("transform stage complete", zap.String("language", opts.Language))
	}

	final, err := p.call(ctx, summarySpec, map[string]string{
		"snippet": transformed,
		"draft":   draft,
	})
	if err != nil {
		return "", &domain.StageError{Stage: domain.StageSummarize, Err: err}
	}
	return final, nil
}

func (p *Pipeline) call(ctx context.Context, spec chain.Spec, vars map[string]string) (string, error) {
	system, human := spec.Render(vars)
	return p.llm.Complete(ctx, system, human)
}
