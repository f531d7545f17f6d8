// Package chain provides reusable prompt templates bound to a language
// model at call time, and the boolean classifier built on them.
package chain

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"docqa/internal/llm"
)

// Spec is an immutable template pairing a system instruction with a
// human instruction. Placeholders are written {name} and substituted
// per call; the template itself is stateless and shared across calls.
type Spec struct {
	System string
	Human  string
}

// Render substitutes the named placeholders in both instructions.
func (s Spec) Render(vars map[string]string) (system, human string) {
	system, human = s.System, s.Human
	for name, value := range vars {
		ph := "{" + name + "}"
		system = strings.ReplaceAll(system, ph, value)
		human = strings.ReplaceAll(human, ph, value)
	}
	return system, human
}

var classifierSpec = Spec{
	System: "You evaluate a piece of text against a yes/no criterion. " +
		"Respond with exactly one word, true or false, and no other text.",
	Human: "Criterion: {criterion}\n\nText:\n{text}",
}

// Classifier turns a language model into a boolean predicate.
type Classifier struct {
	llm llm.Client
	log *zap.Logger
}

func NewClassifier(client llm.Client, log *zap.Logger) *Classifier {
	return &Classifier{llm: client, log: log}
}

// Classify evaluates text against a natural-language criterion. The
// raw response is trimmed and lower-cased; "true" means true and
// anything else is coerced to false. The coercion is fail-closed and
// lossy: uncertain or malformed model output counts as a negative, so
// every non-canonical response is logged to surface prompt/provider
// trouble instead of masking it.
func (c *Classifier) Classify(ctx context.Context, text, criterion string) (bool, error) {
	system, human := classifierSpec.Render(map[string]string{
		"criterion": criterion,
		"text":      text,
	})
	raw, err := c.llm.Complete(ctx, system, human)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		c.log.Warn("coercing non-canonical classifier response to false",
			zap.String("raw", raw),
			zap.String("criterion", criterion))
		return false, nil
	}
}
