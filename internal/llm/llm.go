// Package llm wraps the chat-completion language model used by the
// classifier and synthesis chains.
package llm

import "context"

// Client sends one system+user exchange and returns the raw completion
// text. Implementations carry their own model and temperature; nothing
// in the pipeline reads model settings from ambient process state.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Model() string
}
