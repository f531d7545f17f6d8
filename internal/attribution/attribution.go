// Package attribution renders the citation line for the chunks that
// contributed to an answer.
package attribution

import (
	"strings"

	"docqa/internal/domain"
)

// Cite extracts the URLs of the given chunks, deduplicates them
// preserving first-seen order, and renders the citation line.
// Empty input yields "Sources: ;".
func Cite(chunks []domain.Chunk) string {
	seen := make(map[string]struct{}, len(chunks))
	urls := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if c.URL == "" {
			continue
		}
		if _, ok := seen[c.URL]; ok {
			continue
		}
		seen[c.URL] = struct{}{}
		urls = append(urls, c.URL)
	}
	return "Sources: " + strings.Join(urls, ", ") + ";"
}
