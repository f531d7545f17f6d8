package chunker

import (
	"errors"
	"strings"
)

// Separator hierarchy, largest unit first. The empty string marks the
// hard character cut used when nothing else fits.
var separators = []string{"\n\n", "\n", ". ", " "}

// RecursiveSplitter splits text into overlapping chunks, cutting at the
// largest separator that keeps each chunk within the size limit and
// falling back to a hard character cut. Adjacent chunks share Overlap
// trailing/leading characters so meaning is not lost at boundaries:
// dropping the first Overlap characters of every chunk after the first
// and concatenating reconstructs the input exactly.
type RecursiveSplitter struct {
	size    int
	overlap int
}

// New validates the limits. Overlap must leave room for forward
// progress within each chunk.
func New(size, overlap int) (*RecursiveSplitter, error) {
	if size <= 0 {
		return nil, errors.New("chunk size must be positive")
	}
	if overlap < 0 || overlap >= size {
		return nil, errors.New("overlap must be non-negative and smaller than chunk size")
	}
	return &RecursiveSplitter{size: size, overlap: overlap}, nil
}

// Split returns the chunks of text in order. Empty or blank input
// yields no chunks.
func (s *RecursiveSplitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if len(text) <= s.size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + s.size
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}
		cut := s.findCut(text, start, end)
		chunks = append(chunks, text[start:cut])
		start = cut - s.overlap
	}
	return chunks
}

// findCut picks the end of the chunk starting at start. It prefers the
// largest separator whose last occurrence in the window still leaves
// the cut beyond the overlap region (otherwise the next chunk would not
// advance); when no separator qualifies it cuts at the size limit.
func (s *RecursiveSplitter) findCut(text string, start, end int) int {
	window := text[start:end]
	for _, sep := range separators {
		if idx := strings.LastIndex(window, sep); idx >= 0 {
			// Earlier occurrences are no better: the last one is the
			// furthest cut this separator offers.
			if cut := idx + len(sep); cut > s.overlap {
				return start + cut
			}
		}
	}
	return end
}

// Size returns the configured chunk size limit.
func (s *RecursiveSplitter) Size() int { return s.size }

// Overlap returns the configured overlap width.
func (s *RecursiveSplitter) Overlap() int { return s.overlap }
