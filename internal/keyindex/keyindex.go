// Package keyindex maps compact content keys to full chunk text, one
// index per corpus. The vector store only persists keys and URLs; the
// key index rehydrates full content at query time.
package keyindex

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"docqa/internal/domain"
)

// FileName is the key index file inside a corpus directory.
const FileName = "data.key.json"

// Index holds the key→content mapping for one corpus. It is written
// during ingestion, then loaded fully into memory and treated as
// read-only for the rest of the session, so concurrent queries may
// share it without locking. Keys are scoped to their corpus.
type Index struct {
	entries map[string]string
}

// New returns an empty index, ready for ingestion writes.
func New() *Index {
	return &Index{entries: make(map[string]string)}
}

// Load reads the key index of the corpus directory into memory.
func Load(dir string) (*Index, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no %s in %s", domain.ErrMissingCorpus, FileName, dir)
		}
		return nil, err
	}
	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", FileName, err)
	}
	return &Index{entries: entries}, nil
}

// Write stores content under key.
func (x *Index) Write(key, content string) error {
	if key == "" {
		return errors.New("empty key")
	}
	x.entries[key] = content
	return nil
}

// Read returns the content stored under key. A missing key is a
// data-integrity fault, never a default value.
func (x *Index) Read(key string) (string, error) {
	content, ok := x.entries[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrMissingKey, key)
	}
	return content, nil
}

// BulkRead resolves keys in order. Any missing key fails the whole
// call; there are no silent gaps in the result.
func (x *Index) BulkRead(keys []string) ([]string, error) {
	contents := make([]string, 0, len(keys))
	for _, k := range keys {
		c, err := x.Read(k)
		if err != nil {
			return nil, err
		}
		contents = append(contents, c)
	}
	return contents, nil
}

// Len reports the number of stored keys.
func (x *Index) Len() int { return len(x.entries) }

// Save writes the index to the corpus directory via a temp file and
// rename, so a crash cannot leave a truncated key file behind.
func (x *Index) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(x.entries, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, FileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
