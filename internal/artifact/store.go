// Package artifact persists the per-topic JSON artifacts produced by the
// pipeline. Artifacts are immutable once written; regeneration overwrites
// the whole file. Raw article text lives under <data>/raw/<topic>/ and
// derived artifacts under <data>/artifacts/<topic>/.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Fixed artifact file names, one set per topic.
const (
	FileAnalysis   = "analysis.json"
	FileGrokGraph  = "grokipedia_graph.json"
	FileWikiGraph  = "wikipedia_graph.json"
	FileComparison = "comparison.json"
	FileEmbeddings = "embeddings.json"
	FileSegments   = "segments.json"
	FileMetadata   = "metadata.json"
)

var (
	// ErrNotFound reports a missing artifact or topic. Terminal for the
	// caller; artifacts are never created implicitly on read.
	ErrNotFound = errors.New("artifact not found")
	// ErrInvalid reports an artifact that exists but holds malformed JSON.
	// Never treated as an empty artifact.
	ErrInvalid = errors.New("invalid artifact")
)

// Store reads and writes topic artifacts below a single data directory.
type Store struct {
	dataDir string
}

// NewStore creates a store rooted at dataDir.
func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// RawDir returns the raw article directory for a topic.
func (s *Store) RawDir(topic string) string {
	return filepath.Join(s.dataDir, "raw", topic)
}

// ArtifactDir returns the derived artifact directory for a topic.
func (s *Store) ArtifactDir(topic string) string {
	return filepath.Join(s.dataDir, "artifacts", topic)
}

// ListTopics returns the sorted topic slugs that have raw article data.
// A missing raw directory yields an empty list, not an error.
func (s *Store) ListTopics() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dataDir, "raw"))
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}

	topics := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			topics = append(topics, entry.Name())
		}
	}
	sort.Strings(topics)
	return topics, nil
}

// ReadJSON loads one artifact into out. Returns ErrNotFound when the file
// does not exist and ErrInvalid when it cannot be decoded.
func (s *Store) ReadJSON(topic string, name string, out any) error {
	path := filepath.Join(s.ArtifactDir(topic), name)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s for topic %q", ErrNotFound, name, topic)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s for topic %q: %v", ErrInvalid, name, topic, err)
	}
	return nil
}

// WriteJSON persists one artifact, creating the topic directory as needed.
// The file is replaced atomically enough for a single-writer pipeline:
// content is written to a temp file and renamed into place.
func (s *Store) WriteJSON(topic string, name string, value any) error {
	dir := s.ArtifactDir(topic)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact dir: %w", err)
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	data = append(data, '\n')

	tmp := filepath.Join(dir, name+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

// ReadMetadata loads the download metadata for a topic. Returns ErrNotFound
// or ErrInvalid like ReadJSON, but from the raw directory.
func (s *Store) ReadMetadata(topic string, out any) error {
	path := filepath.Join(s.RawDir(topic), FileMetadata)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s for topic %q", ErrNotFound, FileMetadata, topic)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s for topic %q: %v", ErrInvalid, FileMetadata, topic, err)
	}
	return nil
}

// WriteMetadata persists download metadata into the raw topic directory.
func (s *Store) WriteMetadata(topic string, value any) error {
	dir := s.RawDir(topic)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create raw dir: %w", err)
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dir, FileMetadata), data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

// WriteRawText persists one raw article file for a topic.
func (s *Store) WriteRawText(topic string, name string, content string) error {
	dir := s.RawDir(topic)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create raw dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// ReadRawText loads one raw article file. Returns ErrNotFound for missing files.
func (s *Store) ReadRawText(topic string, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.RawDir(topic), name))
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s for topic %q", ErrNotFound, name, topic)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), nil
}

// ReadGrokipediaText loads the Grokipedia article for a topic, preferring
// the plaintext file and falling back to the markdown variant.
func (s *Store) ReadGrokipediaText(topic string) (string, error) {
	text, err := s.ReadRawText(topic, "grokipedia.txt")
	if err == nil {
		return text, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", err
	}
	return s.ReadRawText(topic, "grokipedia.md")
}
