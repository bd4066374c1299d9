// Package storage persists generated case suites and run results as
// JSON documents on disk so they can be listed and fetched later, both
// from the CLI and over the HTTP surface.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/apiforge/apiforge/pkg/models"
)

const (
	KindCases   = "cases"
	KindResults = "result"
)

// Entry is one stored document as seen by List.
type Entry struct {
	ID      string    `json:"id"`
	Kind    string    `json:"kind"`
	SavedAt time.Time `json:"saved_at"`
}

type envelope struct {
	ID      string          `json:"id"`
	Kind    string          `json:"kind"`
	SavedAt time.Time       `json:"saved_at"`
	Payload json.RawMessage `json:"payload"`
}

// Store writes one file per document under its base directory. IDs
// carry the kind, a timestamp and a short random suffix so they sort
// chronologically and never collide.
type Store struct {
	logger *zap.Logger
	dir    string
}

func New(logger *zap.Logger, dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %q: %w", dir, err)
	}
	return &Store{logger: logger, dir: dir}, nil
}

// SaveCases persists a generated suite set and returns its id.
func (s *Store) SaveCases(suites *models.GeneratedSuites) (string, error) {
	return s.save(KindCases, suites)
}

// SaveResults persists the results of a run and returns their id.
func (s *Store) SaveResults(results []*models.SuiteResult) (string, error) {
	return s.save(KindResults, results)
}

func (s *Store) save(kind string, payload any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s document: %w", kind, err)
	}
	id := newID(kind)
	env := envelope{
		ID:      id,
		Kind:    kind,
		SavedAt: time.Now().UTC(),
		Payload: raw,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode %s envelope: %w", kind, err)
	}
	path := s.path(id)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %q: %w", path, err)
	}
	s.logger.Debug("stored document", zap.String("id", id), zap.String("kind", kind))
	return id, nil
}

// GetCases fetches a stored suite set by id.
func (s *Store) GetCases(id string) (*models.GeneratedSuites, error) {
	env, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if env.Kind != KindCases {
		return nil, fmt.Errorf("document %q holds %s, not generated cases", id, env.Kind)
	}
	var suites models.GeneratedSuites
	if err := json.Unmarshal(env.Payload, &suites); err != nil {
		return nil, fmt.Errorf("failed to decode cases document %q: %w", id, err)
	}
	return &suites, nil
}

// GetResults fetches stored run results by id.
func (s *Store) GetResults(id string) ([]*models.SuiteResult, error) {
	env, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if env.Kind != KindResults {
		return nil, fmt.Errorf("document %q holds %s, not run results", id, env.Kind)
	}
	var results []*models.SuiteResult
	if err := json.Unmarshal(env.Payload, &results); err != nil {
		return nil, fmt.Errorf("failed to decode results document %q: %w", id, err)
	}
	return results, nil
}

// List returns every stored document, newest first.
func (s *Store) List() ([]Entry, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory %q: %w", s.dir, err)
	}
	var entries []Entry
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		env, err := s.load(strings.TrimSuffix(f.Name(), ".json"))
		if err != nil {
			s.logger.Warn("skipping unreadable document", zap.String("file", f.Name()), zap.Error(err))
			continue
		}
		entries = append(entries, Entry{ID: env.ID, Kind: env.Kind, SavedAt: env.SavedAt})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].SavedAt.After(entries[j].SavedAt)
	})
	return entries, nil
}

// Delete removes a stored document.
func (s *Store) Delete(id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("document %q not found", id)
		}
		return fmt.Errorf("failed to delete document %q: %w", id, err)
	}
	return nil
}

func (s *Store) load(id string) (*envelope, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document %q not found", id)
		}
		return nil, fmt.Errorf("failed to read document %q: %w", id, err)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode document %q: %w", id, err)
	}
	return &env, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// validateID rejects ids that could escape the storage directory.
func validateID(id string) error {
	if id == "" || strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return fmt.Errorf("invalid document id %q", id)
	}
	return nil
}

func newID(kind string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%s_%s_%s", kind, time.Now().UTC().Format("20060102T150405"), suffix)
}
