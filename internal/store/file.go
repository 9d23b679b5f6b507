package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// FileStore implements Store as a single JSON document on disk.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// document is the on-disk shape. Leads and run history share one file so a
// save stays a single atomic rename.
type document struct {
	Leads []model.Lead        `json:"leads"`
	Runs  []model.PipelineRun `json:"runs,omitempty"`
}

// NewFile creates a FileStore backed by the given path. The file is created
// on first Save.
func NewFile(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(_ context.Context) ([]model.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	return doc.Leads, nil
}

func (s *FileStore) Save(_ context.Context, leads []model.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.Leads = leads
	return s.write(doc)
}

func (s *FileStore) RecordRun(_ context.Context, run model.PipelineRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.Runs = append(doc.Runs, run)
	return s.write(doc)
}

func (s *FileStore) ListRuns(_ context.Context, limit int) ([]model.PipelineRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	runs := doc.Runs
	// Newest first.
	out := make([]model.PipelineRun, 0, len(runs))
	for i := len(runs) - 1; i >= 0; i-- {
		out = append(out, runs[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *FileStore) Migrate(_ context.Context) error {
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) read() (*document, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &document{}, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "file: read %s", s.path)
	}
	if len(data) == 0 {
		return &document{}, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "file: unmarshal %s", s.path)
	}
	return &doc, nil
}

// write marshals the document to a temp file and renames it into place so a
// crash mid-write never truncates the previous copy.
func (s *FileStore) write(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return eris.Wrap(err, "file: marshal document")
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".leads-*.json")
	if err != nil {
		return eris.Wrap(err, "file: create temp")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return eris.Wrap(err, "file: write temp")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return eris.Wrap(err, "file: close temp")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return eris.Wrapf(err, "file: rename to %s", s.path)
	}
	return nil
}
