// Package jsonfile persists the term set as a single JSON object keyed by the
// Hebrew form. The file is rewritten wholesale through a temp file and rename.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/heartmarshall/glossary-backend/internal/domain"
)

// Store writes snapshots in revision order: a snapshot older than the last
// one written is skipped.
type Store struct {
	path string

	mu      sync.Mutex
	lastRev uint64
	written bool
}

// New returns a store backed by path. Nothing is touched until Load or Save.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the file location.
func (s *Store) Path() string { return s.path }

// Load reads the file. A missing file is an empty dictionary.
func (s *Store) Load(ctx context.Context) (map[string]domain.TechnicalTerm, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	terms, err := ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]domain.TechnicalTerm{}, nil
	}
	return terms, err
}

// Save writes terms if rev is newer than the last successful write.
// It reports whether the file was written.
func (s *Store) Save(ctx context.Context, terms map[string]domain.TechnicalTerm, rev uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.written && rev < s.lastRev {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := WriteFile(s.path, terms); err != nil {
		return false, err
	}
	s.lastRev = rev
	s.written = true
	return true, nil
}

// Ping checks that the directory holding the file exists and is a directory.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// ReadFile decodes a dictionary file.
func ReadFile(path string) (map[string]domain.TechnicalTerm, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	terms, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return terms, nil
}

// Decode reads a dictionary object. Keys are rewritten to the term's Hebrew
// form; entries without one fall back to their key.
func Decode(r io.Reader) (map[string]domain.TechnicalTerm, error) {
	raw := make(map[string]domain.TechnicalTerm)
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode dictionary: %w", err)
	}
	out := make(map[string]domain.TechnicalTerm, len(raw))
	for key, t := range raw {
		if t.Hebrew == "" {
			t.Hebrew = key
		}
		t.Normalize()
		if t.Hebrew == "" {
			continue
		}
		out[t.Hebrew] = t
	}
	return out, nil
}

// Encode writes the dictionary as indented JSON. Empty lists are written as [].
func Encode(w io.Writer, terms map[string]domain.TechnicalTerm) error {
	out := make(map[string]domain.TechnicalTerm, len(terms))
	for k, t := range terms {
		t.SynonymsHe = nonNil(t.SynonymsHe)
		t.SynonymsRu = nonNil(t.SynonymsRu)
		t.UsageExamples = nonNil(t.UsageExamples)
		t.Tags = nonNil(t.Tags)
		out[k] = t
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// WriteFile atomically replaces path with the encoded dictionary.
func WriteFile(path string, terms map[string]domain.TechnicalTerm) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := Encode(tmp, terms); err != nil {
		tmp.Close()
		return fmt.Errorf("encode dictionary: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
