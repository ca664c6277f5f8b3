// Package gitarchive keeps every dictionary version as a tagged commit in a
// local git repository, so snapshots outlive the process.
package gitarchive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/heartmarshall/glossary-backend/internal/adapter/jsonfile"
	"github.com/heartmarshall/glossary-backend/internal/domain"
)

const (
	dictionaryFile = "dictionary.json"
	metaFile       = "version.json"
	tagPrefix      = "version-"
)

type meta struct {
	ID          string    `json:"version_id"`
	CreatedBy   string    `json:"created_by"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

// Archive writes versions into the repository at dir.
type Archive struct {
	dir    string
	author string

	mu sync.Mutex
}

// New returns an archive rooted at dir. author signs tags; commits are signed
// by the version's creator.
func New(dir, author string) *Archive {
	if author == "" {
		author = "glossary"
	}
	return &Archive{dir: dir, author: author}
}

// Dir returns the repository location.
func (a *Archive) Dir() string { return a.dir }

// Store commits v and tags the commit. It returns the commit hash.
func (a *Archive) Store(ctx context.Context, v domain.DictionaryVersion) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	repo, err := a.open()
	if err != nil {
		return "", err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("open worktree: %w", err)
	}

	var dict bytes.Buffer
	if err := jsonfile.Encode(&dict, v.Terms); err != nil {
		return "", fmt.Errorf("encode dictionary: %w", err)
	}
	metaPayload, err := json.MarshalIndent(meta{
		ID:          v.ID,
		CreatedBy:   v.CreatedBy,
		Description: v.Description,
		Tags:        v.Tags,
		CreatedAt:   v.CreatedAt.UTC(),
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal version metadata: %w", err)
	}

	files := map[string][]byte{
		dictionaryFile: dict.Bytes(),
		metaFile:       append(metaPayload, '\n'),
	}
	for name, payload := range files {
		if err := os.WriteFile(filepath.Join(a.dir, name), payload, 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", name, err)
		}
		if _, err := worktree.Add(name); err != nil {
			return "", fmt.Errorf("git add %s: %w", name, err)
		}
	}

	message := v.Description
	if message == "" {
		message = "Version " + v.ID
	}
	hash, err := worktree.Commit(message, &git.CommitOptions{
		AllowEmptyCommits: true,
		Author: &object.Signature{
			Name:  v.CreatedBy,
			Email: sanitizeEmail(v.CreatedBy) + "@glossary.local",
			When:  v.CreatedAt,
		},
	})
	if err != nil {
		return "", fmt.Errorf("commit version: %w", err)
	}

	tagName := tagPrefix + sanitizeRef(v.ID) + "-" + hash.String()[:7]
	_, err = repo.CreateTag(tagName, hash, &git.CreateTagOptions{
		Tagger: &object.Signature{
			Name:  a.author,
			Email: sanitizeEmail(a.author) + "@glossary.local",
			When:  v.CreatedAt,
		},
		Message: v.ID,
	})
	if err != nil {
		return "", fmt.Errorf("create tag: %w", err)
	}
	return hash.String(), nil
}

// Versions reads back every archived version, oldest first.
func (a *Archive) Versions(ctx context.Context) ([]domain.DictionaryVersion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	repo, err := git.PlainOpen(a.dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}

	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer iter.Close()

	var out []domain.DictionaryVersion
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		commit, err := commitForTag(repo, ref)
		if err != nil {
			return err
		}
		v, err := readVersion(commit)
		if err != nil {
			return fmt.Errorf("tag %s: %w", ref.Name().Short(), err)
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (a *Archive) open() (*git.Repository, error) {
	repo, err := git.PlainOpen(a.dir)
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("open repo: %w", err)
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	repo, err = git.PlainInit(a.dir, false)
	if err != nil {
		return nil, fmt.Errorf("init repo: %w", err)
	}
	return repo, nil
}

func commitForTag(repo *git.Repository, ref *plumbing.Reference) (*object.Commit, error) {
	tag, err := repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		commit, err := tag.Commit()
		if err != nil {
			return nil, fmt.Errorf("resolve tag %s: %w", ref.Name().Short(), err)
		}
		return commit, nil
	case errors.Is(err, plumbing.ErrObjectNotFound):
		commit, err := repo.CommitObject(ref.Hash())
		if err != nil {
			return nil, fmt.Errorf("resolve tag %s: %w", ref.Name().Short(), err)
		}
		return commit, nil
	default:
		return nil, fmt.Errorf("read tag %s: %w", ref.Name().Short(), err)
	}
}

func readVersion(commit *object.Commit) (domain.DictionaryVersion, error) {
	rawMeta, err := readFile(commit, metaFile)
	if err != nil {
		return domain.DictionaryVersion{}, err
	}
	var m meta
	if err := json.Unmarshal(rawMeta, &m); err != nil {
		return domain.DictionaryVersion{}, fmt.Errorf("decode %s: %w", metaFile, err)
	}
	rawDict, err := readFile(commit, dictionaryFile)
	if err != nil {
		return domain.DictionaryVersion{}, err
	}
	terms, err := jsonfile.Decode(bytes.NewReader(rawDict))
	if err != nil {
		return domain.DictionaryVersion{}, err
	}

	return domain.DictionaryVersion{
		ID:          m.ID,
		CreatedAt:   m.CreatedAt,
		CreatedBy:   m.CreatedBy,
		Description: m.Description,
		Terms:       terms,
		Tags:        m.Tags,
	}, nil
}

func readFile(commit *object.Commit, name string) ([]byte, error) {
	file, err := commit.File(name)
	if err != nil {
		return nil, fmt.Errorf("load %s from commit: %w", name, err)
	}
	reader, err := file.Reader()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

func sanitizeEmail(input string) string {
	var b strings.Builder
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_' || r == '.':
			b.WriteByte('.')
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}

// sanitizeRef keeps a version id usable inside a tag name.
func sanitizeRef(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
