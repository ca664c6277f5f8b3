package term

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/heartmarshall/glossary-backend/internal/domain"
)

// DefaultTranslateCacheSize bounds the number of memoized translations.
const DefaultTranslateCacheSize = 4096

// Translator substitutes recognized terms in free text. Results are memoized per
// index revision, so any mutation makes earlier entries unreachable.
type Translator struct {
	repo  *Repo
	cache *lru.Cache[string, string]

	mu        sync.Mutex
	replacers map[string]builtReplacer
}

type builtReplacer struct {
	replacer *strings.Replacer
	revision uint64
}

// NewTranslator creates a Translator over repo. size <= 0 uses the default.
func NewTranslator(repo *Repo, size int) (*Translator, error) {
	if size <= 0 {
		size = DefaultTranslateCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("create translate cache: %w", err)
	}
	return &Translator{repo: repo, cache: cache, replacers: make(map[string]builtReplacer)}, nil
}

// Translate replaces every primary or synonym term of the source language with the
// target-language primary. Unrecognized text is left untouched. The longest match
// at a position wins.
func (tr *Translator) Translate(text string, src, dst domain.Language) string {
	if text == "" || src == dst || !src.IsValid() || !dst.IsValid() {
		return text
	}

	if v, ok := tr.cache.Get(cacheKey(tr.repo.Revision(), src, dst, text)); ok {
		return v
	}

	replacer, rev := tr.replacerFor(src, dst)
	out := replacer.Replace(text)
	tr.cache.Add(cacheKey(rev, src, dst, text), out)
	return out
}

func (tr *Translator) replacerFor(src, dst domain.Language) (*strings.Replacer, uint64) {
	dir := string(src) + ">" + string(dst)

	tr.mu.Lock()
	cached, ok := tr.replacers[dir]
	tr.mu.Unlock()
	if ok && cached.revision == tr.repo.Revision() {
		return cached.replacer, cached.revision
	}

	replacer, rev := tr.repo.replacer(src, dst)
	tr.mu.Lock()
	tr.replacers[dir] = builtReplacer{replacer: replacer, revision: rev}
	tr.mu.Unlock()
	return replacer, rev
}

func cacheKey(rev uint64, src, dst domain.Language, text string) string {
	return fmt.Sprintf("%d|%s|%s|%s", rev, src, dst, text)
}

// CacheLen reports how many translations are memoized.
func (tr *Translator) CacheLen() int {
	return tr.cache.Len()
}

func (r *Repo) replacer(src, dst domain.Language) (*strings.Replacer, uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type pair struct{ from, to string }
	var pairs []pair
	for _, t := range r.terms {
		to := t.Primary(dst)
		if to == "" {
			continue
		}
		if from := t.Primary(src); from != "" {
			pairs = append(pairs, pair{from, to})
		}
		for _, syn := range t.Synonyms(src) {
			if syn != "" {
				pairs = append(pairs, pair{syn, to})
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if len(pairs[i].from) != len(pairs[j].from) {
			return len(pairs[i].from) > len(pairs[j].from)
		}
		return pairs[i].from < pairs[j].from
	})

	args := make([]string, 0, 2*len(pairs))
	for _, p := range pairs {
		args = append(args, p.from, p.to)
	}
	return strings.NewReplacer(args...), r.revision
}
