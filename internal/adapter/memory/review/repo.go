// Package review stores review requests and their comment threads.
package review

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/glossary-backend/internal/domain"
)

// Repo holds review requests by id.
type Repo struct {
	clock clockwork.Clock

	mu       sync.RWMutex
	requests map[string]*domain.ReviewRequest
}

// New creates an empty review store.
func New(clock clockwork.Clock) *Repo {
	return &Repo{
		clock:    clock,
		requests: make(map[string]*domain.ReviewRequest),
	}
}

// Create opens a PENDING request with a fresh id. The term does not have to exist.
func (r *Repo) Create(termID, requestedBy string, reviewers []string) domain.ReviewRequest {
	req := &domain.ReviewRequest{
		ID:          uuid.NewString(),
		TermID:      termID,
		RequestedBy: requestedBy,
		RequestedAt: r.clock.Now().UTC(),
		Reviewers:   append([]string(nil), reviewers...),
		Status:      domain.ReviewPending,
		Comments:    []domain.ReviewComment{},
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.requests[req.ID] = req
	return req.Clone()
}

// AddComment appends to the thread without touching the status.
func (r *Repo) AddComment(id, author, text string, field *string) (domain.ReviewRequest, error) {
	comment := domain.ReviewComment{
		Author:    author,
		Timestamp: r.clock.Now().UTC(),
		Text:      text,
	}
	if field != nil {
		comment.Field = domain.Ptr(*field)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok {
		return domain.ReviewRequest{}, notFound(id)
	}
	req.Comments = append(req.Comments, comment)
	return req.Clone(), nil
}

// SetStatus moves the request to status. Any transition is allowed.
func (r *Repo) SetStatus(id string, status domain.ReviewStatus) (domain.ReviewRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok {
		return domain.ReviewRequest{}, notFound(id)
	}
	req.Status = status
	return req.Clone(), nil
}

// Get returns a copy of the request.
func (r *Repo) Get(id string) (domain.ReviewRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return domain.ReviewRequest{}, notFound(id)
	}
	return req.Clone(), nil
}

// Pending lists open requests that name reviewer, oldest first.
func (r *Repo) Pending(reviewer string) []domain.ReviewRequest {
	return r.filter(func(req *domain.ReviewRequest) bool {
		return req.Status.IsOpen() && req.HasReviewer(reviewer)
	})
}

// ListByTerm lists every request for termID, oldest first.
func (r *Repo) ListByTerm(termID string) []domain.ReviewRequest {
	return r.filter(func(req *domain.ReviewRequest) bool { return req.TermID == termID })
}

func (r *Repo) filter(keep func(*domain.ReviewRequest) bool) []domain.ReviewRequest {
	r.mu.RLock()
	out := make([]domain.ReviewRequest, 0)
	for _, req := range r.requests {
		if keep(req) {
			out = append(out, req.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].RequestedAt.Equal(out[j].RequestedAt) {
			return out[i].RequestedAt.Before(out[j].RequestedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func notFound(id string) error {
	return fmt.Errorf("review %q: %w", id, domain.ErrNotFound)
}
