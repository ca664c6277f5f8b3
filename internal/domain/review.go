package domain

import (
	"slices"
	"time"
)

// ReviewComment is one entry in a review thread.
type ReviewComment struct {
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
	Field     *string   `json:"field,omitempty"`
}

// ReviewRequest asks a set of reviewers to approve a proposed term change.
type ReviewRequest struct {
	ID          string          `json:"request_id"`
	TermID      string          `json:"term_id"`
	RequestedBy string          `json:"requested_by"`
	RequestedAt time.Time       `json:"requested_at"`
	Reviewers   []string        `json:"reviewers"`
	Status      ReviewStatus    `json:"status"`
	Comments    []ReviewComment `json:"comments"`
}

// HasReviewer reports whether id is one of the assigned reviewers.
func (r *ReviewRequest) HasReviewer(id string) bool {
	return slices.Contains(r.Reviewers, id)
}

// Clone returns a copy that shares no slices with r.
func (r ReviewRequest) Clone() ReviewRequest {
	out := r
	out.Reviewers = slices.Clone(r.Reviewers)
	out.Comments = make([]ReviewComment, len(r.Comments))
	for i, c := range r.Comments {
		out.Comments[i] = c
		out.Comments[i].Field = cloneStr(c.Field)
	}
	return out
}

// ConflictResolutionRecord logs how a conflict on a term was settled.
type ConflictResolutionRecord struct {
	TermID     string         `json:"term_id"`
	ResolvedBy string         `json:"resolved_by"`
	Timestamp  time.Time      `json:"timestamp"`
	Kind       ResolutionKind `json:"kind"`
	Comments   string         `json:"comments"`
}
