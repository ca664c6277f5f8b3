package review

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/glossary-backend/internal/domain"
	"github.com/heartmarshall/glossary-backend/pkg/ctxutil"
)

type reviewRepo interface {
	Create(termID, requestedBy string, reviewers []string) domain.ReviewRequest
	AddComment(id, author, text string, field *string) (domain.ReviewRequest, error)
	SetStatus(id string, status domain.ReviewStatus) (domain.ReviewRequest, error)
	Get(id string) (domain.ReviewRequest, error)
	Pending(reviewer string) []domain.ReviewRequest
	ListByTerm(termID string) []domain.ReviewRequest
}

type resolutionLog interface {
	Append(rec domain.ConflictResolutionRecord)
	List(termID string) []domain.ConflictResolutionRecord
}

// Service runs the review workflow and the conflict resolution log.
type Service struct {
	reviews     reviewRepo
	resolutions resolutionLog
	clock       clockwork.Clock
	log         *slog.Logger
}

// NewService creates a review service.
func NewService(log *slog.Logger, clock clockwork.Clock, reviews reviewRepo, resolutions resolutionLog) *Service {
	return &Service{
		reviews:     reviews,
		resolutions: resolutions,
		clock:       clock,
		log:         log.With("service", "review"),
	}
}

// CreateReview opens a PENDING review of termID. The term does not have to exist yet.
func (s *Service) CreateReview(ctx context.Context, input CreateReviewInput) (domain.ReviewRequest, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ReviewRequest{}, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return domain.ReviewRequest{}, err
	}

	req := s.reviews.Create(strings.TrimSpace(input.TermID), userID, cleanReviewers(input.Reviewers))
	s.log.InfoContext(ctx, "review created",
		slog.String("user_id", userID),
		slog.String("request_id", req.ID),
		slog.String("term_id", req.TermID),
		slog.Int("reviewers", len(req.Reviewers)),
	)
	return req, nil
}

// AddComment appends a comment. The status is left as it is.
func (s *Service) AddComment(ctx context.Context, input AddCommentInput) (domain.ReviewRequest, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ReviewRequest{}, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return domain.ReviewRequest{}, err
	}

	req, err := s.reviews.AddComment(input.RequestID, userID, strings.TrimSpace(input.Text), input.Field)
	if err != nil {
		return domain.ReviewRequest{}, err
	}
	s.log.InfoContext(ctx, "review comment added",
		slog.String("user_id", userID),
		slog.String("request_id", req.ID),
	)
	return req, nil
}

// SetStatus moves a review to any status.
func (s *Service) SetStatus(ctx context.Context, input SetStatusInput) (domain.ReviewRequest, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ReviewRequest{}, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return domain.ReviewRequest{}, err
	}

	req, err := s.reviews.SetStatus(input.RequestID, input.Status)
	if err != nil {
		return domain.ReviewRequest{}, err
	}
	s.log.InfoContext(ctx, "review status changed",
		slog.String("user_id", userID),
		slog.String("request_id", req.ID),
		slog.String("status", req.Status.String()),
	)
	return req, nil
}

// GetReview returns one review request.
func (s *Service) GetReview(_ context.Context, id string) (domain.ReviewRequest, error) {
	return s.reviews.Get(id)
}

// PendingReviews lists open reviews assigned to reviewer. An empty reviewer means the caller.
func (s *Service) PendingReviews(ctx context.Context, reviewer string) ([]domain.ReviewRequest, error) {
	if reviewer == "" {
		userID, ok := ctxutil.UserIDFromCtx(ctx)
		if !ok {
			return nil, domain.ErrUnauthorized
		}
		reviewer = userID
	}
	return s.reviews.Pending(reviewer), nil
}

// ReviewsForTerm lists every review of termID.
func (s *Service) ReviewsForTerm(_ context.Context, termID string) []domain.ReviewRequest {
	return s.reviews.ListByTerm(termID)
}

// ResolveConflict logs how a conflict was settled. It does not change any term.
func (s *Service) ResolveConflict(ctx context.Context, input ResolveConflictInput) (domain.ConflictResolutionRecord, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ConflictResolutionRecord{}, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return domain.ConflictResolutionRecord{}, err
	}

	rec := domain.ConflictResolutionRecord{
		TermID:     strings.TrimSpace(input.TermID),
		ResolvedBy: userID,
		Timestamp:  s.clock.Now().UTC(),
		Kind:       input.Kind,
		Comments:   strings.TrimSpace(input.Comments),
	}
	s.resolutions.Append(rec)
	s.log.InfoContext(ctx, "conflict resolved",
		slog.String("user_id", userID),
		slog.String("term_id", rec.TermID),
		slog.String("kind", rec.Kind.String()),
	)
	return rec, nil
}

// Resolutions lists resolution records, all of them when termID is empty.
func (s *Service) Resolutions(_ context.Context, termID string) []domain.ConflictResolutionRecord {
	return s.resolutions.List(termID)
}

func cleanReviewers(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, r := range in {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
