package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkvault/editorial-backend/internal/actor"
	"github.com/inkvault/editorial-backend/internal/models"
	"github.com/inkvault/editorial-backend/internal/workflow"
)

var (
	ErrNotReviewable       = errors.New("submission is not in a reviewable status")
	ErrMissingNotes        = errors.New("notes are required for this decision")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrInvalidReviewStatus = errors.New("unknown review decision status")
)

// ReviewService records moderation decisions. Reviews are the audit trail;
// the status transition they imply is driven separately through the
// submission state machine.
type ReviewService struct {
	db          *gorm.DB
	submissions *SubmissionService
}

func NewReviewService(db *gorm.DB, submissions *SubmissionService) *ReviewService {
	return &ReviewService{db: db, submissions: submissions}
}

// Record creates one immutable review. It never transitions the submission;
// callers sequence the transition themselves (see Act).
func (s *ReviewService) Record(submissionID, reviewerID uuid.UUID, status, notes string, rating *int) (*models.Review, *models.Submission, error) {
	if !models.ValidReviewStatus(status) {
		return nil, nil, ErrInvalidReviewStatus
	}
	if rating != nil && (*rating < models.RatingMin || *rating > models.RatingMax) {
		return nil, nil, ErrInvalidRating
	}
	if requiresNotes(status) && strings.TrimSpace(notes) == "" {
		return nil, nil, ErrMissingNotes
	}

	submission, err := s.submissions.Get(submissionID)
	if err != nil {
		return nil, nil, err
	}
	if !workflow.IsReviewable(submission.Status) {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotReviewable, submission.Status)
	}

	review := &models.Review{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		ReviewerID:   reviewerID,
		Status:       status,
		Notes:        notes,
		Rating:       rating,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.db.Create(review).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, submission, nil
}

// Act is the review-action use case: record the decision, then drive the
// submission through the matching transition. If the transition fails after
// the review persisted, the review is kept as audit and the inconsistency is
// reported for reconciliation.
func (s *ReviewService) Act(submissionID uuid.UUID, act actor.Actor, status, notes string, rating *int) (*models.Review, *models.Submission, error) {
	review, submission, err := s.Record(submissionID, act.ID, status, notes, rating)
	if err != nil {
		return nil, nil, err
	}

	if err := s.submissions.ChangeStatus(submission, workflow.Status(status), act, notes); err != nil {
		slog.Error("review recorded but status transition failed",
			"submission_id", submissionID.String(),
			"review_id", review.ID.String(),
			"decision", status,
			"action", "review_act",
			"error", err.Error(),
		)
		sentry.CaptureException(fmt.Errorf("review %s recorded but transition of submission %s failed: %w", review.ID, submissionID, err))
		return review, submission, err
	}
	return review, submission, nil
}

func (s *ReviewService) ListForSubmission(submissionID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Find(&reviews).Error
	return reviews, err
}

func requiresNotes(status string) bool {
	return status == "rejected" || status == "needs_revision"
}
