package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkvault/editorial-backend/internal/actor"
	"github.com/inkvault/editorial-backend/internal/models"
	"github.com/inkvault/editorial-backend/internal/workflow"
)

func TestRecordReviewRejectedRequiresNotes(t *testing.T) {
	db := setupTestDB(t)
	submissions := NewSubmissionService(db)
	reviews := NewReviewService(db, submissions)

	submission := seedSubmission(t, submissions, uuid.New())

	_, _, err := reviews.Record(submission.ID, uuid.New(), "rejected", "   ", nil)
	assert.ErrorIs(t, err, ErrMissingNotes)

	// No review row, no status change.
	var count int64
	require.NoError(t, db.Model(&models.Review{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	stored, err := submissions.Get(submission.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusPendingReview, stored.Status)
}

func TestRecordReviewNotReviewable(t *testing.T) {
	db := setupTestDB(t)
	submissions := NewSubmissionService(db)
	reviews := NewReviewService(db, submissions)

	submission := seedSubmission(t, submissions, uuid.New())
	forceStatus(t, db, submission.ID, workflow.StatusArchived)

	_, _, err := reviews.Record(submission.ID, uuid.New(), "accepted", "", nil)
	assert.ErrorIs(t, err, ErrNotReviewable)
}

func TestRecordReviewRatingBounds(t *testing.T) {
	db := setupTestDB(t)
	submissions := NewSubmissionService(db)
	reviews := NewReviewService(db, submissions)

	submission := seedSubmission(t, submissions, uuid.New())

	six := 6
	_, _, err := reviews.Record(submission.ID, uuid.New(), "accepted", "", &six)
	assert.ErrorIs(t, err, ErrInvalidRating)

	zero := 0
	_, _, err = reviews.Record(submission.ID, uuid.New(), "accepted", "", &zero)
	assert.ErrorIs(t, err, ErrInvalidRating)

	four := 4
	review, _, err := reviews.Record(submission.ID, uuid.New(), "accepted", "", &four)
	require.NoError(t, err)
	require.NotNil(t, review.Rating)
	assert.Equal(t, 4, *review.Rating)
}

func TestRecordReviewUnknownSubmission(t *testing.T) {
	db := setupTestDB(t)
	submissions := NewSubmissionService(db)
	reviews := NewReviewService(db, submissions)

	_, _, err := reviews.Record(uuid.New(), uuid.New(), "accepted", "", nil)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestActRejectedRecordsReviewAndTransitions(t *testing.T) {
	db := setupTestDB(t)
	submissions := NewSubmissionService(db)
	reviews := NewReviewService(db, submissions)
	reviewer := actor.Actor{ID: uuid.New(), Role: models.RoleReviewer}

	submission := seedSubmission(t, submissions, uuid.New())

	review, updated, err := reviews.Act(submission.ID, reviewer, "rejected", "too short", nil)
	require.NoError(t, err)

	assert.Equal(t, "rejected", review.Status)
	assert.Equal(t, "too short", review.Notes)
	assert.Equal(t, reviewer.ID, review.ReviewerID)

	assert.Equal(t, workflow.StatusRejected, updated.Status)
	require.NotNil(t, updated.ReviewedAt)

	stored, err := submissions.Get(submission.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusRejected, stored.Status)

	history := stored.HistoryEntries()
	require.Len(t, history, 2)
	assert.Equal(t, workflow.StatusRejected, history[1].Status)
	assert.Equal(t, "too short", history[1].Notes)

	var count int64
	require.NoError(t, db.Model(&models.Review{}).Where("submission_id = ?", submission.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestActShortlistThenAccept(t *testing.T) {
	db := setupTestDB(t)
	submissions := NewSubmissionService(db)
	reviews := NewReviewService(db, submissions)
	reviewer := actor.Actor{ID: uuid.New(), Role: models.RoleReviewer}

	submission := seedSubmission(t, submissions, uuid.New())

	_, updated, err := reviews.Act(submission.ID, reviewer, "shortlisted", "promising", nil)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusShortlisted, updated.Status)
	assert.Nil(t, updated.ReviewedAt)

	_, updated, err = reviews.Act(submission.ID, reviewer, "accepted", "", nil)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusAccepted, updated.Status)
	require.NotNil(t, updated.ReviewedAt)

	listed, err := reviews.ListForSubmission(submission.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "shortlisted", listed[0].Status)
	assert.Equal(t, "accepted", listed[1].Status)
}

func TestActKeepsReviewWhenTransitionRaces(t *testing.T) {
	db := setupTestDB(t)
	submissions := NewSubmissionService(db)
	reviews := NewReviewService(db, submissions)
	reviewer := actor.Actor{ID: uuid.New(), Role: models.RoleReviewer}

	submission := seedSubmission(t, submissions, uuid.New())

	// Simulate a concurrent decision landing between the review insert and
	// the transition: the row is already terminal by write time.
	review, _, err := reviews.Record(submission.ID, reviewer.ID, "accepted", "", nil)
	require.NoError(t, err)
	forceStatus(t, db, submission.ID, workflow.StatusArchived)

	_, _, err = reviews.Act(submission.ID, reviewer, "rejected", "duplicate decision", nil)
	assert.ErrorIs(t, err, ErrNotReviewable)

	// The earlier review stays; audit records are never rolled back.
	var count int64
	require.NoError(t, db.Model(&models.Review{}).Where("id = ?", review.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
