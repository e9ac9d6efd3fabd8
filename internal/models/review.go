package models

import (
	"time"

	"github.com/google/uuid"
)

// Review decision statuses. Each maps 1:1 onto the submission status of the
// same name.
var ReviewStatuses = []string{
	"accepted", "rejected", "needs_revision", "shortlisted",
}

// ValidReviewStatus reports whether s is a known decision status.
func ValidReviewStatus(s string) bool {
	for _, rs := range ReviewStatuses {
		if rs == s {
			return true
		}
	}
	return false
}

// Rating bounds for an optional reviewer score.
const (
	RatingMin = 1
	RatingMax = 5
)

// Review is one reviewer's recorded decision on a submission. Reviews are
// append-only: never updated, deleted only when their submission is purged.
type Review struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SubmissionID uuid.UUID `gorm:"type:uuid;not null;index" json:"submission_id"`
	ReviewerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"reviewer_id"`
	Status       string    `gorm:"not null;size:30" json:"status"`
	Notes        string    `gorm:"type:text" json:"notes,omitempty"`
	Rating       *int      `json:"rating,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
