package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkvault/editorial-backend/internal/actor"
	"github.com/inkvault/editorial-backend/internal/dto"
	"github.com/inkvault/editorial-backend/internal/models"
	"github.com/inkvault/editorial-backend/internal/workflow"
)

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrInvalidStatus      = errors.New("unknown submission status")
	ErrInvalidTransition  = errors.New("illegal status transition")
	ErrInvalidType        = errors.New("unknown submission type")
	ErrNoContents         = errors.New("submission requires at least one content item")
)

// SubmissionService owns the submission lifecycle: creation, the status state
// machine, and purge-eligibility marking.
type SubmissionService struct {
	db *gorm.DB
}

func NewSubmissionService(db *gorm.DB) *SubmissionService {
	return &SubmissionService{db: db}
}

func (s *SubmissionService) Create(userID uuid.UUID, req *dto.CreateSubmissionRequest) (*models.Submission, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, errors.New("title is required")
	}
	if !models.ValidSubmissionType(req.Type) {
		return nil, ErrInvalidType
	}
	if len(req.Contents) == 0 {
		return nil, ErrNoContents
	}

	initial := workflow.StatusPendingReview
	if req.Draft {
		initial = workflow.StatusDraft
	}
	if req.Status != "" {
		initial = workflow.Status(req.Status)
	}
	if !workflow.IsEntry(initial) {
		return nil, fmt.Errorf("%w: %q is not an entry status", ErrInvalidStatus, initial)
	}

	now := time.Now().UTC()
	submission := &models.Submission{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Type:        req.Type,
		Status:      initial,
		LegacyTags:  models.EncodeStringList(cleanTags(req.Tags)),
	}

	history, err := submission.AppendHistory(models.HistoryEntry{
		Status:    initial,
		UserID:    userID,
		Role:      models.RoleContributor,
		Timestamp: now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode history: %w", err)
	}
	submission.History = history

	contents := make([]models.Content, 0, len(req.Contents))
	contentIDs := make([]uuid.UUID, 0, len(req.Contents))
	for _, item := range req.Contents {
		if strings.TrimSpace(item.Title) == "" || strings.TrimSpace(item.Body) == "" {
			return nil, errors.New("content items require a title and a body")
		}
		content := models.Content{
			ID:           uuid.New(),
			UserID:       userID,
			SubmissionID: submission.ID,
			Title:        strings.TrimSpace(item.Title),
			Body:         item.Body,
			Footnotes:    models.EncodeStringList(item.Footnotes),
			LegacyTags:   models.EncodeStringList(cleanTags(item.Tags)),
		}
		contents = append(contents, content)
		contentIDs = append(contentIDs, content.ID)
	}
	submission.ContentIDs = models.EncodeUUIDList(contentIDs)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(submission).Error; err != nil {
			return err
		}
		return tx.Create(&contents).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	return submission, nil
}

func (s *SubmissionService) Get(id uuid.UUID) (*models.Submission, error) {
	var submission models.Submission
	if err := s.db.First(&submission, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &submission, nil
}

func (s *SubmissionService) ListByUser(userID uuid.UUID, page, limit int) ([]models.Submission, int64, error) {
	var submissions []models.Submission
	var total int64

	offset := (page - 1) * limit

	query := s.db.Model(&models.Submission{}).Where("user_id = ?", userID)
	query.Count(&total)

	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&submissions).Error
	return submissions, total, err
}

func (s *SubmissionService) ListByStatus(status workflow.Status, page, limit int) ([]models.Submission, int64, error) {
	if !workflow.IsValid(status) {
		return nil, 0, ErrInvalidStatus
	}

	var submissions []models.Submission
	var total int64

	offset := (page - 1) * limit

	query := s.db.Model(&models.Submission{}).Where("status = ?", status)
	query.Count(&total)

	err := query.Order("created_at ASC").Offset(offset).Limit(limit).Find(&submissions).Error
	return submissions, total, err
}

// ChangeStatus moves a submission along a legal edge of the workflow table.
// The guard runs against the caller's read of the submission, and the write
// is conditional on the row still holding that status, so out of two racing
// transitions exactly one lands; the loser gets ErrInvalidTransition. The
// status change and its history entry are one row write and cannot be
// observed apart.
func (s *SubmissionService) ChangeStatus(submission *models.Submission, newStatus workflow.Status, act actor.Actor, note string) error {
	if !workflow.IsValid(newStatus) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}
	if !workflow.CanTransition(submission.Status, newStatus) {
		if workflow.IsTerminal(submission.Status) {
			return fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, submission.Status)
		}
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, submission.Status, newStatus)
	}

	now := time.Now().UTC()
	history, err := submission.AppendHistory(models.HistoryEntry{
		Status:    newStatus,
		UserID:    act.ID,
		Role:      act.Role,
		Notes:     note,
		Timestamp: now,
	})
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	updates := map[string]interface{}{
		"status":     newStatus,
		"history":    history,
		"updated_at": now,
	}
	if workflow.SetsReviewedAt(newStatus) {
		updates["reviewed_at"] = now
	}

	result := s.db.Model(&models.Submission{}).
		Where("id = ? AND status = ?", submission.ID, submission.Status).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update submission status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Either the row is gone or a concurrent transition got there first.
		var current models.Submission
		if err := s.db.First(&current, "id = ?", submission.ID).Error; err != nil {
			return ErrSubmissionNotFound
		}
		return fmt.Errorf("%w: submission moved to %s concurrently", ErrInvalidTransition, current.Status)
	}

	submission.Status = newStatus
	submission.History = history
	submission.UpdatedAt = now
	if workflow.SetsReviewedAt(newStatus) {
		submission.ReviewedAt = &now
	}
	return nil
}

// TransitionByID fetches the submission and applies ChangeStatus.
func (s *SubmissionService) TransitionByID(id uuid.UUID, newStatus workflow.Status, act actor.Actor, note string) (*models.Submission, error) {
	submission, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.ChangeStatus(submission, newStatus, act, note); err != nil {
		return nil, err
	}
	return submission, nil
}

// MarkPurgeEligible flags rejected submissions untouched since the cutoff.
// Already-flagged rows are excluded, so re-runs are no-ops and the returned
// count only covers newly flagged submissions. UpdateColumns keeps
// updated_at intact; flagging is bookkeeping, not an edit.
func (s *SubmissionService) MarkPurgeEligible(olderThan time.Duration) (int64, error) {
	now := time.Now().UTC()
	cutoff := now.Add(-olderThan)

	result := s.db.Model(&models.Submission{}).
		Where("status = ? AND purge_eligible = ? AND updated_at < ?", workflow.StatusRejected, false, cutoff).
		UpdateColumns(map[string]interface{}{
			"purge_eligible":   true,
			"purge_flagged_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to flag submissions for purge: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func cleanTags(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		trimmed := strings.TrimSpace(t)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		tags = append(tags, trimmed)
	}
	return tags
}
