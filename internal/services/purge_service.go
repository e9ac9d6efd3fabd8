package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkvault/editorial-backend/internal/dto"
	"github.com/inkvault/editorial-backend/internal/models"
)

var (
	ErrUnconfirmed   = errors.New("purge requires explicit confirmation")
	ErrBatchTooLarge = errors.New("purge batch exceeds the configured cap")
)

// PurgeService permanently deletes submissions together with their dependent
// contents and reviews. Preview never mutates; Execute cascades per item and
// accumulates failures instead of aborting the batch.
type PurgeService struct {
	db       *gorm.DB
	batchMax int
}

func NewPurgeService(db *gorm.DB, batchMax int) *PurgeService {
	if batchMax <= 0 {
		batchMax = 100
	}
	return &PurgeService{db: db, batchMax: batchMax}
}

// Preview counts, per submission, the contents and reviews a purge would
// delete. Unknown ids report zero counts with Found false.
func (s *PurgeService) Preview(ids []uuid.UUID) (*dto.PurgePreviewResponse, error) {
	resp := &dto.PurgePreviewResponse{
		Items:          make([]dto.PurgePreviewItem, 0, len(ids)),
		TotalSubmitted: len(ids),
	}

	for _, id := range ids {
		item := dto.PurgePreviewItem{SubmissionID: id.String()}

		var exists int64
		if err := s.db.Model(&models.Submission{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return nil, fmt.Errorf("preview lookup failed: %w", err)
		}
		item.Found = exists > 0

		if item.Found {
			if err := s.db.Model(&models.Content{}).Where("submission_id = ?", id).Count(&item.Contents).Error; err != nil {
				return nil, fmt.Errorf("preview content count failed: %w", err)
			}
			if err := s.db.Model(&models.Review{}).Where("submission_id = ?", id).Count(&item.Reviews).Error; err != nil {
				return nil, fmt.Errorf("preview review count failed: %w", err)
			}
		}

		resp.TotalContents += item.Contents
		resp.TotalReviews += item.Reviews
		resp.Items = append(resp.Items, item)
	}
	return resp, nil
}

// Execute cascadingly deletes each submission: contents first, then reviews,
// then the submission row, each item in its own transaction so one failed
// cascade never blocks the rest of the batch. Safety rails: the caller must
// confirm explicitly and the batch size is capped.
func (s *PurgeService) Execute(ids []uuid.UUID, requestedBy uuid.UUID, confirm bool) (*dto.PurgeResultResponse, error) {
	if !confirm {
		return nil, ErrUnconfirmed
	}
	if len(ids) > s.batchMax {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(ids), s.batchMax)
	}

	result := &dto.PurgeResultResponse{Failures: []dto.PurgeFailure{}}

	for _, id := range ids {
		var contentsDeleted, reviewsDeleted int64

		err := s.db.Transaction(func(tx *gorm.DB) error {
			var submission models.Submission
			if err := tx.First(&submission, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrSubmissionNotFound
				}
				return err
			}

			// Children before parent, for auditability of partial failures.
			res := tx.Where("submission_id = ?", id).Delete(&models.Content{})
			if res.Error != nil {
				return fmt.Errorf("content cascade failed: %w", res.Error)
			}
			contentsDeleted = res.RowsAffected

			res = tx.Where("submission_id = ?", id).Delete(&models.Review{})
			if res.Error != nil {
				return fmt.Errorf("review cascade failed: %w", res.Error)
			}
			reviewsDeleted = res.RowsAffected

			return tx.Delete(&models.Submission{}, "id = ?", id).Error
		})
		if err != nil {
			result.Failures = append(result.Failures, dto.PurgeFailure{
				SubmissionID: id.String(),
				Error:        err.Error(),
			})
			continue
		}

		result.Deleted++
		result.ContentsDeleted += contentsDeleted
		result.ReviewsDeleted += reviewsDeleted
	}

	slog.Info("purge executed",
		"requested_by", requestedBy.String(),
		"submitted", len(ids),
		"deleted", result.Deleted,
		"failed", len(result.Failures),
	)
	return result, nil
}
