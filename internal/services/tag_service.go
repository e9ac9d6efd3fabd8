package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/inkvault/editorial-backend/internal/dto"
	"github.com/inkvault/editorial-backend/internal/models"
)

var ErrEmptyTag = errors.New("tag normalizes to an empty string")

var tagSlugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// TagService canonicalizes free-text tags into the shared tag registry and
// backfills the derived tag-id fields on contents and submissions.
type TagService struct {
	db        *gorm.DB
	chunkSize int
}

func NewTagService(db *gorm.DB, chunkSize int) *TagService {
	if chunkSize <= 0 {
		chunkSize = 200
	}
	return &TagService{db: db, chunkSize: chunkSize}
}

// Normalize folds a raw tag string to its canonical form: lower-case,
// trimmed, internal whitespace collapsed.
func (s *TagService) Normalize(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}

// Slugify derives the registry key from a canonical name. Runs of anything
// outside [a-z0-9] become single hyphens.
func (s *TagService) Slugify(name string) string {
	return strings.Trim(tagSlugPattern.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// Upsert resolves a raw tag string to its canonical tag id, creating the tag
// if the slug is new. Insert-if-absent runs at the store (ON CONFLICT DO
// NOTHING on the slug index), so concurrent upserts of the same slug cannot
// create duplicates. Returns the tag and whether this call created it.
func (s *TagService) Upsert(raw string) (*models.Tag, bool, error) {
	name := s.Normalize(raw)
	slug := s.Slugify(name)
	if slug == "" {
		return nil, false, ErrEmptyTag
	}

	now := time.Now().UTC()
	tag := models.Tag{
		ID:        uuid.New(),
		Name:      name,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(&tag)
	if result.Error != nil {
		return nil, false, fmt.Errorf("failed to upsert tag: %w", result.Error)
	}
	created := result.RowsAffected > 0

	// Re-read by slug so the winner's id is returned either way.
	var canonical models.Tag
	if err := s.db.First(&canonical, "slug = ?", slug).Error; err != nil {
		return nil, false, fmt.Errorf("failed to load tag %q: %w", slug, err)
	}
	return &canonical, created, nil
}

func (s *TagService) List() ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.Order("slug ASC").Find(&tags).Error
	return tags, err
}

// Backfill migrates legacy raw tag strings to canonical tag ids: upserts a
// tag per distinct slug, rewrites each content's tag_ids from its legacy
// tags, then derives each submission's tag_ids as the union over its
// contents. Only rows still missing the derived field are touched, and each
// chunk commits before the next, so re-runs and cancellations are safe.
func (s *TagService) Backfill(ctx context.Context) (*dto.BackfillResponse, error) {
	result := &dto.BackfillResponse{}

	lastID := uuid.Nil
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		var contents []models.Content
		err := s.db.Where("id > ?", lastID).
			Order("id ASC").
			Limit(s.chunkSize).
			Find(&contents).Error
		if err != nil {
			return result, fmt.Errorf("content scan failed: %w", err)
		}
		if len(contents) == 0 {
			break
		}

		for i := range contents {
			content := &contents[i]
			lastID = content.ID
			if len(content.TagIDList()) > 0 {
				continue
			}
			legacy := content.LegacyTagList()
			if len(legacy) == 0 {
				continue
			}

			ids, created, err := s.upsertAll(legacy)
			if err != nil {
				return result, err
			}
			result.TagsCreated += created

			err = s.db.Model(&models.Content{}).
				Where("id = ?", content.ID).
				UpdateColumn("tag_ids", models.EncodeUUIDList(ids)).Error
			if err != nil {
				return result, fmt.Errorf("failed to rewrite content tags: %w", err)
			}
			result.ContentsUpdated++
		}
	}

	lastID = uuid.Nil
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		var submissions []models.Submission
		err := s.db.Where("id > ?", lastID).
			Order("id ASC").
			Limit(s.chunkSize).
			Find(&submissions).Error
		if err != nil {
			return result, fmt.Errorf("submission scan failed: %w", err)
		}
		if len(submissions) == 0 {
			break
		}

		for i := range submissions {
			submission := &submissions[i]
			lastID = submission.ID
			if len(submission.TagIDList()) > 0 {
				continue
			}

			union, err := s.contentTagUnion(submission.ID)
			if err != nil {
				return result, err
			}
			if len(union) == 0 {
				continue
			}

			err = s.db.Model(&models.Submission{}).
				Where("id = ?", submission.ID).
				UpdateColumn("tag_ids", models.EncodeUUIDList(union)).Error
			if err != nil {
				return result, fmt.Errorf("failed to derive submission tags: %w", err)
			}
			result.SubmissionsUpdated++
		}
	}

	return result, nil
}

func (s *TagService) upsertAll(raw []string) ([]uuid.UUID, int, error) {
	seen := make(map[uuid.UUID]bool, len(raw))
	ids := make([]uuid.UUID, 0, len(raw))
	created := 0
	for _, r := range raw {
		tag, isNew, err := s.Upsert(r)
		if errors.Is(err, ErrEmptyTag) {
			continue
		}
		if err != nil {
			return nil, created, err
		}
		if isNew {
			created++
		}
		if !seen[tag.ID] {
			seen[tag.ID] = true
			ids = append(ids, tag.ID)
		}
	}
	return ids, created, nil
}

func (s *TagService) contentTagUnion(submissionID uuid.UUID) ([]uuid.UUID, error) {
	var contents []models.Content
	err := s.db.Select("tag_ids").
		Where("submission_id = ?", submissionID).
		Find(&contents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load contents for union: %w", err)
	}

	seen := make(map[uuid.UUID]bool)
	var union []uuid.UUID
	for i := range contents {
		for _, id := range contents[i].TagIDList() {
			if !seen[id] {
				seen[id] = true
				union = append(union, id)
			}
		}
	}
	return union, nil
}
