package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkvault/editorial-backend/internal/dto"
	"github.com/inkvault/editorial-backend/internal/models"
	"github.com/inkvault/editorial-backend/internal/workflow"
)

var (
	ErrContentNotFound       = errors.New("content not found")
	ErrSubmissionNotAccepted = errors.New("parent submission is not accepted")
	ErrAlreadyPublished      = errors.New("content is already published")
	ErrNotPublished          = errors.New("content is not published")
	ErrAlreadyFeatured       = errors.New("content is already featured")
	ErrNotFeatured           = errors.New("content is not featured")
	ErrSlugExhausted         = errors.New("could not find a free slug")
)

// maxSlugProbes bounds the -1, -2, ... uniqueness probing. Titles colliding
// this often indicate a data problem, not a naming problem.
const maxSlugProbes = 50

const metaDescriptionLimit = 160

var slugStripPattern = regexp.MustCompile(`[^a-z0-9\s-]+`)
var slugSpacePattern = regexp.MustCompile(`[\s-]+`)

// ContentService publishes accepted work as individually addressable pieces.
type ContentService struct {
	db            *gorm.DB
	slugMaxLength int

	// beforeSlugWrite runs between the slug probe and the claiming write.
	// Test seam for interleaving a competing publish; nil in production.
	beforeSlugWrite func(slug string)
}

func NewContentService(db *gorm.DB, slugMaxLength int) *ContentService {
	if slugMaxLength <= 0 {
		slugMaxLength = 60
	}
	return &ContentService{db: db, slugMaxLength: slugMaxLength}
}

func (s *ContentService) Get(id uuid.UUID) (*models.Content, error) {
	var content models.Content
	if err := s.db.First(&content, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return &content, nil
}

// GetBySlug resolves a slug for public reads; only published content resolves.
func (s *ContentService) GetBySlug(slug string) (*models.Content, error) {
	var content models.Content
	err := s.db.Where("slug = ? AND is_published = ?", slug, true).First(&content).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return &content, nil
}

func (s *ContentService) ListPublished(page, limit int, featuredOnly bool) ([]models.Content, int64, error) {
	var contents []models.Content
	var total int64

	offset := (page - 1) * limit

	query := s.db.Model(&models.Content{}).Where("is_published = ?", true)
	if featuredOnly {
		query = query.Where("is_featured = ?", true)
	}
	query.Count(&total)

	err := query.Order("published_at DESC").Offset(offset).Limit(limit).Find(&contents).Error
	return contents, total, err
}

func (s *ContentService) ListForSubmission(submissionID uuid.UUID) ([]models.Content, error) {
	var contents []models.Content
	err := s.db.Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Find(&contents).Error
	return contents, err
}

func (s *ContentService) IncrementViews(id uuid.UUID) error {
	return s.db.Model(&models.Content{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// Publish marks a content item live. The parent submission must already have
// cleared review (accepted, or published for later items in the bundle).
func (s *ContentService) Publish(contentID uuid.UUID, overrides *dto.PublishRequest) (*models.Content, error) {
	content, err := s.Get(contentID)
	if err != nil {
		return nil, err
	}
	if content.IsPublished {
		return nil, ErrAlreadyPublished
	}

	var submission models.Submission
	if err := s.db.First(&submission, "id = ?", content.SubmissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	if submission.Status != workflow.StatusAccepted && submission.Status != workflow.StatusPublished {
		return nil, fmt.Errorf("%w: status is %s", ErrSubmissionNotAccepted, submission.Status)
	}

	base := ""
	metaTitle := content.Title
	metaDescription := excerpt(content.Body, metaDescriptionLimit)
	if overrides != nil {
		if overrides.Slug != "" {
			base = s.Slugify(overrides.Slug)
		}
		if overrides.MetaTitle != "" {
			metaTitle = overrides.MetaTitle
		}
		if overrides.MetaDescription != "" {
			metaDescription = overrides.MetaDescription
		}
	}
	if base == "" {
		base = s.Slugify(content.Title)
	}
	if base == "" {
		base = content.ID.String()[:8]
	}

	// The probe and the claiming write are separate statements, so a
	// competing publish can take the probed slug in between. The unique
	// index rejects the loser; on that error probe again against the row
	// that is now visible.
	var slug string
	var now time.Time
	for attempt := 0; ; attempt++ {
		slug, err = s.freeSlug(base, content.ID)
		if err != nil {
			return nil, err
		}
		if s.beforeSlugWrite != nil {
			s.beforeSlugWrite(slug)
		}

		now = time.Now().UTC()
		updates := map[string]interface{}{
			"is_published":     true,
			"published_at":     now,
			"slug":             slug,
			"meta_title":       metaTitle,
			"meta_description": metaDescription,
			"updated_at":       now,
		}
		err = s.db.Model(content).Updates(updates).Error
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if attempt < maxSlugProbes {
				continue
			}
			return nil, fmt.Errorf("%w: base %q", ErrSlugExhausted, base)
		}
		return nil, fmt.Errorf("failed to publish content: %w", err)
	}

	content.IsPublished = true
	content.PublishedAt = &now
	content.Slug = slug
	content.MetaTitle = metaTitle
	content.MetaDescription = metaDescription
	return content, nil
}

// Unpublish takes a content item offline. The slug stays on the row for
// audit but stops resolving publicly.
func (s *ContentService) Unpublish(contentID uuid.UUID) (*models.Content, error) {
	content, err := s.Get(contentID)
	if err != nil {
		return nil, err
	}
	if !content.IsPublished {
		return nil, ErrNotPublished
	}

	updates := map[string]interface{}{
		"is_published": false,
		"published_at": nil,
		"is_featured":  false,
		"featured_at":  nil,
	}
	if err := s.db.Model(content).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to unpublish content: %w", err)
	}

	content.IsPublished = false
	content.PublishedAt = nil
	content.IsFeatured = false
	content.FeaturedAt = nil
	return content, nil
}

func (s *ContentService) Feature(contentID uuid.UUID) (*models.Content, error) {
	content, err := s.Get(contentID)
	if err != nil {
		return nil, err
	}
	if !content.IsPublished {
		return nil, ErrNotPublished
	}
	if content.IsFeatured {
		return nil, ErrAlreadyFeatured
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{"is_featured": true, "featured_at": now}
	if err := s.db.Model(content).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to feature content: %w", err)
	}

	content.IsFeatured = true
	content.FeaturedAt = &now
	return content, nil
}

func (s *ContentService) Unfeature(contentID uuid.UUID) (*models.Content, error) {
	content, err := s.Get(contentID)
	if err != nil {
		return nil, err
	}
	if !content.IsFeatured {
		return nil, ErrNotFeatured
	}

	updates := map[string]interface{}{"is_featured": false, "featured_at": nil}
	if err := s.db.Model(content).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to unfeature content: %w", err)
	}

	content.IsFeatured = false
	content.FeaturedAt = nil
	return content, nil
}

// Slugify turns a title into a URL-safe slug: lower-case, strip everything
// outside [a-z0-9 -], collapse runs of whitespace/hyphens to one hyphen,
// truncate to the configured length.
func (s *ContentService) Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStripPattern.ReplaceAllString(slug, "")
	slug = slugSpacePattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > s.slugMaxLength {
		slug = strings.Trim(slug[:s.slugMaxLength], "-")
	}
	return slug
}

// freeSlug probes base, base-1, base-2, ... with point lookups until a free
// slug is found. Bounded so a pathological collision run fails loudly
// instead of scanning forever.
func (s *ContentService) freeSlug(base string, selfID uuid.UUID) (string, error) {
	candidate := base
	for i := 0; i <= maxSlugProbes; i++ {
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		var count int64
		err := s.db.Model(&models.Content{}).
			Where("slug = ? AND id <> ?", candidate, selfID).
			Count(&count).Error
		if err != nil {
			return "", fmt.Errorf("slug lookup failed: %w", err)
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: base %q", ErrSlugExhausted, base)
}

func excerpt(body string, limit int) string {
	text := strings.Join(strings.Fields(body), " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit-3])) + "..."
}
