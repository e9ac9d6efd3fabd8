package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Content is one publishable written piece, child of a Submission. The
// publish and feature flags are orthogonal booleans; all four combinations
// are legal.
type Content struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	SubmissionID uuid.UUID      `gorm:"type:uuid;not null;index" json:"submission_id"`
	Title        string         `gorm:"not null;size:255" json:"title"`
	Body         string         `gorm:"type:text;not null" json:"body"`
	Footnotes    datatypes.JSON `gorm:"type:jsonb" json:"footnotes,omitempty"`
	TagIDs       datatypes.JSON `gorm:"type:jsonb" json:"tag_ids"`
	LegacyTags   datatypes.JSON `gorm:"type:jsonb" json:"legacy_tags,omitempty"`

	IsPublished bool       `gorm:"default:false;index" json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`

	// SEO block. Slug stays set after unpublish for audit, but public reads
	// only resolve published content.
	Slug            string `gorm:"size:80;uniqueIndex:idx_contents_slug,where:slug <> ''" json:"slug,omitempty"`
	MetaTitle       string `gorm:"size:255" json:"meta_title,omitempty"`
	MetaDescription string `gorm:"size:500" json:"meta_description,omitempty"`

	IsFeatured bool       `gorm:"default:false;index" json:"is_featured"`
	FeaturedAt *time.Time `json:"featured_at,omitempty"`

	ViewCount int       `gorm:"default:0" json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagIDList decodes the tag_ids column.
func (c *Content) TagIDList() []uuid.UUID {
	return decodeUUIDList(c.TagIDs)
}

// LegacyTagList decodes the legacy_tags column.
func (c *Content) LegacyTagList() []string {
	return decodeStringList(c.LegacyTags)
}
