package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag is one canonical vocabulary entry. Slug is a pure function of the
// normalized name and uniquely identifies the tag; many legacy raw strings
// may resolve to the same slug.
type Tag struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:100" json:"name"`
	Slug      string    `gorm:"not null;size:100;uniqueIndex" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
