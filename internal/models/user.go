package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Platform roles. Every authenticated actor carries exactly one.
const (
	RoleContributor = "contributor"
	RoleReviewer    = "reviewer"
	RoleAdmin       = "admin"
)

// User is a platform account: contributors submit work, reviewers and admins
// move it through the pipeline.
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	DisplayName string         `gorm:"size:100" json:"display_name"`
	Role        string         `gorm:"size:20;default:'contributor'" json:"role"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidRole reports whether r is a known role string.
func ValidRole(r string) bool {
	return r == RoleContributor || r == RoleReviewer || r == RoleAdmin
}
