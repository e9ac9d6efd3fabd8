package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/inkvault/editorial-backend/internal/workflow"
)

// Submission types.
var SubmissionTypes = []string{
	"poem", "prose", "article", "book_review", "cinema_essay", "opinion",
}

// ValidSubmissionType reports whether t is a known submission type.
func ValidSubmissionType(t string) bool {
	for _, st := range SubmissionTypes {
		if st == t {
			return true
		}
	}
	return false
}

// HistoryEntry is one record in a submission's append-only status log.
type HistoryEntry struct {
	Status    workflow.Status `json:"status"`
	UserID    uuid.UUID       `json:"user_id"`
	Role      string          `json:"role"`
	Notes     string          `json:"notes,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Submission is one contributor's bundle of content items moving through
// moderation. History and the id lists live in JSON columns so a status
// change and its history append are a single row write.
type Submission struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Title          string          `gorm:"not null;size:255" json:"title"`
	Description    string          `gorm:"type:text" json:"description"`
	Type           string          `gorm:"not null;size:30;index" json:"type"`
	Status         workflow.Status `gorm:"not null;size:30;index" json:"status"`
	ContentIDs     datatypes.JSON  `gorm:"type:jsonb" json:"content_ids"`
	TagIDs         datatypes.JSON  `gorm:"type:jsonb" json:"tag_ids"`
	LegacyTags     datatypes.JSON  `gorm:"type:jsonb" json:"legacy_tags,omitempty"`
	History        datatypes.JSON  `gorm:"type:jsonb" json:"history"`
	PurgeEligible  bool            `gorm:"default:false;index" json:"purge_eligible"`
	PurgeFlaggedAt *time.Time      `json:"purge_flagged_at,omitempty"`
	ReviewedAt     *time.Time      `json:"reviewed_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// HistoryEntries decodes the history column. A decode failure returns nil;
// the column is only ever written by AppendHistory.
func (s *Submission) HistoryEntries() []HistoryEntry {
	var entries []HistoryEntry
	if len(s.History) == 0 {
		return nil
	}
	if err := json.Unmarshal(s.History, &entries); err != nil {
		return nil
	}
	return entries
}

// AppendHistory returns the history column with one more entry appended.
// It does not mutate the receiver.
func (s *Submission) AppendHistory(entry HistoryEntry) (datatypes.JSON, error) {
	entries := append(s.HistoryEntries(), entry)
	b, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// ContentIDList decodes the content_ids column.
func (s *Submission) ContentIDList() []uuid.UUID {
	return decodeUUIDList(s.ContentIDs)
}

// TagIDList decodes the tag_ids column.
func (s *Submission) TagIDList() []uuid.UUID {
	return decodeUUIDList(s.TagIDs)
}

// LegacyTagList decodes the legacy_tags column.
func (s *Submission) LegacyTagList() []string {
	return decodeStringList(s.LegacyTags)
}

func decodeUUIDList(col datatypes.JSON) []uuid.UUID {
	if len(col) == 0 {
		return nil
	}
	var ids []uuid.UUID
	if err := json.Unmarshal(col, &ids); err != nil {
		return nil
	}
	return ids
}

func decodeStringList(col datatypes.JSON) []string {
	if len(col) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(col, &list); err != nil {
		return nil
	}
	return list
}

// EncodeUUIDList marshals ids for a JSON id-list column. nil encodes as an
// empty list, never JSON null.
func EncodeUUIDList(ids []uuid.UUID) datatypes.JSON {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	b, _ := json.Marshal(ids)
	return datatypes.JSON(b)
}

// EncodeStringList marshals strings for a JSON list column.
func EncodeStringList(list []string) datatypes.JSON {
	if list == nil {
		list = []string{}
	}
	b, _ := json.Marshal(list)
	return datatypes.JSON(b)
}
