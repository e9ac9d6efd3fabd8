package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkvault/editorial-backend/internal/dto"
	"github.com/inkvault/editorial-backend/internal/models"
)

func TestNormalizeAndSlugify(t *testing.T) {
	svc := NewTagService(nil, 0)

	assert.Equal(t, "short stories", svc.Normalize("  Short   STORIES "))
	assert.Equal(t, "short-stories", svc.Slugify("short stories"))
	assert.Equal(t, "future-noir", svc.Slugify("Future/Noir!"))
	assert.Equal(t, "", svc.Slugify("  ???  "))
}

func TestUpsertIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(db, 0)

	first, created, err := svc.Upsert("Short Stories")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "short stories", first.Name)
	assert.Equal(t, "short-stories", first.Slug)

	// A differently-cased, differently-spaced raw string hits the same slug.
	second, created, err := svc.Upsert(" short   STORIES ")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpsertEmptyTag(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(db, 0)

	_, _, err := svc.Upsert("   ")
	assert.ErrorIs(t, err, ErrEmptyTag)
}

func TestBackfillRewritesContentsAndSubmissions(t *testing.T) {
	db := setupTestDB(t)
	submissions := NewSubmissionService(db)
	tags := NewTagService(db, 2)

	submission, err := submissions.Create(uuid.New(), &dto.CreateSubmissionRequest{
		Title: "Night Watch",
		Type:  "article",
		Contents: []dto.ContentItemRequest{
			{Title: "Part One", Body: "First half.", Tags: []string{"Cities", "night  WALKS"}},
			{Title: "Part Two", Body: "Second half.", Tags: []string{"cities", "Memory"}},
		},
	})
	require.NoError(t, err)

	result, err := tags.Backfill(context.Background())
	require.NoError(t, err)

	// "Cities"/"cities" collapse to one slug; three distinct tags total.
	assert.Equal(t, 3, result.TagsCreated)
	assert.Equal(t, 2, result.ContentsUpdated)
	assert.Equal(t, 1, result.SubmissionsUpdated)

	var tagCount int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tagCount).Error)
	assert.Equal(t, int64(3), tagCount)

	var contents []models.Content
	require.NoError(t, db.Where("submission_id = ?", submission.ID).Order("title ASC").Find(&contents).Error)
	require.Len(t, contents, 2)
	assert.Len(t, contents[0].TagIDList(), 2)
	assert.Len(t, contents[1].TagIDList(), 2)

	stored, err := submissions.Get(submission.ID)
	require.NoError(t, err)
	assert.Len(t, stored.TagIDList(), 3)

	// Legacy raw strings stay for audit.
	assert.Equal(t, []string{"Cities", "night  WALKS"}, contents[0].LegacyTagList())
}

func TestBackfillIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	submissions := NewSubmissionService(db)
	tags := NewTagService(db, 0)

	seedSubmission(t, submissions, uuid.New(), "archives", "letters")

	first, err := tags.Backfill(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.TagsCreated)
	assert.Equal(t, 1, first.ContentsUpdated)
	assert.Equal(t, 1, first.SubmissionsUpdated)

	second, err := tags.Backfill(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.TagsCreated)
	assert.Equal(t, 0, second.ContentsUpdated)
	assert.Equal(t, 0, second.SubmissionsUpdated)

	var tagCount int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tagCount).Error)
	assert.Equal(t, int64(2), tagCount)
}

func TestBackfillHonorsCancellation(t *testing.T) {
	db := setupTestDB(t)
	submissions := NewSubmissionService(db)
	tags := NewTagService(db, 1)

	seedSubmission(t, submissions, uuid.New(), "archives")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tags.Backfill(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
