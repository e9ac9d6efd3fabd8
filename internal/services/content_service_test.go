package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkvault/editorial-backend/internal/dto"
	"github.com/inkvault/editorial-backend/internal/models"
	"github.com/inkvault/editorial-backend/internal/workflow"
)

func firstContent(t *testing.T, svc *ContentService, submission *models.Submission) *models.Content {
	t.Helper()
	contents, err := svc.ListForSubmission(submission.ID)
	require.NoError(t, err)
	require.NotEmpty(t, contents)
	return &contents[0]
}

func TestPublishRequiresAcceptedSubmission(t *testing.T) {
	db := setupTestDB(t)
	submissions := NewSubmissionService(db)
	contents := NewContentService(db, 60)

	submission := seedSubmission(t, submissions, uuid.New())
	content := firstContent(t, contents, submission)

	_, err := contents.Publish(content.ID, nil)
	assert.ErrorIs(t, err, ErrSubmissionNotAccepted)

	stored, err := contents.Get(content.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsPublished)
	assert.Empty(t, stored.Slug)
}

func TestPublishSetsSlugAndSEODefaults(t *testing.T) {
	db := setupTestDB(t)
	submissions := NewSubmissionService(db)
	contents := NewContentService(db, 60)

	submission := seedSubmission(t, submissions, uuid.New())
	forceStatus(t, db, submission.ID, workflow.StatusAccepted)
	content := firstContent(t, contents, submission)

	published, err := contents.Publish(content.ID, nil)
	require.NoError(t, err)

	assert.True(t, published.IsPublished)
	require.NotNil(t, published.PublishedAt)
	assert.Equal(t, "meridian-elegy-i", published.Slug)
	assert.Equal(t, "Meridian Elegy I", published.MetaTitle)
	assert.Equal(t, "The harbor light goes out at dusk.", published.MetaDescription)

	resolved, err := contents.GetBySlug("meridian-elegy-i")
	require.NoError(t, err)
	assert.Equal(t, published.ID, resolved.ID)
}

func TestPublishSlugCollisionProbing(t *testing.T) {
	db := setupTestDB(t)
	submissions := NewSubmissionService(db)
	contents := NewContentService(db, 60)
	userID := uuid.New()

	var slugs []string
	for i := 0; i < 3; i++ {
		submission, err := submissions.Create(userID, &dto.CreateSubmissionRequest{
			Title: fmt.Sprintf("Bundle %d", i),
			Type:  "article",
			Contents: []dto.ContentItemRequest{
				{Title: "Field Notes", Body: "Notes from the field."},
			},
		})
		require.NoError(t, err)
		forceStatus(t, db, submission.ID, workflow.StatusAccepted)

		content := firstContent(t, contents, submission)
		published, err := contents.Publish(content.ID, nil)
		require.NoError(t, err)
		slugs = append(slugs, published.Slug)
	}

	assert.Equal(t, []string{"field-notes", "field-notes-1", "field-notes-2"}, slugs)
}

func TestPublishSEOOverrides(t *testing.T) {
	db := setupTestDB(t)
	submissions := NewSubmissionService(db)
	contents := NewContentService(db, 60)

	submission := seedSubmission(t, submissions, uuid.New())
	forceStatus(t, db, submission.ID, workflow.StatusAccepted)
	content := firstContent(t, contents, submission)

	published, err := contents.Publish(content.ID, &dto.PublishRequest{
		Slug:            "Harbour Lights!",
		MetaTitle:       "Harbor lights, revisited",
		MetaDescription: "A poem about endings.",
	})
	require.NoError(t, err)

	assert.Equal(t, "harbour-lights", published.Slug)
	assert.Equal(t, "Harbor lights, revisited", published.MetaTitle)
	assert.Equal(t, "A poem about endings.", published.MetaDescription)
}

func TestPublishReprobesWhenSlugClaimedConcurrently(t *testing.T) {
	db := setupTestDB(t)
	submissions := NewSubmissionService(db)
	contents := NewContentService(db, 60)

	submission := seedSubmission(t, submissions, uuid.New())
	forceStatus(t, db, submission.ID, workflow.StatusAccepted)
	content := firstContent(t, contents, submission)

	// A competing publish lands on the probed slug between the probe and
	// the claiming write, once.
	stolen := ""
	contents.beforeSlugWrite = func(slug string) {
		if stolen != "" {
			return
		}
		stolen = slug
		rival := models.Content{
			ID:           uuid.New(),
			UserID:       submission.UserID,
			SubmissionID: submission.ID,
			Title:        "Rival Piece",
			Body:         "Taken first.",
			Slug:         slug,
			IsPublished:  true,
		}
		require.NoError(t, db.Create(&rival).Error)
	}

	published, err := contents.Publish(content.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, "meridian-elegy-i", stolen)
	assert.Equal(t, "meridian-elegy-i-1", published.Slug)
	assert.True(t, published.IsPublished)

	// Both rows resolve, under distinct slugs.
	var count int64
	require.NoError(t, db.Model(&models.Content{}).
		Where("slug LIKE ?", "meridian-elegy-i%").Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestPublishAlreadyPublished(t *testing.T) {
	db := setupTestDB(t)
	submissions := NewSubmissionService(db)
	contents := NewContentService(db, 60)

	submission := seedSubmission(t, submissions, uuid.New())
	forceStatus(t, db, submission.ID, workflow.StatusAccepted)
	content := firstContent(t, contents, submission)

	_, err := contents.Publish(content.ID, nil)
	require.NoError(t, err)

	_, err = contents.Publish(content.ID, nil)
	assert.ErrorIs(t, err, ErrAlreadyPublished)
}

func TestUnpublishRetainsSlugButStopsResolving(t *testing.T) {
	db := setupTestDB(t)
	submissions := NewSubmissionService(db)
	contents := NewContentService(db, 60)

	submission := seedSubmission(t, submissions, uuid.New())
	forceStatus(t, db, submission.ID, workflow.StatusAccepted)
	content := firstContent(t, contents, submission)

	published, err := contents.Publish(content.ID, nil)
	require.NoError(t, err)

	unpublished, err := contents.Unpublish(content.ID)
	require.NoError(t, err)
	assert.False(t, unpublished.IsPublished)
	assert.Nil(t, unpublished.PublishedAt)
	assert.Equal(t, published.Slug, unpublished.Slug)

	_, err = contents.GetBySlug(published.Slug)
	assert.ErrorIs(t, err, ErrContentNotFound)

	_, err = contents.Unpublish(content.ID)
	assert.ErrorIs(t, err, ErrNotPublished)
}

func TestFeatureGuards(t *testing.T) {
	db := setupTestDB(t)
	submissions := NewSubmissionService(db)
	contents := NewContentService(db, 60)

	submission := seedSubmission(t, submissions, uuid.New())
	forceStatus(t, db, submission.ID, workflow.StatusAccepted)
	content := firstContent(t, contents, submission)

	// Featuring unpublished content is rejected.
	_, err := contents.Feature(content.ID)
	assert.ErrorIs(t, err, ErrNotPublished)

	_, err = contents.Publish(content.ID, nil)
	require.NoError(t, err)

	featured, err := contents.Feature(content.ID)
	require.NoError(t, err)
	assert.True(t, featured.IsFeatured)
	require.NotNil(t, featured.FeaturedAt)

	_, err = contents.Feature(content.ID)
	assert.ErrorIs(t, err, ErrAlreadyFeatured)

	unfeatured, err := contents.Unfeature(content.ID)
	require.NoError(t, err)
	assert.False(t, unfeatured.IsFeatured)

	_, err = contents.Unfeature(content.ID)
	assert.ErrorIs(t, err, ErrNotFeatured)
}

func TestSlugify(t *testing.T) {
	svc := NewContentService(nil, 20)

	tests := []struct {
		in   string
		want string
	}{
		{"Meridian Elegy I", "meridian-elegy-i"},
		{"  Hello,   World!  ", "hello-world"},
		{"Çirçé & the—Sirens", "ir-thesirens"},
		{"a very long title that keeps going", "a-very-long-title-th"},
		{"---", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, svc.Slugify(tt.in), "slugify %q", tt.in)
	}
}

func TestExcerptTruncation(t *testing.T) {
	long := ""
	for i := 0; i < 40; i++ {
		long += "word "
	}
	got := excerpt(long, 50)
	assert.LessOrEqual(t, len([]rune(got)), 50)
	assert.Contains(t, got, "...")

	short := "Just a short body."
	assert.Equal(t, short, excerpt(short, 50))
}
