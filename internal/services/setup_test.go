package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/inkvault/editorial-backend/internal/dto"
	"github.com/inkvault/editorial-backend/internal/models"
	"github.com/inkvault/editorial-backend/internal/workflow"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Submission{},
		&models.Content{},
		&models.Review{},
		&models.Tag{},
		&models.SystemLog{},
	))
	return db
}

// seedSubmission creates a submission with one content item and returns it.
func seedSubmission(t *testing.T, svc *SubmissionService, userID uuid.UUID, tags ...string) *models.Submission {
	t.Helper()

	submission, err := svc.Create(userID, &dto.CreateSubmissionRequest{
		Title:       "Meridian Elegies",
		Description: "A short cycle of poems",
		Type:        "poem",
		Tags:        tags,
		Contents: []dto.ContentItemRequest{
			{Title: "Meridian Elegy I", Body: "The harbor light goes out at dusk.", Tags: tags},
		},
	})
	require.NoError(t, err)
	return submission
}

// forceStatus moves a submission to the given status directly, bypassing the
// state machine, for arranging test preconditions.
func forceStatus(t *testing.T, db *gorm.DB, id uuid.UUID, status workflow.Status) {
	t.Helper()
	require.NoError(t, db.Model(&models.Submission{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error)
}

// backdate rewinds a submission's updated_at for staleness tests.
func backdate(t *testing.T, db *gorm.DB, id uuid.UUID, age time.Duration) {
	t.Helper()
	require.NoError(t, db.Model(&models.Submission{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", time.Now().UTC().Add(-age)).Error)
}
