package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/inkvault/editorial-backend/internal/dto"
	"github.com/inkvault/editorial-backend/internal/models"
	"github.com/inkvault/editorial-backend/internal/services"
	"github.com/inkvault/editorial-backend/internal/workflow"
)

// setupSubmissionApp wires the submission routes onto a bare Fiber app with an
// in-memory store. Authentication is stubbed: the X-Test-User header becomes
// the JWT subject.
func setupSubmissionApp(t *testing.T) (*fiber.App, *services.SubmissionService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Submission{}, &models.Content{}))

	submissionService := services.NewSubmissionService(db)
	contentService := services.NewContentService(db, 60)
	handler := NewSubmissionHandler(submissionService, contentService)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{
			"sub":  c.Get("X-Test-User"),
			"role": models.RoleContributor,
		}})
		return c.Next()
	})
	app.Post("/submissions/:id/submit", handler.Submit)
	app.Post("/submissions/:id/resubmit", handler.Resubmit)

	return app, submissionService
}

func TestSubmitMovesDraftIntoQueue(t *testing.T) {
	app, svc := setupSubmissionApp(t)
	owner := uuid.New()

	draft, err := svc.Create(owner, &dto.CreateSubmissionRequest{
		Title:    "Unfinished",
		Type:     "opinion",
		Draft:    true,
		Contents: []dto.ContentItemRequest{{Title: "Sketch", Body: "Rough cut."}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/submissions/"+draft.ID.String()+"/submit", nil)
	req.Header.Set("X-Test-User", owner.String())

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status workflow.Status `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, workflow.StatusPendingReview, body.Status)

	stored, err := svc.Get(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusPendingReview, stored.Status)
	assert.Len(t, stored.HistoryEntries(), 2)
}

func TestSubmitRejectsNonOwner(t *testing.T) {
	app, svc := setupSubmissionApp(t)

	draft, err := svc.Create(uuid.New(), &dto.CreateSubmissionRequest{
		Title:    "Unfinished",
		Type:     "opinion",
		Draft:    true,
		Contents: []dto.ContentItemRequest{{Title: "Sketch", Body: "Rough cut."}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/submissions/"+draft.ID.String()+"/submit", nil)
	req.Header.Set("X-Test-User", uuid.New().String())

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	stored, err := svc.Get(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusDraft, stored.Status)
}

func TestSubmitAlreadyQueuedConflicts(t *testing.T) {
	app, svc := setupSubmissionApp(t)
	owner := uuid.New()

	submission, err := svc.Create(owner, &dto.CreateSubmissionRequest{
		Title:    "Queued",
		Type:     "opinion",
		Contents: []dto.ContentItemRequest{{Title: "Piece", Body: "Done."}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/submissions/"+submission.ID.String()+"/submit", nil)
	req.Header.Set("X-Test-User", owner.String())

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
