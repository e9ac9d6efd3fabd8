package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/inkvault/editorial-backend/internal/config"
	"github.com/inkvault/editorial-backend/internal/handlers"
	"github.com/inkvault/editorial-backend/internal/middleware"
	"github.com/inkvault/editorial-backend/internal/models"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	submissionHandler *handlers.SubmissionHandler,
	reviewHandler *handlers.ReviewHandler,
	contentHandler *handlers.ContentHandler,
	tagHandler *handlers.TagHandler,
	purgeHandler *handlers.PurgeHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Public reads
	api.Get("/contents", contentHandler.ListPublished)
	api.Get("/contents/slug/:slug", contentHandler.GetBySlug)
	api.Get("/tags", tagHandler.List)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Contributor surface (any authenticated role) - apply middleware to
	// individual routes so it cannot leak onto the public reads
	api.Post("/submissions", middleware.JWTProtected(cfg), submissionHandler.Create)
	api.Get("/submissions/mine", middleware.JWTProtected(cfg), submissionHandler.ListMine)
	api.Get("/submissions/:id", middleware.JWTProtected(cfg), submissionHandler.Get)
	api.Post("/submissions/:id/submit", middleware.JWTProtected(cfg), submissionHandler.Submit)
	api.Post("/submissions/:id/resubmit", middleware.JWTProtected(cfg), submissionHandler.Resubmit)

	// Review surface (reviewer or admin)
	review := api.Group("/review",
		middleware.JWTProtected(cfg),
		middleware.RoleRequired(db, models.RoleReviewer, models.RoleAdmin),
	)
	review.Get("/queue", submissionHandler.Queue)
	review.Get("/submissions/:id/reviews", reviewHandler.ListForSubmission)
	review.Post("/submissions/:id/status", submissionHandler.ChangeStatus)
	review.Post("/submissions/:id/action", reviewHandler.Act)
	review.Post("/submissions/:id/approve", reviewHandler.Approve)
	review.Post("/submissions/:id/reject", reviewHandler.Reject)
	review.Post("/submissions/:id/revision", reviewHandler.RequestRevision)
	review.Post("/submissions/:id/shortlist", reviewHandler.Shortlist)

	// Admin surface
	admin := api.Group("/admin",
		middleware.JWTProtected(cfg),
		middleware.AdminRequired(db, cfg),
	)
	admin.Post("/contents/:id/publish", contentHandler.Publish)
	admin.Post("/contents/:id/unpublish", contentHandler.Unpublish)
	admin.Post("/contents/:id/feature", contentHandler.Feature)
	admin.Post("/contents/:id/unfeature", contentHandler.Unfeature)
	admin.Post("/tags/backfill", tagHandler.Backfill)
	admin.Post("/purge/preview", purgeHandler.Preview)
	admin.Post("/purge/execute", purgeHandler.Execute)
	admin.Post("/purge/mark-eligible", submissionHandler.MarkPurgeEligible)
}
