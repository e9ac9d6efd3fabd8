package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/inkvault/editorial-backend/internal/actor"
	"github.com/inkvault/editorial-backend/internal/dto"
	"github.com/inkvault/editorial-backend/internal/models"
	"github.com/inkvault/editorial-backend/internal/services"
	"github.com/inkvault/editorial-backend/internal/workflow"
)

type SubmissionHandler struct {
	submissionService *services.SubmissionService
	contentService    *services.ContentService
}

func NewSubmissionHandler(submissionService *services.SubmissionService, contentService *services.ContentService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		contentService:    contentService,
	}
}

func (h *SubmissionHandler) Create(c *fiber.Ctx) error {
	act, err := actor.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	submission, err := h.submissionService.Create(act.ID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(submission)
}

func (h *SubmissionHandler) Get(c *fiber.Ctx) error {
	act, err := actor.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid submission id",
		})
	}

	submission, err := h.submissionService.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrSubmissionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load submission",
		})
	}

	// Contributors only see their own submissions.
	if act.Role == models.RoleContributor && submission.UserID != act.ID {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Not your submission",
		})
	}

	contents, err := h.contentService.ListForSubmission(submission.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load submission contents",
		})
	}

	return c.JSON(fiber.Map{"submission": submission, "contents": contents})
}

func (h *SubmissionHandler) ListMine(c *fiber.Ctx) error {
	act, err := actor.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	page, limit := pagination(c)
	submissions, total, err := h.submissionService.ListByUser(act.ID, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list submissions",
		})
	}

	return c.JSON(dto.PaginatedResponse{Data: submissions, Total: total, Page: page, Limit: limit})
}

// Queue lists submissions awaiting moderation, oldest first.
func (h *SubmissionHandler) Queue(c *fiber.Ctx) error {
	status := workflow.Status(c.Query("status", string(workflow.StatusPendingReview)))

	page, limit := pagination(c)
	submissions, total, err := h.submissionService.ListByStatus(status, page, limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list submissions",
		})
	}

	return c.JSON(dto.PaginatedResponse{Data: submissions, Total: total, Page: page, Limit: limit})
}

// ChangeStatus is the generic transition endpoint for reviewers and admins.
func (h *SubmissionHandler) ChangeStatus(c *fiber.Ctx) error {
	act, err := actor.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid submission id",
		})
	}

	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if !workflow.IsValid(workflow.Status(req.Status)) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Unknown status",
		})
	}

	submission, err := h.submissionService.TransitionByID(id, workflow.Status(req.Status), act, req.Notes)
	if err != nil {
		return transitionError(c, err)
	}

	return c.JSON(submission)
}

// Submit moves a contributor's draft into the review queue.
func (h *SubmissionHandler) Submit(c *fiber.Ctx) error {
	return h.ownerTransition(c, workflow.StatusPendingReview)
}

// Resubmit lets a contributor send a needs_revision or rejected submission
// back into the queue.
func (h *SubmissionHandler) Resubmit(c *fiber.Ctx) error {
	return h.ownerTransition(c, workflow.StatusResubmitted)
}

// ownerTransition applies a fixed status change on behalf of the submission's
// owner. The workflow table still gates the edge.
func (h *SubmissionHandler) ownerTransition(c *fiber.Ctx, target workflow.Status) error {
	act, err := actor.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid submission id",
		})
	}

	submission, err := h.submissionService.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrSubmissionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load submission",
		})
	}
	if submission.UserID != act.ID {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Not your submission",
		})
	}

	var req dto.ChangeStatusRequest
	_ = c.BodyParser(&req)

	if err := h.submissionService.ChangeStatus(submission, target, act, req.Notes); err != nil {
		return transitionError(c, err)
	}

	return c.JSON(submission)
}

// MarkPurgeEligible flags stale rejected submissions for the purge pipeline.
func (h *SubmissionHandler) MarkPurgeEligible(c *fiber.Ctx) error {
	var req dto.MarkPurgeEligibleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.OlderThanDays <= 0 {
		req.OlderThanDays = 90
	}

	flagged, err := h.submissionService.MarkPurgeEligible(time.Duration(req.OlderThanDays) * 24 * time.Hour)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to flag submissions",
		})
	}

	return c.JSON(dto.MarkPurgeEligibleResponse{Flagged: flagged})
}

func transitionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrSubmissionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Failed to change status",
	})
}

func pagination(c *fiber.Ctx) (int, int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
