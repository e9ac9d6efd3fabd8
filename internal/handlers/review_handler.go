package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/inkvault/editorial-backend/internal/actor"
	"github.com/inkvault/editorial-backend/internal/dto"
	"github.com/inkvault/editorial-backend/internal/models"
	"github.com/inkvault/editorial-backend/internal/services"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// Act handles the generic review-action endpoint. The single-purpose
// decision routes (approve, reject, revision, shortlist) funnel in here with
// a fixed status so their side effects cannot drift apart.
func (h *ReviewHandler) Act(c *fiber.Ctx) error {
	var req dto.ReviewActionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	return h.act(c, req.Status, &req)
}

func (h *ReviewHandler) Approve(c *fiber.Ctx) error {
	return h.fixedDecision(c, "accepted")
}

func (h *ReviewHandler) Reject(c *fiber.Ctx) error {
	return h.fixedDecision(c, "rejected")
}

func (h *ReviewHandler) RequestRevision(c *fiber.Ctx) error {
	return h.fixedDecision(c, "needs_revision")
}

func (h *ReviewHandler) Shortlist(c *fiber.Ctx) error {
	return h.fixedDecision(c, "shortlisted")
}

func (h *ReviewHandler) fixedDecision(c *fiber.Ctx, status string) error {
	var req dto.ReviewActionRequest
	_ = c.BodyParser(&req)
	return h.act(c, status, &req)
}

func (h *ReviewHandler) act(c *fiber.Ctx, status string, req *dto.ReviewActionRequest) error {
	act, err := actor.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	submissionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid submission id",
		})
	}
	if !models.ValidReviewStatus(status) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Unknown decision status",
		})
	}

	review, submission, err := h.reviewService.Act(submissionID, act, status, req.Notes, req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSubmissionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrNotReviewable),
			errors.Is(err, services.ErrInvalidTransition):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrMissingNotes),
			errors.Is(err, services.ErrInvalidRating),
			errors.Is(err, services.ErrInvalidReviewStatus):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to record review",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"review":     review,
		"submission": submission,
	})
}

func (h *ReviewHandler) ListForSubmission(c *fiber.Ctx) error {
	submissionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid submission id",
		})
	}

	reviews, err := h.reviewService.ListForSubmission(submissionID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list reviews",
		})
	}

	return c.JSON(reviews)
}
