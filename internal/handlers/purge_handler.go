package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/inkvault/editorial-backend/internal/actor"
	"github.com/inkvault/editorial-backend/internal/dto"
	"github.com/inkvault/editorial-backend/internal/services"
)

type PurgeHandler struct {
	purgeService *services.PurgeService
}

func NewPurgeHandler(purgeService *services.PurgeService) *PurgeHandler {
	return &PurgeHandler{purgeService: purgeService}
}

func (h *PurgeHandler) Preview(c *fiber.Ctx) error {
	var req dto.PurgeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	ids, err := parseIDs(req.SubmissionIDs)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	resp, err := h.purgeService.Preview(ids)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Preview failed",
		})
	}
	return c.JSON(resp)
}

func (h *PurgeHandler) Execute(c *fiber.Ctx) error {
	act, err := actor.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.PurgeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	// A single malformed id rejects the whole call before anything deletes.
	ids, err := parseIDs(req.SubmissionIDs)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	result, err := h.purgeService.Execute(ids, act.ID, req.Confirm)
	if err != nil {
		if errors.Is(err, services.ErrUnconfirmed) || errors.Is(err, services.ErrBatchTooLarge) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Purge failed",
		})
	}
	return c.JSON(result)
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, errors.New("submission_ids is required")
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, errors.New("malformed submission id: " + r)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
