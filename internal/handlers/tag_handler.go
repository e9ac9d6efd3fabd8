package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/inkvault/editorial-backend/internal/dto"
	"github.com/inkvault/editorial-backend/internal/services"
)

type TagHandler struct {
	tagService *services.TagService
}

func NewTagHandler(tagService *services.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

func (h *TagHandler) List(c *fiber.Ctx) error {
	tags, err := h.tagService.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list tags",
		})
	}
	return c.JSON(tags)
}

// Backfill migrates legacy raw tags to canonical tag ids. Safe to re-run;
// already-migrated rows are skipped.
func (h *TagHandler) Backfill(c *fiber.Ctx) error {
	result, err := h.tagService.Backfill(c.Context())
	if err != nil {
		// Partial progress is already committed; report it with the error.
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
			"partial": result,
		})
	}
	return c.JSON(result)
}
