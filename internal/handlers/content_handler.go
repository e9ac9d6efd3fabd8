package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/inkvault/editorial-backend/internal/dto"
	"github.com/inkvault/editorial-backend/internal/models"
	"github.com/inkvault/editorial-backend/internal/services"
)

type ContentHandler struct {
	contentService *services.ContentService
}

func NewContentHandler(contentService *services.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// ListPublished is the public read surface.
func (h *ContentHandler) ListPublished(c *fiber.Ctx) error {
	page, limit := pagination(c)
	featuredOnly := c.Query("featured") == "true"

	contents, total, err := h.contentService.ListPublished(page, limit, featuredOnly)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list contents",
		})
	}

	return c.JSON(dto.PaginatedResponse{Data: contents, Total: total, Page: page, Limit: limit})
}

func (h *ContentHandler) GetBySlug(c *fiber.Ctx) error {
	content, err := h.contentService.GetBySlug(c.Params("slug"))
	if err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load content",
		})
	}

	// Best effort; a failed counter bump never blocks the read.
	_ = h.contentService.IncrementViews(content.ID)

	return c.JSON(content)
}

func (h *ContentHandler) Publish(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid content id",
		})
	}

	var req dto.PublishRequest
	_ = c.BodyParser(&req)

	content, err := h.contentService.Publish(id, &req)
	if err != nil {
		return contentError(c, err)
	}

	return c.JSON(content)
}

func (h *ContentHandler) Unpublish(c *fiber.Ctx) error {
	return h.flagAction(c, h.contentService.Unpublish)
}

func (h *ContentHandler) Feature(c *fiber.Ctx) error {
	return h.flagAction(c, h.contentService.Feature)
}

func (h *ContentHandler) Unfeature(c *fiber.Ctx) error {
	return h.flagAction(c, h.contentService.Unfeature)
}

func (h *ContentHandler) flagAction(c *fiber.Ctx, action func(uuid.UUID) (*models.Content, error)) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid content id",
		})
	}

	content, err := action(id)
	if err != nil {
		return contentError(c, err)
	}

	return c.JSON(content)
}

func contentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrContentNotFound),
		errors.Is(err, services.ErrSubmissionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrSubmissionNotAccepted),
		errors.Is(err, services.ErrAlreadyPublished),
		errors.Is(err, services.ErrNotPublished),
		errors.Is(err, services.ErrAlreadyFeatured),
		errors.Is(err, services.ErrNotFeatured):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrSlugExhausted):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Content operation failed",
	})
}
