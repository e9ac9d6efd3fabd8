package actor

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/inkvault/editorial-backend/internal/models"
)

// Actor is the authenticated identity every core operation runs as.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// FromContext extracts the actor from JWT claims in Fiber context locals.
func FromContext(c *fiber.Ctx) (Actor, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return Actor{}, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Actor{}, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return Actor{}, errors.New("missing sub claim")
	}

	id, err := uuid.Parse(sub)
	if err != nil {
		return Actor{}, err
	}

	role, _ := claims["role"].(string)
	if !models.ValidRole(role) {
		role = models.RoleContributor
	}

	return Actor{ID: id, Role: role}, nil
}
