package middleware

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/inkvault/editorial-backend/internal/actor"
	"github.com/inkvault/editorial-backend/internal/config"
	"github.com/inkvault/editorial-backend/internal/dto"
	"github.com/inkvault/editorial-backend/internal/models"
)

// RoleRequired gates a route to the given roles. The token's role claim is
// checked first, then the user row, so a demoted account loses access as
// soon as its DB role changes even with a live token.
func RoleRequired(db *gorm.DB, roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *fiber.Ctx) error {
		act, err := actor.FromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if allowed[act.Role] {
			var user models.User
			if err := db.First(&user, "id = ?", act.ID).Error; err == nil && allowed[user.Role] {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Insufficient role",
		})
	}
}

// AdminRequired additionally honors the ops admin token header.
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	roleCheck := RoleRequired(db, models.RoleAdmin)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
			return c.Next()
		}
		return roleCheck(c)
	}
}
