package middleware

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/yjkim/hue/internal/models"
	"github.com/yjkim/hue/internal/types"
	"gorm.io/gorm"
)

// UserHeader is set by the fronting auth proxy after it authenticates the
// request. The proxy and its IdP are external; this service only resolves the
// asserted username to a local user row.
const UserHeader = "X-Hue-User"

// AuthUser resolves the request's user and stores it in c.Locals("user").
// Requests without a resolvable user are rejected.
func AuthUser(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username := c.Get(UserHeader)
		if username == "" {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: fmt.Sprintf("Request header %q not found", UserHeader),
				Type:    "scripts.authorization.user",
			}
		}

		var user models.User
		if err := db.Where("username = ?", username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &types.CustomError{
					Code:    fiber.StatusForbidden,
					Message: fmt.Sprintf("Unknown user %q", username),
					Type:    "scripts.authorization.user",
				}
			}
			return err
		}

		c.Locals("user", user)
		return c.Next()
	}
}
