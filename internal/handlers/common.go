package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/yjkim/hue/internal/models"
	"github.com/yjkim/hue/internal/types"
	"github.com/yjkim/hue/internal/utils"
)

// requestUser extracts the user resolved by the auth middleware.
func requestUser(c *fiber.Ctx) (models.User, error) {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return models.User{}, fmt.Errorf("user not found in context")
	}
	return user, nil
}

// serviceError renders a service failure, honoring typed errors.
func serviceError(c *fiber.Ctx, err error, fallbackContext string) error {
	var ce *types.CustomError
	if errors.As(err, &ce) {
		return utils.ErrorResponse(c, ce.Message, ce.Code, ce.Type)
	}
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, fallbackContext)
}
