package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kioskdesk/internal/http/middleware"
	"kioskdesk/internal/service"
)

// pathID returns the named route parameter when it is a UUID.
func pathID(c *fiber.Ctx, name string) (string, bool) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
}

func workspaceID(c *fiber.Ctx) string {
	return c.Params(middleware.WorkspaceIDParam)
}

func actor(c *fiber.Ctx) service.Actor {
	return service.Actor{UserID: middleware.GetUserID(c), Role: middleware.GetWorkspaceRole(c)}
}

// page reads limit and offset. On bad input it returns the error code to send.
func page(c *fiber.Ctx) (limit, offset int, code string) {
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		return 0, 0, "INVALID_LIMIT"
	}
	offset, err = strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		return 0, 0, "INVALID_OFFSET"
	}
	return limit, offset, ""
}

func badPage(c *fiber.Ctx, code string) error {
	if code == "INVALID_LIMIT" {
		return writeError(c, fiber.StatusBadRequest, code, "invalid limit")
	}
	return writeError(c, fiber.StatusBadRequest, code, "invalid offset")
}

func invalidBody(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
}
