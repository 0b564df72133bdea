package handler

import (
	"github.com/gofiber/fiber/v2"

	"kioskdesk/internal/http/middleware"
	"kioskdesk/internal/service"
)

type commentRequest struct {
	Body string `json:"body"`
}

func ListComments(svc service.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ticketID, ok := pathID(c, "ticketID")
		if !ok {
			return invalidID(c)
		}
		cs, err := svc.List(c.UserContext(), workspaceID(c), ticketID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"data": cs, "total": len(cs)})
	}
}

func CreateComment(svc service.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ticketID, ok := pathID(c, "ticketID")
		if !ok {
			return invalidID(c)
		}
		var in commentRequest
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
		cm, err := svc.Create(c.UserContext(), workspaceID(c), ticketID, middleware.GetUserID(c), in.Body)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(cm)
	}
}

// DeleteComment is open to members; the service restricts it to the author or an ADMIN.
func DeleteComment(svc service.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ticketID, ok := pathID(c, "ticketID")
		if !ok {
			return invalidID(c)
		}
		commentID, ok := pathID(c, "commentID")
		if !ok {
			return invalidID(c)
		}
		if err := svc.Delete(c.UserContext(), workspaceID(c), ticketID, commentID, actor(c)); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
