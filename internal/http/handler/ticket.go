package handler

import (
	"github.com/gofiber/fiber/v2"

	"kioskdesk/internal/http/middleware"
	"kioskdesk/internal/service"
)

type moveRequest struct {
	Status string `json:"status"`
}

// ListTickets lists tickets with optional status, priority, kiosk and assignee filters.
//
// @Summary  List tickets
// @Tags     tickets
// @Produce  json
// @Security BearerAuth
// @Param    workspaceID  path   string  true   "workspace id"
// @Param    status       query  string  false  "OPEN, IN_PROGRESS, RESOLVED or CLOSED"
// @Param    priority     query  string  false  "LOW, MEDIUM, HIGH or URGENT"
// @Param    kiosk_id     query  string  false  "kiosk id"
// @Param    assignee_id  query  string  false  "assignee user id"
// @Success  200  {object}  service.ListResult[model.Ticket]
// @Router   /workspaces/{workspaceID}/tickets [get]
func ListTickets(svc service.TicketService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, code := page(c)
		if code != "" {
			return badPage(c, code)
		}
		res, err := svc.List(c.UserContext(), workspaceID(c), service.TicketQuery{
			Status:     c.Query("status"),
			Priority:   c.Query("priority"),
			KioskID:    c.Query("kiosk_id"),
			AssigneeID: c.Query("assignee_id"),
			Limit:      limit,
			Offset:     offset,
		})
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(res)
	}
}

func CreateTicket(svc service.TicketService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.TicketInput
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
		t, err := svc.Create(c.UserContext(), workspaceID(c), middleware.GetUserID(c), in)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	}
}

func GetTicket(svc service.TicketService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "ticketID")
		if !ok {
			return invalidID(c)
		}
		t, err := svc.Get(c.UserContext(), workspaceID(c), id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(t)
	}
}

func UpdateTicket(svc service.TicketService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "ticketID")
		if !ok {
			return invalidID(c)
		}
		var p service.TicketPatch
		if err := c.BodyParser(&p); err != nil {
			return invalidBody(c)
		}
		t, err := svc.Update(c.UserContext(), workspaceID(c), id, p)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(t)
	}
}

func DeleteTicket(svc service.TicketService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "ticketID")
		if !ok {
			return invalidID(c)
		}
		if err := svc.Delete(c.UserContext(), workspaceID(c), id); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// MoveTicket changes only the status; the board calls it on drop.
//
// @Summary  Move a ticket to another board column
// @Tags     board
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    workspaceID  path  string  true  "workspace id"
// @Param    ticketID     path  string  true  "ticket id"
// @Success  200  {object}  model.Ticket
// @Failure  400  {object}  errorPayload
// @Router   /workspaces/{workspaceID}/tickets/{ticketID}/status [patch]
func MoveTicket(svc service.TicketService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "ticketID")
		if !ok {
			return invalidID(c)
		}
		var in moveRequest
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
		t, err := svc.Move(c.UserContext(), workspaceID(c), id, in.Status)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(t)
	}
}

// GetBoard returns the kanban columns.
//
// @Summary  Kanban board
// @Tags     board
// @Produce  json
// @Security BearerAuth
// @Param    workspaceID  path  string  true  "workspace id"
// @Success  200  {object}  service.Board
// @Router   /workspaces/{workspaceID}/board [get]
func GetBoard(svc service.TicketService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		b, err := svc.Board(c.UserContext(), workspaceID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(b)
	}
}
