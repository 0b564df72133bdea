package handler

import (
	"github.com/gofiber/fiber/v2"

	"kioskdesk/internal/service"
)

// ListKiosks lists kiosks, optionally filtered by status and a search term.
//
// @Summary  List kiosks
// @Tags     kiosks
// @Produce  json
// @Security BearerAuth
// @Param    workspaceID  path   string  true   "workspace id"
// @Param    status       query  string  false  "ACTIVE, INACTIVE or MAINTENANCE"
// @Param    q            query  string  false  "matches name, serial number or location"
// @Param    limit        query  int     false  "page size"  default(10)
// @Param    offset       query  int     false  "offset"     default(0)
// @Success  200  {object}  service.ListResult[model.Kiosk]
// @Router   /workspaces/{workspaceID}/kiosks [get]
func ListKiosks(svc service.KioskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, code := page(c)
		if code != "" {
			return badPage(c, code)
		}
		res, err := svc.List(c.UserContext(), workspaceID(c), service.KioskQuery{
			Status: c.Query("status"),
			Search: c.Query("q"),
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(res)
	}
}

func CreateKiosk(svc service.KioskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.KioskInput
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
		k, err := svc.Create(c.UserContext(), workspaceID(c), in)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(k)
	}
}

func GetKiosk(svc service.KioskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "kioskID")
		if !ok {
			return invalidID(c)
		}
		k, err := svc.Get(c.UserContext(), workspaceID(c), id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(k)
	}
}

func UpdateKiosk(svc service.KioskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "kioskID")
		if !ok {
			return invalidID(c)
		}
		var p service.KioskPatch
		if err := c.BodyParser(&p); err != nil {
			return invalidBody(c)
		}
		k, err := svc.Update(c.UserContext(), workspaceID(c), id, p)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(k)
	}
}

func DeleteKiosk(svc service.KioskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "kioskID")
		if !ok {
			return invalidID(c)
		}
		if err := svc.Delete(c.UserContext(), workspaceID(c), id); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListKioskTickets lists the tickets raised against one kiosk.
func ListKioskTickets(kiosks service.KioskService, tickets service.TicketService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "kioskID")
		if !ok {
			return invalidID(c)
		}
		limit, offset, code := page(c)
		if code != "" {
			return badPage(c, code)
		}
		if _, err := kiosks.Get(c.UserContext(), workspaceID(c), id); err != nil {
			return fail(c, err)
		}
		res, err := tickets.List(c.UserContext(), workspaceID(c), service.TicketQuery{
			KioskID: id,
			Status:  c.Query("status"),
			Limit:   limit,
			Offset:  offset,
		})
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(res)
	}
}
