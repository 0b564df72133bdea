package handler

import (
	"github.com/gofiber/fiber/v2"

	"kioskdesk/internal/http/middleware"
	"kioskdesk/internal/service"
)

type workspaceRequest struct {
	Name string `json:"name"`
}

type memberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ListWorkspaces returns the caller's workspaces with their role in each.
//
// @Summary  List my workspaces
// @Tags     workspaces
// @Produce  json
// @Security BearerAuth
// @Success  200  {object}  map[string]any
// @Router   /workspaces [get]
func ListWorkspaces(svc service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, err := svc.ListForUser(c.UserContext(), middleware.GetUserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"data": ws, "total": len(ws)})
	}
}

// CreateWorkspace creates a workspace with the caller as its first ADMIN.
//
// @Summary  Create a workspace
// @Tags     workspaces
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Success  201  {object}  model.Workspace
// @Failure  400  {object}  errorPayload
// @Router   /workspaces [post]
func CreateWorkspace(svc service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in workspaceRequest
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
		ws, err := svc.Create(c.UserContext(), middleware.GetUserID(c), in.Name)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(ws)
	}
}

func GetWorkspace(svc service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, err := svc.Get(c.UserContext(), workspaceID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"id":         ws.ID,
			"name":       ws.Name,
			"created_by": ws.CreatedBy,
			"created_at": ws.CreatedAt,
			"updated_at": ws.UpdatedAt,
			"role":       middleware.GetWorkspaceRole(c),
		})
	}
}

func RenameWorkspace(svc service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in workspaceRequest
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
		ws, err := svc.Rename(c.UserContext(), workspaceID(c), in.Name)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(ws)
	}
}

func DeleteWorkspace(svc service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), workspaceID(c)); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func ListMembers(svc service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ms, err := svc.ListMembers(c.UserContext(), workspaceID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"data": ms, "total": len(ms)})
	}
}

// AddMember adds an existing account to the workspace by email.
//
// @Summary  Add a member
// @Tags     members
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    workspaceID  path  string  true  "workspace id"
// @Success  201  {object}  model.WorkspaceUser
// @Failure  404  {object}  errorPayload
// @Failure  409  {object}  errorPayload
// @Router   /workspaces/{workspaceID}/members [post]
func AddMember(svc service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in memberRequest
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
		m, err := svc.AddMember(c.UserContext(), workspaceID(c), in.Email, in.Role)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(m)
	}
}

func UpdateMember(svc service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := pathID(c, "userID")
		if !ok {
			return invalidID(c)
		}
		var in memberRequest
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
		m, err := svc.UpdateMemberRole(c.UserContext(), workspaceID(c), userID, in.Role)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(m)
	}
}

func RemoveMember(svc service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := pathID(c, "userID")
		if !ok {
			return invalidID(c)
		}
		if err := svc.RemoveMember(c.UserContext(), workspaceID(c), userID); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// LeaveWorkspace removes the caller's own membership.
func LeaveWorkspace(svc service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Leave(c.UserContext(), workspaceID(c), middleware.GetUserID(c)); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
