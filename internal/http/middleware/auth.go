package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kioskdesk/internal/auth"
	"kioskdesk/internal/logging"
	"kioskdesk/internal/model"
	"kioskdesk/internal/service"
)

const (
	// SessionCookie carries the session token for browser clients.
	SessionCookie = "kioskdesk_session"

	UserIDLocalKey        = "user_id"
	WorkspaceRoleLocalKey = "workspace_role"
	// WorkspaceIDParam is the route parameter RequireWorkspaceRole reads.
	WorkspaceIDParam = "workspaceID"
)

// TokenParser verifies a session token.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// MembershipResolver looks up a user's role in a workspace.
type MembershipResolver interface {
	Membership(ctx context.Context, workspaceID, userID string) (model.Role, error)
}

// deny writes the same envelope the handlers use.
func deny(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"request_id": GetRequestID(c),
		"error":      fiber.Map{"code": code, "message": message},
	})
}

func sessionToken(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return c.Cookies(SessionCookie)
}

// RequireAuth rejects requests without a valid session token with 401 and
// stores the user id under UserIDLocalKey.
func RequireAuth(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := sessionToken(c)
		if raw == "" {
			return deny(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			return deny(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "invalid or expired session")
		}

		c.Locals(UserIDLocalKey, claims.Subject)
		c.SetUserContext(logging.With(c.UserContext(), "user_id", claims.Subject))
		return c.Next()
	}
}

// RequireWorkspaceRole admits members of :workspaceID whose role is at least
// min. Unknown workspaces and non-members get the same 404.
func RequireWorkspaceRole(members MembershipResolver, min model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		wsID := c.Params(WorkspaceIDParam)
		if _, err := uuid.Parse(wsID); err != nil {
			return deny(c, fiber.StatusNotFound, "WORKSPACE_NOT_FOUND", "workspace not found")
		}

		role, err := members.Membership(c.UserContext(), wsID, GetUserID(c))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return deny(c, fiber.StatusNotFound, "WORKSPACE_NOT_FOUND", "workspace not found")
			}
			logging.Error(c.UserContext(), "membership lookup failed", err, "workspace_id", wsID)
			return deny(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		if !role.AtLeast(min) {
			return deny(c, fiber.StatusForbidden, "FORBIDDEN", "requires role "+string(min))
		}

		c.Locals(WorkspaceRoleLocalKey, role)
		return c.Next()
	}
}

// RequireRole checks the role already resolved by RequireWorkspaceRole.
func RequireRole(min model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !GetWorkspaceRole(c).AtLeast(min) {
			return deny(c, fiber.StatusForbidden, "FORBIDDEN", "requires role "+string(min))
		}
		return c.Next()
	}
}

// GetUserID returns the id stored by RequireAuth, or "".
func GetUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDLocalKey).(string)
	return id
}

// GetWorkspaceRole returns the role stored by RequireWorkspaceRole, or "".
func GetWorkspaceRole(c *fiber.Ctx) model.Role {
	r, _ := c.Locals(WorkspaceRoleLocalKey).(model.Role)
	return r
}
