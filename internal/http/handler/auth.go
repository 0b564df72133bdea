package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"kioskdesk/internal/http/middleware"
	"kioskdesk/internal/service"
)

// CookieOptions controls the session cookie set on login.
type CookieOptions struct {
	Secure bool
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account.
//
// @Summary  Register an account
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body  body      service.RegisterInput  true  "account"
// @Success  201   {object}  model.User
// @Failure  400   {object}  errorPayload
// @Failure  409   {object}  errorPayload
// @Router   /auth/register [post]
func Register(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.RegisterInput
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
		u, err := svc.Register(c.UserContext(), in)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	}
}

// Login issues a session token and sets it as an HTTP-only cookie.
//
// @Summary  Log in
// @Tags     auth
// @Accept   json
// @Produce  json
// @Success  200  {object}  service.Session
// @Failure  401  {object}  errorPayload
// @Router   /auth/login [post]
func Login(svc service.AuthService, opts CookieOptions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in loginRequest
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
		sess, err := svc.Login(c.UserContext(), in.Email, in.Password)
		if err != nil {
			return fail(c, err)
		}
		c.Cookie(&fiber.Cookie{
			Name:     middleware.SessionCookie,
			Value:    sess.Token,
			Path:     "/",
			Expires:  sess.ExpiresAt,
			HTTPOnly: true,
			Secure:   opts.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.JSON(sess)
	}
}

// Logout clears the session cookie. Tokens are stateless, so bearer clients just drop theirs.
func Logout(opts CookieOptions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Cookie(&fiber.Cookie{
			Name:     middleware.SessionCookie,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HTTPOnly: true,
			Secure:   opts.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Me returns the signed-in user.
func Me(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := svc.Me(c.UserContext(), middleware.GetUserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(u)
	}
}
