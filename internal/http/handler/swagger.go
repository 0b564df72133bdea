package handler

import (
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"kioskdesk/docs"
)

// swaggerMu guards docs.SwaggerInfo, which the swagger handler reads while rendering.
var swaggerMu sync.Mutex

// SwaggerUI serves the API docs with the host and scheme the caller used.
func SwaggerUI() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		swaggerMu.Lock()
		defer swaggerMu.Unlock()
		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	}
}
