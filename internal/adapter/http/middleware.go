package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"nexus-intake/internal/domain/identity"
)

// Session headers. Identity provisioning is an external collaborator; the
// gateway in front of this service injects the authenticated actor.
const (
	HeaderActorID   = "Ax-Actor-Id"
	HeaderActorName = "Ax-Actor-Name"
	HeaderActorRole = "Ax-Actor-Role"
)

const actorKey = "actor"

// SessionMiddleware resolves the acting user from headers and rejects
// unauthenticated requests.
func SessionMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := strings.TrimSpace(req.Header.Get(HeaderActorID))
			name := strings.TrimSpace(req.Header.Get(HeaderActorName))
			role := identity.Role(strings.TrimSpace(req.Header.Get(HeaderActorRole)))

			if id == "" || name == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing session headers"})
			}
			if !role.Valid() {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid actor role"})
			}

			c.Set(actorKey, identity.User{ID: id, Name: name, Role: role})
			return next(c)
		}
	}
}

func actor(c echo.Context) identity.User {
	u, _ := c.Get(actorKey).(identity.User)
	return u
}
