package middleware

import (
	"errors"
	"net/http"
	"strings"

	"cashcraft-backend/internal/auth"
	"cashcraft-backend/internal/domain/user"

	"github.com/labstack/echo/v4"
)

const actorKey = "actor"

// Actor returns the authenticated user placed on the context by
// RequireAuth, or nil when the request is anonymous.
func Actor(c echo.Context) *user.User {
	if u, ok := c.Get(actorKey).(*user.User); ok {
		return u
	}
	return nil
}

func bearerToken(c echo.Context) string {
	raw := c.Request().Header.Get(echo.HeaderAuthorization)
	token, ok := strings.CutPrefix(raw, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAuth parses the bearer token and resolves the session slot.
// A valid token whose slot has been cleared (logout) is still a 401.
func RequireAuth(jwt *auth.JWTer, store user.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			claims, err := jwt.Parse(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}
			usr, err := store.Get(c.Request().Context(), claims.UID)
			if err != nil {
				if errors.Is(err, user.ErrNoSession) {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "session expired"})
				}
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "session store unavailable"})
			}
			c.Set(actorKey, usr)
			return next(c)
		}
	}
}

// OptionalAuth resolves the actor when a valid token is present and
// stays silent otherwise. Used by the scoring preview, which enriches
// its answer with the caller's credit history when it has one.
func OptionalAuth(jwt *auth.JWTer, store user.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return next(c)
			}
			claims, err := jwt.Parse(token)
			if err != nil {
				return next(c)
			}
			if usr, err := store.Get(c.Request().Context(), claims.UID); err == nil {
				c.Set(actorKey, usr)
			}
			return next(c)
		}
	}
}

// RequireAdmin runs after RequireAuth on the admin group.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := Actor(c)
			if actor == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			if !actor.IsAdmin() {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "admin role required"})
			}
			return next(c)
		}
	}
}
