package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Fernandol1z6/site-do-estudio/internal/domain/entities"
)

// sessionMiddleware gates the admin surface. It verifies the bearer token
// signature and re-checks the stored session on every request: the session
// must not be expired and the referenced user must still be active.
func (s *Server) sessionMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			session, err := s.session.ValidateToken(c.Request().Context(), tokenString)
			if err != nil {
				s.logger.LogSecurityEvent("invalid_session", "", c.RealIP(), map[string]interface{}{
					"error": err.Error(),
				})
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired session")
			}

			c.Set("session", session)
			c.Set("username", session.Username)

			return next(c)
		}
	}
}

// sessionFromContext extracts the validated session from the request
// context.
func sessionFromContext(c echo.Context) *entities.Session {
	session, ok := c.Get("session").(*entities.Session)
	if !ok {
		return nil
	}
	return session
}
