package middleware

import (
	"strings"

	"studygen/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	// SessionIDKey is the fiber.Ctx locals key for the validated session ID.
	SessionIDKey = "sessionID"
)

// SessionGuard protects session routes: the request must carry a valid
// session token whose subject matches the :id path parameter, so one tab
// cannot read or mutate another tab's session.
func SessionGuard(tokens service.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "MISSING_AUTH_HEADER",
				Message: "Authorization header is missing",
				Status:  fiber.StatusUnauthorized,
			})
		}

		if !strings.HasPrefix(authHeader, BearerSchema) {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_AUTH_SCHEME",
				Message: "Authorization scheme is not Bearer",
				Status:  fiber.StatusUnauthorized,
			})
		}

		tokenString := strings.TrimPrefix(authHeader, BearerSchema)
		sessionID, err := tokens.ValidateSessionToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN",
				Message: err.Error(),
				Status:  fiber.StatusUnauthorized,
			})
		}

		if pathID := c.Params("id"); pathID != "" && pathID != sessionID {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Code:    "SESSION_MISMATCH",
				Message: "Token does not grant access to this session",
				Status:  fiber.StatusForbidden,
			})
		}

		c.Locals(SessionIDKey, sessionID)
		return c.Next()
	}
}
