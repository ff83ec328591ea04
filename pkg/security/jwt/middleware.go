package jwt

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/webshop/pkg/auth"
)

// LocalUserID is the c.Locals key holding the verified token subject.
const LocalUserID = "userId"

// Verifier is the part of an issuer the middleware needs.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// NewAuthMiddleware returns a Fiber middleware that validates Bearer JWT (HS256).
// On success sets user id (subject) into c.Locals("userId"); failures are
// returned as 401 *fiber.Error for the app's error handler to render.
func NewAuthMiddleware(v Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing Authorization header.")
		}
		// Support both "Bearer <token>" and "<token>" (no prefix).
		tokenStr := strings.TrimSpace(authHeader)
		if parts := strings.SplitN(tokenStr, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			tokenStr = strings.TrimSpace(parts[1])
		}
		if tokenStr == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Empty token.")
		}

		subject, err := v.Verify(c.UserContext(), tokenStr)
		switch {
		case err == nil:
		case errors.Is(err, auth.ErrExpiredToken):
			return fiber.NewError(fiber.StatusUnauthorized, "Token expired.")
		default:
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token.")
		}
		c.Locals(LocalUserID, subject)
		return c.Next()
	}
}
