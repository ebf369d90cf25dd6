package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/courtside/stringdesk/internal/model"
)

// ContextKey is the fiber.Ctx locals key holding the authenticated
// user for the duration of a request.
const ContextKey = "auth_user"

const bearerScheme = "Bearer"

// Protected returns a middleware that requires a valid access token
// and stashes the resolved account in the request locals. Every
// failure mode maps to the same 401 surface; the rich error carries
// the precise text code for clients that care.
func Protected(a *Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := FromAuthHeader(c)
		if err != nil {
			return err
		}

		user, err := a.Verify(c.UserContext(), token)
		if err != nil {
			return err
		}

		c.Locals(ContextKey, user)

		return c.Next()
	}
}

// RequireAdmin returns a middleware that rejects non-admin principals.
// It must run after Protected.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := PrincipalFromCtx(c)
		if user == nil {
			return ErrMissingBearer
		}

		if user.Role != model.RoleAdmin {
			return ErrAdminRequired
		}

		return c.Next()
	}
}

// PrincipalFromCtx returns the authenticated user stored by Protected,
// or nil when the request did not pass through the gate.
func PrincipalFromCtx(c *fiber.Ctx) *model.User {
	user, ok := c.Locals(ContextKey).(*model.User)
	if !ok {
		return nil
	}
	return user
}

// FromAuthHeader extracts the raw token from a "Bearer <token>"
// authorization header.
func FromAuthHeader(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", ErrMissingBearer
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], bearerScheme) || parts[1] == "" {
		return "", ErrMissingBearer
	}

	return parts[1], nil
}
