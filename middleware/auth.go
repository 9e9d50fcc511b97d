package middleware

import (
	"events-webapp/auth"
	"events-webapp/model"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
)

const (
	IdentityKey   = "identity"
	SessionCookie = "session"
)

// Authorize protects the admin API. The token comes from the Authorization
// header or, for same-origin page scripts, from the session cookie.
func Authorize(signingKey string) fiber.Handler {
	verify := jwtware.New(jwtware.Config{
		SigningKey:   []byte(signingKey),
		ErrorHandler: jwtError,
		ContextKey:   IdentityKey,
	})

	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			if token := c.Cookies(SessionCookie); token != "" {
				c.Request().Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
			}
		}
		return verify(c)
	}
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

// Identity returns the admin that Authorize let through.
func Identity(c *fiber.Ctx) (auth.Identity, bool) {
	token, ok := c.Locals(IdentityKey).(*jwt.Token)
	if !ok {
		return auth.Identity{}, false
	}
	return auth.IdentityFromToken(token)
}

// RequireAdmin rejects tokens that do not carry the admin role.
func RequireAdmin(c *fiber.Ctx) error {
	identity, ok := Identity(c)
	if !ok || identity.Role != model.RoleAdmin {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"status": "error", "message": "lack of permissions", "data": "only admin can perform this operation"})
	}
	return c.Next()
}
