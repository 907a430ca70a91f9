package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"propapi/internal/auth"
)

// PrincipalLocalKey is the key under which the authenticated auth.Principal is stored.
const PrincipalLocalKey = "principal"

// TokenParser verifies a bearer token.
type TokenParser interface {
	Parse(token string) (auth.Principal, error)
}

// Auth requires a valid "Authorization: Bearer <token>" header. The principal is
// stored in locals and in the request's user context.
func Auth(parser TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return unauthorized(c, "missing bearer token")
		}

		p, err := parser.Parse(strings.TrimSpace(token))
		if err != nil {
			return unauthorized(c, "invalid or expired token")
		}

		c.Locals(PrincipalLocalKey, p)
		c.SetUserContext(auth.WithPrincipal(c.UserContext(), p))
		return c.Next()
	}
}

// PrincipalFrom returns the principal stored by Auth.
func PrincipalFrom(c *fiber.Ctx) (auth.Principal, bool) {
	p, ok := c.Locals(PrincipalLocalKey).(auth.Principal)
	return p, ok
}

func unauthorized(c *fiber.Ctx, msg string) error {
	rid, _ := c.Locals(RequestIDLocalKey).(string)
	c.Set(fiber.HeaderWWWAuthenticate, `Bearer realm="propapi"`)
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"request_id": rid,
		"error": fiber.Map{
			"code":    "UNAUTHORIZED",
			"message": msg,
		},
	})
}
