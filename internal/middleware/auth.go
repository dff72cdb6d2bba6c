package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const userKey = "user"

// AuthorizationRequired verifies HS256 bearer tokens issued by the hosted
// auth provider. With an empty secret every request passes through.
func AuthorizationRequired(secret string) fiber.Handler {
	if secret == "" {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	return jwtware.New(jwtware.Config{
		Claims:     jwt.MapClaims{},
		ContextKey: userKey,
		SigningKey: jwtware.SigningKey{
			JWTAlg: "HS256",
			Key:    []byte(secret),
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or missing token")
		},
	})
}

// UserID returns the token subject, or "" when auth is disabled.
func UserID(c *fiber.Ctx) string {
	token, ok := c.Locals(userKey).(*jwt.Token)
	if !ok || token == nil {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	sub, _ := claims.GetSubject()
	return sub
}
