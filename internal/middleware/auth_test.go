package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func newApp(secret string) *fiber.App {
	app := fiber.New()
	app.Use(AuthorizationRequired(secret))
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})
	return app
}

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestAuthorizationRequired(t *testing.T) {
	const secret = "test-secret"
	valid := sign(t, secret, jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(time.Hour).Unix()})
	wrongKey := sign(t, "other", jwt.MapClaims{"sub": "user-1"})

	tests := []struct {
		name   string
		secret string
		token  string
		status int
		body   string
	}{
		{name: "disabled", secret: "", status: fiber.StatusOK, body: ""},
		{name: "missing token", secret: secret, status: fiber.StatusUnauthorized},
		{name: "wrong key", secret: secret, token: wrongKey, status: fiber.StatusUnauthorized},
		{name: "valid", secret: secret, token: valid, status: fiber.StatusOK, body: "user-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			resp, err := newApp(tt.secret).Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.status == fiber.StatusOK {
				buf := make([]byte, 64)
				n, _ := resp.Body.Read(buf)
				if string(buf[:n]) != tt.body {
					t.Errorf("body = %q, want %q", buf[:n], tt.body)
				}
			}
		})
	}
}
