package middleware

import (
	"wealthcircle-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// RequireAuth ensures a user is in the session. 401 otherwise.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals(userLocal) == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// OwnerID extracts the authenticated owner's id from the session user.
// Returns uuid.Nil and false when not authenticated.
func OwnerID(c *fiber.Ctx) (uuid.UUID, bool) {
	m, ok := GetUser(c).(map[string]interface{})
	if !ok {
		return uuid.Nil, false
	}
	s, _ := m["user_id"].(string)
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
