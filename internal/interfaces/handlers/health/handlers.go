package health

import (
	"context"

	healthsvc "wealthcircle-backend/internal/application/health"
	"wealthcircle-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Handlers holds dependencies for health endpoints.
type Handlers struct {
	Rdb         *redis.Client
	DB          healthsvc.DBPinger
	RatesAPIURL string
}

// JSON GET /health/json
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := healthsvc.CollectHealth(context.Background(), h.Rdb, h.DB, h.RatesAPIURL)
	return c.JSON(map[string]interface{}{
		"service":      "wealthcircle-api",
		"status":       result.Status,
		"runtime":      result.Runtime,
		"traffic":      result.Traffic,
		"dependencies": result.Dependencies,
	})
}

// Live GET /health
func (h *Handlers) Live(c *fiber.Ctx) error {
	return response.Success(c, "OK", fiber.Map{"service": "wealthcircle-api"}, nil)
}
