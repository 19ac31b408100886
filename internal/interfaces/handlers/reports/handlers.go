package reports

import (
	portfoliosvc "wealthcircle-backend/internal/application/portfolios"
	profitsvc "wealthcircle-backend/internal/application/profits"
	settingsvc "wealthcircle-backend/internal/application/settings"
	"wealthcircle-backend/internal/middleware"
	"wealthcircle-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Profits    *profitsvc.Service
	Portfolios *portfoliosvc.Service
	Settings   *settingsvc.Service
}

// Summary GET /api/v1/reports/summary
func (h *Handlers) Summary(c *fiber.Ctx) error {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	st, err := h.Settings.Get(c.Context(), ownerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	rows, err := h.Profits.List(c.Context(), ownerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Report generated successfully", profitsvc.Summarize(rows, st), nil)
}

// Monthly GET /api/v1/reports/monthly
func (h *Handlers) Monthly(c *fiber.Ctx) error {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	st, err := h.Settings.Get(c.Context(), ownerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	rows, err := h.Profits.List(c.Context(), ownerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Monthly profits retrieved successfully", fiber.Map{
		"months": profitsvc.MonthlySeries(rows, st),
	}, nil)
}

// Benchmark GET /api/v1/reports/bank-benchmark?months=N
func (h *Handlers) Benchmark(c *fiber.Ctx) error {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	months := c.QueryFloat("months", 1)

	st, err := h.Settings.Get(c.Context(), ownerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	rows, err := h.Profits.List(c.Context(), ownerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	portfolios, err := h.Portfolios.List(c.Context(), ownerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Benchmark comparison generated successfully",
		profitsvc.CompareToBankBenchmark(rows, portfolios, st, months), nil)
}
