package settings

import (
	settingsvc "wealthcircle-backend/internal/application/settings"
	"wealthcircle-backend/internal/middleware"
	"wealthcircle-backend/internal/pkg/response"
	"wealthcircle-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *settingsvc.Service
}

// Get GET /api/v1/settings
func (h *Handlers) Get(c *fiber.Ctx) error {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	st, err := h.Service.Get(c.Context(), ownerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Settings retrieved successfully", st, nil)
}

// Update PUT /api/v1/settings
func (h *Handlers) Update(c *fiber.Ctx) error {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var in settingsvc.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	if in.PartnerSplitRatio != nil && (*in.PartnerSplitRatio < 0 || *in.PartnerSplitRatio > 1) {
		return response.Error(c, "partner_split_ratio must be between 0 and 1", fiber.StatusBadRequest, nil)
	}
	if in.BankBenchmark != nil && !validation.IsValidAmount(*in.BankBenchmark) {
		return response.Error(c, "Invalid bank benchmark", fiber.StatusBadRequest, nil)
	}
	if in.ExchangeRates != nil {
		for code, rate := range *in.ExchangeRates {
			if !validation.IsValidCurrencyCode(code) || rate <= 0 {
				return response.Error(c, "Invalid exchange rate entry", fiber.StatusBadRequest, nil)
			}
		}
	}

	st, err := h.Service.Update(c.Context(), ownerID, in)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Settings updated successfully", st, nil)
}

// SyncRates POST /api/v1/settings/sync-rates
func (h *Handlers) SyncRates(c *fiber.Ctx) error {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	st, err := h.Service.SyncRates(c.Context(), ownerID)
	if err != nil {
		return response.Error(c, "Exchange rate sync failed", fiber.StatusBadGateway, nil)
	}
	return response.Success(c, "Exchange rates synced successfully", st, nil)
}
