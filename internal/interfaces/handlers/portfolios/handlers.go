package portfolios

import (
	"errors"

	portfoliosvc "wealthcircle-backend/internal/application/portfolios"
	settingsvc "wealthcircle-backend/internal/application/settings"
	"wealthcircle-backend/internal/middleware"
	"wealthcircle-backend/internal/pkg/response"
	"wealthcircle-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service  *portfoliosvc.Service
	Settings *settingsvc.Service
}

// List GET /api/v1/portfolios
func (h *Handlers) List(c *fiber.Ctx) error {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	rows, err := h.Service.List(c.Context(), ownerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Portfolios retrieved successfully", fiber.Map{"portfolios": rows}, nil)
}

// Create POST /api/v1/portfolios
func (h *Handlers) Create(c *fiber.Ctx) error {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var in portfoliosvc.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	if in.Name == "" {
		return response.Error(c, "name is required", fiber.StatusBadRequest, nil)
	}
	if in.Currency != "" && !validation.IsValidCurrencyCode(in.Currency) {
		return response.Error(c, "Invalid currency code", fiber.StatusBadRequest, nil)
	}
	if !validation.IsValidAmount(in.InitialCapital) {
		return response.Error(c, "Invalid initial capital", fiber.StatusBadRequest, nil)
	}

	p, err := h.Service.Create(c.Context(), ownerID, in)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.SuccessCreated(c, "Portfolio created successfully", p, nil)
}

// Update PUT /api/v1/portfolios/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for portfolio id", fiber.StatusBadRequest, nil)
	}
	var in portfoliosvc.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	if in.Currency != nil && *in.Currency != "" && !validation.IsValidCurrencyCode(*in.Currency) {
		return response.Error(c, "Invalid currency code", fiber.StatusBadRequest, nil)
	}

	p, err := h.Service.Update(c.Context(), ownerID, id, in)
	if err != nil {
		if errors.Is(err, portfoliosvc.ErrPortfolioNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Portfolio updated successfully", p, nil)
}

// Delete DELETE /api/v1/portfolios/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for portfolio id", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.Delete(c.Context(), ownerID, id); err != nil {
		if errors.Is(err, portfoliosvc.ErrPortfolioNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Portfolio deleted successfully", nil, nil)
}

// Summary GET /api/v1/portfolios/summary
func (h *Handlers) Summary(c *fiber.Ctx) error {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	st, err := h.Settings.Get(c.Context(), ownerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	rows, err := h.Service.List(c.Context(), ownerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Portfolio summary generated successfully", portfoliosvc.Summarize(rows, st), nil)
}
