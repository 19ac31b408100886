package distributions

import (
	"errors"
	"time"

	distsvc "wealthcircle-backend/internal/application/distributions"
	"wealthcircle-backend/internal/middleware"
	"wealthcircle-backend/internal/pkg/response"
	"wealthcircle-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *distsvc.Service
}

// List GET /api/v1/distributions
func (h *Handlers) List(c *fiber.Ctx) error {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	entries, err := h.Service.List(c.Context(), ownerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Distributions retrieved successfully", fiber.Map{"distributions": entries}, nil)
}

// Distribute POST /api/v1/distributions/monthly
func (h *Handlers) Distribute(c *fiber.Ctx) error {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		AmountEGP float64 `json:"amountEGP"`
		Note      string  `json:"note"`
		Date      string  `json:"date"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "amountEGP is required", fiber.StatusBadRequest, nil)
	}

	in := distsvc.DistributeInput{AmountEGP: body.AmountEGP, Note: body.Note}
	if body.Date != "" {
		ts := validation.ParseDate(body.Date)
		if ts.IsZero() {
			return response.Error(c, "Invalid date", fiber.StatusBadRequest, nil)
		}
		in.Date = ts
	}

	out, err := h.Service.DistributeMonthly(c.Context(), ownerID, in)
	if err != nil {
		switch {
		case errors.Is(err, distsvc.ErrAmountNotPositive), errors.Is(err, distsvc.ErrNothingToDistribute):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.Is(err, distsvc.ErrNoProfits):
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}
	return response.SuccessCreated(c, "Distribution recorded successfully", out, nil)
}

// Update PATCH /api/v1/distributions/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id := c.Params("id")
	var body struct {
		AmountEGP       float64 `json:"amountEGP"`
		AppliedEGP      float64 `json:"appliedEGP"`
		UnappliedEGP    float64 `json:"unappliedEGP"`
		AffectedRecords int     `json:"affectedRecords"`
		Note            string  `json:"note"`
		Date            string  `json:"date"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	ts := time.Now()
	if body.Date != "" {
		ts = validation.ParseDate(body.Date)
		if ts.IsZero() {
			return response.Error(c, "Invalid date", fiber.StatusBadRequest, nil)
		}
	}

	patch := distsvc.EntryPatch{
		AmountEGP:       body.AmountEGP,
		AppliedEGP:      body.AppliedEGP,
		UnappliedEGP:    body.UnappliedEGP,
		AffectedRecords: body.AffectedRecords,
		Note:            body.Note,
		Date:            ts,
	}
	if err := h.Service.Update(c.Context(), ownerID, id, patch); err != nil {
		switch {
		case errors.Is(err, distsvc.ErrLegacyEntryReadOnly):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.Is(err, distsvc.ErrEntryNotFound):
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}
	return response.Success(c, "Distribution updated successfully", nil, nil)
}

// Delete DELETE /api/v1/distributions/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id := c.Params("id")
	if err := h.Service.Delete(c.Context(), ownerID, id); err != nil {
		if errors.Is(err, distsvc.ErrEntryNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Distribution deleted successfully", nil, nil)
}
