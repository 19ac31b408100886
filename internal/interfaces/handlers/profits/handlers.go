package profits

import (
	"errors"

	profitsvc "wealthcircle-backend/internal/application/profits"
	settingsvc "wealthcircle-backend/internal/application/settings"
	"wealthcircle-backend/internal/domain"
	"wealthcircle-backend/internal/middleware"
	"wealthcircle-backend/internal/pkg/response"
	"wealthcircle-backend/internal/pkg/share"
	"wealthcircle-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service  *profitsvc.Service
	Settings *settingsvc.Service
}

// profitView is a profit record plus its share breakdown at the current ratio.
type profitView struct {
	domain.Profit
	Share share.Details `json:"share"`
}

// List GET /api/v1/profits
func (h *Handlers) List(c *fiber.Ctx) error {
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

	ratio := st.Ratio()
	views := make([]profitView, 0, len(rows))
	for i := range rows {
		views = append(views, profitView{Profit: rows[i], Share: share.Calculate(&rows[i], ratio)})
	}
	return response.Success(c, "Profits retrieved successfully", fiber.Map{"profits": views}, nil)
}

type profitBody struct {
	PortfolioID    *string  `json:"portfolio_id"`
	Ticker         *string  `json:"ticker"`
	Description    *string  `json:"description"`
	GrossProfit    *float64 `json:"gross_profit"`
	Fees           *float64 `json:"fees"`
	NetProfit      *float64 `json:"net_profit"`
	WorkingCapital *float64 `json:"working_capital"`
	Currency       *string  `json:"currency"`
	Date           *string  `json:"date"`
	PartnerPaid    *float64 `json:"partner_paid"`
}

func (b *profitBody) validate() string {
	if b.Currency != nil && *b.Currency != "" && !validation.IsValidCurrencyCode(*b.Currency) {
		return "Invalid currency code"
	}
	if b.WorkingCapital != nil && !validation.IsValidAmount(*b.WorkingCapital) {
		return "Invalid working capital"
	}
	if b.Date != nil && *b.Date != "" && validation.ParseDate(*b.Date).IsZero() {
		return "Invalid date"
	}
	return ""
}

// Create POST /api/v1/profits
func (h *Handlers) Create(c *fiber.Ctx) error {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body profitBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	if body.NetProfit == nil {
		return response.Error(c, "net_profit is required", fiber.StatusBadRequest, nil)
	}
	if msg := body.validate(); msg != "" {
		return response.Error(c, msg, fiber.StatusBadRequest, nil)
	}

	in := profitsvc.CreateInput{NetProfit: *body.NetProfit}
	if body.PortfolioID != nil && *body.PortfolioID != "" {
		pid, err := uuid.Parse(*body.PortfolioID)
		if err != nil {
			return response.Error(c, "Invalid UUID format for portfolio_id", fiber.StatusBadRequest, nil)
		}
		in.PortfolioID = &pid
	}
	if body.Ticker != nil {
		in.Ticker = *body.Ticker
	}
	if body.Description != nil {
		in.Description = *body.Description
	}
	if body.GrossProfit != nil {
		in.GrossProfit = *body.GrossProfit
	}
	if body.Fees != nil {
		in.Fees = *body.Fees
	}
	if body.WorkingCapital != nil {
		in.WorkingCapital = *body.WorkingCapital
	}
	if body.Currency != nil {
		in.Currency = *body.Currency
	}
	if body.Date != nil && *body.Date != "" {
		ts := validation.ParseDate(*body.Date)
		in.Date = &ts
	}

	st, err := h.Settings.Get(c.Context(), ownerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	p, err := h.Service.Create(c.Context(), ownerID, in, st)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.SuccessCreated(c, "Profit recorded successfully", p, nil)
}

// Update PATCH /api/v1/profits/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for profit id", fiber.StatusBadRequest, nil)
	}
	var body profitBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	if msg := body.validate(); msg != "" {
		return response.Error(c, msg, fiber.StatusBadRequest, nil)
	}

	in := profitsvc.UpdateInput{
		Ticker:         body.Ticker,
		Description:    body.Description,
		GrossProfit:    body.GrossProfit,
		Fees:           body.Fees,
		NetProfit:      body.NetProfit,
		WorkingCapital: body.WorkingCapital,
		Currency:       body.Currency,
		PartnerPaid:    body.PartnerPaid,
	}
	if body.PortfolioID != nil && *body.PortfolioID != "" {
		pid, err := uuid.Parse(*body.PortfolioID)
		if err != nil {
			return response.Error(c, "Invalid UUID format for portfolio_id", fiber.StatusBadRequest, nil)
		}
		in.PortfolioID = &pid
	}
	if body.Date != nil && *body.Date != "" {
		ts := validation.ParseDate(*body.Date)
		in.Date = &ts
	}

	st, err := h.Settings.Get(c.Context(), ownerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	p, err := h.Service.Update(c.Context(), ownerID, id, in, st)
	if err != nil {
		if errors.Is(err, profitsvc.ErrProfitNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Profit updated successfully", p, nil)
}

// Delete DELETE /api/v1/profits/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for profit id", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.Delete(c.Context(), ownerID, id); err != nil {
		if errors.Is(err, profitsvc.ErrProfitNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Profit deleted successfully", nil, nil)
}

// MarkDistributed POST /api/v1/profits/:id/mark-distributed
func (h *Handlers) MarkDistributed(c *fiber.Ctx) error {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for profit id", fiber.StatusBadRequest, nil)
	}
	st, err := h.Settings.Get(c.Context(), ownerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	p, err := h.Service.MarkDistributed(c.Context(), ownerID, id, st)
	if err != nil {
		if errors.Is(err, profitsvc.ErrProfitNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Partner share marked as distributed", p, nil)
}

// AddPayment POST /api/v1/profits/:id/partner-payment
func (h *Handlers) AddPayment(c *fiber.Ctx) error {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for profit id", fiber.StatusBadRequest, nil)
	}
	var body struct {
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "amount is required", fiber.StatusBadRequest, nil)
	}

	st, err := h.Settings.Get(c.Context(), ownerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	p, err := h.Service.AddPartnerPayment(c.Context(), ownerID, id, body.Amount, st)
	if err != nil {
		switch {
		case errors.Is(err, profitsvc.ErrProfitNotFound):
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		case errors.Is(err, profitsvc.ErrPaidAmountNotPositive), errors.Is(err, profitsvc.ErrNoPendingShare):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}
	return response.Success(c, "Payment recorded successfully", p, nil)
}
