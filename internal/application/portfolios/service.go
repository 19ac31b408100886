package portfolios

import (
	"context"
	"errors"
	"math"

	"wealthcircle-backend/internal/application/settings"
	"wealthcircle-backend/internal/domain"
	"wealthcircle-backend/internal/pkg/currency"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPortfolioNotFound = errors.New("Portfolio not found")

type Service struct {
	DB *gorm.DB
}

type CreateInput struct {
	Name             string  `json:"name"`
	Broker           string  `json:"broker"`
	Currency         string  `json:"currency"`
	InitialCapital   float64 `json:"initial_capital"`
	ExcludeFromTotal bool    `json:"exclude_from_total"`
}

// UpdateInput patches a portfolio. Deposit and Withdrawal are deltas: they
// accumulate into the running totals and move the current value with them.
type UpdateInput struct {
	Name             *string  `json:"name"`
	Broker           *string  `json:"broker"`
	Currency         *string  `json:"currency"`
	CurrentValue     *float64 `json:"current_value"`
	Deposit          *float64 `json:"deposit"`
	Withdrawal       *float64 `json:"withdrawal"`
	ExcludeFromTotal *bool    `json:"exclude_from_total"`
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Portfolio, error) {
	var rows []domain.Portfolio
	err := s.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, in CreateInput) (*domain.Portfolio, error) {
	code := in.Currency
	if code == "" {
		code = currency.Accounting
	}
	p := domain.Portfolio{
		OwnerID:          ownerID,
		Name:             in.Name,
		Broker:           in.Broker,
		Currency:         code,
		InitialCapital:   math.Max(0, in.InitialCapital),
		CurrentValue:     math.Max(0, in.InitialCapital),
		ExcludeFromTotal: in.ExcludeFromTotal,
	}
	if err := s.DB.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, in UpdateInput) (*domain.Portfolio, error) {
	var p domain.Portfolio
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ? AND portfolio_id = ?", ownerID, id).First(&p).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrPortfolioNotFound
			}
			return err
		}
		if in.Name != nil {
			p.Name = *in.Name
		}
		if in.Broker != nil {
			p.Broker = *in.Broker
		}
		if in.Currency != nil && *in.Currency != "" {
			p.Currency = *in.Currency
		}
		if in.Deposit != nil && *in.Deposit > 0 {
			p.TotalDeposits += *in.Deposit
			p.CurrentValue += *in.Deposit
		}
		if in.Withdrawal != nil && *in.Withdrawal > 0 {
			p.TotalWithdrawals += *in.Withdrawal
			p.CurrentValue = math.Max(0, p.CurrentValue-*in.Withdrawal)
		}
		if in.CurrentValue != nil {
			p.CurrentValue = math.Max(0, *in.CurrentValue)
		}
		if in.ExcludeFromTotal != nil {
			p.ExcludeFromTotal = *in.ExcludeFromTotal
		}
		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Where("owner_id = ? AND portfolio_id = ?", ownerID, id).
		Delete(&domain.Portfolio{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPortfolioNotFound
	}
	return nil
}

// Summary is the portfolio-wide rollup, all amounts in EGP.
type Summary struct {
	TotalMarketValue     float64             `json:"total_market_value"`
	TotalInvestedCapital float64             `json:"total_invested_capital"`
	UnrealizedPL         float64             `json:"unrealized_pl"`
	Distribution         []DistributionSlice `json:"distribution"`
}

// DistributionSlice is one portfolio's share of the total market value.
type DistributionSlice struct {
	PortfolioID uuid.UUID `json:"portfolio_id"`
	Name        string    `json:"name"`
	ValueEGP    float64   `json:"value_egp"`
}

// Summarize computes the rollups over loaded portfolios. Portfolios flagged
// exclude_from_total stay out of the market value and P/L but are listed in
// the distribution.
func Summarize(rows []domain.Portfolio, st settings.Values) Summary {
	out := Summary{Distribution: make([]DistributionSlice, 0, len(rows))}
	for i := range rows {
		p := &rows[i]
		valueEGP := currency.ToAccounting(p.CurrentValue, p.Currency, st.ExchangeRates)
		out.Distribution = append(out.Distribution, DistributionSlice{
			PortfolioID: p.PortfolioID,
			Name:        p.Name,
			ValueEGP:    valueEGP,
		})
		if p.ExcludeFromTotal {
			continue
		}
		out.TotalMarketValue += valueEGP
		out.TotalInvestedCapital += currency.ToAccounting(p.InvestedCapital(), p.Currency, st.ExchangeRates)
	}
	out.UnrealizedPL = out.TotalMarketValue - out.TotalInvestedCapital
	return out
}
