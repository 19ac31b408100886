package profits

import (
	"context"
	"math"
	"time"

	"wealthcircle-backend/internal/application/settings"
	"wealthcircle-backend/internal/domain"
	"wealthcircle-backend/internal/pkg/currency"
	"wealthcircle-backend/internal/pkg/share"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service owns profit records: CRUD, the single-record payment operations
// and the legacy mark-as-distributed shortcut. The monthly allocator lives
// in the distributions package.
type Service struct {
	DB *gorm.DB
}

type CreateInput struct {
	PortfolioID    *uuid.UUID `json:"portfolio_id"`
	Ticker         string     `json:"ticker"`
	Description    string     `json:"description"`
	GrossProfit    float64    `json:"gross_profit"`
	Fees           float64    `json:"fees"`
	NetProfit      float64    `json:"net_profit"`
	WorkingCapital float64    `json:"working_capital"`
	Currency       string     `json:"currency"`
	Date           *time.Time `json:"date"`
}

// UpdateInput patches a profit record. PartnerPaid, when set, is clamped to
// the recomputed expected share so pending never goes negative.
type UpdateInput struct {
	PortfolioID    *uuid.UUID `json:"portfolio_id"`
	Ticker         *string    `json:"ticker"`
	Description    *string    `json:"description"`
	GrossProfit    *float64   `json:"gross_profit"`
	Fees           *float64   `json:"fees"`
	NetProfit      *float64   `json:"net_profit"`
	WorkingCapital *float64   `json:"working_capital"`
	Currency       *string    `json:"currency"`
	Date           *time.Time `json:"date"`
	PartnerPaid    *float64   `json:"partner_paid"`
}

// List returns the owner's profit records, newest first.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Profit, error) {
	var rows []domain.Profit
	err := s.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("date DESC").
		Find(&rows).Error
	return rows, err
}

// Create stores a new profit record. The partner split snapshot is computed
// against the current ratio, like the rest of the record's derived fields.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, in CreateInput, st settings.Values) (*domain.Profit, error) {
	ratio := st.Ratio()
	split := math.Max(0, in.NetProfit) * ratio
	paid := 0.0
	when := time.Now()
	if in.Date != nil && !in.Date.IsZero() {
		when = *in.Date
	}
	code := in.Currency
	if code == "" {
		code = currency.Accounting
	}

	p := domain.Profit{
		OwnerID:              ownerID,
		PortfolioID:          in.PortfolioID,
		Ticker:               in.Ticker,
		Description:          in.Description,
		GrossProfit:          in.GrossProfit,
		Fees:                 in.Fees,
		NetProfit:            in.NetProfit,
		WorkingCapital:       math.Max(0, in.WorkingCapital),
		PartnerSplit:         &split,
		MyShare:              in.NetProfit - split,
		PartnerRatioSnapshot: ratio,
		PartnerPaid:          &paid,
		Currency:             code,
		Date:                 when,
	}
	if err := s.DB.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Update applies the patch and re-derives the payment flags. Lowering
// NetProfit below what was already paid clamps PartnerPaid down to the new
// expected share.
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, in UpdateInput, st settings.Values) (*domain.Profit, error) {
	var p domain.Profit
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ? AND profit_id = ?", ownerID, id).First(&p).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrProfitNotFound
			}
			return err
		}

		if in.PortfolioID != nil {
			p.PortfolioID = in.PortfolioID
		}
		if in.Ticker != nil {
			p.Ticker = *in.Ticker
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.GrossProfit != nil {
			p.GrossProfit = *in.GrossProfit
		}
		if in.Fees != nil {
			p.Fees = *in.Fees
		}
		if in.NetProfit != nil {
			p.NetProfit = *in.NetProfit
		}
		if in.WorkingCapital != nil {
			p.WorkingCapital = math.Max(0, *in.WorkingCapital)
		}
		if in.Currency != nil && *in.Currency != "" {
			p.Currency = *in.Currency
		}
		if in.Date != nil && !in.Date.IsZero() {
			p.Date = *in.Date
		}
		if in.PartnerPaid != nil {
			paid := math.Max(0, *in.PartnerPaid)
			p.PartnerPaid = &paid
		}

		reconcilePaymentFlags(&p, st.Ratio())
		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Where("owner_id = ? AND profit_id = ?", ownerID, id).
		Delete(&domain.Profit{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfitNotFound
	}
	return nil
}

// MarkDistributed records the full remaining partner share as paid.
func (s *Service) MarkDistributed(ctx context.Context, ownerID, id uuid.UUID, st settings.Values) (*domain.Profit, error) {
	return s.payTowardShare(ctx, ownerID, id, st, func(d share.Details) (float64, error) {
		return d.PartnerPaid + d.PartnerPending, nil
	})
}

// AddPartnerPayment records a partial or full payment against one record,
// in the record's native currency. The paid amount never exceeds the
// expected share.
func (s *Service) AddPartnerPayment(ctx context.Context, ownerID, id uuid.UUID, amount float64, st settings.Values) (*domain.Profit, error) {
	if amount <= 0 {
		return nil, ErrPaidAmountNotPositive
	}
	return s.payTowardShare(ctx, ownerID, id, st, func(d share.Details) (float64, error) {
		if d.PartnerPending <= share.Epsilon {
			return 0, ErrNoPendingShare
		}
		return math.Min(d.ExpectedPartnerShare, d.PartnerPaid+amount), nil
	})
}

func (s *Service) payTowardShare(ctx context.Context, ownerID, id uuid.UUID, st settings.Values, nextPaid func(share.Details) (float64, error)) (*domain.Profit, error) {
	var p domain.Profit
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ? AND profit_id = ?", ownerID, id).First(&p).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrProfitNotFound
			}
			return err
		}
		details := share.Calculate(&p, st.Ratio())
		paid, err := nextPaid(details)
		if err != nil {
			return err
		}
		p.PartnerPaid = &paid
		reconcilePaymentFlags(&p, st.Ratio())
		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// reconcilePaymentFlags clamps an explicit paid amount to the expected share
// and keeps Distributed/DistributedAt in step with the remaining pending
// amount. Legacy rows without an explicit paid amount are left untouched.
func reconcilePaymentFlags(p *domain.Profit, ratio float64) {
	if p.PartnerPaid == nil {
		return
	}
	expected := math.Max(0, p.NetProfit) * ratio
	paid := math.Max(0, *p.PartnerPaid)
	if paid > expected {
		paid = expected
	}
	p.PartnerPaid = &paid

	if expected-paid <= share.Epsilon && expected > 0 {
		p.Distributed = true
		if p.DistributedAt == nil {
			now := time.Now()
			p.DistributedAt = &now
		}
		return
	}
	p.Distributed = false
	p.DistributedAt = nil
}
