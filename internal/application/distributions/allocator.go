package distributions

import (
	"context"
	"math"
	"time"

	"wealthcircle-backend/internal/application/profits"
	"wealthcircle-backend/internal/domain"
	"wealthcircle-backend/internal/pkg/currency"
	"wealthcircle-backend/internal/pkg/share"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DistributeInput is one lump-sum partner payout to spread across records.
type DistributeInput struct {
	AmountEGP float64   `json:"amountEGP"`
	Note      string    `json:"note"`
	Date      time.Time `json:"date"`
}

// AllocationSummary reports how a lump sum was spread.
type AllocationSummary struct {
	EntryID         string  `json:"entryId"`
	AmountEGP       float64 `json:"amountEGP"`
	AppliedEGP      float64 `json:"appliedEGP"`
	UnappliedEGP    float64 `json:"unappliedEGP"`
	AffectedRecords int     `json:"affectedRecords"`
}

type recordUpdate struct {
	profit        *domain.Profit
	nextPaid      float64
	distributed   bool
	distributedAt *time.Time
}

// DistributeMonthly spreads one lump-sum payout across the owner's profit
// records oldest first, clamping each record's paid amount to its expected
// share, then writes a single ledger entry for the whole operation. Record
// updates are applied atomically; the ledger entry falls back to the local
// cache when the remote store denies the write.
func (s *Service) DistributeMonthly(ctx context.Context, ownerID uuid.UUID, in DistributeInput) (AllocationSummary, error) {
	if !(in.AmountEGP > 0) || math.IsInf(in.AmountEGP, 0) {
		return AllocationSummary{}, ErrAmountNotPositive
	}

	st, err := s.Settings.Get(ctx, ownerID)
	if err != nil {
		return AllocationSummary{}, err
	}
	ratio := st.Ratio()

	records, err := profits.ListAscending(s.DB.WithContext(ctx), ownerID)
	if err != nil {
		return AllocationSummary{}, err
	}
	if len(records) == 0 {
		return AllocationSummary{}, ErrNoProfits
	}

	when := in.Date
	if when.IsZero() {
		when = time.Now()
	}

	remaining := in.AmountEGP
	var updates []recordUpdate
	for i := range records {
		if remaining <= share.Epsilon {
			break
		}
		p := &records[i]
		d := share.Calculate(p, ratio)
		if d.PartnerPending <= share.Epsilon {
			continue
		}
		pendingEGP := currency.ToAccounting(d.PartnerPending, p.Currency, st.ExchangeRates)
		if pendingEGP <= share.Epsilon {
			continue
		}

		payEGP := math.Min(remaining, pendingEGP)
		payRaw := currency.FromAccounting(payEGP, p.Currency, st.ExchangeRates)
		nextPaid := math.Min(d.ExpectedPartnerShare, d.PartnerPaid+payRaw)
		appliedRaw := math.Max(0, nextPaid-d.PartnerPaid)
		appliedEGP := currency.ToAccounting(appliedRaw, p.Currency, st.ExchangeRates)
		if appliedEGP <= share.Epsilon {
			continue
		}

		u := recordUpdate{profit: p, nextPaid: nextPaid}
		if d.ExpectedPartnerShare-nextPaid <= share.Epsilon {
			u.distributed = true
			ts := when
			if p.DistributedAt != nil {
				ts = *p.DistributedAt
			}
			u.distributedAt = &ts
		}
		updates = append(updates, u)
		remaining -= appliedEGP
	}

	if len(updates) == 0 {
		return AllocationSummary{}, ErrNothingToDistribute
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			res := tx.Model(&domain.Profit{}).
				Where("profit_id = ? AND owner_id = ?", u.profit.ProfitID, ownerID).
				Updates(map[string]interface{}{
					"partner_paid":   u.nextPaid,
					"distributed":    u.distributed,
					"distributed_at": u.distributedAt,
				})
			if res.Error != nil {
				return res.Error
			}
		}
		return nil
	})
	if err != nil {
		return AllocationSummary{}, err
	}

	unapplied := math.Max(0, remaining)
	entry := domain.Distribution{
		OwnerID:         ownerID,
		AmountEGP:       in.AmountEGP,
		AppliedEGP:      math.Max(0, in.AmountEGP-unapplied),
		UnappliedEGP:    unapplied,
		AffectedRecords: len(updates),
		Note:            in.Note,
		Date:            when,
	}
	if err := s.Remote.Create(ctx, &entry); err != nil {
		if !IsPermissionDenied(err) {
			return AllocationSummary{}, err
		}
		log.Warn().Str("owner_id", ownerID.String()).Msg("distribution ledger write denied, caching locally")
		entry.DistID = domain.NewLocalID()
		if err := s.Local.Create(ctx, &entry); err != nil {
			return AllocationSummary{}, err
		}
	}

	return AllocationSummary{
		EntryID:         entry.DistID,
		AmountEGP:       entry.AmountEGP,
		AppliedEGP:      entry.AppliedEGP,
		UnappliedEGP:    entry.UnappliedEGP,
		AffectedRecords: entry.AffectedRecords,
	}, nil
}
