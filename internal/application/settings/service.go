package settings

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"wealthcircle-backend/internal/domain"
	"wealthcircle-backend/internal/infrastructure/rates"
	"wealthcircle-backend/internal/pkg/currency"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service owns the per-owner settings row: exchange rates, partner split
// ratio, bank benchmark and the legacy-entry suppression flag.
type Service struct {
	DB    *gorm.DB
	Rates rates.Client // nil disables rate sync
}

// Values is the typed view of a settings row handed to the calculators.
type Values struct {
	BaseCurrency           string         `json:"base_currency"`
	ExchangeRates          currency.Rates `json:"exchange_rates"`
	PartnerSplitRatio      float64        `json:"partner_split_ratio"`
	BankBenchmark          float64        `json:"bank_benchmark"`
	HideLegacyDistribution bool           `json:"hide_legacy_distribution"`
	RatesSyncedAt          *time.Time     `json:"rates_synced_at"`
}

// Ratio returns the partner split ratio clamped to [0,1]; a non-finite
// stored value falls back to the 50/50 default.
func (v Values) Ratio() float64 {
	r := v.PartnerSplitRatio
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0.5
	}
	return math.Min(1, math.Max(0, r))
}

// Defaults mirrors the frontend's initial state.
func Defaults() Values {
	return Values{
		BaseCurrency:      currency.Accounting,
		ExchangeRates:     currency.Rates{"USD": 50.5},
		PartnerSplitRatio: 0.5,
		BankBenchmark:     2.0,
	}
}

// UpdateInput patches a settings row. HideLegacyDistribution is one-way:
// true sticks, false is ignored.
type UpdateInput struct {
	ExchangeRates          *currency.Rates `json:"exchange_rates"`
	PartnerSplitRatio      *float64        `json:"partner_split_ratio"`
	BankBenchmark          *float64        `json:"bank_benchmark"`
	HideLegacyDistribution *bool           `json:"hide_legacy_distribution"`
}

// Get loads the owner's settings, falling back to defaults when no row
// exists yet.
func (s *Service) Get(ctx context.Context, ownerID uuid.UUID) (Values, error) {
	var row domain.Settings
	err := s.DB.WithContext(ctx).Where("owner_id = ?", ownerID).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return Defaults(), nil
	}
	if err != nil {
		return Values{}, err
	}
	return toValues(&row), nil
}

// Update upserts the owner's settings row with the given patch.
func (s *Service) Update(ctx context.Context, ownerID uuid.UUID, in UpdateInput) (Values, error) {
	var out Values
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := loadOrInit(tx, ownerID)
		if err != nil {
			return err
		}
		if in.ExchangeRates != nil {
			row.ExchangeRates = marshalRates(*in.ExchangeRates)
		}
		if in.PartnerSplitRatio != nil {
			row.PartnerSplitRatio = *in.PartnerSplitRatio
		}
		if in.BankBenchmark != nil {
			row.BankBenchmark = *in.BankBenchmark
		}
		if in.HideLegacyDistribution != nil && *in.HideLegacyDistribution {
			row.HideLegacyDistribution = true
		}
		if err := tx.Save(row).Error; err != nil {
			return err
		}
		out = toValues(row)
		return nil
	})
	return out, err
}

// HideLegacyEntry permanently suppresses the synthetic catch-up entry for
// this owner.
func (s *Service) HideLegacyEntry(ctx context.Context, ownerID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := loadOrInit(tx, ownerID)
		if err != nil {
			return err
		}
		row.HideLegacyDistribution = true
		return tx.Save(row).Error
	})
}

// SyncRates refreshes the owner's rate table from the external API. Codes
// returned by the API overwrite stored ones; manually added codes the API
// does not know survive.
func (s *Service) SyncRates(ctx context.Context, ownerID uuid.UUID) (Values, error) {
	if s.Rates == nil {
		return s.Get(ctx, ownerID)
	}
	fetched, err := s.Rates.Fetch(ctx)
	if err != nil {
		return Values{}, err
	}

	var out Values
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := loadOrInit(tx, ownerID)
		if err != nil {
			return err
		}
		merged := unmarshalRates(row.ExchangeRates)
		for code, rate := range fetched {
			if code == currency.Accounting || rate <= 0 {
				continue
			}
			merged[code] = rate
		}
		row.ExchangeRates = marshalRates(merged)
		now := time.Now()
		row.RatesSyncedAt = &now
		if err := tx.Save(row).Error; err != nil {
			return err
		}
		out = toValues(row)
		return nil
	})
	return out, err
}

// SyncAll refreshes rates for every owner that has a settings row; used by
// the scheduler.
func (s *Service) SyncAll(ctx context.Context) error {
	if s.Rates == nil {
		return nil
	}
	var rows []domain.Settings
	if err := s.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := s.SyncRates(ctx, row.OwnerID); err != nil {
			log.Warn().Err(err).Str("owner_id", row.OwnerID.String()).Msg("rate sync failed for owner")
		}
	}
	return nil
}

func loadOrInit(tx *gorm.DB, ownerID uuid.UUID) (*domain.Settings, error) {
	var row domain.Settings
	err := tx.Where("owner_id = ?", ownerID).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		def := Defaults()
		row = domain.Settings{
			OwnerID:           ownerID,
			BaseCurrency:      def.BaseCurrency,
			ExchangeRates:     marshalRates(def.ExchangeRates),
			PartnerSplitRatio: def.PartnerSplitRatio,
			BankBenchmark:     def.BankBenchmark,
		}
		return &row, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func toValues(row *domain.Settings) Values {
	return Values{
		BaseCurrency:           row.BaseCurrency,
		ExchangeRates:          unmarshalRates(row.ExchangeRates),
		PartnerSplitRatio:      row.PartnerSplitRatio,
		BankBenchmark:          row.BankBenchmark,
		HideLegacyDistribution: row.HideLegacyDistribution,
		RatesSyncedAt:          row.RatesSyncedAt,
	}
}

func marshalRates(r currency.Rates) datatypes.JSON {
	b, err := json.Marshal(r)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(b)
}

func unmarshalRates(j datatypes.JSON) currency.Rates {
	out := currency.Rates{}
	if len(j) == 0 {
		return out
	}
	_ = json.Unmarshal(j, &out)
	return out
}
