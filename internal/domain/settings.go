package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Settings is the per-owner configuration row: exchange rates, partner split
// ratio, bank benchmark and the one-way legacy-entry suppression flag.
// ExchangeRates maps currency code to EGP per unit (e.g. {"USD": 50.5}).
type Settings struct {
	OwnerID                uuid.UUID      `gorm:"column:owner_id;type:uuid;primaryKey" json:"owner_id"`
	BaseCurrency           string         `gorm:"column:base_currency;not null;default:EGP" json:"base_currency"`
	ExchangeRates          datatypes.JSON `gorm:"column:exchange_rates" json:"exchange_rates"`
	PartnerSplitRatio      float64        `gorm:"column:partner_split_ratio;type:decimal(6,4);not null;default:0.5" json:"partner_split_ratio"`
	BankBenchmark          float64        `gorm:"column:bank_benchmark;type:decimal(8,4);not null;default:2" json:"bank_benchmark"`
	HideLegacyDistribution bool           `gorm:"column:hide_legacy_distribution;not null;default:false" json:"hide_legacy_distribution"`
	RatesSyncedAt          *time.Time     `gorm:"column:rates_synced_at" json:"rates_synced_at"`
	CreatedAt              time.Time      `json:"createdAt"`
	UpdatedAt              time.Time      `json:"updatedAt"`
}

func (Settings) TableName() string {
	return "Settings"
}
