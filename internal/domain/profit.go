package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profit is one realized profit event, scoped to an owner. Amounts are stored
// in the record's native currency; conversion to EGP happens at read time.
//
// PartnerPaid is nil on legacy rows that predate the distribution ledger; the
// share calculator falls back to the Distributed flag + PartnerSplit snapshot
// for those.
type Profit struct {
	ProfitID             uuid.UUID  `gorm:"column:profit_id;type:uuid;primaryKey" json:"profit_id"`
	OwnerID              uuid.UUID  `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	PortfolioID          *uuid.UUID `gorm:"column:portfolio_id;type:uuid" json:"portfolio_id"`
	Ticker               string     `gorm:"column:ticker" json:"ticker"`
	Description          string     `gorm:"column:description" json:"description"`
	GrossProfit          float64    `gorm:"column:gross_profit;type:decimal(18,2)" json:"gross_profit"`
	Fees                 float64    `gorm:"column:fees;type:decimal(18,2)" json:"fees"`
	NetProfit            float64    `gorm:"column:net_profit;type:decimal(18,2);not null" json:"net_profit"`
	WorkingCapital       float64    `gorm:"column:working_capital;type:decimal(18,2)" json:"working_capital"`
	PartnerSplit         *float64   `gorm:"column:partner_split;type:decimal(18,2)" json:"partner_split"`
	MyShare              float64    `gorm:"column:my_share;type:decimal(18,2)" json:"my_share"`
	PartnerRatioSnapshot float64    `gorm:"column:partner_ratio_snapshot;type:decimal(6,4)" json:"partner_ratio_snapshot"`
	PartnerPaid          *float64   `gorm:"column:partner_paid;type:decimal(18,2)" json:"partner_paid"`
	Currency             string     `gorm:"column:currency;not null;default:EGP" json:"currency"`
	Date                 time.Time  `gorm:"column:date;not null;index" json:"date"`
	Distributed          bool       `gorm:"column:distributed;not null;default:false" json:"distributed"`
	DistributedAt        *time.Time `gorm:"column:distributed_at" json:"distributed_at"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

func (Profit) TableName() string {
	return "Profits"
}

func (p *Profit) BeforeCreate(tx *gorm.DB) error {
	if p.ProfitID == uuid.Nil {
		p.ProfitID = uuid.New()
	}
	return nil
}
