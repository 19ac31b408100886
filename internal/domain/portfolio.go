package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Portfolio is one investment account. Invested capital is derived as
// initial + deposits - withdrawals; CurrentValue is the user-maintained mark.
type Portfolio struct {
	PortfolioID      uuid.UUID `gorm:"column:portfolio_id;type:uuid;primaryKey" json:"portfolio_id"`
	OwnerID          uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	Name             string    `gorm:"column:name;not null" json:"name"`
	Broker           string    `gorm:"column:broker" json:"broker"`
	Currency         string    `gorm:"column:currency;not null;default:EGP" json:"currency"`
	InitialCapital   float64   `gorm:"column:initial_capital;type:decimal(18,2)" json:"initial_capital"`
	TotalDeposits    float64   `gorm:"column:total_deposits;type:decimal(18,2)" json:"total_deposits"`
	TotalWithdrawals float64   `gorm:"column:total_withdrawals;type:decimal(18,2)" json:"total_withdrawals"`
	CurrentValue     float64   `gorm:"column:current_value;type:decimal(18,2)" json:"current_value"`
	ExcludeFromTotal bool      `gorm:"column:exclude_from_total;not null;default:false" json:"exclude_from_total"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (Portfolio) TableName() string {
	return "Portfolios"
}

func (p *Portfolio) BeforeCreate(tx *gorm.DB) error {
	if p.PortfolioID == uuid.Nil {
		p.PortfolioID = uuid.New()
	}
	return nil
}

// InvestedCapital is the capital put into the portfolio, in its currency.
func (p *Portfolio) InvestedCapital() float64 {
	return p.InitialCapital + p.TotalDeposits - p.TotalWithdrawals
}
