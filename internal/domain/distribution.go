package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Distribution entry sources. Legacy entries are derived on read and never
// persisted; local entries live only in the owner-scoped cache.
const (
	SourceRemote = "remote"
	SourceLocal  = "local"
	SourceLegacy = "legacy"
)

const (
	localIDPrefix  = "local-"
	legacyIDPrefix = "legacy-"
)

// Distribution is one recorded aggregate payment toward pending partner
// shares. All amounts are in the accounting currency (EGP). For entries
// written by the monthly allocator, AppliedEGP + UnappliedEGP == AmountEGP.
//
// The primary key is a string rather than a UUID because locally cached rows
// carry a "local-" prefix and the synthetic catch-up row a "legacy-" prefix.
type Distribution struct {
	DistID          string    `gorm:"column:dist_id;primaryKey" json:"dist_id"`
	OwnerID         uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	AmountEGP       float64   `gorm:"column:amount_egp;type:decimal(18,2);not null" json:"amountEGP"`
	AppliedEGP      float64   `gorm:"column:applied_egp;type:decimal(18,2);not null" json:"appliedEGP"`
	UnappliedEGP    float64   `gorm:"column:unapplied_egp;type:decimal(18,2);not null" json:"unappliedEGP"`
	AffectedRecords int       `gorm:"column:affected_records;not null" json:"affectedRecords"`
	Note            string    `gorm:"column:note" json:"note"`
	Source          string    `gorm:"-" json:"source"`
	Date            time.Time `gorm:"column:date;not null;index" json:"date"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (Distribution) TableName() string {
	return "PartnerDistributions"
}

// NewLocalID returns a fresh id for a cache-only row.
func NewLocalID() string {
	return localIDPrefix + uuid.New().String()
}

// LegacyID is the reserved id of the synthetic catch-up entry for an owner.
func LegacyID(ownerID uuid.UUID) string {
	return legacyIDPrefix + ownerID.String()
}

func IsLocalID(id string) bool {
	return strings.HasPrefix(id, localIDPrefix)
}

func IsLegacyID(id string) bool {
	return strings.HasPrefix(id, legacyIDPrefix)
}
