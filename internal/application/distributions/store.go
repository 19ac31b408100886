package distributions

import (
	"context"
	"time"

	"wealthcircle-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntryPatch is a direct user edit of a ledger row. It changes the audit row
// only; per-record paid amounts are never touched retroactively.
type EntryPatch struct {
	AmountEGP       float64   `json:"amountEGP"`
	AppliedEGP      float64   `json:"appliedEGP"`
	UnappliedEGP    float64   `json:"unappliedEGP"`
	AffectedRecords int       `json:"affectedRecords"`
	Note            string    `json:"note"`
	Date            time.Time `json:"date"`
}

// LedgerStore is one tier of the distribution ledger. The remote Postgres
// store and the local sqlite cache both satisfy it.
type LedgerStore interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.Distribution, error)
	Create(ctx context.Context, entry *domain.Distribution) error
	Update(ctx context.Context, ownerID uuid.UUID, id string, patch EntryPatch) (int64, error)
	Delete(ctx context.Context, ownerID uuid.UUID, id string) (int64, error)
}

// GormLedgerStore is a LedgerStore over one GORM database. Source tags every
// row it returns so merged results keep their provenance.
type GormLedgerStore struct {
	DB     *gorm.DB
	Source string
}

func (s *GormLedgerStore) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Distribution, error) {
	var rows []domain.Distribution
	if err := s.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Source = s.Source
	}
	return rows, nil
}

func (s *GormLedgerStore) Create(ctx context.Context, entry *domain.Distribution) error {
	if entry.DistID == "" {
		entry.DistID = uuid.New().String()
	}
	entry.Source = s.Source
	return s.DB.WithContext(ctx).Create(entry).Error
}

func (s *GormLedgerStore) Update(ctx context.Context, ownerID uuid.UUID, id string, patch EntryPatch) (int64, error) {
	res := s.DB.WithContext(ctx).
		Model(&domain.Distribution{}).
		Where("owner_id = ? AND dist_id = ?", ownerID, id).
		Updates(map[string]interface{}{
			"amount_egp":       patch.AmountEGP,
			"applied_egp":      patch.AppliedEGP,
			"unapplied_egp":    patch.UnappliedEGP,
			"affected_records": patch.AffectedRecords,
			"note":             patch.Note,
			"date":             patch.Date,
		})
	return res.RowsAffected, res.Error
}

func (s *GormLedgerStore) Delete(ctx context.Context, ownerID uuid.UUID, id string) (int64, error) {
	res := s.DB.WithContext(ctx).
		Where("owner_id = ? AND dist_id = ?", ownerID, id).
		Delete(&domain.Distribution{})
	return res.RowsAffected, res.Error
}
