package distributions

import (
	"context"

	"wealthcircle-backend/internal/application/settings"
	"wealthcircle-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service owns the distribution ledger: the two storage tiers, the
// reconciliation step and the monthly allocator. Profit records are read
// from (and, by the allocator, written to) the shared remote DB.
type Service struct {
	DB       *gorm.DB
	Remote   LedgerStore
	Local    LedgerStore
	Settings *settings.Service
}

// List returns the owner's reconciled ledger, newest first. A permission
// denial on the remote tier degrades to the local cache instead of failing;
// any other remote error propagates.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Distribution, error) {
	localRows, err := s.Local.List(ctx, ownerID)
	if err != nil {
		log.Warn().Err(err).Msg("distribution cache read failed")
		localRows = nil
	}

	remoteRows, err := s.Remote.List(ctx, ownerID)
	if err != nil {
		if !IsPermissionDenied(err) {
			return nil, err
		}
		log.Warn().Str("owner_id", ownerID.String()).Msg("distribution read denied, serving local cache only")
		remoteRows = nil
	}

	st, err := s.Settings.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var records []domain.Profit
	if err := s.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&records).Error; err != nil {
		return nil, err
	}

	out := Reconcile(ownerID, records, mergeByID(remoteRows, localRows), st)
	sortByDateDesc(out)
	return out, nil
}

// Update edits one ledger row in place. The edit changes the audit row only
// and never reaches back into profit records. The synthetic legacy entry is
// not editable.
func (s *Service) Update(ctx context.Context, ownerID uuid.UUID, id string, patch EntryPatch) error {
	if domain.IsLegacyID(id) {
		return ErrLegacyEntryReadOnly
	}

	if !domain.IsLocalID(id) {
		n, err := s.Remote.Update(ctx, ownerID, id, patch)
		if err != nil {
			if !IsPermissionDenied(err) {
				return err
			}
			log.Warn().Str("dist_id", id).Msg("distribution update denied, editing local cache")
		} else if n > 0 {
			return nil
		}
		// Remote row missing or write denied: the row may live in the cache
		// (entries created or edited during an earlier denial).
	}

	n, err := s.Local.Update(ctx, ownerID, id, patch)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// Delete removes one ledger row. Deleting the synthetic legacy entry turns
// into the one-way per-owner suppression flag instead.
func (s *Service) Delete(ctx context.Context, ownerID uuid.UUID, id string) error {
	if domain.IsLegacyID(id) {
		return s.Settings.HideLegacyEntry(ctx, ownerID)
	}

	if !domain.IsLocalID(id) {
		n, err := s.Remote.Delete(ctx, ownerID, id)
		if err != nil {
			if !IsPermissionDenied(err) {
				return err
			}
			log.Warn().Str("dist_id", id).Msg("distribution delete denied, deleting from local cache")
		} else if n > 0 {
			return nil
		}
	}

	n, err := s.Local.Delete(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEntryNotFound
	}
	return nil
}
