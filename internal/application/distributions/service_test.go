package distributions

import (
	"context"
	"testing"
	"time"

	"wealthcircle-backend/internal/application/settings"
	"wealthcircle-backend/internal/domain"
	"wealthcircle-backend/internal/pkg/share"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	remote, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, remote.AutoMigrate(&domain.Profit{}, &domain.Distribution{}, &domain.Settings{}))

	local, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, local.AutoMigrate(&domain.Distribution{}))

	return &Service{
		DB:       remote,
		Remote:   &GormLedgerStore{DB: remote, Source: domain.SourceRemote},
		Local:    &GormLedgerStore{DB: local, Source: domain.SourceLocal},
		Settings: &settings.Service{DB: remote},
	}
}

func seedProfit(t *testing.T, db *gorm.DB, ownerID uuid.UUID, net float64, date time.Time, mutate func(*domain.Profit)) domain.Profit {
	t.Helper()
	paid := 0.0
	p := domain.Profit{
		OwnerID:              ownerID,
		NetProfit:            net,
		PartnerRatioSnapshot: 0.5,
		PartnerPaid:          &paid,
		Currency:             "EGP",
		Date:                 date,
	}
	if mutate != nil {
		mutate(&p)
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestDistributeMonthlyAllocatesOldestFirst(t *testing.T) {
	s := newTestService(t)
	ownerID := uuid.New()
	jan := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)
	p1 := seedProfit(t, s.DB, ownerID, 200, jan, nil) // expected share 100
	p2 := seedProfit(t, s.DB, ownerID, 140, feb, nil) // expected share 70

	out, err := s.DistributeMonthly(context.Background(), ownerID, DistributeInput{AmountEGP: 120, Note: "March payout"})
	require.NoError(t, err)

	assert.InDelta(t, 120, out.AmountEGP, share.Epsilon)
	assert.InDelta(t, 120, out.AppliedEGP, share.Epsilon)
	assert.InDelta(t, 0, out.UnappliedEGP, share.Epsilon)
	assert.Equal(t, 2, out.AffectedRecords)
	assert.InDelta(t, out.AmountEGP, out.AppliedEGP+out.UnappliedEGP, share.Epsilon)

	var got1, got2 domain.Profit
	require.NoError(t, s.DB.First(&got1, "profit_id = ?", p1.ProfitID).Error)
	require.NoError(t, s.DB.First(&got2, "profit_id = ?", p2.ProfitID).Error)

	require.NotNil(t, got1.PartnerPaid)
	assert.InDelta(t, 100, *got1.PartnerPaid, share.Epsilon)
	assert.True(t, got1.Distributed)
	require.NotNil(t, got1.DistributedAt)

	require.NotNil(t, got2.PartnerPaid)
	assert.InDelta(t, 20, *got2.PartnerPaid, share.Epsilon)
	assert.False(t, got2.Distributed)
	assert.Nil(t, got2.DistributedAt)

	entries, err := s.List(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.SourceRemote, entries[0].Source)
	assert.Equal(t, "March payout", entries[0].Note)
}

func TestDistributeMonthlyOverpaymentIsUnapplied(t *testing.T) {
	s := newTestService(t)
	ownerID := uuid.New()
	seedProfit(t, s.DB, ownerID, 300, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), nil) // expected 150

	out, err := s.DistributeMonthly(context.Background(), ownerID, DistributeInput{AmountEGP: 500})
	require.NoError(t, err)

	assert.InDelta(t, 150, out.AppliedEGP, share.Epsilon)
	assert.InDelta(t, 350, out.UnappliedEGP, share.Epsilon)
	assert.Equal(t, 1, out.AffectedRecords)
	assert.InDelta(t, out.AmountEGP, out.AppliedEGP+out.UnappliedEGP, share.Epsilon)
}

func TestDistributeMonthlyConvertsForeignCurrency(t *testing.T) {
	s := newTestService(t)
	ownerID := uuid.New()
	// Default rate table carries USD at 50.5.
	seedProfit(t, s.DB, ownerID, 10, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), func(p *domain.Profit) {
		p.Currency = "USD"
	})

	// Expected share is 5 USD = 252.5 EGP; 101 EGP covers 2 USD of it.
	out, err := s.DistributeMonthly(context.Background(), ownerID, DistributeInput{AmountEGP: 101})
	require.NoError(t, err)

	assert.InDelta(t, 101, out.AppliedEGP, share.Epsilon)
	assert.InDelta(t, 0, out.UnappliedEGP, share.Epsilon)

	var got domain.Profit
	require.NoError(t, s.DB.First(&got, "owner_id = ?", ownerID).Error)
	require.NotNil(t, got.PartnerPaid)
	assert.InDelta(t, 2, *got.PartnerPaid, share.Epsilon)
	assert.False(t, got.Distributed)
}

func TestDistributeMonthlyIsIdempotentOncePaid(t *testing.T) {
	s := newTestService(t)
	ownerID := uuid.New()
	seedProfit(t, s.DB, ownerID, 100, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), nil)

	_, err := s.DistributeMonthly(context.Background(), ownerID, DistributeInput{AmountEGP: 50})
	require.NoError(t, err)

	_, err = s.DistributeMonthly(context.Background(), ownerID, DistributeInput{AmountEGP: 50})
	assert.ErrorIs(t, err, ErrNothingToDistribute)

	var count int64
	require.NoError(t, s.DB.Model(&domain.Distribution{}).Where("owner_id = ?", ownerID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDistributeMonthlyRejectsNonPositiveAmount(t *testing.T) {
	s := newTestService(t)
	ownerID := uuid.New()
	seedProfit(t, s.DB, ownerID, 100, time.Now(), nil)

	for _, amount := range []float64{0, -25} {
		_, err := s.DistributeMonthly(context.Background(), ownerID, DistributeInput{AmountEGP: amount})
		assert.ErrorIs(t, err, ErrAmountNotPositive)
	}
}

func TestDistributeMonthlyNoProfits(t *testing.T) {
	s := newTestService(t)

	_, err := s.DistributeMonthly(context.Background(), uuid.New(), DistributeInput{AmountEGP: 100})
	assert.ErrorIs(t, err, ErrNoProfits)
}

func TestListSynthesizesLegacyEntry(t *testing.T) {
	s := newTestService(t)
	ownerID := uuid.New()
	paid := 200.0
	seedProfit(t, s.DB, ownerID, 400, time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), func(p *domain.Profit) {
		p.PartnerPaid = &paid
	})

	entries, err := s.List(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	legacy := entries[0]
	assert.Equal(t, domain.LegacyID(ownerID), legacy.DistID)
	assert.Equal(t, domain.SourceLegacy, legacy.Source)
	assert.InDelta(t, 200, legacy.AppliedEGP, share.Epsilon)
	assert.InDelta(t, 0, legacy.UnappliedEGP, share.Epsilon)
	assert.Equal(t, 1, legacy.AffectedRecords)
}

func TestLegacyEntryOmittedWhenLedgerCoversPaidTotal(t *testing.T) {
	s := newTestService(t)
	ownerID := uuid.New()
	paid := 200.0
	seedProfit(t, s.DB, ownerID, 400, time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), func(p *domain.Profit) {
		p.PartnerPaid = &paid
	})
	require.NoError(t, s.Remote.Create(context.Background(), &domain.Distribution{
		OwnerID:    ownerID,
		AmountEGP:  200,
		AppliedEGP: 200,
		Date:       time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
	}))

	entries, err := s.List(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.SourceRemote, entries[0].Source)
}

func TestListSortsByDateDescendingWithLegacyEntry(t *testing.T) {
	s := newTestService(t)
	ownerID := uuid.New()
	paid := 300.0
	seedProfit(t, s.DB, ownerID, 800, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), func(p *domain.Profit) {
		p.PartnerPaid = &paid
	})
	require.NoError(t, s.Remote.Create(context.Background(), &domain.Distribution{
		OwnerID:    ownerID,
		AmountEGP:  50,
		AppliedEGP: 50,
		Date:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, s.Remote.Create(context.Background(), &domain.Distribution{
		OwnerID:    ownerID,
		AmountEGP:  150,
		AppliedEGP: 150,
		Date:       time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}))

	entries, err := s.List(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Date.After(entries[i-1].Date))
	}
	// The paid total not covered by the ledger surfaces as the oldest entry,
	// dated at the paid record.
	assert.Equal(t, domain.SourceLegacy, entries[2].Source)
	assert.InDelta(t, 100, entries[2].AppliedEGP, share.Epsilon)
	assert.True(t, entries[2].Date.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
}

func TestLegacyEntryIsReadOnly(t *testing.T) {
	s := newTestService(t)
	ownerID := uuid.New()

	err := s.Update(context.Background(), ownerID, domain.LegacyID(ownerID), EntryPatch{AmountEGP: 10})
	assert.ErrorIs(t, err, ErrLegacyEntryReadOnly)
}

func TestDeleteLegacyEntryHidesIt(t *testing.T) {
	s := newTestService(t)
	ownerID := uuid.New()
	paid := 150.0
	seedProfit(t, s.DB, ownerID, 300, time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC), func(p *domain.Profit) {
		p.PartnerPaid = &paid
	})

	entries, err := s.List(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, s.Delete(context.Background(), ownerID, domain.LegacyID(ownerID)))

	entries, err = s.List(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	st, err := s.Settings.Get(context.Background(), ownerID)
	require.NoError(t, err)
	assert.True(t, st.HideLegacyDistribution)
}

func TestUpdateAndDeleteRemoteEntry(t *testing.T) {
	s := newTestService(t)
	ownerID := uuid.New()
	entry := domain.Distribution{OwnerID: ownerID, AmountEGP: 100, AppliedEGP: 100, Date: time.Now()}
	require.NoError(t, s.Remote.Create(context.Background(), &entry))

	patch := EntryPatch{AmountEGP: 80, AppliedEGP: 80, Note: "corrected", Date: entry.Date}
	require.NoError(t, s.Update(context.Background(), ownerID, entry.DistID, patch))

	rows, err := s.Remote.List(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.InDelta(t, 80, rows[0].AmountEGP, share.Epsilon)
	assert.Equal(t, "corrected", rows[0].Note)

	require.NoError(t, s.Delete(context.Background(), ownerID, entry.DistID))
	assert.ErrorIs(t, s.Delete(context.Background(), ownerID, entry.DistID), ErrEntryNotFound)
}

func TestUpdateRoutesLocalPrefixToCache(t *testing.T) {
	s := newTestService(t)
	ownerID := uuid.New()
	entry := domain.Distribution{DistID: domain.NewLocalID(), OwnerID: ownerID, AmountEGP: 60, AppliedEGP: 60, Date: time.Now()}
	require.NoError(t, s.Local.Create(context.Background(), &entry))

	require.NoError(t, s.Update(context.Background(), ownerID, entry.DistID, EntryPatch{AmountEGP: 45, AppliedEGP: 45, Date: entry.Date}))

	rows, err := s.Local.List(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.InDelta(t, 45, rows[0].AmountEGP, share.Epsilon)

	var remoteCount int64
	require.NoError(t, s.DB.Model(&domain.Distribution{}).Count(&remoteCount).Error)
	assert.Equal(t, int64(0), remoteCount)
}

// denyingStore simulates a remote tier that rejects every operation with the
// Postgres insufficient_privilege error.
type denyingStore struct{}

func (denyingStore) deny() error {
	return &pgconn.PgError{Code: "42501", Message: "permission denied for table PartnerDistributions"}
}

func (d denyingStore) List(context.Context, uuid.UUID) ([]domain.Distribution, error) {
	return nil, d.deny()
}

func (d denyingStore) Create(context.Context, *domain.Distribution) error { return d.deny() }

func (d denyingStore) Update(context.Context, uuid.UUID, string, EntryPatch) (int64, error) {
	return 0, d.deny()
}

func (d denyingStore) Delete(context.Context, uuid.UUID, string) (int64, error) {
	return 0, d.deny()
}

func TestPermissionDeniedFallsBackToLocalCache(t *testing.T) {
	s := newTestService(t)
	s.Remote = denyingStore{}
	ownerID := uuid.New()
	seedProfit(t, s.DB, ownerID, 100, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), nil)

	out, err := s.DistributeMonthly(context.Background(), ownerID, DistributeInput{AmountEGP: 50})
	require.NoError(t, err)
	assert.True(t, domain.IsLocalID(out.EntryID))

	entries, err := s.List(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.SourceLocal, entries[0].Source)
	assert.InDelta(t, 50, entries[0].AppliedEGP, share.Epsilon)

	// The record update still lands even though the ledger write was denied.
	var got domain.Profit
	require.NoError(t, s.DB.First(&got, "owner_id = ?", ownerID).Error)
	require.NotNil(t, got.PartnerPaid)
	assert.InDelta(t, 50, *got.PartnerPaid, share.Epsilon)
}

func TestIsPermissionDenied(t *testing.T) {
	assert.False(t, IsPermissionDenied(nil))
	assert.False(t, IsPermissionDenied(gorm.ErrRecordNotFound))
	assert.True(t, IsPermissionDenied(&pgconn.PgError{Code: "42501"}))
	assert.True(t, IsPermissionDenied(denyingStore{}.deny()))
}
