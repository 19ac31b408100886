package settings

import (
	"context"
	"errors"
	"math"
	"testing"

	"wealthcircle-backend/internal/domain"
	"wealthcircle-backend/internal/pkg/currency"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSettingsTest(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Settings{}))
	return &Service{DB: db}
}

func TestGetReturnsDefaultsWithoutRow(t *testing.T) {
	s := setupSettingsTest(t)

	st, err := s.Get(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, "EGP", st.BaseCurrency)
	assert.InDelta(t, 0.5, st.PartnerSplitRatio, 0.0001)
	assert.InDelta(t, 2.0, st.BankBenchmark, 0.0001)
	assert.InDelta(t, 50.5, st.ExchangeRates["USD"], 0.0001)
	assert.False(t, st.HideLegacyDistribution)
}

func TestRatioClamps(t *testing.T) {
	assert.InDelta(t, 1, Values{PartnerSplitRatio: 1.7}.Ratio(), 0.0001)
	assert.InDelta(t, 0, Values{PartnerSplitRatio: -0.3}.Ratio(), 0.0001)
	assert.InDelta(t, 0.5, Values{PartnerSplitRatio: math.NaN()}.Ratio(), 0.0001)
	assert.InDelta(t, 0.5, Values{PartnerSplitRatio: math.Inf(1)}.Ratio(), 0.0001)
	assert.InDelta(t, 0.3, Values{PartnerSplitRatio: 0.3}.Ratio(), 0.0001)
}

func TestUpdatePersistsPatch(t *testing.T) {
	s := setupSettingsTest(t)
	ownerID := uuid.New()

	ratio := 0.4
	bench := 1.5
	st, err := s.Update(context.Background(), ownerID, UpdateInput{
		PartnerSplitRatio: &ratio,
		BankBenchmark:     &bench,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.4, st.PartnerSplitRatio, 0.0001)
	assert.InDelta(t, 1.5, st.BankBenchmark, 0.0001)

	got, err := s.Get(context.Background(), ownerID)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, got.PartnerSplitRatio, 0.0001)
}

func TestHideLegacyDistributionIsOneWay(t *testing.T) {
	s := setupSettingsTest(t)
	ownerID := uuid.New()

	hide := true
	st, err := s.Update(context.Background(), ownerID, UpdateInput{HideLegacyDistribution: &hide})
	require.NoError(t, err)
	assert.True(t, st.HideLegacyDistribution)

	// Sending false does not unhide.
	show := false
	st, err = s.Update(context.Background(), ownerID, UpdateInput{HideLegacyDistribution: &show})
	require.NoError(t, err)
	assert.True(t, st.HideLegacyDistribution)
}

func TestHideLegacyEntry(t *testing.T) {
	s := setupSettingsTest(t)
	ownerID := uuid.New()

	require.NoError(t, s.HideLegacyEntry(context.Background(), ownerID))

	st, err := s.Get(context.Background(), ownerID)
	require.NoError(t, err)
	assert.True(t, st.HideLegacyDistribution)
}

// stubRatesClient returns a fixed rate table or an error.
type stubRatesClient struct {
	rates map[string]float64
	err   error
}

func (s stubRatesClient) Fetch(context.Context) (map[string]float64, error) {
	return s.rates, s.err
}

func TestSyncRatesMergesFetchedCodes(t *testing.T) {
	s := setupSettingsTest(t)
	s.Rates = stubRatesClient{rates: map[string]float64{
		"USD": 48.7,
		"SAR": 13.0,
		"EGP": 1,  // accounting currency, skipped
		"XXX": -4, // non-positive, skipped
	}}
	ownerID := uuid.New()

	// Manually stored code the API does not know.
	manual := currency.Rates{"USD": 50.5, "KWD": 158.0}
	_, err := s.Update(context.Background(), ownerID, UpdateInput{ExchangeRates: &manual})
	require.NoError(t, err)

	st, err := s.SyncRates(context.Background(), ownerID)
	require.NoError(t, err)

	assert.InDelta(t, 48.7, st.ExchangeRates["USD"], 0.0001)
	assert.InDelta(t, 13.0, st.ExchangeRates["SAR"], 0.0001)
	assert.InDelta(t, 158.0, st.ExchangeRates["KWD"], 0.0001)
	assert.NotContains(t, st.ExchangeRates, "EGP")
	assert.NotContains(t, st.ExchangeRates, "XXX")
	require.NotNil(t, st.RatesSyncedAt)
}

func TestSyncRatesPropagatesFetchError(t *testing.T) {
	s := setupSettingsTest(t)
	s.Rates = stubRatesClient{err: errors.New("upstream down")}

	_, err := s.SyncRates(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestSyncRatesNoClientIsNoop(t *testing.T) {
	s := setupSettingsTest(t)

	st, err := s.SyncRates(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, st.RatesSyncedAt)
}
