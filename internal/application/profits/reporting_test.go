package profits

import (
	"testing"
	"time"

	"wealthcircle-backend/internal/application/settings"
	"wealthcircle-backend/internal/domain"
	"wealthcircle-backend/internal/pkg/share"

	"github.com/stretchr/testify/assert"
)

func profitRow(net, workingCapital float64, paid *float64, code string, date time.Time) domain.Profit {
	return domain.Profit{
		NetProfit:      net,
		WorkingCapital: workingCapital,
		PartnerPaid:    paid,
		Currency:       code,
		Date:           date,
	}
}

func TestSummarizeRollsUpShares(t *testing.T) {
	st := settings.Defaults()
	paid := 100.0
	records := []domain.Profit{
		profitRow(1000, 10000, &paid, "EGP", time.Now()),
		profitRow(500, 0, nil, "EGP", time.Now()),
	}

	r := Summarize(records, st)

	assert.InDelta(t, 1500, r.TotalNetProfit, share.Epsilon)
	assert.InDelta(t, 750, r.TotalPartnerShare, share.Epsilon)
	assert.InDelta(t, 750, r.MyTotalShare, share.Epsilon)
	assert.InDelta(t, 100, r.TotalDistributedToPartner, share.Epsilon)
	assert.InDelta(t, 650, r.UndistributedPartnerShare, share.Epsilon)
	// Only the first record has a usable capital base: 1000/10000 = 10%.
	assert.InDelta(t, 10, r.AverageROCE, share.Epsilon)
}

func TestSummarizeIsPure(t *testing.T) {
	st := settings.Defaults()
	paid := 50.0
	records := []domain.Profit{profitRow(300, 1000, &paid, "EGP", time.Now())}

	first := Summarize(records, st)
	second := Summarize(records, st)
	assert.Equal(t, first, second)
}

func TestSummarizeConvertsCurrencies(t *testing.T) {
	st := settings.Defaults() // USD at 50.5
	records := []domain.Profit{profitRow(10, 0, nil, "USD", time.Now())}

	r := Summarize(records, st)
	assert.InDelta(t, 505, r.TotalNetProfit, share.Epsilon)
	assert.InDelta(t, 252.5, r.TotalPartnerShare, share.Epsilon)
}

func TestMonthlySeriesGroupsAscending(t *testing.T) {
	st := settings.Defaults()
	records := []domain.Profit{
		profitRow(100, 0, nil, "EGP", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)),
		profitRow(50, 0, nil, "EGP", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)),
		profitRow(75, 0, nil, "EGP", time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)),
	}

	series := MonthlySeries(records, st)

	assert.Len(t, series, 2)
	assert.Equal(t, "2025-01", series[0].Month)
	assert.InDelta(t, 125, series[0].ValueEGP, share.Epsilon)
	assert.Equal(t, "2025-03", series[1].Month)
	assert.InDelta(t, 100, series[1].ValueEGP, share.Epsilon)
}

func TestBenchmarkUsesMeanWorkingCapital(t *testing.T) {
	st := settings.Defaults() // bank benchmark 2% monthly
	records := []domain.Profit{
		profitRow(1000, 10000, nil, "EGP", time.Now()),
		profitRow(500, 30000, nil, "EGP", time.Now()),
	}

	b := CompareToBankBenchmark(records, nil, st, 1)

	assert.InDelta(t, 20000, b.CapitalBase, share.Epsilon)
	assert.InDelta(t, 400, b.BankProfit, share.Epsilon)
	assert.InDelta(t, 1500, b.MyProfit, share.Epsilon)
	assert.True(t, b.BeatBank)
	assert.InDelta(t, 275, b.PercentageBetter, share.Epsilon)
}

func TestBenchmarkFallsBackToPortfolioCapital(t *testing.T) {
	st := settings.Defaults()
	records := []domain.Profit{profitRow(100, 0, nil, "EGP", time.Now())}
	portfolios := []domain.Portfolio{
		{InitialCapital: 5000, TotalDeposits: 1000, TotalWithdrawals: 500, Currency: "EGP"},
	}

	b := CompareToBankBenchmark(records, portfolios, st, 2)

	assert.InDelta(t, 5500, b.CapitalBase, share.Epsilon)
	assert.InDelta(t, 220, b.BankProfit, share.Epsilon)
	assert.InDelta(t, 2, b.Months, share.Epsilon)
}

func TestBenchmarkClampsMonths(t *testing.T) {
	st := settings.Defaults()
	records := []domain.Profit{profitRow(100, 1000, nil, "EGP", time.Now())}

	b := CompareToBankBenchmark(records, nil, st, 0)
	assert.InDelta(t, 1, b.Months, share.Epsilon)
}
