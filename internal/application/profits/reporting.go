package profits

import (
	"math"
	"sort"

	"wealthcircle-backend/internal/application/settings"
	"wealthcircle-backend/internal/domain"
	"wealthcircle-backend/internal/pkg/currency"
	"wealthcircle-backend/internal/pkg/share"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report is the portfolio-wide partner-share rollup, all amounts in EGP.
// Every field is a sum of share.Calculate output; nothing here recomputes
// the split independently.
type Report struct {
	TotalNetProfit             float64 `json:"total_net_profit"`
	TotalPartnerShare          float64 `json:"total_partner_share"`
	MyTotalShare               float64 `json:"my_total_share"`
	TotalDistributedToPartner  float64 `json:"total_distributed_to_partner"`
	UndistributedPartnerShare  float64 `json:"undistributed_partner_share"`
	RemainingAfterDistribution float64 `json:"remaining_after_distribution"`
	AverageROCE                float64 `json:"average_roce"`
}

// Summarize folds the share breakdown of every record into one report.
// Pure: calling it twice over the same records yields identical results.
func Summarize(records []domain.Profit, st settings.Values) Report {
	ratio := st.Ratio()
	var out Report
	var roceTotal float64
	var roceCount int

	for i := range records {
		p := &records[i]
		d := share.Calculate(p, ratio)
		out.TotalNetProfit += currency.ToAccounting(d.NetProfit, p.Currency, st.ExchangeRates)
		out.TotalPartnerShare += currency.ToAccounting(d.ExpectedPartnerShare, p.Currency, st.ExchangeRates)
		out.MyTotalShare += currency.ToAccounting(d.MyShare, p.Currency, st.ExchangeRates)
		out.TotalDistributedToPartner += currency.ToAccounting(d.PartnerPaid, p.Currency, st.ExchangeRates)
		out.UndistributedPartnerShare += currency.ToAccounting(d.PartnerPending, p.Currency, st.ExchangeRates)
		out.RemainingAfterDistribution += currency.ToAccounting(d.RemainingAfterDistribution, p.Currency, st.ExchangeRates)

		// ROCE is a per-record ratio, so no conversion; records without a
		// usable capital base are excluded, not counted as zero.
		if p.WorkingCapital > 0 {
			roceTotal += p.NetProfit / p.WorkingCapital * 100
			roceCount++
		}
	}
	if roceCount > 0 {
		out.AverageROCE = roceTotal / float64(roceCount)
	}
	return out
}

// MonthPoint is one month's net profit in EGP, for the dashboard chart.
type MonthPoint struct {
	Month    string  `json:"month"` // YYYY-MM
	ValueEGP float64 `json:"value"`
}

// MonthlySeries groups net profits by calendar month, ascending.
func MonthlySeries(records []domain.Profit, st settings.Values) []MonthPoint {
	grouped := map[string]float64{}
	for i := range records {
		p := &records[i]
		key := p.Date.Format("2006-01")
		grouped[key] += currency.ToAccounting(p.NetProfit, p.Currency, st.ExchangeRates)
	}

	out := make([]MonthPoint, 0, len(grouped))
	for month, value := range grouped {
		out = append(out, MonthPoint{Month: month, ValueEGP: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// Benchmark compares realized profits against what the capital would have
// earned at the bank's monthly rate.
type Benchmark struct {
	CapitalBase      float64 `json:"capital_base"`
	Months           float64 `json:"months"`
	BankProfit       float64 `json:"bank_profit"`
	MyProfit         float64 `json:"my_profit"`
	Difference       float64 `json:"difference"`
	BeatBank         bool    `json:"beat_bank"`
	PercentageBetter float64 `json:"percentage_better"`
}

// CompareToBankBenchmark uses the mean of per-record working capitals (EGP)
// as the capital base when any record carries one, else the summed invested
// capital across portfolios.
func CompareToBankBenchmark(records []domain.Profit, portfolios []domain.Portfolio, st settings.Values, months float64) Benchmark {
	safeMonths := math.Max(1, months)
	monthlyRate := st.BankBenchmark / 100

	var capitalBase float64
	var capitalCount int
	for i := range records {
		p := &records[i]
		if p.WorkingCapital > 0 {
			capitalBase += currency.ToAccounting(p.WorkingCapital, p.Currency, st.ExchangeRates)
			capitalCount++
		}
	}
	if capitalCount > 0 {
		capitalBase /= float64(capitalCount)
	} else {
		for i := range portfolios {
			p := &portfolios[i]
			capitalBase += currency.ToAccounting(p.InvestedCapital(), p.Currency, st.ExchangeRates)
		}
	}

	myProfit := Summarize(records, st).TotalNetProfit
	bankProfit := capitalBase * monthlyRate * safeMonths

	out := Benchmark{
		CapitalBase: capitalBase,
		Months:      safeMonths,
		BankProfit:  bankProfit,
		MyProfit:    myProfit,
		Difference:  myProfit - bankProfit,
		BeatBank:    myProfit > bankProfit,
	}
	if bankProfit > 0 {
		out.PercentageBetter = (myProfit - bankProfit) / bankProfit * 100
	}
	return out
}

// ListAscending returns the owner's records oldest first; the allocator
// depends on this ordering to pay earlier profits before later ones.
func ListAscending(db *gorm.DB, ownerID uuid.UUID) ([]domain.Profit, error) {
	var rows []domain.Profit
	err := db.Where("owner_id = ?", ownerID).Order("date ASC").Find(&rows).Error
	return rows, err
}
