// Package share computes the partner-split breakdown for a single profit
// record. It is the single source of truth for these quantities: the monthly
// allocator and every reporting rollup go through Calculate, nothing else
// recomputes them.
package share

import (
	"math"

	"wealthcircle-backend/internal/domain"
)

// Epsilon is the tolerance used when comparing monetary amounts.
const Epsilon = 0.0001

// Details is the share breakdown of one profit record, in the record's
// native currency.
type Details struct {
	NetProfit                  float64 `json:"net_profit"`
	ExpectedPartnerShare       float64 `json:"expected_partner_share"`
	PartnerPaid                float64 `json:"partner_paid"`
	PartnerPending             float64 `json:"partner_pending"`
	MyShare                    float64 `json:"my_share"`
	RemainingAfterDistribution float64 `json:"remaining_after_distribution"`
}

// Calculate derives the share breakdown against the current partner ratio.
// Pure and side-effect free; the ratio is always passed in, never read from
// settings here.
//
// Paid amount resolution: an explicit PartnerPaid value wins; otherwise a
// legacy row flagged Distributed is assumed fully paid at its stored split
// snapshot (or at the freshly computed expected share if no snapshot exists);
// otherwise nothing has been paid.
func Calculate(p *domain.Profit, ratio float64) Details {
	expected := math.Max(0, p.NetProfit) * ratio
	paid := paidAmount(p, expected)

	return Details{
		NetProfit:                  p.NetProfit,
		ExpectedPartnerShare:       expected,
		PartnerPaid:                paid,
		PartnerPending:             math.Max(0, expected-paid),
		MyShare:                    p.NetProfit - expected,
		RemainingAfterDistribution: p.NetProfit - paid,
	}
}

func paidAmount(p *domain.Profit, expected float64) float64 {
	if p.PartnerPaid != nil {
		return math.Max(0, *p.PartnerPaid)
	}
	if p.Distributed {
		if p.PartnerSplit != nil {
			return math.Max(0, *p.PartnerSplit)
		}
		return expected
	}
	return 0
}
