package distributions

import (
	"sort"
	"time"

	"wealthcircle-backend/internal/application/settings"
	"wealthcircle-backend/internal/domain"
	"wealthcircle-backend/internal/pkg/currency"
	"wealthcircle-backend/internal/pkg/share"

	"github.com/google/uuid"
)

// legacyNote explains where the synthetic catch-up entry comes from.
const legacyNote = "Payments recorded before the distribution ledger was introduced"

// Reconcile compares what the ledger has logged against what the profit
// records say was actually paid, and synthesizes one legacy entry absorbing
// the difference. Legacy payments exist only as per-record paid amounts on
// rows that predate the ledger, so without this step the ledger would
// under-report history.
//
// Pure derivation over already-loaded data; the synthetic entry is never
// persisted and disappears by itself once real entries cover the full paid
// total.
func Reconcile(ownerID uuid.UUID, records []domain.Profit, entries []domain.Distribution, st settings.Values) []domain.Distribution {
	if st.HideLegacyDistribution {
		return entries
	}

	var totalLogged float64
	for i := range entries {
		if domain.IsLegacyID(entries[i].DistID) {
			continue
		}
		totalLogged += entries[i].AppliedEGP
	}

	ratio := st.Ratio()
	var totalPaid float64
	var paidRecords int
	var latest time.Time
	for i := range records {
		p := &records[i]
		d := share.Calculate(p, ratio)
		if d.PartnerPaid <= share.Epsilon {
			continue
		}
		totalPaid += currency.ToAccounting(d.PartnerPaid, p.Currency, st.ExchangeRates)
		paidRecords++

		when := p.Date
		if p.DistributedAt != nil {
			when = *p.DistributedAt
		}
		if when.After(latest) {
			latest = when
		}
	}

	diff := totalPaid - totalLogged
	if diff <= share.Epsilon {
		return entries
	}

	if latest.IsZero() {
		latest = time.Now()
	}
	legacy := domain.Distribution{
		DistID:          domain.LegacyID(ownerID),
		OwnerID:         ownerID,
		AmountEGP:       diff,
		AppliedEGP:      diff,
		UnappliedEGP:    0,
		AffectedRecords: paidRecords,
		Note:            legacyNote,
		Source:          domain.SourceLegacy,
		Date:            latest,
		CreatedAt:       latest,
	}
	return append(entries, legacy)
}

func sortByDateDesc(entries []domain.Distribution) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
}

// mergeByID combines the two ledger tiers; on id conflict the remote row
// wins over the cached copy.
func mergeByID(remote, local []domain.Distribution) []domain.Distribution {
	merged := make(map[string]domain.Distribution, len(remote)+len(local))
	for _, e := range local {
		merged[e.DistID] = e
	}
	for _, e := range remote {
		merged[e.DistID] = e
	}
	out := make([]domain.Distribution, 0, len(merged))
	for _, e := range merged {
		out = append(out, e)
	}
	return out
}
