// Package currency converts record amounts to and from the accounting
// currency using a settings-supplied rate table. Rates are passed in
// explicitly at every call site; there is no hidden global table.
package currency

// Accounting is the single currency all cross-record sums are normalized into.
const Accounting = "EGP"

// Rates maps a currency code to EGP per unit (e.g. {"USD": 50.5}).
type Rates map[string]float64

// ToAccounting converts amount from the given currency into EGP. An unknown
// or non-positive rate defaults to 1, so conversion never fails.
func ToAccounting(amount float64, code string, rates Rates) float64 {
	if code == Accounting || code == "" {
		return amount
	}
	return amount * rateOf(code, rates)
}

// FromAccounting converts an EGP amount into the given currency.
func FromAccounting(amount float64, code string, rates Rates) float64 {
	if code == Accounting || code == "" {
		return amount
	}
	return amount / rateOf(code, rates)
}

func rateOf(code string, rates Rates) float64 {
	if r, ok := rates[code]; ok && r > 0 {
		return r
	}
	return 1
}
