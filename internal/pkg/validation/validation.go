package validation

import (
	"math"
	"regexp"
	"time"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Currency codes are ISO-like: three uppercase letters.
var currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func IsValidCurrencyCode(code string) bool {
	return currencyRe.MatchString(code)
}

// IsValidAmount reports whether v is a usable non-negative monetary amount.
func IsValidAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// ParseDate accepts the date formats the frontend sends (date picker and
// full timestamps). Returns the zero time if none match.
func ParseDate(s string) time.Time {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}
