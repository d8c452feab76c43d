package services

import (
	"strings"
	"time"

	"github.com/oceanbreeze-dev/orgcert-backend/models"
)

// sentinelDate substitutes for an unparseable validity-from token when
// ranking duplicate certificate rows, so such rows always sort last.
var sentinelDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// ParseCertDate converts an 8-digit YYYYMMDD token into a calendar date.
// The token is trimmed first; anything that is not exactly 8 ASCII digits
// forming a real calendar date reports ok=false. Total: never returns an
// error for any input.
func ParseCertDate(token string) (time.Time, bool) {
	token = strings.TrimSpace(token)
	if len(token) != 8 {
		return time.Time{}, false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return time.Time{}, false
		}
	}
	d, err := time.ParseInLocation("20060102", token, time.UTC)
	if err != nil {
		// Digits that do not form a real date, e.g. month 13 or Feb 30
		return time.Time{}, false
	}
	return d, true
}

// FormatCertDate renders a YYYYMMDD token as YYYY-MM-DD for humans. Tokens
// that do not parse are passed through as-is; empty tokens render empty.
func FormatCertDate(token string) string {
	if d, ok := ParseCertDate(token); ok {
		return d.Format("2006-01-02")
	}
	return strings.TrimSpace(token)
}

// ClassifyValidity derives a record's validity state from its from/to tokens
// against a reference date. Either token failing to parse yields UNKNOWN:
// partial information is treated as no information. Boundaries are
// inclusive, so reference == from and reference == to both classify VALID.
func ClassifyValidity(fromToken, toToken string, reference time.Time) string {
	from, okFrom := ParseCertDate(fromToken)
	to, okTo := ParseCertDate(toToken)
	if !okFrom || !okTo {
		return models.ValidityUnknown
	}

	ref := truncateToDay(reference)
	if ref.Before(from) {
		return models.ValidityFuture
	}
	if ref.After(to) {
		return models.ValidityExpired
	}
	return models.ValidityValid
}

// truncateToDay drops the time-of-day component so classification compares
// whole calendar days, matching the granularity of the upstream tokens.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
