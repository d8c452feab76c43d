package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/oceanbreeze-dev/orgcert-backend/models"
)

func TestParseCertDateProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("Every real calendar date round-trips through its YYYYMMDD token", prop.ForAll(
		func(year, month, day int) bool {
			token := fmt.Sprintf("%04d%02d%02d", year, month, day)
			parsed, ok := ParseCertDate(token)
			if !ok {
				return false
			}
			return parsed.Year() == year && int(parsed.Month()) == month && parsed.Day() == day
		},
		gen.IntRange(1, 9999),
		gen.IntRange(1, 12),
		gen.IntRange(1, 28), // day 1-28 is a real date in every month
	))

	properties.Property("Tokens with a wrong length never parse", prop.ForAll(
		func(n int) bool {
			token := ""
			for i := 0; i < n; i++ {
				token += "1"
			}
			if n == 8 {
				return true // covered by the round-trip property
			}
			_, ok := ParseCertDate(token)
			return !ok
		},
		gen.IntRange(0, 16),
	))

	properties.Property("Impossible months never parse", prop.ForAll(
		func(year, month, day int) bool {
			token := fmt.Sprintf("%04d%02d%02d", year, month, day)
			_, ok := ParseCertDate(token)
			return !ok
		},
		gen.IntRange(1, 9999),
		gen.IntRange(13, 99),
		gen.IntRange(1, 28),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestParseCertDateRejectsMalformedTokens(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"2024010",    // too short
		"202401011",  // too long
		"2024-01-01", // separators
		"2024010a",   // non-digit
		"20240230",   // Feb 30
		"20241301",   // month 13
		"20240100",   // day 0
		"½0240101",   // non-ASCII digit
	}
	for _, token := range cases {
		_, ok := ParseCertDate(token)
		assert.False(t, ok, "token %q should not parse", token)
	}
}

func TestParseCertDateTrimsWhitespace(t *testing.T) {
	parsed, ok := ParseCertDate("  20240101 ")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), parsed)
}

func TestClassifyValidityProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	dateToken := func(d time.Time) string { return d.Format("20060102") }
	day := func(offset int) time.Time {
		return time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}

	properties.Property("Ordering of from/today/to fully determines the state", prop.ForAll(
		func(fromOff, toOff, todayOff int) bool {
			if toOff < fromOff {
				fromOff, toOff = toOff, fromOff
			}
			from, to, today := day(fromOff), day(toOff), day(todayOff)
			got := ClassifyValidity(dateToken(from), dateToken(to), today)
			switch {
			case today.Before(from):
				return got == models.ValidityFuture
			case today.After(to):
				return got == models.ValidityExpired
			default:
				return got == models.ValidityValid
			}
		},
		gen.IntRange(-500, 500),
		gen.IntRange(-500, 500),
		gen.IntRange(-500, 500),
	))

	properties.Property("An unparseable from-token forces UNKNOWN regardless of the to-token", prop.ForAll(
		func(junk string, toOff int) bool {
			if _, ok := ParseCertDate(junk); ok {
				return true
			}
			return ClassifyValidity(junk, dateToken(day(toOff)), day(0)) == models.ValidityUnknown
		},
		gen.AnyString(),
		gen.IntRange(-500, 500),
	))

	properties.Property("An unparseable to-token forces UNKNOWN regardless of the from-token", prop.ForAll(
		func(junk string, fromOff int) bool {
			if _, ok := ParseCertDate(junk); ok {
				return true
			}
			return ClassifyValidity(dateToken(day(fromOff)), junk, day(0)) == models.ValidityUnknown
		},
		gen.AnyString(),
		gen.IntRange(-500, 500),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestClassifyValidityBoundaries(t *testing.T) {
	reference := time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC)

	// Inclusive boundaries: today == from and today == to are both VALID
	assert.Equal(t, models.ValidityValid, ClassifyValidity("20250615", "20261231", reference))
	assert.Equal(t, models.ValidityValid, ClassifyValidity("20240101", "20250615", reference))

	assert.Equal(t, models.ValidityFuture, ClassifyValidity("20250616", "20261231", reference))
	assert.Equal(t, models.ValidityExpired, ClassifyValidity("20240101", "20250614", reference))
	assert.Equal(t, models.ValidityUnknown, ClassifyValidity("", "", reference))
}

func TestFormatCertDate(t *testing.T) {
	assert.Equal(t, "2026-12-31", FormatCertDate("20261231"))
	assert.Equal(t, "", FormatCertDate(""))
	assert.Equal(t, "", FormatCertDate("   "))
	// Unparseable non-empty tokens render as-is
	assert.Equal(t, "99999999", FormatCertDate("99999999"))
}
