package services

import (
	"sort"
	"strings"
	"time"

	"github.com/oceanbreeze-dev/orgcert-backend/models"
)

// QueryService filters and annotates snapshot records. All methods are pure
// with respect to the snapshot: records are copied into annotated values,
// never mutated in place.
type QueryService struct{}

// NewQueryService creates a new query service instance
func NewQueryService() *QueryService {
	return &QueryService{}
}

// SearchResult is the outcome of a free-text search over a snapshot.
type SearchResult struct {
	Items  []models.AnnotatedRecord
	Counts models.ValidityCounts
}

// LookupResult is the outcome of a single-certificate lookup. Found=false is
// a valid outcome, not an error.
type LookupResult struct {
	Found      bool
	Item       *models.AnnotatedRecord
	ExpiryDate string // human-readable to-date of the picked record, "" if absent
}

// Search filters records by institution and free-text keyword, then
// annotates each survivor with its validity state and human-readable dates.
// Counts aggregate over the returned set, not the full snapshot.
func (s *QueryService) Search(records []models.CertificationRecord, keyword, institution string, reference time.Time) *SearchResult {
	filtered := filterByInstitution(records, institution)

	if k := safeLower(keyword); k != "" {
		var kept []models.CertificationRecord
		for _, record := range filtered {
			if strings.Contains(buildHaystack(record), k) {
				kept = append(kept, record)
			}
		}
		filtered = kept
	}

	result := &SearchResult{Items: make([]models.AnnotatedRecord, 0, len(filtered))}
	for _, record := range filtered {
		annotated := annotate(record, reference)
		result.Items = append(result.Items, annotated)

		result.Counts.RowsTotal++
		switch annotated.Validity {
		case models.ValidityValid:
			result.Counts.RowsValid++
		case models.ValidityUnknown:
			result.Counts.RowsUnknown++
		case models.ValidityExpired:
			result.Counts.RowsExpired++
		case models.ValidityFuture:
			result.Counts.RowsFuture++
		}
	}
	return result
}

// Lookup resolves one record for a certificate number. The institution
// filter applies first, then candidates are matched by exact (trimmed)
// certno. With several candidates the one with the latest parseable
// validity-from date wins; unparseable from-dates rank as 1900-01-01 so they
// always sort last, and identical from-dates keep the upstream's own order.
func (s *QueryService) Lookup(records []models.CertificationRecord, certno, institution string, reference time.Time) *LookupResult {
	filtered := filterByInstitution(records, institution)

	wanted := strings.TrimSpace(certno)
	var candidates []models.CertificationRecord
	for _, record := range filtered {
		if strings.TrimSpace(record.Certno) == wanted {
			candidates = append(candidates, record)
		}
	}

	if len(candidates) == 0 {
		return &LookupResult{Found: false}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return fromDateOrSentinel(candidates[i]).After(fromDateOrSentinel(candidates[j]))
	})

	annotated := annotate(candidates[0], reference)
	return &LookupResult{
		Found:      true,
		Item:       &annotated,
		ExpiryDate: annotated.VDateToISO,
	}
}

func fromDateOrSentinel(record models.CertificationRecord) time.Time {
	if d, ok := ParseCertDate(record.VDateFrom); ok {
		return d
	}
	return sentinelDate
}

func annotate(record models.CertificationRecord, reference time.Time) models.AnnotatedRecord {
	return models.AnnotatedRecord{
		CertificationRecord: record,
		Validity:            ClassifyValidity(record.VDateFrom, record.VDateTo, reference),
		VDateFromISO:        FormatCertDate(record.VDateFrom),
		VDateToISO:          FormatCertDate(record.VDateTo),
	}
}

func filterByInstitution(records []models.CertificationRecord, institution string) []models.CertificationRecord {
	k := safeLower(institution)
	if k == "" {
		return records
	}
	var kept []models.CertificationRecord
	for _, record := range records {
		if strings.Contains(safeLower(record.Jisoknm), k) {
			kept = append(kept, record)
		}
	}
	return kept
}

// buildHaystack concatenates every textual field of a record for
// case-insensitive substring search.
func buildHaystack(record models.CertificationRecord) string {
	return strings.ToLower(strings.Join([]string{
		record.Jisoknm,
		record.Codeknm,
		record.Goodknm,
		record.Certno,
		record.Custkfirm,
		record.Headknm,
		record.Jisokaddr,
		record.Tel,
	}, " "))
}

func safeLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
