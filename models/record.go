package models

import (
	"time"

	"github.com/google/uuid"
)

// Validity states derived from a record's date range against a reference date.
// Never stored; recomputed at response time so a cached snapshot can yield
// different states on different days.
const (
	ValidityValid   = "VALID"
	ValidityExpired = "EXPIRED"
	ValidityFuture  = "FUTURE"
	ValidityUnknown = "UNKNOWN"
)

// CertificationRecord is one row of the upstream organic-fishery
// certification feed. All fields are upstream-controlled strings and may be
// empty. Certno is the natural lookup key but is NOT unique: duplicates
// represent historical or amended entries. JSON tags preserve the upstream
// field names.
type CertificationRecord struct {
	Jisoknm   string `json:"jisoknm"`   // certifying institution name
	Codeknm   string `json:"codeknm"`   // certification code name
	Goodknm   string `json:"goodknm"`   // product name
	Certno    string `json:"certno"`    // certificate number
	Custkfirm string `json:"custkfirm"` // company name
	Headknm   string `json:"headknm"`   // head-office name
	Resino    string `json:"resino"`    // registration number
	Tel       string `json:"tel"`
	Jisokaddr string `json:"jisokaddr"` // address
	VDateFrom string `json:"vdatefrom"` // validity-from token, YYYYMMDD or empty
	VDateTo   string `json:"vdateto"`   // validity-to token, YYYYMMDD or empty
}

// Snapshot is the complete, atomically-replaced set of records held by the
// store at a point in time. Records are immutable once fetched; a snapshot is
// only ever superseded as a whole.
type Snapshot struct {
	ID         uuid.UUID
	Records    []CertificationRecord
	FetchedAt  time.Time
	ResultCode string
	ResultMsg  string
}

// AnnotatedRecord is a CertificationRecord decorated with its derived
// validity state and human-readable date renderings for responses.
type AnnotatedRecord struct {
	CertificationRecord
	Validity     string `json:"_validity"`
	VDateFromISO string `json:"vdatefrom_iso"`
	VDateToISO   string `json:"vdateto_iso"`
}

// ValidityCounts aggregates validity states over a returned result set (not
// over the full snapshot).
type ValidityCounts struct {
	RowsTotal   int `json:"rows_total"`
	RowsValid   int `json:"rows_valid"`
	RowsUnknown int `json:"rows_unknown"`
	RowsExpired int `json:"rows_expired"`
	RowsFuture  int `json:"rows_future"`
}
