package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oceanbreeze-dev/orgcert-backend/models"
	"github.com/oceanbreeze-dev/orgcert-backend/shared"
)

// cachedResultMsg tags responses served without contacting the upstream.
const cachedResultMsg = "CACHED"

// RecordStore holds the most recently fetched snapshot of certification
// records and decides, per request, whether to reuse it or refresh from
// upstream. A single coarse mutex covers the whole read-check-refresh-swap
// sequence, so concurrent forced refreshes cannot race stale data over fresh
// and readers never observe a torn snapshot.
//
// A failed refresh never touches the stored snapshot or its timestamp: stale
// data stays available for the next eligible cache hit rather than being
// wiped.
type RecordStore struct {
	fetcher Fetcher
	ttl     time.Duration
	metrics *shared.Metrics

	mutex     sync.Mutex
	snapshot  *models.Snapshot // nil until the first successful fetch
	fetchedAt time.Time
	now       func() time.Time
}

// NewRecordStore creates a snapshot store with the given TTL. The clock is
// time.Now; tests swap it via WithClock.
func NewRecordStore(fetcher Fetcher, ttl time.Duration, metrics *shared.Metrics) *RecordStore {
	return &RecordStore{
		fetcher: fetcher,
		ttl:     ttl,
		metrics: metrics,
		now:     time.Now,
	}
}

// WithClock replaces the store's clock and returns the store. Intended for
// deterministic tests.
func (s *RecordStore) WithClock(now func() time.Time) *RecordStore {
	s.now = now
	return s
}

// Get returns the current records together with a result code/message.
//
// With force false, a non-empty snapshot younger than the TTL is returned
// as-is, tagged "00"/"CACHED". Otherwise the upstream is fetched: an empty
// store always counts as a cache miss, even on the first-ever call. On
// upstream-reported failure the upstream's own code/message come back
// verbatim with no records; on transport or parse failure the synthetic
// "99"/"98" codes are used. In every failure case the previously stored
// snapshot and timestamp remain untouched.
func (s *RecordStore) Get(ctx context.Context, force bool) *FetchResult {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	if !force && s.snapshot != nil && len(s.snapshot.Records) > 0 && now.Sub(s.fetchedAt) < s.ttl {
		if s.metrics != nil {
			s.metrics.CacheHits.Inc()
		}
		return &FetchResult{
			ResultCode: shared.ResultCodeSuccess,
			ResultMsg:  cachedResultMsg,
			Records:    s.snapshot.Records,
		}
	}

	result, err := s.fetcher.Fetch(ctx)
	if err != nil {
		if se, ok := err.(*shared.ServiceError); ok {
			se.LogError()
		} else {
			logrus.WithError(err).Error("Upstream fetch failed")
		}
		code := shared.ResultCode(err)
		outcome := shared.FetchOutcomeTransport
		if code == shared.ResultCodeParseFailed {
			outcome = shared.FetchOutcomeParse
		}
		s.countFetch(outcome)
		return &FetchResult{
			ResultCode: code,
			ResultMsg:  err.Error(),
		}
	}

	if !result.Succeeded() {
		// Upstream reachable but reported failure: pass its code/message
		// through and keep whatever snapshot we already had.
		logrus.WithFields(logrus.Fields{
			"component":   "RecordStore",
			"result_code": result.ResultCode,
			"result_msg":  result.ResultMsg,
		}).Warn("Upstream reported non-success result")
		s.countFetch(shared.FetchOutcomeUpstream)
		return &FetchResult{
			ResultCode: result.ResultCode,
			ResultMsg:  result.ResultMsg,
		}
	}

	snapshot := &models.Snapshot{
		ID:         uuid.New(),
		Records:    result.Records,
		FetchedAt:  now,
		ResultCode: result.ResultCode,
		ResultMsg:  result.ResultMsg,
	}
	s.snapshot = snapshot
	s.fetchedAt = now
	s.countFetch(shared.FetchOutcomeSuccess)
	if s.metrics != nil {
		s.metrics.SnapshotSize.Set(float64(len(snapshot.Records)))
	}

	logrus.WithFields(logrus.Fields{
		"component":   "RecordStore",
		"snapshot_id": snapshot.ID,
		"records":     len(snapshot.Records),
	}).Info("Installed new snapshot")

	return result
}

func (s *RecordStore) countFetch(outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.UpstreamFetch.WithLabelValues(outcome).Inc()
}
