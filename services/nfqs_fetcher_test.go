package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanbreeze-dev/orgcert-backend/config"
	"github.com/oceanbreeze-dev/orgcert-backend/shared"
)

const sampleUpstreamXML = `<?xml version="1.0" encoding="UTF-8"?>
<response>
  <header>
    <resultCode>00</resultCode>
    <resultMsg>NORMAL SERVICE.</resultMsg>
  </header>
  <body>
    <items>
      <item>
        <jisoknm>(유)오가닉티앤씨</jisoknm>
        <codeknm>친환경수산물</codeknm>
        <goodknm>미역</goodknm>
        <certno>104-0153</certno>
        <custkfirm>해조류영어조합</custkfirm>
        <headknm>본사</headknm>
        <resino>123-45-67890</resino>
        <tel>061-000-0000</tel>
        <jisokaddr>전라남도 완도군</jisokaddr>
        <vdatefrom>20240101</vdatefrom>
        <vdateto>20261231</vdateto>
      </item>
      <item>
        <jisoknm>한국어촌어항공단</jisoknm>
        <certno>205-0001</certno>
      </item>
    </items>
  </body>
</response>`

func newTestFetcher(serverURL string) *NFQSFetcher {
	cfg := &config.FetcherConfig{
		BaseURL:     serverURL,
		CertKey:     "test-key",
		HTTPTimeout: 5 * time.Second,
	}
	return NewNFQSFetcher(cfg, shared.NewHTTPClientFactory(cfg.HTTPTimeout))
}

func TestFetchParsesUpstreamDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("cert_key"))
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(sampleUpstreamXML))
	}))
	defer server.Close()

	result, err := newTestFetcher(server.URL).Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "00", result.ResultCode)
	assert.Equal(t, "NORMAL SERVICE.", result.ResultMsg)
	require.Len(t, result.Records, 2)

	first := result.Records[0]
	assert.Equal(t, "(유)오가닉티앤씨", first.Jisoknm)
	assert.Equal(t, "104-0153", first.Certno)
	assert.Equal(t, "123-45-67890", first.Resino)
	assert.Equal(t, "20240101", first.VDateFrom)
	assert.Equal(t, "20261231", first.VDateTo)

	// Missing elements come through as empty strings, not errors
	second := result.Records[1]
	assert.Equal(t, "", second.Goodknm)
	assert.Equal(t, "", second.VDateFrom)
}

func TestFetchSurfacesUpstreamFailureCodeWithoutError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<response><header><resultCode>30</resultCode><resultMsg>SERVICE KEY IS NOT REGISTERED ERROR.</resultMsg></header></response>`))
	}))
	defer server.Close()

	result, err := newTestFetcher(server.URL).Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "30", result.ResultCode)
	assert.Equal(t, "SERVICE KEY IS NOT REGISTERED ERROR.", result.ResultMsg)
	assert.False(t, result.Succeeded())
	assert.Empty(t, result.Records)
}

func TestFetchNon200IsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestFetcher(server.URL).Fetch(context.Background())

	require.Error(t, err)
	var serviceErr *shared.ServiceError
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, shared.ErrorCategoryNetwork, serviceErr.Category)
	assert.Equal(t, shared.ResultCodeFetchFailed, shared.ResultCode(err))
}

func TestFetchConnectionErrorIsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	_, err := newTestFetcher(server.URL).Fetch(context.Background())

	require.Error(t, err)
	assert.Equal(t, shared.ResultCodeFetchFailed, shared.ResultCode(err))
}

func TestFetchPayloadWithoutHeaderIsParseFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>maintenance page</body></html>`))
	}))
	defer server.Close()

	_, err := newTestFetcher(server.URL).Fetch(context.Background())

	require.Error(t, err)
	var serviceErr *shared.ServiceError
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, shared.ErrorCategoryProcessing, serviceErr.Category)
	assert.Equal(t, shared.ResultCodeParseFailed, shared.ResultCode(err))
}
