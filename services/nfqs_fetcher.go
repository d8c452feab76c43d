package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/sirupsen/logrus"

	"github.com/oceanbreeze-dev/orgcert-backend/config"
	"github.com/oceanbreeze-dev/orgcert-backend/models"
	"github.com/oceanbreeze-dev/orgcert-backend/shared"
)

// FetchResult is one parsed upstream response: the upstream's own result
// code/message surfaced unchanged, plus the flat record rows. A non-"00"
// ResultCode means the upstream was reachable but reported a failure.
type FetchResult struct {
	ResultCode string
	ResultMsg  string
	Records    []models.CertificationRecord
}

// Succeeded reports whether the upstream signalled success.
func (r *FetchResult) Succeeded() bool {
	return r.ResultCode == shared.ResultCodeSuccess
}

// Fetcher retrieves the current certification records from the upstream API.
// A returned error is transport- or payload-level (the upstream never
// produced an interpretable response); upstream-reported failures come back
// as a FetchResult with a non-"00" code and a nil error.
type Fetcher interface {
	Fetch(ctx context.Context) (*FetchResult, error)
}

// NFQSFetcher calls the NFQS organic-fishery certification endpoint and
// parses its XML payload.
type NFQSFetcher struct {
	cfg    *config.FetcherConfig
	client *http.Client
}

// NewNFQSFetcher creates an upstream fetcher using a pooled HTTP client
// bounded by the configured request timeout.
func NewNFQSFetcher(cfg *config.FetcherConfig, clients *shared.HTTPClientFactory) *NFQSFetcher {
	return &NFQSFetcher{
		cfg:    cfg,
		client: clients.CreateOptimizedHTTPClient(cfg.HTTPTimeout),
	}
}

// Fetch performs one GET against the upstream endpoint and parses the
// response body. No retries: the snapshot cache in front of this call is the
// only request shield.
func (f *NFQSFetcher) Fetch(ctx context.Context) (*FetchResult, error) {
	requestURL := f.cfg.BaseURL + "?" + url.Values{"cert_key": {f.cfg.CertKey}}.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, shared.NewServiceError(shared.ErrorCategoryConfiguration, "BAD_REQUEST",
			fmt.Sprintf("building upstream request: %v", err), "Fetch", err)
	}
	request.Header.Set("Accept", "application/xml")

	started := time.Now()
	response, err := f.client.Do(request)
	if err != nil {
		category := shared.ErrorCategoryNetwork
		var netErr net.Error
		if (errors.As(err, &netErr) && netErr.Timeout()) || errors.Is(err, context.DeadlineExceeded) {
			category = shared.ErrorCategoryTimeout
		}
		return nil, shared.NewServiceError(category, "FETCH_FAILED",
			fmt.Sprintf("upstream request failed: %v", err), "Fetch", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, shared.NewServiceError(shared.ErrorCategoryNetwork, "FETCH_FAILED",
			fmt.Sprintf("upstream returned HTTP %d", response.StatusCode), "Fetch", nil)
	}

	result, err := parseUpstreamXML(response.Body)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"component":   "NFQSFetcher",
		"result_code": result.ResultCode,
		"records":     len(result.Records),
		"duration":    time.Since(started),
	}).Debug("Upstream fetch completed")

	return result, nil
}

// parseUpstreamXML extracts header/resultCode, header/resultMsg and the
// body/items/item rows from the upstream document. A document without the
// header element is treated as malformed.
func parseUpstreamXML(body io.Reader) (*FetchResult, error) {
	doc, err := xmlquery.Parse(body)
	if err != nil {
		return nil, shared.NewServiceError(shared.ErrorCategoryProcessing, "PARSE_FAILED",
			fmt.Sprintf("parsing upstream XML: %v", err), "Fetch", err)
	}

	codeNode := xmlquery.FindOne(doc, "//header/resultCode")
	if codeNode == nil {
		return nil, shared.NewServiceError(shared.ErrorCategoryProcessing, "PARSE_FAILED",
			"upstream XML missing header/resultCode", "Fetch", nil)
	}

	result := &FetchResult{
		ResultCode: strings.TrimSpace(codeNode.InnerText()),
		ResultMsg:  strings.TrimSpace(elementText(xmlquery.FindOne(doc, "//header/resultMsg"))),
	}

	for _, item := range xmlquery.Find(doc, "//body/items/item") {
		result.Records = append(result.Records, models.CertificationRecord{
			Jisoknm:   childText(item, "jisoknm"),
			Codeknm:   childText(item, "codeknm"),
			Goodknm:   childText(item, "goodknm"),
			Certno:    childText(item, "certno"),
			Custkfirm: childText(item, "custkfirm"),
			Headknm:   childText(item, "headknm"),
			Resino:    childText(item, "resino"),
			Tel:       childText(item, "tel"),
			Jisokaddr: childText(item, "jisokaddr"),
			VDateFrom: childText(item, "vdatefrom"),
			VDateTo:   childText(item, "vdateto"),
		})
	}

	return result, nil
}

func childText(node *xmlquery.Node, name string) string {
	return elementText(node.SelectElement(name))
}

func elementText(node *xmlquery.Node) string {
	if node == nil {
		return ""
	}
	return node.InnerText()
}
