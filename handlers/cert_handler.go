package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/oceanbreeze-dev/orgcert-backend/models"
	"github.com/oceanbreeze-dev/orgcert-backend/services"
	"github.com/oceanbreeze-dev/orgcert-backend/shared"
)

// CertHandler serves the certification search and expiry lookup endpoints.
// Domain-level failures (upstream outage, upstream-reported errors) are
// always HTTP 200 with a non-"00" resultCode: failures are data here, never
// transport errors.
type CertHandler struct {
	Store   *services.RecordStore
	Query   *services.QueryService
	Metrics *shared.Metrics
}

func NewCertHandler(store *services.RecordStore, query *services.QueryService, metrics *shared.Metrics) *CertHandler {
	return &CertHandler{Store: store, Query: query, Metrics: metrics}
}

// Search handles GET /search?keyword=&jisoknm=&force=0|1
func (h *CertHandler) Search(c *fiber.Ctx) error {
	h.countRequest("search")
	today := time.Now()

	raw := h.Store.Get(c.Context(), c.Query("force") == "1")
	if raw.ResultCode != shared.ResultCodeSuccess {
		return c.JSON(fiber.Map{
			"resultCode": raw.ResultCode,
			"resultMsg":  raw.ResultMsg,
			"today":      today.Format("2006-01-02"),
			"counts":     models.ValidityCounts{},
			"items":      []models.AnnotatedRecord{},
		})
	}

	result := h.Query.Search(raw.Records, c.Query("keyword"), c.Query("jisoknm"), today)
	return c.JSON(fiber.Map{
		"resultCode": shared.ResultCodeSuccess,
		"resultMsg":  raw.ResultMsg,
		"today":      today.Format("2006-01-02"),
		"counts":     result.Counts,
		"items":      result.Items,
	})
}

// Expiry handles GET /expiry?certno=<required>&jisoknm=&force=0|1
func (h *CertHandler) Expiry(c *fiber.Ctx) error {
	h.countRequest("expiry")
	today := time.Now()

	certno := c.Query("certno")
	if certno == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "certno query parameter is required",
		})
	}

	raw := h.Store.Get(c.Context(), c.Query("force") == "1")
	if raw.ResultCode != shared.ResultCodeSuccess {
		return c.JSON(fiber.Map{
			"resultCode": raw.ResultCode,
			"resultMsg":  raw.ResultMsg,
			"today":      today.Format("2006-01-02"),
			"found":      false,
			"item":       nil,
		})
	}

	result := h.Query.Lookup(raw.Records, certno, c.Query("jisoknm"), today)
	if !result.Found {
		return c.JSON(fiber.Map{
			"resultCode": shared.ResultCodeSuccess,
			"resultMsg":  "OK",
			"today":      today.Format("2006-01-02"),
			"found":      false,
			"item":       nil,
		})
	}

	return c.JSON(fiber.Map{
		"resultCode":  shared.ResultCodeSuccess,
		"resultMsg":   "OK",
		"today":       today.Format("2006-01-02"),
		"found":       true,
		"expiry_date": result.ExpiryDate,
		"validity":    result.Item.Validity,
		"item":        result.Item,
	})
}

func (h *CertHandler) countRequest(endpoint string) {
	if h.Metrics != nil {
		h.Metrics.RequestsServed.WithLabelValues(endpoint).Inc()
	}
}
