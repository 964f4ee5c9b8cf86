package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dibyajyoti06/CareConnect/internal/service/webhook"
	"github.com/Dibyajyoti06/CareConnect/pkg/obs"
)

// SignatureHeader carries the gateway's HMAC over the raw body.
const SignatureHeader = "X-Razorpay-Signature"

type WebhookHandler struct {
	svc     *webhook.Service
	metrics *obs.Metrics
}

func NewWebhookHandler(svc *webhook.Service, metrics *obs.Metrics) *WebhookHandler {
	return &WebhookHandler{svc: svc, metrics: metrics}
}

// POST /api/payments/webhook
//
// Always answers 200: the gateway retries on anything else, and a retry
// storm cannot fix a processing failure on our side.
func (h *WebhookHandler) Handle(c *gin.Context) {
	// the body must stay raw for signature verification
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.metrics.WebhookEvents.WithLabelValues(string(webhook.OutcomeInternalError)).Inc()
		c.JSON(http.StatusOK, gin.H{"status": webhook.OutcomeInternalError})
		return
	}

	outcome := h.svc.Process(c.Request.Context(), body, c.GetHeader(SignatureHeader))
	h.metrics.WebhookEvents.WithLabelValues(string(outcome)).Inc()
	c.JSON(http.StatusOK, gin.H{"status": outcome})
}
