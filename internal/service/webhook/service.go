// Package webhook processes asynchronous payment-gateway callbacks:
// verify authenticity, classify the event, reconcile the order, always
// acknowledge. The gateway delivers at-least-once, so the same capture may
// arrive twice, out of order, or concurrently.
package webhook

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/Dibyajyoti06/CareConnect/internal/domain"
)

// Outcome is the terse classification returned to the gateway. Never an
// error status: a retry storm helps nobody, and processing detail stays
// internal.
type Outcome string

const (
	OutcomeProcessed       Outcome = "processed"
	OutcomeIgnored         Outcome = "ignored"
	OutcomeSignatureFailed Outcome = "signature-failed"
	OutcomeInternalError   Outcome = "internal-error"
)

const (
	eventCaptured = "payment.captured"
	eventFailed   = "payment.failed"
)

// Verifier checks the gateway signature over the raw request body.
type Verifier interface {
	VerifyWebhookSignature(body []byte, signature string) bool
}

// Reconciler applies a classified payment outcome to the owning order
// atomically.
type Reconciler interface {
	ReconcilePayment(ctx context.Context, paymentOrderID string, outcome domain.PaymentOutcome) (*domain.Order, error)
}

type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

type Service struct {
	verifier Verifier
	orders   Reconciler
	pub      Publisher
	log      *zap.Logger
}

func NewService(verifier Verifier, orders Reconciler, pub Publisher, log *zap.Logger) *Service {
	return &Service{verifier: verifier, orders: orders, pub: pub, log: log}
}

// gatewayEvent is the provider's webhook payload shape.
type gatewayEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
				Method  string `json:"method"`
				Amount  int64  `json:"amount"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// Process runs one delivery through the state machine:
// received -> signature verified -> classified -> reconciled -> acknowledged.
// The body must be the raw bytes as received; re-serialized JSON would
// break signature verification.
func (s *Service) Process(ctx context.Context, body []byte, signature string) Outcome {
	if !s.verifier.VerifyWebhookSignature(body, signature) {
		s.log.Warn("webhook signature mismatch")
		return OutcomeSignatureFailed
	}

	var ev gatewayEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		s.log.Warn("webhook body not parseable", zap.Error(err))
		return OutcomeIgnored
	}

	var captured bool
	switch ev.Event {
	case eventCaptured:
		captured = true
	case eventFailed:
		captured = false
	default:
		// other lifecycle events carry nothing for us
		return OutcomeIgnored
	}

	ent := ev.Payload.Payment.Entity
	if ent.OrderID == "" || ent.ID == "" {
		s.log.Warn("webhook event missing payment identifiers", zap.String("event", ev.Event))
		return OutcomeIgnored
	}

	o, err := s.orders.ReconcilePayment(ctx, ent.OrderID, domain.PaymentOutcome{
		PaymentID: ent.ID,
		Captured:  captured,
	})
	if err != nil {
		// rolled back in full; left for manual reconciliation
		s.log.Error("payment reconciliation failed",
			zap.String("payment_order_id", ent.OrderID),
			zap.String("payment_id", ent.ID),
			zap.Error(err))
		return OutcomeInternalError
	}

	if captured {
		_ = s.pub.PublishJSON(ctx, "order.paid", map[string]any{
			"order_id":   o.ID,
			"user_id":    o.UserID,
			"payment_id": ent.ID,
			"total":      o.TotalPrice.String(),
		})
	}
	s.log.Info("webhook processed",
		zap.String("event", ev.Event),
		zap.String("order_id", o.ID),
		zap.Bool("captured", captured))
	return OutcomeProcessed
}
