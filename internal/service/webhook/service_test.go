package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/Dibyajyoti06/CareConnect/internal/domain"
	"github.com/Dibyajyoti06/CareConnect/internal/gateway/razorpay"
	"github.com/Dibyajyoti06/CareConnect/internal/repository/memory"
)

type nopPublisher struct{}

func (nopPublisher) PublishJSON(ctx context.Context, key string, v any) error { return nil }

type WebhookSuite struct {
	suite.Suite
	store    *memory.Store
	verifier *razorpay.Client
	svc      *Service
}

func TestWebhookSuite(t *testing.T) {
	suite.Run(t, new(WebhookSuite))
}

func (s *WebhookSuite) SetupTest() {
	s.store = memory.NewStore()
	s.verifier = razorpay.New("key", "secret", "webhook-secret", "")
	s.svc = NewService(s.verifier, s.store.Orders(), nopPublisher{}, zap.NewNop())

	s.store.SeedMedicine(domain.Medicine{ID: "med1", Name: "Paracetamol", CountInStock: 10})
	s.store.SeedMedicine(domain.Medicine{ID: "med2", Name: "Ibuprofen", CountInStock: 5})
}

func (s *WebhookSuite) seedOrder(id, paymentOrderID string, items ...domain.OrderItem) {
	o := &domain.Order{
		ID:             id,
		UserID:         "user1",
		Items:          items,
		Status:         domain.OrderPending,
		TotalPrice:     decimal.NewFromInt(100),
		PaymentOrderID: paymentOrderID,
		PaymentResult:  domain.PaymentResult{Status: domain.PaymentCreated},
	}
	s.Require().NoError(s.store.Orders().Create(context.Background(), o))
}

func (s *WebhookSuite) event(event, paymentOrderID, paymentID string) []byte {
	body, err := json.Marshal(map[string]any{
		"event": event,
		"payload": map[string]any{
			"payment": map[string]any{
				"entity": map[string]any{
					"id":       paymentID,
					"order_id": paymentOrderID,
					"status":   "captured",
					"method":   "upi",
				},
			},
		},
	})
	s.Require().NoError(err)
	return body
}

func (s *WebhookSuite) deliver(body []byte) Outcome {
	return s.svc.Process(context.Background(), body, s.verifier.Sign(body))
}

func (s *WebhookSuite) TestCaptureDecrementsStock() {
	s.seedOrder("o1", "rzp_1", domain.OrderItem{MedicineID: "med1", Qty: 3})

	out := s.deliver(s.event("payment.captured", "rzp_1", "pay_1"))
	s.Equal(OutcomeProcessed, out)
	s.Equal(7, s.store.Stock("med1"))

	o, err := s.store.Orders().ByID(context.Background(), "o1")
	s.Require().NoError(err)
	s.True(o.PaymentResult.IsPaid)
	s.Equal(domain.PaymentPaid, o.PaymentResult.Status)
	s.Equal("pay_1", o.PaymentResult.PaymentID)
	s.NotNil(o.PaymentResult.PaidAt)
	s.Equal(domain.OrderConfirmed, o.Status)
}

func (s *WebhookSuite) TestDuplicateDeliveryDecrementsOnce() {
	s.seedOrder("o1", "rzp_1", domain.OrderItem{MedicineID: "med1", Qty: 3})
	body := s.event("payment.captured", "rzp_1", "pay_1")

	s.Equal(OutcomeProcessed, s.deliver(body))
	s.Equal(OutcomeProcessed, s.deliver(body))

	s.Equal(7, s.store.Stock("med1"))
	o, _ := s.store.Orders().ByID(context.Background(), "o1")
	s.True(o.PaymentResult.IsPaid)
}

func (s *WebhookSuite) TestConcurrentDuplicateDeliveries() {
	s.seedOrder("o1", "rzp_1", domain.OrderItem{MedicineID: "med1", Qty: 3})
	body := s.event("payment.captured", "rzp_1", "pay_1")
	sig := s.verifier.Sign(body)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.svc.Process(context.Background(), body, sig)
		}()
	}
	wg.Wait()

	s.Equal(7, s.store.Stock("med1"))
	o, _ := s.store.Orders().ByID(context.Background(), "o1")
	s.True(o.PaymentResult.IsPaid)
}

func (s *WebhookSuite) TestInsufficientStockLeavesEverythingUntouched() {
	s.seedOrder("o1", "rzp_1",
		domain.OrderItem{MedicineID: "med1", Qty: 2},
		domain.OrderItem{MedicineID: "med2", Qty: 6}, // only 5 available
	)

	out := s.deliver(s.event("payment.captured", "rzp_1", "pay_1"))
	s.Equal(OutcomeInternalError, out)

	// no partial decrement across lines
	s.Equal(10, s.store.Stock("med1"))
	s.Equal(5, s.store.Stock("med2"))
	o, _ := s.store.Orders().ByID(context.Background(), "o1")
	s.False(o.PaymentResult.IsPaid)
	s.Equal(domain.PaymentCreated, o.PaymentResult.Status)
	s.Equal(domain.OrderPending, o.Status)
}

func (s *WebhookSuite) TestConcurrentOrdersOverSameStock() {
	// stock 5; two captures of qty 3 each: exactly one must win
	s.store.SeedMedicine(domain.Medicine{ID: "med3", Name: "Insulin", CountInStock: 5})
	s.seedOrder("o1", "rzp_1", domain.OrderItem{MedicineID: "med3", Qty: 3})
	s.seedOrder("o2", "rzp_2", domain.OrderItem{MedicineID: "med3", Qty: 3})

	outcomes := make([]Outcome, 2)
	var wg sync.WaitGroup
	for i, ref := range []string{"rzp_1", "rzp_2"} {
		wg.Add(1)
		go func(i int, ref string) {
			defer wg.Done()
			body := s.event("payment.captured", ref, fmt.Sprintf("pay_%d", i))
			outcomes[i] = s.svc.Process(context.Background(), body, s.verifier.Sign(body))
		}(i, ref)
	}
	wg.Wait()

	processed := 0
	for _, out := range outcomes {
		if out == OutcomeProcessed {
			processed++
		} else {
			s.Equal(OutcomeInternalError, out)
		}
	}
	s.Equal(1, processed)
	s.Equal(2, s.store.Stock("med3"))
}

func (s *WebhookSuite) TestFailureEventTouchesNoStock() {
	s.seedOrder("o1", "rzp_1", domain.OrderItem{MedicineID: "med1", Qty: 3})

	out := s.deliver(s.event("payment.failed", "rzp_1", "pay_1"))
	s.Equal(OutcomeProcessed, out)

	s.Equal(10, s.store.Stock("med1"))
	o, _ := s.store.Orders().ByID(context.Background(), "o1")
	s.False(o.PaymentResult.IsPaid)
	s.Equal(domain.PaymentFailed, o.PaymentResult.Status)
}

func (s *WebhookSuite) TestTamperedBody() {
	s.seedOrder("o1", "rzp_1", domain.OrderItem{MedicineID: "med1", Qty: 3})
	body := s.event("payment.captured", "rzp_1", "pay_1")
	sig := s.verifier.Sign(body)

	tampered := append([]byte(nil), body...)
	tampered = append(tampered, ' ')
	out := s.svc.Process(context.Background(), tampered, sig)
	s.Equal(OutcomeSignatureFailed, out)

	s.Equal(10, s.store.Stock("med1"))
	o, _ := s.store.Orders().ByID(context.Background(), "o1")
	s.False(o.PaymentResult.IsPaid)
}

func (s *WebhookSuite) TestOtherEventsIgnored() {
	s.seedOrder("o1", "rzp_1", domain.OrderItem{MedicineID: "med1", Qty: 3})
	out := s.deliver(s.event("payment.authorized", "rzp_1", "pay_1"))
	s.Equal(OutcomeIgnored, out)
	s.Equal(10, s.store.Stock("med1"))
}

func (s *WebhookSuite) TestUnknownPaymentOrder() {
	out := s.deliver(s.event("payment.captured", "rzp_missing", "pay_1"))
	s.Equal(OutcomeInternalError, out)
}
