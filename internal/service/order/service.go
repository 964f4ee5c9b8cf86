package order

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Dibyajyoti06/CareConnect/internal/apperr"
	"github.com/Dibyajyoti06/CareConnect/internal/domain"
	"github.com/Dibyajyoti06/CareConnect/internal/pricing"
)

type Service struct {
	store   Store
	gateway Gateway
	pub     Publisher
	log     *zap.Logger
}

func NewService(store Store, gateway Gateway, pub Publisher, log *zap.Logger) *Service {
	return &Service{store: store, gateway: gateway, pub: pub, log: log}
}

type CreateInput struct {
	Items           []domain.OrderItem
	ShippingAddress domain.ShippingAddress
	PaymentMethod   domain.PaymentMethod
}

// Create validates the checkout request, recomputes pricing server-side and
// persists a Pending order. No stock is touched until payment is captured.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*domain.Order, error) {
	if !in.PaymentMethod.Valid() {
		return nil, apperr.Validationf("invalid payment method")
	}
	if len(in.Items) == 0 {
		return nil, apperr.Validationf("order has no line items")
	}
	for _, it := range in.Items {
		if strings.TrimSpace(it.Name) == "" ||
			strings.TrimSpace(it.Image) == "" ||
			strings.TrimSpace(it.MedicineID) == "" ||
			it.Qty <= 0 || it.Price.IsNegative() {
			return nil, apperr.Validationf("invalid fields in order items")
		}
	}
	if err := in.ShippingAddress.Validate(); err != nil {
		return nil, err
	}

	lines := make([]pricing.Line, 0, len(in.Items))
	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		l := pricing.Line{Qty: it.Qty, UnitPrice: it.Price}
		lines = append(lines, l)
		it.SubTotal = pricing.LineSubtotal(l)
		items = append(items, it)
	}
	quote, err := pricing.Compute(lines)
	if err != nil {
		return nil, err
	}

	o := &domain.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Items:           items,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		ItemsPrice:      quote.ItemsPrice,
		TaxPrice:        quote.TaxPrice,
		ShippingPrice:   quote.ShippingPrice,
		TotalPrice:      quote.TotalPrice,
		Status:          domain.OrderPending,
	}
	if err := s.store.Create(ctx, o); err != nil {
		return nil, err
	}
	_ = s.pub.PublishJSON(ctx, "order.created", map[string]any{
		"order_id": o.ID, "user_id": o.UserID, "total": o.TotalPrice.String(),
	})
	s.log.Info("order created",
		zap.String("order_id", o.ID),
		zap.String("user_id", userID),
		zap.String("total", o.TotalPrice.String()))
	return o, nil
}

// InitiatePayment creates the remote payment order for the order's total
// and records its id on the aggregate.
func (s *Service) InitiatePayment(ctx context.Context, userID, role, orderID string) (*domain.Order, error) {
	o, err := s.Get(ctx, userID, role, orderID)
	if err != nil {
		return nil, err
	}
	if o.PaymentResult.IsPaid {
		return nil, apperr.Conflictf("order is already paid")
	}
	if o.Status == domain.OrderCancelled {
		return nil, apperr.Conflictf("cancelled orders cannot be paid")
	}

	// totals are rounded to 2 decimals, so the shift is exact
	amountMinor := o.TotalPrice.Shift(2).IntPart()
	remoteID, err := s.gateway.CreateOrder(ctx, amountMinor, "INR", o.ID, map[string]string{"order_id": o.ID})
	if err != nil {
		return nil, err
	}

	return s.store.Update(ctx, o.ID, func(o *domain.Order) error {
		if o.PaymentResult.IsPaid {
			return apperr.Conflictf("order is already paid")
		}
		o.PaymentOrderID = remoteID
		o.PaymentResult.Status = domain.PaymentCreated
		return nil
	})
}

func (s *Service) Get(ctx context.Context, userID, role, orderID string) (*domain.Order, error) {
	o, err := s.store.ByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID && role != "admin" {
		return nil, apperr.Forbiddenf("not your order")
	}
	return o, nil
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.store.ByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.store.All(ctx)
}

func (s *Service) MarkDelivered(ctx context.Context, orderID string) (*domain.Order, error) {
	now := time.Now().UTC()
	return s.store.Update(ctx, orderID, func(o *domain.Order) error {
		return o.MarkDelivered(now)
	})
}

func (s *Service) Cancel(ctx context.Context, userID, role, orderID string) (*domain.Order, error) {
	if _, err := s.Get(ctx, userID, role, orderID); err != nil {
		return nil, err
	}
	o, err := s.store.Update(ctx, orderID, func(o *domain.Order) error {
		return o.Cancel()
	})
	if err != nil {
		return nil, err
	}
	// no restock: stock only ever moves on captured payments
	s.log.Info("order cancelled", zap.String("order_id", o.ID))
	return o, nil
}
