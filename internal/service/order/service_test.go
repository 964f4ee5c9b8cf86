package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Dibyajyoti06/CareConnect/internal/apperr"
	"github.com/Dibyajyoti06/CareConnect/internal/domain"
	"github.com/Dibyajyoti06/CareConnect/internal/repository/memory"
)

type nopPublisher struct{}

func (nopPublisher) PublishJSON(ctx context.Context, key string, v any) error { return nil }

type fakeGateway struct {
	lastAmount int64
	fail       bool
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (string, error) {
	if g.fail {
		return "", apperr.Gatewayf("payment gateway unreachable")
	}
	g.lastAmount = amountMinor
	return "rzp_" + receipt, nil
}

func newService() (*Service, *memory.Store, *fakeGateway) {
	store := memory.NewStore()
	gw := &fakeGateway{}
	return NewService(store.Orders(), gw, nopPublisher{}, zap.NewNop()), store, gw
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func validInput() CreateInput {
	return CreateInput{
		Items: []domain.OrderItem{
			{Name: "Paracetamol", Image: "para.png", Qty: 2, Price: dec("100"), MedicineID: "med1"},
			{Name: "Ibuprofen", Image: "ibu.png", Qty: 1, Price: dec("50"), MedicineID: "med2"},
		},
		ShippingAddress: domain.ShippingAddress{
			Name:        "Asha",
			Address:     "12 MG Road",
			City:        "Delhi",
			PostalCode:  "110001",
			ContactInfo: domain.ContactInfo{CountryCode: "+91", PhoneNumber: "9876543210"},
		},
		PaymentMethod: domain.PaymentUPI,
	}
}

func TestCreate_ComputesAndLocksPricing(t *testing.T) {
	svc, store, _ := newService()

	o, err := svc.Create(context.Background(), "u1", validInput())
	require.NoError(t, err)

	require.True(t, o.ItemsPrice.Equal(dec("250")), "itemsPrice %s", o.ItemsPrice)
	require.True(t, o.TaxPrice.Equal(dec("12.5")), "taxPrice %s", o.TaxPrice)
	require.True(t, o.ShippingPrice.Equal(dec("50")), "shippingPrice %s", o.ShippingPrice)
	require.True(t, o.TotalPrice.Equal(dec("312.5")), "totalPrice %s", o.TotalPrice)
	require.Equal(t, domain.OrderPending, o.Status)
	require.False(t, o.PaymentResult.IsPaid)
	require.True(t, o.Items[0].SubTotal.Equal(dec("200")))

	stored, err := store.Orders().ByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.True(t, stored.TotalPrice.Equal(dec("312.5")))
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	cases := map[string]func(*CreateInput){
		"no items":        func(in *CreateInput) { in.Items = nil },
		"zero qty":        func(in *CreateInput) { in.Items[0].Qty = 0 },
		"negative price":  func(in *CreateInput) { in.Items[0].Price = dec("-1") },
		"no name":         func(in *CreateInput) { in.Items[0].Name = "" },
		"no image":        func(in *CreateInput) { in.Items[0].Image = " " },
		"no medicine ref": func(in *CreateInput) { in.Items[0].MedicineID = "" },
		"bad method":      func(in *CreateInput) { in.PaymentMethod = "Cheque" },
		"no city":         func(in *CreateInput) { in.ShippingAddress.City = "" },
		"bad phone":       func(in *CreateInput) { in.ShippingAddress.ContactInfo.PhoneNumber = "98765" },
		"bad country":     func(in *CreateInput) { in.ShippingAddress.ContactInfo.CountryCode = "+12345" },
	}
	for name, mutate := range cases {
		in := validInput()
		mutate(&in)
		_, err := svc.Create(ctx, "u1", in)
		require.Equal(t, apperr.CodeValidation, apperr.CodeOf(err), "case %q: %v", name, err)
	}
}

func TestInitiatePayment(t *testing.T) {
	svc, store, gw := newService()
	ctx := context.Background()

	o, err := svc.Create(ctx, "u1", validInput())
	require.NoError(t, err)

	paid, err := svc.InitiatePayment(ctx, "u1", "user", o.ID)
	require.NoError(t, err)
	require.Equal(t, "rzp_"+o.ID, paid.PaymentOrderID)
	require.Equal(t, domain.PaymentCreated, paid.PaymentResult.Status)
	// 312.5 -> 31250 minor units
	require.EqualValues(t, 31250, gw.lastAmount)

	stored, _ := store.Orders().ByID(ctx, o.ID)
	require.Equal(t, "rzp_"+o.ID, stored.PaymentOrderID)
}

func TestInitiatePayment_GatewayDown(t *testing.T) {
	svc, _, gw := newService()
	ctx := context.Background()
	gw.fail = true

	o, err := svc.Create(ctx, "u1", validInput())
	require.NoError(t, err)

	_, err = svc.InitiatePayment(ctx, "u1", "user", o.ID)
	require.Equal(t, apperr.CodeGateway, apperr.CodeOf(err))
}

func TestInitiatePayment_NotOwner(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	o, err := svc.Create(ctx, "u1", validInput())
	require.NoError(t, err)

	_, err = svc.InitiatePayment(ctx, "u2", "user", o.ID)
	require.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))

	// admins may act on any order
	_, err = svc.InitiatePayment(ctx, "u2", "admin", o.ID)
	require.NoError(t, err)
}

func TestCancel_Transitions(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	o, err := svc.Create(ctx, "u1", validInput())
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, "u1", "user", o.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderCancelled, cancelled.Status)

	_, err = svc.Cancel(ctx, "u1", "user", o.ID)
	require.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
}

func TestCancel_DeliveredOrder(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	o, err := svc.Create(ctx, "u1", validInput())
	require.NoError(t, err)

	delivered, err := svc.MarkDelivered(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderDelivered, delivered.Status)
	require.True(t, delivered.IsDelivered)
	require.NotNil(t, delivered.DeliveredAt)

	_, err = svc.Cancel(ctx, "u1", "user", o.ID)
	require.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
}

func TestMarkDelivered_Transitions(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	o, err := svc.Create(ctx, "u1", validInput())
	require.NoError(t, err)

	_, err = svc.MarkDelivered(ctx, o.ID)
	require.NoError(t, err)
	_, err = svc.MarkDelivered(ctx, o.ID)
	require.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))

	// cancelled orders cannot be delivered
	o2, err := svc.Create(ctx, "u1", validInput())
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, "u1", "user", o2.ID)
	require.NoError(t, err)
	_, err = svc.MarkDelivered(ctx, o2.ID)
	require.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
}
