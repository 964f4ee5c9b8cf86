package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dibyajyoti06/CareConnect/internal/apperr"
)

type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "Cash"
	PaymentCard       PaymentMethod = "Card"
	PaymentUPI        PaymentMethod = "UPI"
	PaymentNetBanking PaymentMethod = "NetBanking"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentUPI, PaymentNetBanking:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderConfirmed OrderStatus = "Confirmed"
	OrderShipped   OrderStatus = "Shipped"
	OrderDelivered OrderStatus = "Delivered"
	OrderCancelled OrderStatus = "Cancelled"
)

type PaymentStatus string

const (
	PaymentCreated PaymentStatus = "created"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type ContactInfo struct {
	CountryCode string `json:"countryCode"`
	PhoneNumber string `json:"phoneNumber"`
}

type ShippingAddress struct {
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	City        string      `json:"city"`
	PostalCode  string      `json:"postalCode"`
	ContactInfo ContactInfo `json:"contactInfo"`
}

type OrderItem struct {
	Name       string          `json:"name"`
	Qty        int             `json:"qty"`
	Image      string          `json:"image"`
	Price      decimal.Decimal `json:"price"`
	MedicineID string          `json:"med"`
	SubTotal   decimal.Decimal `json:"subTotal"`
}

// PaymentResult is written only by payment reconciliation.
type PaymentResult struct {
	Status    PaymentStatus `json:"status,omitempty"`
	PaymentID string        `json:"paymentId,omitempty"`
	IsPaid    bool          `json:"isPaid"`
	PaidAt    *time.Time    `json:"paidAt,omitempty"`
}

// Order is a single-row aggregate: items, shipping address and payment
// result live in JSON columns so the whole document commits as one write.
type Order struct {
	ID              string          `gorm:"primaryKey" json:"id"`
	UserID          string          `gorm:"index" json:"orderBy"`
	Items           []OrderItem     `gorm:"serializer:json" json:"orderItems"`
	ShippingAddress ShippingAddress `gorm:"serializer:json" json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`

	ItemsPrice    decimal.Decimal `gorm:"type:numeric" json:"itemsPrice"`
	TaxPrice      decimal.Decimal `gorm:"type:numeric" json:"taxPrice"`
	ShippingPrice decimal.Decimal `gorm:"type:numeric" json:"shippingPrice"`
	TotalPrice    decimal.Decimal `gorm:"type:numeric" json:"totalPrice"`

	Status OrderStatus `gorm:"index" json:"orderStatus"`

	// PaymentOrderID is the remote payment-intent id; indexed so webhook
	// reconciliation can look the order up by it.
	PaymentOrderID string        `gorm:"index" json:"paymentOrderId,omitempty"`
	PaymentResult  PaymentResult `gorm:"serializer:json" json:"paymentResult"`

	IsDelivered bool       `json:"isDelivered"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ApplyPaymentFailure records a failed capture. Stock is never touched.
func (o *Order) ApplyPaymentFailure(paymentID string) {
	o.PaymentResult.Status = PaymentFailed
	o.PaymentResult.PaymentID = paymentID
	o.PaymentResult.IsPaid = false
}

// ApplyPaymentCapture marks the order paid and moves a still-pending order
// to Confirmed. Callers must have passed the isPaid gate first.
func (o *Order) ApplyPaymentCapture(paymentID string, now time.Time) {
	o.PaymentResult.Status = PaymentPaid
	o.PaymentResult.PaymentID = paymentID
	o.PaymentResult.IsPaid = true
	o.PaymentResult.PaidAt = &now
	if o.Status == OrderPending {
		o.Status = OrderConfirmed
	}
}

// MarkDelivered is a fulfillment event, independent of payment state.
func (o *Order) MarkDelivered(now time.Time) error {
	if o.Status == OrderDelivered {
		return apperr.Conflictf("order is already delivered")
	}
	if o.Status == OrderCancelled {
		return apperr.Conflictf("cancelled orders cannot be delivered")
	}
	o.Status = OrderDelivered
	o.IsDelivered = true
	o.DeliveredAt = &now
	return nil
}

func (o *Order) Cancel() error {
	if o.Status == OrderDelivered {
		return apperr.Conflictf("delivered orders cannot be cancelled")
	}
	if o.Status == OrderCancelled {
		return apperr.Conflictf("order is already cancelled")
	}
	o.Status = OrderCancelled
	return nil
}

// PaymentOutcome is the classified result of a gateway webhook event.
type PaymentOutcome struct {
	PaymentID string
	Captured  bool
}
