package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dibyajyoti06/CareConnect/internal/apperr"
	"github.com/Dibyajyoti06/CareConnect/internal/domain"
	ordersvc "github.com/Dibyajyoti06/CareConnect/internal/service/order"
	"github.com/Dibyajyoti06/CareConnect/pkg/obs"
)

type OrderHandler struct {
	svc     *ordersvc.Service
	metrics *obs.Metrics
}

func NewOrderHandler(svc *ordersvc.Service, metrics *obs.Metrics) *OrderHandler {
	return &OrderHandler{svc: svc, metrics: metrics}
}

// POST /api/orders
func (h *OrderHandler) Create(c *gin.Context) {
	var in struct {
		OrderItems      []domain.OrderItem     `json:"orderItems"`
		ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
		PaymentMethod   domain.PaymentMethod   `json:"paymentMethod"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, apperr.Validationf("malformed request body"))
		return
	}

	o, err := h.svc.Create(c.Request.Context(), userID(c), ordersvc.CreateInput{
		Items:           in.OrderItems,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	h.metrics.OrdersCreated.Inc()
	respond(c, http.StatusCreated, "Order Created Successfully.", o)
}

// GET /api/orders/mine
func (h *OrderHandler) ListMine(c *gin.Context) {
	orders, err := h.svc.ListMine(c.Request.Context(), userID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Orders fetched successfully", orders)
}

// GET /api/orders (admin)
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Orders fetched successfully", orders)
}

// GET /api/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.svc.Get(c.Request.Context(), userID(c), userRole(c), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Order fetched successfully", o)
}

// POST /api/orders/:id/pay
func (h *OrderHandler) InitiatePayment(c *gin.Context) {
	o, err := h.svc.InitiatePayment(c.Request.Context(), userID(c), userRole(c), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Payment initiated.", gin.H{
		"orderId":        o.ID,
		"paymentOrderId": o.PaymentOrderID,
		"amount":         o.TotalPrice,
		"currency":       "INR",
	})
}

// PUT /api/orders/:id/deliver (admin)
func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	o, err := h.svc.MarkDelivered(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Delivered order update successfully", o)
}

// PUT /api/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	o, err := h.svc.Cancel(c.Request.Context(), userID(c), userRole(c), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Order Cancelled Successfully.", o)
}
