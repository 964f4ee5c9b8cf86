package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	JWTSecret    string
	Orders       *OrderHandler
	Appointments *AppointmentHandler
	Webhook      *WebhookHandler
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// gateway callbacks authenticate by signature, not by session
	r.POST("/api/payments/webhook", deps.Webhook.Handle)

	api := r.Group("/api")
	api.Use(JWTAuth(deps.JWTSecret))
	{
		orders := api.Group("/orders")
		{
			orders.POST("", deps.Orders.Create)
			orders.GET("/mine", deps.Orders.ListMine)
			orders.GET("/:id", deps.Orders.Get)
			orders.POST("/:id/pay", deps.Orders.InitiatePayment)
			orders.PUT("/:id/cancel", deps.Orders.Cancel)
			orders.GET("", RequireRole("admin"), deps.Orders.List)
			orders.PUT("/:id/deliver", RequireRole("admin"), deps.Orders.MarkDelivered)
		}

		appts := api.Group("/appointments")
		{
			appts.POST("", deps.Appointments.Book)
			appts.GET("/mine", deps.Appointments.ListMine)
			appts.GET("/:id", deps.Appointments.Get)
			appts.GET("", RequireRole("admin"), deps.Appointments.List)
			appts.PUT("/:id/approve", RequireRole("admin"), deps.Appointments.Approve)
		}
	}

	return r
}
