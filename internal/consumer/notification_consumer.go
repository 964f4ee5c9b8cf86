package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/Dibyajyoti06/CareConnect/internal/notifier"
	"github.com/Dibyajyoti06/CareConnect/pkg/mq"
)

// RoutingKeys are the event bindings the notification queue subscribes to.
var RoutingKeys = []string{"order.paid", "appointment.booked"}

type orderPaid struct {
	OrderID   string `json:"order_id"`
	UserID    string `json:"user_id"`
	PaymentID string `json:"payment_id"`
	Total     string `json:"total"`
}

type appointmentBooked struct {
	AppointmentID string `json:"appointment_id"`
	UserID        string `json:"user_id"`
	Time          string `json:"time"`
}

type NotificationConsumer struct {
	cons *mq.Consumer
	n    notifier.Notifier
	log  *zap.Logger
}

func NewNotificationConsumer(cons *mq.Consumer, n notifier.Notifier, log *zap.Logger) *NotificationConsumer {
	return &NotificationConsumer{cons: cons, n: n, log: log}
}

func (c *NotificationConsumer) Run(ctx context.Context) error {
	msgs, err := c.cons.Deliveries(ctx)
	if err != nil {
		return err
	}
	go func() {
		for d := range msgs {
			var subject, message string
			switch d.RoutingKey {
			case "order.paid":
				var evt orderPaid
				if err := json.Unmarshal(d.Body, &evt); err != nil {
					c.log.Warn("bad order.paid payload", zap.Error(err))
					_ = d.Ack(false) // poison message, do not requeue
					continue
				}
				subject = "Payment received"
				message = fmt.Sprintf("Order %s paid in full (%s), payment %s.", evt.OrderID, evt.Total, evt.PaymentID)
			case "appointment.booked":
				var evt appointmentBooked
				if err := json.Unmarshal(d.Body, &evt); err != nil {
					c.log.Warn("bad appointment.booked payload", zap.Error(err))
					_ = d.Ack(false)
					continue
				}
				subject = "Appointment booked"
				message = fmt.Sprintf("Appointment %s confirmed for %s.", evt.AppointmentID, evt.Time)
			default:
				_ = d.Ack(false)
				continue
			}

			if err := c.n.Notify(ctx, subject, message); err != nil {
				c.log.Error("notify failed", zap.String("key", d.RoutingKey), zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}()
	return nil
}
