package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	// DB
	PostgresDSN string `envconfig:"PG_DSN" required:"true"`
	// JWT
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
	// Network
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// RabbitMQ for domain events (order.paid, appointment.booked)
	RabbitURL      string `envconfig:"RABBIT_URL" required:"true"`
	EventsExchange string `envconfig:"EVENTS_EXCHANGE" default:"careconnect.events"`
	NotifyQueue    string `envconfig:"NOTIFY_QUEUE" default:"careconnect.notify.q"`

	// Razorpay
	RazorpayKeyID         string `envconfig:"RAZORPAY_KEY_ID" required:"true"`
	RazorpayKeySecret     string `envconfig:"RAZORPAY_KEY_SECRET" required:"true"`
	RazorpayWebhookSecret string `envconfig:"RAZORPAY_WEBHOOK_SECRET" required:"true"`
	RazorpayBaseURL       string `envconfig:"RAZORPAY_BASE_URL" default:"https://api.razorpay.com/v1"`
}

// Load reads .env (if present) and then the process environment.
func Load() (App, error) {
	_ = godotenv.Load()
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
