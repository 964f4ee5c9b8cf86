package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Dibyajyoti06/CareConnect/internal/consumer"
	"github.com/Dibyajyoti06/CareConnect/internal/gateway/razorpay"
	"github.com/Dibyajyoti06/CareConnect/internal/notifier"
	"github.com/Dibyajyoti06/CareConnect/internal/repository"
	apptsvc "github.com/Dibyajyoti06/CareConnect/internal/service/appointment"
	ordersvc "github.com/Dibyajyoti06/CareConnect/internal/service/order"
	"github.com/Dibyajyoti06/CareConnect/internal/service/webhook"
	transport "github.com/Dibyajyoti06/CareConnect/internal/transport/http"
	"github.com/Dibyajyoti06/CareConnect/pkg/config"
	"github.com/Dibyajyoti06/CareConnect/pkg/db"
	"github.com/Dibyajyoti06/CareConnect/pkg/mq"
	"github.com/Dibyajyoti06/CareConnect/pkg/obs"
)

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func main() {
	cfg := must(config.Load())

	logger := must(obs.NewLogger("careconnect-api"))
	defer func() { _ = logger.Sync() }()

	shutdownTracer := obs.InitTracer("careconnect-api")
	defer func() { _ = shutdownTracer(context.Background()) }()

	metrics := obs.NewMetrics()

	// DB
	gdb := must(db.Open(cfg.PostgresDSN))
	orderRepo := repository.NewOrderRepo(gdb)
	must(0, orderRepo.Migrate())
	apptRepo := repository.NewAppointmentRepo(gdb)
	must(0, apptRepo.Migrate())

	// events
	pub := must(mq.NewPublisher(cfg.RabbitURL, cfg.EventsExchange))
	defer pub.Close()

	// payment gateway
	gateway := razorpay.New(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayWebhookSecret, cfg.RazorpayBaseURL)

	// services
	orders := ordersvc.NewService(orderRepo, gateway, pub, logger)
	appts := apptsvc.NewService(apptRepo, pub, logger)
	hooks := webhook.NewService(gateway, orderRepo, pub, logger)

	// notification consumer
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notifyCons := must(mq.NewConsumer(cfg.RabbitURL, cfg.EventsExchange, cfg.NotifyQueue, consumer.RoutingKeys))
	defer notifyCons.Close()
	nc := consumer.NewNotificationConsumer(notifyCons, notifier.NewLogNotifier(logger), logger)
	must(0, nc.Run(ctx))
	logger.Info("notification consumer started", zap.Strings("keys", consumer.RoutingKeys))

	// HTTP
	router := transport.NewRouter(transport.RouterDeps{
		JWTSecret:    cfg.JWTSecret,
		Orders:       transport.NewOrderHandler(orders, metrics),
		Appointments: transport.NewAppointmentHandler(appts, metrics),
		Webhook:      transport.NewWebhookHandler(hooks, metrics),
	})
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http serve", zap.Error(err))
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info("stopped")
}
