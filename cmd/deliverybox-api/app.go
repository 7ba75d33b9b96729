package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	ordersapi "github.com/BearBump/DeliveryBox/internal/api/orders_api"
	"github.com/BearBump/DeliveryBox/internal/broker/messages"
	"github.com/BearBump/DeliveryBox/internal/models"
	"github.com/BearBump/DeliveryBox/internal/services/delivery"
	"github.com/BearBump/DeliveryBox/internal/services/eta"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type deliveryAPIOpts struct {
	httpAddr    string
	swaggerPath string
	jwtSecret   string

	topic         string
	consumerGroup string

	onListen func(httpAddr string)
}

type kafkaConsumer interface {
	Consume(ctx context.Context, handler func(key, value []byte) error) error
}

type deliveryAPIDeps struct {
	svc       *delivery.Service
	estimator *eta.Estimator
	consumer  kafkaConsumer
	ready     func(ctx context.Context) error
}

func runDeliveryAPI(ctx context.Context, opts deliveryAPIOpts, deps deliveryAPIDeps) error {
	if opts.swaggerPath == "" {
		return fmt.Errorf("swaggerPath env var is required")
	}
	if _, err := os.Stat(opts.swaggerPath); os.IsNotExist(err) {
		return fmt.Errorf("swagger file not found: %s", opts.swaggerPath)
	}

	lis, err := net.Listen("tcp", opts.httpAddr)
	if err != nil {
		return err
	}
	if opts.onListen != nil {
		opts.onListen(lis.Addr().String())
	}

	httpErr := make(chan error, 1)
	go func() {
		httpErr <- runHTTPServer(ctx, lis, opts, deps)
	}()

	if deps.consumer != nil {
		go func() {
			slog.Info("kafka consumer started", "topic", opts.topic, "group", opts.consumerGroup)
			if err := deps.consumer.Consume(ctx, driverUpdateHandler(ctx, deps.svc)); err != nil {
				slog.Error("kafka consumer stopped", "error", err.Error())
			}
		}()
	}

	select {
	case <-ctx.Done():
		<-httpErr
		return ctx.Err()
	case err := <-httpErr:
		return err
	}
}

func newRouter(opts deliveryAPIOpts, deps deliveryAPIDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(accessLog)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if deps.ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), time.Second)
			defer cancel()
			if err := deps.ready(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "not ready", "error": err.Error()})
				return
			}
		}
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})
	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if deps.estimator == nil {
			_, _ = w.Write([]byte(`{"error":"estimator not wired"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(deps.estimator.Stats())
	})

	r.Get("/swagger.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		http.ServeFile(w, r, opts.swaggerPath)
	})
	swaggerURL := "/swagger.json"
	if fi, err := os.Stat(opts.swaggerPath); err == nil {
		swaggerURL = fmt.Sprintf("/swagger.json?v=%d", fi.ModTime().Unix())
	}
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL(swaggerURL)))

	r.Mount("/orders", ordersapi.New(deps.svc, opts.jwtSecret).Routes())
	return r
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func runHTTPServer(ctx context.Context, lis net.Listener, opts deliveryAPIOpts, deps deliveryAPIDeps) error {
	srv := &http.Server{
		Handler:           newRouter(opts, deps),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("HTTP server listening", "addr", lis.Addr().String())
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// driverUpdateHandler applies driver reports from Kafka. Messages that can
// never succeed are logged and committed so they do not block the partition.
func driverUpdateHandler(ctx context.Context, svc *delivery.Service) func(key, value []byte) error {
	return func(_ []byte, value []byte) error {
		msg, err := messages.DecodeDriverUpdate(value)
		if err != nil {
			slog.Warn("skip driver update", "error", err.Error())
			return nil
		}

		o, err := svc.ApplyDriverUpdate(ctx, msg)
		switch {
		case err == nil:
			slog.Info("driver update applied", "order_id", o.ID, "status", o.Status)
			return nil
		case errors.Is(err, models.ErrMalformedInput),
			errors.Is(err, models.ErrInvalidNumber),
			errors.Is(err, models.ErrOrderNotFound):
			slog.Warn("skip driver update", "order_id", msg.OrderID, "error", err.Error())
			return nil
		default:
			return err
		}
	}
}
