package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/BearBump/DeliveryBox/config"
	"github.com/BearBump/DeliveryBox/internal/broker/kafka"
	"github.com/BearBump/DeliveryBox/internal/cache"
	"github.com/BearBump/DeliveryBox/internal/cache/rediscache"
	"github.com/BearBump/DeliveryBox/internal/integrations/routing"
	"github.com/BearBump/DeliveryBox/internal/integrations/routing/fake"
	"github.com/BearBump/DeliveryBox/internal/integrations/routing/osrm"
	"github.com/BearBump/DeliveryBox/internal/services/delivery"
	"github.com/BearBump/DeliveryBox/internal/services/eta"
	"github.com/BearBump/DeliveryBox/internal/storage/memorders"
	"github.com/redis/go-redis/v9"
)

const defaultSwaggerPath = "api/swagger.json"

type redisDeps struct {
	cache   cache.BytesCache
	limiter cache.Limiter
	ping    func(ctx context.Context) error
	close   func()
}

type apiFactories struct {
	newRouter   func(cfg *config.Config) routing.Router
	newRedis    func(cfg *config.Config) *redisDeps
	newProducer func(cfg *config.Config) (delivery.Producer, func())
	newConsumer func(cfg *config.Config) (kafkaConsumer, func())
}

func defaultAPIFactories() apiFactories {
	return apiFactories{
		newRouter: func(cfg *config.Config) routing.Router {
			if cfg.Routing.BaseURL == "" {
				slog.Warn("routing.base_url is empty, ETAs use straight-line distance instead of a route provider",
					"speed_mps", fake.DefaultSpeedMPS)
				return fake.New(fake.DefaultSpeedMPS)
			}
			return osrm.New(cfg.Routing.BaseURL, cfg.Routing.ProfileOrDefault(),
				osrm.WithTimeout(cfg.Routing.Timeout()),
				osrm.WithAttempts(cfg.Routing.Attempts()),
			)
		},
		newRedis: func(cfg *config.Config) *redisDeps {
			if !cfg.Redis.Enabled() {
				return nil
			}
			c := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
			rc := rediscache.NewWithClient(c)
			return &redisDeps{
				cache:   rc,
				limiter: rediscache.NewRateLimiterWithClient(c),
				ping:    rc.Ping,
				close:   func() { _ = c.Close() },
			}
		},
		newProducer: func(cfg *config.Config) (delivery.Producer, func()) {
			if !cfg.Kafka.Enabled() {
				return nil, nil
			}
			p := kafka.NewProducer(cfg.Kafka.Brokers())
			return p, func() { _ = p.Close() }
		},
		newConsumer: func(cfg *config.Config) (kafkaConsumer, func()) {
			if !cfg.Kafka.Enabled() {
				return nil, nil
			}
			c := kafka.NewConsumer(cfg.Kafka.Brokers(), cfg.Kafka.DriverUpdatesTopic(), cfg.DeliveryBox.ConsumerGroup())
			return c, func() { _ = c.Close() }
		},
	}
}

type deliveryAPIApp struct {
	ctx     context.Context
	cancel  context.CancelFunc
	opts    deliveryAPIOpts
	deps    deliveryAPIDeps
	closers []func()
}

func mustBootstrapDeliveryAPI() *deliveryAPIApp {
	cfgPath := os.Getenv("configPath")
	if cfgPath == "" {
		panic("configPath env var is required")
	}
	swaggerPath := os.Getenv("swaggerPath")
	if swaggerPath == "" {
		swaggerPath = defaultSwaggerPath
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		panic(fmt.Sprintf("config parse error, %v", err))
	}

	app := buildDeliveryAPI(cfg, swaggerPath, defaultAPIFactories())
	app.ctx, app.cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return app
}

func buildDeliveryAPI(cfg *config.Config, swaggerPath string, f apiFactories) *deliveryAPIApp {
	app := &deliveryAPIApp{
		opts: deliveryAPIOpts{
			httpAddr:      cfg.DeliveryBox.Addr(),
			swaggerPath:   swaggerPath,
			jwtSecret:     cfg.DeliveryBox.JWTSecret,
			topic:         cfg.Kafka.DriverUpdatesTopic(),
			consumerGroup: cfg.DeliveryBox.ConsumerGroup(),
		},
	}

	estimator := eta.New(f.newRouter(cfg))
	if rd := f.newRedis(cfg); rd != nil {
		estimator.
			WithCache(rd.cache, cfg.DeliveryBox.ETACacheTTL()).
			WithRateLimit(rd.limiter, cfg.Routing.RateLimit())
		app.deps.ready = rd.ping
		app.closers = append(app.closers, rd.close)
	}

	producer, closeProducer := f.newProducer(cfg)
	if closeProducer != nil {
		app.closers = append(app.closers, closeProducer)
	}
	consumer, closeConsumer := f.newConsumer(cfg)
	if closeConsumer != nil {
		app.closers = append(app.closers, closeConsumer)
	}

	app.deps.svc = delivery.New(memorders.New(), estimator, producer, cfg.Kafka.OrderEventsTopic())
	app.deps.estimator = estimator
	app.deps.consumer = consumer
	return app
}

func (a *deliveryAPIApp) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *deliveryAPIApp) Run() error {
	return runDeliveryAPI(a.ctx, a.opts, a.deps)
}
