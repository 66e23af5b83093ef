package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apihttp "foodorders/internal/adapters/in/http"
	"foodorders/internal/adapters/out/changefeed"
	"foodorders/internal/adapters/out/memory/cartstore"
	"foodorders/internal/adapters/out/memory/orderstore"
	"foodorders/internal/adapters/out/notifications"
	"foodorders/internal/adapters/out/postgres"
	"foodorders/internal/adapters/out/postgres/orderrepo"
	"foodorders/internal/core/application/usecases/commands"
	"foodorders/internal/core/application/usecases/queries"
	"foodorders/internal/core/domain/model/menu"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/domain/services"
	"foodorders/internal/core/ports"
	"foodorders/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config Config
	logger *slog.Logger

	gormDB      *gorm.DB
	redisClient *redis.Client
	broker      *changefeed.Broker
	relay       *changefeed.RedisRelay
	feed        ports.ChangeFeed

	uowFactory ports.UnitOfWorkFactory
	reader     ports.OrderReader
	carts      *cartstore.Store
	catalog    *menu.Catalog
	machine    services.StatusMachine

	notificationPool *jobs.NotificationPool
	jobManager       *jobs.JobManager
}

// NewCompositionRoot wires the adapters selected by config. gormDB is only used with the
// postgres store backend and may be nil otherwise; redisClient likewise for the redis
// feed backend.
func NewCompositionRoot(config Config, gormDB *gorm.DB, redisClient *redis.Client, logger *slog.Logger) (*CompositionRoot, error) {
	policy, err := order.ParseTransitionPolicy(config.TransitionPolicy)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		config:      config,
		logger:      logger,
		gormDB:      gormDB,
		redisClient: redisClient,
		broker:      changefeed.NewBroker(config.FeedMailboxSize, logger),
		carts:       cartstore.NewStore(time.Now),
		catalog:     menu.DefaultCatalog(),
		machine:     services.NewStatusMachine(policy, time.Now),
	}

	c.feed = c.broker
	if config.FeedBackend == FeedBackendRedis {
		if redisClient == nil {
			return nil, fmt.Errorf("redis feed backend needs a redis client")
		}
		c.relay = changefeed.NewRedisRelay(redisClient, config.RedisChannel, c.broker, logger)
		c.feed = c.relay
	}

	switch config.StoreBackend {
	case StoreBackendPostgres:
		if gormDB == nil {
			return nil, fmt.Errorf("postgres store backend needs a database")
		}
		c.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, c.feed, logger)
		c.reader = orderrepo.NewGormOrderReader(gormDB)
	default:
		store := orderstore.NewStore()
		c.uowFactory = orderstore.NewUnitOfWorkFactory(store, c.feed, logger)
		c.reader = store
	}

	c.notificationPool = jobs.NewNotificationPool(
		c.createNotificationDispatcher(),
		config.NotificationWorkers,
		jobs.DefaultNotificationQueue,
		logger,
	)
	c.jobManager = jobs.NewJobManager(c.CreateSweepIdleCartsCommandHandler(), config.CartIdleTTL, c.notificationPool, logger)

	logger.Info("composition root ready",
		"store", config.StoreBackend, "feed", config.FeedBackend, "policy", policy.String())
	return c, nil
}

func (c *CompositionRoot) createNotificationDispatcher() ports.NotificationDispatcher {
	fallback := notifications.NewLogDispatcher(c.logger)

	var email ports.NotificationDispatcher = fallback
	if c.config.ResendAPIKey != "" {
		email = notifications.NewResendDispatcher(notifications.ResendConfig{
			APIKey:  c.config.ResendAPIKey,
			From:    c.config.ResendFrom,
			Breaker: notifications.DefaultBreakerSettings(),
		}, nil, c.logger)
	}

	var sms ports.NotificationDispatcher = fallback
	if c.config.TwilioAccountSID != "" {
		sms = notifications.NewTwilioDispatcher(notifications.TwilioConfig{
			AccountSID: c.config.TwilioAccountSID,
			AuthToken:  c.config.TwilioAuthToken,
			FromNumber: c.config.TwilioFromNumber,
			Breaker:    notifications.DefaultBreakerSettings(),
		}, nil, c.logger)
	}

	return notifications.NewRouter(email, sms)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(c.orderUoWFactory(), c.notificationPool, time.Now)
}

func (c *CompositionRoot) CreateCheckoutCartCommandHandler() commands.CheckoutCartCommandHandler {
	return commands.NewCheckoutCartCommandHandler(c.carts, c.reader, c.CreatePlaceOrderCommandHandler())
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.orderUoWFactory(), c.machine)
}

func (c *CompositionRoot) CreateSweepIdleCartsCommandHandler() commands.SweepIdleCartsCommandHandler {
	return commands.NewSweepIdleCartsCommandHandler(c.carts)
}

func (c *CompositionRoot) CreateHTTPHandlers() apihttp.Handlers {
	return apihttp.Handlers{
		CreateCart:        commands.NewCreateCartCommandHandler(c.carts),
		DiscardCart:       commands.NewDiscardCartCommandHandler(c.carts),
		CartItems:         commands.NewCartItemCommandHandler(c.carts, c.catalog),
		Checkout:          c.CreateCheckoutCartCommandHandler(),
		ChangeStatus:      c.CreateChangeOrderStatusCommandHandler(),
		GetMenu:           queries.NewGetMenuQueryHandler(c.catalog),
		GetCart:           queries.NewGetCartQueryHandler(c.carts),
		GetOrder:          queries.NewGetOrderQueryHandler(c.reader),
		FindOrderByNumber: queries.NewFindOrderByNumberQueryHandler(c.reader),
		ListOrders:        queries.NewListOrdersQueryHandler(c.reader),
	}
}

// CreateHTTPServer builds the echo adapter with the operator gate and health checks.
func (c *CompositionRoot) CreateHTTPServer() (*apihttp.Server, error) {
	auth, err := apihttp.NewOperatorAuth(
		c.config.OperatorUsername,
		c.config.OperatorPassword,
		[]byte(c.config.JWTSecret),
		c.config.OperatorSessionTTL,
	)
	if err != nil {
		return nil, err
	}

	server := apihttp.NewServer(c.CreateHTTPHandlers(), c.feed, c.reader, auth, c.logger)
	if c.gormDB != nil {
		server.AddHealthCheck("postgres", func(ctx context.Context) error {
			sqlDB, err := c.gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		})
	}
	if c.redisClient != nil {
		server.AddHealthCheck("redis", func(ctx context.Context) error {
			return c.redisClient.Ping(ctx).Err()
		})
	}
	return server, nil
}

// Start launches the background jobs and, with the redis feed, the relay. It returns once
// the relay subscription is confirmed.
func (c *CompositionRoot) Start(ctx context.Context) error {
	if c.relay != nil {
		ready := make(chan struct{})
		errCh := make(chan error, 1)
		go func() {
			errCh <- c.relay.Run(ctx, ready)
		}()
		select {
		case <-ready:
			go func() {
				if err := <-errCh; err != nil {
					c.logger.Error("redis relay stopped", "error", err)
				}
			}()
		case err := <-errCh:
			return fmt.Errorf("start redis relay: %w", err)
		}
	}
	return c.jobManager.StartAll()
}

// Stop stops the jobs, drains queued notifications and ends every feed subscription.
func (c *CompositionRoot) Stop() {
	c.jobManager.StopAll()
	c.broker.Close()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
