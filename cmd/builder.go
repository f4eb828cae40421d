package cmd

import (
	"fmt"
	"net/http"

	"ordersvc/api"
	"ordersvc/api/health"
	apiorder "ordersvc/api/order"
	apiproduct "ordersvc/api/product"
	orderapp "ordersvc/application/order"
	productapp "ordersvc/application/product"
	"ordersvc/config"
	"ordersvc/domain/order"
	"ordersvc/domain/product"
	"ordersvc/domain/shared"
	"ordersvc/infrastructure/outbox"
	"ordersvc/infrastructure/persistence/memory"
	"ordersvc/infrastructure/persistence/mysql"
	"ordersvc/infrastructure/persistence/retry"
	"ordersvc/pkg/logger"

	"go.uber.org/zap"
)

// storage 一种持久化实现的全部组件
type storage struct {
	products   product.Repository
	orders     order.Repository
	uowFactory shared.UnitOfWorkFactory
	outbox     outbox.Store
	pinger     health.Pinger
	close      func() error
}

// AppBuilder 根据配置构建 App
type AppBuilder struct {
	cfg *config.Config
}

// NewBuilder 创建 AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

// Build 组装存储、服务、控制器与 HTTP 服务器。
// 内存模式下进程内运行 outbox relay；MySQL 模式由 cmd/worker 单独运行。
func (b *AppBuilder) Build() (*App, error) {
	logger.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env),
		zap.String("database", b.cfg.Database.Type))

	store, err := b.initStorage()
	if err != nil {
		return nil, err
	}

	orderService := orderapp.NewApplicationService(store.uowFactory, store.orders, store.products)
	productService := productapp.NewApplicationService(store.uowFactory, store.products)

	router := api.NewRouter(b.cfg,
		health.NewController(b.cfg, store.pinger),
		apiorder.NewController(orderService),
		apiproduct.NewController(productService),
	)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}

	app := &App{
		config:  b.cfg,
		router:  router,
		server:  server,
		closers: []func() error{store.close},
	}

	if !b.cfg.UsesMySQL() && b.cfg.Worker.Enabled {
		publisher, closePublisher, err := NewOutboxPublisher(b.cfg)
		if err != nil {
			_ = store.close()
			return nil, err
		}
		worker, err := outbox.NewWorker(store.outbox, publisher,
			b.cfg.Worker.PollInterval, b.cfg.Worker.BatchSize, b.cfg.Worker.MaxRetries)
		if err != nil {
			_ = closePublisher()
			_ = store.close()
			return nil, fmt.Errorf("failed to create outbox worker: %w", err)
		}
		app.worker = worker
		app.closers = append(app.closers, closePublisher)
	}

	return app, nil
}

func (b *AppBuilder) initStorage() (*storage, error) {
	retryConfig := retry.FromAppConfig(b.cfg)

	if !b.cfg.UsesMySQL() {
		logger.Info("Using in-memory persistence layer")
		store := memory.NewStore()
		return &storage{
			products:   memory.NewProductRepository(store),
			orders:     memory.NewOrderRepository(store),
			uowFactory: memory.NewUnitOfWorkFactory(store, retryConfig),
			outbox:     memory.NewOutboxRepository(store),
			pinger:     store,
			close:      func() error { return nil },
		}, nil
	}

	logger.Info("Using MySQL/GORM persistence layer")
	db, err := mysql.NewConfig(b.cfg.Database).Connect()
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	if b.cfg.Database.AutoMigrate {
		if err := mysql.AutoMigrate(db); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to auto migrate: %w", err)
		}
	}

	return &storage{
		products:   mysql.NewProductRepository(db),
		orders:     mysql.NewOrderRepository(db),
		uowFactory: mysql.NewUnitOfWorkFactory(db, retryConfig),
		outbox:     mysql.NewOutboxRepository(db),
		pinger:     mysql.NewPinger(db),
		close:      sqlDB.Close,
	}, nil
}
