package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/audit"
	"storefront/internal/infra/cache"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/server"
	"storefront/internal/telemetry"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.GoEnv, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(cfg.TracingEnabled)
	if err != nil {
		return err
	}

	//DB接続とスキーマ作成
	gormDB, err := db.Connect(cfg, log)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//監査ログ：DBは必須、Kafkaは設定があれば
	sinks := []audit.Sink{audit.NewDBSink(auditRepo)}
	var kafkaSink *audit.KafkaSink
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink = audit.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaAuditTopic)
		sinks = append(sinks, kafkaSink)
		log.Info("audit kafka sink enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaAuditTopic))
	}
	dispatcher := audit.NewDispatcher(log, sinks)

	//レート制限：Redisがあれば共有、無ければプロセス内
	var limiter middleware.Limiter = middleware.NewMemoryLimiter(cfg.RateLimitPerMinute)
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL, log)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		limiter = middleware.NewRedisLimiter(client, cfg.RateLimitPerMinute)
	}
	rateLimit := middleware.RateLimit(limiter, log)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg.JWTSecret, cfg.AccessTokenTTL, userRepo, validator.NewAuthValidator(), log)
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo, txm, dispatcher, log)
	auditLogUC := usecase.NewAuditLogUsecase(auditRepo, log)
	cartUC := usecase.NewCartUsecase(cartItemRepo, productRepo, log)
	orderUC := usecase.NewOrderUsecase(txm, dispatcher, log)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm, dispatcher, log)
	paymentUC := usecase.NewPaymentUsecase(txm, dispatcher, log)
	userAdminUC := usecase.NewUserAdminUsecase(userRepo, txm, dispatcher, log)

	//Handler生成
	e := server.New(server.Deps{
		Config:   cfg,
		Log:      log,
		UserRepo: userRepo,

		HealthCheck: sqlDB.PingContext,

		Auth:         handler.NewAuthHandler(authUC),
		Product:      handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC, auditLogUC),
		Cart:         handler.NewCartHandler(cartUC),
		Order:        handler.NewOrderHandler(orderUC, rateLimit),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
		Payment:      handler.NewPaymentHandler(paymentUC, rateLimit),
		AdminUser:    handler.NewAdminUserHandler(userAdminUC),
	})

	serveErr := server.Start(ctx, e, cfg, log)

	//書きかけの監査ログを流してから閉じる
	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := dispatcher.Close(drainCtx); err != nil {
		log.Warn("audit dispatcher did not drain", zap.Error(err))
	}
	if kafkaSink != nil {
		if err := kafkaSink.Close(); err != nil {
			log.Warn("close kafka writer", zap.Error(err))
		}
	}
	if err := shutdownTracing(drainCtx); err != nil {
		log.Warn("shutdown tracing", zap.Error(err))
	}

	return serveErr
}
