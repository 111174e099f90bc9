package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-pos-client/config"
	"github.com/fekuna/omnipos-pos-client/internal/auth"
	"github.com/fekuna/omnipos-pos-client/internal/backend"
	"github.com/fekuna/omnipos-pos-client/internal/broker"
	"github.com/fekuna/omnipos-pos-client/internal/cache"
	"github.com/fekuna/omnipos-pos-client/internal/database"
	"github.com/fekuna/omnipos-pos-client/internal/health"
	"github.com/fekuna/omnipos-pos-client/internal/logger"
	"github.com/fekuna/omnipos-pos-client/internal/metrics"
	"github.com/fekuna/omnipos-pos-client/internal/printserver"
	"github.com/fekuna/omnipos-pos-client/internal/receipt"
	"github.com/fekuna/omnipos-pos-client/internal/search"
	"github.com/fekuna/omnipos-pos-client/internal/terminal"

	catListenerPkg "github.com/fekuna/omnipos-pos-client/internal/catalog/listener"
	catRepoPkg "github.com/fekuna/omnipos-pos-client/internal/catalog/repository"
	catUCPkg "github.com/fekuna/omnipos-pos-client/internal/catalog/usecase"

	invUCPkg "github.com/fekuna/omnipos-pos-client/internal/inventory/usecase"
	pkgUCPkg "github.com/fekuna/omnipos-pos-client/internal/packaging/usecase"
	purUCPkg "github.com/fekuna/omnipos-pos-client/internal/purchase/usecase"
	repUCPkg "github.com/fekuna/omnipos-pos-client/internal/report/usecase"
	saleUCPkg "github.com/fekuna/omnipos-pos-client/internal/sale/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	metrics.InitMetrics()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Backend client and session
	api, err := backend.NewClient(&backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	}, appLogger)
	if err != nil {
		appLogger.Fatal("Invalid backend configuration", zap.Error(err))
	}
	session := auth.NewSession(appLogger)
	api.SetTokenSource(session)
	session.OnExpire(func() {
		appLogger.Warn("Session expired, cashier must sign in again")
	})
	if cfg.Backend.Username != "" {
		if _, err := session.Login(ctx, api, cfg.Backend.Username, cfg.Backend.Password); err != nil {
			appLogger.Error("Login failed", zap.Error(err))
		}
	}

	// 4. Local catalog snapshot
	db, err := database.NewSQLite(&database.Config{Path: cfg.SQLite.Path})
	if err != nil {
		appLogger.Fatal("Could not open catalog snapshot", zap.Error(err))
	}
	defer db.Close()
	catRepo := catRepoPkg.NewSQLiteRepository(db)
	if err := catRepo.Migrate(ctx); err != nil {
		appLogger.Fatal("Could not migrate catalog snapshot", zap.Error(err))
	}
	appLogger.Info("Opened catalog snapshot", zap.String("path", cfg.SQLite.Path))

	// 5. Optional Redis
	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis, product lists are not cached", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// 6. Optional Kafka
	var publisher saleUCPkg.Publisher
	var kafkaConsumer *broker.KafkaConsumer
	if cfg.Kafka.Enabled {
		brokerCfg := &broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		}
		kafkaProducer := broker.NewProducer(brokerCfg)
		defer kafkaProducer.Close()
		publisher = kafkaProducer

		kafkaConsumer = broker.NewConsumer(brokerCfg)
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	// 7. Optional Elasticsearch
	var esClient *search.Client
	if cfg.Elastic.Enabled {
		esClient, err = search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, search uses the snapshot", zap.Error(err))
			esClient = nil
		} else {
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 8. Initialize UseCases
	catUC := catUCPkg.NewCatalogUseCase(api, catRepo, redisClient, esClient, appLogger)
	saleUC := saleUCPkg.NewSaleUseCase(api, publisher, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(api, catUC, publisher, appLogger)
	purUC := purUCPkg.NewPurchaseUseCase(api, catUC, appLogger)
	pkgUC := pkgUCPkg.NewPackagingUseCase(api, catUC, appLogger)
	repUC := repUCPkg.NewReportUseCase(api, appLogger)

	if err := catUC.Sync(ctx); err != nil {
		appLogger.Warn("Initial catalog sync failed, serving the last snapshot", zap.Error(err))
	}

	term := terminal.New(catUC, api, saleUC, cfg.Search.Debounce, appLogger)
	defer term.Close()

	// 9. Listeners
	if kafkaConsumer != nil {
		catListener := catListenerPkg.NewCatalogListener(kafkaConsumer, catUC, appLogger)
		catListener.OnStockChanged(func(ids []int64) { term.ReloadStock(ctx, ids) })
		go catListener.Start(ctx)
	}

	// 10. Health monitor mirrored on the grpc health service
	healthServer := grpchealth.NewServer()
	monitor := health.NewMonitor(api, health.Config{
		Interval: cfg.Health.Interval,
		Timeout:  cfg.Health.Timeout,
	}, healthServer, appLogger)
	monitor.Subscribe(func(s health.Status) {
		if s != health.StatusConnected {
			return
		}
		go func() {
			if err := catUC.Sync(ctx); err != nil {
				appLogger.Warn("Catalog sync after reconnect failed", zap.Error(err))
			}
		}()
	})
	if err := monitor.Start(ctx); err != nil {
		appLogger.Fatal("Could not start health monitor", zap.Error(err))
	}

	// 11. Start gRPC Server
	port := cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	lis, err := net.Listen("tcp", port)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.Error(err))
	}
	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	appLogger.Info("Starting gRPC server", zap.String("port", port))
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// 12. Start print server
	printServer := printserver.NewServer(printserver.Config{
		Addr:           cfg.Server.HTTPPort,
		DefaultPrinter: cfg.Printer.Default,
		Store: receipt.Store{
			Name:    cfg.Printer.StoreName,
			Address: cfg.Printer.StoreAddress,
			Phone:   cfg.Printer.StorePhone,
		},
		AllowOrigins: cfg.CORS.AllowOrigins,
	}, printserver.Deps{
		Sales:     saleUC,
		Health:    monitor,
		Terminal:  term,
		Reports:   repUC,
		Catalog:   catUC,
		Inventory: invUC,
		Purchases: purUC,
		Packaging: pkgUC,
		Session:   session,
	}, appLogger)
	go func() {
		if err := printServer.Start(); err != nil {
			appLogger.Fatal("print server failed", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	cancel()
	monitor.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := printServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Print server shutdown failed", zap.Error(err))
	}
	healthServer.Shutdown()
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}
