package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc/health"

	grpcapi "rentalshop-backend/internal/api/grpc"
	httpapi "rentalshop-backend/internal/api/http"
	"rentalshop-backend/internal/config"
	"rentalshop-backend/internal/lock"
	"rentalshop-backend/internal/logger"
	"rentalshop-backend/internal/repository"
	"rentalshop-backend/internal/repository/memory"
	"rentalshop-backend/internal/repository/postgres"
	"rentalshop-backend/internal/security"
	"rentalshop-backend/internal/service"
)

// repositories is the repository set both store backends provide
type repositories struct {
	tx        repository.Transactor
	products  repository.ProductRepository
	customers repository.CustomerRepository
	rentals   repository.RentalRepository
	sequences repository.SequenceRepository
	ledger    repository.LedgerRepository
	users     repository.UserRepository
	probe     grpcapi.Probe
	close     func() error
}

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Rental Shop Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "http_address", cfg.GetServerAddress(), "grpc_address", cfg.GetGRPCAddress())

	ctx := context.Background()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer repos.close()

	locker, closeLocker, err := newLocker(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize locker", "error", err)
		log.Fatalf("Failed to initialize locker: %v", err)
	}
	defer closeLocker()

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// Initialize Services
	userSvc := service.NewUserService(repos.users)
	services := httpapi.Services{
		Auth:      service.NewAuthService(repos.users, tokenManager),
		User:      userSvc,
		Inventory: service.NewInventoryService(repos.products),
		Customer:  service.NewCustomerService(repos.tx, repos.customers, repos.rentals, repos.ledger, locker),
		Rental: service.NewRentalService(repos.tx, repos.rentals, repos.products, repos.customers,
			repos.sequences, repos.ledger, locker, service.RentalOptions{
				RentalIDWidth:       cfg.Billing.RentalIDWidth,
				InvoiceIDWidth:      cfg.Billing.InvoiceIDWidth,
				TrackPartialReturns: cfg.Billing.TrackPartialReturns,
			}),
		Invoice: service.NewInvoiceService(repos.rentals),
		Report:  service.NewReportService(repos.rentals, repos.products, repos.customers),
	}

	if err := userSvc.EnsureBootstrapAdmin(ctx, cfg.BootstrapAdmin.Username, cfg.BootstrapAdmin.Password, cfg.BootstrapAdmin.Name); err != nil {
		logger.Error("Failed to create bootstrap admin", "error", err)
		log.Fatalf("Failed to create bootstrap admin: %v", err)
	}

	// Set up HTTP server
	handlers := httpapi.NewHandlers(services, cfg.Store)
	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           httpapi.NewRouter(handlers, tokenManager),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Set up gRPC server for health checks and reflection
	healthServer := health.NewServer()
	reporter := grpcapi.NewHealthReporter(healthServer, repos.probe, 30*time.Second)
	grpcServer := grpcapi.NewServer(tokenManager, healthServer)
	if addr := cfg.GetGRPCAddress(); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", addr)
			log.Fatalf("Failed to listen: %v", err)
		}
		reporter.Start()
		go func() {
			logger.Info("gRPC server listening", "address", addr)
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("Failed to serve gRPC", "error", err)
			}
		}()
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down servers...")
	reporter.Stop()
	grpcServer.GracefulStop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("Servers stopped. Goodbye!")
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	if cfg.Storage.Type == "memory" {
		logger.Warn("Using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			tx:        store.Transactor,
			products:  store.ProductRepository,
			customers: store.CustomerRepository,
			rentals:   store.RentalRepository,
			sequences: store.SequenceRepository,
			ledger:    store.LedgerRepository,
			users:     store.UserRepository,
			probe:     func(context.Context) error { return nil },
			close:     func() error { return nil },
		}, nil
	}

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port,
		"database", cfg.Database.Database, "user", cfg.Database.User)
	db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, err
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)
	return &repositories{
		tx:        store.Transactor,
		products:  store.ProductRepository,
		customers: store.CustomerRepository,
		rentals:   store.RentalRepository,
		sequences: store.SequenceRepository,
		ledger:    store.LedgerRepository,
		users:     store.UserRepository,
		probe:     store.Ping,
		close:     store.Close,
	}, nil
}

func newLocker(ctx context.Context, cfg *config.Config) (lock.Locker, func(), error) {
	if cfg.Lock.Type != "redis" {
		logger.Info("Using in-process locks")
		return lock.NewLocalLocker(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, err
	}
	logger.Info("Using Redis locks", "addr", cfg.Redis.Addr, "ttl_seconds", cfg.Lock.TTLSeconds)
	ttl := time.Duration(cfg.Lock.TTLSeconds) * time.Second
	return lock.NewRedisLocker(rdb, ttl), func() { rdb.Close() }, nil
}
