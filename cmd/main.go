package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/dkotlyar/invest-ledger/internal/handlers"
	"github.com/dkotlyar/invest-ledger/internal/jwt"
	"github.com/dkotlyar/invest-ledger/internal/logger"
	"github.com/dkotlyar/invest-ledger/internal/middlewares"
	"github.com/dkotlyar/invest-ledger/internal/migrations"
	"github.com/dkotlyar/invest-ledger/internal/repositories"
	"github.com/dkotlyar/invest-ledger/internal/services"

	_ "github.com/dkotlyar/invest-ledger/docs"
	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title invest-ledger API
// @version 1.0.0
// @description Microservice for the custodial investment ledger: user balances, transaction history and admin review
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		kafkaBrokers, kafkaNotificationsTopic, kafkaEventsTopic,
		logLevel, jwtSecret, jwtExp,
		adminCacheTTL, ledgerCacheTTL,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		kafkaBrokers, kafkaNotificationsTopic, kafkaEventsTopic,
		logLevel, jwtSecret, jwtExp,
		adminCacheTTL, ledgerCacheTTL,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns all
// application, database, Redis, Kafka, logging, JWT, and cache configuration.
func parseConfig(path string) (
	appHost, appPort string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	kafkaBrokers []string, kafkaNotificationsTopic, kafkaEventsTopic string,
	logLevel, jwtSecretKey string, jwtExpSecond int,
	adminCacheTTLSecond, ledgerCacheTTLSecond int,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "localhost")
	appPort = getEnv("APP_PORT", "8080")
	logLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	pgHost = getEnv("POSTGRES_HOST", "localhost")
	pgUser = getEnv("POSTGRES_USER", "user")
	pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	pgDB = getEnv("POSTGRES_DB", "database")
	if pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return
	}
	if pgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if pgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// Redis config
	redisHost = getEnv("REDIS_HOST", "localhost")
	if redisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return
	}
	if redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	redisPassword = getEnv("REDIS_PASSWORD", "")

	// Kafka config
	kafkaBrokers = strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	kafkaNotificationsTopic = getEnv("KAFKA_NOTIFICATIONS_TOPIC", "notifications")
	kafkaEventsTopic = getEnv("KAFKA_EVENTS_TOPIC", "transaction-events")

	// JWT config
	jwtSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if jwtExpSecond, err = strconv.Atoi(getEnv("JWT_EXP_SECOND", "3600")); err != nil {
		return
	}

	// Cache config
	if adminCacheTTLSecond, err = strconv.Atoi(getEnv("ADMIN_CACHE_TTL_SECOND", "60")); err != nil {
		return
	}
	if ledgerCacheTTLSecond, err = strconv.Atoi(getEnv("LEDGER_CACHE_TTL_SECOND", "30")); err != nil {
		return
	}

	return
}

// run initializes the logger, database, Redis, Kafka writers, and HTTP server.
// It applies migrations, sets up routes and middleware, and handles graceful shutdown.
func run(ctx context.Context,
	appHost, appPort string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	kafkaBrokers []string, kafkaNotificationsTopic, kafkaEventsTopic string,
	logLevel, jwtSecretKey string, jwtExpSecond int,
	adminCacheTTLSecond, ledgerCacheTTLSecond int,
) error {
	// Initialize logger
	if err := logger.Initialize(logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		pgUser, pgPassword, pgHost, pgPort, pgDB)
	logger.Log.Infof("Connecting to PostgreSQL: %s:%d/%s", pgHost, pgPort, pgDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		logger.Log.Fatal("PostgreSQL connection error:", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(pgMaxOpenConns)
	db.SetMaxIdleConns(pgMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		logger.Log.Fatal("PostgreSQL ping failed:", err)
	}

	// Apply migrations
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.UpContext(ctx, db.DB, "."); err != nil {
		logger.Log.Fatal("migrations failed:", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", redisHost, redisPort),
		Password: redisPassword,
		DB:       redisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Fatal("Redis connection error:", err)
	}
	defer rdb.Close()

	// Kafka writers
	notificationsWriter := &kafka.Writer{
		Addr:     kafka.TCP(kafkaBrokers...),
		Topic:    kafkaNotificationsTopic,
		Balancer: &kafka.LeastBytes{},
	}
	defer notificationsWriter.Close()

	eventsWriter := &kafka.Writer{
		Addr:     kafka.TCP(kafkaBrokers...),
		Topic:    kafkaEventsTopic,
		Balancer: &kafka.LeastBytes{},
	}
	defer eventsWriter.Close()

	// Initialize JWT service
	jwtSvc := jwt.New(jwtSecretKey, time.Duration(jwtExpSecond)*time.Second)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db, middlewares.GetTxFromContext)
	txnReadRepo := repositories.NewTransactionReadRepository(db)
	txnWriteRepo := repositories.NewTransactionWriteRepository(db, middlewares.GetTxFromContext)
	adminRepo := repositories.NewAdminReadRepository(db)
	adminCache := repositories.NewAdminCacheRepository(rdb, time.Duration(adminCacheTTLSecond)*time.Second)
	ledgerCache := repositories.NewLedgerCacheRepository(rdb, time.Duration(ledgerCacheTTLSecond)*time.Second)

	// Initialize services
	notifier := services.NewNotificationService(notificationsWriter)
	authService := services.NewAuthService(userReadRepo, userWriteRepo, jwtSvc)
	adminAccess := services.NewAdminAccessService(adminRepo, adminCache)
	gateService := services.NewGateService(adminAccess, notifier)
	ledgerService := services.NewLedgerService(txnReadRepo, ledgerCache)
	refreshService := services.NewRefreshService(userReadRepo, userWriteRepo, notifier, services.DefaultClearDelay)
	reviewService := services.NewReviewService(txnWriteRepo, userWriteRepo, ledgerCache, notifier, eventsWriter)

	// Initialize handlers
	registerHandler := handlers.NewRegisterHandler(authService)
	loginHandler := handlers.NewLoginHandler(authService)
	transactionsHandler := handlers.NewTransactionsHandler(ledgerService)
	balanceHandler := handlers.NewGetBalanceHandler(userReadRepo)
	refreshHandler := handlers.NewRefreshHandler(refreshService)
	pendingHandler := handlers.NewPendingHandler(ledgerService)
	approveHandler := handlers.NewApproveHandler(reviewService)
	rejectHandler := handlers.NewRejectHandler(reviewService)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/register", registerHandler)
		r.Post("/login", loginHandler)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(middlewares.SessionMiddleware(jwtSvc))
			r.Use(middlewares.RequireAuth)
			r.Get("/transactions", transactionsHandler)
			r.Get("/balance", balanceHandler)
			r.Post("/balance/refresh", refreshHandler)
		})

		// Admin routes behind the access gate
		r.Group(func(r chi.Router) {
			r.Use(middlewares.SessionMiddleware(jwtSvc))
			r.Use(middlewares.AdminGateMiddleware(gateService))
			r.Get("/admin/transactions/pending", pendingHandler)
			r.Group(func(r chi.Router) {
				r.Use(middlewares.TxMiddleware(db))
				r.Post("/admin/transactions/{transactionID}/approve", approveHandler)
				r.Post("/admin/transactions/{transactionID}/reject", rejectHandler)
			})
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", appHost, appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", appHost, appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
