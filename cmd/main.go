package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	computeAvailabilityHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/compute_availability"
	getSchedulingPolicyHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_scheduling_policy"
	healthHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/health"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	policyCache "github.com/m04kA/SMC-SchedulingService/internal/infra/cache/policy"
	eventsRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/events"
	settingsRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/settings"
	workOrdersRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/workorders"
	calendarServiceClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/calendarservice"
	commitmentsService "github.com/m04kA/SMC-SchedulingService/internal/service/commitments"
	policyService "github.com/m04kA/SMC-SchedulingService/internal/service/policy"
	computeAvailabilityUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/compute_availability"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
)

const defaultConfigPath = "config.toml"

func main() {
	// Загружаем конфигурацию
	configPath := defaultConfigPath
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-SchedulingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Репозитории работают через обёртку метрик, если метрики включены
	var executor dbmetrics.DBExecutor = db
	if cfg.Metrics.Enabled {
		executor = dbmetrics.WrapWithDefault(db, metricsCollector, stopCh)
		log.Info("Database metrics collection started")
	}

	settingsRepository := settingsRepo.NewRepository(executor)
	eventsRepository := eventsRepo.NewRepository(executor)
	workOrdersRepository := workOrdersRepo.NewRepository(executor)

	// Кэш политик (необязательный)
	var cache policyService.PolicyCache
	if cfg.Redis.Enabled {
		redisClient, err := policyCache.NewClient(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		policyCacheStore := policyCache.NewCache(redisClient, cfg.Redis.TTL())
		defer policyCacheStore.Close()

		cache = policyCacheStore
		log.Info("Policy cache enabled (addr=%s, ttl=%s)", cfg.Redis.Addr, cfg.Redis.TTL())
	}

	// Источники занятости сотрудников
	sources := []commitmentsService.Source{eventsRepository, workOrdersRepository}
	if cfg.CalendarService.Enabled {
		calendarClient := calendarServiceClient.NewClient(
			cfg.CalendarService.URL,
			time.Duration(cfg.CalendarService.Timeout)*time.Second,
			log,
		)
		sources = append(sources, calendarClient)
		log.Info("Integration clients initialized (CalendarService=%s timeout=%ds)",
			cfg.CalendarService.URL, cfg.CalendarService.Timeout)
	}

	// Инициализируем сервисы
	resolver := policyService.NewResolver(settingsRepository, cache, log)
	loader := commitmentsService.NewLoader(log, sources...)

	// Инициализируем use cases
	computeAvailabilityUseCase := computeAvailabilityUC.NewUseCase(
		resolver,
		loader,
		metricsCollector,
		log,
		computeAvailabilityUC.Options{
			MaxParallelResources: cfg.Availability.MaxParallelResources,
			AllowPartialSources:  cfg.Availability.AllowPartialSources,
		},
	)

	// Инициализируем handlers
	computeAvailability := computeAvailabilityHandler.NewHandler(
		computeAvailabilityUseCase,
		nil,
		cfg.Availability.Timeout(),
		log,
	)
	getSchedulingPolicy := getSchedulingPolicyHandler.NewHandler(resolver, log)
	health := healthHandler.NewHandler(db, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimitOptions{
			RPS:               cfg.RateLimit.RPS,
			Burst:             cfg.RateLimit.Burst,
			IdleTTL:           cfg.RateLimit.IdleTTLDuration(),
			TrustForwardedFor: cfg.RateLimit.TrustForwardedFor,
		}, log)
		go limiter.RunCleanup(cfg.RateLimit.CleanupIntervalDuration(), stopCh)
		api.Use(limiter.Middleware)
		log.Info("Rate limiting enabled (rps=%.2f, burst=%d, trust_forwarded_for=%t)",
			cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.TrustForwardedFor)
	}

	// Расчёт доступных слотов для нескольких сотрудников
	api.HandleFunc("/availability", computeAvailability.Handle).Methods(http.MethodPost)

	// Политика планирования компании после подстановки значений по умолчанию
	api.HandleFunc("/companies/{companyId}/scheduling-policy",
		getSchedulingPolicy.Handle).Methods(http.MethodGet)

	// CORS для виджета бронирования
	cors := middleware.CORS(cfg.Server.AllowedOrigins, cfg.Server.AllowedHeaders)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      cors(r),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновые циклы: статистику connection pool и очистку лимитеров
	close(stopCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
