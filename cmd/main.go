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
	"github.com/redis/go-redis/v9"

	acceptBookingHandler "github.com/m04kA/SMC-DispatchService/internal/api/handlers/accept_booking"
	cancelBookingHandler "github.com/m04kA/SMC-DispatchService/internal/api/handlers/cancel_booking"
	capturePaymentHandler "github.com/m04kA/SMC-DispatchService/internal/api/handlers/capture_payment"
	completeJobHandler "github.com/m04kA/SMC-DispatchService/internal/api/handlers/complete_job"
	createBookingHandler "github.com/m04kA/SMC-DispatchService/internal/api/handlers/create_booking"
	declineBookingHandler "github.com/m04kA/SMC-DispatchService/internal/api/handlers/decline_booking"
	findProvidersHandler "github.com/m04kA/SMC-DispatchService/internal/api/handlers/find_providers"
	getBookingHandler "github.com/m04kA/SMC-DispatchService/internal/api/handlers/get_booking"
	getUserBookingsHandler "github.com/m04kA/SMC-DispatchService/internal/api/handlers/get_user_bookings"
	rateBookingHandler "github.com/m04kA/SMC-DispatchService/internal/api/handlers/rate_booking"
	startJobHandler "github.com/m04kA/SMC-DispatchService/internal/api/handlers/start_job"
	updateLocationHandler "github.com/m04kA/SMC-DispatchService/internal/api/handlers/update_location"
	"github.com/m04kA/SMC-DispatchService/internal/api/middleware"
	"github.com/m04kA/SMC-DispatchService/internal/config"
	"github.com/m04kA/SMC-DispatchService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-DispatchService/internal/infra/storage/booking"
	escrowRepo "github.com/m04kA/SMC-DispatchService/internal/infra/storage/escrow"
	locationStore "github.com/m04kA/SMC-DispatchService/internal/infra/storage/location"
	providerRepo "github.com/m04kA/SMC-DispatchService/internal/infra/storage/provider"
	catalogServiceClient "github.com/m04kA/SMC-DispatchService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-DispatchService/internal/integrations/notify"
	"github.com/m04kA/SMC-DispatchService/internal/integrations/paymentgw"
	userServiceClient "github.com/m04kA/SMC-DispatchService/internal/integrations/userservice"
	bookingsService "github.com/m04kA/SMC-DispatchService/internal/service/bookings"
	escrowService "github.com/m04kA/SMC-DispatchService/internal/service/escrow"
	pricingService "github.com/m04kA/SMC-DispatchService/internal/service/pricing"
	capturePaymentUC "github.com/m04kA/SMC-DispatchService/internal/usecase/capture_payment"
	createBookingUC "github.com/m04kA/SMC-DispatchService/internal/usecase/create_booking"
	findProvidersUC "github.com/m04kA/SMC-DispatchService/internal/usecase/find_providers"
	updateLocationUC "github.com/m04kA/SMC-DispatchService/internal/usecase/update_location"
	"github.com/m04kA/SMC-DispatchService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DispatchService/pkg/logger"
	"github.com/m04kA/SMC-DispatchService/pkg/metrics"
	"github.com/m04kA/SMC-DispatchService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-DispatchService/pkg/txmanager"
)

// TxManager интерфейс транзакционного менеджера для usecases и сервисов
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting SMC-DispatchService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

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

	// Подключаемся к Redis (живые координаты сторон)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to ping redis: %v", err)
	}
	log.Info("Successfully connected to redis (addr=%s)", cfg.Redis.Addr)

	// Подключаемся к RabbitMQ (уведомления), если включен
	var notifier interface {
		Publish(ctx context.Context, key string, event notify.BookingEvent) error
	}
	if cfg.RabbitMQ.Enabled {
		publisher, err := notify.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to rabbitmq: %v", err)
		}
		defer publisher.Close()
		notifier = publisher
		log.Info("Successfully connected to rabbitmq (exchange=%s)", cfg.RabbitMQ.Exchange)
	} else {
		notifier = notify.NopPublisher{}
		log.Info("RabbitMQ disabled, lifecycle events will not be published")
	}

	// Инициализируем интеграционных клиентов
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	gateway, err := paymentgw.NewClient(
		cfg.PaymentGateway.PublicKey,
		cfg.PaymentGateway.SecretKey,
		cfg.PaymentGateway.Currency,
		time.Duration(cfg.PaymentGateway.Timeout)*time.Second,
		log,
	)
	if err != nil {
		log.Fatal("Failed to initialize payment gateway client: %v", err)
	}
	log.Info("Integration clients initialized (UserService=%s, CatalogService=%s)",
		cfg.UserService.URL, cfg.CatalogService.URL)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		escrowRepository   *escrowRepo.Repository
		providerRepository *providerRepo.Repository
		txMgr              TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		escrowRepository = escrowRepo.NewRepository(wrappedDB)
		providerRepository = providerRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		escrowRepository = escrowRepo.NewRepository(db)
		providerRepository = providerRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	locations := locationStore.NewStore(redisClient, time.Duration(cfg.Redis.LocationTTL)*time.Second)

	// Доменные политики из конфигурации
	slaPolicy := domain.SLAPolicy{
		ToleranceFraction:  cfg.SLA.ToleranceFraction,
		PenaltyRate:        cfg.SLA.PenaltyRate,
		MaxPenaltyFraction: cfg.SLA.MaxPenaltyFraction,
	}
	proximityPolicy := domain.ProximityPolicy{
		ThresholdMeters: cfg.Proximity.ThresholdMeters,
		MinDwell:        time.Duration(cfg.Proximity.MinDwellMinutes) * time.Minute,
	}

	// Инициализируем сервисы
	pricingSvc := pricingService.NewService(pricingService.Config{
		JobSizeMultipliers:  cfg.Pricing.JobSizeMultipliers,
		LocationMultipliers: cfg.Pricing.LocationMultipliers,
		DefaultMultiplier:   cfg.Pricing.DefaultMultiplier,
	})
	escrowSvc := escrowService.NewService(escrowRepository, cfg.Escrow.CommissionRate, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		escrowSvc,
		txMgr,
		notifier,
		slaPolicy,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		catalogClient,
		userClient,
		pricingSvc,
		notifier,
		txMgr,
		log,
	)
	capturePaymentUseCase := capturePaymentUC.NewUseCase(
		bookingRepository,
		escrowSvc,
		gateway,
		notifier,
		txMgr,
		log,
	)
	updateLocationUseCase := updateLocationUC.NewUseCase(
		bookingRepository,
		locations,
		proximityPolicy,
		txMgr,
		log,
	)
	findProvidersUseCase := findProvidersUC.NewUseCase(
		providerRepository,
		bookingRepository,
		pricingSvc,
		cfg.Matching.MaxSearchRadiusKm,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	acceptBooking := acceptBookingHandler.NewHandler(bookingSvc, log)
	declineBooking := declineBookingHandler.NewHandler(bookingSvc, log)
	capturePayment := capturePaymentHandler.NewHandler(capturePaymentUseCase, log)
	updateLocation := updateLocationHandler.NewHandler(updateLocationUseCase, log)
	startJob := startJobHandler.NewHandler(bookingSvc, log)
	completeJob := completeJobHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	rateBooking := rateBookingHandler.NewHandler(bookingSvc, log)
	findProviders := findProvidersHandler.NewHandler(findProvidersUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Подбор исполнителей под работу
	api.HandleFunc("/providers/available", findProviders.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// --- Фаза заявки ---
	protected.HandleFunc("/bookings/{bookingId}/accept", acceptBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/decline", declineBooking.Handle).Methods(http.MethodPatch)

	// --- Оплата ---
	protected.HandleFunc("/bookings/{bookingId}/payment", capturePayment.Handle).Methods(http.MethodPost)

	// --- Выполнение работы ---
	protected.HandleFunc("/bookings/{bookingId}/location", updateLocation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/start", startJob.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeJob.Handle).Methods(http.MethodPatch)

	// --- Отмена и оценка ---
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/rating", rateBooking.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
