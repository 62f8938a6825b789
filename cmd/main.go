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

	cancelBookingHandler "github.com/kmatv/HS-BookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/kmatv/HS-BookingService/internal/api/handlers/create_booking"
	createWithdrawalHandler "github.com/kmatv/HS-BookingService/internal/api/handlers/create_withdrawal"
	getBookingHandler "github.com/kmatv/HS-BookingService/internal/api/handlers/get_booking"
	getOccupancyHandler "github.com/kmatv/HS-BookingService/internal/api/handlers/get_occupancy"
	getProviderBookingsHandler "github.com/kmatv/HS-BookingService/internal/api/handlers/get_provider_bookings"
	getProviderEarningsHandler "github.com/kmatv/HS-BookingService/internal/api/handlers/get_provider_earnings"
	getSlotAvailabilityHandler "github.com/kmatv/HS-BookingService/internal/api/handlers/get_slot_availability"
	getSlotLimitsHandler "github.com/kmatv/HS-BookingService/internal/api/handlers/get_slot_limits"
	getUserBookingsHandler "github.com/kmatv/HS-BookingService/internal/api/handlers/get_user_bookings"
	getWithdrawalsHandler "github.com/kmatv/HS-BookingService/internal/api/handlers/get_withdrawals"
	markReviewedHandler "github.com/kmatv/HS-BookingService/internal/api/handlers/mark_reviewed"
	setSlotLimitHandler "github.com/kmatv/HS-BookingService/internal/api/handlers/set_slot_limit"
	transitionBookingHandler "github.com/kmatv/HS-BookingService/internal/api/handlers/transition_booking"
	"github.com/kmatv/HS-BookingService/internal/api/middleware"
	"github.com/kmatv/HS-BookingService/internal/config"
	"github.com/kmatv/HS-BookingService/internal/domain"
	"github.com/kmatv/HS-BookingService/internal/infra/locks"
	"github.com/kmatv/HS-BookingService/internal/infra/occupancy"
	bookingRepo "github.com/kmatv/HS-BookingService/internal/infra/storage/booking"
	promoRepo "github.com/kmatv/HS-BookingService/internal/infra/storage/promocode"
	slotLimitRepo "github.com/kmatv/HS-BookingService/internal/infra/storage/slotlimit"
	withdrawalRepo "github.com/kmatv/HS-BookingService/internal/infra/storage/withdrawal"
	geoServiceClient "github.com/kmatv/HS-BookingService/internal/integrations/geoservice"
	paymentClient "github.com/kmatv/HS-BookingService/internal/integrations/paymentgateway"
	"github.com/kmatv/HS-BookingService/internal/service/admission"
	bookingsService "github.com/kmatv/HS-BookingService/internal/service/bookings"
	slotLimitsService "github.com/kmatv/HS-BookingService/internal/service/slotlimits"
	withdrawalsService "github.com/kmatv/HS-BookingService/internal/service/withdrawals"
	createBookingUC "github.com/kmatv/HS-BookingService/internal/usecase/create_booking"
	getEarningsUC "github.com/kmatv/HS-BookingService/internal/usecase/get_earnings_summary"
	getAvailabilityUC "github.com/kmatv/HS-BookingService/internal/usecase/get_slot_availability"
	transitionBookingUC "github.com/kmatv/HS-BookingService/internal/usecase/transition_booking"
	"github.com/kmatv/HS-BookingService/pkg/dbmetrics"
	"github.com/kmatv/HS-BookingService/pkg/events"
	"github.com/kmatv/HS-BookingService/pkg/logger"
	"github.com/kmatv/HS-BookingService/pkg/metrics"
	"github.com/kmatv/HS-BookingService/pkg/simpletxmanager"
	"github.com/kmatv/HS-BookingService/pkg/txmanager"
	"github.com/kmatv/HS-BookingService/pkg/types"
)

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

	log.Info("Starting HS-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Инициализируем репозитории (с метриками или без)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var (
		txMgr                TxManager
		bookingRepository    *bookingRepo.Repository
		promoRepository      *promoRepo.Repository
		slotLimitRepository  *slotLimitRepo.Repository
		withdrawalRepository *withdrawalRepo.Repository
		occupancyStore       *occupancy.PgStore
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		promoRepository = promoRepo.NewRepository(wrappedDB)
		slotLimitRepository = slotLimitRepo.NewRepository(wrappedDB)
		withdrawalRepository = withdrawalRepo.NewRepository(wrappedDB)
		occupancyStore = occupancy.NewPgStore(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		promoRepository = promoRepo.NewRepository(db)
		slotLimitRepository = slotLimitRepo.NewRepository(db)
		withdrawalRepository = withdrawalRepo.NewRepository(db)
		occupancyStore = occupancy.NewPgStore(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Контроллер допуска в слоты: занятость выводится из строк
	// booking_slot_claims, лимиты читаются из timeslot_category_limits
	admissionController := admission.NewController(occupancyStore, slotLimitRepository, log)

	// Распределенные блокировки ключей слотов (опционально)
	var slotLocker createBookingUC.SlotLocker = locks.NopLocker{}
	if cfg.Redis.Enabled {
		redisClient, err := locks.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		slotLocker = locks.NewRedisLocker(redisClient, time.Duration(cfg.Redis.LockTTLSec)*time.Second)
		log.Info("Redis slot locks enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.LockTTLSec)
	}

	// Публикация доменных событий (опционально)
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQ.Enabled {
		rabbitPublisher, err := events.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to rabbitmq: %v", err)
		}
		defer rabbitPublisher.Close()
		publisher = rabbitPublisher
		log.Info("RabbitMQ event publishing enabled (exchange=%s)", cfg.RabbitMQ.Exchange)
	}

	// Интеграционные клиенты
	payments := paymentClient.NewClient(
		cfg.PaymentService.URL,
		time.Duration(cfg.PaymentService.Timeout)*time.Second,
		log,
	)

	var geoChecker createBookingUC.GeoChecker = geoServiceClient.NopChecker{}
	if cfg.GeoService.Enabled {
		geoChecker = geoServiceClient.NewClient(
			cfg.GeoService.URL,
			time.Duration(cfg.GeoService.Timeout)*time.Second,
			log,
		)
		log.Info("Geo service client initialized (url=%s, strict=%t)", cfg.GeoService.URL, cfg.GeoService.Strict)
	}

	// Ценовая политика платформы
	billingPolicy := buildBillingPolicy(cfg)
	providerFee := buildProviderFee(cfg)

	// Сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	slotLimitSvc := slotLimitsService.NewService(slotLimitRepository, bookingRepository, log)
	withdrawalSvc := withdrawalsService.NewService(withdrawalRepository, bookingRepository, providerFee, log)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		promoRepository,
		admissionController,
		geoChecker,
		slotLocker,
		publisher,
		txMgr,
		billingPolicy,
		log,
	)
	transitionBookingUseCase := transitionBookingUC.NewUseCase(
		bookingRepository,
		promoRepository,
		admissionController,
		payments,
		publisher,
		log,
	)
	getEarningsUseCase := getEarningsUC.NewUseCase(bookingRepository, withdrawalRepository, providerFee, log)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(slotLimitRepository, bookingRepository, log)

	// Handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	transitionBooking := transitionBookingHandler.NewHandler(transitionBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(transitionBookingUseCase, log)
	markReviewed := markReviewedHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getProviderBookings := getProviderBookingsHandler.NewHandler(bookingSvc, log)
	getProviderEarnings := getProviderEarningsHandler.NewHandler(getEarningsUseCase, log)
	createWithdrawal := createWithdrawalHandler.NewHandler(withdrawalSvc, log)
	getWithdrawals := getWithdrawalsHandler.NewHandler(withdrawalSvc, log)
	setSlotLimit := setSlotLimitHandler.NewHandler(slotLimitSvc, log)
	getSlotLimits := getSlotLimitsHandler.NewHandler(slotLimitSvc, log)
	getOccupancy := getOccupancyHandler.NewHandler(slotLimitSvc, log)
	getSlotAvailability := getSlotAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступность слотов категории на дату
	api.HandleFunc("/categories/{id}/availability", getSlotAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID и X-User-Role)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(log))

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{id}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{id}/status", transitionBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{id}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{id}/review", markReviewed.Handle).Methods(http.MethodPatch)

	// --- История бронирований ---
	protected.HandleFunc("/users/{id}/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{id}/bookings", getProviderBookings.Handle).Methods(http.MethodGet)

	// --- Взаиморасчеты исполнителей ---
	protected.HandleFunc("/providers/{id}/earnings", getProviderEarnings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{id}/withdrawals", createWithdrawal.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/providers/{id}/withdrawals", getWithdrawals.Handle).Methods(http.MethodGet)

	// --- Администрирование слотов ---
	protected.HandleFunc("/categories/{id}/slot-limit", setSlotLimit.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/admin/slot-limits", getSlotLimits.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/admin/occupancy", getOccupancy.Handle).Methods(http.MethodGet)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

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

// buildBillingPolicy собирает ценовую политику из конфигурации
func buildBillingPolicy(cfg *config.Config) createBookingUC.BillingPolicy {
	policy := createBookingUC.BillingPolicy{
		DefaultTaxRatePercent: cfg.Billing.DefaultTaxRatePercent,
		StrictServiceability:  cfg.GeoService.Strict,
	}

	if cfg.Billing.VisitingCharge != nil {
		charge := toChargeInput(*cfg.Billing.VisitingCharge)
		policy.VisitingCharge = &charge
	}
	for _, fee := range cfg.Billing.PlatformFees {
		policy.PlatformFees = append(policy.PlatformFees, toChargeInput(fee))
	}

	return policy
}

func toChargeInput(c config.ChargeConfig) domain.ChargeInput {
	return domain.ChargeInput{
		Name:           c.Name,
		Amount:         types.Money(c.Amount),
		IsTaxInclusive: c.IsTaxInclusive,
		TaxRatePercent: c.TaxRatePercent,
	}
}

// buildProviderFee собирает конфигурацию комиссии платформы
func buildProviderFee(cfg *config.Config) domain.ProviderFeeConfig {
	fee := domain.ProviderFeeConfig{
		Percent: cfg.Billing.ProviderFee.Percent,
		Flat:    types.Money(cfg.Billing.ProviderFee.Flat),
	}
	if cfg.Billing.ProviderFee.Type == "fixed" {
		fee.Type = domain.FeeFixed
	} else {
		fee.Type = domain.FeePercentage
	}
	return fee
}
