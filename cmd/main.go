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
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	bulkUpdateStatusHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/bulk_update_status"
	cancelAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_appointment"
	changeAppointmentStatusHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/change_appointment_status"
	checkAvailabilityHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/check_availability"
	createAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_appointment"
	createServiceHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_service"
	createSlotHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_slot"
	deleteAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/delete_appointment"
	deleteSlotHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/delete_slot"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getServiceHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_service"
	listAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_appointments"
	listNotificationsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_notifications"
	listServicesHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_services"
	listSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_slots"
	markNotificationReadHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/mark_notification_read"
	updateAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_appointment"
	updateServiceHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_service"
	updateSlotHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_slot"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/filestore"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	notificationRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/notification"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	userServiceClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/SMC-AppointmentService/internal/jobs/statusgauge"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	catalogService "github.com/m04kA/SMC-AppointmentService/internal/service/catalog"
	notificationsService "github.com/m04kA/SMC-AppointmentService/internal/service/notifications"
	scheduleService "github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	createAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	updateAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/jwtauth"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/telemetry"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
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

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone: %v", err)
	}

	// Трассировка
	shutdownTracing := telemetry.ShutdownFunc(func(context.Context) error { return nil })
	if cfg.Tracing.Enabled {
		shutdownTracing, err = telemetry.Setup(context.Background(),
			cfg.Tracing.ServiceName, cfg.Tracing.OTLPEndpoint, cfg.Tracing.Insecure)
		if err != nil {
			log.Fatal("Failed to set up tracing: %v", err)
		}
		log.Info("Tracing enabled (endpoint=%s)", cfg.Tracing.OTLPEndpoint)
	}

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		dbObserver       dbmetrics.Observer
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbObserver = metricsCollector
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

	// Без observer обёртка работает как обычный *sql.DB
	wrappedDB := dbmetrics.WrapWithDefault(db, dbObserver, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	serviceRepository := serviceRepo.NewRepository(wrappedDB)
	slotRepository := slotRepo.NewRepository(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	notificationRepository := notificationRepo.NewRepository(wrappedDB)

	// Определяем principal запросов
	var authenticator middleware.Authenticator
	switch cfg.Auth.Mode {
	case config.AuthModeHeader:
		userClient := userServiceClient.NewClient(
			cfg.UserService.URL,
			time.Duration(cfg.UserService.Timeout)*time.Second,
			log,
		)
		authenticator = middleware.NewHeaderAuthenticator(userClient)
		log.Info("Auth mode: header (UserService=%s timeout=%ds)", cfg.UserService.URL, cfg.UserService.Timeout)
	default:
		verifier, err := jwtauth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
		if err != nil {
			log.Fatal("Failed to initialize JWT verifier: %v", err)
		}
		authenticator = middleware.NewJWTAuthenticator(verifier)
		log.Info("Auth mode: jwt")
	}

	// Инициализируем сервисы
	catalogSvc := catalogService.NewService(serviceRepository, filestore.NewLocal(cfg.Storage.ImagesDir), log)
	scheduleSvc := scheduleService.NewService(slotRepository, serviceRepository, log)
	notificationsSvc := notificationsService.NewService(notificationRepository, log)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		notificationsSvc,
		txMgr,
		metricsCollector,
		cfg.Booking.PageSize,
		log,
	)
	resolver := availability.NewResolver(slotRepository, appointmentRepository, location, log)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		serviceRepository,
		resolver,
		txMgr,
		metricsCollector,
		log,
	)
	updateAppointmentUseCase := updateAppointmentUC.NewUseCase(
		appointmentRepository,
		serviceRepository,
		resolver,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		serviceRepository,
		scheduleSvc,
		location,
		log,
	)

	// Инициализируем handlers
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	getService := getServiceHandler.NewHandler(catalogSvc, log)
	createService := createServiceHandler.NewHandler(catalogSvc, log)
	updateService := updateServiceHandler.NewHandler(catalogSvc, log)
	listSlots := listSlotsHandler.NewHandler(scheduleSvc, log)
	createSlot := createSlotHandler.NewHandler(scheduleSvc, log)
	updateSlot := updateSlotHandler.NewHandler(scheduleSvc, log)
	deleteSlot := deleteSlotHandler.NewHandler(scheduleSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(resolver, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	updateAppointment := updateAppointmentHandler.NewHandler(updateAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	changeAppointmentStatus := changeAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	bulkUpdateStatus := bulkUpdateStatusHandler.NewHandler(appointmentsSvc, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(appointmentsSvc, log)
	listNotifications := listNotificationsHandler.NewHandler(notificationsSvc, log)
	markNotificationRead := markNotificationReadHandler.NewHandler(notificationsSvc, log)

	// Ограничение частоты создания записей
	var createAppointmentHTTP http.Handler = http.HandlerFunc(createAppointment.Handle)
	var redisClient *redis.Client
	if cfg.RateLimit.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
			DB:       cfg.RateLimit.RedisDB,
		})
		limiter := middleware.NewRateLimiter(
			redisClient,
			cfg.RateLimit.Limit,
			time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
			cfg.RateLimit.Prefix,
			cfg.RateLimit.FailOpen,
			log,
		)
		createAppointmentHTTP = limiter.Middleware(createAppointmentHTTP)
		log.Info("Rate limiting enabled for POST /appointments (limit=%d per %ds, redis=%s)",
			cfg.RateLimit.Limit, cfg.RateLimit.WindowSeconds, cfg.RateLimit.RedisAddr)
	}

	// Фоновые задачи
	scheduler := cron.New()
	if cfg.Metrics.Enabled {
		gaugeJob := statusgauge.NewJob(appointmentRepository, metricsCollector, log)
		if err := statusgauge.Schedule(scheduler, cfg.Jobs.StatusGaugeSpec, gaugeJob); err != nil {
			log.Fatal("Failed to schedule jobs: %v", err)
		}
	}
	scheduler.Start()

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (principal опционален)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuth(authenticator, log))

	// --- Каталог ---
	public.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)
	public.HandleFunc("/services/{serviceId:[0-9]+}", getService.Handle).Methods(http.MethodGet)

	// --- Расписание и доступность ---
	public.HandleFunc("/services/{serviceId:[0-9]+}/slots", listSlots.Handle).Methods(http.MethodGet)
	public.HandleFunc("/services/{serviceId:[0-9]+}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	public.HandleFunc("/services/{serviceId:[0-9]+}/availability", checkAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют principal)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(authenticator, log))

	// --- Записи ---
	protected.Handle("/appointments", createAppointmentHTTP).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId:[0-9]+}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId:[0-9]+}", updateAppointment.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/appointments/{appointmentId:[0-9]+}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// --- Уведомления ---
	protected.HandleFunc("/notifications", listNotifications.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{notificationId:[0-9]+}/read", markNotificationRead.Handle).Methods(http.MethodPatch)

	// ============================================================
	// ADMIN ROUTES (роль admin, сервисы проверяют права повторно)
	// ============================================================

	admin := api.PathPrefix("").Subrouter()
	admin.Use(middleware.Auth(authenticator, log), middleware.RequireAdmin(log))

	// --- Каталог ---
	admin.HandleFunc("/services", createService.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/services/{serviceId:[0-9]+}", updateService.Handle).Methods(http.MethodPut)

	// --- Расписание ---
	admin.HandleFunc("/services/{serviceId:[0-9]+}/slots", createSlot.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/slots/{slotId:[0-9]+}", updateSlot.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/slots/{slotId:[0-9]+}", deleteSlot.Handle).Methods(http.MethodDelete)

	// --- Модерация записей ---
	admin.HandleFunc("/appointments/bulk-status", bulkUpdateStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/appointments/{appointmentId:[0-9]+}/status", changeAppointmentStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/appointments/{appointmentId:[0-9]+}", deleteAppointment.Handle).Methods(http.MethodDelete)

	var rootHandler http.Handler = r
	if cfg.Tracing.Enabled {
		rootHandler = otelhttp.NewHandler(r, cfg.Tracing.ServiceName)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      rootHandler,
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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся текущего прохода фоновых задач
	<-scheduler.Stop().Done()

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warn("Failed to close redis client: %v", err)
		}
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}
