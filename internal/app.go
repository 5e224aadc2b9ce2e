package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	blobstore_client "github.com/Divyanshu-Bhandari/browzfast/internal/adapters/blobstore"
	logger_adapter "github.com/Divyanshu-Bhandari/browzfast/internal/adapters/logger"
	postgres_adapter "github.com/Divyanshu-Bhandari/browzfast/internal/adapters/postgres"
	rabbitmq_adapter "github.com/Divyanshu-Bhandari/browzfast/internal/adapters/rabbitmq"
	"github.com/Divyanshu-Bhandari/browzfast/internal/adapters/rest"
	"github.com/Divyanshu-Bhandari/browzfast/internal/configs"
	"github.com/Divyanshu-Bhandari/browzfast/internal/constants"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/port"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/usecase"
	fluentlogger "github.com/Divyanshu-Bhandari/browzfast/pkg/fluent_logger"
	"github.com/Divyanshu-Bhandari/browzfast/pkg/postgres"
	"github.com/Divyanshu-Bhandari/browzfast/pkg/rabbitmq/rabbitmq_common"
	"github.com/Divyanshu-Bhandari/browzfast/pkg/rabbitmq/rabbitmq_consumer"
	"github.com/Divyanshu-Bhandari/browzfast/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	config    *configs.AppConfig
	dbPool    *pgxpool.Pool
	apiServer *rest.Server

	connManager     *rabbitmq_common.ConnectionManager
	eventProducer   *rabbitmq_producer.Publisher
	cleanupListener port.EventListenerPort

	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false, // текстовый формат
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	// Добавляем Fluent Bit логгер, если он включен в конфигурации
	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName, // Используем имя приложения как префикс
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	// Создаем наш композитный логгер
	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	// --- 2. СОЗДАЕМ БАЗОВЫЙ ЛОГГЕР ПРИЛОЖЕНИЯ С КОНТЕКСТОМ ---
	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 3. ИНИЦИАЛИЗАЦИЯ НИЗКОУРОВНЕВЫХ ЗАВИСИМОСТЕЙ ---
	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Database.URL})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	pkgLoggerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq"}))

	connManager, err := rabbitmq_common.NewManager(appConfig.RabbitMQ.URL, pkgLoggerBridge)
	if err != nil {
		appLogger.Error("Failed to create RabbitMQ connection manager", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create rabbitmq connection manager: %w", err)
	}

	producerCfg := rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		ExchangeName:             constants.BlobCleanupExchange,
		ExchangeType:             "direct",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   pkgLoggerBridge,
	}
	eventProducer, err := rabbitmq_producer.NewPublisher(producerCfg, connManager)
	if err != nil {
		appLogger.Error("Failed to create event producer", err, port.Fields{"url": appConfig.RabbitMQ.URL})
		connManager.Close()
		dbPool.Close()
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}
	appLogger.Info("RabbitMQ Event Producer initialized.", nil)

	// --- 4. ИСХОДЯЩИЕ АДАПТЕРЫ ---
	favouritesRepo, err := postgres_adapter.NewPostgresFavouritesRepository(dbPool)
	if err != nil {
		appLogger.Error("Failed to create postgres favourites repository", err, nil)
		eventProducer.Close()
		connManager.Close()
		dbPool.Close()
		return nil, fmt.Errorf("failed to create postgres favourites repository: %w", err)
	}

	bookmarkRepo, err := postgres_adapter.NewPostgresBookmarkLinkRepository(dbPool)
	if err != nil {
		appLogger.Error("Failed to create postgres bookmark link repository", err, nil)
		eventProducer.Close()
		connManager.Close()
		dbPool.Close()
		return nil, fmt.Errorf("failed to create postgres bookmark link repository: %w", err)
	}

	blobClient := blobstore_client.NewBlobStorageAPIClient(appConfig.ApiClient.BLOB_SERVICE_URL)

	cleanupQueueAdapter, err := rabbitmq_adapter.NewBlobCleanupEnqueueAdapter(eventProducer, constants.RoutingKeyBlobCleanup)
	if err != nil {
		appLogger.Error("Failed to create blob cleanup enqueue adapter", err, nil)
		eventProducer.Close()
		connManager.Close()
		dbPool.Close()
		return nil, fmt.Errorf("failed to create blob cleanup enqueue adapter: %w", err)
	}
	appLogger.Info("All persistence and service adapters initialized.", nil)

	// --- 5. ИНИЦИАЛИЗАЦИЯ USE CASES (ядра бизнес-логики) ---
	listFavouritesUseCase := usecase.NewListFavouritesUseCase(favouritesRepo)
	addFavouriteUseCase := usecase.NewAddFavouriteUseCase(favouritesRepo)
	updateFavouriteUseCase := usecase.NewUpdateFavouriteUseCase(favouritesRepo)
	deleteFavouriteUseCase := usecase.NewDeleteFavouriteUseCase(favouritesRepo)
	reorderFavouritesUseCase := usecase.NewReorderFavouritesUseCase(favouritesRepo)
	getBookmarkLinkUseCase := usecase.NewGetBookmarkLinkUseCase(bookmarkRepo)
	setBookmarkLinkUseCase := usecase.NewSetBookmarkLinkUseCase(bookmarkRepo, blobClient, cleanupQueueAdapter)
	deleteBookmarkLinkUseCase := usecase.NewDeleteBookmarkLinkUseCase(bookmarkRepo, blobClient, cleanupQueueAdapter)
	processBlobCleanupUseCase := usecase.NewProcessBlobCleanupUseCase(blobClient)
	appLogger.Info("All use cases initialized.", nil)

	// --- 6. ВХОДЯЩИЕ АДАПТЕРЫ ---
	cleanupConsumerCfg := rabbitmq_consumer.ConsumerConfig{
		Config:              rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		QueueName:           constants.QueueBlobCleanup,
		RoutingKeyForBind:   constants.RoutingKeyBlobCleanup,
		ExchangeNameForBind: constants.BlobCleanupExchange,
		PrefetchCount:       1,
		DurableQueue:        true,
		ConsumerTag:         "blob-cleanup-adapter",
		DeclareQueue:        true,

		EnableRetryMechanism: true,
		RetryExchange:        constants.QueueBlobCleanup + "_retry_ex",
		RetryQueue:           constants.QueueBlobCleanup + "_retry_wait_30s",
		RetryTTL:             30000, // 30 секунд в миллисекундах

		FinalDLXExchange:   constants.QueueBlobCleanup + "_final_dlx",
		FinalDLQ:           constants.QueueBlobCleanup + "_final_dlq",
		FinalDLQRoutingKey: "blob.cleanup.dlq.key",

		MaxRetries: 10,
	}
	cleanupListener, err := rabbitmq_adapter.NewCleanupConsumerAdapter(cleanupConsumerCfg, processBlobCleanupUseCase, baseLogger, connManager)
	if err != nil {
		appLogger.Error("Failed to initialize Blob Cleanup Listener", err, nil)
		eventProducer.Close()
		connManager.Close()
		dbPool.Close()
		return nil, err
	}
	appLogger.Info("Blob Cleanup Listener initialized.", nil)

	// REST API Server
	favouritesHandlers := rest.NewFavouritesHandler(
		listFavouritesUseCase,
		addFavouriteUseCase,
		updateFavouriteUseCase,
		deleteFavouriteUseCase,
		reorderFavouritesUseCase,
	)
	bookmarkHandlers := rest.NewBookmarkHandler(getBookmarkLinkUseCase, setBookmarkLinkUseCase, deleteBookmarkLinkUseCase)
	apiServer := rest.NewServer(appConfig.Rest.PORT, appConfig.Rest.AllowedOrigins, favouritesHandlers, bookmarkHandlers, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	// --- 7. СОБИРАЕМ ПРИЛОЖЕНИЕ ---
	application := &App{
		config:    appConfig,
		dbPool:    dbPool,
		apiServer: apiServer,

		connManager:     connManager,
		eventProducer:   eventProducer,
		cleanupListener: cleanupListener,

		fluentClient: fluentClient,
		logger:       appLogger,
	}

	return application, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	// Создаем единый контекст для всего приложения для управления graceful shutdown
	appCtx, cancelApp := context.WithCancel(context.Background())

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		if a.cleanupListener != nil {
			if err := a.cleanupListener.Close(); err != nil {
				a.logger.Error("Error during cleanup listener shutdown", err, nil)
			}
		}

		if a.eventProducer != nil {
			if err := a.eventProducer.Close(); err != nil {
				a.logger.Error("Error during event producer shutdown", err, nil)
			}
		}

		if a.connManager != nil {
			if err := a.connManager.Close(); err != nil {
				a.logger.Error("Error during RabbitMQ connection shutdown", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// Логируем в stdout, так как fluent может быть уже недоступен
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	consumerErrors := make(chan error, 1)
	go func() {
		listenerLogger := a.logger.WithFields(port.Fields{"component": "blob_cleanup_listener"})
		listenerLogger.Info("Starting listener...", nil)
		if err := a.cleanupListener.Start(appCtx); err != nil {
			listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
			consumerErrors <- fmt.Errorf("blob cleanup listener error: %w", err)
		} else {
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}
	}()

	// Ожидание сигнала на завершение или ошибки от одного из компонентов
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or component error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	case err := <-serverErrors:
		a.logger.Error("Server failed to start, shutting down", err, nil)
	case err := <-consumerErrors:
		a.logger.Error("Consumer failed, shutting down", err, nil)
	}

	// Инициируем graceful shutdown, отменяя главный контекст
	cancelApp()

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		// Возвращаем безопасное значение по умолчанию и логируем предупреждение
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
