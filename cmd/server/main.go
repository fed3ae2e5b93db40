package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/reputation-ledger/internal/config"
	"github.com/ignatzorin/reputation-ledger/internal/db"
	"github.com/ignatzorin/reputation-ledger/internal/events"
	httpHandlers "github.com/ignatzorin/reputation-ledger/internal/http/handlers"
	httpRouter "github.com/ignatzorin/reputation-ledger/internal/http/router"
	"github.com/ignatzorin/reputation-ledger/internal/logger"
	"github.com/ignatzorin/reputation-ledger/internal/repository"
	"github.com/ignatzorin/reputation-ledger/internal/service"
	"github.com/ignatzorin/reputation-ledger/internal/verifier"
	"github.com/ignatzorin/reputation-ledger/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Репозитории.
	ledger := repository.NewReviewLedger(dbConn)
	index := repository.NewUserReviewIndex(dbConn)
	users := repository.NewReputationRepository(dbConn)

	// Лента событий операций.
	hub := ws.NewHub(ctx)
	go hub.Run()
	emitter := events.Multi{events.LogEmitter{}, ws.NewBroadcaster(hub)}

	// Проверки доказательств и подписей пока заглушки: интеграция с платёжным
	// контуром подключается здесь, не трогая ядро.
	proofs := verifier.AcceptAllProofs{}
	signatures := verifier.AcceptAllSignatures{}

	// Сервисы.
	reputationService := service.NewReputationService(ledger, index, users, cfg.ReputationParams, emitter)
	reviewService := service.NewReviewService(ledger, index, reputationService, proofs, signatures, service.AllowAllDisputes{}, emitter)
	queryService := service.NewQueryService(ledger, index, users)
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	// HTTP хэндлеры.
	reviewHandler := httpHandlers.NewReviewHandler(reviewService, reputationService)
	queryHandler := httpHandlers.NewQueryHandler(queryService)
	eventsHandler := httpHandlers.NewEventsHandler(hub)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)
	authHandler := httpHandlers.NewAuthHandler(tokenManager)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, reviewHandler, queryHandler, eventsHandler, healthHandler, authHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
