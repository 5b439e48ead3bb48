package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"road-risk-go/internal/client"
	"road-risk-go/internal/config"
	"road-risk-go/internal/database"
	"road-risk-go/internal/handler"
	"road-risk-go/internal/middleware"
	"road-risk-go/internal/repository"
	"road-risk-go/internal/scoring"
	"road-risk-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
)

func main() {
	// Инициализируем логгер
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	if err := config.LoadDotEnv(); err != nil {
		logger.Fatalf("Ошибка чтения .env: %v", err)
	}

	// Получаем конфигурацию из переменных окружения
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Ошибка конфигурации: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("Неизвестный уровень логирования %q, используется info", cfg.Logging.Level)
	}

	logger.Info("Запуск Road Accident Risk API Server")

	// Загружаем модель один раз при старте
	scorer, closeScorer, err := buildScorer(cfg.Model, logger)
	if err != nil {
		logger.Fatalf("Ошибка загрузки модели: %v", err)
	}
	defer closeScorer()

	guarded := scoring.NewGuard(scorer, scoring.GuardOptions{
		Timeout:   cfg.Model.Timeout,
		Serialize: cfg.Model.Serialize,
		RateLimit: cfg.Model.RateLimitRPS,
		Burst:     cfg.Model.RateLimitBurst,
	}, logger)
	logger.Infof("Модель %s готова к работе", guarded.Name())

	// Сохранение оценок включается отдельно
	var audit *service.AssessmentService
	if cfg.Audit.Enabled {
		logger.Info("Подключение к базе данных...")
		db, err := database.Connect(cfg.Database, logger)
		if err != nil {
			logger.Fatalf("Ошибка подключения к базе данных: %v", err)
		}
		defer func() {
			if err := database.Close(db); err != nil {
				logger.Errorf("Ошибка закрытия базы данных: %v", err)
			}
		}()

		logger.Info("Выполнение миграций базы данных...")
		if err := database.Migrate(db); err != nil {
			logger.Fatalf("Ошибка выполнения миграций: %v", err)
		}
		if err := database.HealthCheck(db); err != nil {
			logger.Fatalf("База данных недоступна: %v", err)
		}

		audit = service.NewAssessmentService(repository.NewAssessmentRepository(db), logger)
		logger.Info("База данных успешно подключена, оценки сохраняются")
	}

	// Инициализируем сервисы и обработчики
	predictionService := service.NewPredictionService(guarded, audit, logger)
	predictionHandler := handler.NewPredictionHandler(predictionService, logger)

	// Настраиваем Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	predictionHandler.RegisterRoutes(router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Раздаем загруженную модель по gRPC, если задан порт
	var grpcServer *grpc.Server
	if cfg.Server.GRPCPort > 0 {
		grpcServer, err = startGRPCServer(cfg.Server, guarded, logger)
		if err != nil {
			logger.Fatalf("Ошибка запуска gRPC сервера: %v", err)
		}
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Сервер запущен на %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Ошибка запуска сервера: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Остановка сервера...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Ошибка остановки сервера: %v", err)
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	logger.Info("Сервер остановлен")
}

// buildScorer создает модель выбранного бэкенда
func buildScorer(cfg config.ModelConfig, logger *logrus.Logger) (scoring.Scorer, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case config.BackendArtifact:
		scorer, err := scoring.LoadArtifact(cfg.ArtifactPath)
		if err != nil {
			return nil, noop, err
		}
		logger.Infof("Загружен артефакт модели %s", cfg.ArtifactPath)
		return scorer, noop, nil

	case config.BackendHTTP:
		logger.Infof("Используется HTTP модель %s", cfg.BaseURL)
		return client.NewModelAPIClient(cfg.BaseURL, cfg.Timeout, logger), noop, nil

	case config.BackendGRPC:
		scorer, err := client.NewGRPCScorer(cfg.GRPCTarget, logger)
		if err != nil {
			return nil, noop, err
		}
		logger.Infof("Используется gRPC модель %s", cfg.GRPCTarget)
		return scorer, func() {
			if err := scorer.Close(); err != nil {
				logger.Errorf("Ошибка закрытия gRPC соединения: %v", err)
			}
		}, nil
	}

	return nil, noop, fmt.Errorf("unknown model backend %q", cfg.Backend)
}

// startGRPCServer запускает gRPC сервер оценки
func startGRPCServer(cfg config.ServerConfig, scorer scoring.Scorer, logger *logrus.Logger) (*grpc.Server, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.GRPCPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := grpc.NewServer()
	client.RegisterScoringService(srv, scorer)

	go func() {
		logger.Infof("gRPC сервер запущен на %s", addr)
		if err := srv.Serve(lis); err != nil {
			logger.Errorf("Ошибка gRPC сервера: %v", err)
		}
	}()
	return srv, nil
}
