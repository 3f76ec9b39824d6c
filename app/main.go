package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"family-registry/internal/routes"
	"family-registry/pkg/config"
	"family-registry/pkg/database/postgresql"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/filestorage"
	applogger "family-registry/pkg/logger"
	appmiddleware "family-registry/pkg/middleware"
	"family-registry/pkg/service"
	"family-registry/pkg/utils"
	"family-registry/pkg/validation"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// 1. Конфиг и логгеры
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log)
	defer func() { _ = logger.Sync() }()
	loggers := applogger.NewLoggers(logger)

	if cfg.JWT.SecretKey == "" {
		logger.Fatal("JWT_SECRET_KEY не задан")
	}

	e := echo.New()
	e.HideBanner = true

	// 2. Middleware
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("перехвачена паника",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				_ = utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(appmiddleware.RequestLogger(loggers.Main))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
	}))

	// 3. Загруженные документы (отдаются только через /api/documents/:id/file)
	uploadDir, err := filepath.Abs(cfg.Storage.UploadDir)
	if err != nil {
		logger.Fatal("не удалось получить абсолютный путь к каталогу загрузок", zap.Error(err))
	}
	files, err := filestorage.NewLocalFileStorage(uploadDir)
	if err != nil {
		logger.Fatal("не удалось подготовить файловое хранилище", zap.Error(err))
	}

	e.Validator = validation.New()

	// 4. PostgreSQL и Redis
	ctx := context.Background()
	pool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal("не удалось подключиться к PostgreSQL", zap.Error(err))
	}
	defer pool.Close()

	sqlDB, err := postgresql.OpenSQL(cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal("не удалось открыть database/sql соединение", zap.Error(err))
	}
	defer sqlDB.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	// 5. Маршруты
	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)
	routes.InitRouter(e, &routes.Dependencies{
		DB:      pool,
		SQL:     sqlDB,
		Redis:   redisClient,
		JWT:     jwtSvc,
		Files:   files,
		Loggers: loggers,
		Config:  cfg,
	})

	// 6. Запуск и корректная остановка
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("сервер запущен", zap.String("addr", server.Addr))
		if err := e.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("ошибка запуска сервера", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("ошибка остановки сервера", zap.Error(err))
	}
	logger.Info("сервер остановлен")
}
