package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"module-owner-service/internal/config"
	"module-owner-service/internal/database"
	"module-owner-service/internal/dispatch"
	"module-owner-service/internal/gitrepo"
	"module-owner-service/internal/handler"
	"module-owner-service/internal/ownership"
	"module-owner-service/internal/repository"
	"module-owner-service/internal/search"
	"module-owner-service/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	// Логгер
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Конфиг
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warnf(".env not found: %v", err)
	}

	// База данных (database/sql)
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		logger.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()
	logger.Info("Database connected")

	// Репозитории
	accountRepo := repository.NewAccountRepository(db)
	changeRepo := repository.NewChangeRepository(db)
	approvalRepo := repository.NewApprovalRepository(db)
	projectRepo := repository.NewProjectRepository(db)

	// Git-репозитории проектов и поисковый индекс
	gitService := gitrepo.New(cfg.GitBaseDir, cfg.GlobalOwnersConfig, logger)
	indexer := search.NewMeili(cfg.MeiliURL, cfg.MeiliAPIKey, logger)

	// Кэш снимков конфигурации владения
	configCache := ownership.NewCache(usecase.NewIndexLoader(gitService, accountRepo, logger), logger)

	// Use Cases
	eventUC := usecase.NewEventUseCase(configCache, accountRepo, changeRepo,
		approvalRepo, projectRepo, gitService, indexer, cfg.MaxReviewers, logger)
	ownerUC := usecase.NewOwnerUseCase(configCache, accountRepo, changeRepo,
		projectRepo, gitService, logger)

	// Пул обработки событий
	pool := dispatch.NewPool(cfg.EventWorkers, logger)

	// Echo + Handlers
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(handler.LoggingMiddleware(logger))

	eventHandler := handler.NewEventHandler(eventUC, ownerUC, pool, logger)
	ownerHandler := handler.NewOwnerHandler(ownerUC, logger)

	e.POST("/events", eventHandler.PostEvent)
	e.POST("/refs/updated", eventHandler.PostRefUpdate)
	e.GET("/changes/:changeID/revisions/:revision/owner-status", ownerHandler.GetOwnerStatus)
	e.POST("/changes/:changeID/revisions/:revision/submit-check", ownerHandler.PostSubmitCheck)
	e.GET("/projects/:project/owners", ownerHandler.GetProjectOwners)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// Запуск сервера
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil {
			logger.Infof("Server stopped: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatalf("Shutdown failed: %v", err)
	}

	pool.Wait()
	logger.Info("Server exited")
}
