package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dayplanner/internal/config"
	"dayplanner/internal/handlers"
	"dayplanner/internal/logger"
	"dayplanner/internal/middleware"
	rep "dayplanner/internal/repository"
	accountinmemory "dayplanner/internal/repository/account/inmemory"
	accountpostgres "dayplanner/internal/repository/account/postgres"
	taskinmemory "dayplanner/internal/repository/task/inmemory"
	taskpostgres "dayplanner/internal/repository/task/postgres"
	"dayplanner/internal/service"
	"dayplanner/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type App struct {
	config    *config.Config
	server    *http.Server
	taskRepo  service.TaskRepository
	worker    *worker.DigestWorker
	shutdowns []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	taskRepo, accountRepo, err := a.initRepositories(ctx)
	if err != nil {
		return err
	}
	a.taskRepo = taskRepo

	taskService := service.NewTaskService(taskRepo, accountRepo)
	accountService := service.NewAccountService(accountRepo)

	auth := middleware.NewAuth(a.config.Auth.Secret, a.config.Auth.Issuer, a.config.Auth.TokenTTL)

	taskHandler := handlers.NewTaskHandler(taskService)
	accountHandler := handlers.NewAccountHandler(accountService, auth)

	router := a.buildRouter(auth, taskHandler, accountHandler)

	a.server = &http.Server{
		Addr:         a.config.ServerAddr(),
		Handler:      router,
		ReadTimeout:  a.config.Server.Timeout,
		WriteTimeout: a.config.Server.Timeout,
	}

	if a.config.Digest.Enabled {
		a.worker = worker.NewDigestWorker(taskRepo, a.config.Digest.Interval)
	}

	return nil
}

func (a *App) initRepositories(ctx context.Context) (service.TaskRepository, service.AccountRepository, error) {
	switch a.config.Repository.Type {
	case "postgres":
		if err := rep.RunMigrations(a.config.Database.URL, a.config.Database.MigrationsPath); err != nil {
			return nil, nil, fmt.Errorf("миграции: %w", err)
		}

		pool, err := rep.NewPool(ctx,
			a.config.Database.URL,
			a.config.Database.MaxConnections,
			a.config.Database.MinConnections,
			a.config.Database.IdleTimeout,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("подключение к базе: %w", err)
		}

		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("Закрытие пула соединений...")
			pool.Close()
		})

		return taskpostgres.New(pool), accountpostgres.New(pool), nil
	default:
		return taskinmemory.NewTaskStorage(), accountinmemory.NewAccountStorage(), nil
	}
}

func (a *App) buildRouter(auth *middleware.Auth, taskHandler handlers.TaskHandler, accountHandler handlers.AccountHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(100))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", taskHandler.HealthCheck)

	// вход через OAuth-провайдера, токена ещё нет
	r.Post("/accounts", accountHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.ListTasks)
			r.Post("/", taskHandler.CreateTask)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.GetTaskByID)
				r.Put("/", taskHandler.UpdateTask)
				r.Delete("/", taskHandler.DeleteTask)

				r.Patch("/review", taskHandler.UpdateReview)
			})
		})

		r.Patch("/task-items/{id}/output", taskHandler.UpdateItemOutput)

		r.Get("/accounts", accountHandler.GetAccountByEmail)
		r.Get("/accounts/me", accountHandler.GetMe)
		r.Get("/accounts/{id}", accountHandler.GetAccountByID)
	})

	return r
}

// Run запускает сервер и фоновую сводку, блокируется до отмены контекста
func (a *App) Run(ctx context.Context) error {
	if a.worker != nil {
		go a.worker.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Сервер запущен: " + a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("работа сервера: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", err)
	}

	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	return nil
}
