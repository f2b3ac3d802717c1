package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/sebuszqo/BudgetManager/internal/auth"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/application"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/infrastructure"
	budgeting "github.com/sebuszqo/BudgetManager/internal/budgeting/interfaces"
	"github.com/sebuszqo/BudgetManager/internal/config"
	database "github.com/sebuszqo/BudgetManager/internal/db"
	"github.com/sebuszqo/BudgetManager/internal/events"
	"github.com/sebuszqo/BudgetManager/internal/logger"
	"github.com/sebuszqo/BudgetManager/internal/user"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	var skipMigrations bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, !skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on startup")
	return cmd
}

func newPublisher(cfg *config.Config, log zerolog.Logger) (events.Publisher, func(), error) {
	if !cfg.EventsEnabled() {
		log.Info().Msg("AMQP_URL not set, domain events are disabled")
		return events.NoopPublisher{}, func() {}, nil
	}
	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, log)
	if err != nil {
		return nil, nil, err
	}
	return publisher, func() { publisher.Close() }, nil
}

func serve(ctx context.Context, cfg *config.Config, migrate bool) error {
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	ctx = logger.WithContext(ctx, log)

	if migrate {
		if err := database.RunMigrations(cfg.DBConnectionString); err != nil {
			return err
		}
		log.Info().Msg("Database migrations applied")
	}

	dbService, err := database.NewDBService(ctx, cfg.DBConnectionString, log)
	if err != nil {
		return fmt.Errorf("could not initialize database: %w", err)
	}
	defer dbService.Close()
	db := dbService.DB

	publisher, closePublisher, err := newPublisher(cfg, log)
	if err != nil {
		return fmt.Errorf("could not connect to message broker: %w", err)
	}
	defer closePublisher()

	userService := user.NewUserService(user.NewUserRepository(db))
	jwtManager := auth.NewJWTManager(cfg.JWTSecret)
	authService := auth.NewAuthService(userService, jwtManager)
	authHandler := auth.NewHandler(authService, cfg.SecureCookies)
	userHandler := user.NewHandler(userService, auth.UserIDFromContext)

	budgetRepo := infrastructure.NewBudgetRepository(db)
	periodRepo := infrastructure.NewPeriodRepository(db)
	depositRepo := infrastructure.NewDepositRepository(db)
	entityRepo := infrastructure.NewEntityRepository(db)
	categoryRepo := infrastructure.NewCategoryRepository(db)
	predictionRepo := infrastructure.NewPredictionRepository(db)
	txManager := database.NewTxManager(db)

	budgetHandlers := budgeting.NewHandlers(budgeting.Services{
		Budgets:     application.NewBudgetService(budgetRepo, categoryRepo, infrastructure.NewUserDirectory(db), txManager, publisher),
		Periods:     application.NewPeriodService(periodRepo, publisher),
		Deposits:    application.NewDepositService(depositRepo, entityRepo, budgetRepo, txManager, publisher),
		Entities:    application.NewEntityService(entityRepo, publisher),
		Categories:  application.NewCategoryService(categoryRepo, budgetRepo, publisher),
		Predictions: application.NewPredictionService(predictionRepo, periodRepo, categoryRepo, publisher),
	}, budgeting.RespondJSON, budgeting.RespondError)

	loginLimiter := auth.NewLoginLimiter(cfg.LoginRatePerMinute, cfg.TrustedProxies...)
	loginLimiter.StartCleanup(ctx, time.Minute)

	server := NewServer(authHandler, authService, userHandler, budgetHandlers, loginLimiter, dbService, log)
	server.RegisterRoutes()

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// requests keep running through Shutdown, only the logger is inherited
		BaseContext: func(net.Listener) context.Context {
			return logger.WithContext(context.Background(), log)
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", httpServer.Addr).Msg("Server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
