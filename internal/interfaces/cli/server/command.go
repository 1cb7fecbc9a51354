package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	approvalUC "deskflow/internal/application/approval/usecases"
	"deskflow/internal/application/permission"
	ticketUC "deskflow/internal/application/ticket/usecases"
	"deskflow/internal/infrastructure/auth"
	"deskflow/internal/infrastructure/config"
	"deskflow/internal/infrastructure/database"
	"deskflow/internal/infrastructure/persistence/migrations"
	"deskflow/internal/infrastructure/pubsub"
	"deskflow/internal/infrastructure/repository"
	"deskflow/internal/infrastructure/services"
	approvalhandlers "deskflow/internal/interfaces/http/handlers/approval"
	tickethandlers "deskflow/internal/interfaces/http/handlers/ticket"
	"deskflow/internal/interfaces/http/middleware"
	"deskflow/internal/interfaces/http/routes"
	"deskflow/internal/shared/db"
	"deskflow/internal/shared/lock"
	"deskflow/internal/shared/logger"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the Deskflow HTTP server with specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Automatically run database migrations on startup (not recommended for production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	ginMode := mapEnvToGinMode(env)

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Server.Mode = ginMode

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("starting server",
		"environment", env,
		"auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if autoMigrate {
		if env == "production" {
			logger.Warn("auto-migration is enabled in production environment - this is not recommended!")
		}
		logger.Info("running auto-migration")
		if err := migrations.Migrate(database.Get()); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		logger.Info("auto-migration completed successfully")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	engine := gin.New()
	setupRoutes(engine, cfg, redisClient)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}

// setupRoutes wires repositories, use cases, handlers, and routes.
func setupRoutes(engine *gin.Engine, cfg *config.Config, redisClient *redis.Client) {
	log := logger.NewLogger()
	gormDB := database.Get()

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(log))
	engine.Use(middleware.Recovery())
	engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	// Infrastructure
	txManager := db.NewTransactionManager(gormDB)
	locks := lock.NewKeyedMutex()
	publisher := pubsub.NewRedisEventBus(redisClient, log.Named("pubsub"))

	ticketRepo := repository.NewTicketRepository(gormDB)
	noteRepo := repository.NewNoteRepository(gormDB)
	grantRepo := repository.NewGrantRepository(gormDB)
	processRepo := repository.NewProcessRepository(gormDB)

	numberGen := services.NewTicketNumberGenerator(gormDB)
	templates := services.NewTemplateResolver(gormDB)
	roleResolver := services.NewRoleApproverResolver(gormDB)
	proxies := services.NewProxyLookup(gormDB)
	renderer := services.NewMarkdownRenderer()

	jwtService := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	authMiddleware := middleware.NewAuthMiddleware(jwtService, log.Named("auth"))

	// Permission resolver shared by both aggregates
	viewPolicy := permission.NewResolver(grantRepo, processRepo, log.Named("permission"))

	// Approval side
	startProcess := approvalUC.NewStartProcessUseCase(templates, roleResolver, processRepo, noteRepo, log.Named("approval"))

	// Ticket side
	transitionUC := ticketUC.NewTransitionTicketUseCase(
		ticketRepo, noteRepo, templates, startProcess, txManager, locks, publisher, log.Named("ticket"))
	systemTransitions := ticketUC.NewSystemTransitioner(transitionUC)

	decideStepUC := approvalUC.NewDecideStepUseCase(
		processRepo, noteRepo, proxies, systemTransitions, txManager, locks, publisher, log.Named("approval"))

	ticketHandler := tickethandlers.NewTicketHandler(
		ticketUC.NewCreateTicketUseCase(ticketRepo, numberGen, log.Named("ticket")),
		ticketUC.NewGetTicketUseCase(ticketRepo, viewPolicy, log.Named("ticket")),
		ticketUC.NewListTicketsUseCase(ticketRepo, log.Named("ticket")),
		ticketUC.NewUpdateTicketUseCase(ticketRepo, noteRepo, txManager, locks, log.Named("ticket")),
		transitionUC,
		ticketUC.NewAssignTicketUseCase(ticketRepo, noteRepo, txManager, locks, publisher, log.Named("ticket")),
		ticketUC.NewAddNoteUseCase(ticketRepo, noteRepo, viewPolicy, renderer, log.Named("ticket")),
		ticketUC.NewRemoveNoteUseCase(noteRepo, txManager, log.Named("ticket")),
		ticketUC.NewGetTimelineUseCase(ticketRepo, noteRepo, viewPolicy, renderer, log.Named("ticket")),
		ticketUC.NewGrantViewUseCase(ticketRepo, grantRepo, noteRepo, txManager, log.Named("ticket")),
		ticketUC.NewGetTicketStatsUseCase(ticketRepo, log.Named("ticket")),
	)

	approvalHandler := approvalhandlers.NewApprovalHandler(
		decideStepUC,
		approvalUC.NewGetProcessUseCase(processRepo, ticketRepo, viewPolicy, log.Named("approval")),
		approvalUC.NewListPendingApprovalsUseCase(processRepo, proxies, log.Named("approval")),
	)

	routes.SetupTicketRoutes(engine, &routes.TicketRouteConfig{
		TicketHandler:  ticketHandler,
		AuthMiddleware: authMiddleware,
	})
	routes.SetupApprovalRoutes(engine, &routes.ApprovalRouteConfig{
		ApprovalHandler: approvalHandler,
		AuthMiddleware:  authMiddleware,
	})

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
