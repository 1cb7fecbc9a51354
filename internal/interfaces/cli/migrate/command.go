package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"deskflow/internal/infrastructure/config"
	"deskflow/internal/infrastructure/database"
	"deskflow/internal/infrastructure/persistence/migrations"
	"deskflow/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage the database schema, including applying migrations and checking table status.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all schema migrations to bring the database up to date.`,
		RunE:  runUp,
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show schema status",
		Long:  `Display which managed tables exist in the configured database.`,
		RunE:  runStatus,
	}
}

func initEnv() (logger.Interface, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return log, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running migrations", "environment", env)

	if err := migrations.Migrate(database.Get()); err != nil {
		log.Errorw("migration failed", "error", err)
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Infow("migrations completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("checking schema status", "environment", env)

	migrator := database.Get().Migrator()

	fmt.Printf("\nSchema Status:\n")
	fmt.Printf("  Environment: %s\n", env)
	for _, table := range migrations.ManagedTables() {
		state := "missing"
		if migrator.HasTable(table) {
			state = "present"
		}
		fmt.Printf("  %-30s %s\n", table, state)
	}

	return nil
}
