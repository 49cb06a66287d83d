package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/class-admin/internal/repository"
	"github.com/noah-isme/class-admin/internal/server"
	"github.com/noah-isme/class-admin/pkg/config"
	"github.com/noah-isme/class-admin/pkg/database"
	"github.com/noah-isme/class-admin/pkg/database/migrations"
	"github.com/noah-isme/class-admin/pkg/logger"
)

// @title Class Admin API
// @version 1.0.0
// @description Admin API for class schedules, sections and the audit trail
// @BasePath /
// @schemes http https

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "classadmin",
	Short:        "Class scheduling admin API",
	SilenceUsage: true,
}

// bootstrap loads the configuration and builds the logger. The caller must
// sync the logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logr, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logr, err := bootstrap()
		if err != nil {
			return err
		}
		defer logr.Sync() //nolint:errcheck

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, err := server.NewApp(ctx, cfg, logr)
		if err != nil {
			logr.Error("startup failed", zap.Error(err))
			return err
		}
		defer app.Close()

		if err := app.Run(ctx); err != nil {
			logr.Error("server failed", zap.Error(err))
			return err
		}
		logr.Info("server exited")
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(db *sqlx.DB) error {
			if err := migrations.Up(db.DB); err != nil {
				return err
			}
			return printStatus(db)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		return withDatabase(func(db *sqlx.DB) error {
			if err := migrations.Down(db.DB, steps); err != nil {
				return err
			}
			return printStatus(db)
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(db *sqlx.DB) error {
			return printStatus(db)
		})
	},
}

var adminsCmd = &cobra.Command{
	Use:   "admins",
	Short: "Manage admin membership",
}

var adminsGrantCmd = &cobra.Command{
	Use:   "grant <user-id>",
	Short: "Add a user to the admins table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := strings.TrimSpace(args[0])
		if _, err := uuid.Parse(userID); err != nil {
			return fmt.Errorf("user id must be a UUID: %w", err)
		}
		return withDatabase(func(db *sqlx.DB) error {
			if err := repository.NewAdminRepository(db).Grant(cmd.Context(), userID); err != nil {
				return fmt.Errorf("grant admin: %w", err)
			}
			fmt.Printf("Granted admin to %s\n", userID)
			return nil
		})
	},
}

func withDatabase(fn func(db *sqlx.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()
	return fn(db)
}

func printStatus(db *sqlx.DB) error {
	status, err := migrations.Current(db.DB)
	if err != nil {
		return err
	}
	fmt.Printf("Schema version: %d (dirty: %t)\n", status.Version, status.Dirty)
	return nil
}

func init() {
	migrateDownCmd.Flags().Int("steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	adminsCmd.AddCommand(adminsGrantCmd)
	rootCmd.AddCommand(serveCmd, migrateCmd, adminsCmd)
}
