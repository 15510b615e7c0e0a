package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/sakeenah/sakeenah/internal/app"
	"github.com/sakeenah/sakeenah/internal/database"
	"github.com/sakeenah/sakeenah/internal/migration"
	"github.com/sakeenah/sakeenah/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sakeenah-migrate", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	var (
		configPath string
		sourceDSN  string
	)
	fs.StringVar(&configPath, "config", "", "Path to configuration directory")
	fs.StringVar(&sourceDSN, "source-dsn", "", "Connection string of the legacy Postgres database")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sourceDSN == "" {
		sourceDSN = os.Getenv("SAKEENAH_MIGRATE_SOURCE_DSN")
	}
	if strings.TrimSpace(sourceDSN) == "" {
		return errors.New("a source dsn is required (-source-dsn or SAKEENAH_MIGRATE_SOURCE_DSN)")
	}

	var (
		cfg *app.Config
		err error
	)
	if configPath != "" {
		cfg, err = app.LoadConfig(configPath)
	} else {
		cfg, err = app.LoadConfig()
	}
	if err != nil {
		return err
	}

	if err := app.ConfigureLogging(cfg.Server.LogLevel); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logger.Sync() // best effort

	log := logger.WithModule("migrate")

	source, err := migration.OpenSource(sourceDSN)
	if err != nil {
		return err
	}
	defer source.Close()

	target, err := database.Open(targetConfig(cfg))
	if err != nil {
		return fmt.Errorf("open target database: %w", err)
	}

	if err := database.AutoMigrate(target); err != nil {
		return fmt.Errorf("prepare target schema: %w", err)
	}

	migrator, err := migration.New(source, target)
	if err != nil {
		return err
	}

	report, err := migrator.Run(ctx)
	if err != nil {
		return err
	}

	log.Info("migration complete",
		zap.Int("invitations", report.Invitations),
		zap.Int("agenda", report.Agenda),
		zap.Int("banks", report.Banks),
		zap.Int("wishes", report.Wishes),
	)
	return nil
}

func targetConfig(cfg *app.Config) database.Config {
	dbCfg := database.Config{
		Driver: cfg.Database.Driver,
		Path:   cfg.Database.Path,
		DSN:    cfg.Database.DSN,
	}

	var auth app.DBAuthConfig
	switch strings.ToLower(cfg.Database.Driver) {
	case "postgres", "postgresql":
		auth = cfg.Database.Postgres
	case "mysql":
		auth = cfg.Database.MySQL
	default:
		return dbCfg
	}

	dbCfg.Host = auth.Host
	dbCfg.Port = auth.Port
	dbCfg.Name = auth.Database
	dbCfg.User = auth.Username
	dbCfg.Password = auth.Password
	return dbCfg
}
