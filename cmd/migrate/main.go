package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"patentdesk/internal/config"
)

const usage = "Usage: migrate [up|down|steps N|force V|version]"

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("failed to load config", zap.Error(err))
	}

	source := os.Getenv("PATENTDESK_MIGRATIONS")
	if source == "" {
		source = "file://db/migrations"
	}

	m, err := migrate.New(source, cfg.DB.DSN())
	if err != nil {
		zap.L().Fatal("failed to create migrate instance", zap.Error(err))
	}
	defer m.Close()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			zap.L().Fatal("migration up failed", zap.Error(err))
		}
		zap.L().Info("migrations applied successfully")

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			zap.L().Fatal("migration down failed", zap.Error(err))
		}
		zap.L().Info("migrations reverted successfully")

	case "steps":
		n := intArg("steps")
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			zap.L().Fatal("migration steps failed", zap.Error(err))
		}
		zap.L().Info("applied migration steps", zap.Int("steps", n))

	case "force":
		v := intArg("force")
		if err := m.Force(v); err != nil {
			zap.L().Fatal("migration force failed", zap.Error(err))
		}
		zap.L().Info("forced migration version", zap.Int("version", v))

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			zap.L().Fatal("failed to get version", zap.Error(err))
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		fmt.Printf("unknown command: %s\n", cmd)
		fmt.Println(usage)
		os.Exit(1)
	}
}

func intArg(cmd string) int {
	if len(os.Args) < 3 {
		zap.L().Fatal(cmd + " requires a number argument")
	}
	n, err := strconv.Atoi(os.Args[2])
	if err != nil {
		zap.L().Fatal("invalid "+cmd+" argument", zap.Error(err))
	}
	return n
}
