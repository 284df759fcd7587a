package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/fastygo/todo/internal/config"
	"github.com/fastygo/todo/internal/infrastructure/migrations"
	sqliteInfra "github.com/fastygo/todo/internal/infrastructure/sqlite"
	"github.com/fastygo/todo/pkg/logger"
)

func main() {
	steps := flag.Int("steps", 1, "number of migrations to roll back with down")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-steps n] up|down|version\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	zapLogger, err := logger.New(logger.Config{Level: cfg.Logger.Level, Encoding: cfg.Logger.Encoding})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	dialect, dsn := migrations.DialectPostgres, cfg.PostgresURL()
	if cfg.Database.Driver == config.DriverSQLite {
		dialect, dsn = migrations.DialectSQLite, sqliteInfra.DSN(cfg.Database.SQLitePath)
	}

	mg, err := migrations.New(dialect, dsn)
	if err != nil {
		zapLogger.Fatal("open migrator", zap.String("dialect", dialect), zap.Error(err))
	}
	defer mg.Close()

	switch cmd := flag.Arg(0); cmd {
	case "up":
		err = mg.Up()
	case "down":
		err = mg.Down(*steps)
	case "version":
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		zapLogger.Fatal("migration failed", zap.String("command", flag.Arg(0)), zap.Error(err))
	}

	version, dirty, err := mg.Version()
	if err != nil {
		zapLogger.Fatal("read schema version", zap.Error(err))
	}
	zapLogger.Info("schema version",
		zap.String("dialect", dialect),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
}
