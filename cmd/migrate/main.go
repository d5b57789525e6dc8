package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/m04kA/consultation-booking-service/internal/config"
	"github.com/m04kA/consultation-booking-service/migrations"
	"github.com/m04kA/consultation-booking-service/pkg/logger"
	"github.com/m04kA/consultation-booking-service/pkg/migrator"
)

const usage = `usage: migrate [-config path] <command>

commands:
  up              apply all pending migrations
  down            roll back all migrations
  steps N         apply N migrations (negative N rolls back)
  force VERSION   set version without running migrations
  version         print current version`

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	m, err := migrator.New(cfg.Database.DSN(), migrations.FS, log)
	if err != nil {
		log.Fatal("Failed to create migrator: %v", err)
	}
	defer m.Close()

	if err := runCommand(m, args); err != nil {
		log.Error("Migration command %q failed: %v", args[0], err)
		m.Close()
		log.Close()
		os.Exit(1)
	}
}

func runCommand(m *migrator.Migrator, args []string) error {
	switch args[0] {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "steps", "force":
		if len(args) < 2 {
			return fmt.Errorf("%s requires a number", args[0])
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", args[1], err)
		}
		if args[0] == "steps" {
			return m.Steps(n)
		}
		return m.Force(n)
	case "version":
		version, dirty, ok, err := m.Version()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("no migrations applied")
			return nil
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}
