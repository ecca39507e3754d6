// Command roster loads employee records from a JSON file into the lookup
// table. Rows are upserted by employee number in a single transaction.
//
//	roster -file employees.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lorrc/scan-relay/internal/adapters/secondary/postgres"
	"github.com/lorrc/scan-relay/internal/config"
	"github.com/lorrc/scan-relay/internal/core/domain"
	"github.com/lorrc/scan-relay/internal/infrastructure/logging"
)

func main() {
	file := flag.String("file", "", "path to a JSON array of employee records")
	migrate := flag.Bool("migrate", false, "apply migrations before loading")
	timeout := flag.Duration("timeout", time.Minute, "overall time limit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stderr,
		ServiceName: "scan-relay-roster",
		Environment: cfg.App.Environment,
	})

	if err := run(*file, *migrate, *timeout, cfg, logger); err != nil {
		logger.Error("roster load failed", "error", err)
		os.Exit(1)
	}
}

func run(file string, migrate bool, timeout time.Duration, cfg *config.Config, logger *slog.Logger) error {
	if file == "" {
		return fmt.Errorf("-file is required")
	}

	employees, err := readRoster(file)
	if err != nil {
		return err
	}

	if migrate {
		if err := postgres.Migrate(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := postgres.NewTransactionManager(pool).LoadRoster(ctx, employees); err != nil {
		return err
	}

	logger.Info("roster loaded", "file", file, "employees", len(employees))
	return nil
}

func readRoster(path string) ([]*domain.Employee, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	var employees []*domain.Employee
	if err := json.Unmarshal(data, &employees); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}

	for i, e := range employees {
		if e == nil || e.ID == "" {
			return nil, fmt.Errorf("roster row %d: id is required", i+1)
		}
		if len(e.HashKey) < domain.MinHashKeyLength {
			return nil, fmt.Errorf("roster row %d (%s): hashKey must be at least %d characters", i+1, e.ID, domain.MinHashKeyLength)
		}
		if e.Attendance == "" {
			e.Attendance = "Not checked in"
		}
	}
	return employees, nil
}
