// Command navbench routes the agents of a scenario file across an ASCII
// terrain and logs every search outcome.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/udisondev/gridnav/internal/config"
	"github.com/udisondev/gridnav/internal/db"
	"github.com/udisondev/gridnav/internal/pathfinding"
)

const (
	ConfigPath   = "config/navbench.yaml"
	ScenarioPath = "config/scenario.yaml"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfgPath := ConfigPath
	if p := os.Getenv("NAVBENCH_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadNavigator(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	debugSearches := pathfinding.NoSearches
	if logLevel == slog.LevelDebug {
		debugSearches, err = pathfinding.ParseSearchKinds(cfg.DebugSearches)
		if err != nil {
			return fmt.Errorf("debug_searches: %w", err)
		}
	}
	pathfinding.EnableDebugLogging(debugSearches)

	scenarioPath := ScenarioPath
	if len(args) > 0 {
		scenarioPath = args[0]
	}
	scenario, err := LoadScenario(scenarioPath)
	if err != nil {
		return err
	}
	world, err := scenario.Compile()
	if err != nil {
		return fmt.Errorf("compiling scenario: %w", err)
	}
	slog.Info("scenario loaded",
		"path", scenarioPath,
		"levels", len(world.Levels),
		"modes", world.Modes.Len(),
		"goals", world.GoalSet,
		"agents", len(scenario.Agents))

	if cfg.Database.Enabled {
		if err := loadMarkers(ctx, cfg.Database, world); err != nil {
			return err
		}
	}

	_, err = NewRunner(world, cfg).Run(ctx, scenario.Agents)
	return err
}

// loadMarkers adds the stored goal markers on the scenario's levels.
func loadMarkers(ctx context.Context, dbCfg config.DatabaseConfig, world *World) error {
	database, err := db.New(ctx, dbCfg.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	slog.Info("database connected")

	if err := db.RunMigrations(ctx, dbCfg.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	n, err := database.Markers().LoadInto(ctx, world.Index, world.Levels...)
	if err != nil {
		return fmt.Errorf("loading goal markers: %w", err)
	}
	world.AddGoalKeys(world.Index.Keys()...)
	slog.Info("goal markers loaded", "markers", n, "goals", world.GoalSet)
	return nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
