package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Navigator holds all configuration for the navigation runner.
type Navigator struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Searches that log a record each at debug level: path, goal or all.
	// Empty means all.
	DebugSearches []string `yaml:"debug_searches"`

	Pathfinding Pathfinding `yaml:"pathfinding"`
	GoalFinder  GoalFinder  `yaml:"goal_finder"`

	// Parallel searches in the runner
	Workers int `yaml:"workers"`

	// Goal marker storage
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultNavigator returns Navigator config with sensible defaults.
func DefaultNavigator() Navigator {
	return Navigator{
		LogLevel:    "info",
		Pathfinding: DefaultPathfinding(),
		GoalFinder:  DefaultGoalFinder(),
		Workers:     4,
		Database: DatabaseConfig{
			Enabled:  false,
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "gridnav",
			Password: "gridnav",
			DBName:   "gridnav",
			SSLMode:  "disable",
		},
	}
}

// LoadNavigator loads navigator config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadNavigator(path string) (Navigator, error) {
	cfg := DefaultNavigator()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects values the searches cannot run with.
func (n Navigator) Validate() error {
	if n.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", n.Workers)
	}
	if err := n.Pathfinding.Validate(); err != nil {
		return fmt.Errorf("pathfinding: %w", err)
	}
	if err := n.GoalFinder.Validate(); err != nil {
		return fmt.Errorf("goal_finder: %w", err)
	}
	return nil
}
