// Package config provides centralized configuration management for the
// ftndb commands. Settings come from an optional config file (ftndb.yaml)
// overlaid with FTNDB_-prefixed environment variables, and are validated
// on startup to fail fast on misconfiguration.
package config

import (
	"fmt"
	"strings"

	"github.com/gitpan/ftndb/internal/schema"
)

// Config holds all settings shared by the ftndb commands.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Nodelist NodelistConfig `mapstructure:"nodelist"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DatabaseConfig identifies the relational store.
type DatabaseConfig struct {
	// Type selects the engine family: sqlite, postgres or mysql.
	Type string `mapstructure:"type"`

	// Path is the database file location (SQLite only).
	Path string `mapstructure:"path"`

	// Host, Port, Name, User, Password describe a server engine.
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// NodelistConfig holds the nodelist-specific settings.
type NodelistConfig struct {
	// Directory is where published nodelist files live.
	Directory string `mapstructure:"directory"`

	// Basename is the filename stem selection matches on.
	Basename string `mapstructure:"basename"`

	// Domain stamps loaded rows; defaults to fidonet.
	Domain string `mapstructure:"domain"`

	// Table is the nodelist table name; defaults to Nodelist.
	Table string `mapstructure:"table"`

	// FTNYear, when positive, overrides the publication year derived
	// from the file's modification time (for archival loads).
	FTNYear int `mapstructure:"ftnyear"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `mapstructure:"level"`

	// Format is the log format: color, text or json.
	Format string `mapstructure:"format"`

	// File, when set, appends log output to this path instead of stderr.
	File string `mapstructure:"file"`
}

// Engine parses the configured database type.
func (c *DatabaseConfig) Engine() (schema.Engine, error) {
	return schema.ParseEngine(c.Type)
}

// DSN builds the driver connection string for the configured engine.
func (c *DatabaseConfig) DSN() (string, error) {
	engine, err := c.Engine()
	if err != nil {
		return "", err
	}

	switch engine {
	case schema.EngineSQLite:
		path := c.Path
		if path == "" {
			path = c.Name + ".db"
		}
		return path + "?_foreign_keys=on&_journal_mode=WAL", nil

	case schema.EnginePostgres:
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			c.User, c.Password, c.Host, c.Port, c.Name), nil

	case schema.EngineMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
			c.User, c.Password, c.Host, c.Port, c.Name), nil
	}
	return "", fmt.Errorf("unsupported database type: %q", c.Type)
}

// Validate checks that the configuration is usable. It returns an error
// describing all validation failures, not just the first.
func (c *Config) Validate() error {
	var errs []string

	engine, err := c.Database.Engine()
	if err != nil {
		errs = append(errs, err.Error())
	} else if engine != schema.EngineSQLite {
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required for server engines")
		}
		if c.Database.Name == "" {
			errs = append(errs, "database.name is required for server engines")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port (%d) must be 1-65535", c.Database.Port))
		}
	}

	if c.Nodelist.Directory == "" {
		errs = append(errs, "nodelist.directory is required")
	}
	if c.Nodelist.Basename == "" {
		errs = append(errs, "nodelist.basename must not be empty")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("logging.level (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}
	validFormats := map[string]bool{"color": true, "text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("logging.format (%q) must be one of: color, text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// String returns a safe representation of the config for logging.
// The database password is masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Database: {Type: %q, Host: %q, Port: %d, Name: %q, User: %q, Password: [MASKED]}, ",
		c.Database.Type, c.Database.Host, c.Database.Port, c.Database.Name, c.Database.User))
	b.WriteString(fmt.Sprintf("Nodelist: {Directory: %q, Basename: %q, Domain: %q, Table: %q}, ",
		c.Nodelist.Directory, c.Nodelist.Basename, c.Nodelist.Domain, c.Nodelist.Table))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q, File: %q}",
		c.Logging.Level, c.Logging.Format, c.Logging.File))
	b.WriteString("}")
	return b.String()
}
