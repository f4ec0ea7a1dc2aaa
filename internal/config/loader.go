package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from an optional file overlaid with FTNDB_*
// environment variables, applies defaults, and validates the result.
//
// When path is empty the file "ftndb.yaml" is searched for in the working
// directory, $HOME/.ftndb and /etc/ftndb; a missing file is fine and the
// defaults plus environment apply. An explicitly given path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.name", "ftndb")
	v.SetDefault("nodelist.directory", ".")
	v.SetDefault("nodelist.basename", "nodelist")
	v.SetDefault("nodelist.domain", "fidonet")
	v.SetDefault("nodelist.table", "Nodelist")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "color")

	v.SetEnvPrefix("FTNDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("ftndb")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.ftndb")
		v.AddConfigPath("/etc/ftndb")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	applyPortDefault(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// applyPortDefault fills in the engine's conventional port when the
// config leaves it unset.
func applyPortDefault(cfg *Config) {
	if cfg.Database.Port != 0 {
		return
	}
	switch strings.ToLower(cfg.Database.Type) {
	case "postgres", "postgresql", "pg":
		cfg.Database.Port = 5432
	case "mysql", "mariadb":
		cfg.Database.Port = 3306
	}
}
