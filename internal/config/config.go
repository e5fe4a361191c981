package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/MarcoPoloResearchLab/authors/internal/credentials"
	"github.com/MarcoPoloResearchLab/authors/internal/database"
	"github.com/spf13/viper"
)

const (
	envPrefix           = "AUTHORS"
	defaultDriver       = database.DriverSQLite
	defaultDatabasePath = "authors.db"
	defaultLogLevel     = "info"
	defaultLogFormat    = "json"
)

// AppConfig captures runtime configuration for the authors CLI.
type AppConfig struct {
	Database  database.Config
	LogLevel  string
	LogFormat string
	Password  credentials.Params
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	passwordDefaults := credentials.DefaultParams()
	configViper.SetDefault("database.driver", defaultDriver)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("database.dsn", "")
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("log.format", defaultLogFormat)
	configViper.SetDefault("password.memory_kib", passwordDefaults.MemoryKiB)
	configViper.SetDefault("password.iterations", passwordDefaults.Iterations)
	configViper.SetDefault("password.parallelism", passwordDefaults.Parallelism)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	parallelism := configViper.GetUint("password.parallelism")
	if parallelism > math.MaxUint8 {
		return AppConfig{}, fmt.Errorf("password.parallelism %d exceeds %d", parallelism, math.MaxUint8)
	}

	cfg := AppConfig{
		Database: database.Config{
			Driver: strings.ToLower(strings.TrimSpace(configViper.GetString("database.driver"))),
			Path:   configViper.GetString("database.path"),
			DSN:    configViper.GetString("database.dsn"),
		},
		LogLevel:  configViper.GetString("log.level"),
		LogFormat: configViper.GetString("log.format"),
		Password: credentials.Params{
			MemoryKiB:   configViper.GetUint32("password.memory_kib"),
			Iterations:  configViper.GetUint32("password.iterations"),
			Parallelism: uint8(parallelism),
		},
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	switch c.Database.Driver {
	case database.DriverSQLite:
		if strings.TrimSpace(c.Database.Path) == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	case database.DriverPostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("database.driver %q is not supported", c.Database.Driver)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q is not supported", c.LogFormat)
	}
	if c.Password.Parallelism == 0 || c.Password.Iterations == 0 || c.Password.MemoryKiB == 0 {
		return fmt.Errorf("password.memory_kib, password.iterations and password.parallelism must be positive")
	}
	return nil
}
