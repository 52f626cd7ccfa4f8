package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. TAREFAS_SERVER_PORT.
const EnvPrefix = "TAREFAS"

// ConfigFileEnv names an explicit config file to read instead of ./config.yaml.
const ConfigFileEnv = "TAREFAS_CONFIG_FILE"

// legacyEnv lists unprefixed variable names still honoured for
// compatibility with existing deployments.
var legacyEnv = map[string]string{
	"database.url":    "DATABASE_URL",
	"auth.jwt_secret": "JWT_SECRET_KEY",
}

// Load configuration from defaults, an optional YAML file and environment
// variables, in increasing order of precedence. The profile is resolved
// first because it selects the defaults for everything else.
func Load() (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		envName := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envName, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	v.SetDefault("profile", ProfileDevelopment)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	profile := strings.ToLower(strings.TrimSpace(v.GetString("profile")))
	setProfileDefaults(v, profile)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Profile = profile

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfigFile(v *viper.Viper) error {
	if file := os.Getenv(ConfigFileEnv); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", file, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// setProfileDefaults registers defaults for profile. Production gets no
// database URL or secret so they must be supplied explicitly.
func setProfileDefaults(v *viper.Viper, profile string) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("database.max_open_conns", 10)

	switch profile {
	case ProfileDevelopment:
		v.SetDefault("server.log_level", "debug")
		v.SetDefault("server.log_format", "text")
		v.SetDefault("database.driver", DriverSQLite)
		v.SetDefault("database.url", "tarefas-dev.db")
		v.SetDefault("database.auto_migrate", true)
		v.SetDefault("auth.jwt_secret", "development-only-secret-do-not-deploy")
	case ProfileTesting:
		v.SetDefault("server.log_level", "error")
		v.SetDefault("database.driver", DriverSQLite)
		v.SetDefault("database.url", ":memory:")
		v.SetDefault("database.auto_migrate", true)
		v.SetDefault("auth.jwt_secret", "testing-only-secret-that-is-long-enough")
		v.SetDefault("auth.bcrypt_cost", 4)
	case ProfileProduction:
		v.SetDefault("database.driver", DriverPostgres)
		v.SetDefault("database.auto_migrate", false)
		v.SetDefault("database.url", "")
		v.SetDefault("auth.jwt_secret", "")
	}
}
