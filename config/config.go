package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/quizhall/database"
	quizhttp "github.com/sagarc03/quizhall/http"
)

// DefaultPort is the port the server listens on when none is configured.
const DefaultPort = 8080

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for quizhall.
type Config struct {
	Env      string              `mapstructure:"env"`
	Server   ServerConfig        `mapstructure:"server"`
	Database database.Config     `mapstructure:"database"`
	Auth     AuthConfig          `mapstructure:"auth"`
	Docs     DocsConfig          `mapstructure:"docs"`
	CORS     quizhttp.CORSConfig `mapstructure:"cors"`
	Log      LogConfig           `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int  `mapstructure:"port" validate:"required,min=1,max=65535"`
	Metrics         bool `mapstructure:"metrics"`
	ShutdownTimeout int  `mapstructure:"shutdown_timeout" validate:"min=1"`
}

// AuthConfig holds basic auth configuration for the quiz API.
type AuthConfig struct {
	Realm        string `mapstructure:"realm" validate:"required"`
	PasswordCost int    `mapstructure:"password_cost" validate:"min=4,max=31"`
}

// DocsConfig holds the documentation page configuration.
type DocsConfig struct {
	Path  string `mapstructure:"path" validate:"required,startswith=/"`
	Title string `mapstructure:"title"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"db-type": "database.type",
	"db-dsn":  "database.dsn",
	"port":    "server.port",
	"metrics": "server.metrics",
	"realm":   "auth.realm",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.metrics", true)
	v.SetDefault("server.shutdown_timeout", 10) // seconds

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "quizhall.db")
	v.SetDefault("database.tables.users", "quizhall_users")
	v.SetDefault("database.tables.quizzes", "quizhall_quizzes")

	v.SetDefault("auth.realm", "kfp-quiz")
	v.SetDefault("auth.password_cost", 10)

	v.SetDefault("docs.path", "/spec")
	v.SetDefault("docs.title", "quizhall API")

	v.SetDefault("cors.enabled", false)

	v.SetDefault("log.level", "info")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("QUIZHALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if err := cfg.Database.Tables.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// IsProduction reports whether logging and similar concerns should use
// their production setup.
func (c *Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}
