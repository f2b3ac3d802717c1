package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingConfiguration = errors.New("missing configuration")

type Config struct {
	Port               string
	DBConnectionString string
	JWTSecret          string
	LogLevel           string
	LogFormat          string
	AMQPURL            string
	AMQPExchange       string
	LoginRatePerMinute int
	ShutdownTimeout    time.Duration
	// SecureCookies marks the refresh token cookie Secure, enable behind TLS.
	SecureCookies bool
	// TrustedProxies lists peer IPs whose X-Forwarded-For header is believed.
	TrustedProxies []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("AMQP_EXCHANGE", "budget.events")
	v.SetDefault("LOGIN_RATE_PER_MINUTE", 10)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("SECURE_COOKIES", false)
}

// Load reads .env (if present) into the process environment and resolves
// the configuration from environment variables with defaults applied.
func Load() (*Config, error) {
	// missing .env is fine, system environment is used instead
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:               v.GetString("HTTP_PORT"),
		DBConnectionString: v.GetString("DB_CONNECTION_STRING"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		LogLevel:           strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:          strings.ToLower(v.GetString("LOG_FORMAT")),
		AMQPURL:            v.GetString("AMQP_URL"),
		AMQPExchange:       v.GetString("AMQP_EXCHANGE"),
		LoginRatePerMinute: v.GetInt("LOGIN_RATE_PER_MINUTE"),
		ShutdownTimeout:    v.GetDuration("SHUTDOWN_TIMEOUT"),
		SecureCookies:      v.GetBool("SECURE_COOKIES"),
		TrustedProxies:     splitList(v.GetString("TRUSTED_PROXIES")),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func (c *Config) Validate() error {
	var problems []string
	if c.DBConnectionString == "" {
		problems = append(problems, "DB_CONNECTION_STRING is required")
	}
	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("LOG_FORMAT must be console or json, got %q", c.LogFormat))
	}
	if c.LoginRatePerMinute <= 0 {
		problems = append(problems, "LOGIN_RATE_PER_MINUTE must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) EventsEnabled() bool {
	return c.AMQPURL != ""
}
