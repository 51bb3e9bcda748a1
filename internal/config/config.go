package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite3"
)

// Password storage modes
const (
	PasswordModePlaintext = "plaintext"
	PasswordModeBcrypt    = "bcrypt"
)

// Session store backends
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port                 string   `yaml:"port" env:"SERVER_PORT"`
		Mode                 string   `yaml:"mode" env:"SERVER_MODE"`
		RequestTimeout       string   `yaml:"request_timeout" env:"SERVER_REQUEST_TIMEOUT"`
		ExposeInternalErrors bool     `yaml:"expose_internal_errors" env:"SERVER_EXPOSE_INTERNAL_ERRORS"`
		AllowedOrigins       []string `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS"`
		LoginRatePerSecond   float64  `yaml:"login_rate_per_second" env:"SERVER_LOGIN_RATE_PER_SECOND"`
		LoginBurst           int      `yaml:"login_burst" env:"SERVER_LOGIN_BURST"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		AutoMigrate     bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE"`
		Seed            bool   `yaml:"seed" env:"DB_SEED"`
	} `yaml:"database"`

	Auth struct {
		PasswordMode   string `yaml:"password_mode" env:"AUTH_PASSWORD_MODE"`
		RequireSession bool   `yaml:"require_session" env:"AUTH_REQUIRE_SESSION"`
	} `yaml:"auth"`

	Session struct {
		Enabled       bool   `yaml:"enabled" env:"SESSION_ENABLED"`
		Store         string `yaml:"store" env:"SESSION_STORE"`
		Secret        string `yaml:"secret" env:"SESSION_SECRET"`
		TTL           string `yaml:"ttl" env:"SESSION_TTL"`
		Issuer        string `yaml:"issuer" env:"SESSION_ISSUER"`
		PurgeSchedule string `yaml:"purge_schedule" env:"SESSION_PURGE_SCHEDULE"`
	} `yaml:"session"`

	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	Events struct {
		Enabled bool     `yaml:"enabled" env:"EVENTS_ENABLED"`
		Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS"`
		Topic   string   `yaml:"topic" env:"EVENTS_TOPIC"`
	} `yaml:"events"`

	Logging struct {
		Level      string `yaml:"level" env:"LOG_LEVEL"`
		Format     string `yaml:"format" env:"LOG_FORMAT"`
		File       string `yaml:"file" env:"LOG_FILE"`
		MaxSizeMB  int    `yaml:"max_size_mb" env:"LOG_MAX_SIZE_MB"`
		MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS"`
		MaxAgeDays int    `yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file, a .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "5000"
	config.Server.Mode = "development"
	config.Server.RequestTimeout = "5s"
	config.Server.AllowedOrigins = []string{"*"}
	config.Server.LoginRatePerSecond = 1
	config.Server.LoginBurst = 5

	config.Database.Driver = DriverMySQL
	config.Database.Host = "localhost"
	config.Database.Port = "3306"
	config.Database.User = "root"
	config.Database.DBName = "test"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	config.Auth.PasswordMode = PasswordModePlaintext

	config.Session.Store = SessionStoreMemory
	config.Session.TTL = "24h"
	config.Session.Issuer = "studentportal"
	config.Session.PurgeSchedule = "@every 1m"

	config.Redis.Addr = "localhost:6379"

	config.Events.Brokers = []string{"localhost:9092"}
	config.Events.Topic = "student-logins"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.MaxSizeMB = 100
	config.Logging.MaxBackups = 3
	config.Logging.MaxAgeDays = 28
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverPostgres, DriverMySQL:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
	case DriverSQLite:
		if config.Database.DBName == "" {
			return fmt.Errorf("database name (file path) is required for sqlite3")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid connection max lifetime: %w", err)
	}

	if _, err := time.ParseDuration(config.Server.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request timeout: %w", err)
	}

	switch config.Auth.PasswordMode {
	case PasswordModePlaintext, PasswordModeBcrypt:
	default:
		return fmt.Errorf("unsupported password mode %q", config.Auth.PasswordMode)
	}

	if config.Auth.RequireSession && !config.Session.Enabled {
		return fmt.Errorf("auth.require_session needs session.enabled")
	}

	if config.Session.Enabled {
		if config.Session.Secret == "" {
			return fmt.Errorf("session secret is required when sessions are enabled")
		}
		if _, err := time.ParseDuration(config.Session.TTL); err != nil {
			return fmt.Errorf("invalid session TTL: %w", err)
		}
		switch config.Session.Store {
		case SessionStoreMemory, SessionStoreRedis:
		default:
			return fmt.Errorf("unsupported session store %q", config.Session.Store)
		}
	}

	if config.Events.Enabled && (len(config.Events.Brokers) == 0 || config.Events.Topic == "") {
		return fmt.Errorf("events need at least one broker and a topic")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Server.Mode) == "production"
}

// DataSourceName returns the driver specific connection string
func (c *Config) DataSourceName() string {
	switch c.Database.Driver {
	case DriverPostgres:
		return c.GetPostgresConnectionString()
	case DriverMySQL:
		return c.GetMySQLConnectionString()
	default:
		return c.Database.DBName
	}
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     c.Database.Host + ":" + c.Database.Port,
		Path:     c.Database.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	return dsn.String()
}

// GetMySQLConnectionString returns mysql connection string
func (c *Config) GetMySQLConnectionString() string {
	mc := mysql.NewConfig()
	mc.User = c.Database.User
	mc.Passwd = c.Database.Password
	mc.Net = "tcp"
	mc.Addr = c.Database.Host + ":" + c.Database.Port
	mc.DBName = c.Database.DBName
	mc.ParseTime = true
	// migrations are executed as one multi-statement script
	mc.MultiStatements = true
	return mc.FormatDSN()
}
