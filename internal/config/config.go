package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/consultation-booking-service/internal/domain"
)

// Config конфигурация сервиса и консольного клиента
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Redis         RedisConfig         `toml:"redis"`
	Notifications NotificationsConfig `toml:"notifications"`
	Schedule      ScheduleConfig      `toml:"schedule"`
	Client        ClientConfig        `toml:"client"`
}

// ServerConfig таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	MigrateOnStart  bool   `toml:"migrate_on_start"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type RedisConfig struct {
	Addr             string `toml:"addr"`
	Password         string `toml:"password"`
	DB               int    `toml:"db"`
	NotificationsKey string `toml:"notifications_key"`
}

type NotificationsConfig struct {
	Enabled bool `toml:"enabled"`
}

// ScheduleConfig часовой пояс практики и рабочее время по умолчанию,
// которое действует, пока администратор не сохранил свое
type ScheduleConfig struct {
	Timezone               string `toml:"timezone"`
	WorkStart              string `toml:"work_start"`
	WorkEnd                string `toml:"work_end"`
	SessionDurationMinutes int    `toml:"session_duration_minutes"`
}

// Location загружает часовой пояс расписания
func (s ScheduleConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// DefaultWorkingHours рабочее время по умолчанию
func (s ScheduleConfig) DefaultWorkingHours() (domain.WorkingHoursConfig, error) {
	return domain.NewWorkingHoursConfig(s.WorkStart, s.WorkEnd, s.SessionDurationMinutes)
}

// ClientConfig настройки bookingctl
type ClientConfig struct {
	BaseURL         string `toml:"base_url"`
	Timeout         int    `toml:"timeout"` // секунды, на один HTTP запрос
	UserID          int64  `toml:"user_id"`
	Role            string `toml:"role"`
	MutationTimeout int    `toml:"mutation_timeout"` // секунды, на одну операцию
	BulkConcurrency int    `toml:"bulk_concurrency"`
}

// Load читает TOML файл, подставляет значения по умолчанию и валидирует результат
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	// Секреты удобнее держать вне config.toml
	envPath := filepath.Join(filepath.Dir(path), ".env")
	if err := cfg.applyEnv(envPath); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Переменные окружения, переопределяющие значения из файла
const (
	EnvDatabaseHost     = "BOOKING_DB_HOST"
	EnvDatabasePassword = "BOOKING_DB_PASSWORD"
	EnvRedisAddr        = "BOOKING_REDIS_ADDR"
	EnvRedisPassword    = "BOOKING_REDIS_PASSWORD"
	EnvLogLevel         = "BOOKING_LOG_LEVEL"
	EnvHTTPPort         = "BOOKING_HTTP_PORT"
)

// applyEnv переопределяет значения из окружения процесса и файла .env.
// Окружение процесса важнее .env. Отсутствие .env не ошибка.
func (c *Config) applyEnv(envPath string) error {
	dotenv, err := godotenv.Read(envPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read %s: %w", envPath, err)
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	if v, ok := lookup(EnvDatabaseHost); ok {
		c.Database.Host = v
	}
	if v, ok := lookup(EnvDatabasePassword); ok {
		c.Database.Password = v
	}
	if v, ok := lookup(EnvRedisAddr); ok {
		c.Redis.Addr = v
	}
	if v, ok := lookup(EnvRedisPassword); ok {
		c.Redis.Password = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Logs.Level = v
	}
	if v, ok := lookup(EnvHTTPPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHTTPPort, err)
		}
		c.Server.HTTPPort = port
	}
	return nil
}

// Default значения, которые действуют для ключей, отсутствующих в файле
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "consultation_booking",
		},
		Redis: RedisConfig{
			Addr:             "localhost:6379",
			NotificationsKey: "booking:notifications",
		},
		Schedule: ScheduleConfig{
			Timezone:               "UTC",
			WorkStart:              "09:00",
			WorkEnd:                "18:00",
			SessionDurationMinutes: 60,
		},
		Client: ClientConfig{
			BaseURL:         "http://localhost:8080",
			Timeout:         10,
			Role:            string(domain.RoleAdmin),
			MutationTimeout: 15,
			BulkConcurrency: 4,
		},
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port: %d out of range", c.Server.HTTPPort))
	}
	if c.Database.DBName == "" {
		errs = append(errs, errors.New("database.dbname is required"))
	}
	if c.Database.User == "" {
		errs = append(errs, errors.New("database.user is required"))
	}
	if _, err := c.Schedule.Location(); err != nil {
		errs = append(errs, fmt.Errorf("schedule.timezone: %v", err))
	}
	if _, err := c.Schedule.DefaultWorkingHours(); err != nil {
		errs = append(errs, fmt.Errorf("schedule: %v", err))
	}
	if c.Notifications.Enabled && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required when notifications are enabled"))
	}
	if _, ok := domain.ParseRole(c.Client.Role); !ok {
		errs = append(errs, fmt.Errorf("client.role: unknown role %q", c.Client.Role))
	}
	if c.Client.BulkConcurrency <= 0 {
		errs = append(errs, errors.New("client.bulk_concurrency must be positive"))
	}

	return errors.Join(errs...)
}
