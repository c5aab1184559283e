package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ConfigName is the optional config file looked up in the working directory
// (intern-match.yaml, .json or .toml).
const ConfigName = "intern-match"

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Recs      RecsConfig      `mapstructure:"recommendations"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
}

type AppConfig struct {
	AppName     string `mapstructure:"name"`
	Environment string `mapstructure:"env"`
	HTTPPort    string `mapstructure:"http_port" validate:"omitempty,numeric"`
}

type DatabaseConfig struct {
	DBHost     string `mapstructure:"host"`
	DBPort     string `mapstructure:"port"`
	DBName     string `mapstructure:"name"`
	DBUser     string `mapstructure:"user"`
	DBPassword string `mapstructure:"password"`
	DBSSLMode  string `mapstructure:"ssl_mode"`

	ConnectTimeout        time.Duration `mapstructure:"connect_timeout"`
	PoolMaxConns          int32         `mapstructure:"pool_max_conns" validate:"gte=0"`
	PoolMinConns          int32         `mapstructure:"pool_min_conns" validate:"gte=0"`
	PoolMaxConnLifetime   time.Duration `mapstructure:"pool_max_conn_lifetime"`
	PoolMaxConnIdleTime   time.Duration `mapstructure:"pool_max_conn_idle_time"`
	PoolHealthCheckPeriod time.Duration `mapstructure:"pool_health_check_period"`
}

// DSN is the libpq keyword/value connection string.
func (c DatabaseConfig) DSN() string {
	sslMode := strings.TrimSpace(c.DBSSLMode)
	if sslMode == "" {
		sslMode = "disable"
	}
	port := strings.TrimSpace(c.DBPort)
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		strings.TrimSpace(c.DBHost),
		port,
		strings.TrimSpace(c.DBUser),
		c.DBPassword,
		strings.TrimSpace(c.DBName),
		sslMode,
	)
}

// Configured reports whether enough is set to attempt a connection.
func (c DatabaseConfig) Configured() bool {
	return strings.TrimSpace(c.DBHost) != "" && strings.TrimSpace(c.DBName) != ""
}

type RedisConfig struct {
	Host       string `mapstructure:"host"`
	Port       string `mapstructure:"port"`
	Password   string `mapstructure:"password"`
	TTLSeconds int    `mapstructure:"ttl" validate:"gte=0"`
}

func (c RedisConfig) Addr() string {
	host := strings.TrimSpace(c.Host)
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "6379"
	}
	return fmt.Sprintf("%s:%s", host, port)
}

func (c RedisConfig) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return 600 * time.Second
	}
	return time.Duration(c.TTLSeconds) * time.Second
}

type JWTConfig struct {
	AccessSecret    string        `mapstructure:"access_secret"`
	AccessExpiresIn time.Duration `mapstructure:"access_expires_in"`
}

type RecsConfig struct {
	Timezone         string `mapstructure:"timezone"`
	DefaultLimit     int    `mapstructure:"default_limit" validate:"gte=1,lte=20"`
	DailyMinScore    int    `mapstructure:"daily_min_score" validate:"gte=0,lte=100"`
	RefreshPerMinute int    `mapstructure:"refresh_per_minute" validate:"gte=0"`

	location *time.Location
}

// Location is the zone that decides which calendar day a request belongs to.
func (c RecsConfig) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

type SchedulerConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Spec        string `mapstructure:"spec"`
	Concurrency int    `mapstructure:"concurrency" validate:"gte=1,lte=64"`
}

type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// envKeys maps config keys to the environment variables that set them.
var envKeys = map[string]string{
	"app.name":      "APP_NAME",
	"app.env":       "APP_ENV",
	"app.http_port": "HTTP_PORT",

	"database.host":                     "DB_HOST",
	"database.port":                     "DB_PORT",
	"database.name":                     "DB_NAME",
	"database.user":                     "DB_USER",
	"database.password":                 "DB_PASSWORD",
	"database.ssl_mode":                 "DB_SSL_MODE",
	"database.connect_timeout":          "DB_CONNECT_TIMEOUT",
	"database.pool_max_conns":           "DB_POOL_MAX_CONNS",
	"database.pool_min_conns":           "DB_POOL_MIN_CONNS",
	"database.pool_max_conn_lifetime":   "DB_POOL_MAX_CONN_LIFETIME",
	"database.pool_max_conn_idle_time":  "DB_POOL_MAX_CONN_IDLE_TIME",
	"database.pool_health_check_period": "DB_POOL_HEALTH_CHECK_PERIOD",

	"redis.host":     "REDIS_HOST",
	"redis.port":     "REDIS_PORT",
	"redis.password": "REDIS_PASSWORD",
	"redis.ttl":      "REDIS_TTL",

	"jwt.access_secret":     "JWT_ACCESS_SECRET",
	"jwt.access_expires_in": "JWT_ACCESS_EXPIRES_IN",

	"recommendations.timezone":           "RECS_TIMEZONE",
	"recommendations.default_limit":      "RECS_DEFAULT_LIMIT",
	"recommendations.daily_min_score":    "RECS_DAILY_MIN_SCORE",
	"recommendations.refresh_per_minute": "RECS_REFRESH_PER_MINUTE",

	"scheduler.enabled":     "SCHEDULER_ENABLED",
	"scheduler.spec":        "SCHEDULER_SPEC",
	"scheduler.concurrency": "SCHEDULER_CONCURRENCY",

	"log.json":  "LOG_JSON",
	"log.debug": "LOG_DEBUG",
}

var required = []string{"app.name", "app.env", "app.http_port"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.connect_timeout", 5*time.Second)
	v.SetDefault("jwt.access_expires_in", 15*time.Minute)
	v.SetDefault("recommendations.timezone", "UTC")
	v.SetDefault("recommendations.default_limit", 5)
	v.SetDefault("recommendations.daily_min_score", 0)
	v.SetDefault("recommendations.refresh_per_minute", 6)
	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.spec", "0 5 * * *")
	v.SetDefault("scheduler.concurrency", 4)
}

// Load reads the optional config file and the environment.
func Load() (Config, error) {
	return LoadFrom(viper.New(), "")
}

// LoadFrom is Load over a caller-owned viper instance, so a CLI can bind its own
// flags first. An empty configFile looks for ConfigName in the working directory.
func LoadFrom(v *viper.Viper, configFile string) (Config, error) {
	setDefaults(v)
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var missing []string
	for _, key := range required {
		if strings.TrimSpace(v.GetString(key)) == "" {
			missing = append(missing, envKeys[key])
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	trim(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Recs.Timezone)
	if err != nil {
		return Config{}, fmt.Errorf("invalid RECS_TIMEZONE %q: %w", cfg.Recs.Timezone, err)
	}
	cfg.Recs.location = loc

	return cfg, nil
}

func trim(cfg *Config) {
	for _, s := range []*string{
		&cfg.App.AppName, &cfg.App.Environment, &cfg.App.HTTPPort,
		&cfg.Database.DBHost, &cfg.Database.DBPort, &cfg.Database.DBName,
		&cfg.Database.DBUser, &cfg.Database.DBSSLMode,
		&cfg.Redis.Host, &cfg.Redis.Port,
		&cfg.Recs.Timezone, &cfg.Scheduler.Spec,
	} {
		*s = strings.TrimSpace(*s)
	}
}
