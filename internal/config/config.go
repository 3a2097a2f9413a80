package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const configPathEnv = "NEWS_API_CONFIG"

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	App           AppConfig      `yaml:"app"`
	Database      DatabaseConfig `yaml:"database"`
	Redis         RedisConfig    `yaml:"redis"`
	JWT           JWTConfig      `yaml:"jwt"`
	Search        SearchConfig   `yaml:"search"`
	InternalToken string         `yaml:"internalToken"`
}

type AppConfig struct {
	AppName       string `yaml:"name"`
	Environment   string `yaml:"env"`
	HTTPPort      string `yaml:"httpPort"`
	StorageDriver string `yaml:"storageDriver"`
}

type DatabaseConfig struct {
	DBHost     string `yaml:"host"`
	DBPort     string `yaml:"port"`
	DBName     string `yaml:"name"`
	DBUser     string `yaml:"user"`
	DBPassword string `yaml:"password"`
	DBSSLMode  string `yaml:"sslMode"`

	ConnectTimeout        time.Duration `yaml:"connectTimeout"`
	PoolMaxConns          int32         `yaml:"poolMaxConns"`
	PoolMinConns          int32         `yaml:"poolMinConns"`
	PoolMaxConnLifetime   time.Duration `yaml:"poolMaxConnLifetime"`
	PoolMaxConnIdleTime   time.Duration `yaml:"poolMaxConnIdleTime"`
	PoolHealthCheckPeriod time.Duration `yaml:"poolHealthCheckPeriod"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func (r RedisConfig) Addr() string {
	host := r.Host
	if host == "" {
		host = "localhost"
	}
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return host + ":" + port
}

type JWTConfig struct {
	AccessSecret     string        `yaml:"accessSecret"`
	RefreshSecret    string        `yaml:"refreshSecret"`
	AccessExpiresIn  time.Duration `yaml:"accessExpiresIn"`
	RefreshExpiresIn time.Duration `yaml:"refreshExpiresIn"`
}

type SearchConfig struct {
	// RelevanceScoring turns sort_by=relevance into real text scoring instead
	// of the popularity ordering it has always aliased.
	RelevanceScoring bool          `yaml:"relevanceScoring"`
	CacheTTL         time.Duration `yaml:"cacheTTL"`
}

func (c Config) IsDevelopment() bool {
	env := strings.ToLower(c.App.Environment)
	return env == "development" || env == "dev" || env == "local"
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

// Load reads the optional YAML file named by NEWS_API_CONFIG and then applies
// environment variables on top of it. Non-empty env values always win.
func Load() (Config, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv(configPathEnv)); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	var invalid []string
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return
		}
		d, err := parseDuration(v)
		if err != nil {
			invalid = append(invalid, key)
			return
		}
		*dst = d
	}
	i32 := func(key string, dst *int32) {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return
		}
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			invalid = append(invalid, key)
			return
		}
		*dst = int32(n)
	}
	boolean := func(key string, dst *bool) {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			invalid = append(invalid, key)
			return
		}
		*dst = b
	}

	str("APP_NAME", &cfg.App.AppName)
	str("APP_ENV", &cfg.App.Environment)
	str("HTTP_PORT", &cfg.App.HTTPPort)
	str("STORAGE_DRIVER", &cfg.App.StorageDriver)

	str("DB_HOST", &cfg.Database.DBHost)
	str("DB_PORT", &cfg.Database.DBPort)
	str("DB_NAME", &cfg.Database.DBName)
	str("DB_USER", &cfg.Database.DBUser)
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.DBPassword = v
	}
	str("DB_SSL_MODE", &cfg.Database.DBSSLMode)
	dur("DB_CONNECT_TIMEOUT", &cfg.Database.ConnectTimeout)
	i32("DB_POOL_MAX_CONNS", &cfg.Database.PoolMaxConns)
	i32("DB_POOL_MIN_CONNS", &cfg.Database.PoolMinConns)
	dur("DB_POOL_MAX_CONN_LIFETIME", &cfg.Database.PoolMaxConnLifetime)
	dur("DB_POOL_MAX_CONN_IDLE_TIME", &cfg.Database.PoolMaxConnIdleTime)
	dur("DB_POOL_HEALTH_CHECK_PERIOD", &cfg.Database.PoolHealthCheckPeriod)

	str("REDIS_HOST", &cfg.Redis.Host)
	str("REDIS_PORT", &cfg.Redis.Port)
	str("REDIS_PASSWORD", &cfg.Redis.Password)
	if v := strings.TrimSpace(os.Getenv("REDIS_DB")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			invalid = append(invalid, "REDIS_DB")
		} else {
			cfg.Redis.DB = n
		}
	}

	str("JWT_ACCESS_SECRET", &cfg.JWT.AccessSecret)
	str("JWT_REFRESH_SECRET", &cfg.JWT.RefreshSecret)
	dur("JWT_ACCESS_EXPIRES_IN", &cfg.JWT.AccessExpiresIn)
	dur("JWT_REFRESH_EXPIRES_IN", &cfg.JWT.RefreshExpiresIn)

	boolean("SEARCH_RELEVANCE_SCORING", &cfg.Search.RelevanceScoring)
	dur("SEARCH_CACHE_TTL", &cfg.Search.CacheTTL)

	str("INTERNAL_TOKEN", &cfg.InternalToken)

	cfg.App.StorageDriver = strings.ToLower(cfg.App.StorageDriver)
	switch cfg.App.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		invalid = append(invalid, "STORAGE_DRIVER")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	missing := cfg.missingRequired()
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func defaults() Config {
	return Config{
		App: AppConfig{StorageDriver: StorageDriverPostgres},
		Database: DatabaseConfig{
			DBSSLMode: "disable",
		},
		JWT: JWTConfig{
			AccessExpiresIn:  15 * time.Minute,
			RefreshExpiresIn: 7 * 24 * time.Hour,
		},
		Search: SearchConfig{CacheTTL: 60 * time.Second},
	}
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c Config) missingRequired() []string {
	var missing []string
	req := func(key, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, key)
		}
	}

	req("APP_NAME", c.App.AppName)
	req("APP_ENV", c.App.Environment)
	req("HTTP_PORT", c.App.HTTPPort)
	req("JWT_ACCESS_SECRET", c.JWT.AccessSecret)
	req("JWT_REFRESH_SECRET", c.JWT.RefreshSecret)

	if c.App.StorageDriver == StorageDriverPostgres {
		req("DB_HOST", c.Database.DBHost)
		req("DB_PORT", c.Database.DBPort)
		req("DB_NAME", c.Database.DBName)
		req("DB_USER", c.Database.DBUser)
	}
	return missing
}

// parseDuration accepts Go durations ("90s") and bare seconds ("90").
func parseDuration(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative duration: %s", v)
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration: %s", v)
	}
	return d, nil
}
