package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "glowlane"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "GLOWLANE_DB_DSN"
	EnvDBHost = "GLOWLANE_DB_HOST"
	EnvDBUser = "GLOWLANE_DB_USER"
	EnvDBName = "GLOWLANE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Export       ExportConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GLOWLANE_APP_ENV" required:"true"`
	LogLevel     string `envconfig:"GLOWLANE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GLOWLANE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GLOWLANE_DB_DSN"`
	Driver string `envconfig:"GLOWLANE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GLOWLANE_DB_HOST"`
	LegacyPort     int    `envconfig:"GLOWLANE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GLOWLANE_DB_USER"`
	LegacyPassword string `envconfig:"GLOWLANE_DB_PASSWORD"`
	LegacyName     string `envconfig:"GLOWLANE_DB_NAME"`
	LegacySSLMode  string `envconfig:"GLOWLANE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GLOWLANE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GLOWLANE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GLOWLANE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GLOWLANE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GLOWLANE_REDIS_URL"`
	Address      string        `envconfig:"GLOWLANE_REDIS_ADDR"`
	Password     string        `envconfig:"GLOWLANE_REDIS_PASSWORD"`
	DB           int           `envconfig:"GLOWLANE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GLOWLANE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GLOWLANE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GLOWLANE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GLOWLANE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GLOWLANE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured at all. The export
// run lock degrades to a no-op lock when Redis is absent.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type ExportConfig struct {
	OutputDir  string        `envconfig:"GLOWLANE_EXPORT_OUTPUT_DIR" default:"data"`
	ArchiveDir string        `envconfig:"GLOWLANE_EXPORT_ARCHIVE_DIR" default:"archive"`
	Site       string        `envconfig:"GLOWLANE_EXPORT_SITE" required:"true"`
	Vendor     string        `envconfig:"GLOWLANE_EXPORT_VENDOR" required:"true"`
	LockKey    string        `envconfig:"GLOWLANE_EXPORT_LOCK_KEY" default:"gl:export:run_lock"`
	LockTTL    time.Duration `envconfig:"GLOWLANE_EXPORT_LOCK_TTL" default:"1h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GLOWLANE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GLOWLANE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.Driver == "sqlite" {
		return fmt.Errorf("%s is required when the sqlite driver is selected", EnvDBDSN)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
