package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Stripe       StripeConfig
	FeatureFlags FeatureFlagsConfig
	Checkout     CheckoutConfig
	Sweeper      SweeperConfig
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
	Env          string `envconfig:"CAMPUSEATS_APP_ENV" required:"true"`
	Port         string `envconfig:"CAMPUSEATS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CAMPUSEATS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CAMPUSEATS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CAMPUSEATS_DB_DSN"`
	Driver string `envconfig:"CAMPUSEATS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CAMPUSEATS_DB_HOST"`
	LegacyPort     int    `envconfig:"CAMPUSEATS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CAMPUSEATS_DB_USER"`
	LegacyPassword string `envconfig:"CAMPUSEATS_DB_PASSWORD"`
	LegacyName     string `envconfig:"CAMPUSEATS_DB_NAME"`
	LegacySSLMode  string `envconfig:"CAMPUSEATS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CAMPUSEATS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CAMPUSEATS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CAMPUSEATS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CAMPUSEATS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CAMPUSEATS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CAMPUSEATS_REDIS_ADDR"`
	Password     string        `envconfig:"CAMPUSEATS_REDIS_PASSWORD"`
	DB           int           `envconfig:"CAMPUSEATS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CAMPUSEATS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CAMPUSEATS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CAMPUSEATS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CAMPUSEATS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CAMPUSEATS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CAMPUSEATS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CAMPUSEATS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CAMPUSEATS_JWT_EXPIRATION_MINUTES" required:"true"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CAMPUSEATS_AUTO_MIGRATE" default:"false"`
}

type CheckoutConfig struct {
	IdempotencyTTL time.Duration `envconfig:"CAMPUSEATS_CHECKOUT_IDEMPOTENCY_TTL" default:"24h"`
}

type SweeperConfig struct {
	Interval          time.Duration `envconfig:"CAMPUSEATS_SWEEPER_INTERVAL" default:"5m"`
	PendingPaymentTTL time.Duration `envconfig:"CAMPUSEATS_SWEEPER_PENDING_PAYMENT_TTL" default:"30m"`
}

type StripeConfig struct {
	APIKey string `envconfig:"CAMPUSEATS_STRIPE_API_KEY"`
	Secret string `envconfig:"CAMPUSEATS_STRIPE_SECRET"`
	Env    string `envconfig:"CAMPUSEATS_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
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
