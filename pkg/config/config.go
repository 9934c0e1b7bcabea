package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is passed to envconfig; every variable below already carries the
// full name, so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "PIXELKEYS_APP_ENV"
	EnvDBDSN  = "PIXELKEYS_DB_DSN"
	EnvDBHost = "PIXELKEYS_DB_HOST"
	EnvDBUser = "PIXELKEYS_DB_USER"
	EnvDBName = "PIXELKEYS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	MercadoPago   MercadoPagoConfig
	Checkout      CheckoutConfig
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
	Env          string `envconfig:"PIXELKEYS_APP_ENV" required:"true"`
	Port         string `envconfig:"PIXELKEYS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PIXELKEYS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PIXELKEYS_LOG_WARN_STACK" default:"false"`

	CORSExtraOrigins []string `envconfig:"PIXELKEYS_CORS_EXTRA_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PIXELKEYS_DB_DSN"`
	Driver string `envconfig:"PIXELKEYS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PIXELKEYS_DB_HOST"`
	LegacyPort     int    `envconfig:"PIXELKEYS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PIXELKEYS_DB_USER"`
	LegacyPassword string `envconfig:"PIXELKEYS_DB_PASSWORD"`
	LegacyName     string `envconfig:"PIXELKEYS_DB_NAME"`
	LegacySSLMode  string `envconfig:"PIXELKEYS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PIXELKEYS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PIXELKEYS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PIXELKEYS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PIXELKEYS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PIXELKEYS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PIXELKEYS_REDIS_ADDR"`
	Password     string        `envconfig:"PIXELKEYS_REDIS_PASSWORD"`
	DB           int           `envconfig:"PIXELKEYS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PIXELKEYS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PIXELKEYS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PIXELKEYS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PIXELKEYS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PIXELKEYS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"PIXELKEYS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"PIXELKEYS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"PIXELKEYS_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"PIXELKEYS_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PIXELKEYS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PIXELKEYS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PIXELKEYS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PIXELKEYS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PIXELKEYS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"PIXELKEYS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"PIXELKEYS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"PIXELKEYS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"PIXELKEYS_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"PIXELKEYS_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"PIXELKEYS_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PIXELKEYS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PIXELKEYS_AUTO_MIGRATE" default:"false"`
}

type MercadoPagoConfig struct {
	AccessToken     string `envconfig:"PIXELKEYS_MP_ACCESS_TOKEN" required:"true"`
	CurrencyID      string `envconfig:"PIXELKEYS_MP_CURRENCY_ID" default:"BRL"`
	CallbackBaseURL string `envconfig:"PIXELKEYS_MP_CALLBACK_BASE_URL" required:"true"`
	WebhookURL      string `envconfig:"PIXELKEYS_MP_WEBHOOK_URL"`
}

type CheckoutConfig struct {
	// PaymentEventTTL bounds how long a processed webhook payment id is
	// remembered for dedupe.
	PaymentEventTTL time.Duration `envconfig:"PIXELKEYS_PAYMENT_EVENT_TTL" default:"720h"`
	// CartTTL bounds how long an idle cart snapshot survives in Redis.
	CartTTL time.Duration `envconfig:"PIXELKEYS_CART_TTL" default:"2160h"`
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
