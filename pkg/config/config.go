package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig namespace shared by every service binary.
const EnvPrefix = "BREADCRUMBS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "BREADCRUMBS_DB_DSN"
	EnvDBHost = "BREADCRUMBS_DB_HOST"
	EnvDBUser = "BREADCRUMBS_DB_USER"
	EnvDBName = "BREADCRUMBS_DB_NAME"
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
	Listings      ListingsConfig
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
	Env          string `envconfig:"BREADCRUMBS_APP_ENV" required:"true"`
	Port         string `envconfig:"BREADCRUMBS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BREADCRUMBS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BREADCRUMBS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BREADCRUMBS_DB_DSN"`
	Driver string `envconfig:"BREADCRUMBS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BREADCRUMBS_DB_HOST"`
	LegacyPort     int    `envconfig:"BREADCRUMBS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BREADCRUMBS_DB_USER"`
	LegacyPassword string `envconfig:"BREADCRUMBS_DB_PASSWORD"`
	LegacyName     string `envconfig:"BREADCRUMBS_DB_NAME"`
	LegacySSLMode  string `envconfig:"BREADCRUMBS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BREADCRUMBS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BREADCRUMBS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BREADCRUMBS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BREADCRUMBS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BREADCRUMBS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BREADCRUMBS_REDIS_ADDR"`
	Password     string        `envconfig:"BREADCRUMBS_REDIS_PASSWORD"`
	DB           int           `envconfig:"BREADCRUMBS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BREADCRUMBS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BREADCRUMBS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BREADCRUMBS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BREADCRUMBS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BREADCRUMBS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"BREADCRUMBS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"BREADCRUMBS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"BREADCRUMBS_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"BREADCRUMBS_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BREADCRUMBS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BREADCRUMBS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BREADCRUMBS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BREADCRUMBS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BREADCRUMBS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"BREADCRUMBS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"BREADCRUMBS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"BREADCRUMBS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"BREADCRUMBS_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"BREADCRUMBS_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"BREADCRUMBS_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BREADCRUMBS_AUTO_MIGRATE" default:"false"`
}

// ListingsConfig points the import utility at the vendor business-search API.
type ListingsConfig struct {
	BaseURL      string        `envconfig:"BREADCRUMBS_LISTINGS_BASE_URL" default:"https://api.yelp.com/v3"`
	APIKey       string        `envconfig:"BREADCRUMBS_LISTINGS_API_KEY"`
	HTTPTimeout  time.Duration `envconfig:"BREADCRUMBS_LISTINGS_HTTP_TIMEOUT" default:"15s"`
	MaxResults   int           `envconfig:"BREADCRUMBS_LISTINGS_MAX_RESULTS" default:"1000"`
	PageSize     int           `envconfig:"BREADCRUMBS_LISTINGS_PAGE_SIZE" default:"20"`
	WipeExisting bool          `envconfig:"BREADCRUMBS_LISTINGS_WIPE_EXISTING" default:"false"`
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
