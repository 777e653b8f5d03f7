package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Razorpay      RazorpayConfig
	Uploads       UploadsConfig
	Idempotency   IdempotencyConfig
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
	Env          string `envconfig:"KISAAN_APP_ENV" required:"true"`
	Port         string `envconfig:"KISAAN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KISAAN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KISAAN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KISAAN_DB_DSN"`
	Driver string `envconfig:"KISAAN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KISAAN_DB_HOST"`
	LegacyPort     int    `envconfig:"KISAAN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KISAAN_DB_USER"`
	LegacyPassword string `envconfig:"KISAAN_DB_PASSWORD"`
	LegacyName     string `envconfig:"KISAAN_DB_NAME"`
	LegacySSLMode  string `envconfig:"KISAAN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KISAAN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KISAAN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KISAAN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KISAAN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KISAAN_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"KISAAN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KISAAN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KISAAN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KISAAN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KISAAN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"KISAAN_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KISAAN_JWT_ISSUER" default:"kisaaan"`
	ExpirationMinutes int    `envconfig:"KISAAN_JWT_EXPIRATION_MINUTES" default:"10080"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"KISAAN_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"KISAAN_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"KISAAN_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"KISAAN_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"KISAAN_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"KISAAN_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"KISAAN_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"KISAAN_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"KISAAN_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"KISAAN_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"KISAAN_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite          bool `envconfig:"KISAAN_USE_SQLITE" default:"false"`
	AutoMigrate        bool `envconfig:"KISAAN_AUTO_MIGRATE" default:"false"`
	DealStatusOverride bool `envconfig:"KISAAN_FEATURE_DEAL_STATUS_OVERRIDE" default:"false"`
}

type RazorpayConfig struct {
	KeyID     string `envconfig:"KISAAN_RAZORPAY_KEY_ID"`
	KeySecret string `envconfig:"KISAAN_RAZORPAY_KEY_SECRET"`
}

type UploadsConfig struct {
	Dir         string `envconfig:"KISAAN_UPLOAD_DIR" default:"uploads"`
	MaxUploadMB int    `envconfig:"KISAAN_MAX_UPLOAD_MB" default:"5"`
	MaxImages   int    `envconfig:"KISAAN_MAX_IMAGES_PER_LISTING" default:"5"`
}

// MaxUploadBytes returns the per-file upload cap in bytes.
func (u UploadsConfig) MaxUploadBytes() int64 {
	return int64(u.MaxUploadMB) << 20
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"KISAAN_IDEMPOTENCY_TTL" default:"24h"`
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
