package config

// EnvPrefix is passed to envconfig; individual keys below are spelled out
// in full so grep finds them.
const EnvPrefix = "KISAAN"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "KISAAN_APP_ENV"
	EnvPort     = "KISAAN_APP_PORT"
	EnvLogLevel = "KISAAN_LOG_LEVEL"

	EnvDBDSN    = "KISAAN_DB_DSN"
	EnvDBDriver = "KISAAN_DB_DRIVER"
	EnvDBHost   = "KISAAN_DB_HOST"
	EnvDBPort   = "KISAAN_DB_PORT"
	EnvDBUser   = "KISAAN_DB_USER"
	EnvDBPass   = "KISAAN_DB_PASSWORD"
	EnvDBName   = "KISAAN_DB_NAME"

	EnvRedisURL = "KISAAN_REDIS_URL"

	EnvJWTSecret  = "KISAAN_JWT_SECRET"
	EnvJWTIssuer  = "KISAAN_JWT_ISSUER"
	EnvJWTExpMins = "KISAAN_JWT_EXPIRATION_MINUTES"

	EnvRazorpayKeyID     = "KISAAN_RAZORPAY_KEY_ID"
	EnvRazorpayKeySecret = "KISAAN_RAZORPAY_KEY_SECRET"

	EnvUploadDir   = "KISAAN_UPLOAD_DIR"
	EnvMaxUploadMB = "KISAAN_MAX_UPLOAD_MB"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
