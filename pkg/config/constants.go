package config

const (
	EnvPrefix = "ZIKSIR"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "ZIKSIR_APP_ENV"
	EnvAppPort  = "ZIKSIR_APP_PORT"
	EnvLogLevel = "ZIKSIR_LOG_LEVEL"

	EnvServiceKind = "ZIKSIR_SERVICE_KIND"

	EnvDBDSN      = "ZIKSIR_DB_DSN"
	EnvDBHost     = "ZIKSIR_DB_HOST"
	EnvDBPort     = "ZIKSIR_DB_PORT"
	EnvDBUser     = "ZIKSIR_DB_USER"
	EnvDBPassword = "ZIKSIR_DB_PASSWORD"
	EnvDBName     = "ZIKSIR_DB_NAME"
	EnvDBSSLMode  = "ZIKSIR_DB_SSLMODE"

	EnvRedisURL = "ZIKSIR_REDIS_URL"

	EnvJWTSecret              = "ZIKSIR_JWT_SECRET"
	EnvJWTIssuer              = "ZIKSIR_JWT_ISSUER"
	EnvJWTExpMins             = "ZIKSIR_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "ZIKSIR_REFRESH_TOKEN_TTL_MINUTES"

	EnvSMTPHost       = "ZIKSIR_SMTP_HOST"
	EnvSMTPAdminEmail = "ZIKSIR_SMTP_ADMIN_EMAIL"

	EnvGCPProjectID = "ZIKSIR_GCP_PROJECT_ID"

	EnvAutoMigrate = "ZIKSIR_AUTO_MIGRATE"
)

// legacyDBEnvVars are the discrete connection fields required when
// ZIKSIR_DB_DSN is not set.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
