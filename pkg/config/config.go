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
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Reset         ResetConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	SMTP          SMTPConfig
	Frontend      FrontendConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.checkRequired(); err != nil {
		return nil, err
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envconfig's required tag only rejects unset variables; a variable set to
// the empty string passes. The strings that must never be empty are checked
// here so an HS256 signer can't start with a blank key.
func (c *Config) checkRequired() error {
	required := []struct {
		name  string
		value string
	}{
		{EnvAppEnv, c.App.Env},
		{EnvAppPort, c.App.Port},
		{EnvRedisURL, c.Redis.URL},
		{EnvJWTSecret, c.JWT.Secret},
		{EnvJWTIssuer, c.JWT.Issuer},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("required key %s missing value", field.name)
		}
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"ZIKSIR_APP_ENV" required:"true"`
	Port         string `envconfig:"ZIKSIR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ZIKSIR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ZIKSIR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"ZIKSIR_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"ZIKSIR_DB_DSN"`
	Driver string `envconfig:"ZIKSIR_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ZIKSIR_DB_HOST"`
	LegacyPort     int    `envconfig:"ZIKSIR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ZIKSIR_DB_USER"`
	LegacyPassword string `envconfig:"ZIKSIR_DB_PASSWORD"`
	LegacyName     string `envconfig:"ZIKSIR_DB_NAME"`
	LegacySSLMode  string `envconfig:"ZIKSIR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ZIKSIR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ZIKSIR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ZIKSIR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ZIKSIR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ZIKSIR_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ZIKSIR_REDIS_ADDR"`
	Password     string        `envconfig:"ZIKSIR_REDIS_PASSWORD"`
	DB           int           `envconfig:"ZIKSIR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ZIKSIR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ZIKSIR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ZIKSIR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ZIKSIR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ZIKSIR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"ZIKSIR_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"ZIKSIR_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"ZIKSIR_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"ZIKSIR_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ZIKSIR_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ZIKSIR_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ZIKSIR_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ZIKSIR_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ZIKSIR_ARGON_KEY_LEN" default:"32"`
}

// ResetConfig governs the password reset token/OTP lifetimes stored in Redis.
type ResetConfig struct {
	TokenTTL time.Duration `envconfig:"ZIKSIR_RESET_TOKEN_TTL" default:"30m"`
	OTPTTL   time.Duration `envconfig:"ZIKSIR_RESET_OTP_TTL" default:"10m"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"ZIKSIR_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"ZIKSIR_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"ZIKSIR_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"ZIKSIR_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"ZIKSIR_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"ZIKSIR_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ZIKSIR_AUTO_MIGRATE" default:"false"`
}

type SMTPConfig struct {
	Host        string `envconfig:"ZIKSIR_SMTP_HOST"`
	Port        int    `envconfig:"ZIKSIR_SMTP_PORT" default:"587"`
	Username    string `envconfig:"ZIKSIR_SMTP_USERNAME"`
	Password    string `envconfig:"ZIKSIR_SMTP_PASSWORD"`
	DefaultFrom string `envconfig:"ZIKSIR_SMTP_FROM_EMAIL" default:"no-reply@ziksir.com"`
	AdminInbox  string `envconfig:"ZIKSIR_SMTP_ADMIN_EMAIL"`
}

// FrontendConfig carries the SPA base URL used when building email links.
type FrontendConfig struct {
	BaseURL string `envconfig:"ZIKSIR_FRONTEND_BASE_URL" default:"http://localhost:5173"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"ZIKSIR_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"ZIKSIR_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"ZIKSIR_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	NotificationTopic        string `envconfig:"ZIKSIR_PUBSUB_NOTIFICATION_TOPIC" default:"zk-notification-events"`
	NotificationSubscription string `envconfig:"ZIKSIR_PUBSUB_NOTIFICATION_SUBSCRIPTION" default:"zk-notification-events-mailer"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"ZIKSIR_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"ZIKSIR_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"ZIKSIR_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
