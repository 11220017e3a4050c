package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "vitrine"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "VITRINE_APP_ENV"
	EnvPort     = "VITRINE_APP_PORT"
	EnvLogLevel = "VITRINE_LOG_LEVEL"

	EnvDBDSN      = "VITRINE_DB_DSN"
	EnvDBHost     = "VITRINE_DB_HOST"
	EnvDBPort     = "VITRINE_DB_PORT"
	EnvDBUser     = "VITRINE_DB_USER"
	EnvDBPassword = "VITRINE_DB_PASSWORD"
	EnvDBName     = "VITRINE_DB_NAME"
	EnvDBSSLMode  = "VITRINE_DB_SSLMODE"

	EnvRedisURL = "VITRINE_REDIS_URL"

	EnvIdentityBaseURL    = "VITRINE_IDENTITY_BASE_URL"
	EnvIdentityServiceKey = "VITRINE_IDENTITY_SERVICE_KEY"
	EnvIdentityJWTSecret  = "VITRINE_IDENTITY_JWT_SECRET"
	EnvIdentityMode       = "VITRINE_IDENTITY_MODE"

	EnvGCPProjectID     = "VITRINE_GCP_PROJECT_ID"
	EnvGCSBucket        = "VITRINE_GCS_BUCKET_NAME"
	EnvGCSUploadExpiry  = "VITRINE_GCS_UPLOAD_URL_EXPIRY"
	EnvPubSubOrderTopic = "VITRINE_PUBSUB_ORDERS_TOPIC"
)

// legacyDBEnvVars are the discrete connection vars accepted when
// VITRINE_DB_DSN is not set.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Identity      IdentityConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Orders        OrdersConfig
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
	Env          string `envconfig:"VITRINE_APP_ENV" required:"true"`
	Port         string `envconfig:"VITRINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VITRINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VITRINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"VITRINE_DB_DSN"`

	LegacyHost     string `envconfig:"VITRINE_DB_HOST"`
	LegacyPort     int    `envconfig:"VITRINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VITRINE_DB_USER"`
	LegacyPassword string `envconfig:"VITRINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"VITRINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"VITRINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VITRINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VITRINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VITRINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VITRINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VITRINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VITRINE_REDIS_ADDR"`
	Password     string        `envconfig:"VITRINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"VITRINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VITRINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VITRINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VITRINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VITRINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VITRINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// IdentityConfig points at the external identity provider that owns
// credentials, sessions and token issuance.
type IdentityConfig struct {
	BaseURL     string        `envconfig:"VITRINE_IDENTITY_BASE_URL" required:"true"`
	ServiceKey  string        `envconfig:"VITRINE_IDENTITY_SERVICE_KEY"`
	JWTSecret   string        `envconfig:"VITRINE_IDENTITY_JWT_SECRET"`
	Mode        string        `envconfig:"VITRINE_IDENTITY_MODE" default:"remote"`
	HTTPTimeout time.Duration `envconfig:"VITRINE_IDENTITY_HTTP_TIMEOUT" default:"10s"`
}

// VerifyLocally reports whether access tokens are checked against the
// shared JWT secret instead of a round trip to the provider.
func (i IdentityConfig) VerifyLocally() bool {
	return strings.EqualFold(strings.TrimSpace(i.Mode), "local")
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"VITRINE_AUTH_RL_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"VITRINE_AUTH_RL_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"VITRINE_AUTH_RL_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"VITRINE_AUTH_RL_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"VITRINE_AUTH_RL_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"VITRINE_AUTH_RL_SIGNUP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VITRINE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"VITRINE_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"VITRINE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"VITRINE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName      string        `envconfig:"VITRINE_GCS_BUCKET_NAME" required:"true"`
	UploadURLExpiry time.Duration `envconfig:"VITRINE_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"VITRINE_MAX_UPLOAD_MB" default:"10"`
}

type PubSubConfig struct {
	OrdersTopic string `envconfig:"VITRINE_PUBSUB_ORDERS_TOPIC" required:"true"`
}

type OutboxConfig struct {
	BatchSize    int           `envconfig:"VITRINE_OUTBOX_BATCH_SIZE" default:"50"`
	PollInterval time.Duration `envconfig:"VITRINE_OUTBOX_POLL_INTERVAL" default:"500ms"`
	MaxAttempts  int           `envconfig:"VITRINE_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type OrdersConfig struct {
	CreateTxTimeout time.Duration `envconfig:"VITRINE_ORDERS_CREATE_TX_TIMEOUT" default:"15s"`
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
