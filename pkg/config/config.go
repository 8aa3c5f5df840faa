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
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
	PubSub        PubSubConfig
	Catalog       CatalogConfig
	Storefront    StorefrontConfig
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
	Env          string `envconfig:"SHOWROOM_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOWROOM_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOWROOM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOWROOM_LOG_WARN_STACK" default:"false"`
	// AllowedOrigins feeds the CORS middleware; empty means same-origin only.
	AllowedOrigins []string `envconfig:"SHOWROOM_ALLOWED_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOWROOM_DB_DSN"`
	Driver string `envconfig:"SHOWROOM_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOWROOM_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOWROOM_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOWROOM_DB_USER"`
	LegacyPassword string `envconfig:"SHOWROOM_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOWROOM_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOWROOM_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOWROOM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOWROOM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOWROOM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOWROOM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOWROOM_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOWROOM_REDIS_ADDR"`
	Password     string        `envconfig:"SHOWROOM_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOWROOM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOWROOM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOWROOM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOWROOM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOWROOM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOWROOM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret       string        `envconfig:"SHOWROOM_JWT_SECRET" required:"true"`
	Issuer       string        `envconfig:"SHOWROOM_JWT_ISSUER" default:"showroom"`
	SessionTTL   time.Duration `envconfig:"SHOWROOM_SESSION_TTL" default:"168h"`
	CookieName   string        `envconfig:"SHOWROOM_SESSION_COOKIE_NAME" default:"session"`
	CookieSecure bool          `envconfig:"SHOWROOM_SESSION_COOKIE_SECURE" default:"false"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SHOWROOM_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHOWROOM_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHOWROOM_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHOWROOM_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHOWROOM_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SHOWROOM_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SHOWROOM_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SHOWROOM_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SHOWROOM_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SHOWROOM_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SHOWROOM_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SHOWROOM_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SHOWROOM_AUTO_MIGRATE" default:"false"`
	// CleanupPublish routes failed image deletes to Pub/Sub instead of only logging them.
	CleanupPublish bool `envconfig:"SHOWROOM_IMAGE_CLEANUP_PUBLISH" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SHOWROOM_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"SHOWROOM_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SHOWROOM_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName    string `envconfig:"SHOWROOM_GCS_BUCKET_NAME" required:"true"`
	PublicBaseURL string `envconfig:"SHOWROOM_GCS_PUBLIC_BASE_URL" default:"https://storage.googleapis.com"`
	// APIBaseURL overrides the JSON API endpoint (emulators, tests).
	APIBaseURL string `envconfig:"SHOWROOM_GCS_API_BASE_URL" default:"https://storage.googleapis.com"`
}

type MediaConfig struct {
	MaxUploadMB       int    `envconfig:"SHOWROOM_MAX_UPLOAD_MB" default:"10"`
	ProductFolder     string `envconfig:"SHOWROOM_MEDIA_PRODUCT_FOLDER" default:"products"`
	AvatarFolder      string `envconfig:"SHOWROOM_MEDIA_AVATAR_FOLDER" default:"avatars"`
	UploadConcurrency int    `envconfig:"SHOWROOM_MEDIA_UPLOAD_CONCURRENCY" default:"4"`
}

// MaxUploadBytes converts the MB limit to bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	if m.MaxUploadMB <= 0 {
		return 0
	}
	return int64(m.MaxUploadMB) << 20
}

type PubSubConfig struct {
	ImageCleanupTopic        string `envconfig:"SHOWROOM_PUBSUB_IMAGE_CLEANUP_TOPIC" default:"showroom-image-cleanup"`
	ImageCleanupSubscription string `envconfig:"SHOWROOM_PUBSUB_IMAGE_CLEANUP_SUBSCRIPTION" default:"showroom-image-cleanup-sub"`
}

type CatalogConfig struct {
	AdminEmail    string        `envconfig:"SHOWROOM_ADMIN_EMAIL" default:"admin@example.com"`
	CacheTTL      time.Duration `envconfig:"SHOWROOM_CATALOG_CACHE_TTL" default:"5m"`
	FeaturedLimit int           `envconfig:"SHOWROOM_CATALOG_FEATURED_LIMIT" default:"12"`
	PromoLimit    int           `envconfig:"SHOWROOM_CATALOG_PROMO_LIMIT" default:"10"`
	RelatedLimit  int           `envconfig:"SHOWROOM_CATALOG_RELATED_LIMIT" default:"4"`
}

type StorefrontConfig struct {
	BaseURL          string        `envconfig:"SHOWROOM_STOREFRONT_BASE_URL" default:"http://localhost:8080"`
	Timeout          time.Duration `envconfig:"SHOWROOM_STOREFRONT_TIMEOUT" default:"10s"`
	BreakerFailures  uint32        `envconfig:"SHOWROOM_STOREFRONT_BREAKER_FAILURES" default:"5"`
	BreakerOpenAfter time.Duration `envconfig:"SHOWROOM_STOREFRONT_BREAKER_TIMEOUT" default:"30s"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.EqualFold(db.Driver, DBDriverSQLite) {
		db.DSN = "file:showroom.db?cache=shared"
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
