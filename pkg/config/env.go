package config

// EnvPrefix is passed to envconfig; every field names its full variable explicitly.
const EnvPrefix = "SHOWROOM"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv       = "SHOWROOM_APP_ENV"
	EnvPort         = "SHOWROOM_APP_PORT"
	EnvDBDSN        = "SHOWROOM_DB_DSN"
	EnvDBDriver     = "SHOWROOM_DB_DRIVER"
	EnvDBHost       = "SHOWROOM_DB_HOST"
	EnvDBUser       = "SHOWROOM_DB_USER"
	EnvDBName       = "SHOWROOM_DB_NAME"
	EnvRedisURL     = "SHOWROOM_REDIS_URL"
	EnvJWTSecret    = "SHOWROOM_JWT_SECRET"
	EnvSessionTTL   = "SHOWROOM_SESSION_TTL"
	EnvGCPProjectID = "SHOWROOM_GCP_PROJECT_ID"
	EnvGCSBucket    = "SHOWROOM_GCS_BUCKET_NAME"
	EnvAdminEmail   = "SHOWROOM_ADMIN_EMAIL"
	EnvCleanupTopic = "SHOWROOM_PUBSUB_IMAGE_CLEANUP_TOPIC"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
