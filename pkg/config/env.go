package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "PUNTOSHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "PUNTOSHOP_APP_ENV"
	EnvPort       = "PUNTOSHOP_APP_PORT"
	EnvDBDSN      = "PUNTOSHOP_DB_DSN"
	EnvDBHost     = "PUNTOSHOP_DB_HOST"
	EnvDBUser     = "PUNTOSHOP_DB_USER"
	EnvDBName     = "PUNTOSHOP_DB_NAME"
	EnvRedisURL   = "PUNTOSHOP_REDIS_URL"
	EnvJWTSecret  = "PUNTOSHOP_JWT_SECRET"
	EnvJWTIssuer  = "PUNTOSHOP_JWT_ISSUER"
	EnvJWTExpMins = "PUNTOSHOP_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
