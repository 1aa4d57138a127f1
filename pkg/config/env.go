package config

const EnvPrefix = "BACKOFFICE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "BACKOFFICE_APP_ENV"
	EnvPort     = "BACKOFFICE_APP_PORT"
	EnvLogLevel = "BACKOFFICE_LOG_LEVEL"

	EnvDBDSN  = "BACKOFFICE_DB_DSN"
	EnvDBHost = "BACKOFFICE_DB_HOST"
	EnvDBUser = "BACKOFFICE_DB_USER"
	EnvDBName = "BACKOFFICE_DB_NAME"

	EnvRedisURL = "BACKOFFICE_REDIS_URL"

	EnvImportWorkers          = "BACKOFFICE_IMPORT_WORKERS"
	EnvImportMaxConcurrent    = "BACKOFFICE_IMPORT_MAX_CONCURRENT"
	EnvImportMaxUploadMB      = "BACKOFFICE_IMPORT_MAX_UPLOAD_MB"
	EnvImportCreateReferences = "BACKOFFICE_IMPORT_CREATE_REFERENCES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
