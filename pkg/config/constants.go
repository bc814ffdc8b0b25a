package config

// EnvPrefix is passed to envconfig; individual fields carry fully-qualified
// names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "CAMPUSEATS_DB_DSN"
	EnvDBHost = "CAMPUSEATS_DB_HOST"
	EnvDBUser = "CAMPUSEATS_DB_USER"
	EnvDBName = "CAMPUSEATS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
