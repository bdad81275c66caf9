package config

import "time"

type Config interface {
	GetString(key string) string
	GetDuration(key string, def time.Duration) time.Duration
	GetInt(key string, def int) int
	GetBool(key string, def bool) bool
}

// AppEnv is the deployment mode of the running process. It selects which
// environment of the plan-configuration document is read and which Square
// endpoint (sandbox or production) the API client talks to.
type AppEnv string

const (
	AppEnvDevelopment AppEnv = "development"
	AppEnvProduction  AppEnv = "production"
)

// GetAppEnv resolves the deployment mode from GO_ENV. Everything that isn't
// production counts as development: test and staging setups must never touch
// production catalog identifiers.
func GetAppEnv(cfg Config) AppEnv {
	if cfg.GetString("GO_ENV") == string(AppEnvProduction) {
		return AppEnvProduction
	}

	return AppEnvDevelopment
}
