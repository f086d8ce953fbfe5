package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	portEnvVar = "PORT"
	appNameVar = "APP_NAME"
	dsnEnvVar  = "DATABASE_DSN"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Session Auth")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetDatabaseDSN returns the PostgreSQL DSN. Empty means the server runs on
// the in-memory stores.
func (EnvVars) GetDatabaseDSN() string {
	return GetEnv(dsnEnvVar, "")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
