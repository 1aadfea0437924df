// Package config exposes the process configuration for the jokes app.
// All settings come from the environment (a local .env file is honored);
// the required ones are validated once at startup.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

type Mode string

const (
	Production  Mode = "production"
	Development Mode = "development"
)

func init() {
	// Missing .env is fine, the environment may be set by the host.
	_ = godotenv.Load()
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetMode() Mode {
	return Mode(os.Getenv("JOKES_MODE"))
}

func IsProduction() bool {
	return GetMode() == Production
}

func IsDebug() bool {
	return os.Getenv("JOKES_DEBUG") == "true"
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("JOKES_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

// GetDatabaseURL returns the sqlite DSN the connection pool opens.
func GetDatabaseURL() string {
	return os.Getenv("JOKES_DATABASE_URL")
}

// GetSessionSecret returns the key the session cookies are signed with.
func GetSessionSecret() string {
	return os.Getenv("JOKES_SESSION_SECRET")
}

func GetListen() string {
	return os.Getenv("JOKES_LISTEN")
}

func GetPort() int {
	port := os.Getenv("JOKES_PORT")
	if port == "" {
		return 3000
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return 3000
	}
	return n
}

// GetWebDomain returns the optional host the server is restricted to.
func GetWebDomain() string {
	return os.Getenv("JOKES_DOMAIN")
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("JOKES_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

// Check validates the required environment up front so the process fails
// fast instead of limping along until the first request.
func Check() error {
	var missing []string
	if GetDatabaseURL() == "" {
		missing = append(missing, "JOKES_DATABASE_URL")
	}
	if GetSessionSecret() == "" {
		missing = append(missing, "JOKES_SESSION_SECRET")
	}
	if GetMode() == "" {
		missing = append(missing, "JOKES_MODE")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment: %s", strings.Join(missing, ", "))
	}
	if m := GetMode(); m != Production && m != Development {
		return fmt.Errorf("JOKES_MODE must be %q or %q, got %q", Production, Development, m)
	}
	return nil
}
