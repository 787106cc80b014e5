package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses durations for the optional middleware settings
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and costs.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port to listen on
	DBUser        string // database username
	DBPass        string // database password (optional)
	DBHost        string // database host address
	DBPort        string // database port number
	DBName        string // database name
	JWTSecret     string // secret used to sign JWTs
	TokenTTLHours int    // session token time-to-live in hours
	BcryptCost    int    // bcrypt cost for password hashing
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Token lifetime and
// bcrypt cost fall back to sensible defaults when unset.
func Load() Config {
	return Config{
		Env:           must("APP_ENV"),                 // environment (dev/test/prod)
		Port:          must("APP_PORT"),                // port to bind the HTTP server
		DBUser:        must("DB_USER"),                 // database user
		DBPass:        os.Getenv("DB_PASS"),            // database password (empty allowed)
		DBHost:        must("DB_HOST"),                 // database host
		DBPort:        must("DB_PORT"),                 // database port
		DBName:        must("DB_NAME"),                 // database name
		JWTSecret:     must("JWT_SECRET"),              // secret used for signing JWTs
		TokenTTLHours: envInt("TOKEN_TTL_HOURS", 7*24), // session tokens live one week by default
		BcryptCost:    envInt("BCRYPT_COST", 10),       // bcrypt work factor
	}
}

// IsDev reports whether the application runs in a development environment.
// Internal error messages are only surfaced to clients in dev.
func (c Config) IsDev() bool { return c.Env == "dev" || c.Env == "development" }

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// The env helpers below are shared by the Redis, rate-limit and cache
// loaders in this package.  They fall back to a default instead of
// failing so optional infrastructure can stay optional.

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
