package config // package config loads application configuration from environment variables

import (
    "log"     // log reports configuration errors and halts execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  Database and JWT
// settings are mandatory; the environment name and port fall back
// to development defaults so a bare `go run` works against a local
// stack.
type Config struct {
    Env            string // application environment ("dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    JWTSecret      string // secret used to sign JWTs
    AccessTTLMin   int    // access token time-to-live in minutes
    RefreshTTLDays int    // refresh token time-to-live in days
    BcryptCost     int    // bcrypt cost for password hashing
}

// Load reads configuration from environment variables.  Missing
// required variables abort startup with a fatal log message.
func Load() Config {
    return Config{
        Env:            getenv("APP_ENV", "dev"),
        Port:           getenv("APP_PORT", "8080"),
        DBUser:         must("DB_USER"),
        DBPass:         os.Getenv("DB_PASS"), // empty allowed
        DBHost:         must("DB_HOST"),
        DBPort:         must("DB_PORT"),
        DBName:         must("DB_NAME"),
        JWTSecret:      must("JWT_SECRET"),
        AccessTTLMin:   intOr("ACCESS_TOKEN_TTL_MIN", 15),
        RefreshTTLDays: intOr("REFRESH_TOKEN_TTL_DAYS", 30),
        BcryptCost:     intOr("BCRYPT_COST", 12),
    }
}

// must retrieves a required environment variable or exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// intOr parses an integer environment variable, falling back to a
// default when unset.  A set-but-unparsable value is fatal rather
// than silently defaulted.
func intOr(key string, def int) int {
    s, ok := os.LookupEnv(key)
    if !ok || s == "" {
        return def
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
