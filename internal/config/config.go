package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses duration values
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, durations for
// lifetimes, ints for costs.
type Config struct {
	Env         string        // application environment (e.g. "dev", "prod")
	Port        string        // HTTP port to listen on
	DBUser      string        // database username
	DBPass      string        // database password (optional)
	DBHost      string        // database host address
	DBPort      string        // database port number
	DBName      string        // database name
	JWTSecret   string        // secret used to sign JWTs; length is enforced by the token issuer
	JWTLifetime time.Duration // bearer token time-to-live
	BcryptCost  int           // bcrypt cost for password hashing
	SMTPHost    string        // SMTP relay host for reset-code mail
	SMTPPort    string        // SMTP relay port
	SMTPUser    string        // SMTP auth username; also the From address
	SMTPPass    string        // SMTP auth password (empty disables auth)
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The JWT secret's
// minimum length is deliberately not checked here: the token issuer
// re-validates it on every signing-key derivation and surfaces a
// configuration error instead.
func Load() Config {
	return Config{
		Env:         must("APP_ENV"),            // environment (dev/test/prod)
		Port:        must("APP_PORT"),           // port to bind the HTTP server
		DBUser:      must("DB_USER"),            // database user
		DBPass:      os.Getenv("DB_PASS"),       // database password (empty allowed)
		DBHost:      must("DB_HOST"),            // database host
		DBPort:      must("DB_PORT"),            // database port
		DBName:      must("DB_NAME"),            // database name
		JWTSecret:   must("JWT_SECRET"),         // secret used for signing JWTs
		JWTLifetime: mustDur("JWT_LIFETIME"),    // bearer token TTL, e.g. "60m"
		BcryptCost:  mustInt("BCRYPT_COST"),     // bcrypt cost factor
		SMTPHost:    os.Getenv("SMTP_HOST"),     // SMTP host (empty logs mail instead of sending)
		SMTPPort:    getenv("SMTP_PORT", "587"), // SMTP port
		SMTPUser:    os.Getenv("SMTP_USER"),     // SMTP username / From address
		SMTPPass:    os.Getenv("SMTP_PASS"),     // SMTP password
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// mustDur is like must() but parses the value as a time.Duration
// (e.g. "5m", "1h30m").
func mustDur(key string) time.Duration {
	s := must(key)
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Fatalf("invalid duration for %s: %q", key, s)
	}
	return d
}

// getenv returns the variable's value or def when unset/empty.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
