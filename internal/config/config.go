package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Everything is read once at process start and the
// struct is treated as immutable afterwards; components receive it by value
// through their constructors, so there is no package-level mutable state.
type Config struct {
    Env             string // application environment (e.g. "dev", "prod")
    Port            string // HTTP port to listen on
    DBUser          string // database username
    DBPass          string // database password (optional)
    DBHost          string // database host address
    DBPort          string // database port number
    DBName          string // database name
    JWTSecret       string // secret used to sign JWTs
    SessionTTLHours int    // session token time-to-live in hours
    BcryptCost      int    // bcrypt cost for password hashing
    MailHost        string // SMTP host for verification mail
    MailPort        int    // SMTP port
    MailUser        string // SMTP username
    MailPass        string // SMTP password
    MailFrom        string // From address on verification mail
    GoogleClientID  string // Google OAuth client id
    GoogleSecret    string // Google OAuth client secret
    FacebookClientID string // Facebook OAuth client id
    FacebookSecret  string // Facebook OAuth client secret
    FrontendURL     string // front-end base URL (CORS origin + auth-success redirect)
    BackendURL      string // public base URL of this service (verification links, OAuth callbacks)
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Mail and OAuth
// credentials are required because signup and the federated flows cannot
// function without them.
func Load() Config {
    return Config{
        Env:             must("APP_ENV"),              // environment (dev/test/prod)
        Port:            must("APP_PORT"),             // port to bind the HTTP server
        DBUser:          must("DB_USER"),              // database user
        DBPass:          os.Getenv("DB_PASS"),         // database password (empty allowed)
        DBHost:          must("DB_HOST"),              // database host
        DBPort:          must("DB_PORT"),              // database port
        DBName:          must("DB_NAME"),              // database name
        JWTSecret:       must("JWT_SECRET"),           // secret used for signing JWTs
        SessionTTLHours: mustInt("SESSION_TOKEN_TTL_HOURS"), // TTL for session tokens in hours
        BcryptCost:      mustInt("BCRYPT_COST"),       // bcrypt cost factor
        MailHost:        must("MAIL_HOST"),            // SMTP server host
        MailPort:        mustInt("MAIL_PORT"),         // SMTP server port
        MailUser:        must("MAIL_USER"),            // SMTP auth user
        MailPass:        must("MAIL_PASSWORD"),        // SMTP auth password
        MailFrom:        must("MAIL_FROM"),            // sender address for verification mail
        GoogleClientID:  must("GOOGLE_CLIENT_ID"),     // Google OAuth credentials
        GoogleSecret:    must("GOOGLE_CLIENT_SECRET"),
        FacebookClientID: must("FB_CLIENT_ID"),        // Facebook OAuth credentials
        FacebookSecret:  must("FB_CLIENT_SECRET"),
        FrontendURL:     must("FE_URL"),               // front-end origin, e.g. http://localhost:3000
        BackendURL:      must("BE_URL"),               // this service's public base URL
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
