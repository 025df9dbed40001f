package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types
    "time"     // time parses durations for the scheduler settings
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and costs.  Settings for the booking window, the message broker and the
// notification channels live here as well so that main() can wire every
// component from a single value.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    JWTSecret      string // secret used to sign JWTs
    AccessTTLMin   int    // access token time‑to‑live in minutes
    RefreshTTLDays int    // refresh token time‑to‑live in days
    BcryptCost     int    // bcrypt cost for password hashing

    // Booking window settings.  WindowDays controls how many days ahead
    // slots and availability rows are generated.  SlotIntervalMin is the
    // size of the time grid in minutes (30 = half-hour slots).
    WindowDays      int
    SlotIntervalMin int

    // Confirmation codes sent to anonymous guests expire after CodeTTL.
    CodeTTL time.Duration

    // Scheduler settings.  SchedulerInterval is how often the background
    // loop runs; ReminderBefore is how long before the stay a reminder
    // should be queued.
    SchedulerInterval time.Duration
    ReminderBefore    time.Duration

    // Notification channels.  Both are optional; when empty the
    // corresponding channel is disabled and events are only logged.
    MailerSendAPIKey string // MailerSend API key
    MailerFromName   string // sender display name for outgoing mail
    MailerFromEmail  string // sender address for outgoing mail
    TelegramToken    string // Telegram bot token
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Optional values
// fall back to sensible defaults.
func Load() Config {
    return Config{
        Env:            must("APP_ENV"),             // environment (dev/test/prod)
        Port:           must("APP_PORT"),            // port to bind the HTTP server
        DBUser:         must("DB_USER"),             // database user
        DBPass:         os.Getenv("DB_PASS"),        // database password (empty allowed)
        DBHost:         must("DB_HOST"),             // database host
        DBPort:         must("DB_PORT"),             // database port
        DBName:         must("DB_NAME"),             // database name
        JWTSecret:      must("JWT_SECRET"),          // secret used for signing JWTs
        AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),   // TTL for access tokens in minutes
        RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"), // TTL for refresh tokens in days
        BcryptCost:     mustInt("BCRYPT_COST"),      // bcrypt cost factor

        WindowDays:      intDefault("BOOKING_WINDOW_DAYS", 7),
        SlotIntervalMin: intDefault("SLOT_INTERVAL_MIN", 30),

        CodeTTL: durDefault("CONFIRMATION_CODE_TTL", 10*time.Minute),

        SchedulerInterval: durDefault("SCHEDULER_INTERVAL", 10*time.Minute),
        ReminderBefore:    durDefault("REMINDER_BEFORE", 2*time.Hour),

        MailerSendAPIKey: os.Getenv("MAILERSEND_API_KEY"),
        MailerFromName:   os.Getenv("MAILER_FROM_NAME"),
        MailerFromEmail:  os.Getenv("MAILER_FROM_EMAIL"),
        TelegramToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
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

// intDefault reads an optional integer variable, returning def when the
// variable is unset, malformed or non-positive.
func intDefault(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil || n <= 0 {
        return def
    }
    return n
}

// durDefault reads an optional duration variable ("10m", "2h"), returning
// def when the variable is unset, malformed or non-positive.
func durDefault(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    d, err := time.ParseDuration(v)
    if err != nil || d <= 0 {
        return def
    }
    return d
}
