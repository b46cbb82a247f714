package config // package config loads application configuration from environment variables

import (
    "errors"
    "fmt"
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/joho/godotenv"
)

// Config holds the runtime configuration of the pin API server.  Each field
// corresponds to an environment variable.
type Config struct {
    Env          string // application environment (e.g. "dev", "prod")
    Port         string // HTTP port to listen on
    DBUser       string // database username
    DBPass       string // database password (optional)
    DBHost       string // database host address
    DBPort       string // database port number
    DBName       string // database name
    JWTSecret    string // secret used to sign and verify access keys
    RabbitURL    string // broker URL; empty disables pin events
    EventLogPath string // file the event consumer appends to
    MapFile      string // optional YAML override for the map view
}

// LoadDotEnv loads a .env file from the working directory when one exists.
// Variables already present in the environment win.
func LoadDotEnv() error {
    err := godotenv.Load()
    if err != nil && errors.Is(err, os.ErrNotExist) {
        return nil
    }
    return err
}

// Load reads the server configuration.  Every missing required variable is
// reported in the returned error.
func Load() (Config, error) {
    var missing []error
    must := func(key string) string {
        v, ok := os.LookupEnv(key)
        if !ok || v == "" {
            missing = append(missing, fmt.Errorf("missing required env var: %s", key))
        }
        return v
    }
    cfg := Config{
        Env:          must("APP_ENV"),
        Port:         must("APP_PORT"),
        DBUser:       must("DB_USER"),
        DBPass:       os.Getenv("DB_PASS"),
        DBHost:       must("DB_HOST"),
        DBPort:       must("DB_PORT"),
        DBName:       must("DB_NAME"),
        JWTSecret:    must("JWT_SECRET"),
        RabbitURL:    rabbitURL(),
        EventLogPath: envStr("PIN_EVENT_LOG", "logs/pins.log"),
        MapFile:      os.Getenv("MAP_CONFIG_FILE"),
    }
    if len(missing) > 0 {
        return cfg, errors.Join(missing...)
    }
    if _, err := strconv.Atoi(cfg.Port); err != nil {
        return cfg, fmt.Errorf("invalid int for APP_PORT: %q", cfg.Port)
    }
    return cfg, nil
}

// rabbitURL honours both RABBITMQ_URL and the AMQP_URL alias.
func rabbitURL() string {
    if v := os.Getenv("RABBITMQ_URL"); v != "" {
        return v
    }
    return os.Getenv("AMQP_URL")
}

func envStr(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func envBool(key string, def bool) bool {
    switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
    case "1", "true", "yes", "on":
        return true
    case "0", "false", "no", "off":
        return false
    }
    return def
}

func envInt(key string, def int) int {
    if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
        return n
    }
    return def
}

func envDur(key string, def time.Duration) time.Duration {
    if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
        return d
    }
    return def
}
