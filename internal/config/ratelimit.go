package config

import (
    "errors"
    "fmt"
    "net/http"
    "strings"
    "time"
)

// Key strategies for the rate limit bucket key.
const (
    RateKeyIP          = "ip"
    RateKeyRoute       = "route"
    RateKeyIPRoute     = "ip_route"
    RateKeyIPRole      = "ip_role"
    RateKeyIPRoleRoute = "ip_role_route"
)

var rateKeyStrategies = map[string]bool{
    RateKeyIP: true, RateKeyRoute: true, RateKeyIPRoute: true, RateKeyIPRole: true, RateKeyIPRoleRoute: true,
}

// RateLimitConfig drives the redis token buckets in front of /v1/pins.
// Listing and changing pins are counted in separate buckets.
type RateLimitConfig struct {
    Enabled        bool
    ReadCapacity   int // RATE_LIMIT_CAPACITY
    WriteCapacity  int // RATE_LIMIT_WRITE_CAPACITY
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string
    Prefix         string
    Debug          bool
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables.  The bucket TTL is
// raised to at least five refill intervals.
func LoadRateLimitConfig() (RateLimitConfig, error) {
    cfg := RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        ReadCapacity:   envInt("RATE_LIMIT_CAPACITY", 60),
        WriteCapacity:  envInt("RATE_LIMIT_WRITE_CAPACITY", 20),
        RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
        TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
        KeyStrategy:    strings.ToLower(envStr("RATE_LIMIT_KEY_STRATEGY", RateKeyIPRoleRoute)),
        Prefix:         envStr("RATE_LIMIT_PREFIX", "pins:rl"),
        Debug:          envBool("RATE_LIMIT_DEBUG", false),
    }
    if err := cfg.Validate(); err != nil {
        return cfg, err
    }
    if floor := 5 * cfg.RefillInterval; cfg.TTL < floor {
        cfg.TTL = floor
    }
    return cfg, nil
}

// Validate reports every setting the bucket script cannot run with.  A
// disabled limiter is always valid.
func (c RateLimitConfig) Validate() error {
    if !c.Enabled {
        return nil
    }
    var errs []error
    if c.ReadCapacity < 1 {
        errs = append(errs, fmt.Errorf("RATE_LIMIT_CAPACITY must be at least 1, got %d", c.ReadCapacity))
    }
    if c.WriteCapacity < 1 {
        errs = append(errs, fmt.Errorf("RATE_LIMIT_WRITE_CAPACITY must be at least 1, got %d", c.WriteCapacity))
    }
    if c.RefillTokens < 1 {
        errs = append(errs, fmt.Errorf("RATE_LIMIT_REFILL_TOKENS must be at least 1, got %d", c.RefillTokens))
    }
    if c.RefillInterval <= 0 {
        errs = append(errs, fmt.Errorf("RATE_LIMIT_REFILL_INTERVAL must be positive, got %s", c.RefillInterval))
    }
    if !rateKeyStrategies[c.KeyStrategy] {
        errs = append(errs, fmt.Errorf("unknown RATE_LIMIT_KEY_STRATEGY %q", c.KeyStrategy))
    }
    return errors.Join(errs...)
}

// Bucket names the bucket a request method draws from and its capacity.
func (c RateLimitConfig) Bucket(method string) (string, int) {
    switch method {
    case http.MethodGet, http.MethodHead, http.MethodOptions:
        return "read", c.ReadCapacity
    }
    return "write", c.WriteCapacity
}
