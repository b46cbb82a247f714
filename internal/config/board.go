package config

import (
    "strings"
    "time"
)

// Placeholder values shipped in example .env files.  A store configured with
// either of them is treated as not configured.
const (
    PlaceholderStoreURL = "YOUR_PINS_API_URL"
    PlaceholderStoreKey = "YOUR_PINS_API_KEY"
)

// BoardConfig configures the interactive pin board client.
type BoardConfig struct {
    StoreURL     string        // PINS_API_URL, base URL of the pin API
    StoreKey     string        // PINS_API_KEY, access key sent as the apikey header
    StoreTimeout time.Duration // PINS_API_TIMEOUT, per-request timeout
    Placement    string        // PIN_PLACEMENT: deferred | immediate
    ClickMode    string        // PIN_CLICK_MODE: direct | toggle
    DefaultType  string        // PIN_DEFAULT_TYPE, type used when none is chosen
    MapFile      string        // MAP_CONFIG_FILE
}

// LoadBoardConfig reads the board settings.  It never fails: a missing store
// puts the board in local-only mode.
func LoadBoardConfig() BoardConfig {
    return BoardConfig{
        StoreURL:     strings.TrimSpace(envStr("PINS_API_URL", "")),
        StoreKey:     strings.TrimSpace(envStr("PINS_API_KEY", "")),
        StoreTimeout: envDur("PINS_API_TIMEOUT", 10*time.Second),
        Placement:    strings.ToLower(envStr("PIN_PLACEMENT", "deferred")),
        ClickMode:    strings.ToLower(envStr("PIN_CLICK_MODE", "direct")),
        DefaultType:  envStr("PIN_DEFAULT_TYPE", "skating-now"),
        MapFile:      envStr("MAP_CONFIG_FILE", ""),
    }
}

// StoreConfigured reports whether both connection values are present and
// are not the example placeholders.
func (c BoardConfig) StoreConfigured() bool {
    if c.StoreURL == "" || c.StoreKey == "" {
        return false
    }
    return c.StoreURL != PlaceholderStoreURL && c.StoreKey != PlaceholderStoreKey
}
