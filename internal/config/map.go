package config

// Map view settings shared by the API (GET /v1/map) and the board.  Defaults
// reproduce the original page; MAP_CONFIG_FILE may point at a YAML file that
// overrides any subset of fields.

import (
    "fmt"
    "os"

    "gopkg.in/yaml.v3"

    "github.com/iliyamo/skate-pins/internal/model"
)

// MapConfig holds everything needed to initialise a map view.
type MapConfig struct {
    Center      model.LatLng    `json:"center"       yaml:"center"`
    Zoom        int             `json:"zoom"         yaml:"zoom"`
    Tiles       model.TileLayer `json:"tiles"        yaml:"tiles"`
    ZoomControl string          `json:"zoom_control" yaml:"zoom_control"`
    Marker      model.Icon      `json:"marker"       yaml:"marker"`
}

// DefaultMapConfig returns the San Francisco view on the CARTO dark basemap.
func DefaultMapConfig() MapConfig {
    return MapConfig{
        Center: model.LatLng{Lat: 37.7749, Lng: -122.4194},
        Zoom:   13,
        Tiles: model.TileLayer{
            URL:         "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png",
            Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors &copy; <a href="https://carto.com/attributions">CARTO</a>`,
            Subdomains:  "abcd",
            MaxZoom:     20,
        },
        ZoomControl: "bottomright",
        Marker: model.Icon{
            URL:         "https://raw.githubusercontent.com/pointhi/leaflet-color-markers/master/img/marker-icon-2x-red.png",
            ShadowURL:   "https://cdnjs.cloudflare.com/ajax/libs/leaflet/0.7.7/images/marker-shadow.png",
            Size:        [2]int{25, 41},
            Anchor:      [2]int{12, 41},
            PopupAnchor: [2]int{1, -34},
            ShadowSize:  [2]int{41, 41},
        },
    }
}

var zoomControlPositions = map[string]bool{
    "topleft": true, "topright": true, "bottomleft": true, "bottomright": true,
}

// LoadMapConfig reads path on top of the defaults.  An empty path yields the
// defaults unchanged.
func LoadMapConfig(path string) (MapConfig, error) {
    cfg := DefaultMapConfig()
    if path == "" {
        return cfg, nil
    }
    raw, err := os.ReadFile(path)
    if err != nil {
        return cfg, fmt.Errorf("read map config: %w", err)
    }
    if err := yaml.Unmarshal(raw, &cfg); err != nil {
        return cfg, fmt.Errorf("parse map config %s: %w", path, err)
    }
    if err := cfg.Validate(); err != nil {
        return cfg, fmt.Errorf("map config %s: %w", path, err)
    }
    return cfg, nil
}

// Validate checks ranges the renderer cannot recover from.
func (m MapConfig) Validate() error {
    if !model.ValidLatLng(m.Center.Lat, m.Center.Lng) {
        return fmt.Errorf("center %s out of range", m.Center)
    }
    if m.Tiles.MaxZoom < 0 || m.Zoom < 0 || m.Zoom > m.Tiles.MaxZoom {
        return fmt.Errorf("zoom %d outside 0..%d", m.Zoom, m.Tiles.MaxZoom)
    }
    if m.Tiles.URL == "" {
        return fmt.Errorf("tile url is required")
    }
    if !zoomControlPositions[m.ZoomControl] {
        return fmt.Errorf("unknown zoom control position %q", m.ZoomControl)
    }
    return nil
}
