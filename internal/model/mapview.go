package model

import "fmt"

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
    Lat float64 `json:"lat" yaml:"lat"`
    Lng float64 `json:"lng" yaml:"lng"`
}

func (ll LatLng) String() string { return fmt.Sprintf("(%.5f, %.5f)", ll.Lat, ll.Lng) }

// TileLayer is the base layer of the map view.  URL is a template with
// {s}, {z}, {x}, {y} and {r} placeholders.
type TileLayer struct {
    URL         string `json:"url"         yaml:"url"`
    Attribution string `json:"attribution" yaml:"attribution"`
    Subdomains  string `json:"subdomains"  yaml:"subdomains"`
    MaxZoom     int    `json:"max_zoom"    yaml:"max_zoom"`
}

// Icon is the marker image description handed to the map renderer.
type Icon struct {
    URL         string `json:"icon_url"     yaml:"icon_url"`
    ShadowURL   string `json:"shadow_url"   yaml:"shadow_url"`
    Size        [2]int `json:"icon_size"    yaml:"icon_size"`
    Anchor      [2]int `json:"icon_anchor"  yaml:"icon_anchor"`
    PopupAnchor [2]int `json:"popup_anchor" yaml:"popup_anchor"`
    ShadowSize  [2]int `json:"shadow_size"  yaml:"shadow_size"`
    ClassName   string `json:"class_name,omitempty" yaml:"-"`
    Hue         int    `json:"hue" yaml:"-"`
}

// Tinted returns a copy of the icon rotated to the hue of t.
func (i Icon) Tinted(t PinType) Icon {
    i.Hue = t.Hue()
    i.ClassName = fmt.Sprintf("hue-rotate-%d", i.Hue)
    return i
}
