package model

import "strings"

// PinType is the category of a pin.  The set is closed; see PinTypes.
type PinType string

const (
    TypeSkatingNow PinType = "skating-now"
    TypePark       PinType = "park"
    TypeStreet     PinType = "street"
)

// fallbackLabel is shown for rows whose type is not in the catalog.
const fallbackLabel = "Skate Spot"

// PinTypeInfo describes how a pin type is presented on the map.
type PinTypeInfo struct {
    Type  PinType `json:"type"  yaml:"type"`
    Label string  `json:"label" yaml:"label"`
    Color string  `json:"color" yaml:"color"`
    Hue   int     `json:"hue"   yaml:"hue"`
}

// pinTypes is ordered as the type selector shows it.
var pinTypes = []PinTypeInfo{
    {Type: TypeSkatingNow, Label: "Skating Here RN", Color: "#00ff00", Hue: 100},
    {Type: TypePark, Label: "Skate Park", Color: "#0000ff", Hue: 240},
    {Type: TypeStreet, Label: "Street Spot", Color: "#ff0000", Hue: 0},
}

// PinTypes returns the catalog in selector order.  The slice is a copy.
func PinTypes() []PinTypeInfo {
    out := make([]PinTypeInfo, len(pinTypes))
    copy(out, pinTypes)
    return out
}

// Info looks up the catalog entry for t.
func (t PinType) Info() (PinTypeInfo, bool) {
    for _, info := range pinTypes {
        if info.Type == t {
            return info, true
        }
    }
    return PinTypeInfo{}, false
}

// Valid reports whether t belongs to the catalog.
func (t PinType) Valid() bool {
    _, ok := t.Info()
    return ok
}

// Label is the display label of t, or "Skate Spot" for unknown types.
func (t PinType) Label() string {
    if info, ok := t.Info(); ok {
        return info.Label
    }
    return fallbackLabel
}

// Hue is the rotation applied to the marker icon.  Unknown types get 0.
func (t PinType) Hue() int {
    if info, ok := t.Info(); ok {
        return info.Hue
    }
    return 0
}

// ParsePinType normalizes s and checks it against the catalog.
func ParsePinType(s string) (PinType, bool) {
    t := PinType(strings.ToLower(strings.TrimSpace(s)))
    return t, t.Valid()
}

// Pin is a user-placed point of interest.  This is the persisted shape; the
// on-screen marker is tracked separately by whoever renders the pin.
//
// Fields:
//  ID          – assigned by the store on insert, empty while transient.
//  Lat, Lng    – coordinates, fixed at creation.
//  Type        – catalog category.
//  Title       – optional label; DisplayTitle falls back to the type label.
//  Description – optional note.
//  CreatedAt   – store timestamp, informational only.
type Pin struct {
    ID          string  `json:"id,omitempty"`
    Lat         float64 `json:"lat"`
    Lng         float64 `json:"lng"`
    Type        PinType `json:"type"`
    Title       string  `json:"title,omitempty"`
    Description string  `json:"description,omitempty"`
    CreatedAt   string  `json:"created_at,omitempty"`
}

// Persisted reports whether the store has assigned an id.
func (p Pin) Persisted() bool { return p.ID != "" }

// DisplayTitle is the title shown in popups.
func (p Pin) DisplayTitle() string {
    if t := strings.TrimSpace(p.Title); t != "" {
        return t
    }
    return p.Type.Label()
}

// ValidLatLng reports whether lat/lng are finite WGS84 coordinates.
func ValidLatLng(lat, lng float64) bool {
    return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
