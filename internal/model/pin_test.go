package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePinType(t *testing.T) {
	tests := []struct {
		in   string
		want PinType
		ok   bool
	}{
		{"park", TypePark, true},
		{"  Street ", TypeStreet, true},
		{"SKATING-NOW", TypeSkatingNow, true},
		{"skate_rn", PinType("skate_rn"), false},
		{"", PinType(""), false},
	}
	for _, tt := range tests {
		got, ok := ParsePinType(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestPinTypeLabelAndHue(t *testing.T) {
	assert.Equal(t, "Skate Park", TypePark.Label())
	assert.Equal(t, 240, TypePark.Hue())
	assert.Equal(t, "Skating Here RN", TypeSkatingNow.Label())
	assert.Equal(t, 100, TypeSkatingNow.Hue())

	unknown := PinType("bowl")
	assert.Equal(t, "Skate Spot", unknown.Label())
	assert.Equal(t, 0, unknown.Hue())
}

func TestPinTypesIsACopy(t *testing.T) {
	types := PinTypes()
	types[0].Label = "mutated"
	assert.Equal(t, "Skating Here RN", TypeSkatingNow.Label())
	assert.Len(t, PinTypes(), 3)
}

func TestDisplayTitle(t *testing.T) {
	assert.Equal(t, "Skate Park", Pin{Type: TypePark}.DisplayTitle())
	assert.Equal(t, "Skate Park", Pin{Type: TypePark, Title: "   "}.DisplayTitle())
	assert.Equal(t, "Dolores ledges", Pin{Type: TypeStreet, Title: "Dolores ledges"}.DisplayTitle())
}

func TestValidLatLng(t *testing.T) {
	assert.True(t, ValidLatLng(37.70, -122.40))
	assert.True(t, ValidLatLng(-90, 180))
	assert.False(t, ValidLatLng(91, 0))
	assert.False(t, ValidLatLng(0, -181))
	assert.False(t, ValidLatLng(math.NaN(), 0))
}
