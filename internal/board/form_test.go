package board

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/skate-pins/internal/model"
)

func TestFormAutoFillFollowsType(t *testing.T) {
	f := NewForm(model.TypeSkatingNow)
	assert.Equal(t, "Skating Here RN", f.Title())

	f.SelectType(model.TypePark)
	assert.Equal(t, "Skate Park", f.Title())
	f.SelectType(model.TypeStreet)
	assert.Equal(t, "Street Spot", f.Title())
	assert.False(t, f.TitleEdited())
}

func TestFormKeepsEditedTitle(t *testing.T) {
	f := NewForm(model.TypeSkatingNow)
	f.SetTitle("Dolores ledges")
	f.SelectType(model.TypePark)

	assert.Equal(t, "Dolores ledges", f.Title())
	assert.Equal(t, model.TypePark, f.Type())
	assert.True(t, f.TitleEdited())
}

func TestFormEditBackToAutoFillResumesTracking(t *testing.T) {
	f := NewForm(model.TypePark)
	f.SetTitle("x")
	f.SetTitle("Skate Park")
	f.SelectType(model.TypeStreet)
	assert.Equal(t, "Street Spot", f.Title())
}

func TestFormSubmitTrims(t *testing.T) {
	f := NewForm(model.TypeStreet)
	f.SetTitle("  Hubba  ")
	f.SetDescription("\tstairs ")

	assert.Equal(t, Submitted{Type: model.TypeStreet, Title: "Hubba", Description: "stairs"}, f.Submit())
	assert.Equal(t, Cancelled{}, f.Cancel())
}
