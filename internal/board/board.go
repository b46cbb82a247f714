// Package board implements the pin board controller: it owns the map view
// lifecycle, the in-memory list of displayed pins and the flows that create,
// hydrate and delete them against an optional record store.
//
// The controller never renders anything itself.  It drives a MapView (the
// map renderer), a Store (the pins table) and a Prompter (confirm/alert
// dialogs), all supplied by the front end.
package board

import (
	"context"

	"github.com/iliyamo/skate-pins/internal/model"
)

// MarkerID is the handle a MapView returns for a placed marker.
type MarkerID int

// MapView is the map renderer.  Implementations must not call back into the
// controller synchronously from these methods.
type MapView interface {
	SetView(center model.LatLng, zoom int)
	AddTileLayer(layer model.TileLayer)
	AddZoomControl(position string)
	PlaceMarker(at model.LatLng, icon model.Icon) MarkerID
	SetIcon(m MarkerID, icon model.Icon)
	BindPopup(m MarkerID, content Popup)
	OpenPopup(m MarkerID)
	RemoveMarker(m MarkerID)
	OnClick(fn func(at model.LatLng))
}

// Store is the pins table.  Create fills in the stored row, including the
// id assigned by the store.
type Store interface {
	ListAll(ctx context.Context) ([]*model.Pin, error)
	Create(ctx context.Context, p *model.Pin) error
	DeleteByID(ctx context.Context, id string) error
}

// Prompter shows blocking dialogs to the user.
type Prompter interface {
	Confirm(message string) bool
	Alert(message string)
}

// Popup is the content bound to a marker: either a FormPopup for a transient
// pin or a DisplayPopup for a placed one.
type Popup interface {
	popup()
}

// FormPopup is the inline editor of a transient pin.  Save and cancel are
// reported back through Controller.Resolve with Key.
type FormPopup struct {
	Key  string
	Form *Form
}

// DisplayPopup shows a placed pin.  Its delete action calls
// Controller.Delete with Key; PinID is the store id the delete will use and
// is empty for pins that were never persisted.
type DisplayPopup struct {
	Key         string
	PinID       string
	Type        model.PinType
	Title       string
	Description string
}

func (FormPopup) popup()    {}
func (DisplayPopup) popup() {}

func displayPopup(key string, p model.Pin) DisplayPopup {
	return DisplayPopup{
		Key:         key,
		PinID:       p.ID,
		Type:        p.Type,
		Title:       p.DisplayTitle(),
		Description: p.Description,
	}
}
