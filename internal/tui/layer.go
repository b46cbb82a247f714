package tui

import (
	"sync"

	"github.com/iliyamo/skate-pins/internal/board"
	"github.com/iliyamo/skate-pins/internal/model"
)

type marker struct {
	at    model.LatLng
	icon  model.Icon
	popup board.Popup
	live  bool
}

// MarkerState is one live marker as seen by the renderer.
type MarkerState struct {
	ID    board.MarkerID
	At    model.LatLng
	Icon  model.Icon
	Popup board.Popup
}

// Snapshot is a consistent copy of the layer for one frame.
type Snapshot struct {
	Center      model.LatLng
	Zoom        int
	Tiles       model.TileLayer
	ZoomControl string
	Markers     []MarkerState
	Open        board.MarkerID
	HasOpen     bool
}

// Layer is the terminal map.  It implements board.MapView; the model reads
// it through Snapshot.  Marker ids are indexes and are never reused.
type Layer struct {
	mu          sync.Mutex
	center      model.LatLng
	zoom        int
	tiles       model.TileLayer
	zoomControl string
	markers     []marker
	open        board.MarkerID
	hasOpen     bool
	onClick     func(model.LatLng)
	notify      func()
}

func NewLayer() *Layer { return &Layer{} }

// SetNotify registers fn to run after every change.  fn must not block.
func (l *Layer) SetNotify(fn func()) {
	l.mu.Lock()
	l.notify = fn
	l.mu.Unlock()
}

func (l *Layer) changed() {
	l.mu.Lock()
	fn := l.notify
	l.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (l *Layer) SetView(center model.LatLng, zoom int) {
	l.mu.Lock()
	l.center, l.zoom = center, zoom
	l.mu.Unlock()
	l.changed()
}

func (l *Layer) AddTileLayer(layer model.TileLayer) {
	l.mu.Lock()
	l.tiles = layer
	l.mu.Unlock()
	l.changed()
}

func (l *Layer) AddZoomControl(position string) {
	l.mu.Lock()
	l.zoomControl = position
	l.mu.Unlock()
	l.changed()
}

func (l *Layer) PlaceMarker(at model.LatLng, icon model.Icon) board.MarkerID {
	l.mu.Lock()
	l.markers = append(l.markers, marker{at: at, icon: icon, live: true})
	id := board.MarkerID(len(l.markers) - 1)
	l.mu.Unlock()
	l.changed()
	return id
}

func (l *Layer) SetIcon(m board.MarkerID, icon model.Icon) {
	l.update(m, func(mk *marker) { mk.icon = icon })
}

func (l *Layer) BindPopup(m board.MarkerID, content board.Popup) {
	l.update(m, func(mk *marker) { mk.popup = content })
}

// OpenPopup shows the popup bound to m, closing any other.
func (l *Layer) OpenPopup(m board.MarkerID) {
	l.mu.Lock()
	if l.valid(m) {
		l.open, l.hasOpen = m, true
	}
	l.mu.Unlock()
	l.changed()
}

// ClosePopup hides the open popup, if any.
func (l *Layer) ClosePopup() {
	l.mu.Lock()
	l.hasOpen = false
	l.mu.Unlock()
	l.changed()
}

func (l *Layer) RemoveMarker(m board.MarkerID) {
	l.mu.Lock()
	if l.valid(m) {
		l.markers[m] = marker{}
		if l.hasOpen && l.open == m {
			l.hasOpen = false
		}
	}
	l.mu.Unlock()
	l.changed()
}

func (l *Layer) OnClick(fn func(at model.LatLng)) {
	l.mu.Lock()
	l.onClick = fn
	l.mu.Unlock()
}

// Click delivers a map click to the registered listener.  It reports false
// when nobody listens.
func (l *Layer) Click(at model.LatLng) bool {
	l.mu.Lock()
	fn := l.onClick
	l.mu.Unlock()
	if fn == nil {
		return false
	}
	fn(at)
	return true
}

// Snapshot copies the current state.
func (l *Layer) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := Snapshot{
		Center:      l.center,
		Zoom:        l.zoom,
		Tiles:       l.tiles,
		ZoomControl: l.zoomControl,
		Open:        l.open,
		HasOpen:     l.hasOpen,
	}
	for i, mk := range l.markers {
		if mk.live {
			s.Markers = append(s.Markers, MarkerState{ID: board.MarkerID(i), At: mk.at, Icon: mk.icon, Popup: mk.popup})
		}
	}
	return s
}

// OpenPopupContent returns the content of the open popup.
func (l *Layer) OpenPopupContent() (board.Popup, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.hasOpen || !l.valid(l.open) {
		return nil, false
	}
	return l.markers[l.open].popup, true
}

func (l *Layer) update(m board.MarkerID, fn func(*marker)) {
	l.mu.Lock()
	if l.valid(m) {
		fn(&l.markers[m])
	}
	l.mu.Unlock()
	l.changed()
}

// valid requires l.mu.
func (l *Layer) valid(m board.MarkerID) bool {
	return m >= 0 && int(m) < len(l.markers) && l.markers[m].live
}
