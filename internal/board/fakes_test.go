package board

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/iliyamo/skate-pins/internal/model"
)

type fakeMarker struct {
	At     model.LatLng
	Icon   model.Icon
	Popup  Popup
	Open   bool
	Active bool
}

type fakeView struct {
	mu          sync.Mutex
	center      model.LatLng
	zoom        int
	tiles       model.TileLayer
	zoomControl string
	onClick     func(model.LatLng)
	markers     []*fakeMarker
}

func (v *fakeView) SetView(center model.LatLng, zoom int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.center, v.zoom = center, zoom
}

func (v *fakeView) AddTileLayer(layer model.TileLayer) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tiles = layer
}

func (v *fakeView) AddZoomControl(position string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.zoomControl = position
}

func (v *fakeView) PlaceMarker(at model.LatLng, icon model.Icon) MarkerID {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.markers = append(v.markers, &fakeMarker{At: at, Icon: icon, Active: true})
	return MarkerID(len(v.markers) - 1)
}

func (v *fakeView) SetIcon(m MarkerID, icon model.Icon) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.markers[m].Icon = icon
}

func (v *fakeView) BindPopup(m MarkerID, content Popup) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.markers[m].Popup = content
}

func (v *fakeView) OpenPopup(m MarkerID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.markers[m].Open = true
}

func (v *fakeView) RemoveMarker(m MarkerID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.markers[m].Active = false
}

func (v *fakeView) OnClick(fn func(model.LatLng)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onClick = fn
}

func (v *fakeView) click(at model.LatLng) {
	v.mu.Lock()
	fn := v.onClick
	v.mu.Unlock()
	fn(at)
}

func (v *fakeView) marker(m MarkerID) fakeMarker {
	v.mu.Lock()
	defer v.mu.Unlock()
	return *v.markers[m]
}

func (v *fakeView) active() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for _, m := range v.markers {
		if m.Active {
			n++
		}
	}
	return n
}

var errStore = errors.New("store down")

type fakeStore struct {
	mu        sync.Mutex
	rows      []*model.Pin
	nextID    int
	creates   []model.Pin
	deletes   []string
	listErr   error
	createErr error
	deleteErr error
	// gate, when set, blocks Create until it is closed.
	gate chan struct{}
	// commitAfterCancel makes a gated Create finish the insert even when
	// its context is cancelled first, the way a server commits a request
	// the client gave up on.
	commitAfterCancel bool
}

func (s *fakeStore) ListAll(ctx context.Context) ([]*model.Pin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]*model.Pin, len(s.rows))
	for i, r := range s.rows {
		cp := *r
		out[i] = &cp
	}
	return out, nil
}

func (s *fakeStore) Create(ctx context.Context, p *model.Pin) error {
	if s.gate != nil && s.commitAfterCancel {
		<-s.gate
	} else if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates = append(s.creates, *p)
	if s.createErr != nil {
		return s.createErr
	}
	if s.nextID == 0 {
		s.nextID = 1
	}
	p.ID = strconv.Itoa(s.nextID)
	p.CreatedAt = "2024-01-01T00:00:00Z"
	s.nextID++
	cp := *p
	s.rows = append(s.rows, &cp)
	return nil
}

func (s *fakeStore) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, id)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i, r := range s.rows {
		if r.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			break
		}
	}
	return nil
}

func (s *fakeStore) calls() (creates []model.Pin, deletes []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Pin(nil), s.creates...), append([]string(nil), s.deletes...)
}

type fakePrompt struct {
	mu       sync.Mutex
	answer   bool
	confirms []string
	alerts   []string
}

func (p *fakePrompt) Confirm(message string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.confirms = append(p.confirms, message)
	return p.answer
}

func (p *fakePrompt) Alert(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, message)
}
