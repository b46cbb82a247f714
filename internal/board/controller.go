package board

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/skate-pins/internal/config"
	"github.com/iliyamo/skate-pins/internal/model"
)

const (
	confirmDeleteMessage = "Delete this pin?"
	saveFailedMessage    = "Failed to save pin."
)

// transientType styles markers whose form is still open.
const transientType = model.TypeStreet

var (
	// ErrUnknownPin is returned for keys that name no displayed pin.
	ErrUnknownPin = errors.New("unknown pin")
	// ErrNotTransient is returned when resolving a pin whose form is closed.
	ErrNotTransient = errors.New("pin has no open form")
	// ErrTransient is returned when deleting a pin whose form is still open.
	ErrTransient = errors.New("pin form is still open")
	// ErrTypeRequired is returned when a form is submitted without a valid type.
	ErrTypeRequired = errors.New("pin type is required")
	// ErrSaving is returned while an earlier submit of the same form is in flight.
	ErrSaving = errors.New("pin save already in progress")
)

// Placement selects how a click turns into a stored pin.
type Placement string

const (
	// PlacementDeferred opens a form on a transient marker and inserts on save.
	PlacementDeferred Placement = "deferred"
	// PlacementImmediate renders the pin at once and inserts in the background.
	PlacementImmediate Placement = "immediate"
)

// ClickMode selects whether every click places a pin.
type ClickMode string

const (
	// ClickDirect places a pin on every click.
	ClickDirect ClickMode = "direct"
	// ClickToggle only places a pin while drop mode is armed, then disarms.
	ClickToggle ClickMode = "toggle"
)

// Options configures a Controller.
type Options struct {
	Placement    Placement
	ClickMode    ClickMode
	DefaultType  model.PinType
	Map          config.MapConfig
	StoreTimeout time.Duration
}

// OptionsFromConfig validates the board settings.
func OptionsFromConfig(cfg config.BoardConfig, m config.MapConfig) (Options, error) {
	opts := Options{
		Placement:    Placement(cfg.Placement),
		ClickMode:    ClickMode(cfg.ClickMode),
		Map:          m,
		StoreTimeout: cfg.StoreTimeout,
	}
	switch opts.Placement {
	case PlacementDeferred, PlacementImmediate:
	default:
		return opts, fmt.Errorf("unknown placement %q", cfg.Placement)
	}
	switch opts.ClickMode {
	case ClickDirect, ClickToggle:
	default:
		return opts, fmt.Errorf("unknown click mode %q", cfg.ClickMode)
	}
	typ, ok := model.ParsePinType(cfg.DefaultType)
	if !ok {
		return opts, fmt.Errorf("unknown default pin type %q", cfg.DefaultType)
	}
	opts.DefaultType = typ
	return opts, nil
}

// entry links a pin to its marker.  The link lives only here; model.Pin
// stays the persisted shape.
type entry struct {
	pin       model.Pin
	marker    MarkerID
	form      *Form // non-nil while the pin is transient
	saving    bool
	inserting bool // immediate placement insert still in flight
}

// PlacedPin is a snapshot of one displayed pin.
type PlacedPin struct {
	Key       string
	Pin       model.Pin
	Marker    MarkerID
	Transient bool
}

// Controller is the pin board.  All methods are safe for concurrent use;
// store calls run without holding the lock so a slow store never blocks
// other clicks.
type Controller struct {
	view   MapView
	store  Store
	prompt Prompter
	log    *zap.Logger
	opts   Options

	mu       sync.Mutex
	entries  map[string]*entry
	dropMode bool

	bg     context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a controller.  A nil store runs the board in local-only mode:
// pins are displayed but never saved, and a warning is logged once here.
func New(view MapView, store Store, prompt Prompter, logger *zap.Logger, opts Options) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Placement == "" {
		opts.Placement = PlacementDeferred
	}
	if opts.ClickMode == "" {
		opts.ClickMode = ClickDirect
	}
	if !opts.DefaultType.Valid() {
		opts.DefaultType = model.TypeSkatingNow
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = 10 * time.Second
	}
	if store == nil {
		logger.Warn("pin store not configured; pins will not be saved")
	}
	bg, cancel := context.WithCancel(context.Background())
	return &Controller{
		view:    view,
		store:   store,
		prompt:  prompt,
		log:     logger,
		opts:    opts,
		entries: make(map[string]*entry),
		bg:      bg,
		cancel:  cancel,
	}
}

// LocalOnly reports whether the board runs without a store.
func (c *Controller) LocalOnly() bool { return c.store == nil }

// Options returns the effective options.
func (c *Controller) Options() Options { return c.opts }

// Init sets up the map view and starts listening for clicks.
func (c *Controller) Init() {
	m := c.opts.Map
	c.view.SetView(m.Center, m.Zoom)
	c.view.AddTileLayer(m.Tiles)
	c.view.AddZoomControl(m.ZoomControl)
	c.view.OnClick(func(at model.LatLng) { c.HandleClick(at) })
	c.log.Info("pin board initialized",
		zap.String("placement", string(c.opts.Placement)),
		zap.String("click_mode", string(c.opts.ClickMode)),
		zap.Bool("local_only", c.LocalOnly()))
}

// Close cancels background inserts and waits for them to return.
func (c *Controller) Close() {
	c.cancel()
	c.wg.Wait()
}

// Wait blocks until background inserts have finished.
func (c *Controller) Wait() { c.wg.Wait() }

func (c *Controller) icon(t model.PinType) model.Icon { return c.opts.Map.Marker.Tinted(t) }

func (c *Controller) storeCtx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, c.opts.StoreTimeout)
}

// LoadPins renders one marker per stored row.  A fetch failure is logged and
// leaves the map as it was; it is returned for callers that want it.
func (c *Controller) LoadPins(ctx context.Context) (int, error) {
	if c.store == nil {
		return 0, nil
	}
	ctx, cancel := c.storeCtx(ctx)
	defer cancel()
	rows, err := c.store.ListAll(ctx)
	if err != nil {
		c.log.Error("error loading pins", zap.Error(err))
		return 0, err
	}
	for _, row := range rows {
		p := *row
		key := uuid.NewString()
		marker := c.view.PlaceMarker(model.LatLng{Lat: p.Lat, Lng: p.Lng}, c.icon(p.Type))
		c.mu.Lock()
		c.entries[key] = &entry{pin: p, marker: marker}
		c.mu.Unlock()
		c.view.BindPopup(marker, displayPopup(key, p))
	}
	return len(rows), nil
}

// SetDropMode arms or disarms drop mode (toggle click mode only).
func (c *Controller) SetDropMode(on bool) {
	c.mu.Lock()
	c.dropMode = on
	c.mu.Unlock()
}

// ToggleDropMode flips drop mode and returns the new state.
func (c *Controller) ToggleDropMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropMode = !c.dropMode
	return c.dropMode
}

// DropMode reports whether the next click will place a pin in toggle mode.
func (c *Controller) DropMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropMode
}

// HandleClick places a pin at at according to the placement policy.  It
// returns the new pin's key, or "" when the click was ignored.  Overlapping
// placements are allowed: every click gets its own transient pin.
func (c *Controller) HandleClick(at model.LatLng) string {
	c.mu.Lock()
	if c.opts.ClickMode == ClickToggle {
		if !c.dropMode {
			c.mu.Unlock()
			return ""
		}
		c.dropMode = false
	}
	c.mu.Unlock()

	if c.opts.Placement == PlacementImmediate {
		return c.placeImmediate(at)
	}
	return c.placeDeferred(at)
}

func (c *Controller) placeDeferred(at model.LatLng) string {
	key := uuid.NewString()
	form := NewForm(c.opts.DefaultType)
	marker := c.view.PlaceMarker(at, c.icon(transientType))
	c.mu.Lock()
	c.entries[key] = &entry{pin: model.Pin{Lat: at.Lat, Lng: at.Lng}, marker: marker, form: form}
	c.mu.Unlock()
	c.view.BindPopup(marker, FormPopup{Key: key, Form: form})
	c.view.OpenPopup(marker)
	return key
}

// placeImmediate shows the pin right away.  If the background insert fails
// the marker stays on the map unsynced; that inconsistency is accepted and
// only logged.
func (c *Controller) placeImmediate(at model.LatLng) string {
	key := uuid.NewString()
	p := model.Pin{Lat: at.Lat, Lng: at.Lng, Type: c.opts.DefaultType}
	marker := c.view.PlaceMarker(at, c.icon(p.Type))
	e := &entry{pin: p, marker: marker, inserting: c.store != nil}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	c.view.BindPopup(marker, displayPopup(key, p))

	if c.store == nil {
		return key
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := c.storeCtx(c.bg)
		defer cancel()
		saved := p
		if err := c.store.Create(ctx, &saved); err != nil {
			c.mu.Lock()
			e.inserting = false
			c.mu.Unlock()
			c.log.Error("error saving pin; marker left unsynced", zap.String("key", key), zap.Error(err))
			return
		}
		c.mu.Lock()
		_, displayed := c.entries[key]
		e.pin = saved
		e.inserting = false
		c.mu.Unlock()
		if displayed {
			c.view.BindPopup(marker, displayPopup(key, saved))
			return
		}
		// deleted while the insert was in flight: finish that delete now
		// that the id is known, even if Close has cancelled c.bg
		dctx, dcancel := c.storeCtx(context.WithoutCancel(ctx))
		defer dcancel()
		if err := c.store.DeleteByID(dctx, saved.ID); err != nil {
			c.log.Error("error deleting pin", zap.String("id", saved.ID), zap.Error(err))
		}
	}()
	return key
}

// Resolve completes the form of the transient pin key.  Cancelled removes
// the marker without touching the store.  Submitted inserts the pin (when a
// store exists) and swaps the form for the display popup; a failed insert
// alerts the user and removes the marker.
func (c *Controller) Resolve(ctx context.Context, key string, res Result) error {
	c.mu.Lock()
	e, ok := c.entries[key]
	switch {
	case !ok:
		c.mu.Unlock()
		return ErrUnknownPin
	case e.form == nil:
		c.mu.Unlock()
		return ErrNotTransient
	case e.saving:
		c.mu.Unlock()
		return ErrSaving
	}

	sub, submitted := res.(Submitted)
	if !submitted {
		delete(c.entries, key)
		c.mu.Unlock()
		c.view.RemoveMarker(e.marker)
		return nil
	}
	if !sub.Type.Valid() {
		c.mu.Unlock()
		return ErrTypeRequired
	}
	e.saving = true
	p := e.pin
	c.mu.Unlock()

	p.Type = sub.Type
	p.Title = sub.Title
	p.Description = sub.Description

	if c.store != nil {
		sctx, cancel := c.storeCtx(ctx)
		err := c.store.Create(sctx, &p)
		cancel()
		if err != nil {
			c.log.Error("error saving pin", zap.Error(err))
			c.mu.Lock()
			delete(c.entries, key)
			c.mu.Unlock()
			c.view.RemoveMarker(e.marker)
			c.prompt.Alert(saveFailedMessage)
			return fmt.Errorf("save pin: %w", err)
		}
	}

	c.mu.Lock()
	e.pin = p
	e.form = nil
	e.saving = false
	c.mu.Unlock()
	c.view.SetIcon(e.marker, c.icon(p.Type))
	c.view.BindPopup(e.marker, displayPopup(key, p))
	c.view.OpenPopup(e.marker)
	return nil
}

// Delete asks for confirmation, deletes the stored row by its store id and
// removes the marker.  The marker is removed even when the store delete
// fails; that failure is only logged.  It reports whether the pin was
// removed.
func (c *Controller) Delete(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && e.form != nil {
		c.mu.Unlock()
		return false, ErrTransient
	}
	c.mu.Unlock()
	if !ok {
		return false, ErrUnknownPin
	}

	if !c.prompt.Confirm(confirmDeleteMessage) {
		return false, nil
	}

	c.mu.Lock()
	if _, still := c.entries[key]; !still {
		c.mu.Unlock()
		return false, ErrUnknownPin
	}
	delete(c.entries, key)
	id, inserting := e.pin.ID, e.inserting
	c.mu.Unlock()

	// an in-flight immediate insert issues the delete itself once it has the id
	if c.store != nil && id != "" && !inserting {
		sctx, cancel := c.storeCtx(ctx)
		if err := c.store.DeleteByID(sctx, id); err != nil {
			c.log.Error("error deleting pin", zap.String("id", id), zap.Error(err))
		}
		cancel()
	}
	c.view.RemoveMarker(e.marker)
	return true, nil
}

// Pin returns the displayed pin for key.
func (c *Controller) Pin(key string) (PlacedPin, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return PlacedPin{}, false
	}
	return PlacedPin{Key: key, Pin: e.pin, Marker: e.marker, Transient: e.form != nil}, true
}

// Pins returns every displayed pin ordered by marker.
func (c *Controller) Pins() []PlacedPin {
	c.mu.Lock()
	out := make([]PlacedPin, 0, len(c.entries))
	for key, e := range c.entries {
		out = append(out, PlacedPin{Key: key, Pin: e.pin, Marker: e.marker, Transient: e.form != nil})
	}
	c.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Marker < out[j].Marker })
	return out
}
