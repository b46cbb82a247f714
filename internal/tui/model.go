// Package tui renders the pin board in a terminal.  The map is a grid of
// cells in web mercator; markers are drawn in the hue of their pin type and
// popups open in a panel below the map.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iliyamo/skate-pins/internal/board"
	"github.com/iliyamo/skate-pins/internal/model"
)

type mode int

const (
	modeMap mode = iota
	modeForm
	modePopup
)

// form focus order
const (
	focusType = iota
	focusTitle
	focusDesc
	focusSave
	focusCancel
	focusCount
)

type refreshMsg struct{}

type loadedMsg struct {
	n   int
	err error
}

type resolvedMsg struct{ err error }

type deletedMsg struct {
	removed bool
	err     error
}

// Model is the bubbletea model of the board.
type Model struct {
	ctx   context.Context
	ctrl  *board.Controller
	layer *Layer

	width, height int
	// cursor offset from the map center, in cells
	curX, curY int

	mode     mode
	formKey  string
	form     *board.Form
	focus    int
	title    textinput.Model
	desc     textinput.Model
	popupKey string
	busy     bool

	confirm *confirmMsg
	alert   string
	status  string
}

// NewModel builds the model for a controller already initialised on layer.
func NewModel(ctx context.Context, ctrl *board.Controller, layer *Layer) *Model {
	title := textinput.New()
	title.Prompt = "Title: "
	title.CharLimit = 255
	desc := textinput.New()
	desc.Prompt = "Description: "
	desc.CharLimit = 2000
	return &Model{
		ctx:    ctx,
		ctrl:   ctrl,
		layer:  layer,
		width:  80,
		height: 24,
		title:  title,
		desc:   desc,
	}
}

func (m *Model) Init() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		n, err := ctrl.LoadPins(ctx)
		return loadedMsg{n: n, err: err}
	}
}

func (m *Model) mapCols() int { return max(10, m.width) }
func (m *Model) mapRows() int { return max(5, m.height-11) }

func (m *Model) viewport(s Snapshot) viewport {
	return viewport{center: s.Center, zoom: s.Zoom, cols: m.mapCols(), rows: m.mapRows()}
}

func (m *Model) cursorCell() (col, row int) {
	return m.mapCols()/2 + m.curX, m.mapRows()/2 + m.curY
}

// CursorLatLng is the coordinate under the cursor.
func (m *Model) CursorLatLng() model.LatLng {
	col, row := m.cursorCell()
	return m.viewport(m.layer.Snapshot()).latLngAt(col, row)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.clampCursor()
	case loadedMsg:
		if msg.err == nil {
			m.status = fmt.Sprintf("loaded %d pins", msg.n)
		}
	case resolvedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = msg.err.Error()
		}
	case deletedMsg:
		m.busy = false
		switch {
		case msg.err != nil:
			m.status = msg.err.Error()
		case msg.removed:
			m.status = "pin deleted"
		}
	case confirmMsg:
		m.confirm = &msg
	case alertMsg:
		m.alert = msg.message
	case tea.KeyMsg:
		var quit bool
		cmd, quit = m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}
	default:
		cmd = m.updateInputs(msg)
	}
	m.syncPopup()
	return m, cmd
}

// syncPopup follows the popup the controller opened or closed.
func (m *Model) syncPopup() {
	content, ok := m.layer.OpenPopupContent()
	if !ok {
		m.mode, m.formKey, m.form, m.popupKey = modeMap, "", nil, ""
		return
	}
	switch p := content.(type) {
	case board.FormPopup:
		if p.Key != m.formKey {
			m.formKey, m.form = p.Key, p.Form
			m.title.SetValue(p.Form.Title())
			m.desc.SetValue(p.Form.Description())
			m.setFocus(focusType)
		}
		m.mode, m.popupKey = modeForm, ""
	case board.DisplayPopup:
		m.mode, m.popupKey, m.formKey, m.form = modePopup, p.Key, "", nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return nil, true
	}
	if m.confirm != nil {
		return m.handleConfirm(msg), false
	}
	if m.alert != "" {
		m.alert = ""
		return nil, false
	}
	switch m.mode {
	case modeForm:
		return m.handleForm(msg), false
	case modePopup:
		return m.handlePopup(msg), false
	}
	return m.handleMap(msg)
}

func (m *Model) handleConfirm(msg tea.KeyMsg) tea.Cmd {
	var answer, done bool
	switch msg.String() {
	case "y", "Y", "enter":
		answer, done = true, true
	case "n", "N", "esc":
		done = true
	}
	if done {
		m.confirm.reply <- answer
		m.confirm = nil
	}
	return nil
}

func (m *Model) handleMap(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "q", "esc":
		return nil, true
	case "up", "k":
		m.moveCursor(0, -1)
	case "down", "j":
		m.moveCursor(0, 1)
	case "left", "h":
		m.moveCursor(-1, 0)
	case "right", "l":
		m.moveCursor(1, 0)
	case "+", "=":
		m.zoomBy(1)
	case "-", "_":
		m.zoomBy(-1)
	case "tab":
		m.nextMarker()
	case "d":
		if m.ctrl.Options().ClickMode != board.ClickToggle {
			m.status = "every click drops a pin"
			return nil, false
		}
		if m.ctrl.ToggleDropMode() {
			m.status = "dropping pin: pick a spot"
		} else {
			m.status = ""
		}
	case "enter", " ":
		return m.click(), false
	}
	return nil, false
}

// click opens the popup of a marker under the cursor, or clicks the map.
func (m *Model) click() tea.Cmd {
	s := m.layer.Snapshot()
	vp := m.viewport(s)
	col, row := m.cursorCell()
	for i := len(s.Markers) - 1; i >= 0; i-- {
		mk := s.Markers[i]
		if c, r, ok := vp.cellOf(mk.At); ok && c == col && r == row {
			m.layer.OpenPopup(mk.ID)
			return nil
		}
	}
	if m.ctrl.Options().ClickMode == board.ClickToggle && !m.ctrl.DropMode() {
		m.status = "press d to drop a pin"
		return nil
	}
	m.status = ""
	at, layer := vp.latLngAt(col, row), m.layer
	return func() tea.Msg {
		layer.Click(at)
		return refreshMsg{}
	}
}

func (m *Model) moveCursor(dx, dy int) {
	m.curX += dx
	m.curY += dy
	halfX, halfY := m.mapCols()/2, m.mapRows()/2
	var panX, panY int
	if m.curX < -halfX || m.curX >= m.mapCols()-halfX {
		panX, m.curX = dx, m.curX-dx
	}
	if m.curY < -halfY || m.curY >= m.mapRows()-halfY {
		panY, m.curY = dy, m.curY-dy
	}
	if panX != 0 || panY != 0 {
		s := m.layer.Snapshot()
		m.layer.SetView(m.viewport(s).pan(panX, panY), s.Zoom)
	}
}

func (m *Model) clampCursor() {
	halfX, halfY := m.mapCols()/2, m.mapRows()/2
	m.curX = min(max(m.curX, -halfX), m.mapCols()-halfX-1)
	m.curY = min(max(m.curY, -halfY), m.mapRows()-halfY-1)
}

// zoomBy recentres on the cursor and changes zoom by d.
func (m *Model) zoomBy(d int) {
	s := m.layer.Snapshot()
	z := s.Zoom + d
	if z < 0 || (s.Tiles.MaxZoom > 0 && z > s.Tiles.MaxZoom) {
		return
	}
	at := m.CursorLatLng()
	m.layer.SetView(at, z)
	m.curX, m.curY = 0, 0
}

// nextMarker centres the map on the marker after the one under the cursor.
func (m *Model) nextMarker() {
	s := m.layer.Snapshot()
	if len(s.Markers) == 0 {
		return
	}
	vp := m.viewport(s)
	col, row := m.cursorCell()
	next := 0
	for i, mk := range s.Markers {
		if c, r, ok := vp.cellOf(mk.At); ok && c == col && r == row {
			next = (i + 1) % len(s.Markers)
			break
		}
	}
	m.layer.SetView(s.Markers[next].At, s.Zoom)
	m.curX, m.curY = 0, 0
}

func (m *Model) setFocus(f int) tea.Cmd {
	m.focus = (f + focusCount) % focusCount
	m.title.Blur()
	m.desc.Blur()
	switch m.focus {
	case focusTitle:
		return m.title.Focus()
	case focusDesc:
		return m.desc.Focus()
	}
	return nil
}

func (m *Model) handleForm(msg tea.KeyMsg) tea.Cmd {
	if m.busy {
		return nil
	}
	switch msg.String() {
	case "esc":
		return m.resolve(m.form.Cancel())
	case "tab", "down":
		return m.setFocus(m.focus + 1)
	case "shift+tab", "up":
		return m.setFocus(m.focus - 1)
	case "enter":
		if m.focus == focusCancel {
			return m.resolve(m.form.Cancel())
		}
		return m.resolve(m.form.Submit())
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusType:
		switch msg.String() {
		case "left", "h":
			m.cycleType(-1)
		case "right", "l", " ":
			m.cycleType(1)
		case "1", "2", "3":
			types := model.PinTypes()
			if i := int(msg.Runes[0] - '1'); i < len(types) {
				m.selectType(types[i].Type)
			}
		}
	case focusTitle:
		m.title, cmd = m.title.Update(msg)
		if m.title.Value() != m.form.Title() {
			m.form.SetTitle(m.title.Value())
		}
	case focusDesc:
		m.desc, cmd = m.desc.Update(msg)
		m.form.SetDescription(m.desc.Value())
	}
	return cmd
}

// updateInputs forwards non-key messages, such as cursor blinks, to the
// focused input.
func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.mode != modeForm:
	case m.focus == focusTitle:
		m.title, cmd = m.title.Update(msg)
	case m.focus == focusDesc:
		m.desc, cmd = m.desc.Update(msg)
	}
	return cmd
}

func (m *Model) cycleType(d int) {
	types := model.PinTypes()
	i := 0
	for j, t := range types {
		if t.Type == m.form.Type() {
			i = j
		}
	}
	m.selectType(types[(i+d+len(types))%len(types)].Type)
}

func (m *Model) selectType(t model.PinType) {
	m.form.SelectType(t)
	m.title.SetValue(m.form.Title())
}

func (m *Model) resolve(res board.Result) tea.Cmd {
	m.busy = true
	ctx, ctrl, key := m.ctx, m.ctrl, m.formKey
	return func() tea.Msg {
		return resolvedMsg{err: ctrl.Resolve(ctx, key, res)}
	}
}

func (m *Model) handlePopup(msg tea.KeyMsg) tea.Cmd {
	if m.busy {
		return nil
	}
	switch msg.String() {
	case "esc", "q":
		m.layer.ClosePopup()
	case "x", "delete", "backspace":
		m.busy = true
		ctx, ctrl, key := m.ctx, m.ctrl, m.popupKey
		return func() tea.Msg {
			removed, err := ctrl.Delete(ctx, key)
			return deletedMsg{removed: removed, err: err}
		}
	}
	return nil
}
