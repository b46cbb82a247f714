package tui

import (
	"fmt"
	"html"
	"math"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iliyamo/skate-pins/internal/board"
	"github.com/iliyamo/skate-pins/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	groundStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
	controlStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	tagPattern = regexp.MustCompile(`<[^>]*>`)
)

const (
	groundGlyph = "·"
	markerGlyph = "●"
	openGlyph   = "◉"
)

// hueColor is the pure colour at hue degrees, red at 0.
func hueColor(hue int) lipgloss.Color {
	h := float64(((hue%360)+360)%360) / 60
	x := 1 - math.Abs(math.Mod(h, 2)-1)
	var r, g, b float64
	switch int(h) {
	case 0:
		r, g = 1, x
	case 1:
		r, g = x, 1
	case 2:
		g, b = 1, x
	case 3:
		g, b = x, 1
	case 4:
		r, b = x, 1
	default:
		r, b = 1, x
	}
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", int(r*255), int(g*255), int(b*255)))
}

func attribution(t model.TileLayer) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(t.Attribution, ""))
}

func (m *Model) View() string {
	s := m.layer.Snapshot()
	var b strings.Builder

	header := titleStyle.Render("skate pins")
	header += fmt.Sprintf("  %s  z%d", s.Center, s.Zoom)
	if m.ctrl.LocalOnly() {
		header += "  " + warnStyle.Render("local only: pins will not be saved")
	}
	if m.ctrl.DropMode() {
		header += "  " + warnStyle.Render("[dropping pin]")
	}
	b.WriteString(header + "\n")
	b.WriteString(m.renderMap(s) + "\n")
	b.WriteString(m.renderPanel() + "\n")
	b.WriteString(helpStyle.Render(m.help()) + "\n")
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString(helpStyle.Render(attribution(s.Tiles)))
	return b.String()
}

func (m *Model) renderMap(s Snapshot) string {
	vp := m.viewport(s)
	grid := make([][]string, vp.rows)
	for r := range grid {
		grid[r] = make([]string, vp.cols)
		for c := range grid[r] {
			grid[r][c] = groundStyle.Render(groundGlyph)
		}
	}
	glyphs := make(map[[2]int]string)
	for _, mk := range s.Markers {
		col, row, ok := vp.cellOf(mk.At)
		if !ok {
			continue
		}
		g := markerGlyph
		if s.HasOpen && s.Open == mk.ID {
			g = openGlyph
		}
		glyphs[[2]int{col, row}] = g
		grid[row][col] = lipgloss.NewStyle().Foreground(hueColor(mk.Icon.Hue)).Render(g)
	}

	col, row := m.cursorCell()
	if row >= 0 && row < vp.rows && col >= 0 && col < vp.cols {
		g, ok := glyphs[[2]int{col, row}]
		if !ok {
			g = "+"
		}
		grid[row][col] = cursorStyle.Render(g)
	}

	placeZoomControl(grid, s.ZoomControl)

	lines := make([]string, vp.rows)
	for r, cells := range grid {
		lines[r] = strings.Join(cells, "")
	}
	return strings.Join(lines, "\n")
}

// placeZoomControl draws the +/- affordance in the requested corner.
func placeZoomControl(grid [][]string, position string) {
	if position == "" || len(grid) == 0 {
		return
	}
	const label = "[+][-]"
	row, col := 0, 0
	if strings.HasPrefix(position, "bottom") {
		row = len(grid) - 1
	}
	if strings.HasSuffix(position, "right") {
		col = len(grid[row]) - len(label)
	}
	if col < 0 {
		return
	}
	for i, ch := range label {
		grid[row][col+i] = controlStyle.Render(string(ch))
	}
}

func (m *Model) renderPanel() string {
	switch {
	case m.confirm != nil:
		return panelStyle.Render(m.confirm.message + "\n" + helpStyle.Render("y: yes • n: no"))
	case m.alert != "":
		return panelStyle.Render(warnStyle.Render(m.alert) + "\n" + helpStyle.Render("press any key"))
	case m.mode == modeForm && m.form != nil:
		return panelStyle.Render(m.renderForm())
	case m.mode == modePopup:
		return panelStyle.Render(m.renderDisplay())
	}
	return "Cursor " + m.CursorLatLng().String()
}

func (m *Model) renderForm() string {
	var types []string
	for i, info := range model.PinTypes() {
		mark := "( )"
		if info.Type == m.form.Type() {
			mark = "(•)"
		}
		item := fmt.Sprintf("%s %d %s", mark, i+1, info.Label)
		types = append(types, lipgloss.NewStyle().Foreground(lipgloss.Color(info.Color)).Render(item))
	}
	typeLine := "Type: " + strings.Join(types, "  ")
	if m.focus == focusType {
		typeLine = focusedStyle.Render("> ") + typeLine
	} else {
		typeLine = "  " + typeLine
	}

	button := func(label string, f int) string {
		if m.focus == f {
			return focusedStyle.Render("[ " + label + " ]")
		}
		return fmt.Sprintf("[ %s ]", blurredStyle.Render(label))
	}
	buttons := button("Save", focusSave) + " " + button("Cancel", focusCancel)
	if m.busy {
		buttons += " saving..."
	}
	return strings.Join([]string{
		"New pin",
		typeLine,
		"  " + m.title.View(),
		"  " + m.desc.View(),
		"  " + buttons,
	}, "\n")
}

func (m *Model) renderDisplay() string {
	content, ok := m.layer.OpenPopupContent()
	if !ok {
		return ""
	}
	dp, ok := content.(board.DisplayPopup)
	if !ok {
		return ""
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(hueColor(dp.Type.Hue())).Render(dp.Title),
		blurredStyle.Render(dp.Type.Label()),
	}
	if dp.Description != "" {
		lines = append(lines, dp.Description)
	}
	if dp.PinID != "" {
		lines = append(lines, helpStyle.Render("id "+dp.PinID))
	}
	lines = append(lines, helpStyle.Render("x: delete • esc: close"))
	return strings.Join(lines, "\n")
}

func (m *Model) help() string {
	switch {
	case m.confirm != nil || m.alert != "":
		return ""
	case m.mode == modeForm:
		return "tab: next field • ←/→ or 1-3: type • enter: save • esc: cancel"
	case m.mode == modePopup:
		return ""
	}
	h := "arrows: move • enter: click/open • +/-: zoom • tab: next pin • q: quit"
	if m.ctrl.Options().ClickMode == board.ClickToggle {
		h += " • d: drop pin"
	}
	return h
}
