package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tiledraft/tiledraft/pkg/editor"
	"github.com/tiledraft/tiledraft/pkg/level"
)

// Terminal cell geometry: one block renders as two columns by one row, so a
// column is half a block wide in level units.
const (
	unitsPerCol = level.BlockSize / 2
	unitsPerRow = level.BlockSize
)

// Tile painting styles, one per tileset slot.
var slotStyles = [4]lipgloss.Style{
	lipgloss.NewStyle().Background(lipgloss.Color("28")).Foreground(lipgloss.Color("255")),
	lipgloss.NewStyle().Background(lipgloss.Color("94")).Foreground(lipgloss.Color("255")),
	lipgloss.NewStyle().Background(lipgloss.Color("24")).Foreground(lipgloss.Color("255")),
	lipgloss.NewStyle().Background(lipgloss.Color("90")).Foreground(lipgloss.Color("255")),
}

var (
	styleSelected = lipgloss.NewStyle().Background(lipgloss.Color("220")).Foreground(lipgloss.Color("16"))
	styleMarker   = lipgloss.NewStyle().Background(lipgloss.Color("167")).Foreground(lipgloss.Color("255")).Bold(true)
	styleEmpty    = lipgloss.NewStyle().Foreground(colorDim)
	styleStatus   = lipgloss.NewStyle().Foreground(colorGray)
)

// editorModel is the bubbletea model for the interactive level editor.
type editorModel struct {
	ed *editor.Editor

	// viewport size in terminal cells; the status bar takes the last row.
	width, height int

	// placeType is the object definition index used by the place key.
	placeType int
	// last mouse position, in level units, for keyboard placement.
	lastX, lastY int

	dragging bool
	dirty    bool
	status   string
	quitting bool

	// save writes the level back to its file. Nil when editing unsaved.
	save func() error
}

func newEditorModel(ed *editor.Editor) *editorModel {
	m := &editorModel{ed: ed, width: 80, height: 24}
	ed.Dirty = func() { m.dirty = true }
	return m
}

func (m *editorModel) Init() tea.Cmd {
	return nil
}

func (m *editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.MouseMsg:
		m.updateMouse(msg)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m *editorModel) updateMouse(msg tea.MouseMsg) {
	mods := editor.Modifiers{Clone: msg.Ctrl, Fine: msg.Alt, Extend: msg.Shift}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		ux, uy := m.pointerUnits(msg.X, msg.Y)
		m.lastX, m.lastY = ux, uy
		m.dragging = true
		m.ed.PointerDown(ux, uy, mods)
		m.describeHover(ux, uy)

	case tea.MouseActionMotion:
		if !m.dragging {
			return
		}
		ux, uy := m.pointerUnits(msg.X, msg.Y)
		m.lastX, m.lastY = ux, uy
		m.ed.PointerMove(ux, uy, mods)

	case tea.MouseActionRelease:
		if !m.dragging {
			return
		}
		m.dragging = false
		m.ed.PointerUp()
	}
}

func (m *editorModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		m.ed.ClearSelection()
		m.status = ""

	case "u":
		if m.ed.UndoLast() {
			m.status = "undone"
		} else {
			m.status = "nothing to undo"
		}

	case "y", "ctrl+r":
		if m.ed.RedoLast() {
			m.status = "redone"
		} else {
			m.status = "nothing to redo"
		}

	case "1", "2", "3":
		m.ed.CurrentLayer = int(msg.String()[0] - '1')
		m.status = fmt.Sprintf("layer %d", m.ed.CurrentLayer)

	case "v":
		layer := m.ed.Level.Layers[m.ed.CurrentLayer]
		layer.Visible = !layer.Visible
		m.dirty = true
		if layer.Visible {
			m.status = fmt.Sprintf("layer %d shown", m.ed.CurrentLayer)
		} else {
			m.status = fmt.Sprintf("layer %d hidden", m.ed.CurrentLayer)
		}

	case "o":
		m.ed.Snap.Override = !m.ed.Snap.Override
		if m.ed.Snap.Override {
			m.status = "snapping off"
		} else {
			m.status = "snapping on"
		}

	case "tab":
		if n := m.ed.Level.Registry().ObjectCount(0); n > 0 {
			m.placeType = (m.placeType + 1) % n
			def := m.ed.Level.Registry().Object(0, m.placeType)
			m.status = fmt.Sprintf("object type %d: %s", m.placeType, def.Name)
		}

	case "p":
		m.placeObject()

	case "m":
		mk := m.ed.Level.AddMarker("marker", m.lastX, m.lastY)
		m.dirty = true
		m.status = mk.Describe()

	case "l":
		for _, o := range m.ed.SelectedObjects() {
			m.ed.Level.ChangeLayer(o, m.ed.CurrentLayer)
		}
		m.dirty = true

	case "s":
		switch {
		case m.save == nil:
			m.status = "no level file (start with: tiledraft edit <file>)"
		default:
			if err := m.save(); err != nil {
				m.status = "save failed: " + err.Error()
			} else {
				m.dirty = false
				m.status = StyleSuccess.Render("saved")
			}
		}

	case "x", "backspace":
		if n := len(m.ed.SelectedObjects()); n > 0 {
			m.ed.DeleteSelection()
			m.status = fmt.Sprintf("deleted %d object(s)", n)
		}
	}
	return m, nil
}

// placeObject creates a 2x2 object of the current type at the last pointer
// position and selects it.
func (m *editorModel) placeObject() {
	if m.ed.Level.Registry().ObjectCount(0) == 0 {
		m.status = "no tileset loaded"
		return
	}
	cx := m.lastX / level.BlockSize
	cy := m.lastY / level.BlockSize
	o := m.ed.Level.CreateObject(0, m.placeType, m.ed.CurrentLayer, cx, cy, 2, 2)
	m.ed.ClearSelection()
	m.ed.Select(o)
	m.dirty = true
	m.status = o.Describe()
}

// pointerUnits maps a terminal cell to level units. Presses land at the
// cell's center, except on the boundary cells of a selected object, where
// they bias to the object's edge so the resize grabbers stay reachable at
// terminal resolution.
func (m *editorModel) pointerUnits(col, row int) (int, int) {
	ux := col*unitsPerCol + unitsPerCol/2
	uy := row*unitsPerRow + unitsPerRow/2

	for _, o := range m.ed.SelectedObjects() {
		b := o.Bounds()
		if ux < b.X || ux >= b.X+b.W || uy < b.Y || uy >= b.Y+b.H {
			continue
		}
		switch col {
		case b.X / unitsPerCol:
			ux = b.X
		case (b.X+b.W)/unitsPerCol - 1:
			ux = b.X + b.W - 1
		}
		switch row {
		case b.Y / unitsPerRow:
			uy = b.Y
		case (b.Y+b.H)/unitsPerRow - 1:
			uy = b.Y + b.H - 1
		}
		break
	}
	return ux, uy
}

// describeHover puts the pressed item's summary in the status bar.
func (m *editorModel) describeHover(ux, uy int) {
	if item := m.ed.ItemAt(ux, uy); item != nil {
		m.status = item.Describe()
	} else {
		m.status = ""
	}
}

func (m *editorModel) View() string {
	if m.quitting {
		return ""
	}

	rows := m.height - 1
	if rows < 1 {
		rows = 1
	}
	cols := m.width

	var b strings.Builder
	for row := 0; row < rows; row++ {
		cy := row
		for col := 0; col < cols; col += 2 {
			cx := col / 2
			b.WriteString(m.renderCell(cx, cy))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.statusBar())
	return b.String()
}

// renderCell paints one block cell as two terminal columns.
func (m *editorModel) renderCell(cx, cy int) string {
	lvl := m.ed.Level
	if cx*level.BlockSize >= lvl.Width || cy*level.BlockSize >= lvl.Height {
		return "  "
	}

	for _, mk := range lvl.Markers {
		if mk.Bounds().Contains(cx*level.BlockSize, cy*level.BlockSize) {
			return styleMarker.Render("◆ ")
		}
	}

	// Topmost visible layer wins.
	for layer := level.LayerCount - 1; layer >= 0; layer-- {
		if !lvl.Layers[layer].Visible {
			continue
		}
		o := lvl.ObjectAt(layer, cx, cy)
		if o == nil {
			continue
		}
		tile := o.TileAt(cx-o.X, cy-o.Y)
		text := fmt.Sprintf("%02x", tile&0xFF)
		if m.ed.IsSelected(o) {
			return styleSelected.Render(text)
		}
		return slotStyles[o.Tileset%len(slotStyles)].Render(text)
	}

	return styleEmpty.Render("··")
}

func (m *editorModel) statusBar() string {
	dirty := ""
	if m.dirty {
		dirty = " " + StyleWarning.Render("[modified]")
	}
	left := StyleHighlight.Render(fmt.Sprintf("layer %d", m.ed.CurrentLayer)) +
		fmt.Sprintf(" · %d selected%s", len(m.ed.Selection()), dirty)
	help := "drag: move · edges: resize · ctrl+click: clone · p: place · u/y: undo/redo · q: quit"
	if m.status != "" {
		left += " · " + m.status
	}
	return styleStatus.Render(left) + "  " + StyleDim.Render(help)
}
