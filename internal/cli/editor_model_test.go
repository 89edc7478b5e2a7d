package cli

import (
	"math/rand"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tiledraft/tiledraft/pkg/editor"
	"github.com/tiledraft/tiledraft/pkg/level"
	"github.com/tiledraft/tiledraft/pkg/tileset"
)

func testModel() *editorModel {
	reg := &tileset.Registry{}
	reg.Slots[0] = &tileset.Tileset{
		Name: "plain",
		Objects: []*tileset.ObjectDef{
			{Name: "block", Rows: [][]uint8{{1}}},
		},
	}
	lvl := level.New(reg, nil, rand.New(rand.NewSource(1)), 20*level.BlockSize, 20*level.BlockSize)
	return newEditorModel(editor.New(lvl))
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestVisibilityKeyTogglesCurrentLayer(t *testing.T) {
	m := testModel()
	m.ed.CurrentLayer = 1
	if !m.ed.Level.Layers[1].Visible {
		t.Fatal("layers start visible")
	}

	m.updateKey(keyMsg("v"))
	if m.ed.Level.Layers[1].Visible {
		t.Error("v did not hide the current layer")
	}
	if !m.ed.Level.Layers[0].Visible || !m.ed.Level.Layers[2].Visible {
		t.Error("v touched another layer")
	}
	if !m.dirty {
		t.Error("visibility change did not mark the level dirty")
	}

	m.updateKey(keyMsg("v"))
	if !m.ed.Level.Layers[1].Visible {
		t.Error("second v did not restore visibility")
	}
}

func TestHiddenLayerIsNotRendered(t *testing.T) {
	m := testModel()
	m.ed.Level.CreateObject(0, 0, 1, 2, 2, 1, 1)

	if !strings.Contains(m.renderCell(2, 2), "01") {
		t.Fatal("object cell not rendered while layer visible")
	}

	m.ed.CurrentLayer = 1
	m.updateKey(keyMsg("v"))
	if strings.Contains(m.renderCell(2, 2), "01") {
		t.Error("object rendered on a hidden layer")
	}
}

func TestSnapOverrideKeyToggles(t *testing.T) {
	m := testModel()
	if m.ed.Snap.Override {
		t.Fatal("snapping starts enabled")
	}

	m.updateKey(keyMsg("o"))
	if !m.ed.Snap.Override {
		t.Error("o did not disable snapping")
	}
	m.updateKey(keyMsg("o"))
	if m.ed.Snap.Override {
		t.Error("second o did not re-enable snapping")
	}
}
