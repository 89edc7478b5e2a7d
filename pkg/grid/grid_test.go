package grid

import (
	"math/rand"
	"testing"
)

// flatRenderer renders every tile as the same raw id, which is enough to
// exercise the compositor: randomization only cares about the low byte.
type flatRenderer struct {
	tile uint8
}

func (r flatRenderer) RenderRaw(tileset, typ, width, height int) [][]uint16 {
	data := make([][]uint16, height)
	for y := range data {
		row := make([]uint16, width)
		for x := range row {
			row[x] = Compose(tileset, r.tile)
		}
		data[y] = row
	}
	return data
}

// rowRenderer renders tile ids by absolute row parity so tests can tell
// appended rows from surviving ones.
type rowRenderer struct{}

func (rowRenderer) RenderRaw(tileset, typ, width, height int) [][]uint16 {
	data := make([][]uint16, height)
	for y := range data {
		row := make([]uint16, width)
		for x := range row {
			row[x] = Compose(tileset, uint8(0xA0+y))
		}
		data[y] = row
	}
	return data
}

// mapTable is a Table backed by a plain map for one tileset name.
type mapTable struct {
	name    string
	entries map[uint8]Entry
}

func (t mapTable) Randomized(name string) bool { return name == t.name }

func (t mapTable) Lookup(name string, tile uint8) (Entry, bool) {
	if name != t.name {
		return Entry{}, false
	}
	e, ok := t.entries[tile]
	return e, ok
}

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestBuildShape(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"Single", 1, 1},
		{"Wide", 7, 1},
		{"Tall", 1, 9},
		{"Rect", 5, 3},
	}

	c := New(flatRenderer{tile: 0x20}, nil, testRand())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := c.Build(0, 5, "Pa1_nohara", tt.width, tt.height)
			if len(data) != tt.height {
				t.Fatalf("rows = %d, want %d", len(data), tt.height)
			}
			for y, row := range data {
				if len(row) != tt.width {
					t.Errorf("row %d length = %d, want %d", y, len(row), tt.width)
				}
			}
		})
	}
}

func TestBuildWithoutMetadataIsRaw(t *testing.T) {
	c := New(flatRenderer{tile: 0x20}, nil, testRand())
	data := c.Build(1, 0, "Pa1_nohara", 3, 2)
	for y, row := range data {
		for x, v := range row {
			if v != Compose(1, 0x20) {
				t.Fatalf("tile (%d,%d) = %#x, want raw %#x", x, y, v, Compose(1, 0x20))
			}
		}
	}
}

func TestRandomizeChoosesFromCandidates(t *testing.T) {
	table := mapTable{
		name: "Pa1_nohara",
		entries: map[uint8]Entry{
			0x20: {Tiles: []uint8{0x20, 0x21, 0x22, 0x23}, Direction: DirHorizontal},
		},
	}
	c := New(flatRenderer{tile: 0x20}, table, testRand())
	data := c.Build(0, 5, "Pa1_nohara", 16, 4)

	allowed := map[uint8]bool{0x20: true, 0x21: true, 0x22: true, 0x23: true}
	for y, row := range data {
		for x, v := range row {
			if !allowed[TileID(v)] {
				t.Fatalf("tile (%d,%d) = %#x outside candidate set", x, y, v)
			}
		}
	}
}

func TestRandomizeHorizontalExclusion(t *testing.T) {
	table := mapTable{
		name: "Pa1_nohara",
		entries: map[uint8]Entry{
			0x20: {Tiles: []uint8{0x20, 0x21, 0x22}, Direction: DirHorizontal},
		},
	}
	c := New(flatRenderer{tile: 0x20}, table, testRand())

	// Many rows: every adjacent horizontal pair must differ.
	data := c.Build(0, 5, "Pa1_nohara", 24, 8)
	for y, row := range data {
		for x := 1; x < len(row); x++ {
			if TileID(row[x]) == TileID(row[x-1]) {
				t.Fatalf("tiles (%d,%d) and (%d,%d) both %#x", x-1, y, x, y, row[x])
			}
		}
	}
}

func TestRandomizeVerticalExclusion(t *testing.T) {
	table := mapTable{
		name: "Pa1_nohara",
		entries: map[uint8]Entry{
			0x20: {Tiles: []uint8{0x20, 0x21, 0x22}, Direction: DirVertical},
		},
	}
	c := New(flatRenderer{tile: 0x20}, table, testRand())

	data := c.Build(0, 5, "Pa1_nohara", 8, 24)
	for y := 1; y < len(data); y++ {
		for x := range data[y] {
			if TileID(data[y][x]) == TileID(data[y-1][x]) {
				t.Fatalf("tiles (%d,%d) and (%d,%d) both %#x", x, y-1, x, y, data[y][x])
			}
		}
	}
}

func TestRandomizeEmptyFilterFallsBack(t *testing.T) {
	// A single candidate that always collides with its left neighbor: the
	// filtered set goes empty, so the unfiltered set must be restored and
	// the collision permitted.
	table := mapTable{
		name: "Pa1_nohara",
		entries: map[uint8]Entry{
			0x30: {Tiles: []uint8{0x30}, Direction: DirHorizontal},
		},
	}
	c := New(flatRenderer{tile: 0x30}, table, testRand())
	data := c.Build(0, 5, "Pa1_nohara", 6, 1)
	for x, v := range data[0] {
		if TileID(v) != 0x30 {
			t.Fatalf("tile %d = %#x, want %#x", x, v, 0x30)
		}
	}
}

func TestRandomizeVerticalPair(t *testing.T) {
	// Row 0 renders the double-top tile, row 1 the double-bottom. When the
	// bottom is chosen, the cell above must be rewritten to choice-0x10.
	r := pairRenderer{}
	table := mapTable{
		name: "Pa1_nohara",
		entries: map[uint8]Entry{
			0x40: {Tiles: []uint8{0x40}, Special: SpecialDoubleTop},
			0x50: {Tiles: []uint8{0x50, 0x51}, Special: SpecialDoubleBottom},
		},
	}
	c := New(r, table, testRand())
	data := c.Build(0, 5, "Pa1_nohara", 4, 2)

	for x := range data[1] {
		bottom := TileID(data[1][x])
		if bottom != 0x50 && bottom != 0x51 {
			t.Fatalf("bottom tile %d = %#x, want 0x50 or 0x51", x, bottom)
		}
		if got, want := data[0][x], data[1][x]-PairOffset; got != want {
			t.Errorf("top tile %d = %#x, want paired %#x", x, got, want)
		}
	}
}

func TestRandomizePairAtTopRowLeftUnresolved(t *testing.T) {
	// A double-bottom tile in row 0 has no row above to rewrite; the choice
	// itself must still land and nothing may panic.
	table := mapTable{
		name: "Pa1_nohara",
		entries: map[uint8]Entry{
			0x50: {Tiles: []uint8{0x51}, Special: SpecialDoubleBottom},
		},
	}
	c := New(flatRenderer{tile: 0x50}, table, testRand())
	data := c.Build(0, 5, "Pa1_nohara", 3, 1)
	for x, v := range data[0] {
		if TileID(v) != 0x51 {
			t.Fatalf("tile %d = %#x, want %#x", x, v, 0x51)
		}
	}
}

// pairRenderer renders double-top ids in even rows and double-bottom ids in
// odd rows.
type pairRenderer struct{}

func (pairRenderer) RenderRaw(tileset, typ, width, height int) [][]uint16 {
	data := make([][]uint16, height)
	for y := range data {
		row := make([]uint16, width)
		id := uint8(0x40)
		if y%2 == 1 {
			id = 0x50
		}
		for x := range row {
			row[x] = Compose(tileset, id)
		}
		data[y] = row
	}
	return data
}

func TestBottomRowSpecial(t *testing.T) {
	table := mapTable{
		name: "Pa1_nohara",
		entries: map[uint8]Entry{
			0x40: {Tiles: []uint8{0x40}, Special: SpecialDoubleTop},
			0x20: {Tiles: []uint8{0x20}},
		},
	}
	c := New(flatRenderer{tile: 0x20}, table, testRand())

	plain := [][]uint16{{Compose(0, 0x20), Compose(0, 0x20)}}
	if c.BottomRowSpecial(plain, "Pa1_nohara") {
		t.Error("plain bottom row reported special")
	}

	special := [][]uint16{
		{Compose(0, 0x20), Compose(0, 0x20)},
		{Compose(0, 0x20), Compose(0, 0x40)},
	}
	if !c.BottomRowSpecial(special, "Pa1_nohara") {
		t.Error("double-top bottom row not reported special")
	}

	if c.BottomRowSpecial(special, "Pa2_unknown") {
		t.Error("unknown tileset reported special")
	}
}

func TestResizeNoOp(t *testing.T) {
	table := mapTable{
		name: "Pa1_nohara",
		entries: map[uint8]Entry{
			0x20: {Tiles: []uint8{0x20, 0x21}},
		},
	}
	c := New(flatRenderer{tile: 0x20}, table, testRand())
	data := c.Build(0, 5, "Pa1_nohara", 4, 3)

	snapshot := cloneGrid(data)
	got := c.Resize(data, 0, 5, "Pa1_nohara", 4, 3, 4, 3)

	if &got[0][0] != &data[0][0] {
		t.Error("no-op resize reallocated the grid")
	}
	if !gridsEqual(got, snapshot) {
		t.Error("no-op resize mutated tile content")
	}
}

func TestResizePatchesWhenPickedValueHasNoEntry(t *testing.T) {
	// The randomization output space may be wider than the keyed input
	// space. A grid holding such a value is still incrementally patchable:
	// the gate must consult the raw pattern tile, not the cached grid.
	table := mapTable{
		name: "Pa1_nohara",
		entries: map[uint8]Entry{
			0x20: {Tiles: []uint8{0x21, 0x22}},
		},
	}
	c := New(flatRenderer{tile: 0x20}, table, testRand())
	data := c.Build(0, 5, "Pa1_nohara", 3, 2)
	if _, ok := table.Lookup("Pa1_nohara", TileID(data[0][0])); ok {
		t.Fatal("want a randomized corner value outside the keyed input space")
	}

	snapshot := cloneGrid(data)
	got := c.Resize(data, 0, 5, "Pa1_nohara", 3, 2, 3, 2)
	if &got[0][0] != &data[0][0] {
		t.Error("no-op resize reallocated the grid")
	}
	if !gridsEqual(got, snapshot) {
		t.Error("no-op resize mutated tile content")
	}

	got = c.Resize(got, 0, 5, "Pa1_nohara", 3, 2, 5, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if got[y][x] != snapshot[y][x] {
				t.Errorf("surviving tile (%d,%d) = %#x, want %#x", x, y, got[y][x], snapshot[y][x])
			}
		}
	}
}

func TestResizeWithoutMetadataPreservesNothingButShape(t *testing.T) {
	// No metadata: resize falls back to a full re-render of the new shape.
	c := New(rowRenderer{}, nil, testRand())
	data := c.Build(0, 5, "other", 3, 2)
	got := c.Resize(data, 0, 5, "other", 3, 2, 4, 3)
	if len(got) != 3 || len(got[0]) != 4 {
		t.Fatalf("shape = %dx%d, want 4x3", len(got[0]), len(got))
	}
}

func TestResizeGrowPreservesSurvivingRegion(t *testing.T) {
	table := mapTable{
		name: "Pa1_nohara",
		entries: map[uint8]Entry{
			0xA0: {Tiles: []uint8{0xA0, 0xA1}},
			0xA1: {Tiles: []uint8{0xA0, 0xA1}},
			0xA2: {Tiles: []uint8{0xA2, 0xA3}},
		},
	}
	c := New(rowRenderer{}, table, testRand())
	data := c.Build(0, 5, "Pa1_nohara", 3, 2)
	snapshot := cloneGrid(data)

	got := c.Resize(data, 0, 5, "Pa1_nohara", 3, 2, 4, 3)
	if len(got) != 3 {
		t.Fatalf("rows = %d, want 3", len(got))
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if got[y][x] != snapshot[y][x] {
				t.Errorf("surviving tile (%d,%d) changed: %#x -> %#x", x, y, snapshot[y][x], got[y][x])
			}
		}
	}
	for y, row := range got {
		if len(row) != 4 {
			t.Errorf("row %d length = %d, want 4", y, len(row))
		}
	}
}

func TestResizeShrink(t *testing.T) {
	table := mapTable{
		name: "Pa1_nohara",
		entries: map[uint8]Entry{
			0xA0: {Tiles: []uint8{0xA0}},
		},
	}
	c := New(rowRenderer{}, table, testRand())
	data := c.Build(0, 5, "Pa1_nohara", 5, 4)
	snapshot := cloneGrid(data)

	got := c.Resize(data, 0, 5, "Pa1_nohara", 5, 4, 2, 2)
	if len(got) != 2 {
		t.Fatalf("rows = %d, want 2", len(got))
	}
	for y := 0; y < 2; y++ {
		if len(got[y]) != 2 {
			t.Fatalf("row %d length = %d, want 2", y, len(got[y]))
		}
		for x := 0; x < 2; x++ {
			if got[y][x] != snapshot[y][x] {
				t.Errorf("tile (%d,%d) changed on shrink", x, y)
			}
		}
	}
}

func TestResizeGrowRerendersSpecialBottomRow(t *testing.T) {
	// Grid whose bottom row is a double-top: growing downward must drop and
	// regenerate that row so the pair completes against the new row below.
	table := mapTable{
		name: "Pa1_nohara",
		entries: map[uint8]Entry{
			0x40: {Tiles: []uint8{0x40}, Special: SpecialDoubleTop},
			0x50: {Tiles: []uint8{0x50}, Special: SpecialDoubleBottom},
		},
	}
	c := New(pairRenderer{}, table, testRand())
	data := c.Build(0, 5, "Pa1_nohara", 2, 2)

	// Force a double-top bottom row (as after an odd-height render).
	data = append(data, []uint16{Compose(0, 0x40), Compose(0, 0x40)})
	got := c.Resize(data, 0, 5, "Pa1_nohara", 2, 3, 2, 4)

	if len(got) != 4 {
		t.Fatalf("rows = %d, want 4", len(got))
	}
	// The regenerated rows re-pair: row 3 is a double-bottom, row 2 holds
	// its partner.
	for x := 0; x < 2; x++ {
		if TileID(got[3][x]) != 0x50 {
			t.Errorf("tile (%d,3) = %#x, want double-bottom 0x50", x, got[3][x])
		}
		if got[2][x] != got[3][x]-PairOffset {
			t.Errorf("tile (%d,2) = %#x, want paired %#x", x, got[2][x], got[3][x]-PairOffset)
		}
	}
}

func TestResizeSequenceKeepsShape(t *testing.T) {
	table := mapTable{
		name: "Pa1_nohara",
		entries: map[uint8]Entry{
			0xA0: {Tiles: []uint8{0xA0, 0xA1}, Direction: DirHorizontal | DirVertical},
		},
	}
	c := New(rowRenderer{}, table, testRand())

	w, h := 3, 3
	data := c.Build(0, 5, "Pa1_nohara", w, h)
	steps := [][2]int{{5, 3}, {5, 6}, {2, 6}, {2, 1}, {1, 1}, {8, 8}, {8, 2}, {3, 3}}
	for _, step := range steps {
		data = c.Resize(data, 0, 5, "Pa1_nohara", w, h, step[0], step[1])
		w, h = step[0], step[1]
		if len(data) != h {
			t.Fatalf("after resize to %dx%d: rows = %d", w, h, len(data))
		}
		for y, row := range data {
			if len(row) != w {
				t.Fatalf("after resize to %dx%d: row %d length = %d", w, h, y, len(row))
			}
		}
	}
}

func cloneGrid(data [][]uint16) [][]uint16 {
	out := make([][]uint16, len(data))
	for y, row := range data {
		out[y] = append([]uint16(nil), row...)
	}
	return out
}

func gridsEqual(a, b [][]uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for y := range a {
		if len(a[y]) != len(b[y]) {
			return false
		}
		for x := range a[y] {
			if a[y][x] != b[y][x] {
				return false
			}
		}
	}
	return true
}
