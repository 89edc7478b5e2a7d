package tileset

import (
	"testing"

	"github.com/tiledraft/tiledraft/pkg/errors"
	"github.com/tiledraft/tiledraft/pkg/grid"
)

const sampleMetadata = `
[types.ground]
range = [0x20, 0x23]
direction = "horizontal"

[[tileset."Pa1_nohara".random]]
name = "ground"

[[tileset."Pa1_nohara".random]]
list = [0x40]
values = [0x40, 0x41, 0x42]
direction = "vertical"
special = "double-bottom"

[[tileset."Pa1_nohara".object]]
name = "Grass block"
rows = [[0x20], [0x30]]

[[tileset."Pa1_nohara".object]]
name = "Pipe"
rows = [[0x60, 0x61]]
`

func TestParseRangeIsInclusive(t *testing.T) {
	table, _, err := Parse([]byte(sampleMetadata))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	for tile := uint8(0x20); tile <= 0x23; tile++ {
		e, ok := table.Lookup("Pa1_nohara", tile)
		if !ok {
			t.Fatalf("tile %#x missing from table", tile)
		}
		if len(e.Tiles) != 4 {
			t.Fatalf("tile %#x candidates = %d, want 4", tile, len(e.Tiles))
		}
		if e.Direction != grid.DirHorizontal {
			t.Fatalf("tile %#x direction = %#b, want horizontal", tile, e.Direction)
		}
	}
	if _, ok := table.Lookup("Pa1_nohara", 0x24); ok {
		t.Fatal("range upper bound is not inclusive-exclusive as expected")
	}
}

func TestParseNamedTypeReuse(t *testing.T) {
	raw := sampleMetadata + `
[[tileset."Pa1_daishizen".random]]
name = "ground"
`
	table, _, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	a, _ := table.Lookup("Pa1_nohara", 0x20)
	b, ok := table.Lookup("Pa1_daishizen", 0x20)
	if !ok {
		t.Fatal("named type not merged into second tileset")
	}
	if a.Direction != b.Direction || len(a.Tiles) != len(b.Tiles) {
		t.Fatal("named type entries differ between tilesets")
	}
}

func TestParseValuesAndSpecial(t *testing.T) {
	table, _, err := Parse([]byte(sampleMetadata))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	e, ok := table.Lookup("Pa1_nohara", 0x40)
	if !ok {
		t.Fatal("list entry missing")
	}
	if len(e.Tiles) != 3 {
		t.Fatalf("candidates = %d, want 3 from values", len(e.Tiles))
	}
	if e.Direction != grid.DirVertical {
		t.Fatalf("direction = %#b, want vertical", e.Direction)
	}
	if e.Special != grid.SpecialDoubleBottom {
		t.Fatalf("special = %#b, want double-bottom", e.Special)
	}
}

func TestParseDirectionDefaultsToBoth(t *testing.T) {
	table, _, err := Parse([]byte(`
[[tileset."Pa0".random]]
list = [0x10]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	e, _ := table.Lookup("Pa0", 0x10)
	if e.Direction != grid.DirHorizontal|grid.DirVertical {
		t.Fatalf("direction = %#b, want both", e.Direction)
	}
}

func TestParseObjects(t *testing.T) {
	_, defs, err := Parse([]byte(sampleMetadata))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	objs := defs["Pa1_nohara"]
	if len(objs) != 2 {
		t.Fatalf("objects = %d, want 2", len(objs))
	}
	if objs[0].Name != "Grass block" || len(objs[0].Rows) != 2 {
		t.Fatalf("first object = %q with %d rows", objs[0].Name, len(objs[0].Rows))
	}
	if objs[1].Rows[0][1] != 0x61 {
		t.Fatalf("second object tile = %#x, want 0x61", objs[1].Rows[0][1])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unknown named type", `
[[tileset."Pa0".random]]
name = "nope"
`},
		{"missing input space", `
[[tileset."Pa0".random]]
values = [1, 2]
`},
		{"bad direction", `
[[tileset."Pa0".random]]
list = [1]
direction = "diagonal"
`},
		{"bad special", `
[[tileset."Pa0".random]]
list = [1]
special = "triple"
`},
		{"tile out of range", `
[[tileset."Pa0".random]]
list = [256]
`},
		{"object tile out of range", `
[[tileset."Pa0".object]]
name = "big"
rows = [[999]]
`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse([]byte(tc.raw))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidTileset) {
				t.Fatalf("code = %v, want invalid tileset", errors.GetCode(err))
			}
		})
	}
}

func TestParseRejectsMalformedTOML(t *testing.T) {
	_, _, err := Parse([]byte(`tileset = "not a table`))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Fatalf("code = %v, want invalid format", errors.GetCode(err))
	}
}

func TestRenderRawPinsEdges(t *testing.T) {
	reg := &Registry{}
	reg.Slots[1] = &Tileset{
		Name: "hills",
		Objects: []*ObjectDef{
			{Name: "ground", Rows: [][]uint8{{0x10, 0x11, 0x12}, {0x20, 0x21, 0x22}, {0x30, 0x31, 0x32}}},
		},
	}

	data := reg.RenderRaw(1, 0, 5, 4)
	if len(data) != 4 || len(data[0]) != 5 {
		t.Fatalf("shape %dx%d, want 5x4", len(data[0]), len(data))
	}

	// Corners keep the pattern corners.
	corners := []struct {
		y, x int
		tile uint8
	}{
		{0, 0, 0x10}, {0, 4, 0x12}, {3, 0, 0x30}, {3, 4, 0x32},
	}
	for _, c := range corners {
		if want := grid.Compose(1, c.tile); data[c.y][c.x] != want {
			t.Errorf("corner (%d, %d) = %#x, want %#x", c.x, c.y, data[c.y][c.x], want)
		}
	}
	// Interior comes from the pattern interior.
	if want := grid.Compose(1, 0x21); data[1][2] != want {
		t.Errorf("interior = %#x, want %#x", data[1][2], want)
	}
}

func TestRenderRawSingleRowShowsTop(t *testing.T) {
	reg := &Registry{}
	reg.Slots[0] = &Tileset{
		Name: "hills",
		Objects: []*ObjectDef{
			{Name: "ground", Rows: [][]uint8{{0x10}, {0x20}, {0x30}}},
		},
	}

	data := reg.RenderRaw(0, 0, 2, 1)
	if want := grid.Compose(0, 0x10); data[0][0] != want || data[0][1] != want {
		t.Fatalf("1-tall slice = %#x, want top row %#x", data[0][0], want)
	}
}

func TestRenderRawMissingDefinitionIsZeroFilled(t *testing.T) {
	reg := &Registry{}
	data := reg.RenderRaw(0, 7, 3, 2)
	if len(data) != 2 || len(data[0]) != 3 {
		t.Fatalf("shape %dx%d, want 3x2", len(data[0]), len(data))
	}
	for y := range data {
		for x := range data[y] {
			if data[y][x] != 0 {
				t.Fatalf("tile (%d, %d) = %#x, want 0", x, y, data[y][x])
			}
		}
	}
}

func TestStretch(t *testing.T) {
	tests := []struct {
		n, target int
		want      []int
	}{
		{3, 5, []int{0, 1, 1, 1, 2}},
		{4, 6, []int{0, 1, 2, 1, 2, 3}},
		{3, 2, []int{0, 2}},
		{3, 3, []int{0, 1, 2}},
		{5, 3, []int{0, 1, 4}},
		{2, 4, []int{0, 0, 0, 1}},
		{1, 4, []int{0, 0, 0, 0}},
		{3, 1, []int{0}},
	}
	for _, tc := range tests {
		got := stretch(tc.n, tc.target)
		if len(got) != len(tc.want) {
			t.Fatalf("stretch(%d, %d) len = %d, want %d", tc.n, tc.target, len(got), len(tc.want))
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("stretch(%d, %d) = %v, want %v", tc.n, tc.target, got, tc.want)
			}
		}
	}
}

func TestRegistrySlotAccess(t *testing.T) {
	reg := &Registry{}
	reg.Slots[2] = &Tileset{Name: "caves", Objects: []*ObjectDef{{Name: "wall", Rows: [][]uint8{{1}}}}}

	if reg.Name(2) != "caves" {
		t.Fatalf("Name(2) = %q", reg.Name(2))
	}
	if reg.Name(0) != "" || reg.Name(-1) != "" || reg.Name(SlotCount) != "" {
		t.Fatal("empty or out-of-range slot returned a name")
	}
	if reg.ObjectCount(2) != 1 || reg.ObjectCount(3) != 0 {
		t.Fatal("ObjectCount wrong")
	}
	if reg.Object(2, 0) == nil || reg.Object(2, 1) != nil {
		t.Fatal("Object lookup wrong")
	}
}
