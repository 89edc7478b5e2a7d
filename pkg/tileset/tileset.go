// Package tileset supplies the two collaborators the grid compositor
// consumes: per-tileset randomization metadata and the raw object render
// primitive.
//
// Metadata is loaded from TOML files (see [LoadTable]). Object definitions
// describe the tile pattern of each placeable object; [Registry.RenderRaw]
// stretches a pattern to any requested size by repeating its interior rows
// and columns, keeping the pattern edges on the object edges.
package tileset

import (
	"github.com/tiledraft/tiledraft/pkg/grid"
)

// SlotCount is the number of tileset slots an area can have loaded at once.
const SlotCount = 4

// Table holds randomization metadata for any number of tilesets, keyed by
// tileset display name. The zero value is an empty table: nothing is
// randomized. Table implements [grid.Table].
type Table struct {
	groups map[string]map[uint8]grid.Entry
}

// Randomized reports whether the named tileset carries any metadata.
func (t *Table) Randomized(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.groups[name]
	return ok
}

// Lookup returns the metadata entry for one raw tile id within the named
// tileset.
func (t *Table) Lookup(name string, tile uint8) (grid.Entry, bool) {
	if t == nil {
		return grid.Entry{}, false
	}
	tiles, ok := t.groups[name]
	if !ok {
		return grid.Entry{}, false
	}
	e, ok := tiles[tile]
	return e, ok
}

// Names returns the tileset names present in the table, in no particular
// order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.groups))
	for name := range t.groups {
		names = append(names, name)
	}
	return names
}

// Entries returns a copy of the per-tile entries for one tileset name.
func (t *Table) Entries(name string) map[uint8]grid.Entry {
	out := map[uint8]grid.Entry{}
	for tile, e := range t.groups[name] {
		out[tile] = e
	}
	return out
}

// set inserts entries for one tileset, creating the bucket on first use.
func (t *Table) set(name string, entries map[uint8]grid.Entry) {
	if t.groups == nil {
		t.groups = map[string]map[uint8]grid.Entry{}
	}
	t.groups[name] = entries
}

// ObjectDef is the tile pattern for one placeable object type. Pattern rows
// hold raw tile ids; the render primitive composes them with the tileset
// slot. A pattern must have at least one row of at least one tile to render
// anything.
type ObjectDef struct {
	Name string
	Rows [][]uint8
}

// Tileset is one loaded tileset slot: a display name (the metadata key) plus
// its object definition table.
type Tileset struct {
	Name    string
	Objects []*ObjectDef
}

// Registry holds the loaded tileset slots and implements [grid.Renderer].
// Unloaded slots and out-of-range object types render as zero-filled grids;
// the render primitive is total by contract.
type Registry struct {
	Slots [SlotCount]*Tileset
}

// Name returns the display name of a slot, or "" when the slot is empty or
// out of range.
func (r *Registry) Name(slot int) string {
	if r == nil || slot < 0 || slot >= SlotCount || r.Slots[slot] == nil {
		return ""
	}
	return r.Slots[slot].Name
}

// Object returns the definition for (slot, typ), or nil when absent.
func (r *Registry) Object(slot, typ int) *ObjectDef {
	if r == nil || slot < 0 || slot >= SlotCount || r.Slots[slot] == nil {
		return nil
	}
	if typ < 0 || typ >= len(r.Slots[slot].Objects) {
		return nil
	}
	return r.Slots[slot].Objects[typ]
}

// ObjectCount returns the number of object definitions in a slot.
func (r *Registry) ObjectCount(slot int) int {
	if r == nil || slot < 0 || slot >= SlotCount || r.Slots[slot] == nil {
		return 0
	}
	return len(r.Slots[slot].Objects)
}

// RenderRaw renders the unrandomized tile grid for an object at the requested
// size. The pattern's first and last rows stay on the top and bottom edges,
// its first and last columns on the left and right edges, and the interior
// repeats to fill the remaining space. A missing definition yields a
// zero-filled grid of the requested shape.
func (r *Registry) RenderRaw(slot, typ, width, height int) [][]uint16 {
	data := make([][]uint16, height)
	for y := range data {
		data[y] = make([]uint16, width)
	}

	def := r.Object(slot, typ)
	if def == nil || len(def.Rows) == 0 {
		return data
	}

	rowIdx := stretch(len(def.Rows), height)
	for y := 0; y < height; y++ {
		src := def.Rows[rowIdx[y]]
		if len(src) == 0 {
			continue
		}
		colIdx := stretch(len(src), width)
		for x := 0; x < width; x++ {
			data[y][x] = grid.Compose(slot, src[colIdx[x]])
		}
	}
	return data
}

// stretch maps target indices onto pattern indices. The first and last
// pattern entries are pinned to the target edges; interior entries cycle to
// fill the middle. When the target is smaller than the pattern, the pattern
// is truncated except that the last entry keeps the far edge.
func stretch(n, target int) []int {
	idx := make([]int, target)
	switch {
	case n <= 1 || target == 1:
		// All first-entry: a 1-tall slice of a ground pattern shows its top.
	case target <= n:
		for i := 0; i < target-1; i++ {
			idx[i] = i
		}
		idx[target-1] = n - 1
	default:
		idx[target-1] = n - 1
		interior := n - 2
		for i := 1; i < target-1; i++ {
			if interior == 0 {
				// Two-entry pattern: repeat the first through the middle.
				continue
			}
			idx[i] = 1 + (i-1)%interior
		}
	}
	return idx
}
