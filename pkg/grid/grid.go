// Package grid builds and incrementally maintains the composited tile grid
// of a placed level object.
//
// A placed object covers a rectangle of whole blocks. Its visible tiles are
// produced in two steps: a raw render from the object definition (pure, no
// randomness) followed by an optional randomization pass driven by tileset
// metadata. Resizing an object does not re-render the whole grid when
// metadata is available; only the appended rows and columns are rendered and
// randomized, so tiles the user has already seen stay put.
//
// # Tile values
//
// A tile is a uint16: the low byte is the tile id within its tileset, the
// high byte selects the tileset slot. Compose values with [Compose] and
// recover the id with [TileID].
//
// # Randomization metadata
//
// Metadata is supplied through the [Table] interface, keyed by the tileset's
// display name. A missing table, an unknown tileset name, or an unknown tile
// id are all normal states: the affected tile (or the whole grid) is simply
// left unrandomized. No operation in this package fails.
package grid

import (
	"fmt"
	"math/rand"
	"time"
)

// Direction bits: which already-generated neighbors a randomized tile must
// differ from.
const (
	DirHorizontal = 0b01 // differ from the left neighbor
	DirVertical   = 0b10 // differ from the top neighbor
)

// Special bits for vertically paired tiles. The paired top-half tile sits one
// row earlier in the tile sheet, so its id is always the bottom id minus
// [PairOffset].
const (
	SpecialDoubleTop    = 0b01 // top half of a vertical pair
	SpecialDoubleBottom = 0b10 // bottom half of a vertical pair
)

// PairOffset is the tile-id distance between the bottom and top halves of a
// vertically paired tile (one sheet row of 16 tiles).
const PairOffset = 0x10

// Entry is the randomization metadata for a single raw tile id.
type Entry struct {
	Tiles     []uint8 // candidate replacement ids
	Direction uint8   // DirHorizontal | DirVertical
	Special   uint8   // SpecialDoubleTop | SpecialDoubleBottom
}

// Table exposes per-tileset randomization metadata. Implementations must be
// safe for repeated lookups; they are consulted once per tile.
type Table interface {
	// Randomized reports whether the named tileset has any randomization
	// metadata at all.
	Randomized(tilesetName string) bool

	// Lookup returns the metadata for one raw tile id within the named
	// tileset. The second return is false when the tile has no entry.
	Lookup(tilesetName string, tile uint8) (Entry, bool)
}

// Renderer produces the unrandomized tile grid for an object. It is total: an
// out-of-range tileset slot or object type must yield a zero-filled grid of
// the requested shape rather than an error.
type Renderer interface {
	RenderRaw(tileset, typ, width, height int) [][]uint16
}

// Compose builds a stored tile value from a tileset slot and a tile id.
func Compose(tileset int, tile uint8) uint16 {
	return uint16(tileset)<<8 | uint16(tile)
}

// TileID extracts the low-byte tile id from a stored value.
func TileID(v uint16) uint8 {
	return uint8(v & 0xFF)
}

// Compositor renders and randomizes object tile grids. The zero value is not
// usable; construct with [New]. A nil table disables randomization entirely,
// which is the normal state for tilesets without metadata.
//
// The compositor is stateless with respect to any particular object: callers
// own the [][]uint16 buffers and pass them back in for incremental updates.
type Compositor struct {
	renderer Renderer
	table    Table
	rng      *rand.Rand
}

// New creates a compositor. renderer must be non-nil. table may be nil (no
// randomization). rng may be nil, in which case a time-seeded source is used;
// tests pass a fixed-seed source for deterministic choices.
func New(renderer Renderer, table Table, rng *rand.Rand) *Compositor {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Compositor{renderer: renderer, table: table, rng: rng}
}

// Build renders a full grid for the object and randomizes it when metadata
// for tilesetName is present. The returned grid is freshly allocated and has
// exactly height rows of width tiles.
func (c *Compositor) Build(tileset, typ int, tilesetName string, width, height int) [][]uint16 {
	data := c.renderer.RenderRaw(tileset, typ, width, height)
	if c.table != nil && c.table.Randomized(tilesetName) {
		c.Randomize(data, tileset, tilesetName, 0, 0, width, height)
	}
	mustShape(data, width, height)
	return data
}

// Randomize applies tileset randomization in place to the sub-rectangle of
// data starting at (startX, startY) spanning width x height tiles. Cells
// without metadata are left untouched. Neighbor exclusion looks at the left
// and top neighbors only; tiles to the right and below have not been
// generated yet when a cell is visited.
func (c *Compositor) Randomize(data [][]uint16, tileset int, tilesetName string, startX, startY, width, height int) {
	if c.table == nil || !c.table.Randomized(tilesetName) {
		return
	}

	for y := startY; y < startY+height; y++ {
		for x := startX; x < startX+width; x++ {
			entry, ok := c.table.Lookup(tilesetName, TileID(data[y][x]))
			if !ok {
				continue
			}

			// The top half of a vertical pair is written when its bottom
			// half is visited, one row later.
			if entry.Special&SpecialDoubleTop != 0 {
				continue
			}

			candidates := entry.Tiles
			filtered := make([]uint8, 0, len(candidates))
			left, hasLeft := neighborLeft(data, x, y, entry.Direction)
			top, hasTop := neighborTop(data, x, y, entry.Direction)
			for _, t := range candidates {
				if hasLeft && t == left {
					continue
				}
				if hasTop && t == top {
					continue
				}
				filtered = append(filtered, t)
			}
			// Excluding every candidate would leave nothing to pick from;
			// fall back to the unfiltered set and accept a repeat.
			if len(filtered) == 0 {
				filtered = candidates
			}
			if len(filtered) == 0 {
				continue
			}

			choice := Compose(tileset, filtered[c.rng.Intn(len(filtered))])
			data[y][x] = choice

			if entry.Special&SpecialDoubleBottom != 0 {
				if y > 0 {
					data[y-1][x] = choice - PairOffset
				}
				// With y == 0 the paired top half would fall outside the
				// grid. The game resolves this by spilling into the block
				// above the object; growing the grid upward is out of scope
				// here, so the pairing stays unresolved.
			}
		}
	}
}

func neighborLeft(data [][]uint16, x, y int, dir uint8) (uint8, bool) {
	if dir&DirHorizontal == 0 || x == 0 {
		return 0, false
	}
	return TileID(data[y][x-1]), true
}

func neighborTop(data [][]uint16, x, y int, dir uint8) (uint8, bool) {
	if dir&DirVertical == 0 || y == 0 {
		return 0, false
	}
	return TileID(data[y-1][x]), true
}

// BottomRowSpecial reports whether the last row of data contains the top half
// of a vertical pair. Such a row must be re-rendered when the object grows
// downward, so the pair can complete against the newly added row.
func (c *Compositor) BottomRowSpecial(data [][]uint16, tilesetName string) bool {
	if c.table == nil || !c.table.Randomized(tilesetName) || len(data) == 0 {
		return false
	}
	last := data[len(data)-1]
	for _, v := range last {
		entry, ok := c.table.Lookup(tilesetName, TileID(v))
		if !ok {
			continue
		}
		if entry.Special&SpecialDoubleTop != 0 {
			return true
		}
	}
	return false
}

// Resize patches data from (curWidth, curHeight) to (newWidth, newHeight) and
// returns the updated grid. Tiles inside the surviving rectangle are never
// regenerated. Height is adjusted before width. When no randomization
// metadata applies to the object, patching buys nothing and the grid is fully
// re-rendered instead.
//
// If the current bottom row holds the top half of a vertical pair and the
// object grows downward, that row is re-rendered along with the new rows so
// the pair can re-form.
func (c *Compositor) Resize(data [][]uint16, tileset, typ int, tilesetName string, curWidth, curHeight, newWidth, newHeight int) [][]uint16 {
	if !c.randomizable(tileset, typ, tilesetName) {
		return c.Build(tileset, typ, tilesetName, newWidth, newHeight)
	}

	if newWidth == curWidth && newHeight == curHeight {
		return data
	}

	if newHeight < curHeight {
		data = data[:newHeight]
	} else if newHeight > curHeight {
		if c.BottomRowSpecial(data, tilesetName) {
			data = data[:len(data)-1]
			curHeight--
		}
		extra := c.renderer.RenderRaw(tileset, typ, curWidth, newHeight-curHeight)
		data = append(data, extra...)
		c.Randomize(data, tileset, tilesetName, 0, curHeight, curWidth, newHeight-curHeight)
	}

	if newWidth < curWidth {
		for y := range data {
			data[y] = data[y][:newWidth]
		}
	} else if newWidth > curWidth {
		cols := c.renderer.RenderRaw(tileset, typ, newWidth-curWidth, newHeight)
		for y := range data {
			data[y] = append(data[y], cols[y]...)
		}
		c.Randomize(data, tileset, tilesetName, curWidth, 0, newWidth-curWidth, newHeight)
	}

	mustShape(data, newWidth, newHeight)
	return data
}

// randomizable reports whether incremental patching is worthwhile: the
// tileset must have metadata and the object definition's first tile must
// carry an entry. The check consults the raw pattern, not the cached grid: a
// randomization entry may pick values with no entries of their own, and a
// grid holding such a value is still incrementally patchable.
func (c *Compositor) randomizable(tileset, typ int, tilesetName string) bool {
	if c.table == nil || !c.table.Randomized(tilesetName) {
		return false
	}
	raw := c.renderer.RenderRaw(tileset, typ, 1, 1)
	if len(raw) == 0 || len(raw[0]) == 0 {
		return false
	}
	_, ok := c.table.Lookup(tilesetName, TileID(raw[0][0]))
	return ok
}

// mustShape enforces the grid-shape invariant. A ragged grid means a bug in
// this package; nothing downstream can recover from it, so fail loudly.
func mustShape(data [][]uint16, width, height int) {
	if len(data) != height {
		panic(fmt.Sprintf("grid: %d rows, want %d", len(data), height))
	}
	for y, row := range data {
		if len(row) != width {
			panic(fmt.Sprintf("grid: row %d has %d tiles, want %d", y, len(row), width))
		}
	}
}
