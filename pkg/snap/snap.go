// Package snap computes snapped target positions for freely moved items.
//
// The granularity depends on modifier keys and on what else is selected:
// objects always land on whole blocks, lone items land on the fine-coarse
// grid, and mixed multi-selections keep their relative spacing through
// per-item drag offsets while still settling on a common grid. All state is
// carried explicitly in a [Context]; there are no package-level flags.
package snap

import (
	"github.com/google/uuid"

	"github.com/tiledraft/tiledraft/pkg/level"
)

// Grid granularities in level units.
const (
	// FineStep is the smallest addressable position unit.
	FineStep = 1
	// CoarseStep is the default snap grid for free items.
	CoarseStep = level.BlockSize / 3
	// BlockStep snaps to whole blocks, used by objects and by free items
	// dragged together with objects.
	BlockStep = level.BlockSize
)

// Offset is a per-item drag offset in level units, captured at drag start so
// items in a multi-selection keep their spacing relative to the drag grid.
type Offset struct {
	X, Y int
}

// Context is the explicit snapping state threaded through every move. One
// Context lives on the editor; gestures update the drag offsets on pointer
// down and the override flag around paste and shift operations.
type Context struct {
	// Override disables all snapping while set. Paste and shift-selection
	// operations set it to preserve exact relative offsets.
	Override bool

	// Fine, while set (alternate modifier held), snaps to FineStep only.
	Fine bool

	offsets map[uuid.UUID]Offset
}

// NewContext returns an empty snapping context.
func NewContext() *Context {
	return &Context{offsets: map[uuid.UUID]Offset{}}
}

// SetDragOffset stores the drag offset for one item, captured at drag start.
func (c *Context) SetDragOffset(id uuid.UUID, off Offset) {
	c.offsets[id] = off
}

// DragOffset returns the stored offset for an item, zero when none is set.
func (c *Context) DragOffset(id uuid.UUID) Offset {
	return c.offsets[id]
}

// ClearDragOffsets drops all stored offsets, typically on pointer up.
func (c *Context) ClearDragOffsets() {
	clear(c.offsets)
}

// Request describes one candidate move for the policy to project.
type Request struct {
	Item level.Item
	X, Y int // candidate position, level units

	// Selected reports whether Item is part of the current selection.
	Selected bool
	// SelectionSize is the number of currently selected items.
	SelectionSize int
	// SelectionHasObject reports whether any selected item is KindObject.
	SelectionHasObject bool

	// Bounds is the level rectangle positions are clamped into.
	Bounds level.Rect
}

// Snap projects a candidate position onto the active snap grid and clamps it
// into the level bounds. Snapping is a projection: applying it to an
// already-snapped position returns the same position.
func (c *Context) Snap(req Request) (int, int) {
	x, y := req.X, req.Y

	switch {
	case c.Override:
		// Exact positions, e.g. during paste.
	case req.Item.Kind() == level.KindObject:
		// Objects sit on whole blocks unconditionally.
		x = snapTo(x, BlockStep, 0)
		y = snapTo(y, BlockStep, 0)
	case c.Fine:
		x = snapTo(x, FineStep, 0)
		y = snapTo(y, FineStep, 0)
	case req.Selected && req.SelectionHasObject:
		// Dragged together with block-grid objects: stay block-aligned but
		// keep this item's spacing within the selection.
		off := c.DragOffset(req.Item.ID())
		x = snapTo(x, BlockStep, off.X)
		y = snapTo(y, BlockStep, off.Y)
	case req.Selected && req.SelectionSize > 1:
		off := c.DragOffset(req.Item.ID())
		x = snapTo(x, CoarseStep, off.X)
		y = snapTo(y, CoarseStep, off.Y)
	default:
		x = snapTo(x, CoarseStep, 0)
		y = snapTo(y, CoarseStep, 0)
	}

	return clamp(x, req.Bounds.X, req.Bounds.X+req.Bounds.W),
		clamp(y, req.Bounds.Y, req.Bounds.Y+req.Bounds.H)
}

// snapTo rounds v to the nearest multiple of step, shifted by off so the
// snapped lattice passes through the item's drag-start position.
func snapTo(v, step, off int) int {
	if step <= 1 {
		return v
	}
	off %= step
	if off < 0 {
		off += step
	}
	return floorDiv(v-off+step/2, step)*step + off
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
