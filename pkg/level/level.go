// Package level holds the in-memory model of an open level: three z-ordered
// object layers, the placed object instances with their composited tile
// grids, and free-floating marker items. It owns no file format; levels are
// built and mutated entirely through its API.
//
// # Coordinates
//
// Two coordinate systems appear throughout the editor. Level units are the
// fine position grid: one block is [BlockSize] units on a side. Object
// geometry (origin, width, height) is in whole blocks; marker items position
// in units. [Item.Position] always reports an item's native coordinates,
// while [Item.Bounds] is always in units so rectangles from different item
// kinds can be unioned for redraw requests.
package level

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/tiledraft/tiledraft/pkg/grid"
	"github.com/tiledraft/tiledraft/pkg/tileset"
)

// BlockSize is the side of one block in level units. Objects sit on the
// block grid; the fine position grid subdivides it.
const BlockSize = 24

// LayerCount is the number of object layers (background, main, foreground).
const LayerCount = 3

// Kind tags a selectable item. Selection-composition checks branch on the
// tag instead of inspecting concrete types.
type Kind int

const (
	// KindObject marks tile-grid objects, which snap to whole blocks.
	KindObject Kind = iota
	// KindOther marks everything else (sprites, entrances, comments in the
	// full editor), which snaps to the fine grid.
	KindOther
)

// Rect is an axis-aligned rectangle in level units.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Union returns the smallest rectangle covering both r and o. An empty
// rectangle acts as the identity.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x1, y1 := min(r.X, o.X), min(r.Y, o.Y)
	x2 := max(r.X+r.W, o.X+o.W)
	y2 := max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Contains reports whether the point (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Item is any selectable entity in the editor.
type Item interface {
	ID() uuid.UUID
	Kind() Kind

	// Position and SetPosition use the item's native coordinates: block
	// cells for objects, level units for everything else.
	Position() (x, y int)
	SetPosition(x, y int)

	// Bounds is the item's footprint in level units.
	Bounds() Rect

	// Describe returns a short human-readable summary for tooltips and the
	// status bar.
	Describe() string
}

// Layer is one ordered object layer. Slice order is z-order: later entries
// draw above earlier ones.
type Layer struct {
	Objects []*ObjectInstance
	Visible bool
}

// Remove deletes o from the layer, preserving the order of the rest.
func (l *Layer) Remove(o *ObjectInstance) {
	for i, cur := range l.Objects {
		if cur == o {
			l.Objects = append(l.Objects[:i], l.Objects[i+1:]...)
			return
		}
	}
}

// insertAbove places obj directly above anchor in z-order, or on top when
// anchor is not in the layer.
func (l *Layer) insertAbove(anchor, obj *ObjectInstance) {
	for i, cur := range l.Objects {
		if cur == anchor {
			l.Objects = append(l.Objects[:i+1], append([]*ObjectInstance{obj}, l.Objects[i+1:]...)...)
			return
		}
	}
	l.Objects = append(l.Objects, obj)
}

// Level is one open level area.
type Level struct {
	// Width and Height are the level bounds in units. Positions are clamped
	// into [0, Width] x [0, Height] by the snap layer.
	Width, Height int

	Layers  [LayerCount]*Layer
	Markers []*Marker

	// PositionChanged, when set, fires on every committed discrete move with
	// the item's native coordinates. The CLI uses it for the status bar and
	// the undo sink observes the same commits.
	PositionChanged func(item Item, oldX, oldY, newX, newY int)

	comp *grid.Compositor
	reg  *tileset.Registry
}

// New creates an empty level. reg supplies object definitions and tileset
// names; table supplies randomization metadata and may be nil; rng seeds the
// compositor and may be nil for a time-seeded source.
func New(reg *tileset.Registry, table grid.Table, rng *rand.Rand, width, height int) *Level {
	l := &Level{
		Width:  width,
		Height: height,
		comp:   grid.New(reg, table, rng),
		reg:    reg,
	}
	for i := range l.Layers {
		l.Layers[i] = &Layer{Visible: true}
	}
	return l
}

// Registry returns the tileset registry the level renders from.
func (l *Level) Registry() *tileset.Registry {
	return l.reg
}

// CreateObject places a new object and returns it. The tile grid is fully
// rendered (and randomized where metadata applies) at construction.
func (l *Level) CreateObject(slot, typ, layer, x, y, w, h int) *ObjectInstance {
	o := &ObjectInstance{
		id:      uuid.New(),
		Tileset: slot,
		Type:    typ,
		Layer:   layer,
		X:       x,
		Y:       y,
		W:       w,
		H:       h,
		level:   l,
	}
	o.Rebuild()
	l.Layers[layer].Objects = append(l.Layers[layer].Objects, o)
	return o
}

// DeleteObject removes an object from its layer.
func (l *Level) DeleteObject(o *ObjectInstance) {
	l.Layers[o.Layer].Remove(o)
}

// CloneObject creates a copy of o with identical tileset, type, position and
// size, inserted directly above o in z-order. The clone renders its own tile
// grid, so randomized tiles may differ from the original's.
func (l *Level) CloneObject(o *ObjectInstance) *ObjectInstance {
	clone := &ObjectInstance{
		id:      uuid.New(),
		Tileset: o.Tileset,
		Type:    o.Type,
		Layer:   o.Layer,
		X:       o.X,
		Y:       o.Y,
		W:       o.W,
		H:       o.H,
		level:   l,
	}
	clone.Rebuild()
	l.Layers[o.Layer].insertAbove(o, clone)
	return clone
}

// ChangeLayer moves an object to another layer, appending it on top. An
// object belongs to exactly one layer at a time.
func (l *Level) ChangeLayer(o *ObjectInstance, layer int) {
	if layer == o.Layer {
		return
	}
	l.Layers[o.Layer].Remove(o)
	o.Layer = layer
	l.Layers[layer].Objects = append(l.Layers[layer].Objects, o)
}

// MoveItem commits a position change in the item's native coordinates.
// It reports whether the position actually changed; an unchanged position is
// a no-op and fires no notification.
func (l *Level) MoveItem(item Item, x, y int) bool {
	oldX, oldY := item.Position()
	if x == oldX && y == oldY {
		return false
	}
	item.SetPosition(x, y)
	if l.PositionChanged != nil {
		l.PositionChanged(item, oldX, oldY, x, y)
	}
	return true
}

// ObjectAt returns the topmost object on the given layer covering the block
// cell (cx, cy), or nil.
func (l *Level) ObjectAt(layer, cx, cy int) *ObjectInstance {
	objs := l.Layers[layer].Objects
	for i := len(objs) - 1; i >= 0; i-- {
		o := objs[i]
		if cx >= o.X && cx < o.X+o.W && cy >= o.Y && cy < o.Y+o.H {
			return o
		}
	}
	return nil
}

// AddMarker places a free-floating marker item at (x, y) units.
func (l *Level) AddMarker(label string, x, y int) *Marker {
	m := &Marker{id: uuid.New(), Label: label, X: x, Y: y}
	l.Markers = append(l.Markers, m)
	return m
}

// ObjectInstance is one placed object: block-grid geometry plus the
// composited tile grid the compositor maintains for it. The tile grid is
// owned exclusively by the instance and is only ever replaced through
// Rebuild and Resize.
type ObjectInstance struct {
	id      uuid.UUID
	Tileset int // tileset slot, 0..tileset.SlotCount-1
	Type    int // object definition index within the slot
	Layer   int
	X, Y    int // origin in block cells
	W, H    int // size in block cells, always >= 1
	level   *Level
	tiles   [][]uint16
}

// ID returns the instance's stable identity.
func (o *ObjectInstance) ID() uuid.UUID { return o.id }

// Kind returns KindObject.
func (o *ObjectInstance) Kind() Kind { return KindObject }

// Position returns the origin in block cells.
func (o *ObjectInstance) Position() (int, int) { return o.X, o.Y }

// SetPosition moves the origin to block cell (x, y).
func (o *ObjectInstance) SetPosition(x, y int) { o.X, o.Y = x, y }

// Bounds returns the object's footprint in level units.
func (o *ObjectInstance) Bounds() Rect {
	return Rect{X: o.X * BlockSize, Y: o.Y * BlockSize, W: o.W * BlockSize, H: o.H * BlockSize}
}

// Describe summarizes the object for tooltips and the status bar.
func (o *ObjectInstance) Describe() string {
	return fmt.Sprintf("object %d/%d at (%d, %d) size %dx%d layer %d",
		o.Tileset, o.Type, o.X, o.Y, o.W, o.H, o.Layer)
}

// Tiles exposes the composited tile grid. Rows are top to bottom; callers
// must not mutate the returned slices.
func (o *ObjectInstance) Tiles() [][]uint16 { return o.tiles }

// TileAt returns the composited tile at grid-local (x, y).
func (o *ObjectInstance) TileAt(x, y int) uint16 { return o.tiles[y][x] }

// Rebuild fully re-renders the tile grid. Used at construction and after a
// type change or tileset reload.
func (o *ObjectInstance) Rebuild() {
	name := o.level.reg.Name(o.Tileset)
	o.tiles = o.level.comp.Build(o.Tileset, o.Type, name, o.W, o.H)
}

// SetType changes the object definition and re-renders.
func (o *ObjectInstance) SetType(slot, typ int) {
	o.Tileset = slot
	o.Type = typ
	o.Rebuild()
}

// Resize commits a new size, patching the tile grid incrementally where
// randomization metadata allows. Sizes below one block are ignored; callers
// enforce the floor before committing.
func (o *ObjectInstance) Resize(w, h int) {
	if w < 1 || h < 1 {
		return
	}
	name := o.level.reg.Name(o.Tileset)
	o.tiles = o.level.comp.Resize(o.tiles, o.Tileset, o.Type, name, o.W, o.H, w, h)
	o.W, o.H = w, h
}

// Marker is a free-floating point item: the stand-in for the sprite,
// entrance and comment item kinds of the full editor. Markers position on
// the fine unit grid and participate in selection and snapping.
type Marker struct {
	id    uuid.UUID
	Label string
	X, Y  int // position in units
}

// ID returns the marker's stable identity.
func (m *Marker) ID() uuid.UUID { return m.id }

// Kind returns KindOther.
func (m *Marker) Kind() Kind { return KindOther }

// Position returns the marker position in units.
func (m *Marker) Position() (int, int) { return m.X, m.Y }

// SetPosition moves the marker to (x, y) units.
func (m *Marker) SetPosition(x, y int) { m.X, m.Y = x, y }

// Bounds returns a one-block footprint in units.
func (m *Marker) Bounds() Rect {
	return Rect{X: m.X, Y: m.Y, W: BlockSize, H: BlockSize}
}

// Describe summarizes the marker for tooltips and the status bar.
func (m *Marker) Describe() string {
	return fmt.Sprintf("%s at (%d, %d)", m.Label, m.X, m.Y)
}
