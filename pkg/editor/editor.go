// Package editor ties the level model, the resize gesture protocol, the snap
// policy and the undo log together behind a pointer-event API. The host UI
// (the terminal front-end, or a test) feeds it pointer downs, moves and ups
// in level units; the editor mutates the level, requests redraws, marks the
// document dirty and records undo actions.
//
// All mutation happens synchronously on the calling goroutine. The editor
// assumes a single pointer stream: at most one gesture is active at a time.
package editor

import (
	"github.com/google/uuid"

	"github.com/tiledraft/tiledraft/pkg/gesture"
	"github.com/tiledraft/tiledraft/pkg/level"
	"github.com/tiledraft/tiledraft/pkg/observability"
	"github.com/tiledraft/tiledraft/pkg/snap"
	"github.com/tiledraft/tiledraft/pkg/undo"
)

// Modifiers is the modifier-key state accompanying a pointer event.
type Modifiers struct {
	// Clone (control): a press on an object clones it in place instead of
	// starting a drag.
	Clone bool
	// Fine (alternate): snap to the finest granularity while held.
	Fine bool
	// Extend (shift): add to the selection instead of replacing it.
	Extend bool
}

// moveDrag tracks one active move gesture: the pointer start and every
// selected item's start position in level units.
type moveDrag struct {
	startX, startY int
	starts         map[uuid.UUID]level.Rect // start bounds per item
	steps          int
}

// Editor is one editing session over a level.
type Editor struct {
	Level *level.Level
	Undo  *undo.Stack
	Snap  *snap.Context

	// CurrentLayer is the layer pointer events resolve objects on.
	CurrentLayer int

	// Redraw receives advisory repaint regions in level units. May be nil.
	Redraw func(level.Rect)
	// Dirty is notified on the first mutation after a save point. May be nil.
	Dirty func()

	selection []level.Item
	selected  map[uuid.UUID]bool

	resize *gesture.Gesture
	move   *moveDrag
	steps  int // commits in the active resize gesture
}

// New creates an editing session over lvl.
func New(lvl *level.Level) *Editor {
	return &Editor{
		Level:    lvl,
		Undo:     &undo.Stack{},
		Snap:     snap.NewContext(),
		selected: map[uuid.UUID]bool{},
	}
}

// =============================================================================
// Selection
// =============================================================================

// Select adds an item to the selection.
func (e *Editor) Select(item level.Item) {
	if e.selected[item.ID()] {
		return
	}
	e.selected[item.ID()] = true
	e.selection = append(e.selection, item)
	e.requestRedraw(item.Bounds())
}

// Deselect removes an item from the selection.
func (e *Editor) Deselect(item level.Item) {
	if !e.selected[item.ID()] {
		return
	}
	delete(e.selected, item.ID())
	for i, cur := range e.selection {
		if cur.ID() == item.ID() {
			e.selection = append(e.selection[:i], e.selection[i+1:]...)
			break
		}
	}
	e.requestRedraw(item.Bounds())
}

// ClearSelection empties the selection.
func (e *Editor) ClearSelection() {
	for _, item := range e.selection {
		e.requestRedraw(item.Bounds())
	}
	e.selection = nil
	e.selected = map[uuid.UUID]bool{}
}

// IsSelected reports whether an item is selected.
func (e *Editor) IsSelected(item level.Item) bool {
	return e.selected[item.ID()]
}

// Selection returns the selected items in selection order.
func (e *Editor) Selection() []level.Item {
	return e.selection
}

// SelectedObjects returns the selected object instances in selection order.
func (e *Editor) SelectedObjects() []*level.ObjectInstance {
	var objs []*level.ObjectInstance
	for _, item := range e.selection {
		if o, ok := item.(*level.ObjectInstance); ok {
			objs = append(objs, o)
		}
	}
	return objs
}

// selectionHasObject reports whether any selected item is an object.
func (e *Editor) selectionHasObject() bool {
	for _, item := range e.selection {
		if item.Kind() == level.KindObject {
			return true
		}
	}
	return false
}

// =============================================================================
// Pointer protocol
// =============================================================================

// ItemAt resolves the topmost item under a pointer position in level units:
// markers first, then objects on the current layer.
func (e *Editor) ItemAt(ux, uy int) level.Item {
	for i := len(e.Level.Markers) - 1; i >= 0; i-- {
		if e.Level.Markers[i].Bounds().Contains(ux, uy) {
			return e.Level.Markers[i]
		}
	}
	cx := floorDiv(ux, level.BlockSize)
	cy := floorDiv(uy, level.BlockSize)
	if o := e.Level.ObjectAt(e.CurrentLayer, cx, cy); o != nil {
		return o
	}
	return nil
}

// PointerDown begins a gesture. A press on a selected object's grabber
// starts a synchronized resize of every selected object; a press with the
// clone modifier duplicates the object in place; any other press on an item
// starts a move drag. A press on empty space clears the selection.
func (e *Editor) PointerDown(ux, uy int, mods Modifiers) {
	e.Snap.Fine = mods.Fine

	item := e.ItemAt(ux, uy)
	if item == nil {
		e.ClearSelection()
		return
	}

	if o, ok := item.(*level.ObjectInstance); ok {
		if mods.Clone {
			clone := e.Level.CloneObject(o)
			e.ClearSelection()
			e.Select(clone)
			e.markDirty()
			e.requestRedraw(clone.Bounds())
			return
		}

		if e.IsSelected(o) {
			b := o.Bounds()
			anchor := gesture.HitTest(o, float64(ux-b.X), float64(uy-b.Y))
			if anchor != gesture.AnchorNone {
				e.steps = 0
				e.resize = gesture.Begin(resizeHost{e}, o, anchor, e.SelectedObjects(), ux, uy)
				observability.Editor().OnGestureBegin("resize")
				e.requestRedraw(b)
				return
			}
		}
	}

	if !e.IsSelected(item) {
		if !mods.Extend {
			e.ClearSelection()
		}
		e.Select(item)
	}

	e.move = &moveDrag{startX: ux, startY: uy, starts: map[uuid.UUID]level.Rect{}}
	for _, sel := range e.selection {
		b := sel.Bounds()
		e.move.starts[sel.ID()] = b
		// The drag lattice for each item passes through its start position.
		e.Snap.SetDragOffset(sel.ID(), snap.Offset{X: b.X, Y: b.Y})
	}
	observability.Editor().OnGestureBegin("move")
}

// PointerMove advances the active gesture, if any.
func (e *Editor) PointerMove(ux, uy int, mods Modifiers) {
	e.Snap.Fine = mods.Fine

	if e.resize != nil {
		e.resize.Move(ux, uy)
		return
	}
	if e.move != nil {
		e.moveStep(ux, uy)
	}
}

// PointerUp ends the active gesture. Resize state committed so far stays
// committed; the undo record for the gesture is sealed so the next drag
// starts a fresh one.
func (e *Editor) PointerUp() {
	if e.resize != nil {
		e.resize.End()
		e.resize = nil
		observability.Editor().OnGestureEnd("resize", e.steps)
		e.requestRedrawAll()
	}
	if e.move != nil {
		observability.Editor().OnGestureEnd("move", e.move.steps)
		e.move = nil
	}
	e.Snap.ClearDragOffsets()
	e.Undo.Seal()
}

// moveStep applies one pointer move of a move drag: every selected item
// shifts by the pointer delta, snaps per policy, and commits only when its
// discrete position actually changed.
func (e *Editor) moveStep(ux, uy int) {
	dx, dy := ux-e.move.startX, uy-e.move.startY

	bounds := level.Rect{X: 0, Y: 0, W: e.Level.Width, H: e.Level.Height}
	var moves []*undo.Move
	var redraw level.Rect

	for _, item := range e.selection {
		start, ok := e.move.starts[item.ID()]
		if !ok {
			continue
		}
		sx, sy := e.Snap.Snap(snap.Request{
			Item:               item,
			X:                  start.X + dx,
			Y:                  start.Y + dy,
			Selected:           true,
			SelectionSize:      len(e.selection),
			SelectionHasObject: e.selectionHasObject(),
			Bounds:             bounds,
		})

		// Convert the snapped unit position to the item's native
		// coordinates; sub-cell jitter for an object is a no-op.
		nx, ny := sx, sy
		if item.Kind() == level.KindObject {
			nx = floorDiv(sx, level.BlockSize)
			ny = floorDiv(sy, level.BlockSize)
		}

		oldX, oldY := item.Position()
		oldBounds := item.Bounds()
		if !e.Level.MoveItem(item, nx, ny) {
			continue
		}
		moves = append(moves, undo.NewMove(item, oldX, oldY, nx, ny))
		redraw = redraw.Union(oldBounds).Union(item.Bounds())
	}

	if len(moves) == 0 {
		return
	}
	e.move.steps++

	if len(e.selection) > 1 {
		// One composite record per gesture step: undo restores the whole
		// selection together.
		all := make([]*undo.Move, 0, len(e.selection))
		seen := map[uuid.UUID]bool{}
		for _, m := range moves {
			all = append(all, m)
			seen[m.Item.ID()] = true
		}
		for _, item := range e.selection {
			if !seen[item.ID()] {
				x, y := item.Position()
				all = append(all, undo.NewMove(item, x, y, x, y))
			}
		}
		e.Undo.AddOrExtend(undo.NewSimultaneous(all...))
	} else {
		e.Undo.AddOrExtend(moves[0])
	}

	e.markDirty()
	e.requestRedraw(redraw)
}

// =============================================================================
// Direct operations
// =============================================================================

// UndoLast reverts the most recent action.
func (e *Editor) UndoLast() bool {
	if !e.Undo.Undo() {
		return false
	}
	observability.Editor().OnUndo(e.Undo.Len())
	e.markDirty()
	e.requestRedrawAll()
	return true
}

// RedoLast reapplies the most recently undone action.
func (e *Editor) RedoLast() bool {
	if !e.Undo.Redo() {
		return false
	}
	observability.Editor().OnRedo(e.Undo.Len())
	e.markDirty()
	e.requestRedrawAll()
	return true
}

// DeleteSelection removes every selected object from the level.
func (e *Editor) DeleteSelection() {
	for _, o := range e.SelectedObjects() {
		e.requestRedraw(o.Bounds())
		e.Level.DeleteObject(o)
	}
	e.ClearSelection()
	e.markDirty()
}

// resizeHost adapts the editor to the gesture package's Host interface.
type resizeHost struct {
	e *Editor
}

// CommitResize applies a validated geometry change: origin first, then the
// incremental tile-grid patch.
func (h resizeHost) CommitResize(o *level.ObjectInstance, newX, newY, newW, newH int) {
	o.SetPosition(newX, newY)
	o.Resize(newW, newH)
	h.e.steps++
	h.e.markDirty()
}

// RequestRedraw forwards a gesture redraw region to the sink.
func (h resizeHost) RequestRedraw(r level.Rect) {
	h.e.requestRedraw(r)
}

func (e *Editor) requestRedraw(r level.Rect) {
	if r.Empty() {
		return
	}
	observability.Editor().OnRedraw(r.X, r.Y, r.W, r.H)
	if e.Redraw != nil {
		e.Redraw(r)
	}
}

func (e *Editor) requestRedrawAll() {
	e.requestRedraw(level.Rect{X: 0, Y: 0, W: e.Level.Width, H: e.Level.Height})
}

func (e *Editor) markDirty() {
	if e.Dirty != nil {
		e.Dirty()
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
