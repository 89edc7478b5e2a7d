package gesture

import (
	"github.com/tiledraft/tiledraft/pkg/level"
)

// Host receives the committed geometry changes of a resize gesture. The
// gesture validates deltas; the host owns the actual mutation (origin, size,
// tile-grid patch, dirty marking) and the redraw sink.
type Host interface {
	// CommitResize applies a validated geometry change to one object.
	CommitResize(o *level.ObjectInstance, newX, newY, newW, newH int)

	// RequestRedraw asks the paint layer to repaint a region, in level
	// units. Advisory and coalescible.
	RequestRedraw(r level.Rect)
}

// participant is one object resizing in lock-step with the gesture. Its
// size snapshot accumulates the gesture's deltas independently of the
// object's committed size, which is what makes per-axis rollback local to
// one participant.
type participant struct {
	obj  *level.ObjectInstance
	w, h int
}

// Gesture is one active resize drag: from pointer-down on a grabber to
// pointer-up. A Gesture must not outlive its pointer stream; the editor
// creates one on pointer-down and drops it on pointer-up.
type Gesture struct {
	host   Host
	driver *level.ObjectInstance
	anchor Anchor

	// startX, startY is the anchor reference cell. It advances as commits
	// succeed so deltas stay incremental.
	startX, startY int

	parts []*participant
}

// Begin starts a resize gesture. driver is the object that received the
// pointer-down; selection is every object participating (the driver
// included), each snapshotting its size at gesture start. Pointer
// coordinates are absolute level units.
func Begin(host Host, driver *level.ObjectInstance, anchor Anchor, selection []*level.ObjectInstance, ux, uy int) *Gesture {
	g := &Gesture{
		host:   host,
		driver: driver,
		anchor: anchor,
		startX: pointerCell(ux),
		startY: pointerCell(uy),
	}
	for _, o := range selection {
		g.parts = append(g.parts, &participant{obj: o, w: o.W, h: o.H})
	}
	return g
}

// Anchor returns the grabbed anchor, for grabber highlighting.
func (g *Gesture) Anchor() Anchor { return g.anchor }

// Driver returns the object the gesture was started on.
func (g *Gesture) Driver() *level.ObjectInstance { return g.driver }

// Move processes a pointer move. Each participant applies the cell delta to
// its own snapshot independently: an axis that would drop below one block,
// or whose origin shift fails the fixed-opposite-edge check, reverts for
// that participant only while the rest of the gesture proceeds.
func (g *Gesture) Move(ux, uy int) {
	cx, cy := pointerCell(ux), pointerCell(uy)
	dx, dy := cx-g.startX, cy-g.startY

	horiz, vert := g.anchor.horiz(), g.anchor.vert()
	if horiz == 0 {
		dx = 0
	}
	if vert == 0 {
		dy = 0
	}
	if dx == 0 && dy == 0 {
		return
	}

	driverOld := g.driver.Bounds()
	driverMovedX, driverMovedY := false, false

	for _, p := range g.parts {
		newX, newY := p.obj.X, p.obj.Y
		newW, newH := p.obj.W, p.obj.H
		movedX, movedY := false, false

		switch horiz {
		case 1:
			p.w += dx
			newW = max(p.w, 1)
		case -1:
			oldW := p.w
			p.w -= dx
			nx := p.obj.X + dx
			// The origin may only move while the right edge stays fixed.
			if p.w >= 1 && nx >= 0 && nx+p.w == p.obj.X+p.obj.W {
				newX = nx
				newW = p.w
				movedX = true
			} else {
				p.w = oldW
			}
		}

		switch vert {
		case 1:
			p.h += dy
			newH = max(p.h, 1)
		case -1:
			oldH := p.h
			p.h -= dy
			ny := p.obj.Y + dy
			if p.h >= 1 && ny >= 0 && ny+p.h == p.obj.Y+p.obj.H {
				newY = ny
				newH = p.h
				movedY = true
			} else {
				p.h = oldH
			}
		}

		if newX == p.obj.X && newY == p.obj.Y && newW == p.obj.W && newH == p.obj.H {
			continue
		}

		oldBounds := p.obj.Bounds()
		g.host.CommitResize(p.obj, newX, newY, newW, newH)
		redraw := oldBounds.Union(p.obj.Bounds())
		if p.obj != g.driver {
			redraw = redraw.Union(driverOld)
		}
		g.host.RequestRedraw(redraw)

		if p.obj == g.driver {
			driverMovedX, driverMovedY = movedX, movedY
		}
	}

	// Advance the reference cell so the next move is measured incrementally.
	// Growing edges always advance; origin-moving edges only advance when
	// the driver's origin actually moved, otherwise the remaining delta
	// would be lost.
	if dx != 0 && (horiz == 1 || driverMovedX) {
		g.startX = cx
	}
	if dy != 0 && (vert == 1 || driverMovedY) {
		g.startY = cy
	}
}

// End finishes the gesture. Geometry committed so far stays committed; each
// step was validated independently, so there is nothing to roll back.
func (g *Gesture) End() {
	g.parts = nil
	g.anchor = AnchorNone
}

// pointerCell converts an absolute pointer coordinate in level units to a
// block cell, biased by half a block so the cell flips at block centers.
func pointerCell(u int) int {
	return floorDiv(u-level.BlockSize/2, level.BlockSize)
}

// floorDiv divides rounding toward negative infinity, so pointer positions
// left of or above the origin still land in the right cell.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
