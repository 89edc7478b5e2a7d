// Package gesture implements the interactive resize protocol for placed
// objects: anchor hit-testing on the eight resize grabbers and the
// per-pointer-gesture state machine that resizes every selected object in
// lock-step from a single grabbed anchor.
package gesture

import (
	"github.com/tiledraft/tiledraft/pkg/level"
)

// Anchor identifies which resize grabber a gesture holds. The four corners
// resize both axes; the four edges resize one.
type Anchor int

const (
	AnchorNone Anchor = iota
	AnchorTopLeft
	AnchorTop
	AnchorTopRight
	AnchorLeft
	AnchorRight
	AnchorBottomLeft
	AnchorBottom
	AnchorBottomRight
)

var anchorNames = map[Anchor]string{
	AnchorNone:        "none",
	AnchorTopLeft:     "top-left",
	AnchorTop:         "top",
	AnchorTopRight:    "top-right",
	AnchorLeft:        "left",
	AnchorRight:       "right",
	AnchorBottomLeft:  "bottom-left",
	AnchorBottom:      "bottom",
	AnchorBottomRight: "bottom-right",
}

func (a Anchor) String() string { return anchorNames[a] }

// horiz returns -1 when the anchor drags the left edge, +1 for the right
// edge, 0 when the horizontal axis is unaffected.
func (a Anchor) horiz() int {
	switch a {
	case AnchorTopLeft, AnchorLeft, AnchorBottomLeft:
		return -1
	case AnchorTopRight, AnchorRight, AnchorBottomRight:
		return 1
	}
	return 0
}

// vert returns -1 when the anchor drags the top edge, +1 for the bottom
// edge, 0 when the vertical axis is unaffected.
func (a Anchor) vert() int {
	switch a {
	case AnchorTopLeft, AnchorTop, AnchorTopRight:
		return -1
	case AnchorBottomLeft, AnchorBottom, AnchorBottomRight:
		return 1
	}
	return 0
}

// GrabberSize returns the side of a grabber hit-region in level units for an
// object of w x h blocks. It grows slightly with the object's area but is
// capped below a fraction of each dimension so adjacent grabbers can never
// overlap, even on a 1x1 object.
func GrabberSize(w, h int) float64 {
	size := 4.8 + float64(w*h)*0.01
	return min(size, float64(w)*9, float64(h)*9)
}

// HitTest maps a pointer position, in level units relative to the object's
// top-left corner, to the anchor whose hit-region contains it. Corners are
// square; each edge region is the strip between its two corners.
func HitTest(o *level.ObjectInstance, ux, uy float64) Anchor {
	w := float64(o.W * level.BlockSize)
	h := float64(o.H * level.BlockSize)
	s := GrabberSize(o.W, o.H)

	within := func(x, y, rw, rh float64) bool {
		return ux >= x && ux < x+rw && uy >= y && uy < y+rh
	}

	switch {
	case within(0, 0, s, s):
		return AnchorTopLeft
	case within(w-s, 0, s, s):
		return AnchorTopRight
	case within(0, h-s, s, s):
		return AnchorBottomLeft
	case within(w-s, h-s, s, s):
		return AnchorBottomRight
	case within(s, 0, w-2*s, s):
		return AnchorTop
	case within(0, s, s, h-2*s):
		return AnchorLeft
	case within(s, h-s, w-2*s, s):
		return AnchorBottom
	case within(w-s, s, s, h-2*s):
		return AnchorRight
	}
	return AnchorNone
}
