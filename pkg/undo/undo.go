// Package undo implements the editor's undo log with per-gesture coalescing.
//
// Position changes stream in one discrete cell at a time while the user
// drags, but a drag should undo as a single step. The stack therefore merges
// consecutive compatible actions into the open action at the top: a move of
// the same item extends the recorded end position instead of pushing a new
// record. [Stack.Seal], called on pointer up, closes the top action so the
// next drag starts a fresh record.
//
// Multi-selection drags push a [Simultaneous] action bundling one move per
// selected item; undo and redo then restore the whole selection's positions
// atomically.
package undo

import (
	"github.com/google/uuid"

	"github.com/tiledraft/tiledraft/pkg/level"
)

// Action is one undoable step.
type Action interface {
	Undo()
	Redo()

	// Merge folds a newer action into this one when both belong to the same
	// gesture, reporting whether it did. Actions that cannot coalesce
	// simply return false.
	Merge(newer Action) bool
}

// Move records a position delta for one item in its native coordinates.
type Move struct {
	Item         level.Item
	FromX, FromY int
	ToX, ToY     int
}

// NewMove records a move of item from (fromX, fromY) to (toX, toY).
func NewMove(item level.Item, fromX, fromY, toX, toY int) *Move {
	return &Move{Item: item, FromX: fromX, FromY: fromY, ToX: toX, ToY: toY}
}

// Undo restores the start position.
func (m *Move) Undo() { m.Item.SetPosition(m.FromX, m.FromY) }

// Redo restores the end position.
func (m *Move) Redo() { m.Item.SetPosition(m.ToX, m.ToY) }

// Merge extends this move's end position when newer moves the same item.
func (m *Move) Merge(newer Action) bool {
	n, ok := newer.(*Move)
	if !ok || n.Item.ID() != m.Item.ID() {
		return false
	}
	m.ToX, m.ToY = n.ToX, n.ToY
	return true
}

// Simultaneous bundles per-item moves that apply and revert atomically: one
// entry per selection member for a multi-selection drag.
type Simultaneous struct {
	Moves []*Move
}

// NewSimultaneous bundles moves into one atomic action.
func NewSimultaneous(moves ...*Move) *Simultaneous {
	return &Simultaneous{Moves: moves}
}

// Undo reverts every bundled move, last first.
func (s *Simultaneous) Undo() {
	for i := len(s.Moves) - 1; i >= 0; i-- {
		s.Moves[i].Undo()
	}
}

// Redo reapplies every bundled move in order.
func (s *Simultaneous) Redo() {
	for _, m := range s.Moves {
		m.Redo()
	}
}

// Merge coalesces with a newer Simultaneous covering the same item set,
// extending each member's end position.
func (s *Simultaneous) Merge(newer Action) bool {
	n, ok := newer.(*Simultaneous)
	if !ok || len(n.Moves) != len(s.Moves) {
		return false
	}
	byID := make(map[uuid.UUID]*Move, len(s.Moves))
	for _, m := range s.Moves {
		byID[m.Item.ID()] = m
	}
	for _, nm := range n.Moves {
		if _, ok := byID[nm.Item.ID()]; !ok {
			return false
		}
	}
	for _, nm := range n.Moves {
		byID[nm.Item.ID()].ToX, byID[nm.Item.ID()].ToY = nm.ToX, nm.ToY
	}
	return true
}

// Stack is the undo log. Pushing a new action truncates the redo tail. The
// zero value is ready to use.
type Stack struct {
	actions []Action
	// next is the index one past the last applied action; actions[next:]
	// form the redo tail.
	next int
	// openTop marks whether the top action still belongs to an active
	// gesture and may absorb further steps.
	openTop bool
}

// Len returns the number of applied actions available to undo.
func (s *Stack) Len() int { return s.next }

// CanRedo reports whether a redo tail exists.
func (s *Stack) CanRedo() bool { return s.next < len(s.actions) }

// Push appends an already-applied action and truncates the redo tail.
func (s *Stack) Push(a Action) {
	s.actions = append(s.actions[:s.next], a)
	s.next = len(s.actions)
	s.openTop = true
}

// AddOrExtend folds a into the open top action when they coalesce, otherwise
// pushes it. This is the entry point for streaming position changes during a
// drag.
func (s *Stack) AddOrExtend(a Action) {
	if s.openTop && s.next > 0 && s.next == len(s.actions) {
		if s.actions[s.next-1].Merge(a) {
			return
		}
	}
	s.Push(a)
}

// Seal closes the current gesture: the top action stops absorbing further
// steps. Called on pointer up.
func (s *Stack) Seal() { s.openTop = false }

// Undo reverts the most recent action, reporting whether one existed.
func (s *Stack) Undo() bool {
	if s.next == 0 {
		return false
	}
	s.next--
	s.actions[s.next].Undo()
	s.openTop = false
	return true
}

// Redo reapplies the next undone action, reporting whether one existed.
func (s *Stack) Redo() bool {
	if s.next >= len(s.actions) {
		return false
	}
	s.actions[s.next].Redo()
	s.next++
	s.openTop = false
	return true
}
