// Package observability provides hooks for instrumenting the editor.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific backends. The CLI registers hooks at startup (a
// logging implementation under --verbose); the editor packages emit events
// through the registry without knowing who listens.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEditorHooks(&myEditorHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Editor().OnGestureBegin("resize")
//	// ... gesture runs ...
//	observability.Editor().OnGestureEnd("resize", steps)
package observability

import (
	"sync"
)

// EditorHooks receives events from the interactive editor core.
type EditorHooks interface {
	// Gesture lifecycle: kind is "resize" or "move".
	OnGestureBegin(kind string)
	OnGestureEnd(kind string, steps int)

	// OnRedraw records a redraw request, in level units.
	OnRedraw(x, y, w, h int)

	// Undo log events, with the resulting undo depth.
	OnUndo(depth int)
	OnRedo(depth int)
}

// NoopEditorHooks is a no-op implementation of EditorHooks.
type NoopEditorHooks struct{}

func (NoopEditorHooks) OnGestureBegin(string)       {}
func (NoopEditorHooks) OnGestureEnd(string, int)    {}
func (NoopEditorHooks) OnRedraw(int, int, int, int) {}
func (NoopEditorHooks) OnUndo(int)                  {}
func (NoopEditorHooks) OnRedo(int)                  {}

var (
	editorHooks EditorHooks = NoopEditorHooks{}
	hooksMu     sync.RWMutex
)

// SetEditorHooks registers custom editor hooks. This should be called once
// at application startup before the editor runs.
func SetEditorHooks(h EditorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editorHooks = h
	}
}

// Editor returns the registered editor hooks.
func Editor() EditorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editorHooks
}

// Reset restores the no-op defaults. This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	editorHooks = NoopEditorHooks{}
}
