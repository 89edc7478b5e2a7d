// Package pkg provides the core libraries for the tiledraft level editor.
//
// # Overview
//
// Tiledraft edits tile-based levels: objects stamped from tileset patterns
// onto a block grid, with neighbor-aware tile randomization, interactive
// resizing and position snapping. The pkg directory is organized into three
// main areas:
//
//  1. Model - level content and tile composition ([grid], [tileset], [level], [io])
//  2. Interaction - pointer gestures, snapping and history ([gesture], [snap], [undo], [editor])
//  3. Infrastructure - errors, sessions, hooks, build metadata
//     ([errors], [session], [observability], [buildinfo])
//
// # Architecture
//
// The typical flow of a pointer event through the editor:
//
//	terminal front-end (internal/cli)
//	         ↓
//	    [editor] package (selection, snap policy, undo recording)
//	         ↓
//	    [gesture] package (anchor resolution, lock-step resize)
//	         ↓
//	    [level] package (object geometry, layers)
//	         ↓
//	    [grid] package (tile composition and incremental patching)
//
// # Quick Start
//
// Compose a level programmatically:
//
//	reg := &tileset.Registry{}
//	reg.Slots[0] = &tileset.Tileset{Name: "plain", Objects: defs}
//	lvl := level.New(reg, table, nil, 64*level.BlockSize, 32*level.BlockSize)
//	lvl.CreateObject(0, 0, 0, 4, 10, 3, 2)
//
//	ed := editor.New(lvl)
//	ed.PointerDown(ux, uy, editor.Modifiers{})
//	ed.PointerMove(ux+level.BlockSize, uy, editor.Modifiers{})
//	ed.PointerUp()
package pkg
