// Package io provides JSON import and export for levels.
//
// The format records the level bounds in blocks, the tileset name assigned
// to each registry slot, every layer's objects in z-order and the free
// markers:
//
//	{
//	  "width": 64,
//	  "height": 32,
//	  "tilesets": ["Pa1_nohara", "", "", ""],
//	  "layers": [
//	    {"objects": [{"tileset": 0, "type": 1, "x": 4, "y": 10, "w": 3, "h": 2}]},
//	    {"objects": []},
//	    {"objects": []}
//	  ],
//	  "markers": [{"label": "entrance", "x": 102, "y": 246}]
//	}
//
// Object positions and sizes are in blocks; marker positions are in level
// units. Tile grids are not stored: objects re-render on load, so tilesets
// with randomization metadata may produce different tile choices than the
// saved session showed.
package io

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/tiledraft/tiledraft/pkg/grid"
	"github.com/tiledraft/tiledraft/pkg/level"
	"github.com/tiledraft/tiledraft/pkg/tileset"
)

type levelFile struct {
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Tilesets []string `json:"tilesets"`
	Layers   []layer  `json:"layers"`
	Markers  []marker `json:"markers,omitempty"`
}

type layer struct {
	Hidden  bool     `json:"hidden,omitempty"`
	Objects []object `json:"objects"`
}

type object struct {
	Tileset int `json:"tileset"`
	Type    int `json:"type"`
	X       int `json:"x"`
	Y       int `json:"y"`
	W       int `json:"w"`
	H       int `json:"h"`
}

type marker struct {
	Label string `json:"label"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

// WriteJSON encodes a level as JSON and writes it to w. The output can be
// re-imported with [ReadJSON]. WriteJSON does not close w.
func WriteJSON(lvl *level.Level, w io.Writer) error {
	out := levelFile{
		Width:    lvl.Width / level.BlockSize,
		Height:   lvl.Height / level.BlockSize,
		Tilesets: make([]string, tileset.SlotCount),
		Layers:   make([]layer, level.LayerCount),
	}
	for i := range out.Tilesets {
		out.Tilesets[i] = lvl.Registry().Name(i)
	}
	for i, l := range lvl.Layers {
		out.Layers[i].Hidden = !l.Visible
		out.Layers[i].Objects = make([]object, len(l.Objects))
		for j, o := range l.Objects {
			out.Layers[i].Objects[j] = object{
				Tileset: o.Tileset, Type: o.Type,
				X: o.X, Y: o.Y, W: o.W, H: o.H,
			}
		}
	}
	for _, m := range lvl.Markers {
		out.Markers = append(out.Markers, marker{Label: m.Label, X: m.X, Y: m.Y})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a JSON level from r, rebuilding every object's tile grid
// against reg and table. rng seeds the compositor and may be nil.
//
// ReadJSON returns an error if the JSON is malformed, the bounds are not
// positive, or an object lies outside the level, references a size below one
// block, or names a tileset slot outside the registry's range. The slot
// names recorded in the file are informational; reg
// decides what actually renders. ReadJSON does not close r.
func ReadJSON(r io.Reader, reg *tileset.Registry, table grid.Table, rng *rand.Rand) (*level.Level, error) {
	var data levelFile
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if data.Width < 1 || data.Height < 1 {
		return nil, fmt.Errorf("level size %dx%d must be at least 1x1", data.Width, data.Height)
	}
	if len(data.Layers) > level.LayerCount {
		return nil, fmt.Errorf("%d layers, at most %d supported", len(data.Layers), level.LayerCount)
	}

	lvl := level.New(reg, table, rng, data.Width*level.BlockSize, data.Height*level.BlockSize)
	for i, l := range data.Layers {
		lvl.Layers[i].Visible = !l.Hidden
		for _, o := range l.Objects {
			if o.Tileset < 0 || o.Tileset >= tileset.SlotCount {
				return nil, fmt.Errorf("layer %d: object at (%d, %d) references tileset slot %d, want 0..%d",
					i, o.X, o.Y, o.Tileset, tileset.SlotCount-1)
			}
			if o.W < 1 || o.H < 1 {
				return nil, fmt.Errorf("layer %d: object at (%d, %d) has size %dx%d", i, o.X, o.Y, o.W, o.H)
			}
			if o.X < 0 || o.Y < 0 || (o.X+o.W)*level.BlockSize > lvl.Width || (o.Y+o.H)*level.BlockSize > lvl.Height {
				return nil, fmt.Errorf("layer %d: object at (%d, %d) size %dx%d outside %dx%d level",
					i, o.X, o.Y, o.W, o.H, data.Width, data.Height)
			}
			lvl.CreateObject(o.Tileset, o.Type, i, o.X, o.Y, o.W, o.H)
		}
	}
	for _, m := range data.Markers {
		lvl.AddMarker(m.Label, m.X, m.Y)
	}
	return lvl, nil
}

// ImportJSON reads a JSON level file at path.
func ImportJSON(path string, reg *tileset.Registry, table grid.Table, rng *rand.Rand) (*level.Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f, reg, table, rng)
}

// ExportJSON writes a level to a JSON file at path.
func ExportJSON(lvl *level.Level, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(lvl, f)
}
