package tileset

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/tiledraft/tiledraft/pkg/errors"
	"github.com/tiledraft/tiledraft/pkg/grid"
)

// File format, decoded with BurntSushi/toml:
//
//	[types.ground]
//	range = [0x20, 0x27]
//	direction = "horizontal"
//
//	[[tileset."Pa1_nohara".random]]
//	name = "ground"
//
//	[[tileset."Pa1_nohara".random]]
//	list = [0x40, 0x41]
//	values = [0x40, 0x41, 0x42]
//	special = "double-bottom"
//
//	[[tileset."Pa1_nohara".object]]
//	name = "Grass block"
//	rows = [[0x20], [0x30]]
//
// Each random entry either references a named type (merging its entries) or
// declares an input space (`list` or inclusive `range`) plus an optional
// output space (`values`, defaulting to the input space), a direction
// (`horizontal`, `vertical` or `both`, defaulting to both) and a special
// marker (`double-top` or `double-bottom`).

type tilesetFile struct {
	Types    map[string]randomSpec  `toml:"types"`
	Tilesets map[string]tilesetSpec `toml:"tileset"`
}

type tilesetSpec struct {
	Random  []randomSpec `toml:"random"`
	Objects []objectSpec `toml:"object"`
}

type randomSpec struct {
	Name      string `toml:"name"`
	List      []int  `toml:"list"`
	Range     []int  `toml:"range"`
	Values    []int  `toml:"values"`
	Direction string `toml:"direction"`
	Special   string `toml:"special"`
}

type objectSpec struct {
	Name string  `toml:"name"`
	Rows [][]int `toml:"rows"`
}

// LoadFile reads a tileset metadata file and returns the randomization table
// plus the object definitions it declares, keyed by tileset name. Callers
// assign definitions to registry slots themselves; the file does not fix slot
// numbers.
func LoadFile(path string) (*Table, map[string][]*ObjectDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "tileset file %s", path)
		}
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidTileset, err, "read tileset file %s", path)
	}
	return Parse(raw)
}

// Parse decodes tileset metadata from TOML bytes.
func Parse(raw []byte) (*Table, map[string][]*ObjectDef, error) {
	var file tilesetFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode tileset metadata")
	}

	types := map[string]map[uint8]grid.Entry{}
	for name, spec := range file.Types {
		entries, err := parseRandom(spec, types)
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidTileset, err, "type %q", name)
		}
		types[name] = entries
	}

	table := &Table{}
	defs := map[string][]*ObjectDef{}
	for name, spec := range file.Tilesets {
		entries := map[uint8]grid.Entry{}
		for _, rs := range spec.Random {
			parsed, err := parseRandom(rs, types)
			if err != nil {
				return nil, nil, errors.Wrap(errors.ErrCodeInvalidTileset, err, "tileset %q", name)
			}
			for tile, e := range parsed {
				entries[tile] = e
			}
		}
		if len(entries) > 0 {
			table.set(name, entries)
		}

		for _, obj := range spec.Objects {
			def := &ObjectDef{Name: obj.Name}
			for _, row := range obj.Rows {
				tiles := make([]uint8, len(row))
				for i, v := range row {
					if v < 0 || v > 0xFF {
						return nil, nil, errors.New(errors.ErrCodeInvalidTileset,
							"tileset %q object %q: tile id %d out of range", name, obj.Name, v)
					}
					tiles[i] = uint8(v)
				}
				def.Rows = append(def.Rows, tiles)
			}
			defs[name] = append(defs[name], def)
		}
	}

	return table, defs, nil
}

// parseRandom expands one random entry. A named entry copies the entries of
// an already-parsed type; otherwise the input space comes from list or an
// inclusive range, and every input tile maps to the same candidate set.
func parseRandom(spec randomSpec, types map[string]map[uint8]grid.Entry) (map[uint8]grid.Entry, error) {
	if spec.Name != "" {
		named, ok := types[spec.Name]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidTileset, "unknown type %q", spec.Name)
		}
		out := map[uint8]grid.Entry{}
		for tile, e := range named {
			out[tile] = e
		}
		return out, nil
	}

	var input []int
	switch {
	case len(spec.List) > 0:
		input = spec.List
	case len(spec.Range) == 2:
		for v := spec.Range[0]; v <= spec.Range[1]; v++ {
			input = append(input, v)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidTileset, "random entry needs a list or a two-element range")
	}

	output := spec.Values
	if len(output) == 0 {
		output = input
	}
	candidates := make([]uint8, 0, len(output))
	for _, v := range output {
		if v < 0 || v > 0xFF {
			return nil, errors.New(errors.ErrCodeInvalidTileset, "tile id %d out of range", v)
		}
		candidates = append(candidates, uint8(v))
	}

	var direction uint8
	switch spec.Direction {
	case "":
		direction = grid.DirHorizontal | grid.DirVertical
	case "horizontal":
		direction = grid.DirHorizontal
	case "vertical":
		direction = grid.DirVertical
	case "both":
		direction = grid.DirHorizontal | grid.DirVertical
	default:
		return nil, errors.New(errors.ErrCodeInvalidTileset, "unknown direction %q", spec.Direction)
	}

	var special uint8
	switch spec.Special {
	case "":
	case "double-top":
		special = grid.SpecialDoubleTop
	case "double-bottom":
		special = grid.SpecialDoubleBottom
	default:
		return nil, errors.New(errors.ErrCodeInvalidTileset, "unknown special %q", spec.Special)
	}

	out := map[uint8]grid.Entry{}
	for _, v := range input {
		if v < 0 || v > 0xFF {
			return nil, errors.New(errors.ErrCodeInvalidTileset, "tile id %d out of range", v)
		}
		out[uint8(v)] = grid.Entry{Tiles: candidates, Direction: direction, Special: special}
	}
	return out, nil
}
