package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/tiledraft/tiledraft/pkg/errors"
	"github.com/tiledraft/tiledraft/pkg/tileset"
)

// Config is the editor configuration, loaded from a TOML file:
//
//	[level]
//	width = 64   # blocks
//	height = 32  # blocks
//
//	[tileset]
//	metadata = "tilesets/nohara.toml"
//	slots = ["Pa1_nohara", "", "", ""]
//
//	[editor]
//	layer = 1
type Config struct {
	Level   LevelConfig   `toml:"level"`
	Tileset TilesetConfig `toml:"tileset"`
	Editor  EditorConfig  `toml:"editor"`
}

// LevelConfig sets the level bounds in blocks.
type LevelConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// TilesetConfig points at the tileset metadata file and assigns tileset
// names to the registry slots.
type TilesetConfig struct {
	Metadata string   `toml:"metadata"`
	Slots    []string `toml:"slots"`
}

// EditorConfig sets initial editor state.
type EditorConfig struct {
	Layer int `toml:"layer"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Level: LevelConfig{Width: 64, Height: 32},
	}
}

// LoadConfig reads and validates a TOML config file. An empty path yields
// the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config file %s", path)
	}
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config file %s", path)
	}

	if cfg.Level.Width < 1 || cfg.Level.Height < 1 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig,
			"level size %dx%d must be at least 1x1", cfg.Level.Width, cfg.Level.Height)
	}
	if len(cfg.Tileset.Slots) > tileset.SlotCount {
		return cfg, errors.New(errors.ErrCodeInvalidConfig,
			"%d tileset slots configured, at most %d supported", len(cfg.Tileset.Slots), tileset.SlotCount)
	}
	if cfg.Editor.Layer < 0 || cfg.Editor.Layer > 2 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "layer %d out of range 0-2", cfg.Editor.Layer)
	}
	return cfg, nil
}

// BuildRegistry loads the configured tileset metadata and assigns object
// definitions to registry slots by name. Without a metadata file the
// registry is empty and the randomization table nil.
func (c Config) BuildRegistry() (*tileset.Registry, *tileset.Table, error) {
	reg := &tileset.Registry{}
	if c.Tileset.Metadata == "" {
		return reg, nil, nil
	}

	table, defs, err := tileset.LoadFile(c.Tileset.Metadata)
	if err != nil {
		return nil, nil, err
	}
	for i, name := range c.Tileset.Slots {
		if name == "" {
			continue
		}
		objs, ok := defs[name]
		if !ok {
			return nil, nil, errors.New(errors.ErrCodeInvalidConfig,
				"slot %d: tileset %q not present in %s", i, name, c.Tileset.Metadata)
		}
		reg.Slots[i] = &tileset.Tileset{Name: name, Objects: objs}
	}
	return reg, table, nil
}
