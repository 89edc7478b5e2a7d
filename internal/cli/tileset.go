package cli

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/tiledraft/tiledraft/pkg/grid"
	"github.com/tiledraft/tiledraft/pkg/tileset"
)

// tilesetCommand creates the tileset command for inspecting metadata files.
func (c *CLI) tilesetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tileset <metadata-file>",
		Short: "Inspect a tileset metadata file",
		Long:  `Parse a tileset metadata file and print its object definitions and tile randomization entries.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(loggerFromContext(cmd.Context()))

			tbl, defs, err := tileset.LoadFile(args[0])
			if err != nil {
				printError("failed to parse %s", args[0])
				return err
			}
			prog.done(fmt.Sprintf("Parsed %s", args[0]))

			names := tbl.Names()
			for n := range defs {
				if tbl.Entries(n) == nil {
					names = append(names, n)
				}
			}
			sort.Strings(names)

			for _, name := range names {
				printNewline()
				fmt.Println(StyleTitle.Render(name))
				printTilesetObjects(defs[name])
				printRandomEntries(tbl.Entries(name))
			}
			if len(names) == 0 {
				printInfo("no tilesets declared")
			}
			return nil
		},
	}
	return cmd
}

func printTilesetObjects(defs []*tileset.ObjectDef) {
	if len(defs) == 0 {
		printDetail("no object definitions")
		return
	}
	rows := make([][]string, len(defs))
	for i, def := range defs {
		w := 0
		if len(def.Rows) > 0 {
			w = len(def.Rows[0])
		}
		rows[i] = []string{fmt.Sprintf("%d", i), def.Name, fmt.Sprintf("%dx%d", w, len(def.Rows))}
	}
	printTable([]string{"#", "Object", "Pattern"}, rows)
}

func printRandomEntries(entries map[uint8]grid.Entry) {
	if len(entries) == 0 {
		return
	}

	tiles := make([]int, 0, len(entries))
	for t := range entries {
		tiles = append(tiles, int(t))
	}
	sort.Ints(tiles)

	rows := make([][]string, 0, len(tiles))
	for _, t := range tiles {
		e := entries[uint8(t)]
		rows = append(rows, []string{
			fmt.Sprintf("0x%02x", t),
			fmt.Sprintf("%d", len(e.Tiles)),
			directionLabel(e.Direction),
			specialLabel(e.Special),
		})
	}
	printTable([]string{"Tile", "Candidates", "Direction", "Special"}, rows)
}

func printTable(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			}
			return StyleValue
		})
	fmt.Println(t.Render())
}

func directionLabel(d uint8) string {
	switch d {
	case grid.DirHorizontal:
		return "horizontal"
	case grid.DirVertical:
		return "vertical"
	case grid.DirHorizontal | grid.DirVertical:
		return "both"
	}
	return "none"
}

func specialLabel(s uint8) string {
	switch s {
	case grid.SpecialDoubleTop:
		return "double-top"
	case grid.SpecialDoubleBottom:
		return "double-bottom"
	}
	return "—"
}
