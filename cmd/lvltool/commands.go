package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"LevelEditor/internal/editor/infra/filestore"
	"LevelEditor/internal/level/codec"
	"LevelEditor/internal/level/defs"
	"LevelEditor/internal/level/domain"
	"LevelEditor/internal/shared/logs"
)

var errUsage = errors.New("invalid arguments")

func isUsageError(err error) bool {
	return errors.Is(err, errUsage)
}

func newFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// files 以当前目录为根，写入经临时文件再改名。
var files = filestore.NewOS("")

func decodeFile(path string) (*codec.Decoded, error) {
	data, err := files.Read(context.Background(), path)
	if err != nil {
		return nil, err
	}
	return codec.DecodeDetailed(data)
}

func runInspect(args []string, out io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}
	d, err := decodeFile(args[0])
	if err != nil {
		return err
	}
	h := d.Level.Header
	fmt.Fprintf(out, "file:        %s (%d bytes)\n", args[0], d.Layout.Size)
	fmt.Fprintf(out, "version:     %d\n", h.Version)
	fmt.Fprintf(out, "size:        %dx%d\n", h.Width, h.Height)
	fmt.Fprintf(out, "layers:      %d\n", h.LayerCount)
	fmt.Fprintf(out, "entities:    %d (%d outside grid)\n", h.EntityCount, d.Level.StrayCount())
	fmt.Fprintf(out, "camera:      %v\n", h.Camera)
	fmt.Fprintf(out, "spawn file:  %s\n", h.SpawnFile)
	fmt.Fprintf(out, "tiles file:  %s\n", h.TilesFile)
	fmt.Fprintf(out, "tile groups: %d\n", d.TileGroups)
	fmt.Fprintf(out, "regions:     tiles@%d entities@%d..%d tail=%d\n",
		d.Layout.TileStart, d.Layout.EntityStart, d.Layout.EntityEnd, d.Layout.Size-d.Layout.EntityEnd)
	fmt.Fprintf(out, "status:      %s\n", d.Level.Status())
	return nil
}

type dumpEntity struct {
	X      int16               `json:"x" yaml:"x"`
	Y      int16               `json:"y" yaml:"y"`
	ID     uint16              `json:"id" yaml:"id"`
	Wave   uint8               `json:"wave" yaml:"wave"`
	Group  *domain.RandomGroup `json:"group,omitempty" yaml:"group,omitempty"`
	Editor *domain.Pos         `json:"editor,omitempty" yaml:"editor,omitempty"`
}

type dumpDoc struct {
	Header     domain.Header `json:"header" yaml:"header"`
	Layout     codec.Layout  `json:"layout" yaml:"layout"`
	TileGroups int           `json:"tile_groups" yaml:"tile_groups"`
	// Rows 是编辑器坐标下的网格，Rows[y][x]。
	Rows     [][]uint16   `json:"rows" yaml:"rows,flow"`
	Entities []dumpEntity `json:"entities" yaml:"entities"`
}

func buildDump(d *codec.Decoded) dumpDoc {
	l := d.Level
	doc := dumpDoc{Header: l.Header, Layout: d.Layout, TileGroups: d.TileGroups}
	for y := 0; y < l.Height(); y++ {
		row := make([]uint16, l.Width())
		for x := range row {
			row[x], _ = l.TileAt(x, y)
		}
		doc.Rows = append(doc.Rows, row)
	}
	for _, s := range d.Spawns {
		e := dumpEntity{X: s.X, Y: s.Y, ID: s.ID, Wave: s.Wave, Group: s.Group}
		ey := domain.FlipY(int(s.Y), l.Height())
		if domain.InGrid(int(s.X), ey, l.Width(), l.Height()) {
			e.Editor = &domain.Pos{X: int(s.X), Y: ey}
		}
		doc.Entities = append(doc.Entities, e)
	}
	return doc
}

func runDump(args []string, out io.Writer) error {
	fs := newFlags("dump")
	format := fs.String("format", "yaml", "yaml or json")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return errUsage
	}
	d, err := decodeFile(fs.Arg(0))
	if err != nil {
		return err
	}
	doc := buildDump(d)
	switch *format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return fmt.Errorf("%w: unknown format %q", errUsage, *format)
	}
}

func runRoundtrip(args []string, out io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}
	data, err := files.Read(context.Background(), args[0])
	if err != nil {
		return err
	}
	lvl, err := codec.Decode(data)
	if err != nil {
		return err
	}
	encoded, report, err := codec.Encode(lvl)
	if err != nil {
		return err
	}
	if !bytes.Equal(data, encoded) {
		at := firstDiff(data, encoded)
		return fmt.Errorf("round trip differs at offset %d (in=%d bytes, out=%d bytes)", at, len(data), len(encoded))
	}
	fmt.Fprintf(out, "ok: %d bytes identical (tiles passthrough=%t, entities passthrough=%t)\n",
		len(encoded), report.TilesPassthrough, report.EntitiesPassthrough)
	return nil
}

func firstDiff(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func runSetTile(args []string, out io.Writer) error {
	fs := newFlags("set-tile")
	output := fs.StringP("output", "o", "", "write to this file instead of overwriting the input")
	if err := fs.Parse(args); err != nil || fs.NArg() != 4 {
		return errUsage
	}
	in := fs.Arg(0)
	x, errX := strconv.Atoi(fs.Arg(1))
	y, errY := strconv.Atoi(fs.Arg(2))
	id, errID := strconv.ParseUint(fs.Arg(3), 0, 16)
	if errX != nil || errY != nil || errID != nil {
		return errUsage
	}

	data, err := files.Read(context.Background(), in)
	if err != nil {
		return err
	}
	lvl, err := codec.Decode(data)
	if err != nil {
		return err
	}
	if err := lvl.SetTile(x, y, uint16(id)); err != nil {
		return err
	}
	encoded, report, err := codec.Encode(lvl)
	if err != nil {
		return err
	}
	if report.Lossy() {
		logs.Warn("saved with dropped data",
			zap.Int("dropped_layers", report.DroppedLayers),
			zap.Int("dropped_entity_groups", report.DroppedEntityGroups))
	}

	dst := in
	if *output != "" {
		dst = *output
	}
	if err := files.Write(context.Background(), dst, encoded); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s (%d bytes): %s\n", dst, len(encoded), lvl.Status())
	return nil
}

func runDefs(args []string, out io.Writer) error {
	fs := newFlags("defs")
	tilesPath := fs.String("tiles", defs.DefaultTileFile, "tile definitions")
	spawnsPath := fs.String("spawns", defs.DefaultSpawnFile, "spawn definitions")
	query := fs.StringP("query", "q", "", "filter by name or id")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return errUsage
	}

	loader := defs.NewLoader()
	for _, p := range []string{*tilesPath, *spawnsPath} {
		if !loader.Exists(p) {
			logs.Warn("definition file not found", zap.String("path", p))
		}
	}
	catalog := defs.NewCatalog(loader.Tiles(*tilesPath), loader.Spawns(*spawnsPath))

	fmt.Fprintln(out, "tiles:")
	for _, t := range catalog.Tiles(*query) {
		fmt.Fprintf(out, "  %-5d %-28s %s\n", t.ID, t.Label, t.Color)
	}
	fmt.Fprintln(out, "spawns:")
	for _, s := range catalog.Spawns(*query) {
		fmt.Fprintf(out, "  %-5d %s\n", s.ID, s.Name)
	}
	return nil
}
