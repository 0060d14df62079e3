package defs

import "testing"

func TestTileLabel(t *testing.T) {
	tiles := map[int]string{1: "Water", 15: "Water current N"}
	cases := []struct {
		id   int
		want string
	}{
		{1, "Water (1)"},
		{15, "Water current N ↑ (15)"},
		{18, "Unknown ← (18)"},
		{99, "Unknown (99)"},
	}
	for _, c := range cases {
		if got := TileLabel(tiles, c.id); got != c.want {
			t.Fatalf("id=%d got=%q want=%q", c.id, got, c.want)
		}
	}
}

func TestEntityLabel(t *testing.T) {
	spawns := map[int]string{2050: "Goblin"}
	if got := EntityLabel(spawns, []int{2050}); got != "Goblin" {
		t.Fatalf("got=%q", got)
	}
	if got := EntityLabel(spawns, []int{3000, 2050}); got != "3000*" {
		t.Fatalf("got=%q", got)
	}
	if got := EntityLabel(spawns, nil); got != "" {
		t.Fatalf("got=%q", got)
	}
}

func TestBuildPalette(t *testing.T) {
	colors := BuildPalette(map[int]string{
		6:  "Lava",
		30: "Deep Water",
		31: "Frozen Snowbank",
		32: "Mystery",
	})
	want := map[int]string{
		0:  ColorDefault,
		6:  "#dc2626",
		30: "#3b82f6",
		31: "#38bdf8",
		32: ColorDefault,
	}
	for id, c := range want {
		if colors[id] != c {
			t.Fatalf("id=%d got=%q want=%q", id, colors[id], c)
		}
	}
	if len(colors) != len(want) {
		t.Fatalf("colors=%v", colors)
	}
}

func TestCatalog_过滤与排序(t *testing.T) {
	c := NewCatalog(
		map[int]string{2: "Grass", 12: "Shadow", 3: "Tall Grass", 17: "Water current E"},
		map[int]string{2051: "goblin archer", 2050: "Goblin", 9: "Bat"},
	)

	tiles := c.Tiles("grass")
	if len(tiles) != 2 || tiles[0].ID != 2 || tiles[1].ID != 3 {
		t.Fatalf("tiles=%+v", tiles)
	}
	// id 子串也能命中
	tiles = c.Tiles("1")
	if len(tiles) != 2 || tiles[0].ID != 12 || tiles[1].ID != 17 || tiles[1].Label != "Water current E →" {
		t.Fatalf("tiles=%+v", tiles)
	}
	if all := c.Tiles(""); len(all) != 4 || all[0].Color != "#22c55e" {
		t.Fatalf("all=%+v", all)
	}

	spawns := c.Spawns("GOB")
	if len(spawns) != 2 || spawns[0].ID != 2050 || spawns[1].ID != 2051 {
		t.Fatalf("spawns=%+v", spawns)
	}
	if c.Color(99) != ColorUnknown || c.Color(0) != ColorDefault {
		t.Fatalf("color fallback")
	}

	c.Replace(nil, nil)
	if n, m := c.Counts(); n != 0 || m != 0 {
		t.Fatalf("counts=%d,%d", n, m)
	}
	if c.Color(0) != ColorDefault {
		t.Fatalf("id 0 应始终有颜色")
	}
}
