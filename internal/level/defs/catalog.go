package defs

import (
	"cmp"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// TileEntry 是 tile 列表中的一项。
type TileEntry struct {
	ID    int    `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label" yaml:"label"`
	Color string `json:"color" yaml:"color"`
}

// SpawnEntry 是实体列表中的一项。
type SpawnEntry struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Catalog 持有当前生效的定义表，可以在运行中整体替换。并发安全。
type Catalog struct {
	mu      sync.RWMutex
	tiles   map[int]string
	spawns  map[int]string
	palette map[int]string
}

func NewCatalog(tiles, spawns map[int]string) *Catalog {
	c := &Catalog{}
	c.Replace(tiles, spawns)
	return c
}

// Replace 整体替换定义表，nil 视为空表。
func (c *Catalog) Replace(tiles, spawns map[int]string) {
	if tiles == nil {
		tiles = map[int]string{}
	}
	if spawns == nil {
		spawns = map[int]string{}
	}
	palette := BuildPalette(tiles)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tiles, c.spawns, c.palette = tiles, spawns, palette
}

// Counts 返回 tile 和实体定义的数量。
func (c *Catalog) Counts() (tiles, spawns int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tiles), len(c.spawns)
}

// Color 返回 tile 的颜色，未定义的 id 返回 ColorUnknown。
func (c *Catalog) Color(id int) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.palette[id]; ok {
		return v
	}
	return ColorUnknown
}

func (c *Catalog) TileLabel(id int) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return TileLabel(c.tiles, id)
}

func (c *Catalog) EntityLabel(ids []int) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return EntityLabel(c.spawns, ids)
}

// Tiles 按 id 升序列出 tile，query 非空时按名称（不区分大小写）或 id 的子串过滤。
func (c *Catalog) Tiles(query string) []TileEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	ids := slices.Sorted(maps.Keys(c.tiles))
	out := make([]TileEntry, 0, len(ids))
	for _, id := range ids {
		name := c.tiles[id]
		if q != "" && !strings.Contains(strings.ToLower(name), q) && !strings.Contains(strconv.Itoa(id), q) {
			continue
		}
		display := name
		if a := Arrow(id); a != "" {
			display += " " + a
		}
		out = append(out, TileEntry{ID: id, Name: name, Label: display, Color: c.palette[id]})
	}
	return out
}

// Spawns 按 (id, 小写名称) 排序列出实体，query 非空时按名称子串过滤。
func (c *Catalog) Spawns(query string) []SpawnEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]SpawnEntry, 0, len(c.spawns))
	for id, name := range c.spawns {
		if q != "" && !strings.Contains(strings.ToLower(name), q) {
			continue
		}
		out = append(out, SpawnEntry{ID: id, Name: name})
	}
	slices.SortFunc(out, func(a, b SpawnEntry) int {
		return cmp.Or(cmp.Compare(a.ID, b.ID), strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)))
	})
	return out
}
