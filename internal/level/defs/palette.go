package defs

import (
	"fmt"
	"strings"
)

// 颜色常量，十六进制 RGB。
const (
	ColorDefault = "#e5e7eb"
	ColorUnknown = "#9ca3af"
)

// tileColorOverrides 是内置 tile id 的固定配色。
var tileColorOverrides = map[int]string{
	0:  "#e5e7eb", // Empty
	1:  "#2563eb", // Water
	2:  "#22c55e", // Grass
	3:  "#15803d", // Tall Grass
	4:  "#f97316", // Fire
	5:  "#7dd3fc", // Ice
	6:  "#dc2626", // Lava
	7:  "#94a3b8", // Metal
	8:  "#6b7280", // Rock
	9:  "#a855f7", // Creep
	10: "#0f172a", // Oil
	11: "#84cc16", // Toxic Sludge
	12: "#111827", // Shadow
	13: "#e5e7eb", // Glass Shards
	14: "#f8fafc", // Snow
	15: "#1d4ed8", // Water current N
	16: "#2563eb", // Water current S
	17: "#3b82f6", // Water current E
	18: "#60a5fa", // Water current W
	19: "#a16207", // Dirt
	20: "#64748b", // Stalagmites
	21: "#475569", // Road Tile
	22: "#166534", // Brambles
	23: "#ec4899", // Flowers
	24: "#f472b6", // Tall Flower Tile
	25: "#06b6d4", // Supercooled Water
	26: "#9ca3af", // Glitch Tile
}

// 按顺序匹配，先命中的生效。
var nameColorRules = []struct {
	keywords []string
	color    string
}{
	{[]string{"water"}, "#3b82f6"},
	{[]string{"ice", "snow", "supercooled"}, "#38bdf8"},
	{[]string{"grass", "flower", "bramble"}, "#22c55e"},
	{[]string{"lava", "fire"}, "#f97316"},
	{[]string{"toxic", "sludge"}, "#84cc16"},
	{[]string{"rock", "stalagmite"}, "#9ca3af"},
	{[]string{"metal", "road"}, "#64748b"},
	{[]string{"dirt"}, "#a16207"},
	{[]string{"shadow"}, "#111827"},
	{[]string{"glass", "glitch"}, "#d1d5db"},
	{[]string{"creep"}, "#a855f7"},
	{[]string{"oil"}, "#1f2937"},
}

// ColorFromName 按名称关键字猜一个颜色，匹配不到返回 ColorDefault。
func ColorFromName(name string) string {
	n := strings.ToLower(name)
	for _, rule := range nameColorRules {
		for _, kw := range rule.keywords {
			if strings.Contains(n, kw) {
				return rule.color
			}
		}
	}
	return ColorDefault
}

// BuildPalette 为每个已定义的 tile 生成颜色；id 0 总是存在。
func BuildPalette(tiles map[int]string) map[int]string {
	colors := make(map[int]string, len(tiles)+1)
	for id, name := range tiles {
		if c, ok := tileColorOverrides[id]; ok {
			colors[id] = c
			continue
		}
		colors[id] = ColorFromName(name)
	}
	if _, ok := colors[0]; !ok {
		colors[0] = ColorDefault
	}
	return colors
}

// Arrow 返回水流 tile 的方向箭头，其它 id 返回空串。
func Arrow(id int) string {
	switch id {
	case 15:
		return "↑"
	case 16:
		return "↓"
	case 17:
		return "→"
	case 18:
		return "←"
	}
	return ""
}

// TileLabel 格式为 "<name>[ <arrow>] (<id>)"，未定义的 id 名称为 "Unknown"。
func TileLabel(tiles map[int]string, id int) string {
	name, ok := tiles[id]
	if !ok {
		name = "Unknown"
	}
	if a := Arrow(id); a != "" {
		name += " " + a
	}
	return fmt.Sprintf("%s (%d)", name, id)
}

// EntityLabel 是格子上实体的显示文本：第一个实体的名称（没有定义时用 id），
// 格子上不止一个实体时加 `*`。ids 为空返回空串。
func EntityLabel(spawns map[int]string, ids []int) string {
	if len(ids) == 0 {
		return ""
	}
	label, ok := spawns[ids[0]]
	if !ok {
		label = fmt.Sprint(ids[0])
	}
	if len(ids) > 1 {
		label += "*"
	}
	return label
}
