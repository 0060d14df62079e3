package app

import (
	"LevelEditor/internal/level/codec"
	"LevelEditor/internal/level/domain"
)

// CellView 是一个格子的显示信息，坐标是编辑器坐标（0,0 在左下）。
type CellView struct {
	X           int                `json:"x"`
	Y           int                `json:"y"`
	Tile        uint16             `json:"tile"`
	TileLabel   string             `json:"tile_label"`
	Color       string             `json:"color"`
	Arrow       string             `json:"arrow,omitempty"`
	Entities    []domain.Placement `json:"entities,omitempty"`
	EntityLabel string             `json:"entity_label,omitempty"`
}

// LevelView 是当前关卡的快照。Cells 按行优先，从 y=0 开始。
type LevelView struct {
	Path   string        `json:"path"`
	Loaded bool          `json:"loaded"`
	Header domain.Header `json:"header"`
	Status string        `json:"status"`
	Cells  []CellView    `json:"cells"`
}

// SaveResult 是一次保存的结果。
type SaveResult struct {
	Path   string              `json:"path"`
	Report *codec.EncodeReport `json:"report"`
}

// LoadResult 是一次加载的结果。
type LoadResult struct {
	Path       string       `json:"path"`
	Status     string       `json:"status"`
	Layout     codec.Layout `json:"layout"`
	TileGroups int          `json:"tile_groups"`
	Stray      int          `json:"stray"`
}
