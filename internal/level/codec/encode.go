package codec

import (
	"slices"

	"LevelEditor/internal/level/domain"
)

// EncodeReport 说明一次编码中哪些区段原样写回、哪些重新生成以及因此丢失了什么。
//
// 重新生成是有损的：tile 区段只写第 0 层的定长格子，实体区段只写定长记录，
// 原文件中的其它层和 RandomGroup 信息无法从编辑模型恢复。
type EncodeReport struct {
	TilesPassthrough    bool `json:"tiles_passthrough"`
	EntitiesPassthrough bool `json:"entities_passthrough"`
	EntityCount         int  `json:"entity_count"`
	// DroppedLayers 是重新生成 tile 区段时丢弃的额外层数（头部 layerCount 不会改写）。
	DroppedLayers int `json:"dropped_layers"`
	// DroppedEntityGroups 是重新生成实体区段时丢失的实体 RandomGroup 数。
	DroppedEntityGroups int `json:"dropped_entity_groups"`
	// TileRegionChanged 是 tile 区段是否与加载时字节不同（重新生成后也可能恰好相同）。
	TileRegionChanged bool `json:"tile_region_changed"`
	Size              int  `json:"size"`
}

// Lossy 表示这次保存是否丢弃了原文件中的结构信息。
func (r *EncodeReport) Lossy() bool {
	return r.DroppedLayers > 0 || r.DroppedEntityGroups > 0
}

// Encode 把关卡写回文件字节：prefix + tile 区段 + 实体区段 + tail，
// 没有语义变化的区段使用加载时缓存的原始字节，最后回填头部的实体数量。
func Encode(l *domain.Level) ([]byte, *EncodeReport, error) {
	if l == nil || !l.Loaded() {
		return nil, nil, ErrNotLoaded
	}
	b := l.Baseline()
	if len(l.Tiles) != l.Width()*l.Height() || len(l.Tiles) != domain.GridCells {
		return nil, nil, ErrDimension.WithDataMap(map[string]any{
			"tiles": len(l.Tiles),
			"want":  domain.GridCells,
		})
	}

	report := &EncodeReport{}
	spawns := l.FileSpawns()
	report.EntityCount = len(spawns)

	tiles := l.FileTiles()
	var tileBytes []byte
	// nil 区段表示加载时没有抓取；长度为 0 的区段（layerCount==0）同样可以原样写回
	if slices.Equal(tiles, b.Tiles()) && b.TileRegion() != nil {
		tileBytes = b.TileRegion()
		report.TilesPassthrough = true
	} else {
		tileBytes = encodeTiles(tiles)
		report.DroppedLayers = max(0, int(l.Header.LayerCount)-1)
		report.TileRegionChanged = !slices.Equal(tileBytes, b.TileRegion())
	}

	var entityBytes []byte
	if domain.SameSpawns(spawns, b.Spawns()) && b.EntityRegion() != nil {
		entityBytes = b.EntityRegion()
		report.EntitiesPassthrough = true
	} else {
		entityBytes = encodeSpawns(spawns)
		for _, s := range b.Spawns() {
			if s.Group != nil {
				report.DroppedEntityGroups++
			}
		}
	}

	w := NewWriter(len(b.Prefix()) + len(tileBytes) + len(entityBytes) + len(b.Tail()))
	w.Append(b.Prefix())
	w.Append(tileBytes)
	w.Append(entityBytes)
	w.Append(b.Tail())
	if err := w.PatchUint32At(EntityCountOffset, uint32(len(spawns))); err != nil {
		return nil, nil, err
	}

	out := w.Bytes()
	report.Size = len(out)
	return out, report, nil
}

// encodeTiles 生成只含第 0 层的 tile 区段，每格一个 uint16。
func encodeTiles(tiles []uint16) []byte {
	w := NewWriter(len(tiles) * 2)
	for _, id := range tiles {
		w.Uint16(id)
	}
	return w.Bytes()
}

// encodeSpawns 生成定长实体记录：x y id extra reserved(0)。
func encodeSpawns(spawns []domain.EntitySpawn) []byte {
	w := NewWriter(len(spawns) * domain.EntityRecordSize)
	for _, s := range spawns {
		w.Int16(s.X)
		w.Int16(s.Y)
		w.Uint16(s.ID)
		w.Uint8(s.Wave)
		w.Uint8(0)
	}
	return w.Bytes()
}
