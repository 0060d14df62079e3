package domain

import (
	"bytes"
	"slices"
)

// Baseline 是加载时抓取的快照，只用来在保存时判断某个区段能否原样写回。
// 构造时复制所有输入；访问器返回内部切片，调用方不得修改。
type Baseline struct {
	prefix       []byte
	tileRegion   []byte
	entityRegion []byte
	tail         []byte
	tiles        []uint16
	spawns       []EntitySpawn
}

// NewBaseline 复制各区段。nil 区段表示没有缓存，保存时只能重新生成。
func NewBaseline(prefix, tileRegion, entityRegion, tail []byte, tiles []uint16, spawns []EntitySpawn) *Baseline {
	b := &Baseline{
		prefix:       bytes.Clone(prefix),
		tileRegion:   bytes.Clone(tileRegion),
		entityRegion: bytes.Clone(entityRegion),
		tail:         bytes.Clone(tail),
		tiles:        slices.Clone(tiles),
		spawns:       make([]EntitySpawn, len(spawns)),
	}
	for i, s := range spawns {
		if s.Group != nil {
			g := *s.Group
			g.Candidates = slices.Clone(g.Candidates)
			s.Group = &g
		}
		b.spawns[i] = s
	}
	return b
}

// Prefix 是 tile 区段之前的全部字节（header、两个文件名、两个保留 int32）。
func (b *Baseline) Prefix() []byte { return b.prefix }

// TileRegion 是所有 tile 层的原始字节。
func (b *Baseline) TileRegion() []byte { return b.tileRegion }

// EntityRegion 是实体列表的原始字节。
func (b *Baseline) EntityRegion() []byte { return b.entityRegion }

// Tail 是实体列表之后的未知数据。
func (b *Baseline) Tail() []byte { return b.tail }

// Tiles 是文件原生方向（未翻转）的第 0 层网格。
func (b *Baseline) Tiles() []uint16 { return b.tiles }

// Spawns 是文件原生坐标下、按文件顺序排列的实体记录。
func (b *Baseline) Spawns() []EntitySpawn { return b.spawns }
