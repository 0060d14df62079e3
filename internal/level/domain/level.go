package domain

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
)

// Header 是关卡文件头里语义已知的字段。Camera 和 Reserved 只做透传记录。
type Header struct {
	Version     int32    `json:"version" yaml:"version"`
	Width       int32    `json:"width" yaml:"width"`
	Height      int32    `json:"height" yaml:"height"`
	LayerCount  int32    `json:"layer_count" yaml:"layer_count"`
	EntityCount int32    `json:"entity_count" yaml:"entity_count"`
	Camera      [4]int32 `json:"camera" yaml:"camera"`
	SpawnFile   string   `json:"spawn_file" yaml:"spawn_file"`
	TilesFile   string   `json:"tiles_file" yaml:"tiles_file"`
	Reserved    [2]int32 `json:"reserved" yaml:"reserved"`
}

// Level 是编辑器使用的关卡模型。
//
// 坐标约定：Tiles 的第 0 行是最下面一行，entities 的 key 也是编辑器坐标；
// 文件原生方向只出现在 Baseline 和 FileTiles/FileSpawns 的返回值里。
// Level 不是并发安全的，调用方自己保证独占。
type Level struct {
	Path   string
	Header Header
	Tiles  []uint16

	entities map[Pos][]Placement
	stray    []EntitySpawn // 文件中落在网格外的实体，编辑器不可见，保存时原样写回
	baseline *Baseline
}

// NewLevel 创建一个空白的 10×10 关卡，没有 Baseline，不能直接保存。
func NewLevel() *Level {
	return &Level{
		Header: Header{
			Version:    2,
			Width:      GridSize,
			Height:     GridSize,
			LayerCount: 1,
		},
		Tiles:    make([]uint16, GridCells),
		entities: make(map[Pos][]Placement),
	}
}

// NewLoadedLevel 组装一个从文件解码出的关卡。tiles 必须已经是编辑器方向；
// spawns 是文件坐标、文件顺序的实体记录，这里完成翻转并按格子归组。
func NewLoadedLevel(path string, h Header, tiles []uint16, spawns []EntitySpawn, b *Baseline) *Level {
	l := &Level{
		Path:     path,
		Header:   h,
		Tiles:    tiles,
		entities: make(map[Pos][]Placement),
		baseline: b,
	}
	for _, s := range spawns {
		x, y := int(s.X), FlipY(int(s.Y), l.Height())
		if !InGrid(x, y, l.Width(), l.Height()) {
			l.stray = append(l.stray, EntitySpawn{X: s.X, Y: s.Y, ID: s.ID, Wave: s.Wave})
			continue
		}
		p := Pos{X: x, Y: y}
		l.entities[p] = append(l.entities[p], Placement{ID: s.ID, Extra: int(s.Wave)})
	}
	return l
}

func (l *Level) Width() int  { return int(l.Header.Width) }
func (l *Level) Height() int { return int(l.Header.Height) }

// Baseline 返回加载快照；新建关卡返回 nil。
func (l *Level) Baseline() *Baseline { return l.baseline }

// Loaded 表示关卡是否来自文件（有 Baseline，可以保存）。
func (l *Level) Loaded() bool { return l.baseline != nil && l.baseline.prefix != nil }

func (l *Level) check(x, y int) error {
	if !InGrid(x, y, l.Width(), l.Height()) {
		return outOfGrid(x, y, l.Width(), l.Height())
	}
	return nil
}

func (l *Level) checkWrite(x, y int, id uint16) error {
	if err := l.check(x, y); err != nil {
		return err
	}
	if id == Sentinel {
		return reservedID(x, y)
	}
	return nil
}

func (l *Level) TileAt(x, y int) (uint16, error) {
	if err := l.check(x, y); err != nil {
		return 0, err
	}
	return l.Tiles[y*l.Width()+x], nil
}

func (l *Level) SetTile(x, y int, id uint16) error {
	if err := l.checkWrite(x, y, id); err != nil {
		return err
	}
	l.Tiles[y*l.Width()+x] = id
	return nil
}

// ClearTile 把格子恢复为 EmptyTile。
func (l *Level) ClearTile(x, y int) error {
	return l.SetTile(x, y, EmptyTile)
}

// PlaceEntity 用单个实体替换格子上已有的所有实体。
func (l *Level) PlaceEntity(x, y int, id uint16, extra int) error {
	if err := l.checkWrite(x, y, id); err != nil {
		return err
	}
	l.entities[Pos{X: x, Y: y}] = []Placement{{ID: id, Extra: extra}}
	return nil
}

// AddEntity 在格子末尾追加一个实体，保留已有实体的顺序。
func (l *Level) AddEntity(x, y int, id uint16, extra int) error {
	if err := l.checkWrite(x, y, id); err != nil {
		return err
	}
	p := Pos{X: x, Y: y}
	l.entities[p] = append(l.entities[p], Placement{ID: id, Extra: extra})
	return nil
}

// ClearEntities 删除格子上的全部实体，返回是否有实体被删除。
func (l *Level) ClearEntities(x, y int) (bool, error) {
	if err := l.check(x, y); err != nil {
		return false, err
	}
	p := Pos{X: x, Y: y}
	_, ok := l.entities[p]
	delete(l.entities, p)
	return ok, nil
}

// EntitiesAt 返回格子上实体列表的拷贝。
func (l *Level) EntitiesAt(x, y int) []Placement {
	return slices.Clone(l.entities[Pos{X: x, Y: y}])
}

// Cells 返回所有有实体的格子，按编辑器坐标 (y, x) 升序。
func (l *Level) Cells() []Pos {
	cells := slices.Collect(maps.Keys(l.entities))
	slices.SortFunc(cells, func(a, b Pos) int {
		return cmp.Or(cmp.Compare(a.Y, b.Y), cmp.Compare(a.X, b.X))
	})
	return cells
}

// StrayCount 返回网格外实体的数量。
func (l *Level) StrayCount() int {
	return len(l.stray)
}

func (l *Level) EntityCount() int {
	n := 0
	for _, list := range l.entities {
		n += len(list)
	}
	return n
}

// Status 是编辑器状态栏文本。
func (l *Level) Status() string {
	return fmt.Sprintf("Tiles: %d  Entities: %d", len(l.Tiles), l.EntityCount())
}

// FileTiles 返回翻回文件原生方向的网格。
func (l *Level) FileTiles() []uint16 {
	return FlipRows(l.Tiles, l.Width(), l.Height())
}

// FileSpawns 把实体表翻回文件坐标并展开成记录列表：
// 按文件坐标 (y, x) 升序，同一格子内保持插入顺序。Extra 只保留低 8 位。
func (l *Level) FileSpawns() []EntitySpawn {
	out := make([]EntitySpawn, 0, l.EntityCount()+len(l.stray))
	for p, list := range l.entities {
		fy := int16(FlipY(p.Y, l.Height()))
		for _, e := range list {
			out = append(out, EntitySpawn{X: int16(p.X), Y: fy, ID: e.ID, Wave: uint8(e.Extra & 0xFF)})
		}
	}
	out = append(out, l.stray...)
	slices.SortStableFunc(out, func(a, b EntitySpawn) int {
		return cmp.Or(cmp.Compare(a.Y, b.Y), cmp.Compare(a.X, b.X))
	})
	return out
}
