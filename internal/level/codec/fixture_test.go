package codec

import "LevelEditor/internal/level/domain"

// cell 是测试用的一个 tile 格子；group 非 nil 时写成哨兵 + RandomGroup。
type cell struct {
	id    uint16
	group *domain.RandomGroup
}

type fixture struct {
	version   int32
	width     int32
	height    int32
	camera    [4]int32
	spawnName []byte
	tilesName []byte
	reserved  [2]int32
	layers    [][]cell
	spawns    []domain.EntitySpawn
	tail      []byte
}

func newFixture() fixture {
	return fixture{
		version:   2,
		width:     domain.GridSize,
		height:    domain.GridSize,
		camera:    [4]int32{0, 0, 320, 240},
		spawnName: []byte("spawns.gon"),
		tilesName: []byte("tiles.gon"),
		reserved:  [2]int32{7, -1},
		layers:    [][]cell{plainLayer(func(i int) uint16 { return uint16(i % 27) })},
	}
}

func plainLayer(f func(i int) uint16) []cell {
	out := make([]cell, domain.GridCells)
	for i := range out {
		out[i] = cell{id: f(i)}
	}
	return out
}

func writeGroup(w *Writer, g *domain.RandomGroup) {
	w.Uint8(uint8(len(g.Candidates)))
	w.Uint8(g.RollIndex)
	for _, c := range g.Candidates {
		w.Uint16(c.ID)
		w.Uint16(c.Weight)
	}
}

func (f fixture) bytes() []byte {
	w := NewWriter(512)
	w.Int32(f.version)
	w.Int32(f.width)
	w.Int32(f.height)
	w.Int32(int32(len(f.layers)))
	w.Int32(int32(len(f.spawns)))
	for _, v := range f.camera {
		w.Int32(v)
	}
	w.Int32(int32(len(f.spawnName)))
	w.Append(f.spawnName)
	w.Int32(int32(len(f.tilesName)))
	w.Append(f.tilesName)
	w.Int32(f.reserved[0])
	w.Int32(f.reserved[1])
	for _, layer := range f.layers {
		for _, c := range layer {
			if c.group != nil {
				w.Uint16(domain.Sentinel)
				writeGroup(w, c.group)
				continue
			}
			w.Uint16(c.id)
		}
	}
	for _, s := range f.spawns {
		w.Int16(s.X)
		w.Int16(s.Y)
		w.Uint16(s.ID)
		w.Uint8(s.Wave)
		w.Uint8(s.Reserved)
		if s.ID == domain.Sentinel {
			writeGroup(w, s.Group)
		}
	}
	w.Append(f.tail)
	return w.Bytes()
}

// prefixLen 是 tile 区段的起点。
func (f fixture) prefixLen() int {
	return HeaderSize + 4 + len(f.spawnName) + 4 + len(f.tilesName) + 8
}

// richFixture 覆盖多层、tile 和实体的 RandomGroup、保留字节与 tail。
func richFixture() fixture {
	f := newFixture()
	f.layers[0][0] = cell{group: &domain.RandomGroup{RollIndex: 5, Candidates: []domain.Candidate{{ID: 3, Weight: 1}, {ID: 8, Weight: 2}}}}
	f.layers[0][95] = cell{group: &domain.RandomGroup{RollIndex: 9}}
	second := plainLayer(func(i int) uint16 { return 500 })
	second[42] = cell{group: &domain.RandomGroup{RollIndex: 0, Candidates: []domain.Candidate{{ID: 600, Weight: 10}}}}
	f.layers = append(f.layers, second)
	f.spawns = []domain.EntitySpawn{
		{X: 3, Y: 1, ID: 2050, Wave: 2, Reserved: 0xAB},
		{X: 3, Y: 1, ID: 2051, Wave: 3},
		{X: 0, Y: 9, ID: domain.Sentinel, Wave: 1, Group: &domain.RandomGroup{RollIndex: 1, Candidates: []domain.Candidate{{ID: 2060, Weight: 5}, {ID: 2061, Weight: 5}}}},
	}
	f.tail = []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x01}
	return f
}
