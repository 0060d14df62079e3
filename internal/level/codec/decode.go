package codec

import (
	"fmt"

	"LevelEditor/internal/level/domain"
)

// HeaderSize 是 9 个 int32 头字段的字节数；EntityCountOffset 是实体数量字段的位置。
const (
	HeaderSize        = 36
	EntityCountOffset = 16
)

// Layout 记录解码时各区段的起止位置，供诊断工具使用。
type Layout struct {
	TileStart   int `json:"tile_start" yaml:"tile_start"`
	EntityStart int `json:"entity_start" yaml:"entity_start"`
	EntityEnd   int `json:"entity_end" yaml:"entity_end"`
	Size        int `json:"size" yaml:"size"`
}

// Decoded 是一次完整解码的结果：编辑模型 + 文件原生视角的附加信息。
type Decoded struct {
	Level  *domain.Level
	Layout Layout
	// Spawns 是文件顺序、文件坐标的实体记录，带 RandomGroup。
	Spawns []domain.EntitySpawn
	// TileGroups 是第 0 层中用 RandomGroup 编码的格子数。
	TileGroups int
}

// Decode 解析一个关卡文件。任何错误都不会返回部分结果。
func Decode(data []byte) (*domain.Level, error) {
	d, err := DecodeDetailed(data)
	if err != nil {
		return nil, err
	}
	return d.Level, nil
}

// DecodeDetailed 与 Decode 相同，额外返回区段位置和原始实体记录。
//
// 读取顺序就是文件顺序，每个字段的长度决定下一个字段的起点，
// 所以即使只用第 0 层，其余层也必须完整解析。
func DecodeDetailed(data []byte) (*Decoded, error) {
	r := NewReader(data)

	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	layout := Layout{TileStart: r.Offset(), Size: len(data)}
	width, height := int(h.Width), int(h.Height)

	var grid []uint16
	tileGroups := 0
	for layer := 0; layer < int(max(0, h.LayerCount)); layer++ {
		values, groups, err := readLayer(r, width, height)
		if err != nil {
			return nil, fmt.Errorf("read layer %d: %w", layer, err)
		}
		if layer == 0 {
			grid, tileGroups = values, groups
		}
	}
	if grid == nil {
		grid = make([]uint16, width*height)
	}

	layout.EntityStart = r.Offset()
	// 容量按剩余字节估算上限，避免伪造的超大数量直接申请内存
	spawns := make([]domain.EntitySpawn, 0, min(int(max(0, h.EntityCount)), len(r.Remaining())/domain.EntityRecordSize))
	for i := 0; i < int(max(0, h.EntityCount)); i++ {
		s, err := readSpawn(r)
		if err != nil {
			return nil, fmt.Errorf("read entity %d: %w", i, err)
		}
		spawns = append(spawns, s)
	}
	layout.EntityEnd = r.Offset()

	baseline := domain.NewBaseline(
		data[:layout.TileStart],
		data[layout.TileStart:layout.EntityStart],
		data[layout.EntityStart:layout.EntityEnd],
		r.Remaining(),
		grid,
		spawns,
	)

	lvl := domain.NewLoadedLevel("", h, domain.FlipRows(grid, width, height), spawns, baseline)
	return &Decoded{
		Level:      lvl,
		Layout:     layout,
		Spawns:     spawns,
		TileGroups: tileGroups,
	}, nil
}

func readHeader(r *Reader) (domain.Header, error) {
	var h domain.Header
	fields := []*int32{
		&h.Version, &h.Width, &h.Height, &h.LayerCount, &h.EntityCount,
		&h.Camera[0], &h.Camera[1], &h.Camera[2], &h.Camera[3],
	}
	for _, f := range fields {
		v, err := r.Int32()
		if err != nil {
			return h, fmt.Errorf("read header: %w", err)
		}
		*f = v
	}
	if h.Width != domain.GridSize || h.Height != domain.GridSize {
		return h, ErrDimension.WithDataMap(map[string]any{
			"width":  h.Width,
			"height": h.Height,
			"want":   domain.GridSize,
		})
	}

	var err error
	if h.SpawnFile, err = readName(r); err != nil {
		return h, fmt.Errorf("read spawn file name: %w", err)
	}
	if h.TilesFile, err = readName(r); err != nil {
		return h, fmt.Errorf("read tiles file name: %w", err)
	}
	for i := range h.Reserved {
		if h.Reserved[i], err = r.Int32(); err != nil {
			return h, fmt.Errorf("read reserved: %w", err)
		}
	}
	return h, nil
}

// readName 读取 int32 长度前缀的字符串，负长度按 0 处理。
func readName(r *Reader) (string, error) {
	n, err := r.Int32()
	if err != nil {
		return "", err
	}
	raw, err := r.Bytes(int(max(0, n)))
	if err != nil {
		return "", err
	}
	return decodeName(raw), nil
}

func readLayer(r *Reader, width, height int) ([]uint16, int, error) {
	values := make([]uint16, 0, width*height)
	groups := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			id, err := r.Uint16()
			if err != nil {
				return nil, 0, err
			}
			if id == domain.Sentinel {
				g, err := readGroup(r)
				if err != nil {
					return nil, 0, fmt.Errorf("cell (%d,%d): %w", x, y, err)
				}
				id = g.Resolve()
				groups++
			}
			values = append(values, id)
		}
	}
	return values, groups, nil
}

func readGroup(r *Reader) (*domain.RandomGroup, error) {
	count, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	roll, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	g := &domain.RandomGroup{RollIndex: roll, Candidates: make([]domain.Candidate, 0, count)}
	for i := 0; i < int(count); i++ {
		id, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		weight, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		g.Candidates = append(g.Candidates, domain.Candidate{ID: id, Weight: weight})
	}
	return g, nil
}

func readSpawn(r *Reader) (domain.EntitySpawn, error) {
	var s domain.EntitySpawn
	var err error
	if s.X, err = r.Int16(); err != nil {
		return s, err
	}
	if s.Y, err = r.Int16(); err != nil {
		return s, err
	}
	if s.ID, err = r.Uint16(); err != nil {
		return s, err
	}
	if s.Wave, err = r.Uint8(); err != nil {
		return s, err
	}
	if s.Reserved, err = r.Uint8(); err != nil {
		return s, err
	}
	if s.ID == domain.Sentinel {
		if s.Group, err = readGroup(r); err != nil {
			return s, err
		}
	}
	return s, nil
}
