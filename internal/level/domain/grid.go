package domain

const (
	// GridSize 是唯一支持的关卡边长（10×10）。
	GridSize = 10
	// GridCells 是一层 tile 的格子数。
	GridCells = GridSize * GridSize

	// Sentinel 原始 id 等于它时，后面紧跟一个 RandomGroup。
	Sentinel uint16 = 0xFFFF

	// EmptyTile 清除格子时写入的 tile id。
	EmptyTile uint16 = 0
)

// Pos 是编辑器坐标系下的格子位置，原点在左下角。
type Pos struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// InGrid 判断 (x, y) 是否落在 width×height 范围内。
func InGrid(x, y, width, height int) bool {
	return x >= 0 && x < width && y >= 0 && y < height
}

// FlipY 在文件坐标（原点左上）和编辑器坐标（原点左下）之间转换，两个方向用同一个公式。
func FlipY(y, height int) int {
	return height - 1 - y
}

// FlipRows 返回上下翻转后的行主序网格，原切片不变。对同一网格调用两次得到原网格。
func FlipRows(grid []uint16, width, height int) []uint16 {
	out := make([]uint16, len(grid))
	for y := 0; y < height; y++ {
		src := FlipY(y, height) * width
		copy(out[y*width:(y+1)*width], grid[src:src+width])
	}
	return out
}
