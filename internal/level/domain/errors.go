package domain

import "LevelEditor/modules/kit/errx"

// Code 复用 kit 的错误码类型。
type Code = errx.Code

const (
	CodeOutOfGrid  Code = "LEVEL_OUT_OF_GRID"
	CodeReservedID Code = "LEVEL_RESERVED_ID"
)

// ErrOutOfGrid 编辑坐标不在网格内。
var ErrOutOfGrid = errx.NewInput(CodeOutOfGrid, "坐标超出网格")

// ErrReservedID 编辑时不能直接写入 Sentinel，它在文件里表示后面跟着一个 RandomGroup。
var ErrReservedID = errx.NewInput(CodeReservedID, "id 0xFFFF 是保留值")

func outOfGrid(x, y, width, height int) error {
	return ErrOutOfGrid.WithDataMap(map[string]any{
		"x": x, "y": y, "width": width, "height": height,
	})
}

func reservedID(x, y int) error {
	return ErrReservedID.WithDataMap(map[string]any{"x": x, "y": y, "id": Sentinel})
}
