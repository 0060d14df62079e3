package codec

import "LevelEditor/modules/kit/errx"

type Code = errx.Code

const (
	CodeTruncated Code = "LEVEL_TRUNCATED"
	CodeDimension Code = "LEVEL_DIMENSION"
	CodeNotLoaded Code = "LEVEL_NOT_LOADED"
)

// 哨兵错误，通过 WithData 携带上下文。
var (
	// ErrTruncated 读取越过缓冲区末尾，data: offset/want/len。
	ErrTruncated = errx.NewInput(CodeTruncated, "关卡数据被截断")
	// ErrDimension 宽高不是 10×10，或网格长度不等于宽×高。
	ErrDimension = errx.NewInput(CodeDimension, "只支持 10x10 关卡")
	// ErrNotLoaded 没有加载快照的关卡不能保存。
	ErrNotLoaded = errx.NewInput(CodeNotLoaded, "未加载关卡文件")
)

func outOfBounds(offset, want, length int) error {
	return ErrTruncated.WithDataMap(map[string]any{
		"offset": offset,
		"want":   want,
		"len":    length,
	})
}
