package app

import "LevelEditor/modules/kit/errx"

// Code 表示应用层错误码。
type Code = errx.Code

const (
	CodePathRequired  Code = "EDITOR_PATH_REQUIRED"
	CodeInvalidNumber Code = "EDITOR_INVALID_NUMBER"
	CodeLevelNotFound Code = "EDITOR_LEVEL_NOT_FOUND"
	CodeUnavailable   Code = errx.CodeUnavailable
)

// 哨兵错误：禁止直接修改其 data/cause（通过 WithData/WithCause 派生新对象）。
var (
	ErrPathRequired  = errx.NewInput(CodePathRequired, "没有保存路径")
	ErrInvalidNumber = errx.NewInput(CodeInvalidNumber, "无效的实体 id/extra")
	ErrLevelNotFound = errx.NewInput(CodeLevelNotFound, "关卡文件不存在")
	ErrUnavailable   = errx.ErrUnavailable
)
