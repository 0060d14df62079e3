package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger 是各模块共用的日志接口。WithContext 从 ctx 取 trace_id，With 给子模块挂固定字段。
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	WithContext(ctx context.Context) Logger
	With(fields ...zap.Field) Logger
}

// Nop 返回丢弃所有输出的 Logger。
func Nop() Logger {
	return NewZapLogger(nil)
}

// Component 返回带 component 字段的子 Logger，l 为 nil 时返回 Nop。
func Component(l Logger, name string) Logger {
	if l == nil {
		return Nop()
	}
	return l.With(zap.String("component", name))
}
