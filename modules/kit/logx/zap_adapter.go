package logx

import (
	"context"

	"go.uber.org/zap"

	"LevelEditor/modules/kit/tracex"
)

// ZapLogger 把 *zap.Logger 适配为 Logger，nil 接收者按 Nop 处理。
type ZapLogger struct {
	logger *zap.Logger
}

var _ Logger = (*ZapLogger)(nil)

func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{logger: l}
}

func (z *ZapLogger) base() *zap.Logger {
	if z == nil || z.logger == nil {
		return zap.NewNop()
	}
	return z.logger
}

func (z *ZapLogger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return z
	}
	tid, ok := tracex.TraceIDFrom(ctx)
	if !ok {
		return z
	}
	return &ZapLogger{logger: z.base().With(zap.String(tracex.Field, tid))}
}

func (z *ZapLogger) With(fields ...zap.Field) Logger {
	if len(fields) == 0 {
		return z
	}
	return &ZapLogger{logger: z.base().With(fields...)}
}

func (z *ZapLogger) Debug(msg string, fields ...zap.Field) {
	z.base().Debug(msg, fields...)
}

func (z *ZapLogger) Info(msg string, fields ...zap.Field) {
	z.base().Info(msg, fields...)
}

func (z *ZapLogger) Warn(msg string, fields ...zap.Field) {
	z.base().Warn(msg, fields...)
}

func (z *ZapLogger) Error(msg string, fields ...zap.Field) {
	z.base().Error(msg, fields...)
}

// Zap 返回底层 *zap.Logger，给 gorm 之类需要原生 zap 的地方用。
func (z *ZapLogger) Zap() *zap.Logger {
	return z.base()
}
