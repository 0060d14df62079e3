package logs

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	glogger "gorm.io/gorm/logger"

	"LevelEditor/internal/shared/config"
	"LevelEditor/modules/kit/logx"
	"LevelEditor/modules/kit/tracex"
)

func TestInit_写文件并支持动态级别(t *testing.T) {
	file := filepath.Join(t.TempDir(), "editor.log")
	if err := Init("test", config.LogConfig{FileDir: file, Level: "warn"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { SetLevel("info") })

	if Zap().Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("warn 级别下 info 不应输出")
	}
	SetLevel("DEBUG")
	if !Zap().Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("SetLevel 未生效")
	}
	SetLevel("nonsense")
	if Zap().Core().Enabled(zapcore.DebugLevel) || !Zap().Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("非法级别应回退到 info")
	}
	if Logger() == nil {
		t.Fatalf("Logger() 不应为 nil")
	}
	Sync()
}

func TestGormLogger_Trace(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(logx.NewZapLogger(zap.New(core)), glogger.Warn, 10*time.Millisecond)

	ctx := tracex.WithTraceID(context.Background(), "trace-1")
	sql := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(ctx, time.Now(), sql, nil)
	if recorded.Len() != 0 {
		t.Fatalf("warn 级别下正常 SQL 不应记录")
	}
	gl.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
	gl.Trace(ctx, time.Now(), sql, errors.New("boom"))
	gl.Trace(ctx, time.Now(), sql, glogger.ErrRecordNotFound)

	entries := recorded.All()
	if len(entries) != 2 {
		t.Fatalf("entries=%d", len(entries))
	}
	if entries[0].Message != "gorm slow query" || entries[1].Message != "gorm trace error" {
		t.Fatalf("messages=%q,%q", entries[0].Message, entries[1].Message)
	}
	if entries[1].ContextMap()["trace_id"] != "trace-1" {
		t.Fatalf("缺少 trace_id: %v", entries[1].ContextMap())
	}

	silent := gl.LogMode(glogger.Silent)
	silent.Trace(ctx, time.Now(), sql, errors.New("boom"))
	if recorded.Len() != 2 {
		t.Fatalf("Silent 模式不应记录")
	}
}
