package logx

import (
	"context"
	"errors"
	"testing"

	"LevelEditor/modules/kit/errx"
	"LevelEditor/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildErrorLog_提取语义与栈(t *testing.T) {
	e := errx.NewSys("SERVICE_UNAVAILABLE", "存储不可用").
		WithData("path", "a.lvl").
		WithCause(errors.New("disk full"))

	meta := BuildErrorLog(e)
	if meta.Code != "SERVICE_UNAVAILABLE" || meta.Msg == "" {
		t.Fatalf("code/msg 缺失: %+v", meta)
	}
	if meta.Data["path"] != "a.lvl" {
		t.Fatalf("data 缺失: %v", meta.Data)
	}
	if len(meta.CauseChain) == 0 {
		t.Fatalf("cause 链为空")
	}
	if meta.Origin == "" || meta.Stack == "" {
		t.Fatalf("期望带发生处栈 origin=%q", meta.Origin)
	}
	if meta.Input {
		t.Fatalf("系统错误不应标记为 input")
	}
}

func TestReportError_输入类错误记WARN(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	ReportError(context.Background(), l, "load", errx.NewInput("LEVEL_TRUNCATED", "数据被截断"))
	ReportError(context.Background(), l, "save", errx.ErrUnavailable.WithCause(errors.New("eio")))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("期望 2 条日志, got=%d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("输入类错误应为 WARN, got=%v", entries[0].Level)
	}
	if entries[1].Level != zapcore.ErrorLevel {
		t.Fatalf("系统错误应为 ERROR, got=%v", entries[1].Level)
	}
}

func TestWithContext_带trace_id(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	ctx := tracex.WithTraceID(context.Background(), "abc")
	ReportAccess(ctx, l, "GET /level", 0)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("期望 1 条日志, got=%d", len(entries))
	}
	if got := entries[0].ContextMap()["trace_id"]; got != "abc" {
		t.Fatalf("trace_id=%v", got)
	}
}
