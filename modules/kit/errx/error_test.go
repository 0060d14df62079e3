package errx

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Is_只按code比较(t *testing.T) {
	e1 := NewInput("LEVEL_X", "x").WithData("offset", 4)
	e2 := NewInput("LEVEL_X", "y").WithCause(errors.New("other"))
	if !errors.Is(e1, e2) {
		t.Fatalf("期望按 code 匹配, e1=%v e2=%v", e1, e2)
	}
	if errors.Is(e1, NewInput("LEVEL_Y", "x")) {
		t.Fatalf("不同 code 不应匹配")
	}
}

func TestError_输入类错误不捕获栈(t *testing.T) {
	cause := errors.New("short read")
	err := NewInput("LEVEL_TRUNCATED", "").WithCause(cause)
	if err.Stack() != nil {
		t.Fatalf("输入类错误不应捕获栈")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause 链丢失, err=%v", err)
	}
	if !err.IsInput() {
		t.Fatalf("期望 IsInput() == true")
	}
}

func TestError_系统错误只捕获一次栈(t *testing.T) {
	sys := ErrUnavailable.WithCause(errors.New("disk full"))
	if len(sys.Stack()) == 0 {
		t.Fatalf("期望系统错误捕获栈")
	}
	outer := ErrInternal.WithCause(sys)
	if outer.Stack() != nil {
		t.Fatalf("cause 链里已有栈，上层不应重复捕获")
	}
}

func TestError_WithData_不污染哨兵(t *testing.T) {
	m := map[string]any{"len": 3}
	err := ErrReqParamERR.WithDataMap(m)
	m["len"] = 99
	if ErrReqParamERR.Data() != nil {
		t.Fatalf("哨兵错误被污染: %v", ErrReqParamERR.Data())
	}
	if got := err.Data()["len"]; got != 3 {
		t.Fatalf("期望构造时复制 data, got=%v", got)
	}
}

func TestCodeOf_穿透fmt包装(t *testing.T) {
	err := fmt.Errorf("load: %w", NewInput("LEVEL_DIMENSION", "bad size"))
	if got := CodeOf(err); got != "LEVEL_DIMENSION" {
		t.Fatalf("CodeOf=%q", got)
	}
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Fatalf("普通错误应返回空串, got=%q", got)
	}
	if !strings.Contains(err.Error(), "bad size") {
		t.Fatalf("错误信息缺失 msg: %v", err)
	}
}
