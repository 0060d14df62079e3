package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "configs", "conf.yml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_读取文件并解析时长(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
http:
  port: 9100
  shutdown_timeout: 3s
log:
  level: debug
journal:
  driver: mysql
  dsn: "user:pw@tcp(127.0.0.1:3306)/levels"
  max_life: 30m
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.HTTP.Port != 9100 || c.HTTP.ShutdownTimeout != 3*time.Second || c.HTTP.Host != "127.0.0.1" {
		t.Fatalf("http=%+v", c.HTTP)
	}
	if c.Log.Level != "debug" || c.Journal.Driver != "mysql" || c.Journal.MaxLife != 30*time.Minute {
		t.Fatalf("config=%+v", c)
	}
	if c.Defs.TilesFile != "tiles.gon" || !c.Defs.Watch {
		t.Fatalf("defs 默认值错误: %+v", c.Defs)
	}
}

func TestLoad_指定文件不存在(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestFindConfigUpward(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "http:\n  port: 1\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if got := findConfigUpward(nested); got != want {
		t.Fatalf("got=%q want=%q", got, want)
	}
}

func TestLoader_命令行参数覆盖(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "http:\n  port: 9100\n")
	l, err := NewLoader(path)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 0, "")
	if err := flags.Parse([]string{"--port", "7000"}); err != nil {
		t.Fatal(err)
	}
	if err := l.BindFlags(flags, map[string]string{"http.port": "port"}); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	c, err := l.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if c.HTTP.Port != 7000 {
		t.Fatalf("port=%d", c.HTTP.Port)
	}
	if err := l.BindFlags(flags, map[string]string{"http.host": "host"}); err == nil {
		t.Fatalf("未定义的 flag 应返回错误")
	}
}
