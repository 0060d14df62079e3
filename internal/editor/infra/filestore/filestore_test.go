package filestore

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"

	"LevelEditor/internal/editor/app"
)

func TestStore_读写与列表(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(fs, "/levels")
	ctx := context.Background()

	if err := s.Write(ctx, "world1/a.lvl", []byte{1, 2, 3}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Write(ctx, "b.LVL", []byte{4}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	_ = afero.WriteFile(fs, "/levels/notes.txt", []byte("x"), 0o644)

	data, err := s.Read(ctx, "world1/a.lvl")
	if err != nil || string(data) != "\x01\x02\x03" {
		t.Fatalf("Read=%v,%v", data, err)
	}
	if ok, _ := afero.Exists(fs, "/levels/world1/a.lvl.tmp"); ok {
		t.Fatalf("临时文件应已改名")
	}

	names, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 || names[0] != "b.LVL" || names[1] != "world1/a.lvl" {
		t.Fatalf("names=%v", names)
	}

	abs, err := s.Read(ctx, "/levels/b.LVL")
	if err != nil || len(abs) != 1 {
		t.Fatalf("绝对路径读取失败: %v", err)
	}
}

func TestStore_文件不存在(t *testing.T) {
	s := New(afero.NewMemMapFs(), "/missing")
	if _, err := s.Read(context.Background(), "a.lvl"); !errors.Is(err, app.ErrLevelNotFound) {
		t.Fatalf("err=%v", err)
	}
	names, err := s.List(context.Background())
	if err != nil || len(names) != 0 {
		t.Fatalf("names=%v err=%v", names, err)
	}
}
