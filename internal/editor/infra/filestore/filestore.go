package filestore

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"LevelEditor/internal/editor/app"
)

// LevelExt 是关卡文件的扩展名，List 只列出这一类文件。
const LevelExt = ".lvl"

// Store 在 afero 文件系统上读写关卡文件。相对路径以 root 为根，绝对路径原样使用。
type Store struct {
	fs   afero.Fs
	root string
}

func New(fsys afero.Fs, root string) *Store {
	if root == "" {
		root = "."
	}
	return &Store{fs: fsys, root: root}
}

// NewOS 返回读写本地磁盘的 Store。
func NewOS(root string) *Store {
	return New(afero.NewOsFs(), root)
}

func (s *Store) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.root, path)
}

func (s *Store) Read(ctx context.Context, path string) ([]byte, error) {
	full := s.resolve(path)
	data, err := afero.ReadFile(s.fs, full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, app.ErrLevelNotFound.WithData("path", path)
	}
	return data, err
}

// Write 先写临时文件再改名，避免写到一半的文件覆盖原关卡。
func (s *Store) Write(ctx context.Context, path string, data []byte) error {
	full := s.resolve(path)
	if err := s.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	tmp := full + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return err
	}
	if err := s.fs.Rename(tmp, full); err != nil {
		_ = s.fs.Remove(tmp)
		return err
	}
	return nil
}

// List 递归列出 root 下的 .lvl 文件，返回相对 root 的路径，按字典序排列。
func (s *Store) List(ctx context.Context) ([]string, error) {
	var out []string
	err := afero.Walk(s.fs, s.root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.EqualFold(filepath.Ext(path), LevelExt) {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	slices.Sort(out)
	return out, nil
}
